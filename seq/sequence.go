package seq

import "errors"

// ErrEmptySequence is returned when a sequence has no residues.
var ErrEmptySequence = errors.New("sequence has no residues")

// Sequence is a named, digitized residue sequence.
type Sequence struct {
	Name        string
	Accession   string
	Description string

	alphabet *Alphabet
	residues []uint8
}

// NewSequence digitizes text into a Sequence over the given alphabet.
func NewSequence(alphabet *Alphabet, name, text string) (*Sequence, error) {
	if len(text) == 0 {
		return nil, ErrEmptySequence
	}
	residues, err := alphabet.Digitize(text)
	if err != nil {
		return nil, err
	}
	return &Sequence{Name: name, alphabet: alphabet, residues: residues}, nil
}

// Alphabet returns the sequence's alphabet.
func (s *Sequence) Alphabet() *Alphabet { return s.alphabet }

// Len returns the number of residues.
func (s *Sequence) Len() int { return len(s.residues) }

// Residues returns the digitized residues. The slice is shared, not copied;
// callers must treat it as read-only.
func (s *Sequence) Residues() []uint8 { return s.residues }

// Text renders the sequence back into letters, with '?' for wildcards.
func (s *Sequence) Text() string {
	out := make([]byte, len(s.residues))
	for i, r := range s.residues {
		if r == ResidueAny {
			out[i] = '?'
			continue
		}
		out[i] = s.alphabet.Symbol(int(r))
	}
	return string(out)
}
