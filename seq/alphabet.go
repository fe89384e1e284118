package seq

import (
	"fmt"
)

const (
	// ResidueAny is the wildcard residue. Letters outside the canonical
	// alphabet (ambiguity codes like N or X) digitize to it; scoring code
	// treats it as neutral.
	ResidueAny = 0xFF

	// ResidueGap marks an alignment gap in aligned (MSA) sequences.
	ResidueGap = 0xFE
)

// Alphabet maps residue letters to small integer indices. Instances are
// immutable; use the Amino, DNA and RNA constructors.
type Alphabet struct {
	name      string
	symbols   string
	anySymbol byte
	index     [256]int16
}

func newAlphabet(name, symbols string, anySymbol byte) *Alphabet {
	a := &Alphabet{name: name, symbols: symbols, anySymbol: anySymbol}
	for i := range a.index {
		a.index[i] = -1
	}
	for i := 0; i < len(symbols); i++ {
		upper := symbols[i]
		a.index[upper] = int16(i)
		a.index[upper|0x20] = int16(i) // lowercase
	}
	return a
}

var (
	amino = newAlphabet("amino", "ACDEFGHIKLMNPQRSTVWY", 'X')
	dna   = newAlphabet("dna", "ACGT", 'N')
	rna   = newAlphabet("rna", "ACGU", 'N')
)

// Amino returns the 20-letter amino acid alphabet.
func Amino() *Alphabet { return amino }

// DNA returns the 4-letter deoxyribonucleotide alphabet.
func DNA() *Alphabet { return dna }

// RNA returns the 4-letter ribonucleotide alphabet.
func RNA() *Alphabet { return rna }

// Name returns the alphabet name ("amino", "dna" or "rna").
func (a *Alphabet) Name() string { return a.name }

// Size returns the number of canonical residues.
func (a *Alphabet) Size() int { return len(a.symbols) }

// Symbol returns the canonical letter for residue index i.
func (a *Alphabet) Symbol(i int) byte { return a.symbols[i] }

// AnySymbol returns the conventional wildcard letter ('X' for amino, 'N'
// for nucleotides). It digitizes back to ResidueAny.
func (a *Alphabet) AnySymbol() byte { return a.anySymbol }

// Index returns the residue index for a letter, or false when the letter is
// not canonical.
func (a *Alphabet) Index(b byte) (uint8, bool) {
	i := a.index[b]
	if i < 0 {
		return 0, false
	}
	return uint8(i), true
}

// Equal reports whether two alphabets are the same.
func (a *Alphabet) Equal(other *Alphabet) bool {
	return a != nil && other != nil && a.name == other.name
}

// Digitize converts residue text into indices. Canonical letters map to
// their index, any other letter maps to ResidueAny, and anything that is
// not a letter is an error.
func (a *Alphabet) Digitize(text string) ([]uint8, error) {
	return a.digitize(text, false)
}

// DigitizeAligned is Digitize for aligned rows: the gap characters '-', '.'
// and '~' additionally map to ResidueGap.
func (a *Alphabet) DigitizeAligned(text string) ([]uint8, error) {
	return a.digitize(text, true)
}

func (a *Alphabet) digitize(text string, aligned bool) ([]uint8, error) {
	out := make([]uint8, 0, len(text))
	for i := 0; i < len(text); i++ {
		b := text[i]
		switch {
		case a.index[b] >= 0:
			out = append(out, uint8(a.index[b]))
		case b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b == '*':
			out = append(out, ResidueAny)
		case aligned && (b == '-' || b == '.' || b == '~'):
			out = append(out, ResidueGap)
		default:
			return nil, fmt.Errorf("invalid %s residue %q at position %d", a.name, b, i)
		}
	}
	return out, nil
}

// ByName returns the alphabet with the given name.
func ByName(name string) (*Alphabet, error) {
	switch name {
	case "amino":
		return amino, nil
	case "dna":
		return dna, nil
	case "rna":
		return rna, nil
	default:
		return nil, fmt.Errorf("unknown alphabet %q", name)
	}
}

// AlphabetMismatchError indicates that two collaborators do not share the
// same alphabet.
type AlphabetMismatchError struct {
	Expected string
	Actual   string
}

func (e *AlphabetMismatchError) Error() string {
	return fmt.Sprintf("alphabet mismatch: expected %s, got %s", e.Expected, e.Actual)
}

// CheckAlphabet returns an AlphabetMismatchError unless actual equals
// expected.
func CheckAlphabet(expected, actual *Alphabet) error {
	if !expected.Equal(actual) {
		return &AlphabetMismatchError{Expected: expected.Name(), Actual: actual.Name()}
	}
	return nil
}
