package seq

// SequenceBlock is an alphabet-tagged collection of sequences used as the
// shared search target. It is built once before a run and must be treated
// as read-only while workers reference it; with that discipline no locking
// is needed anywhere on the read path.
type SequenceBlock struct {
	alphabet *Alphabet
	seqs     []*Sequence
}

// NewSequenceBlock creates an empty block over the given alphabet.
func NewSequenceBlock(alphabet *Alphabet) *SequenceBlock {
	return &SequenceBlock{alphabet: alphabet}
}

// NewSequenceBlockOf creates a block and appends the given sequences.
func NewSequenceBlockOf(alphabet *Alphabet, seqs ...*Sequence) (*SequenceBlock, error) {
	b := NewSequenceBlock(alphabet)
	for _, s := range seqs {
		if err := b.Append(s); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Append adds a sequence to the block. The sequence must share the block's
// alphabet.
func (b *SequenceBlock) Append(s *Sequence) error {
	if err := CheckAlphabet(b.alphabet, s.Alphabet()); err != nil {
		return err
	}
	b.seqs = append(b.seqs, s)
	return nil
}

// Alphabet returns the block's alphabet.
func (b *SequenceBlock) Alphabet() *Alphabet { return b.alphabet }

// Len returns the number of sequences in the block.
func (b *SequenceBlock) Len() int { return len(b.seqs) }

// At returns the i-th sequence.
func (b *SequenceBlock) At(i int) *Sequence { return b.seqs[i] }

// Residues returns the total residue count across the block.
func (b *SequenceBlock) Residues() int {
	total := 0
	for _, s := range b.seqs {
		total += s.Len()
	}
	return total
}
