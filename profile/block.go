package profile

import (
	"github.com/hmmgo/hmmgo/seq"
)

// Block is an alphabet-tagged, read-only collection of optimized profiles,
// the shared target set for scan-mode searches. Like seq.SequenceBlock it
// must not be mutated while a run references it.
type Block struct {
	alphabet *seq.Alphabet
	profiles []*Optimized
}

// NewBlock creates an empty profile block.
func NewBlock(alphabet *seq.Alphabet) *Block {
	return &Block{alphabet: alphabet}
}

// NewBlockOf creates a block and appends the given profiles.
func NewBlockOf(alphabet *seq.Alphabet, profiles ...*Optimized) (*Block, error) {
	b := NewBlock(alphabet)
	for _, p := range profiles {
		if err := b.Append(p); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Append adds a profile to the block. The profile must share the block's
// alphabet.
func (b *Block) Append(p *Optimized) error {
	if err := seq.CheckAlphabet(b.alphabet, p.Alphabet()); err != nil {
		return err
	}
	b.profiles = append(b.profiles, p)
	return nil
}

// Alphabet returns the block's alphabet.
func (b *Block) Alphabet() *seq.Alphabet { return b.alphabet }

// Len returns the number of profiles.
func (b *Block) Len() int { return len(b.profiles) }

// At returns the i-th profile.
func (b *Block) At(i int) *Optimized { return b.profiles[i] }
