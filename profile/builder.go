package profile

import (
	"fmt"
	"math"

	"github.com/hmmgo/hmmgo/seq"
)

// BuilderConfig tunes how sequences and alignments are converted to models.
type BuilderConfig struct {
	// Pseudocount smooths column residue frequencies. Defaults to 0.1.
	Pseudocount float32

	// MatchThreshold is the minimum fraction of non-gap residues a column
	// needs to become a match column when building from an alignment.
	// Defaults to 0.5.
	MatchThreshold float32

	// Background overrides the background residue frequencies. Must be
	// alphabet-size long; defaults to uniform.
	Background []float32
}

// Builder converts raw sequence or alignment queries into Models. A Builder
// carries internal scratch state and is not safe for concurrent use; clone
// one per worker instead of sharing.
type Builder struct {
	cfg      BuilderConfig
	alphabet *seq.Alphabet
	counts   []float32 // per-column scratch
	column   []uint8   // per-column scratch
}

// NewBuilder creates a Builder for the given alphabet. Zero-valued config
// fields fall back to defaults.
func NewBuilder(alphabet *seq.Alphabet, cfg BuilderConfig) (*Builder, error) {
	if cfg.Pseudocount <= 0 {
		cfg.Pseudocount = 0.1
	}
	if cfg.MatchThreshold <= 0 {
		cfg.MatchThreshold = 0.5
	}
	if cfg.Background == nil {
		cfg.Background = make([]float32, alphabet.Size())
		for i := range cfg.Background {
			cfg.Background[i] = 1 / float32(alphabet.Size())
		}
	}
	if len(cfg.Background) != alphabet.Size() {
		return nil, fmt.Errorf("background has %d frequencies, want %d", len(cfg.Background), alphabet.Size())
	}
	return &Builder{
		cfg:      cfg,
		alphabet: alphabet,
		counts:   make([]float32, alphabet.Size()),
	}, nil
}

// Alphabet returns the builder's alphabet.
func (b *Builder) Alphabet() *seq.Alphabet { return b.alphabet }

// Clone returns an independent Builder with the same configuration and
// fresh scratch state.
func (b *Builder) Clone() *Builder {
	clone, _ := NewBuilder(b.alphabet, b.cfg)
	return clone
}

// Build converts a single sequence into a Model: each residue becomes a
// match column whose scores are the smoothed log-odds of observing that
// residue over background.
func (b *Builder) Build(s *seq.Sequence) (*Model, error) {
	if err := seq.CheckAlphabet(b.alphabet, s.Alphabet()); err != nil {
		return nil, err
	}
	match := make([][]float32, 0, s.Len())
	for _, r := range s.Residues() {
		for i := range b.counts {
			b.counts[i] = 0
		}
		if r != seq.ResidueAny {
			b.counts[r] = 1
		}
		match = append(match, b.columnScores(1))
	}
	model, err := NewModel(b.alphabet, s.Name, match)
	if err != nil {
		return nil, err
	}
	model.Accession = s.Accession
	model.Description = s.Description
	return model, nil
}

// BuildMSA converts an alignment into a Model: columns with enough non-gap
// occupancy become match columns scored by their smoothed residue
// frequencies over background.
func (b *Builder) BuildMSA(m *seq.MSA) (*Model, error) {
	if err := seq.CheckAlphabet(b.alphabet, m.Alphabet()); err != nil {
		return nil, err
	}
	var match [][]float32
	for j := 0; j < m.Columns(); j++ {
		b.column = m.Column(j, b.column)
		for i := range b.counts {
			b.counts[i] = 0
		}
		occupied := 0
		observed := float32(0)
		for _, r := range b.column {
			if r == seq.ResidueGap {
				continue
			}
			occupied++
			if r != seq.ResidueAny {
				b.counts[r]++
				observed++
			}
		}
		if float32(occupied) < b.cfg.MatchThreshold*float32(m.Rows()) {
			continue // insert column, not modeled
		}
		if observed == 0 {
			observed = 1
		}
		match = append(match, b.columnScores(observed))
	}
	model, err := NewModel(b.alphabet, m.Name, match)
	if err != nil {
		return nil, err
	}
	model.Accession = m.Accession
	return model, nil
}

// columnScores turns the scratch counts into a fresh row of log-odds
// scores, normalizing by total observed residues.
func (b *Builder) columnScores(observed float32) []float32 {
	k := float32(b.alphabet.Size())
	row := make([]float32, b.alphabet.Size())
	denom := observed + b.cfg.Pseudocount*k
	for i := range row {
		freq := (b.counts[i] + b.cfg.Pseudocount) / denom
		row[i] = float32(math.Log2(float64(freq / b.cfg.Background[i])))
	}
	return row
}
