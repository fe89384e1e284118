package profile

import (
	"errors"
	"fmt"

	"github.com/hmmgo/hmmgo/seq"
)

// ErrEmptyModel is returned when a model has no match columns.
var ErrEmptyModel = errors.New("model has no match columns")

// Model is a position-specific log-odds profile: one row of per-residue
// match scores (in bits) for each of its M columns.
type Model struct {
	Name        string
	Accession   string
	Description string

	alphabet *seq.Alphabet
	match    [][]float32
}

// NewModel creates a model from per-column match scores. Every row must be
// exactly alphabet-size wide.
func NewModel(alphabet *seq.Alphabet, name string, match [][]float32) (*Model, error) {
	if len(match) == 0 {
		return nil, ErrEmptyModel
	}
	k := alphabet.Size()
	for i, row := range match {
		if len(row) != k {
			return nil, fmt.Errorf("model %q: column %d has %d scores, want %d", name, i, len(row), k)
		}
	}
	return &Model{Name: name, alphabet: alphabet, match: match}, nil
}

// Alphabet returns the model's alphabet.
func (m *Model) Alphabet() *seq.Alphabet { return m.alphabet }

// M returns the number of match columns.
func (m *Model) M() int { return len(m.match) }

// MatchScores returns the match score row for column i. The slice is shared,
// not copied; callers must treat it as read-only.
func (m *Model) MatchScores(i int) []float32 { return m.match[i] }
