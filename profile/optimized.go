package profile

import (
	"github.com/hmmgo/hmmgo/seq"
)

// Optimized is the scoring form of a Model: match scores flattened into one
// row-major slice so the inner scoring loop walks contiguous memory, plus
// the precomputed maximum attainable score used as a cheap upper bound.
type Optimized struct {
	Name      string
	Accession string

	alphabet *seq.Alphabet
	m        int
	k        int
	scores   []float32
	maxScore float32
}

// Optimize flattens a Model for scoring.
func Optimize(model *Model) *Optimized {
	k := model.Alphabet().Size()
	o := &Optimized{
		Name:      model.Name,
		Accession: model.Accession,
		alphabet:  model.Alphabet(),
		m:         model.M(),
		k:         k,
		scores:    make([]float32, model.M()*k),
	}
	for i := 0; i < model.M(); i++ {
		row := model.MatchScores(i)
		copy(o.scores[i*k:(i+1)*k], row)
		best := row[0]
		for _, s := range row[1:] {
			if s > best {
				best = s
			}
		}
		if best > 0 {
			o.maxScore += best
		}
	}
	return o
}

// Alphabet returns the profile's alphabet.
func (o *Optimized) Alphabet() *seq.Alphabet { return o.alphabet }

// M returns the number of match columns.
func (o *Optimized) M() int { return o.m }

// MaxScore returns the highest score any target could attain.
func (o *Optimized) MaxScore() float32 { return o.maxScore }

// Score returns the match score for a residue at column i. Wildcard
// residues score zero.
func (o *Optimized) Score(i int, residue uint8) float32 {
	if residue >= uint8(o.k) {
		return 0 // ResidueAny and anything else non-canonical
	}
	return o.scores[i*o.k+int(residue)]
}
