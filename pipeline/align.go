package pipeline

import (
	"github.com/hmmgo/hmmgo/profile"
	"github.com/hmmgo/hmmgo/seq"
)

// Aligned is one sequence placed against a model's columns.
type Aligned struct {
	Name string

	// Row is the model-width alignment row: the matched residues at the
	// model columns they aligned to, '-' everywhere else.
	Row string

	Score float32

	// Start and End are the matched target span, half open.
	Start int
	End   int

	// ColumnStart and ColumnEnd are the matched model columns, half open.
	ColumnStart int
	ColumnEnd   int
}

// AlignSequence aligns a sequence to a profile. The best-scoring ungapped
// span is placed at the model columns it matched; a sequence with no
// positive-scoring span yields an all-gap row.
func (p *Pipeline) AlignSequence(o *profile.Optimized, s *seq.Sequence) (Aligned, error) {
	if err := seq.CheckAlphabet(p.alphabet, o.Alphabet()); err != nil {
		return Aligned{}, err
	}
	if err := seq.CheckAlphabet(p.alphabet, s.Alphabet()); err != nil {
		return Aligned{}, err
	}

	row := make([]byte, o.M())
	for i := range row {
		row[i] = '-'
	}

	score, start, end, colEnd := p.scoreUngapped(o, s.Residues())
	if score <= 0 {
		return Aligned{Name: s.Name, Row: string(row)}, nil
	}

	colStart := colEnd - (end - start)
	residues := s.Residues()
	for i := start; i < end; i++ {
		r := residues[i]
		if r == seq.ResidueAny {
			row[colStart+i-start] = p.alphabet.AnySymbol()
		} else {
			row[colStart+i-start] = p.alphabet.Symbol(int(r))
		}
	}

	return Aligned{
		Name:        s.Name,
		Row:         string(row),
		Score:       score,
		Start:       start,
		End:         end,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
	}, nil
}
