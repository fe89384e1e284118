package seq

import (
	"errors"
	"fmt"
)

// ErrEmptyMSA is returned when an alignment has no rows.
var ErrEmptyMSA = errors.New("alignment has no rows")

// MSA is a multiple sequence alignment: equally long aligned rows over one
// alphabet, with ResidueGap marking gap positions.
type MSA struct {
	Name      string
	Accession string

	alphabet *Alphabet
	names    []string
	rows     [][]uint8
}

// NewMSA digitizes aligned rows into an MSA. All rows must have the same
// length; gaps are written as '-', '.' or '~'.
func NewMSA(alphabet *Alphabet, name string, rowNames []string, rows []string) (*MSA, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyMSA
	}
	if len(rowNames) != len(rows) {
		return nil, fmt.Errorf("alignment has %d names for %d rows", len(rowNames), len(rows))
	}
	m := &MSA{Name: name, alphabet: alphabet, names: rowNames}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("alignment row %q has length %d, want %d", rowNames[i], len(row), width)
		}
		digitized, err := alphabet.DigitizeAligned(row)
		if err != nil {
			return nil, fmt.Errorf("alignment row %q: %w", rowNames[i], err)
		}
		m.rows = append(m.rows, digitized)
	}
	return m, nil
}

// Alphabet returns the alignment's alphabet.
func (m *MSA) Alphabet() *Alphabet { return m.alphabet }

// Rows returns the number of aligned sequences.
func (m *MSA) Rows() int { return len(m.rows) }

// Columns returns the alignment width.
func (m *MSA) Columns() int { return len(m.rows[0]) }

// RowName returns the name of row i.
func (m *MSA) RowName(i int) string { return m.names[i] }

// RowText renders row i back into letters, with '-' for gaps and the
// alphabet's wildcard letter for ambiguous residues.
func (m *MSA) RowText(i int) string {
	row := m.rows[i]
	out := make([]byte, len(row))
	for j, r := range row {
		switch r {
		case ResidueGap:
			out[j] = '-'
		case ResidueAny:
			out[j] = m.alphabet.AnySymbol()
		default:
			out[j] = m.alphabet.Symbol(int(r))
		}
	}
	return string(out)
}

// Column copies column j of the alignment into dst, growing it as needed,
// and returns it. Gap positions carry ResidueGap.
func (m *MSA) Column(j int, dst []uint8) []uint8 {
	dst = dst[:0]
	for _, row := range m.rows {
		dst = append(dst, row[j])
	}
	return dst
}
