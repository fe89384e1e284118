package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmmgo/hmmgo/profile"
	"github.com/hmmgo/hmmgo/seq"
)

func TestAlignSequenceFullSpan(t *testing.T) {
	model := exactModel(t, seq.DNA(), "motif", "ACGT")
	s, err := seq.NewSequence(seq.DNA(), "s0", "TTACGTTT")
	require.NoError(t, err)

	p := New(seq.DNA())
	a, err := p.AlignSequence(profile.Optimize(model), s)
	require.NoError(t, err)

	assert.Equal(t, "ACGT", a.Row)
	assert.Equal(t, float32(4), a.Score)
	assert.Equal(t, 2, a.Start)
	assert.Equal(t, 6, a.End)
	assert.Equal(t, 0, a.ColumnStart)
	assert.Equal(t, 4, a.ColumnEnd)
}

// TestAlignSequencePartialSpan: a sequence matching only the tail of the
// model is placed at those columns, with leading gaps.
func TestAlignSequencePartialSpan(t *testing.T) {
	model := exactModel(t, seq.DNA(), "motif", "ACGT")
	s, err := seq.NewSequence(seq.DNA(), "s0", "GT")
	require.NoError(t, err)

	p := New(seq.DNA())
	a, err := p.AlignSequence(profile.Optimize(model), s)
	require.NoError(t, err)

	assert.Equal(t, "--GT", a.Row)
	assert.Equal(t, float32(2), a.Score)
	assert.Equal(t, 0, a.Start)
	assert.Equal(t, 2, a.End)
	assert.Equal(t, 2, a.ColumnStart)
	assert.Equal(t, 4, a.ColumnEnd)
}

func TestAlignSequenceNoMatch(t *testing.T) {
	model := exactModel(t, seq.DNA(), "motif", "AAAA")
	s, err := seq.NewSequence(seq.DNA(), "s0", "CCCC")
	require.NoError(t, err)

	p := New(seq.DNA())
	a, err := p.AlignSequence(profile.Optimize(model), s)
	require.NoError(t, err)

	assert.Equal(t, "----", a.Row)
	assert.Zero(t, a.Score)
	assert.Zero(t, a.End)
}

func TestAlignSequenceAlphabetMismatch(t *testing.T) {
	model := exactModel(t, seq.DNA(), "motif", "ACGT")
	s, err := seq.NewSequence(seq.Amino(), "s0", "ACDEFG")
	require.NoError(t, err)

	p := New(seq.DNA())
	_, err = p.AlignSequence(profile.Optimize(model), s)
	var mismatch *seq.AlphabetMismatchError
	assert.ErrorAs(t, err, &mismatch)
}
