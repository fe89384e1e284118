package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmmgo/hmmgo/profile"
	"github.com/hmmgo/hmmgo/seq"
)

// exactModel builds a model that scores +1 for the residues of pattern and
// -4 for everything else, so match scores are easy to reason about.
func exactModel(t *testing.T, alphabet *seq.Alphabet, name, pattern string) *profile.Model {
	t.Helper()
	match := make([][]float32, 0, len(pattern))
	for i := 0; i < len(pattern); i++ {
		row := make([]float32, alphabet.Size())
		for j := range row {
			row[j] = -4
		}
		r, ok := alphabet.Index(pattern[i])
		require.True(t, ok)
		row[r] = 1
		match = append(match, row)
	}
	m, err := profile.NewModel(alphabet, name, match)
	require.NoError(t, err)
	return m
}

func dnaBlock(t *testing.T, texts map[string]string) *seq.SequenceBlock {
	t.Helper()
	b := seq.NewSequenceBlock(seq.DNA())
	// Deterministic insertion order for stable indices.
	for _, name := range []string{"t0", "t1", "t2", "t3"} {
		text, ok := texts[name]
		if !ok {
			continue
		}
		s, err := seq.NewSequence(seq.DNA(), name, text)
		require.NoError(t, err)
		require.NoError(t, b.Append(s))
	}
	return b
}

func TestSearchModelFindsExactMatch(t *testing.T) {
	targets := dnaBlock(t, map[string]string{
		"t0": "TTTTACGTTTTT", // contains ACGT at offset 4
		"t1": "CCCCCCCC",
	})
	model := exactModel(t, seq.DNA(), "motif", "ACGT")

	p := New(seq.DNA())
	th, err := p.SearchModel(model, targets)
	require.NoError(t, err)

	require.Equal(t, 1, th.Len())
	hit := th.At(0)
	assert.Equal(t, "t0", hit.Name)
	assert.Equal(t, float32(4), hit.Score)
	assert.Equal(t, 4, hit.Start)
	assert.Equal(t, 8, hit.End)
	assert.Equal(t, 2, th.Searched)
}

func TestSearchModelRanksByScore(t *testing.T) {
	targets := dnaBlock(t, map[string]string{
		"t0": "ACGTTTTT", // full match, score 4
		"t1": "ACGCCCCC", // partial match ACG, score 3
	})
	model := exactModel(t, seq.DNA(), "motif", "ACGT")

	p := New(seq.DNA(), func(o *Options) { o.E = 100 })
	th, err := p.SearchModel(model, targets)
	require.NoError(t, err)

	require.Equal(t, 2, th.Len())
	assert.Equal(t, "t0", th.At(0).Name)
	assert.Equal(t, "t1", th.At(1).Name)
	assert.Greater(t, th.At(0).Score, th.At(1).Score)
	assert.Less(t, th.At(0).Evalue, th.At(1).Evalue)
}

func TestSearchModelBitScoreCutoff(t *testing.T) {
	targets := dnaBlock(t, map[string]string{
		"t0": "ACGTTTTT",
		"t1": "ACGCCCCC",
	})
	model := exactModel(t, seq.DNA(), "motif", "ACGT")

	p := New(seq.DNA(), func(o *Options) { o.T = 3.5 })
	th, err := p.SearchModel(model, targets)
	require.NoError(t, err)

	require.Equal(t, 1, th.Len())
	assert.Equal(t, "t0", th.At(0).Name)
}

func TestSearchModelFilterSkipsTargets(t *testing.T) {
	targets := dnaBlock(t, map[string]string{
		"t0": "ACGTTTTT",
		"t1": "ACGTTTTT",
	})
	model := exactModel(t, seq.DNA(), "motif", "ACGT")

	p := New(seq.DNA(), func(o *Options) {
		o.Filter = FilterSequenceNames(targets, "t1")
	})
	th, err := p.SearchModel(model, targets)
	require.NoError(t, err)

	require.Equal(t, 1, th.Len())
	assert.Equal(t, "t1", th.At(0).Name)
	assert.Equal(t, 1, th.Searched)
}

func TestSearchModelAlphabetMismatch(t *testing.T) {
	targets := dnaBlock(t, map[string]string{"t0": "ACGT"})
	model := exactModel(t, seq.DNA(), "motif", "ACGT")

	p := New(seq.Amino())
	_, err := p.SearchModel(model, targets)

	var mismatch *seq.AlphabetMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestSearchSequenceRequiresBuilder(t *testing.T) {
	targets := dnaBlock(t, map[string]string{"t0": "ACGT"})
	query, _ := seq.NewSequence(seq.DNA(), "q", "ACGT")

	p := New(seq.DNA())
	_, err := p.SearchSequence(query, targets, nil)
	assert.ErrorIs(t, err, ErrNoBuilder)
}

func TestSearchSequenceWithBuilder(t *testing.T) {
	targets := dnaBlock(t, map[string]string{
		"t0": "TTACGTGGTT",
		"t1": "CCCCCCCCCC",
	})
	query, err := seq.NewSequence(seq.DNA(), "q", "ACGTGG")
	require.NoError(t, err)
	builder, err := profile.NewBuilder(seq.DNA(), profile.BuilderConfig{})
	require.NoError(t, err)

	p := New(seq.DNA())
	th, err := p.SearchSequence(query, targets, builder)
	require.NoError(t, err)

	require.GreaterOrEqual(t, th.Len(), 1)
	assert.Equal(t, "t0", th.At(0).Name)
	assert.Equal(t, "q", th.Query)
}

func TestScanSequence(t *testing.T) {
	m1 := exactModel(t, seq.DNA(), "fam1", "ACGT")
	m2 := exactModel(t, seq.DNA(), "fam2", "GGGG")
	block, err := profile.NewBlockOf(seq.DNA(), profile.Optimize(m1), profile.Optimize(m2))
	require.NoError(t, err)

	query, err := seq.NewSequence(seq.DNA(), "q", "TTACGTTT")
	require.NoError(t, err)

	// Single-residue matches score positively, so cut below the full-motif
	// score to keep only real family hits.
	p := New(seq.DNA(), func(o *Options) { o.T = 3 })
	th, err := p.ScanSequence(query, block)
	require.NoError(t, err)

	require.Equal(t, 1, th.Len())
	assert.Equal(t, "fam1", th.At(0).Name)
	assert.Equal(t, "q", th.Query)
}

func TestLongTargetsWindowing(t *testing.T) {
	// Plant the motif deep inside a long target so it only scores when the
	// window containing it is examined, and coordinates must be offset back
	// into target space.
	long := make([]byte, 0, 5000)
	for len(long) < 2500 {
		long = append(long, 'T')
	}
	long = append(long, "ACGTACGT"...)
	for len(long) < 5000 {
		long = append(long, 'T')
	}

	s, err := seq.NewSequence(seq.DNA(), "chr", string(long))
	require.NoError(t, err)
	targets, err := seq.NewSequenceBlockOf(seq.DNA(), s)
	require.NoError(t, err)

	model := exactModel(t, seq.DNA(), "motif", "ACGTACGT")

	p := New(seq.DNA(), func(o *Options) {
		o.LongTargets = true
		o.Window = 1000
		o.Overlap = 100
	})
	th, err := p.SearchModel(model, targets)
	require.NoError(t, err)

	require.Equal(t, 1, th.Len())
	hit := th.At(0)
	assert.Equal(t, float32(8), hit.Score)
	assert.Equal(t, 2500, hit.Start)
	assert.Equal(t, 2508, hit.End)
	// E-values normalize by window count, not target count.
	assert.Greater(t, th.Z, 1.0)
}

func TestResetClearsHits(t *testing.T) {
	targets := dnaBlock(t, map[string]string{"t0": "ACGTTTTT"})
	model := exactModel(t, seq.DNA(), "motif", "ACGT")

	p := New(seq.DNA())
	th1, err := p.SearchModel(model, targets)
	require.NoError(t, err)
	require.Equal(t, 1, th1.Len())

	p.Reset()

	// A second query on the same instance must not see stale hits, and the
	// first TopHits must stay intact.
	th2, err := p.SearchModel(exactModel(t, seq.DNA(), "none", "GGGG"), targets)
	require.NoError(t, err)
	assert.Equal(t, 0, th2.Len())
	assert.Equal(t, 1, th1.Len())
}

func TestEmptyTargets(t *testing.T) {
	targets := seq.NewSequenceBlock(seq.DNA())
	model := exactModel(t, seq.DNA(), "motif", "ACGT")

	p := New(seq.DNA())
	th, err := p.SearchModel(model, targets)
	require.NoError(t, err)
	assert.Equal(t, 0, th.Len())
	assert.Equal(t, 0, th.Searched)
}
