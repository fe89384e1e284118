package pipeline

import (
	"errors"
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hmmgo/hmmgo/profile"
	"github.com/hmmgo/hmmgo/seq"
)

// ErrNoBuilder is returned when a sequence or alignment query is searched
// without a builder to turn it into a model.
var ErrNoBuilder = errors.New("sequence queries require a builder")

const (
	defaultE       = 10.0
	defaultWindow  = 1000
	defaultOverlap = 100
)

// Options configures a Pipeline.
type Options struct {
	// E is the E-value reporting threshold. Hits with a larger E-value are
	// dropped. Defaults to 10.
	E float64

	// T, when positive, switches reporting to a bit-score cutoff and
	// ignores E.
	T float64

	// Z overrides the effective database size used for E-values. When 0
	// the number of scored targets is used (or the window count in
	// long-targets mode).
	Z float64

	// LongTargets scores targets window by window instead of whole, the
	// way long nucleotide targets are handled, and normalizes E-values by
	// window count rather than target count.
	LongTargets bool

	// Window and Overlap shape long-targets windowing. Defaults: 1000/100.
	Window  int
	Overlap int

	// Filter, when non-nil, restricts scoring to the target indices set in
	// the bitmap. Targets outside it are skipped entirely.
	Filter *roaring.Bitmap
}

// Pipeline evaluates queries against target collections. It is stateful
// (scratch buffers, hit list) and must not be shared between goroutines.
type Pipeline struct {
	alphabet *seq.Alphabet
	opts     Options

	hits []Hit // per-query scratch, cleared by Reset

	// rolling score/run-length rows for the alignment recurrence
	prev    []float32
	curr    []float32
	prevLen []int32
	currLen []int32
}

// New creates a Pipeline over the given alphabet.
func New(alphabet *seq.Alphabet, optFns ...func(*Options)) *Pipeline {
	opts := Options{
		E:       defaultE,
		Window:  defaultWindow,
		Overlap: defaultOverlap,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Overlap >= opts.Window {
		opts.Overlap = opts.Window / 2
	}
	return &Pipeline{alphabet: alphabet, opts: opts}
}

// Alphabet returns the pipeline's alphabet.
func (p *Pipeline) Alphabet() *seq.Alphabet { return p.alphabet }

// Reset clears per-query state (the hit list and score rows) so the
// instance can be reused for the next query without leaking stale hits or
// scores between queries.
func (p *Pipeline) Reset() {
	p.hits = p.hits[:0]
	for i := range p.prev {
		p.prev[i] = 0
		p.prevLen[i] = 0
	}
}

// SearchModel searches a model query against a sequence block.
func (p *Pipeline) SearchModel(m *profile.Model, targets *seq.SequenceBlock) (*TopHits, error) {
	return p.SearchProfile(profile.Optimize(m), targets)
}

// SearchProfile searches an optimized profile query against a sequence
// block.
func (p *Pipeline) SearchProfile(o *profile.Optimized, targets *seq.SequenceBlock) (*TopHits, error) {
	if err := seq.CheckAlphabet(p.alphabet, o.Alphabet()); err != nil {
		return nil, err
	}
	if err := seq.CheckAlphabet(p.alphabet, targets.Alphabet()); err != nil {
		return nil, err
	}

	searched := 0
	windows := 0
	for i := 0; i < targets.Len(); i++ {
		if p.skip(i) {
			continue
		}
		searched++
		target := targets.At(i)
		score, start, end, n := p.scoreTarget(o, target.Residues())
		windows += n
		p.collect(Hit{
			Name:      target.Name,
			Accession: target.Accession,
			Index:     i,
			Score:     score,
			Start:     start,
			End:       end,
		})
	}

	z := p.effectiveZ(searched, windows)
	th := p.finalize(o.Name, o.Accession, z, searched)
	return th, nil
}

// SearchSequence builds a model from a single sequence query and searches
// it against a sequence block.
func (p *Pipeline) SearchSequence(s *seq.Sequence, targets *seq.SequenceBlock, builder *profile.Builder) (*TopHits, error) {
	if builder == nil {
		return nil, ErrNoBuilder
	}
	model, err := builder.Build(s)
	if err != nil {
		return nil, err
	}
	return p.SearchModel(model, targets)
}

// SearchMSA builds a model from an alignment query and searches it against
// a sequence block.
func (p *Pipeline) SearchMSA(m *seq.MSA, targets *seq.SequenceBlock, builder *profile.Builder) (*TopHits, error) {
	if builder == nil {
		return nil, ErrNoBuilder
	}
	model, err := builder.BuildMSA(m)
	if err != nil {
		return nil, err
	}
	return p.SearchModel(model, targets)
}

// ScanSequence scans a single sequence query against a block of profiles,
// the inverse of SearchProfile: one query, many models.
func (p *Pipeline) ScanSequence(s *seq.Sequence, targets *profile.Block) (*TopHits, error) {
	if err := seq.CheckAlphabet(p.alphabet, s.Alphabet()); err != nil {
		return nil, err
	}
	if err := seq.CheckAlphabet(p.alphabet, targets.Alphabet()); err != nil {
		return nil, err
	}

	searched := 0
	windows := 0
	for i := 0; i < targets.Len(); i++ {
		if p.skip(i) {
			continue
		}
		searched++
		o := targets.At(i)
		score, start, end, n := p.scoreTarget(o, s.Residues())
		windows += n
		p.collect(Hit{
			Name:      o.Name,
			Accession: o.Accession,
			Index:     i,
			Score:     score,
			Start:     start,
			End:       end,
		})
	}

	z := p.effectiveZ(searched, windows)
	th := p.finalize(s.Name, s.Accession, z, searched)
	return th, nil
}

func (p *Pipeline) skip(index int) bool {
	return p.opts.Filter != nil && !p.opts.Filter.Contains(uint32(index))
}

func (p *Pipeline) effectiveZ(searched, windows int) float64 {
	if p.opts.Z > 0 {
		return p.opts.Z
	}
	n := searched
	if p.opts.LongTargets {
		n = windows
	}
	if n < 1 {
		n = 1
	}
	return float64(n)
}

// collect stages a scored target in the per-query hit list. Thresholding
// happens in finalize, once Z is known.
func (p *Pipeline) collect(h Hit) {
	if h.Score <= 0 {
		return
	}
	p.hits = append(p.hits, h)
}

// finalize computes E-values, applies the reporting threshold and returns
// an independently owned TopHits.
func (p *Pipeline) finalize(query, accession string, z float64, searched int) *TopHits {
	th := &TopHits{Query: query, QueryAccession: accession, Z: z, Searched: searched}
	for _, h := range p.hits {
		h.Evalue = z * math.Exp2(-float64(h.Score))
		if p.opts.T > 0 {
			if float64(h.Score) < p.opts.T {
				continue
			}
		} else if h.Evalue > p.opts.E {
			continue
		}
		th.hits = append(th.hits, h)
	}
	sort.SliceStable(th.hits, func(i, j int) bool {
		if th.hits[i].Score != th.hits[j].Score {
			return th.hits[i].Score > th.hits[j].Score
		}
		return th.hits[i].Index < th.hits[j].Index
	})
	return th
}

// scoreTarget scores one target, whole or window by window depending on
// LongTargets, and returns the best score, its span and the number of
// windows examined.
func (p *Pipeline) scoreTarget(o *profile.Optimized, residues []uint8) (float32, int, int, int) {
	if !p.opts.LongTargets || len(residues) <= p.opts.Window {
		score, start, end, _ := p.scoreUngapped(o, residues)
		return score, start, end, 1
	}

	step := p.opts.Window - p.opts.Overlap
	var (
		best      float32
		bestStart int
		bestEnd   int
		windows   int
	)
	for off := 0; ; off += step {
		hi := off + p.opts.Window
		if hi > len(residues) {
			hi = len(residues)
		}
		windows++
		score, start, end, _ := p.scoreUngapped(o, residues[off:hi])
		if score > best {
			best, bestStart, bestEnd = score, off+start, off+end
		}
		if hi == len(residues) {
			break
		}
	}
	return best, bestStart, bestEnd, windows
}

// scoreUngapped runs the ungapped local alignment recurrence
//
//	H[i][j] = max(0, H[i-1][j-1] + score(i, target[j]))
//
// over two rolling rows and returns the best cell with the target span
// that produced it and the model column the span ends on (half open).
func (p *Pipeline) scoreUngapped(o *profile.Optimized, residues []uint8) (float32, int, int, int) {
	n := len(residues) + 1
	p.growRows(n)

	var (
		best    float32
		bestEnd int
		bestRun int32
		bestCol int
	)
	for j := 0; j < n; j++ {
		p.prev[j] = 0
		p.prevLen[j] = 0
	}
	for i := 0; i < o.M(); i++ {
		p.curr[0] = 0
		p.currLen[0] = 0
		for j := 1; j < n; j++ {
			h := p.prev[j-1] + o.Score(i, residues[j-1])
			if h <= 0 {
				p.curr[j] = 0
				p.currLen[j] = 0
				continue
			}
			p.curr[j] = h
			p.currLen[j] = p.prevLen[j-1] + 1
			if h > best {
				best = h
				bestEnd = j
				bestRun = p.currLen[j]
				bestCol = i + 1
			}
		}
		p.prev, p.curr = p.curr, p.prev
		p.prevLen, p.currLen = p.currLen, p.prevLen
	}
	return best, bestEnd - int(bestRun), bestEnd, bestCol
}

func (p *Pipeline) growRows(n int) {
	if cap(p.prev) < n {
		p.prev = make([]float32, n)
		p.curr = make([]float32, n)
		p.prevLen = make([]int32, n)
		p.currLen = make([]int32, n)
		return
	}
	p.prev = p.prev[:n]
	p.curr = p.curr[:n]
	p.prevLen = p.prevLen[:n]
	p.currLen = p.currLen[:n]
}
