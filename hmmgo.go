package hmmgo

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/hmmgo/hmmgo/dispatch"
	"github.com/hmmgo/hmmgo/pipeline"
	"github.com/hmmgo/hmmgo/profile"
	"github.com/hmmgo/hmmgo/seq"
)

// Query is a search query. Supported concrete types are *seq.Sequence,
// *seq.MSA, *profile.Model and *profile.Optimized; anything else fails with
// an UnsupportedQueryError at its position in the result stream.
type Query any

// ModelQueries adapts models to a query stream.
func ModelQueries(models ...*profile.Model) iter.Seq[Query] {
	return func(yield func(Query) bool) {
		for _, m := range models {
			if !yield(m) {
				return
			}
		}
	}
}

// ProfileQueries adapts optimized profiles to a query stream.
func ProfileQueries(profiles ...*profile.Optimized) iter.Seq[Query] {
	return func(yield func(Query) bool) {
		for _, p := range profiles {
			if !yield(p) {
				return
			}
		}
	}
}

// SequenceQueries adapts sequences to a query stream.
func SequenceQueries(seqs ...*seq.Sequence) iter.Seq[Query] {
	return func(yield func(Query) bool) {
		for _, s := range seqs {
			if !yield(s) {
				return
			}
		}
	}
}

// MSAQueries adapts alignments to a query stream.
func MSAQueries(msas ...*seq.MSA) iter.Seq[Query] {
	return func(yield func(Query) bool) {
		for _, m := range msas {
			if !yield(m) {
				return
			}
		}
	}
}

// Search runs a stream of queries against a sequence database and returns a
// lazy stream of per-query results in submission order.
//
// Profile and model queries are searched directly; sequence and alignment
// queries are first turned into a model by the configured builder (or a
// default one). Nothing executes until the returned stream is consumed, and
// at most one pool's worth of queries is in flight at any time.
func Search(ctx context.Context, queries iter.Seq[Query], targets *seq.SequenceBlock, optFns ...Option) (iter.Seq2[*pipeline.TopHits, error], error) {
	if targets == nil {
		return nil, ErrNoTargets
	}
	opts := applyOptions(optFns)
	return run(ctx, "search", queries, searchFactory(ctx, targets, opts), opts)
}

// SearchSequences runs raw sequence queries against a sequence database,
// building a one-off model per query. The size hint defaults to the query
// count so small runs never over-provision workers.
func SearchSequences(ctx context.Context, queries []*seq.Sequence, targets *seq.SequenceBlock, optFns ...Option) (iter.Seq2[*pipeline.TopHits, error], error) {
	if targets == nil {
		return nil, ErrNoTargets
	}
	opts := applyOptions(optFns)
	if opts.sizeHint == 0 {
		opts.sizeHint = len(queries)
	}
	return run(ctx, "seqsearch", SequenceQueries(queries...), searchFactory(ctx, targets, opts), opts)
}

// SearchLongTargets is Search in windowed mode: targets are scored window
// by window instead of whole, the way long nucleotide targets are handled,
// and E-values are normalized by window count.
func SearchLongTargets(ctx context.Context, queries iter.Seq[Query], targets *seq.SequenceBlock, optFns ...Option) (iter.Seq2[*pipeline.TopHits, error], error) {
	if targets == nil {
		return nil, ErrNoTargets
	}
	opts := applyOptions(optFns)
	opts.pipeline = append([]func(*pipeline.Options){func(o *pipeline.Options) {
		o.LongTargets = true
	}}, opts.pipeline...)
	return run(ctx, "longsearch", queries, searchFactory(ctx, targets, opts), opts)
}

// Scan runs sequence queries against a profile database, the inverse of
// Search: each query sequence is scored against every profile.
func Scan(ctx context.Context, queries []*seq.Sequence, targets *profile.Block, optFns ...Option) (iter.Seq2[*pipeline.TopHits, error], error) {
	if targets == nil {
		return nil, ErrNoTargets
	}
	opts := applyOptions(optFns)
	if opts.sizeHint == 0 {
		opts.sizeHint = len(queries)
	}
	return run(ctx, "scan", SequenceQueries(queries...), scanFactory(ctx, targets, opts), opts)
}

// searchFactory builds per-worker engines for sequence-database searches.
// Every worker gets its own pipeline and builder clone so no state is
// shared across goroutines.
func searchFactory(ctx context.Context, targets *seq.SequenceBlock, opts options) dispatch.Factory[Query, *pipeline.TopHits] {
	return func() (dispatch.Engine[Query, *pipeline.TopHits], error) {
		builder, err := workerBuilder(opts.builder, targets.Alphabet())
		if err != nil {
			return nil, err
		}
		inner := &searchEngine{
			pipe:    pipeline.New(targets.Alphabet(), opts.pipeline...),
			targets: targets,
			builder: builder,
		}
		return newInstrumentedEngine(ctx, inner, opts), nil
	}
}

// scanFactory builds per-worker engines for profile-database scans.
func scanFactory(ctx context.Context, targets *profile.Block, opts options) dispatch.Factory[Query, *pipeline.TopHits] {
	return func() (dispatch.Engine[Query, *pipeline.TopHits], error) {
		inner := &scanEngine{
			pipe:    pipeline.New(targets.Alphabet(), opts.pipeline...),
			targets: targets,
		}
		return newInstrumentedEngine(ctx, inner, opts), nil
	}
}

func workerBuilder(shared *profile.Builder, alphabet *seq.Alphabet) (*profile.Builder, error) {
	if shared != nil {
		return shared.Clone(), nil
	}
	return profile.NewBuilder(alphabet, profile.BuilderConfig{})
}

// run wires a query stream through the dispatcher and wraps the result
// stream with run-level metrics and logging.
func run(ctx context.Context, mode string, queries iter.Seq[Query], factory dispatch.Factory[Query, *pipeline.TopHits], opts options) (iter.Seq2[*pipeline.TopHits, error], error) {
	cfg := dispatch.Config[Query]{
		Workers:  opts.workers,
		SizeHint: opts.sizeHint,
	}
	if opts.callback != nil {
		cb := opts.callback
		cfg.Callback = func(q Query, done int) {
			cb(q, done)
		}
	}

	opts.logger.LogRunStart(ctx, mode, opts.workers)
	inner, err := dispatch.Run(ctx, queries, factory, cfg)
	if err != nil {
		return nil, err
	}

	return func(yield func(*pipeline.TopHits, error) bool) {
		start := time.Now()
		count := 0
		defer func() {
			opts.metrics.RecordRun(count, time.Since(start))
			opts.logger.LogRunEnd(ctx, mode, count, time.Since(start))
		}()
		for th, err := range inner {
			count++
			if !yield(th, err) {
				return
			}
		}
	}, nil
}

// searchEngine evaluates queries against a sequence block. One instance per
// worker; the dispatcher calls Reset between queries.
type searchEngine struct {
	pipe    *pipeline.Pipeline
	targets *seq.SequenceBlock
	builder *profile.Builder
}

func (e *searchEngine) Process(q Query) (*pipeline.TopHits, error) {
	switch v := q.(type) {
	case *profile.Optimized:
		return e.pipe.SearchProfile(v, e.targets)
	case *profile.Model:
		return e.pipe.SearchModel(v, e.targets)
	case *seq.Sequence:
		return e.pipe.SearchSequence(v, e.targets, e.builder)
	case *seq.MSA:
		return e.pipe.SearchMSA(v, e.targets, e.builder)
	default:
		return nil, &UnsupportedQueryError{Query: q}
	}
}

func (e *searchEngine) Reset() {
	e.pipe.Reset()
}

// scanEngine evaluates sequence queries against a profile block.
type scanEngine struct {
	pipe    *pipeline.Pipeline
	targets *profile.Block
}

func (e *scanEngine) Process(q Query) (*pipeline.TopHits, error) {
	s, ok := q.(*seq.Sequence)
	if !ok {
		return nil, &UnsupportedQueryError{Query: q}
	}
	return e.pipe.ScanSequence(s, e.targets)
}

func (e *scanEngine) Reset() {
	e.pipe.Reset()
}

// instrumentedEngine decorates an engine with per-query metrics and logs.
type instrumentedEngine struct {
	ctx     context.Context
	inner   dispatch.Engine[Query, *pipeline.TopHits]
	metrics MetricsCollector
	logger  *Logger
}

func newInstrumentedEngine(ctx context.Context, inner dispatch.Engine[Query, *pipeline.TopHits], opts options) *instrumentedEngine {
	return &instrumentedEngine{
		ctx:     ctx,
		inner:   inner,
		metrics: opts.metrics,
		logger:  opts.logger,
	}
}

func (e *instrumentedEngine) Process(q Query) (*pipeline.TopHits, error) {
	start := time.Now()
	th, err := e.inner.Process(q)
	elapsed := time.Since(start)

	hits := 0
	if th != nil {
		hits = th.Len()
	}
	e.metrics.RecordQuery(elapsed, hits, err)
	e.logger.LogQuery(e.ctx, queryName(q), hits, elapsed, err)
	return th, err
}

func (e *instrumentedEngine) Reset() {
	e.inner.Reset()
}

func queryName(q Query) string {
	switch v := q.(type) {
	case *seq.Sequence:
		return v.Name
	case *seq.MSA:
		return v.Name
	case *profile.Model:
		return v.Name
	case *profile.Optimized:
		return v.Name
	default:
		return fmt.Sprintf("%T", q)
	}
}
