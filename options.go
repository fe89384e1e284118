package hmmgo

import (
	"log/slog"
	"runtime"

	"github.com/hmmgo/hmmgo/pipeline"
	"github.com/hmmgo/hmmgo/profile"
)

// Callback is invoked after each successfully processed query with the
// query itself and the cumulative number of queries submitted so far.
// Callbacks run on worker goroutines and must be safe for concurrent use.
type Callback func(query Query, done int)

type options struct {
	workers  int
	sizeHint int
	callback Callback
	builder  *profile.Builder
	metrics  MetricsCollector
	logger   *Logger
	pipeline []func(*pipeline.Options)
}

// Option configures a search run.
type Option func(*options)

// WithWorkers sets the worker pool size. Zero or negative means
// GOMAXPROCS. The effective pool never exceeds the size hint, so a run over
// two queries with eight workers only starts two.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithSizeHint tells the dispatcher how many queries to expect so it can
// avoid starting more workers than there is work. A hint of zero means
// unknown. The hint never grows the pool past the worker count and is
// purely advisory; runs yielding more queries than hinted stay correct.
func WithSizeHint(n int) Option {
	return func(o *options) {
		o.sizeHint = n
	}
}

// WithCallback registers a progress callback fired after each query.
func WithCallback(fn Callback) Option {
	return func(o *options) {
		o.callback = fn
	}
}

// WithBuilder sets the builder used to turn sequence and alignment queries
// into models. Each worker clones it, so one shared instance is fine.
// Search modes that only see profile queries ignore it; sequence queries
// without a builder get a default one over the target alphabet.
func WithBuilder(b *profile.Builder) Option {
	return func(o *options) {
		o.builder = b
	}
}

// WithMetrics configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &hmmgo.BasicMetricsCollector{}
//	results, _ := hmmgo.Search(ctx, queries, targets, hmmgo.WithMetrics(metrics))
//	// ... consume results ...
//	stats := metrics.GetStats()
func WithMetrics(mc MetricsCollector) Option {
	return func(o *options) {
		o.metrics = mc
	}
}

// WithLogger configures structured logging for runs.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithPipelineOptions forwards options to every worker's pipeline, for
// reporting thresholds, E-value database size and target filters.
//
// Example:
//
//	hmmgo.Search(ctx, queries, targets,
//	    hmmgo.WithPipelineOptions(func(o *pipeline.Options) {
//	        o.E = 0.001
//	        o.Z = 45000
//	    }),
//	)
func WithPipelineOptions(optFns ...func(*pipeline.Options)) Option {
	return func(o *options) {
		o.pipeline = append(o.pipeline, optFns...)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metrics: NoopMetricsCollector{},
		logger:  NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.metrics == nil {
		o.metrics = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
