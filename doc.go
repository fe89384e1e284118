// Package hmmgo provides parallel profile-based biological sequence search.
//
// It dispatches a stream of queries over a pool of workers, each owning an
// exclusive search pipeline, and hands results back lazily in submission
// order regardless of which worker finishes first.
//
// # Quick Start
//
// Search profile queries against a sequence database:
//
//	ctx := context.Background()
//	results, err := hmmgo.Search(ctx, hmmgo.ModelQueries(models...), targets)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for hits, err := range results {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(hits.Query, hits.Len())
//	}
//
// Search raw sequence queries (a model is built on the fly per query):
//
//	results, err := hmmgo.SearchSequences(ctx, queries, targets)
//
// Scan one or more sequences against a profile database:
//
//	results, err := hmmgo.Scan(ctx, queries, profileDB)
//
// Align sequences against a single model into a multiple sequence
// alignment:
//
//	msa, err := hmmgo.Align(ctx, model, queries)
//
// # Concurrency
//
// The worker count defaults to GOMAXPROCS and can be tuned:
//
//	results, err := hmmgo.Search(ctx, queries, targets,
//	    hmmgo.WithWorkers(4),
//	    hmmgo.WithSizeHint(len(models)),
//	    hmmgo.WithCallback(func(q hmmgo.Query, done int) {
//	        fmt.Printf("finished %d queries\n", done)
//	    }),
//	)
//
// With a single worker no goroutines are spawned and queries run inline on
// the consumer's goroutine. Results stream lazily either way: at most one
// batch of queries is in flight, so memory stays bounded no matter how many
// queries the input yields.
//
// # Key Properties
//
//   - Strict result ordering: output order always matches input order
//   - Bounded buffering: backpressure caps in-flight work at the pool size
//   - Fault isolation: a failing query surfaces its error at its own
//     position in the stream; remaining work is canceled promptly
//   - Lazy evaluation: nothing runs until the result stream is consumed
package hmmgo
