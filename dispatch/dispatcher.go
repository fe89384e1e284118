package dispatch

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
)

var (
	// ErrInvalidWorkerCount is returned when the requested pool size is not
	// strictly positive.
	ErrInvalidWorkerCount = errors.New("worker count must be strictly positive")

	// ErrCanceled marks a query that was submitted but never processed
	// because the run shut down first. It surfaces at the query's position
	// in the output stream.
	ErrCanceled = errors.New("query canceled before processing")
)

// Config controls one Run call.
type Config[Q any] struct {
	// Workers is the requested pool size. Must be >= 1.
	Workers int

	// SizeHint, when positive, caps the effective pool size at the number
	// of queries expected, so no worker sits permanently idle when fewer
	// queries exist than workers requested.
	SizeHint int

	// Callback, when non-nil, is invoked after each successful query.
	Callback Callback[Q]
}

// Run evaluates queries across a pool of workers and returns the results as
// a lazy stream, in the exact order the queries were produced, regardless of
// the order in which workers finish.
//
// Configuration faults (invalid pool size, factory failure) are reported
// synchronously. Per-query faults are attached to the failed query's
// position in the stream: the stream yields the error there and then
// terminates, after the remaining workers have been told to wind down. The
// caller may stop consuming early; breaking out of the stream shuts the
// pool down before control returns.
//
// With an effective pool size of 1 no goroutines are spawned: the consuming
// goroutine processes each query synchronously and yields it immediately.
func Run[Q, R any](ctx context.Context, queries iter.Seq[Q], factory Factory[Q, R], cfg Config[Q]) (iter.Seq2[R, error], error) {
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkerCount, cfg.Workers)
	}
	workers := cfg.Workers
	if cfg.SizeHint > 0 && cfg.SizeHint < workers {
		workers = cfg.SizeHint
	}
	if workers == 1 {
		return runSingle(ctx, queries, factory, cfg)
	}
	return runPool(ctx, queries, factory, cfg, workers)
}

// runSingle processes every query on the calling goroutine. This path has
// no concurrency and cannot deadlock.
func runSingle[Q, R any](ctx context.Context, queries iter.Seq[Q], factory Factory[Q, R], cfg Config[Q]) (iter.Seq2[R, error], error) {
	engine, err := factory()
	if err != nil {
		return nil, err
	}
	return func(yield func(R, error) bool) {
		var zero R
		total := 0
		for query := range queries {
			if err := context.Cause(ctx); err != nil {
				yield(zero, err)
				return
			}
			total++
			result, err := engine.Process(query)
			if err != nil {
				yield(zero, err)
				return
			}
			if cfg.Callback != nil {
				cfg.Callback(query, total)
			}
			engine.Reset()
			if !yield(result, nil) {
				return
			}
		}
	}, nil
}

func runPool[Q, R any](ctx context.Context, queries iter.Seq[Q], factory Factory[Q, R], cfg Config[Q], workers int) (iter.Seq2[R, error], error) {
	engines := make([]Engine[Q, R], workers)
	for i := range engines {
		engine, err := factory()
		if err != nil {
			return nil, err
		}
		engines[i] = engine
	}

	return func(yield func(R, error) bool) {
		var (
			zero      R
			submitted atomic.Int64
			wg        sync.WaitGroup
		)
		work := make(chan *chore[Q, R], workers)
		kill := newKillSwitch()

		// No worker outlives the run, however it exits: trip the switch,
		// then join. Defers run in reverse order.
		defer wg.Wait()
		defer kill.Set()

		wg.Add(workers)
		for _, engine := range engines {
			w := &worker[Q, R]{
				engine:    engine,
				work:      work,
				kill:      kill,
				callback:  cfg.Callback,
				submitted: &submitted,
			}
			go func() {
				defer wg.Done()
				w.run()
			}()
		}

		// Feed loop. Priority goes to keeping the work channel full so no
		// worker idles; the blocking send is the backpressure bound. After
		// each submission, already-finished heads of the FIFO are yielded
		// opportunistically so results reach the caller as early as the
		// ordering guarantee allows.
		var pending []*chore[Q, R]
		for query := range queries {
			if kill.IsSet() {
				break
			}
			c := newChore[Q, R](query)
			submitted.Add(1)
			select {
			case work <- c:
			case <-kill.ch:
				c.fail(ErrCanceled)
			case <-ctx.Done():
				kill.Set()
				c.fail(context.Cause(ctx))
			}
			pending = append(pending, c)
			for len(pending) > 0 && pending[0].completed() {
				result, err := pending[0].get()
				pending = pending[1:]
				if err != nil {
					yield(zero, err)
					return
				}
				if !yield(result, nil) {
					return
				}
			}
		}

		// Input exhausted (or feeding aborted): closing the channel is the
		// stop broadcast, one observation per worker under any contention.
		close(work)

		// Drain the FIFO in strict order. If the run was killed, chores
		// still buffered in the work channel will never be picked up, so
		// fail them here before blocking on them.
		for len(pending) > 0 {
			if kill.IsSet() {
				drainWork(work)
			}
			result, err := pending[0].get()
			pending = pending[1:]
			if err != nil {
				yield(zero, err)
				return
			}
			if !yield(result, nil) {
				return
			}
		}
	}, nil
}

// drainWork fails every chore left in a closed-or-quiescent work channel.
// Channel receives are exclusive, so a chore is failed by exactly one of
// the dispatcher and the workers.
func drainWork[Q, R any](work <-chan *chore[Q, R]) {
	for {
		select {
		case c, ok := <-work:
			if !ok {
				return
			}
			c.fail(ErrCanceled)
		default:
			return
		}
	}
}
