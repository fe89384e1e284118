package dispatch

import "sync/atomic"

// Engine is one worker's private search engine. Each worker owns exactly one
// instance for the lifetime of the pool; instances are never shared across
// workers, so implementations need no internal locking. Reset is called
// after every successful query to clear mutable state (hit lists, score
// buffers) before the instance is reused.
type Engine[Q, R any] interface {
	// Process evaluates one query against the shared targets.
	Process(query Q) (R, error)

	// Reset clears per-query mutable state so the engine can be reused.
	Reset()
}

// Factory constructs one Engine per worker. It is called pool-size times at
// setup; a construction error aborts the run before any work starts.
type Factory[Q, R any] func() (Engine[Q, R], error)

// Callback is invoked on the worker goroutine after each successfully
// processed query, with the query and the cumulative number of queries
// submitted so far. It may be called concurrently from several workers and
// must be safe for that.
type Callback[Q any] func(query Q, total int)

type worker[Q, R any] struct {
	engine    Engine[Q, R]
	work      <-chan *chore[Q, R]
	kill      *killSwitch
	callback  Callback[Q]
	submitted *atomic.Int64
}

// run is the worker loop. It blocks on the work channel, which doubles as
// the shutdown signal: a closed channel means the input is exhausted. The
// kill switch is checked before every dequeue and observed in the same
// select, so a tripped switch stops the worker before it takes another
// query, an idle worker reacts immediately, and a busy one after its
// current query.
func (w *worker[Q, R]) run() {
	for {
		if w.kill.IsSet() {
			w.drain()
			return
		}
		select {
		case <-w.kill.ch:
			w.drain()
			return
		case c, ok := <-w.work:
			if !ok {
				return
			}
			if !w.process(c) {
				w.drain()
				return
			}
		}
	}
}

// process evaluates a single chore and publishes its outcome. It returns
// false when the engine faulted, which stops this worker permanently after
// it has tripped the kill switch for the others.
func (w *worker[Q, R]) process(c *chore[Q, R]) bool {
	result, err := w.engine.Process(c.query)
	if err != nil {
		w.kill.Set()
		c.fail(err)
		return false
	}
	if w.callback != nil {
		w.callback(c.query, int(w.submitted.Load()))
	}
	w.engine.Reset()
	c.complete(result)
	return true
}

// drain fails every chore still sitting in the work channel so the consumer
// draining the FIFO never blocks on a query that will not be processed.
func (w *worker[Q, R]) drain() {
	for {
		select {
		case c, ok := <-w.work:
			if !ok {
				return
			}
			c.fail(ErrCanceled)
		default:
			return
		}
	}
}
