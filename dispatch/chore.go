package dispatch

import (
	"sync"
	"time"
)

// chore tracks one query from submission to consumption. It links the query
// to its eventual result or error through a single-assignment completion
// signal: exactly one of complete or fail flips the done channel, exactly
// once. The dispatcher creates a chore when a query is submitted and drops it
// once the caller has consumed the result.
type chore[Q, R any] struct {
	query  Q
	result R
	err    error
	done   chan struct{}
}

func newChore[Q, R any](query Q) *chore[Q, R] {
	return &chore[Q, R]{query: query, done: make(chan struct{})}
}

// complete records the result and flips the done signal. Completing a chore
// twice is a protocol violation by the dispatcher, not a user-facing fault,
// and panics.
func (c *chore[Q, R]) complete(result R) {
	c.result = result
	c.markDone()
}

// fail records the error and flips the done signal.
func (c *chore[Q, R]) fail(err error) {
	c.err = err
	c.markDone()
}

func (c *chore[Q, R]) markDone() {
	select {
	case <-c.done:
		panic("dispatch: chore completed twice")
	default:
		close(c.done)
	}
}

// completed reports whether the chore is done without blocking.
func (c *chore[Q, R]) completed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// wait blocks until the chore is done or the timeout elapses. A timeout <= 0
// waits forever.
func (c *chore[Q, R]) wait(timeout time.Duration) bool {
	if timeout <= 0 {
		<-c.done
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-c.done:
		return true
	case <-timer.C:
		return false
	}
}

// get blocks until the chore is done, then returns the result or the error
// captured while processing it. Errors surface here, when the consumer
// retrieves this specific chore, not when they occurred.
func (c *chore[Q, R]) get() (R, error) {
	<-c.done
	return c.result, c.err
}

// killSwitch is the cooperative cancellation signal shared by every worker
// of one run. Setting it is idempotent; observers either poll IsSet between
// queries or select on the channel while idle.
type killSwitch struct {
	ch   chan struct{}
	once sync.Once
}

func newKillSwitch() *killSwitch {
	return &killSwitch{ch: make(chan struct{})}
}

// Set trips the switch. Safe to call from any goroutine, any number of times.
func (k *killSwitch) Set() {
	k.once.Do(func() { close(k.ch) })
}

// IsSet reports whether the switch has been tripped.
func (k *killSwitch) IsSet() bool {
	select {
	case <-k.ch:
		return true
	default:
		return false
	}
}
