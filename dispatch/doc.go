// Package dispatch runs a stream of independent queries across a fixed pool
// of workers while delivering results in submission order.
//
// Each worker owns one private Engine instance, constructed by a Factory and
// reused (with a Reset between queries) for the lifetime of the pool. Work
// flows through a bounded channel whose capacity equals the pool size, so a
// producer that outruns the workers blocks instead of growing memory without
// bound. Ordering is enforced by a FIFO of in-flight chores, not by the work
// channel: workers may finish in any order, but the caller always observes
// results in the order the queries were produced.
//
// A failure inside an engine is attached to the query that caused it and is
// surfaced to the caller at that query's position in the output stream. The
// failure also trips a shared kill switch so the remaining workers wind down
// after their current query; queries that were queued but never picked up are
// failed with ErrCanceled rather than left to block forever.
package dispatch
