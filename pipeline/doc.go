// Package pipeline implements the search engine that evaluates one query at
// a time against a shared target collection.
//
// A Pipeline instance is stateful and cheap to reuse: it owns scratch score
// buffers and a hit list that are recycled across queries, with Reset
// clearing per-query state in between. Instances are not safe for
// concurrent use; the dispatcher gives every worker its own.
package pipeline
