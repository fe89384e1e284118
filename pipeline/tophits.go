package pipeline

// Hit is one reported match between a query and a target.
type Hit struct {
	// Name and Accession identify the target (a sequence in search mode, a
	// profile in scan mode).
	Name      string
	Accession string

	// Index is the target's position in its block.
	Index int

	// Score is the bit score of the best ungapped alignment.
	Score float32

	// Evalue is the expected number of targets scoring this well by chance.
	Evalue float64

	// Start and End delimit the matched span on the scored sequence,
	// 0-based and half-open.
	Start int
	End   int
}

// TopHits collects the reported hits for one query, sorted by decreasing
// score. A TopHits owns its memory and stays valid after the pipeline that
// produced it has been reset or reused.
type TopHits struct {
	// Query and QueryAccession identify the query that produced these hits.
	Query          string
	QueryAccession string

	// Z is the effective database size used for E-values.
	Z float64

	// Searched is the number of targets actually scored (after filtering).
	Searched int

	hits []Hit
}

// Len returns the number of reported hits.
func (th *TopHits) Len() int { return len(th.hits) }

// At returns the i-th hit, best first.
func (th *TopHits) At(i int) Hit { return th.hits[i] }

// Hits returns all reported hits, best first. The slice is owned by the
// TopHits; callers must not modify it.
func (th *TopHits) Hits() []Hit { return th.hits }
