package hmmgo

import (
	"errors"
	"fmt"

	"github.com/hmmgo/hmmgo/dispatch"
)

var (
	// ErrNoTargets is returned when a search is started against a nil
	// target collection.
	ErrNoTargets = errors.New("no targets")

	// ErrCanceled reports a query that was abandoned because the run was
	// canceled before it completed.
	ErrCanceled = dispatch.ErrCanceled

	// ErrNoModel is returned when an alignment is started against a nil
	// model.
	ErrNoModel = errors.New("no model")
)

// UnsupportedQueryError indicates a query value outside the supported set
// of query types for the chosen search mode.
type UnsupportedQueryError struct {
	Query any
}

func (e *UnsupportedQueryError) Error() string {
	return fmt.Sprintf("unsupported query type %T", e.Query)
}
