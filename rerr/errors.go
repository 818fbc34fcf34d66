// Package rerr defines the sentinel error kinds shared across the graph, training,
// scheduling, and graph-file codec packages, following the teacher's own preference
// for fmt.Errorf-wrapped stdlib errors over a third-party errors library.
package rerr

import "errors"

var (
	// ErrNotInitialized is returned when an operation is invoked before successful
	// initialization of a stateful component (e.g. the process-wide scheduler).
	ErrNotInitialized = errors.New("not initialized")

	// ErrInvalidBounds is returned when a caller supplies an illegal (min, max, start)
	// triple to the scheduler.
	ErrInvalidBounds = errors.New("invalid bounds")

	// ErrMalformedInput is returned when a graph file cannot be parsed.
	ErrMalformedInput = errors.New("malformed input")

	// ErrMissingVolume is returned when a decoded RAG has no nodes.
	ErrMissingVolume = errors.New("missing volume")

	// ErrDimensionMismatch is returned when a ground-truth assignment's shape disagrees
	// with the label volume it is meant to describe.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrIOFailure is returned on file read/write errors.
	ErrIOFailure = errors.New("i/o failure")

	// ErrInvariantViolation marks an internal bug: a graph inconsistency that should be
	// impossible under the documented mutation protocol. Unrecoverable.
	ErrInvariantViolation = errors.New("invariant violation")
)
