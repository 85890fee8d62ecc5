// Package internalerr collects the sentinel errors shared across the
// knowledge-base packages.
package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicate        = errors.New("duplicate entry")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")

	// ErrWrongState is raised when a lifecycle operation is requested in a
	// state that does not permit it (e.g. inserting an axiom while in QUERY).
	ErrWrongState = errors.New("kb: wrong lifecycle state")

	// ErrVersionMismatch is returned when a compiled KB's on-disk format
	// version does not match what this build understands.
	ErrVersionMismatch = errors.New("kb: version mismatch")

	// ErrClosed is returned by a store operation after Close has run.
	ErrClosed = errors.New("kb: store closed")
)
