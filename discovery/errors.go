package discovery

import "errors"

// Error values for discovery operations.
var (
	// ErrSearchDisabled is returned by every query while no usable index is
	// loaded.
	ErrSearchDisabled = errors.New("search is disabled: no usable index loaded")

	// ErrNotFound is returned when a label is not in the table.
	ErrNotFound = errors.New("symbol not found")

	// ErrNoDir is returned by New without an index directory.
	ErrNoDir = errors.New("index directory is required")
)
