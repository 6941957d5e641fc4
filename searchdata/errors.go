package searchdata

import "errors"

// Error values for consistent error handling by callers.
var (
	ErrMalformed = errors.New("malformed search data")
	ErrNoIndex   = errors.New("search index not found")
)
