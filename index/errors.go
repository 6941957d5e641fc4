package index

import "errors"

// Error values for consistent error handling by callers.
var (
	ErrInvalidEntry             = errors.New("invalid entry")
	ErrDuplicateLabel           = errors.New("duplicate label")
	ErrDuplicateAnchor          = errors.New("duplicate anchor")
	ErrInvalidCursor            = errors.New("invalid cursor")
	ErrNonDeterministicSearcher = errors.New("searcher is not deterministic")
)
