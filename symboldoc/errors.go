package symboldoc

import "errors"

var (
	// ErrInvalidDetail is returned for an unknown DetailLevel.
	ErrInvalidDetail = errors.New("invalid detail level")

	// ErrInvalidBaseURL is returned when the documentation root is not a URL.
	ErrInvalidBaseURL = errors.New("invalid base url")
)
