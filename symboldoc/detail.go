package symboldoc

import (
	"fmt"
	"strings"
)

// DetailLevel selects how much of a symbol Describe returns.
type DetailLevel string

const (
	DetailSummary DetailLevel = "summary"
	DetailTargets DetailLevel = "targets"
	DetailFull    DetailLevel = "full"
)

// IsValid reports whether l is a known level.
func (l DetailLevel) IsValid() bool {
	switch l {
	case DetailSummary, DetailTargets, DetailFull:
		return true
	}
	return false
}

// ParseDetailLevel parses a level name case-insensitively. The empty string
// is DetailSummary.
func ParseDetailLevel(s string) (DetailLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DetailSummary, nil
	}
	l := DetailLevel(s)
	if !l.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDetail, s)
	}
	return l, nil
}
