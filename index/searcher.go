package index

import "strings"

// Searcher is the pluggable search strategy behind Table.Search.
// Implementations receive a copy of the table entries in table order.
type Searcher interface {
	Search(query string, limit int, entries []Entry) ([]Entry, error)
}

// DeterministicSearcher reports whether a searcher always returns the same
// order for the same input. SearchPage requires it.
type DeterministicSearcher interface {
	Searcher
	Deterministic() bool
}

// SubstringSearcher matches labels containing the query, in table order.
// It is the default searcher of a Table.
type SubstringSearcher struct{}

// Search implements Searcher.
func (SubstringSearcher) Search(query string, limit int, entries []Entry) ([]Entry, error) {
	return matchEntries(NormalizeLabel(query), limit, entries, strings.Contains), nil
}

// Deterministic implements DeterministicSearcher.
func (SubstringSearcher) Deterministic() bool {
	return true
}

// PrefixSearcher matches labels starting with the query, in table order.
type PrefixSearcher struct{}

// Search implements Searcher.
func (PrefixSearcher) Search(query string, limit int, entries []Entry) ([]Entry, error) {
	return matchEntries(NormalizeLabel(query), limit, entries, strings.HasPrefix), nil
}

// Deterministic implements DeterministicSearcher.
func (PrefixSearcher) Deterministic() bool {
	return true
}

// IDSearcher matches labels containing the id encoding of the query (see
// ConvertToID), in table order, so "operator=" finds "operator_3d".
type IDSearcher struct{}

// Search implements Searcher.
func (IDSearcher) Search(query string, limit int, entries []Entry) ([]Entry, error) {
	return matchEntries(ConvertToID(query), limit, entries, strings.Contains), nil
}

// Deterministic implements DeterministicSearcher.
func (IDSearcher) Deterministic() bool {
	return true
}

// matchEntries returns entries whose label matches needle. A limit <= 0
// means no limit. The empty needle matches nothing.
func matchEntries(needle string, limit int, entries []Entry, match func(s, substr string) bool) []Entry {
	out := []Entry{}
	if needle == "" {
		return out
	}
	for _, e := range entries {
		if !match(e.Label, needle) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
