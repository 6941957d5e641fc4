package discovery

import (
	"github.com/jonwraymond/docsearch/index"
	"github.com/jonwraymond/docsearch/symboldoc"
)

// MatchType indicates how a result was matched.
type MatchType string

const (
	// MatchSubstring is a case-insensitive substring match on the label.
	MatchSubstring MatchType = "substring"

	// MatchRanked is a relevance-ranked full-text match.
	MatchRanked MatchType = "ranked"
)

// Result is one search result with its position.
type Result struct {
	Entry index.Entry `json:"entry"`

	// Rank is the 1-based position in the result list.
	Rank int `json:"rank"`

	MatchType MatchType `json:"match_type"`
}

// Results is a slice of Result with helper methods.
type Results []Result

func newResults(entries []index.Entry, mt MatchType) Results {
	out := make(Results, len(entries))
	for i, e := range entries {
		out[i] = Result{Entry: e, Rank: i + 1, MatchType: mt}
	}
	return out
}

// Labels returns the labels in result order.
func (r Results) Labels() []string {
	labels := make([]string, len(r))
	for i, result := range r {
		labels[i] = result.Entry.Label
	}
	return labels
}

// Entries returns the entries in result order.
func (r Results) Entries() []index.Entry {
	entries := make([]index.Entry, len(r))
	for i, result := range r {
		entries[i] = result.Entry
	}
	return entries
}

// FilterByScope returns results with at least one target declared in scope,
// such as "AWE::MediaItem".
func (r Results) FilterByScope(scope string) Results {
	var filtered Results
	for _, result := range r {
		for _, t := range result.Entry.Targets {
			if symboldoc.ParseSignature(t.Display).Scope == scope {
				filtered = append(filtered, result)
				break
			}
		}
	}
	return filtered
}
