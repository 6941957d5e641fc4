// Package search provides a ranked full-text searcher for the index package.
//
// It exists to:
//   - Keep index small and dependency-light
//   - Offer relevance ranking on top of the plain substring lookup without
//     forcing a full-text engine on every consumer
//
// # Usage
//
// The primary type is [RankedSearcher], which implements [index.Searcher]:
//
//	searcher := search.NewRankedSearcher(search.Config{})
//	defer searcher.Close()
//
//	tbl, err := index.NewTable(entries, index.TableOptions{Searcher: searcher})
//	top, err := tbl.Search("media player", 10)
//
// # Fields
//
// Each entry is indexed as four fields:
//
//   - label: the search id, matched by substring and prefix
//   - name: the symbol name
//   - words: the symbol name split at camelCase boundaries
//   - scope: the qualified display text of every target
//
// # Configuration
//
// [Config] allows customization of field boosts and safety limits:
//
//	cfg := search.Config{
//	    LabelBoost: 4,    // substring/prefix matches on the label (default: 4)
//	    NameBoost:  3,    // name matches (default: 3)
//	    WordsBoost: 2,    // camelCase word matches (default: 2)
//	    ScopeBoost: 1,    // class/namespace matches (default: 1)
//	    MaxEntries: 5000, // limit entries to index (0 = unlimited)
//	}
//
// # Thread Safety
//
// RankedSearcher is safe for concurrent use. It caches its Bleve index keyed
// by the entry fingerprint and rebuilds only when the entry set changes.
//
// # Behavior
//
// Empty queries return the first N entries in table order. Non-empty queries
// are ranked by score, ties broken by label ascending.
package search
