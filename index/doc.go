// Package index provides the immutable symbol table behind a documentation
// search box.
//
// A [Table] maps lowercase search labels to the documentation targets that
// carry them. It is built once from the records a documentation generator
// emits and is never mutated afterwards.
//
// # Usage
//
// Build a table from decoded entries:
//
//	tbl, err := index.NewTable([]index.Entry{
//	    {
//	        Label: "getname",
//	        Name:  "getName",
//	        Targets: []index.Target{
//	            {Document: "class_a_w_e_1_1_media_item.html", Anchor: "a20a32", Display: "AWE::MediaItem::getName()"},
//	        },
//	    },
//	})
//
// Query it:
//
//	entries := tbl.Lookup("name")        // substring, table order
//	targets := tbl.TargetsFor("getname") // generation order
//
// # Matching
//
// Lookup matches a query against labels case-insensitively as a substring.
// LookupID matches the query's generator id encoding instead (see
// [ConvertToID]), so that symbols such as "operator=" are found under their
// encoded labels. The empty query matches nothing.
//
// # Pluggable Search
//
// Search and SearchPage delegate to a [Searcher]. The default searcher is the
// substring matcher used by Lookup; ranked searchers live in package search:
//
//	tbl, err := index.NewTable(entries, index.TableOptions{Searcher: search.NewRankedSearcher(search.Config{})})
//
// WithSearcher returns a view of an existing table that shares its entries
// but searches with another strategy.
//
// # Pagination
//
// SearchPage returns an opaque cursor bound to the table fingerprint:
//
//	page, next, err := tbl.SearchPage("get", 10, "")
//	if next != "" {
//	    page, next, err = tbl.SearchPage("get", 10, next)
//	}
//
// # Thread Safety
//
// A Table is read-only after NewTable returns. All accessors return copies,
// so concurrent readers never contend.
package index
