package index

import (
	"fmt"
	"strings"
)

// TableOptions configures a Table.
type TableOptions struct {
	// Searcher backs Search and SearchPage. Default: SubstringSearcher.
	Searcher Searcher

	// RequireDeterministicSearcher makes SearchPage fail for searchers that
	// do not report deterministic ordering. Default: true.
	RequireDeterministicSearcher *bool
}

// Table is an immutable, ordered symbol table.
type Table struct {
	entries     []Entry
	byLabel     map[string]int
	fingerprint string

	searcher             Searcher
	requireDeterministic bool
}

// NewTable validates entries and freezes them into a Table. The input slice
// is copied; later changes to it do not affect the table.
//
// A single malformed record invalidates the whole table: labels must be
// non-empty, lowercase and unique; every entry needs a name and at least one
// target; every target needs a document, and a document#anchor pair may only
// occur once.
func NewTable(entries []Entry, opts ...TableOptions) (*Table, error) {
	cfg := TableOptions{}
	if len(opts) > 0 {
		cfg = opts[0]
	}

	t := &Table{
		entries:              cloneEntries(entries),
		byLabel:              make(map[string]int, len(entries)),
		searcher:             cfg.Searcher,
		requireDeterministic: true,
	}
	if t.searcher == nil {
		t.searcher = SubstringSearcher{}
	}
	if cfg.RequireDeterministicSearcher != nil {
		t.requireDeterministic = *cfg.RequireDeterministicSearcher
	}

	hrefs := make(map[string]string)
	for i, e := range t.entries {
		if err := validateEntry(e); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if _, dup := t.byLabel[e.Label]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, e.Label)
		}
		t.byLabel[e.Label] = i

		for _, target := range e.Targets {
			href := target.Href()
			if owner, dup := hrefs[href]; dup {
				return nil, fmt.Errorf("%w: %s (labels %q and %q)", ErrDuplicateAnchor, href, owner, e.Label)
			}
			hrefs[href] = e.Label
		}
	}

	t.fingerprint = Fingerprint(t.entries)
	return t, nil
}

func validateEntry(e Entry) error {
	if strings.TrimSpace(e.Label) == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidEntry)
	}
	if e.Label != NormalizeLabel(e.Label) {
		return fmt.Errorf("%w: label %q is not lowercase", ErrInvalidEntry, e.Label)
	}
	if e.Name == "" {
		return fmt.Errorf("%w: label %q has no name", ErrInvalidEntry, e.Label)
	}
	if len(e.Targets) == 0 {
		return fmt.Errorf("%w: label %q has no targets", ErrInvalidEntry, e.Label)
	}
	for j, target := range e.Targets {
		if target.Document == "" {
			return fmt.Errorf("%w: label %q target %d has no document", ErrInvalidEntry, e.Label, j)
		}
	}
	return nil
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Fingerprint returns the content hash of the table.
func (t *Table) Fingerprint() string {
	return t.fingerprint
}

// Entries returns a copy of all entries in table order.
func (t *Table) Entries() []Entry {
	return cloneEntries(t.entries)
}

// Get returns the entry for label. Matching is case-insensitive.
func (t *Table) Get(label string) (Entry, bool) {
	i, ok := t.byLabel[NormalizeLabel(label)]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i].Clone(), true
}

// Lookup returns every entry whose label contains query as a
// case-insensitive substring, in table order. The empty query returns no
// entries.
func (t *Table) Lookup(query string) []Entry {
	return cloneEntries(matchEntries(NormalizeLabel(query), 0, t.entries, strings.Contains))
}

// LookupPrefix returns every entry whose label starts with query, in table
// order. This is the generator's own search-box behavior.
func (t *Table) LookupPrefix(query string) []Entry {
	return cloneEntries(matchEntries(NormalizeLabel(query), 0, t.entries, strings.HasPrefix))
}

// LookupID returns every entry whose label contains the id encoding of
// query, in table order. Use it for symbol names with characters outside
// the label alphabet, such as "operator=".
func (t *Table) LookupID(query string) []Entry {
	return cloneEntries(matchEntries(ConvertToID(query), 0, t.entries, strings.Contains))
}

// TargetsFor returns the targets of the entry with label in generation
// order, or nil if the label is unknown.
func (t *Table) TargetsFor(label string) []Target {
	e, ok := t.Get(label)
	if !ok {
		return nil
	}
	return e.Targets
}

// WithSearcher returns a view of t whose Search and SearchPage use s. The
// view shares t's entries; a nil s selects SubstringSearcher.
func (t *Table) WithSearcher(s Searcher) *Table {
	if s == nil {
		s = SubstringSearcher{}
	}
	v := *t
	v.searcher = s
	return &v
}

// Search runs the configured searcher and returns at most limit entries.
func (t *Table) Search(query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		return []Entry{}, nil
	}
	results, err := t.searcher.Search(query, limit, cloneEntries(t.entries))
	if err != nil {
		return nil, err
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
