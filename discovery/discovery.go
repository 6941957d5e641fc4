package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/docsearch/index"
	"github.com/jonwraymond/docsearch/search"
	"github.com/jonwraymond/docsearch/searchdata"
	"github.com/jonwraymond/docsearch/symboldoc"
)

// DefaultLimit is used when a ranked or paged query passes a limit <= 0.
const DefaultLimit = 20

// Mode selects the label matching used by LookupPage.
type Mode string

const (
	ModeSubstring Mode = "substring"
	ModePrefix    Mode = "prefix"

	// ModeID matches the query's id encoding, e.g. "operator=" finds
	// "operator_3d".
	ModeID Mode = "id"
)

// ParseMode parses a mode name. The empty string is ModeSubstring.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeSubstring:
		return ModeSubstring, nil
	case ModePrefix:
		return ModePrefix, nil
	case ModeID:
		return ModeID, nil
	}
	return "", fmt.Errorf("unknown lookup mode %q", s)
}

// ReloadObserver receives the outcome of every load attempt.
type ReloadObserver interface {
	ObserveReload(err error, elapsed time.Duration, entries int)
}

// Options configures a Discovery instance.
type Options struct {
	// Dir is the generated search directory, e.g. "html/search". Required.
	Dir string

	// Section is the search data section to load. Default: "functions".
	Section string

	// BaseURL is the documentation root used to resolve target URLs.
	// Empty keeps hrefs relative.
	BaseURL string

	// Ranked configures the ranked searcher behind Rank.
	Ranked search.Config

	// DisableRanking makes Rank fall back to substring matching.
	DisableRanking bool

	// Debounce is how long Watch waits for writes to settle. Default: 250ms.
	Debounce time.Duration

	// Logger receives load and watch events. Default: slog.Default().
	Logger *slog.Logger

	// Observer is notified of every load attempt. Optional.
	Observer ReloadObserver
}

// ChangeEvent describes a snapshot replacement.
type ChangeEvent struct {
	Previous string // fingerprint, empty on first load
	Current  string
	Entries  int
}

// ChangeListener is called after the snapshot changes.
type ChangeListener func(ChangeEvent)

// Status reports the state of the loaded index.
type Status struct {
	Enabled     bool      `json:"enabled"`
	Section     string    `json:"section"`
	Entries     int       `json:"entries"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	LoadedAt    time.Time `json:"loaded_at,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
}

// Discovery is the facade over the current symbol table snapshot.
type Discovery struct {
	opts   Options
	log    *slog.Logger
	ranked *search.RankedSearcher

	table  atomic.Pointer[index.Table]
	reload singleflight.Group

	mu        sync.Mutex
	loadedAt  time.Time
	lastErr   error
	listeners map[int]ChangeListener
	nextID    int
}

// New creates a Discovery. No index is loaded until Load is called.
func New(opts Options) (*Discovery, error) {
	if opts.Dir == "" {
		return nil, ErrNoDir
	}
	if opts.Section == "" {
		opts.Section = searchdata.DefaultSection
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 250 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	d := &Discovery{
		opts:      opts,
		log:       opts.Logger.With("component", "discovery", "dir", opts.Dir, "section", opts.Section),
		listeners: make(map[int]ChangeListener),
	}
	if !opts.DisableRanking {
		d.ranked = search.NewRankedSearcher(opts.Ranked)
	}
	return d, nil
}

// Close releases the ranked search index.
func (d *Discovery) Close() error {
	if d.ranked == nil {
		return nil
	}
	return d.ranked.Close()
}

// Load loads the index. It is Reload without the change report.
func (d *Discovery) Load(ctx context.Context) error {
	_, err := d.Reload(ctx)
	return err
}

// Reload reads the section files again and swaps in the new table. It
// reports whether the content changed. On error the previous snapshot, if
// any, stays in place. Concurrent calls share one load. A caller whose ctx
// ends returns ctx.Err() early; the shared load runs on for the others.
func (d *Discovery) Reload(ctx context.Context) (bool, error) {
	loadCtx := context.WithoutCancel(ctx)
	ch := d.reload.DoChan("reload", func() (any, error) {
		return d.doReload(loadCtx)
	})
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}

func (d *Discovery) doReload(ctx context.Context) (bool, error) {
	start := time.Now()
	tbl, err := d.loadTable(ctx)
	elapsed := time.Since(start)

	if err != nil {
		d.mu.Lock()
		d.lastErr = err
		d.mu.Unlock()
		d.observe(err, elapsed, 0)
		if d.table.Load() != nil {
			d.log.Warn("reload failed, keeping previous index", "error", err)
		} else {
			d.log.Warn("search disabled", "error", err)
		}
		return false, err
	}

	prev := d.table.Swap(tbl)
	d.mu.Lock()
	d.loadedAt = time.Now()
	d.lastErr = nil
	listeners := make([]ChangeListener, 0, len(d.listeners))
	for _, l := range d.listeners {
		listeners = append(listeners, l)
	}
	d.mu.Unlock()
	d.observe(nil, elapsed, tbl.Len())

	var prevFP string
	if prev != nil {
		prevFP = prev.Fingerprint()
	}
	if prevFP == tbl.Fingerprint() {
		d.log.Debug("index unchanged", "entries", tbl.Len(), "elapsed", elapsed)
		return false, nil
	}

	d.log.Info("index loaded", "entries", tbl.Len(), "fingerprint", tbl.Fingerprint(), "elapsed", elapsed)
	ev := ChangeEvent{Previous: prevFP, Current: tbl.Fingerprint(), Entries: tbl.Len()}
	for _, l := range listeners {
		l(ev)
	}
	return true, nil
}

func (d *Discovery) loadTable(ctx context.Context) (*index.Table, error) {
	entries, err := searchdata.LoadDir(ctx, d.opts.Dir, d.opts.Section)
	if err != nil {
		return nil, err
	}
	tbl, err := index.NewTable(entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", searchdata.ErrMalformed, err)
	}
	return tbl, nil
}

func (d *Discovery) observe(err error, elapsed time.Duration, entries int) {
	if d.opts.Observer != nil {
		d.opts.Observer.ObserveReload(err, elapsed, entries)
	}
}

// OnChange registers a listener for snapshot changes. Listeners run
// synchronously on the reloading goroutine. Returns an unsubscribe function.
func (d *Discovery) OnChange(listener ChangeListener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = listener
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
	}
}

// Enabled reports whether a usable index is loaded.
func (d *Discovery) Enabled() bool {
	return d.table.Load() != nil
}

// Table returns the current snapshot.
func (d *Discovery) Table() (*index.Table, error) {
	tbl := d.table.Load()
	if tbl == nil {
		return nil, ErrSearchDisabled
	}
	return tbl, nil
}

// Status reports the current snapshot and the outcome of the last load.
func (d *Discovery) Status() Status {
	st := Status{Section: d.opts.Section}
	if tbl := d.table.Load(); tbl != nil {
		st.Enabled = true
		st.Entries = tbl.Len()
		st.Fingerprint = tbl.Fingerprint()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	st.LoadedAt = d.loadedAt
	if d.lastErr != nil {
		st.LastError = d.lastErr.Error()
	}
	return st
}

// BaseURL returns the configured documentation root.
func (d *Discovery) BaseURL() string {
	return d.opts.BaseURL
}

// Lookup returns every entry whose label contains query, in table order.
func (d *Discovery) Lookup(query string) ([]index.Entry, error) {
	tbl, err := d.Table()
	if err != nil {
		return nil, err
	}
	return tbl.Lookup(query), nil
}

// LookupPrefix returns every entry whose label starts with query.
func (d *Discovery) LookupPrefix(query string) ([]index.Entry, error) {
	tbl, err := d.Table()
	if err != nil {
		return nil, err
	}
	return tbl.LookupPrefix(query), nil
}

// LookupID returns every entry whose label contains the id encoding of
// query.
func (d *Discovery) LookupID(query string) ([]index.Entry, error) {
	tbl, err := d.Table()
	if err != nil {
		return nil, err
	}
	return tbl.LookupID(query), nil
}

// LookupPage returns one page of lookup results and the next cursor. The
// cursor is tied to the snapshot; after a content change it is rejected
// with index.ErrInvalidCursor.
func (d *Discovery) LookupPage(query string, mode Mode, limit int, cursor string) ([]index.Entry, string, error) {
	tbl, err := d.Table()
	if err != nil {
		return nil, "", err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	switch mode {
	case ModePrefix:
		tbl = tbl.WithSearcher(index.PrefixSearcher{})
	case ModeID:
		tbl = tbl.WithSearcher(index.IDSearcher{})
	}
	return tbl.SearchPage(query, limit, cursor)
}

// Get returns the entry for label.
func (d *Discovery) Get(label string) (index.Entry, error) {
	tbl, err := d.Table()
	if err != nil {
		return index.Entry{}, err
	}
	e, ok := tbl.Get(label)
	if !ok {
		return index.Entry{}, fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	return e, nil
}

// TargetsFor returns the targets of label in generation order, or nil if
// the label is unknown.
func (d *Discovery) TargetsFor(label string) ([]index.Target, error) {
	tbl, err := d.Table()
	if err != nil {
		return nil, err
	}
	return tbl.TargetsFor(label), nil
}

// Rank returns up to limit entries ordered by relevance.
func (d *Discovery) Rank(query string, limit int) (Results, error) {
	tbl, err := d.Table()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if d.ranked == nil {
		entries, err := tbl.Search(query, limit)
		if err != nil {
			return nil, err
		}
		return newResults(entries, MatchSubstring), nil
	}

	entries, err := tbl.WithSearcher(d.ranked).Search(query, limit)
	if err != nil {
		if errors.Is(err, search.ErrClosed) {
			return nil, ErrSearchDisabled
		}
		return nil, err
	}
	return newResults(entries, MatchRanked), nil
}

// RankInScope is Rank restricted to entries with a target declared in scope.
// The scope filter runs over the full ranking before the limit applies, so
// matches ranked below the first limit results are still returned. An empty
// scope is plain Rank.
func (d *Discovery) RankInScope(query, scope string, limit int) (Results, error) {
	if scope == "" {
		return d.Rank(query, limit)
	}
	tbl, err := d.Table()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	results, err := d.Rank(query, tbl.Len())
	if err != nil {
		return nil, err
	}
	results = results.FilterByScope(scope)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Describe documents label at level, resolving URLs against BaseURL.
func (d *Discovery) Describe(label string, level symboldoc.DetailLevel) (symboldoc.SymbolDoc, error) {
	e, err := d.Get(label)
	if err != nil {
		return symboldoc.SymbolDoc{}, err
	}
	return symboldoc.Describe(e, level, d.opts.BaseURL)
}
