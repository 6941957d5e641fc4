package search

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/jonwraymond/docsearch/index"
)

// Default field boosts.
const (
	DefaultLabelBoost = 4
	DefaultNameBoost  = 3
	DefaultWordsBoost = 2
	DefaultScopeBoost = 1
)

// ErrClosed is returned by searches on a closed RankedSearcher.
var ErrClosed = errors.New("ranked searcher is closed")

// Config configures a RankedSearcher. Zero values select the defaults.
type Config struct {
	LabelBoost float64
	NameBoost  float64
	WordsBoost float64
	ScopeBoost float64

	// MaxEntries caps how many entries are indexed, in table order.
	// 0 means unlimited.
	MaxEntries int
}

func (c Config) withDefaults() Config {
	if c.LabelBoost <= 0 {
		c.LabelBoost = DefaultLabelBoost
	}
	if c.NameBoost <= 0 {
		c.NameBoost = DefaultNameBoost
	}
	if c.WordsBoost <= 0 {
		c.WordsBoost = DefaultWordsBoost
	}
	if c.ScopeBoost <= 0 {
		c.ScopeBoost = DefaultScopeBoost
	}
	return c
}

// rankedDoc is the Bleve document for one entry.
type rankedDoc struct {
	Label string `json:"label"`
	Name  string `json:"name"`
	Words string `json:"words"`
	Scope string `json:"scope"`
}

// RankedSearcher ranks entries with a Bleve index.
type RankedSearcher struct {
	cfg Config

	mu          sync.RWMutex
	idx         bleve.Index
	fingerprint string
	closed      bool
}

// NewRankedSearcher creates a searcher. The Bleve index is built lazily on
// the first search.
func NewRankedSearcher(cfg Config) *RankedSearcher {
	return &RankedSearcher{cfg: cfg.withDefaults()}
}

// Deterministic implements index.DeterministicSearcher.
func (s *RankedSearcher) Deterministic() bool {
	return true
}

// Close releases the Bleve index. Searching after Close fails.
func (s *RankedSearcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.idx == nil {
		return nil
	}
	err := s.idx.Close()
	s.idx = nil
	s.fingerprint = ""
	return err
}

// Search implements index.Searcher.
func (s *RankedSearcher) Search(q string, limit int, entries []index.Entry) ([]index.Entry, error) {
	if limit <= 0 || len(entries) == 0 {
		return []index.Entry{}, nil
	}
	if s.cfg.MaxEntries > 0 && len(entries) > s.cfg.MaxEntries {
		entries = entries[:s.cfg.MaxEntries]
	}

	q = strings.TrimSpace(q)
	if q == "" {
		n := min(limit, len(entries))
		out := make([]index.Entry, n)
		copy(out, entries[:n])
		return out, nil
	}

	fp := index.Fingerprint(entries)
	labels, err := s.searchFingerprint(fp, entries, q, limit)
	if err != nil {
		return nil, err
	}

	byLabel := make(map[string]int, len(entries))
	for i, e := range entries {
		byLabel[e.Label] = i
	}
	out := make([]index.Entry, 0, len(labels))
	for _, label := range labels {
		if i, ok := byLabel[label]; ok {
			out = append(out, entries[i])
		}
	}
	return out, nil
}

// searchFingerprint runs the query against the index for fp, rebuilding it
// when the entry set changed.
func (s *RankedSearcher) searchFingerprint(fp string, entries []index.Entry, q string, limit int) ([]string, error) {
	s.mu.RLock()
	if s.idx != nil && s.fingerprint == fp {
		labels, err := s.query(q, limit)
		s.mu.RUnlock()
		return labels, err
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.idx == nil || s.fingerprint != fp {
		if err := s.rebuildLocked(fp, entries); err != nil {
			return nil, err
		}
	}
	return s.query(q, limit)
}

// rebuildLocked replaces the Bleve index. Callers hold s.mu.
func (s *RankedSearcher) rebuildLocked(fp string, entries []index.Entry) error {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return fmt.Errorf("create ranked index: %w", err)
	}
	batch := idx.NewBatch()
	for _, e := range entries {
		if err := batch.Index(e.Label, toRankedDoc(e)); err != nil {
			_ = idx.Close()
			return fmt.Errorf("index %q: %w", e.Label, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return fmt.Errorf("build ranked index: %w", err)
	}

	if s.idx != nil {
		_ = s.idx.Close()
	}
	s.idx = idx
	s.fingerprint = fp
	return nil
}

func (s *RankedSearcher) query(q string, limit int) ([]string, error) {
	req := bleve.NewSearchRequestOptions(s.buildQuery(q), limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	res, err := s.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("ranked search: %w", err)
	}
	labels := make([]string, len(res.Hits))
	for i, hit := range res.Hits {
		labels[i] = hit.ID
	}
	return labels, nil
}

func (s *RankedSearcher) buildQuery(q string) query.Query {
	id := index.ConvertToID(q)
	plain := index.NormalizeLabel(q)

	var clauses []query.Query

	labelContains := bleve.NewWildcardQuery("*" + id + "*")
	labelContains.SetField("label")
	labelContains.SetBoost(s.cfg.LabelBoost)
	clauses = append(clauses, labelContains)

	if plain != id && !strings.ContainsAny(plain, "*?") {
		plainContains := bleve.NewWildcardQuery("*" + plain + "*")
		plainContains.SetField("label")
		plainContains.SetBoost(s.cfg.LabelBoost)
		clauses = append(clauses, plainContains)
	}

	labelPrefix := bleve.NewPrefixQuery(id)
	labelPrefix.SetField("label")
	labelPrefix.SetBoost(s.cfg.LabelBoost)
	clauses = append(clauses, labelPrefix)

	name := bleve.NewMatchQuery(q)
	name.SetField("name")
	name.SetBoost(s.cfg.NameBoost)
	clauses = append(clauses, name)

	words := bleve.NewMatchQuery(q)
	words.SetField("words")
	words.SetBoost(s.cfg.WordsBoost)
	clauses = append(clauses, words)

	scope := bleve.NewMatchQuery(q)
	scope.SetField("scope")
	scope.SetBoost(s.cfg.ScopeBoost)
	clauses = append(clauses, scope)

	return bleve.NewDisjunctionQuery(clauses...)
}

func toRankedDoc(e index.Entry) rankedDoc {
	displays := make([]string, len(e.Targets))
	for i, t := range e.Targets {
		displays[i] = t.Display
	}
	return rankedDoc{
		Label: e.Label,
		Name:  e.Name,
		Words: splitWords(e.Name),
		Scope: strings.Join(displays, " "),
	}
}

func buildMapping() mapping.IndexMapping {
	labelField := bleve.NewTextFieldMapping()
	labelField.Analyzer = keyword.Name

	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("label", labelField)
	doc.AddFieldMappingsAt("name", textField)
	doc.AddFieldMappingsAt("words", textField)
	doc.AddFieldMappingsAt("scope", textField)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = standard.Name
	return m
}
