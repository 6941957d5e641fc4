package symboldoc

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jonwraymond/docsearch/index"
)

// SymbolDoc is the documentation for one entry at a given detail level.
type SymbolDoc struct {
	Label     string      `json:"label"`
	Name      string      `json:"name"`
	Level     DetailLevel `json:"level"`
	Summary   string      `json:"summary"`
	Overloads int         `json:"overloads"`
	Scopes    []string    `json:"scopes,omitempty"`

	// Targets is set at DetailTargets and DetailFull.
	Targets []index.Target `json:"targets,omitempty"`

	// Signatures and URLs are set at DetailFull, one per target.
	Signatures []Signature `json:"signatures,omitempty"`
	URLs       []string    `json:"urls,omitempty"`
}

// Describe documents e at level. At DetailFull each target's URL is resolved
// against baseURL; an empty baseURL leaves hrefs relative.
func Describe(e index.Entry, level DetailLevel, baseURL string) (SymbolDoc, error) {
	if level == "" {
		level = DetailSummary
	}
	if !level.IsValid() {
		return SymbolDoc{}, fmt.Errorf("%w: %q", ErrInvalidDetail, level)
	}

	sigs := make([]Signature, len(e.Targets))
	for i, t := range e.Targets {
		sigs[i] = ParseSignature(t.Display)
	}
	scopes := distinctScopes(sigs)

	doc := SymbolDoc{
		Label:     e.Label,
		Name:      e.Name,
		Level:     level,
		Summary:   summarize(e.Name, len(e.Targets), scopes),
		Overloads: len(e.Targets),
		Scopes:    scopes,
	}
	if level == DetailSummary {
		return doc, nil
	}

	doc.Targets = make([]index.Target, len(e.Targets))
	copy(doc.Targets, e.Targets)
	if level == DetailTargets {
		return doc, nil
	}

	urls, err := ResolveURLs(baseURL, e.Targets)
	if err != nil {
		return SymbolDoc{}, err
	}
	doc.Signatures = sigs
	doc.URLs = urls
	return doc, nil
}

// ResolveURLs resolves each target's href against baseURL.
func ResolveURLs(baseURL string, targets []index.Target) ([]string, error) {
	out := make([]string, len(targets))
	if strings.TrimSpace(baseURL) == "" {
		for i, t := range targets {
			out[i] = t.Href()
		}
		return out, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	for i, t := range targets {
		u := base.JoinPath(t.Document)
		u.Fragment = t.Anchor
		out[i] = u.String()
	}
	return out, nil
}

func distinctScopes(sigs []Signature) []string {
	seen := make(map[string]struct{}, len(sigs))
	var out []string
	for _, s := range sigs {
		if s.Scope == "" {
			continue
		}
		if _, ok := seen[s.Scope]; ok {
			continue
		}
		seen[s.Scope] = struct{}{}
		out = append(out, s.Scope)
	}
	return out
}

func summarize(name string, targets int, scopes []string) string {
	noun := "definition"
	if targets != 1 {
		noun = "definitions"
	}
	switch len(scopes) {
	case 0:
		return fmt.Sprintf("%s: %d %s", name, targets, noun)
	case 1:
		return fmt.Sprintf("%s: %d %s in %s", name, targets, noun, scopes[0])
	default:
		return fmt.Sprintf("%s: %d %s across %d scopes", name, targets, noun, len(scopes))
	}
}
