package render

import (
	"github.com/jonwraymond/docsearch/index"
	"github.com/jonwraymond/docsearch/symboldoc"
)

// Link targets: flagged entries open in the parent frame, the rest in a new
// window.
const (
	parentTarget = "_parent"
	blankTarget  = "_blank"
)

// Link is one clickable result.
type Link struct {
	Href   string `json:"href"`
	Text   string `json:"text"`
	Target string `json:"target"`
}

// Row is one result line in the search box.
type Row struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Link and Scope are set when the entry has exactly one target.
	Link  *Link  `json:"link,omitempty"`
	Scope string `json:"scope,omitempty"`

	// Children holds one link per target otherwise.
	Children []Link `json:"children,omitempty"`
}

// Rows builds result rows for entries, resolving hrefs against baseURL.
func Rows(entries []index.Entry, baseURL string) ([]Row, error) {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		urls, err := symboldoc.ResolveURLs(baseURL, e.Targets)
		if err != nil {
			return nil, err
		}

		row := Row{ID: "SR_" + e.Label, Name: e.Name}
		if len(e.Targets) == 1 {
			t := e.Targets[0]
			row.Link = &Link{Href: urls[0], Text: e.Name, Target: linkTarget(t)}
			row.Scope = t.Display
		} else {
			row.Children = make([]Link, len(e.Targets))
			for i, t := range e.Targets {
				row.Children[i] = Link{Href: urls[i], Text: t.Display, Target: linkTarget(t)}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func linkTarget(t index.Target) string {
	if t.ParentFrame {
		return parentTarget
	}
	return blankTarget
}
