package index

// Target is one link destination for a search entry.
type Target struct {
	// Document is the page path inside the generated documentation tree,
	// relative to the tree root (for example "class_json_1_1_value.html").
	Document string `json:"document"`

	// Anchor is the fragment identifier of the symbol within Document.
	// It is empty for page-level targets such as a class overview.
	Anchor string `json:"anchor,omitempty"`

	// Display is the qualified, human-readable name of the symbol,
	// for example "AWE::MediaItem::getData() const".
	Display string `json:"display"`

	// ParentFrame mirrors the generator flag asking the search box to open
	// the link in the parent frame.
	ParentFrame bool `json:"parentFrame,omitempty"`
}

// Href returns the document-relative link "document#anchor".
func (t Target) Href() string {
	if t.Anchor == "" {
		return t.Document
	}
	return t.Document + "#" + t.Anchor
}

// Entry is a search label with the targets that share it. Overloaded
// members share one label and contribute one target each.
type Entry struct {
	// Label is the lowercase search id used for matching.
	Label string `json:"label"`

	// Name is the symbol name as written in the source, e.g. "getName".
	Name string `json:"name"`

	// Targets are the link destinations in generation order.
	Targets []Target `json:"targets"`
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := e
	if e.Targets != nil {
		out.Targets = make([]Target, len(e.Targets))
		copy(out.Targets, e.Targets)
	}
	return out
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
