package searchdata

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/jonwraymond/docsearch/index"
)

// hrefPrefix is the path from the search/ directory back to the
// documentation root.
const hrefPrefix = "../"

// Decode parses one search data file.
func Decode(r io.Reader) ([]index.Entry, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read search data: %w", err)
	}
	return DecodeBytes(src)
}

// DecodeBytes parses one search data file held in memory.
func DecodeBytes(src []byte) ([]index.Entry, error) {
	p := &parser{src: src}
	if err := p.header(); err != nil {
		return nil, err
	}
	records, err := p.array()
	if err != nil {
		return nil, err
	}
	if err := p.trailer(); err != nil {
		return nil, err
	}

	entries := make([]index.Entry, 0, len(records))
	for i, rec := range records {
		e, err := decodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func decodeRecord(rec any) (index.Entry, error) {
	fields, ok := rec.([]any)
	if !ok || len(fields) != 2 {
		return index.Entry{}, fmt.Errorf("expected [label, group]")
	}
	label, ok := fields[0].(string)
	if !ok {
		return index.Entry{}, fmt.Errorf("label is not a string")
	}
	group, ok := fields[1].([]any)
	if !ok || len(group) < 2 {
		return index.Entry{}, fmt.Errorf("label %q: expected [name, target, ...]", label)
	}
	name, ok := group[0].(string)
	if !ok {
		return index.Entry{}, fmt.Errorf("label %q: name is not a string", label)
	}

	e := index.Entry{
		Label:   label,
		Name:    html.UnescapeString(name),
		Targets: make([]index.Target, 0, len(group)-1),
	}
	for j, raw := range group[1:] {
		t, err := decodeTarget(raw)
		if err != nil {
			return index.Entry{}, fmt.Errorf("label %q target %d: %v", label, j, err)
		}
		e.Targets = append(e.Targets, t)
	}
	return e, nil
}

func decodeTarget(raw any) (index.Target, error) {
	fields, ok := raw.([]any)
	if !ok || len(fields) != 3 {
		return index.Target{}, fmt.Errorf("expected [href, flag, display]")
	}
	href, ok := fields[0].(string)
	if !ok {
		return index.Target{}, fmt.Errorf("href is not a string")
	}
	var parent bool
	switch flag := fields[1].(type) {
	case int:
		parent = flag != 0
	case bool:
		parent = flag
	default:
		return index.Target{}, fmt.Errorf("flag is not a number")
	}
	display, ok := fields[2].(string)
	if !ok {
		return index.Target{}, fmt.Errorf("display is not a string")
	}

	doc, anchor := splitHref(href)
	return index.Target{
		Document:    doc,
		Anchor:      anchor,
		Display:     trimDisplay(html.UnescapeString(display)),
		ParentFrame: parent,
	}, nil
}

func trimDisplay(s string) string {
	return strings.TrimRight(s, " \t")
}

func splitHref(href string) (document, anchor string) {
	href = strings.TrimPrefix(href, hrefPrefix)
	document, anchor, _ = strings.Cut(href, "#")
	return document, anchor
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var jsEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)

func quote(s string) string {
	return "'" + jsEscaper.Replace(s) + "'"
}

// Encode writes entries in search data file format. Display text is written
// without trailing blanks, matching what Decode returns, so decoding the
// output yields the entries as Decode would have produced them.
func Encode(w io.Writer, entries []index.Entry) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("var searchData=\n[\n")
	for i, e := range entries {
		bw.WriteString("  [")
		bw.WriteString(quote(e.Label))
		bw.WriteString(",[")
		bw.WriteString(quote(htmlEscaper.Replace(e.Name)))
		for _, t := range e.Targets {
			flag := "0"
			if t.ParentFrame {
				flag = "1"
			}
			bw.WriteString(",[")
			bw.WriteString(quote(hrefPrefix + t.Href()))
			bw.WriteString(",")
			bw.WriteString(flag)
			bw.WriteString(",")
			bw.WriteString(quote(htmlEscaper.Replace(trimDisplay(t.Display))))
			bw.WriteString("]")
		}
		bw.WriteString("]]")
		if i < len(entries)-1 {
			bw.WriteString(",")
		}
		bw.WriteString("\n")
	}
	bw.WriteString("];\n")
	return bw.Flush()
}
