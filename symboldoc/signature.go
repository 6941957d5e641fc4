package symboldoc

import "strings"

// Signature is a parsed display string.
type Signature struct {
	Scope      string   `json:"scope,omitempty"`
	Member     string   `json:"member,omitempty"`
	Params     []string `json:"params,omitempty"`
	Qualifiers string   `json:"qualifiers,omitempty"`

	// Callable is false for display strings without a parameter list.
	Callable bool `json:"callable"`
}

// Qualified returns Scope::Member, or whichever of the two is set.
func (s Signature) Qualified() string {
	switch {
	case s.Scope == "":
		return s.Member
	case s.Member == "":
		return s.Scope
	}
	return s.Scope + "::" + s.Member
}

// String reassembles the signature in display form.
func (s Signature) String() string {
	if !s.Callable {
		return s.Qualified()
	}
	var b strings.Builder
	b.WriteString(s.Qualified())
	b.WriteByte('(')
	b.WriteString(strings.Join(s.Params, ", "))
	b.WriteByte(')')
	if s.Qualifiers != "" {
		b.WriteByte(' ')
		b.WriteString(s.Qualifiers)
	}
	return b.String()
}

// ParseSignature splits a display string into scope, member, parameters and
// trailing qualifiers.
func ParseSignature(display string) Signature {
	display = strings.TrimSpace(display)
	open := paramListStart(display)
	if open < 0 {
		return Signature{Scope: display}
	}
	end := matchingParen(display, open)
	if end < 0 {
		return Signature{Scope: display}
	}

	sig := Signature{
		Params:     splitParams(display[open+1 : end]),
		Qualifiers: strings.TrimSpace(display[end+1:]),
		Callable:   true,
	}
	head := strings.TrimSpace(display[:open])
	if i := scopeSeparator(head); i >= 0 {
		sig.Scope = head[:i]
		sig.Member = head[i+2:]
	} else {
		sig.Member = head
	}
	return sig
}

// paramListStart finds the '(' that opens the parameter list, skipping the
// parentheses of an operator() name.
func paramListStart(s string) int {
	from := 0
	if i := strings.Index(s, "operator()"); i >= 0 {
		from = i + len("operator()")
	}
	i := strings.IndexByte(s[from:], '(')
	if i < 0 {
		return -1
	}
	return from + i
}

func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// scopeSeparator returns the index of the last "::" outside template
// brackets, or -1. The member part of an operator name is never split.
func scopeSeparator(head string) int {
	limit := len(head)
	if i := strings.Index(head, "operator"); i >= 0 {
		limit = i
	}
	depth := 0
	last := -1
	for i := 0; i < limit; i++ {
		switch head[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 && i+1 < limit && head[i+1] == ':' {
				last = i
				i++
			}
		}
	}
	return last
}

func splitParams(inner string) []string {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return nil
	}
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '(', '<', '[':
			depth++
		case ')', '>', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(inner[start:]))
}
