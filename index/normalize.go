package index

import (
	"strconv"
	"strings"
)

// NormalizeLabel lowercases a label or query for matching.
func NormalizeLabel(s string) string {
	return strings.ToLower(s)
}

// ConvertToID converts a symbol name or query into the id alphabet used by
// the documentation generator for search labels: the text is lowercased,
// characters in [a-z0-9] and everything at or above U+0080 are kept, and any
// other character c becomes "_" followed by its two-digit hex code.
//
//	ConvertToID("operator=") == "operator_3d"
//	ConvertToID("get_name")  == "get_5fname"
func ConvertToID(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r >= 0x80:
			b.WriteRune(r)
		case r < 16:
			b.WriteString("_0")
			b.WriteString(strconv.FormatInt(int64(r), 16))
		default:
			b.WriteByte('_')
			b.WriteString(strconv.FormatInt(int64(r), 16))
		}
	}
	return b.String()
}
