package index

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

type cursorToken struct {
	Offset      int    `json:"o"`
	Fingerprint string `json:"f"`
	Query       string `json:"q"`
}

// SearchPage returns one page of search results and the cursor of the next
// page. The next cursor is empty on the last page. A cursor is only valid for
// the same query against the same table content.
func (t *Table) SearchPage(query string, limit int, cursor string) ([]Entry, string, error) {
	if limit <= 0 {
		return []Entry{}, "", nil
	}
	if t.requireDeterministic {
		ds, ok := t.searcher.(DeterministicSearcher)
		if !ok || !ds.Deterministic() {
			return nil, "", ErrNonDeterministicSearcher
		}
	}

	offset := 0
	if cursor != "" {
		tok, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		if tok.Fingerprint != t.fingerprint || tok.Query != queryDigest(query) || tok.Offset < 0 {
			return nil, "", fmt.Errorf("%w: stale cursor", ErrInvalidCursor)
		}
		offset = tok.Offset
	}

	all, err := t.searcher.Search(query, len(t.entries), cloneEntries(t.entries))
	if err != nil {
		return nil, "", err
	}
	if offset > len(all) {
		return nil, "", fmt.Errorf("%w: offset out of range", ErrInvalidCursor)
	}

	end := min(offset+limit, len(all))
	page := all[offset:end]

	next := ""
	if end < len(all) {
		next = encodeCursor(cursorToken{
			Offset:      end,
			Fingerprint: t.fingerprint,
			Query:       queryDigest(query),
		})
	}
	return page, next, nil
}

func encodeCursor(tok cursorToken) string {
	raw, _ := json.Marshal(tok)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(cursor string) (cursorToken, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return cursorToken{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	var tok cursorToken
	if err := json.Unmarshal(raw, &tok); err != nil {
		return cursorToken{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return tok, nil
}

func queryDigest(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:8])
}
