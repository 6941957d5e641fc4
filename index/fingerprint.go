package index

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Fingerprint generates a stable hash of an entry slice. It changes when any
// label, name, target or the order of entries changes.
func Fingerprint(entries []Entry) string {
	h := sha256.New()

	for _, e := range entries {
		h.Write([]byte(e.Label))
		h.Write([]byte{0}) // separator
		h.Write([]byte(e.Name))
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(len(e.Targets))))
		h.Write([]byte{0})

		for _, t := range e.Targets {
			h.Write([]byte(t.Document))
			h.Write([]byte{1})
			h.Write([]byte(t.Anchor))
			h.Write([]byte{1})
			h.Write([]byte(t.Display))
			h.Write([]byte{1})
			if t.ParentFrame {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
