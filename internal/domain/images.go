package domain

import (
	"encoding/json"
	"strings"
)

// SplitURLList normalizes a comma-separated URL string into an ordered list:
// entries are trimmed and empty entries dropped.  Order is preserved.
func SplitURLList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// EncodeImages serializes a URL list to the JSON array string stored in the
// images column.  A nil list encodes as "[]".
func EncodeImages(urls []string) string {
	if len(urls) == 0 {
		return "[]"
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeImages parses a stored images value back into a URL list.  Malformed
// or empty stored data decodes to an empty list, never an error: old rows
// predate the JSON encoding and must not break reads.
func DecodeImages(stored string) []string {
	if strings.TrimSpace(stored) == "" {
		return []string{}
	}
	var urls []string
	if err := json.Unmarshal([]byte(stored), &urls); err != nil {
		return []string{}
	}
	if urls == nil {
		return []string{}
	}
	return urls
}
