package store

import (
	"strings"
)

// DefaultHistorySize is the number of saved searches kept per session.
const DefaultHistorySize = 10

// History keeps the most recent saved search queries, newest first.
type History struct {
	entries []string
	size    int
}

// NewHistory returns a History holding at most size entries.
// A non-positive size falls back to DefaultHistorySize.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{size: size}
}

// Add records query. Surrounding whitespace is trimmed and blank queries
// are ignored. A repeated query moves to the front.
func (h *History) Add(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	for i, q := range h.entries {
		if q == query {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append([]string{query}, h.entries...)
	if len(h.entries) > h.size {
		h.entries = h.entries[:h.size]
	}
}

// Entries returns the saved queries, newest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
