package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_Add(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		queries []string
		want    []string
	}{
		{name: "newest first", queries: []string{"a", "b"}, want: []string{"b", "a"}},
		{name: "trims whitespace", queries: []string{"  ООО  "}, want: []string{"ООО"}},
		{name: "ignores blank", queries: []string{"", "   ", "\t"}, want: []string{}},
		{name: "repeat moves to front", queries: []string{"a", "b", "a"}, want: []string{"a", "b"}},
		{name: "bounded", size: 2, queries: []string{"a", "b", "c"}, want: []string{"c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(tt.size)
			for _, q := range tt.queries {
				h.Add(q)
			}
			assert.Equal(t, tt.want, h.Entries())
		})
	}
}

func TestNewHistory_DefaultSize(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < DefaultHistorySize+5; i++ {
		h.Add(string(rune('a' + i)))
	}
	assert.Len(t, h.Entries(), DefaultHistorySize)
}
