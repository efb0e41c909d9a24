package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject(t *testing.T) {
	chats := []Chat{
		{ID: "1", Title: "Debugging Go code"},
		{ID: "2", Title: "Write a poem"},
		{ID: "3", Title: "go for a walk?"},
	}

	tests := []struct {
		name      string
		query     string
		want      []bool
		wantCount int
		noResults bool
	}{
		{"empty query shows all", "", []bool{true, true, true}, 3, false},
		{"case insensitive", "GO", []bool{true, false, true}, 2, false},
		{"substring", "poe", []bool{false, true, false}, 1, false},
		{"no match", "zebra", []bool{false, false, false}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project(chats, tt.query)
			assert.Equal(t, tt.want, p.Visible)
			assert.Equal(t, tt.wantCount, p.Count)
			assert.Equal(t, tt.noResults, p.NoResults())
			assert.Len(t, p.Filter(chats), tt.wantCount)
		})
	}
}

func TestProjectIdempotent(t *testing.T) {
	chats := []Chat{{ID: "1", Title: "Alpha"}, {ID: "2", Title: "Beta"}}
	first := Project(chats, "alp")
	second := Project(chats, "alp")
	assert.Equal(t, first, second)
}

func TestProjectEmptyList(t *testing.T) {
	p := Project(nil, "")
	assert.Equal(t, 0, p.Count)
	assert.False(t, p.NoResults())

	p = Project(nil, "x")
	assert.True(t, p.NoResults())
}
