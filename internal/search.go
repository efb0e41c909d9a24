package internal

import "strings"

// Projection is the search-filtered view of the chat list
type Projection struct {
	Query   string
	Visible []bool // parallel to the chat sequence
	Count   int
}

// Project marks each chat visible iff the query is empty or the chat title
// contains it, ignoring case.
func Project(chats []Chat, query string) Projection {
	q := strings.ToLower(query)
	p := Projection{
		Query:   q,
		Visible: make([]bool, len(chats)),
	}
	for i := range chats {
		if q == "" || strings.Contains(strings.ToLower(chats[i].Title), q) {
			p.Visible[i] = true
			p.Count++
		}
	}
	return p
}

// NoResults reports whether a non-empty query matched nothing
func (p Projection) NoResults() bool {
	return p.Query != "" && p.Count == 0
}

// Filter returns the visible chats in sequence order
func (p Projection) Filter(chats []Chat) []Chat {
	out := make([]Chat, 0, p.Count)
	for i := range chats {
		if i < len(p.Visible) && p.Visible[i] {
			out = append(out, chats[i])
		}
	}
	return out
}
