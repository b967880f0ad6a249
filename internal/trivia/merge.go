package trivia

import (
	"github.com/nushell/nufmt/internal/source"
)

// Merger hands extracted trivia back out in document order as the formatter
// walks statements. Items are consumed exactly once; anything left over
// after the walk is a placement failure the caller must surface.
type Merger struct {
	file  *source.File
	items []Item
	next  int
}

func NewMerger(file *source.File, items []Item) *Merger {
	return &Merger{file: file, items: items}
}

// Leading consumes and returns every remaining item that starts before the
// anchor span. Comments and blank runs come back interleaved in source
// order.
func (m *Merger) Leading(anchor source.Span) []Item {
	return m.Before(anchor.Start)
}

// Before consumes every remaining item starting before the given offset.
func (m *Merger) Before(off uint32) []Item {
	var out []Item
	for m.next < len(m.items) && m.items[m.next].Span.Start < off {
		out = append(out, m.items[m.next])
		m.next++
	}
	return out
}

// HasBefore reports whether an unconsumed item starts before the offset.
// Builders use it to force multi-line layout when trivia sits inside a span
// that could otherwise flatten.
func (m *Merger) HasBefore(off uint32) bool {
	return m.next < len(m.items) && m.items[m.next].Span.Start < off
}

// Trailing consumes a comment that follows the anchor on the same line, if
// one is next in document order.
func (m *Merger) Trailing(anchor source.Span) (Item, bool) {
	if m.next >= len(m.items) || anchor.Empty() {
		return Item{}, false
	}
	it := m.items[m.next]
	if it.Kind != KindComment || it.OwnLine {
		return Item{}, false
	}
	if it.Span.Start < anchor.End {
		return Item{}, false
	}
	if LineOf(m.file, it.Span.Start) != LineOf(m.file, anchor.End-1) {
		return Item{}, false
	}
	m.next++
	return it, true
}

// Rest consumes everything left, in order. Called once after the last
// statement to flush end-of-file trivia.
func (m *Merger) Rest() []Item {
	out := m.items[m.next:]
	m.next = len(m.items)
	return out
}

// Unplaced returns items that were never consumed. Empty after a complete
// walk; non-empty means the formatter skipped trivia.
func (m *Merger) Unplaced() []Item {
	return m.items[m.next:]
}
