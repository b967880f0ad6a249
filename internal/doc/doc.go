// Package doc is a small layout IR: builders assemble a tree of text,
// separators, indentation, and groups, and the renderer decides per group
// whether its content fits the line width flat or must break.
//
// Flat width and hard-break presence are computed eagerly at construction,
// so the fit check at render time is a single comparison.
package doc

import (
	"github.com/mattn/go-runewidth"
)

type opKind uint8

const (
	opText opKind = iota
	opConcat
	opNest
	opLine     // space when flat, newline when broken
	opSoftLine // nothing when flat, newline when broken
	opHardLine // always a newline
	opGroup
)

// Doc is one node of the layout tree. Immutable after construction.
type Doc struct {
	op       opKind
	text     string
	children []*Doc
	width    int  // display width when rendered flat
	hard     bool // subtree contains a hard line break
}

// Text emits s verbatim. s must not contain newlines; line structure is
// expressed with Line, SoftLine, and HardLine.
func Text(s string) *Doc {
	return &Doc{op: opText, text: s, width: runewidth.StringWidth(s)}
}

// Concat joins documents in sequence. Nil entries are skipped.
func Concat(docs ...*Doc) *Doc {
	d := &Doc{op: opConcat, children: make([]*Doc, 0, len(docs))}
	for _, c := range docs {
		if c == nil {
			continue
		}
		d.children = append(d.children, c)
		d.width += c.width
		d.hard = d.hard || c.hard
	}
	return d
}

// Nest renders inner one indentation level deeper. The level only affects
// content after line breaks; flat layout is unchanged.
func Nest(inner *Doc) *Doc {
	return &Doc{op: opNest, children: []*Doc{inner}, width: inner.width, hard: inner.hard}
}

// Line is a space when flat and a newline when the enclosing group breaks.
func Line() *Doc {
	return &Doc{op: opLine, width: 1}
}

// SoftLine is nothing when flat and a newline when the enclosing group
// breaks. Collection brackets use it so [1, 2] has no inner padding.
func SoftLine() *Doc {
	return &Doc{op: opSoftLine}
}

// HardLine always breaks. Any group containing one can never render flat.
func HardLine() *Doc {
	return &Doc{op: opHardLine, hard: true}
}

// Group marks a flatten-or-break decision point over its content.
func Group(docs ...*Doc) *Doc {
	inner := Concat(docs...)
	return &Doc{op: opGroup, children: []*Doc{inner}, width: inner.width, hard: inner.hard}
}

// Join interleaves sep between docs. Nil entries are skipped.
func Join(sep *Doc, docs ...*Doc) *Doc {
	out := make([]*Doc, 0, len(docs)*2)
	for _, d := range docs {
		if d == nil {
			continue
		}
		if len(out) > 0 {
			out = append(out, sep)
		}
		out = append(out, d)
	}
	return Concat(out...)
}

// Width returns the display width of the document when rendered flat.
func (d *Doc) Width() int {
	return d.width
}

// HasHardLine reports whether the subtree contains an unconditional break.
func (d *Doc) HasHardLine() bool {
	return d.hard
}
