package doc

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Options controls rendering geometry.
type Options struct {
	// MaxWidth is the line width groups try to fit within.
	MaxWidth int
	// IndentWidth is the number of spaces per Nest level.
	IndentWidth int
}

// Render lays out the document. Output uses LF line endings and carries no
// trailing whitespace: indentation is only written when followed by text.
func Render(d *Doc, opts Options) string {
	r := renderer{opts: opts}
	r.walk(d, 0, false)
	return r.buf.String()
}

type renderer struct {
	buf     strings.Builder
	opts    Options
	col     int
	pending int // indent spaces owed before the next text
}

func (r *renderer) walk(d *Doc, level int, flat bool) {
	switch d.op {
	case opText:
		r.emit(d.text)

	case opConcat:
		for _, c := range d.children {
			r.walk(c, level, flat)
		}

	case opNest:
		r.walk(d.children[0], level+1, flat)

	case opLine:
		if flat {
			r.emit(" ")
		} else {
			r.newline(level)
		}

	case opSoftLine:
		if !flat {
			r.newline(level)
		}

	case opHardLine:
		r.newline(level)

	case opGroup:
		inner := d.children[0]
		fits := !inner.hard && r.col+inner.width <= r.opts.MaxWidth
		r.walk(inner, level, flat || fits)
	}
}

func (r *renderer) emit(s string) {
	if s == "" {
		return
	}
	if r.pending > 0 {
		r.buf.WriteString(strings.Repeat(" ", r.pending))
		r.pending = 0
	}
	r.buf.WriteString(s)
	r.col += runewidth.StringWidth(s)
}

func (r *renderer) newline(level int) {
	r.buf.WriteByte('\n')
	r.pending = level * r.opts.IndentWidth
	r.col = r.pending
}
