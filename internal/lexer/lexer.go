// Package lexer turns Nu source bytes into tokens. Comments and horizontal
// whitespace are skipped here; the trivia extractor recovers comments from
// the raw text using the span boundaries the parser leaves behind.
package lexer

import (
	"github.com/nushell/nufmt/internal/diag"
	"github.com/nushell/nufmt/internal/source"
	"github.com/nushell/nufmt/internal/token"
)

// Options configures a Lexer.
type Options struct {
	Reporter diag.Reporter
}

type Lexer struct {
	cursor Cursor
	opts   Options
	look   *token.Token // one-token lookahead buffer
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{cursor: NewCursor(file), opts: opts}
}

// NewSliced creates a lexer over [start, end) of file. Used for
// interpolation payloads; spans stay file-absolute.
func NewSliced(file *source.File, start, end uint32, opts Options) *Lexer {
	return &Lexer{cursor: NewSlicedCursor(file, start, end), opts: opts}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		tok := lx.scan()
		lx.look = &tok
	}
	return *lx.look
}

// Next returns the next significant token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	return lx.scan()
}

func (lx *Lexer) scan() token.Token {
	lx.skipBlanks()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.cursor.SpanFrom(lx.cursor.Mark())}
	}

	mark := lx.cursor.Mark()
	ch := lx.cursor.Peek()

	switch {
	case ch == '\n':
		lx.cursor.Bump()
		return lx.tok(token.Newline, mark)

	case ch == '$':
		return lx.scanDollar()

	case ch == '"' || ch == '\'':
		return lx.scanString(mark, ch, token.StringLit)

	case isDigit(ch):
		return lx.scanNumber(mark)

	case ch == '-':
		return lx.scanDash(mark)

	case isIdentStart(ch):
		return lx.scanIdentOrKeyword(mark)

	default:
		return lx.scanPunct(mark)
	}
}

// skipBlanks consumes spaces, tabs, and comments up to (not including) the
// next newline or significant byte.
func (lx *Lexer) skipBlanks() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\r':
			lx.cursor.Bump()
		case '#':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		default:
			return
		}
	}
}

func (lx *Lexer) tok(kind token.Kind, mark Mark) token.Token {
	return token.Token{
		Kind: kind,
		Span: lx.cursor.SpanFrom(mark),
		Text: lx.cursor.TextFrom(mark),
	}
}

func (lx *Lexer) report(code diag.Code, span source.Span, msg string) {
	diag.Error(lx.opts.Reporter, code, span, msg)
}
