package lexer

import (
	"github.com/nushell/nufmt/internal/diag"
	"github.com/nushell/nufmt/internal/token"
)

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// scanDollar handles $var and $"interpolated" literals.
func (lx *Lexer) scanDollar() token.Token {
	mark := lx.cursor.Mark()
	lx.cursor.Bump() // $

	next := lx.cursor.Peek()
	switch {
	case next == '"' || next == '\'':
		return lx.scanString(mark, next, token.InterpLit)
	case isIdentStart(next):
		for isIdentContinue(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.tok(token.Var, mark)
	default:
		span := lx.cursor.SpanFrom(mark)
		lx.report(diag.LexUnknownChar, span, "expected variable name or string after '$'")
		return lx.tok(token.Invalid, mark)
	}
}

// scanString consumes a quoted literal, quote included on both sides.
// Double-quoted strings honor backslash escapes; single-quoted do not.
func (lx *Lexer) scanString(mark Mark, quote byte, kind token.Kind) token.Token {
	lx.cursor.Bump() // opening quote

	escaped := false
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == '\n' {
			break
		}
		lx.cursor.Bump()
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && quote == '"':
			escaped = true
		case ch == quote:
			return lx.tok(kind, mark)
		}
	}

	span := lx.cursor.SpanFrom(mark)
	lx.report(diag.LexUnterminatedString, span, "unterminated string literal")
	return lx.tok(token.Invalid, mark)
}

// scanNumber consumes an integer or float literal. A '.' followed by another
// '.' is a range operator, not a fraction.
func (lx *Lexer) scanNumber(mark Mark) token.Token {
	kind := token.IntLit
	for isDigit(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' && isDigit(lx.cursor.PeekAt(1)) {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	// unit suffix: filesizes and durations such as 10kb or 2sec
	for isIdentStart(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.tok(kind, mark)
}

// scanDash disambiguates flags, negative numbers, and the minus operator.
func (lx *Lexer) scanDash(mark Mark) token.Token {
	next := lx.cursor.PeekAt(1)
	switch {
	case next == '-' && isIdentStart(lx.cursor.PeekAt(2)):
		lx.cursor.Bump() // -
		lx.cursor.Bump() // -
		for isFlagContinue(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.tok(token.Flag, mark)

	case isIdentStart(next):
		lx.cursor.Bump() // -
		for isFlagContinue(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.tok(token.Flag, mark)

	case isDigit(next):
		lx.cursor.Bump() // -
		return lx.scanNumber(mark)

	default:
		lx.cursor.Bump()
		return lx.tok(token.Minus, mark)
	}
}

func isFlagContinue(ch byte) bool {
	return isIdentContinue(ch) || ch == '-'
}

func (lx *Lexer) scanIdentOrKeyword(mark Mark) token.Token {
	if lx.cursor.Peek() == '_' && !isIdentContinue(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		return lx.tok(token.Underscore, mark)
	}

	for {
		ch := lx.cursor.Peek()
		if isIdentContinue(ch) {
			lx.cursor.Bump()
			continue
		}
		// kebab-case command names: a dash inside an identifier, as in
		// str-join or dry-run
		if ch == '-' && isIdentContinue(lx.cursor.PeekAt(1)) {
			lx.cursor.Bump()
			continue
		}
		// dotted words: file names like mod.nu stay one token
		if ch == '.' && isIdentContinue(lx.cursor.PeekAt(1)) {
			lx.cursor.Bump()
			continue
		}
		break
	}

	tok := lx.tok(token.Ident, mark)
	tok.Kind = token.LookupKeyword(tok.Text)
	return tok
}

func (lx *Lexer) scanPunct(mark Mark) token.Token {
	ch := lx.cursor.Bump()
	kind := token.Invalid

	switch ch {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case '|':
		kind = token.Pipe
	case ',':
		kind = token.Comma
	case ':':
		kind = token.Colon
	case ';':
		kind = token.Semicolon
	case '+':
		kind = token.Plus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case '=':
		switch lx.cursor.Peek() {
		case '=':
			lx.cursor.Bump()
			kind = token.EqEq
		case '>':
			lx.cursor.Bump()
			kind = token.FatArrow
		default:
			kind = token.Assign
		}
	case '!':
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.BangEq
		} else {
			kind = token.Bang
		}
	case '<':
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.LtEq
		} else {
			kind = token.Lt
		}
	case '>':
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.GtEq
		} else {
			kind = token.Gt
		}
	case '.':
		if lx.cursor.Peek() == '.' {
			lx.cursor.Bump()
			if lx.cursor.Peek() == '.' {
				lx.cursor.Bump()
				kind = token.DotDotDot
			} else {
				kind = token.DotDot
			}
		} else if isIdentContinue(lx.cursor.Peek()) {
			// cell path segment: .name or .0, possibly chained (.a.b)
			for {
				ch := lx.cursor.Peek()
				if isIdentContinue(ch) {
					lx.cursor.Bump()
					continue
				}
				if ch == '.' && isIdentContinue(lx.cursor.PeekAt(1)) {
					lx.cursor.Bump()
					continue
				}
				break
			}
			kind = token.Ident
		}
	}

	tok := lx.tok(kind, mark)
	if kind == token.Invalid {
		lx.report(diag.LexUnknownChar, tok.Span, "unexpected character "+string(ch))
	}
	return tok
}
