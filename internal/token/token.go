// Package token defines the lexical vocabulary of the Nu subset understood
// by the formatter's parser collaborator.
package token

import (
	"github.com/nushell/nufmt/internal/source"
)

// Token is a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a literal value.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, InterpLit, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsBinaryOp reports whether the token can act as a binary operator.
func (t Token) IsBinaryOp() bool {
	switch t.Kind {
	case Plus, Minus, Star, Slash, Percent,
		EqEq, BangEq, Lt, LtEq, Gt, GtEq,
		KwAnd, KwOr:
		return true
	default:
		return false
	}
}

// TerminatesExpr reports whether the token ends the current expression or
// pipeline stage.
func (t Token) TerminatesExpr() bool {
	switch t.Kind {
	case EOF, Newline, Pipe, Semicolon, Comma,
		RParen, RBrace, RBracket, FatArrow:
		return true
	default:
		return false
	}
}
