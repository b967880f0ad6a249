package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline is a statement-separating line break.
	Newline

	// Ident is a bare identifier or command word.
	Ident
	// Var is a variable reference ($name).
	Var
	// IntLit is an integer literal.
	IntLit
	// FloatLit is a floating-point literal.
	FloatLit
	// StringLit is a quoted string literal, quotes included.
	StringLit
	// InterpLit is an interpolated string literal ($"..."), quotes included.
	InterpLit
	// Flag is a long or short flag (--name, -n).
	Flag
	// Underscore is the match wildcard pattern.
	Underscore

	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket

	Pipe      // |
	Comma     // ,
	Colon     // :
	Semicolon // ;
	Assign    // =
	FatArrow  // =>
	DotDot    // ..
	DotDotDot // ...

	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	Percent // %
	EqEq    // ==
	BangEq  // !=
	Lt      // <
	LtEq    // <=
	Gt      // >
	GtEq    // >=
	Bang    // !

	KwLet
	KwMut
	KwConst
	KwDef
	KwExtern
	KwAlias
	KwIf
	KwElse
	KwMatch
	KwFor
	KwIn
	KwWhile
	KwLoop
	KwTry
	KwCatch
	KwReturn
	KwBreak
	KwContinue
	KwModule
	KwUse
	KwExport
	KwHide
	KwOverlay
	KwSource
	KwAnd
	KwOr
	KwNot
	KwTrue
	KwFalse
	KwNull
)

var kindNames = map[Kind]string{
	Invalid:    "invalid",
	EOF:        "eof",
	Newline:    "newline",
	Ident:      "ident",
	Var:        "var",
	IntLit:     "int",
	FloatLit:   "float",
	StringLit:  "string",
	InterpLit:  "interp-string",
	Flag:       "flag",
	Underscore: "_",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
	LBracket:   "[",
	RBracket:   "]",
	Pipe:       "|",
	Comma:      ",",
	Colon:      ":",
	Semicolon:  ";",
	Assign:     "=",
	FatArrow:   "=>",
	DotDot:     "..",
	DotDotDot:  "...",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	Percent:    "%",
	EqEq:       "==",
	BangEq:     "!=",
	Lt:         "<",
	LtEq:       "<=",
	Gt:         ">",
	GtEq:       ">=",
	Bang:       "!",
	KwLet:      "let",
	KwMut:      "mut",
	KwConst:    "const",
	KwDef:      "def",
	KwExtern:   "extern",
	KwAlias:    "alias",
	KwIf:       "if",
	KwElse:     "else",
	KwMatch:    "match",
	KwFor:      "for",
	KwIn:       "in",
	KwWhile:    "while",
	KwLoop:     "loop",
	KwTry:      "try",
	KwCatch:    "catch",
	KwReturn:   "return",
	KwBreak:    "break",
	KwContinue: "continue",
	KwModule:   "module",
	KwUse:      "use",
	KwExport:   "export",
	KwHide:     "hide",
	KwOverlay:  "overlay",
	KwSource:   "source",
	KwAnd:      "and",
	KwOr:       "or",
	KwNot:      "not",
	KwTrue:     "true",
	KwFalse:    "false",
	KwNull:     "null",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
