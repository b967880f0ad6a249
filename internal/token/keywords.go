package token

var keywords = map[string]Kind{
	"let":      KwLet,
	"mut":      KwMut,
	"const":    KwConst,
	"def":      KwDef,
	"extern":   KwExtern,
	"alias":    KwAlias,
	"if":       KwIf,
	"else":     KwElse,
	"match":    KwMatch,
	"for":      KwFor,
	"in":       KwIn,
	"while":    KwWhile,
	"loop":     KwLoop,
	"try":      KwTry,
	"catch":    KwCatch,
	"return":   KwReturn,
	"break":    KwBreak,
	"continue": KwContinue,
	"module":   KwModule,
	"use":      KwUse,
	"export":   KwExport,
	"hide":     KwHide,
	"overlay":  KwOverlay,
	"source":   KwSource,
	"and":      KwAnd,
	"or":       KwOr,
	"not":      KwNot,
	"true":     KwTrue,
	"false":    KwFalse,
	"null":     KwNull,
}

// LookupKeyword returns the keyword kind for text, or Ident otherwise.
func LookupKeyword(text string) Kind {
	if kind, ok := keywords[text]; ok {
		return kind
	}
	return Ident
}
