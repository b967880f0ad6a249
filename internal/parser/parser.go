// Package parser is the grammar collaborator: a recursive-descent parser
// over the Nu subset the formatter understands. It produces an ast.Node tree
// with byte spans, or reports syntax diagnostics through a diag.Reporter.
// The formatting engine depends only on the tree shape and span semantics,
// never on how this package derives them.
package parser

import (
	"github.com/nushell/nufmt/internal/ast"
	"github.com/nushell/nufmt/internal/diag"
	"github.com/nushell/nufmt/internal/lexer"
	"github.com/nushell/nufmt/internal/source"
	"github.com/nushell/nufmt/internal/token"
)

// Options configures a parse run.
type Options struct {
	Reporter  diag.Reporter
	MaxErrors int
}

type parser struct {
	lx   *lexer.Lexer
	file *source.File
	opts Options
	tok  token.Token
	errs int
}

// ParseFile parses the whole file into a Program node. Diagnostics go to
// opts.Reporter; the returned tree is best-effort when errors occur.
func ParseFile(file *source.File, opts Options) *ast.Node {
	if opts.MaxErrors <= 0 {
		opts.MaxErrors = 64
	}
	p := &parser{
		lx:   lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		file: file,
		opts: opts,
	}
	p.advance()
	return p.parseProgram()
}

// parseRegion parses [start, end) of file as a sequence of pipeline
// statements. Used for interpolation payloads.
func parseRegion(file *source.File, start, end uint32, opts Options) *ast.Node {
	p := &parser{
		lx:   lexer.NewSliced(file, start, end, lexer.Options{Reporter: opts.Reporter}),
		file: file,
		opts: opts,
	}
	p.advance()
	p.skipNewlines()
	node := p.parsePipeline()
	p.skipNewlines()
	if p.tok.Kind != token.EOF {
		p.errorAt(p.tok.Span, diag.SynUnexpectedToken, "unexpected token in interpolation: "+p.tok.Kind.String())
	}
	return node
}

func (p *parser) advance() {
	p.tok = p.lx.Next()
}

func (p *parser) at(kind token.Kind) bool {
	return p.tok.Kind == kind
}

// eat consumes the current token if it matches.
func (p *parser) eat(kind token.Kind) (token.Token, bool) {
	if !p.at(kind) {
		return token.Token{}, false
	}
	tok := p.tok
	p.advance()
	return tok, true
}

// expect consumes a token of the given kind or reports an error. The current
// token is left in place on mismatch so callers can attempt recovery.
func (p *parser) expect(kind token.Kind) (token.Token, bool) {
	if tok, ok := p.eat(kind); ok {
		return tok, true
	}
	p.errorAt(p.tok.Span, diag.SynExpectToken,
		"expected '"+kind.String()+"', found '"+p.tok.Kind.String()+"'")
	return p.tok, false
}

func (p *parser) skipNewlines() {
	for p.at(token.Newline) {
		p.advance()
	}
}

func (p *parser) errorAt(span source.Span, code diag.Code, msg string) {
	p.errs++
	if p.errs <= p.opts.MaxErrors {
		diag.Error(p.opts.Reporter, code, span, msg)
	}
}

// syncToStatement skips tokens until a plausible statement boundary, so one
// bad statement doesn't cascade.
func (p *parser) syncToStatement() {
	for {
		switch p.tok.Kind {
		case token.EOF, token.Newline, token.Semicolon, token.RBrace:
			return
		}
		p.advance()
	}
}

func (p *parser) parseProgram() *ast.Node {
	start := p.tok.Span
	var stmts []*ast.Node
	p.skipNewlines()
	for !p.at(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.endOfStatement()
		p.skipNewlines()
	}
	return ast.NewNode(ast.KindProgram, start.Cover(p.tok.Span), stmts...)
}

// endOfStatement consumes the statement terminator (newline, semicolon, or
// EOF/closing brace left for the caller).
func (p *parser) endOfStatement() {
	switch p.tok.Kind {
	case token.Newline, token.Semicolon:
		p.advance()
	case token.EOF, token.RBrace:
		// caller's delimiter
	default:
		p.errorAt(p.tok.Span, diag.SynUnexpectedToken,
			"unexpected token after statement: '"+p.tok.Kind.String()+"'")
		p.syncToStatement()
	}
}
