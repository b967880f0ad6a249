package parser

import (
	"github.com/nushell/nufmt/internal/ast"
	"github.com/nushell/nufmt/internal/diag"
	"github.com/nushell/nufmt/internal/token"
)

func (p *parser) parseStatement() *ast.Node {
	switch p.tok.Kind {
	case token.KwLet:
		return p.parseBinding(ast.KindLetDecl)
	case token.KwMut:
		return p.parseBinding(ast.KindMutDecl)
	case token.KwConst:
		return p.parseBinding(ast.KindConstDecl)
	case token.KwDef:
		return p.parseDef()
	case token.KwExtern:
		return p.parseExtern()
	case token.KwAlias:
		return p.parseAlias()
	case token.KwFor:
		return p.parseFor()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwLoop:
		return p.parseLoop()
	case token.KwReturn:
		return p.parseJump(ast.KindReturn)
	case token.KwBreak:
		return p.parseJump(ast.KindBreak)
	case token.KwContinue:
		return p.parseJump(ast.KindContinue)
	case token.KwModule:
		return p.parseModule()
	case token.KwUse:
		return p.parsePathForm(ast.KindUse)
	case token.KwHide:
		return p.parsePathForm(ast.KindHide)
	case token.KwSource:
		return p.parsePathForm(ast.KindSource)
	case token.KwExport:
		return p.parseExport()
	case token.KwOverlay:
		return p.parseOverlay()
	default:
		return p.parsePipeline()
	}
}

// parseBinding handles let/mut/const: name, optional type annotation,
// '=', then a pipeline value.
func (p *parser) parseBinding(kind ast.Kind) *ast.Node {
	kw := p.tok
	p.advance()

	nameTok, ok := p.expect(token.Ident)
	if !ok {
		p.syncToStatement()
		return nil
	}
	children := []*ast.Node{ast.NewLeaf(ast.KindIdent, nameTok.Span, nameTok.Text)}

	if _, ok := p.eat(token.Colon); ok {
		typeTok, ok := p.expect(token.Ident)
		if ok {
			children = append(children, ast.NewLeaf(ast.KindIdent, typeTok.Span, typeTok.Text))
		}
	}

	if _, ok := p.expect(token.Assign); !ok {
		p.syncToStatement()
		return nil
	}

	value := p.parsePipeline()
	if value == nil {
		p.syncToStatement()
		return nil
	}
	children = append(children, value)
	return ast.NewNode(kind, kw.Span, children...)
}

func (p *parser) parseDef() *ast.Node {
	kw := p.tok
	p.advance()

	name := p.parseCommandName()
	if name == nil {
		p.syncToStatement()
		return nil
	}
	params := p.parseSignature()
	block := p.parseBlock()
	if params == nil || block == nil {
		return nil
	}
	return ast.NewNode(ast.KindDefDecl, kw.Span, name, params, block)
}

func (p *parser) parseExtern() *ast.Node {
	kw := p.tok
	p.advance()

	name := p.parseCommandName()
	if name == nil {
		p.syncToStatement()
		return nil
	}
	params := p.parseSignature()
	if params == nil {
		return nil
	}
	return ast.NewNode(ast.KindExternDecl, kw.Span, name, params)
}

func (p *parser) parseAlias() *ast.Node {
	kw := p.tok
	p.advance()

	name := p.parseCommandName()
	if name == nil {
		p.syncToStatement()
		return nil
	}
	if _, ok := p.expect(token.Assign); !ok {
		p.syncToStatement()
		return nil
	}
	expansion := p.parsePipeline()
	if expansion == nil {
		return nil
	}
	return ast.NewNode(ast.KindAliasDecl, kw.Span, name, expansion)
}

// parseCommandName accepts an identifier or quoted string as a def/alias
// name.
func (p *parser) parseCommandName() *ast.Node {
	switch p.tok.Kind {
	case token.Ident:
		tok := p.tok
		p.advance()
		return ast.NewLeaf(ast.KindIdent, tok.Span, tok.Text)
	case token.StringLit:
		tok := p.tok
		p.advance()
		return ast.NewLeaf(ast.KindString, tok.Span, tok.Text)
	default:
		p.errorAt(p.tok.Span, diag.SynExpectToken,
			"expected command name, found '"+p.tok.Kind.String()+"'")
		return nil
	}
}

// parseSignature parses a bracketed parameter list: [x: int, --flag (-f), y = 1].
func (p *parser) parseSignature() *ast.Node {
	open, ok := p.expect(token.LBracket)
	if !ok {
		p.syncToStatement()
		return nil
	}

	var params []*ast.Node
	p.skipNewlines()
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		param := p.parseParam()
		if param == nil {
			p.syncToStatement()
			break
		}
		params = append(params, param)
		p.eat(token.Comma)
		p.skipNewlines()
	}
	closeTok, _ := p.expect(token.RBracket)
	return ast.NewNode(ast.KindParams, open.Span.Cover(closeTok.Span), params...)
}

func (p *parser) parseParam() *ast.Node {
	var head *ast.Node

	switch p.tok.Kind {
	case token.DotDotDot:
		start := p.tok
		p.advance()
		nameTok, ok := p.expect(token.Ident)
		if !ok {
			return nil
		}
		head = ast.NewLeaf(ast.KindIdent, start.Span.Cover(nameTok.Span), "..."+nameTok.Text)

	case token.Flag:
		flagTok := p.tok
		p.advance()
		text := flagTok.Text
		span := flagTok.Span
		// short form: --flag(-f)
		if p.at(token.LParen) {
			p.advance()
			shortTok, ok := p.expect(token.Flag)
			if !ok {
				return nil
			}
			closeTok, _ := p.expect(token.RParen)
			text += "(" + shortTok.Text + ")"
			span = span.Cover(closeTok.Span)
		}
		head = ast.NewLeaf(ast.KindFlag, span, text)

	case token.Ident:
		nameTok := p.tok
		p.advance()
		head = ast.NewLeaf(ast.KindIdent, nameTok.Span, nameTok.Text)

	default:
		p.errorAt(p.tok.Span, diag.SynBadSignature,
			"expected parameter, found '"+p.tok.Kind.String()+"'")
		return nil
	}

	children := []*ast.Node{head}
	typeName := ""

	if _, ok := p.eat(token.Colon); ok {
		typeTok, ok := p.expect(token.Ident)
		if !ok {
			return nil
		}
		typeName = typeTok.Text
	}

	if _, ok := p.eat(token.Assign); ok {
		def := p.parseExpr()
		if def == nil {
			return nil
		}
		children = append(children, def)
	}

	node := ast.NewNode(ast.KindParam, head.Span, children...)
	node.Text = typeName
	return node
}

func (p *parser) parseIf() *ast.Node {
	kw := p.tok
	p.advance()

	cond := p.parseExpr()
	block := p.parseBlock()
	if cond == nil || block == nil {
		p.syncToStatement()
		return nil
	}
	children := []*ast.Node{cond, block}

	if _, ok := p.eat(token.KwElse); ok {
		var alt *ast.Node
		if p.at(token.KwIf) {
			alt = p.parseIf()
		} else {
			alt = p.parseBlock()
		}
		if alt == nil {
			return nil
		}
		children = append(children, alt)
	}
	return ast.NewNode(ast.KindIf, kw.Span, children...)
}

func (p *parser) parseMatch() *ast.Node {
	kw := p.tok
	p.advance()

	subject := p.parseExpr()
	if subject == nil {
		p.syncToStatement()
		return nil
	}
	if _, ok := p.expect(token.LBrace); !ok {
		p.syncToStatement()
		return nil
	}

	children := []*ast.Node{subject}
	p.skipNewlines()
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		arm := p.parseMatchArm()
		if arm == nil {
			p.syncToStatement()
			p.skipNewlines()
			continue
		}
		children = append(children, arm)
		p.eat(token.Comma)
		p.skipNewlines()
	}
	closeTok, _ := p.expect(token.RBrace)
	return ast.NewNode(ast.KindMatch, kw.Span.Cover(closeTok.Span), children...)
}

func (p *parser) parseMatchArm() *ast.Node {
	var pattern *ast.Node
	if p.at(token.Underscore) {
		tok := p.tok
		p.advance()
		pattern = ast.NewLeaf(ast.KindWildcard, tok.Span, tok.Text)
	} else {
		pattern = p.parseExpr()
	}
	if pattern == nil {
		return nil
	}

	if _, ok := p.expect(token.FatArrow); !ok {
		return nil
	}

	body := p.parsePipeline()
	if body == nil {
		return nil
	}
	return ast.NewNode(ast.KindMatchArm, pattern.Span, pattern, body)
}

func (p *parser) parseFor() *ast.Node {
	kw := p.tok
	p.advance()

	nameTok, ok := p.expect(token.Ident)
	if !ok {
		p.syncToStatement()
		return nil
	}
	if _, ok := p.expect(token.KwIn); !ok {
		p.syncToStatement()
		return nil
	}
	iterable := p.parseExpr()
	block := p.parseBlock()
	if iterable == nil || block == nil {
		return nil
	}
	name := ast.NewLeaf(ast.KindIdent, nameTok.Span, nameTok.Text)
	return ast.NewNode(ast.KindFor, kw.Span, name, iterable, block)
}

func (p *parser) parseWhile() *ast.Node {
	kw := p.tok
	p.advance()

	cond := p.parseExpr()
	block := p.parseBlock()
	if cond == nil || block == nil {
		p.syncToStatement()
		return nil
	}
	return ast.NewNode(ast.KindWhile, kw.Span, cond, block)
}

func (p *parser) parseLoop() *ast.Node {
	kw := p.tok
	p.advance()

	block := p.parseBlock()
	if block == nil {
		return nil
	}
	return ast.NewNode(ast.KindLoop, kw.Span, block)
}

func (p *parser) parseTry() *ast.Node {
	kw := p.tok
	p.advance()

	block := p.parseBlock()
	if block == nil {
		return nil
	}
	children := []*ast.Node{block}

	if _, ok := p.eat(token.KwCatch); ok {
		if !p.at(token.LBrace) {
			p.errorAt(p.tok.Span, diag.SynExpectToken,
				"expected '{' after catch, found '"+p.tok.Kind.String()+"'")
			p.syncToStatement()
			return nil
		}
		handler := p.parseBraced()
		if handler == nil {
			return nil
		}
		children = append(children, handler)
	}
	return ast.NewNode(ast.KindTry, kw.Span, children...)
}

func (p *parser) parseJump(kind ast.Kind) *ast.Node {
	kw := p.tok
	p.advance()

	if p.tok.TerminatesExpr() {
		return ast.NewLeaf(kind, kw.Span, "")
	}
	value := p.parsePipeline()
	if value == nil {
		return nil
	}
	return ast.NewNode(kind, kw.Span, value)
}

func (p *parser) parseModule() *ast.Node {
	kw := p.tok
	p.advance()

	nameTok, ok := p.expect(token.Ident)
	if !ok {
		p.syncToStatement()
		return nil
	}
	block := p.parseBlock()
	if block == nil {
		return nil
	}
	name := ast.NewLeaf(ast.KindIdent, nameTok.Span, nameTok.Text)
	return ast.NewNode(ast.KindModule, kw.Span, name, block)
}

// parsePathForm handles use/hide/source: a sequence of word or string
// arguments up to the end of the statement.
func (p *parser) parsePathForm(kind ast.Kind) *ast.Node {
	kw := p.tok
	p.advance()

	var words []*ast.Node
	for !p.tok.TerminatesExpr() {
		switch p.tok.Kind {
		case token.Ident:
			words = append(words, ast.NewLeaf(ast.KindIdent, p.tok.Span, p.tok.Text))
			p.advance()
		case token.StringLit:
			words = append(words, ast.NewLeaf(ast.KindString, p.tok.Span, p.tok.Text))
			p.advance()
		case token.Star:
			words = append(words, ast.NewLeaf(ast.KindIdent, p.tok.Span, "*"))
			p.advance()
		case token.LBracket:
			item := p.parseListOrTable()
			if item == nil {
				return nil
			}
			words = append(words, item)
		default:
			p.errorAt(p.tok.Span, diag.SynUnexpectedToken,
				"unexpected token in "+kind.String()+": '"+p.tok.Kind.String()+"'")
			p.syncToStatement()
			return nil
		}
	}
	if len(words) == 0 {
		p.errorAt(kw.Span, diag.SynExpectToken, kind.String()+" requires a path")
		return nil
	}
	return ast.NewNode(kind, kw.Span, words...)
}

func (p *parser) parseExport() *ast.Node {
	kw := p.tok
	p.advance()

	var decl *ast.Node
	switch p.tok.Kind {
	case token.KwDef, token.KwExtern, token.KwAlias, token.KwConst, token.KwUse, token.KwModule:
		decl = p.parseStatement()
	default:
		p.errorAt(p.tok.Span, diag.SynUnexpectedToken,
			"expected declaration after export, found '"+p.tok.Kind.String()+"'")
		p.syncToStatement()
		return nil
	}
	if decl == nil {
		return nil
	}
	return ast.NewNode(ast.KindExport, kw.Span, decl)
}

func (p *parser) parseOverlay() *ast.Node {
	kw := p.tok
	p.advance()

	verbTok := p.tok
	verb := verbTok.Text
	switch {
	case p.at(token.KwUse), p.at(token.KwHide):
		p.advance()
	case p.at(token.Ident) && (verb == "new" || verb == "list"):
		p.advance()
	default:
		p.errorAt(verbTok.Span, diag.SynUnexpectedToken,
			"expected overlay verb (use/new/hide/list), found '"+verbTok.Kind.String()+"'")
		p.syncToStatement()
		return nil
	}

	node := &ast.Node{Kind: ast.KindOverlay, Span: kw.Span.Cover(verbTok.Span), Text: verb}
	if p.at(token.Ident) || p.at(token.StringLit) {
		nameKind := ast.KindIdent
		if p.at(token.StringLit) {
			nameKind = ast.KindString
		}
		name := ast.NewLeaf(nameKind, p.tok.Span, p.tok.Text)
		p.advance()
		node.Children = append(node.Children, name)
		node.Span = node.Span.Cover(name.Span)
	}
	return node
}

// parseBlock parses a braced statement list.
func (p *parser) parseBlock() *ast.Node {
	open, ok := p.expect(token.LBrace)
	if !ok {
		p.syncToStatement()
		return nil
	}

	var stmts []*ast.Node
	p.skipNewlines()
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		switch p.tok.Kind {
		case token.Newline, token.Semicolon:
			p.advance()
		case token.RBrace, token.EOF:
		default:
			p.errorAt(p.tok.Span, diag.SynUnexpectedToken,
				"unexpected token in block: '"+p.tok.Kind.String()+"'")
			p.syncToStatement()
		}
		p.skipNewlines()
	}
	closeTok, ok := p.expect(token.RBrace)
	if !ok {
		p.errorAt(open.Span, diag.SynUnclosedDelimiter, "unclosed '{'")
	}
	return ast.NewNode(ast.KindBlock, open.Span.Cover(closeTok.Span), stmts...)
}
