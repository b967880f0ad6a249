package parser

import (
	"strings"

	"fortio.org/safecast"

	"github.com/nushell/nufmt/internal/ast"
	"github.com/nushell/nufmt/internal/diag"
	"github.com/nushell/nufmt/internal/source"
	"github.com/nushell/nufmt/internal/token"
)

// parsePipeline parses one or more stages separated by '|'. A leading '|'
// on the next line continues the pipeline, which keeps formatted
// (pipe-leading) output reparsable.
func (p *parser) parsePipeline() *ast.Node {
	first := p.parseStage()
	if first == nil {
		return nil
	}

	stages := []*ast.Node{first}
	for {
		if p.at(token.Newline) && p.lx.Peek().Kind == token.Pipe {
			p.advance()
		}
		if _, ok := p.eat(token.Pipe); !ok {
			break
		}
		p.skipNewlines()
		stage := p.parseStage()
		if stage == nil {
			return nil
		}
		stages = append(stages, stage)
	}

	if len(stages) == 1 {
		return first
	}
	return ast.NewNode(ast.KindPipeline, first.Span, stages...)
}

// parseStage parses a single pipeline stage: a command call, a control-flow
// expression, or a plain expression.
func (p *parser) parseStage() *ast.Node {
	switch p.tok.Kind {
	case token.KwIf:
		return p.parseIf()
	case token.KwMatch:
		return p.parseMatch()
	case token.KwTry:
		return p.parseTry()
	case token.Ident:
		return p.parseCall()
	default:
		return p.parseExpr()
	}
}

// parseCall parses a command invocation: head word followed by arguments.
func (p *parser) parseCall() *ast.Node {
	head := ast.NewLeaf(ast.KindIdent, p.tok.Span, p.tok.Text)
	p.advance()

	children := []*ast.Node{head}
	for !p.tok.TerminatesExpr() {
		var arg *ast.Node
		switch p.tok.Kind {
		case token.Flag:
			arg = ast.NewLeaf(ast.KindFlag, p.tok.Span, p.tok.Text)
			p.advance()
		case token.Ident:
			word := ast.NewLeaf(ast.KindIdent, p.tok.Span, p.tok.Text)
			p.advance()
			// a bare word can turn out to be the left side of a
			// comparison, as in `where size > 100`
			arg = p.continueBinary(word)
		default:
			arg = p.parseExpr()
		}
		if arg == nil {
			return nil
		}
		children = append(children, arg)
	}
	return ast.NewNode(ast.KindCall, head.Span, children...)
}

func (p *parser) parseExpr() *ast.Node {
	return p.parseBinary(0)
}

// binaryLevels orders operators from loosest to tightest binding.
var binaryLevels = [][]token.Kind{
	{token.KwOr},
	{token.KwAnd},
	{token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq},
	{token.Plus, token.Minus},
	{token.Star, token.Slash, token.Percent},
}

func (p *parser) parseBinary(level int) *ast.Node {
	if level >= len(binaryLevels) {
		return p.parseRange()
	}

	lhs := p.parseBinary(level + 1)
	if lhs == nil {
		return nil
	}
	for {
		matched := false
		for _, kind := range binaryLevels[level] {
			if p.at(kind) {
				op := p.tok
				p.advance()
				p.skipNewlines()
				rhs := p.parseBinary(level + 1)
				if rhs == nil {
					return nil
				}
				node := ast.NewNode(ast.KindBinary, lhs.Span, lhs, rhs)
				node.Text = op.Text
				lhs = node
				matched = true
				break
			}
		}
		if !matched {
			return lhs
		}
	}
}

// continueBinary resumes precedence climbing with an already-parsed left
// operand.
func (p *parser) continueBinary(lhs *ast.Node) *ast.Node {
	for {
		level, ok := binaryLevelOf(p.tok.Kind)
		if !ok {
			return lhs
		}
		op := p.tok
		p.advance()
		p.skipNewlines()
		rhs := p.parseBinary(level + 1)
		if rhs == nil {
			return nil
		}
		node := ast.NewNode(ast.KindBinary, lhs.Span, lhs, rhs)
		node.Text = op.Text
		lhs = node
	}
}

func binaryLevelOf(kind token.Kind) (int, bool) {
	for level, kinds := range binaryLevels {
		for _, k := range kinds {
			if k == kind {
				return level, true
			}
		}
	}
	return 0, false
}

// parseRange handles a..b and a..b..c; bounds are kept in source order.
func (p *parser) parseRange() *ast.Node {
	first := p.parseUnary()
	if first == nil {
		return nil
	}
	if !p.at(token.DotDot) {
		return first
	}

	parts := []*ast.Node{first}
	for {
		if _, ok := p.eat(token.DotDot); !ok {
			break
		}
		part := p.parseUnary()
		if part == nil {
			return nil
		}
		parts = append(parts, part)
	}
	return ast.NewNode(ast.KindRange, first.Span, parts...)
}

func (p *parser) parseUnary() *ast.Node {
	switch p.tok.Kind {
	case token.KwNot:
		op := p.tok
		p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		node := ast.NewNode(ast.KindUnary, op.Span, operand)
		node.Text = op.Text
		return node
	case token.DotDotDot:
		op := p.tok
		p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return ast.NewNode(ast.KindSpread, op.Span, operand)
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() *ast.Node {
	switch p.tok.Kind {
	case token.IntLit, token.FloatLit:
		tok := p.tok
		p.advance()
		return ast.NewLeaf(ast.KindNumber, tok.Span, tok.Text)

	case token.StringLit:
		tok := p.tok
		p.advance()
		return ast.NewLeaf(ast.KindString, tok.Span, tok.Text)

	case token.InterpLit:
		return p.parseInterp()

	case token.KwTrue, token.KwFalse:
		tok := p.tok
		p.advance()
		return ast.NewLeaf(ast.KindBool, tok.Span, tok.Text)

	case token.KwNull:
		tok := p.tok
		p.advance()
		return ast.NewLeaf(ast.KindNull, tok.Span, tok.Text)

	case token.Var:
		return p.parseVar()

	case token.Ident:
		tok := p.tok
		p.advance()
		return ast.NewLeaf(ast.KindIdent, tok.Span, tok.Text)

	case token.Flag:
		tok := p.tok
		p.advance()
		return ast.NewLeaf(ast.KindFlag, tok.Span, tok.Text)

	case token.LParen:
		return p.parseSubexpr()

	case token.LBracket:
		return p.parseListOrTable()

	case token.LBrace:
		return p.parseBraced()

	default:
		p.errorAt(p.tok.Span, diag.SynUnexpectedToken,
			"expected expression, found '"+p.tok.Kind.String()+"'")
		p.advance()
		return nil
	}
}

// parseVar reads a variable reference and folds an adjacent cell path
// ($env.PATH) into the leaf.
func (p *parser) parseVar() *ast.Node {
	tok := p.tok
	p.advance()
	node := ast.NewLeaf(ast.KindVar, tok.Span, tok.Text)

	for p.at(token.Ident) && strings.HasPrefix(p.tok.Text, ".") && p.tok.Span.Start == node.Span.End {
		node.Text += p.tok.Text
		node.Span = node.Span.Cover(p.tok.Span)
		p.advance()
	}
	return node
}

func (p *parser) parseSubexpr() *ast.Node {
	open := p.tok
	p.advance()
	p.skipNewlines()

	inner := p.parsePipeline()
	if inner == nil {
		return nil
	}
	p.skipNewlines()
	closeTok, ok := p.expect(token.RParen)
	if !ok {
		p.errorAt(open.Span, diag.SynUnclosedDelimiter, "unclosed '('")
	}
	return ast.NewNode(ast.KindSubexpr, open.Span.Cover(closeTok.Span), inner)
}

// parseListOrTable parses [a, b, c] or [[col1, col2]; [x, y], ...].
func (p *parser) parseListOrTable() *ast.Node {
	open := p.tok
	p.advance()
	p.skipNewlines()

	var items []*ast.Node
	isTable := false
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		item := p.parseExpr()
		if item == nil {
			return nil
		}
		items = append(items, item)

		if _, ok := p.eat(token.Semicolon); ok {
			if isTable || len(items) != 1 {
				p.errorAt(p.tok.Span, diag.SynUnexpectedToken, "unexpected ';' in list")
				return nil
			}
			isTable = true
			p.skipNewlines()
			continue
		}
		// separators are commas, newlines, or plain spacing
		p.eat(token.Comma)
		p.skipNewlines()
	}
	closeTok, ok := p.expect(token.RBracket)
	if !ok {
		p.errorAt(open.Span, diag.SynUnclosedDelimiter, "unclosed '['")
	}
	span := open.Span.Cover(closeTok.Span)

	if !isTable {
		return ast.NewNode(ast.KindList, span, items...)
	}

	rows := make([]*ast.Node, 0, len(items))
	for _, item := range items {
		row := p.toTableRow(item)
		if row == nil {
			return nil
		}
		rows = append(rows, row)
	}
	return ast.NewNode(ast.KindTable, span, rows...)
}

func (p *parser) toTableRow(item *ast.Node) *ast.Node {
	if item.Kind != ast.KindList {
		p.errorAt(item.Span, diag.SynUnexpectedToken, "table rows must be lists")
		return nil
	}
	return ast.NewNode(ast.KindTableRow, item.Span, item.Children...)
}

// parseBraced disambiguates the three brace-introduced expressions:
// a closure with parameters ({|x| ...}), a record ({key: value}), or a
// parameterless closure body ({ stmts }). Empty braces are an empty record.
func (p *parser) parseBraced() *ast.Node {
	open := p.tok
	p.advance()
	p.skipNewlines()

	switch {
	case p.at(token.RBrace):
		closeTok := p.tok
		p.advance()
		return ast.NewNode(ast.KindRecord, open.Span.Cover(closeTok.Span))

	case p.at(token.Pipe):
		return p.parseClosureRest(open)

	case (p.at(token.Ident) || p.at(token.StringLit)) && p.lx.Peek().Kind == token.Colon:
		return p.parseRecordRest(open)

	default:
		return p.parseBareClosureRest(open)
	}
}

func (p *parser) parseClosureRest(open token.Token) *ast.Node {
	pipeTok := p.tok
	p.advance() // first |

	var params []*ast.Node
	for !p.at(token.Pipe) && !p.at(token.EOF) {
		param := p.parseParam()
		if param == nil {
			return nil
		}
		params = append(params, param)
		if _, ok := p.eat(token.Comma); !ok && !p.at(token.Pipe) {
			p.errorAt(p.tok.Span, diag.SynBadSignature,
				"expected ',' or '|' in closure parameters")
			return nil
		}
	}
	closePipe, ok := p.expect(token.Pipe)
	if !ok {
		return nil
	}
	paramsNode := ast.NewNode(ast.KindParams, pipeTok.Span.Cover(closePipe.Span), params...)

	body := p.parseClosureBody()
	if body == nil {
		return nil
	}
	closeTok, ok := p.expect(token.RBrace)
	if !ok {
		p.errorAt(open.Span, diag.SynUnclosedDelimiter, "unclosed '{'")
	}
	return ast.NewNode(ast.KindClosure, open.Span.Cover(closeTok.Span), paramsNode, body)
}

func (p *parser) parseBareClosureRest(open token.Token) *ast.Node {
	paramsNode := ast.NewNode(ast.KindParams, source.Span{File: open.Span.File, Start: open.Span.End, End: open.Span.End})

	body := p.parseClosureBody()
	if body == nil {
		return nil
	}
	closeTok, ok := p.expect(token.RBrace)
	if !ok {
		p.errorAt(open.Span, diag.SynUnclosedDelimiter, "unclosed '{'")
	}
	return ast.NewNode(ast.KindClosure, open.Span.Cover(closeTok.Span), paramsNode, body)
}

// parseClosureBody parses statements up to the closing brace.
func (p *parser) parseClosureBody() *ast.Node {
	start := p.tok.Span
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
				"unexpected token in closure body: '"+p.tok.Kind.String()+"'")
			p.syncToStatement()
		}
		p.skipNewlines()
	}
	return ast.NewNode(ast.KindBlock, start, stmts...)
}

func (p *parser) parseRecordRest(open token.Token) *ast.Node {
	var fields []*ast.Node
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		keyKind := ast.KindIdent
		if p.at(token.StringLit) {
			keyKind = ast.KindString
		} else if !p.at(token.Ident) {
			p.errorAt(p.tok.Span, diag.SynExpectToken,
				"expected record key, found '"+p.tok.Kind.String()+"'")
			return nil
		}
		key := ast.NewLeaf(keyKind, p.tok.Span, p.tok.Text)
		p.advance()

		if _, ok := p.expect(token.Colon); !ok {
			return nil
		}
		p.skipNewlines()
		value := p.parseExpr()
		if value == nil {
			return nil
		}
		fields = append(fields, ast.NewNode(ast.KindRecordField, key.Span, key, value))

		p.eat(token.Comma)
		p.skipNewlines()
	}
	closeTok, ok := p.expect(token.RBrace)
	if !ok {
		p.errorAt(open.Span, diag.SynUnclosedDelimiter, "unclosed '{'")
	}
	return ast.NewNode(ast.KindRecord, open.Span.Cover(closeTok.Span), fields...)
}

// parseInterp splits an interpolated string literal into raw chunks and
// embedded expressions, sub-parsing each (...) payload at its absolute file
// offset.
func (p *parser) parseInterp() *ast.Node {
	tok := p.tok
	p.advance()

	text := tok.Text // $"..." with both quotes present
	quote := text[1]
	node := &ast.Node{Kind: ast.KindInterp, Span: tok.Span, Text: string(quote)}

	base := tok.Span.Start
	body := text[2 : len(text)-1]
	i := 0
	chunkStart := 0
	flushChunk := func(end int) {
		if end > chunkStart {
			start, err := safecast.Conv[uint32](chunkStart)
			if err != nil {
				panic(err)
			}
			stop, err := safecast.Conv[uint32](end)
			if err != nil {
				panic(err)
			}
			span := tok.Span
			span.Start = base + 2 + start
			span.End = base + 2 + stop
			node.Children = append(node.Children, ast.NewLeaf(ast.KindStringChunk, span, body[chunkStart:end]))
		}
	}

	for i < len(body) {
		ch := body[i]
		if ch == '\\' && quote == '"' && i+1 < len(body) {
			i += 2
			continue
		}
		if ch != '(' {
			i++
			continue
		}

		flushChunk(i)
		depth := 1
		j := i + 1
		for j < len(body) && depth > 0 {
			switch body[j] {
			case '(':
				depth++
			case ')':
				depth--
			}
			j++
		}
		if depth != 0 {
			p.errorAt(tok.Span, diag.SynUnclosedDelimiter, "unclosed '(' in interpolated string")
			return nil
		}
		iOff, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(err)
		}
		jOff, err := safecast.Conv[uint32](j)
		if err != nil {
			panic(err)
		}
		exprStart := base + 2 + iOff + 1
		exprEnd := base + 2 + jOff - 1
		inner := parseRegion(p.file, exprStart, exprEnd, p.opts)
		if inner == nil {
			return nil
		}
		node.Children = append(node.Children, inner)
		i = j
		chunkStart = i
	}
	flushChunk(len(body))
	return node
}
