package format

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/nushell/nufmt/internal/ast"
	"github.com/nushell/nufmt/internal/config"
	"github.com/nushell/nufmt/internal/doc"
	"github.com/nushell/nufmt/internal/source"
	"github.com/nushell/nufmt/internal/trivia"
)

// builder walks the syntax tree in document order, one layout rule per node
// kind, draining the trivia merger as it passes each anchor. The dispatch is
// closed: a kind without a rule is an UnsupportedConstructError, never a
// silent passthrough.
type builder struct {
	cfg    config.Config
	merger *trivia.Merger
	file   *source.File
	path   string
	err    error
}

func (b *builder) fail(n *ast.Node) *doc.Doc {
	if b.err == nil {
		b.err = &UnsupportedConstructError{Path: b.path, Kind: n.Kind, Span: n.Span}
	}
	return doc.Text("")
}

func (b *builder) program(root *ast.Node) *doc.Doc {
	end, err := safecast.Conv[uint32](len(b.file.Content))
	if err != nil {
		panic(fmt.Errorf("file content length overflow: %w", err))
	}
	body, any := b.seq(root.Children, end, b.statement)
	if !any {
		return doc.Concat()
	}
	return doc.Concat(body, doc.HardLine())
}

// seq renders nodes one per line, interleaving comments and capped blank
// runs in document order. endOff bounds the trailing trivia sweep, so
// comments between the last node and a closing delimiter still land inside.
func (b *builder) seq(nodes []*ast.Node, endOff uint32, render func(*ast.Node) *doc.Doc) (*doc.Doc, bool) {
	var parts []*doc.Doc
	started := false
	pending := 0

	emit := func(d *doc.Doc) {
		if started {
			for i := 0; i <= pending; i++ {
				parts = append(parts, doc.HardLine())
			}
		}
		parts = append(parts, d)
		started = true
		pending = 0
	}
	consume := func(items []trivia.Item) {
		for _, it := range items {
			if it.Kind == trivia.KindBlankRun {
				// leading and trailing blank runs are dropped, interior
				// ones capped at the margin
				if started {
					pending += min(it.Blanks, b.cfg.Margin)
				}
				continue
			}
			emit(doc.Text(it.Normalized()))
		}
	}

	for _, n := range nodes {
		consume(b.merger.Before(n.Span.Start))
		d := render(n)
		if trail, ok := b.merger.Trailing(n.Span); ok {
			d = doc.Concat(d, doc.Text("  "+trail.Normalized()))
		}
		emit(d)
	}
	consume(b.merger.Before(endOff))
	return doc.Concat(parts...), started
}

func (b *builder) statement(n *ast.Node) *doc.Doc {
	switch n.Kind {
	case ast.KindLetDecl:
		return b.binding("let", n)
	case ast.KindMutDecl:
		return b.binding("mut", n)
	case ast.KindConstDecl:
		return b.binding("const", n)
	case ast.KindDefDecl:
		return doc.Concat(
			doc.Text("def "+n.Child(0).Text+" "),
			b.signature(n.Child(1)),
			doc.Text(" "),
			b.block(n.Child(2)),
		)
	case ast.KindExternDecl:
		return doc.Concat(doc.Text("extern "+n.Child(0).Text+" "), b.signature(n.Child(1)))
	case ast.KindAliasDecl:
		return doc.Concat(doc.Text("alias "+n.Child(0).Text+" = "), b.valueExpr(n.Child(1)))
	case ast.KindModule:
		return doc.Concat(doc.Text("module "+n.Child(0).Text+" "), b.block(n.Child(1)))
	case ast.KindUse:
		return b.pathForm("use", n)
	case ast.KindHide:
		return b.pathForm("hide", n)
	case ast.KindSource:
		return b.pathForm("source", n)
	case ast.KindExport:
		return doc.Concat(doc.Text("export "), b.statement(n.Child(0)))
	case ast.KindOverlay:
		d := doc.Text("overlay " + n.Text)
		if name := n.Child(0); name != nil {
			d = doc.Concat(d, doc.Text(" "+name.Text))
		}
		return d
	case ast.KindReturn:
		return b.jump("return", n)
	case ast.KindBreak:
		return b.jump("break", n)
	case ast.KindContinue:
		return b.jump("continue", n)
	case ast.KindFor:
		return doc.Concat(
			doc.Text("for "+n.Child(0).Text+" in "),
			b.expr(n.Child(1)),
			doc.Text(" "),
			b.block(n.Child(2)),
		)
	case ast.KindWhile:
		return doc.Concat(doc.Text("while "), b.expr(n.Child(0)), doc.Text(" "), b.block(n.Child(1)))
	case ast.KindLoop:
		return doc.Concat(doc.Text("loop "), b.block(n.Child(0)))
	case ast.KindPipeline:
		return b.pipelineStmt(n)
	default:
		return b.expr(n)
	}
}

func (b *builder) binding(kw string, n *ast.Node) *doc.Doc {
	head := kw + " " + n.Child(0).Text
	if len(n.Children) == 3 {
		head += ": " + n.Child(1).Text
	}
	value := n.Children[len(n.Children)-1]
	return doc.Concat(doc.Text(head+" = "), b.valueExpr(value))
}

// valueExpr renders an expression in a value position, where a multi-stage
// pipeline still uses the pipe-leading statement layout.
func (b *builder) valueExpr(n *ast.Node) *doc.Doc {
	if n.Kind == ast.KindPipeline {
		return b.pipelineStmt(n)
	}
	return b.expr(n)
}

func (b *builder) jump(kw string, n *ast.Node) *doc.Doc {
	if len(n.Children) == 0 {
		return doc.Text(kw)
	}
	return doc.Concat(doc.Text(kw+" "), b.valueExpr(n.Child(0)))
}

func (b *builder) pathForm(kw string, n *ast.Node) *doc.Doc {
	parts := []*doc.Doc{doc.Text(kw)}
	for _, word := range n.Children {
		parts = append(parts, doc.Text(" "), b.expr(word))
	}
	return doc.Concat(parts...)
}

// pipelineStmt lays a multi-stage pipeline out pipe-leading: every stage
// after the first starts its own line with "| " at the pipeline's base
// indent.
func (b *builder) pipelineStmt(n *ast.Node) *doc.Doc {
	parts := []*doc.Doc{b.expr(n.Children[0])}
	for i := 1; i < len(n.Children); i++ {
		if trail, ok := b.merger.Trailing(n.Children[i-1].Span); ok {
			parts = append(parts, doc.Text("  "+trail.Normalized()))
		}
		parts = append(parts, doc.HardLine(), doc.Text("| "), b.expr(n.Children[i]))
	}
	return doc.Concat(parts...)
}

// pipelineFlat joins stages with " | " for positions that must stay on one
// line, such as subexpressions and interpolation payloads.
func (b *builder) pipelineFlat(n *ast.Node) *doc.Doc {
	docs := make([]*doc.Doc, len(n.Children))
	for i, stage := range n.Children {
		docs[i] = b.expr(stage)
	}
	return doc.Join(doc.Text(" | "), docs...)
}

func (b *builder) expr(n *ast.Node) *doc.Doc {
	switch n.Kind {
	case ast.KindIdent, ast.KindVar, ast.KindNumber, ast.KindString,
		ast.KindBool, ast.KindNull, ast.KindFlag, ast.KindWildcard:
		return doc.Text(n.Text)

	case ast.KindCall:
		parts := []*doc.Doc{doc.Text(n.Child(0).Text)}
		for _, arg := range n.Children[1:] {
			parts = append(parts, doc.Text(" "), b.expr(arg))
		}
		return doc.Concat(parts...)

	case ast.KindBinary:
		return doc.Concat(b.expr(n.Child(0)), doc.Text(" "+n.Text+" "), b.expr(n.Child(1)))

	case ast.KindUnary:
		return doc.Concat(doc.Text(n.Text+" "), b.expr(n.Child(0)))

	case ast.KindSpread:
		return doc.Concat(doc.Text("..."), b.expr(n.Child(0)))

	case ast.KindRange:
		docs := make([]*doc.Doc, len(n.Children))
		for i, part := range n.Children {
			docs[i] = b.expr(part)
		}
		return doc.Join(doc.Text(".."), docs...)

	case ast.KindList:
		return b.bracketed("[", "]", n, n.Children, b.expr)

	case ast.KindRecord:
		return b.bracketed("{", "}", n, n.Children, b.recordField)

	case ast.KindTable:
		return b.table(n)

	case ast.KindClosure:
		return b.closure(n)

	case ast.KindSubexpr:
		inner := n.Child(0)
		if inner.Kind == ast.KindPipeline {
			return doc.Concat(doc.Text("("), b.pipelineFlat(inner), doc.Text(")"))
		}
		return doc.Concat(doc.Text("("), b.expr(inner), doc.Text(")"))

	case ast.KindInterp:
		return b.interp(n)

	case ast.KindIf:
		return b.ifChain(n)

	case ast.KindMatch:
		return b.match(n)

	case ast.KindTry:
		return b.try(n)

	case ast.KindPipeline:
		return b.pipelineFlat(n)

	default:
		return b.fail(n)
	}
}

func (b *builder) recordField(n *ast.Node) *doc.Doc {
	return doc.Concat(doc.Text(n.Child(0).Text+": "), b.expr(n.Child(1)))
}

// bracketed renders a comma-separated collection: flattened when it fits,
// one element per line otherwise. Trivia inside the span forces the broken
// layout so comments keep their positions.
func (b *builder) bracketed(open, closing string, n *ast.Node, elems []*ast.Node, render func(*ast.Node) *doc.Doc) *doc.Doc {
	if len(elems) == 0 && !b.merger.HasBefore(n.Span.End) {
		return doc.Text(open + closing)
	}
	if b.merger.HasBefore(n.Span.End) {
		return b.brokenBracketed(open, closing, n, elems, render)
	}

	docs := make([]*doc.Doc, len(elems))
	for i, e := range elems {
		docs[i] = render(e)
	}
	sep := doc.Concat(doc.Text(","), doc.Line())
	return doc.Group(
		doc.Text(open),
		doc.Nest(doc.Concat(doc.SoftLine(), doc.Join(sep, docs...))),
		doc.SoftLine(),
		doc.Text(closing),
	)
}

func (b *builder) brokenBracketed(open, closing string, n *ast.Node, elems []*ast.Node, render func(*ast.Node) *doc.Doc) *doc.Doc {
	last := len(elems) - 1
	i := 0
	withComma := func(e *ast.Node) *doc.Doc {
		d := render(e)
		if i != last {
			d = doc.Concat(d, doc.Text(","))
		}
		i++
		return d
	}
	body, _ := b.seq(elems, beforeClose(n.Span), withComma)
	return doc.Concat(
		doc.Text(open),
		doc.Nest(doc.Concat(doc.HardLine(), body)),
		doc.HardLine(),
		doc.Text(closing),
	)
}

func (b *builder) table(n *ast.Node) *doc.Doc {
	if b.merger.HasBefore(n.Span.End) {
		last := len(n.Children) - 1
		i := 0
		withSep := func(row *ast.Node) *doc.Doc {
			d := b.tableRow(row)
			switch {
			case i == 0:
				d = doc.Concat(d, doc.Text(";"))
			case i != last:
				d = doc.Concat(d, doc.Text(","))
			}
			i++
			return d
		}
		body, _ := b.seq(n.Children, beforeClose(n.Span), withSep)
		return doc.Concat(
			doc.Text("["),
			doc.Nest(doc.Concat(doc.HardLine(), body)),
			doc.HardLine(),
			doc.Text("]"),
		)
	}

	header := b.tableRow(n.Children[0])
	rows := make([]*doc.Doc, 0, len(n.Children)-1)
	for _, row := range n.Children[1:] {
		rows = append(rows, b.tableRow(row))
	}
	sep := doc.Concat(doc.Text(","), doc.Line())
	return doc.Group(
		doc.Text("["),
		doc.Nest(doc.Concat(doc.SoftLine(), header, doc.Text(";"), doc.Line(), doc.Join(sep, rows...))),
		doc.SoftLine(),
		doc.Text("]"),
	)
}

// tableRow always renders flat; row cells are scalar in practice.
func (b *builder) tableRow(n *ast.Node) *doc.Doc {
	cells := make([]*doc.Doc, len(n.Children))
	for i, c := range n.Children {
		cells[i] = b.expr(c)
	}
	return doc.Concat(doc.Text("["), doc.Join(doc.Text(", "), cells...), doc.Text("]"))
}

func (b *builder) closure(n *ast.Node) *doc.Doc {
	params := n.Child(0)
	body := n.Child(1)

	var header *doc.Doc
	if len(params.Children) > 0 {
		ps := make([]*doc.Doc, len(params.Children))
		for i, p := range params.Children {
			ps[i] = b.param(p)
		}
		header = doc.Concat(doc.Text(" |"), doc.Join(doc.Text(", "), ps...), doc.Text("|"))
	}

	stmts := body.Children
	if len(stmts) > 1 || b.merger.HasBefore(n.Span.End) {
		inner, any := b.seq(stmts, beforeClose(n.Span), b.statement)
		if !any {
			return doc.Concat(doc.Text("{"), header, doc.Text(" }"))
		}
		return doc.Concat(
			doc.Text("{"),
			header,
			doc.Nest(doc.Concat(doc.HardLine(), inner)),
			doc.HardLine(),
			doc.Text("}"),
		)
	}
	if len(stmts) == 0 {
		if header == nil {
			return doc.Text("{}")
		}
		return doc.Concat(doc.Text("{"), header, doc.Text(" }"))
	}
	return doc.Group(
		doc.Text("{"),
		header,
		doc.Nest(doc.Concat(doc.Line(), b.statement(stmts[0]))),
		doc.Line(),
		doc.Text("}"),
	)
}

func (b *builder) param(n *ast.Node) *doc.Doc {
	parts := []*doc.Doc{doc.Text(n.Child(0).Text)}
	if n.Text != "" {
		parts = append(parts, doc.Text(": "+n.Text))
	}
	if len(n.Children) == 2 {
		parts = append(parts, doc.Text(" = "), b.expr(n.Child(1)))
	}
	return doc.Concat(parts...)
}

func (b *builder) signature(n *ast.Node) *doc.Doc {
	return b.bracketed("[", "]", n, n.Children, b.param)
}

// block always breaks: opening brace on the header line, statements nested,
// closing brace back at base indent. Empty blocks render {}.
func (b *builder) block(n *ast.Node) *doc.Doc {
	body, any := b.seq(n.Children, beforeClose(n.Span), b.statement)
	if !any {
		return doc.Text("{}")
	}
	return doc.Concat(
		doc.Text("{"),
		doc.Nest(doc.Concat(doc.HardLine(), body)),
		doc.HardLine(),
		doc.Text("}"),
	)
}

func (b *builder) ifChain(n *ast.Node) *doc.Doc {
	parts := []*doc.Doc{doc.Text("if "), b.expr(n.Child(0)), doc.Text(" "), b.block(n.Child(1))}
	if alt := n.Child(2); alt != nil {
		parts = append(parts, doc.Text(" else "))
		if alt.Kind == ast.KindIf {
			parts = append(parts, b.ifChain(alt))
		} else {
			parts = append(parts, b.block(alt))
		}
	}
	return doc.Concat(parts...)
}

// match arms are one per line regardless of width.
func (b *builder) match(n *ast.Node) *doc.Doc {
	subject := b.expr(n.Children[0])
	arms, any := b.seq(n.Children[1:], beforeClose(n.Span), b.matchArm)
	if !any {
		return doc.Concat(doc.Text("match "), subject, doc.Text(" {}"))
	}
	return doc.Concat(
		doc.Text("match "), subject, doc.Text(" {"),
		doc.Nest(doc.Concat(doc.HardLine(), arms)),
		doc.HardLine(), doc.Text("}"),
	)
}

func (b *builder) matchArm(n *ast.Node) *doc.Doc {
	return doc.Concat(b.expr(n.Child(0)), doc.Text(" => "), b.valueExpr(n.Child(1)))
}

func (b *builder) try(n *ast.Node) *doc.Doc {
	parts := []*doc.Doc{doc.Text("try "), b.block(n.Child(0))}
	if handler := n.Child(1); handler != nil {
		parts = append(parts, doc.Text(" catch "), b.expr(handler))
	}
	return doc.Concat(parts...)
}

// interp passes literal chunks through untouched and formats each embedded
// expression flat inside its parentheses.
func (b *builder) interp(n *ast.Node) *doc.Doc {
	parts := []*doc.Doc{doc.Text("$" + n.Text)}
	for _, c := range n.Children {
		if c.Kind == ast.KindStringChunk {
			parts = append(parts, doc.Text(c.Text))
			continue
		}
		if c.Kind == ast.KindPipeline {
			parts = append(parts, doc.Text("("), b.pipelineFlat(c), doc.Text(")"))
			continue
		}
		parts = append(parts, doc.Text("("), b.expr(c), doc.Text(")"))
	}
	parts = append(parts, doc.Text(n.Text))
	return doc.Concat(parts...)
}

// beforeClose is the offset just before a delimited node's closing token,
// so a trailing trivia sweep stays inside the delimiters.
func beforeClose(span source.Span) uint32 {
	if span.End > span.Start {
		return span.End - 1
	}
	return span.End
}
