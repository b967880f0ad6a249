package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nushell/nufmt/internal/ast"
	"github.com/nushell/nufmt/internal/diag"
	"github.com/nushell/nufmt/internal/source"
)

func parseSource(t *testing.T, src string) (*ast.Node, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.nu", []byte(src))
	bag := diag.NewBag(0)
	root := ParseFile(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	require.NotNil(t, root)
	return root, bag
}

func parseClean(t *testing.T, src string) *ast.Node {
	t.Helper()
	root, bag := parseSource(t, src)
	require.False(t, bag.HasErrors(), "unexpected diagnostics: %v", bag.Items())
	return root
}

func TestParseLetBinding(t *testing.T) {
	root := parseClean(t, "let x = 42\n")
	require.Len(t, root.Children, 1)

	let := root.Children[0]
	assert.Equal(t, ast.KindLetDecl, let.Kind)
	require.Len(t, let.Children, 2)
	assert.Equal(t, "x", let.Children[0].Text)
	assert.Equal(t, ast.KindNumber, let.Children[1].Kind)
	assert.Equal(t, "42", let.Children[1].Text)
}

func TestParseBindingWithType(t *testing.T) {
	root := parseClean(t, "let count: int = 0")
	let := root.Children[0]
	require.Len(t, let.Children, 3)
	assert.Equal(t, "int", let.Children[1].Text)
}

func TestParseDef(t *testing.T) {
	root := parseClean(t, "def greet [name: string, --loud (-l)] {\n  print $name\n}\n")
	def := root.Children[0]
	require.Equal(t, ast.KindDefDecl, def.Kind)
	require.Len(t, def.Children, 3)

	assert.Equal(t, "greet", def.Children[0].Text)

	params := def.Children[1]
	require.Equal(t, ast.KindParams, params.Kind)
	require.Len(t, params.Children, 2)
	assert.Equal(t, "name", params.Children[0].Children[0].Text)
	assert.Equal(t, "string", params.Children[0].Text)
	assert.Equal(t, "--loud(-l)", params.Children[1].Children[0].Text)

	block := def.Children[2]
	require.Equal(t, ast.KindBlock, block.Kind)
	require.Len(t, block.Children, 1)
	assert.Equal(t, ast.KindCall, block.Children[0].Kind)
}

func TestParseRestParam(t *testing.T) {
	root := parseClean(t, "def main [...rest] {}")
	params := root.Children[0].Children[1]
	require.Len(t, params.Children, 1)
	assert.Equal(t, "...rest", params.Children[0].Children[0].Text)
}

func TestParsePipelineStages(t *testing.T) {
	root := parseClean(t, "ls | where size > 1kb | get name\n")
	pipe := root.Children[0]
	require.Equal(t, ast.KindPipeline, pipe.Kind)
	assert.Len(t, pipe.Children, 3)
	for _, stage := range pipe.Children {
		assert.Equal(t, ast.KindCall, stage.Kind)
	}
}

func TestParsePipeLeadingContinuation(t *testing.T) {
	// formatted output puts the pipe at the start of the next line
	root := parseClean(t, "open data.json\n| get users\n| length\n")
	require.Len(t, root.Children, 1)
	pipe := root.Children[0]
	require.Equal(t, ast.KindPipeline, pipe.Kind)
	assert.Len(t, pipe.Children, 3)
}

func TestParseSingleStageIsBare(t *testing.T) {
	root := parseClean(t, "ls -la\n")
	assert.Equal(t, ast.KindCall, root.Children[0].Kind)
}

func TestParseIfElse(t *testing.T) {
	root := parseClean(t, "if $x > 0 {\n  print big\n} else {\n  print small\n}\n")
	node := root.Children[0]
	require.Equal(t, ast.KindIf, node.Kind)
	require.Len(t, node.Children, 3)
	assert.Equal(t, ast.KindBinary, node.Children[0].Kind)
	assert.Equal(t, ">", node.Children[0].Text)
	assert.Equal(t, ast.KindBlock, node.Children[1].Kind)
	assert.Equal(t, ast.KindBlock, node.Children[2].Kind)
}

func TestParseElseIfChain(t *testing.T) {
	root := parseClean(t, "if $a { x } else if $b { y } else { z }")
	node := root.Children[0]
	require.Len(t, node.Children, 3)
	nested := node.Children[2]
	require.Equal(t, ast.KindIf, nested.Kind)
	assert.Len(t, nested.Children, 3)
}

func TestParseMatch(t *testing.T) {
	root := parseClean(t, "match $code {\n  200 => ok\n  404 => missing\n  _ => other\n}\n")
	m := root.Children[0]
	require.Equal(t, ast.KindMatch, m.Kind)
	require.Len(t, m.Children, 4) // subject + 3 arms

	assert.Equal(t, ast.KindVar, m.Children[0].Kind)
	for _, arm := range m.Children[1:] {
		assert.Equal(t, ast.KindMatchArm, arm.Kind)
		assert.Len(t, arm.Children, 2)
	}
	assert.Equal(t, ast.KindWildcard, m.Children[3].Children[0].Kind)
}

func TestParseForLoop(t *testing.T) {
	root := parseClean(t, "for x in [1, 2, 3] { print $x }")
	f := root.Children[0]
	require.Equal(t, ast.KindFor, f.Kind)
	require.Len(t, f.Children, 3)
	assert.Equal(t, "x", f.Children[0].Text)
	assert.Equal(t, ast.KindList, f.Children[1].Kind)
	assert.Equal(t, ast.KindBlock, f.Children[2].Kind)
}

func TestParseTryCatch(t *testing.T) {
	root := parseClean(t, "try { risky } catch { |err| print $err }")
	tr := root.Children[0]
	require.Equal(t, ast.KindTry, tr.Kind)
	require.Len(t, tr.Children, 2)

	handler := tr.Children[1]
	require.Equal(t, ast.KindClosure, handler.Kind)
	params := handler.Children[0]
	require.Len(t, params.Children, 1)
	assert.Equal(t, "err", params.Children[0].Children[0].Text)
}

func TestParseRecordVsClosure(t *testing.T) {
	root := parseClean(t, "let r = {a: 1, b: 2}\nlet c = { |x| $x * 2 }\nlet e = {}")

	record := root.Children[0].Children[1]
	require.Equal(t, ast.KindRecord, record.Kind)
	require.Len(t, record.Children, 2)
	assert.Equal(t, "a", record.Children[0].Children[0].Text)

	closure := root.Children[1].Children[1]
	require.Equal(t, ast.KindClosure, closure.Kind)
	require.Len(t, closure.Children, 2)
	assert.Equal(t, ast.KindParams, closure.Children[0].Kind)
	assert.Equal(t, ast.KindBlock, closure.Children[1].Kind)

	empty := root.Children[2].Children[1]
	assert.Equal(t, ast.KindRecord, empty.Kind)
	assert.Empty(t, empty.Children)
}

func TestParseBareClosureArg(t *testing.T) {
	root := parseClean(t, "[1, 2] | each { print $in }")
	pipe := root.Children[0]
	call := pipe.Children[1]
	require.Equal(t, ast.KindCall, call.Kind)
	arg := call.Children[1]
	require.Equal(t, ast.KindClosure, arg.Kind)
	assert.Empty(t, arg.Children[0].Children) // no declared parameters
}

func TestParseListAndTable(t *testing.T) {
	root := parseClean(t, "let l = [1, 2, 3]\nlet t = [[a, b]; [1, 2], [3, 4]]")

	list := root.Children[0].Children[1]
	require.Equal(t, ast.KindList, list.Kind)
	assert.Len(t, list.Children, 3)

	table := root.Children[1].Children[1]
	require.Equal(t, ast.KindTable, table.Kind)
	require.Len(t, table.Children, 3) // header + 2 rows
	for _, row := range table.Children {
		assert.Equal(t, ast.KindTableRow, row.Kind)
		assert.Len(t, row.Children, 2)
	}
}

func TestParseRangeAndSpread(t *testing.T) {
	root := parseClean(t, "let r = 1..10\nlet s = [...$xs, 4]")

	rng := root.Children[0].Children[1]
	require.Equal(t, ast.KindRange, rng.Kind)
	assert.Len(t, rng.Children, 2)

	list := root.Children[1].Children[1]
	require.Equal(t, ast.KindList, list.Kind)
	assert.Equal(t, ast.KindSpread, list.Children[0].Kind)
}

func TestParseBinaryPrecedence(t *testing.T) {
	root := parseClean(t, "let v = 1 + 2 * 3")
	bin := root.Children[0].Children[1]
	require.Equal(t, ast.KindBinary, bin.Kind)
	assert.Equal(t, "+", bin.Text)
	rhs := bin.Children[1]
	require.Equal(t, ast.KindBinary, rhs.Kind)
	assert.Equal(t, "*", rhs.Text)
}

func TestParseLogicalOperators(t *testing.T) {
	root := parseClean(t, "if $a > 1 and not $b { x }")
	cond := root.Children[0].Children[0]
	require.Equal(t, ast.KindBinary, cond.Kind)
	assert.Equal(t, "and", cond.Text)
	assert.Equal(t, ast.KindUnary, cond.Children[1].Kind)
	assert.Equal(t, "not", cond.Children[1].Text)
}

func TestParseCellPath(t *testing.T) {
	root := parseClean(t, "print $env.PATH")
	call := root.Children[0]
	arg := call.Children[1]
	require.Equal(t, ast.KindVar, arg.Kind)
	assert.Equal(t, "$env.PATH", arg.Text)
}

func TestParseSubexpr(t *testing.T) {
	root := parseClean(t, "let n = (ls | length)")
	sub := root.Children[0].Children[1]
	require.Equal(t, ast.KindSubexpr, sub.Kind)
	assert.Equal(t, ast.KindPipeline, sub.Children[0].Kind)
}

func TestParseInterpolation(t *testing.T) {
	root := parseClean(t, `print $"hello (1 + 2) world"`)
	call := root.Children[0]
	interp := call.Children[1]
	require.Equal(t, ast.KindInterp, interp.Kind)
	assert.Equal(t, `"`, interp.Text)
	require.Len(t, interp.Children, 3)

	assert.Equal(t, ast.KindStringChunk, interp.Children[0].Kind)
	assert.Equal(t, "hello ", interp.Children[0].Text)
	assert.Equal(t, ast.KindBinary, interp.Children[1].Kind)
	assert.Equal(t, ast.KindStringChunk, interp.Children[2].Kind)
	assert.Equal(t, " world", interp.Children[2].Text)
}

func TestParseInterpolationSpansAreAbsolute(t *testing.T) {
	src := `print $"v=($x)"`
	root := parseClean(t, src)
	interp := root.Children[0].Children[1]
	inner := interp.Children[1]
	require.Equal(t, ast.KindVar, inner.Kind)
	assert.Equal(t, "$x", src[inner.Span.Start:inner.Span.End])
}

func TestParseModuleForms(t *testing.T) {
	root := parseClean(t, "module util {\n  export def twice [x] { $x * 2 }\n}\nuse util twice\nsource setup.nu\n")
	require.Len(t, root.Children, 3)

	mod := root.Children[0]
	require.Equal(t, ast.KindModule, mod.Kind)
	exported := mod.Children[1].Children[0]
	require.Equal(t, ast.KindExport, exported.Kind)
	assert.Equal(t, ast.KindDefDecl, exported.Children[0].Kind)

	use := root.Children[1]
	require.Equal(t, ast.KindUse, use.Kind)
	assert.Len(t, use.Children, 2)

	src := root.Children[2]
	require.Equal(t, ast.KindSource, src.Kind)
	assert.Equal(t, "setup.nu", src.Children[0].Text)
}

func TestParseOverlay(t *testing.T) {
	root := parseClean(t, "overlay use my-env\noverlay hide my-env\noverlay new scratch")
	verbs := []string{"use", "hide", "new"}
	for i, want := range verbs {
		node := root.Children[i]
		require.Equal(t, ast.KindOverlay, node.Kind)
		assert.Equal(t, want, node.Text)
		require.Len(t, node.Children, 1)
	}
}

func TestParseAliasAndExtern(t *testing.T) {
	root := parseClean(t, "alias ll = ls -la\nextern git-fetch [remote: string]")
	assert.Equal(t, ast.KindAliasDecl, root.Children[0].Kind)
	assert.Equal(t, ast.KindExternDecl, root.Children[1].Kind)
}

func TestParseJumpStatements(t *testing.T) {
	root := parseClean(t, "loop {\n  if $done { break }\n  continue\n}\nreturn 3")
	ret := root.Children[1]
	require.Equal(t, ast.KindReturn, ret.Kind)
	require.Len(t, ret.Children, 1)
	assert.Equal(t, "3", ret.Children[0].Text)
}

func TestParseCommentsAreSkipped(t *testing.T) {
	root := parseClean(t, "# leading comment\nlet x = 1 # trailing\n\n# standalone\nlet y = 2\n")
	require.Len(t, root.Children, 2)
}

func TestParseErrorRecovery(t *testing.T) {
	root, bag := parseSource(t, "let = 1\nlet y = 2\n")
	assert.True(t, bag.HasErrors())
	// the second statement still parses
	require.NotEmpty(t, root.Children)
	last := root.Children[len(root.Children)-1]
	assert.Equal(t, ast.KindLetDecl, last.Kind)
}

func TestParseUnclosedBlockReported(t *testing.T) {
	_, bag := parseSource(t, "def broken [] {\n  print hi\n")
	require.True(t, bag.HasErrors())
	first, ok := bag.FirstError()
	require.True(t, ok)
	assert.Contains(t, []diag.Code{diag.SynUnclosedDelimiter, diag.SynExpectToken}, first.Code)
}

func TestNodeSpansCoverChildren(t *testing.T) {
	root := parseClean(t, "let x = [1, 2, 3]\n")
	ast.Walk(root, func(n *ast.Node) bool {
		for _, c := range n.Children {
			assert.True(t, n.Span.Contains(c.Span), "%s span must cover %s child", n.Kind, c.Kind)
		}
		return true
	})
}
