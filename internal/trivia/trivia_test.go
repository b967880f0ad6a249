package trivia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nushell/nufmt/internal/ast"
	"github.com/nushell/nufmt/internal/diag"
	"github.com/nushell/nufmt/internal/parser"
	"github.com/nushell/nufmt/internal/source"
)

func extractFrom(t *testing.T, src string) (*source.File, *ast.Node, []Item) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.nu", []byte(src))
	file := fs.Get(id)
	bag := diag.NewBag(0)
	root := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	require.False(t, bag.HasErrors(), "parse diagnostics: %v", bag.Items())
	return file, root, Extract(file, root)
}

func TestExtractComments(t *testing.T) {
	src := "# leading\nlet x = 1 # trailing\n"
	_, _, items := extractFrom(t, src)
	require.Len(t, items, 2)

	assert.Equal(t, KindComment, items[0].Kind)
	assert.Equal(t, "# leading", items[0].Text)
	assert.True(t, items[0].OwnLine)
	assert.Equal(t, 0, items[0].Line)

	assert.Equal(t, "# trailing", items[1].Text)
	assert.False(t, items[1].OwnLine)
	assert.Equal(t, 1, items[1].Line)
}

func TestExtractSkipsHashInsideStrings(t *testing.T) {
	src := "let tag = \"#hash\"\nlet msg = $\"n=(1) #not-a-comment\"\nls # real\n"
	_, _, items := extractFrom(t, src)
	require.Len(t, items, 1)
	assert.Equal(t, "# real", items[0].Text)
}

func TestExtractBlankRuns(t *testing.T) {
	src := "let a = 1\n\n\n\nlet b = 2\n"
	_, _, items := extractFrom(t, src)
	require.Len(t, items, 1)
	assert.Equal(t, KindBlankRun, items[0].Kind)
	assert.Equal(t, 3, items[0].Blanks)
	assert.Equal(t, 1, items[0].Line)
}

func TestExtractBlankLinesWithSpacesCount(t *testing.T) {
	src := "let a = 1\n   \t\nlet b = 2\n"
	_, _, items := extractFrom(t, src)
	require.Len(t, items, 1)
	assert.Equal(t, KindBlankRun, items[0].Kind)
	assert.Equal(t, 1, items[0].Blanks)
}

func TestTrailingNewlineIsNotABlankLine(t *testing.T) {
	_, _, items := extractFrom(t, "let a = 1\n")
	assert.Empty(t, items)
}

func TestNormalized(t *testing.T) {
	cases := map[string]string{
		"#no-space":    "# no-space",
		"#   padded":   "# padded",
		"# fine":       "# fine",
		"#":            "#",
		"#!/usr/bin/env nu": "#!/usr/bin/env nu",
		"## doc":       "## doc",
	}
	for raw, want := range cases {
		assert.Equal(t, want, Item{Kind: KindComment, Text: raw}.Normalized(), "raw %q", raw)
	}
}

func TestMergerLeadingAndTrailing(t *testing.T) {
	src := "# first\n\nlet x = 1 # note\nlet y = 2\n"
	file, root, items := extractFrom(t, src)
	m := NewMerger(file, items)

	stmts := root.Children
	require.Len(t, stmts, 2)

	lead := m.Leading(stmts[0].Span)
	require.Len(t, lead, 2)
	assert.Equal(t, KindComment, lead[0].Kind)
	assert.Equal(t, KindBlankRun, lead[1].Kind)

	trail, ok := m.Trailing(stmts[0].Span)
	require.True(t, ok)
	assert.Equal(t, "# note", trail.Text)

	assert.Empty(t, m.Leading(stmts[1].Span))
	_, ok = m.Trailing(stmts[1].Span)
	assert.False(t, ok)

	assert.Empty(t, m.Rest())
	assert.Empty(t, m.Unplaced())
}

func TestMergerTrailingRequiresSameLine(t *testing.T) {
	src := "let x = 1\n# next line\nlet y = 2\n"
	file, root, items := extractFrom(t, src)
	m := NewMerger(file, items)

	m.Leading(root.Children[0].Span)
	_, ok := m.Trailing(root.Children[0].Span)
	assert.False(t, ok)

	lead := m.Leading(root.Children[1].Span)
	require.Len(t, lead, 1)
	assert.Equal(t, "# next line", lead[0].Text)
}

func TestMergerRestFlushesEndOfFile(t *testing.T) {
	src := "let x = 1\n\n# closing remark\n"
	file, root, items := extractFrom(t, src)
	m := NewMerger(file, items)

	m.Leading(root.Children[0].Span)
	_, _ = m.Trailing(root.Children[0].Span)

	rest := m.Rest()
	require.Len(t, rest, 2)
	assert.Equal(t, KindBlankRun, rest[0].Kind)
	assert.Equal(t, "# closing remark", rest[1].Text)
	assert.Empty(t, m.Unplaced())
}

func TestUnplacedReportsSkippedItems(t *testing.T) {
	src := "# orphan\nlet x = 1\n"
	file, _, items := extractFrom(t, src)
	m := NewMerger(file, items)
	assert.Len(t, m.Unplaced(), 1)
}
