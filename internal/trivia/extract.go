// Package trivia recovers what the lexer throws away: comments and blank
// lines. The extractor scans the raw source outside string spans, and the
// Merger hands items back to the formatter anchored to syntax nodes, so no
// comment is ever dropped.
package trivia

import (
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"

	"github.com/nushell/nufmt/internal/ast"
	"github.com/nushell/nufmt/internal/source"
)

// Kind discriminates trivia items.
type Kind uint8

const (
	// KindComment is a '#' comment running to end of line.
	KindComment Kind = iota
	// KindBlankRun is one or more consecutive blank lines.
	KindBlankRun
)

// Item is one piece of trivia in document order.
type Item struct {
	Kind Kind
	// Span covers the comment text including '#', or the blank lines of a
	// run.
	Span source.Span
	// Text is the raw comment including the leading '#', right-trimmed.
	// Empty for blank runs.
	Text string
	// Blanks is the line count of a blank run.
	Blanks int
	// Line is the zero-based line the item starts on.
	Line int
	// OwnLine reports that nothing but whitespace precedes the item on its
	// line. Comments with code before them are trailing candidates.
	OwnLine bool
}

// lineCount returns how many lines the file has. A trailing newline does not
// open a new line.
func lineCount(file *source.File) int {
	n := len(file.LineIdx) + 1
	if len(file.Content) > 0 && file.Content[len(file.Content)-1] == '\n' {
		n--
	}
	if len(file.Content) == 0 {
		n = 0
	}
	return n
}

// lineBounds returns the [start, end) byte range of a zero-based line,
// excluding its terminating newline.
func lineBounds(file *source.File, line int) (uint32, uint32) {
	var start uint32
	if line > 0 {
		start = file.LineIdx[line-1] + 1
	}
	end, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(fmt.Errorf("file content length overflow: %w", err))
	}
	if line < len(file.LineIdx) {
		end = file.LineIdx[line]
	}
	return start, end
}

// LineOf returns the zero-based line an offset falls on.
func LineOf(file *source.File, off uint32) int {
	return sort.Search(len(file.LineIdx), func(i int) bool {
		return file.LineIdx[i] >= off
	})
}

// Extract scans file content for comments and blank-line runs, skipping
// regions claimed by string and interpolation literals in the tree.
func Extract(file *source.File, root *ast.Node) []Item {
	claimed := claimedSpans(root)
	content := file.Content

	var items []Item
	blankStart := -1
	blankCount := 0

	flushBlanks := func() {
		if blankCount == 0 {
			return
		}
		start, _ := lineBounds(file, blankStart)
		_, end := lineBounds(file, blankStart+blankCount-1)
		items = append(items, Item{
			Kind:    KindBlankRun,
			Span:    source.Span{File: file.ID, Start: start, End: end},
			Blanks:  blankCount,
			Line:    blankStart,
			OwnLine: true,
		})
		blankStart = -1
		blankCount = 0
	}

	for line := 0; line < lineCount(file); line++ {
		start, end := lineBounds(file, line)
		text := string(content[start:end])

		if strings.TrimSpace(text) == "" {
			if blankCount == 0 {
				blankStart = line
			}
			blankCount++
			continue
		}
		flushBlanks()

		off, ok := commentStart(content, start, end, claimed)
		if !ok {
			continue
		}
		raw := strings.TrimRight(string(content[off:end]), " \t")
		rawLen, err := safecast.Conv[uint32](len(raw))
		if err != nil {
			panic(fmt.Errorf("comment length overflow: %w", err))
		}
		items = append(items, Item{
			Kind:    KindComment,
			Span:    source.Span{File: file.ID, Start: off, End: off + rawLen},
			Text:    raw,
			Line:    line,
			OwnLine: strings.TrimSpace(string(content[start:off])) == "",
		})
	}
	flushBlanks()
	return items
}

// commentStart finds the first unclaimed '#' in [start, end).
func commentStart(content []byte, start, end uint32, claimed []source.Span) (uint32, bool) {
	for off := start; off < end; off++ {
		if content[off] != '#' {
			continue
		}
		if inClaimed(off, claimed) {
			continue
		}
		return off, true
	}
	return 0, false
}

func inClaimed(off uint32, claimed []source.Span) bool {
	i := sort.Search(len(claimed), func(i int) bool {
		return claimed[i].End > off
	})
	return i < len(claimed) && claimed[i].Start <= off
}

// claimedSpans collects string-literal regions where '#' is literal text.
func claimedSpans(root *ast.Node) []source.Span {
	var spans []source.Span
	ast.Walk(root, func(n *ast.Node) bool {
		switch n.Kind {
		case ast.KindString, ast.KindInterp:
			spans = append(spans, n.Span)
			return false
		default:
			return true
		}
	})
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// Normalized returns the comment in canonical form: '#' followed by one
// space and the content. Shebangs and '##' doc markers keep their shape.
func (it Item) Normalized() string {
	body := strings.TrimPrefix(it.Text, "#")
	if body == "" {
		return "#"
	}
	if body[0] == '!' || body[0] == '#' {
		return it.Text
	}
	return "# " + strings.TrimLeft(body, " \t")
}
