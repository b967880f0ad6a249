// Package format is the formatting engine: parse, extract trivia, build a
// layout document, and render it against the width budget. One call formats
// one source unit; the driver runs calls in parallel across files.
package format

import (
	"bytes"

	"github.com/nushell/nufmt/internal/config"
	"github.com/nushell/nufmt/internal/diag"
	"github.com/nushell/nufmt/internal/doc"
	"github.com/nushell/nufmt/internal/parser"
	"github.com/nushell/nufmt/internal/source"
	"github.com/nushell/nufmt/internal/trivia"
)

// Source formats one program. path is used for error messages only; content
// is the raw bytes (CRLF and BOM are normalized before parsing). Output
// always uses LF endings and a single trailing newline.
func Source(path string, content []byte, cfg config.Config) ([]byte, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, content)
	file := fs.Get(id)

	bag := diag.NewBag(0)
	root := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		first, _ := bag.FirstError()
		pos, _ := fs.Resolve(first.Primary)
		return nil, &ParseError{Path: path, Pos: pos, Message: first.Message}
	}

	items := trivia.Extract(file, root)
	b := &builder{
		cfg:    cfg,
		merger: trivia.NewMerger(file, items),
		file:   file,
		path:   path,
	}
	d := b.program(root)
	if b.err != nil {
		return nil, b.err
	}
	if left := b.merger.Unplaced(); len(left) > 0 {
		return nil, &TriviaAttachmentError{Path: path, Span: left[0].Span, Text: left[0].Text}
	}

	out := doc.Render(d, doc.Options{MaxWidth: cfg.LineLength, IndentWidth: cfg.Indent})
	return []byte(out), nil
}

// Check formats without writing anywhere and reports whether the input
// differs from its formatted form. Used for dry runs and idempotence tests.
func Check(path string, content []byte, cfg config.Config) (bool, []byte, error) {
	formatted, err := Source(path, content, cfg)
	if err != nil {
		return false, nil, err
	}
	return !bytes.Equal(content, formatted), formatted, nil
}
