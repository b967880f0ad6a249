package format

import (
	"fmt"

	"github.com/nushell/nufmt/internal/ast"
	"github.com/nushell/nufmt/internal/source"
)

// ParseError means the source is not syntactically valid. Fatal for that
// file only; the driver reports it and continues with other files.
type ParseError struct {
	Path    string
	Pos     source.LineCol
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Pos.Line, e.Pos.Col, e.Message)
}

// UnsupportedConstructError means the builder has no layout rule for a node
// kind. A builder defect: the span identifies the construct for bug reports.
type UnsupportedConstructError struct {
	Path string
	Kind ast.Kind
	Span source.Span
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("%s: no layout rule for %s node at %s", e.Path, e.Kind, e.Span)
}

// TriviaAttachmentError means a comment or blank run was never placed in the
// output. An anchor-resolution defect, fatal for the file.
type TriviaAttachmentError struct {
	Path string
	Span source.Span
	Text string
}

func (e *TriviaAttachmentError) Error() string {
	return fmt.Sprintf("%s: trivia %q at %s was not attached to any node", e.Path, e.Text, e.Span)
}
