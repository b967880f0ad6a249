package diag

import (
	"github.com/nushell/nufmt/internal/source"
)

// Severity orders diagnostics from least to most severe.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a single report produced by the lexer, parser, or formatter.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
}
