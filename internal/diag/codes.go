package diag

import "fmt"

// Code identifies a diagnostic category. Ranges mirror the pipeline stages:
// 1xxx lexer, 2xxx parser, 3xxx formatter, 4xxx configuration, 5xxx I/O.
type Code uint16

const (
	UnknownCode Code = 0

	LexUnknownChar         Code = 1001
	LexUnterminatedString  Code = 1002
	LexBadNumber           Code = 1003

	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynExpectToken       Code = 2003
	SynBadSignature      Code = 2004

	FmtUnsupportedConstruct Code = 3001
	FmtTriviaAttachment     Code = 3002

	CfgUnknownKey    Code = 4001
	CfgInvalidValue  Code = 4002

	IOLoadFileError Code = 5001
)

func (c Code) String() string {
	switch c {
	case LexUnknownChar:
		return "lex-unknown-char"
	case LexUnterminatedString:
		return "lex-unterminated-string"
	case LexBadNumber:
		return "lex-bad-number"
	case SynUnexpectedToken:
		return "syn-unexpected-token"
	case SynUnclosedDelimiter:
		return "syn-unclosed-delimiter"
	case SynExpectToken:
		return "syn-expect-token"
	case SynBadSignature:
		return "syn-bad-signature"
	case FmtUnsupportedConstruct:
		return "fmt-unsupported-construct"
	case FmtTriviaAttachment:
		return "fmt-trivia-attachment"
	case CfgUnknownKey:
		return "cfg-unknown-key"
	case CfgInvalidValue:
		return "cfg-invalid-value"
	case IOLoadFileError:
		return "io-load-file"
	default:
		return fmt.Sprintf("diag-%04d", uint16(c))
	}
}
