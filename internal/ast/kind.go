package ast

// Kind tags every syntax node variant. The set is closed: the Doc builder
// dispatches over it exhaustively, and a kind without a layout rule is
// reported as an unsupported construct rather than silently passed through.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Program is the root node; children are top-level statements.
	KindProgram

	// Declarations.
	KindLetDecl    // children: name, [type], value
	KindMutDecl    // children: name, [type], value
	KindConstDecl  // children: name, [type], value
	KindDefDecl    // children: name, params, block
	KindExternDecl // children: name, params
	KindAliasDecl  // children: name, expansion

	// Control flow.
	KindIf       // children: cond, block, [else block or if]
	KindMatch    // children: subject, arms...
	KindMatchArm // children: pattern, body
	KindFor      // children: var, iterable, block
	KindWhile    // children: cond, block
	KindLoop     // children: block
	KindTry      // children: block, [catch handler]
	KindReturn   // children: [value]
	KindBreak
	KindContinue

	// Composite expressions.
	KindPipeline    // children: stages
	KindClosure     // children: params, block
	KindRecord      // children: fields
	KindRecordField // children: key, value
	KindList        // children: items
	KindTable       // children: header row, data rows
	KindTableRow    // children: cells
	KindSubexpr     // children: inner expression or pipeline
	KindRange       // children: bounds in source order
	KindSpread      // children: operand
	KindBinary      // Text: operator; children: lhs, rhs
	KindUnary       // Text: operator; children: operand
	KindInterp      // children: chunks (KindStringChunk) and embedded exprs
	KindStringChunk // leaf: raw literal text inside an interpolated string
	KindCall        // children: command word then arguments

	// Module forms.
	KindModule  // children: name, block
	KindUse     // children: path words
	KindExport  // children: exported declaration
	KindHide    // children: path words
	KindOverlay // Text: verb (use/new/hide); children: name
	KindSource  // children: path word

	// Structure.
	KindBlock  // children: statements
	KindParams // children: params
	KindParam  // Text: type annotation or ""; children: name or flag, [default]

	// Leaves.
	KindIdent
	KindVar
	KindNumber
	KindString
	KindBool
	KindNull
	KindFlag
	KindWildcard // match wildcard '_'
)

var kindNames = map[Kind]string{
	KindInvalid:     "invalid",
	KindProgram:     "program",
	KindLetDecl:     "let",
	KindMutDecl:     "mut",
	KindConstDecl:   "const",
	KindDefDecl:     "def",
	KindExternDecl:  "extern",
	KindAliasDecl:   "alias",
	KindIf:          "if",
	KindMatch:       "match",
	KindMatchArm:    "match-arm",
	KindFor:         "for",
	KindWhile:       "while",
	KindLoop:        "loop",
	KindTry:         "try",
	KindReturn:      "return",
	KindBreak:       "break",
	KindContinue:    "continue",
	KindPipeline:    "pipeline",
	KindClosure:     "closure",
	KindRecord:      "record",
	KindRecordField: "record-field",
	KindList:        "list",
	KindTable:       "table",
	KindTableRow:    "table-row",
	KindSubexpr:     "subexpr",
	KindRange:       "range",
	KindSpread:      "spread",
	KindBinary:      "binary",
	KindUnary:       "unary",
	KindInterp:      "interp",
	KindStringChunk: "string-chunk",
	KindCall:        "call",
	KindModule:      "module",
	KindUse:         "use",
	KindExport:      "export",
	KindHide:        "hide",
	KindOverlay:     "overlay",
	KindSource:      "source",
	KindBlock:       "block",
	KindParams:      "params",
	KindParam:       "param",
	KindIdent:       "ident",
	KindVar:         "var",
	KindNumber:      "number",
	KindString:      "string",
	KindBool:        "bool",
	KindNull:        "null",
	KindFlag:        "flag",
	KindWildcard:    "wildcard",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
