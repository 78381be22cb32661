// Package diag defines the structured diagnostic value shared by every
// stage of the compiler pipeline (scanner, lexer, parser, analyzer).
//
// A diagnostic is never a bare string: it carries the offending token's
// origin so the driver can render a Rust/Clang-style snippet, and a Kind
// so callers can branch on the failure category by reading Kind after
// errors.As.
package diag

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind enumerates the error taxonomy from the language's error table.
// Every Kind below is "SyntaxError" in the external sense; Kind only
// distinguishes the internal diagnostic category.
type Kind int

const (
	InvalidCharacter Kind = iota
	MissingSpaceBeforeOperator
	MissingSpaceAfterOperator
	MissingEmptyLine
	UnevenIndent
	IncompleteLine
	LiteralExpected
	NameExpected
	GarbageCharacters
	LeftMemberIsExpression
	LetOnExpression
	InconsistentIndent
	ReassignImmutable
	VariableReferencedBeforeAssignment
	SyntaxError
)

var messages = [...]string{
	InvalidCharacter:                   "Invalid character",
	MissingSpaceBeforeOperator:         "Missing space before operator",
	MissingSpaceAfterOperator:          "Missing space after operator",
	MissingEmptyLine:                   "Missing empty line right before end of file",
	UnevenIndent:                       "Indentation must be an even number of spaces",
	IncompleteLine:                     "Incomplete line",
	LiteralExpected:                    "Literal expected",
	NameExpected:                       "Name expected",
	GarbageCharacters:                  "Garbage characters after statement",
	LeftMemberIsExpression:             "Left-hand side is an expression, not a name",
	LetOnExpression:                    "'let' is not allowed before a bare expression",
	InconsistentIndent:                 "Inconsistent indentation",
	ReassignImmutable:                  "Cannot reassign an immutable name",
	VariableReferencedBeforeAssignment: "Variable referenced before assignment",
	SyntaxError:                        "Invalid syntax",
}

// String implements fmt.Stringer, returning the human-readable message
// for the kind (not the Go identifier).
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(messages) {
		return messages[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Origin is the (filename, line, column, line_text) tuple attached to
// every token and AST node for diagnostics. Line and Column are
// 0-based. Immutable once captured.
type Origin struct {
	Filename string
	Line     int
	Column   int
	LineText string
}

// Error is the structured diagnostic produced by any pipeline stage.
// It implements the standard error interface so callers may use
// errors.As/errors.Is against it.
type Error struct {
	Kind   Kind
	Origin Origin
	// Hint is an optional suggestion appended to the rendered message,
	// e.g. a "did you mean" produced by internal/suggest.
	Hint  string
	Cause error
}

// New creates a diagnostic of the given kind at the given origin.
func New(kind Kind, origin Origin) *Error {
	return &Error{Kind: kind, Origin: origin}
}

// Wrap creates a diagnostic wrapping a lower-level cause.
func Wrap(kind Kind, origin Origin, cause error) *Error {
	return &Error{Kind: kind, Origin: origin, Cause: cause}
}

// WithHint attaches a suggestion string and returns the receiver for
// chaining.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// Error implements the error interface by rendering the diagnostic.
func (e *Error) Error() string {
	return e.Render()
}

// Unwrap allows error unwrapping via errors.Unwrap/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Render formats the diagnostic per the language's rendering contract:
//
//	<MESSAGE> at '<FILENAME>', line <LINENO>:
//		<LINE_TEXT>
//		<SPACES>^
func (e *Error) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at '%s', line %d:\n", e.Kind.String(), e.Origin.Filename, e.Origin.Line)
	fmt.Fprintf(&b, "\t%s\n", e.Origin.LineText)
	offset := e.Origin.Column
	if offset < 0 {
		// Line-start and end-of-line origins carry column -1.
		offset = 0
	}
	fmt.Fprintf(&b, "\t%s^", strings.Repeat(" ", offset))
	if e.Hint != "" {
		fmt.Fprintf(&b, "\n%s", e.Hint)
	}
	return b.String()
}

// jsonDiagnostic is the wire shape validated by pkgs/diag/schema.
type jsonDiagnostic struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	LineText string `json:"line_text"`
	Hint     string `json:"hint,omitempty"`
}

// JSON renders the diagnostic as the JSON document described by
// pkgs/diag/schema's embedded schema.
func (e *Error) JSON() ([]byte, error) {
	return json.Marshal(jsonDiagnostic{
		Kind:     e.Kind.String(),
		Message:  e.Kind.String(),
		Filename: e.Origin.Filename,
		Line:     e.Origin.Line,
		Column:   e.Origin.Column,
		LineText: e.Origin.LineText,
		Hint:     e.Hint,
	})
}
