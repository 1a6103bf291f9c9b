// Package diag provides diagnostic (error/warning) types shared by the
// lexer, parser and interpreter.
package diag

import (
	"fmt"
	"lox-lang/internal/span"
	"strings"
)

// Severity indicates the severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Stable diagnostic codes. 1xxx are scan faults, 2xxx parse faults and
// 3xxx runtime faults.
const (
	CodeUnterminatedString  = "E1001"
	CodeUnterminatedComment = "E1002"
	CodeUnexpectedChar      = "E1003"

	CodeExpectedToken     = "E2001"
	CodeExpectedExpr      = "E2002"
	CodeInvalidAssignment = "E2003"

	CodeUndefinedVariable = "E3001"
	CodeOperandType       = "E3002"
	CodeNotCallable       = "E3003"
	CodeArity             = "E3004"
	CodeNative            = "E3005"
)

// Diagnostic represents a fault found while scanning, parsing or running.
type Diagnostic struct {
	Code     string    `json:"code"`           // stable error code, e.g. "E1001"
	Severity Severity  `json:"severity"`       // error or warning
	Message  string    `json:"message"`        // human-readable description
	Line     int       `json:"line"`           // 1-based line the fault is reported at
	Lexeme   string    `json:"lexeme"`         // offending source text
	Span     span.Span `json:"span"`           // source location of the lexeme
	Hint     string    `json:"hint,omitempty"` // optional hint
}

// String returns a one-line representation of the diagnostic.
func (d Diagnostic) String() string {
	msg := fmt.Sprintf("[%s] %s at line %d", d.Code, d.Severity, d.Line)
	if d.Lexeme != "" {
		msg += fmt.Sprintf(" near '%s'", firstLine(d.Lexeme))
	} else {
		msg += " at end"
	}
	msg += ": " + d.Message
	if d.Hint != "" {
		msg += " (hint: " + d.Hint + ")"
	}
	return msg
}

// Error lets a single diagnostic travel as an error value.
func (d Diagnostic) Error() string { return d.String() }

// Errorf creates an error diagnostic for a lexeme at the given span. The
// reported line is the span's start line.
func Errorf(code string, s span.Span, lexeme string, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Line:     s.Start.Line,
		Lexeme:   lexeme,
		Span:     s,
	}
}

// List is an ordered collection of diagnostics that is itself an error.
type List []Diagnostic

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].String()
	}
	parts := make([]string, len(l))
	for i, d := range l {
		parts[i] = d.String()
	}
	return fmt.Sprintf("%d errors:\n%s", len(l), strings.Join(parts, "\n"))
}

// Err returns l as an error, or nil when it is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
