package runtime

import (
	"fmt"
	"lox-lang/internal/diag"
	"lox-lang/internal/token"
)

// RuntimeError is a fault raised while executing a program. It aborts
// interpretation and carries the token it was raised at.
type RuntimeError struct {
	Code    string
	Message string
	Token   token.Token
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at line %d near '%s': %s", e.Token.Line, e.Token.Lexeme, e.Message)
}

// Diagnostic converts the fault for rendering against the source.
func (e *RuntimeError) Diagnostic() diag.Diagnostic {
	d := diag.Errorf(e.Code, e.Token.Span, e.Token.Lexeme, "%s", e.Message)
	d.Line = e.Token.Line
	return d
}

func runtimeErr(code string, tok token.Token, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...), Token: tok}
}
