package diag

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorBlue  = "\033[34m"
	colorBold  = "\033[1m"
)

// Renderer prints diagnostics against a cached copy of the source text:
//
//	   3 | print a + ;
//	               ^ [E2002] expected expression
type Renderer struct {
	lines []string
	Color bool
}

// NewRenderer caches the lines of source for later rendering.
func NewRenderer(source string) *Renderer {
	return &Renderer{lines: strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")}
}

// Line returns the 1-based source line n, or "" if out of range.
func (r *Renderer) Line(n int) string {
	if n < 1 || n > len(r.lines) {
		return ""
	}
	return r.lines[n-1]
}

// Render writes d with its source line and a caret underline.
func (r *Renderer) Render(w io.Writer, d Diagnostic) {
	src := r.Line(d.Line)
	prefix := fmt.Sprintf("%4d | ", d.Line)

	col, width := r.caret(d, src)
	underline := strings.Repeat(" ", len(prefix)+col) + strings.Repeat("^", width)

	if r.Color {
		fmt.Fprintf(w, "%s%s%s%s%s\n", colorBold, colorBlue, prefix, colorReset, src)
		fmt.Fprintf(w, "%s%s%s [%s] %s%s\n", colorBold, colorRed, underline, d.Code, d.Message, colorReset)
		return
	}
	fmt.Fprintf(w, "%s%s\n", prefix, src)
	fmt.Fprintf(w, "%s [%s] %s\n", underline, d.Code, d.Message)
}

// RenderAll renders each diagnostic in order.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		r.Render(w, d)
	}
}

// caret returns the 0-based column and width of the underline for d on src.
// Diagnostics reported at a line other than where their span starts (an
// unterminated string spanning lines) fall back to searching for the lexeme.
func (r *Renderer) caret(d Diagnostic, src string) (int, int) {
	if d.Span.Start.Line == d.Line && d.Span.Start.Column > 0 {
		col := d.Span.Start.Column - 1
		if n := utf8.RuneCountInString(src); col > n {
			col = n
		}
		return col, d.Span.Width(src)
	}
	lex := firstLine(d.Lexeme)
	col := 0
	if lex != "" {
		if i := strings.Index(src, lex); i >= 0 {
			col = utf8.RuneCountInString(src[:i])
		}
	}
	if len(lex) == 0 {
		return col, 1
	}
	return col, utf8.RuneCountInString(lex)
}
