// Package span provides source positions shared by tokens and diagnostics.
package span

import (
	"fmt"
	"unicode/utf8"
)

// Position is a point in the source text.
type Position struct {
	Offset int `json:"offset"` // byte offset from beginning of source
	Line   int `json:"line"`   // 1-based line number
	Column int `json:"column"` // 1-based column number, counted in runes
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is the half-open range [Start, End) a lexeme was scanned from.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (s Span) String() string {
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// Width returns how many columns a caret underline should cover on the
// span's first line. Multi-line spans stop at the end of that line.
func (s Span) Width(line string) int {
	if s.Start.Line != s.End.Line {
		w := utf8.RuneCountInString(line) - (s.Start.Column - 1)
		if w < 1 {
			return 1
		}
		return w
	}
	if w := s.End.Column - s.Start.Column; w > 0 {
		return w
	}
	return 1
}
