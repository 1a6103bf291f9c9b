package main

import (
	"encoding/json"
	"fmt"
	"io"

	"lox-lang/internal/diag"
	"lox-lang/internal/token"

	"github.com/alecthomas/repr"
)

// ---- output helpers ----

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

// printRepr dumps v as a Go literal, the way a debugger would show it.
func printRepr(w io.Writer, v interface{}) {
	fmt.Fprintln(w, repr.String(v, repr.Indent("  ")))
}

func diagsToSlice(diags []diag.Diagnostic) []map[string]interface{} {
	result := make([]map[string]interface{}, len(diags))
	for i, d := range diags {
		result[i] = map[string]interface{}{
			"code":     d.Code,
			"severity": d.Severity.String(),
			"message":  d.Message,
			"line":     d.Line,
			"lexeme":   d.Lexeme,
			"column":   d.Span.Start.Column,
			"offset":   d.Span.Start.Offset,
		}
		if d.Hint != "" {
			result[i]["hint"] = d.Hint
		}
	}
	return result
}

// ---- token output helpers ----

func printTokensText(w io.Writer, tokens []token.Token) {
	for _, tok := range tokens {
		fmt.Fprintln(w, tok.String())
	}
}

func tokensToSlice(tokens []token.Token) []map[string]interface{} {
	result := make([]map[string]interface{}, len(tokens))
	for i, tok := range tokens {
		result[i] = map[string]interface{}{
			"kind":   tok.Kind.String(),
			"lexeme": tok.Lexeme,
			"line":   tok.Line,
			"column": tok.Span.Start.Column,
			"offset": tok.Span.Start.Offset,
		}
		if tok.Literal.Kind != token.LitNone {
			result[i]["literal"] = tok.Literal.String()
		}
	}
	return result
}
