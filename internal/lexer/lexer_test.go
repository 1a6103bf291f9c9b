package lexer

import (
	"lox-lang/internal/diag"
	"lox-lang/internal/token"
	"testing"
)

func expectKinds(t *testing.T, source string, expected ...token.Kind) []token.Token {
	t.Helper()
	tokens, diags := New(source).Tokenize()
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, exp := range expected {
		if tokens[i].Kind != exp {
			t.Errorf("token[%d]: expected %s, got %s (%q)", i, exp, tokens[i].Kind, tokens[i].Lexeme)
		}
	}
	return tokens
}

func TestTokenizeSingleCharacters(t *testing.T) {
	expectKinds(t, `(){},.-+;*/`,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS,
		token.SEMICOLON, token.STAR, token.SLASH, token.EOF,
	)
}

func TestTokenizeOperators(t *testing.T) {
	expectKinds(t, `! != = == > >= < <=`,
		token.BANG, token.BANG_EQUAL, token.EQUAL, token.EQUAL_EQUAL,
		token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL,
		token.EOF,
	)
}

func TestTokenizeKeywords(t *testing.T) {
	expectKinds(t, `and class else false for fun if nil or print return super this true var while`,
		token.KW_AND, token.KW_CLASS, token.KW_ELSE, token.KW_FALSE,
		token.KW_FOR, token.KW_FUN, token.KW_IF, token.KW_NIL,
		token.KW_OR, token.KW_PRINT, token.KW_RETURN, token.KW_SUPER,
		token.KW_THIS, token.KW_TRUE, token.KW_VAR, token.KW_WHILE,
		token.EOF,
	)
}

func TestTokenizeIdentifiers(t *testing.T) {
	tokens := expectKinds(t, `foo _bar baz_9 orchid`,
		token.IDENT, token.IDENT, token.IDENT, token.IDENT, token.EOF)
	if tokens[2].Lexeme != "baz_9" {
		t.Errorf("expected lexeme 'baz_9', got %q", tokens[2].Lexeme)
	}
	if tokens[3].Lexeme != "orchid" {
		t.Errorf("keyword prefix should not split identifier, got %q", tokens[3].Lexeme)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	for _, src := range []string{"0", "42", "123.45", "3.14159"} {
		tokens := expectKinds(t, src, token.NUMBER, token.EOF)
		if tokens[0].Lexeme != src {
			t.Errorf("lexeme: expected %q, got %q", src, tokens[0].Lexeme)
		}
		if tokens[0].Literal.Kind != token.LitNumber {
			t.Fatalf("%q: expected number literal, got %v", src, tokens[0].Literal)
		}
	}

	tokens := expectKinds(t, "123.45", token.NUMBER, token.EOF)
	if tokens[0].Literal.Num != 123.45 {
		t.Errorf("expected 123.45, got %v", tokens[0].Literal.Num)
	}
}

func TestTokenizeTrailingDot(t *testing.T) {
	tokens := expectKinds(t, "12.", token.NUMBER, token.DOT, token.EOF)
	if tokens[0].Lexeme != "12" {
		t.Errorf("expected '12', got %q", tokens[0].Lexeme)
	}
}

func TestTokenizeString(t *testing.T) {
	tokens := expectKinds(t, `"hello"`, token.STRING, token.EOF)
	if tokens[0].Lexeme != `"hello"` {
		t.Errorf("lexeme: expected quoted text, got %q", tokens[0].Lexeme)
	}
	if tokens[0].Literal.Str != "hello" {
		t.Errorf("literal: expected 'hello', got %q", tokens[0].Literal.Str)
	}
}

func TestTokenizeMultilineString(t *testing.T) {
	tokens := expectKinds(t, "\"a\nb\" x", token.STRING, token.IDENT, token.EOF)
	if tokens[0].Literal.Str != "a\nb" {
		t.Errorf("expected embedded newline, got %q", tokens[0].Literal.Str)
	}
	if tokens[1].Line != 2 {
		t.Errorf("expected identifier on line 2, got %d", tokens[1].Line)
	}
}

func TestTokenizeComments(t *testing.T) {
	expectKinds(t, "// This is a comment!", token.EOF)
	expectKinds(t, "/* This is \n a multiline comment */", token.EOF)

	tokens := expectKinds(t, "x // trailing\n/* a\nb */ y", token.IDENT, token.IDENT, token.EOF)
	if tokens[1].Line != 3 {
		t.Errorf("expected 'y' on line 3, got %d", tokens[1].Line)
	}
}

func TestTokenizeEOFLine(t *testing.T) {
	tokens := expectKinds(t, "a\nb\n\n", token.IDENT, token.IDENT, token.EOF)
	eof := tokens[len(tokens)-1]
	if eof.Line != 4 {
		t.Errorf("expected EOF on line 4, got %d", eof.Line)
	}
	if eof.Lexeme != "" {
		t.Errorf("expected empty EOF lexeme, got %q", eof.Lexeme)
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens := expectKinds(t, "var x = 1;", token.KW_VAR, token.IDENT, token.EQUAL, token.NUMBER, token.SEMICOLON, token.EOF)

	if tokens[0].Span.Start.Line != 1 || tokens[0].Span.Start.Column != 1 {
		t.Errorf("'var' position: expected 1:1, got %s", tokens[0].Span.Start)
	}
	if tokens[1].Span.Start.Column != 5 {
		t.Errorf("'x' position: expected column 5, got %s", tokens[1].Span.Start)
	}
}

func TestColumnsCountRunes(t *testing.T) {
	tokens, _ := New(`"héllo" x`).Tokenize()
	if tokens[0].Span.End.Column != 8 {
		t.Errorf("string end: expected column 8, got %s", tokens[0].Span.End)
	}
	if tokens[1].Span.Start.Column != 9 {
		t.Errorf("'x' after string: expected column 9, got %s", tokens[1].Span.Start)
	}

	tokens, diags := New("é x").Tokenize()
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	if w := diags[0].Span.End.Column - diags[0].Span.Start.Column; w != 1 {
		t.Errorf("illegal rune should span one column, got %d", w)
	}
	if tokens[0].Span.Start.Column != 3 {
		t.Errorf("'x' after illegal rune: expected column 3, got %s", tokens[0].Span.Start)
	}
}

func TestUnterminatedString(t *testing.T) {
	tokens, err := Scan("\"hello")
	if err == nil {
		t.Fatalf("expected error, got tokens %v", tokens)
	}
	list, ok := err.(diag.List)
	if !ok {
		t.Fatalf("expected diag.List, got %T", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one fault, got %d: %v", len(list), list)
	}
	if list[0].Code != diag.CodeUnterminatedString {
		t.Errorf("expected %s, got %s", diag.CodeUnterminatedString, list[0].Code)
	}
}

func TestUnterminatedStringReportsStartLine(t *testing.T) {
	_, diags := New("x\n\"abc\ndef\n").Tokenize()
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Line != 2 {
		t.Errorf("expected fault at line 2, got %d", diags[0].Line)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, diags := New("print 1;\n/* This is \n an unterminated multiline comment").Tokenize()
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Code != diag.CodeUnterminatedComment {
		t.Errorf("expected %s, got %s", diag.CodeUnterminatedComment, diags[0].Code)
	}
	if diags[0].Line != 2 {
		t.Errorf("expected fault at line 2, got %d", diags[0].Line)
	}
}

func TestUnexpectedCharactersAccumulate(t *testing.T) {
	tokens, diags := New("var a = 1 @ 2;\n# é").Tokenize()
	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d: %v", len(diags), diags)
	}
	if diags[0].Lexeme != "@" || diags[0].Line != 1 {
		t.Errorf("first fault: expected '@' on line 1, got %q on line %d", diags[0].Lexeme, diags[0].Line)
	}
	if diags[2].Lexeme != "é" || diags[2].Line != 2 {
		t.Errorf("third fault: expected 'é' on line 2, got %q on line %d", diags[2].Lexeme, diags[2].Line)
	}
	if tokens[len(tokens)-1].Kind != token.EOF {
		t.Errorf("expected trailing EOF even with faults")
	}
	if _, err := Scan("@"); err == nil {
		t.Error("Scan should fail when any fault was accumulated")
	}
}
