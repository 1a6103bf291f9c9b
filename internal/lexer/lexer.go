// Package lexer implements the lexical analysis (tokenization) for Lox.
package lexer

import (
	"lox-lang/internal/diag"
	"lox-lang/internal/span"
	"lox-lang/internal/token"
	"strconv"
	"unicode/utf8"
)

// Lexer tokenizes source code into a sequence of tokens.
type Lexer struct {
	source string

	start span.Position // position where the current lexeme began
	pos   int           // current read position in source
	line  int           // current line (1-based)
	col   int           // current column (1-based)

	tokens []token.Token
	diags  []diag.Diagnostic
}

// New creates a new Lexer for the given source text.
func New(source string) *Lexer {
	return &Lexer{
		source: source,
		pos:    0,
		line:   1,
		col:    1,
	}
}

// Scan tokenizes source and returns the token stream, or a diag.List holding
// every scan fault found.
func Scan(source string) ([]token.Token, error) {
	tokens, diags := New(source).Tokenize()
	if len(diags) > 0 {
		return nil, diag.List(diags)
	}
	return tokens, nil
}

// Tokenize scans the entire source and returns all tokens and diagnostics.
// Scanning never stops at a fault, and the returned tokens always end with
// an EOF token on the last line reached.
func (l *Lexer) Tokenize() ([]token.Token, []diag.Diagnostic) {
	for !l.isAtEnd() {
		l.start = l.curPos()
		l.scanToken()
	}
	l.start = l.curPos()
	l.tokens = append(l.tokens, token.Token{
		Kind: token.EOF,
		Line: l.line,
		Span: l.makeSpan(l.start),
	})
	return l.tokens, l.diags
}

// ---- internal helpers ----

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

// peek returns the current character without advancing, or 0 if at end.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

// peekNext returns the character after current, or 0 if at end.
func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

// advance consumes the current byte and returns it. Columns count runes:
// UTF-8 continuation bytes do not move the column.
func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	switch {
	case ch == '\n':
		l.line++
		l.col = 1
	case !isContinuation(ch):
		l.col++
	}
	return ch
}

// match consumes the current character only if it equals expected.
func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.pos] != expected {
		return false
	}
	l.advance()
	return true
}

// curPos returns the current position as a span.Position.
func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// makeSpan returns a span from start to current position.
func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

func (l *Lexer) lexeme() string {
	return l.source[l.start.Offset:l.pos]
}

func (l *Lexer) addToken(kind token.Kind) {
	l.addLiteral(kind, token.Literal{})
}

func (l *Lexer) addLiteral(kind token.Kind, lit token.Literal) {
	l.tokens = append(l.tokens, token.Token{
		Kind:    kind,
		Lexeme:  l.lexeme(),
		Literal: lit,
		Line:    l.line,
		Span:    l.makeSpan(l.start),
	})
}

// addError records a scan fault for the current lexeme, reported at line.
func (l *Lexer) addError(code string, line int, msg string) {
	d := diag.Errorf(code, l.makeSpan(l.start), l.lexeme(), "%s", msg)
	d.Line = line
	l.diags = append(l.diags, d)
}

// ---- token reading ----

func (l *Lexer) scanToken() {
	ch := l.advance()

	switch ch {
	case '(':
		l.addToken(token.LPAREN)
	case ')':
		l.addToken(token.RPAREN)
	case '{':
		l.addToken(token.LBRACE)
	case '}':
		l.addToken(token.RBRACE)
	case ',':
		l.addToken(token.COMMA)
	case '.':
		l.addToken(token.DOT)
	case '-':
		l.addToken(token.MINUS)
	case '+':
		l.addToken(token.PLUS)
	case ';':
		l.addToken(token.SEMICOLON)
	case '*':
		l.addToken(token.STAR)
	case '!':
		l.addToken(l.either('=', token.BANG_EQUAL, token.BANG))
	case '=':
		l.addToken(l.either('=', token.EQUAL_EQUAL, token.EQUAL))
	case '<':
		l.addToken(l.either('=', token.LESS_EQUAL, token.LESS))
	case '>':
		l.addToken(l.either('=', token.GREATER_EQUAL, token.GREATER))
	case '/':
		switch {
		case l.match('/'):
			l.skipLineComment()
		case l.match('*'):
			l.skipBlockComment()
		default:
			l.addToken(token.SLASH)
		}
	case ' ', '\r', '\t', '\n':
		// whitespace; advance already counted the newline
	case '"':
		l.readString()
	default:
		switch {
		case isDigit(ch):
			l.readNumber()
		case isIdentStart(ch):
			l.readIdentifier()
		default:
			l.readIllegal(ch)
		}
	}
}

// either consumes expected and returns matched, or returns otherwise.
func (l *Lexer) either(expected byte, matched, otherwise token.Kind) token.Kind {
	if l.match(expected) {
		return matched
	}
	return otherwise
}

// skipLineComment skips from // to end of line.
func (l *Lexer) skipLineComment() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment skips a /* ... */ comment, which may span lines.
func (l *Lexer) skipBlockComment() {
	startLine := l.start.Line
	for !l.isAtEnd() && !(l.peek() == '*' && l.peekNext() == '/') {
		l.advance()
	}
	if l.isAtEnd() {
		l.addError(diag.CodeUnterminatedComment, startLine, "unterminated multi-line comment")
		return
	}
	l.advance() // *
	l.advance() // /
}

// readString reads a string literal. Strings may span lines and have no
// escape sequences.
func (l *Lexer) readString() {
	startLine := l.start.Line
	for !l.isAtEnd() && l.peek() != '"' {
		l.advance()
	}
	if l.isAtEnd() {
		l.addError(diag.CodeUnterminatedString, startLine, "unterminated string")
		return
	}
	l.advance() // closing "

	value := l.source[l.start.Offset+1 : l.pos-1]
	l.addLiteral(token.STRING, token.StringLit(value))
}

// readNumber reads digits with an optional fractional part. A '.' that is
// not followed by a digit is left for the next token.
func (l *Lexer) readNumber() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance() // skip '.'
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	// the lexeme is always a valid decimal literal here
	n, _ := strconv.ParseFloat(l.lexeme(), 64)
	l.addLiteral(token.NUMBER, token.NumberLit(n))
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() {
	for isIdentPart(l.peek()) {
		l.advance()
	}

	kind := token.LookupIdent(l.lexeme())
	switch kind {
	case token.KW_TRUE:
		l.addLiteral(kind, token.BoolLit(true))
	case token.KW_FALSE:
		l.addLiteral(kind, token.BoolLit(false))
	case token.KW_NIL:
		l.addLiteral(kind, token.NilLit())
	default:
		l.addToken(kind)
	}
}

// readIllegal reports an unexpected character, consuming the rest of a
// multi-byte UTF-8 sequence so it is reported once.
func (l *Lexer) readIllegal(ch byte) {
	if ch >= utf8.RuneSelf {
		_, size := utf8.DecodeRuneInString(l.source[l.start.Offset:])
		for i := 1; i < size && !l.isAtEnd(); i++ {
			l.advance()
		}
	}
	l.addError(diag.CodeUnexpectedChar, l.line, "unexpected character '"+l.lexeme()+"'")
}

// ---- character classification ----

func isContinuation(ch byte) bool {
	return ch&0xC0 == 0x80
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
