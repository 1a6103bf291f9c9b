// Package parser implements the syntax analysis for Lox.
// Expressions are parsed by precedence climbing, one method per tier;
// statements by recursive descent. Every parse method returns an explicit
// error, and ParseFile recovers from faults one statement at a time.
package parser

import (
	"lox-lang/internal/ast"
	"lox-lang/internal/diag"
	"lox-lang/internal/span"
	"lox-lang/internal/token"
)

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
	depth  int // open blocks
	diags  []diag.Diagnostic
}

// New creates a new parser from a token slice. The slice is expected to end
// with an EOF token, as produced by the lexer.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		tokens = append(tokens, token.Token{Kind: token.EOF})
	}
	return &Parser{tokens: tokens, pos: 0}
}

// Parse parses tokens into a program. If any fault is found the program is
// discarded and a diag.List with every recovered fault is returned.
func Parse(tokens []token.Token) ([]ast.Stmt, error) {
	file, diags := New(tokens).ParseFile()
	if len(diags) > 0 {
		return nil, diag.List(diags)
	}
	return file.Body, nil
}

// ParseFile parses the entire token stream and returns the AST root and
// diagnostics. A broken statement is reported once, then the parser skips
// to the next statement boundary and carries on.
func (p *Parser) ParseFile() (*ast.File, []diag.Diagnostic) {
	file := &ast.File{}
	startPos := p.peek().Span.Start

	for !p.isAtEnd() {
		from := p.pos
		stmt, err := p.declaration()
		if err != nil {
			p.record(err)
			p.synchronize(from)
			continue
		}
		file.Body = append(file.Body, stmt)
	}

	file.Span = span.Span{Start: startPos, End: p.peek().Span.End}
	return file, p.diags
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) previous() token.Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

// accept consumes the next token if it has one of the given kinds.
func (p *Parser) accept(kinds ...token.Kind) (token.Token, bool) {
	for _, k := range kinds {
		if p.check(k) {
			return p.advance(), true
		}
	}
	return token.Token{}, false
}

// expect consumes a token of the given kind or fails with msg.
func (p *Parser) expect(kind token.Kind, msg string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), diag.CodeExpectedToken, msg)
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) errorAt(tok token.Token, code, msg string) diag.Diagnostic {
	d := diag.Errorf(code, tok.Span, tok.Lexeme, "%s", msg)
	d.Line = tok.Line
	return d
}

// record stores a fault found by a parse method.
func (p *Parser) record(err error) {
	if d, ok := err.(diag.Diagnostic); ok {
		p.diags = append(p.diags, d)
		return
	}
	tok := p.peek()
	p.diags = append(p.diags, p.errorAt(tok, diag.CodeExpectedToken, err.Error()))
}

// ============================================================
// Error recovery
// ============================================================

// synchronize discards tokens until it has passed a ';' or the next token
// starts a new statement. from is where the broken statement began; at
// least one token is always consumed so a fault on a statement keyword
// cannot stall the parser. Braces skipped along the way are matched, and
// inside a block the closing '}' is left for the block to consume.
func (p *Parser) synchronize(from int) {
	nested := 0
	skip := func() {
		switch p.advance().Kind {
		case token.LBRACE:
			nested++
		case token.RBRACE:
			if nested > 0 {
				nested--
			}
		}
	}
	if p.pos == from {
		skip()
	}
	for !p.isAtEnd() {
		if nested == 0 {
			if p.previous().Kind == token.SEMICOLON {
				return
			}
			if p.peek().Kind.StartsStatement() {
				return
			}
			if p.depth > 0 && p.check(token.RBRACE) {
				return
			}
		}
		skip()
	}
}

// ============================================================
// Declarations
// ============================================================

func (p *Parser) declaration() (ast.Stmt, error) {
	switch p.peek().Kind {
	case token.KW_FUN:
		return p.parseFunction()
	case token.KW_VAR:
		return p.parseVarDecl()
	default:
		return p.parseStmt()
	}
}

// parseFunction parses: fun IDENT ( params ) { body }
func (p *Parser) parseFunction() (ast.Stmt, error) {
	start := p.advance() // consume 'fun'

	name, err := p.expect(token.IDENT, "expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN, "expected '(' after function name"); err != nil {
		return nil, err
	}

	var params []token.Token
	if !p.check(token.RPAREN) {
		for {
			param, err := p.expect(token.IDENT, "expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
	}
	if _, err := p.expect(token.RPAREN, "expected ')' after parameters"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE, "expected '{' before function body"); err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionStmt{
		StmtBase: makeStmtBase(start.Span.Start, p.prevEnd()),
		Name:     name,
		Params:   params,
		Body:     body,
	}, nil
}

// parseVarDecl parses: var IDENT [ = expr ] ;
func (p *Parser) parseVarDecl() (ast.Stmt, error) {
	start := p.advance() // consume 'var'

	name, err := p.expect(token.IDENT, "expected variable name")
	if err != nil {
		return nil, err
	}

	var init ast.Expr
	if _, ok := p.accept(token.EQUAL); ok {
		if init, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.SEMICOLON, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &ast.VarStmt{
		StmtBase: makeStmtBase(start.Span.Start, p.prevEnd()),
		Name:     name,
		Init:     init,
	}, nil
}

// ============================================================
// Statements
// ============================================================

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.peek().Kind {
	case token.KW_FOR:
		return p.parseForStmt()
	case token.KW_IF:
		return p.parseIfStmt()
	case token.KW_PRINT:
		return p.parsePrintStmt()
	case token.KW_WHILE:
		return p.parseWhileStmt()
	case token.LBRACE:
		start := p.advance()
		stmts, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{
			StmtBase: makeStmtBase(start.Span.Start, p.prevEnd()),
			Stmts:    stmts,
		}, nil
	default:
		return p.parseExprStmt()
	}
}

// parseBlockBody parses declarations up to and including the closing '}'.
// The opening '{' has already been consumed. Broken statements inside the
// block are recorded and skipped here; only a missing '}' is returned.
func (p *Parser) parseBlockBody() ([]ast.Stmt, error) {
	p.depth++
	defer func() { p.depth-- }()

	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		from := p.pos
		stmt, err := p.declaration()
		if err != nil {
			p.record(err)
			p.synchronize(from)
			continue
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(token.RBRACE, "expected '}' after block"); err != nil {
		return nil, err
	}
	return stmts, nil
}

// parseIfStmt parses: if ( expr ) stmt [ else stmt ]
func (p *Parser) parseIfStmt() (ast.Stmt, error) {
	start := p.advance() // consume 'if'

	if _, err := p.expect(token.LPAREN, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "expected ')' after if condition"); err != nil {
		return nil, err
	}

	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Condition: cond, Then: then}
	if _, ok := p.accept(token.KW_ELSE); ok {
		if stmt.Else, err = p.parseStmt(); err != nil {
			return nil, err
		}
	}

	stmt.StmtBase = makeStmtBase(start.Span.Start, p.prevEnd())
	return stmt, nil
}

// parsePrintStmt parses: print expr ;
func (p *Parser) parsePrintStmt() (ast.Stmt, error) {
	start := p.advance() // consume 'print'
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "expected ';' after value"); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{
		StmtBase: makeStmtBase(start.Span.Start, p.prevEnd()),
		Expr:     value,
	}, nil
}

// parseWhileStmt parses: while ( expr ) stmt
func (p *Parser) parseWhileStmt() (ast.Stmt, error) {
	start := p.advance() // consume 'while'

	if _, err := p.expect(token.LPAREN, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "expected ')' after condition"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	return &ast.WhileStmt{
		StmtBase:  makeStmtBase(start.Span.Start, p.prevEnd()),
		Condition: cond,
		Body:      body,
	}, nil
}

// parseForStmt parses: for ( [init] ; [cond] ; [incr] ) stmt
//
// There is no for node: the loop is rewritten to
//
//	{ init; while (cond) { body; incr; } }
//
// with a missing condition replaced by `true`.
func (p *Parser) parseForStmt() (ast.Stmt, error) {
	start := p.advance() // consume 'for'

	if _, err := p.expect(token.LPAREN, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var (
		initializer ast.Stmt
		err         error
	)
	switch p.peek().Kind {
	case token.SEMICOLON:
		p.advance()
	case token.KW_VAR:
		initializer, err = p.parseVarDecl()
	default:
		initializer, err = p.parseExprStmt()
	}
	if err != nil {
		return nil, err
	}

	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		if cond, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMICOLON, "expected ';' after loop condition"); err != nil {
		return nil, err
	}

	var incr ast.Expr
	if !p.check(token.RPAREN) {
		if incr, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RPAREN, "expected ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	base := makeStmtBase(start.Span.Start, p.prevEnd())
	if incr != nil {
		body = &ast.BlockStmt{
			StmtBase: base,
			Stmts: []ast.Stmt{
				body,
				&ast.ExprStmt{StmtBase: makeStmtBase(incr.GetSpan().Start, incr.GetSpan().End), Expr: incr},
			},
		}
	}
	if cond == nil {
		cond = &ast.Literal{ExprBase: makeExprBase(start.Span.Start, start.Span.End), Value: token.BoolLit(true)}
	}
	var loop ast.Stmt = &ast.WhileStmt{StmtBase: base, Condition: cond, Body: body}
	if initializer != nil {
		loop = &ast.BlockStmt{StmtBase: base, Stmts: []ast.Stmt{initializer, loop}}
	}
	return loop, nil
}

// parseExprStmt parses: expr ;
func (p *Parser) parseExprStmt() (ast.Stmt, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "expected ';' after expression"); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{
		StmtBase: makeStmtBase(expr.GetSpan().Start, p.prevEnd()),
		Expr:     expr,
	}, nil
}
