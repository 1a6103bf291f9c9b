package parser

import (
	"lox-lang/internal/ast"
	"lox-lang/internal/diag"
	"lox-lang/internal/span"
	"lox-lang/internal/token"
)

// ============================================================
// Expression parsing (precedence climbing), lowest tier first
// ============================================================

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseAssignment()
}

// parseAssignment is right-associative. The left side is parsed as an
// ordinary expression and only accepted if it turned out to be a variable.
func (p *Parser) parseAssignment() (ast.Expr, error) {
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	equals, ok := p.accept(token.EQUAL)
	if !ok {
		return expr, nil
	}
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}

	target, ok := expr.(*ast.Variable)
	if !ok {
		return nil, p.errorAt(equals, diag.CodeInvalidAssignment, "invalid assignment target")
	}
	return &ast.Assign{
		ExprBase: makeExprBase(expr.GetSpan().Start, value.GetSpan().End),
		Name:     target.Name,
		Value:    value,
	}, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	return p.logical(p.parseAnd, token.KW_OR)
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	return p.logical(p.parseEquality, token.KW_AND)
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.binary(p.parseComparison, token.BANG_EQUAL, token.EQUAL_EQUAL)
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	return p.binary(p.parseTerm, token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL)
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	return p.binary(p.parseFactor, token.MINUS, token.PLUS)
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	return p.binary(p.parseUnary, token.SLASH, token.STAR)
}

// binary parses a left-associative tier: next (op next)*.
func (p *Parser) binary(next func() (ast.Expr, error), ops ...token.Kind) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.accept(ops...)
		if !ok {
			return left, nil
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{
			ExprBase: makeExprBase(left.GetSpan().Start, right.GetSpan().End),
			Left:     left,
			Op:       op,
			Right:    right,
		}
	}
}

// logical is binary for `and` / `or`, which get their own node so the
// interpreter can short-circuit.
func (p *Parser) logical(next func() (ast.Expr, error), op token.Kind) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		opTok, ok := p.accept(op)
		if !ok {
			return left, nil
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.Logical{
			ExprBase: makeExprBase(left.GetSpan().Start, right.GetSpan().End),
			Left:     left,
			Op:       opTok,
			Right:    right,
		}
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	op, ok := p.accept(token.BANG, token.MINUS)
	if !ok {
		return p.parseCall()
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.Unary{
		ExprBase: makeExprBase(op.Span.Start, operand.GetSpan().End),
		Op:       op,
		Operand:  operand,
	}, nil
}

// parseCall parses: primary ( "(" args? ")" )*
func (p *Parser) parseCall() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept(token.LPAREN); !ok {
			return expr, nil
		}
		if expr, err = p.finishCall(expr); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
	}

	paren, err := p.expect(token.RPAREN, "expected ')' after arguments")
	if err != nil {
		return nil, err
	}
	return &ast.Call{
		ExprBase: makeExprBase(callee.GetSpan().Start, paren.Span.End),
		Callee:   callee,
		Paren:    paren,
		Args:     args,
	}, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case token.KW_FALSE:
		p.advance()
		return literal(tok, token.BoolLit(false)), nil
	case token.KW_TRUE:
		p.advance()
		return literal(tok, token.BoolLit(true)), nil
	case token.KW_NIL:
		p.advance()
		return literal(tok, token.NilLit()), nil
	case token.NUMBER, token.STRING:
		p.advance()
		return literal(tok, tok.Literal), nil

	case token.IDENT:
		p.advance()
		return &ast.Variable{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Name:     tok,
		}, nil

	case token.LPAREN:
		p.advance() // consume '('
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RPAREN, "expected ')' after expression")
		if err != nil {
			return nil, err
		}
		return &ast.Grouping{
			ExprBase: makeExprBase(tok.Span.Start, end.Span.End),
			Inner:    inner,
		}, nil

	default:
		return nil, p.errorAt(tok, diag.CodeExpectedExpr, "expected expression")
	}
}

func literal(tok token.Token, value token.Literal) *ast.Literal {
	return &ast.Literal{
		ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
		Value:    value,
	}
}

// ============================================================
// Span helpers
// ============================================================

func (p *Parser) prevEnd() span.Position {
	if p.pos > 0 {
		return p.tokens[p.pos-1].Span.End
	}
	return p.peek().Span.Start
}

func makeExprBase(start, end span.Position) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}

func makeStmtBase(start, end span.Position) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}
