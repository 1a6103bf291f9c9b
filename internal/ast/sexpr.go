package ast

import (
	"lox-lang/internal/token"
	"strings"
)

// Sprint renders a node as a parenthesized prefix expression, e.g.
// `1 + 2 * 3;` becomes `(expr (+ 1 (* 2 3)))`.
func Sprint(node Node) string {
	var b strings.Builder
	write(&b, node)
	return b.String()
}

func write(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("nil")
	case *File:
		for i, s := range n.Body {
			if i > 0 {
				b.WriteByte('\n')
			}
			write(b, s)
		}

	case *Literal:
		switch n.Value.Kind {
		case token.LitString:
			b.WriteString(`"` + n.Value.Str + `"`)
		case token.LitBool:
			b.WriteString(strings.TrimPrefix(n.Value.String(), "#"))
		default:
			b.WriteString(n.Value.String())
		}
	case *Grouping:
		paren(b, "group", n.Inner)
	case *Unary:
		paren(b, n.Op.Lexeme, n.Operand)
	case *Binary:
		paren(b, n.Op.Lexeme, n.Left, n.Right)
	case *Logical:
		paren(b, n.Op.Lexeme, n.Left, n.Right)
	case *Variable:
		b.WriteString(n.Name.Lexeme)
	case *Assign:
		b.WriteString("(= " + n.Name.Lexeme + " ")
		write(b, n.Value)
		b.WriteByte(')')
	case *Call:
		nodes := make([]Node, 0, len(n.Args)+1)
		nodes = append(nodes, n.Callee)
		for _, a := range n.Args {
			nodes = append(nodes, a)
		}
		paren(b, "call", nodes...)

	case *ExprStmt:
		paren(b, "expr", n.Expr)
	case *PrintStmt:
		paren(b, "print", n.Expr)
	case *VarStmt:
		if n.Init == nil {
			b.WriteString("(var " + n.Name.Lexeme + ")")
			return
		}
		b.WriteString("(var " + n.Name.Lexeme + " ")
		write(b, n.Init)
		b.WriteByte(')')
	case *BlockStmt:
		paren(b, "block", stmtNodes(n.Stmts)...)
	case *IfStmt:
		if n.Else == nil {
			paren(b, "if", n.Condition, n.Then)
			return
		}
		paren(b, "if", n.Condition, n.Then, n.Else)
	case *WhileStmt:
		paren(b, "while", n.Condition, n.Body)
	case *FunctionStmt:
		b.WriteString("(fun " + n.Name.Lexeme + " (")
		for i, p := range n.Params {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(p.Lexeme)
		}
		b.WriteByte(')')
		for _, s := range n.Body {
			b.WriteByte(' ')
			write(b, s)
		}
		b.WriteByte(')')
	}
}

func paren(b *strings.Builder, name string, nodes ...Node) {
	b.WriteString("(" + name)
	for _, n := range nodes {
		b.WriteByte(' ')
		write(b, n)
	}
	b.WriteByte(')')
}

func stmtNodes(stmts []Stmt) []Node {
	nodes := make([]Node, len(stmts))
	for i, s := range stmts {
		nodes[i] = s
	}
	return nodes
}
