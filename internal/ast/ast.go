// Package ast defines the abstract syntax tree for Lox.
package ast

import (
	"lox-lang/internal/span"
	"lox-lang/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// File (top-level AST root)
// ============================================================

// File is a parsed program: its statements in source order.
type File struct {
	NodeBase
	Body []Stmt
}

// ============================================================
// Expressions
// ============================================================

// Literal is a number, string, boolean or nil constant.
type Literal struct {
	ExprBase
	Value token.Literal
}

// Grouping is a parenthesized expression.
type Grouping struct {
	ExprBase
	Inner Expr
}

// Unary represents !x or -x.
type Unary struct {
	ExprBase
	Op      token.Token
	Operand Expr
}

// Binary represents an arithmetic, comparison or equality operation.
type Binary struct {
	ExprBase
	Left  Expr
	Op    token.Token
	Right Expr
}

// Logical represents `and` / `or`, which short-circuit.
type Logical struct {
	ExprBase
	Left  Expr
	Op    token.Token
	Right Expr
}

// Variable is a reference to a named binding.
type Variable struct {
	ExprBase
	Name token.Token
}

// Assign stores Value into an existing binding and yields it.
type Assign struct {
	ExprBase
	Name  token.Token
	Value Expr
}

// Call invokes Callee. Paren is the closing ')' and locates call faults.
type Call struct {
	ExprBase
	Callee Expr
	Paren  token.Token
	Args   []Expr
}

// ============================================================
// Statements
// ============================================================

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

// PrintStmt writes the display form of Expr followed by a newline.
type PrintStmt struct {
	StmtBase
	Expr Expr
}

// VarStmt declares Name in the current scope. Init may be nil.
type VarStmt struct {
	StmtBase
	Name token.Token
	Init Expr
}

// BlockStmt runs Stmts in a fresh child scope.
type BlockStmt struct {
	StmtBase
	Stmts []Stmt
}

// IfStmt runs Then or Else (which may be nil) depending on Condition.
type IfStmt struct {
	StmtBase
	Condition Expr
	Then      Stmt
	Else      Stmt
}

// WhileStmt repeats Body while Condition is truthy. `for` loops are
// desugared into a WhileStmt by the parser.
type WhileStmt struct {
	StmtBase
	Condition Expr
	Body      Stmt
}

// FunctionStmt declares a named function.
type FunctionStmt struct {
	StmtBase
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}
