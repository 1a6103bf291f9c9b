package runtime

import (
	"fmt"
	"io"
	"log/slog"
	"lox-lang/internal/ast"
	"lox-lang/internal/diag"
	"lox-lang/internal/token"
	"time"
)

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks the AST and executes it. Global bindings persist across
// calls to Run, which is what the REPL relies on.
type Interpreter struct {
	global *Environment
	env    *Environment
	output io.Writer
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger routes debug records about scopes, calls and faults to l.
func WithLogger(l *slog.Logger) Option {
	return func(i *Interpreter) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithClock replaces the time source behind the clock builtin.
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) {
		if now != nil {
			i.now = now
		}
	}
}

// NewInterpreter creates a new interpreter with built-in functions registered.
func NewInterpreter(output io.Writer, opts ...Option) *Interpreter {
	global := NewEnvironment(nil)
	i := &Interpreter{
		global: global,
		env:    global,
		output: output,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	RegisterBuiltins(global)
	return i
}

// Run executes statements in order against the global scope. The first
// runtime fault stops execution and is returned as a *RuntimeError.
func (i *Interpreter) Run(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := i.Execute(stmt); err != nil {
			if rerr, ok := err.(*RuntimeError); ok {
				i.logger.Debug("runtime fault",
					"code", rerr.Code, "line", rerr.Token.Line, "message", rerr.Message)
			}
			return err
		}
	}
	return nil
}

// Globals returns the global environment (useful for REPL).
func (i *Interpreter) Globals() *Environment {
	return i.global
}

// ============================================================
// Statement execution
// ============================================================

// Execute runs a single statement in the current scope.
func (i *Interpreter) Execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := i.Evaluate(s.Expr)
		return err

	case *ast.PrintStmt:
		val, err := i.Evaluate(s.Expr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(i.output, val.String())
		return err

	case *ast.VarStmt:
		var val Value = NilVal{}
		if s.Init != nil {
			v, err := i.Evaluate(s.Init)
			if err != nil {
				return err
			}
			val = v
		}
		i.env.Define(s.Name.Lexeme, val)
		return nil

	case *ast.BlockStmt:
		return i.execBlock(s.Stmts, NewEnvironment(i.env))

	case *ast.IfStmt:
		return i.execIf(s)

	case *ast.WhileStmt:
		return i.execWhile(s)

	case *ast.FunctionStmt:
		i.env.Define(s.Name.Lexeme, &Function{Decl: s, Closure: i.global})
		return nil

	default:
		return fmt.Errorf("unhandled statement type: %T", stmt)
	}
}

func (i *Interpreter) execIf(s *ast.IfStmt) error {
	cond, err := i.Evaluate(s.Condition)
	if err != nil {
		return err
	}
	if IsTruthy(cond) {
		return i.Execute(s.Then)
	}
	if s.Else != nil {
		return i.Execute(s.Else)
	}
	return nil
}

func (i *Interpreter) execWhile(s *ast.WhileStmt) error {
	for {
		cond, err := i.Evaluate(s.Condition)
		if err != nil {
			return err
		}
		if !IsTruthy(cond) {
			return nil
		}
		if err := i.Execute(s.Body); err != nil {
			return err
		}
	}
}

// execBlock runs stmts with blockEnv as the current scope. The previous
// scope is restored on every exit path, faults included.
func (i *Interpreter) execBlock(stmts []ast.Stmt, blockEnv *Environment) error {
	prevEnv := i.env
	i.env = blockEnv
	i.logger.Debug("push scope", "depth", blockEnv.Depth())
	defer func() {
		i.env = prevEnv
		i.logger.Debug("pop scope", "depth", prevEnv.Depth())
	}()

	for _, stmt := range stmts {
		if err := i.Execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================
// Expression evaluation
// ============================================================

// Evaluate computes the value of expr in the current scope.
func (i *Interpreter) Evaluate(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return FromLiteral(e.Value), nil
	case *ast.Grouping:
		return i.Evaluate(e.Inner)
	case *ast.Variable:
		return i.env.Get(e.Name)
	case *ast.Assign:
		val, err := i.Evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if err := i.env.Assign(e.Name, val); err != nil {
			return nil, err
		}
		return val, nil
	case *ast.Unary:
		return i.evalUnary(e)
	case *ast.Binary:
		return i.evalBinary(e)
	case *ast.Logical:
		return i.evalLogical(e)
	case *ast.Call:
		return i.evalCall(e)
	default:
		return nil, fmt.Errorf("unhandled expression type: %T", expr)
	}
}

func (i *Interpreter) evalUnary(e *ast.Unary) (Value, error) {
	operand, err := i.Evaluate(e.Operand)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.BANG:
		return BoolVal(!IsTruthy(operand)), nil
	case token.MINUS:
		n, ok := operand.(NumberVal)
		if !ok {
			return nil, runtimeErr(diag.CodeOperandType, e.Op, "operand must be a number")
		}
		return -n, nil
	default:
		return nil, runtimeErr(diag.CodeOperandType, e.Op, "unknown unary operator '%s'", e.Op.Lexeme)
	}
}

func (i *Interpreter) evalBinary(e *ast.Binary) (Value, error) {
	left, err := i.Evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.Evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.EQUAL_EQUAL:
		return BoolVal(Equal(left, right)), nil
	case token.BANG_EQUAL:
		return BoolVal(!Equal(left, right)), nil
	case token.PLUS:
		if l, ok := left.(NumberVal); ok {
			if r, ok := right.(NumberVal); ok {
				return l + r, nil
			}
		}
		if l, ok := left.(StringVal); ok {
			if r, ok := right.(StringVal); ok {
				return l + r, nil
			}
		}
		return nil, runtimeErr(diag.CodeOperandType, e.Op, "operands must be two numbers or two strings")
	}

	l, r, err := numberOperands(e.Op, left, right)
	if err != nil {
		return nil, err
	}
	switch e.Op.Kind {
	case token.MINUS:
		return l - r, nil
	case token.STAR:
		return l * r, nil
	case token.SLASH:
		// IEEE-754: 1/0 is inf and 0/0 is NaN.
		return l / r, nil
	case token.GREATER:
		return BoolVal(l > r), nil
	case token.GREATER_EQUAL:
		return BoolVal(l >= r), nil
	case token.LESS:
		return BoolVal(l < r), nil
	case token.LESS_EQUAL:
		return BoolVal(l <= r), nil
	default:
		return nil, runtimeErr(diag.CodeOperandType, e.Op, "unknown binary operator '%s'", e.Op.Lexeme)
	}
}

func numberOperands(op token.Token, left, right Value) (NumberVal, NumberVal, error) {
	l, lok := left.(NumberVal)
	r, rok := right.(NumberVal)
	if !lok || !rok {
		return 0, 0, runtimeErr(diag.CodeOperandType, op, "operands must be numbers")
	}
	return l, r, nil
}

// evalLogical returns the deciding operand itself, not a boolean.
func (i *Interpreter) evalLogical(e *ast.Logical) (Value, error) {
	left, err := i.Evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op.Kind == token.KW_OR {
		if IsTruthy(left) {
			return left, nil
		}
		return i.Evaluate(e.Right)
	}
	if !IsTruthy(left) {
		return left, nil
	}
	return i.Evaluate(e.Right)
}

func (i *Interpreter) evalCall(e *ast.Call) (Value, error) {
	callee, err := i.Evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for idx, argExpr := range e.Args {
		val, err := i.Evaluate(argExpr)
		if err != nil {
			return nil, err
		}
		args[idx] = val
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, runtimeErr(diag.CodeNotCallable, e.Paren, "can only call functions")
	}
	if len(args) != fn.Arity() {
		return nil, runtimeErr(diag.CodeArity, e.Paren, "expected %d arguments but got %d", fn.Arity(), len(args))
	}

	i.logger.Debug("call", "callee", fn.String(), "args", len(args), "line", e.Paren.Line)
	result, err := fn.Call(i, args, e.Paren)
	if err != nil {
		if _, ok := err.(*RuntimeError); ok {
			return nil, err
		}
		return nil, runtimeErr(diag.CodeNative, e.Paren, "%s", err)
	}
	return result, nil
}
