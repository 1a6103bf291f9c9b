package runtime

import (
	"fmt"
	"lox-lang/internal/ast"
	"lox-lang/internal/token"
)

// Callable is a value that can be invoked. Its implementations are
// *Function and *NativeFunction.
type Callable interface {
	Value
	Arity() int
	Call(interp *Interpreter, args []Value, paren token.Token) (Value, error)
	callable()
}

// ---- User-defined functions ----

// Function is a function declared in Lox source. It closes over the global
// scope only: locals of an enclosing block are not visible from its body.
type Function struct {
	Decl    *ast.FunctionStmt
	Closure *Environment
}

func (f *Function) TypeName() string { return "function" }
func (f *Function) String() string   { return fmt.Sprintf("<fn %s>", f.Decl.Name.Lexeme) }
func (f *Function) Arity() int       { return len(f.Decl.Params) }
func (f *Function) callable()        {}

// Call binds args positionally in a fresh scope and runs the body. There is
// no return statement, so a call always yields nil.
func (f *Function) Call(interp *Interpreter, args []Value, _ token.Token) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Decl.Params {
		env.Define(param.Lexeme, args[i])
	}
	if err := interp.execBlock(f.Decl.Body, env); err != nil {
		return nil, err
	}
	return NilVal{}, nil
}

// ---- Native functions ----

// NativeFn is the Go signature for built-in functions.
type NativeFn func(interp *Interpreter, args []Value) (Value, error)

// NativeFunction is a built-in implemented in Go.
type NativeFunction struct {
	Name   string
	Params int
	Fn     NativeFn
}

func (n *NativeFunction) TypeName() string { return "native function" }
func (n *NativeFunction) String() string   { return "<native function>" }
func (n *NativeFunction) Arity() int       { return n.Params }
func (n *NativeFunction) callable()        {}

func (n *NativeFunction) Call(interp *Interpreter, args []Value, _ token.Token) (Value, error) {
	return n.Fn(interp, args)
}
