package runtime

import (
	"lox-lang/internal/diag"
	"lox-lang/internal/token"
)

// Environment represents a variable scope with a parent chain.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment with an optional parent scope.
// Parent bindings are never copied; lookups walk the chain instead.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Enclosing returns the parent scope, or nil for the global scope.
func (e *Environment) Enclosing() *Environment {
	return e.parent
}

// Define binds name in this scope, replacing any existing binding.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get looks up a variable by walking the scope chain.
func (e *Environment) Get(name token.Token) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if val, exists := env.values[name.Lexeme]; exists {
			return val, nil
		}
	}
	return nil, undefinedVariable(name)
}

// Assign updates the nearest existing binding of name. It never declares.
func (e *Environment) Assign(name token.Token, value Value) error {
	for env := e; env != nil; env = env.parent {
		if _, exists := env.values[name.Lexeme]; exists {
			env.values[name.Lexeme] = value
			return nil
		}
	}
	return undefinedVariable(name)
}

// Depth returns the number of scopes between e and the global scope.
func (e *Environment) Depth() int {
	n := 0
	for env := e.parent; env != nil; env = env.parent {
		n++
	}
	return n
}

func undefinedVariable(name token.Token) *RuntimeError {
	return runtimeErr(diag.CodeUndefinedVariable, name, "undefined variable '%s'", name.Lexeme)
}
