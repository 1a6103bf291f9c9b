// Package runtime implements the interpreter and runtime value system for Lox.
package runtime

import (
	"lox-lang/internal/token"
	"strconv"
)

// Value is the interface for all runtime values.
type Value interface {
	TypeName() string
	String() string
}

// ---- Primitive values ----

// NumberVal is the only numeric type: an IEEE-754 double.
type NumberVal float64

func (v NumberVal) TypeName() string { return "number" }
func (v NumberVal) String() string   { return token.FormatNumber(float64(v)) }

// StringVal represents a string value.
type StringVal string

func (v StringVal) TypeName() string { return "string" }
func (v StringVal) String() string   { return string(v) }

// BoolVal represents a boolean value.
type BoolVal bool

func (v BoolVal) TypeName() string { return "boolean" }
func (v BoolVal) String() string   { return strconv.FormatBool(bool(v)) }

// NilVal represents nil.
type NilVal struct{}

func (v NilVal) TypeName() string { return "nil" }
func (v NilVal) String() string   { return "nil" }

// FromLiteral maps a parsed literal onto its runtime value.
func FromLiteral(lit token.Literal) Value {
	switch lit.Kind {
	case token.LitNumber:
		return NumberVal(lit.Num)
	case token.LitString:
		return StringVal(lit.Str)
	case token.LitBool:
		return BoolVal(lit.Bool)
	default:
		return NilVal{}
	}
}

// ---- Truthiness ----

// IsTruthy reports whether v counts as true in a condition: nil and false
// are falsy, everything else (including 0 and "") is truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case NilVal:
		return false
	case BoolVal:
		return bool(val)
	default:
		return true
	}
}

// ---- Equality ----

// Equal compares two values of the same variant by value. Values of
// different variants are never equal, and neither are two callables.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case NumberVal:
		y, ok := b.(NumberVal)
		return ok && x == y
	case StringVal:
		y, ok := b.(StringVal)
		return ok && x == y
	case BoolVal:
		y, ok := b.(BoolVal)
		return ok && x == y
	case NilVal:
		_, ok := b.(NilVal)
		return ok
	default:
		return false
	}
}
