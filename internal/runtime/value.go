// Package runtime implements the tree-walking evaluator: the Value variant,
// Environment chains, closures, classes/instances and the Interpreter that
// walks the AST.
package runtime

import "fmt"

// Value is the runtime representation of every value the evaluator
// produces: Nil, Bool, Number, String, Function, NativeFunction, Class or
// Instance.
type Value interface {
	Render() string
	typeName() string
}

// Nil is the unique nil value.
type Nil struct{}

func (Nil) Render() string  { return "nil" }
func (Nil) typeName() string { return "nil" }

// Bool wraps a boolean.
type Bool bool

func (b Bool) Render() string   { return fmt.Sprintf("%t", bool(b)) }
func (b Bool) typeName() string { return "bool" }

// Number wraps a float64 — the language's only numeric type (spec
// Non-goals: no integers).
type Number float64

func (n Number) Render() string   { return fmt.Sprintf("%.10g", float64(n)) }
func (n Number) typeName() string { return "number" }

// String wraps a text value.
type String string

func (s String) Render() string   { return string(s) }
func (s String) typeName() string { return "string" }

// TypeOf names the runtime type of v, backing the `type_of` builtin.
func TypeOf(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.typeName()
}

// Truthy implements the language's truthiness rule: only Nil and Bool(false)
// are falsy, everything else — including Number(0) and the empty String —
// is truthy.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// Equal implements Value equality: Nil==Nil, primitives compare by value,
// functions/classes/instances compare by identity.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		bb, ok := b.(Bool)
		return ok && a == bb
	case Number:
		bb, ok := b.(Number)
		return ok && a == bb
	case String:
		bb, ok := b.(String)
		return ok && a == bb
	case *Function:
		bb, ok := b.(*Function)
		return ok && a == bb
	case *NativeFunction:
		bb, ok := b.(*NativeFunction)
		return ok && a == bb
	case *Class:
		bb, ok := b.(*Class)
		return ok && a == bb
	case *Instance:
		bb, ok := b.(*Instance)
		return ok && a == bb
	default:
		return false
	}
}
