package runtime

import (
	"fmt"

	"github.com/sdecook/lumen/internal/ast"
	"github.com/sdecook/lumen/internal/token"
)

// Callable is anything that can appear on the left of a Call expression:
// user-defined functions/methods and native builtins alike.
type Callable interface {
	Value
	Call(in *Interpreter, args []Value) (Value, error)
	Arity() int
}

// Function is a user-defined function or method, closing over the
// environment it was declared in.
type Function struct {
	decl          *ast.FunctionDecl
	closure       *Environment
	isInitializer bool
}

func newFunction(decl *ast.FunctionDecl, closure *Environment, isInitializer bool) *Function {
	return &Function{decl: decl, closure: closure, isInitializer: isInitializer}
}

func (f *Function) Render() string   { return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme) }
func (f *Function) typeName() string { return "function" }

func (f *Function) Arity() int { return len(f.decl.Params) }

// bind returns a copy of f whose closure has `self` (and, transitively,
// `super`) bound to instance — used when a method is looked up off an
// instance.
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("self", instance, false)
	return newFunction(f.decl, env, f.isInitializer)
}

// Call invokes f with args already evaluated by the caller. A bare `return;`
// inside an initializer yields `self`, not Nil.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.closure)
	for i, p := range f.decl.Params {
		env.Define(p.Lexeme, args[i], false)
	}

	err := in.execBlock(f.decl.Body.Stmts, env)
	if sig, ok := asSignal(err); ok {
		if rs, ok := sig.(returnSignal); ok {
			if f.isInitializer {
				self, _ := f.closure.GetAt(0, "self")
				return self, nil
			}
			return rs.value, nil
		}
		// break/continue cannot escape a function body; the resolver
		// guarantees loopDepth is reset at every function boundary, so
		// reaching here would be a resolver bug.
		panic(fmt.Sprintf("runtime: control signal %T escaped function body", sig))
	}
	if err != nil {
		return nil, err
	}
	if f.isInitializer {
		self, _ := f.closure.GetAt(0, "self")
		return self, nil
	}
	return Nil{}, nil
}

// NativeFunction wraps a builtin implemented in Go.
type NativeFunction struct {
	name  string
	arity int
	fn    func(in *Interpreter, at token.Token, args []Value) (Value, error)
}

func (n *NativeFunction) Render() string   { return fmt.Sprintf("<native fn %s>", n.name) }
func (n *NativeFunction) typeName() string { return "function" }
func (n *NativeFunction) Arity() int       { return n.arity }

func (n *NativeFunction) Call(in *Interpreter, args []Value) (Value, error) {
	return n.fn(in, in.callSite, args)
}
