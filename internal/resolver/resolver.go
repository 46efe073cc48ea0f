// Package resolver implements the static pre-execution pass: it assigns
// every variable-referencing site a lexical-scope distance and diagnoses
// scope/class errors before the evaluator ever runs.
//
// Every violation is appended to a diag.Bag rather than halting resolution,
// so a single run reports every Validation error it finds.
package resolver

import (
	"github.com/sdecook/lumen/internal/ast"
	"github.com/sdecook/lumen/internal/diag"
	"github.com/sdecook/lumen/internal/token"
)

type functionType int

const (
	funcNone functionType = iota
	funcFunction
	funcInitializer
	funcMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Locals is the distance table the resolver writes and the evaluator reads:
// a mapping from identifier *occurrence* (keyed by token identity) to the
// number of enclosing-scope hops to its binding. Unresolved occurrences are
// treated by the evaluator as globals.
type Locals map[token.Token]int

type scope map[string]bool // name -> defined (false while only declared)

// Resolver walks a parsed program and populates a Locals table.
type Resolver struct {
	locals    Locals
	scopes    []scope
	funcType  functionType
	classType classType
	loopDepth int
	errs      *diag.Bag
}

// New creates a Resolver that will write into locals.
func New(locals Locals) *Resolver {
	return &Resolver{locals: locals, errs: diag.NewBag(diag.Validation)}
}

// Resolve resolves every statement in program and returns the accumulated
// diagnostics (empty if the program is valid).
func (r *Resolver) Resolve(stmts []ast.Stmt) *diag.Bag {
	r.resolveStmts(stmts)
	return r.errs
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	sc := r.scopes[len(r.scopes)-1]
	if _, ok := sc[name.Lexeme]; ok {
		r.errs.Add(name.Pos, "Already a variable named '%s' in this scope.", name.Lexeme)
	}
	sc[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal walks scopes innermost-out; on the first match it records
// the distance keyed by the token occurrence itself.
func (r *Resolver) resolveLocal(name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[name] = len(r.scopes) - 1 - i
			return
		}
	}
	// Unresolved: treated as global by the evaluator.
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()

	case *ast.ClassDecl:
		r.resolveClass(s)

	case *ast.ExpressionStmt:
		r.resolveExpr(s.Expr)

	case *ast.FunctionDecl:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, funcFunction)

	case *ast.IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.VarDecl:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)

	case *ast.WhileStmt:
		r.resolveExpr(s.Condition)
		r.loopDepth++
		r.resolveStmt(s.Body)
		r.loopDepth--

	case *ast.ReturnStmt:
		if r.funcType == funcNone {
			r.errs.Add(s.Keyword.Pos, "Cannot return from top-level code.")
		}
		if s.Value != nil {
			if r.funcType == funcInitializer {
				r.errs.Add(s.Keyword.Pos, "Cannot return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.BreakStmt:
		if r.loopDepth == 0 {
			r.errs.Add(s.Keyword.Pos, "Cannot use 'break' outside of a loop.")
		}

	case *ast.ContinueStmt:
		if r.loopDepth == 0 {
			r.errs.Add(s.Keyword.Pos, "Cannot use 'continue' outside of a loop.")
		}

	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(c *ast.ClassDecl) {
	enclosingClass := r.classType
	r.classType = classClass

	r.declare(c.Name)
	r.define(c.Name)

	if c.Superclass != nil {
		if c.Superclass.Name.Lexeme == c.Name.Lexeme {
			r.errs.Add(c.Superclass.Name.Pos, "A class can't inherit from itself.")
		}
		r.classType = classSubclass
		r.resolveExpr(c.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["self"] = true

	for _, m := range c.Methods {
		ft := funcMethod
		if m.Name.Lexeme == "init" {
			ft = funcInitializer
		}
		r.resolveFunction(m, ft)
	}

	r.endScope()

	if c.Superclass != nil {
		r.endScope()
	}

	r.classType = enclosingClass
}

func (r *Resolver) resolveFunction(fn *ast.FunctionDecl, ft functionType) {
	enclosingFunc := r.funcType
	enclosingLoop := r.loopDepth
	r.funcType = ft
	r.loopDepth = 0

	r.beginScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(fn.Body.Stmts)
	r.endScope()

	r.funcType = enclosingFunc
	r.loopDepth = enclosingLoop
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e.Name)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.Grouping:
		r.resolveExpr(e.Inner)

	case *ast.Literal:
		// nothing to resolve

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.SelfExpr:
		if r.classType == classNone {
			r.errs.Add(e.Keyword.Pos, "Cannot use 'self' outside of a class.")
			return
		}
		r.resolveLocal(e.Keyword)

	case *ast.SuperExpr:
		if r.classType == classNone {
			r.errs.Add(e.Keyword.Pos, "Cannot use 'super' outside of a class.")
		} else if r.classType != classSubclass {
			r.errs.Add(e.Keyword.Pos, "Cannot use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e.Keyword)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				r.errs.Add(e.Name.Pos, "Cannot read local variable '%s' in its own initializer.", e.Name.Lexeme)
			}
		}
		r.resolveLocal(e.Name)

	default:
		panic("resolver: unhandled expression type")
	}
}
