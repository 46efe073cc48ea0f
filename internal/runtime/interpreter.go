package runtime

import (
	"fmt"
	"io"

	"github.com/sdecook/lumen/internal/ast"
	"github.com/sdecook/lumen/internal/diag"
	"github.com/sdecook/lumen/internal/resolver"
	"github.com/sdecook/lumen/internal/token"
)

// Interpreter walks a resolved program and executes it. A single Interpreter
// owns the environment chain and the resolver's distance table, and every
// evaluation method hangs off it.
type Interpreter struct {
	globals  *Environment
	env      *Environment
	locals   resolver.Locals
	out      io.Writer
	callSite token.Token // most recent Call expression's paren, for native fn diagnostics
}

// New creates an Interpreter that writes builtin output to out and resolves
// variable references using locals (produced by a prior resolver.Resolve
// call over the same program).
func New(locals resolver.Locals, out io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	in := &Interpreter{globals: globals, env: globals, locals: locals, out: out}
	installBuiltins(globals)
	return in
}

// Globals exposes the top-level environment, e.g. for a REPL to inspect
// bindings between statements.
func (in *Interpreter) Globals() *Environment { return in.globals }

// Run executes stmts in order and halts on the first runtime error (spec
// §7: the evaluator does not batch diagnostics the way the parser/resolver
// do).
func (in *Interpreter) Run(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := in.exec(s); err != nil {
			if sig, ok := asSignal(err); ok {
				// A bare return/break/continue at top level; the resolver
				// rejects this statically, so reaching it is a resolver bug.
				panic(fmt.Sprintf("runtime: control signal %T escaped top level", sig))
			}
			return err
		}
	}
	return nil
}

func (in *Interpreter) runtimeError(pos token.Position, format string, args ...any) error {
	return diag.New(diag.Runtime, pos, format, args...)
}

// ---- Statement execution ----

func (in *Interpreter) exec(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.Block:
		return in.execBlock(s.Stmts, NewEnvironment(in.env))

	case *ast.ClassDecl:
		return in.execClassDecl(s)

	case *ast.ExpressionStmt:
		_, err := in.eval(s.Expr)
		return err

	case *ast.FunctionDecl:
		fn := newFunction(s, in.env, false)
		in.env.Define(s.Name.Lexeme, fn, false)
		return nil

	case *ast.IfStmt:
		cond, err := in.eval(s.Condition)
		if err != nil {
			return err
		}
		if Truthy(cond) {
			return in.exec(s.Then)
		}
		if s.Else != nil {
			return in.exec(s.Else)
		}
		return nil

	case *ast.VarDecl:
		value := Value(Nil{})
		if s.Init != nil {
			v, err := in.eval(s.Init)
			if err != nil {
				return err
			}
			value = v
		}
		in.env.Define(s.Name.Lexeme, value, s.Mutable)
		return nil

	case *ast.WhileStmt:
		return in.execWhile(s)

	case *ast.ReturnStmt:
		value := Value(Nil{})
		if s.Value != nil {
			v, err := in.eval(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return returnSignal{value: value}

	case *ast.BreakStmt:
		return breakSignal{}

	case *ast.ContinueStmt:
		return continueSignal{}

	default:
		panic("runtime: unhandled statement type")
	}
}

// execBlock runs stmts in env, always restoring the interpreter's previous
// environment on the way out — on a normal return, an error, or a
// return/break/continue signal alike.
func (in *Interpreter) execBlock(stmts []ast.Stmt, env *Environment) error {
	prev := in.env
	in.env = env
	defer func() { in.env = prev }()

	for _, s := range stmts {
		if err := in.exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execWhile(s *ast.WhileStmt) error {
	for {
		cond, err := in.eval(s.Condition)
		if err != nil {
			return err
		}
		if !Truthy(cond) {
			return nil
		}
		if err := in.exec(s.Body); err != nil {
			if sig, ok := asSignal(err); ok {
				switch sig.(type) {
				case breakSignal:
					return nil
				case continueSignal:
					continue
				}
			}
			return err
		}
	}
}

func (in *Interpreter) execClassDecl(s *ast.ClassDecl) error {
	var superclass *Class
	if s.Superclass != nil {
		v, err := in.eval(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return in.runtimeError(s.Superclass.Name.Pos, "Superclass must be a class.")
		}
		superclass = sc
	}

	methodEnv := in.env
	if superclass != nil {
		methodEnv = NewEnvironment(in.env)
		methodEnv.Define("super", superclass, false)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = newFunction(m, methodEnv, m.Name.Lexeme == "init")
	}

	class := &Class{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}
	in.env.Define(s.Name.Lexeme, class, false)
	return nil
}

// ---- Expression evaluation ----

func (in *Interpreter) eval(e ast.Expr) (Value, error) {
	switch e := e.(type) {
	case *ast.Assign:
		return in.evalAssign(e)
	case *ast.Binary:
		return in.evalBinary(e)
	case *ast.Call:
		return in.evalCall(e)
	case *ast.Get:
		return in.evalGet(e)
	case *ast.Set:
		return in.evalSet(e)
	case *ast.Grouping:
		return in.eval(e.Inner)
	case *ast.Literal:
		return evalLiteral(e), nil
	case *ast.Logical:
		return in.evalLogical(e)
	case *ast.SelfExpr:
		return in.lookupVariable(e.Keyword)
	case *ast.SuperExpr:
		return in.evalSuper(e)
	case *ast.Unary:
		return in.evalUnary(e)
	case *ast.Variable:
		return in.lookupVariable(e.Name)
	default:
		panic("runtime: unhandled expression type")
	}
}

func evalLiteral(e *ast.Literal) Value {
	switch e.Kind {
	case ast.LitBool:
		return Bool(e.Bool)
	case ast.LitNumber:
		return Number(e.Number)
	case ast.LitString:
		return String(e.Str)
	default:
		return Nil{}
	}
}

func (in *Interpreter) lookupVariable(name token.Token) (Value, error) {
	if distance, ok := in.locals[name]; ok {
		v, ok := in.env.GetAt(distance, name.Lexeme)
		if !ok {
			panic(fmt.Sprintf("runtime: resolved local %q missing at distance %d", name.Lexeme, distance))
		}
		return v, nil
	}
	v, ok := in.globals.Get(name.Lexeme)
	if !ok {
		return nil, in.runtimeError(name.Pos, "Undefined variable '%s'.", name.Lexeme)
	}
	return v, nil
}

func (in *Interpreter) evalAssign(e *ast.Assign) (Value, error) {
	value, err := in.eval(e.Value)
	if err != nil {
		return nil, err
	}

	var found, mutable bool
	if distance, ok := in.locals[e.Name]; ok {
		found, mutable = in.env.AssignAt(distance, e.Name.Lexeme, value)
	} else {
		found, mutable = in.globals.Assign(e.Name.Lexeme, value)
	}
	if !found {
		return nil, in.runtimeError(e.Name.Pos, "Undefined variable '%s'.", e.Name.Lexeme)
	}
	if !mutable {
		return nil, in.runtimeError(e.Name.Pos, "Cannot assign to immutable variable '%s'.", e.Name.Lexeme)
	}
	return value, nil
}

func (in *Interpreter) evalLogical(e *ast.Logical) (Value, error) {
	left, err := in.eval(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op.Type == token.Or {
		if Truthy(left) {
			return left, nil
		}
	} else if !Truthy(left) {
		return left, nil
	}
	return in.eval(e.Right)
}

func (in *Interpreter) evalUnary(e *ast.Unary) (Value, error) {
	right, err := in.eval(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op.Type {
	case token.Minus:
		n, ok := right.(Number)
		if !ok {
			return nil, in.runtimeError(e.Op.Pos, "Operand must be a number.")
		}
		return -n, nil
	case token.Bang:
		return Bool(!Truthy(right)), nil
	default:
		panic("runtime: unhandled unary operator")
	}
}

func (in *Interpreter) evalBinary(e *ast.Binary) (Value, error) {
	left, err := in.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Type {
	case token.EqualEqual:
		return Bool(Equal(left, right)), nil
	case token.BangEqual:
		return Bool(!Equal(left, right)), nil
	case token.Plus:
		if ln, ok := left.(Number); ok {
			if rn, ok := right.(Number); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return ls + rs, nil
			}
		}
		return nil, in.runtimeError(e.Op.Pos, "Operands must be two numbers or two strings.")
	}

	// Every remaining binary operator is number-only.
	ln, lok := left.(Number)
	rn, rok := right.(Number)
	if !lok || !rok {
		return nil, in.runtimeError(e.Op.Pos, "Operands must be numbers.")
	}
	switch e.Op.Type {
	case token.Minus:
		return ln - rn, nil
	case token.Star:
		return ln * rn, nil
	case token.Slash:
		return ln / rn, nil
	case token.Greater:
		return Bool(ln > rn), nil
	case token.GreaterEqual:
		return Bool(ln >= rn), nil
	case token.Less:
		return Bool(ln < rn), nil
	case token.LessEqual:
		return Bool(ln <= rn), nil
	default:
		panic("runtime: unhandled binary operator")
	}
}

func (in *Interpreter) evalCall(e *ast.Call) (Value, error) {
	callee, err := in.eval(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, in.runtimeError(e.Paren.Pos, "Can only call functions and classes.")
	}
	if len(args) != callable.Arity() {
		return nil, in.runtimeError(e.Paren.Pos, "Expected %d arguments but got %d.", callable.Arity(), len(args))
	}

	prevSite := in.callSite
	in.callSite = e.Paren
	defer func() { in.callSite = prevSite }()

	return callable.Call(in, args)
}

func (in *Interpreter) evalGet(e *ast.Get) (Value, error) {
	obj, err := in.eval(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, in.runtimeError(e.Name.Pos, "Only instances have properties.")
	}
	v, ok := instance.Get(e.Name.Lexeme)
	if !ok {
		return nil, in.runtimeError(e.Name.Pos, "Undefined property '%s'.", e.Name.Lexeme)
	}
	return v, nil
}

func (in *Interpreter) evalSet(e *ast.Set) (Value, error) {
	obj, err := in.eval(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, in.runtimeError(e.Name.Pos, "Only instances have fields.")
	}
	value, err := in.eval(e.Value)
	if err != nil {
		return nil, err
	}
	instance.Set(e.Name.Lexeme, value)
	return value, nil
}

func (in *Interpreter) evalSuper(e *ast.SuperExpr) (Value, error) {
	distance, ok := in.locals[e.Keyword]
	if !ok {
		panic("runtime: 'super' unresolved by resolver")
	}
	superVal, ok := in.env.GetAt(distance, "super")
	if !ok {
		panic("runtime: 'super' missing from environment")
	}
	superclass := superVal.(*Class)

	selfVal, ok := in.env.GetAt(distance-1, "self")
	if !ok {
		panic("runtime: 'self' missing from environment")
	}
	self := selfVal.(*Instance)

	method, ok := superclass.FindMethod(e.Method.Lexeme)
	if !ok {
		return nil, in.runtimeError(e.Method.Pos, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return method.bind(self), nil
}
