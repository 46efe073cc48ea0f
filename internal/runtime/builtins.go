package runtime

import (
	"fmt"
	"math"
	"time"

	"github.com/sdecook/lumen/internal/token"
)

// installBuiltins defines the global builtin table into globals. Every
// builtin is installed immutable.
func installBuiltins(globals *Environment) {
	define := func(name string, arity int, fn func(in *Interpreter, at token.Token, args []Value) (Value, error)) {
		globals.Define(name, &NativeFunction{name: name, arity: arity, fn: fn}, false)
	}

	define("clock", 0, func(in *Interpreter, at token.Token, args []Value) (Value, error) {
		return Number(float64(time.Now().UnixNano()) / 1e9), nil
	})

	define("print", 1, func(in *Interpreter, at token.Token, args []Value) (Value, error) {
		fmt.Fprint(in.out, args[0].Render())
		return Nil{}, nil
	})

	define("println", 1, func(in *Interpreter, at token.Token, args []Value) (Value, error) {
		fmt.Fprintln(in.out, args[0].Render())
		return Nil{}, nil
	})

	define("mod", 2, func(in *Interpreter, at token.Token, args []Value) (Value, error) {
		a, aok := args[0].(Number)
		b, bok := args[1].(Number)
		if !aok || !bok {
			return nil, in.runtimeError(at.Pos, "mod expects two numbers.")
		}
		return Number(math.Mod(float64(a), float64(b))), nil
	})

	define("show", 1, func(in *Interpreter, at token.Token, args []Value) (Value, error) {
		return String(args[0].Render()), nil
	})

	// str is an alias of show, kept for readability in user code.
	define("str", 1, func(in *Interpreter, at token.Token, args []Value) (Value, error) {
		return String(args[0].Render()), nil
	})

	define("type_of", 1, func(in *Interpreter, at token.Token, args []Value) (Value, error) {
		return String(TypeOf(args[0])), nil
	})
}
