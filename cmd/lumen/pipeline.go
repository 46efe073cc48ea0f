package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sdecook/lumen/internal/diag"
	"github.com/sdecook/lumen/internal/lexer"
	"github.com/sdecook/lumen/internal/parser"
	"github.com/sdecook/lumen/internal/resolver"
	"github.com/sdecook/lumen/internal/runtime"
	"github.com/sdecook/lumen/internal/token"
)

// verbosity is additive: 1 dumps the parsed AST, 2 additionally dumps the
// resolver's distance table, 3 additionally dumps the token stream.
var verbosity int

// run lexes, parses, resolves and evaluates src, printing diagnostics to
// stderr and any requested --verbosity dumps to dump. It returns a summary
// error if lexing, parsing or resolution reported diagnostics (the evaluator
// is then not run), otherwise the first Runtime error, or nil.
func run(file, src string, out, dump io.Writer) error {
	tokens, lexErrs := lexer.ScanString(file, src)
	if verbosity >= 3 {
		fmt.Fprintln(dump, "-- tokens --")
		for _, t := range tokens {
			fmt.Fprintln(dump, t.String())
		}
	}

	p := parser.New(tokens)
	program, parseErrs := p.ParseProgram()

	if verbosity >= 1 {
		fmt.Fprintln(dump, "-- ast --")
		for _, s := range program {
			fmt.Fprintln(dump, s.String())
		}
	}

	if lexErrs.Len() > 0 || parseErrs.Len() > 0 {
		printDiagnostics(diag.SortedUnique(lexErrs, parseErrs))
		return fmt.Errorf("%d syntax error(s)", lexErrs.Len()+parseErrs.Len())
	}

	locals := make(resolver.Locals)
	res := resolver.New(locals)
	resErrs := res.Resolve(program)

	if verbosity >= 2 {
		fmt.Fprintln(dump, "-- locals --")
		for tok, dist := range locals {
			fmt.Fprintf(dump, "%s @ %s -> %d\n", tok.Lexeme, tok.Pos, dist)
		}
	}

	if resErrs.Len() > 0 {
		printDiagnostics(resErrs.Diagnostics())
		return fmt.Errorf("%d validation error(s)", resErrs.Len())
	}

	in := runtime.New(locals, out)
	if err := in.Run(program); err != nil {
		printDiagnostics([]*diag.Diagnostic{asDiagnostic(err)})
		return err
	}
	return nil
}

// asDiagnostic recovers the *diag.Diagnostic from an Interpreter.Run error.
// Run always returns either nil or a *diag.Diagnostic (runtime errors are
// built via diag.New; control-flow signals never escape Run), so the
// fallback branch only guards against a future runtime.Interpreter change
// that forgets this contract.
func asDiagnostic(err error) *diag.Diagnostic {
	if d, ok := err.(*diag.Diagnostic); ok {
		return d
	}
	return diag.New(diag.Runtime, token.Position{}, "%s", err)
}

func printDiagnostics(ds []*diag.Diagnostic) {
	for _, d := range ds {
		fmt.Fprintln(os.Stderr, diag.Format(d, colorEnabled()))
	}
}
