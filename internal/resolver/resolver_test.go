package resolver

import (
	"testing"

	"github.com/sdecook/lumen/internal/lexer"
	"github.com/sdecook/lumen/internal/parser"
)

func resolve(t *testing.T, src string) (Locals, int) {
	t.Helper()
	tokens, lexErrs := lexer.ScanString("test", src)
	if lexErrs.Len() != 0 {
		t.Fatalf("unexpected lexical errors: %v", lexErrs.Err())
	}
	program, parseErrs := parser.New(tokens).ParseProgram()
	if parseErrs.Len() != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, parseErrs.Err())
	}
	locals := make(Locals)
	errs := New(locals).Resolve(program)
	return locals, errs.Len()
}

func TestResolveLocalVariableDistance(t *testing.T) {
	locals, n := resolve(t, "{ var x = 1; { print(x); } }")
	if n != 0 {
		t.Fatalf("unexpected resolver errors: %d", n)
	}
	found := false
	for tok, d := range locals {
		if tok.Lexeme == "x" {
			found = true
			if d != 1 {
				t.Errorf("distance of x = %d, want 1", d)
			}
		}
	}
	if !found {
		t.Fatalf("x was not resolved as a local")
	}
}

func TestResolveSelfInInitializerIsAnError(t *testing.T) {
	_, n := resolve(t, "{ var x = x; }")
	if n == 0 {
		t.Fatalf("expected an error referencing a variable in its own initializer")
	}
}

func TestResolveBreakOutsideLoopIsAnError(t *testing.T) {
	_, n := resolve(t, "break;")
	if n == 0 {
		t.Fatalf("expected an error for 'break' outside a loop")
	}
}

func TestResolveContinueOutsideLoopIsAnError(t *testing.T) {
	_, n := resolve(t, "continue;")
	if n == 0 {
		t.Fatalf("expected an error for 'continue' outside a loop")
	}
}

func TestResolveBreakInsideLoopIsFine(t *testing.T) {
	_, n := resolve(t, "while true { break; }")
	if n != 0 {
		t.Fatalf("unexpected resolver errors: %d", n)
	}
}

func TestResolveBreakCannotEscapeFunctionBoundary(t *testing.T) {
	_, n := resolve(t, "while true { fn f() { break; } }")
	if n == 0 {
		t.Fatalf("expected 'break' inside a function nested in a loop to still be rejected")
	}
}

func TestResolveReturnOutsideFunctionIsAnError(t *testing.T) {
	_, n := resolve(t, "return 1;")
	if n == 0 {
		t.Fatalf("expected an error for 'return' at top level")
	}
}

func TestResolveReturnValueFromInitializerIsAnError(t *testing.T) {
	_, n := resolve(t, "class C { init() { return 1; } }")
	if n == 0 {
		t.Fatalf("expected an error for returning a value from an initializer")
	}
}

func TestResolveSelfOutsideClassIsAnError(t *testing.T) {
	_, n := resolve(t, "fn f() { return self; }")
	if n == 0 {
		t.Fatalf("expected an error for 'self' outside a class")
	}
}

func TestResolveSuperWithoutSuperclassIsAnError(t *testing.T) {
	_, n := resolve(t, "class C { m() { return super.m(); } }")
	if n == 0 {
		t.Fatalf("expected an error for 'super' in a class with no superclass")
	}
}

func TestResolveClassInheritingFromItselfIsAnError(t *testing.T) {
	_, n := resolve(t, "class C < C {}")
	if n == 0 {
		t.Fatalf("expected an error for a class inheriting from itself")
	}
}

func TestResolveDuplicateLocalIsAnError(t *testing.T) {
	_, n := resolve(t, "fn f() { var x = 1; var x = 2; }")
	if n == 0 {
		t.Fatalf("expected an error for redeclaring a local in the same scope")
	}
}
