package parser

import (
	"testing"

	"github.com/sdecook/lumen/internal/ast"
	"github.com/sdecook/lumen/internal/lexer"
)

func parse(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	tokens, lexErrs := lexer.ScanString("test", src)
	if lexErrs.Len() != 0 {
		t.Fatalf("unexpected lexical errors: %v", lexErrs.Err())
	}
	stmts, errs := New(tokens).ParseProgram()
	if errs.Len() != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs.Err())
	}
	return stmts
}

func TestParseVarDecl(t *testing.T) {
	stmts := parse(t, "var mut x = 1;")
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	v, ok := stmts[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("got %T, want *ast.VarDecl", stmts[0])
	}
	if !v.Mutable {
		t.Errorf("expected Mutable=true")
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	stmts := parse(t, "for (var i = 0; i < 3; i = i + 1) { print(i); }")
	block, ok := stmts[0].(*ast.Block)
	if !ok || len(block.Stmts) != 2 {
		t.Fatalf("got %#v, want a 2-statement block (init + while)", stmts[0])
	}
	if _, ok := block.Stmts[0].(*ast.VarDecl); !ok {
		t.Errorf("first desugared statement = %T, want *ast.VarDecl", block.Stmts[0])
	}
	while, ok := block.Stmts[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("second desugared statement = %T, want *ast.WhileStmt", block.Stmts[1])
	}
	whileBody, ok := while.Body.(*ast.Block)
	if !ok || len(whileBody.Stmts) != 2 {
		t.Fatalf("while body = %#v, want a 2-statement block (body + increment)", while.Body)
	}
}

func TestParseForRequiresBlockBody(t *testing.T) {
	tokens, _ := lexer.ScanString("test", "for (;;) print(1);")
	_, errs := New(tokens).ParseProgram()
	if errs.Len() == 0 {
		t.Fatalf("expected a syntax error requiring a block body for 'for'")
	}
}

func TestParseIfAllowsBareStatement(t *testing.T) {
	stmts := parse(t, "if true print(1);")
	ifs, ok := stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.IfStmt", stmts[0])
	}
	if _, ok := ifs.Then.(*ast.ExpressionStmt); !ok {
		t.Errorf("if-body = %T, want *ast.ExpressionStmt", ifs.Then)
	}
}

func TestParseClassWithSuperclass(t *testing.T) {
	stmts := parse(t, "class Dog < Animal { speak() { return 1; } }")
	c, ok := stmts[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("got %T, want *ast.ClassDecl", stmts[0])
	}
	if c.Superclass == nil || c.Superclass.Name.Lexeme != "Animal" {
		t.Errorf("got superclass %v, want Animal", c.Superclass)
	}
	if len(c.Methods) != 1 || c.Methods[0].Name.Lexeme != "speak" {
		t.Errorf("got methods %v, want [speak]", c.Methods)
	}
}

func TestParseAssignmentTargets(t *testing.T) {
	stmts := parse(t, "x = 1; obj.field = 2;")
	if _, ok := stmts[0].(*ast.ExpressionStmt).Expr.(*ast.Assign); !ok {
		t.Errorf("got %T, want *ast.Assign", stmts[0].(*ast.ExpressionStmt).Expr)
	}
	if _, ok := stmts[1].(*ast.ExpressionStmt).Expr.(*ast.Set); !ok {
		t.Errorf("got %T, want *ast.Set", stmts[1].(*ast.ExpressionStmt).Expr)
	}
}

func TestParseInvalidAssignmentTargetIsAnError(t *testing.T) {
	tokens, _ := lexer.ScanString("test", "1 = 2;")
	_, errs := New(tokens).ParseProgram()
	if errs.Len() == 0 {
		t.Fatalf("expected a syntax error for an invalid assignment target")
	}
}

func TestParseSynchronizeRecoversMultipleErrors(t *testing.T) {
	tokens, _ := lexer.ScanString("test", "var ; var ; var x = 1;")
	stmts, errs := New(tokens).ParseProgram()
	if errs.Len() != 2 {
		t.Fatalf("got %d errors, want 2 (one per malformed var decl): %v", errs.Len(), errs.Err())
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1 (the well-formed trailing decl)", len(stmts))
	}
}

func TestParseBreakContinue(t *testing.T) {
	stmts := parse(t, "while true { break; continue; }")
	while := stmts[0].(*ast.WhileStmt)
	body := while.Body.(*ast.Block)
	if _, ok := body.Stmts[0].(*ast.BreakStmt); !ok {
		t.Errorf("got %T, want *ast.BreakStmt", body.Stmts[0])
	}
	if _, ok := body.Stmts[1].(*ast.ContinueStmt); !ok {
		t.Errorf("got %T, want *ast.ContinueStmt", body.Stmts[1])
	}
}
