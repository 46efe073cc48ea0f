// Package parser implements a recursive-descent, Pratt-style parser:
// match/check/consume/advance helpers, a grammar function per precedence
// level, for-loop desugaring into a while loop, panic-mode error recovery,
// and class/self/super/mut support.
package parser

import (
	"github.com/sdecook/lumen/internal/ast"
	"github.com/sdecook/lumen/internal/diag"
	"github.com/sdecook/lumen/internal/token"
)

const maxArity = 255

// Parser turns a token stream into a list of top-level statements.
type Parser struct {
	tokens []token.Token
	idx    int
	errs   *diag.Bag
}

// New creates a Parser over tokens, which must end with a single Eof token.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, errs: diag.NewBag(diag.Syntax)}
}

// ParseProgram parses the whole token stream. It returns the (possibly
// partial, on error) list of top-level statements and the accumulated
// diagnostics; callers must not proceed to execution while the bag is
// non-empty.
func (p *Parser) ParseProgram() ([]ast.Stmt, *diag.Bag) {
	var stmts []ast.Stmt
	for !p.atEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts, p.errs
}

// ---- declarations ----

func (p *Parser) declaration() ast.Stmt {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.match(token.Class):
		return p.classDecl()
	case p.match(token.Fn):
		return p.functionDecl("function")
	case p.match(token.Var):
		return p.varDecl()
	default:
		return p.statement()
	}
}

// parseError is a sentinel used with panic/recover to unwind to
// synchronize() from deep inside the grammar, giving panic-mode recovery
// without threading an error return through every grammar function.
type parseError struct{}

func (p *Parser) classDecl() ast.Stmt {
	name := p.consume(token.Identifier, "Expect a class name.")

	var super *ast.Variable
	if p.match(token.Less) {
		superName := p.consume(token.Identifier, "Expect superclass name.")
		super = &ast.Variable{Name: superName}
	}

	p.consume(token.LeftBrace, "Expect '{' before class body.")

	var methods []*ast.FunctionDecl
	for !p.check(token.RightBrace) && !p.atEnd() {
		methods = append(methods, p.method())
	}

	p.consume(token.RightBrace, "Expect '}' after class body.")

	return &ast.ClassDecl{Name: name, Superclass: super, Methods: methods}
}

func (p *Parser) method() *ast.FunctionDecl {
	return p.functionDecl("method").(*ast.FunctionDecl)
}

func (p *Parser) functionDecl(kind string) ast.Stmt {
	name := p.consume(token.Identifier, "Expect "+kind+" name.")
	p.consume(token.LeftParen, "Expect '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArity {
				p.error(p.current(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(token.Identifier, "Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "Expect ')' after parameters.")

	p.consume(token.LeftBrace, "Expect '{' before "+kind+" body.")
	body := p.block()

	return &ast.FunctionDecl{Name: name, Params: params, Body: body}
}

func (p *Parser) varDecl() ast.Stmt {
	mutable := p.match(token.Mut)
	name := p.consume(token.Identifier, "Expect variable name.")

	var init ast.Expr
	if p.match(token.Equal) {
		init = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after variable declaration.")

	return &ast.VarDecl{Name: name, Init: init, Mutable: mutable}
}

// ---- statements ----

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.For):
		return p.forStmt()
	case p.match(token.If):
		return p.ifStmt()
	case p.match(token.Return):
		return p.returnStmt()
	case p.match(token.While):
		return p.whileStmt()
	case p.match(token.Break):
		kw := p.previous()
		p.consume(token.Semicolon, "Expect ';' after 'break'.")
		return &ast.BreakStmt{Keyword: kw}
	case p.match(token.Continue):
		kw := p.previous()
		p.consume(token.Semicolon, "Expect ';' after 'continue'.")
		return &ast.ContinueStmt{Keyword: kw}
	case p.match(token.LeftBrace):
		return p.block()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) exprStmt() ast.Stmt {
	e := p.expression()
	p.consume(token.Semicolon, "Expect ';' after expression.")
	return &ast.ExpressionStmt{Expr: e}
}

func (p *Parser) returnStmt() ast.Stmt {
	kw := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after return value.")
	return &ast.ReturnStmt{Keyword: kw, Value: value}
}

func (p *Parser) ifStmt() ast.Stmt {
	condition := p.expression()
	then := p.requireBlockOrStatement()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		if p.match(token.If) {
			elseBranch = p.ifStmt()
		} else {
			elseBranch = p.requireBlockOrStatement()
		}
	}
	return &ast.IfStmt{Condition: condition, Then: then, Else: elseBranch}
}

func (p *Parser) whileStmt() ast.Stmt {
	condition := p.expression()
	body := p.requireBlockOrStatement()
	return &ast.WhileStmt{Condition: condition, Body: body}
}

// requireBlockOrStatement accepts either a brace-delimited block or any
// other statement as a control-flow body. forStmt is stricter and requires
// a brace-delimited block; a bare statement is a syntax error.
func (p *Parser) requireBlockOrStatement() ast.Stmt {
	if p.match(token.LeftBrace) {
		return p.block()
	}
	return p.statement()
}

func (p *Parser) forStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'for'.")

	var init ast.Stmt
	switch {
	case p.match(token.Semicolon):
		init = nil
	case p.match(token.Var):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment = p.expression()
	}
	p.consume(token.RightParen, "Expect ')' after for clauses.")

	p.consume(token.LeftBrace, "Expect '{' to begin for-loop body (a bare statement is not allowed).")
	body := p.block()

	return desugarFor(init, condition, increment, body)
}

// desugarFor expands the C-style for loop into its equivalent while loop:
//
//	for (init; cond; incr) body  =>  { init; while (cond) { body; incr; } }
func desugarFor(init ast.Stmt, condition ast.Expr, increment ast.Expr, body *ast.Block) ast.Stmt {
	var whileBody ast.Stmt = body
	if increment != nil {
		whileBody = &ast.Block{Stmts: []ast.Stmt{body, &ast.ExpressionStmt{Expr: increment}}}
	}

	if condition == nil {
		condition = &ast.Literal{Kind: ast.LitBool, Bool: true}
	}
	var result ast.Stmt = &ast.WhileStmt{Condition: condition, Body: whileBody}

	if init != nil {
		result = &ast.Block{Stmts: []ast.Stmt{init, result}}
	}
	return result
}

func (p *Parser) block() *ast.Block {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.consume(token.RightBrace, "Expect '}' after block.")
	return &ast.Block{Stmts: stmts}
}

// ---- expressions ----

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.error(equals, "Invalid assignment target.")
		}
	}

	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.Or) {
		op := p.previous()
		right := p.logicAnd()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.EqualEqual, token.BangEqual) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Less, token.LessEqual, token.Greater, token.GreaterEqual) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Plus, token.Minus) {
		op := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Star, token.Slash) {
		op := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Op: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.consume(token.Identifier, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArity {
				p.error(p.current(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.True):
		return &ast.Literal{Kind: ast.LitBool, Bool: true}
	case p.match(token.False):
		return &ast.Literal{Kind: ast.LitBool, Bool: false}
	case p.match(token.Nil):
		return &ast.Literal{Kind: ast.LitNil}
	case p.match(token.Number):
		return &ast.Literal{Kind: ast.LitNumber, Number: p.previous().Number}
	case p.match(token.String):
		return &ast.Literal{Kind: ast.LitString, Str: p.previous().Literal}
	case p.match(token.Self):
		return &ast.SelfExpr{Keyword: p.previous()}
	case p.match(token.Super):
		kw := p.previous()
		p.consume(token.Dot, "Expect '.' after 'super'.")
		method := p.consume(token.Identifier, "Expect superclass method name.")
		return &ast.SuperExpr{Keyword: kw, Method: method}
	case p.match(token.LeftParen):
		inner := p.expression()
		p.consume(token.RightParen, "Expect ')' after expression.")
		return &ast.Grouping{Inner: inner}
	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous()}
	default:
		p.error(p.current(), "Expect expression.")
		return nil // unreachable: error panics
	}
}

// ---- token-stream helpers ----

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t token.Type) bool {
	return !p.atEnd() && p.current().Type == t
}

func (p *Parser) advance() token.Token {
	tok := p.current()
	if !p.atEnd() {
		p.idx++
	}
	return tok
}

func (p *Parser) atEnd() bool { return p.current().Type == token.EOF }

func (p *Parser) current() token.Token { return p.tokens[p.idx] }

func (p *Parser) previous() token.Token {
	if p.idx == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.idx-1]
}

func (p *Parser) consume(t token.Type, msg string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.error(p.current(), msg)
	return token.Token{} // unreachable: error panics
}

// error records a diagnostic and unwinds to the nearest declaration() via
// panic/recover, entering panic mode.
func (p *Parser) error(tok token.Token, msg string) {
	p.errs.Add(tok.Pos, "Error at '%s': %s", errorLexeme(tok), msg)
	panic(parseError{})
}

func errorLexeme(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end"
	}
	return tok.Lexeme
}

// synchronize discards tokens until it reaches a probable statement
// boundary: just past a semicolon, or at a token that starts a new
// declaration.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.previous().Type == token.Semicolon {
			return
		}
		switch p.current().Type {
		case token.Class, token.Fn, token.Var, token.For, token.If, token.While, token.Return:
			return
		}
		p.advance()
	}
}
