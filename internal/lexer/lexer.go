// Package lexer implements the token producer: a hand-rolled single-pass
// scanner over source bytes that batches lexical errors in a diag.Bag
// instead of exiting on the first one.
package lexer

import (
	"strconv"
	"strings"

	"github.com/sdecook/lumen/internal/diag"
	"github.com/sdecook/lumen/internal/token"
)

// Lexer scans a single source file into a token stream.
type Lexer struct {
	file     string
	src      []byte
	idx      int // index of the current byte, -1 before the first Next
	line     int
	lineHead int // byte index where the current line started, for columns
	errs     *diag.Bag
}

// New creates a Lexer over src, attributed to file for diagnostics.
func New(file string, src []byte) *Lexer {
	return &Lexer{
		file: file,
		src:  src,
		idx:  -1,
		line: 1,
		errs: diag.NewBag(diag.Syntax),
	}
}

// ScanTokens scans the whole source and returns the token list, always
// terminated by a single Eof token, plus any lexical diagnostics collected
// along the way.
func (l *Lexer) ScanTokens() ([]token.Token, *diag.Bag) {
	toks := make([]token.Token, 0, len(l.src)/4+1)
	for l.next() {
		if tok, ok := l.scanOne(); ok {
			toks = append(toks, tok)
		}
	}
	toks = append(toks, token.Token{Type: token.EOF, Pos: l.pos()})
	return toks, l.errs
}

func (l *Lexer) ch() byte { return l.src[l.idx] }

func (l *Lexer) next() bool {
	if l.idx == len(l.src)-1 {
		return false
	}
	l.idx++
	if l.src[l.idx] == '\n' {
		l.line++
		l.lineHead = l.idx + 1
	}
	return true
}

func (l *Lexer) peek() byte {
	if l.idx+1 >= len(l.src) {
		return 0
	}
	return l.src[l.idx+1]
}

func (l *Lexer) peekAt(ahead int) byte {
	if l.idx+ahead >= len(l.src) {
		return 0
	}
	return l.src[l.idx+ahead]
}

// pos reports the position of the byte the scanner is currently sitting on.
// For the trailing Eof token idx still points at the last byte of the
// source (or is -1 for empty input, where the column clamps to 1), so Eof
// carries that byte's position.
func (l *Lexer) pos() token.Position {
	col := l.idx - l.lineHead + 1
	if col < 1 {
		col = 1
	}
	return token.Position{File: l.file, Line: l.line, Column: col}
}

func (l *Lexer) scanOne() (token.Token, bool) {
	start := l.pos()
	c := l.ch()

	simple := func(t token.Type) (token.Token, bool) {
		return token.Token{Type: t, Lexeme: string(c), Pos: start}, true
	}

	switch c {
	case ' ', '\t', '\r', '\n':
		return token.Token{}, false
	case '(':
		return simple(token.LeftParen)
	case ')':
		return simple(token.RightParen)
	case '{':
		return simple(token.LeftBrace)
	case '}':
		return simple(token.RightBrace)
	case ',':
		return simple(token.Comma)
	case '.':
		return simple(token.Dot)
	case '-':
		return simple(token.Minus)
	case '+':
		return simple(token.Plus)
	case ';':
		return simple(token.Semicolon)
	case '*':
		return simple(token.Star)
	case '/':
		if l.peek() == '/' {
			for l.peek() != '\n' && l.peek() != 0 {
				l.next()
			}
			return token.Token{}, false
		}
		return simple(token.Slash)
	case '=':
		if l.peek() == '=' {
			l.next()
			return token.Token{Type: token.EqualEqual, Lexeme: "==", Pos: start}, true
		}
		return simple(token.Equal)
	case '!':
		if l.peek() == '=' {
			l.next()
			return token.Token{Type: token.BangEqual, Lexeme: "!=", Pos: start}, true
		}
		return simple(token.Bang)
	case '<':
		if l.peek() == '=' {
			l.next()
			return token.Token{Type: token.LessEqual, Lexeme: "<=", Pos: start}, true
		}
		return simple(token.Less)
	case '>':
		if l.peek() == '=' {
			l.next()
			return token.Token{Type: token.GreaterEqual, Lexeme: ">=", Pos: start}, true
		}
		return simple(token.Greater)
	case '"':
		return l.scanString(start)
	default:
		switch {
		case isDigit(c):
			return l.scanNumber(start)
		case isAlpha(c):
			return l.scanIdentifier(start)
		default:
			l.errs.Add(start, "unexpected character '%s'", string(c))
			return token.Token{}, false
		}
	}
}

func (l *Lexer) scanString(start token.Position) (token.Token, bool) {
	var sb strings.Builder
	for {
		if !l.next() {
			l.errs.Add(start, "unterminated string")
			return token.Token{}, false
		}
		if l.ch() == '"' {
			break
		}
		sb.WriteByte(l.ch())
	}
	return token.Token{Type: token.String, Lexeme: sb.String(), Literal: sb.String(), Pos: start}, true
}

func (l *Lexer) scanNumber(start token.Position) (token.Token, bool) {
	startIdx := l.idx
	for isDigit(l.peek()) {
		l.next()
	}
	if l.peek() == '.' && isDigit(l.peekAt(2)) {
		l.next()
		for isDigit(l.peek()) {
			l.next()
		}
	}
	lexeme := string(l.src[startIdx : l.idx+1])
	n, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		l.errs.Add(start, "invalid number literal %q", lexeme)
		return token.Token{}, false
	}
	return token.Token{Type: token.Number, Lexeme: lexeme, Number: n, Pos: start}, true
}

func (l *Lexer) scanIdentifier(start token.Position) (token.Token, bool) {
	startIdx := l.idx
	for isAlphaNumeric(l.peek()) {
		l.next()
	}
	ident := string(l.src[startIdx : l.idx+1])
	if kw, ok := token.Keywords[ident]; ok {
		return token.Token{Type: kw, Lexeme: ident, Pos: start}, true
	}
	return token.Token{Type: token.Identifier, Lexeme: ident, Pos: start}, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }

// ScanString is a convenience wrapper for running the lexer over an
// in-memory string (the REPL and `run -e` take this path).
func ScanString(file, src string) ([]token.Token, *diag.Bag) {
	return New(file, []byte(src)).ScanTokens()
}
