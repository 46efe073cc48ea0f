package lexer

import (
	"testing"

	"github.com/sdecook/lumen/internal/token"
)

func scan(t *testing.T, src string) []token.Token {
	t.Helper()
	tokens, errs := ScanString("test", src)
	if errs.Len() != 0 {
		t.Fatalf("unexpected lexical errors scanning %q: %v", src, errs.Err())
	}
	return tokens
}

func TestScanPunctuatorsAndOperators(t *testing.T) {
	tokens := scan(t, "(){},.-+;*/! != = == > >= < <=")
	want := []token.Type{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
		token.Star, token.Slash, token.Bang, token.BangEqual, token.Equal,
		token.EqualEqual, token.Greater, token.GreaterEqual, token.Less,
		token.LessEqual, token.EOF,
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i, tt := range want {
		if tokens[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, tokens[i].Type, tt)
		}
	}
}

func TestScanNumberAndString(t *testing.T) {
	tokens := scan(t, `123.5 "hello"`)
	if tokens[0].Type != token.Number || tokens[0].Number != 123.5 {
		t.Errorf("got %+v, want Number 123.5", tokens[0])
	}
	if tokens[1].Type != token.String || tokens[1].Literal != "hello" {
		t.Errorf("got %+v, want String hello", tokens[1])
	}
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	tokens := scan(t, "fn foo mut self")
	want := []token.Type{token.Fn, token.Identifier, token.Mut, token.Self, token.EOF}
	for i, tt := range want {
		if tokens[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, tokens[i].Type, tt)
		}
	}
	if tokens[1].Lexeme != "foo" {
		t.Errorf("identifier lexeme = %q, want foo", tokens[1].Lexeme)
	}
}

func TestScanSkipsComments(t *testing.T) {
	tokens := scan(t, "1 // a comment\n2")
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3: %v", len(tokens), tokens)
	}
	if tokens[0].Number != 1 || tokens[1].Number != 2 {
		t.Errorf("comment was not skipped correctly: %v", tokens)
	}
}

func TestScanUnterminatedStringIsAnError(t *testing.T) {
	_, errs := ScanString("test", `"unterminated`)
	if errs.Len() == 0 {
		t.Fatalf("expected a lexical error for an unterminated string")
	}
}

func TestScanTracksLineAndColumn(t *testing.T) {
	tokens, errs := ScanString("test", "a\n  b")
	if errs.Len() != 0 {
		t.Fatalf("unexpected errors: %v", errs.Err())
	}
	if tokens[0].Pos.Line != 1 || tokens[0].Pos.Column != 1 {
		t.Errorf("first token pos = %v, want 1:1", tokens[0].Pos)
	}
	if tokens[1].Pos.Line != 2 || tokens[1].Pos.Column != 3 {
		t.Errorf("second token pos = %v, want 2:3", tokens[1].Pos)
	}
}
