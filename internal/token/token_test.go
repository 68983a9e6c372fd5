package token_test

import (
	"testing"

	"bgql/internal/source"
	"bgql/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 1, End: 1}}
}

func TestLookupKeyword(t *testing.T) {
	for _, s := range []string{"type", "interface", "newtype", "opaque", "mod", "use", "pub", "extends", "null"} {
		if _, ok := token.LookupKeyword(s); !ok {
			t.Errorf("%q must be a keyword", s)
		}
	}
	for _, s := range []string{"Type", "String", "query", "server", "ID"} {
		if _, ok := token.LookupKeyword(s); ok {
			t.Errorf("%q must not be a keyword", s)
		}
	}
}

func TestKeywordsAreNames(t *testing.T) {
	for _, k := range []token.Kind{token.KwType, token.KwInput, token.KwOn, token.KwNull, token.Ident} {
		if !tok(k).IsName() {
			t.Errorf("%v should be usable as a name", k)
		}
	}
	for _, k := range []token.Kind{token.LBrace, token.StringLit, token.EOF} {
		if tok(k).IsName() {
			t.Errorf("%v must not be a name", k)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := map[token.Kind]string{
		token.RBrace:     "'}'",
		token.KwType:     "'type'",
		token.Ident:      "identifier",
		token.EOF:        "end of file",
		token.ColonColon: "'::'",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestDeclKeywords(t *testing.T) {
	if !token.IsDeclKeyword(token.KwSchema) || !token.IsDeclKeyword(token.KwPub) {
		t.Fatal("schema and pub start declarations")
	}
	if token.IsDeclKeyword(token.KwImplements) || token.IsDeclKeyword(token.Ident) {
		t.Fatal("implements and identifiers do not start declarations")
	}
}

func TestStartsLine(t *testing.T) {
	nl := token.Token{Kind: token.KwType, Span: source.Span{Start: 5, End: 9},
		Leading: []token.Trivia{{Kind: token.TriviaNewline}}}
	if !nl.StartsLine() {
		t.Fatal("newline trivia starts a line")
	}
	sameLine := token.Token{Kind: token.KwType, Span: source.Span{Start: 5, End: 9}}
	if sameLine.StartsLine() {
		t.Fatal("no newline, no line start")
	}
}
