package token

import (
	"bgql/internal/source"
)

// Token is a single lexeme with its location and leading trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token can start a constant value.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, BlockString, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

func (t Token) IsPunct() bool {
	return t.Kind >= LBrace && t.Kind <= Question
}

func (t Token) IsKeyword() bool {
	return t.Kind >= KwType && t.Kind <= KwNull
}

func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsName reports whether the token may be used as a name. Keywords are
// contextual: a field may be called `type` or `input`.
func (t Token) IsName() bool {
	return t.Kind == Ident || t.IsKeyword()
}

// IsString reports whether the token is a string or block string literal.
func (t Token) IsString() bool {
	return t.Kind == StringLit || t.Kind == BlockString
}

// StartsLine reports whether a newline precedes the token (or it opens the file).
func (t Token) StartsLine() bool {
	if t.Span.Start == 0 {
		return true
	}
	for _, tr := range t.Leading {
		if tr.Kind == TriviaNewline {
			return true
		}
	}
	return false
}
