package lexer

import (
	"fmt"

	"bgql/internal/diag"
	"bgql/internal/token"
)

var singlePunct = [256]token.Kind{
	'{': token.LBrace,
	'}': token.RBrace,
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBracket,
	']': token.RBracket,
	'<': token.Lt,
	'>': token.Gt,
	':': token.Colon,
	'=': token.Assign,
	'@': token.At,
	'&': token.Amp,
	'|': token.Pipe,
	',': token.Comma,
	'!': token.Bang,
	';': token.Semicolon,
	'.': token.Dot,
	'*': token.Star,
	'?': token.Question,
}

// scanPunct is greedy: "..." and "::" win over their one-byte prefixes.
func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
	}
	switch {
	case lx.cursor.EatSeq("..."):
		return emit(token.Ellipsis)
	case lx.cursor.EatSeq("::"):
		return emit(token.ColonColon)
	}
	ch := lx.cursor.Bump()
	if k := singlePunct[ch]; k != token.Invalid {
		return emit(k)
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unexpected character %q", ch))
	return lx.invalid(sp)
}
