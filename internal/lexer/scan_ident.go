package lexer

import (
	"fmt"

	"bgql/internal/diag"
	"bgql/internal/token"
)

// scanIdentOrKeyword scans /[_A-Za-z][_0-9A-Za-z]*/ and classifies keywords.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isNameContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	if sp.Len() > maxTokenLength {
		lx.errLex(diag.LexTokenTooLong, sp, fmt.Sprintf("identifier longer than %d bytes", maxTokenLength))
		lx.cursor.SkipToEnd()
		return lx.invalid(sp)
	}
	text := lx.text(sp)
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
