package lexer

import (
	"bgql/internal/diag"
	"bgql/internal/token"
)

// scanNumber follows the GraphQL grammar:
//
//	-? (0 | [1-9][0-9]*) ( . [0-9]+ )? ( [eE] [+-]? [0-9]+ )?
//
// A number glued to a name start or a dot is malformed ("1a", "1.").
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit
	lx.cursor.Eat('-')

	if lx.cursor.Peek() == '0' {
		lx.cursor.Bump()
		if isDec(lx.cursor.Peek()) {
			return lx.badNumber(start, "leading zeros are not allowed")
		}
	} else {
		lx.digits()
	}

	if lx.cursor.Peek() == '.' && lx.cursor.PeekAt(1) != '.' {
		lx.cursor.Bump()
		if !isDec(lx.cursor.Peek()) {
			return lx.badNumber(start, "expected digit after '.'")
		}
		lx.digits()
		kind = token.FloatLit
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			return lx.badNumber(start, "expected digit in exponent")
		}
		lx.digits()
		kind = token.FloatLit
	}

	if b := lx.cursor.Peek(); isNameStart(b) || (b == '.' && isDec(lx.cursor.PeekAt(1))) {
		return lx.badNumber(start, "invalid character after number")
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) digits() {
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

// badNumber swallows the rest of the lexeme so the parser sees one Invalid token.
func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	for b := lx.cursor.Peek(); isNameContinue(b) || b == '.'; b = lx.cursor.Peek() {
		if b == '.' && lx.cursor.PeekAt(1) == '.' {
			break
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, "malformed number "+lx.text(sp)+": "+msg)
	return lx.invalid(sp)
}
