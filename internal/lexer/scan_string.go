package lexer

import (
	"fmt"
	"unicode/utf8"

	"bgql/internal/diag"
	"bgql/internal/token"
)

// scanString scans a single-line "..." literal. Escapes are validated here so
// that the parser can decode without reporting.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '"':
			lx.cursor.Bump()
			return lx.stringToken(token.StringLit, start)
		case b == '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
			return lx.invalid(sp)
		case b == '\\':
			lx.scanEscape()
		case b >= utf8.RuneSelf:
			lx.bumpUTF8()
		default:
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return lx.invalid(sp)
}

// scanBlockString scans a """...""" literal; only \""" is an escape inside.
func (lx *Lexer) scanBlockString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.EatSeq(`"""`)
	for !lx.cursor.EOF() {
		switch {
		case lx.cursor.EatSeq(`\"""`):
		case lx.cursor.EatSeq(`"""`):
			return lx.stringToken(token.BlockString, start)
		case lx.cursor.Peek() >= utf8.RuneSelf:
			lx.bumpUTF8()
		default:
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedBlockString, sp, `unterminated block string, expected closing """`)
	return lx.invalid(sp)
}

func (lx *Lexer) stringToken(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	if sp.Len() > maxTokenLength {
		lx.errLex(diag.LexTokenTooLong, sp, fmt.Sprintf("string literal longer than %d bytes", maxTokenLength))
		lx.cursor.SkipToEnd()
		return lx.invalid(sp)
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) scanEscape() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\'
	switch lx.cursor.Peek() {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		lx.cursor.Bump()
	case 'u':
		lx.cursor.Bump()
		for i := 0; i < 4; i++ {
			if !isHex(lx.cursor.Peek()) {
				sp := lx.cursor.SpanFrom(start)
				lx.errLex(diag.LexBadEscape, sp, "invalid unicode escape, expected \\uXXXX")
				return
			}
			lx.cursor.Bump()
		}
	default:
		if lx.cursor.Peek() != '\n' && !lx.cursor.EOF() {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadEscape, sp, fmt.Sprintf("invalid escape sequence %q", lx.text(sp)))
	}
}

// bumpUTF8 consumes one encoded rune, reporting malformed bytes.
func (lx *Lexer) bumpUTF8() {
	r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
	if r == utf8.RuneError && size <= 1 {
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexInvalidUTF8, sp, fmt.Sprintf("invalid UTF-8 byte 0x%02X in string", lx.file.Content[sp.Start]))
		return
	}
	lx.cursor.Off += uint32(size) //nolint:gosec // size <= utf8.UTFMax
}
