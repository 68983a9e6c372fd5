package lexer

import (
	"fmt"
	"unicode/utf8"

	"bgql/internal/diag"
	"bgql/internal/source"
	"bgql/internal/token"
)

// Lexer turns one file into tokens on demand. It holds no state beyond the file
// it was created for.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   []token.Token // lookahead buffer, at most two tokens
	hold   []token.Trivia
	count  int
}

func New(file *source.File, opts Options) *Lexer {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next significant token with its leading trivia.
// After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if len(lx.look) > 0 {
		tok := lx.look[0]
		lx.look = lx.look[1:]
		return tok
	}
	return lx.scan()
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	return lx.PeekN(0)
}

// PeekN looks n tokens past the next one (PeekN(0) == Peek()).
func (lx *Lexer) PeekN(n int) token.Token {
	for len(lx.look) <= n {
		lx.look = append(lx.look, lx.scan())
	}
	return lx.look[n]
}

func (lx *Lexer) scan() token.Token {
	lx.collectLeadingTrivia()
	if lx.cursor.EOF() {
		tok := token.Token{Kind: token.EOF, Span: lx.emptySpan(), Leading: lx.hold}
		lx.hold = nil
		return tok
	}

	lx.count++
	if lx.count > lx.opts.MaxTokens {
		sp := lx.emptySpan()
		lx.errLex(diag.LexTooManyTokens, sp, fmt.Sprintf("document exceeds the limit of %d tokens", lx.opts.MaxTokens))
		lx.cursor.SkipToEnd()
		lx.hold = nil
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case isNameStart(ch):
		tok = lx.scanIdentOrKeyword()
	case isDec(ch), ch == '-' && isDec(lx.cursor.PeekAt(1)):
		tok = lx.scanNumber()
	case ch == '"':
		if lx.cursor.PeekAt(1) == '"' && lx.cursor.PeekAt(2) == '"' {
			tok = lx.scanBlockString()
		} else {
			tok = lx.scanString()
		}
	case ch >= utf8.RuneSelf:
		tok = lx.scanNonASCII()
	default:
		tok = lx.scanPunct()
	}
	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Tokenize drains the lexer, EOF included.
func (lx *Lexer) Tokenize() []token.Token {
	out := make([]token.Token, 0, 64)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) invalid(sp source.Span) token.Token {
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// scanNonASCII handles bytes >= 0x80 outside strings: names are ASCII only.
func (lx *Lexer) scanNonASCII() token.Token {
	start := lx.cursor.Mark()
	r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
	if r == utf8.RuneError && size <= 1 {
		lx.cursor.Bump()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexInvalidUTF8, sp, fmt.Sprintf("invalid UTF-8 byte 0x%02X", lx.file.Content[sp.Start]))
		return lx.invalid(sp)
	}
	lx.cursor.Off += uint32(size) //nolint:gosec // size <= utf8.UTFMax
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unexpected character %q (U+%04X)", r, r))
	return lx.invalid(sp)
}
