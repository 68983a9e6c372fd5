package parser

import (
	"golang.org/x/text/unicode/norm"

	"bgql/internal/diag"
	"bgql/internal/lexer"
	"bgql/internal/source"
	"bgql/internal/token"
)

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// eatCommas skips optional separators in list contexts.
func (p *Parser) eatCommas() {
	for p.at(token.Comma) {
		p.advance()
	}
}

// diagSpan: span для диагностики: сам токен, а на EOF пустая позиция сразу
// после предыдущего токена.
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF {
		return p.lastSpan.At()
	}
	return peek.Span
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Invalid:
		return "invalid token"
	case token.StringLit, token.BlockString:
		return "string literal"
	}
	return "`" + tok.Text + "`"
}

// expect: ожидаем конкретный токен; what попадает в сообщение как есть.
func (p *Parser) expect(k token.Kind, code diag.Code, what string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, "expected "+what+", found "+describe(p.lx.Peek()))
	return token.Token{Kind: token.Invalid, Span: p.diagSpan()}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.diagSpan(), msg, nil)
}

// report emits a syntax error unless the current declaration already has one.
// An Invalid token was reported by the lexer, so it only marks the declaration.
func (p *Parser) report(code diag.Code, sp source.Span, msg string, notes []diag.Note) {
	if p.declErr || p.tooDeep {
		return
	}
	p.declErr = true
	if p.at(token.Invalid) {
		return
	}
	p.emit(code, sp, msg, notes)
}

func (p *Parser) emit(code diag.Code, sp source.Span, msg string, notes []diag.Note) {
	p.errors++
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, sp, msg, notes, nil)
	}
}

// errUnclosed reports a missing closing delimiter with a note at the opener.
func (p *Parser) errUnclosed(code diag.Code, closer string, open source.Span) {
	peek := p.lx.Peek()
	sp := p.diagSpan()
	msg := "expected `" + closer + "`, found " + describe(peek)
	if peek.Kind != token.EOF {
		sp = p.lastSpan.At()
		msg = "expected `" + closer + "` before " + describe(peek)
	}
	p.report(code, sp, msg, []diag.Note{{Span: open, Msg: "unclosed delimiter opened here"}})
}

func (p *Parser) intern(s string) source.StringID {
	return p.arenas.Strings.Intern(s)
}

// parseName accepts identifiers and keywords alike.
func (p *Parser) parseName(what string) (source.StringID, source.Span, bool) {
	tok := p.lx.Peek()
	if tok.IsName() {
		p.advance()
		return p.intern(tok.Text), tok.Span, true
	}
	p.err(diag.SynExpectIdentifier, "expected "+what+", found "+describe(tok))
	return source.NoStringID, p.diagSpan(), false
}

// parseDescription consumes an optional leading string. Text is NFC-normalized.
func (p *Parser) parseDescription() (string, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.StringLit:
		p.advance()
		return norm.NFC.String(lexer.StringValue(tok.Text)), true
	case token.BlockString:
		p.advance()
		return norm.NFC.String(lexer.BlockStringValue(tok.Text)), true
	}
	return "", false
}
