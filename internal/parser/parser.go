package parser

import (
	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/lexer"
	"bgql/internal/source"
	"bgql/internal/token"
)

// DefaultMaxDepth bounds nesting of types, values, selection sets and mod blocks.
const DefaultMaxDepth = 128

type Options struct {
	Reporter diag.Reporter
	MaxDepth int // 0 means DefaultMaxDepth
}

type Result struct {
	File ast.FileID
	// Errors counts syntax errors reported by the parser itself.
	Errors int
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	opts     Options
	lastSpan source.Span // span последнего съеденного токена
	depth    int
	tooDeep  bool
	declErr  bool // в текущей декларации уже была ошибка
	errors   int
}

// ParseFile parses one document into arenas. It always returns a file, even
// for input that is garbage from the first byte.
func ParseFile(lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	start := lx.Peek().Span
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		opts:     opts,
		lastSpan: source.Span{File: start.File, Start: start.Start, End: start.Start},
	}
	p.file = arenas.NewFile(start)

	for _, id := range p.parseItemList(false) {
		arenas.PushItem(p.file, id)
	}
	f := arenas.Files.Get(p.file)
	f.Span = start.Cover(p.lx.Peek().Span)
	return Result{File: p.file, Errors: p.errors}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// parseItemList: цикл по декларациям до EOF (или до '}' внутри mod-блока).
func (p *Parser) parseItemList(inBlock bool) []ast.ItemID {
	var items []ast.ItemID
	for !p.at(token.EOF) {
		if inBlock && p.at(token.RBrace) {
			break
		}
		p.declErr = false
		before := p.lx.Peek().Span.Start
		id, ok := p.parseItem()
		if id.IsValid() {
			items = append(items, id)
		}
		if ok {
			continue
		}
		p.resync(inBlock)
		if p.lx.Peek().Span.Start == before && !p.at(token.EOF) && !(inBlock && p.at(token.RBrace)) {
			// ничего не съели: гарантируем прогресс
			p.advance()
		}
	}
	return items
}

// resync skips tokens until something that can start a declaration. Inside a
// mod block the block's closing brace also stops it.
func (p *Parser) resync(inBlock bool) {
	depth := 0
	for {
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.EOF:
			return
		case p.atDeclStart(false):
			return
		case tok.Kind == token.LBrace:
			depth++
		case tok.Kind == token.RBrace:
			if depth == 0 && inBlock {
				return
			}
			if depth > 0 {
				depth--
			}
		}
		p.advance()
	}
}

// skipBody drops the rest of a broken block up to and including its closing
// brace. It gives up at EOF or at the start of the next declaration.
func (p *Parser) skipBody() {
	depth := 0
	for {
		switch p.lx.Peek().Kind {
		case token.EOF:
			return
		case token.LBrace:
			depth++
		case token.RBrace:
			p.advance()
			if depth == 0 {
				return
			}
			depth--
			continue
		}
		if p.atDeclStart(true) {
			return
		}
		p.advance()
	}
}

// atDeclStart reports whether the next tokens open a declaration. Keywords
// are contextual, so the token after the keyword decides: `type: String` is a
// field, `type User` is a declaration. In strict mode (inside bodies) the
// keyword must also open a line and be followed by a name on the same line.
func (p *Parser) atDeclStart(strict bool) bool {
	tok := p.lx.Peek()
	if !token.IsDeclKeyword(tok.Kind) {
		return false
	}
	if strict && !tok.StartsLine() {
		return false
	}
	next := p.lx.PeekN(1)
	if strict && next.StartsLine() {
		return false
	}
	switch tok.Kind {
	case token.KwPub:
		if next.Kind == token.LParen {
			switch p.lx.PeekN(2).Kind {
			case token.KwCrate, token.KwSuper, token.KwSelf:
				return true
			}
			return false
		}
		return token.IsDeclKeyword(next.Kind)
	case token.KwSchema:
		return next.Kind == token.LBrace || next.Kind == token.At
	case token.KwDirective:
		return next.Kind == token.At
	default:
		return next.IsName()
	}
}

func (p *Parser) enter() bool {
	if p.tooDeep {
		return false
	}
	p.depth++
	if p.depth > p.opts.MaxDepth {
		p.depth--
		p.tooDeep = true
		p.emit(diag.SynNestingTooDeep, p.lx.Peek().Span, "nesting is too deep; the rest of the document is ignored", nil)
		for !p.at(token.EOF) {
			p.advance()
		}
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}
