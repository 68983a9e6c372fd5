package parser

import (
	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/source"
	"bgql/internal/token"
)

// mod name ';' | mod name '{' item* '}'
func (p *Parser) parseModItem(head itemHead) (ast.ItemID, bool) {
	p.advance()
	name, nameSpan, ok := p.parseName("module name")
	if !ok {
		return ast.NoItemID, false
	}
	id := p.newItem(head, ast.ItemMod, name, nameSpan)

	switch {
	case p.eat(token.Semicolon):
		p.setModExternal(id)
		return p.finish(id, true)
	case p.at(token.LBrace):
	case p.at(token.EOF) || p.lx.Peek().StartsLine():
		// `;` в конце строки можно опустить
		p.setModExternal(id)
		return p.finish(id, true)
	default:
		p.err(diag.SynUnexpectedToken, "expected `;` or `{` after module name, found "+describe(p.lx.Peek()))
		return p.finish(id, false)
	}

	open := p.advance()
	if !p.enter() {
		return p.finish(id, false)
	}
	items := p.parseItemList(true)
	p.leave()
	// элементы арены могли переехать: берём payload заново
	if mod, _ := p.arenas.Items.Mod(id); mod != nil {
		mod.Items = items
	}
	if !p.at(token.RBrace) {
		p.errUnclosed(diag.SynUnclosedBrace, "}", open.Span)
		return p.finish(id, false)
	}
	p.advance()
	return p.finish(id, true)
}

func (p *Parser) setModExternal(id ast.ItemID) {
	if mod, _ := p.arenas.Items.Mod(id); mod != nil {
		mod.External = true
	}
}

// use path ('::' ('*' | '{' names '}'))? ('as' name)? ';'?
func (p *Parser) parseUseItem(head itemHead) (ast.ItemID, bool) {
	kw := p.advance()
	id := p.newItem(head, ast.ItemUse, source.NoStringID, kw.Span)
	use, _ := p.arenas.Items.Use(id)

	if !p.lx.Peek().IsName() {
		p.err(diag.SynExpectModulePath, "expected module path after `use`, found "+describe(p.lx.Peek()))
		return p.finish(id, false)
	}
	var segs []ast.PathSeg
	tail := false // путь кончился на '::*' или '::{...}'
	for !tail {
		tok := p.lx.Peek()
		if !tok.IsName() {
			p.err(diag.SynExpectModulePath, "expected name after `::`, found "+describe(tok))
			return p.finish(id, false)
		}
		p.advance()
		segs = append(segs, ast.PathSeg{Name: p.intern(tok.Text), Span: tok.Span})
		if !p.eat(token.ColonColon) {
			break
		}
		switch {
		case p.eat(token.Star):
			use.Glob, tail = true, true
		case p.at(token.LBrace):
			names, ok := p.parseUseGroup()
			use.Names = names
			if !ok {
				use.Path = segs
				return p.finish(id, false)
			}
			tail = true
		}
	}

	use.Path = segs
	if !tail {
		// последний сегмент и есть импортируемое имя
		last := segs[len(segs)-1]
		use.Path = segs[:len(segs)-1]
		un := ast.UseName{Name: last.Name, Span: last.Span}
		if p.eat(token.KwAs) {
			alias, aliasSpan, ok := p.parseName("alias")
			if !ok {
				return p.finish(id, false)
			}
			un.Alias, un.AliasSpan = alias, aliasSpan
		}
		use.Names = []ast.UseName{un}
	}
	p.eat(token.Semicolon)
	item := p.arenas.Items.Get(id)
	item.NameSpan = kw.Span.Cover(p.lastSpan)
	return p.finish(id, true)
}

func (p *Parser) parseUseGroup() ([]ast.UseName, bool) {
	open := p.advance()
	var names []ast.UseName
	for {
		p.eatCommas()
		if p.at(token.RBrace) {
			closeTok := p.advance()
			if len(names) == 0 {
				p.report(diag.SynEmptyImportGroup, open.Span.Cover(closeTok.Span), "empty import group", nil)
				return nil, false
			}
			return names, true
		}
		if p.at(token.EOF) || p.atDeclStart(true) {
			p.errUnclosed(diag.SynUnclosedBrace, "}", open.Span)
			return names, false
		}
		name, nameSpan, ok := p.parseName("imported name")
		if !ok {
			return names, false
		}
		un := ast.UseName{Name: name, Span: nameSpan}
		if p.eat(token.KwAs) {
			if un.Alias, un.AliasSpan, ok = p.parseName("alias"); !ok {
				return names, false
			}
		}
		names = append(names, un)
	}
}
