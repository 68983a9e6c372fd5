package parser

import (
	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/source"
	"bgql/internal/token"
)

// parseSelectionSet parses `{ selection+ }` of a fragment.
func (p *Parser) parseSelectionSet() ([]ast.SelectionID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynExpectBody, "`{` to open selection set")
	if !ok {
		return nil, false
	}
	if !p.enter() {
		return nil, false
	}
	defer p.leave()

	var out []ast.SelectionID
	for {
		p.eatCommas()
		if p.at(token.RBrace) {
			p.advance()
			if len(out) == 0 {
				p.report(diag.SynExpectSelection, open.Span.Cover(p.lastSpan), "selection set cannot be empty", nil)
				return out, false
			}
			return out, true
		}
		if p.at(token.EOF) || p.atDeclStart(true) {
			p.errUnclosed(diag.SynUnclosedBrace, "}", open.Span)
			return out, false
		}
		sel, ok := p.parseSelection()
		if sel.IsValid() {
			out = append(out, sel)
		}
		if !ok {
			p.skipBody()
			return out, false
		}
	}
}

// parseSelection: field | ...Fragment | ... on T { }
func (p *Parser) parseSelection() (ast.SelectionID, bool) {
	start := p.lx.Peek().Span
	if p.at(token.Ellipsis) {
		p.advance()
		return p.parseFragmentSelection(start)
	}

	var sel ast.Selection
	name, nameSpan, ok := p.parseName("field name")
	if !ok {
		return ast.NoSelectionID, false
	}
	sel.Name, sel.NameSpan = name, nameSpan
	if p.eat(token.Colon) {
		sel.Alias = name
		if sel.Name, sel.NameSpan, ok = p.parseName("field name after alias"); !ok {
			return ast.NoSelectionID, false
		}
	}
	if p.at(token.LParen) {
		if sel.Args, ok = p.parseArguments(); !ok {
			return ast.NoSelectionID, false
		}
	}
	if sel.Directives, ok = p.parseDirectives(); !ok {
		return ast.NoSelectionID, false
	}
	if p.at(token.LBrace) {
		if sel.Selections, ok = p.parseSelectionSet(); !ok {
			return ast.NoSelectionID, false
		}
	}
	sel.Span = start.Cover(p.lastSpan)
	return p.arenas.Selections.New(sel), true
}

func (p *Parser) parseFragmentSelection(start source.Span) (ast.SelectionID, bool) {
	var ok bool
	tok := p.lx.Peek()
	if tok.Kind != token.KwOn && tok.IsName() {
		sel := ast.Selection{Kind: ast.SelSpread, Name: p.intern(tok.Text), NameSpan: tok.Span}
		p.advance()
		if sel.Directives, ok = p.parseDirectives(); !ok {
			return ast.NoSelectionID, false
		}
		sel.Span = start.Cover(p.lastSpan)
		return p.arenas.Selections.New(sel), true
	}

	sel := ast.Selection{Kind: ast.SelInline}
	if p.eat(token.KwOn) {
		if sel.TypeCond, ok = p.parseType(); !ok {
			return ast.NoSelectionID, false
		}
	}
	if sel.Directives, ok = p.parseDirectives(); !ok {
		return ast.NoSelectionID, false
	}
	if sel.Selections, ok = p.parseSelectionSet(); !ok {
		return ast.NoSelectionID, false
	}
	sel.Span = start.Cover(p.lastSpan)
	return p.arenas.Selections.New(sel), true
}
