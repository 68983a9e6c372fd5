package parser

import (
	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/source"
	"bgql/internal/token"
)

// parseFieldsBlock parses `{ field* }`. withArgs allows argument lists
// (output types); input fields never take arguments.
func (p *Parser) parseFieldsBlock(withArgs bool) ([]ast.FieldID, source.Span, bool) {
	open, ok := p.expect(token.LBrace, diag.SynExpectBody, "`{`")
	if !ok {
		return nil, open.Span, false
	}
	var fields []ast.FieldID
	for {
		p.eatCommas()
		if p.at(token.RBrace) {
			closeTok := p.advance()
			return fields, open.Span.Cover(closeTok.Span), true
		}
		if p.at(token.EOF) || p.atDeclStart(true) {
			p.errUnclosed(diag.SynUnclosedBrace, "}", open.Span)
			return fields, open.Span.Cover(p.lastSpan), false
		}
		id, ok := p.parseFieldDef(withArgs, "field name")
		if id.IsValid() {
			fields = append(fields, id)
		}
		if !ok {
			p.skipBody()
			return fields, open.Span.Cover(p.lastSpan), false
		}
	}
}

// parseFieldDef: description? name args? ':' type ('=' value)? directives
func (p *Parser) parseFieldDef(withArgs bool, what string) (ast.FieldID, bool) {
	doc, hasDoc := p.parseDescription()
	name, nameSpan, ok := p.parseName(what)
	if !ok {
		return ast.NoFieldID, false
	}
	f := ast.Field{Name: name, NameSpan: nameSpan, Doc: doc, HasDoc: hasDoc}
	if p.at(token.LParen) {
		if !withArgs {
			p.err(diag.SynExpectColon, "input fields cannot take arguments")
			return ast.NoFieldID, false
		}
		if f.Args, ok = p.parseArgDefs(); !ok {
			return ast.NoFieldID, false
		}
	}
	if _, ok = p.expect(token.Colon, diag.SynExpectColon, "`:` after "+what); !ok {
		return ast.NoFieldID, false
	}
	if f.Type, ok = p.parseType(); !ok {
		return ast.NoFieldID, false
	}
	if p.eat(token.Assign) {
		if f.Default, ok = p.parseValue(); !ok {
			return ast.NoFieldID, false
		}
	}
	if f.Directives, ok = p.parseDirectives(); !ok {
		return ast.NoFieldID, false
	}
	f.Span = nameSpan.Cover(p.lastSpan)
	return p.arenas.Fields.New(f), true
}

// parseArgDefs: '(' field* ')'
func (p *Parser) parseArgDefs() ([]ast.FieldID, bool) {
	open := p.advance()
	var args []ast.FieldID
	for {
		p.eatCommas()
		if p.eat(token.RParen) {
			return args, true
		}
		if p.at(token.EOF) || p.atDeclStart(true) {
			p.errUnclosed(diag.SynUnclosedParen, ")", open.Span)
			return args, false
		}
		id, ok := p.parseFieldDef(false, "argument name")
		if !ok {
			return args, false
		}
		args = append(args, id)
	}
}

// parseTypeParams: '<' name ('extends' type ('&' type)*)? (',' ...)* '>'
func (p *Parser) parseTypeParams() ([]ast.TypeParamID, bool) {
	open := p.advance()
	var params []ast.TypeParamID
	for {
		p.eatCommas()
		if p.eat(token.Gt) {
			if len(params) == 0 {
				p.report(diag.SynExpectIdentifier, open.Span.Cover(p.lastSpan), "empty type parameter list", nil)
				return nil, false
			}
			return params, true
		}
		if p.at(token.EOF) {
			p.errUnclosed(diag.SynUnclosedAngle, ">", open.Span)
			return params, false
		}
		name, nameSpan, ok := p.parseName("type parameter name")
		if !ok {
			return params, false
		}
		tp := ast.TypeParam{Name: name, Span: nameSpan}
		if p.eat(token.KwExtends) {
			for {
				bound, ok := p.parseType()
				if !ok {
					return params, false
				}
				tp.Bounds = append(tp.Bounds, bound)
				if !p.eat(token.Amp) {
					break
				}
			}
		}
		tp.Span = nameSpan.Cover(p.lastSpan)
		params = append(params, p.arenas.Items.NewTypeParam(tp))
	}
}
