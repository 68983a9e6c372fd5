package parser

import (
	"golang.org/x/text/unicode/norm"

	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/lexer"
	"bgql/internal/token"
)

// parseValue parses a constant: scalars, enum values, lists and objects.
func (p *Parser) parseValue() (ast.ValueID, bool) {
	if !p.enter() {
		return ast.NoValueID, false
	}
	defer p.leave()

	tok := p.lx.Peek()
	v := ast.Value{Span: tok.Span, Raw: tok.Text}
	switch tok.Kind {
	case token.IntLit:
		v.Kind = ast.ValueInt
	case token.FloatLit:
		v.Kind = ast.ValueFloat
	case token.StringLit:
		v.Kind, v.Str = ast.ValueString, norm.NFC.String(lexer.StringValue(tok.Text))
	case token.BlockString:
		v.Kind, v.Str = ast.ValueString, norm.NFC.String(lexer.BlockStringValue(tok.Text))
	case token.KwTrue, token.KwFalse:
		v.Kind, v.Bool = ast.ValueBool, tok.Kind == token.KwTrue
	case token.KwNull:
		v.Kind = ast.ValueNull
	case token.LBracket:
		return p.parseListValue()
	case token.LBrace:
		return p.parseObjectValue()
	default:
		if !tok.IsName() {
			p.err(diag.SynExpectValue, "expected value, found "+describe(tok))
			return ast.NoValueID, false
		}
		v.Kind = ast.ValueEnum
	}
	p.advance()
	return p.arenas.Values.New(v), true
}

func (p *Parser) parseListValue() (ast.ValueID, bool) {
	open := p.advance()
	v := ast.Value{Kind: ast.ValueList}
	for {
		p.eatCommas()
		if p.at(token.RBracket) {
			closeTok := p.advance()
			v.Span = open.Span.Cover(closeTok.Span)
			return p.arenas.Values.New(v), true
		}
		if p.at(token.EOF) || p.atDeclStart(true) {
			p.errUnclosed(diag.SynUnclosedBracket, "]", open.Span)
			return ast.NoValueID, false
		}
		el, ok := p.parseValue()
		if !ok {
			return ast.NoValueID, false
		}
		v.List = append(v.List, el)
	}
}

func (p *Parser) parseObjectValue() (ast.ValueID, bool) {
	open := p.advance()
	v := ast.Value{Kind: ast.ValueObject}
	for {
		p.eatCommas()
		if p.at(token.RBrace) {
			closeTok := p.advance()
			v.Span = open.Span.Cover(closeTok.Span)
			return p.arenas.Values.New(v), true
		}
		if p.at(token.EOF) || p.atDeclStart(true) {
			p.errUnclosed(diag.SynUnclosedBrace, "}", open.Span)
			return ast.NoValueID, false
		}
		name, nameSpan, ok := p.parseName("field name")
		if !ok {
			return ast.NoValueID, false
		}
		if _, ok = p.expect(token.Colon, diag.SynExpectColon, "`:` after field name"); !ok {
			return ast.NoValueID, false
		}
		val, ok := p.parseValue()
		if !ok {
			return ast.NoValueID, false
		}
		v.Fields = append(v.Fields, ast.ObjectField{Name: name, NameSpan: nameSpan, Value: val})
	}
}

// parseDirectives parses zero or more `@name(args)` applications.
func (p *Parser) parseDirectives() ([]ast.DirectiveID, bool) {
	var out []ast.DirectiveID
	for p.at(token.At) {
		at := p.advance()
		name, nameSpan, ok := p.parseName("directive name")
		if !ok {
			return out, false
		}
		app := ast.DirectiveApp{Name: name, NameSpan: at.Span.Cover(nameSpan)}
		if p.at(token.LParen) {
			if app.Args, ok = p.parseArguments(); !ok {
				return out, false
			}
		}
		app.Span = at.Span.Cover(p.lastSpan)
		out = append(out, p.arenas.Directives.New(app))
	}
	return out, true
}

// parseArguments: '(' (name ':' value ','?)* ')'
func (p *Parser) parseArguments() ([]ast.Argument, bool) {
	open := p.advance()
	var args []ast.Argument
	for {
		p.eatCommas()
		if p.eat(token.RParen) {
			return args, true
		}
		if p.at(token.EOF) || p.atDeclStart(true) {
			p.errUnclosed(diag.SynUnclosedParen, ")", open.Span)
			return args, false
		}
		name, nameSpan, ok := p.parseName("argument name")
		if !ok {
			return args, false
		}
		if _, ok = p.expect(token.Colon, diag.SynExpectColon, "`:` after argument name"); !ok {
			return args, false
		}
		val, ok := p.parseValue()
		if !ok {
			return args, false
		}
		args = append(args, ast.Argument{Name: name, NameSpan: nameSpan, Value: val})
	}
}
