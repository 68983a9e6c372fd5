package parser

import (
	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/token"
)

// parseType: ( path ('<' type (',' type)* '>')? | '[' type ']' | '(' type (',' type)+ ')' ) '!'?
// `<` is always a generic opener here: the language has no expressions.
func (p *Parser) parseType() (ast.TypeID, bool) {
	if !p.enter() {
		return ast.NoTypeID, false
	}
	defer p.leave()

	tok := p.lx.Peek()
	start := tok.Span
	var expr ast.TypeExpr
	switch {
	case tok.Kind == token.LBracket:
		p.advance()
		inner, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		if !p.at(token.RBracket) {
			p.errUnclosed(diag.SynUnclosedBracket, "]", tok.Span)
			return ast.NoTypeID, false
		}
		p.advance()
		expr = ast.TypeExpr{Kind: ast.TypeList, Args: []ast.TypeID{inner}}

	case tok.Kind == token.LParen:
		p.advance()
		var elems []ast.TypeID
		for {
			el, ok := p.parseType()
			if !ok {
				return ast.NoTypeID, false
			}
			elems = append(elems, el)
			if !p.eat(token.Comma) || p.at(token.RParen) {
				break
			}
		}
		if !p.at(token.RParen) {
			p.errUnclosed(diag.SynUnclosedParen, ")", tok.Span)
			return ast.NoTypeID, false
		}
		p.advance()
		if len(elems) == 1 {
			// (T): просто скобки
			inner := p.arenas.Types.Get(elems[0])
			p.parseBang(inner)
			return elems[0], true
		}
		expr = ast.TypeExpr{Kind: ast.TypeTuple, Args: elems}

	case tok.IsName() && tok.Kind != token.KwTrue && tok.Kind != token.KwFalse && tok.Kind != token.KwNull:
		path, last, ok := p.parsePath()
		if !ok {
			return ast.NoTypeID, false
		}
		expr = ast.TypeExpr{Kind: ast.TypeNamed, Path: path}
		if p.at(token.Lt) {
			args, ok := p.parseTypeArgs()
			if !ok {
				return ast.NoTypeID, false
			}
			expr.Kind, expr.Args = ast.TypeGeneric, args
			if len(path) == 1 && len(args) == 1 {
				switch last {
				case "Option":
					expr.Kind, expr.Path = ast.TypeOption, nil
				case "List":
					expr.Kind, expr.Path = ast.TypeList, nil
				}
			}
		}

	default:
		p.err(diag.SynExpectType, "expected type, found "+describe(tok))
		return ast.NoTypeID, false
	}

	p.parseBang(&expr)
	expr.Span = start.Cover(p.lastSpan)
	return p.arenas.Types.New(expr), true
}

func (p *Parser) parseBang(expr *ast.TypeExpr) {
	if p.at(token.Bang) {
		bang := p.advance()
		expr.Bang, expr.BangSpan = true, bang.Span
		expr.Span = expr.Span.Cover(bang.Span)
	}
}

// parsePath: name ('::' name)*. Returns the text of the last segment.
func (p *Parser) parsePath() ([]ast.PathSeg, string, bool) {
	var path []ast.PathSeg
	for {
		tok := p.lx.Peek()
		if !tok.IsName() {
			p.err(diag.SynExpectIdentifier, "expected name after `::`, found "+describe(tok))
			return path, "", false
		}
		p.advance()
		path = append(path, ast.PathSeg{Name: p.intern(tok.Text), Span: tok.Span})
		if !p.at(token.ColonColon) {
			return path, tok.Text, true
		}
		p.advance()
	}
}

func (p *Parser) parseTypeArgs() ([]ast.TypeID, bool) {
	open := p.advance()
	var args []ast.TypeID
	for {
		if p.at(token.Gt) && len(args) > 0 {
			p.advance()
			return args, true
		}
		if p.at(token.EOF) {
			p.errUnclosed(diag.SynUnclosedAngle, ">", open.Span)
			return args, false
		}
		arg, ok := p.parseType()
		if !ok {
			return args, false
		}
		args = append(args, arg)
		if !p.eat(token.Comma) && !p.at(token.Gt) {
			p.errUnclosed(diag.SynUnclosedAngle, ">", open.Span)
			return args, false
		}
	}
}
