package parser

import (
	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/source"
	"bgql/internal/token"
)

// itemHead: то, что стоит перед ключевым словом декларации.
type itemHead struct {
	start   source.Span
	doc     string
	hasDoc  bool
	vis     ast.Visibility
	visSpan source.Span
}

// parseItem выбирает распознаватель по ключевому слову. Возвращённый ItemID
// может быть валидным и при ok == false: частично разобранная декларация
// остаётся в AST.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	head := itemHead{start: p.lx.Peek().Span}
	head.doc, head.hasDoc = p.parseDescription()
	if !p.parseVisibility(&head) {
		return ast.NoItemID, false
	}

	switch p.lx.Peek().Kind {
	case token.KwType:
		return p.parseObjectItem(head, ast.ItemObject)
	case token.KwInterface:
		return p.parseObjectItem(head, ast.ItemInterface)
	case token.KwUnion:
		return p.parseUnionItem(head, ast.ItemUnion)
	case token.KwEnum:
		return p.parseEnumItem(head, ast.ItemEnum)
	case token.KwInput:
		return p.parseInputItem(head)
	case token.KwScalar:
		return p.parseScalarItem(head)
	case token.KwNewtype:
		return p.parseNewtypeItem(head, ast.ItemNewtype)
	case token.KwOpaque:
		return p.parseNewtypeItem(head, ast.ItemOpaque)
	case token.KwDirective:
		return p.parseDirectiveItem(head)
	case token.KwFragment:
		return p.parseFragmentItem(head)
	case token.KwMod:
		return p.parseModItem(head)
	case token.KwUse:
		return p.parseUseItem(head)
	case token.KwSchema:
		return p.parseSchemaItem(head)
	default:
		if head.hasDoc || head.vis != ast.VisPrivate {
			p.err(diag.SynUnexpectedTopLevel, "expected a declaration after "+headWhat(head)+", found "+describe(p.lx.Peek()))
		} else {
			p.err(diag.SynUnexpectedTopLevel, "expected a declaration, found "+describe(p.lx.Peek()))
		}
		return ast.NoItemID, false
	}
}

func headWhat(head itemHead) string {
	if head.vis != ast.VisPrivate {
		return "`" + head.vis.String() + "`"
	}
	return "description"
}

// parseVisibility: pub | pub(crate) | pub(super).
func (p *Parser) parseVisibility(head *itemHead) bool {
	if !p.at(token.KwPub) {
		return true
	}
	pub := p.advance()
	head.vis, head.visSpan = ast.VisPublic, pub.Span
	if !p.at(token.LParen) {
		return true
	}
	p.advance()
	switch tok := p.lx.Peek(); tok.Kind {
	case token.KwCrate:
		head.vis = ast.VisCrate
	case token.KwSuper:
		head.vis = ast.VisSuper
	default:
		p.err(diag.SynBadVisibility, "expected `crate` or `super` in visibility, found "+describe(tok))
		return false
	}
	p.advance()
	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "`)`")
	if !ok {
		return false
	}
	head.visSpan = pub.Span.Cover(closeTok.Span)
	return true
}

// newItem allocates the item with its payload; Span is fixed by finish.
func (p *Parser) newItem(head itemHead, kind ast.ItemKind, name source.StringID, nameSpan source.Span) ast.ItemID {
	return p.arenas.Items.NewDecl(ast.Item{
		Kind:       kind,
		Span:       head.start,
		Name:       name,
		NameSpan:   nameSpan,
		Doc:        head.doc,
		HasDoc:     head.hasDoc,
		Visibility: head.vis,
		VisSpan:    head.visSpan,
	})
}

func (p *Parser) finish(id ast.ItemID, ok bool) (ast.ItemID, bool) {
	if item := p.arenas.Items.Get(id); item != nil {
		item.Span = item.Span.Cover(p.lastSpan)
	}
	return id, ok
}

// noVisibility rejects `pub` on declarations that have no namespace.
func (p *Parser) noVisibility(head itemHead, what string) {
	if head.vis != ast.VisPrivate {
		p.report(diag.SynBadVisibility, head.visSpan, "visibility is not allowed on "+what, nil)
	}
}

// type/interface Name<T extends A & B> implements I & J @dir { fields }
func (p *Parser) parseObjectItem(head itemHead, kind ast.ItemKind) (ast.ItemID, bool) {
	p.advance()
	name, nameSpan, ok := p.parseName("type name")
	if !ok {
		return ast.NoItemID, false
	}
	id := p.newItem(head, kind, name, nameSpan)
	obj, _ := p.arenas.Items.Object(id)

	if p.at(token.Lt) {
		if obj.TypeParams, ok = p.parseTypeParams(); !ok {
			return p.finish(id, false)
		}
	}
	if p.at(token.KwImplements) {
		if obj.Implements, ok = p.parseImplements(); !ok {
			return p.finish(id, false)
		}
	}
	item := p.arenas.Items.Get(id)
	if item.Directives, ok = p.parseDirectives(); !ok {
		return p.finish(id, false)
	}
	if !p.at(token.LBrace) {
		return p.finish(id, true)
	}
	obj.Fields, obj.BodySpan, ok = p.parseFieldsBlock(true)
	return p.finish(id, ok)
}

func (p *Parser) parseImplements() ([]ast.TypeID, bool) {
	p.advance()
	p.eat(token.Amp)
	var out []ast.TypeID
	for {
		t, ok := p.parseType()
		if !ok {
			return out, false
		}
		out = append(out, t)
		if !p.eat(token.Amp) && !p.eat(token.Comma) {
			return out, true
		}
	}
}

// input, input union, input enum
func (p *Parser) parseInputItem(head itemHead) (ast.ItemID, bool) {
	next := p.lx.PeekN(1)
	after := p.lx.PeekN(2)
	switch {
	case next.Kind == token.KwUnion && after.IsName():
		p.advance()
		return p.parseUnionItem(head, ast.ItemInputUnion)
	case next.Kind == token.KwEnum && after.IsName():
		p.advance()
		return p.parseEnumItem(head, ast.ItemInputEnum)
	}

	p.advance()
	name, nameSpan, ok := p.parseName("input name")
	if !ok {
		return ast.NoItemID, false
	}
	id := p.newItem(head, ast.ItemInput, name, nameSpan)
	obj, _ := p.arenas.Items.Object(id)
	if p.at(token.Lt) {
		if obj.TypeParams, ok = p.parseTypeParams(); !ok {
			return p.finish(id, false)
		}
	}
	item := p.arenas.Items.Get(id)
	if item.Directives, ok = p.parseDirectives(); !ok {
		return p.finish(id, false)
	}
	if !p.at(token.LBrace) {
		return p.finish(id, true)
	}
	obj.Fields, obj.BodySpan, ok = p.parseFieldsBlock(false)
	return p.finish(id, ok)
}

// union Name @dir = | A | B
func (p *Parser) parseUnionItem(head itemHead, kind ast.ItemKind) (ast.ItemID, bool) {
	p.advance()
	name, nameSpan, ok := p.parseName("union name")
	if !ok {
		return ast.NoItemID, false
	}
	id := p.newItem(head, kind, name, nameSpan)
	item := p.arenas.Items.Get(id)
	if item.Directives, ok = p.parseDirectives(); !ok {
		return p.finish(id, false)
	}
	if _, ok = p.expect(token.Assign, diag.SynExpectEquals, "`=` after union name"); !ok {
		return p.finish(id, false)
	}
	p.eat(token.Pipe)
	u, _ := p.arenas.Items.Union(id)
	for {
		if !p.lx.Peek().IsName() {
			p.err(diag.SynExpectUnionMember, "expected union member, found "+describe(p.lx.Peek()))
			return p.finish(id, false)
		}
		member, ok := p.parseType()
		if !ok {
			return p.finish(id, false)
		}
		u.Members = append(u.Members, member)
		if !p.eat(token.Pipe) {
			return p.finish(id, true)
		}
	}
}

// enum Name @dir { A B @deprecated }; input enum values may carry { fields }.
func (p *Parser) parseEnumItem(head itemHead, kind ast.ItemKind) (ast.ItemID, bool) {
	p.advance()
	name, nameSpan, ok := p.parseName("enum name")
	if !ok {
		return ast.NoItemID, false
	}
	id := p.newItem(head, kind, name, nameSpan)
	item := p.arenas.Items.Get(id)
	if item.Directives, ok = p.parseDirectives(); !ok {
		return p.finish(id, false)
	}
	open, ok := p.expect(token.LBrace, diag.SynExpectBody, "`{` to open enum body")
	if !ok {
		return p.finish(id, false)
	}
	enum, _ := p.arenas.Items.Enum(id)
	for {
		p.eatCommas()
		if p.eat(token.RBrace) {
			return p.finish(id, true)
		}
		if p.at(token.EOF) || p.atDeclStart(true) {
			p.errUnclosed(diag.SynUnclosedBrace, "}", open.Span)
			return p.finish(id, false)
		}
		v, ok := p.parseEnumValue(kind == ast.ItemInputEnum)
		if v.IsValid() {
			enum.Values = append(enum.Values, v)
		}
		if !ok {
			p.skipBody()
			return p.finish(id, false)
		}
	}
}

func (p *Parser) parseEnumValue(withPayload bool) (ast.EnumValueID, bool) {
	doc, hasDoc := p.parseDescription()
	name, nameSpan, ok := p.parseName("enum value")
	if !ok {
		return ast.NoEnumValueID, false
	}
	v := ast.EnumValue{Name: name, Span: nameSpan, Doc: doc, HasDoc: hasDoc}
	if v.Directives, ok = p.parseDirectives(); !ok {
		return ast.NoEnumValueID, false
	}
	if withPayload && p.at(token.LBrace) {
		if v.Fields, _, ok = p.parseFieldsBlock(false); !ok {
			return ast.NoEnumValueID, false
		}
	}
	v.Span = nameSpan.Cover(p.lastSpan)
	return p.arenas.Items.NewEnumValue(v), true
}

// scalar Name @dir
func (p *Parser) parseScalarItem(head itemHead) (ast.ItemID, bool) {
	p.advance()
	name, nameSpan, ok := p.parseName("scalar name")
	if !ok {
		return ast.NoItemID, false
	}
	id := p.newItem(head, ast.ItemScalar, name, nameSpan)
	item := p.arenas.Items.Get(id)
	item.Directives, ok = p.parseDirectives()
	return p.finish(id, ok)
}

// newtype Name = Type @constraints; opaque has the same shape.
func (p *Parser) parseNewtypeItem(head itemHead, kind ast.ItemKind) (ast.ItemID, bool) {
	p.advance()
	name, nameSpan, ok := p.parseName(kind.String() + " name")
	if !ok {
		return ast.NoItemID, false
	}
	id := p.newItem(head, kind, name, nameSpan)
	if _, ok = p.expect(token.Assign, diag.SynExpectEquals, "`=` after "+kind.String()+" name"); !ok {
		return p.finish(id, false)
	}
	nt, _ := p.arenas.Items.Newtype(id)
	if nt.Underlying, ok = p.parseType(); !ok {
		return p.finish(id, false)
	}
	item := p.arenas.Items.Get(id)
	item.Directives, ok = p.parseDirectives()
	return p.finish(id, ok)
}

// directive @name(args) repeatable on A | B
func (p *Parser) parseDirectiveItem(head itemHead) (ast.ItemID, bool) {
	p.advance()
	at, ok := p.expect(token.At, diag.SynExpectIdentifier, "`@` before directive name")
	if !ok {
		return ast.NoItemID, false
	}
	name, nameSpan, ok := p.parseName("directive name")
	if !ok {
		return ast.NoItemID, false
	}
	id := p.newItem(head, ast.ItemDirective, name, at.Span.Cover(nameSpan))
	def, _ := p.arenas.Items.DirectiveDef(id)
	if p.at(token.LParen) {
		if def.Args, ok = p.parseArgDefs(); !ok {
			return p.finish(id, false)
		}
	}
	def.Repeatable = p.eat(token.KwRepeatable)
	if _, ok = p.expect(token.KwOn, diag.SynExpectOn, "`on` before directive locations"); !ok {
		return p.finish(id, false)
	}
	p.eat(token.Pipe)
	for {
		tok := p.lx.Peek()
		if !tok.IsName() {
			p.err(diag.SynExpectDirectiveLocation, "expected directive location, found "+describe(tok))
			return p.finish(id, false)
		}
		p.advance()
		def.Locations = append(def.Locations, ast.LocationRef{Name: p.intern(tok.Text), Span: tok.Span})
		if !p.eat(token.Pipe) {
			return p.finish(id, true)
		}
	}
}

// fragment Name on Type @server { selections }
func (p *Parser) parseFragmentItem(head itemHead) (ast.ItemID, bool) {
	p.advance()
	name, nameSpan, ok := p.parseName("fragment name")
	if !ok {
		return ast.NoItemID, false
	}
	id := p.newItem(head, ast.ItemFragment, name, nameSpan)
	if _, ok = p.expect(token.KwOn, diag.SynExpectOn, "`on` after fragment name"); !ok {
		return p.finish(id, false)
	}
	frag, _ := p.arenas.Items.Fragment(id)
	if frag.OnType, ok = p.parseType(); !ok {
		return p.finish(id, false)
	}
	item := p.arenas.Items.Get(id)
	if item.Directives, ok = p.parseDirectives(); !ok {
		return p.finish(id, false)
	}
	frag.Selections, ok = p.parseSelectionSet()
	return p.finish(id, ok)
}

// schema @dir { query: Query mutation: Mutation }
func (p *Parser) parseSchemaItem(head itemHead) (ast.ItemID, bool) {
	kw := p.advance()
	p.noVisibility(head, "schema")
	id := p.newItem(head, ast.ItemSchema, source.NoStringID, kw.Span)
	item := p.arenas.Items.Get(id)
	var ok bool
	if item.Directives, ok = p.parseDirectives(); !ok {
		return p.finish(id, false)
	}
	open, ok := p.expect(token.LBrace, diag.SynExpectBody, "`{` to open schema body")
	if !ok {
		return p.finish(id, false)
	}
	schema, _ := p.arenas.Items.Schema(id)
	for {
		p.eatCommas()
		if p.eat(token.RBrace) {
			return p.finish(id, true)
		}
		if p.at(token.EOF) || p.atDeclStart(true) {
			p.errUnclosed(diag.SynUnclosedBrace, "}", open.Span)
			return p.finish(id, false)
		}
		op, opSpan, ok := p.parseName("operation name")
		if ok {
			_, ok = p.expect(token.Colon, diag.SynExpectColon, "`:` after operation name")
		}
		var t ast.TypeID
		if ok {
			t, ok = p.parseType()
		}
		if !ok {
			p.skipBody()
			return p.finish(id, false)
		}
		schema.Ops = append(schema.Ops, ast.SchemaOp{Op: op, OpSpan: opSpan, Type: t})
	}
}
