package ast

import (
	"bgql/internal/source"
)

type SelectionKind uint8

const (
	SelField SelectionKind = iota
	SelSpread             // ...Name
	SelInline             // ... on T { }
)

// Selection is one entry of a fragment selection set.
type Selection struct {
	Kind       SelectionKind
	Span       source.Span
	Alias      source.StringID
	Name       source.StringID
	NameSpan   source.Span
	Args       []Argument
	Directives []DirectiveID
	Selections []SelectionID
	TypeCond   TypeID // только для SelInline
}

type Selections struct {
	Arena *Arena[Selection]
}

func NewSelections(capHint uint) *Selections {
	return &Selections{Arena: NewArena[Selection](capHint)}
}

func (s *Selections) New(sel Selection) SelectionID {
	return SelectionID(s.Arena.Allocate(sel))
}

func (s *Selections) Get(id SelectionID) *Selection {
	return s.Arena.Get(uint32(id))
}
