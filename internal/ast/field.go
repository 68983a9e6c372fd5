package ast

import (
	"bgql/internal/source"
)

// Field covers output fields, arguments and input fields. Default is set only
// where a default value was written.
type Field struct {
	Name       source.StringID
	NameSpan   source.Span
	Span       source.Span
	Doc        string
	HasDoc     bool
	Args       []FieldID
	Type       TypeID
	Default    ValueID
	Directives []DirectiveID
}

type Fields struct {
	Arena *Arena[Field]
}

func NewFields(capHint uint) *Fields {
	return &Fields{Arena: NewArena[Field](capHint)}
}

func (f *Fields) New(field Field) FieldID {
	return FieldID(f.Arena.Allocate(field))
}

func (f *Fields) Get(id FieldID) *Field {
	return f.Arena.Get(uint32(id))
}
