package ast

import (
	"bgql/internal/source"
)

type ValueKind uint8

const (
	ValueInvalid ValueKind = iota
	ValueInt
	ValueFloat
	ValueString
	ValueBool
	ValueNull
	ValueEnum
	ValueList
	ValueObject
)

func (k ValueKind) String() string {
	switch k {
	case ValueInt:
		return "Int"
	case ValueFloat:
		return "Float"
	case ValueString:
		return "String"
	case ValueBool:
		return "Boolean"
	case ValueNull:
		return "null"
	case ValueEnum:
		return "enum value"
	case ValueList:
		return "list"
	case ValueObject:
		return "object"
	default:
		return "invalid"
	}
}

type ObjectField struct {
	Name     source.StringID
	NameSpan source.Span
	Value    ValueID
}

// Value is a constant. Raw keeps the source text; Str holds the decoded
// string for ValueString.
type Value struct {
	Kind   ValueKind
	Span   source.Span
	Raw    string
	Str    string
	Bool   bool
	List   []ValueID
	Fields []ObjectField
}

type Values struct {
	Arena *Arena[Value]
}

func NewValues(capHint uint) *Values {
	return &Values{Arena: NewArena[Value](capHint)}
}

func (v *Values) New(val Value) ValueID {
	return ValueID(v.Arena.Allocate(val))
}

func (v *Values) Get(id ValueID) *Value {
	return v.Arena.Get(uint32(id))
}
