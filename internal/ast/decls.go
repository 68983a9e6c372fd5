package ast

import (
	"bgql/internal/source"
)

// ObjectDecl is shared by `type`, `interface` and `input`. Inputs never
// carry implements or type parameters.
type ObjectDecl struct {
	TypeParams []TypeParamID
	Implements []TypeID
	Fields     []FieldID
	BodySpan   source.Span
}

type TypeParam struct {
	Name   source.StringID
	Span   source.Span
	Bounds []TypeID
}

// UnionDecl lists members in source order.
type UnionDecl struct {
	Members []TypeID
}

type EnumDecl struct {
	Values []EnumValueID
}

// EnumValue may carry payload fields in an `input enum`.
type EnumValue struct {
	Name       source.StringID
	Span       source.Span
	Doc        string
	HasDoc     bool
	Fields     []FieldID
	Directives []DirectiveID
}

// NewtypeDecl backs both `newtype` and `opaque`.
type NewtypeDecl struct {
	Underlying TypeID
}

type LocationRef struct {
	Name source.StringID
	Span source.Span
}

type DirectiveDecl struct {
	Args       []FieldID
	Repeatable bool
	Locations  []LocationRef
}

type FragmentDecl struct {
	OnType     TypeID
	Selections []SelectionID
}

// ModDecl is either `mod a;` (External) or an inline `mod a { ... }`.
type ModDecl struct {
	External bool
	Items    []ItemID
}

type PathSeg struct {
	Name source.StringID
	Span source.Span
}

type UseName struct {
	Name      source.StringID
	Span      source.Span
	Alias     source.StringID
	AliasSpan source.Span
}

// UseDecl: `use a::b::{C, D as E}` has Path [a b] and two Names.
// `use a::*` sets Glob. The first segment may be crate, super or self.
type UseDecl struct {
	Path  []PathSeg
	Names []UseName
	Glob  bool
}

type SchemaOp struct {
	Op     source.StringID // query, mutation, subscription
	OpSpan source.Span
	Type   TypeID
}

type SchemaDecl struct {
	Ops []SchemaOp
}

func (i *Items) newPayload(kind ItemKind) PayloadID {
	switch kind {
	case ItemObject, ItemInterface, ItemInput:
		return PayloadID(i.Objects.Allocate(ObjectDecl{}))
	case ItemUnion, ItemInputUnion:
		return PayloadID(i.Unions.Allocate(UnionDecl{}))
	case ItemEnum, ItemInputEnum:
		return PayloadID(i.Enums.Allocate(EnumDecl{}))
	case ItemNewtype, ItemOpaque:
		return PayloadID(i.Newtypes.Allocate(NewtypeDecl{}))
	case ItemDirective:
		return PayloadID(i.DirectiveDefs.Allocate(DirectiveDecl{}))
	case ItemFragment:
		return PayloadID(i.Fragments.Allocate(FragmentDecl{}))
	case ItemMod:
		return PayloadID(i.Mods.Allocate(ModDecl{}))
	case ItemUse:
		return PayloadID(i.Uses.Allocate(UseDecl{}))
	case ItemSchema:
		return PayloadID(i.Schemas.Allocate(SchemaDecl{}))
	}
	return NoPayloadID
}

// NewDecl allocates an item together with an empty payload of the matching kind.
func (i *Items) NewDecl(item Item) ItemID {
	item.Payload = i.newPayload(item.Kind)
	return i.New(item)
}

func (i *Items) NewEnumValue(v EnumValue) EnumValueID {
	return EnumValueID(i.EnumValues.Allocate(v))
}

func (i *Items) NewTypeParam(p TypeParam) TypeParamID {
	return TypeParamID(i.TypeParams.Allocate(p))
}
