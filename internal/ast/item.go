package ast

import (
	"bgql/internal/source"
)

type ItemKind uint8

const (
	ItemInvalid ItemKind = iota
	ItemObject
	ItemInterface
	ItemUnion
	ItemInputUnion
	ItemEnum
	ItemInputEnum
	ItemInput
	ItemScalar
	ItemNewtype
	ItemOpaque
	ItemDirective
	ItemFragment
	ItemMod
	ItemUse
	ItemSchema
)

var itemKindNames = [...]string{
	ItemInvalid:    "invalid",
	ItemObject:     "type",
	ItemInterface:  "interface",
	ItemUnion:      "union",
	ItemInputUnion: "input union",
	ItemEnum:       "enum",
	ItemInputEnum:  "input enum",
	ItemInput:      "input",
	ItemScalar:     "scalar",
	ItemNewtype:    "newtype",
	ItemOpaque:     "opaque",
	ItemDirective:  "directive",
	ItemFragment:   "fragment",
	ItemMod:        "mod",
	ItemUse:        "use",
	ItemSchema:     "schema",
}

func (k ItemKind) String() string {
	if int(k) < len(itemKindNames) {
		return itemKindNames[k]
	}
	return "invalid"
}

// DeclaresType reports whether items of this kind live in the type namespace.
func (k ItemKind) DeclaresType() bool {
	switch k {
	case ItemObject, ItemInterface, ItemUnion, ItemInputUnion, ItemEnum,
		ItemInputEnum, ItemInput, ItemScalar, ItemNewtype, ItemOpaque:
		return true
	}
	return false
}

// Item is a top-level declaration. Payload indexes the arena matching Kind;
// scalars carry no payload.
type Item struct {
	Kind       ItemKind
	Span       source.Span
	Name       source.StringID // без '@' для директив
	NameSpan   source.Span
	Doc        string // decoded description, "" when absent
	HasDoc     bool
	Visibility Visibility
	VisSpan    source.Span
	Directives []DirectiveID
	Payload    PayloadID
}

type Items struct {
	Arena         *Arena[Item]
	Objects       *Arena[ObjectDecl]
	Unions        *Arena[UnionDecl]
	Enums         *Arena[EnumDecl]
	EnumValues    *Arena[EnumValue]
	Newtypes      *Arena[NewtypeDecl]
	DirectiveDefs *Arena[DirectiveDecl]
	Fragments     *Arena[FragmentDecl]
	Mods          *Arena[ModDecl]
	Uses          *Arena[UseDecl]
	Schemas       *Arena[SchemaDecl]
	TypeParams    *Arena[TypeParam]
}

func NewItems(capHint uint) *Items {
	return &Items{
		Arena:         NewArena[Item](capHint),
		Objects:       NewArena[ObjectDecl](capHint),
		Unions:        NewArena[UnionDecl](capHint / 4),
		Enums:         NewArena[EnumDecl](capHint / 4),
		EnumValues:    NewArena[EnumValue](capHint),
		Newtypes:      NewArena[NewtypeDecl](capHint / 4),
		DirectiveDefs: NewArena[DirectiveDecl](capHint / 8),
		Fragments:     NewArena[FragmentDecl](capHint / 8),
		Mods:          NewArena[ModDecl](capHint / 8),
		Uses:          NewArena[UseDecl](capHint / 8),
		Schemas:       NewArena[SchemaDecl](1),
		TypeParams:    NewArena[TypeParam](capHint / 8),
	}
}

func (i *Items) New(item Item) ItemID {
	return ItemID(i.Arena.Allocate(item))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

// Object returns the payload of a type, interface or input item.
func (i *Items) Object(id ItemID) (*ObjectDecl, bool) {
	item := i.Get(id)
	if item == nil || (item.Kind != ItemObject && item.Kind != ItemInterface && item.Kind != ItemInput) {
		return nil, false
	}
	return i.Objects.Get(uint32(item.Payload)), true
}

func (i *Items) Union(id ItemID) (*UnionDecl, bool) {
	item := i.Get(id)
	if item == nil || (item.Kind != ItemUnion && item.Kind != ItemInputUnion) {
		return nil, false
	}
	return i.Unions.Get(uint32(item.Payload)), true
}

func (i *Items) Enum(id ItemID) (*EnumDecl, bool) {
	item := i.Get(id)
	if item == nil || (item.Kind != ItemEnum && item.Kind != ItemInputEnum) {
		return nil, false
	}
	return i.Enums.Get(uint32(item.Payload)), true
}

func (i *Items) Newtype(id ItemID) (*NewtypeDecl, bool) {
	item := i.Get(id)
	if item == nil || (item.Kind != ItemNewtype && item.Kind != ItemOpaque) {
		return nil, false
	}
	return i.Newtypes.Get(uint32(item.Payload)), true
}

func (i *Items) DirectiveDef(id ItemID) (*DirectiveDecl, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemDirective {
		return nil, false
	}
	return i.DirectiveDefs.Get(uint32(item.Payload)), true
}

func (i *Items) Fragment(id ItemID) (*FragmentDecl, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFragment {
		return nil, false
	}
	return i.Fragments.Get(uint32(item.Payload)), true
}

func (i *Items) Mod(id ItemID) (*ModDecl, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemMod {
		return nil, false
	}
	return i.Mods.Get(uint32(item.Payload)), true
}

func (i *Items) Use(id ItemID) (*UseDecl, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemUse {
		return nil, false
	}
	return i.Uses.Get(uint32(item.Payload)), true
}

func (i *Items) Schema(id ItemID) (*SchemaDecl, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemSchema {
		return nil, false
	}
	return i.Schemas.Get(uint32(item.Payload)), true
}

func (i *Items) EnumValue(id EnumValueID) *EnumValue {
	return i.EnumValues.Get(uint32(id))
}

func (i *Items) TypeParam(id TypeParamID) *TypeParam {
	return i.TypeParams.Get(uint32(id))
}
