package ast

import (
	"bgql/internal/source"
)

// Argument is `name: value` inside a directive application or a selection.
type Argument struct {
	Name     source.StringID
	NameSpan source.Span
	Value    ValueID
}

// DirectiveApp is an applied `@name(args)`. The parser does not validate it.
type DirectiveApp struct {
	Name     source.StringID
	NameSpan source.Span // включая '@'
	Span     source.Span
	Args     []Argument
}

type Directives struct {
	Arena *Arena[DirectiveApp]
}

func NewDirectives(capHint uint) *Directives {
	return &Directives{Arena: NewArena[DirectiveApp](capHint)}
}

func (d *Directives) New(app DirectiveApp) DirectiveID {
	return DirectiveID(d.Arena.Allocate(app))
}

func (d *Directives) Get(id DirectiveID) *DirectiveApp {
	return d.Arena.Get(uint32(id))
}

// LocationMask is a set of places a directive may be applied to.
type LocationMask uint32

const (
	LocNone   LocationMask = 0
	LocSchema LocationMask = 1 << iota
	LocScalar
	LocObject
	LocFieldDefinition
	LocArgumentDefinition
	LocInterface
	LocUnion
	LocEnum
	LocEnumValue
	LocInputObject
	LocInputFieldDefinition
	LocNewtype
	LocOpaque
	LocInputUnion
	LocInputEnum
	LocFragmentDefinition
	LocFragmentSpread
	LocInlineFragment
	LocField
	LocQuery
	LocMutation
	LocSubscription
)

var locationNames = []struct {
	name string
	mask LocationMask
}{
	{"SCHEMA", LocSchema},
	{"SCALAR", LocScalar},
	{"OBJECT", LocObject},
	{"FIELD_DEFINITION", LocFieldDefinition},
	{"ARGUMENT_DEFINITION", LocArgumentDefinition},
	{"INTERFACE", LocInterface},
	{"UNION", LocUnion},
	{"ENUM", LocEnum},
	{"ENUM_VALUE", LocEnumValue},
	{"INPUT_OBJECT", LocInputObject},
	{"INPUT_FIELD_DEFINITION", LocInputFieldDefinition},
	{"NEWTYPE", LocNewtype},
	{"OPAQUE", LocOpaque},
	{"INPUT_UNION", LocInputUnion},
	{"INPUT_ENUM", LocInputEnum},
	{"FRAGMENT_DEFINITION", LocFragmentDefinition},
	{"FRAGMENT_SPREAD", LocFragmentSpread},
	{"INLINE_FRAGMENT", LocInlineFragment},
	{"FIELD", LocField},
	{"QUERY", LocQuery},
	{"MUTATION", LocMutation},
	{"SUBSCRIPTION", LocSubscription},
}

// LookupLocation maps a location name such as FIELD_DEFINITION to its bit.
func LookupLocation(name string) (LocationMask, bool) {
	for _, l := range locationNames {
		if l.name == name {
			return l.mask, true
		}
	}
	return LocNone, false
}

func (m LocationMask) Has(other LocationMask) bool {
	return m&other != 0
}

// Names lists the members of m in catalog order.
func (m LocationMask) Names() []string {
	var out []string
	for _, l := range locationNames {
		if m&l.mask != 0 {
			out = append(out, l.name)
		}
	}
	return out
}

func (m LocationMask) String() string {
	names := m.Names()
	if len(names) == 0 {
		return "NONE"
	}
	s := names[0]
	for _, n := range names[1:] {
		s += " | " + n
	}
	return s
}

// ItemLocation is the location of a declaration of the given kind.
func ItemLocation(kind ItemKind) LocationMask {
	switch kind {
	case ItemObject:
		return LocObject
	case ItemInterface:
		return LocInterface
	case ItemUnion:
		return LocUnion
	case ItemInputUnion:
		return LocInputUnion
	case ItemEnum:
		return LocEnum
	case ItemInputEnum:
		return LocInputEnum
	case ItemInput:
		return LocInputObject
	case ItemScalar:
		return LocScalar
	case ItemNewtype:
		return LocNewtype
	case ItemOpaque:
		return LocOpaque
	case ItemFragment:
		return LocFragmentDefinition
	case ItemSchema:
		return LocSchema
	default:
		return LocNone
	}
}
