package symbols

import (
	"bgql/internal/ast"
	"bgql/internal/modules"
	"bgql/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	// SymbolError stands for anything that failed to resolve. It satisfies
	// every later check so one root cause yields one diagnostic.
	SymbolError
	SymbolBuiltin
	SymbolType
	SymbolTypeParam
	SymbolDirective
	SymbolFragment
	SymbolModule
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolError:
		return "error"
	case SymbolBuiltin:
		return "builtin"
	case SymbolType:
		return "type"
	case SymbolTypeParam:
		return "type parameter"
	case SymbolDirective:
		return "directive"
	case SymbolFragment:
		return "fragment"
	case SymbolModule:
		return "module"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	SymbolFlagBuiltin SymbolFlags = 1 << iota
	SymbolFlagScalar              // встроенный скаляр: ID String Int Float Boolean
	SymbolFlagGeneric             // Option и List
)

// Symbol is a named entity. Decl is the declaration kind for SymbolType.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Decl       ast.ItemKind
	Flags      SymbolFlags
	Module     modules.ModuleID
	Item       ast.ItemID
	TypeParam  ast.TypeParamID
	Owner      SymbolID // generic type owning a type parameter
	Target     modules.ModuleID
	Visibility ast.Visibility
	Span       source.Span
	Arity      int // number of type parameters
}

func (s *Symbol) IsError() bool {
	return s == nil || s.Kind == SymbolError
}

func (s *Symbol) IsBuiltin() bool {
	return s != nil && s.Flags&SymbolFlagBuiltin != 0
}

type SymbolID uint32

const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }
