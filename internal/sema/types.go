package sema

import (
	"fmt"
	"strings"

	"bgql/internal/ast"
	"bgql/internal/symbols"
)

// typeClass groups symbols by how the checker treats them.
type typeClass uint8

const (
	classUnknown typeClass = iota // error symbol: satisfies everything
	classScalar
	classEnum
	classInputEnum
	classObject
	classInterface
	classUnion
	classInputUnion
	classInput
	classNewtype
	classTypeParam
	classWrapper // Option или List без аргументов
)

func classOf(sym *symbols.Symbol) typeClass {
	if sym.IsError() {
		return classUnknown
	}
	switch sym.Kind {
	case symbols.SymbolBuiltin:
		if sym.Flags&symbols.SymbolFlagScalar != 0 {
			return classScalar
		}
		return classWrapper
	case symbols.SymbolTypeParam:
		return classTypeParam
	case symbols.SymbolType:
	default:
		return classUnknown
	}
	switch sym.Decl {
	case ast.ItemScalar:
		return classScalar
	case ast.ItemEnum:
		return classEnum
	case ast.ItemInputEnum:
		return classInputEnum
	case ast.ItemObject:
		return classObject
	case ast.ItemInterface:
		return classInterface
	case ast.ItemUnion:
		return classUnion
	case ast.ItemInputUnion:
		return classInputUnion
	case ast.ItemInput:
		return classInput
	case ast.ItemNewtype, ast.ItemOpaque:
		return classNewtype
	default:
		return classUnknown
	}
}

func (c typeClass) composite() bool {
	return c == classObject || c == classInterface || c == classUnion
}

// describeSymbol renders "interface `Node`" for messages.
func (tc *typeChecker) describeSymbol(sym *symbols.Symbol) string {
	kind := sym.Kind.String()
	switch {
	case sym.Kind == symbols.SymbolType:
		kind = sym.Decl.String()
		if sym.Decl == ast.ItemObject {
			kind = "object type"
		}
	case sym.Flags&symbols.SymbolFlagScalar != 0:
		kind = "scalar"
	}
	return kind + " `" + tc.nameOf(sym) + "`"
}

// nameOf is the consumer-facing name: `a::User` outside the root module.
func (tc *typeChecker) nameOf(sym *symbols.Symbol) string {
	if sym == nil {
		return "<error>"
	}
	if sym.Kind == symbols.SymbolType {
		return tc.graph.Qualify(sym.Module, sym.Name)
	}
	return sym.Name
}

// refOf returns the symbol id behind a named or generic type expression.
func (tc *typeChecker) refOf(id ast.TypeID) symbols.SymbolID {
	return tc.symbols.Resolved(id)
}

// symbolOf returns the symbol behind a named or generic type expression, or
// nil for wrappers and tuples.
func (tc *typeChecker) symbolOf(id ast.TypeID) *symbols.Symbol {
	expr := tc.builder.Types.Get(id)
	if expr == nil || (expr.Kind != ast.TypeNamed && expr.Kind != ast.TypeGeneric) {
		return nil
	}
	return tc.symbols.Get(tc.symbols.Resolved(id))
}

// core strips nullability: it returns the non-null part of id and whether
// id accepts null.
func (tc *typeChecker) core(id ast.TypeID) (ast.TypeID, bool) {
	expr := tc.builder.Types.Get(id)
	if expr == nil {
		return id, false
	}
	if expr.Kind == ast.TypeOption && len(expr.Args) == 1 {
		inner, _ := tc.core(expr.Args[0])
		return inner, true
	}
	return id, tc.opts.NullableDefault && !expr.Bang
}

// leaf strips every list and option wrapper.
func (tc *typeChecker) leaf(id ast.TypeID) ast.TypeID {
	for {
		expr := tc.builder.Types.Get(id)
		if expr == nil || (expr.Kind != ast.TypeList && expr.Kind != ast.TypeOption) || len(expr.Args) == 0 {
			return id
		}
		id = expr.Args[0]
	}
}

// typeLabel renders a type expression the way it is written.
func (tc *typeChecker) typeLabel(id ast.TypeID) string {
	var sb strings.Builder
	tc.writeType(&sb, id)
	return sb.String()
}

func (tc *typeChecker) writeType(sb *strings.Builder, id ast.TypeID) {
	expr := tc.builder.Types.Get(id)
	if expr == nil {
		sb.WriteString("<invalid>")
		return
	}
	writeArgs := func(open, closer string) {
		sb.WriteString(open)
		for i, arg := range expr.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			tc.writeType(sb, arg)
		}
		sb.WriteString(closer)
	}
	switch expr.Kind {
	case ast.TypeList:
		writeArgs("[", "]")
	case ast.TypeOption:
		writeArgs("Option<", ">")
	case ast.TypeTuple:
		writeArgs("(", ")")
	case ast.TypeNamed, ast.TypeGeneric:
		for i, seg := range expr.Path {
			if i > 0 {
				sb.WriteString("::")
			}
			sb.WriteString(tc.builder.Name(seg.Name))
		}
		if expr.Kind == ast.TypeGeneric {
			writeArgs("<", ">")
		}
	case ast.TypeInvalid:
		sb.WriteString("<invalid>")
	}
	if expr.Bang {
		sb.WriteByte('!')
	}
}

// objectFields returns the fields of a type, interface or input symbol.
func (tc *typeChecker) objectFields(sym *symbols.Symbol) []ast.FieldID {
	if sym == nil || sym.Kind != symbols.SymbolType {
		return nil
	}
	obj, ok := tc.builder.Items.Object(sym.Item)
	if !ok {
		return nil
	}
	return obj.Fields
}

// findField returns the first field called name.
func (tc *typeChecker) findField(fields []ast.FieldID, name string) *ast.Field {
	for _, fid := range fields {
		if f := tc.builder.Fields.Get(fid); f != nil && tc.builder.Name(f.Name) == name {
			return f
		}
	}
	return nil
}

// newtypeBase follows newtype and opaque chains to the first other symbol.
// It returns nil on cycles and non-named underlying types.
func (tc *typeChecker) newtypeBase(sym *symbols.Symbol) *symbols.Symbol {
	seen := make(map[ast.ItemID]struct{})
	for sym != nil && classOf(sym) == classNewtype {
		if _, ok := seen[sym.Item]; ok {
			return nil
		}
		seen[sym.Item] = struct{}{}
		nt, ok := tc.builder.Items.Newtype(sym.Item)
		if !ok {
			return nil
		}
		sym = tc.symbolOf(nt.Underlying)
	}
	return sym
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
