package sema

import (
	"bgql/internal/ast"
	"bgql/internal/symbols"
)

// valueFits reports whether a constant is acceptable for an input type.
// Unresolved types accept anything.
func (tc *typeChecker) valueFits(v *ast.Value, typ ast.TypeID) bool {
	return tc.valueFitsDepth(v, typ, 0)
}

const maxValueDepth = 64

func (tc *typeChecker) valueFitsDepth(v *ast.Value, typ ast.TypeID, depth int) bool {
	if v == nil || v.Kind == ast.ValueInvalid || depth > maxValueDepth {
		return true
	}
	core, nullable := tc.core(typ)
	if v.Kind == ast.ValueNull {
		return nullable
	}
	expr := tc.builder.Types.Get(core)
	if expr == nil {
		return true
	}
	switch expr.Kind {
	case ast.TypeList:
		if len(expr.Args) == 0 {
			return true
		}
		if v.Kind != ast.ValueList {
			// одиночное значение приводится к списку
			return tc.valueFitsDepth(v, expr.Args[0], depth+1)
		}
		for _, elem := range v.List {
			if !tc.valueFitsDepth(tc.builder.Values.Get(elem), expr.Args[0], depth+1) {
				return false
			}
		}
		return true
	case ast.TypeTuple:
		if v.Kind != ast.ValueList || len(v.List) != len(expr.Args) {
			return false
		}
		for i, elem := range v.List {
			if !tc.valueFitsDepth(tc.builder.Values.Get(elem), expr.Args[i], depth+1) {
				return false
			}
		}
		return true
	case ast.TypeNamed, ast.TypeGeneric:
	default:
		return true
	}
	sym := tc.symbolOf(core)
	switch classOf(sym) {
	case classScalar:
		if sym.IsBuiltin() {
			return scalarFits(v, sym.Name)
		}
		return true
	case classEnum:
		return v.Kind == ast.ValueEnum && tc.enumHas(sym, v.Raw)
	case classInputEnum:
		if v.Kind == ast.ValueEnum {
			return tc.enumHas(sym, v.Raw)
		}
		return v.Kind == ast.ValueObject
	case classInput:
		return v.Kind == ast.ValueObject && tc.inputFieldsFit(v, sym, depth)
	case classInputUnion:
		return v.Kind == ast.ValueObject
	case classNewtype:
		nt, ok := tc.builder.Items.Newtype(sym.Item)
		if !ok {
			return true
		}
		return tc.valueFitsDepth(v, nt.Underlying, depth+1)
	default:
		return true
	}
}

func scalarFits(v *ast.Value, scalar string) bool {
	switch scalar {
	case "Int":
		return v.Kind == ast.ValueInt
	case "Float":
		return v.Kind == ast.ValueInt || v.Kind == ast.ValueFloat
	case "String":
		return v.Kind == ast.ValueString
	case "Boolean":
		return v.Kind == ast.ValueBool
	case "ID":
		return v.Kind == ast.ValueString || v.Kind == ast.ValueInt
	default:
		return true
	}
}

func (tc *typeChecker) enumHas(sym *symbols.Symbol, name string) bool {
	enum, ok := tc.builder.Items.Enum(sym.Item)
	if !ok {
		return true
	}
	for _, vid := range enum.Values {
		if tc.builder.Name(tc.builder.Items.EnumValue(vid).Name) == name {
			return true
		}
	}
	return false
}

// inputFieldsFit checks every written field against the input object.
// Generic inputs are accepted as written.
func (tc *typeChecker) inputFieldsFit(v *ast.Value, sym *symbols.Symbol, depth int) bool {
	if sym.Arity > 0 {
		return true
	}
	fields := tc.objectFields(sym)
	for _, of := range v.Fields {
		f := tc.findField(fields, tc.builder.Name(of.Name))
		if f == nil || !tc.valueFitsDepth(tc.builder.Values.Get(of.Value), f.Type, depth+1) {
			return false
		}
	}
	return true
}
