package sema

import (
	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/symbols"
)

// position is where a type reference appears.
type position uint8

const (
	posNone   position = iota // bounds, implements, union members
	posOutput                 // output fields
	posInput                  // arguments, input fields, directive arguments
)

// checkTypeRef validates one written type: nullability markers, generic
// arity and bounds, input/output position.
func (tc *typeChecker) checkTypeRef(id ast.TypeID, pos position) {
	expr := tc.builder.Types.Get(id)
	if expr == nil {
		return
	}
	tc.checkNullability(id, expr)
	for _, arg := range expr.Args {
		tc.checkTypeRef(arg, pos)
	}
	if expr.Kind != ast.TypeNamed && expr.Kind != ast.TypeGeneric {
		return
	}
	sym := tc.symbols.Get(tc.refOf(id))
	if sym.IsError() {
		return
	}
	if sym.Kind == symbols.SymbolTypeParam {
		if len(expr.Args) > 0 {
			tc.report(diag.SemaTypeParamArgs, expr.Span, "type parameter `%s` cannot take type arguments", sym.Name)
		}
		return
	}
	if !tc.checkArity(expr, sym) {
		return
	}
	tc.checkPosition(expr, sym, pos)
	if len(expr.Args) > 0 && sym.Kind == symbols.SymbolType {
		tc.checkBounds(id, expr, sym)
	}
}

func (tc *typeChecker) checkNullability(id ast.TypeID, expr *ast.TypeExpr) {
	isOption := expr.Kind == ast.TypeOption
	switch {
	case isOption && expr.Bang:
		tc.report(diag.SemaNullabilityConflict, expr.BangSpan,
			"`%s` is both optional and non-null", tc.typeLabel(id))
	case expr.Bang && !tc.opts.NullableDefault && tc.opts.WarnRedundantBang:
		tc.warn(diag.SemaNullabilityRedundant, expr.BangSpan, "redundant `!`: types are non-null by default")
	case isOption && tc.opts.NullableDefault && tc.opts.WarnRedundantBang:
		tc.warn(diag.SemaNullabilityRedundant, expr.Span,
			"redundant `%s`: types are nullable by default", tc.typeLabel(id))
	}
}

// checkArity reports whether the instantiation has the right number of
// type arguments.
func (tc *typeChecker) checkArity(expr *ast.TypeExpr, sym *symbols.Symbol) bool {
	got := len(expr.Args)
	name := tc.nameOf(sym)
	switch {
	case sym.Arity == got:
		return true
	case sym.Arity == 0:
		tc.report(diag.SemaTypeArgCount, expr.Span, "type `%s` is not generic", name)
	case got == 0:
		tc.report(diag.SemaMissingTypeArgs, expr.Span, "generic type `%s` requires %s", name, plural(sym.Arity, "type argument"))
	default:
		tc.report(diag.SemaTypeArgCount, expr.Span, "type `%s` expects %s, found %d", name, plural(sym.Arity, "type argument"), got)
	}
	return false
}

func (tc *typeChecker) checkPosition(expr *ast.TypeExpr, sym *symbols.Symbol, pos position) {
	class := classOf(sym)
	if class == classNewtype {
		if base := tc.newtypeBase(sym); base != nil {
			class = classOf(base)
		}
	}
	switch pos {
	case posInput:
		if class == classObject || class == classInterface || class == classUnion {
			tc.report(diag.SemaInputOutputMismatch, expr.Span,
				"%s cannot be used as an input type", tc.describeSymbol(sym))
		}
	case posOutput:
		if class == classInput || class == classInputUnion || class == classInputEnum {
			tc.report(diag.SemaInputOutputMismatch, expr.Span,
				"%s cannot be used as an output type", tc.describeSymbol(sym))
		}
	case posNone:
	}
}

// checkBounds matches every type argument against the bounds of the
// corresponding type parameter.
func (tc *typeChecker) checkBounds(id ast.TypeID, expr *ast.TypeExpr, sym *symbols.Symbol) {
	obj, ok := tc.builder.Items.Object(sym.Item)
	if !ok {
		return
	}
	for i, arg := range expr.Args {
		if i >= len(obj.TypeParams) {
			return
		}
		param := tc.builder.Items.TypeParam(obj.TypeParams[i])
		caps, all := tc.capabilities(arg)
		if all {
			continue
		}
		for _, bound := range param.Bounds {
			boundID := tc.refOf(bound)
			bsym := tc.symbols.Get(boundID)
			if classOf(bsym) != classInterface {
				continue
			}
			if _, ok := caps[boundID]; ok {
				continue
			}
			tc.report(diag.SemaBoundNotSatisfied, tc.builder.Types.Get(arg).Span,
				"type `%s` does not satisfy bound of `%s` in `%s`: missing capability `%s`",
				tc.typeLabel(arg), tc.builder.Name(param.Name), tc.typeLabel(id), tc.nameOf(bsym))
		}
	}
}

// capabilities is the set of interfaces a type argument provides. all is
// true when the argument failed to resolve.
func (tc *typeChecker) capabilities(arg ast.TypeID) (caps map[symbols.SymbolID]struct{}, all bool) {
	expr := tc.builder.Types.Get(arg)
	if expr == nil {
		return nil, true
	}
	switch expr.Kind {
	case ast.TypeOption:
		if len(expr.Args) == 1 {
			return tc.capabilities(expr.Args[0])
		}
		return nil, true
	case ast.TypeNamed, ast.TypeGeneric:
	case ast.TypeInvalid:
		return nil, true
	default:
		return nil, false
	}
	id := tc.refOf(arg)
	sym := tc.symbols.Get(id)
	caps = make(map[symbols.SymbolID]struct{})
	switch classOf(sym) {
	case classUnknown:
		return nil, true
	case classTypeParam:
		param := tc.builder.Items.TypeParam(sym.TypeParam)
		for _, bound := range param.Bounds {
			bid := tc.refOf(bound)
			if tc.symbols.Get(bid).IsError() {
				return nil, true
			}
			caps[bid] = struct{}{}
			for iface := range tc.interfacesOf(bid) {
				caps[iface] = struct{}{}
			}
		}
	case classInterface:
		caps[id] = struct{}{}
		for iface := range tc.interfacesOf(id) {
			caps[iface] = struct{}{}
		}
	case classObject:
		for iface := range tc.interfacesOf(id) {
			caps[iface] = struct{}{}
		}
	default:
	}
	return caps, false
}

// interfacesOf returns every interface id implements, transitively. The
// type itself is never included.
func (tc *typeChecker) interfacesOf(id symbols.SymbolID) map[symbols.SymbolID]struct{} {
	if set, ok := tc.ifaces[id]; ok {
		return set
	}
	set := make(map[symbols.SymbolID]struct{})
	tc.ifaces[id] = set // циклы интерфейсов обрываются здесь
	sym := tc.symbols.Get(id)
	if sym == nil || sym.Kind != symbols.SymbolType {
		return set
	}
	obj, ok := tc.builder.Items.Object(sym.Item)
	if !ok {
		return set
	}
	for _, impl := range obj.Implements {
		iid := tc.refOf(impl)
		if iid == id || classOf(tc.symbols.Get(iid)) != classInterface {
			continue
		}
		set[iid] = struct{}{}
		for t := range tc.interfacesOf(iid) {
			if t != id {
				set[t] = struct{}{}
			}
		}
	}
	return set
}
