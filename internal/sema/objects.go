package sema

import (
	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/symbols"
)

func (tc *typeChecker) checkObject(id ast.ItemID, item *ast.Item) {
	obj, ok := tc.builder.Items.Object(id)
	if !ok {
		return
	}
	owner := tc.builder.Name(item.Name)
	tc.checkTypeParams(obj.TypeParams)

	self := tc.symbols.ItemSymbol(id)
	direct := make(map[symbols.SymbolID]ast.TypeID, len(obj.Implements))
	for _, impl := range obj.Implements {
		tc.checkTypeRef(impl, posNone)
		iid := tc.refOf(impl)
		isym := tc.symbols.Get(iid)
		switch {
		case isym.IsError():
			continue
		case classOf(isym) != classInterface:
			tc.report(diag.SemaImplementsNotInterface, tc.builder.Types.Get(impl).Span,
				"`%s` cannot implement %s: only interfaces can be implemented", owner, tc.describeSymbol(isym))
			continue
		}
		if prev, dup := direct[iid]; dup {
			tc.reportWithNote(diag.SemaDuplicateImplements, tc.builder.Types.Get(impl).Span,
				tc.builder.Types.Get(prev).Span, "first listed here",
				"interface `%s` is implemented twice", tc.nameOf(isym))
			continue
		}
		direct[iid] = impl
	}

	tc.checkFields(owner, obj.Fields, posOutput, ast.LocFieldDefinition)

	for _, impl := range obj.Implements {
		iid := tc.refOf(impl)
		if direct[iid] != impl || iid == self {
			continue
		}
		tc.checkConformance(owner, obj, impl)
		for t := range tc.interfacesOf(iid) {
			if _, ok := direct[t]; ok || t == self {
				continue
			}
			direct[t] = impl // одно сообщение на интерфейс
			tc.report(diag.SemaMissingTransitiveInterface, tc.builder.Types.Get(impl).Span,
				"`%s` must also implement `%s` because `%s` implements it",
				owner, tc.nameOf(tc.symbols.Get(t)), tc.nameOf(tc.symbols.Get(iid)))
		}
	}
}

func (tc *typeChecker) checkInput(id ast.ItemID, item *ast.Item) {
	obj, ok := tc.builder.Items.Object(id)
	if !ok {
		return
	}
	tc.checkTypeParams(obj.TypeParams)
	tc.checkFields(tc.builder.Name(item.Name), obj.Fields, posInput, ast.LocInputFieldDefinition)
}

func (tc *typeChecker) checkTypeParams(params []ast.TypeParamID) {
	for _, pid := range params {
		param := tc.builder.Items.TypeParam(pid)
		for _, bound := range param.Bounds {
			tc.checkTypeRef(bound, posNone)
			bsym := tc.symbols.Get(tc.refOf(bound))
			if bsym.IsError() || classOf(bsym) == classInterface {
				continue
			}
			tc.report(diag.SemaBoundNotInterface, tc.builder.Types.Get(bound).Span,
				"bound of type parameter `%s` must be an interface, found %s",
				tc.builder.Name(param.Name), tc.describeSymbol(bsym))
		}
	}
}

// checkConformance verifies that obj provides every field of the interface
// named by impl with a compatible type and the same arguments.
func (tc *typeChecker) checkConformance(owner string, obj *ast.ObjectDecl, impl ast.TypeID) {
	isym := tc.symbols.Get(tc.refOf(impl))
	iobj, ok := tc.builder.Items.Object(isym.Item)
	if !ok {
		return
	}
	subst := tc.substitution(impl, iobj.TypeParams)
	iname := tc.nameOf(isym)
	implSpan := tc.builder.Types.Get(impl).Span
	for _, ifid := range iobj.Fields {
		ifield := tc.builder.Fields.Get(ifid)
		name := tc.builder.Name(ifield.Name)
		field := tc.findField(obj.Fields, name)
		if field == nil {
			tc.reportWithNote(diag.SemaMissingInterfaceField, implSpan, ifield.NameSpan, "declared here",
				"`%s` is missing field `%s` required by interface `%s`", owner, name, iname)
			continue
		}
		if !tc.subtype(field.Type, ifield.Type, subst) {
			tc.reportWithNote(diag.SemaIncompatibleField, tc.builder.Types.Get(field.Type).Span, ifield.NameSpan, "declared here",
				"field `%s.%s` has type `%s`, which is not compatible with `%s` from interface `%s`",
				owner, name, tc.typeLabel(field.Type), tc.typeLabel(ifield.Type), iname)
		}
		tc.checkConformingArgs(owner, name, iname, field, ifield, subst)
	}
}

func (tc *typeChecker) checkConformingArgs(owner, field, iname string, f, iface *ast.Field, subst map[symbols.SymbolID]ast.TypeID) {
	for _, iaid := range iface.Args {
		iarg := tc.builder.Fields.Get(iaid)
		argName := tc.builder.Name(iarg.Name)
		arg := tc.findField(f.Args, argName)
		switch {
		case arg == nil:
			tc.reportWithNote(diag.SemaIncompatibleField, f.NameSpan, iarg.NameSpan, "declared here",
				"field `%s.%s` is missing argument `%s` required by interface `%s`", owner, field, argName, iname)
		case !tc.typeEqual(arg.Type, iarg.Type, subst):
			tc.reportWithNote(diag.SemaIncompatibleField, tc.builder.Types.Get(arg.Type).Span, iarg.NameSpan, "declared here",
				"argument `%s` of `%s.%s` has type `%s`, interface `%s` declares `%s`",
				argName, owner, field, tc.typeLabel(arg.Type), iname, tc.typeLabel(iarg.Type))
		}
	}
	for _, aid := range f.Args {
		arg := tc.builder.Fields.Get(aid)
		argName := tc.builder.Name(arg.Name)
		if tc.findField(iface.Args, argName) != nil || arg.Default.IsValid() {
			continue
		}
		if _, nullable := tc.core(arg.Type); !nullable {
			tc.report(diag.SemaIncompatibleField, arg.NameSpan,
				"additional argument `%s` of `%s.%s` must be optional or have a default to satisfy interface `%s`",
				argName, owner, field, iname)
		}
	}
}

// substitution maps the type parameters of a generic interface to the
// arguments written at impl.
func (tc *typeChecker) substitution(impl ast.TypeID, params []ast.TypeParamID) map[symbols.SymbolID]ast.TypeID {
	expr := tc.builder.Types.Get(impl)
	if expr == nil || len(params) == 0 {
		return nil
	}
	subst := make(map[symbols.SymbolID]ast.TypeID, len(params))
	for i, pid := range params {
		if i < len(expr.Args) {
			subst[tc.symbols.TypeParamSymbol(pid)] = expr.Args[i]
		}
	}
	return subst
}

// substitute replaces a type parameter reference by its argument.
func (tc *typeChecker) substitute(id ast.TypeID, subst map[symbols.SymbolID]ast.TypeID) ast.TypeID {
	if len(subst) == 0 {
		return id
	}
	if arg, ok := subst[tc.refOf(id)]; ok {
		return arg
	}
	return id
}

// subtype reports whether a field of type sub may implement a field of
// type sup: non-null narrows nullable, implementers narrow interfaces and
// union members narrow unions. Lists and tuples are compared element-wise.
func (tc *typeChecker) subtype(sub, sup ast.TypeID, subst map[symbols.SymbolID]ast.TypeID) bool {
	sup = tc.substitute(sup, subst)
	subCore, subNull := tc.core(sub)
	supCore, supNull := tc.core(sup)
	if s := tc.substitute(supCore, subst); s != supCore {
		var n bool
		supCore, n = tc.core(s)
		supNull = supNull || n
	}
	if subNull && !supNull {
		return false
	}
	subExpr, supExpr := tc.builder.Types.Get(subCore), tc.builder.Types.Get(supCore)
	if subExpr == nil || supExpr == nil {
		return true
	}
	if tc.unresolved(subCore) || tc.unresolved(supCore) {
		return true
	}
	switch supExpr.Kind {
	case ast.TypeList:
		if subExpr.Kind != ast.TypeList {
			return false
		}
		if len(subExpr.Args) == 0 || len(supExpr.Args) == 0 {
			return true
		}
		return tc.subtype(subExpr.Args[0], supExpr.Args[0], subst)
	case ast.TypeTuple:
		if subExpr.Kind != ast.TypeTuple || len(subExpr.Args) != len(supExpr.Args) {
			return false
		}
		for i := range supExpr.Args {
			if !tc.subtype(subExpr.Args[i], supExpr.Args[i], subst) {
				return false
			}
		}
		return true
	case ast.TypeNamed, ast.TypeGeneric:
	default:
		return true
	}
	if subExpr.Kind != ast.TypeNamed && subExpr.Kind != ast.TypeGeneric {
		return false
	}
	subID, supID := tc.refOf(subCore), tc.refOf(supCore)
	if subID == supID {
		return tc.argsEqual(subExpr, supExpr, subst)
	}
	switch classOf(tc.symbols.Get(supID)) {
	case classInterface:
		if _, ok := tc.capabilitiesOf(subCore)[supID]; ok {
			return true
		}
	case classUnion:
		return tc.unionHasMember(supID, subID)
	default:
	}
	return false
}

func (tc *typeChecker) capabilitiesOf(id ast.TypeID) map[symbols.SymbolID]struct{} {
	caps, _ := tc.capabilities(id)
	return caps
}

// typeEqual is invariant comparison, used for arguments.
func (tc *typeChecker) typeEqual(a, b ast.TypeID, subst map[symbols.SymbolID]ast.TypeID) bool {
	aCore, aNull := tc.core(a)
	bCore, bNull := tc.core(tc.substitute(b, subst))
	if s := tc.substitute(bCore, subst); s != bCore {
		var n bool
		bCore, n = tc.core(s)
		bNull = bNull || n
	}
	if aNull != bNull {
		return false
	}
	if tc.unresolved(aCore) || tc.unresolved(bCore) {
		return true
	}
	ae, be := tc.builder.Types.Get(aCore), tc.builder.Types.Get(bCore)
	if ae == nil || be == nil {
		return true
	}
	if ae.Kind != be.Kind || len(ae.Args) != len(be.Args) {
		return false
	}
	if (ae.Kind == ast.TypeNamed || ae.Kind == ast.TypeGeneric) && tc.refOf(aCore) != tc.refOf(bCore) {
		return false
	}
	return tc.argsEqual(ae, be, subst)
}

func (tc *typeChecker) argsEqual(a, b *ast.TypeExpr, subst map[symbols.SymbolID]ast.TypeID) bool {
	if len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !tc.typeEqual(a.Args[i], b.Args[i], subst) {
			return false
		}
	}
	return true
}

// unresolved reports a named type bound to the error symbol.
func (tc *typeChecker) unresolved(id ast.TypeID) bool {
	expr := tc.builder.Types.Get(id)
	if expr == nil || (expr.Kind != ast.TypeNamed && expr.Kind != ast.TypeGeneric) {
		return expr != nil && expr.Kind == ast.TypeInvalid
	}
	return tc.symbols.Get(tc.refOf(id)).IsError()
}

// checkInterfaceCycles rejects interfaces that implement themselves through
// a chain.
func (tc *typeChecker) checkInterfaceCycles() {
	tc.findCycles(ast.ItemInterface, func(id ast.ItemID) []ast.ItemID {
		obj, ok := tc.builder.Items.Object(id)
		if !ok {
			return nil
		}
		var next []ast.ItemID
		for _, impl := range obj.Implements {
			if sym := tc.symbols.Get(tc.refOf(impl)); classOf(sym) == classInterface {
				next = append(next, sym.Item)
			}
		}
		return next
	}, func(path []ast.ItemID) {
		tc.report(diag.SemaInterfaceCycle, tc.builder.Items.Get(path[0]).NameSpan,
			"interface implementation cycle: %s", tc.chain(path))
	})
}
