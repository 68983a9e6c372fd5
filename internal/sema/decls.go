package sema

import (
	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/source"
	"bgql/internal/symbols"
)

// checkFields validates a field list: duplicates, types, arguments,
// defaults and directives.
func (tc *typeChecker) checkFields(owner string, fields []ast.FieldID, pos position, loc ast.LocationMask) {
	seen := make(map[string]source.Span, len(fields))
	for _, fid := range fields {
		f := tc.builder.Fields.Get(fid)
		if f == nil {
			continue
		}
		name := tc.builder.Name(f.Name)
		if prev, dup := seen[name]; dup {
			tc.reportWithNote(diag.SemaDuplicateField, f.NameSpan, prev, "first declared here",
				"field `%s` is declared twice in `%s`", name, owner)
		} else {
			seen[name] = f.NameSpan
		}
		tc.checkTypeRef(f.Type, pos)
		tc.checkDirectives(f.Directives, loc)
		if pos == posInput {
			tc.checkConstraints(f.Directives, f.Type)
		}
		tc.checkDefault(f, owner+"."+name)
		tc.checkArgs(owner+"."+name, f.Args)
	}
}

func (tc *typeChecker) checkArgs(owner string, args []ast.FieldID) {
	seen := make(map[string]source.Span, len(args))
	for _, aid := range args {
		arg := tc.builder.Fields.Get(aid)
		if arg == nil {
			continue
		}
		name := tc.builder.Name(arg.Name)
		if prev, dup := seen[name]; dup {
			tc.reportWithNote(diag.SemaDuplicateArgument, arg.NameSpan, prev, "first declared here",
				"argument `%s` is declared twice on `%s`", name, owner)
		} else {
			seen[name] = arg.NameSpan
		}
		tc.checkTypeRef(arg.Type, posInput)
		tc.checkDirectives(arg.Directives, ast.LocArgumentDefinition)
		tc.checkConstraints(arg.Directives, arg.Type)
		tc.checkDefault(arg, name)
	}
}

func (tc *typeChecker) checkDefault(f *ast.Field, what string) {
	if !f.Default.IsValid() {
		return
	}
	v := tc.builder.Values.Get(f.Default)
	if v == nil || tc.valueFits(v, f.Type) {
		return
	}
	tc.report(diag.SemaDefaultValueType, v.Span,
		"default value of `%s` must be `%s`, found %s", what, tc.typeLabel(f.Type), v.Kind)
}

func (tc *typeChecker) checkUnion(id ast.ItemID, item *ast.Item) {
	u, ok := tc.builder.Items.Union(id)
	if !ok {
		return
	}
	// обычный union принимает и объекты, и input-объекты
	allowed := func(c typeClass) bool { return c == classObject || c == classInput }
	wantLabel := "object type or input object"
	if item.Kind == ast.ItemInputUnion {
		allowed = func(c typeClass) bool { return c == classInput }
		wantLabel = "input object"
	}
	owner := tc.builder.Name(item.Name)
	type memberKey struct {
		sym  symbols.SymbolID
		args string
	}
	seen := make(map[memberKey]source.Span, len(u.Members))
	for _, m := range u.Members {
		tc.checkTypeRef(m, posNone)
		expr := tc.builder.Types.Get(m)
		if expr == nil || expr.Kind == ast.TypeInvalid {
			continue
		}
		if expr.Kind != ast.TypeNamed && expr.Kind != ast.TypeGeneric {
			tc.report(diag.SemaUnionMemberKind, expr.Span,
				"member of %s `%s` must be an %s, found `%s`", item.Kind, owner, wantLabel, tc.typeLabel(m))
			continue
		}
		sym := tc.symbolOf(m)
		if sym.IsError() {
			continue
		}
		if !allowed(classOf(sym)) {
			tc.report(diag.SemaUnionMemberKind, expr.Span,
				"member of %s `%s` must be an %s, found %s", item.Kind, owner, wantLabel, tc.describeSymbol(sym))
			continue
		}
		key := memberKey{sym: tc.refOf(m)}
		for _, arg := range expr.Args {
			key.args += tc.typeLabel(arg) + ","
		}
		if prev, dup := seen[key]; dup {
			tc.reportWithNote(diag.SemaUnionDuplicateMember, expr.Span, prev, "first listed here",
				"`%s` is listed twice in %s `%s`", tc.typeLabel(m), item.Kind, owner)
			continue
		}
		seen[key] = expr.Span
	}
}

func (tc *typeChecker) checkEnum(id ast.ItemID, item *ast.Item) {
	enum, ok := tc.builder.Items.Enum(id)
	if !ok {
		return
	}
	owner := tc.builder.Name(item.Name)
	seen := make(map[string]source.Span, len(enum.Values))
	for _, vid := range enum.Values {
		v := tc.builder.Items.EnumValue(vid)
		name := tc.builder.Name(v.Name)
		if prev, dup := seen[name]; dup {
			tc.reportWithNote(diag.SemaDuplicateEnumValue, v.Span, prev, "first declared here",
				"enum value `%s` is declared twice in `%s`", name, owner)
		} else {
			seen[name] = v.Span
		}
		tc.checkDirectives(v.Directives, ast.LocEnumValue)
		tc.checkFields(owner+"."+name, v.Fields, posInput, ast.LocInputFieldDefinition)
	}
}

func (tc *typeChecker) checkNewtype(id ast.ItemID, item *ast.Item) {
	nt, ok := tc.builder.Items.Newtype(id)
	if !ok {
		return
	}
	tc.checkTypeRef(nt.Underlying, posNone)
	tc.checkConstraints(item.Directives, nt.Underlying)
	sym := tc.symbolOf(tc.leaf(nt.Underlying))
	if sym.IsError() {
		return
	}
	switch classOf(sym) {
	case classInterface, classUnion, classInputUnion, classTypeParam, classWrapper:
		tc.report(diag.SemaNewtypeUnderlying, tc.builder.Types.Get(nt.Underlying).Span,
			"%s `%s` cannot wrap %s", item.Kind, tc.builder.Name(item.Name), tc.describeSymbol(sym))
	default:
	}
}
