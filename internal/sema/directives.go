package sema

import (
	"strconv"

	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/modules"
	"bgql/internal/source"
	"bgql/internal/symbols"
)

// DefaultDeprecationReason is used when @deprecated has no reason.
const DefaultDeprecationReason = "No longer supported"

type argSpec struct {
	name     string
	typ      ast.TypeID // объявленный тип; NoTypeID у встроенных
	scalar   string     // тип аргумента встроенной директивы
	required bool
}

type directiveSpec struct {
	name       string
	args       []argSpec
	locations  ast.LocationMask
	repeatable bool
}

func (s *directiveSpec) arg(name string) *argSpec {
	for i := range s.args {
		if s.args[i].name == name {
			return &s.args[i]
		}
	}
	return nil
}

const constraintLocations = ast.LocNewtype | ast.LocOpaque | ast.LocInputFieldDefinition | ast.LocArgumentDefinition

var builtinDirectives = map[string]*directiveSpec{
	"deprecated": {
		name:      "deprecated",
		args:      []argSpec{{name: "reason", scalar: "String"}},
		locations: ast.LocFieldDefinition | ast.LocEnumValue | ast.LocArgumentDefinition | ast.LocInputFieldDefinition,
	},
	"server": {
		name:      "server",
		locations: ast.LocFragmentDefinition,
	},
	"specifiedBy": {
		name:      "specifiedBy",
		args:      []argSpec{{name: "url", scalar: "String", required: true}},
		locations: ast.LocScalar,
	},
	"length": {
		name:      "length",
		args:      []argSpec{{name: "min", scalar: "Int"}, {name: "max", scalar: "Int"}},
		locations: constraintLocations,
	},
	"range": {
		name:      "range",
		args:      []argSpec{{name: "min", scalar: "Float"}, {name: "max", scalar: "Float"}},
		locations: constraintLocations,
	},
	"pattern": {
		name:      "pattern",
		args:      []argSpec{{name: "regex", scalar: "String", required: true}},
		locations: constraintLocations,
	},
}

// directiveSpec returns the definition behind a directive symbol.
func (tc *typeChecker) directiveSpec(id symbols.SymbolID) *directiveSpec {
	if spec, ok := tc.specs[id]; ok {
		return spec
	}
	sym := tc.symbols.Get(id)
	var spec *directiveSpec
	switch {
	case sym == nil:
	case sym.IsBuiltin():
		spec = builtinDirectives[sym.Name]
	default:
		spec = tc.declaredSpec(sym)
	}
	tc.specs[id] = spec
	return spec
}

func (tc *typeChecker) declaredSpec(sym *symbols.Symbol) *directiveSpec {
	def, ok := tc.builder.Items.DirectiveDef(sym.Item)
	if !ok {
		return nil
	}
	spec := &directiveSpec{name: sym.Name, repeatable: def.Repeatable}
	for _, loc := range def.Locations {
		if mask, ok := ast.LookupLocation(tc.builder.Name(loc.Name)); ok {
			spec.locations |= mask
		}
	}
	for _, aid := range def.Args {
		arg := tc.builder.Fields.Get(aid)
		_, nullable := tc.core(arg.Type)
		spec.args = append(spec.args, argSpec{
			name:     tc.builder.Name(arg.Name),
			typ:      arg.Type,
			required: !nullable && !arg.Default.IsValid(),
		})
	}
	return spec
}

// checkDirectives validates applications at one location. LocNone skips
// the location check.
func (tc *typeChecker) checkDirectives(apps []ast.DirectiveID, loc ast.LocationMask) {
	applied := make(map[symbols.SymbolID]source.Span, len(apps))
	for _, did := range apps {
		app := tc.builder.Directives.Get(did)
		if app == nil {
			continue
		}
		name := tc.builder.Name(app.Name)
		id, ok := tc.symbols.LookupDirective(tc.module, name)
		if !ok {
			tc.report(diag.SemaDirectiveUnknown, app.NameSpan, "unknown directive `@%s`", name)
			continue
		}
		spec := tc.directiveSpec(id)
		if spec == nil {
			continue
		}
		if loc != ast.LocNone && !spec.locations.Has(loc) {
			tc.report(diag.SemaDirectiveLocation, app.NameSpan,
				"directive `@%s` is not allowed on %s; allowed on %s", name, loc, spec.locations)
		}
		if prev, dup := applied[id]; dup && !spec.repeatable {
			tc.reportWithNote(diag.SemaDirectiveNotRepeatable, app.NameSpan, prev, "first applied here",
				"directive `@%s` is not repeatable", name)
		} else if !dup {
			applied[id] = app.NameSpan
		}
		tc.checkDirectiveArgs(app, spec)
	}
}

func (tc *typeChecker) checkDirectiveArgs(app *ast.DirectiveApp, spec *directiveSpec) {
	given := make(map[string]source.Span, len(app.Args))
	for _, arg := range app.Args {
		argName := tc.builder.Name(arg.Name)
		if prev, dup := given[argName]; dup {
			tc.reportWithNote(diag.SemaDuplicateArgument, arg.NameSpan, prev, "first given here",
				"argument `%s` is given twice to `@%s`", argName, spec.name)
			continue
		}
		given[argName] = arg.NameSpan
		want := spec.arg(argName)
		if want == nil {
			tc.report(diag.SemaDirectiveUnknownArg, arg.NameSpan, "directive `@%s` has no argument `%s`", spec.name, argName)
			continue
		}
		v := tc.builder.Values.Get(arg.Value)
		if v == nil || tc.argFits(v, want) {
			continue
		}
		expected := want.scalar
		if want.typ.IsValid() {
			expected = tc.typeLabel(want.typ)
		}
		tc.report(diag.SemaDirectiveArgType, v.Span,
			"argument `%s` of `@%s` expects %s, found %s", argName, spec.name, expected, v.Kind)
	}
	for _, want := range spec.args {
		if _, ok := given[want.name]; !ok && want.required {
			tc.report(diag.SemaDirectiveMissingArg, app.Span,
				"directive `@%s` is missing required argument `%s`", spec.name, want.name)
		}
	}
}

func (tc *typeChecker) argFits(v *ast.Value, want *argSpec) bool {
	if want.typ.IsValid() {
		return tc.valueFits(v, want.typ)
	}
	if v.Kind == ast.ValueNull {
		return !want.required
	}
	return scalarFits(v, want.scalar)
}

// checkDirectiveDef validates a `directive @name(...) on ...` declaration.
func (tc *typeChecker) checkDirectiveDef(id ast.ItemID, item *ast.Item) {
	def, ok := tc.builder.Items.DirectiveDef(id)
	if !ok {
		return
	}
	tc.checkArgs("@"+tc.builder.Name(item.Name), def.Args)
	seen := make(map[ast.LocationMask]source.Span, len(def.Locations))
	for _, loc := range def.Locations {
		name := tc.builder.Name(loc.Name)
		mask, ok := ast.LookupLocation(name)
		if !ok {
			tc.report(diag.SemaDirectiveDefInvalid, loc.Span, "unknown directive location `%s`", name)
			continue
		}
		if prev, dup := seen[mask]; dup {
			tc.reportWithNote(diag.SemaDirectiveDefInvalid, loc.Span, prev, "first listed here",
				"directive location `%s` is listed twice", name)
			continue
		}
		seen[mask] = loc.Span
	}
}

// checkConstraints checks @length, @pattern and @range against the type
// they constrain.
func (tc *typeChecker) checkConstraints(apps []ast.DirectiveID, typ ast.TypeID) {
	for _, did := range apps {
		app := tc.builder.Directives.Get(did)
		if app == nil {
			continue
		}
		name := tc.builder.Name(app.Name)
		id, ok := tc.symbols.LookupDirective(tc.module, name)
		if !ok || !tc.symbols.Get(id).IsBuiltin() {
			continue
		}
		switch name {
		case "length":
			if !tc.isListType(typ) {
				tc.requireBase(app, typ, stringLike, "a String-like")
			}
		case "pattern":
			tc.requireBase(app, typ, stringLike, "a String-like")
		case "range":
			tc.requireBase(app, typ, numeric, "a numeric")
		default:
			continue
		}
		tc.checkMinMax(app, name)
	}
}

func (tc *typeChecker) isListType(typ ast.TypeID) bool {
	core, _ := tc.core(typ)
	expr := tc.builder.Types.Get(core)
	return expr != nil && expr.Kind == ast.TypeList
}

func (tc *typeChecker) requireBase(app *ast.DirectiveApp, typ ast.TypeID, ok func(*symbols.Symbol) bool, label string) {
	core, _ := tc.core(typ)
	expr := tc.builder.Types.Get(core)
	if expr == nil || expr.Kind == ast.TypeInvalid {
		return
	}
	sym := tc.symbolOf(core)
	if sym != nil {
		if sym.IsError() {
			return
		}
		if base := tc.newtypeBase(sym); base != nil {
			sym = base
		} else if classOf(sym) == classNewtype {
			return // цикл уже сообщён
		}
		if sym.IsError() || ok(sym) {
			return
		}
	}
	tc.report(diag.SemaConstraintMismatch, app.NameSpan,
		"`@%s` requires %s type, found `%s`", tc.builder.Name(app.Name), label, tc.typeLabel(typ))
}

func stringLike(sym *symbols.Symbol) bool {
	switch classOf(sym) {
	case classScalar:
		return !sym.IsBuiltin() || sym.Name == "String" || sym.Name == "ID"
	case classTypeParam:
		return true
	default:
		return false
	}
}

func numeric(sym *symbols.Symbol) bool {
	switch classOf(sym) {
	case classScalar:
		return !sym.IsBuiltin() || sym.Name == "Int" || sym.Name == "Float"
	case classTypeParam:
		return true
	default:
		return false
	}
}

// checkMinMax rejects an empty range such as @length(min: 5, max: 1).
func (tc *typeChecker) checkMinMax(app *ast.DirectiveApp, name string) {
	var lo, hi float64
	var hasLo, hasHi bool
	for _, arg := range app.Args {
		v := tc.builder.Values.Get(arg.Value)
		if v == nil || (v.Kind != ast.ValueInt && v.Kind != ast.ValueFloat) {
			continue
		}
		f, err := strconv.ParseFloat(v.Raw, 64)
		if err != nil {
			continue
		}
		switch tc.builder.Name(arg.Name) {
		case "min":
			lo, hasLo = f, true
		case "max":
			hi, hasHi = f, true
		}
	}
	if hasLo && hasHi && lo > hi {
		tc.report(diag.SemaConstraintMismatch, app.Span, "`@%s` has min greater than max", name)
	}
}

// Deprecation returns the reason given by a built-in @deprecated among dirs,
// resolving directive names from module.
func Deprecation(b *ast.Builder, t *symbols.Table, module modules.ModuleID, dirs []ast.DirectiveID) (string, bool) {
	app := findBuiltin(b, t, module, dirs, "deprecated")
	if app == nil {
		return "", false
	}
	for _, arg := range app.Args {
		if b.Name(arg.Name) != "reason" {
			continue
		}
		if v := b.Values.Get(arg.Value); v != nil && v.Kind == ast.ValueString {
			return v.Str, true
		}
	}
	return DefaultDeprecationReason, true
}

// HasBuiltin reports whether dirs apply the built-in directive name.
func HasBuiltin(b *ast.Builder, t *symbols.Table, module modules.ModuleID, dirs []ast.DirectiveID, name string) bool {
	return findBuiltin(b, t, module, dirs, name) != nil
}

func findBuiltin(b *ast.Builder, t *symbols.Table, module modules.ModuleID, dirs []ast.DirectiveID, name string) *ast.DirectiveApp {
	for _, did := range dirs {
		app := b.Directives.Get(did)
		if app == nil || b.Name(app.Name) != name {
			continue
		}
		if id, ok := t.LookupDirective(module, name); ok && t.Get(id).IsBuiltin() {
			return app
		}
	}
	return nil
}
