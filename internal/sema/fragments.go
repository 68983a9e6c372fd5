package sema

import (
	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/symbols"
)

const typenameField = "__typename"

func (tc *typeChecker) checkFragment(id ast.ItemID, item *ast.Item) {
	frag, ok := tc.builder.Items.Fragment(id)
	if !ok {
		return
	}
	tc.checkTypeRef(frag.OnType, posNone)
	target := tc.symbolOf(frag.OnType)
	if target != nil && !target.IsError() && !classOf(target).composite() {
		tc.report(diag.SemaFragmentTarget, tc.builder.Types.Get(frag.OnType).Span,
			"fragment `%s` cannot target %s; expected an object, interface or union", tc.builder.Name(item.Name), tc.describeSymbol(target))
		target = nil
	}
	tc.checkSelections(frag.Selections, target)
}

// checkSelections validates a selection set against owner. A nil owner
// (unresolved or invalid target) still checks spreads and directives.
func (tc *typeChecker) checkSelections(sels []ast.SelectionID, owner *symbols.Symbol) {
	if owner.IsError() {
		owner = nil
	}
	for _, sid := range sels {
		sel := tc.builder.Selections.Get(sid)
		if sel == nil {
			continue
		}
		switch sel.Kind {
		case ast.SelField:
			tc.checkDirectives(sel.Directives, ast.LocField)
			tc.checkFieldSelection(sel, owner)
		case ast.SelSpread:
			tc.checkDirectives(sel.Directives, ast.LocFragmentSpread)
			name := tc.builder.Name(sel.Name)
			if _, ok := tc.symbols.LookupFragment(tc.module, name); !ok {
				tc.report(diag.SemaUndefinedFrag, sel.NameSpan, "unknown fragment `%s`", name)
			}
		case ast.SelInline:
			tc.checkDirectives(sel.Directives, ast.LocInlineFragment)
			cond := owner
			if sel.TypeCond.IsValid() {
				tc.checkTypeRef(sel.TypeCond, posNone)
				cond = tc.symbolOf(sel.TypeCond)
				if cond != nil && !cond.IsError() && !classOf(cond).composite() {
					tc.report(diag.SemaFragmentTarget, tc.builder.Types.Get(sel.TypeCond).Span,
						"inline fragment cannot target %s", tc.describeSymbol(cond))
					cond = nil
				}
			}
			tc.checkSelections(sel.Selections, cond)
		}
	}
}

func (tc *typeChecker) checkFieldSelection(sel *ast.Selection, owner *symbols.Symbol) {
	name := tc.builder.Name(sel.Name)
	if owner == nil {
		tc.checkSelections(sel.Selections, nil)
		return
	}
	if name == typenameField {
		if len(sel.Selections) > 0 {
			tc.report(diag.SemaFragmentSelection, sel.NameSpan, "field `%s` cannot have a selection of subfields", name)
		}
		return
	}
	if classOf(owner) == classUnion {
		tc.report(diag.SemaFragmentUnknownField, sel.NameSpan,
			"cannot select field `%s` directly on union `%s`; use an inline fragment", name, tc.nameOf(owner))
		return
	}
	field := tc.findField(tc.objectFields(owner), name)
	if field == nil {
		tc.report(diag.SemaFragmentUnknownField, sel.NameSpan, "type `%s` has no field `%s`", tc.nameOf(owner), name)
		return
	}
	qualified := tc.nameOf(owner) + "." + name
	for _, arg := range sel.Args {
		argName := tc.builder.Name(arg.Name)
		if tc.findField(field.Args, argName) == nil {
			tc.report(diag.SemaFragmentUnknownField, arg.NameSpan, "field `%s` has no argument `%s`", qualified, argName)
		}
	}
	if tc.opts.WarnDeprecatedUsage {
		if reason, ok := Deprecation(tc.builder, tc.symbols, tc.symbols.ModuleOf(owner.Item), field.Directives); ok {
			tc.warn(diag.SemaDeprecatedUsage, sel.NameSpan, "field `%s` is deprecated: %s", qualified, reason)
		}
	}

	leaf := tc.symbolOf(tc.leaf(field.Type))
	if leaf == nil || leaf.IsError() || classOf(leaf) == classTypeParam {
		tc.checkSelections(sel.Selections, nil)
		return
	}
	composite := classOf(leaf).composite()
	switch {
	case composite && len(sel.Selections) == 0:
		tc.report(diag.SemaFragmentSelection, sel.NameSpan,
			"field `%s` of type `%s` must have a selection of subfields", qualified, tc.typeLabel(field.Type))
	case !composite && len(sel.Selections) > 0:
		tc.report(diag.SemaFragmentSelection, sel.NameSpan,
			"field `%s` of type `%s` cannot have a selection of subfields", qualified, tc.typeLabel(field.Type))
	case composite:
		tc.checkSelections(sel.Selections, leaf)
	}
}

// unionHasMember reports whether member is listed in the union.
func (tc *typeChecker) unionHasMember(union, member symbols.SymbolID) bool {
	sym := tc.symbols.Get(union)
	u, ok := tc.builder.Items.Union(sym.Item)
	if !ok {
		return false
	}
	for _, m := range u.Members {
		if tc.refOf(m) == member {
			return true
		}
	}
	return false
}
