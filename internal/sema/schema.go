package sema

import (
	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/modules"
	"bgql/internal/source"
	"bgql/internal/symbols"
)

// defaultRoots are used when no schema block is declared.
var defaultRoots = [...]struct{ op, name string }{
	{"query", "Query"},
	{"mutation", "Mutation"},
	{"subscription", "Subscription"},
}

func (tc *typeChecker) rootSlot(op string) *symbols.SymbolID {
	switch op {
	case "query":
		return &tc.result.Roots.Query
	case "mutation":
		return &tc.result.Roots.Mutation
	case "subscription":
		return &tc.result.Roots.Subscription
	}
	return nil
}

// checkSchema validates the schema block and fills Result.Roots.
func (tc *typeChecker) checkSchema() {
	var first ast.ItemID
	for _, mid := range tc.graph.Order() {
		for _, id := range tc.graph.Get(mid).Items {
			item := tc.builder.Items.Get(id)
			if item == nil || item.Kind != ast.ItemSchema {
				continue
			}
			if first.IsValid() {
				tc.reportWithNote(diag.SemaSchemaDuplicate, item.Span, tc.builder.Items.Get(first).Span, "first defined here",
					"schema is defined more than once")
				continue
			}
			first = id
			tc.module = mid
			tc.checkSchemaOps(id)
		}
	}
	if first.IsValid() {
		return
	}
	for _, root := range defaultRoots {
		id, ok := tc.symbols.Lookup(modules.RootModule, modules.NSType, root.name)
		if ok && classOf(tc.symbols.Get(id)) == classObject {
			*tc.rootSlot(root.op) = id
		}
	}
}

func (tc *typeChecker) checkSchemaOps(id ast.ItemID) {
	schema, ok := tc.builder.Items.Schema(id)
	if !ok {
		return
	}
	seen := make(map[string]source.Span, len(schema.Ops))
	for _, op := range schema.Ops {
		name := tc.builder.Name(op.Op)
		slot := tc.rootSlot(name)
		if slot == nil {
			tc.report(diag.SemaSchemaRoot, op.OpSpan,
				"unknown schema operation `%s`; expected query, mutation or subscription", name)
			continue
		}
		if prev, dup := seen[name]; dup {
			tc.reportWithNote(diag.SemaSchemaDuplicate, op.OpSpan, prev, "first defined here",
				"schema operation `%s` is defined twice", name)
			continue
		}
		seen[name] = op.OpSpan
		tc.checkTypeRef(op.Type, posOutput)
		sym := tc.symbolOf(op.Type)
		if sym == nil {
			if expr := tc.builder.Types.Get(op.Type); expr != nil && expr.Kind != ast.TypeInvalid {
				tc.report(diag.SemaSchemaRoot, expr.Span,
					"schema root `%s` must be an object type, found `%s`", name, tc.typeLabel(op.Type))
			}
			continue
		}
		if sym.IsError() {
			continue
		}
		if classOf(sym) != classObject {
			tc.report(diag.SemaSchemaRoot, tc.builder.Types.Get(op.Type).Span,
				"schema root `%s` must be an object type, found %s", name, tc.describeSymbol(sym))
			continue
		}
		*slot = tc.refOf(op.Type)
	}
}
