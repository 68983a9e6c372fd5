package sema

import (
	"strings"

	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/symbols"
)

type color uint8

const (
	white color = iota
	gray
	black
)

// findCycles runs a three-color DFS over the items of the given kinds in
// module order. Each cycle is reported once, starting at the node the back
// edge points to; path ends with its first element repeated.
func (tc *typeChecker) findCycles(kind ast.ItemKind, next func(ast.ItemID) []ast.ItemID, report func(path []ast.ItemID)) {
	colors := make(map[ast.ItemID]color)
	var stack []ast.ItemID
	var visit func(id ast.ItemID)
	visit = func(id ast.ItemID) {
		colors[id] = gray
		stack = append(stack, id)
		for _, to := range next(id) {
			switch colors[to] {
			case white:
				visit(to)
			case gray:
				start := len(stack) - 1
				for stack[start] != to {
					start--
				}
				path := append([]ast.ItemID(nil), stack[start:]...)
				report(append(path, to))
			case black:
			}
		}
		stack = stack[:len(stack)-1]
		colors[id] = black
	}
	for _, mid := range tc.graph.Order() {
		for _, id := range tc.graph.Get(mid).Items {
			item := tc.builder.Items.Get(id)
			if item == nil || !sameFamily(item.Kind, kind) || colors[id] != white {
				continue
			}
			visit(id)
		}
	}
}

// sameFamily treats newtype and opaque as one kind.
func sameFamily(a, b ast.ItemKind) bool {
	if a == ast.ItemOpaque {
		a = ast.ItemNewtype
	}
	if b == ast.ItemOpaque {
		b = ast.ItemNewtype
	}
	return a == b
}

// chain renders a cycle as "A -> B -> A".
func (tc *typeChecker) chain(path []ast.ItemID) string {
	names := make([]string, len(path))
	for i, id := range path {
		item := tc.builder.Items.Get(id)
		names[i] = tc.graph.Qualify(tc.symbols.ModuleOf(id), tc.builder.Name(item.Name))
	}
	return strings.Join(names, " -> ")
}

func (tc *typeChecker) checkNewtypeCycles() {
	tc.findCycles(ast.ItemNewtype, func(id ast.ItemID) []ast.ItemID {
		nt, ok := tc.builder.Items.Newtype(id)
		if !ok {
			return nil
		}
		sym := tc.symbolOf(nt.Underlying)
		if classOf(sym) != classNewtype || sym.Kind != symbols.SymbolType {
			return nil
		}
		return []ast.ItemID{sym.Item}
	}, func(path []ast.ItemID) {
		tc.report(diag.SemaNewtypeCycle, tc.builder.Items.Get(path[0]).NameSpan,
			"cyclic newtype chain %s", tc.chain(path))
	})
}

func (tc *typeChecker) checkFragmentCycles() {
	tc.findCycles(ast.ItemFragment, func(id ast.ItemID) []ast.ItemID {
		frag, ok := tc.builder.Items.Fragment(id)
		if !ok {
			return nil
		}
		var next []ast.ItemID
		tc.walkSpreads(frag.Selections, func(sel *ast.Selection) {
			if fid, ok := tc.symbols.LookupFragment(tc.symbols.ModuleOf(id), tc.builder.Name(sel.Name)); ok {
				next = append(next, tc.symbols.Get(fid).Item)
			}
		})
		return next
	}, func(path []ast.ItemID) {
		tc.report(diag.SemaFragmentCycle, tc.builder.Items.Get(path[0]).NameSpan,
			"fragment spread cycle: %s", tc.chain(path))
	})
}

func (tc *typeChecker) walkSpreads(sels []ast.SelectionID, fn func(*ast.Selection)) {
	for _, sid := range sels {
		sel := tc.builder.Selections.Get(sid)
		if sel == nil {
			continue
		}
		if sel.Kind == ast.SelSpread {
			fn(sel)
		}
		tc.walkSpreads(sel.Selections, fn)
	}
}
