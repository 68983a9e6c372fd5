package sema

import (
	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/modules"
	"bgql/internal/symbols"
)

// Options configure a semantic pass over a bound module graph.
type Options struct {
	Reporter diag.Reporter
	Symbols  *symbols.Table
	// NullableDefault switches to GraphQL compatibility: bare types are
	// nullable and a trailing `!` marks non-null.
	NullableDefault bool
	// WarnRedundantBang reports `!` when types are already non-null.
	WarnRedundantBang bool
	// WarnDeprecatedUsage reports fragments that select deprecated fields.
	WarnDeprecatedUsage bool
}

// DefaultOptions enables every lint.
func DefaultOptions() Options {
	return Options{WarnRedundantBang: true, WarnDeprecatedUsage: true}
}

// Roots are the schema operation types, explicit or defaulted by name.
type Roots struct {
	Query        symbols.SymbolID
	Mutation     symbols.SymbolID
	Subscription symbols.SymbolID
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	Roots Roots
}

// Check validates the bound declarations. It never mutates the AST or the
// symbol table; every finding goes to opts.Reporter.
func Check(builder *ast.Builder, g *modules.Graph, opts Options) Result {
	var res Result
	if builder == nil || g == nil || opts.Symbols == nil {
		return res
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	tc := typeChecker{
		builder:  builder,
		graph:    g,
		reporter: opts.Reporter,
		symbols:  opts.Symbols,
		opts:     opts,
		result:   &res,
		ifaces:   make(map[symbols.SymbolID]map[symbols.SymbolID]struct{}),
		specs:    make(map[symbols.SymbolID]*directiveSpec),
	}
	tc.run()
	return res
}

type typeChecker struct {
	builder  *ast.Builder
	graph    *modules.Graph
	reporter diag.Reporter
	symbols  *symbols.Table
	opts     Options
	result   *Result

	module modules.ModuleID // модуль текущей декларации
	ifaces map[symbols.SymbolID]map[symbols.SymbolID]struct{}
	specs  map[symbols.SymbolID]*directiveSpec
}

func (tc *typeChecker) run() {
	tc.checkInterfaceCycles()
	tc.checkNewtypeCycles()
	for _, id := range tc.graph.Order() {
		tc.module = id
		for _, itemID := range tc.graph.Get(id).Items {
			tc.checkItem(itemID)
		}
	}
	tc.checkFragmentCycles()
	tc.checkSchema()
}

// checkItem dispatches on the declaration kind; every kind is listed.
func (tc *typeChecker) checkItem(id ast.ItemID) {
	item := tc.builder.Items.Get(id)
	if item == nil {
		return
	}
	tc.checkDirectives(item.Directives, ast.ItemLocation(item.Kind))
	switch item.Kind {
	case ast.ItemObject, ast.ItemInterface:
		tc.checkObject(id, item)
	case ast.ItemInput:
		tc.checkInput(id, item)
	case ast.ItemUnion, ast.ItemInputUnion:
		tc.checkUnion(id, item)
	case ast.ItemEnum, ast.ItemInputEnum:
		tc.checkEnum(id, item)
	case ast.ItemNewtype, ast.ItemOpaque:
		tc.checkNewtype(id, item)
	case ast.ItemDirective:
		tc.checkDirectiveDef(id, item)
	case ast.ItemFragment:
		tc.checkFragment(id, item)
	case ast.ItemScalar, ast.ItemSchema, ast.ItemMod, ast.ItemUse, ast.ItemInvalid:
	}
}
