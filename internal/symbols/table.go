package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"bgql/internal/ast"
	"bgql/internal/modules"
)

type Hints struct{ Symbols uint }

// Table is the binder output: symbols, per-module scopes and the
// resolution of every type reference.
type Table struct {
	symbols []Symbol // 1-based
	Error   SymbolID

	prelude    map[string]SymbolID
	directives map[string]SymbolID // built-in directives
	scopes     []map[modules.DeclKey]SymbolID

	refs       map[ast.TypeID]SymbolID
	items      map[ast.ItemID]SymbolID
	params     map[ast.TypeParamID]SymbolID
	itemModule map[ast.ItemID]modules.ModuleID
	modSyms    map[modules.ModuleID]SymbolID

	graph *modules.Graph
}

func NewTable(h Hints, g *modules.Graph) *Table {
	capHint, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	t := &Table{
		symbols:    make([]Symbol, 0, capHint),
		prelude:    make(map[string]SymbolID),
		directives: make(map[string]SymbolID),
		refs:       make(map[ast.TypeID]SymbolID),
		items:      make(map[ast.ItemID]SymbolID),
		params:     make(map[ast.TypeParamID]SymbolID),
		itemModule: make(map[ast.ItemID]modules.ModuleID),
		modSyms:    make(map[modules.ModuleID]SymbolID),
		graph:      g,
	}
	t.Error = t.New(Symbol{Name: "<error>", Kind: SymbolError, Module: modules.NoModule, Target: modules.NoModule})
	for _, e := range builtinPreludeEntries() {
		t.prelude[e.Name] = t.New(Symbol{
			Name: e.Name, Kind: e.Kind, Flags: e.Flags, Arity: e.Arity,
			Module: modules.NoModule, Target: modules.NoModule, Visibility: ast.VisPublic,
		})
	}
	for _, name := range BuiltinDirectives {
		t.directives[name] = t.New(Symbol{
			Name: name, Kind: SymbolDirective, Flags: SymbolFlagBuiltin,
			Module: modules.NoModule, Target: modules.NoModule, Visibility: ast.VisPublic,
		})
	}
	if g != nil {
		t.scopes = make([]map[modules.DeclKey]SymbolID, len(g.Modules))
		for i := range t.scopes {
			t.scopes[i] = make(map[modules.DeclKey]SymbolID)
		}
	}
	return t
}

func (t *Table) New(sym Symbol) SymbolID {
	t.symbols = append(t.symbols, sym)
	return SymbolID(len(t.symbols)) //nolint:gosec // bounded by the number of declarations
}

// Get returns nil for NoSymbolID.
func (t *Table) Get(id SymbolID) *Symbol {
	if id == NoSymbolID || int(id) > len(t.symbols) {
		return nil
	}
	return &t.symbols[id-1]
}

func (t *Table) Len() int {
	return len(t.symbols)
}

func (t *Table) Graph() *modules.Graph {
	return t.graph
}

// Prelude returns the built-in type called name.
func (t *Table) Prelude(name string) (SymbolID, bool) {
	id, ok := t.prelude[name]
	return id, ok
}

// Resolved returns the symbol a named or generic type expression refers to.
// List, Option and tuple expressions have none.
func (t *Table) Resolved(id ast.TypeID) SymbolID {
	return t.refs[id]
}

// ItemSymbol returns the canonical symbol of a declaration; duplicates and
// items without a namespace have none.
func (t *Table) ItemSymbol(id ast.ItemID) SymbolID {
	return t.items[id]
}

func (t *Table) TypeParamSymbol(id ast.TypeParamID) SymbolID {
	return t.params[id]
}

// ModuleOf returns the module an item is declared in.
func (t *Table) ModuleOf(id ast.ItemID) modules.ModuleID {
	if m, ok := t.itemModule[id]; ok {
		return m
	}
	return modules.NoModule
}

// QualifiedName is the name shown to consumers: `a::User` outside the root.
func (t *Table) QualifiedName(id SymbolID) string {
	sym := t.Get(id)
	if sym == nil {
		return ""
	}
	if sym.Kind != SymbolType || t.graph == nil {
		return sym.Name
	}
	return t.graph.Qualify(sym.Module, sym.Name)
}

// Lookup resolves a bare name from module in namespace ns: module
// declarations, then explicit imports, then glob imports. Built-ins are not
// consulted.
func (t *Table) Lookup(module modules.ModuleID, ns modules.Namespace, name string) (SymbolID, bool) {
	key := modules.DeclKey{NS: ns, Name: name}
	if int(module) < len(t.scopes) {
		if id, ok := t.scopes[module][key]; ok && id.IsValid() {
			return id, true
		}
	}
	if t.graph == nil {
		return NoSymbolID, false
	}
	mod := t.graph.Get(module)
	if mod == nil {
		return NoSymbolID, false
	}
	for _, glob := range []bool{false, true} {
		for _, imp := range mod.Imports {
			if imp.Key == key && imp.Glob == glob {
				return t.declSymbol(imp.Decl, ns)
			}
		}
	}
	return NoSymbolID, false
}

// LookupDirective resolves `@name` from module, falling back to built-ins.
func (t *Table) LookupDirective(module modules.ModuleID, name string) (SymbolID, bool) {
	if id, ok := t.Lookup(module, modules.NSDirective, name); ok {
		return id, true
	}
	id, ok := t.directives[name]
	return id, ok
}

func (t *Table) LookupFragment(module modules.ModuleID, name string) (SymbolID, bool) {
	return t.Lookup(module, modules.NSFragment, name)
}

func (t *Table) declSymbol(ref modules.DeclRef, ns modules.Namespace) (SymbolID, bool) {
	if ns == modules.NSModule {
		id, ok := t.modSyms[ref.Target]
		return id, ok && id.IsValid()
	}
	id, ok := t.items[ref.Item]
	return id, ok && id.IsValid()
}
