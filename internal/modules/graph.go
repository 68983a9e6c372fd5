package modules

import (
	"math"

	"bgql/internal/ast"
	"bgql/internal/source"
)

type ModuleID uint32

const (
	RootModule ModuleID = 0
	NoModule   ModuleID = math.MaxUint32
)

// Namespace separates names that may coexist: a type and a fragment can
// both be called User.
type Namespace uint8

const (
	NSType Namespace = iota
	NSDirective
	NSFragment
	NSModule
)

func (ns Namespace) String() string {
	switch ns {
	case NSType:
		return "type"
	case NSDirective:
		return "directive"
	case NSFragment:
		return "fragment"
	default:
		return "module"
	}
}

// NamespaceOf maps a declaration kind to its namespace; ok is false for
// schema and use items.
func NamespaceOf(kind ast.ItemKind) (Namespace, bool) {
	switch {
	case kind.DeclaresType():
		return NSType, true
	case kind == ast.ItemDirective:
		return NSDirective, true
	case kind == ast.ItemFragment:
		return NSFragment, true
	case kind == ast.ItemMod:
		return NSModule, true
	}
	return 0, false
}

type DeclKey struct {
	NS   Namespace
	Name string
}

// DeclRef points at a declaration: an item of Module, or for NSModule the
// child module Target.
type DeclRef struct {
	Module ModuleID
	Item   ast.ItemID
	Target ModuleID
	Vis    ast.Visibility
	Span   source.Span
}

// Import is one name brought into scope by a `use`. Decl is the original
// declaration, re-exports already followed.
type Import struct {
	Key  DeclKey // local name (alias applied)
	Decl DeclRef
	Use  ast.ItemID
	Vis  ast.Visibility // visibility of the use itself, for `pub use`
	Span source.Span
	Glob bool
}

type Edge struct {
	To   ModuleID
	Decl ast.ItemID
}

// Module is a node of the module tree.
type Module struct {
	ID       ModuleID
	Name     string // declared name; "" for the root
	Path     string // canonical path: "" for the root, then "a", "a::b"
	Parent   ModuleID
	Depth    int
	File     ast.FileID
	Items    []ast.ItemID
	Decl     ast.ItemID // first `mod` declaring it
	External bool
	Edges    []Edge
	// Decls holds the first declaration for every name; duplicates are
	// reported by the binder.
	Decls   map[DeclKey]DeclRef
	Imports []Import

	key      string
	loadName string
}

// Graph is the module tree of one invocation.
type Graph struct {
	Modules []*Module
	order   []ModuleID
}

func (g *Graph) Get(id ModuleID) *Module {
	if int(id) >= len(g.Modules) {
		return nil
	}
	return g.Modules[id]
}

func (g *Graph) Root() *Module {
	return g.Modules[RootModule]
}

// Order lists modules breadth-first from the root in declaration order.
func (g *Graph) Order() []ModuleID {
	return g.order
}

// Within reports whether m is anc or lies in its subtree.
func (g *Graph) Within(m, anc ModuleID) bool {
	for m != NoModule {
		if m == anc {
			return true
		}
		mod := g.Get(m)
		if mod == nil {
			return false
		}
		m = mod.Parent
	}
	return false
}

// Visible reports whether a declaration of module def with visibility vis
// can be named from module from.
func (g *Graph) Visible(def ModuleID, vis ast.Visibility, from ModuleID) bool {
	switch vis {
	case ast.VisPublic, ast.VisCrate:
		return true
	case ast.VisSuper:
		parent := g.Get(def).Parent
		if parent == NoModule {
			return true
		}
		return g.Within(from, parent)
	default:
		return g.Within(from, def)
	}
}

// Qualify prefixes name with the module path; root names stay bare.
func (g *Graph) Qualify(id ModuleID, name string) string {
	mod := g.Get(id)
	if mod == nil || mod.Path == "" {
		return name
	}
	return mod.Path + "::" + name
}

// DisplayName is used in diagnostics: the declared name, or "crate".
func (m *Module) DisplayName() string {
	if m.Name == "" {
		return "crate"
	}
	return m.Name
}

// Child returns the child module declared under name.
func (m *Module) Child(name string) (ModuleID, bool) {
	ref, ok := m.Decls[DeclKey{NS: NSModule, Name: name}]
	if !ok {
		return NoModule, false
	}
	return ref.Target, ref.Target != NoModule
}
