package modules

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/lexer"
	"bgql/internal/parser"
	"bgql/internal/source"
)

type resolved struct {
	g   *Graph
	b   *ast.Builder
	bag *diag.Bag
}

func resolveSource(t *testing.T, src string, opts Options) resolved {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	fileID := fs.AddSource("schema.bgql", src)
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep}), b, parser.Options{Reporter: rep})
	opts.Reporter = rep
	return resolved{g: Resolve(fs, b, res.File, opts), b: b, bag: bag}
}

func summary(bag *diag.Bag) string {
	var parts []string
	for _, d := range bag.Items() {
		parts = append(parts, fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message))
	}
	if len(parts) == 0 {
		return "<none>"
	}
	return strings.Join(parts, "; ")
}

func (rs resolved) module(t *testing.T, path string) *Module {
	t.Helper()
	for _, m := range rs.g.Modules {
		if m.Path == path {
			return m
		}
	}
	t.Fatalf("no module with path %q", path)
	return nil
}

func (rs resolved) importNames(m *Module) []string {
	var out []string
	for _, imp := range m.Imports {
		out = append(out, imp.Key.NS.String()+" "+imp.Key.Name)
	}
	return out
}

func TestModuleCycle(t *testing.T) {
	rs := resolveSource(t, "mod a; mod b;", Options{Loader: MapLoader{
		"a": "mod b;",
		"b": "mod a;",
	}})
	items := rs.bag.Items()
	if len(items) != 1 {
		t.Fatalf("want one diagnostic, got %s", summary(rs.bag))
	}
	if items[0].Code != diag.ModCycle || items[0].Message != "module cycle detected: a -> b -> a" {
		t.Fatalf("diagnostic = %s", summary(rs.bag))
	}
	if got := len(rs.g.Modules); got != 3 {
		t.Fatalf("modules = %d, want 3", got)
	}
	rs.module(t, "a")
	rs.module(t, "b")
}

func TestSelfCycle(t *testing.T) {
	rs := resolveSource(t, "mod a;", Options{Loader: MapLoader{"a": "mod a;"}})
	items := rs.bag.Items()
	if len(items) != 1 || items[0].Message != "module cycle detected: a -> a" {
		t.Fatalf("diagnostics = %s", summary(rs.bag))
	}
}

func TestSharedModuleIsLoadedOnce(t *testing.T) {
	calls := 0
	loader := LoaderFunc(func(from, name string) (Source, error) {
		calls++
		return MapLoader{"a": "mod b;", "b": "scalar B"}.Load(from, name)
	})
	rs := resolveSource(t, "mod a; mod b;", Options{Loader: loader})
	if rs.bag.Len() != 0 {
		t.Fatalf("diagnostics = %s", summary(rs.bag))
	}
	if len(rs.g.Modules) != 3 {
		t.Fatalf("modules = %d", len(rs.g.Modules))
	}
	if calls != 3 {
		t.Fatalf("loader calls = %d", calls)
	}
	// BFS: b: прямой потомок корня
	b := rs.module(t, "b")
	if b.Parent != RootModule || b.Depth != 1 {
		t.Fatalf("b parent=%d depth=%d", b.Parent, b.Depth)
	}
}

func TestLoaderFromArgument(t *testing.T) {
	var got []string
	loader := LoaderFunc(func(from, name string) (Source, error) {
		got = append(got, from+"|"+name)
		if name == "a" {
			return Source{Text: "mod inner { mod c; }"}, nil
		}
		return Source{Text: ""}, nil
	})
	rs := resolveSource(t, "mod a;", Options{Loader: loader})
	if rs.bag.Len() != 0 {
		t.Fatalf("diagnostics = %s", summary(rs.bag))
	}
	if strings.Join(got, ",") != "|a,a::inner|c" {
		t.Fatalf("loader calls = %v", got)
	}
	rs.module(t, "a::inner::c")
}

func TestLoaderErrors(t *testing.T) {
	rs := resolveSource(t, "mod missing; mod broken;", Options{Loader: LoaderFunc(func(_, name string) (Source, error) {
		if name == "broken" {
			return Source{}, errors.New("permission denied")
		}
		return Source{}, fmt.Errorf("lookup: %w", ErrNotFound)
	})})
	items := rs.bag.Items()
	if len(items) != 2 || items[0].Code != diag.ModNotFound || items[1].Code != diag.ModLoadFailed {
		t.Fatalf("diagnostics = %s", summary(rs.bag))
	}

	rs = resolveSource(t, "mod a;", Options{})
	if items := rs.bag.Items(); len(items) != 1 || items[0].Code != diag.ModNoLoader {
		t.Fatalf("diagnostics = %s", summary(rs.bag))
	}
}

func TestInlineModulePaths(t *testing.T) {
	rs := resolveSource(t, "mod a { mod b { type X { id: ID } } }\nmod c { }", Options{})
	if rs.bag.Len() != 0 {
		t.Fatalf("diagnostics = %s", summary(rs.bag))
	}
	b := rs.module(t, "a::b")
	if got := rs.g.Qualify(b.ID, "X"); got != "a::b::X" {
		t.Fatalf("Qualify = %q", got)
	}
	if rs.g.Qualify(RootModule, "X") != "X" {
		t.Fatal("root names are not qualified")
	}
	var order []string
	for _, id := range rs.g.Order() {
		order = append(order, rs.g.Get(id).Path)
	}
	if strings.Join(order, ",") != ",a,c,a::b" {
		t.Fatalf("BFS order = %q", order)
	}
}

func TestModuleDepthLimit(t *testing.T) {
	rs := resolveSource(t, "mod a { mod b { mod c { } } }", Options{MaxDepth: 2})
	items := rs.bag.Items()
	if len(items) != 1 || items[0].Code != diag.ModTooDeep {
		t.Fatalf("diagnostics = %s", summary(rs.bag))
	}
}

func TestDuplicateModule(t *testing.T) {
	rs := resolveSource(t, "mod a { }\nmod a { }", Options{})
	items := rs.bag.Items()
	if len(items) != 1 || items[0].Code != diag.ModDuplicate || len(items[0].Notes) != 1 {
		t.Fatalf("diagnostics = %s", summary(rs.bag))
	}
}

func TestUseVisibility(t *testing.T) {
	src := `mod a {
  pub type P { id: ID }
  type Hidden { id: ID }
  pub(super) type S { id: ID }
  mod inner {
    use super::Hidden
    use crate::a::S
  }
}
use a::{P, S as T}
use a::Hidden
`
	rs := resolveSource(t, src, Options{})
	items := rs.bag.Items()
	if len(items) != 1 || items[0].Code != diag.ModNotVisible {
		t.Fatalf("diagnostics = %s", summary(rs.bag))
	}
	if !strings.Contains(items[0].Message, "`Hidden` is private") {
		t.Fatalf("message = %q", items[0].Message)
	}
	root := rs.g.Root()
	if got := strings.Join(rs.importNames(root), ","); got != "type P,type T" {
		t.Fatalf("root imports = %s", got)
	}
	inner := rs.module(t, "a::inner")
	if got := strings.Join(rs.importNames(inner), ","); got != "type Hidden,type S" {
		t.Fatalf("inner imports = %s", got)
	}
}

func TestPubUseReexport(t *testing.T) {
	src := `mod a { pub use super::b::X }
mod b { pub type X { id: ID } }
use a::X as Y
`
	rs := resolveSource(t, src, Options{})
	if rs.bag.Len() != 0 {
		t.Fatalf("diagnostics = %s", summary(rs.bag))
	}
	imp := rs.g.Root().Imports[0]
	b := rs.module(t, "b")
	if imp.Key.Name != "Y" || imp.Decl.Module != b.ID {
		t.Fatalf("import = %+v", imp)
	}
}

func TestPrivateUseIsNotReexported(t *testing.T) {
	src := `mod a { use super::b::X }
mod b { pub type X { id: ID } }
use a::X
`
	rs := resolveSource(t, src, Options{})
	items := rs.bag.Items()
	if len(items) != 1 || items[0].Code != diag.ModNotVisible {
		t.Fatalf("diagnostics = %s", summary(rs.bag))
	}
}

func TestGlobImport(t *testing.T) {
	src := `mod a {
  pub type A1 { id: ID }
  pub type A2 { id: ID }
  type Priv { id: ID }
  pub fragment F on A1 { id }
}
use a::*
`
	rs := resolveSource(t, src, Options{})
	if rs.bag.Len() != 0 {
		t.Fatalf("diagnostics = %s", summary(rs.bag))
	}
	if got := strings.Join(rs.importNames(rs.g.Root()), ","); got != "type A1,type A2,fragment F" {
		t.Fatalf("imports = %s", got)
	}
	for _, imp := range rs.g.Root().Imports {
		if !imp.Glob {
			t.Fatal("glob flag lost")
		}
	}
}

func TestUnresolvedImports(t *testing.T) {
	src := `mod a { }
use a::Nope
use nowhere::X
use super::Y
use a::crate::Z
`
	rs := resolveSource(t, src, Options{})
	want := []diag.Code{diag.ModUnresolvedImport, diag.ModUnresolvedImport, diag.ModBadPath, diag.ModBadPath}
	items := rs.bag.Items()
	if len(items) != len(want) {
		t.Fatalf("diagnostics = %s", summary(rs.bag))
	}
	for i, d := range items {
		if d.Code != want[i] {
			t.Errorf("diag %d = %s, want %s", i, d.Code.ID(), want[i].ID())
		}
	}
}

func TestCyclicReexport(t *testing.T) {
	src := `mod a { pub use super::b::X }
mod b { pub use super::a::X }
`
	rs := resolveSource(t, src, Options{})
	found := false
	for _, d := range rs.bag.Items() {
		if d.Code == diag.ModCyclicReexport {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics = %s", summary(rs.bag))
	}
}

func TestVisible(t *testing.T) {
	rs := resolveSource(t, "mod a { mod b { } }\nmod c { }", Options{})
	a, b, c := rs.module(t, "a"), rs.module(t, "a::b"), rs.module(t, "c")
	cases := []struct {
		def  ModuleID
		vis  ast.Visibility
		from ModuleID
		want bool
	}{
		{b.ID, ast.VisPrivate, b.ID, true},
		{b.ID, ast.VisPrivate, a.ID, false},
		{a.ID, ast.VisPrivate, b.ID, true},
		{b.ID, ast.VisSuper, a.ID, true},
		{b.ID, ast.VisSuper, c.ID, false},
		{a.ID, ast.VisSuper, c.ID, true},
		{b.ID, ast.VisCrate, c.ID, true},
		{b.ID, ast.VisPublic, RootModule, true},
	}
	for i, tc := range cases {
		if got := rs.g.Visible(tc.def, tc.vis, tc.from); got != tc.want {
			t.Errorf("case %d: Visible = %v, want %v", i, got, tc.want)
		}
	}
}
