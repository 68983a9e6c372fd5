package parser

import (
	"slices"
	"strings"
	"testing"

	"bgql/internal/ast"
	"bgql/internal/diag"
)

func TestObjectType(t *testing.T) {
	ps := parseSource(t, "type User { id: ID name: String }")
	if ps.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(ps.bag))
	}
	item := ps.item(t, 0)
	if item.Kind != ast.ItemObject || ps.b.Name(item.Name) != "User" {
		t.Fatalf("item = %v %q", item.Kind, ps.b.Name(item.Name))
	}
	obj, _ := ps.b.Items.Object(ps.file.Items[0])
	if len(obj.Fields) != 2 {
		t.Fatalf("fields = %d", len(obj.Fields))
	}
	want := [][2]string{{"id", "ID"}, {"name", "String"}}
	for i, fid := range obj.Fields {
		f := ps.b.Fields.Get(fid)
		if got := [2]string{ps.b.Name(f.Name), ps.typeString(f.Type)}; got != want[i] {
			t.Errorf("field %d = %v, want %v", i, got, want[i])
		}
	}
}

func TestUnclosedBraceAtEOF(t *testing.T) {
	src := "type User { id: ID"
	ps := parseSource(t, src)
	items := ps.bag.Items()
	if len(items) != 1 {
		t.Fatalf("want one diagnostic, got %s", diagnosticsSummary(ps.bag))
	}
	d := items[0]
	if d.Code != diag.SynUnclosedBrace || !strings.Contains(d.Message, "expected `}`") {
		t.Fatalf("diagnostic = %s", diagnosticsSummary(ps.bag))
	}
	if int(d.Primary.Start) != len(src) || int(d.Primary.End) != len(src) {
		t.Fatalf("span = %v, want empty span at %d", d.Primary, len(src))
	}
	if len(d.Notes) != 1 {
		t.Fatalf("want a note at the opening brace, got %d", len(d.Notes))
	}
	// частичная декларация сохраняется
	if names := ps.itemNames(); !slices.Equal(names, []string{"User"}) {
		t.Fatalf("items = %v", names)
	}
}

func TestOneDiagnosticPerMalformedDeclaration(t *testing.T) {
	src := `type A { a: Int }
type B { b: : ) ] Int junk }
type C { c: Int }
`
	ps := parseSource(t, src)
	if ps.bag.Len() != 1 {
		t.Fatalf("want exactly one diagnostic, got %s", diagnosticsSummary(ps.bag))
	}
	if names := ps.itemNames(); !slices.Equal(names, []string{"A", "B", "C"}) {
		t.Fatalf("items = %v", names)
	}
	objC, _ := ps.b.Items.Object(ps.file.Items[2])
	if len(objC.Fields) != 1 {
		t.Fatalf("C lost its fields")
	}
}

func TestBodyMeetsNextDeclaration(t *testing.T) {
	src := "type A {\n  a: Int\ntype B { b: Int }\n"
	ps := parseSource(t, src)
	items := ps.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynUnclosedBrace {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(ps.bag))
	}
	if !strings.Contains(items[0].Message, "before `type`") {
		t.Fatalf("message = %q", items[0].Message)
	}
	if names := ps.itemNames(); !slices.Equal(names, []string{"A", "B"}) {
		t.Fatalf("items = %v", names)
	}
}

func TestGarbageBetweenDeclarations(t *testing.T) {
	ps := parseSource(t, "scalar Date\n} } ) 42 \"x\" @ !\nscalar Time\n")
	if ps.bag.Len() != 1 {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(ps.bag))
	}
	if names := ps.itemNames(); !slices.Equal(names, []string{"Date", "Time"}) {
		t.Fatalf("items = %v", names)
	}
}

// Invalid bytes are reported by the lexer; a keyword with no name after it
// is part of the same garbage run and adds nothing.
func TestInvalidBytesBeforeBareKeyword(t *testing.T) {
	ps := parseSource(t, "\xff\xfe type")
	items := ps.bag.Items()
	if len(items) != 2 {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(ps.bag))
	}
	for _, d := range items {
		if d.Code != diag.LexInvalidUTF8 {
			t.Fatalf("diagnostics = %s", diagnosticsSummary(ps.bag))
		}
	}
	if names := ps.itemNames(); len(names) != 0 {
		t.Fatalf("items = %v", names)
	}

	// с именем декларация восстанавливается
	ps = parseSource(t, "\xff\xfe type A { id: ID }")
	if ps.bag.Len() != 2 {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(ps.bag))
	}
	if names := ps.itemNames(); !slices.Equal(names, []string{"A"}) {
		t.Fatalf("items = %v", names)
	}

	// без мусора голый `type` даёт синтаксическую ошибку
	ps = parseSource(t, "type")
	if ps.bag.Len() != 1 || ps.bag.Items()[0].Code.ID()[:3] != "SYN" {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(ps.bag))
	}
}

func TestKeywordsAsFieldNames(t *testing.T) {
	ps := parseSource(t, "type Q {\n  type: String\n  input(on: Int): Int\n  schema: ID\n}\n")
	if ps.bag.Len() != 0 {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(ps.bag))
	}
	obj, _ := ps.b.Items.Object(ps.file.Items[0])
	var names []string
	for _, f := range obj.Fields {
		names = append(names, ps.b.Name(ps.b.Fields.Get(f).Name))
	}
	if !slices.Equal(names, []string{"type", "input", "schema"}) {
		t.Fatalf("fields = %v", names)
	}
}

func TestTypeExpressions(t *testing.T) {
	ps := parseSource(t, `type T {
  a: Box<String>!
  b: Option<Int>
  c: [Int]
  d: List<ID>
  e: (Int, String)
  f: a::b::User
  g: Map<String, [Int]>
  h: (Int)!
}`)
	if ps.bag.Len() != 0 {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(ps.bag))
	}
	obj, _ := ps.b.Items.Object(ps.file.Items[0])
	want := []string{"Box<String>!", "Option<Int>", "[Int]", "[ID]", "(Int, String)", "a::b::User", "Map<String, [Int]>", "Int!"}
	for i, fid := range obj.Fields {
		if got := ps.typeString(ps.b.Fields.Get(fid).Type); got != want[i] {
			t.Errorf("field %d: %q, want %q", i, got, want[i])
		}
	}
}

func TestGenericTypeParams(t *testing.T) {
	ps := parseSource(t, "type Box<T extends Node & Entity, U> implements Container & Node { item: T }")
	if ps.bag.Len() != 0 {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(ps.bag))
	}
	obj, _ := ps.b.Items.Object(ps.file.Items[0])
	if len(obj.TypeParams) != 2 || len(obj.Implements) != 2 {
		t.Fatalf("params=%d implements=%d", len(obj.TypeParams), len(obj.Implements))
	}
	tp := ps.b.Items.TypeParam(obj.TypeParams[0])
	if ps.b.Name(tp.Name) != "T" || len(tp.Bounds) != 2 || ps.typeString(tp.Bounds[1]) != "Entity" {
		t.Fatalf("type param T = %+v", tp)
	}
}

func TestDeclarationKinds(t *testing.T) {
	src := `
"""
Users of the system.
"""
pub type User @key(fields: "id") { id: ID }
interface Node { id: ID }
union SearchResult = | User | Post
input union Filter = ByName | ById
enum Role { ADMIN, USER @deprecated(reason: "gone") }
input enum Shape { Circle { radius: Float } Square { side: Float = 1.0 } Point }
input CreateUser { name: String = "anon" tags: [String] = ["a", "b"] }
scalar Date @specifiedBy(url: "https://example.com")
newtype Email = String @pattern(regex: ".+@.+")
opaque Secret = String
directive @auth(role: String = "admin", scopes: [String]) repeatable on FIELD_DEFINITION | OBJECT
schema { query: Query mutation: Mutation }
`
	ps := parseSource(t, src)
	if ps.bag.Len() != 0 {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(ps.bag))
	}
	kinds := []ast.ItemKind{
		ast.ItemObject, ast.ItemInterface, ast.ItemUnion, ast.ItemInputUnion, ast.ItemEnum,
		ast.ItemInputEnum, ast.ItemInput, ast.ItemScalar, ast.ItemNewtype, ast.ItemOpaque,
		ast.ItemDirective, ast.ItemSchema,
	}
	if len(ps.file.Items) != len(kinds) {
		t.Fatalf("items = %v", ps.itemNames())
	}
	for i, k := range kinds {
		if got := ps.item(t, i).Kind; got != k {
			t.Errorf("item %d kind = %v, want %v", i, got, k)
		}
	}

	user := ps.item(t, 0)
	if !user.HasDoc || user.Doc != "Users of the system." || user.Visibility != ast.VisPublic {
		t.Fatalf("user doc=%q vis=%v", user.Doc, user.Visibility)
	}
	if len(user.Directives) != 1 {
		t.Fatalf("user directives = %d", len(user.Directives))
	}

	union, _ := ps.b.Items.Union(ps.file.Items[2])
	if len(union.Members) != 2 {
		t.Fatalf("members = %d", len(union.Members))
	}

	shape, _ := ps.b.Items.Enum(ps.file.Items[5])
	if len(shape.Values) != 3 || len(ps.b.Items.EnumValue(shape.Values[0]).Fields) != 1 {
		t.Fatalf("input enum values = %d", len(shape.Values))
	}

	def, _ := ps.b.Items.DirectiveDef(ps.file.Items[10])
	if !def.Repeatable || len(def.Args) != 2 || len(def.Locations) != 2 {
		t.Fatalf("directive def = %+v", def)
	}
	if ps.b.Name(ps.item(t, 10).Name) != "auth" {
		t.Fatalf("directive name = %q", ps.b.Name(ps.item(t, 10).Name))
	}

	schema, _ := ps.b.Items.Schema(ps.file.Items[11])
	if len(schema.Ops) != 2 || ps.typeString(schema.Ops[1].Type) != "Mutation" {
		t.Fatalf("schema ops = %+v", schema.Ops)
	}
}

func TestDefaultValues(t *testing.T) {
	ps := parseSource(t, `input I { a: Int = -3 b: Obj = { x: 1, y: [true, null] } c: Color = RED }`)
	if ps.bag.Len() != 0 {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(ps.bag))
	}
	obj, _ := ps.b.Items.Object(ps.file.Items[0])
	kinds := []ast.ValueKind{ast.ValueInt, ast.ValueObject, ast.ValueEnum}
	for i, fid := range obj.Fields {
		v := ps.b.Values.Get(ps.b.Fields.Get(fid).Default)
		if v == nil || v.Kind != kinds[i] {
			t.Fatalf("default %d = %+v", i, v)
		}
	}
	obj2 := ps.b.Values.Get(ps.b.Fields.Get(obj.Fields[1]).Default)
	if len(obj2.Fields) != 2 || len(ps.b.Values.Get(obj2.Fields[1].Value).List) != 2 {
		t.Fatalf("object default = %+v", obj2)
	}
}

func TestModulesAndUses(t *testing.T) {
	src := `mod a;
mod c
pub(crate) mod b {
  pub type X { id: ID }
  pub(super) scalar Y
}
use b::{X as Z, Y}
pub use a::*
use crate::b::X
`
	ps := parseSource(t, src)
	if ps.bag.Len() != 0 {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(ps.bag))
	}
	if len(ps.file.Items) != 6 {
		t.Fatalf("items = %d", len(ps.file.Items))
	}
	a, _ := ps.b.Items.Mod(ps.file.Items[0])
	c, _ := ps.b.Items.Mod(ps.file.Items[1])
	if !a.External || !c.External {
		t.Fatal("`mod a;` and `mod c` are external")
	}
	bItem := ps.item(t, 2)
	b, _ := ps.b.Items.Mod(ps.file.Items[2])
	if b.External || len(b.Items) != 2 || bItem.Visibility != ast.VisCrate {
		t.Fatalf("inline mod = %+v vis=%v", b, bItem.Visibility)
	}
	if ps.b.Items.Get(b.Items[1]).Visibility != ast.VisSuper {
		t.Fatal("pub(super)")
	}

	use1, _ := ps.b.Items.Use(ps.file.Items[3])
	if len(use1.Path) != 1 || len(use1.Names) != 2 || ps.b.Name(use1.Names[0].Alias) != "Z" {
		t.Fatalf("use group = %+v", use1)
	}
	use2, _ := ps.b.Items.Use(ps.file.Items[4])
	if !use2.Glob || ps.item(t, 4).Visibility != ast.VisPublic {
		t.Fatalf("glob use = %+v", use2)
	}
	use3, _ := ps.b.Items.Use(ps.file.Items[5])
	if len(use3.Path) != 2 || ps.b.Name(use3.Path[0].Name) != "crate" || ps.b.Name(use3.Names[0].Name) != "X" {
		t.Fatalf("path use = %+v", use3)
	}
}

func TestFragment(t *testing.T) {
	ps := parseSource(t, `fragment UserFields on User @server {
  id
  handle: name
  posts(first: 10) { title }
  ...Audit
  ... on Admin { level }
}`)
	if ps.bag.Len() != 0 {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(ps.bag))
	}
	frag, _ := ps.b.Items.Fragment(ps.file.Items[0])
	if len(frag.Selections) != 5 {
		t.Fatalf("selections = %d", len(frag.Selections))
	}
	alias := ps.b.Selections.Get(frag.Selections[1])
	if ps.b.Name(alias.Alias) != "handle" || ps.b.Name(alias.Name) != "name" {
		t.Fatalf("alias = %+v", alias)
	}
	kinds := []ast.SelectionKind{ast.SelField, ast.SelField, ast.SelField, ast.SelSpread, ast.SelInline}
	for i, id := range frag.Selections {
		if got := ps.b.Selections.Get(id).Kind; got != kinds[i] {
			t.Errorf("selection %d = %v, want %v", i, got, kinds[i])
		}
	}
	if len(ps.item(t, 0).Directives) != 1 {
		t.Fatal("@server lost")
	}
}

func TestNestingLimit(t *testing.T) {
	depth := 300
	src := "type A { f: " + strings.Repeat("[", depth) + "Int" + strings.Repeat("]", depth) + " }\ntype B { b: Int }\n"
	ps := parseSourceOpts(t, src, Options{MaxDepth: 64})
	items := ps.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynNestingTooDeep {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(ps.bag))
	}
}

func TestVisibilityErrors(t *testing.T) {
	ps := parseSource(t, "pub(self) type A { a: Int }\npub schema { query: Q }\n")
	items := ps.bag.Items()
	if len(items) != 2 {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(ps.bag))
	}
	for _, d := range items {
		if d.Code != diag.SynBadVisibility {
			t.Errorf("code = %s", d.Code.ID())
		}
	}
}

func TestNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"type",
		"type {",
		"pub",
		"pub(",
		"union X =",
		"input enum E { A { b: } }",
		"directive @x on",
		"fragment F on",
		"fragment F on T { }",
		"mod a { mod b { type",
		"use ::",
		"use a::{",
		"schema { query }",
		"type A<",
		"type A<T extends> { }",
		"\"\"\" unterminated",
		"type A { f: Int = [1, 2 }",
		"\xff\xfe type A { }",
		"}}}}}",
	}
	for _, in := range inputs {
		ps := parseSource(t, in)
		if in != "" && ps.bag.Len() == 0 {
			t.Errorf("%q: expected diagnostics", in)
		}
	}
}
