package result

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/lexer"
	"bgql/internal/modules"
	"bgql/internal/parser"
	"bgql/internal/sema"
	"bgql/internal/source"
	"bgql/internal/symbols"
)

func assembleSourceOpts(t *testing.T, src string, loader modules.Loader, nullableDefault bool) ParseResult {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	fileID := fs.AddSource("schema.bgql", src)
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep}), b, parser.Options{Reporter: rep})
	g := modules.Resolve(fs, b, res.File, modules.Options{Loader: loader, Reporter: rep})
	table := symbols.Bind(g, b, symbols.Options{Reporter: rep})
	opts := sema.DefaultOptions()
	opts.Reporter = rep
	opts.Symbols = table
	opts.NullableDefault = nullableDefault
	checked := sema.Check(b, g, opts)
	bag.Sort()
	return Assemble(Input{
		Builder:         b,
		Graph:           g,
		Symbols:         table,
		Checked:         checked,
		Bag:             bag,
		Files:           fs,
		NullableDefault: nullableDefault,
	})
}

func assembleSource(t *testing.T, src string) ParseResult {
	t.Helper()
	return assembleSourceOpts(t, src, nil, false)
}

func TestObjectType(t *testing.T) {
	r := assembleSource(t, "type User { id: ID name: String }")

	require.True(t, r.Success)
	require.Empty(t, r.Diagnostics)
	require.Equal(t, []TypeInfo{{
		Name: "User",
		Kind: KindObject,
		Fields: []FieldInfo{
			{Name: "id", Type: "ID"},
			{Name: "name", Type: "String"},
		},
	}}, r.Types)
}

func TestUnclosedBraceKeepsPartialType(t *testing.T) {
	src := "type User { id: ID"
	r := assembleSource(t, src)

	require.False(t, r.Success)
	require.Len(t, r.Diagnostics, 1)
	d := r.Diagnostics[0]
	assert.Equal(t, "error", d.Severity)
	assert.Contains(t, d.Message, "expected `}`")
	assert.Equal(t, uint32(1), d.StartLine)
	assert.Equal(t, uint32(len(src)+1), d.StartColumn)
	assert.Equal(t, d.StartColumn, d.EndColumn)
	assert.Empty(t, d.File)

	user := r.Type("User")
	require.NotNil(t, user)
	require.NotNil(t, user.Field("id"))
}

func TestNewtypeUnderlying(t *testing.T) {
	r := assembleSource(t, "newtype UserId = ID\ntype User { id: UserId }")

	require.True(t, r.Success, "%v", r.Diagnostics)
	id := r.Type("UserId")
	require.NotNil(t, id)
	assert.Equal(t, KindNewtype, id.Kind)
	assert.Equal(t, "ID", id.Underlying)
	assert.Equal(t, "UserId", r.Type("User").Field("id").Type)
}

func TestOpaqueHidesUnderlying(t *testing.T) {
	r := assembleSource(t, "opaque Secret = String")

	require.True(t, r.Success)
	secret := r.Type("Secret")
	require.NotNil(t, secret)
	assert.Equal(t, KindOpaque, secret.Kind)
	assert.Empty(t, secret.Underlying)
}

func TestUndefinedUnionMember(t *testing.T) {
	r := assembleSource(t, "union X = Y")

	require.False(t, r.Success)
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, "undefined type Y", r.Diagnostics[0].Message)
	assert.Equal(t, "SEM3002", r.Diagnostics[0].Code)

	x := r.Type("X")
	require.NotNil(t, x)
	assert.Equal(t, KindUnion, x.Kind)
	assert.Empty(t, x.Members)
	assert.True(t, x.Invalid)
}

func TestUnionKeepsResolvedMembers(t *testing.T) {
	r := assembleSource(t, "type A { id: ID }\nunion X = A | Missing")

	x := r.Type("X")
	require.NotNil(t, x)
	assert.Equal(t, []string{"A"}, x.Members)
	assert.True(t, x.Invalid)
}

func TestUnsatisfiedBoundStillAssembles(t *testing.T) {
	r := assembleSource(t, "interface Node { id: ID }\ntype Box<T extends Node> { item: T }\ntype Q { b: Box<String> }")

	require.False(t, r.Success)
	require.Len(t, r.Diagnostics, 1)
	assert.Contains(t, r.Diagnostics[0].Message, "Node")

	box := r.Type("Box")
	require.NotNil(t, box)
	assert.Equal(t, []TypeParamInfo{{Name: "T", Bounds: []string{"Node"}}}, box.TypeParams)
	assert.Equal(t, "T", box.Field("item").Type)
	assert.Equal(t, "Box<String>", r.Type("Q").Field("b").Type)
}

func TestModuleCycleDiagnostic(t *testing.T) {
	r := assembleSourceOpts(t, "mod a; mod b;", modules.MapLoader{
		"a": "mod b;",
		"b": "mod a;",
	}, false)

	require.False(t, r.Success)
	require.Len(t, r.Diagnostics, 1)
	assert.Contains(t, r.Diagnostics[0].Message, "a -> b -> a")
	assert.Equal(t, []TypeInfo{}, r.Types)
}

func TestQualifiedNamesAcrossModules(t *testing.T) {
	r := assembleSourceOpts(t, "mod a;\ntype Query { user: a::User }", modules.MapLoader{
		"a": "pub type User { id: ID }",
	}, false)

	require.True(t, r.Success, "%v", r.Diagnostics)
	require.Len(t, r.Types, 2)
	assert.Equal(t, "Query", r.Types[0].Name)
	assert.Equal(t, "a::User", r.Types[1].Name)
	assert.Equal(t, "a::User", r.Type("Query").Field("user").Type)
	assert.Equal(t, "Query", r.Schema.QueryType)
}

func TestDiagnosticFileForModules(t *testing.T) {
	r := assembleSourceOpts(t, "mod a;", modules.MapLoader{
		"a": "type A { b: Missing }",
	}, false)

	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, "a.bgql", r.Diagnostics[0].File)
}

func TestFieldDetails(t *testing.T) {
	r := assembleSource(t, `
"""
A registered user.
"""
type User {
  "Stable identifier."
  id: ID
  nick: Option<String>
  old: String @deprecated
  posts(first: Int = 10, order: Order = ASC, tags: [String] = ["a", "b"]): [Post]
}
type Post { title: String }
enum Order { ASC DESC @deprecated(reason: "use ASC") }
input enum Shape { Circle { radius: Float } Point }
`)
	require.True(t, r.Success, "%v", r.Diagnostics)

	user := r.Type("User")
	require.NotNil(t, user)
	assert.Equal(t, "A registered user.", user.Description)
	assert.Equal(t, "Stable identifier.", user.Field("id").Description)

	nick := user.Field("nick")
	assert.Equal(t, "Option<String>", nick.Type)
	assert.True(t, nick.Nullable)

	old := user.Field("old")
	assert.True(t, old.Deprecated)
	assert.Equal(t, sema.DefaultDeprecationReason, old.DeprecationReason)

	posts := user.Field("posts")
	assert.Equal(t, "[Post]", posts.Type)
	require.Len(t, posts.Args, 3)
	require.NotNil(t, posts.Args[0].DefaultValue)
	assert.Equal(t, "10", *posts.Args[0].DefaultValue)
	assert.Equal(t, "ASC", *posts.Args[1].DefaultValue)
	assert.Equal(t, `["a", "b"]`, *posts.Args[2].DefaultValue)

	order := r.Type("Order")
	require.Len(t, order.Values, 2)
	assert.False(t, order.Values[0].Deprecated)
	assert.True(t, order.Values[1].Deprecated)
	assert.Equal(t, "use ASC", order.Values[1].DeprecationReason)

	shape := r.Type("Shape")
	assert.Equal(t, KindInputEnum, shape.Kind)
	require.Len(t, shape.Values, 2)
	assert.Equal(t, []FieldInfo{{Name: "radius", Type: "Float"}}, shape.Values[0].Fields)
	assert.Empty(t, shape.Values[1].Fields)
}

func TestNullableDefaultMode(t *testing.T) {
	r := assembleSourceOpts(t, "type User { id: ID! name: String }", nil, true)

	require.True(t, r.Success, "%v", r.Diagnostics)
	user := r.Type("User")
	assert.False(t, user.Field("id").Nullable)
	assert.True(t, user.Field("name").Nullable)
	assert.Equal(t, "ID", user.Field("id").Type)
}

func TestWarningsKeepSuccess(t *testing.T) {
	r := assembleSource(t, "type User { id: ID! }")

	require.True(t, r.Success)
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, "warning", r.Diagnostics[0].Severity)
}

func TestFragments(t *testing.T) {
	r := assembleSource(t, `
type User { id: ID name: String }
fragment Card on User @server { id name id ... on User { name } }
fragment Plain on User { __typename ...Card }
`)
	require.True(t, r.Success, "%v", r.Diagnostics)
	require.Equal(t, []FragmentInfo{
		{Name: "Card", OnType: "User", IsServer: true, Fields: []string{"id", "name"}},
		{Name: "Plain", OnType: "User", Fields: []string{"__typename"}},
	}, r.Fragments)
}

func TestSchemaRoots(t *testing.T) {
	r := assembleSource(t, "type Q { a: Int }\ntype M { b: Int }\nschema { query: Q mutation: M }")

	require.True(t, r.Success, "%v", r.Diagnostics)
	assert.Equal(t, SchemaInfo{QueryType: "Q", MutationType: "M"}, r.Schema)
}

func TestSynchronizationKeepsNeighbours(t *testing.T) {
	r := assembleSource(t, "type A { a: Int }\ntype B { b: : ) ] Int junk }\ntype C { c: Int }")

	require.False(t, r.Success)
	require.Len(t, r.Diagnostics, 1)
	assert.NotNil(t, r.Type("A"))
	require.NotNil(t, r.Type("C"))
	assert.NotNil(t, r.Type("C").Field("c"))
}

func TestSuccessMatchesErrors(t *testing.T) {
	inputs := []string{
		"",
		"type User { id: ID }",
		"type User { id: ID! }",
		"union X = Y",
		"type {",
		"}}}",
		"\xff\xfe",
	}
	for _, src := range inputs {
		r := assembleSource(t, src)
		assert.Equal(t, r.Errors() == 0, r.Success, "input %q", src)
		assert.NotNil(t, r.Types)
		assert.NotNil(t, r.Fragments)
		assert.NotNil(t, r.Diagnostics)
	}
}

func TestAssembleWithoutPipeline(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.InternalFailure, source.Span{}, "boom"))
	bag.Add(diag.New(diag.SevInfo, diag.SynInfo, source.Span{}, "hidden"))

	r := Assemble(Input{Bag: bag})
	require.False(t, r.Success)
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, "boom", r.Diagnostics[0].Message)
	assert.Equal(t, []TypeInfo{}, r.Types)
}

func TestJSONIsDeterministic(t *testing.T) {
	src := "interface Node { id: ID }\ntype User implements Node { id: ID friends: [User] }\nunion U = User | Missing\nfragment F on User { id }"
	first, err := MarshalJSON(assembleSource(t, src))
	require.NoError(t, err)
	second, err := MarshalJSON(assembleSource(t, src))
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))

	s := string(first)
	assert.True(t, strings.HasPrefix(s, `{"success":false,"types":[`), s)
	assert.Contains(t, s, `"implements":["Node"]`)
	assert.Contains(t, s, `"invalid":true`)
	assert.Contains(t, s, `"start_line":3`)
	assert.NotContains(t, s, `"description"`)

	back, err := UnmarshalJSON(first)
	require.NoError(t, err)
	assert.Equal(t, assembleSource(t, src), back)
}

func TestEmptyArraysAreEncoded(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Empty(), ""))
	assert.Equal(t, `{"success":true,"types":[],"schema":{},"fragments":[],"diagnostics":[]}`+"\n", buf.String())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, assembleSource(t, "type User { id: ID }")))
	out := buf.String()
	assert.Contains(t, out, "success: true\n")
	assert.Contains(t, out, "  - name: User\n")
	assert.Contains(t, out, "    kind: OBJECT\n")
	assert.Contains(t, out, "diagnostics: []\n")
}
