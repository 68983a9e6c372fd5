package bgql_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bgql"
)

func TestParseObjectType(t *testing.T) {
	res := bgql.Parse("type User { id: ID name: Option<String> }", nil)

	require.True(t, res.Success, "%v", res.Diagnostics)
	require.Len(t, res.Types, 1)
	user := res.Type("User")
	require.NotNil(t, user)
	assert.Len(t, user.Fields, 2)
	assert.True(t, user.Field("name").Nullable)
	assert.False(t, user.Field("id").Nullable)
	assert.NotNil(t, res.Fragments)
	assert.Empty(t, res.Diagnostics)
}

func TestParseNeverFailsOnGarbage(t *testing.T) {
	for _, src := range []string{"", "}}}}", "type", "\"\"\"", "mod ;", "type A<T extends> {"} {
		res := bgql.Parse(src, nil)
		assert.NotNil(t, res.Types, "src %q", src)
		assert.NotNil(t, res.Diagnostics, "src %q", src)
		assert.Equal(t, !hasError(res), res.Success, "src %q", src)
	}
}

func hasError(r bgql.ParseResult) bool {
	for _, d := range r.Diagnostics {
		if d.Severity == "error" {
			return true
		}
	}
	return false
}

func TestParseWithMapLoader(t *testing.T) {
	loader := bgql.MapLoader{"scalars": "pub scalar Date"}
	res := bgql.Parse("mod scalars;\nuse scalars::Date;\ntype Event { at: Date }", loader)

	require.True(t, res.Success, "%v", res.Diagnostics)
	assert.NotNil(t, res.Type("Event"))
}

func TestParseWithoutLoader(t *testing.T) {
	res := bgql.Parse("mod scalars;", nil)
	assert.False(t, res.Success)
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, "error", res.Diagnostics[0].Severity)
}

func TestParseQualifiedModuleType(t *testing.T) {
	res := bgql.Parse("mod a { pub type User { id: ID } }\ntype Query { u: a::User }", nil)

	require.True(t, res.Success, "%v", res.Diagnostics)
	require.NotNil(t, res.Type("Query"))
	require.NotNil(t, res.Type("a::User"))
	assert.Equal(t, "a::User", res.Type("Query").Field("u").Type)
}

func TestParseQualifiedPrivateType(t *testing.T) {
	res := bgql.Parse("mod a { type Hidden { id: ID } }\ntype Query { h: a::Hidden }", nil)

	assert.False(t, res.Success)
	codes := make([]string, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		codes = append(codes, d.Code)
	}
	assert.Contains(t, codes, "MOD5005")
	assert.NotContains(t, codes, "INT9001")
}

func TestParseWithConfigNullableDefault(t *testing.T) {
	cfg := bgql.DefaultConfig()
	cfg.Compat.NullableDefault = true

	res := bgql.ParseWithConfig("type Q { a: Int b: Int! }", nil, cfg)
	require.True(t, res.Success, "%v", res.Diagnostics)
	q := res.Type("Q")
	require.NotNil(t, q)
	assert.True(t, q.Field("a").Nullable)
	assert.False(t, q.Field("b").Nullable)

	zero := bgql.ParseWithConfig("type Q { a: Int }", nil, bgql.Config{})
	assert.False(t, zero.Type("Q").Field("a").Nullable)
}

func TestNewDirLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "common.bgql"), []byte("pub interface Node { id: ID }"), 0o600))

	res := bgql.Parse("mod common;\nuse common::Node;\ntype User implements Node { id: ID }", bgql.NewDirLoader(dir))
	require.True(t, res.Success, "%v", res.Diagnostics)
	assert.Equal(t, []string{"common::Node"}, res.Type("User").Implements)
}
