package driver

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bgql/internal/config"
	"bgql/internal/diag"
	"bgql/internal/modules"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	}
	return dir
}

func codes(bag *diag.Bag) []string {
	out := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestParseObjectType(t *testing.T) {
	r := Parse("type User { id: ID name: String }", nil, config.Config{})

	require.True(t, r.Success)
	require.Empty(t, r.Diagnostics)
	require.Len(t, r.Types, 1)
	assert.Equal(t, "User", r.Types[0].Name)
	assert.Len(t, r.Types[0].Fields, 2)
}

func TestParseIsIdempotent(t *testing.T) {
	src := "type A { b: B }\nunion U = A | Nope\ntype Query { a: A! }"
	first := Parse(src, nil, config.Default())
	second := Parse(src, nil, config.Default())
	assert.Equal(t, first, second)
}

func TestStagesStopEarly(t *testing.T) {
	src := "type A { a: Strng }"

	syntax := DiagnoseSource("s.bgql", src, Options{Stage: StageSyntax})
	assert.True(t, syntax.Success())
	assert.NotNil(t, syntax.Builder)
	assert.Nil(t, syntax.Graph)
	assert.Nil(t, syntax.Symbols)
	assert.Nil(t, syntax.Output.Types)

	all := DiagnoseSource("s.bgql", src, Options{})
	assert.False(t, all.Success())
	assert.Equal(t, []string{"SEM3002"}, codes(all.Bag))
	assert.False(t, all.Output.Success)
}

func TestTokenizeStageReportsLexErrors(t *testing.T) {
	res := DiagnoseSource("s.bgql", "type A { a: \"open }", Options{Stage: StageTokenize})
	assert.Nil(t, res.Builder)
	assert.Equal(t, []string{"LEX1002"}, codes(res.Bag))
}

func TestParseStage(t *testing.T) {
	tests := map[string]Stage{
		"":         StageAll,
		"tokenize": StageTokenize,
		"parse":    StageSyntax,
		"Syntax":   StageSyntax,
		"modules":  StageModules,
		"bind":     StageSymbols,
		"sema":     StageSema,
		"all":      StageAll,
	}
	for in, want := range tests {
		got, err := ParseStage(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseStage("lower")
	assert.Error(t, err)

	assert.True(t, StageAll.Reaches(StageSema))
	assert.True(t, Stage("").Reaches(StageModules))
	assert.False(t, StageSyntax.Reaches(StageModules))
}

func TestWarningPolicies(t *testing.T) {
	src := "type A { a: Int! }"

	plain := DiagnoseSource("s.bgql", src, Options{})
	require.Equal(t, []string{"SEM3140"}, codes(plain.Bag))
	assert.True(t, plain.Success())
	assert.True(t, plain.Output.Success)
	require.Len(t, plain.Output.Diagnostics, 1)
	assert.Equal(t, "warning", plain.Output.Diagnostics[0].Severity)

	ignored := DiagnoseSource("s.bgql", src, Options{IgnoreWarnings: true})
	assert.Zero(t, ignored.Bag.Len())

	strict := DiagnoseSource("s.bgql", src, Options{WarningsAsErrors: true})
	assert.False(t, strict.Success())
	assert.False(t, strict.Output.Success)
	assert.Equal(t, "error", strict.Output.Diagnostics[0].Severity)

	cfg := config.Default()
	cfg.Lint.RedundantBang = config.LintOff
	quiet := DiagnoseSource("s.bgql", src, Options{Config: cfg})
	assert.Zero(t, quiet.Bag.Len())
}

func TestNullableDefaultFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Compat.NullableDefault = true

	r := Parse("type A { a: Int b: Int! }", nil, cfg)
	require.True(t, r.Success)
	require.Empty(t, r.Diagnostics)
	a := r.Type("A")
	require.NotNil(t, a)
	assert.True(t, a.Field("a").Nullable)
	assert.False(t, a.Field("b").Nullable)
}

func TestDiagnosticCapFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Limits.MaxDiagnostics = 2

	res := DiagnoseSource("s.bgql", "type A { a: X b: Y c: Z d: W }", Options{Config: cfg})
	assert.Equal(t, 2, res.Bag.Len())
	assert.Equal(t, 2, res.Bag.Dropped())
	assert.False(t, res.Output.Success)
}

func TestPanicBecomesInternalFailure(t *testing.T) {
	loader := modules.LoaderFunc(func(from, name string) (modules.Source, error) {
		panic("loader exploded")
	})

	var res *Result
	require.NotPanics(t, func() {
		res = DiagnoseSource("s.bgql", "mod boom;\ntype A { id: ID }", Options{Loader: loader})
	})
	require.Equal(t, []string{"INT9001"}, codes(res.Bag))
	assert.Contains(t, res.Bag.Items()[0].Message, "loader exploded")
	assert.False(t, res.Output.Success)
	require.Len(t, res.Output.Diagnostics, 1)
	assert.Equal(t, "INT9001", res.Output.Diagnostics[0].Code)
	assert.Empty(t, res.Output.Diagnostics[0].File)
	assert.Equal(t, uint32(1), res.Output.Diagnostics[0].StartLine)
	assert.Equal(t, uint32(1), res.Output.Diagnostics[0].StartColumn)

	// разобранная часть документа не теряется
	require.NotNil(t, res.Graph)
	require.NotNil(t, res.Symbols)
	a := res.Output.Type("A")
	require.NotNil(t, a, "%v", res.Output.Types)
	assert.Equal(t, "ID", a.Field("id").Type)
}

func TestPanicBeforeParseLeavesEmptyTypes(t *testing.T) {
	var res *Result
	require.NotPanics(t, func() {
		res = DiagnoseSource("s.bgql", "type A { id: ID }", Options{
			Observer: func(ev PhaseEvent) {
				if ev.Name == "parse" && ev.Status == PhaseStart {
					panic("observer exploded")
				}
			},
		})
	})
	require.Equal(t, []string{"INT9001"}, codes(res.Bag))
	assert.Nil(t, res.Builder)
	assert.NotNil(t, res.Output.Types)
	assert.Empty(t, res.Output.Types)
}

func TestTimingsAndObserver(t *testing.T) {
	var mu sync.Mutex
	var started []string
	res := DiagnoseSource("s.bgql", "type A { id: ID }", Options{
		EnableTimings: true,
		Observer: func(ev PhaseEvent) {
			if ev.Status != PhaseStart {
				return
			}
			mu.Lock()
			started = append(started, ev.Name)
			mu.Unlock()
		},
	})

	want := []string{"parse", "modules", "bind", "sema", "assemble"}
	assert.Equal(t, want, started)
	require.NotNil(t, res.Timing)
	names := make([]string, 0, len(res.Timing.Phases))
	for _, p := range res.Timing.Phases {
		names = append(names, p.Name)
	}
	assert.Equal(t, want, names)
	assert.Equal(t, "types=1", res.Timing.Phases[4].Note)
}

func TestDiagnoseFileWithModules(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"schema.bgql": "mod a;\ntype Query { user: a::User }",
		"a.bgql":      "pub type User { id: ID }",
	})

	res, err := DiagnoseFile(filepath.Join(dir, "schema.bgql"), Options{})
	require.NoError(t, err)
	require.True(t, res.Success(), "%v", res.Output.Diagnostics)
	assert.NotNil(t, res.Output.Type("a::User"))
	assert.Equal(t, "a::User", res.Output.Type("Query").Field("user").Type)
}

func TestDiagnoseFileModuleCycle(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"schema.bgql": "mod a;",
		"a.bgql":      "mod b;",
		"b.bgql":      "mod a;",
	})

	res, err := DiagnoseFile(filepath.Join(dir, "schema.bgql"), Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"MOD5001"}, codes(res.Bag))
	assert.Contains(t, res.Bag.Items()[0].Message, "a -> b -> a")
}

func TestDiagnoseFileMissing(t *testing.T) {
	_, err := DiagnoseFile(filepath.Join(t.TempDir(), "nope.bgql"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load")
}

func TestTokenizeSource(t *testing.T) {
	res := TokenizeSource("t.bgql", "type A { }", config.Config{})
	require.NotEmpty(t, res.Tokens)
	assert.Equal(t, "end of file", res.Tokens[len(res.Tokens)-1].Kind.String())
	assert.Zero(t, res.Bag.Len())
}
