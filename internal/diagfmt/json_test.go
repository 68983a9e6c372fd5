package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"bgql/internal/diag"
	"bgql/internal/lexer"
	"bgql/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.bgql", []byte("type A {\n  a: \"unterminated\n}"))
	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.LexUnterminatedString, source.Span{File: fileID, Start: 14, End: 27}, "Unterminated string literal")
	d = d.WithNote(source.Span{File: fileID, Start: 7, End: 8}, "inside this body")
	d = d.WithFix("close the string", diag.FixEdit{Span: source.Span{File: fileID, Start: 27, End: 27}, NewText: "\""})
	bag.Add(d)
	bag.Add(diag.New(diag.SevWarning, diag.SemaNullabilityRedundant, source.Span{File: fileID, Start: 11, End: 12}, "redundant"))
	return bag, fs
}

func TestJSONBasic(t *testing.T) {
	bag, fs := sampleBag(t)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludePreviews:  true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := jsonAPI.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 2 || len(output.Diagnostics) != 2 {
		t.Fatalf("Expected 2 diagnostics, got %d", output.Count)
	}

	d := output.Diagnostics[0]
	if d.Severity != "error" || d.Code != "LEX1002" || d.Title == "" {
		t.Errorf("severity/code/title = %s %s %q", d.Severity, d.Code, d.Title)
	}
	if output.Success || output.Errors != 1 || output.Warnings != 1 {
		t.Errorf("summary = success %t, %d errors, %d warnings", output.Success, output.Errors, output.Warnings)
	}
	loc := d.Location
	if loc.File != "test.bgql" || loc.StartByte != 14 || loc.StartLine != 2 || loc.StartCol != 6 {
		t.Errorf("location = %+v", loc)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 1 {
		t.Errorf("notes = %+v", d.Notes)
	}
	if len(d.Fixes) != 1 || len(d.Fixes[0].Edits) != 1 {
		t.Fatalf("fixes = %+v", d.Fixes)
	}
	edit := d.Fixes[0].Edits[0]
	if edit.NewText != "\"" || len(edit.AfterLines) != 1 || edit.AfterLines[0] != "  a: \"unterminated\"" {
		t.Errorf("edit = %+v", edit)
	}
}

func TestJSONWithoutOptionalParts(t *testing.T) {
	bag, fs := sampleBag(t)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename, Max: 1}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	out := buf.String()
	for _, absent := range []string{"start_line", "notes", "fixes"} {
		if strings.Contains(out, absent) {
			t.Errorf("unexpected %q in:\n%s", absent, out)
		}
	}
	if !strings.Contains(out, `"count": 1`) || !strings.Contains(out, `"dropped": 1`) {
		t.Errorf("expected truncation to one item:\n%s", out)
	}
}

func TestSarif(t *testing.T) {
	bag, fs := sampleBag(t)

	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "bgql", ToolVersion: "0.1.0", InvocationArgs: []string{"bgql", "diag"}}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}

	var log sarifLog
	if err := jsonAPI.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "bgql" || run.Tool.Driver.Version != "0.1.0" {
		t.Errorf("driver = %+v", run.Tool.Driver)
	}
	if len(run.Tool.Driver.Rules) != 2 || run.Tool.Driver.Rules[0].ID != "LEX1002" || run.Tool.Driver.Rules[1].ID != "SEM3140" {
		t.Errorf("rules = %+v", run.Tool.Driver.Rules)
	}
	if len(run.Results) != 2 {
		t.Fatalf("results = %+v", run.Results)
	}
	first := run.Results[0]
	if first.Level != "error" || first.RuleIndex != 0 || first.Message.Text != "Unterminated string literal" {
		t.Errorf("result = %+v", first)
	}
	region := first.Locations[0].PhysicalLocation.Region
	if region.StartLine != 2 || region.StartColumn != 6 {
		t.Errorf("region = %+v", region)
	}
	if first.Locations[0].PhysicalLocation.ArtifactLocation.URI != "test.bgql" {
		t.Errorf("uri = %q", first.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	}
	if len(first.RelatedLocations) != 1 || first.RelatedLocations[0].Message.Text != "inside this body" {
		t.Errorf("related = %+v", first.RelatedLocations)
	}
	if run.Results[1].Level != "warning" || run.Results[1].RuleIndex != 1 {
		t.Errorf("second result = %+v", run.Results[1])
	}
	if !strings.Contains(buf.String(), `"$schema"`) {
		t.Error("missing $schema")
	}
}

func TestSarifMultiMergesRules(t *testing.T) {
	bag, fs := sampleBag(t)

	other := source.NewFileSet()
	fileID := other.AddVirtual("other.bgql", []byte("type B { b: Missing }"))
	otherBag := diag.NewBag(10)
	otherBag.Add(diag.NewError(diag.SemaUndefinedType, source.Span{File: fileID, Start: 12, End: 19}, "undefined type Missing"))

	var buf bytes.Buffer
	inputs := []SarifInput{{Bag: bag, Files: fs}, {Bag: otherBag, Files: other}}
	if err := SarifMulti(&buf, inputs, SarifRunMeta{}); err != nil {
		t.Fatalf("SarifMulti() error: %v", err)
	}

	var log sarifLog
	if err := jsonAPI.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "bgql" {
		t.Errorf("default tool name = %q", run.Tool.Driver.Name)
	}
	ids := make([]string, len(run.Tool.Driver.Rules))
	for i, r := range run.Tool.Driver.Rules {
		ids[i] = r.ID
	}
	if strings.Join(ids, ",") != "LEX1002,SEM3002,SEM3140" {
		t.Errorf("rules = %v", ids)
	}
	if len(run.Results) != 3 {
		t.Fatalf("results = %d", len(run.Results))
	}
	last := run.Results[2]
	if last.RuleIndex != 1 || last.Locations[0].PhysicalLocation.ArtifactLocation.URI != "other.bgql" {
		t.Errorf("last result = %+v", last)
	}
}

func TestShort(t *testing.T) {
	bag, fs := sampleBag(t)

	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, false); err != nil {
		t.Fatal(err)
	}
	want := "warning SEM3140 test.bgql:2:3 redundant\n" +
		"error LEX1002 test.bgql:2:6 Unterminated string literal\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}

	buf.Reset()
	if err := Short(&buf, diag.NewBag(0), fs, false); err != nil || buf.Len() != 0 {
		t.Fatalf("empty bag wrote %q (%v)", buf.String(), err)
	}
}

func TestTokens(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddSource("t.bgql", "type A # doc\n{ }")
	tokens := lexer.New(fs.Get(fileID), lexer.Options{}).Tokenize()

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, tokens, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(pretty.String(), "\n"), "\n")
	if len(lines) != len(tokens) {
		t.Fatalf("lines = %d, tokens = %d:\n%s", len(lines), len(tokens), pretty.String())
	}
	if !strings.Contains(lines[0], "'type'") || !strings.Contains(lines[0], "at 1:1-1:5") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "leading: space, comment, newline") {
		t.Errorf("third line = %q", lines[2])
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, tokens, fs); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := jsonAPI.Unmarshal(js.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out) != len(tokens) || out[2].Line != 2 || out[2].Column != 1 || out[len(out)-1].Kind != "end of file" {
		t.Errorf("tokens = %+v", out)
	}
}
