package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"bgql/internal/diag"
	"bgql/internal/source"
)

func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("type A { a: \"unterminated string\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.bgql", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 12, End: 32},
		"Unterminated string literal",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/project/src/test.bgql"},
		{name: "Relative path", mode: PathModeRelative, contains: "src/test.bgql"},
		{name: "Basename only", mode: PathModeBasename, contains: "test.bgql:1:13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			for _, want := range []string{"ERROR", "LEX1002", "Unterminated string"} {
				if !strings.Contains(output, want) {
					t.Errorf("Expected %q in output, got:\n%s", want, output)
				}
			}
		})
	}
}

func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "Short path - as is", path: "test.bgql", expected: "test.bgql"},
		{name: "Long absolute path - basename", path: "/very/long/absolute/path/to/some/nested/directory/file.bgql", expected: "file.bgql:1:9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileID := fs.AddVirtual(tt.path, []byte("scalar A $\n"))
			bag := diag.NewBag(10)
			bag.Add(diag.New(diag.SevWarning, diag.LexUnknownChar, source.Span{File: fileID, Start: 8, End: 10}, "Test warning"))

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
			output := buf.String()

			if !strings.HasPrefix(output, tt.expected) {
				t.Errorf("Expected output to start with %q, got:\n%s", tt.expected, output)
			}
			if strings.HasPrefix(tt.expected, "file") && strings.Contains(output, "/very/long") {
				t.Errorf("long path was not shortened:\n%s", output)
			}
		})
	}
}

func TestPrettyCaretAtEOF(t *testing.T) {
	fs := source.NewFileSet()
	src := "type User { id: ID"
	fileID := fs.AddSource("schema.bgql", src)
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.SynUnclosedBrace, source.Span{File: fileID, Start: 18, End: 18}, "expected `}`"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	want := "schema.bgql:1:19: ERROR SYN2002: expected `}`\n" +
		"1 | type User { id: ID\n" +
		"  | " + strings.Repeat(" ", 18) + "^\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyUnderlineAndContext(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddSource("schema.bgql", "type A {\n  id: Strng\n}\n")
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.SemaUndefinedType, source.Span{File: fileID, Start: 15, End: 20}, "undefined type Strng"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})
	output := buf.String()

	for _, want := range []string{
		"schema.bgql:2:7: ERROR SEM3002",
		"1 | type A {\n",
		"2 |   id: Strng\n",
		"  |       ^~~~~\n",
		"3 | }\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in:\n%s", want, output)
		}
	}
}

func TestUnderlineWidths(t *testing.T) {
	tests := []struct {
		line      string
		from, to  uint32
		pad, size int
	}{
		{line: "abc", from: 2, to: 3, pad: 1, size: 1},
		{line: "abc", from: 4, to: 4, pad: 3, size: 1},
		{line: "a\tb", from: 3, to: 4, pad: 5, size: 1},
		{line: "日本x", from: 7, to: 8, pad: 4, size: 1},
		{line: "x日本", from: 2, to: 8, pad: 1, size: 4},
		{line: "short", from: 40, to: 50, pad: 5, size: 1},
	}
	for _, tt := range tests {
		pad, size := underline(tt.line, tt.from, tt.to)
		if pad != tt.pad || size != tt.size {
			t.Errorf("underline(%q, %d, %d) = %d, %d; want %d, %d", tt.line, tt.from, tt.to, pad, size, tt.pad, tt.size)
		}
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("use core::util\n")
	fileID := fs.AddVirtual("test.bgql", content)

	primary := source.Span{File: fileID, Start: 4, End: 8}
	d := diag.New(diag.SevWarning, diag.SynUnexpectedToken, primary, "unexpected token")
	d = d.WithNote(source.Span{File: fileID, Start: 10, End: 14}, "remove trailing identifier")
	d = d.WithFix("insert semicolon", diag.FixEdit{Span: source.Span{File: fileID, Start: 14, End: 14}, NewText: ";"})

	bag := diag.NewBag(4)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true})
	output := buf.String()

	if !strings.Contains(output, "note: test.bgql:1:11: remove trailing identifier") {
		t.Fatalf("expected note with location, got:\n%s", output)
	}
	if !strings.Contains(output, "fix #1: insert semicolon") {
		t.Fatalf("expected first fix entry, got:\n%s", output)
	}
	if !strings.Contains(output, "edit test.bgql:1:15-1:15 apply=\";\"") {
		t.Fatalf("expected fix edit, got:\n%s", output)
	}
	if strings.Contains(output, "preview:") {
		t.Fatalf("preview printed without ShowPreview:\n%s", output)
	}
}

func TestPrettyFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("example.bgql", []byte("type A { a: Int # missing brace"))

	insertSpan := source.Span{File: fileID, Start: 15, End: 15}
	d := diag.New(diag.SevError, diag.SynUnclosedBrace, insertSpan, "missing brace")
	d = d.WithFix("insert brace", diag.FixEdit{Span: insertSpan, NewText: " }"})

	bag := diag.NewBag(2)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowFixes: true, ShowPreview: true})
	output := buf.String()

	if !strings.Contains(output, "preview:") {
		t.Fatalf("expected preview header in output, got:\n%s", output)
	}
	if !strings.Contains(output, "- type A { a: Int # missing brace") {
		t.Fatalf("expected before line in preview, got:\n%s", output)
	}
	if !strings.Contains(output, "+ type A { a: Int } # missing brace") {
		t.Fatalf("expected after line in preview, got:\n%s", output)
	}
}

func TestPrettyColorAndDropped(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddSource("schema.bgql", "type A { a: Int! }")
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.SemaNullabilityRedundant, source.Span{File: fileID, Start: 15, End: 16}, "redundant `!`"))
	bag.Add(diag.New(diag.SevWarning, diag.SemaNullabilityRedundant, source.Span{File: fileID, Start: 15, End: 16}, "again"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})

	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output contains escapes:\n%q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escapes:\n%q", colored.String())
	}
	if !strings.Contains(plain.String(), "... and 1 more diagnostic not shown (limit 1)") {
		t.Fatalf("dropped summary missing:\n%s", plain.String())
	}
}

func TestParsePathMode(t *testing.T) {
	for in, want := range map[string]PathMode{"": PathModeAuto, "abs": PathModeAbsolute, "Relative": PathModeRelative, "basename": PathModeBasename} {
		got, err := ParsePathMode(in)
		if err != nil || got != want {
			t.Errorf("ParsePathMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePathMode("nope"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
