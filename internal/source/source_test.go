package source

import (
	"testing"
)

func TestAddSourceNormalizes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddSource("schema.bgql", "\xEF\xBB\xBFtype A {\r\n  id: ID\r\n}\r\n")
	f := fs.Get(id)
	if f == nil {
		t.Fatal("file not stored")
	}
	if string(f.Content) != "type A {\n  id: ID\n}\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	want := FileVirtual | FileHadBOM | FileNormalizedCRLF
	if f.Flags != want {
		t.Fatalf("flags = %b, want %b", f.Flags, want)
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.bgql", []byte("ab\ncd\n\nx"))
	tests := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3}, // сам '\n'
		{3, 2, 1},
		{6, 3, 1},
		{7, 4, 1},
		{8, 4, 2},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start.Line != tt.line || start.Col != tt.col {
			t.Errorf("offset %d: got %d:%d, want %d:%d", tt.off, start.Line, start.Col, tt.line, tt.col)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.bgql", []byte("first\nsecond\n")))
	tests := map[uint32]string{0: "", 1: "first", 2: "second", 3: "", 4: ""}
	for n, want := range tests {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFileVersioning(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("a.bgql", []byte("one"))
	second := fs.AddVirtual("a.bgql", []byte("two"))
	if first == second {
		t.Fatal("re-adding a path must allocate a new id")
	}
	latest, ok := fs.GetLatest("a.bgql")
	if !ok || latest != second {
		t.Fatalf("GetLatest = %d,%v; want %d", latest, ok, second)
	}
	if string(fs.Get(first).Content) != "one" {
		t.Fatal("old version lost")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Fatalf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("cross-file Cover changed span: %v", got)
	}
	if !a.Cover(b).Contains(a) {
		t.Fatal("cover must contain its inputs")
	}
	if at := a.At(); !at.Empty() || at.Start != 8 {
		t.Fatalf("At = %v", at)
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern("User")
	b := in.Intern("User")
	if a != b || a == NoStringID {
		t.Fatalf("intern ids: %d %d", a, b)
	}
	if s := in.MustLookup(a); s != "User" {
		t.Fatalf("lookup = %q", s)
	}
	if _, ok := in.Find("Post"); ok {
		t.Fatal("Find must not intern")
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatal("unknown id resolved")
	}
}
