package diag

import (
	"testing"

	"bgql/internal/source"
)

func TestBagCapKeepsErrorSignal(t *testing.T) {
	bag := NewBag(1)
	r := BagReporter{Bag: bag}
	r.Report(SemaNullabilityRedundant, SevWarning, source.Span{}, "first", nil, nil)
	r.Report(SemaUndefinedType, SevError, source.Span{}, "second", nil, nil)
	if bag.Len() != 1 {
		t.Fatalf("len = %d, want 1", bag.Len())
	}
	if bag.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", bag.Dropped())
	}
	if !bag.HasErrors() {
		t.Fatal("a dropped error must still count")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewError(SemaUndefinedType, source.Span{Start: 10, End: 12}, "undefined type Y"))
	bag.Add(NewError(SynUnclosedBrace, source.Span{Start: 2, End: 2}, "expected '}'"))
	bag.Add(NewError(SemaUndefinedType, source.Span{Start: 10, End: 12}, "undefined type Y"))
	bag.Add(New(SevWarning, SemaNullabilityRedundant, source.Span{Start: 10, End: 12}, "redundant"))
	bag.Sort()
	bag.Dedup()
	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	if items[0].Code != SynUnclosedBrace {
		t.Fatalf("first = %s", items[0].Code.ID())
	}
	if items[1].Severity != SevError || items[2].Severity != SevWarning {
		t.Fatal("errors must sort before warnings on the same span")
	}
}

func TestCodeIDs(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{LexUnknownChar, "LEX1001"},
		{SynUnclosedBrace, "SYN2002"},
		{SemaUndefinedType, "SEM3002"},
		{ModCycle, "MOD5001"},
		{InternalFailure, "INT9001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %s, want %s", tt.code, got, tt.want)
		}
	}
	if ModCycle.Title() != "Module cycle" {
		t.Errorf("title = %q", ModCycle.Title())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportError(BagReporter{Bag: bag}, SemaDuplicateSymbol, source.Span{Start: 5, End: 9}, "duplicate type User").
		WithNote(source.Span{Start: 0, End: 4}, "previous declaration here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("len = %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatal("note lost")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for i := 0; i < 3; i++ {
		r.Report(SemaUndefinedType, SevError, source.Span{Start: 1, End: 2}, "undefined type Y", nil, nil)
	}
	if bag.Len() != 1 {
		t.Fatalf("len = %d", bag.Len())
	}
}

func TestFormatGolden(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("schema.bgql", []byte("type User {\n  id: ID\n"))
	diags := []Diagnostic{
		NewError(SynUnclosedBrace, source.Span{File: id, Start: 21, End: 21}, "expected '}'"),
	}
	got := FormatGoldenDiagnostics(diags, fs, false)
	want := "error SYN2002 schema.bgql:3:1 expected '}'"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
