package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"bgql/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("bgql diag", []string{"a.bgql", "b.bgql"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.bgql", Phase: "sema", Status: driver.StatusWorking})
	if got := m.items[0].status; got != "working" {
		t.Fatalf("status = %q", got)
	}
	view := m.View()
	if !strings.Contains(view, "sema") || !strings.Contains(view, "(0/2)") {
		t.Fatalf("view:\n%s", view)
	}

	m.Update(eventMsg{File: "a.bgql", Status: driver.StatusError})
	m.Update(eventMsg{File: "b.bgql", Status: driver.StatusCached})
	m.Update(eventMsg{File: "unknown.bgql", Status: driver.StatusDone})
	view = m.View()
	if !strings.Contains(view, "(2/2), 1 with errors") {
		t.Fatalf("view:\n%s", view)
	}

	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatal("expected quit after done")
	}
	if !strings.HasPrefix(stripANSI(m.View()), "done: ") {
		t.Fatalf("view:\n%s", m.View())
	}
}

func TestProgressModelWindowSize(t *testing.T) {
	m := NewProgressModel("x", []string{strings.Repeat("d/", 40) + "f.bgql"}, nil).(*progressModel)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if m.width != 40 || m.prog.Width != 36 {
		t.Fatalf("width = %d, prog = %d", m.width, m.prog.Width)
	}
	if !strings.Contains(m.View(), "...") {
		t.Fatalf("long path not truncated:\n%s", m.View())
	}
}

func TestEmptyModel(t *testing.T) {
	m := NewProgressModel("x", nil, nil)
	if m.View() != "" {
		t.Fatal("empty model should render nothing")
	}
}

func TestProgressFor(t *testing.T) {
	tests := []struct {
		item fileItem
		want float64
	}{
		{fileItem{status: "queued"}, 0},
		{fileItem{status: "working", phase: "parse"}, 0.2},
		{fileItem{status: "working", phase: "sema"}, 0.8},
		{fileItem{status: "done"}, 1},
		{fileItem{status: "cached"}, 1},
	}
	for _, tt := range tests {
		if got := progressFor(tt.item); got != tt.want {
			t.Errorf("progressFor(%+v) = %v, want %v", tt.item, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Errorf("truncate = %q", got)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
