package diag

import (
	"fmt"
	"sort"
	"strings"

	"bgql/internal/source"
)

type goldenLine struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGoldenDiagnostics renders one line per diagnostic:
//
//	error SYN2002 schema.bgql:3:1 expected '}' ...
//
// The order is deterministic so the output can be stored in golden files.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	lines := make([]goldenLine, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		lines = append(lines, goldenOf(fs, d.Primary, d.Severity.Label(), d.Code.ID(), d.Message))
		if includeNotes {
			for _, n := range d.Notes {
				lines = append(lines, goldenOf(fs, n.Span, "note", d.Code.ID(), n.Msg))
			}
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Message < b.Message
	})
	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s %s %s:%d:%d %s", l.Severity, l.Code, l.Path, l.Line, l.Column, l.Message)
	}
	return sb.String()
}

func goldenOf(fs *source.FileSet, sp source.Span, sev, code, msg string) goldenLine {
	path := ""
	if f := fs.Get(sp.File); f != nil {
		path = strings.TrimPrefix(f.Path, "./")
	}
	start, _ := fs.Resolve(sp)
	return goldenLine{
		Severity: sev,
		Code:     code,
		Path:     path,
		Line:     start.Line,
		Column:   start.Col,
		Message:  sanitizeMessage(msg),
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
