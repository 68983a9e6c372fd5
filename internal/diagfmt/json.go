package diagfmt

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"bgql/internal/diag"
	"bgql/internal/source"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// LocationJSON is a span; line and column are 1-based and present only
// with JSONOpts.IncludePositions.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

type FixJSON struct {
	Title string        `json:"title"`
	Edits []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON mirrors diag.Diagnostic; severity uses the lower-case
// labels of the public ParseResult.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title,omitempty"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON document. Errors and Warnings
// count the whole bag, including items cut by Max.
type DiagnosticsOutput struct {
	Success     bool             `json:"success"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Dropped     int              `json:"dropped,omitempty"`
}

type locator struct {
	fs        *source.FileSet
	mode      PathMode
	positions bool
}

func (l locator) at(span source.Span) LocationJSON {
	loc := LocationJSON{
		File:      formatPath(l.fs, l.fs.Get(span.File), l.mode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if l.positions {
		start, end := l.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (l locator) fixes(fixes []diag.Fix, previews bool) []FixJSON {
	out := make([]FixJSON, 0, len(fixes))
	for _, fix := range fixes {
		fj := FixJSON{Title: fix.Title}
		for _, edit := range fix.Edits {
			ej := FixEditJSON{Location: l.at(edit.Span), NewText: edit.NewText}
			if previews {
				// превью без исходника просто пропускаем
				if preview, err := buildFixEditPreview(l.fs, edit); err == nil {
					ej.BeforeLines, ej.AfterLines = preview.before, preview.after
				}
			}
			fj.Edits = append(fj.Edits, ej)
		}
		out = append(out, fj)
	}
	return out
}

// BuildDiagnosticsOutput builds the JSON document without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Success: true, Diagnostics: []DiagnosticJSON{}}
	if bag == nil {
		return out
	}
	items := bag.Items()
	for _, d := range items {
		switch d.Severity {
		case diag.SevError:
			out.Errors++
		case diag.SevWarning:
			out.Warnings++
		}
	}
	out.Success = !bag.HasErrors()

	limit := len(items)
	if opts.Max > 0 && opts.Max < limit {
		limit = opts.Max
	}
	loc := locator{fs: fs, mode: opts.PathMode, positions: opts.IncludePositions}
	for _, d := range items[:limit] {
		dj := DiagnosticJSON{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: loc.at(d.Primary),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: loc.at(n.Span)})
			}
		}
		if opts.IncludeFixes && len(d.Fixes) > 0 {
			dj.Fixes = loc.fixes(d.Fixes, opts.IncludePreviews)
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	out.Dropped = bag.Dropped() + len(items) - limit
	return out
}

// JSON writes the diagnostics of bag as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := jsonAPI.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
