package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bgql/internal/diag"
	"bgql/internal/source"
)

const tabWidth = 4

type palette struct {
	err    *color.Color
	warn   *color.Color
	info   *color.Color
	note   *color.Color
	gutter *color.Color
	caret  *color.Color
	bold   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgGreen),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		// явное переключение, чтобы не зависеть от глобального color.NoColor
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders diagnostics for a terminal. Items are printed in bag order
// (bag.Sort() is expected beforehand):
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source line with a ^~~~ underline, then notes and fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f := fs.Get(d.Primary.File)
		start, end := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			formatPath(fs, f, opts.PathMode), start.Line, start.Col,
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			d.Code.ID(),
			pal.bold.Sprint(d.Message))
		if f != nil {
			printSnippet(w, f, start, end, opts, pal)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				nf := fs.Get(n.Span.File)
				ns, _ := fs.Resolve(n.Span)
				fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"), formatPath(fs, nf, opts.PathMode), ns.Line, ns.Col, n.Msg)
			}
		}
		if opts.ShowFixes {
			printFixes(w, fs, d.Fixes, opts, pal)
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "\n... and %d more %s not shown (limit %d)\n", dropped, plural(dropped, "diagnostic"), bag.Cap())
	}
}

func printSnippet(w io.Writer, f *source.File, start, end source.LineCol, opts PrettyOpts, pal palette) {
	lineCount := uint32(len(f.LineIdx)) + 1 //nolint:gosec // bounded by file size
	ctx := uint32(max(opts.Context, 0))     //nolint:gosec // non-negative
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := min(start.Line+ctx, lineCount)
	gw := len(strconv.FormatUint(uint64(last), 10))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		display := expandTabs(text)
		if opts.Width > 0 {
			display = runewidth.Truncate(display, opts.Width, "…")
		}
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gw, ln), display)
		if ln != start.Line {
			continue
		}
		endCol := uint32(len(text)) + 1 //nolint:gosec // line length fits the file
		if end.Line == start.Line {
			endCol = min(max(end.Col, start.Col), endCol)
		}
		pad, width := underline(text, start.Col, endCol)
		marker := "^" + strings.Repeat("~", max(width-1, 0))
		fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%*s |", gw, ""), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
	}
}

// underline returns the display offset and width of columns [from, to) of
// line; both are 1-based byte columns. An empty range still gets one caret.
func underline(line string, from, to uint32) (pad, width int) {
	n := uint32(len(line)) //nolint:gosec // line length fits the file
	lo := min(from-1, n)
	hi := min(max(to-1, lo), n)
	pad = runewidth.StringWidth(expandTabs(line[:lo]))
	width = runewidth.StringWidth(expandTabs(line[lo:hi]))
	return pad, max(width, 1)
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func printFixes(w io.Writer, fs *source.FileSet, fixes []diag.Fix, opts PrettyOpts, pal palette) {
	for i, fix := range fixes {
		fmt.Fprintf(w, "  %s %s\n", pal.note.Sprintf("fix #%d:", i+1), fix.Title)
		for _, edit := range fix.Edits {
			f := fs.Get(edit.Span.File)
			s, e := fs.Resolve(edit.Span)
			fmt.Fprintf(w, "    edit %s:%d:%d-%d:%d apply=%q\n", formatPath(fs, f, opts.PathMode), s.Line, s.Col, e.Line, e.Col, edit.NewText)
			if !opts.ShowPreview {
				continue
			}
			preview, err := buildFixEditPreview(fs, edit)
			if err != nil {
				continue
			}
			fmt.Fprintln(w, "    preview:")
			for _, line := range preview.before {
				fmt.Fprintf(w, "      - %s\n", line)
			}
			for _, line := range preview.after {
				fmt.Fprintf(w, "      + %s\n", line)
			}
		}
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
