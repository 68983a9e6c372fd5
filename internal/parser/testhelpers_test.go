package parser

import (
	"fmt"
	"strings"
	"testing"

	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/lexer"
	"bgql/internal/source"
)

type parsed struct {
	b    *ast.Builder
	file *ast.File
	bag  *diag.Bag
}

func parseSourceOpts(t *testing.T, src string, opts Options) parsed {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddSource("schema.bgql", src)
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.Hints{}, nil)
	opts.Reporter = rep
	res := ParseFile(lx, b, opts)
	return parsed{b: b, file: b.Files.Get(res.File), bag: bag}
}

func parseSource(t *testing.T, src string) parsed {
	t.Helper()
	return parseSourceOpts(t, src, Options{})
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func (ps parsed) item(t *testing.T, i int) *ast.Item {
	t.Helper()
	if i >= len(ps.file.Items) {
		t.Fatalf("file has %d items, want index %d", len(ps.file.Items), i)
	}
	return ps.b.Items.Get(ps.file.Items[i])
}

func (ps parsed) itemNames() []string {
	out := make([]string, 0, len(ps.file.Items))
	for _, id := range ps.file.Items {
		out = append(out, ps.b.Name(ps.b.Items.Get(id).Name))
	}
	return out
}

// typeString renders a type expression back to source form.
func (ps parsed) typeString(id ast.TypeID) string {
	expr := ps.b.Types.Get(id)
	if expr == nil {
		return "<nil>"
	}
	var s string
	switch expr.Kind {
	case ast.TypeList:
		s = "[" + ps.typeString(expr.Args[0]) + "]"
	case ast.TypeOption:
		s = "Option<" + ps.typeString(expr.Args[0]) + ">"
	case ast.TypeTuple:
		parts := make([]string, len(expr.Args))
		for i, a := range expr.Args {
			parts[i] = ps.typeString(a)
		}
		s = "(" + strings.Join(parts, ", ") + ")"
	default:
		segs := make([]string, len(expr.Path))
		for i, seg := range expr.Path {
			segs[i] = ps.b.Name(seg.Name)
		}
		s = strings.Join(segs, "::")
		if expr.Kind == ast.TypeGeneric {
			parts := make([]string, len(expr.Args))
			for i, a := range expr.Args {
				parts[i] = ps.typeString(a)
			}
			s += "<" + strings.Join(parts, ", ") + ">"
		}
	}
	if expr.Bang {
		s += "!"
	}
	return s
}
