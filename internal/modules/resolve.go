package modules

import (
	"errors"
	"fmt"
	"strings"

	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/lexer"
	"bgql/internal/parser"
	"bgql/internal/source"
)

// DefaultMaxDepth bounds module nesting below the root.
const DefaultMaxDepth = 32

type Options struct {
	Loader   Loader // nil: every `mod name;` is an error
	Reporter diag.Reporter
	MaxDepth int
	// Parser and Lexer configure parsing of loaded modules; their Reporter
	// fields are replaced by Reporter.
	Parser parser.Options
	Lexer  lexer.Options
}

type color uint8

const (
	white color = iota
	gray
	black
)

type resolver struct {
	fs     *source.FileSet
	b      *ast.Builder
	opts   Options
	g      *Graph
	byKey  map[string]ModuleID
	modOf  map[ast.ItemID]ModuleID // mod item -> module it declares
	color  []color
	stack  []ModuleID
	istate []importState
}

// Resolve builds the module graph rooted at the parsed root file, loading
// external modules through opts.Loader, and resolves every `use`.
func Resolve(fs *source.FileSet, b *ast.Builder, root ast.FileID, opts Options) *Graph {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	opts.Parser.Reporter = opts.Reporter
	opts.Lexer.Reporter = opts.Reporter

	r := &resolver{
		fs:    fs,
		b:     b,
		opts:  opts,
		g:     &Graph{},
		byKey: make(map[string]ModuleID),
		modOf: make(map[ast.ItemID]ModuleID),
	}
	var items []ast.ItemID
	if f := b.Files.Get(root); f != nil {
		items = f.Items
	}
	r.add(&Module{Parent: NoModule, File: root, Items: items, key: "crate"})

	r.visit(RootModule)
	r.assignPaths()
	r.indexDecls()
	r.resolveImports()
	return r.g
}

func (r *resolver) add(m *Module) ModuleID {
	m.ID = ModuleID(len(r.g.Modules)) //nolint:gosec // bounded by the number of mod items
	m.Decls = make(map[DeclKey]DeclRef)
	r.g.Modules = append(r.g.Modules, m)
	r.color = append(r.color, white)
	r.byKey[m.key] = m.ID
	return m.ID
}

func (r *resolver) report(code diag.Code, sp source.Span, msg string, notes ...diag.Note) {
	r.opts.Reporter.Report(code, diag.SevError, sp, msg, notes, nil)
}

// visit: DFS с тремя цветами по рёбрам `mod`. Обратное ребро к серому узлу
// есть цикл: сообщаем один раз и ребро выбрасываем.
func (r *resolver) visit(id ModuleID) {
	r.color[id] = gray
	r.stack = append(r.stack, id)

	mod := r.g.Modules[id]
	seen := make(map[string]ast.ItemID)
	for _, itemID := range mod.Items {
		decl, ok := r.b.Items.Mod(itemID)
		if !ok {
			continue
		}
		item := r.b.Items.Get(itemID)
		name := r.b.Name(item.Name)
		if first, dup := seen[name]; dup {
			r.report(diag.ModDuplicate, item.NameSpan, fmt.Sprintf("module `%s` is declared more than once", name),
				diag.Note{Span: r.b.Items.Get(first).NameSpan, Msg: "first declared here"})
			continue
		}
		seen[name] = itemID

		if len(r.stack) > r.opts.MaxDepth {
			r.report(diag.ModTooDeep, item.Span, fmt.Sprintf("module `%s` is nested deeper than %d levels", name, r.opts.MaxDepth))
			continue
		}
		child, ok := r.child(mod, itemID, name, decl)
		if !ok {
			continue
		}
		switch r.color[child] {
		case gray:
			r.reportCycle(child, r.b.Items.Get(itemID))
			continue
		case white:
			mod.Edges = append(mod.Edges, Edge{To: child, Decl: itemID})
			r.modOf[itemID] = child
			r.visit(child)
		case black:
			mod.Edges = append(mod.Edges, Edge{To: child, Decl: itemID})
			r.modOf[itemID] = child
		}
	}

	r.stack = r.stack[:len(r.stack)-1]
	r.color[id] = black
}

func (r *resolver) reportCycle(target ModuleID, item *ast.Item) {
	start := 0
	for i, id := range r.stack {
		if id == target {
			start = i
			break
		}
	}
	names := make([]string, 0, len(r.stack)-start+1)
	for _, id := range r.stack[start:] {
		names = append(names, r.g.Modules[id].DisplayName())
	}
	names = append(names, r.g.Modules[target].DisplayName())
	r.report(diag.ModCycle, item.Span, "module cycle detected: "+strings.Join(names, " -> "))
}

// child finds or creates the module declared by one `mod` item.
func (r *resolver) child(parent *Module, itemID ast.ItemID, name string, decl *ast.ModDecl) (ModuleID, bool) {
	item := r.b.Items.Get(itemID)
	if !decl.External {
		key := parent.key + "/" + name
		if id, ok := r.byKey[key]; ok {
			return id, true
		}
		return r.add(&Module{
			Name:     name,
			File:     parent.File,
			Items:    decl.Items,
			Decl:     itemID,
			key:      key,
			loadName: joinPath(parent.loadName, name),
		}), true
	}

	if r.opts.Loader == nil {
		r.report(diag.ModNoLoader, item.Span, fmt.Sprintf("cannot load module `%s`: no module loader is configured", name))
		return NoModule, false
	}
	src, err := r.opts.Loader.Load(parent.loadName, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.report(diag.ModNotFound, item.Span, fmt.Sprintf("module `%s` not found", name))
		} else {
			r.report(diag.ModLoadFailed, item.Span, fmt.Sprintf("failed to load module `%s`: %v", name, err))
		}
		return NoModule, false
	}
	canon := src.Name
	if canon == "" {
		canon = name
	}
	key := "ext:" + canon
	if id, ok := r.byKey[key]; ok {
		return id, true
	}

	path := src.Path
	if path == "" {
		path = canon + ".bgql"
	}
	fileID := r.fs.AddSource(path, src.Text)
	lx := lexer.New(r.fs.Get(fileID), r.opts.Lexer)
	res := parser.ParseFile(lx, r.b, r.opts.Parser)
	return r.add(&Module{
		Name:     name,
		File:     res.File,
		Items:    r.b.Files.Get(res.File).Items,
		Decl:     itemID,
		External: true,
		key:      key,
		loadName: canon,
	}), true
}

// assignPaths: BFS от корня в порядке объявлений: родитель, глубина, путь.
func (r *resolver) assignPaths() {
	seen := make([]bool, len(r.g.Modules))
	seen[RootModule] = true
	queue := []ModuleID{RootModule}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		r.g.order = append(r.g.order, id)
		mod := r.g.Modules[id]
		for _, e := range mod.Edges {
			if seen[e.To] {
				continue
			}
			seen[e.To] = true
			child := r.g.Modules[e.To]
			child.Parent = id
			child.Depth = mod.Depth + 1
			child.Name = r.b.Name(r.b.Items.Get(e.Decl).Name)
			child.Path = joinPath(mod.Path, child.Name)
			queue = append(queue, e.To)
		}
	}
}

// indexDecls records the first declaration of every name per module.
func (r *resolver) indexDecls() {
	for _, id := range r.g.order {
		mod := r.g.Modules[id]
		for _, itemID := range mod.Items {
			item := r.b.Items.Get(itemID)
			ns, ok := NamespaceOf(item.Kind)
			if !ok || item.Name == source.NoStringID {
				continue
			}
			key := DeclKey{NS: ns, Name: r.b.Name(item.Name)}
			if _, dup := mod.Decls[key]; dup {
				continue
			}
			ref := DeclRef{Module: id, Item: itemID, Target: NoModule, Vis: item.Visibility, Span: item.NameSpan}
			if ns == NSModule {
				if target, ok := r.modOf[itemID]; ok {
					ref.Target = target
				}
			}
			mod.Decls[key] = ref
		}
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "::" + name
}
