package modules

import (
	"fmt"
	"slices"

	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/source"
)

type importState uint8

const (
	importsPending importState = iota
	importsActive
	importsDone
)

var allNamespaces = [...]Namespace{NSType, NSDirective, NSFragment, NSModule}

func (r *resolver) resolveImports() {
	r.istate = make([]importState, len(r.g.Modules))
	for _, id := range r.g.order {
		r.resolveModuleImports(id)
	}
}

// resolveModuleImports is re-entrant: a `use` naming a re-export of another
// module resolves that module's imports first.
func (r *resolver) resolveModuleImports(id ModuleID) {
	if r.istate[id] != importsPending {
		return
	}
	r.istate[id] = importsActive
	for _, itemID := range r.g.Modules[id].Items {
		if use, ok := r.b.Items.Use(itemID); ok {
			r.resolveUse(id, itemID, use)
		}
	}
	r.istate[id] = importsDone
}

func (r *resolver) resolveUse(from ModuleID, itemID ast.ItemID, use *ast.UseDecl) {
	item := r.b.Items.Get(itemID)
	target, ok := r.walkPath(from, use.Path)
	if !ok {
		return
	}
	if use.Glob {
		r.importGlob(from, itemID, item, target)
		return
	}
	for _, un := range use.Names {
		name := r.b.Name(un.Name)
		local := name
		if un.Alias != source.NoStringID {
			local = r.b.Name(un.Alias)
		}
		r.importName(from, itemID, item, target, name, local, un.Span)
	}
}

// importName brings every namespace entry called name in target into from.
func (r *resolver) importName(from ModuleID, itemID ast.ItemID, item *ast.Item, target ModuleID, name, local string, sp source.Span) {
	var (
		found, cyclic bool
		hidden        *DeclRef
		hiddenVis     ast.Visibility
	)
	for _, ns := range allNamespaces {
		ref, vis, state := r.lookupExport(target, DeclKey{NS: ns, Name: name})
		switch state {
		case exportMissing:
			continue
		case exportCyclic:
			cyclic = true
			continue
		}
		if !r.g.Visible(target, vis, from) {
			if hidden == nil {
				hidden, hiddenVis = &ref, vis
			}
			continue
		}
		found = true
		r.addImport(from, Import{
			Key:  DeclKey{NS: ns, Name: local},
			Decl: ref,
			Use:  itemID,
			Vis:  item.Visibility,
			Span: sp,
		})
	}
	if found {
		return
	}
	mod := r.g.Modules[target]
	switch {
	case hidden != nil:
		r.report(diag.ModNotVisible, sp,
			fmt.Sprintf("`%s` is %s in module `%s` and not visible here", name, hiddenVis, mod.DisplayName()),
			diag.Note{Span: hidden.Span, Msg: "declared here"})
	case cyclic:
		r.report(diag.ModCyclicReexport, sp, fmt.Sprintf("`%s` is re-exported in a cycle", name))
	default:
		r.report(diag.ModUnresolvedImport, sp, fmt.Sprintf("cannot find `%s` in module `%s`", name, mod.DisplayName()))
	}
}

func (r *resolver) importGlob(from ModuleID, itemID ast.ItemID, item *ast.Item, target ModuleID) {
	mod := r.g.Modules[target]
	keys := make([]DeclKey, 0, len(mod.Decls))
	for k := range mod.Decls {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b DeclKey) int {
		if a.NS != b.NS {
			return int(a.NS) - int(b.NS)
		}
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	for _, k := range keys {
		ref := mod.Decls[k]
		if !r.g.Visible(target, ref.Vis, from) {
			continue
		}
		r.addImport(from, Import{Key: k, Decl: ref, Use: itemID, Vis: item.Visibility, Span: item.Span, Glob: true})
	}
	if target != from {
		r.resolveModuleImports(target)
	}
	// цикл glob-импортов: берём то, что уже разрешено
	for _, imp := range mod.Imports {
		if _, local := mod.Decls[imp.Key]; local || !r.g.Visible(target, imp.Vis, from) {
			continue
		}
		r.addImport(from, Import{Key: imp.Key, Decl: imp.Decl, Use: itemID, Vis: item.Visibility, Span: item.Span, Glob: true})
	}
}

// addImport skips exact repeats and reports two explicit imports of one name
// that point at different declarations.
func (r *resolver) addImport(from ModuleID, imp Import) {
	mod := r.g.Modules[from]
	for _, prev := range mod.Imports {
		if prev.Key != imp.Key || prev.Glob != imp.Glob {
			continue
		}
		if prev.Decl.Module == imp.Decl.Module && prev.Decl.Item == imp.Decl.Item {
			return
		}
		if !imp.Glob {
			r.report(diag.ModDuplicate, imp.Span, fmt.Sprintf("`%s` is imported more than once", imp.Key.Name),
				diag.Note{Span: prev.Span, Msg: "previous import here"})
			return
		}
	}
	mod.Imports = append(mod.Imports, imp)
}

type exportState uint8

const (
	exportFound exportState = iota
	exportMissing
	exportCyclic
)

// lookupExport finds key among target's declarations, then among its
// explicit imports, then its glob imports. vis is the visibility that
// applies to outside importers.
func (r *resolver) lookupExport(target ModuleID, key DeclKey) (DeclRef, ast.Visibility, exportState) {
	mod := r.g.Modules[target]
	if ref, ok := mod.Decls[key]; ok {
		return ref, ref.Vis, exportFound
	}
	cyclic := false
	switch r.istate[target] {
	case importsPending:
		r.resolveModuleImports(target)
	case importsActive:
		cyclic = true
	}
	for _, glob := range []bool{false, true} {
		for _, imp := range mod.Imports {
			if imp.Key == key && imp.Glob == glob {
				return imp.Decl, imp.Vis, exportFound
			}
		}
	}
	if cyclic {
		return DeclRef{}, 0, exportCyclic
	}
	return DeclRef{}, 0, exportMissing
}

// walkPath resolves the module part of a use path.
func (r *resolver) walkPath(from ModuleID, path []ast.PathSeg) (ModuleID, bool) {
	cur := from
	leading := true // crate/self/super допустимы только в начале пути
	for i, seg := range path {
		name := r.b.Name(seg.Name)
		switch {
		case leading && i == 0 && name == "crate":
			cur = RootModule
			continue
		case leading && i == 0 && name == "self":
			continue
		case leading && name == "super":
			parent := r.g.Modules[cur].Parent
			if parent == NoModule {
				r.report(diag.ModBadPath, seg.Span, "`super` used in the root module")
				return NoModule, false
			}
			cur = parent
			continue
		case name == "crate" || name == "self" || name == "super":
			r.report(diag.ModBadPath, seg.Span, fmt.Sprintf("`%s` is only allowed at the start of a path", name))
			return NoModule, false
		}
		leading = false

		mod := r.g.Modules[cur]
		ref, ok := mod.Decls[DeclKey{NS: NSModule, Name: name}]
		if !ok && i == 0 {
			ref, ok = r.importedModule(cur, name)
		}
		if !ok || ref.Target == NoModule {
			r.report(diag.ModUnresolvedImport, seg.Span, fmt.Sprintf("cannot find module `%s` in `%s`", name, mod.DisplayName()))
			return NoModule, false
		}
		if !r.g.Visible(ref.Module, ref.Vis, from) {
			r.report(diag.ModNotVisible, seg.Span, fmt.Sprintf("module `%s` is %s and not visible here", name, ref.Vis),
				diag.Note{Span: ref.Span, Msg: "declared here"})
			return NoModule, false
		}
		cur = ref.Target
	}
	return cur, true
}

func (r *resolver) importedModule(in ModuleID, name string) (DeclRef, bool) {
	for _, imp := range r.g.Modules[in].Imports {
		if imp.Key.NS == NSModule && imp.Key.Name == name {
			return imp.Decl, true
		}
	}
	return DeclRef{}, false
}
