package symbols

import (
	"fmt"
	"strings"

	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/modules"
	"bgql/internal/source"
)

type Options struct {
	Reporter diag.Reporter
}

type binder struct {
	t   *Table
	g   *modules.Graph
	b   *ast.Builder
	rep diag.Reporter
	// undefined: уже сообщённые неизвестные типы, по модулю и имени
	undefined map[undefKey]struct{}
}

type undefKey struct {
	module modules.ModuleID
	name   string
}

// Bind registers every declaration of every module and resolves all type
// references. It never fails: unresolved references bind to Table.Error.
func Bind(g *modules.Graph, b *ast.Builder, opts Options) *Table {
	rep := opts.Reporter
	if rep == nil {
		rep = diag.NopReporter{}
	}
	bd := &binder{
		t:         NewTable(Hints{Symbols: uint(b.Items.Arena.Len()) + 32}, g),
		g:         g,
		b:         b,
		rep:       rep,
		undefined: make(map[undefKey]struct{}),
	}
	// символы модулей нужны родителям раньше, чем объявлены дети
	for _, id := range g.Order() {
		bd.declareModuleSymbol(id)
	}
	for _, id := range g.Order() {
		bd.declareModule(id)
	}
	for _, id := range g.Order() {
		bd.resolveModule(id)
	}
	return bd.t
}

func (bd *binder) report(code diag.Code, sp source.Span, msg string, notes ...diag.Note) {
	bd.rep.Report(code, diag.SevError, sp, msg, notes, nil)
}

func (bd *binder) declareModuleSymbol(id modules.ModuleID) {
	mod := bd.g.Get(id)
	modSym := Symbol{Name: mod.Name, Kind: SymbolModule, Module: mod.Parent, Target: id, Item: mod.Decl, Visibility: ast.VisPublic}
	if decl := bd.b.Items.Get(mod.Decl); decl != nil {
		modSym.Visibility = decl.Visibility
		modSym.Span = decl.NameSpan
	}
	bd.t.modSyms[id] = bd.t.New(modSym)
}

func (bd *binder) declareModule(id modules.ModuleID) {
	mod := bd.g.Get(id)
	scope := bd.t.scopes[id]
	for _, itemID := range mod.Items {
		bd.t.itemModule[itemID] = id
		item := bd.b.Items.Get(itemID)
		ns, ok := modules.NamespaceOf(item.Kind)
		if !ok || item.Name == source.NoStringID {
			continue
		}
		name := bd.b.Name(item.Name)
		if ns == modules.NSModule {
			// дубликаты модулей уже сообщил резолвер
			if ref, ok := mod.Decls[modules.DeclKey{NS: ns, Name: name}]; ok && ref.Item == itemID && ref.Target != modules.NoModule {
				if child, ok := bd.t.modSyms[ref.Target]; ok {
					scope[modules.DeclKey{NS: ns, Name: name}] = child
				}
			}
			continue
		}
		if ns == modules.NSType && IsReservedType(name) {
			bd.report(diag.SemaReservedName, item.NameSpan, fmt.Sprintf("cannot redeclare built-in type `%s`", name))
			continue
		}
		key := modules.DeclKey{NS: ns, Name: name}
		if prev, dup := scope[key]; dup {
			bd.report(diag.SemaDuplicateSymbol, item.NameSpan,
				fmt.Sprintf("%s `%s` is already declared in this module", ns, name),
				diag.Note{Span: bd.t.Get(prev).Span, Msg: "first declared here"})
			continue
		}
		sym := Symbol{
			Name:       name,
			Kind:       symbolKindOf(ns),
			Decl:       item.Kind,
			Module:     id,
			Item:       itemID,
			Target:     modules.NoModule,
			Visibility: item.Visibility,
			Span:       item.NameSpan,
		}
		if obj, ok := bd.b.Items.Object(itemID); ok {
			sym.Arity = len(obj.TypeParams)
		}
		symID := bd.t.New(sym)
		scope[key] = symID
		bd.t.items[itemID] = symID
	}
}

func symbolKindOf(ns modules.Namespace) SymbolKind {
	switch ns {
	case modules.NSType:
		return SymbolType
	case modules.NSDirective:
		return SymbolDirective
	case modules.NSFragment:
		return SymbolFragment
	default:
		return SymbolModule
	}
}

// typeScope: параметры типа, видимые внутри одной декларации.
type typeScope map[string]SymbolID

// resolveModule walks every type expression of the module's declarations.
func (bd *binder) resolveModule(id modules.ModuleID) {
	for _, itemID := range bd.g.Get(id).Items {
		item := bd.b.Items.Get(itemID)
		switch item.Kind {
		case ast.ItemObject, ast.ItemInterface, ast.ItemInput:
			obj, _ := bd.b.Items.Object(itemID)
			scope := bd.declareTypeParams(id, itemID, obj.TypeParams)
			for _, tp := range obj.TypeParams {
				for _, bound := range bd.b.Items.TypeParam(tp).Bounds {
					bd.resolveType(id, scope, bound)
				}
			}
			for _, impl := range obj.Implements {
				bd.resolveType(id, scope, impl)
			}
			bd.resolveFields(id, scope, obj.Fields)
		case ast.ItemUnion, ast.ItemInputUnion:
			u, _ := bd.b.Items.Union(itemID)
			for _, m := range u.Members {
				bd.resolveType(id, nil, m)
			}
		case ast.ItemEnum, ast.ItemInputEnum:
			enum, _ := bd.b.Items.Enum(itemID)
			for _, v := range enum.Values {
				bd.resolveFields(id, nil, bd.b.Items.EnumValue(v).Fields)
			}
		case ast.ItemNewtype, ast.ItemOpaque:
			nt, _ := bd.b.Items.Newtype(itemID)
			bd.resolveType(id, nil, nt.Underlying)
		case ast.ItemDirective:
			def, _ := bd.b.Items.DirectiveDef(itemID)
			bd.resolveFields(id, nil, def.Args)
		case ast.ItemFragment:
			frag, _ := bd.b.Items.Fragment(itemID)
			bd.resolveType(id, nil, frag.OnType)
			bd.resolveSelections(id, frag.Selections)
		case ast.ItemSchema:
			schema, _ := bd.b.Items.Schema(itemID)
			for _, op := range schema.Ops {
				bd.resolveType(id, nil, op.Type)
			}
		case ast.ItemScalar, ast.ItemMod, ast.ItemUse, ast.ItemInvalid:
		}
	}
}

func (bd *binder) declareTypeParams(module modules.ModuleID, owner ast.ItemID, params []ast.TypeParamID) typeScope {
	if len(params) == 0 {
		return nil
	}
	scope := make(typeScope, len(params))
	for _, tp := range params {
		param := bd.b.Items.TypeParam(tp)
		name := bd.b.Name(param.Name)
		if prev, dup := scope[name]; dup {
			bd.report(diag.SemaDuplicateSymbol, param.Span, fmt.Sprintf("type parameter `%s` is declared twice", name),
				diag.Note{Span: bd.t.Get(prev).Span, Msg: "first declared here"})
			continue
		}
		id := bd.t.New(Symbol{
			Name: name, Kind: SymbolTypeParam, Module: module, Item: owner, TypeParam: tp,
			Owner: bd.t.items[owner], Target: modules.NoModule, Span: param.Span,
		})
		scope[name] = id
		bd.t.params[tp] = id
	}
	return scope
}

func (bd *binder) resolveFields(module modules.ModuleID, scope typeScope, fields []ast.FieldID) {
	for _, fid := range fields {
		f := bd.b.Fields.Get(fid)
		bd.resolveFields(module, scope, f.Args)
		bd.resolveType(module, scope, f.Type)
	}
}

func (bd *binder) resolveSelections(module modules.ModuleID, sels []ast.SelectionID) {
	for _, sid := range sels {
		sel := bd.b.Selections.Get(sid)
		if sel.TypeCond.IsValid() {
			bd.resolveType(module, nil, sel.TypeCond)
		}
		bd.resolveSelections(module, sel.Selections)
	}
}

// resolveType binds one type expression and its arguments.
func (bd *binder) resolveType(module modules.ModuleID, scope typeScope, id ast.TypeID) {
	expr := bd.b.Types.Get(id)
	if expr == nil {
		return
	}
	for _, arg := range expr.Args {
		bd.resolveType(module, scope, arg)
	}
	if expr.Kind != ast.TypeNamed && expr.Kind != ast.TypeGeneric {
		return
	}
	bd.t.refs[id] = bd.resolvePath(module, scope, expr)
}

// resolvePath: type parameters, module declarations, imports, prelude.
// Qualified paths walk modules first.
func (bd *binder) resolvePath(module modules.ModuleID, scope typeScope, expr *ast.TypeExpr) SymbolID {
	if len(expr.Path) == 0 {
		return bd.t.Error
	}
	name := bd.b.Name(expr.Path[len(expr.Path)-1].Name)
	if len(expr.Path) == 1 {
		if id, ok := scope[name]; ok {
			return id
		}
		if id, ok := bd.t.Lookup(module, modules.NSType, name); ok {
			return id
		}
		if id, ok := bd.t.prelude[name]; ok {
			return id
		}
		return bd.undefinedType(module, name, expr.Span)
	}

	full := bd.pathString(expr.Path)
	target, ok := bd.walkModules(module, expr.Path[:len(expr.Path)-1])
	if !ok {
		return bd.undefinedType(module, full, expr.Span)
	}
	id, ok := bd.t.Lookup(target, modules.NSType, name)
	if !ok {
		return bd.undefinedType(module, full, expr.Span)
	}
	sym := bd.t.Get(id)
	if sym == nil {
		return bd.undefinedType(module, full, expr.Span)
	}
	if !bd.g.Visible(sym.Module, sym.Visibility, module) {
		key := undefKey{module: module, name: full}
		if _, seen := bd.undefined[key]; !seen {
			bd.undefined[key] = struct{}{}
			bd.report(diag.ModNotVisible, expr.Span,
				fmt.Sprintf("type `%s` is %s and not visible here", full, sym.Visibility),
				diag.Note{Span: sym.Span, Msg: "declared here"})
		}
		return bd.t.Error
	}
	return id
}

// walkModules follows the module part of a qualified type path. Errors are
// reported by the caller as an undefined type.
func (bd *binder) walkModules(from modules.ModuleID, segs []ast.PathSeg) (modules.ModuleID, bool) {
	cur := from
	for i, seg := range segs {
		name := bd.b.Name(seg.Name)
		switch {
		case i == 0 && name == "crate":
			cur = modules.RootModule
			continue
		case i == 0 && name == "self":
			continue
		case name == "super":
			parent := bd.g.Get(cur).Parent
			if parent == modules.NoModule {
				return modules.NoModule, false
			}
			cur = parent
			continue
		}
		id, ok := bd.t.Lookup(cur, modules.NSModule, name)
		if !ok {
			return modules.NoModule, false
		}
		sym := bd.t.Get(id)
		if sym == nil || sym.Target == modules.NoModule || !bd.g.Visible(sym.Module, sym.Visibility, from) {
			return modules.NoModule, false
		}
		cur = sym.Target
	}
	return cur, true
}

// undefinedType reports once per module and name and returns the error symbol.
func (bd *binder) undefinedType(module modules.ModuleID, name string, sp source.Span) SymbolID {
	key := undefKey{module: module, name: name}
	if _, seen := bd.undefined[key]; !seen {
		bd.undefined[key] = struct{}{}
		bd.report(diag.SemaUndefinedType, sp, "undefined type "+name)
	}
	return bd.t.Error
}

func (bd *binder) pathString(path []ast.PathSeg) string {
	parts := make([]string, len(path))
	for i, seg := range path {
		parts[i] = bd.b.Name(seg.Name)
	}
	return strings.Join(parts, "::")
}
