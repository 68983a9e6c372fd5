package result

import (
	"strconv"
	"strings"

	"bgql/internal/ast"
	"bgql/internal/diag"
	"bgql/internal/modules"
	"bgql/internal/sema"
	"bgql/internal/source"
	"bgql/internal/symbols"
)

// Input is what the pipeline produced. Any stage output may be nil when an
// earlier stage could not run; the result then carries diagnostics only.
type Input struct {
	Builder *ast.Builder
	Graph   *modules.Graph
	Symbols *symbols.Table
	Checked sema.Result
	Bag     *diag.Bag
	Files   *source.FileSet
	// NullableDefault must match the checker option so `nullable` agrees
	// with the diagnostics.
	NullableDefault bool
}

type assembler struct {
	in     Input
	b      *ast.Builder
	g      *modules.Graph
	table  *symbols.Table
	module modules.ModuleID
}

// Assemble turns the bound AST into a ParseResult. It never fails; a broken
// declaration yields a partial entry instead of none.
func Assemble(in Input) ParseResult {
	res := Empty()
	res.Diagnostics = publicDiagnostics(in)
	if in.Bag != nil {
		res.Success = !in.Bag.HasErrors()
	}
	if in.Builder == nil || in.Graph == nil || in.Symbols == nil {
		return res
	}
	a := &assembler{in: in, b: in.Builder, g: in.Graph, table: in.Symbols}
	for _, modID := range a.g.Order() {
		mod := a.g.Get(modID)
		if mod == nil {
			continue
		}
		a.module = modID
		for _, itemID := range mod.Items {
			item := a.b.Items.Get(itemID)
			if item == nil || !a.table.ItemSymbol(itemID).IsValid() {
				continue
			}
			switch {
			case item.Kind.DeclaresType():
				res.Types = append(res.Types, a.typeInfo(itemID, item))
			case item.Kind == ast.ItemFragment:
				res.Fragments = append(res.Fragments, a.fragmentInfo(itemID, item))
			}
		}
	}
	roots := in.Checked.Roots
	res.Schema = SchemaInfo{
		QueryType:        a.table.QualifiedName(roots.Query),
		MutationType:     a.table.QualifiedName(roots.Mutation),
		SubscriptionType: a.table.QualifiedName(roots.Subscription),
	}
	return res
}

func (a *assembler) typeInfo(itemID ast.ItemID, item *ast.Item) TypeInfo {
	info := TypeInfo{
		Name: a.g.Qualify(a.module, a.b.Name(item.Name)),
		Kind: kindOf(item.Kind),
	}
	if item.HasDoc {
		info.Description = item.Doc
	}
	switch item.Kind {
	case ast.ItemObject, ast.ItemInterface, ast.ItemInput:
		obj, ok := a.b.Items.Object(itemID)
		if !ok {
			break
		}
		for _, tp := range obj.TypeParams {
			info.TypeParams = append(info.TypeParams, a.typeParamInfo(tp))
		}
		for _, impl := range obj.Implements {
			if name, ok := a.resolvedName(impl); ok {
				info.Implements = append(info.Implements, name)
			}
		}
		info.Fields = a.fields(obj.Fields)
	case ast.ItemUnion, ast.ItemInputUnion:
		union, ok := a.b.Items.Union(itemID)
		if !ok {
			break
		}
		for _, m := range union.Members {
			name, ok := a.resolvedName(m)
			if !ok {
				info.Invalid = true
				continue
			}
			info.Members = append(info.Members, name)
		}
	case ast.ItemEnum, ast.ItemInputEnum:
		enum, ok := a.b.Items.Enum(itemID)
		if !ok {
			break
		}
		for _, vid := range enum.Values {
			if v := a.b.Items.EnumValue(vid); v != nil {
				info.Values = append(info.Values, a.valueInfo(v))
			}
		}
	case ast.ItemNewtype:
		if nt, ok := a.b.Items.Newtype(itemID); ok && nt.Underlying.IsValid() {
			info.Underlying = a.typeString(nt.Underlying)
		}
	case ast.ItemOpaque:
		// underlying is hidden from consumers
	case ast.ItemScalar:
	case ast.ItemInvalid, ast.ItemDirective, ast.ItemFragment, ast.ItemMod, ast.ItemUse, ast.ItemSchema:
	}
	return info
}

func (a *assembler) typeParamInfo(id ast.TypeParamID) TypeParamInfo {
	tp := a.b.Items.TypeParam(id)
	if tp == nil {
		return TypeParamInfo{}
	}
	info := TypeParamInfo{Name: a.b.Name(tp.Name)}
	for _, bound := range tp.Bounds {
		info.Bounds = append(info.Bounds, a.typeString(bound))
	}
	return info
}

func (a *assembler) fields(ids []ast.FieldID) []FieldInfo {
	if len(ids) == 0 {
		return nil
	}
	out := make([]FieldInfo, 0, len(ids))
	for _, id := range ids {
		f := a.b.Fields.Get(id)
		if f == nil {
			continue
		}
		info := FieldInfo{
			Name:     a.b.Name(f.Name),
			Type:     a.typeString(f.Type),
			Nullable: a.nullable(f.Type),
			Args:     a.fields(f.Args),
		}
		if f.HasDoc {
			info.Description = f.Doc
		}
		if f.Default.IsValid() {
			text := a.valueString(f.Default)
			info.DefaultValue = &text
		}
		info.DeprecationReason, info.Deprecated = sema.Deprecation(a.b, a.table, a.module, f.Directives)
		out = append(out, info)
	}
	return out
}

func (a *assembler) valueInfo(v *ast.EnumValue) ValueInfo {
	info := ValueInfo{
		Name:   a.b.Name(v.Name),
		Fields: a.fields(v.Fields),
	}
	if v.HasDoc {
		info.Description = v.Doc
	}
	info.DeprecationReason, info.Deprecated = sema.Deprecation(a.b, a.table, a.module, v.Directives)
	return info
}

func (a *assembler) fragmentInfo(itemID ast.ItemID, item *ast.Item) FragmentInfo {
	info := FragmentInfo{
		Name:     a.g.Qualify(a.module, a.b.Name(item.Name)),
		IsServer: sema.HasBuiltin(a.b, a.table, a.module, item.Directives, "server"),
		Fields:   []string{},
	}
	frag, ok := a.b.Items.Fragment(itemID)
	if !ok {
		return info
	}
	if frag.OnType.IsValid() {
		info.OnType = a.typeString(frag.OnType)
	}
	seen := make(map[string]struct{}, len(frag.Selections))
	for _, sid := range frag.Selections {
		sel := a.b.Selections.Get(sid)
		if sel == nil || sel.Kind != ast.SelField {
			continue
		}
		name := a.b.Name(sel.Name)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		info.Fields = append(info.Fields, name)
	}
	return info
}

// resolvedName renders a reference only when it bound to a real symbol.
func (a *assembler) resolvedName(id ast.TypeID) (string, bool) {
	sym := a.table.Get(a.table.Resolved(id))
	if sym.IsError() {
		return "", false
	}
	return a.typeString(id), true
}

func (a *assembler) nullable(id ast.TypeID) bool {
	expr := a.b.Types.Get(id)
	if expr == nil {
		return false
	}
	if expr.Kind == ast.TypeOption {
		return true
	}
	return a.in.NullableDefault && !expr.Bang
}

// typeString writes a reference with resolved names qualified by module;
// unresolved names keep their written form. `!` is dropped, nullability
// travels in FieldInfo.Nullable.
func (a *assembler) typeString(id ast.TypeID) string {
	var sb strings.Builder
	a.writeType(&sb, id)
	return sb.String()
}

func (a *assembler) writeType(sb *strings.Builder, id ast.TypeID) {
	expr := a.b.Types.Get(id)
	if expr == nil {
		return
	}
	writeArgs := func(open, closer string) {
		sb.WriteString(open)
		for i, arg := range expr.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			a.writeType(sb, arg)
		}
		sb.WriteString(closer)
	}
	switch expr.Kind {
	case ast.TypeList:
		writeArgs("[", "]")
	case ast.TypeOption:
		writeArgs("Option<", ">")
	case ast.TypeTuple:
		writeArgs("(", ")")
	case ast.TypeNamed, ast.TypeGeneric:
		sb.WriteString(a.pathName(id, expr))
		if expr.Kind == ast.TypeGeneric {
			writeArgs("<", ">")
		}
	case ast.TypeInvalid:
	}
}

func (a *assembler) pathName(id ast.TypeID, expr *ast.TypeExpr) string {
	if ref := a.table.Resolved(id); !a.table.Get(ref).IsError() {
		return a.table.QualifiedName(ref)
	}
	parts := make([]string, 0, len(expr.Path))
	for _, seg := range expr.Path {
		parts = append(parts, a.b.Name(seg.Name))
	}
	return strings.Join(parts, "::")
}

// valueString prints a constant in canonical SDL form.
func (a *assembler) valueString(id ast.ValueID) string {
	var sb strings.Builder
	a.writeValue(&sb, id)
	return sb.String()
}

func (a *assembler) writeValue(sb *strings.Builder, id ast.ValueID) {
	v := a.b.Values.Get(id)
	if v == nil {
		return
	}
	switch v.Kind {
	case ast.ValueString:
		sb.WriteString(strconv.Quote(v.Str))
	case ast.ValueList:
		sb.WriteByte('[')
		for i, item := range v.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			a.writeValue(sb, item)
		}
		sb.WriteByte(']')
	case ast.ValueObject:
		sb.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.b.Name(f.Name))
			sb.WriteString(": ")
			a.writeValue(sb, f.Value)
		}
		sb.WriteByte('}')
	case ast.ValueInt, ast.ValueFloat, ast.ValueBool, ast.ValueNull, ast.ValueEnum, ast.ValueInvalid:
		sb.WriteString(v.Raw)
	}
}

func kindOf(k ast.ItemKind) Kind {
	switch k {
	case ast.ItemObject:
		return KindObject
	case ast.ItemInterface:
		return KindInterface
	case ast.ItemUnion:
		return KindUnion
	case ast.ItemInputUnion:
		return KindInputUnion
	case ast.ItemEnum:
		return KindEnum
	case ast.ItemInputEnum:
		return KindInputEnum
	case ast.ItemInput:
		return KindInputObject
	case ast.ItemScalar:
		return KindScalar
	case ast.ItemNewtype:
		return KindNewtype
	case ast.ItemOpaque:
		return KindOpaque
	case ast.ItemInvalid, ast.ItemDirective, ast.ItemFragment, ast.ItemMod, ast.ItemUse, ast.ItemSchema:
	}
	return ""
}

// publicDiagnostics drops Info entries and resolves positions.
func publicDiagnostics(in Input) []Diagnostic {
	out := []Diagnostic{}
	if in.Bag == nil {
		return out
	}
	root := rootSource(in)
	for _, d := range in.Bag.Items() {
		if d.Severity == diag.SevInfo {
			continue
		}
		pd := Diagnostic{
			Message:  d.Message,
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
		}
		if in.Files != nil {
			start, end := in.Files.Resolve(d.Primary)
			pd.StartLine, pd.StartColumn = start.Line, start.Col
			pd.EndLine, pd.EndColumn = end.Line, end.Col
			if f := in.Files.Get(d.Primary.File); f != nil && d.Primary.File != root {
				pd.File = f.Path
			}
		} else {
			pd.StartLine, pd.StartColumn, pd.EndLine, pd.EndColumn = 1, 1, 1, 1
		}
		out = append(out, pd)
	}
	return out
}

func rootSource(in Input) source.FileID {
	if in.Graph == nil || in.Builder == nil || len(in.Graph.Modules) == 0 {
		return 0
	}
	if f := in.Builder.Files.Get(in.Graph.Root().File); f != nil {
		return f.Source
	}
	return 0
}
