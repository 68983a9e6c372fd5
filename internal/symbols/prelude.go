package symbols

// PreludeEntry describes a built-in name visible from every module.
type PreludeEntry struct {
	Name  string
	Kind  SymbolKind
	Flags SymbolFlags
	Arity int
}

// BuiltinScalars are the GraphQL scalars every schema can use.
var BuiltinScalars = []string{"ID", "String", "Int", "Float", "Boolean"}

func builtinPreludeEntries() []PreludeEntry {
	entries := make([]PreludeEntry, 0, len(BuiltinScalars)+2)
	for _, name := range BuiltinScalars {
		entries = append(entries, PreludeEntry{Name: name, Kind: SymbolBuiltin, Flags: SymbolFlagBuiltin | SymbolFlagScalar})
	}
	return append(entries,
		PreludeEntry{Name: "Option", Kind: SymbolBuiltin, Flags: SymbolFlagBuiltin | SymbolFlagGeneric, Arity: 1},
		PreludeEntry{Name: "List", Kind: SymbolBuiltin, Flags: SymbolFlagBuiltin | SymbolFlagGeneric, Arity: 1},
	)
}

// BuiltinDirectives are always in scope; a module may shadow them.
var BuiltinDirectives = []string{"deprecated", "server", "specifiedBy", "length", "range", "pattern"}

// IsReservedType reports whether name belongs to a built-in type.
func IsReservedType(name string) bool {
	for _, e := range builtinPreludeEntries() {
		if e.Name == name {
			return true
		}
	}
	return false
}
