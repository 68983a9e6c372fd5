package ast

import (
	"bgql/internal/source"
)

type Hints struct{ Files, Items, Types, Fields uint }

// Builder owns every arena of one invocation. Documents fetched by the module
// loader are parsed into the same Builder so ids stay comparable.
type Builder struct {
	Files      *Files
	Items      *Items
	Types      *Types
	Fields     *Fields
	Directives *Directives
	Values     *Values
	Selections *Selections
	Strings    *source.Interner
}

func NewBuilder(hints Hints, interner *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 3
	}
	if hints.Items == 0 {
		hints.Items = 1 << 6
	}
	if hints.Types == 0 {
		hints.Types = 1 << 8
	}
	if hints.Fields == 0 {
		hints.Fields = 1 << 8
	}
	if interner == nil {
		interner = source.NewInterner()
	}
	return &Builder{
		Files:      NewFiles(hints.Files),
		Items:      NewItems(hints.Items),
		Types:      NewTypes(hints.Types),
		Fields:     NewFields(hints.Fields),
		Directives: NewDirectives(hints.Items),
		Values:     NewValues(hints.Items),
		Selections: NewSelections(hints.Items),
		Strings:    interner,
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	f := b.Files.Get(file)
	f.Items = append(f.Items, item)
}

// Name returns the text of an interned identifier.
func (b *Builder) Name(id source.StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}
