package ast

import (
	"bgql/internal/source"
)

// File is the parsed form of one document.
type File struct {
	Span   source.Span
	Source source.FileID
	Items  []ItemID
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{Arena: NewArena[File](capHint)}
}

func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{Span: sp, Source: sp.File}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
