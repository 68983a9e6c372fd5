package source

type (
	// FileID identifies a document inside a FileSet.
	FileID uint32
	// FileFlags records how a document entered the set.
	FileFlags uint8
)

const (
	// FileVirtual marks documents that did not come from disk (playground, loader, tests).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM is set when a UTF-8 byte order mark was stripped.
	FileHadBOM
	// FileNormalizedCRLF is set when CRLF line endings were rewritten to LF.
	FileNormalizedCRLF
)

// File is one schema document: the root document or a module fetched by the loader.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based position.
type LineCol struct {
	Line uint32
	Col  uint32
}
