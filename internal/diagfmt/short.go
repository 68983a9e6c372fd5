package diagfmt

import (
	"io"

	"bgql/internal/diag"
	"bgql/internal/source"
)

// Short writes one line per diagnostic in the golden format:
//
//	error SYN2002 schema.bgql:1:19 expected `}` ...
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	out := diag.FormatGoldenDiagnostics(bag.Items(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
