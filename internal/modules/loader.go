package modules

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned (possibly wrapped) by loaders for unknown modules.
var ErrNotFound = errors.New("module not found")

// Source is the text of an external module.
type Source struct {
	// Name is the canonical module identity. Two `mod` declarations whose
	// loads return the same Name refer to one module. Empty means the
	// requested name.
	Name string
	// Path is shown in diagnostics; empty means Name + ".bgql".
	Path string
	Text string
}

// Loader fetches external modules declared with `mod name;`. from is the
// requesting module: "" for the root document, otherwise the canonical Name
// of the enclosing external module, extended with "::inner" for inline
// modules. Load is called synchronously.
type Loader interface {
	Load(from, name string) (Source, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(from, name string) (Source, error)

func (f LoaderFunc) Load(from, name string) (Source, error) {
	return f(from, name)
}

// MapLoader serves modules from memory by name; from is ignored, so every
// module is a sibling of every other.
type MapLoader map[string]string

func (m MapLoader) Load(_, name string) (Source, error) {
	text, ok := m[name]
	if !ok {
		return Source{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return Source{Name: name, Path: name + ".bgql", Text: text}, nil
}
