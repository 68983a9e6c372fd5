package driver

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"bgql/internal/modules"
)

// Extension of schema documents and module files.
const Extension = ".bgql"

// DirLoader serves `mod name;` from files under Root. A module declared in
// the file dir/x.bgql is looked up as dir/name.bgql, then dir/name/mod.bgql;
// inline modules add one directory level per name. Canonical names are
// slash-separated paths relative to Root without the extension, so a file
// reached twice is one module.
type DirLoader struct {
	Root string
}

func NewDirLoader(root string) DirLoader {
	return DirLoader{Root: root}
}

func (l DirLoader) Load(from, name string) (modules.Source, error) {
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return modules.Source{}, fmt.Errorf("invalid module name %q", name)
	}
	dir := loaderDir(from)
	candidates := []string{
		path.Join(dir, name),
		path.Join(dir, name, "mod"),
	}
	for _, canon := range candidates {
		full := filepath.Join(l.Root, filepath.FromSlash(canon)+Extension)
		// #nosec G304 -- module names are identifiers, the root is chosen by the caller
		raw, err := os.ReadFile(full)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return modules.Source{}, fmt.Errorf("failed to read %s: %w", full, err)
		}
		return modules.Source{Name: canon, Path: full, Text: string(raw)}, nil
	}
	return modules.Source{}, fmt.Errorf("%w: %q (looked for %s and %s under %s)",
		modules.ErrNotFound, name, candidates[0]+Extension, candidates[1]+Extension, l.Root)
}

// loaderDir: "a/b" -> "a"; "a/b::inner::deep" -> "a/inner/deep"; "" -> "".
func loaderDir(from string) string {
	if from == "" {
		return ""
	}
	segs := strings.Split(from, "::")
	dir := path.Dir(segs[0])
	if dir == "." {
		dir = ""
	}
	return path.Join(append([]string{dir}, segs[1:]...)...)
}
