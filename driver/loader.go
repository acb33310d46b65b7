package driver

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader is the source-discovery half of §4.7's loader contract: given a
// module name, find its source text (or report that no source exists so
// the caller can fall back to a pre-compiled artifact). It never parses or
// checks anything; Session does that, one layer up, so it can memoize and
// detect cycles.
type Loader interface {
	Locate(module string) (path string, source []byte, err error)
}

// InMemoryLoader is a Loader backed by a map, matching §4.7's "a pluggable
// in-memory loader is provided for tests".
type InMemoryLoader map[string]string

func (l InMemoryLoader) Locate(module string) (string, []byte, error) {
	src, ok := l[module]
	if !ok {
		return "", nil, fmt.Errorf("module not found: %s", module)
	}
	return module + ".titan", []byte(src), nil
}

// FilesystemLoader resolves a module name against TITAN_PATH-style search
// directories (§6.2): "foo.bar" is looked up as "<dir>/foo/bar.titan" in
// each directory in turn, first match wins, exactly like titan.c's
// pushnextdir/loadlib pair does for compiled .so files.
type FilesystemLoader struct {
	Dirs []string
}

func (l FilesystemLoader) Locate(module string) (string, []byte, error) {
	rel := ModuleRelPath(module, "titan")
	for _, dir := range l.Dirs {
		path := filepath.Join(dir, rel)
		src, err := os.ReadFile(path)
		if err == nil {
			return path, src, nil
		}
	}
	return "", nil, fmt.Errorf("module not found on TITAN_PATH: %s", module)
}
