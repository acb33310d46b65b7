package driver

import (
	"os"
	"strings"
)

// Environment variable names and defaults of §6.2, grounded on
// original_source/titan-runtime/titan.c's TITAN_PATH_VAR/TITAN_VER_SUFFIX/
// TITAN_PATH_DEFAULT macros.
const (
	envPathVersioned = "TITAN_PATH_0_5"
	envPath          = "TITAN_PATH"
	defaultPath      = ".;/usr/local/lib/titan/0.5"
	pathSep          = "/"
)

// ResolveEnvPath reproduces titan.c's pushpath: the versioned environment
// variable wins over the unversioned one, and every literal ";;" in the
// value splices in the default path rather than replacing the value
// outright (so a user can extend the default instead of overriding it).
// getenv is injected so tests never touch the real environment.
func ResolveEnvPath(getenv func(string) string) []string {
	if getenv == nil {
		getenv = os.Getenv
	}
	path := getenv(envPathVersioned)
	if path == "" {
		path = getenv(envPath)
	}
	if path == "" {
		return splitPath(defaultPath)
	}
	path = strings.ReplaceAll(path, ";;", ";"+defaultPath+";")
	return splitPath(path)
}

func splitPath(path string) []string {
	var dirs []string
	for _, part := range strings.Split(path, ";") {
		if part != "" {
			dirs = append(dirs, part)
		}
	}
	return dirs
}

// ModuleRelPath maps a dotted module name to the file path convention of
// §6.2: "foo.bar" -> "foo/bar.<ext>".
func ModuleRelPath(module, ext string) string {
	return strings.ReplaceAll(module, ".", pathSep) + "." + ext
}

// FindOnPath walks dirs in order and returns the first directory under
// which relPath exists, matching pushnextdir's first-match-wins search.
// exists is injected so tests can fake the filesystem.
func FindOnPath(dirs []string, relPath string, exists func(string) bool) (string, bool) {
	for _, dir := range dirs {
		candidate := dir + pathSep + relPath
		if exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
