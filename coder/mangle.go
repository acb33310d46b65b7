package coder

import "titan/ast"

// nativeName and hostName build the two C symbol names §4.6 requires per
// exported function, following original_source's `<mod>_<name>_titan`
// (native ABI) / `<mod>_<name>_lua` (host ABI) convention. A record's
// implicit constructor uses its CName (ending in `_new`) as its native name.
func nativeName(module string, fn *ast.TopLevelFunc) string {
	if fn.Synthetic {
		return fn.CName
	}
	return fn.CName + "_titan"
}

func hostName(module string, fn *ast.TopLevelFunc) string {
	return fn.CName + "_lua"
}
