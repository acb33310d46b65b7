package checker

import "titan/types"

// builtin represents one of the runtime's foreign functions (§ SUPPLEMENTED
// FEATURES, grounded on original_source/titan-runtime/titan.c): print,
// assert, error, tostring, tofloat, tointeger, type. These are not declared
// by any Titan source; the checker seeds them directly into the top-level
// scope so calls to them typecheck, and resolving a Name to one records an
// exported ast.BuiltinRef (rather than this unexported type) as its Decl,
// so the coder can lower the call to the runtime's titan_* entry point.
type builtin struct {
	Name string
	Typ  *types.Function
}

func (c *Checker) seedBuiltins() {
	for _, b := range builtinTable {
		c.sym.Add(b.Name, b)
	}
}

var builtinTable = []builtin{
	{"print", &types.Function{Params: []types.Type{types.Value{}}, Rets: nil, Vararg: true}},
	{"assert", &types.Function{Params: []types.Type{types.Boolean{}, types.String{}}, Rets: []types.Type{types.Boolean{}}}},
	{"error", &types.Function{Params: []types.Type{types.String{}}, Rets: nil}},
	{"tostring", &types.Function{Params: []types.Type{types.Value{}}, Rets: []types.Type{types.String{}}}},
	{"tofloat", &types.Function{Params: []types.Type{types.Value{}}, Rets: []types.Type{types.Float{}}}},
	{"tointeger", &types.Function{Params: []types.Type{types.Value{}}, Rets: []types.Type{types.Integer{}}}},
	{"type", &types.Function{Params: []types.Type{types.Value{}}, Rets: []types.Type{types.String{}}}},
}
