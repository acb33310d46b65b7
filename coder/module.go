package coder

import (
	"fmt"
	"sort"
	"strings"

	"titan/ast"
	"titan/types"
)

// emitImport implements §4.6's "Imports" paragraph: a runtime call loads the
// target module's shared object off the search path into a file-scope
// handle. Symbol lookups are emitted separately by emitImportedCallee below,
// one function pointer per imported function that some call references;
// both run inside <mod>_init (see emitInit). Grounded on bar.c's
// `static int (*foo_Point_move_titanmethod)(...)` forward declarations and
// its loadlib/loadsym helpers.
func (c *Coder) emitImport(imp *ast.Import) {
	fmt.Fprintf(&c.forwardDecls, "static void *_import_%s; /* %s, loaded at init */\n", imp.Alias, imp.Module)
	fmt.Fprintf(&c.moduleInit, "\t_import_%s = titan_require(L, %s);\n", imp.Alias, cLiteral(imp.Module))
	fmt.Fprintf(&c.moduleInit, "\tif (_import_%s == NULL) titan_import_error(L, %s);\n", imp.Alias, cLiteral(imp.Module))
}

// emitImportedCallee returns the C expression that calls an imported
// function, declaring and loading the underlying function pointer the
// first time that particular symbol is referenced. imp is the local import
// declaration the call went through; field is the member name on it;
// ft is that member's checked function type. Mirrors bar.c's
// `foo_Point_move_titanmethod = cast_func(int (*)(...), loadsym(L, foo_handle, "..."))`
// pattern, with titan_loadsym standing in for bar.c's own dlsym wrapper.
func (c *Coder) emitImportedCallee(imp *ast.Import, field string, ft *types.Function) string {
	key := imp.Alias + "." + field
	ptrName := "_importfn_" + imp.Alias + "_" + field
	if c.importSyms == nil {
		c.importSyms = make(map[string]bool)
	}
	if c.importSyms[key] {
		return ptrName
	}
	c.importSyms[key] = true

	retType := "void"
	if len(ft.Rets) > 0 {
		retType = cType(ft.Rets[0])
	}
	var paramTypes []string
	for _, p := range ft.Params {
		paramTypes = append(paramTypes, cType(p))
	}
	sig := fmt.Sprintf("%s (*)(lua_State *L%s)", retType, prependParamTypes(paramTypes))

	fmt.Fprintf(&c.forwardDecls, "static %s (*%s)(lua_State *L%s);\n", retType, ptrName, prependParamTypes(paramTypes))
	sym := fmt.Sprintf("%s_%s_titan", imp.Module, field)
	fmt.Fprintf(&c.moduleInit, "\t%s = cast_func(%s, titan_loadsym(L, _import_%s, %s));\n",
		ptrName, sig, imp.Alias, cLiteral(sym))
	return ptrName
}

func prependParamTypes(paramTypes []string) string {
	if len(paramTypes) == 0 {
		return ""
	}
	return ", " + strings.Join(paramTypes, ", ")
}

func (c *Coder) emitForeignImport(imp *ast.ForeignImport) {
	fmt.Fprintf(&c.forwardDecls, "#include %s\n", imp.Header)
}

// emitRecordType declares the type tag and metatable pointer a record
// needs, matching foo.c's `int foo_Point_typetag; Table *foo_Point_typemt;`
// pair and its one-time luaL_newmetatable registration in <mod>_init.
func (c *Coder) emitRecordType(rec *ast.TopLevelRecord) {
	base := fmt.Sprintf("%s_%s", c.Module, rec.RecName)
	fmt.Fprintf(&c.typeGlobals, "int %s_typetag;\n", base)
	fmt.Fprintf(&c.typeGlobals, "Table *%s_typemt;\n\n", base)
}

// emitConstructor synthesizes the body of a record's implicit `new`
// constructor (§6.3): a native-ABI function whose parameters are the
// record's fields in declaration order and whose body builds a boxed
// record value, since the parser leaves the synthetic function's Body
// empty for the coder to fill in.
func (c *Coder) emitConstructor(fn *ast.TopLevelFunc) {
	c.resetLocals()
	ft := fn.ResolvedType.(*types.Function)
	base := fn.CName

	var params []string
	for i, p := range fn.Params {
		params = append(params, fmt.Sprintf("%s _param_%s", cType(ft.Params[i]), p.Name))
	}
	fmt.Fprintf(&c.forwardDecls, "CClosure* %s(lua_State *L%s);\n", base, prependParams(params))

	var b strings.Builder
	fmt.Fprintf(&b, "CClosure* %s(lua_State *L%s) {\n", base, prependParams(params))
	fmt.Fprintf(&b, "\tCClosure *_rec = titan_record_new(L, %d);\n", len(fn.Params))
	for _, p := range fn.Params {
		fmt.Fprintf(&b, "\ttitan_record_setfield(L, _rec, %s, _param_%s);\n", cLiteral(p.Name), p.Name)
	}
	fmt.Fprintf(&b, "\treturn _rec;\n}\n\n")
	c.functions.WriteString(b.String())

	c.emitHostAdapter(fn, ft)
}

// emitTypesFunction emits `<mod>_types`, the runtime type-descriptor
// function every generated module exposes for reflection (§6.4), matching
// foo.c's `foo_types` returning a single string literal describing the
// module's public shape.
func (c *Coder) emitTypesFunction(prog *ast.Program) {
	desc := c.describeModule(prog)
	fmt.Fprintf(&c.forwardDecls, "int %s_types(lua_State* L);\n", c.Module)
	fmt.Fprintf(&c.functions, "int %s_types(lua_State* L) {\n\tlua_pushliteral(L, %s);\n\treturn 1;\n}\n\n",
		c.Module, cLiteral(desc))
}

func (c *Coder) describeModule(prog *ast.Program) string {
	var members []string
	for _, item := range prog.Items {
		switch it := item.(type) {
		case *ast.TopLevelVar:
			members = append(members, fmt.Sprintf("%s = ModuleMember('%s', '%s')", it.VarName, c.Module, it.VarName))
		case *ast.TopLevelFunc:
			if !it.Synthetic {
				members = append(members, fmt.Sprintf("%s = ModuleMember('%s', '%s')", it.FuncName, c.Module, it.FuncName))
			}
		}
	}
	sort.Strings(members)
	return fmt.Sprintf("Module('%s',{%s})", c.Module, strings.Join(members, ","))
}

// emitInit is §4.6's "Module layout" paragraph: allocates a globals table
// sized to the slot count, populates every slot with either a constant
// initializer or a C closure wrapping the host adapter carrying the
// globals table as its own upvalue, then registers the mediating proxy's
// metatable, whose __index/__newindex jump table (emitted by
// emitModuleProxy) dispatches by member name straight into that globals
// table.
func (c *Coder) emitInit(vars []*ast.TopLevelVar, funcs []*ast.TopLevelFunc, records []*ast.TopLevelRecord) {
	fmt.Fprintf(&c.forwardDecls, "static Table *_globals;\n")
	fmt.Fprintf(&c.forwardDecls, "void %s_init(lua_State *L);\n", c.Module)

	indexName, newindexName := c.emitModuleProxy(vars, funcs)

	// Import and symbol-load statements queued by emitImport and
	// emitImportedCallee run inside the init body, after the guard.
	pending := c.moduleInit.String()
	c.moduleInit.Reset()

	slots := len(vars)
	for _, f := range funcs {
		if !f.Synthetic {
			slots++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "void %s_init(lua_State *L) {\n", c.Module)
	fmt.Fprintf(&b, "\tif (_%s_initialized) return;\n\t_%s_initialized = 1;\n", c.Module, c.Module)
	b.WriteString(pending)
	fmt.Fprintf(&b, "\t_globals = luaH_new(L);\n")
	fmt.Fprintf(&b, "\tluaH_resize(L, _globals, %d, 0);\n", slots)

	for _, r := range records {
		base := fmt.Sprintf("%s_%s", c.Module, r.RecName)
		fmt.Fprintf(&b, "\tluaL_newmetatable(L, \"Titan record %s.%s\");\n", c.Module, r.RecName)
		fmt.Fprintf(&b, "\t%s_typemt = hvalue(L->top - 1); L->top--;\n", base)
	}

	for _, v := range vars {
		val := c.constInitExpr(v)
		fmt.Fprintf(&b, "\t%s(luaH_setint(L, _globals, %d), %s); /* %s */\n", setMacro(v.ResolvedType), v.GlobalIndex, val, v.VarName)
	}
	for _, f := range funcs {
		if f.Synthetic {
			continue
		}
		fmt.Fprintf(&b, "\ttitan_pushclosure(L, %s, %d, _globals);\n", hostName(c.Module, f), len(f.ReferencedUpvalues))
		fmt.Fprintf(&b, "\tsetobj2t(L, luaH_setint(L, _globals, %d), L->top - 1); L->top--; /* %s */\n", f.GlobalIndex, f.FuncName)
	}

	fmt.Fprintf(&b, "\tluaL_newmetatable(L, \"titan module %s\");\n", c.Module)
	fmt.Fprintf(&b, "\tlua_pushcfunction(L, %s); lua_setfield(L, -2, \"__index\");\n", indexName)
	fmt.Fprintf(&b, "\tlua_pushcfunction(L, %s); lua_setfield(L, -2, \"__newindex\");\n", newindexName)
	fmt.Fprintf(&b, "\tlua_pop(L, 1);\n")

	fmt.Fprintf(&b, "}\n\n")
	c.moduleInit.WriteString(b.String())
}

// emitModuleProxy emits the two C functions backing the module proxy's
// metatable (§4.6, §6.4): __index reads straight through to a global's
// slot, __newindex typechecks the assigned value against the member's
// declared type and stores it back into that same slot. Both dispatch
// with a strcmp jump table keyed by member name, mirroring the way
// emitHostAdapter typechecks a native function's own arguments. It
// returns the two generated functions' C names for emitInit to register.
func (c *Coder) emitModuleProxy(vars []*ast.TopLevelVar, funcs []*ast.TopLevelFunc) (indexName, newindexName string) {
	indexName = c.Module + "__index"
	newindexName = c.Module + "__newindex"

	fmt.Fprintf(&c.forwardDecls, "static int %s(lua_State *L);\n", indexName)
	fmt.Fprintf(&c.forwardDecls, "static int %s(lua_State *L);\n", newindexName)

	var idx strings.Builder
	fmt.Fprintf(&idx, "static int %s(lua_State *L) {\n", indexName)
	fmt.Fprintf(&idx, "\tconst char *_key = luaL_checkstring(L, 2);\n")
	for _, v := range vars {
		fmt.Fprintf(&idx, "\tif (strcmp(_key, %s) == 0) { %s return 1; }\n",
			cLiteral(v.VarName), pushValue(v.ResolvedType, cGlobalRef(v.GlobalIndex)))
	}
	for _, f := range funcs {
		if f.Synthetic {
			continue
		}
		fmt.Fprintf(&idx, "\tif (strcmp(_key, %s) == 0) { titan_pushvalue(L, _globals->array[%d]); return 1; }\n",
			cLiteral(f.FuncName), f.GlobalIndex)
	}
	fmt.Fprintf(&idx, "\tlua_pushnil(L);\n\treturn 1;\n}\n\n")
	c.functions.WriteString(idx.String())

	var ni strings.Builder
	fmt.Fprintf(&ni, "static int %s(lua_State *L) {\n", newindexName)
	fmt.Fprintf(&ni, "\tconst char *_key = luaL_checkstring(L, 2);\n")
	for _, v := range vars {
		fmt.Fprintf(&ni, "\tif (strcmp(_key, %s) == 0) { %s(%s, %s); return 0; }\n",
			cLiteral(v.VarName), setMacro(v.ResolvedType), cGlobalSlot(v.GlobalIndex), checkArg(v.ResolvedType, 3))
	}
	fmt.Fprintf(&ni, "\tluaL_error(L, \"attempt to set unknown or read-only module member '%%s'\", _key);\n\treturn 0;\n")
	fmt.Fprintf(&ni, "}\n\n")
	c.functions.WriteString(ni.String())
	return indexName, newindexName
}

// setMacro picks the real Lua object-model macro (lobject.h) that stores a
// raw C value into a TValue slot, matching baz.c/test.c's use of
// setfltvalue/setuvalue rather than a generic setter.
func setMacro(t types.Type) string {
	switch t.(type) {
	case types.Integer:
		return "setivalue"
	case types.Float:
		return "setfltvalue"
	case types.Boolean:
		return "setbvalue"
	case types.String:
		return "setsvalue"
	default:
		return "setnilvalue"
	}
}

// constInitExpr renders a top-level variable's constant-foldable
// initializer (§6.3) as the C expression to store into its globals slot.
func (c *Coder) constInitExpr(v *ast.TopLevelVar) string {
	switch e := v.Value.(type) {
	case *ast.IntExpr:
		return fmt.Sprintf("%d", e.Value)
	case *ast.FloatExpr:
		return fmt.Sprintf("%v", e.Value)
	case *ast.BoolExpr:
		if e.Value {
			return "1"
		}
		return "0"
	case *ast.StringExpr:
		if slot, ok := c.literals[e.Value]; ok {
			return fmt.Sprintf("(_literal_%d ? _literal_%d : (_literal_%d = luaS_newlstr(L, %s, %d)))",
				slot, slot, slot, cLiteral(e.Value), len(e.Value))
		}
		return cLiteral(e.Value)
	case *ast.Unop:
		if n, ok := numericUnop(e); ok {
			return n
		}
	}
	return "0"
}

func numericUnop(u *ast.Unop) (string, bool) {
	if u.Op != ast.UnopNeg || u.Folded == nil {
		return "", false
	}
	if u.Folded.IsFloat {
		return fmt.Sprintf("%v", u.Folded.Float), true
	}
	return fmt.Sprintf("%d", u.Folded.Int), true
}

// emitLuaopen emits the module's public entry point, `luaopen_<mod>`, which
// Lua's require() looks up by name in the shared object: it runs init once
// and returns the proxy table (§4.6, §4.7).
func (c *Coder) emitLuaopen() {
	fmt.Fprintf(&c.forwardDecls, "int luaopen_%s(lua_State *L);\n", c.Module)
	fmt.Fprintf(&c.moduleInit, "int luaopen_%s(lua_State *L) {\n", c.Module)
	fmt.Fprintf(&c.moduleInit, "\t%s_init(L);\n", c.Module)
	fmt.Fprintf(&c.moduleInit, "\tlua_newtable(L);\n")
	fmt.Fprintf(&c.moduleInit, "\tluaL_setmetatable(L, \"titan module %s\");\n", c.Module)
	fmt.Fprintf(&c.moduleInit, "\treturn 1;\n}\n")
}
