package coder

import (
	"fmt"
	"strings"

	"titan/ast"
	"titan/types"
)

// funcBuf collects the pieces of one function's native-ABI body as it is
// being emitted: the running statement text, and the interned-literal slot
// map (so nested expr emission can render a bare literal reference instead
// of re-interning it).
type funcBuf struct {
	body     *strings.Builder
	literals map[string]int
	gcSlots  int // count of GC-visible parameter slots reserved so far
}

func (c *Coder) emitFunction(fn *ast.TopLevelFunc) {
	c.resetLocals()
	ft := fn.ResolvedType.(*types.Function)

	var params []string
	for i, p := range fn.Params {
		params = append(params, fmt.Sprintf("%s _param_%s", cType(ft.Params[i]), p.Name))
	}
	retType := "void"
	if len(ft.Rets) > 0 {
		retType = cType(ft.Rets[0])
	}
	name := nativeName(c.Module, fn)

	fmt.Fprintf(&c.forwardDecls, "%s %s(lua_State *L%s);\n", retType, name, prependParams(params))

	body := &strings.Builder{}
	buf := &funcBuf{body: body, literals: c.literals}

	// GC slot reservation: one per parameter that holds a GC-managed
	// value, nil-initialized so the collector never traces garbage before
	// the first real store. Locals and temporaries get no reserved slot.
	fmt.Fprintf(body, "{\n")
	for i, p := range fn.Params {
		if isGCType(ft.Params[i]) {
			fmt.Fprintf(body, "\tsetnilvalue(&L->top[%d]); L->top++; /* GC slot for %s */\n", buf.gcSlots, p.Name)
			buf.gcSlots++
		}
	}

	c.emitBlockBody(buf, fn.Body)

	if len(ft.Rets) == 0 {
		fmt.Fprintf(body, "\tL->top -= %d;\n", buf.gcSlots)
		fmt.Fprintf(body, "\tluaC_checkGC(L);\n")
	}
	fmt.Fprintf(body, "}\n")

	fmt.Fprintf(&c.functions, "%s %s(lua_State *L%s) %s\n\n", retType, name, prependParams(params), body.String())

	c.emitHostAdapter(fn, ft)
}

func prependParams(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return ", " + strings.Join(params, ", ")
}

// emitHostAdapter is §4.6's "Host-ABI adapter": reads each argument off the
// host stack with a typechecking helper, calls the native entry, pushes the
// result back, returns 1 (or 0 if the function has no return value).
func (c *Coder) emitHostAdapter(fn *ast.TopLevelFunc, ft *types.Function) {
	name := hostName(c.Module, fn)
	fmt.Fprintf(&c.forwardDecls, "static int %s(lua_State *L);\n", name)

	var b strings.Builder
	fmt.Fprintf(&b, "static int %s(lua_State *L) {\n", name)
	var args []string
	for i, p := range fn.Params {
		local := fmt.Sprintf("_arg_%s", p.Name)
		fmt.Fprintf(&b, "\t%s %s = %s;\n", cType(ft.Params[i]), local, checkArg(ft.Params[i], i+1))
		args = append(args, local)
	}
	call := fmt.Sprintf("%s(L%s)", nativeName(c.Module, fn), prependComma(args))
	if len(ft.Rets) == 0 {
		fmt.Fprintf(&b, "\t%s;\n\treturn 0;\n", call)
	} else {
		fmt.Fprintf(&b, "\t%s _ret = %s;\n", cType(ft.Rets[0]), call)
		fmt.Fprintf(&b, "\t%s\n", pushValue(ft.Rets[0], "_ret"))
		fmt.Fprintf(&b, "\treturn 1;\n")
	}
	fmt.Fprintf(&b, "}\n\n")
	c.functions.WriteString(b.String())
}

func checkArg(t types.Type, idx int) string {
	switch t.(type) {
	case types.Integer:
		return fmt.Sprintf("luaL_checkinteger(L, %d)", idx)
	case types.Float:
		return fmt.Sprintf("luaL_checknumber(L, %d)", idx)
	case types.Boolean:
		return fmt.Sprintf("lua_toboolean(L, %d)", idx)
	case types.String:
		return fmt.Sprintf("luaS_new(L, luaL_checkstring(L, %d))", idx)
	default:
		return fmt.Sprintf("titan_checkarg(L, %d)", idx)
	}
}

func pushValue(t types.Type, expr string) string {
	switch t.(type) {
	case types.Integer:
		return fmt.Sprintf("lua_pushinteger(L, %s);", expr)
	case types.Float:
		return fmt.Sprintf("lua_pushnumber(L, %s);", expr)
	case types.Boolean:
		return fmt.Sprintf("lua_pushboolean(L, %s);", expr)
	case types.String:
		return fmt.Sprintf("lua_pushstring(L, getstr(%s));", expr)
	default:
		return fmt.Sprintf("titan_pushvalue(L, %s);", expr)
	}
}
