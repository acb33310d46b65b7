package driver

import (
	"fmt"
	"strings"
)

// WriteEntrypoint synthesizes a program build's tiny driver C file (§4.7,
// §6.5's "<main>__entrypoint.c"): open a Lua state, register every linked
// module's luaopen_<mod> in package.preload, require the main module, and
// call its exported `main` with argv forwarded as strings.
func WriteEntrypoint(mainModule string, modules []string) string {
	var b strings.Builder
	fmt.Fprintln(&b, `#include "lua.h"`)
	fmt.Fprintln(&b, `#include "lauxlib.h"`)
	fmt.Fprintln(&b, `#include "lualib.h"`)
	b.WriteString("\n")
	for _, m := range modules {
		fmt.Fprintf(&b, "int %s(lua_State *L);\n", luaopenName(m))
	}
	b.WriteString("\nstatic void preload(lua_State *L) {\n")
	fmt.Fprintln(&b, "\tlua_getglobal(L, \"package\");")
	fmt.Fprintln(&b, "\tlua_getfield(L, -1, \"preload\");")
	for _, m := range modules {
		fmt.Fprintf(&b, "\tlua_pushcfunction(L, %s);\n", luaopenName(m))
		fmt.Fprintf(&b, "\tlua_setfield(L, -2, %s);\n", cQuote(m))
	}
	fmt.Fprintln(&b, "\tlua_pop(L, 2);")
	b.WriteString("}\n\n")

	fmt.Fprintln(&b, "int main(int argc, char **argv) {")
	fmt.Fprintln(&b, "\tlua_State *L = luaL_newstate();")
	fmt.Fprintln(&b, "\tluaL_openlibs(L);")
	fmt.Fprintln(&b, "\tpreload(L);")
	fmt.Fprintln(&b, "\tlua_getglobal(L, \"require\");")
	fmt.Fprintf(&b, "\tlua_pushstring(L, %s);\n", cQuote(mainModule))
	fmt.Fprintln(&b, "\tlua_call(L, 1, 1);")
	fmt.Fprintln(&b, "\tlua_getfield(L, -1, \"main\");")
	fmt.Fprintln(&b, "\tfor (int i = 1; i < argc; i++) lua_pushstring(L, argv[i]);")
	fmt.Fprintln(&b, "\tlua_call(L, argc - 1, 0);")
	fmt.Fprintln(&b, "\tlua_close(L);")
	fmt.Fprintln(&b, "\treturn 0;")
	fmt.Fprintln(&b, "}")
	return b.String()
}

func luaopenName(module string) string {
	return "luaopen_" + strings.ReplaceAll(module, ".", "_")
}

func cQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
