// Package coder is the C emitter of §4.6. It walks a checked, upvalue-
// annotated Program and produces one C translation unit implementing the
// module as a loadable Lua 5.3 C extension: a native-ABI entry and a
// host-ABI adapter per exported function, a globals table populated at
// init time, and a mediating proxy table whose __index/__newindex dispatch
// through a small jump table.
//
// Grounded on original_source's generated C (foo.c, bar.c, baz.c, test.c)
// for naming conventions, macro usage (fltvalue/setfltvalue, TITAN_LIKELY,
// luaL_newmetatable) and on the section-builder idiom of triops' codegen.go
// (separate strings.Builder sections assembled at the end), adapted here to
// emit readable C text instead of assembly.
package coder

import (
	"fmt"
	"sort"
	"strings"

	"titan/ast"
)

// Coder accumulates the sections of one module's translation unit. Sections
// are kept separate because forward declarations, typetags and function
// bodies are naturally interleaved with C's declare-before-use rule but are
// easiest to generate in a different order than they must appear in.
type Coder struct {
	Module string

	forwardDecls strings.Builder
	typeGlobals  strings.Builder
	functions    strings.Builder
	moduleInit   strings.Builder

	locals   map[string]int // per-function fresh-name counters, reset per function
	literals map[string]int // string -> interned literal slot, from the upvalues pass

	// importSyms remembers which cross-module function pointers have
	// already had their declaration/load emitted, keyed by alias+"."+field,
	// so a symbol referenced by more than one call site is only loaded once.
	importSyms map[string]bool
}

// New constructs a Coder for the named module.
func New(module string) *Coder {
	return &Coder{Module: module}
}

// Emit produces the module's full C source. prog must already have been
// through the checker and the upvalues pass (GlobalIndex/CName/Literals all
// populated); Emit only reads those annotations, it does not compute them.
func (c *Coder) Emit(prog *ast.Program) (string, error) {
	c.literals = prog.Literals
	c.emitHeader()
	c.emitLiteralPool(prog)

	var records []*ast.TopLevelRecord
	var vars []*ast.TopLevelVar
	var funcs []*ast.TopLevelFunc
	var imports []*ast.Import
	var foreignImports []*ast.ForeignImport

	for _, item := range prog.Items {
		switch it := item.(type) {
		case *ast.TopLevelRecord:
			records = append(records, it)
		case *ast.TopLevelVar:
			vars = append(vars, it)
		case *ast.TopLevelFunc:
			funcs = append(funcs, it)
		case *ast.Import:
			imports = append(imports, it)
		case *ast.ForeignImport:
			foreignImports = append(foreignImports, it)
		}
	}

	for _, imp := range imports {
		c.emitImport(imp)
	}
	for _, imp := range foreignImports {
		c.emitForeignImport(imp)
	}
	for _, rec := range records {
		c.emitRecordType(rec)
	}
	for _, fn := range funcs {
		if fn.Synthetic {
			c.emitConstructor(fn)
		} else {
			c.emitFunction(fn)
		}
	}
	c.emitTypesFunction(prog)
	c.emitInit(vars, funcs, records)
	c.emitLuaopen()

	var out strings.Builder
	out.WriteString(c.forwardDecls.String())
	out.WriteString(c.typeGlobals.String())
	out.WriteString(c.functions.String())
	out.WriteString(c.moduleInit.String())
	return out.String(), nil
}

func (c *Coder) emitHeader() {
	fmt.Fprintln(&c.forwardDecls, `#include <stdlib.h>`)
	fmt.Fprintln(&c.forwardDecls, `#include <string.h>`)
	fmt.Fprintln(&c.forwardDecls, `#include "luaconf.h"`)
	fmt.Fprintln(&c.forwardDecls)
	fmt.Fprintln(&c.forwardDecls, `#include "lauxlib.h"`)
	fmt.Fprintln(&c.forwardDecls, `#include "lualib.h"`)
	fmt.Fprintln(&c.forwardDecls)
	fmt.Fprintln(&c.forwardDecls, `#include "lapi.h"`)
	fmt.Fprintln(&c.forwardDecls, `#include "lgc.h"`)
	fmt.Fprintln(&c.forwardDecls, `#include "ltable.h"`)
	fmt.Fprintln(&c.forwardDecls, `#include "lfunc.h"`)
	fmt.Fprintln(&c.forwardDecls, `#include "lstring.h"`)
	fmt.Fprintln(&c.forwardDecls, `#include "lvm.h"`)
	fmt.Fprintln(&c.forwardDecls, `#include "lobject.h"`)
	fmt.Fprintln(&c.forwardDecls)
	fmt.Fprintln(&c.forwardDecls, `#include <math.h>`)
	fmt.Fprintln(&c.forwardDecls)
	fmt.Fprintln(&c.forwardDecls, `#define MAXNUMBER2STR 50`)
	fmt.Fprintln(&c.forwardDecls, `static char _cvtbuff[MAXNUMBER2STR];`)
	fmt.Fprintln(&c.forwardDecls)
	fmt.Fprintln(&c.forwardDecls, `#define cast_func(t,p) ((t)(p))`)
	fmt.Fprintln(&c.forwardDecls)
	fmt.Fprintf(&c.forwardDecls, "static int _%s_initialized = 0;\n\n", c.Module)
	c.emitRuntimeDecls()
}

// emitRuntimeDecls forward-declares the entry points this translation unit
// expects from the runtime companion library (grounded on
// original_source/titan-runtime/titan.c, which plays that role for the
// loader half of the same protocol): array bounds/write-barrier helpers,
// the coercion/boxing helpers named in §4.6, and the import loader.
func (c *Coder) emitRuntimeDecls() {
	decls := []string{
		"TValue titan_array_get(lua_State *L, Table *arr, lua_Integer i);",
		"void titan_array_set(lua_State *L, Table *arr, lua_Integer i, TValue v);",
		"void titan_array_delete(lua_State *L, Table *arr, lua_Integer i);",
		"void titan_array_resize(lua_State *L, Table *arr, lua_Integer newsize);",
		"TString *titan_concat(lua_State *L, int n, ...);",
		"CClosure *titan_record_new(lua_State *L, int nfields);",
		"void titan_record_setfield(lua_State *L, CClosure *rec, const char *name, TValue v);",
		"void *titan_require(lua_State *L, const char *module);",
		"void titan_import_error(lua_State *L, const char *module);",
		"void *titan_loadsym(lua_State *L, void *handle, const char *name);",
		"lua_Integer titan_float2int_checked(lua_State *L, lua_Number f);",
		"TString *titan_integer2str(lua_State *L, lua_Integer i);",
		"TString *titan_float2str(lua_State *L, lua_Number f);",
		"TValue titan_box(lua_State *L, TValue v);",
		"lua_Integer titan_unbox_integer(lua_State *L, TValue v);",
		"lua_Number titan_unbox_float(lua_State *L, TValue v);",
		"int titan_unbox_boolean(lua_State *L, TValue v);",
		"TString *titan_unbox_string(lua_State *L, TValue v);",
		"TValue titan_unbox_value(lua_State *L, TValue v);",
		"TValue titan_checkarg(lua_State *L, int idx);",
		"void titan_pushvalue(lua_State *L, TValue v);",
		"void titan_pushclosure(lua_State *L, lua_CFunction f, int nupvalues, Table *globals);",
	}
	for _, d := range decls {
		fmt.Fprintln(&c.forwardDecls, d)
	}
	fmt.Fprintln(&c.forwardDecls)
}

// emitLiteralPool declares one TString* pointer per interned literal (§4.5);
// they are populated lazily on first use via luaS_newlstr, matching the
// runtime's intern-or-create entry point named in §4.6's coercion-emission
// paragraph.
func (c *Coder) emitLiteralPool(prog *ast.Program) {
	if len(prog.Literals) == 0 {
		return
	}
	fmt.Fprintf(&c.forwardDecls, "/* literal pool (%d entries) */\n", len(prog.Literals))
	slots := make([]string, 0, len(prog.Literals))
	for s := range prog.Literals {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return prog.Literals[slots[i]] < prog.Literals[slots[j]] })
	for _, s := range slots {
		fmt.Fprintf(&c.forwardDecls, "static TString *_literal_%d; /* %s */\n", prog.Literals[s], quoteCComment(s))
	}
	fmt.Fprintln(&c.forwardDecls)
}

func quoteCComment(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "*/", "* /"), "\n", " ")
}

func cLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (c *Coder) freshLocal(base string) string {
	if c.locals == nil {
		c.locals = make(map[string]int)
	}
	n := c.locals[base]
	c.locals[base]++
	if n == 0 {
		return "_local_" + base
	}
	return fmt.Sprintf("_local_%s_%d", base, n)
}

func (c *Coder) resetLocals() {
	c.locals = make(map[string]int)
}
