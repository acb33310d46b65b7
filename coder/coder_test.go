package coder_test

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titan/checker"
	"titan/coder"
	"titan/parser"
	"titan/types"
	"titan/upvalues"
)

type fakeLoader struct{}

func (fakeLoader) Load(string) (*types.Module, error) { return nil, errNever }

var errNever = errStr("import not expected in this test")

type errStr string

func (e errStr) Error() string { return string(e) }

type mapLoader map[string]*types.Module

func (l mapLoader) Load(name string) (*types.Module, error) {
	if m, ok := l[name]; ok {
		return m, nil
	}
	return nil, errStr("module not found: " + name)
}

func compile(t *testing.T, module, src string) string {
	return compileWith(t, module, src, fakeLoader{})
}

func compileWith(t *testing.T, module, src string, loader checker.Loader) string {
	t.Helper()
	prog, err := parser.ParseSource("t.titan", []byte(src))
	require.NoError(t, err)
	c := checker.New(module, types.NewRegistry(), loader)
	_, diags := c.Check(prog)
	require.Empty(t, diags)
	upvalues.Run(module, prog)
	out, err := coder.New(module).Emit(prog)
	require.NoError(t, err)
	return out
}

func TestEmitIsDeterministic(t *testing.T) {
	src := `
function add(a: integer, b: integer): integer
	return a + b
end
`
	first := compile(t, "m", src)
	second := compile(t, "m", src)
	if first != second {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(first),
			B:        difflib.SplitLines(second),
			FromFile: "first",
			ToFile:   "second",
			Context:  2,
		})
		t.Fatalf("emission is not deterministic:\n%s", diff)
	}
}

func TestEmitContainsNativeAndHostEntryPoints(t *testing.T) {
	out := compile(t, "m", `
function add(a: integer, b: integer): integer
	return a + b
end
`)
	assert.Contains(t, out, "m_add_titan")
	assert.Contains(t, out, "m_add_lua")
	assert.Contains(t, out, "luaopen_m")
	assert.Contains(t, out, "m_init")
	assert.Contains(t, out, "m_types")
}

func TestEmitRecordConstructorAndTypeTag(t *testing.T) {
	out := compile(t, "m", `
record Point
	x: integer
	y: integer
end
`)
	assert.Contains(t, out, "m_Point_typetag")
	assert.Contains(t, out, "m_Point_typemt")
	assert.Contains(t, out, "m_Point.new")
	assert.Contains(t, out, "titan_record_new")
	assert.Contains(t, out, "titan_record_setfield")
}

func TestEmitStringLiteralPoolDeduplicates(t *testing.T) {
	out := compile(t, "m", `
function f(): string
	return "hi"
end

function g(): string
	return "hi"
end
`)
	assert.Equal(t, 1, countOccurrences(out, `/* hi */`))
}

func TestEmitForLoopUsesFoldedStepDirection(t *testing.T) {
	out := compile(t, "m", `
function countdown(n: integer)
	for i = n, 1, -1 do
	end
end
`)
	assert.Contains(t, out, ">=")
}

func TestEmitIntegerToFloatCoercionIsPlainCast(t *testing.T) {
	out := compile(t, "m", `
function f(a: integer, b: float): float
	return a + b
end
`)
	assert.Contains(t, out, "(lua_Number)(")
}

func TestEmitImportDeclaresLoaderCall(t *testing.T) {
	loader := mapLoader{
		"other": &types.Module{ModName: "other", Members: map[string]types.Type{
			"g": &types.Function{Rets: []types.Type{types.Integer{}}},
		}},
	}
	out := compileWith(t, "m", `
local other = import "other"

function f(): integer
	return other.g()
end
`, loader)
	assert.Contains(t, out, "titan_require(L")
	assert.Contains(t, out, "_import_other")
}

func TestEmitImportedCallDispatchesThroughLoadedSymbol(t *testing.T) {
	loader := mapLoader{
		"other": &types.Module{ModName: "other", Members: map[string]types.Type{
			"g": &types.Function{Params: []types.Type{types.Integer{}}, Rets: []types.Type{types.Integer{}}},
		}},
	}
	out := compileWith(t, "m", `
local other = import "other"

function f(x: integer): integer
	return other.g(x)
end
`, loader)
	assert.Contains(t, out, "titan_loadsym(L, _import_other,")
	assert.Contains(t, out, `"other_g_titan"`)
	assert.Contains(t, out, "_importfn_other_g")
	assert.Contains(t, out, "_importfn_other_g(L, ")
}

func TestEmitBuiltinCallLowersToRuntimeEntryPoint(t *testing.T) {
	out := compile(t, "m", `
function f()
	print("hi")
end
`)
	assert.Contains(t, out, "titan_print(L,")
	assert.NotContains(t, out, "_local_print")
}

func TestEmitRecordAndGlobalDoNotShareSlotSpace(t *testing.T) {
	out := compile(t, "m", `
record Point
	x: integer
end

local total: integer = 0

function get(): integer
	return total
end
`)
	assert.Contains(t, out, "luaH_resize(L, _globals, 2, 0)")
	assert.Contains(t, out, "luaH_setint(L, _globals, 0), 0); /* total */")
	assert.Contains(t, out, "_globals->array[0].value_")
}

func countOccurrences(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
			i += len(sub) - 1
		}
	}
	return n
}
