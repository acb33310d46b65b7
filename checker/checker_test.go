package checker_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titan/ast"
	"titan/checker"
	"titan/parser"
	"titan/types"
)

// mapLoader is the checker package's in-memory test fixture (§4.7's
// "pluggable in-memory loader is provided for tests", implemented here
// narrowly for checker-level tests; driver_test.go builds a richer one).
type mapLoader struct {
	modules map[string]*types.Module
}

func (l mapLoader) Load(name string) (*types.Module, error) {
	if m, ok := l.modules[name]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("module not found: %s", name)
}

func check(t *testing.T, src string) (*types.Module, []error) {
	t.Helper()
	prog, err := parser.ParseSource("t.titan", []byte(src))
	require.NoError(t, err)
	c := checker.New("t", types.NewRegistry(), mapLoader{modules: map[string]*types.Module{}})
	mod, diags := c.Check(prog)
	errs := make([]error, len(diags))
	for i, d := range diags {
		errs[i] = d
	}
	return mod, errs
}

func TestCheckSimpleFunction(t *testing.T) {
	_, errs := check(t, `
function add(a: integer, b: integer): integer
	return a + b
end
`)
	assert.Empty(t, errs)
}

func TestCheckMissingReturnIsDiagnosed(t *testing.T) {
	_, errs := check(t, `
function f(): integer
	local x = 1
end
`)
	require.NotEmpty(t, errs)
}

func TestCheckIfElseBothReturnSatisfiesCoverage(t *testing.T) {
	_, errs := check(t, `
function f(a: integer): integer
	if a == 1 then
		return 1
	else
		return 2
	end
end
`)
	assert.Empty(t, errs)
}

func TestCheckIfWithoutElseDoesNotSatisfyCoverage(t *testing.T) {
	_, errs := check(t, `
function f(a: integer): integer
	if a == 1 then
		return 1
	end
end
`)
	assert.NotEmpty(t, errs)
}

func TestCheckIntFloatArithmeticPromotes(t *testing.T) {
	prog, err := parser.ParseSource("t.titan", []byte(`
function f(a: integer, b: float): float
	return a + b
end
`))
	require.NoError(t, err)
	c := checker.New("t", types.NewRegistry(), mapLoader{modules: map[string]*types.Module{}})
	_, diags := c.Check(prog)
	assert.Empty(t, diags)
	f := prog.Items[0].(*ast.TopLevelFunc)
	ret := f.Body.Stmts[0].(*ast.Return)
	bin := ret.Values[0].(*ast.Binop)
	_, isCast := bin.Left.(*ast.Cast)
	assert.True(t, isCast)
}

func TestCheckArrayIndexOutOfKindErrors(t *testing.T) {
	_, errs := check(t, `
function f(a: integer)
	local x = a[1]
end
`)
	assert.NotEmpty(t, errs)
}

func TestCheckArrayNilAssignIsLegal(t *testing.T) {
	_, errs := check(t, `
function delete(arr: {integer}, i: integer)
	arr[i] = nil
end
`)
	assert.Empty(t, errs)
}

func TestCheckRecordInitializerRequiresAllFields(t *testing.T) {
	_, errs := check(t, `
record Point
	x: integer
	y: integer
end

function f(): Point
	return {x = 1}
end
`)
	assert.NotEmpty(t, errs)
}

func TestCheckRecordInitializerComplete(t *testing.T) {
	_, errs := check(t, `
record Point
	x: integer
	y: integer
end

function f(): Point
	return {x = 1, y = 2}
end
`)
	assert.Empty(t, errs)
}

func TestCheckRecordConstructorCall(t *testing.T) {
	_, errs := check(t, `
record Point
	x: integer
	y: integer
end

function f(): Point
	return Point.new(1, 2)
end
`)
	assert.Empty(t, errs)
}

func TestCheckAssignToToplevelFunctionIsDiagnosed(t *testing.T) {
	_, errs := check(t, `
function foo(): integer
	foo = 2
	return 1
end
`)
	require.NotEmpty(t, errs)
}

func TestCheckLocalArrayWithoutHintIsDiagnosed(t *testing.T) {
	_, errs := check(t, `
function f()
	local xs = {}
end
`)
	require.NotEmpty(t, errs)
}

func TestCheckConcatCoercesNumbers(t *testing.T) {
	_, errs := check(t, `
function f(): string
	return "n=" .. 1 .. 2.5
end
`)
	assert.Empty(t, errs)
}

func TestCheckOptionAcceptsNil(t *testing.T) {
	_, errs := check(t, `
function f(): integer?
	return nil
end
`)
	assert.Empty(t, errs)
}

func TestCheckDuplicateTopLevelName(t *testing.T) {
	_, errs := check(t, `
local x: integer = 1
local x: integer = 2
`)
	require.NotEmpty(t, errs)
}

func TestCheckModuleType(t *testing.T) {
	mod, errs := check(t, `
function add(a: integer, b: integer): integer
	return a + b
end
`)
	require.Empty(t, errs)
	require.Contains(t, mod.Members, "add")
	fn, ok := mod.Members["add"].(*types.Function)
	require.True(t, ok)
	assert.Len(t, fn.Params, 2)
}
