package upvalues_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titan/ast"
	"titan/checker"
	"titan/parser"
	"titan/types"
	"titan/upvalues"
)

func mustCheck(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.ParseSource("t.titan", []byte(src))
	require.NoError(t, err)
	c := checker.New("m", types.NewRegistry(), fakeLoader{})
	_, diags := c.Check(prog)
	require.Empty(t, diags)
	return prog
}

type fakeLoader struct{}

func (fakeLoader) Load(string) (*types.Module, error) { return nil, assertNever{} }

type assertNever struct{}

func (assertNever) Error() string { return "unexpected load" }

func TestGlobalIndicesAreMonotonicAndUnique(t *testing.T) {
	prog := mustCheck(t, `
local x: integer = 1
local y: integer = 2

function f(): integer
	return x + y
end
`)
	upvalues.Run("m", prog)

	seen := map[int]bool{}
	for _, item := range prog.Items {
		switch it := item.(type) {
		case *ast.TopLevelVar:
			assert.False(t, seen[it.GlobalIndex])
			seen[it.GlobalIndex] = true
		case *ast.TopLevelFunc:
			assert.False(t, seen[it.GlobalIndex])
			seen[it.GlobalIndex] = true
		}
	}
}

func TestFunctionReferencesGlobalsItUses(t *testing.T) {
	prog := mustCheck(t, `
local x: integer = 1
local y: integer = 2

function f(): integer
	return x
end
`)
	upvalues.Run("m", prog)

	var xVar *ast.TopLevelVar
	var fFunc *ast.TopLevelFunc
	for _, item := range prog.Items {
		switch it := item.(type) {
		case *ast.TopLevelVar:
			if it.VarName == "x" {
				xVar = it
			}
		case *ast.TopLevelFunc:
			fFunc = it
		}
	}
	require.NotNil(t, xVar)
	require.NotNil(t, fFunc)
	assert.Contains(t, fFunc.ReferencedUpvalues, xVar.GlobalIndex)
}

func TestStringLiteralsAreInternedAndShared(t *testing.T) {
	prog := mustCheck(t, `
function f(): string
	return "hello"
end

function g(): string
	return "hello"
end
`)
	upvalues.Run("m", prog)

	require.Contains(t, prog.Literals, "hello")
	slot := prog.Literals["hello"]

	for _, item := range prog.Items {
		fn := item.(*ast.TopLevelFunc)
		assert.Contains(t, fn.ReferencedUpvalues, slot)
	}
}

func TestRecordMetatableLiteralIsReserved(t *testing.T) {
	prog := mustCheck(t, `
record Point
	x: integer
	y: integer
end
`)
	upvalues.Run("m", prog)
	assert.Contains(t, prog.Literals, "Titan record m.Point")
}

func TestRecursiveFunctionRecordsItsOwnUpvalueIndex(t *testing.T) {
	prog := mustCheck(t, `
function fact(n: integer): integer
	if n == 0 then
		return 1
	end
	return n * fact(n - 1)
end
`)
	upvalues.Run("m", prog)

	fn := prog.Items[0].(*ast.TopLevelFunc)
	require.GreaterOrEqual(t, fn.UpvalueIndex, 0)
	assert.Equal(t, fn.GlobalIndex, fn.ReferencedUpvalues[fn.UpvalueIndex])
}

func TestNonRecursiveFunctionHasNoSelfUpvalue(t *testing.T) {
	prog := mustCheck(t, `
function f(): integer
	return 1
end
`)
	upvalues.Run("m", prog)
	fn := prog.Items[0].(*ast.TopLevelFunc)
	assert.Equal(t, -1, fn.UpvalueIndex)
}

func TestSyntheticConstructorIsSkipped(t *testing.T) {
	prog := mustCheck(t, `
record Point
	x: integer
	y: integer
end
`)
	upvalues.Run("m", prog)
	for _, item := range prog.Items {
		if fn, ok := item.(*ast.TopLevelFunc); ok {
			assert.True(t, fn.Synthetic)
			assert.Nil(t, fn.ReferencedUpvalues)
		}
	}
}
