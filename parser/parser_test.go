package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titan/ast"
	"titan/parser"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.ParseSource("test.titan", []byte(src))
	require.NoError(t, err)
	return prog
}

func TestParseTopLevelVar(t *testing.T) {
	prog := mustParse(t, `local x: integer = 10`)
	require.Len(t, prog.Items, 1)
	v, ok := prog.Items[0].(*ast.TopLevelVar)
	require.True(t, ok)
	assert.Equal(t, "x", v.VarName)
	assert.IsType(t, &ast.TypeName{}, v.DeclaredType)
	assert.IsType(t, &ast.IntExpr{}, v.Value)
}

func TestParseImport(t *testing.T) {
	prog := mustParse(t, `local m = import "somemodule"`)
	require.Len(t, prog.Items, 1)
	imp, ok := prog.Items[0].(*ast.Import)
	require.True(t, ok)
	assert.Equal(t, "m", imp.Alias)
	assert.Equal(t, "somemodule", imp.Module)
}

func TestParseForeignImport(t *testing.T) {
	prog := mustParse(t, `local m = foreign import "math.h"`)
	require.Len(t, prog.Items, 1)
	fi, ok := prog.Items[0].(*ast.ForeignImport)
	require.True(t, ok)
	assert.Equal(t, "math.h", fi.Header)
}

func TestParseFunctionWithParamsAndReturn(t *testing.T) {
	prog := mustParse(t, `
function add(a: integer, b: integer): integer
	return a + b
end
`)
	require.Len(t, prog.Items, 1)
	f, ok := prog.Items[0].(*ast.TopLevelFunc)
	require.True(t, ok)
	assert.Equal(t, "add", f.FuncName)
	require.Len(t, f.Params, 2)
	assert.Equal(t, "a", f.Params[0].Name)
	require.Len(t, f.Rets, 1)
	require.Len(t, f.Body.Stmts, 1)
	ret, ok := f.Body.Stmts[0].(*ast.Return)
	require.True(t, ok)
	require.Len(t, ret.Values, 1)
	bin, ok := ret.Values[0].(*ast.Binop)
	require.True(t, ok)
	assert.Equal(t, ast.BinopAdd, bin.Op)
}

func TestParseRecordExpandsToConstructor(t *testing.T) {
	prog := mustParse(t, `
record Point
	x: integer
	y: integer
end
`)
	require.Len(t, prog.Items, 2)
	rec, ok := prog.Items[0].(*ast.TopLevelRecord)
	require.True(t, ok)
	assert.Equal(t, "Point", rec.RecName)
	require.Len(t, rec.Fields, 2)
	ctor, ok := prog.Items[1].(*ast.TopLevelFunc)
	require.True(t, ok)
	assert.Equal(t, "Point.new", ctor.FuncName)
	require.Len(t, ctor.Params, 2)
}

func TestParseUnaryPowerPrecedence(t *testing.T) {
	// -2^2 must parse as -(2^2), i.e. the outer node is the Unop.
	prog := mustParse(t, `local x = -2^2`)
	v := prog.Items[0].(*ast.TopLevelVar)
	un, ok := v.Value.(*ast.Unop)
	require.True(t, ok)
	assert.Equal(t, ast.UnopNeg, un.Op)
	pow, ok := un.Operand.(*ast.Binop)
	require.True(t, ok)
	assert.Equal(t, ast.BinopPow, pow.Op)
}

func TestParsePowerRightAssociative(t *testing.T) {
	// 2^2^3 == 2^(2^3): the top node's Right is itself a Pow.
	prog := mustParse(t, `local x = 2^2^3`)
	v := prog.Items[0].(*ast.TopLevelVar)
	top, ok := v.Value.(*ast.Binop)
	require.True(t, ok)
	assert.Equal(t, ast.BinopPow, top.Op)
	_, ok = top.Right.(*ast.Binop)
	assert.True(t, ok)
	_, ok = top.Left.(*ast.IntExpr)
	assert.True(t, ok)
}

func TestParseConcatFlattensChain(t *testing.T) {
	prog := mustParse(t, `local x = "a" .. "b" .. "c"`)
	v := prog.Items[0].(*ast.TopLevelVar)
	cc, ok := v.Value.(*ast.Concat)
	require.True(t, ok)
	assert.Len(t, cc.Operands, 3)
}

func TestParseCastChaining(t *testing.T) {
	prog := mustParse(t, `local x = (1 as float) as value`)
	v := prog.Items[0].(*ast.TopLevelVar)
	outer, ok := v.Value.(*ast.Cast)
	require.True(t, ok)
	inner, ok := outer.Operand.(*ast.Cast)
	require.True(t, ok)
	assert.IsType(t, &ast.IntExpr{}, inner.Operand)
}

func TestParseCallAndIndexSuffixes(t *testing.T) {
	prog := mustParse(t, `
function f(a: {integer})
	local x = a[1]
	g(a[1], 2)
end
`)
	f := prog.Items[0].(*ast.TopLevelFunc)
	decl := f.Body.Stmts[0].(*ast.Decl)
	ve, ok := decl.Values[0].(*ast.VarExpr)
	require.True(t, ok)
	_, ok = ve.V.(*ast.Bracket)
	assert.True(t, ok)

	callStmt := f.Body.Stmts[1].(*ast.CallStmt)
	require.Len(t, callStmt.Call.Args, 2)
}

func TestParseArrayInitList(t *testing.T) {
	prog := mustParse(t, `local x: {integer} = {1, 2, 3}`)
	v := prog.Items[0].(*ast.TopLevelVar)
	list, ok := v.Value.(*ast.InitList)
	require.True(t, ok)
	assert.Len(t, list.Positional, 3)
	assert.Empty(t, list.Fields)
}

func TestParseRecordInitList(t *testing.T) {
	prog := mustParse(t, `local x: Point = {x = 1, y = 2}`)
	v := prog.Items[0].(*ast.TopLevelVar)
	list, ok := v.Value.(*ast.InitList)
	require.True(t, ok)
	assert.Len(t, list.Fields, 2)
	assert.Equal(t, "x", list.Fields[0].Name)
}

func TestParseIfElseIfElse(t *testing.T) {
	prog := mustParse(t, `
function f(a: integer): integer
	if a == 1 then
		return 1
	elseif a == 2 then
		return 2
	else
		return 3
	end
end
`)
	f := prog.Items[0].(*ast.TopLevelFunc)
	ifs := f.Body.Stmts[0].(*ast.If)
	require.Len(t, ifs.ElseIfs, 1)
	require.NotNil(t, ifs.Else)
}

func TestParseWhileAndRepeat(t *testing.T) {
	prog := mustParse(t, `
function f()
	while true do
	end
	repeat
	until false
end
`)
	f := prog.Items[0].(*ast.TopLevelFunc)
	require.Len(t, f.Body.Stmts, 2)
	assert.IsType(t, &ast.While{}, f.Body.Stmts[0])
	assert.IsType(t, &ast.Repeat{}, f.Body.Stmts[1])
}

func TestParseForWithAndWithoutStep(t *testing.T) {
	prog := mustParse(t, `
function f()
	for i = 1, 10 do
	end
	for i = 10, 1, -1 do
	end
end
`)
	f := prog.Items[0].(*ast.TopLevelFunc)
	f1 := f.Body.Stmts[0].(*ast.For)
	assert.False(t, f1.ExplicitStep)
	f2 := f.Body.Stmts[1].(*ast.For)
	assert.True(t, f2.ExplicitStep)
}

func TestParseMultiAssign(t *testing.T) {
	prog := mustParse(t, `
function f()
	local x = 1
	local y = 2
	x, y = y, x
end
`)
	f := prog.Items[0].(*ast.TopLevelFunc)
	assign := f.Body.Stmts[2].(*ast.Assign)
	assert.Len(t, assign.Targets, 2)
	assert.Len(t, assign.Values, 2)
}

func TestParseSyntaxErrorReportsPosition(t *testing.T) {
	_, err := parser.ParseSource("bad.titan", []byte("local x = "))
	require.Error(t, err)
}

func TestParseOptionType(t *testing.T) {
	prog := mustParse(t, `local x: integer? = nil`)
	v := prog.Items[0].(*ast.TopLevelVar)
	opt, ok := v.DeclaredType.(*ast.TypeOption)
	require.True(t, ok)
	assert.IsType(t, &ast.TypeName{}, opt.Base)
}

func TestParseQualifiedTypeName(t *testing.T) {
	prog := mustParse(t, `
local m = import "other"
function f(p: m.Point)
end
`)
	f := prog.Items[1].(*ast.TopLevelFunc)
	qn, ok := f.Params[0].Type.(*ast.TypeQualName)
	require.True(t, ok)
	assert.Equal(t, "m", qn.Module)
	assert.Equal(t, "Point", qn.Name)
}
