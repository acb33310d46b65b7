package fold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"titan/ast"
	"titan/fold"
)

func TestNumberLiteral(t *testing.T) {
	n, ok := fold.Number(&ast.IntExpr{Value: 5})
	assert.True(t, ok)
	assert.False(t, n.IsFloat)
	assert.Equal(t, int64(5), n.Int)
}

func TestNumberNegatedLiteral(t *testing.T) {
	n, ok := fold.Number(&ast.Unop{Op: ast.UnopNeg, Operand: &ast.IntExpr{Value: 2}})
	assert.True(t, ok)
	assert.Equal(t, int64(-2), n.Int)
	assert.True(t, n.Negative())
}

func TestNumberNegatedFloat(t *testing.T) {
	n, ok := fold.Number(&ast.Unop{Op: ast.UnopNeg, Operand: &ast.FloatExpr{Value: 1.5}})
	assert.True(t, ok)
	assert.True(t, n.IsFloat)
	assert.Equal(t, -1.5, n.Float)
}

func TestNumberRejectsNonNumeric(t *testing.T) {
	_, ok := fold.Number(&ast.StringExpr{Value: "x"})
	assert.False(t, ok)
}

func TestIsConstantFoldable(t *testing.T) {
	assert.True(t, fold.IsConstantFoldable(&ast.StringExpr{Value: "hi"}))
	assert.True(t, fold.IsConstantFoldable(&ast.Unop{Op: ast.UnopNeg, Operand: &ast.IntExpr{Value: 3}}))
	assert.False(t, fold.IsConstantFoldable(&ast.Unop{Op: ast.UnopNot, Operand: &ast.BoolExpr{Value: true}}))
}
