// Package fold implements the compiler's only constant-folding pass:
// numeric literal negation (§1 Non-goals: "source-level optimization passes
// beyond constant folding of numeric literal negation"). It is used by the
// checker to fold `-2` into a literal so the value is available for the
// for-loop step orientation rule (§4.6) and by top-level variable
// initializers that must be constant-foldable (§6.3).
//
// Repurposed from the teacher's Evaluator (eval.go), which walked a general
// expression tree; this version only ever recurses through Unop chains
// ending in a numeric literal, since that is the only shape §4.6 asks for.
package fold

import "titan/ast"

// Number attempts to fold e into a compile-time numeric constant. It
// succeeds for a bare int/float literal, and for any chain of unary minus
// operators terminating in one (`- -2` folds to `2`, matching double
// negation, though the surface grammar never nests unary minus without
// parentheses in practice).
func Number(e ast.Expr) (*ast.FoldedNumber, bool) {
	switch e := e.(type) {
	case *ast.IntExpr:
		return &ast.FoldedNumber{IsFloat: false, Int: e.Value}, true
	case *ast.FloatExpr:
		return &ast.FoldedNumber{IsFloat: true, Float: e.Value}, true
	case *ast.Unop:
		if e.Op != ast.UnopNeg {
			return nil, false
		}
		inner, ok := Number(e.Operand)
		if !ok {
			return nil, false
		}
		if inner.IsFloat {
			return &ast.FoldedNumber{IsFloat: true, Float: -inner.Float}, true
		}
		return &ast.FoldedNumber{IsFloat: false, Int: -inner.Int}, true
	}
	return nil, false
}

// IsConstantFoldable reports whether e is a constant expression by the
// narrow definition above, used to enforce §6.3's "initializer must be
// constant-foldable" rule for a subset of expression forms; it also treats
// nil, true/false, and string literals as constant even though they are not
// numeric, since a top-level `local greeting = "hi"` is legal.
func IsConstantFoldable(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.NilExpr, *ast.BoolExpr, *ast.StringExpr, *ast.IntExpr, *ast.FloatExpr:
		return true
	case *ast.Unop:
		if e.Op != ast.UnopNeg {
			return false
		}
		_, ok := Number(e.Operand)
		return ok
	}
	return false
}
