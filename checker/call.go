package checker

import (
	"titan/ast"
	"titan/types"
)

// checkCall type-checks a call expression on its own, treating it as if it
// occupied a single-value position: its resolved Type is its first return
// type (or Nil if it returns nothing). checkExprList is what recognizes a
// call in tail position and lets it supply every one of its ResultTypes
// instead (§3, §4.4's adjustment rule).
func (c *Checker) checkCall(call *ast.Call) types.Type {
	calleeType := c.checkExpr(call.Callee, nil)
	fn, ok := calleeType.(*types.Function)
	if !ok {
		if !isInvalid(calleeType) {
			c.errorf(call.Pos(), NotAFunction, "%s is not callable", typeName(calleeType))
		}
		for _, a := range call.Args {
			c.checkExpr(a, nil)
		}
		return invalid()
	}
	call.ArgCasts = make([]*ast.CastInsertion, len(call.Args))
	if len(call.Args) != len(fn.Params) && !fn.Vararg {
		c.errorf(call.Pos(), ArityMismatch, "%s expects %d argument(s), got %d", typeName(calleeType), len(fn.Params), len(call.Args))
	}
	for i, arg := range call.Args {
		var want types.Type
		if i < len(fn.Params) {
			want = fn.Params[i]
		}
		at := c.checkExpr(arg, want)
		if want == nil {
			continue
		}
		before := at
		call.Args[i] = c.coerce(arg, at, want, arg.Pos())
		if !types.Equal(before, want) {
			call.ArgCasts[i] = &ast.CastInsertion{From: before, To: want}
		}
	}
	call.ResultTypes = fn.Rets
	if len(fn.Rets) == 0 {
		return types.Nil{}
	}
	return fn.Rets[0]
}

// checkExprList checks a comma-separated expression list where a call in
// tail position may supply more than one value (§3 "Adjustment", §4.4). It
// returns the flattened list of value types the list actually supplies,
// wrapping a non-tail call in an Adjust node when it does not return
// exactly one value.
func (c *Checker) checkExprList(exprs []ast.Expr, hints []types.Type) ([]ast.Expr, []types.Type) {
	out := make([]ast.Expr, 0, len(exprs))
	types_ := make([]types.Type, 0, len(exprs))
	for i, e := range exprs {
		var hint types.Type
		if i < len(hints) {
			hint = hints[i]
		}
		isTail := i == len(exprs)-1
		t := c.checkExpr(e, hint)
		if call, ok := e.(*ast.Call); ok && isTail && len(call.ResultTypes) > 1 {
			out = append(out, e)
			types_ = append(types_, call.ResultTypes...)
			continue
		}
		if call, ok := e.(*ast.Call); ok && !isTail && len(call.ResultTypes) != 1 {
			e = &ast.Adjust{Pos_: call.Pos(), Operand: call}
			if len(call.ResultTypes) > 0 {
				t = call.ResultTypes[0]
			} else {
				t = types.Nil{}
			}
			e.SetType(t)
		}
		out = append(out, e)
		types_ = append(types_, t)
	}
	return out, types_
}
