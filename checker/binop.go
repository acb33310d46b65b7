package checker

import (
	"titan/ast"
	"titan/fold"
	"titan/types"
)

func (c *Checker) checkUnop(u *ast.Unop) types.Type {
	operand := c.checkExpr(u.Operand, nil)
	switch u.Op {
	case ast.UnopNeg:
		if n, ok := fold.Number(u); ok {
			u.Folded = n
		}
		if !isNumeric(operand) {
			if !isInvalid(operand) {
				c.errorf(u.Pos(), TypeMismatch, "unary - requires a numeric operand, got %s", typeName(operand))
			}
			return invalid()
		}
		return operand
	case ast.UnopNot:
		return types.Boolean{}
	case ast.UnopLen:
		switch operand.(type) {
		case *types.Array, types.String:
			return types.Integer{}
		}
		if !isInvalid(operand) {
			c.errorf(u.Pos(), BadLength, "# requires an array or string operand, got %s", typeName(operand))
		}
		return invalid()
	case ast.UnopBNot:
		if _, ok := operand.(types.Integer); !ok {
			if _, isFloat := operand.(types.Float); isFloat {
				u.Operand = c.coerce(u.Operand, operand, types.Integer{}, u.Pos())
				return types.Integer{}
			}
			if !isInvalid(operand) {
				c.errorf(u.Pos(), TypeMismatch, "~ requires an integer operand, got %s", typeName(operand))
			}
			return invalid()
		}
		return types.Integer{}
	}
	return invalid()
}

func isInvalid(t types.Type) bool {
	_, ok := t.(types.Invalid)
	return ok
}

func (c *Checker) checkBinop(b *ast.Binop) types.Type {
	left := c.checkExpr(b.Left, nil)
	right := c.checkExpr(b.Right, nil)
	switch b.Op {
	case ast.BinopAdd, ast.BinopSub, ast.BinopMul, ast.BinopIDiv, ast.BinopMod:
		return c.checkArith(b, left, right)
	case ast.BinopDiv, ast.BinopPow:
		return c.checkFloatArith(b, left, right)
	case ast.BinopBAnd, ast.BinopBOr, ast.BinopBXor, ast.BinopShl, ast.BinopShr:
		return c.checkBitwise(b, left, right)
	case ast.BinopEq, ast.BinopNe:
		return c.checkEquality(b, left, right)
	case ast.BinopLt, ast.BinopGt, ast.BinopLe, ast.BinopGe:
		return c.checkOrdering(b, left, right)
	case ast.BinopAnd, ast.BinopOr:
		return c.checkLogical(b, left, right)
	}
	return invalid()
}

// checkArith is `+ - * % //` (§4.4): Integer if both Integer, Float if
// either is Float (coercing the other), Invalid otherwise.
func (c *Checker) checkArith(b *ast.Binop, left, right types.Type) types.Type {
	if isInvalid(left) || isInvalid(right) {
		return invalid()
	}
	_, li := left.(types.Integer)
	_, ri := right.(types.Integer)
	if li && ri {
		return types.Integer{}
	}
	if isNumeric(left) && isNumeric(right) {
		if _, lf := left.(types.Float); !lf {
			b.Left = c.coerce(b.Left, left, types.Float{}, b.Left.Pos())
			b.LeftCast = &ast.CastInsertion{From: left, To: types.Float{}}
		}
		if _, rf := right.(types.Float); !rf {
			b.Right = c.coerce(b.Right, right, types.Float{}, b.Right.Pos())
			b.RightCast = &ast.CastInsertion{From: right, To: types.Float{}}
		}
		return types.Float{}
	}
	c.errorf(b.Pos(), TypeMismatch, "arithmetic requires numeric operands, got %s and %s", typeName(left), typeName(right))
	return invalid()
}

// checkFloatArith is `/ ^`: always Float, coercing integer operands up.
func (c *Checker) checkFloatArith(b *ast.Binop, left, right types.Type) types.Type {
	if isInvalid(left) || isInvalid(right) {
		return invalid()
	}
	if !isNumeric(left) || !isNumeric(right) {
		c.errorf(b.Pos(), TypeMismatch, "arithmetic requires numeric operands, got %s and %s", typeName(left), typeName(right))
		return invalid()
	}
	if _, lf := left.(types.Float); !lf {
		b.Left = c.coerce(b.Left, left, types.Float{}, b.Left.Pos())
	}
	if _, rf := right.(types.Float); !rf {
		b.Right = c.coerce(b.Right, right, types.Float{}, b.Right.Pos())
	}
	return types.Float{}
}

// checkBitwise is `| & ~ << >>`: both sides Integer, Float coerced down.
func (c *Checker) checkBitwise(b *ast.Binop, left, right types.Type) types.Type {
	if isInvalid(left) || isInvalid(right) {
		return invalid()
	}
	if !isNumeric(left) || !isNumeric(right) {
		c.errorf(b.Pos(), TypeMismatch, "bitwise operator requires numeric operands, got %s and %s", typeName(left), typeName(right))
		return invalid()
	}
	if _, li := left.(types.Integer); !li {
		b.Left = c.coerce(b.Left, left, types.Integer{}, b.Left.Pos())
	}
	if _, ri := right.(types.Integer); !ri {
		b.Right = c.coerce(b.Right, right, types.Integer{}, b.Right.Pos())
	}
	return types.Integer{}
}

// checkEquality is `== ~=` (§4.4): if either side is Value both sides
// coerce to Value; if one is Float and the other Integer the integer is
// promoted; otherwise the two sides must already be equal types.
func (c *Checker) checkEquality(b *ast.Binop, left, right types.Type) types.Type {
	if isInvalid(left) || isInvalid(right) {
		return types.Boolean{}
	}
	if _, lv := left.(types.Value); lv {
		b.Right = c.coerce(b.Right, right, types.Value{}, b.Right.Pos())
		return types.Boolean{}
	}
	if _, rv := right.(types.Value); rv {
		b.Left = c.coerce(b.Left, left, types.Value{}, b.Left.Pos())
		return types.Boolean{}
	}
	if isNumeric(left) && isNumeric(right) && !types.Equal(left, right) {
		if _, lf := left.(types.Float); lf {
			b.Right = c.coerce(b.Right, right, types.Float{}, b.Right.Pos())
		} else {
			b.Left = c.coerce(b.Left, left, types.Float{}, b.Left.Pos())
		}
		return types.Boolean{}
	}
	if !types.Equal(left, right) {
		c.errorf(b.Pos(), TypeMismatch, "cannot compare %s with %s", typeName(left), typeName(right))
	}
	return types.Boolean{}
}

// checkOrdering is `< > <= >=`: both sides the same numeric kind (Integer
// and Float are accepted together per §9's Open Question decision to
// prescribe acceptance with implicit promotion) or both String.
func (c *Checker) checkOrdering(b *ast.Binop, left, right types.Type) types.Type {
	if isInvalid(left) || isInvalid(right) {
		return types.Boolean{}
	}
	if isNumeric(left) && isNumeric(right) {
		if !types.Equal(left, right) {
			if _, lf := left.(types.Float); lf {
				b.Right = c.coerce(b.Right, right, types.Float{}, b.Right.Pos())
			} else {
				b.Left = c.coerce(b.Left, left, types.Float{}, b.Left.Pos())
			}
		}
		return types.Boolean{}
	}
	_, ls := left.(types.String)
	_, rs := right.(types.String)
	if ls && rs {
		return types.Boolean{}
	}
	c.errorf(b.Pos(), BadComparison, "ordering comparison requires two numbers or two strings, got %s and %s", typeName(left), typeName(right))
	return types.Boolean{}
}

// checkLogical is `and`/`or` (§4.4): if one side is Boolean the other
// coerces to Boolean; result type is the common type; truthiness (only nil
// and false are false) is a coder-time concern, not a checker one.
func (c *Checker) checkLogical(b *ast.Binop, left, right types.Type) types.Type {
	if isInvalid(left) || isInvalid(right) {
		return invalid()
	}
	_, lBool := left.(types.Boolean)
	_, rBool := right.(types.Boolean)
	if lBool && !rBool {
		b.Right = c.coerce(b.Right, right, types.Boolean{}, b.Right.Pos())
		return types.Boolean{}
	}
	if rBool && !lBool {
		b.Left = c.coerce(b.Left, left, types.Boolean{}, b.Left.Pos())
		return types.Boolean{}
	}
	if !types.Equal(left, right) {
		c.errorf(b.Pos(), BadLogical, "and/or requires compatible operand types, got %s and %s", typeName(left), typeName(right))
		return invalid()
	}
	return left
}

// checkConcat is `..` (§4.4): each operand must be String, Integer or
// Float; numbers coerce to String. Booleans, nil, arrays and records are
// forbidden.
func (c *Checker) checkConcat(cc *ast.Concat) types.Type {
	cc.Casts = make([]*ast.CastInsertion, len(cc.Operands))
	ok := true
	for i, op := range cc.Operands {
		t := c.checkExpr(op, nil)
		switch t.(type) {
		case types.String:
			// no cast needed
		case types.Integer, types.Float:
			cast := &ast.Cast{Pos_: op.Pos(), Operand: op, Target: types.String{}, Implicit: true}
			cast.SetType(types.String{})
			cc.Operands[i] = cast
			cc.Casts[i] = &ast.CastInsertion{From: t, To: types.String{}}
		case types.Invalid:
			ok = false
		default:
			c.errorf(op.Pos(), BadConcat, "cannot concatenate a %s", typeName(t))
			ok = false
		}
	}
	if !ok {
		return invalid()
	}
	return types.String{}
}

// checkCast is `expr as T` (§4.4): valid when source and target are
// explicitly coerceable; the same graph as implicit coercion.
func (c *Checker) checkCast(cast *ast.Cast) types.Type {
	from := c.checkExpr(cast.Operand, nil)
	to := c.resolveType(cast.TargetSyntax)
	cast.Target = to
	if isInvalid(from) || isInvalid(to) {
		return invalid()
	}
	if !canCoerce(from, to) && !canCoerce(to, from) {
		c.errorf(cast.Pos(), BadCast, "cannot cast %s to %s", typeName(from), typeName(to))
		return invalid()
	}
	return to
}
