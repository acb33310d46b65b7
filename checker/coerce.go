package checker

import (
	"titan/ast"
	"titan/titanerr"
	"titan/types"
)

// canCoerce reports whether the implicit coercion graph of §4.4 has an edge
// from -> to: Integer<->Float, T->Value, Value->T, T->Boolean, T->Option(T),
// Nil->Option(T). Equal types always "coerce" (a no-op). This same graph is
// also what makes an explicit `as` cast valid (§4.4: "valid when source and
// target are explicitly coerceable").
func canCoerce(from, to types.Type) bool {
	if types.Equal(from, to) {
		return true
	}
	if _, ok := from.(types.Invalid); ok {
		return true // don't cascade diagnostics from an already-broken operand
	}
	if _, ok := to.(types.Invalid); ok {
		return true
	}
	_, fromInt := from.(types.Integer)
	_, toInt := to.(types.Integer)
	_, fromFloat := from.(types.Float)
	_, toFloat := to.(types.Float)
	if (fromInt && toFloat) || (fromFloat && toInt) {
		return true
	}
	if _, toValue := to.(types.Value); toValue {
		if _, fromValue := from.(types.Value); !fromValue {
			return true
		}
	}
	if _, fromValue := from.(types.Value); fromValue {
		if _, toValue := to.(types.Value); !toValue {
			return true
		}
	}
	if _, toBool := to.(types.Boolean); toBool {
		if _, fromBool := from.(types.Boolean); !fromBool {
			return true
		}
	}
	if opt, ok := to.(*types.Option); ok {
		if types.Equal(from, opt.Base) {
			return true
		}
		if _, isNil := from.(types.Nil); isNil {
			return true
		}
	}
	return false
}

// coerce wraps e in an implicit Cast if from and to differ but the graph
// permits it; it returns e unchanged if they are already
// equal, and reports TypeMismatch (returning e unchanged) if no edge exists.
func (c *Checker) coerce(e ast.Expr, from, to types.Type, pos titanerr.Pos) ast.Expr {
	if types.Equal(from, to) {
		return e
	}
	if !canCoerce(from, to) {
		c.errorf(pos, TypeMismatch, "cannot coerce %s to %s", typeName(from), typeName(to))
		return e
	}
	cast := &ast.Cast{Pos_: pos, Operand: e, TargetSyntax: nil, Target: to, Implicit: true}
	cast.SetType(to)
	return cast
}

// isNumeric reports whether t is Integer or Float.
func isNumeric(t types.Type) bool {
	switch t.(type) {
	case types.Integer, types.Float:
		return true
	}
	return false
}
