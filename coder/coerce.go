package coder

import (
	"fmt"

	"titan/ast"
	"titan/types"
)

// emitCoercion renders the C expression for one implicit or explicit cast,
// following §4.6's "Coercion emission" paragraph verbatim:
//   - Integer -> Float is a plain C cast.
//   - Float -> Integer floors and traps if the result doesn't round-trip.
//   - Integer/Float -> String calls the runtime's titan_integer2str or
//     titan_float2str.
//   - Any type -> Value boxes through the runtime's titan_box.
//   - Value -> T predicates on the tag and extracts or traps.
func emitCoercion(operand string, cast *ast.Cast) string {
	from := underlyingScalar(sourceTypeOf(cast))
	to := underlyingScalar(cast.Target)

	switch {
	case isType[types.Integer](from) && isType[types.Float](to):
		return fmt.Sprintf("((lua_Number)(%s))", operand)
	case isType[types.Float](from) && isType[types.Integer](to):
		return fmt.Sprintf("titan_float2int_checked(L, (lua_Number)(%s))", operand)
	case isType[types.Integer](from) && isType[types.String](to):
		return fmt.Sprintf("titan_integer2str(L, (lua_Integer)(%s))", operand)
	case isType[types.Float](from) && isType[types.String](to):
		return fmt.Sprintf("titan_float2str(L, (lua_Number)(%s))", operand)
	case isType[types.Value](to):
		return fmt.Sprintf("titan_box(L, %s)", operand)
	case isType[types.Value](from):
		return fmt.Sprintf("titan_unbox_%s(L, %s)", valueTagSuffix(to), operand)
	case isOption(to) && !isOption(from):
		return operand // Option(T) has exactly T's C representation; no presence tag is added
	}
	return operand
}

func sourceTypeOf(cast *ast.Cast) types.Type {
	return cast.Operand.Type()
}

func underlyingScalar(t types.Type) types.Type {
	if opt, ok := t.(*types.Option); ok {
		return underlyingScalar(opt.Base)
	}
	return t
}

func isOption(t types.Type) bool {
	_, ok := t.(*types.Option)
	return ok
}

func isType[T types.Type](t types.Type) bool {
	_, ok := t.(T)
	return ok
}

func valueTagSuffix(t types.Type) string {
	switch t.(type) {
	case types.Integer:
		return "integer"
	case types.Float:
		return "float"
	case types.Boolean:
		return "boolean"
	case types.String:
		return "string"
	case types.Nil:
		return "nil"
	default:
		return "value"
	}
}
