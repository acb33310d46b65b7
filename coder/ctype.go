package coder

import "titan/types"

// cType returns the native-ABI C representation of t: lua_Integer,
// lua_Number, int for booleans and nil, TString* for strings, Table* for
// arrays, TValue for value, and CClosure* (not TValue) for records.
func cType(t types.Type) string {
	switch t := t.(type) {
	case types.Integer:
		return "lua_Integer"
	case types.Float:
		return "lua_Number"
	case types.Boolean:
		return "int"
	case types.Nil:
		return "int"
	case types.String:
		return "TString*"
	case types.Value:
		return "TValue"
	case types.Invalid:
		return "int"
	case *types.Array:
		return "Table*"
	case types.Nominal:
		return "CClosure*"
	case *types.Option:
		return cType(t.Base)
	default:
		return "TValue"
	}
}

// isGCType reports whether a value of type t needs a GC-visible stack slot
// (§4.6's "one per locally held GC reference"): strings, arrays, records and
// boxed Values all qualify, scalars don't.
func isGCType(t types.Type) bool {
	switch t := t.(type) {
	case types.String, *types.Array, types.Nominal, types.Value:
		return true
	case *types.Option:
		return isGCType(t.Base)
	default:
		return false
	}
}
