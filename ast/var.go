package ast

import "titan/types"

// Var is the sum of variable-access forms (§3): a bare name, `.field`
// access, or `[index]` access. Each also implements Expr's annotation
// contract so the checker can type them directly without an extra wrapper.
type Var interface {
	Node
	varNode()
	Type() types.Type
	SetType(types.Type)
}

type baseVar struct {
	typ types.Type
}

func (b *baseVar) Type() types.Type     { return b.typ }
func (b *baseVar) SetType(t types.Type) { b.typ = t }

// Name is a bare identifier reference. Decl points back at the declaration
// node it resolved to (§3: "VarName gains a back-reference to its
// declaration node"); it is one of *ast.TopLevelVar, *ast.TopLevelFunc,
// *ast.Param, ast.BuiltinRef (a seeded runtime builtin), or *ast.Decl (for
// a specific name within a multi-name Decl).
type Name struct {
	baseVar
	Pos_  posT
	Ident string
	Decl  interface{}
}

// BuiltinRef marks a Name resolved to one of the runtime's seeded foreign
// functions (print, assert, error, tostring, tofloat, tointeger, type)
// rather than to any declaration in source. CName is the runtime symbol
// the coder lowers a call through this Name to.
type BuiltinRef struct {
	CName string
}

// Dot is `v.field`: either record field access or module member access,
// disambiguated by Base's resolved type during checking.
type Dot struct {
	baseVar
	Pos_  posT
	Base  Expr
	Field string
}

// Bracket is `v[index]`: array indexing (§4.4).
type Bracket struct {
	baseVar
	Pos_  posT
	Base  Expr
	Index Expr

	// IndexCast records the Integer coercion applied to Index when the
	// source expression was, e.g., a Float (§4.4: "i is coerced to
	// Integer").
	IndexCast *CastInsertion
}

func (n *Name) Pos() posT    { return n.Pos_ }
func (d *Dot) Pos() posT     { return d.Pos_ }
func (b *Bracket) Pos() posT { return b.Pos_ }

func (n *Name) varNode()    {}
func (d *Dot) varNode()     {}
func (b *Bracket) varNode() {}
