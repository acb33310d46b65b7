package ast

import (
	"titan/types"
)

// Expr is the sum of expression kinds (§3). Every Expr gains a ResolvedType
// annotation from the checker; expressions that can yield more than one
// value (calls, and — degenerately — Extra) additionally carry
// ResultTypes.
type Expr interface {
	Node
	expr()
	Type() types.Type
	SetType(types.Type)
}

type baseExpr struct {
	typ types.Type
}

func (b *baseExpr) Type() types.Type     { return b.typ }
func (b *baseExpr) SetType(t types.Type) { b.typ = t }

type NilExpr struct {
	baseExpr
	Pos_ posT
}

type BoolExpr struct {
	baseExpr
	Pos_  posT
	Value bool
}

type IntExpr struct {
	baseExpr
	Pos_  posT
	Value int64
}

type FloatExpr struct {
	baseExpr
	Pos_  posT
	Value float64
}

type StringExpr struct {
	baseExpr
	Pos_  posT
	Value string
}

// InitList is `{ ... }`: either all-positional (array literal) or
// all-named (record literal); §3, §4.4 forbid mixing the two and require a
// context type hint.
type InitList struct {
	baseExpr
	Pos_       posT
	Positional []Expr
	Fields     []InitField // used instead of Positional for record literals
}

type InitField struct {
	Pos_  posT
	Name  string
	Value Expr
}

type VarExpr struct {
	baseExpr
	Pos_ posT
	V    Var
}

type UnopKind int

const (
	UnopNeg UnopKind = iota
	UnopNot
	UnopLen
	UnopBNot
)

type Unop struct {
	baseExpr
	Pos_    posT
	Op      UnopKind
	Operand Expr

	// Folded is non-nil when the checker constant-folds this node (only
	// numeric-literal negation is folded, per §1's Non-goals and §4.6).
	Folded *FoldedNumber
}

type BinopKind int

const (
	BinopAdd BinopKind = iota
	BinopSub
	BinopMul
	BinopDiv
	BinopIDiv
	BinopMod
	BinopPow
	BinopBAnd
	BinopBOr
	BinopBXor
	BinopShl
	BinopShr
	BinopEq
	BinopNe
	BinopLt
	BinopGt
	BinopLe
	BinopGe
	BinopAnd
	BinopOr
)

type Binop struct {
	baseExpr
	Pos_  posT
	Op    BinopKind
	Left  Expr
	Right Expr

	// LeftCast/RightCast record implicit coercions the checker inserted
	// around a mixed-kind operand pair (§4.4).
	LeftCast  *CastInsertion
	RightCast *CastInsertion
}

// Concat is a flattened `..` chain (§4.2: right-associative). Adjacent
// string-literal operands are not constant-folded; each stays an operand.
type Concat struct {
	baseExpr
	Pos_     posT
	Operands []Expr
	// Casts[i] is non-nil when Operands[i] needed an Integer/Float→String
	// coercion.
	Casts []*CastInsertion
}

type Call struct {
	baseExpr
	Pos_   posT
	Callee Expr
	Args   []Expr

	// ArgCasts[i] is the coercion applied to Args[i], nil if none needed.
	ArgCasts []*CastInsertion
	// ResultTypes is set when Callee's type is a multi-return Function;
	// non-terminal call expressions are Adjust-wrapped to their first
	// element (§3, §4.4).
	ResultTypes []types.Type
}

// Cast is `expr as T`, both explicit (source syntax) and implicit
// (inserted by the checker for coercions the coder must see as
// homogeneous, §4.4).
type Cast struct {
	baseExpr
	Pos_    posT
	Operand Expr
	// TargetSyntax is what the parser produced; the checker resolves it
	// into Target once type names are in scope.
	TargetSyntax TypeSyntax
	Target       types.Type
	Implicit     bool
}

// Adjust extracts exactly one value from a multi-valued producer appearing
// in non-terminal position (§3, glossary "Adjustment").
type Adjust struct {
	baseExpr
	Pos_    posT
	Operand Expr
}

// Extra extracts the i-th value of a multi-valued producer that is the
// last element of a list supplying all its results (§3).
type Extra struct {
	baseExpr
	Pos_    posT
	Operand Expr
	Index   int
}

func (n *NilExpr) Pos() posT    { return n.Pos_ }
func (b *BoolExpr) Pos() posT   { return b.Pos_ }
func (i *IntExpr) Pos() posT    { return i.Pos_ }
func (f *FloatExpr) Pos() posT  { return f.Pos_ }
func (s *StringExpr) Pos() posT { return s.Pos_ }
func (l *InitList) Pos() posT   { return l.Pos_ }
func (v *VarExpr) Pos() posT    { return v.Pos_ }
func (u *Unop) Pos() posT       { return u.Pos_ }
func (b *Binop) Pos() posT      { return b.Pos_ }
func (c *Concat) Pos() posT     { return c.Pos_ }
func (c *Call) Pos() posT       { return c.Pos_ }
func (c *Cast) Pos() posT       { return c.Pos_ }
func (a *Adjust) Pos() posT     { return a.Pos_ }
func (e *Extra) Pos() posT      { return e.Pos_ }

func (n *NilExpr) expr()    {}
func (b *BoolExpr) expr()   {}
func (i *IntExpr) expr()    {}
func (f *FloatExpr) expr()  {}
func (s *StringExpr) expr() {}
func (l *InitList) expr()   {}
func (v *VarExpr) expr()    {}
func (u *Unop) expr()       {}
func (b *Binop) expr()      {}
func (c *Concat) expr()     {}
func (c *Call) expr()       {}
func (c *Cast) expr()       {}
func (a *Adjust) expr()     {}
func (e *Extra) expr()      {}
