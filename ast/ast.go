// Package ast defines the tagged-variant node families produced by the
// parser (§3): Program, Statement, Expression, Variable and Type syntax.
// Nodes are immutable in shape once parsed; the checker only adds
// annotations (see Annotation below), and the upvalues pass only adds slot
// bookkeeping, exactly as §3's "Lifecycle" paragraph specifies.
package ast

import (
	"titan/titanerr"
	"titan/types"
)

type posT = titanerr.Pos

// Node is implemented by every AST node; it exposes the node's source
// location for diagnostics.
type Node interface {
	Pos() posT
}

// Program is the ordered sequence of top-level items (§3). The parser
// accepts them in any order; the checker reorders a copy so imports precede
// variables precede functions (§4.2).
type Program struct {
	Items []TopLevel
	// Literals is filled in by the upvalues pass: string→slot index for
	// every string literal interned into the module's literal pool (§4.5).
	Literals map[string]int
}

// TopLevel is the sum of top-level item kinds.
type TopLevel interface {
	Node
	topLevel()
	Name() string
}

type Import struct {
	Pos_   posT
	Alias  string
	Module string
}

type ForeignImport struct {
	Pos_   posT
	Alias  string
	Header string
}

type TopLevelVar struct {
	Pos_         posT
	VarName      string
	DeclaredType TypeSyntax // nil if inferred from Value
	Value        Expr

	// Checker/upvalues annotations.
	ResolvedType types.Type
	GlobalIndex  int
	CName        string
}

type TopLevelFunc struct {
	Pos_     posT
	FuncName string
	Params   []Param
	Rets     []TypeSyntax
	Body     *Block

	// Synthetic marks the implicit `new` constructor the parser generates
	// for a record declaration (§6.3): its body is filled in by the coder
	// rather than checked, since the source has none to check.
	Synthetic bool

	// Checker/upvalues annotations.
	ResolvedType       types.Type // Function type
	GlobalIndex        int
	CName              string
	UpvalueIndex       int
	ReferencedUpvalues []int
	AlwaysReturns      bool
}

type TopLevelRecord struct {
	Pos_    posT
	RecName string
	Fields  []Field

	ResolvedType types.Type // Type(Record)
}

type Param struct {
	Pos_ posT
	Name string
	Type TypeSyntax

	// ResolvedType is filled in by the checker when it processes the
	// enclosing function's declaration (pass 1).
	ResolvedType types.Type
}

type Field struct {
	Pos_ posT
	Name string
	Type TypeSyntax
}

func (i *Import) Pos() posT         { return i.Pos_ }
func (f *ForeignImport) Pos() posT  { return f.Pos_ }
func (v *TopLevelVar) Pos() posT    { return v.Pos_ }
func (f *TopLevelFunc) Pos() posT   { return f.Pos_ }
func (r *TopLevelRecord) Pos() posT { return r.Pos_ }
func (f *Field) Pos() posT          { return f.Pos_ }

func (i *Import) topLevel()         {}
func (f *ForeignImport) topLevel()  {}
func (v *TopLevelVar) topLevel()    {}
func (f *TopLevelFunc) topLevel()   {}
func (r *TopLevelRecord) topLevel() {}

func (i *Import) Name() string         { return i.Alias }
func (f *ForeignImport) Name() string  { return f.Alias }
func (v *TopLevelVar) Name() string    { return v.VarName }
func (f *TopLevelFunc) Name() string   { return f.FuncName }
func (r *TopLevelRecord) Name() string { return r.RecName }
