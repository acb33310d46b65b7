// Package checker implements the two-pass type checker of §4.4: pass one
// collects top-level declarations and their types, pass two checks bodies
// and annotates the AST with resolved types and coercion casts. Grounded on
// the teacher's typechecking.go (Scope-based two-pass visitor), generalized
// from wall's simpler type lattice to Titan's fuller coercion graph.
package checker

import (
	"titan/ast"
	"titan/symtab"
	"titan/titanerr"
	"titan/types"
)

// Diagnostic labels for the semantic errors named in §4.4/§7.
const (
	DupName          titanerr.Label = "DupName"
	Undefined        titanerr.Label = "Undefined"
	NotAFunction     titanerr.Label = "NotAFunction"
	ArityMismatch    titanerr.Label = "ArityMismatch"
	TypeMismatch     titanerr.Label = "TypeMismatch"
	NotIndexable     titanerr.Label = "NotIndexable"
	NotAnArray       titanerr.Label = "NotAnArray"
	NoTypeHint       titanerr.Label = "NoTypeHint"
	BadInitFields    titanerr.Label = "BadInitFields"
	MissingField     titanerr.Label = "MissingField"
	UnknownField     titanerr.Label = "UnknownField"
	BadConcat        titanerr.Label = "BadConcat"
	BadLength        titanerr.Label = "BadLength"
	BadCast          titanerr.Label = "BadCast"
	BadComparison    titanerr.Label = "BadComparison"
	BadLogical       titanerr.Label = "BadLogical"
	NotConstant      titanerr.Label = "NotConstant"
	NilArrayElem     titanerr.Label = "NilArrayElem"
	MissingReturn    titanerr.Label = "MissingReturn"
	AssignToFunction titanerr.Label = "AssignToFunction"
	UnknownType      titanerr.Label = "UnknownType"
	UnknownModule    titanerr.Label = "UnknownModule"
	CircularImport   titanerr.Label = "CircularImport"
)

// Loader resolves an imported module's public type, so the checker can type
// its members without recompiling it. driver.Session's real loader
// implements this; tests use a small map-backed fake (see checker_test.go).
type Loader interface {
	Load(module string) (*types.Module, error)
}

// Checker holds the mutable state threaded through both passes of one
// module's check: the shared registry (nominal record identity across
// modules, §5), the symbol table, and the accumulated diagnostics. It is
// not reused across modules — the driver constructs one per module.
type Checker struct {
	Registry *types.Registry
	Loader   Loader
	Module   string

	sym   *symtab.Table
	diags titanerr.List

	// imports maps an import alias to the imported module's checked type,
	// filled in during pass 1 as each Import/ForeignImport is processed.
	imports map[string]types.Type

	// ctors maps a record's fqtn to its implicit `new` constructor
	// declaration (§6.3), reached through Rec.new(...) rather than a plain
	// name lookup.
	ctors map[string]*ast.TopLevelFunc

	// currentRets is the declared return-type list of the function body
	// pass 2 is currently checking, consulted by checkReturn.
	currentRets []types.Type
}

// localDecl is the Decl a `local` statement installs in the symbol table
// for one of its (possibly several) names: Index selects which entry of
// the owning Decl node's parallel Names/ResolvedTypes slices this name is.
type localDecl struct {
	Decl  *ast.Decl
	Index int
}

// New constructs a checker for the named module. reg is the session's
// shared type registry (§5, §9: "process-wide... in the rewrite become
// fields of an explicit Session value").
func New(module string, reg *types.Registry, loader Loader) *Checker {
	return &Checker{
		Registry: reg,
		Loader:   loader,
		Module:   module,
		sym:      symtab.New(module),
		imports:  make(map[string]types.Type),
		ctors:    make(map[string]*ast.TopLevelFunc),
	}
}

func (c *Checker) errorf(pos titanerr.Pos, label titanerr.Label, format string, args ...interface{}) {
	c.diags = append(c.diags, titanerr.NewLabeled(pos, label, format, args...))
}

// Check runs both passes over prog and returns the module's public type
// (a types.Module listing every top-level variable and function, including
// each record's synthetic `new` constructor; record types are not listed) plus
// any diagnostics. A module with any diagnostic is not emitted (§4.4).
func (c *Checker) Check(prog *ast.Program) (*types.Module, titanerr.List) {
	c.seedBuiltins()
	reordered := reorderTopLevel(prog.Items)
	c.pass1(reordered)
	c.pass2(reordered)

	members := make(map[string]types.Type)
	for _, item := range reordered {
		switch it := item.(type) {
		case *ast.TopLevelVar:
			members[it.VarName] = it.ResolvedType
		case *ast.TopLevelFunc:
			members[it.FuncName] = it.ResolvedType
		}
	}
	mod := &types.Module{ModName: c.Module, Members: members}
	return mod, c.diags
}

// reorderTopLevel copies items so imports precede variables precede
// functions (§4.2: "the checker later reorders them"). Records are checked
// alongside variables since their fields may be referenced by either.
func reorderTopLevel(items []ast.TopLevel) []ast.TopLevel {
	var imports, records, vars, funcs []ast.TopLevel
	for _, it := range items {
		switch it.(type) {
		case *ast.Import, *ast.ForeignImport:
			imports = append(imports, it)
		case *ast.TopLevelRecord:
			records = append(records, it)
		case *ast.TopLevelVar:
			vars = append(vars, it)
		case *ast.TopLevelFunc:
			funcs = append(funcs, it)
		}
	}
	out := make([]ast.TopLevel, 0, len(items))
	out = append(out, imports...)
	out = append(out, records...)
	out = append(out, vars...)
	out = append(out, funcs...)
	return out
}

func typeName(t types.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func invalid() types.Type { return types.Invalid{} }
