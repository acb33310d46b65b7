// Package upvalues implements the pass of §4.5: it assigns each top-level
// value a monotonically increasing global slot, interns every string
// literal into a per-module literal pool numbered separately from the
// global slots, and computes per-function upvalue sets — grounded on the
// teacher's typechecking.go slot-allocation idiom (Module.DefType assigns
// `id := TypeId(len(m.Types))`) and on original_source's generated C, where
// a Titan function's C closure is a fixed-size upvalue array indexed 0..N-1
// and each record needs a compile-time "Titan record <fqtn>" metatable-name
// string (see foo.c's luaL_newmetatable call).
package upvalues

import (
	"fmt"
	"sort"

	"titan/ast"
)

// Run assigns global slots, interns literals, and computes upvalue sets for
// every top-level function in prog. It must run after the checker, since it
// relies on ast.Name.Decl back-references being resolved.
func Run(module string, prog *ast.Program) {
	p := &pass{module: module, literals: make(map[string]int)}
	p.reserveRecordLiterals(prog)
	p.assignGlobals(prog)
	p.internBodyLiterals(prog)
	p.computeFunctionUpvalues(prog)
	prog.Literals = p.literals
}

type pass struct {
	module string

	// nextLiteral and nextGlobal are deliberately separate counters: the
	// literal pool (_literal_N, static TString* storage) and the globals
	// table (_globals, sized in emitInit to one slot per top-level var and
	// non-synthetic func)
	// are disjoint address spaces, so a record's reserved metatable-name
	// literal must not consume a globals-table slot before the first
	// var/func claims index 0.
	nextLiteral int
	nextGlobal  int
	literals    map[string]int
}

func (p *pass) intern(s string) int {
	if slot, ok := p.literals[s]; ok {
		return slot
	}
	slot := p.nextLiteral
	p.nextLiteral++
	p.literals[s] = slot
	return slot
}

// reserveRecordLiterals interns each record's metatable-name literal first,
// so those slots stay stable regardless of how many string literals the
// module's function bodies happen to contain (§4.5's "fixed prefix reserved
// for internal literals").
func (p *pass) reserveRecordLiterals(prog *ast.Program) {
	for _, item := range prog.Items {
		if rec, ok := item.(*ast.TopLevelRecord); ok {
			p.intern(fmt.Sprintf("Titan record %s.%s", p.module, rec.RecName))
		}
	}
}

func (p *pass) assignGlobals(prog *ast.Program) {
	for _, item := range prog.Items {
		switch it := item.(type) {
		case *ast.TopLevelVar:
			it.GlobalIndex = p.nextGlobal
			p.nextGlobal++
			it.CName = fmt.Sprintf("%s_%s", p.module, it.VarName)
		case *ast.TopLevelFunc:
			it.CName = cName(p.module, it)
			if it.Synthetic {
				// A record constructor is never stored in the globals table.
				it.GlobalIndex = -1
				continue
			}
			it.GlobalIndex = p.nextGlobal
			p.nextGlobal++
		}
	}
}

func cName(module string, fn *ast.TopLevelFunc) string {
	if fn.Synthetic {
		return fmt.Sprintf("%s_%s_new", module, fn.FuncName)
	}
	return fmt.Sprintf("%s_%s", module, fn.FuncName)
}

// internBodyLiterals walks every function body and top-level var initializer
// interning each string literal it finds. Order matters only for
// determinism between runs on identical input, so literals are visited in
// program order.
func (p *pass) internBodyLiterals(prog *ast.Program) {
	for _, item := range prog.Items {
		switch it := item.(type) {
		case *ast.TopLevelVar:
			walkExpr(it.Value, func(e ast.Expr) {
				if s, ok := e.(*ast.StringExpr); ok {
					p.intern(s.Value)
				}
			})
		case *ast.TopLevelFunc:
			if it.Synthetic {
				continue
			}
			walkBlock(it.Body, func(e ast.Expr) {
				if s, ok := e.(*ast.StringExpr); ok {
					p.intern(s.Value)
				}
			})
		}
	}
}

// computeFunctionUpvalues determines, for each top-level function, the
// sorted set of global slots (other top-level vars/funcs, and string
// literals) its body references, and where among them the function finds
// its own slot (for recursive calls); UpvalueIndex is -1 when the function
// never refers to itself.
func (p *pass) computeFunctionUpvalues(prog *ast.Program) {
	for _, item := range prog.Items {
		fn, ok := item.(*ast.TopLevelFunc)
		if !ok || fn.Synthetic {
			continue
		}
		refs := make(map[int]bool)
		visit := func(e ast.Expr) {
			switch e := e.(type) {
			case *ast.StringExpr:
				refs[p.literals[e.Value]] = true
			case *ast.VarExpr:
				if n, ok := e.V.(*ast.Name); ok {
					switch d := n.Decl.(type) {
					case *ast.TopLevelVar:
						refs[d.GlobalIndex] = true
					case *ast.TopLevelFunc:
						refs[d.GlobalIndex] = true
					}
				}
			}
		}
		walkBlock(fn.Body, visit)

		slots := make([]int, 0, len(refs))
		for s := range refs {
			slots = append(slots, s)
		}
		sort.Ints(slots)
		fn.ReferencedUpvalues = slots

		fn.UpvalueIndex = -1
		for i, s := range slots {
			if s == fn.GlobalIndex {
				fn.UpvalueIndex = i
				break
			}
		}
	}
}
