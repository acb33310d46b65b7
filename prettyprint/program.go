package prettyprint

import (
	"strconv"
	"strings"

	"titan/ast"
)

// Program renders prog back to Titan source, for --print-ast (§6.1). It
// skips Synthetic TopLevelFuncs: the implicit `.new` constructor a record
// declaration generates has no surface syntax of its own, and the
// enclosing `record ... end` block already implies it, so reprinting it
// would either duplicate output or fail to round-trip through a body-less
// synthetic function.
func Program(prog *ast.Program) string {
	return renderProgram(prog, false)
}

// Types renders prog the same way but with every expression annotated with
// its checker-resolved type as a trailing comment, for --print-types
// (§6.1: "pretty-print the checked AST (with type annotations)").
func Types(prog *ast.Program) string {
	return renderProgram(prog, true)
}

func renderProgram(prog *ast.Program, typed bool) string {
	p := &printer{typed: typed}
	for i, item := range prog.Items {
		if i > 0 {
			p.b.WriteString("\n")
		}
		p.topLevel(item)
	}
	return p.b.String()
}

func (p *printer) topLevel(item ast.TopLevel) {
	switch item := item.(type) {
	case *ast.Import:
		p.line(0, "local "+item.Alias+" = import "+strconv.Quote(item.Module))
	case *ast.ForeignImport:
		p.line(0, "local "+item.Alias+" = foreign import "+strconv.Quote(item.Header))
	case *ast.TopLevelVar:
		head := "local " + item.VarName
		if item.DeclaredType != nil {
			head += ": " + typeSyntax(item.DeclaredType)
		}
		p.line(0, head+" = "+exprString(item.Value)+p.typeComment(item.Value))
	case *ast.TopLevelFunc:
		if item.Synthetic {
			return
		}
		p.printFunc(item)
	case *ast.TopLevelRecord:
		p.line(0, "record "+item.RecName)
		for _, f := range item.Fields {
			p.line(1, f.Name+": "+typeSyntax(f.Type))
		}
		p.line(0, "end")
	}
}

func (p *printer) printFunc(f *ast.TopLevelFunc) {
	params := make([]string, len(f.Params))
	for i, prm := range f.Params {
		params[i] = prm.Name + ": " + typeSyntax(prm.Type)
	}
	head := "function " + f.FuncName + "(" + strings.Join(params, ", ") + ")" + retTypeSyntax(f.Rets)
	p.line(0, head)
	p.block(1, f.Body)
	p.line(0, "end")
}
