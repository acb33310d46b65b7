package prettyprint

import (
	"strings"

	"titan/ast"
)

type printer struct {
	typed bool
	b     strings.Builder
}

func (p *printer) line(indent int, s string) {
	p.b.WriteString(strings.Repeat(indentUnit, indent))
	p.b.WriteString(s)
	p.b.WriteString("\n")
}

// typeComment appends an inline type annotation comment for --print-types
// (§6.1: "pretty-print the checked AST (with type annotations)"). It is a
// no-op for --print-ast, so the same statement printer serves both modes.
func (p *printer) typeComment(e ast.Expr) string {
	if !p.typed || e == nil || e.Type() == nil {
		return ""
	}
	return " --[[" + e.Type().String() + "]]"
}

func (p *printer) block(indent int, blk *ast.Block) {
	if blk == nil {
		return
	}
	for _, s := range blk.Stmts {
		p.stmt(indent, s)
	}
}

func (p *printer) stmt(indent int, s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		p.line(indent, "do")
		p.block(indent+1, s)
		p.line(indent, "end")
	case *ast.While:
		p.line(indent, "while "+exprString(s.Cond)+" do"+p.typeComment(s.Cond))
		p.block(indent+1, s.Body)
		p.line(indent, "end")
	case *ast.Repeat:
		p.line(indent, "repeat")
		p.block(indent+1, s.Body)
		p.line(indent, "until "+exprString(s.Cond)+p.typeComment(s.Cond))
	case *ast.If:
		p.line(indent, "if "+exprString(s.Cond)+" then"+p.typeComment(s.Cond))
		p.block(indent+1, s.Then)
		for _, ei := range s.ElseIfs {
			p.line(indent, "elseif "+exprString(ei.Cond)+" then"+p.typeComment(ei.Cond))
			p.block(indent+1, ei.Body)
		}
		if s.Else != nil {
			p.line(indent, "else")
			p.block(indent+1, s.Else)
		}
		p.line(indent, "end")
	case *ast.For:
		head := "for " + s.VarName + " = " + exprString(s.Start) + ", " + exprString(s.End)
		if s.ExplicitStep {
			head += ", " + exprString(s.Step)
		}
		p.line(indent, head+" do"+p.typeComment(s.Start))
		p.block(indent+1, s.Body)
		p.line(indent, "end")
	case *ast.Decl:
		p.line(indent, declString(s)+p.typeComment(firstOrNil(s.Values)))
	case *ast.Assign:
		targets := make([]string, len(s.Targets))
		for i, t := range s.Targets {
			targets[i] = varString(t)
		}
		p.line(indent, strings.Join(targets, ", ")+" = "+exprListString(s.Values))
	case *ast.CallStmt:
		p.line(indent, exprString(s.Call))
	case *ast.Return:
		if len(s.Values) == 0 {
			p.line(indent, "return")
		} else {
			p.line(indent, "return "+exprListString(s.Values))
		}
	}
}

func declString(d *ast.Decl) string {
	names := make([]string, len(d.Names))
	for i, n := range d.Names {
		names[i] = n
		if i < len(d.Types) && d.Types[i] != nil {
			names[i] += ": " + typeSyntax(d.Types[i])
		}
	}
	return "local " + strings.Join(names, ", ") + " = " + exprListString(d.Values)
}

func firstOrNil(es []ast.Expr) ast.Expr {
	if len(es) == 0 {
		return nil
	}
	return es[0]
}
