package coder

import (
	"fmt"

	"titan/ast"
)

func (c *Coder) emitBlockBody(buf *funcBuf, b *ast.Block) {
	for _, s := range b.Stmts {
		c.emitStmt(buf, s)
	}
}

func (c *Coder) emitStmt(buf *funcBuf, s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		fmt.Fprintf(buf.body, "\t{\n")
		c.emitBlockBody(buf, s)
		fmt.Fprintf(buf.body, "\t}\n")
	case *ast.While:
		cond := c.emitExpr(buf, s.Cond)
		fmt.Fprintf(buf.body, "\twhile (%s) {\n", cond)
		c.emitBlockBody(buf, s.Body)
		fmt.Fprintf(buf.body, "\t}\n")
	case *ast.Repeat:
		fmt.Fprintf(buf.body, "\tdo {\n")
		c.emitBlockBody(buf, s.Body)
		cond := c.emitExpr(buf, s.Cond)
		fmt.Fprintf(buf.body, "\t} while (!(%s));\n", cond)
	case *ast.If:
		c.emitIf(buf, s)
	case *ast.For:
		c.emitFor(buf, s)
	case *ast.Decl:
		c.emitDecl(buf, s)
	case *ast.Assign:
		c.emitAssign(buf, s)
	case *ast.CallStmt:
		fmt.Fprintf(buf.body, "\t%s;\n", c.emitExpr(buf, s.Call))
	case *ast.Return:
		c.emitReturn(buf, s)
	}
}

func (c *Coder) emitIf(buf *funcBuf, s *ast.If) {
	cond := c.emitExpr(buf, s.Cond)
	fmt.Fprintf(buf.body, "\tif (%s) {\n", cond)
	c.emitBlockBody(buf, s.Then)
	fmt.Fprintf(buf.body, "\t}\n")
	for _, ei := range s.ElseIfs {
		cond := c.emitExpr(buf, ei.Cond)
		fmt.Fprintf(buf.body, "\telse if (%s) {\n", cond)
		c.emitBlockBody(buf, ei.Body)
		fmt.Fprintf(buf.body, "\t}\n")
	}
	if s.Else != nil {
		fmt.Fprintf(buf.body, "\telse {\n")
		c.emitBlockBody(buf, s.Else)
		fmt.Fprintf(buf.body, "\t}\n")
	}
}

// emitFor implements §4.6's for-loop paragraph: comparison direction
// follows the step's sign, using the compile-time constant when the
// checker folded one, and a runtime branch on the step's sign otherwise.
func (c *Coder) emitFor(buf *funcBuf, s *ast.For) {
	varName := "_local_" + s.VarName
	start := c.emitExpr(buf, s.Start)
	end := c.emitExpr(buf, s.End)
	step := c.emitExpr(buf, s.Step)
	ctype := cType(s.ResolvedType)

	if s.StepFolded != nil {
		cmp := "<="
		if s.StepFolded.Negative() {
			cmp = ">="
		}
		fmt.Fprintf(buf.body, "\tfor (%s %s = %s; %s %s %s; %s += %s) {\n",
			ctype, varName, start, varName, cmp, end, varName, step)
		c.emitBlockBody(buf, s.Body)
		fmt.Fprintf(buf.body, "\t}\n")
		return
	}

	stepTmp := c.freshLocal("step")
	fmt.Fprintf(buf.body, "\t%s %s = %s;\n", ctype, stepTmp, step)
	fmt.Fprintf(buf.body, "\tfor (%s %s = %s; (%s) > 0 ? (%s <= %s) : (%s >= %s); %s += %s) {\n",
		ctype, varName, start, stepTmp, varName, end, varName, end, varName, stepTmp)
	c.emitBlockBody(buf, s.Body)
	fmt.Fprintf(buf.body, "\t}\n")
}

func (c *Coder) emitDecl(buf *funcBuf, d *ast.Decl) {
	for i, name := range d.Names {
		ctype := cType(d.ResolvedTypes[i])
		var init string
		if i < len(d.Values) {
			init = c.emitExpr(buf, d.Values[i])
		} else {
			init = "0"
		}
		fmt.Fprintf(buf.body, "\t%s _local_%s = %s;\n", ctype, name, init)
		if isGCType(d.ResolvedTypes[i]) {
			fmt.Fprintf(buf.body, "\t/* %s holds a GC reference; no stack slot is reserved for it */\n", name)
		}
	}
}

func (c *Coder) emitAssign(buf *funcBuf, a *ast.Assign) {
	for i, target := range a.Targets {
		if i >= len(a.Values) {
			continue
		}
		val := c.emitExpr(buf, a.Values[i])
		switch t := target.(type) {
		case *ast.Name:
			fmt.Fprintf(buf.body, "\t%s = %s;\n", c.emitVar(buf, t), val)
		case *ast.Dot:
			fmt.Fprintf(buf.body, "\t%s = %s;\n", c.emitVar(buf, t), val)
		case *ast.Bracket:
			c.emitBracketAssign(buf, t, val, a.Values[i])
		}
	}
}

// emitBracketAssign implements the array write-barrier discipline of
// §4.6: growing the backing array when the index reaches twice its current
// array size, storing, and issuing a backward write barrier for GC-managed
// element types. Assigning a literal nil deletes the slot instead (§4.4),
// which needs no barrier since it never introduces a new reference.
func (c *Coder) emitBracketAssign(buf *funcBuf, b *ast.Bracket, val string, valueExpr ast.Expr) {
	base := c.emitExpr(buf, b.Base)
	idx := c.emitExpr(buf, b.Index)
	if _, isNil := valueExpr.(*ast.NilExpr); isNil {
		fmt.Fprintf(buf.body, "\ttitan_array_delete(L, %s, %s);\n", base, idx)
		return
	}
	fmt.Fprintf(buf.body, "\tif ((%s) >= 2*(%s)->sizearray) titan_array_resize(L, %s, (%s)*2 + 1);\n", idx, base, base, idx)
	fmt.Fprintf(buf.body, "\ttitan_array_set(L, %s, %s, %s);\n", base, idx, val)
	if isGCType(b.Type()) {
		fmt.Fprintf(buf.body, "\tluaC_barrierback(L, %s, obj2gco(%s));\n", base, val)
	}
}

func (c *Coder) emitReturn(buf *funcBuf, r *ast.Return) {
	if len(r.Values) == 0 {
		fmt.Fprintf(buf.body, "\tL->top -= %d;\n\tluaC_checkGC(L);\n\treturn;\n", buf.gcSlots)
		return
	}
	val := c.emitExpr(buf, r.Values[0])
	fmt.Fprintf(buf.body, "\tL->top -= %d;\n\tluaC_checkGC(L);\n\treturn %s;\n", buf.gcSlots, val)
}
