package coder

import (
	"fmt"

	"titan/ast"
	"titan/types"
)

// emitExpr renders e as a C expression, appending any statements it needs
// (a concat buffer, an initializer list, a spilled multi-value result) to
// buf.body first. This is a direct expression emitter rather than the
// fully address-normalized form real Titan uses, where every subexpression
// gets its own named temporary so the collector can trace it between
// allocations; scalar-only expressions nest directly here, and only forms
// that need a statement of their own (concat, init lists) fall back to a
// fresh local.
func (c *Coder) emitExpr(buf *funcBuf, e ast.Expr) string {
	switch e := e.(type) {
	case *ast.NilExpr:
		return "0"
	case *ast.BoolExpr:
		if e.Value {
			return "1"
		}
		return "0"
	case *ast.IntExpr:
		return fmt.Sprintf("%d", e.Value)
	case *ast.FloatExpr:
		return fmt.Sprintf("%v", e.Value)
	case *ast.StringExpr:
		return c.stringLiteralRef(buf, e.Value)
	case *ast.VarExpr:
		return c.emitVar(buf, e.V)
	case *ast.Unop:
		return c.emitUnop(buf, e)
	case *ast.Binop:
		return c.emitBinop(buf, e)
	case *ast.Concat:
		return c.emitConcat(buf, e)
	case *ast.Call:
		return c.emitCall(buf, e)
	case *ast.Cast:
		return c.emitCast(buf, e)
	case *ast.Adjust:
		return c.emitExpr(buf, e.Operand)
	case *ast.Extra:
		return fmt.Sprintf("%s /* extra[%d] */", c.emitExpr(buf, e.Operand), e.Index)
	case *ast.InitList:
		return c.emitInitList(buf, e)
	}
	return "0 /* unhandled expr */"
}

func (c *Coder) stringLiteralRef(buf *funcBuf, s string) string {
	slot, ok := buf.literals[s]
	if !ok {
		return fmt.Sprintf("luaS_newlstr(L, %s, %d)", cLiteral(s), len(s))
	}
	return fmt.Sprintf("(_literal_%d ? _literal_%d : (_literal_%d = luaS_newlstr(L, %s, %d)))",
		slot, slot, slot, cLiteral(s), len(s))
}

func (c *Coder) emitVar(buf *funcBuf, v ast.Var) string {
	switch v := v.(type) {
	case *ast.Name:
		return c.emitName(buf, v)
	case *ast.Dot:
		return fmt.Sprintf("(%s).%s", c.emitExpr(buf, v.Base), sanitizeField(v.Field))
	case *ast.Bracket:
		idx := c.emitExpr(buf, v.Index)
		return fmt.Sprintf("titan_array_get(L, %s, %s)", c.emitExpr(buf, v.Base), idx)
	}
	return "0"
}

func sanitizeField(name string) string { return "fld_" + name }

func (c *Coder) emitName(buf *funcBuf, n *ast.Name) string {
	switch d := n.Decl.(type) {
	case *ast.TopLevelVar:
		return fmt.Sprintf("%s /* global slot %d */", cGlobalRef(d.GlobalIndex), d.GlobalIndex)
	case *ast.TopLevelFunc:
		return cGlobalRef(d.GlobalIndex)
	case *ast.Param:
		return "_param_" + n.Ident
	case ast.BuiltinRef:
		return d.CName
	default:
		// A local declared with `local` inside a function body, or the
		// synthetic loop-control variable installed by checkFor.
		return "_local_" + n.Ident
	}
}

func cGlobalRef(idx int) string {
	return fmt.Sprintf("_globals->array[%d].value_", idx)
}

// cGlobalSlot is cGlobalRef's TValue* counterpart, the form setMacro's
// setivalue/setfltvalue/etc. helpers expect (they write through a slot
// pointer, matching how emitInit stores a constant initializer via
// luaH_setint's returned TValue*).
func cGlobalSlot(idx int) string {
	return fmt.Sprintf("&_globals->array[%d]", idx)
}

func (c *Coder) emitUnop(buf *funcBuf, u *ast.Unop) string {
	operand := c.emitExpr(buf, u.Operand)
	switch u.Op {
	case ast.UnopNeg:
		return "(-(" + operand + "))"
	case ast.UnopNot:
		return "(!(" + operand + "))"
	case ast.UnopLen:
		return fmt.Sprintf("((lua_Integer)(%s)->sizearray)", operand)
	case ast.UnopBNot:
		return "(~(" + operand + "))"
	}
	return operand
}

var binopSymbol = map[ast.BinopKind]string{
	ast.BinopAdd:  "+",
	ast.BinopSub:  "-",
	ast.BinopMul:  "*",
	ast.BinopBAnd: "&",
	ast.BinopBOr:  "|",
	ast.BinopBXor: "^",
	ast.BinopShl:  "<<",
	ast.BinopShr:  ">>",
	ast.BinopEq:   "==",
	ast.BinopNe:   "!=",
	ast.BinopLt:   "<",
	ast.BinopGt:   ">",
	ast.BinopLe:   "<=",
	ast.BinopGe:   ">=",
	ast.BinopAnd:  "&&",
	ast.BinopOr:   "||",
}

func (c *Coder) emitBinop(buf *funcBuf, b *ast.Binop) string {
	left := c.emitExpr(buf, b.Left)
	right := c.emitExpr(buf, b.Right)
	switch b.Op {
	case ast.BinopDiv:
		return fmt.Sprintf("(((lua_Number)(%s))/((lua_Number)(%s)))", left, right)
	case ast.BinopIDiv:
		return fmt.Sprintf("(lua_Integer)floor((double)(%s)/(double)(%s))", left, right)
	case ast.BinopMod:
		return fmt.Sprintf("(%s - floor((double)(%s)/(double)(%s))*(%s))", left, left, right, right)
	case ast.BinopPow:
		return fmt.Sprintf("pow((double)(%s), (double)(%s))", left, right)
	}
	sym, ok := binopSymbol[b.Op]
	if !ok {
		sym = "+"
	}
	return fmt.Sprintf("(%s %s %s)", left, sym, right)
}

// emitConcat packs every operand's text and length, matching §4.6's "sum
// lengths; if the total fits a short-string threshold, pack into a stack
// buffer and intern; otherwise allocate a long string and copy in order".
// Emitted here as a runtime helper call, since the packing/threshold
// decision genuinely belongs at runtime once operand lengths are known.
func (c *Coder) emitConcat(buf *funcBuf, cc *ast.Concat) string {
	parts := make([]string, len(cc.Operands))
	for i, op := range cc.Operands {
		parts[i] = c.emitExpr(buf, op)
	}
	tmp := c.freshLocal("concat")
	fmt.Fprintf(buf.body, "\tTString *%s = titan_concat(L, %d", tmp, len(parts))
	for _, p := range parts {
		fmt.Fprintf(buf.body, ", %s", p)
	}
	fmt.Fprintf(buf.body, ");\n")
	return tmp
}

func (c *Coder) emitCall(buf *funcBuf, call *ast.Call) string {
	args := make([]string, len(call.Args))
	for i, a := range call.Args {
		args[i] = c.emitExpr(buf, a)
	}
	callee := c.emitCallee(buf, call.Callee)
	return fmt.Sprintf("%s(L%s)", callee, prependComma(args))
}

func (c *Coder) emitCallee(buf *funcBuf, e ast.Expr) string {
	if v, ok := e.(*ast.VarExpr); ok {
		if n, ok := v.V.(*ast.Name); ok {
			switch d := n.Decl.(type) {
			case *ast.TopLevelFunc:
				return nativeName(c.Module, d)
			case ast.BuiltinRef:
				return d.CName
			}
		}
		if d, ok := v.V.(*ast.Dot); ok {
			if base, ok := d.Base.(*ast.VarExpr); ok {
				if bn, ok := base.V.(*ast.Name); ok {
					if imp, ok := bn.Decl.(*ast.Import); ok {
						if ft, ok := d.Type().(*types.Function); ok {
							return c.emitImportedCallee(imp, d.Field, ft)
						}
					}
				}
			}
		}
	}
	return c.emitExpr(buf, e)
}

func prependComma(args []string) string {
	if len(args) == 0 {
		return ""
	}
	out := ""
	for _, a := range args {
		out += ", " + a
	}
	return out
}

// emitCast implements §4.6's "Coercion emission" paragraph.
func (c *Coder) emitCast(buf *funcBuf, cast *ast.Cast) string {
	operand := c.emitExpr(buf, cast.Operand)
	return emitCoercion(operand, cast)
}

func (c *Coder) emitInitList(buf *funcBuf, l *ast.InitList) string {
	tmp := c.freshLocal("initlist")
	if len(l.Fields) > 0 {
		fmt.Fprintf(buf.body, "\tCClosure *%s = titan_record_new(L, %d);\n", tmp, len(l.Fields))
		for _, f := range l.Fields {
			v := c.emitExpr(buf, f.Value)
			fmt.Fprintf(buf.body, "\ttitan_record_setfield(L, %s, %s, %s);\n", tmp, cLiteral(f.Name), v)
		}
		return tmp
	}
	fmt.Fprintf(buf.body, "\tTable *%s = luaH_new(L);\n", tmp)
	for i, p := range l.Positional {
		v := c.emitExpr(buf, p)
		fmt.Fprintf(buf.body, "\ttitan_array_set(L, %s, %d, %s);\n", tmp, i, v)
	}
	return tmp
}
