package prettyprint

import (
	"fmt"
	"strconv"
	"strings"

	"titan/ast"
)

var unopSyntax = map[ast.UnopKind]string{
	ast.UnopNeg:  "-",
	ast.UnopNot:  "not ",
	ast.UnopLen:  "#",
	ast.UnopBNot: "~",
}

var binopSyntax = map[ast.BinopKind]string{
	ast.BinopAdd: "+", ast.BinopSub: "-", ast.BinopMul: "*", ast.BinopDiv: "/",
	ast.BinopIDiv: "//", ast.BinopMod: "%", ast.BinopPow: "^",
	ast.BinopBAnd: "&", ast.BinopBOr: "|", ast.BinopBXor: "~",
	ast.BinopShl: "<<", ast.BinopShr: ">>",
	ast.BinopEq: "==", ast.BinopNe: "~=", ast.BinopLt: "<", ast.BinopGt: ">",
	ast.BinopLe: "<=", ast.BinopGe: ">=", ast.BinopAnd: "and", ast.BinopOr: "or",
}

// exprString renders e back to source. It unwraps the checker-only Adjust,
// Extra, and implicit-Cast wrappers so the printer produces the same text
// whether it is handed a freshly parsed AST or a fully checked one — a
// freshly parsed AST never contains those nodes to begin with, so this is
// a no-op on the printer's own round-trip input.
func exprString(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.NilExpr:
		return "nil"
	case *ast.BoolExpr:
		if e.Value {
			return "true"
		}
		return "false"
	case *ast.IntExpr:
		return strconv.FormatInt(e.Value, 10)
	case *ast.FloatExpr:
		return strconv.FormatFloat(e.Value, 'g', -1, 64)
	case *ast.StringExpr:
		return strconv.Quote(e.Value)
	case *ast.InitList:
		return initListString(e)
	case *ast.VarExpr:
		return varString(e.V)
	case *ast.Unop:
		return unopSyntax[e.Op] + wrapped(e.Operand)
	case *ast.Binop:
		return wrapped(e.Left) + " " + binopSyntax[e.Op] + " " + wrapped(e.Right)
	case *ast.Concat:
		parts := make([]string, len(e.Operands))
		for i, o := range e.Operands {
			parts[i] = wrapped(o)
		}
		return strings.Join(parts, " .. ")
	case *ast.Call:
		return callString(e)
	case *ast.Cast:
		if e.Implicit {
			return exprString(e.Operand)
		}
		return wrapped(e.Operand) + " as " + typeSyntax(e.TargetSyntax)
	case *ast.Adjust:
		return exprString(e.Operand)
	case *ast.Extra:
		return exprString(e.Operand)
	default:
		return fmt.Sprintf("<?%T>", e)
	}
}

// wrapped parenthesizes e when it needs disambiguation as a sub-expression
// of a looser-binding node. Wrapping unconditionally around every compound
// kind is always source-correct (parentheses don't add AST structure), so
// this trades a few redundant parens for never needing a precedence table
// on the printing side.
func wrapped(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Cast:
		if e.Implicit {
			return wrapped(e.Operand)
		}
		return "(" + exprString(e) + ")"
	case *ast.Adjust:
		return wrapped(e.Operand)
	case *ast.Extra:
		return wrapped(e.Operand)
	case *ast.Unop, *ast.Binop, *ast.Concat:
		return "(" + exprString(e) + ")"
	default:
		return exprString(e)
	}
}

func callString(c *ast.Call) string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = exprString(a)
	}
	return wrapped(c.Callee) + "(" + strings.Join(args, ", ") + ")"
}

func initListString(l *ast.InitList) string {
	if len(l.Fields) > 0 {
		parts := make([]string, len(l.Fields))
		for i, f := range l.Fields {
			parts[i] = f.Name + " = " + exprString(f.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	parts := make([]string, len(l.Positional))
	for i, e := range l.Positional {
		parts[i] = exprString(e)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func varString(v ast.Var) string {
	switch v := v.(type) {
	case *ast.Name:
		return v.Ident
	case *ast.Dot:
		return wrapped(v.Base) + "." + v.Field
	case *ast.Bracket:
		return wrapped(v.Base) + "[" + exprString(v.Index) + "]"
	default:
		return fmt.Sprintf("<?%T>", v)
	}
}

func exprListString(es []ast.Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = exprString(e)
	}
	return strings.Join(parts, ", ")
}
