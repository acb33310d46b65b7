package upvalues

import "titan/ast"

// walkBlock and walkExpr are a minimal, checker-independent AST walk: they
// visit every Expr node reachable from a function body or initializer,
// calling visit on each. They do not need to walk into nested VarExpr.V's
// Dot/Bracket structure any further than their own Base/Index/Callee
// subexpressions, since only bare Name references resolve to a global
// slot (§4.5) and only *ast.StringExpr nodes intern a literal.
func walkBlock(b *ast.Block, visit func(ast.Expr)) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		walkStmt(s, visit)
	}
}

func walkStmt(s ast.Stmt, visit func(ast.Expr)) {
	switch s := s.(type) {
	case *ast.Block:
		walkBlock(s, visit)
	case *ast.While:
		walkExpr(s.Cond, visit)
		walkBlock(s.Body, visit)
	case *ast.Repeat:
		walkBlock(s.Body, visit)
		walkExpr(s.Cond, visit)
	case *ast.If:
		walkExpr(s.Cond, visit)
		walkBlock(s.Then, visit)
		for _, ei := range s.ElseIfs {
			walkExpr(ei.Cond, visit)
			walkBlock(ei.Body, visit)
		}
		walkBlock(s.Else, visit)
	case *ast.For:
		walkExpr(s.Start, visit)
		walkExpr(s.End, visit)
		walkExpr(s.Step, visit)
		walkBlock(s.Body, visit)
	case *ast.Decl:
		for _, v := range s.Values {
			walkExpr(v, visit)
		}
	case *ast.Assign:
		for _, t := range s.Targets {
			walkVar(t, visit)
		}
		for _, v := range s.Values {
			walkExpr(v, visit)
		}
	case *ast.CallStmt:
		walkExpr(s.Call, visit)
	case *ast.Return:
		for _, v := range s.Values {
			walkExpr(v, visit)
		}
	}
}

func walkVar(v ast.Var, visit func(ast.Expr)) {
	switch v := v.(type) {
	case *ast.Name:
		// Handled by the caller's VarExpr wrapper; nothing further to walk.
		_ = v
	case *ast.Dot:
		walkExpr(v.Base, visit)
	case *ast.Bracket:
		walkExpr(v.Base, visit)
		walkExpr(v.Index, visit)
	}
}

func walkExpr(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch e := e.(type) {
	case *ast.VarExpr:
		walkVar(e.V, visit)
	case *ast.InitList:
		for _, p := range e.Positional {
			walkExpr(p, visit)
		}
		for _, f := range e.Fields {
			walkExpr(f.Value, visit)
		}
	case *ast.Unop:
		walkExpr(e.Operand, visit)
	case *ast.Binop:
		walkExpr(e.Left, visit)
		walkExpr(e.Right, visit)
	case *ast.Concat:
		for _, o := range e.Operands {
			walkExpr(o, visit)
		}
	case *ast.Call:
		walkExpr(e.Callee, visit)
		for _, a := range e.Args {
			walkExpr(a, visit)
		}
	case *ast.Cast:
		walkExpr(e.Operand, visit)
	case *ast.Adjust:
		walkExpr(e.Operand, visit)
	case *ast.Extra:
		walkExpr(e.Operand, visit)
	}
}
