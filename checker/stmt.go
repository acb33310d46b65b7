package checker

import (
	"titan/ast"
	"titan/fold"
	"titan/types"
)

// pass2 checks function bodies and module-variable initializers (§4.4
// "pass 2"), now that every top-level name and record shape is visible.
func (c *Checker) pass2(items []ast.TopLevel) {
	for _, item := range items {
		switch it := item.(type) {
		case *ast.TopLevelVar:
			c.checkTopLevelVar(it)
		case *ast.TopLevelFunc:
			if !it.Synthetic {
				c.checkTopLevelFunc(it)
			}
		}
	}
}

func (c *Checker) checkTopLevelVar(it *ast.TopLevelVar) {
	if !fold.IsConstantFoldable(it.Value) {
		c.errorf(it.Value.Pos(), NotConstant, "top-level variable initializer must be constant-foldable")
	}
	want := it.ResolvedType
	vt := c.checkExpr(it.Value, want)
	if want == nil {
		it.ResolvedType = vt
		return
	}
	it.Value = c.coerce(it.Value, vt, want, it.Value.Pos())
}

func (c *Checker) checkTopLevelFunc(it *ast.TopLevelFunc) {
	c.sym.Open()
	for i := range it.Params {
		c.sym.Add(it.Params[i].Name, &it.Params[i])
	}
	c.currentRets = funcRets(it.ResolvedType)
	c.checkBlock(it.Body)
	c.sym.Close()

	it.AlwaysReturns = it.Body.AlwaysReturns()
	if len(c.currentRets) > 0 && !it.AlwaysReturns {
		c.errorf(it.Pos(), MissingReturn, "function %s does not return on every path", it.FuncName)
	}
}

func funcRets(t types.Type) []types.Type {
	if fn, ok := t.(*types.Function); ok {
		return fn.Rets
	}
	return nil
}

// checkBlock opens no scope of its own (callers that need one, like a
// function body or a loop body, open/close around the call) and computes
// AlwaysReturns as "some contained statement always returns" (§4.4's exact
// wording), not merely "the last one does".
func (c *Checker) checkBlock(b *ast.Block) {
	always := false
	for _, s := range b.Stmts {
		c.checkStmt(s)
		if s.AlwaysReturns() {
			always = true
		}
	}
	b.SetAlwaysReturns(always)
}

func (c *Checker) checkStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		c.sym.Open()
		c.checkBlock(s)
		c.sym.Close()
	case *ast.While:
		c.checkExpr(s.Cond, types.Boolean{})
		c.sym.Open()
		c.checkBlock(s.Body)
		c.sym.Close()
		s.SetAlwaysReturns(false)
	case *ast.Repeat:
		c.sym.Open()
		c.checkBlock(s.Body)
		c.checkExpr(s.Cond, types.Boolean{})
		c.sym.Close()
		s.SetAlwaysReturns(false)
	case *ast.If:
		c.checkIf(s)
	case *ast.For:
		c.checkFor(s)
	case *ast.Decl:
		c.checkDecl(s)
	case *ast.Assign:
		c.checkAssign(s)
	case *ast.CallStmt:
		c.checkCall(s.Call)
		s.SetAlwaysReturns(false)
	case *ast.Return:
		c.checkReturn(s)
	}
}

func (c *Checker) checkIf(s *ast.If) {
	c.checkExpr(s.Cond, types.Boolean{})
	c.sym.Open()
	c.checkBlock(s.Then)
	c.sym.Close()
	always := s.Then.AlwaysReturns()
	for i := range s.ElseIfs {
		c.checkExpr(s.ElseIfs[i].Cond, types.Boolean{})
		c.sym.Open()
		c.checkBlock(s.ElseIfs[i].Body)
		c.sym.Close()
		always = always && s.ElseIfs[i].Body.AlwaysReturns()
	}
	if s.Else != nil {
		c.sym.Open()
		c.checkBlock(s.Else)
		c.sym.Close()
		always = always && s.Else.AlwaysReturns()
	} else {
		always = false
	}
	s.SetAlwaysReturns(always)
}

// checkFor is the integer numeric for loop (§4.6): Start/End/Step must all
// be Integer or all Float (mixed is coerced to Float); the checker folds
// Step when possible so the coder can decide comparison orientation. When
// no step was written, Step is the integer literal 1 the parser supplied,
// coerced here to the loop type like the other bounds.
func (c *Checker) checkFor(s *ast.For) {
	startT := c.checkExpr(s.Start, nil)
	endT := c.checkExpr(s.End, nil)
	stepT := c.checkExpr(s.Step, nil)

	loopType := types.Type(types.Integer{})
	if _, sf := startT.(types.Float); sf {
		loopType = types.Float{}
	}
	if _, ef := endT.(types.Float); ef {
		loopType = types.Float{}
	}
	if _, kf := stepT.(types.Float); kf {
		loopType = types.Float{}
	}
	s.Start = c.coerce(s.Start, startT, loopType, s.Start.Pos())
	s.End = c.coerce(s.End, endT, loopType, s.End.Pos())
	s.Step = c.coerce(s.Step, stepT, loopType, s.Step.Pos())
	s.ResolvedType = loopType

	if n, ok := fold.Number(s.Step); ok {
		s.StepFolded = n
	}

	c.sym.Open()
	decl := &ast.Decl{Pos_: s.Pos(), Names: []string{s.VarName}, ResolvedTypes: []types.Type{loopType}}
	c.sym.Add(s.VarName, localDecl{Decl: decl, Index: 0})
	c.checkBlock(s.Body)
	c.sym.Close()
	s.SetAlwaysReturns(false)
}

func (c *Checker) checkDecl(d *ast.Decl) {
	hints := make([]types.Type, len(d.Names))
	for i, ts := range d.Types {
		if ts != nil {
			hints[i] = c.resolveType(ts)
		}
	}
	values, valueTypes := c.checkExprList(d.Values, hints)
	d.Values = values

	d.ResolvedTypes = make([]types.Type, len(d.Names))
	d.Casts = make([]*ast.CastInsertion, len(d.Names))
	for i := range d.Names {
		want := types.Type(nil)
		if i < len(hints) {
			want = hints[i]
		}
		var got types.Type = types.Nil{}
		if i < len(valueTypes) {
			got = valueTypes[i]
		}
		if want == nil {
			want = got
		} else if i < len(d.Values) {
			before := got
			d.Values[i] = c.coerce(d.Values[i], got, want, d.Values[i].Pos())
			if !types.Equal(before, want) {
				d.Casts[i] = &ast.CastInsertion{From: before, To: want}
			}
		}
		d.ResolvedTypes[i] = want
		c.sym.Add(d.Names[i], localDecl{Decl: d, Index: i})
	}
	d.SetAlwaysReturns(false)
}

func (c *Checker) checkAssign(a *ast.Assign) {
	hints := make([]types.Type, len(a.Targets))
	for i, t := range a.Targets {
		hints[i] = c.checkVar(t)
		if fn, ok := isToplevelFunc(t); ok {
			c.errorf(a.Pos(), AssignToFunction, "attempting to assign to toplevel constant function %s", fn)
		}
	}
	values, valueTypes := c.checkExprList(a.Values, hints)
	a.Values = values
	a.ResolvedTypes = valueTypes

	for i, target := range a.Targets {
		if i >= len(a.Values) {
			continue
		}
		want := hints[i]
		got := valueTypes[i]
		if br, isBracket := target.(*ast.Bracket); isBracket {
			if _, isNilExpr := a.Values[i].(*ast.NilExpr); isNilExpr {
				_ = br
				continue // §4.4: assigning nil to an array slot deletes it, always legal
			}
		}
		a.Values[i] = c.coerce(a.Values[i], got, want, a.Values[i].Pos())
	}
	a.SetAlwaysReturns(false)
}

func isToplevelFunc(v ast.Var) (string, bool) {
	n, ok := v.(*ast.Name)
	if !ok {
		return "", false
	}
	f, ok := n.Decl.(*ast.TopLevelFunc)
	if !ok {
		return "", false
	}
	return f.FuncName, true
}

func (c *Checker) checkReturn(r *ast.Return) {
	values, valueTypes := c.checkExprList(r.Values, c.currentRets)
	r.Values = values
	r.ResolvedTypes = valueTypes
	if len(valueTypes) != len(c.currentRets) {
		c.errorf(r.Pos(), ArityMismatch, "return has %d value(s), function declares %d", len(valueTypes), len(c.currentRets))
	} else {
		for i := range valueTypes {
			r.Values[i] = c.coerce(r.Values[i], valueTypes[i], c.currentRets[i], r.Pos())
		}
	}
	r.SetAlwaysReturns(true)
}
