package checker

import (
	"titan/ast"
	"titan/types"
)

// checkExpr type-checks e, annotating it (and every subnode) with its
// resolved type via Expr.SetType, and returns that type. hint carries a
// context type for the nodes that need one (§4.4: init lists, nil).
func (c *Checker) checkExpr(e ast.Expr, hint types.Type) types.Type {
	t := c.checkExprInner(e, hint)
	e.SetType(t)
	return t
}

func (c *Checker) checkExprInner(e ast.Expr, hint types.Type) types.Type {
	switch e := e.(type) {
	case *ast.NilExpr:
		if opt, ok := hint.(*types.Option); ok {
			return opt
		}
		return types.Nil{}
	case *ast.BoolExpr:
		return types.Boolean{}
	case *ast.IntExpr:
		return types.Integer{}
	case *ast.FloatExpr:
		return types.Float{}
	case *ast.StringExpr:
		return types.String{}
	case *ast.InitList:
		return c.checkInitList(e, hint)
	case *ast.VarExpr:
		return c.checkVar(e.V)
	case *ast.Unop:
		return c.checkUnop(e)
	case *ast.Binop:
		return c.checkBinop(e)
	case *ast.Concat:
		return c.checkConcat(e)
	case *ast.Call:
		return c.checkCall(e)
	case *ast.Cast:
		return c.checkCast(e)
	case *ast.Adjust:
		return c.checkExpr(e.Operand, nil)
	case *ast.Extra:
		return c.checkExpr(e.Operand, nil)
	}
	return invalid()
}

func (c *Checker) checkVar(v ast.Var) types.Type {
	t := c.checkVarInner(v)
	v.SetType(t)
	return t
}

func (c *Checker) checkVarInner(v ast.Var) types.Type {
	switch v := v.(type) {
	case *ast.Name:
		return c.checkName(v)
	case *ast.Dot:
		return c.checkDot(v)
	case *ast.Bracket:
		return c.checkBracket(v)
	}
	return invalid()
}

func (c *Checker) checkName(n *ast.Name) types.Type {
	d, ok := c.sym.Find(n.Ident)
	if !ok {
		c.errorf(n.Pos(), Undefined, "undefined name %q", n.Ident)
		return invalid()
	}
	switch d := d.(type) {
	case builtin:
		n.Decl = ast.BuiltinRef{CName: "titan_" + d.Name}
		return d.Typ
	case *ast.TopLevelVar:
		n.Decl = d
		return d.ResolvedType
	case *ast.TopLevelFunc:
		n.Decl = d
		return d.ResolvedType
	case *ast.TopLevelRecord:
		n.Decl = d
		return &types.TypeOf{Wrapped: d.ResolvedType}
	case *ast.Import:
		n.Decl = d
		return c.imports[d.Alias]
	case *ast.ForeignImport:
		n.Decl = d
		return c.imports[d.Alias]
	case *ast.Param:
		n.Decl = d
		return d.ResolvedType
	case localDecl:
		n.Decl = d
		if d.Decl.ResolvedTypes == nil || d.Index >= len(d.Decl.ResolvedTypes) {
			return invalid()
		}
		return d.Decl.ResolvedTypes[d.Index]
	}
	return invalid()
}

func (c *Checker) checkDot(d *ast.Dot) types.Type {
	baseType := c.checkExpr(d.Base, nil)
	switch bt := baseType.(type) {
	case *types.Module:
		if mt, ok := bt.Members[d.Field]; ok {
			return mt
		}
		c.errorf(d.Pos(), UnknownField, "module %s has no member %q", bt.ModName, d.Field)
		return invalid()
	case *types.ForeignModule:
		c.errorf(d.Pos(), UnknownField, "foreign module %s has no member %q", bt.ModName, d.Field)
		return invalid()
	case *types.TypeOf:
		fqtn := types.FQTNOf(bt.Wrapped)
		if fqtn == "" {
			c.errorf(d.Pos(), NotIndexable, "cannot access member %q of a non-record type", d.Field)
			return invalid()
		}
		if d.Field == "new" {
			if ctor, ok := c.ctors[fqtn]; ok {
				return ctor.ResolvedType
			}
		}
		c.errorf(d.Pos(), UnknownField, "record %s has no static member %q", fqtn, d.Field)
		return invalid()
	case types.Nominal:
		return c.checkRecordField(d, bt.FQTN)
	case *types.Record:
		return c.checkRecordField(d, bt.FQTN)
	case types.Invalid:
		return invalid()
	}
	c.errorf(d.Pos(), NotIndexable, "%s is not a record or module", typeName(baseType))
	return invalid()
}

func (c *Checker) checkRecordField(d *ast.Dot, fqtn string) types.Type {
	rec := c.Registry.Lookup(fqtn)
	if rec == nil {
		c.errorf(d.Pos(), UnknownType, "unresolved record %s", fqtn)
		return invalid()
	}
	for _, f := range rec.Fields {
		if f.Name == d.Field {
			return f.Type
		}
	}
	c.errorf(d.Pos(), UnknownField, "record %s has no field %q", fqtn, d.Field)
	return invalid()
}

func (c *Checker) checkBracket(b *ast.Bracket) types.Type {
	baseType := c.checkExpr(b.Base, nil)
	arr, ok := baseType.(*types.Array)
	if !ok {
		if _, isInvalid := baseType.(types.Invalid); !isInvalid {
			c.errorf(b.Pos(), NotAnArray, "%s is not an array", typeName(baseType))
		}
		c.checkExpr(b.Index, types.Integer{})
		return invalid()
	}
	idxType := c.checkExpr(b.Index, types.Integer{})
	if !types.Equal(idxType, types.Integer{}) {
		if canCoerce(idxType, types.Integer{}) {
			b.IndexCast = &ast.CastInsertion{From: idxType, To: types.Integer{}}
		} else {
			c.errorf(b.Index.Pos(), TypeMismatch, "array index must be integer, got %s", typeName(idxType))
		}
	}
	return arr.Elem
}

// checkInitList handles `{ ... }` (§4.4): an all-positional list needs an
// Array or Record type hint whose element/field types then check each
// entry; an all-named list needs a Record hint whose field set it must
// match exactly.
func (c *Checker) checkInitList(l *ast.InitList, hint types.Type) types.Type {
	if len(l.Positional) > 0 && len(l.Fields) > 0 {
		c.errorf(l.Pos(), BadInitFields, "initializer list cannot mix positional and named fields")
		return invalid()
	}
	if hint == nil {
		c.errorf(l.Pos(), NoTypeHint, "initializer list requires a type hint from context")
		return invalid()
	}
	if len(l.Fields) > 0 {
		return c.checkRecordInit(l, hint)
	}
	arr, ok := hint.(*types.Array)
	if !ok {
		c.errorf(l.Pos(), NoTypeHint, "positional initializer list requires an array type hint, got %s", typeName(hint))
		return invalid()
	}
	for i := range l.Positional {
		et := c.checkExpr(l.Positional[i], arr.Elem)
		l.Positional[i] = c.coerce(l.Positional[i], et, arr.Elem, l.Positional[i].Pos())
	}
	return arr
}

func (c *Checker) checkRecordInit(l *ast.InitList, hint types.Type) types.Type {
	fqtn := types.FQTNOf(hint)
	if fqtn == "" {
		c.errorf(l.Pos(), NoTypeHint, "named initializer list requires a record type hint, got %s", typeName(hint))
		return invalid()
	}
	rec := c.Registry.Lookup(fqtn)
	if rec == nil {
		c.errorf(l.Pos(), UnknownType, "unresolved record %s", fqtn)
		return invalid()
	}
	seen := make(map[string]bool)
	fieldType := func(name string) (types.Type, bool) {
		for _, f := range rec.Fields {
			if f.Name == name {
				return f.Type, true
			}
		}
		return nil, false
	}
	for i, fld := range l.Fields {
		ft, ok := fieldType(fld.Name)
		if !ok {
			c.errorf(fld.Pos_, UnknownField, "record %s has no field %q", fqtn, fld.Name)
			continue
		}
		if seen[fld.Name] {
			c.errorf(fld.Pos_, DupName, "duplicate field %q in initializer", fld.Name)
			continue
		}
		seen[fld.Name] = true
		vt := c.checkExpr(fld.Value, ft)
		l.Fields[i].Value = c.coerce(fld.Value, vt, ft, fld.Value.Pos())
	}
	for _, f := range rec.Fields {
		if !seen[f.Name] {
			c.errorf(l.Pos(), MissingField, "missing field %q in initializer for %s", f.Name, fqtn)
		}
	}
	return types.Nominal{FQTN: fqtn}
}
