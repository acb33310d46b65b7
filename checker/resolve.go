package checker

import (
	"titan/ast"
	"titan/titanerr"
	"titan/types"
)

// resolveType converts a parsed TypeSyntax into a checked types.Type,
// looking up record names against the registry and qualified names against
// an already-processed import. Any failure appends a diagnostic and
// returns types.Invalid{} so callers never need a second error path.
func (c *Checker) resolveType(ts ast.TypeSyntax) types.Type {
	if ts == nil {
		return invalid()
	}
	switch t := ts.(type) {
	case *ast.TypeName:
		return c.resolveTypeName(t)
	case *ast.TypeQualName:
		return c.resolveTypeQualName(t)
	case *ast.TypeArray:
		elem := c.resolveType(t.Elem)
		if _, isNil := elem.(types.Nil); isNil {
			c.errorf(t.Pos(), NilArrayElem, "array element type cannot be nil")
			return invalid()
		}
		return &types.Array{Elem: elem}
	case *ast.TypeFunction:
		params := make([]types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = c.resolveType(p)
		}
		rets := make([]types.Type, len(t.Rets))
		for i, r := range t.Rets {
			rets[i] = c.resolveType(r)
		}
		return &types.Function{Params: params, Rets: rets, Vararg: t.Vararg}
	case *ast.TypeOption:
		base := c.resolveType(t.Base)
		return &types.Option{Base: base}
	}
	c.errorf(ts.Pos(), UnknownType, "unrecognized type syntax")
	return invalid()
}

func (c *Checker) resolveTypeName(t *ast.TypeName) types.Type {
	switch t.Name {
	case "nil":
		return types.Nil{}
	case "boolean":
		return types.Boolean{}
	case "integer":
		return types.Integer{}
	case "float":
		return types.Float{}
	case "string":
		return types.String{}
	case "value":
		return types.Value{}
	}
	fqtn := types.FQTN(c.Module, t.Name)
	if c.Registry.Has(fqtn) {
		return types.Nominal{FQTN: fqtn}
	}
	if _, ok := c.sym.FindForeignType(t.Name); ok {
		return types.Nominal{FQTN: types.FQTN("<foreign>", t.Name)}
	}
	c.errorf(t.Pos(), UnknownType, "unknown type %q", t.Name)
	return invalid()
}

func (c *Checker) resolveTypeQualName(t *ast.TypeQualName) types.Type {
	modType, ok := c.lookupModule(t.Module, t.Pos())
	if !ok {
		return invalid()
	}
	fqtn := types.FQTN(modType.ModName, t.Name)
	if !c.Registry.Has(fqtn) {
		c.errorf(t.Pos(), UnknownType, "module %q has no type %q", t.Module, t.Name)
		return invalid()
	}
	return types.Nominal{FQTN: fqtn}
}

// lookupModule resolves an import alias to the imported module's type,
// reporting UnknownModule if the alias was never imported (or was a
// foreign import, which has no member namespace to qualify a type from).
func (c *Checker) lookupModule(alias string, pos titanerr.Pos) (*types.Module, bool) {
	d, ok := c.sym.Find(alias)
	if !ok {
		c.errorf(pos, UnknownModule, "unknown module %q", alias)
		return nil, false
	}
	imp, ok := d.(*ast.Import)
	if !ok {
		c.errorf(pos, UnknownModule, "%q is not an imported module", alias)
		return nil, false
	}
	mt, ok := c.imports[imp.Alias]
	if !ok {
		return nil, false
	}
	mod, ok := mt.(*types.Module)
	if !ok {
		c.errorf(pos, UnknownModule, "%q has no qualifiable member types", alias)
		return nil, false
	}
	return mod, true
}
