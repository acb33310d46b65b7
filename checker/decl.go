package checker

import (
	"titan/ast"
	"titan/types"
)

// pass1 collects top-level declarations and their types (§4.4 "pass 1"):
// duplicate detection, import resolution, record shape registration, and
// installing a symbol for every top-level value before any body is
// checked (so mutual recursion between top-level functions works).
func (c *Checker) pass1(items []ast.TopLevel) {
	c.declareRecords(items)
	for _, item := range items {
		switch it := item.(type) {
		case *ast.Import:
			c.declareImport(it)
		case *ast.ForeignImport:
			c.declareForeignImport(it)
		case *ast.TopLevelVar:
			c.declareVar(it)
		case *ast.TopLevelFunc:
			c.declareFunc(it)
		}
	}
}

func (c *Checker) declareImport(it *ast.Import) {
	if _, dup := c.sym.FindDup(it.Alias); dup {
		c.errorf(it.Pos(), DupName, "duplicate top-level name %q", it.Alias)
		return
	}
	if c.Loader == nil {
		c.errorf(it.Pos(), UnknownModule, "no loader configured to resolve import %q", it.Module)
		c.sym.Add(it.Alias, it)
		return
	}
	mod, err := c.Loader.Load(it.Module)
	if err != nil {
		c.errorf(it.Pos(), CircularImport, "%s", err.Error())
		c.sym.Add(it.Alias, it)
		return
	}
	c.imports[it.Alias] = mod
	c.sym.Add(it.Alias, it)
}

func (c *Checker) declareForeignImport(it *ast.ForeignImport) {
	if _, dup := c.sym.FindDup(it.Alias); dup {
		c.errorf(it.Pos(), DupName, "duplicate top-level name %q", it.Alias)
		return
	}
	fm := &types.ForeignModule{ModName: it.Alias, Members: map[string]types.Type{}}
	c.imports[it.Alias] = fm
	c.sym.Add(it.Alias, it)
}

// declareRecords runs a two-stage sub-pass so mutually recursive records
// (§9: "store records in a table keyed by fqtn... resolve at use sites")
// typecheck: first every record gets an empty placeholder registered under
// its fqtn, then field types are resolved once every name in the module is
// visible.
func (c *Checker) declareRecords(items []ast.TopLevel) {
	var records []*ast.TopLevelRecord
	for _, item := range items {
		rec, ok := item.(*ast.TopLevelRecord)
		if !ok {
			continue
		}
		if _, dup := c.sym.FindDup(rec.RecName); dup {
			c.errorf(rec.Pos(), DupName, "duplicate top-level name %q", rec.RecName)
			continue
		}
		fqtn := types.FQTN(c.Module, rec.RecName)
		placeholder := &types.Record{FQTN: fqtn}
		c.Registry.Define(fqtn, placeholder)
		rec.ResolvedType = types.Nominal{FQTN: fqtn}
		c.sym.Add(rec.RecName, rec)
		records = append(records, rec)
	}
	for _, rec := range records {
		seen := make(map[string]bool)
		fields := make([]types.Field, 0, len(rec.Fields))
		for _, f := range rec.Fields {
			if seen[f.Name] {
				c.errorf(f.Pos(), DupName, "duplicate field %q in record %s", f.Name, rec.RecName)
				continue
			}
			seen[f.Name] = true
			fields = append(fields, types.Field{Name: f.Name, Type: c.resolveType(f.Type)})
		}
		fqtn := types.FQTN(c.Module, rec.RecName)
		c.Registry.Define(fqtn, &types.Record{FQTN: fqtn, Fields: fields})
	}
}

func (c *Checker) declareVar(it *ast.TopLevelVar) {
	if _, dup := c.sym.FindDup(it.VarName); dup {
		c.errorf(it.Pos(), DupName, "duplicate top-level name %q", it.VarName)
		return
	}
	// The initializer must be constant-foldable (§6.3); pass 2 checks the
	// value expression and confirms foldability, but the declared type (if
	// present) can be resolved now so forward references from functions
	// that read this global see the right type even before pass 2 visits
	// the initializer.
	if it.DeclaredType != nil {
		it.ResolvedType = c.resolveType(it.DeclaredType)
	}
	c.sym.Add(it.VarName, it)
}

func (c *Checker) declareFunc(it *ast.TopLevelFunc) {
	params := make([]types.Type, len(it.Params))
	for i := range it.Params {
		it.Params[i].ResolvedType = c.resolveType(it.Params[i].Type)
		params[i] = it.Params[i].ResolvedType
	}
	rets := make([]types.Type, len(it.Rets))
	for i, r := range it.Rets {
		rets[i] = c.resolveType(r)
	}
	it.ResolvedType = &types.Function{Params: params, Rets: rets}

	if it.Synthetic {
		// The implicit record constructor is reached through `Rec.new(...)`
		// (checkDot), never through a bare name, so it is filed under the
		// record's fqtn rather than added to the symbol table.
		recName := it.FuncName[:len(it.FuncName)-len(".new")]
		fqtn := types.FQTN(c.Module, recName)
		c.ctors[fqtn] = it
		return
	}
	if _, dup := c.sym.FindDup(it.FuncName); dup {
		c.errorf(it.Pos(), DupName, "duplicate top-level name %q", it.FuncName)
		return
	}
	c.sym.Add(it.FuncName, it)
}
