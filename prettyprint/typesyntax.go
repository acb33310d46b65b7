package prettyprint

import (
	"strings"

	"titan/ast"
)

// typeSyntax renders a type-syntax node back to §6.3 surface grammar.
func typeSyntax(t ast.TypeSyntax) string {
	switch t := t.(type) {
	case *ast.TypeName:
		return t.Name
	case *ast.TypeQualName:
		return t.Module + "." + t.Name
	case *ast.TypeArray:
		return "{" + typeSyntax(t.Elem) + "}"
	case *ast.TypeOption:
		return typeSyntax(t.Base) + "?"
	case *ast.TypeFunction:
		return typeFunctionSyntax(t)
	default:
		return "?"
	}
}

func typeFunctionSyntax(t *ast.TypeFunction) string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = typeSyntax(p)
	}
	if t.Vararg {
		params = append(params, "...")
	}
	var rets string
	switch len(t.Rets) {
	case 1:
		rets = typeSyntax(t.Rets[0])
	default:
		names := make([]string, len(t.Rets))
		for i, r := range t.Rets {
			names[i] = typeSyntax(r)
		}
		rets = "(" + strings.Join(names, ", ") + ")"
	}
	return "(" + strings.Join(params, ", ") + ") -> " + rets
}

// retTypeSyntax renders a TopLevelFunc/parseFuncTail return-type list the
// way the parser accepts it back: a single element prints bare, more than
// one needs the parenthesized list form.
func retTypeSyntax(rets []ast.TypeSyntax) string {
	if len(rets) == 0 {
		return ""
	}
	if len(rets) == 1 {
		return ": " + typeSyntax(rets[0])
	}
	names := make([]string, len(rets))
	for i, r := range rets {
		names[i] = typeSyntax(r)
	}
	return ": (" + strings.Join(names, ", ") + ")"
}
