package parser

import (
	"titan/ast"
	"titan/titanerr"
	"titan/token"
)

// parseType parses a single type-syntax term (§6.3): a scalar/record name,
// a qualified `Mod.Rec` name, an array `{T}`, a function type
// `(T, T) -> (U, U)`, or any of those followed by `?` for Option.
func (p *Parser) parseType() (ast.TypeSyntax, error) {
	base, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}
	for p.check(token.QMARK) {
		qpos := p.advance().Pos
		base = &ast.TypeOption{Pos_: qpos, Base: base}
	}
	return base, nil
}

func (p *Parser) parseBaseType() (ast.TypeSyntax, error) {
	switch p.next().Kind {
	case token.NAME:
		name := p.advance()
		if p.check(token.DOT) {
			p.advance()
			member, err := p.match(token.NAME, ExpType)
			if err != nil {
				return nil, err
			}
			return &ast.TypeQualName{Pos_: name.Pos, Module: name.StrValue, Name: member.StrValue}, nil
		}
		return &ast.TypeName{Pos_: name.Pos, Name: name.StrValue}, nil
	case token.LBRACE:
		pos := p.advance().Pos
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(token.RBRACE, RBracketArray); err != nil {
			return nil, err
		}
		return &ast.TypeArray{Pos_: pos, Elem: elem}, nil
	case token.LPAREN:
		pos := p.advance().Pos
		var params []ast.TypeSyntax
		if !p.check(token.RPAREN) {
			var err error
			params, err = p.parseTypeList()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.match(token.RPAREN, RParType); err != nil {
			return nil, err
		}
		if _, err := p.match(token.ARROW, ArrowFunType); err != nil {
			return nil, err
		}
		rets, err := p.parseFuncRetTypes()
		if err != nil {
			return nil, err
		}
		return &ast.TypeFunction{Pos_: pos, Params: params, Rets: rets}, nil
	}
	return nil, titanerr.NewLabeled(p.next().Pos, ExpType, "expected a type, but got %s", p.next().Kind)
}

// parseFuncRetTypes parses the return-type side of a function type: either
// a single bare type or a parenthesized list.
func (p *Parser) parseFuncRetTypes() ([]ast.TypeSyntax, error) {
	if p.check(token.LPAREN) {
		p.advance()
		rets, err := p.parseTypeList()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(token.RPAREN, RParType); err != nil {
			return nil, err
		}
		return rets, nil
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return []ast.TypeSyntax{t}, nil
}

func (p *Parser) parseTypeList() ([]ast.TypeSyntax, error) {
	var types []ast.TypeSyntax
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	types = append(types, t)
	for p.check(token.COMMA) {
		p.advance()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}
