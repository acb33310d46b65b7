package parser

import (
	"titan/ast"
	"titan/titanerr"
	"titan/token"
)

// parseExpr is the entry point into the precedence-climbing expression
// grammar of §4.2. Layering, from loosest to tightest:
//
//	or  and  comparisons  |  ~  &  << >>  ..  + -  * / // %  unary  ^  as
//
// `^` binds tighter than unary operators on its left but its right operand
// re-enters parseUnary, giving Lua's famous `-2^2 == -4`. `..` and `^` are
// both right-associative; `as` chains left-to-right but at the tightest
// level, per §4.2's note that a cast can itself be cast again.
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.OR) {
		pos := p.advance().Pos
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Binop{Pos_: pos, Op: ast.BinopOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.check(token.AND) {
		pos := p.advance().Pos
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.Binop{Pos_: pos, Op: ast.BinopAnd, Left: left, Right: right}
	}
	return left, nil
}

var comparisonOps = map[token.Kind]ast.BinopKind{
	token.EQ: ast.BinopEq, token.NE: ast.BinopNe,
	token.LT: ast.BinopLt, token.GT: ast.BinopGt,
	token.LE: ast.BinopLe, token.GE: ast.BinopGe,
}

// parseComparison is non-associative in Lua's grammar but Titan's §4.2
// table lists it as a single left-to-right precedence level; chaining
// (`a < b < c`) is left to the checker to reject if it ever type-mismatches,
// since nothing in the grammar itself forbids it.
func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseBOr()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.next().Kind]
		if !ok {
			return left, nil
		}
		pos := p.advance().Pos
		right, err := p.parseBOr()
		if err != nil {
			return nil, err
		}
		left = &ast.Binop{Pos_: pos, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseBOr() (ast.Expr, error) {
	left, err := p.parseBXor()
	if err != nil {
		return nil, err
	}
	for p.check(token.PIPE) {
		pos := p.advance().Pos
		right, err := p.parseBXor()
		if err != nil {
			return nil, err
		}
		left = &ast.Binop{Pos_: pos, Op: ast.BinopBOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseBXor() (ast.Expr, error) {
	left, err := p.parseBAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.TILDE) {
		pos := p.advance().Pos
		right, err := p.parseBAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Binop{Pos_: pos, Op: ast.BinopBXor, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseBAnd() (ast.Expr, error) {
	left, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for p.check(token.AMP) {
		pos := p.advance().Pos
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		left = &ast.Binop{Pos_: pos, Op: ast.BinopBAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseShift() (ast.Expr, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for p.check(token.LSHIFT) || p.check(token.RSHIFT) {
		op := ast.BinopShl
		if p.next().Kind == token.RSHIFT {
			op = ast.BinopShr
		}
		pos := p.advance().Pos
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = &ast.Binop{Pos_: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parseConcat flattens a right-associative `..` chain into a single
// ast.Concat node (§4.2, §4.4). The parser only shapes the tree: adjacent
// string-literal operands stay separate operands, and no later stage folds
// them.
func (p *Parser) parseConcat() (ast.Expr, error) {
	left, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}
	if !p.check(token.CONCAT) {
		return left, nil
	}
	pos := p.next().Pos
	operands := []ast.Expr{left}
	for p.check(token.CONCAT) {
		p.advance()
		right, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		operands = append(operands, right)
	}
	return &ast.Concat{Pos_: pos, Operands: operands}, nil
}

func (p *Parser) parseAddSub() (ast.Expr, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := ast.BinopAdd
		if p.next().Kind == token.MINUS {
			op = ast.BinopSub
		}
		pos := p.advance().Pos
		right, err := p.parseMulDiv()
		if err != nil {
			return nil, err
		}
		left = &ast.Binop{Pos_: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

var mulDivOps = map[token.Kind]ast.BinopKind{
	token.STAR: ast.BinopMul, token.SLASH: ast.BinopDiv,
	token.DSLASH: ast.BinopIDiv, token.PERCENT: ast.BinopMod,
}

func (p *Parser) parseMulDiv() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := mulDivOps[p.next().Kind]
		if !ok {
			return left, nil
		}
		pos := p.advance().Pos
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binop{Pos_: pos, Op: op, Left: left, Right: right}
	}
}

// parseUnary handles the four prefix operators. It recurses into itself so
// that stacked unaries (`not not x`, `- -x`) parse, then falls through to
// parsePow — the operator one level tighter, giving `^` higher precedence
// than unary minus on the RIGHT while unary minus still binds looser than
// `^` on the LEFT (`-2^2 == -(2^2)`).
func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.next().Kind {
	case token.NOT:
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unop{Pos_: pos, Op: ast.UnopNot, Operand: operand}, nil
	case token.MINUS:
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unop{Pos_: pos, Op: ast.UnopNeg, Operand: operand}, nil
	case token.HASH:
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unop{Pos_: pos, Op: ast.UnopLen, Operand: operand}, nil
	case token.TILDE:
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unop{Pos_: pos, Op: ast.UnopBNot, Operand: operand}, nil
	}
	return p.parsePow()
}

// parsePow is right-associative: the right operand climbs back through
// parseUnary (not parsePow), which is what lets a unary operator appear
// immediately after `^` (`2^-2`) while keeping `^` tighter than unary on
// its own left side.
func (p *Parser) parsePow() (ast.Expr, error) {
	left, err := p.parseCast()
	if err != nil {
		return nil, err
	}
	if !p.check(token.CARET) {
		return left, nil
	}
	pos := p.advance().Pos
	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.Binop{Pos_: pos, Op: ast.BinopPow, Left: left, Right: right}, nil
}

// parseCast consumes any number of trailing `as T` suffixes, left to right,
// at the tightest precedence level (§4.2: a cast result can itself be cast
// again).
func (p *Parser) parseCast() (ast.Expr, error) {
	e, err := p.parseSuffixedExpr()
	if err != nil {
		return nil, err
	}
	for p.check(token.AS) {
		pos := p.advance().Pos
		target, err := p.parseType()
		if err != nil {
			return nil, err
		}
		e = &ast.Cast{Pos_: pos, Operand: e, TargetSyntax: target}
	}
	return e, nil
}

// parseSuffixedExpr parses a primary expression followed by any number of
// `.field`, `[index]`, or `(args)` suffixes, left-associative.
func (p *Parser) parseSuffixedExpr() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.next().Kind {
		case token.DOT:
			p.advance()
			field, err := p.match(token.NAME, NameDot)
			if err != nil {
				return nil, err
			}
			e = &ast.VarExpr{Pos_: field.Pos, V: &ast.Dot{Pos_: field.Pos, Base: e, Field: field.StrValue}}
		case token.LBRACKET:
			pos := p.advance().Pos
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.match(token.RBRACKET, RBracketIndex); err != nil {
				return nil, err
			}
			e = &ast.VarExpr{Pos_: pos, V: &ast.Bracket{Pos_: pos, Base: e, Index: idx}}
		case token.LPAREN:
			pos := p.advance().Pos
			var args []ast.Expr
			if !p.check(token.RPAREN) {
				args, err = p.parseExprList()
				if err != nil {
					return nil, err
				}
			}
			if _, err := p.match(token.RPAREN, RParExpr); err != nil {
				return nil, err
			}
			e = &ast.Call{Pos_: pos, Callee: e, Args: args}
		default:
			return e, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	t := p.next()
	switch t.Kind {
	case token.NIL:
		p.advance()
		return &ast.NilExpr{Pos_: t.Pos}, nil
	case token.TRUE:
		p.advance()
		return &ast.BoolExpr{Pos_: t.Pos, Value: true}, nil
	case token.FALSE:
		p.advance()
		return &ast.BoolExpr{Pos_: t.Pos, Value: false}, nil
	case token.NUMBER_INT:
		p.advance()
		return &ast.IntExpr{Pos_: t.Pos, Value: t.IntValue}, nil
	case token.NUMBER_FLOAT:
		p.advance()
		return &ast.FloatExpr{Pos_: t.Pos, Value: t.FloatValue}, nil
	case token.STRINGLIT:
		p.advance()
		return &ast.StringExpr{Pos_: t.Pos, Value: t.StrValue}, nil
	case token.NAME:
		p.advance()
		return &ast.VarExpr{Pos_: t.Pos, V: &ast.Name{Pos_: t.Pos, Ident: t.StrValue}}, nil
	case token.LPAREN:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(token.RPAREN, RParExpr); err != nil {
			return nil, err
		}
		return e, nil
	case token.LBRACE:
		return p.parseInitList()
	}
	return nil, exprErr(p)
}

// parseInitList parses `{ ... }` (§3, §4.4): either all-positional (array
// literal) or all-named `name = expr` pairs (record literal). Mixing the
// two is not rejected here: the parser records both kinds of entry and the
// checker reports a mixed list (BadInitFields).
func (p *Parser) parseInitList() (ast.Expr, error) {
	pos := p.advance().Pos // '{'
	list := &ast.InitList{Pos_: pos}
	for !p.check(token.RBRACE) {
		if p.check(token.NAME) && p.peekIsAssignAfterName() {
			name := p.advance()
			p.advance() // '='
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			list.Fields = append(list.Fields, ast.InitField{Pos_: name.Pos, Name: name.StrValue, Value: val})
		} else {
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			list.Positional = append(list.Positional, val)
		}
		if p.check(token.COMMA) || p.check(token.SEMI) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.match(token.RBRACE, RBraceInit); err != nil {
		return nil, err
	}
	return list, nil
}

// peekIsAssignAfterName looks one token past the current NAME without
// consuming anything, to disambiguate `name = expr` from a bare expression
// starting with a name (e.g. `name.field` or `name[0]`) inside an init list.
func (p *Parser) peekIsAssignAfterName() bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}
	return p.toks[p.pos+1].Kind == token.ASSIGN
}

func exprErr(p *Parser) error {
	t := p.next()
	return titanerr.NewLabeled(t.Pos, ExpExpr, "expected an expression, but got %s", t.Kind)
}
