package parser

import (
	"titan/ast"
	"titan/titanerr"
	"titan/token"
)

// parseBlockUntil parses statements until the next token is one of stop, or
// EOF (which the caller's subsequent match() call turns into a proper
// error naming what was actually expected).
func (p *Parser) parseBlockUntil(stop ...token.Kind) (*ast.Block, error) {
	pos := p.next().Pos
	var stmts []ast.Stmt
	for !p.atAny(stop) && !p.check(token.EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return &ast.Block{Pos_: pos, Stmts: stmts}, nil
}

func (p *Parser) atAny(kinds []token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.next().Kind {
	case token.DO:
		p.advance()
		b, err := p.parseBlockUntil(token.END)
		if err != nil {
			return nil, err
		}
		_, err = p.match(token.END, EndWhile)
		return b, err
	case token.WHILE:
		return p.parseWhile()
	case token.REPEAT:
		return p.parseRepeat()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.LOCAL:
		return p.parseLocalDecl()
	case token.RETURN:
		return p.parseReturn()
	}
	return p.parseAssignOrCall()
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	kw := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.match(token.DO, DoWhile); err != nil {
		return nil, err
	}
	body, err := p.parseBlockUntil(token.END)
	if err != nil {
		return nil, err
	}
	if _, err := p.match(token.END, EndWhile); err != nil {
		return nil, err
	}
	return &ast.While{Pos_: kw.Pos, Cond: cond, Body: body}, nil
}

func (p *Parser) parseRepeat() (ast.Stmt, error) {
	kw := p.advance()
	body, err := p.parseBlockUntil(token.UNTIL)
	if err != nil {
		return nil, err
	}
	if _, err := p.match(token.UNTIL, UntilRepeat); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Repeat{Pos_: kw.Pos, Body: body, Cond: cond}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	kw := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.match(token.THEN, ThenIf); err != nil {
		return nil, err
	}
	then, err := p.parseBlockUntil(token.ELSEIF, token.ELSE, token.END)
	if err != nil {
		return nil, err
	}
	node := &ast.If{Pos_: kw.Pos, Cond: cond, Then: then}
	for p.check(token.ELSEIF) {
		ekw := p.advance()
		econd, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(token.THEN, ThenIf); err != nil {
			return nil, err
		}
		ebody, err := p.parseBlockUntil(token.ELSEIF, token.ELSE, token.END)
		if err != nil {
			return nil, err
		}
		node.ElseIfs = append(node.ElseIfs, ast.ElseIf{Pos_: ekw.Pos, Cond: econd, Body: ebody})
	}
	if p.check(token.ELSE) {
		p.advance()
		elseBody, err := p.parseBlockUntil(token.END)
		if err != nil {
			return nil, err
		}
		node.Else = elseBody
	}
	if _, err := p.match(token.END, EndIf); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	kw := p.advance()
	name, err := p.match(token.NAME, NameFor)
	if err != nil {
		return nil, err
	}
	if _, err := p.match(token.ASSIGN, AssignFor); err != nil {
		return nil, err
	}
	start, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.match(token.COMMA, CommaFor); err != nil {
		return nil, err
	}
	end, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var step ast.Expr
	explicitStep := false
	if p.check(token.COMMA) {
		p.advance()
		explicitStep = true
		step, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	} else {
		// No step written: the parser supplies the integer literal 1 and
		// records the absence in ExplicitStep; the checker coerces it to
		// the control variable's type.
		step = &ast.IntExpr{Pos_: kw.Pos, Value: 1}
	}
	if _, err := p.match(token.DO, DoFor); err != nil {
		return nil, err
	}
	body, err := p.parseBlockUntil(token.END)
	if err != nil {
		return nil, err
	}
	if _, err := p.match(token.END, EndFor); err != nil {
		return nil, err
	}
	return &ast.For{
		Pos_: kw.Pos, VarName: name.StrValue, Start: start, End: end,
		Step: step, ExplicitStep: explicitStep, Body: body,
	}, nil
}

func (p *Parser) parseLocalDecl() (ast.Stmt, error) {
	kw := p.advance()
	var names []string
	var types []ast.TypeSyntax
	for {
		name, err := p.match(token.NAME, NameLocal)
		if err != nil {
			return nil, err
		}
		names = append(names, name.StrValue)
		var t ast.TypeSyntax
		if p.check(token.COLON) {
			p.advance()
			t, err = p.parseType()
			if err != nil {
				return nil, err
			}
		}
		types = append(types, t)
		if p.check(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.match(token.ASSIGN, AssignLocal); err != nil {
		return nil, err
	}
	values, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	return &ast.Decl{Pos_: kw.Pos, Names: names, Types: types, Values: values}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	kw := p.advance()
	if p.check(token.END) || p.check(token.EOF) || p.check(token.ELSE) || p.check(token.ELSEIF) || p.check(token.UNTIL) {
		return &ast.Return{Pos_: kw.Pos}, nil
	}
	values, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	return &ast.Return{Pos_: kw.Pos, Values: values}, nil
}

// parseAssignOrCall parses either a bare call statement or an assignment,
// disambiguated the way the grammar always does: parse a suffixed
// expression, then check for '=' or ','.
func (p *Parser) parseAssignOrCall() (ast.Stmt, error) {
	first, err := p.parseSuffixedExpr()
	if err != nil {
		return nil, err
	}
	if call, ok := first.(*ast.Call); ok && !p.check(token.ASSIGN) && !p.check(token.COMMA) {
		return &ast.CallStmt{Pos_: call.Pos(), Call: call}, nil
	}
	targets := []ast.Var{exprToVar(first)}
	if targets[0] == nil {
		return nil, titanerr.New(first.Pos(), "syntax error: cannot assign to this expression")
	}
	for p.check(token.COMMA) {
		p.advance()
		next, err := p.parseSuffixedExpr()
		if err != nil {
			return nil, err
		}
		v := exprToVar(next)
		if v == nil {
			return nil, titanerr.New(next.Pos(), "syntax error: cannot assign to this expression")
		}
		targets = append(targets, v)
	}
	if _, err := p.match(token.ASSIGN, AssignAssign); err != nil {
		return nil, err
	}
	values, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Pos_: targets[0].Pos(), Targets: targets, Values: values}, nil
}

func exprToVar(e ast.Expr) ast.Var {
	if v, ok := e.(*ast.VarExpr); ok {
		return v.V
	}
	return nil
}

func (p *Parser) parseExprList() ([]ast.Expr, error) {
	var exprs []ast.Expr
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	exprs = append(exprs, e)
	for p.check(token.COMMA) {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}
