// Package parser implements the PEG-style recursive-descent parser of §4.2:
// it turns a token stream into an ast.Program, stopping at the first syntax
// error (§7). Grounded on the teacher's Parser (index-into-token-slice,
// match/advance helpers) generalized to Titan's grammar.
package parser

import (
	"titan/ast"
	"titan/lexer"
	"titan/titanerr"
	"titan/token"
)

// Labels for the symbolic parser-error tags named in §4.2/§7.
const (
	ExpWhile      titanerr.Label = "ExpWhile"
	DoWhile       titanerr.Label = "DoWhile"
	EndWhile      titanerr.Label = "EndWhile"
	ExpRepeat     titanerr.Label = "ExpRepeat"
	UntilRepeat   titanerr.Label = "UntilRepeat"
	ExpIf         titanerr.Label = "ExpIf"
	ThenIf        titanerr.Label = "ThenIf"
	EndIf         titanerr.Label = "EndIf"
	ExpFor        titanerr.Label = "ExpFor"
	NameFor       titanerr.Label = "NameFor"
	AssignFor     titanerr.Label = "AssignFor"
	CommaFor      titanerr.Label = "CommaFor"
	DoFor         titanerr.Label = "DoFor"
	EndFor        titanerr.Label = "EndFor"
	NameLocal     titanerr.Label = "NameLocal"
	AssignLocal   titanerr.Label = "AssignLocal"
	ExpFunction   titanerr.Label = "ExpFunction"
	NameFunction  titanerr.Label = "NameFunction"
	LParPList     titanerr.Label = "LParPList"
	RParPList     titanerr.Label = "RParPList"
	EndFunction   titanerr.Label = "EndFunction"
	NameRecord    titanerr.Label = "NameRecord"
	EndRecord     titanerr.Label = "EndRecord"
	ExpImport     titanerr.Label = "ExpImport"
	StringImport  titanerr.Label = "StringImport"
	ExpType       titanerr.Label = "ExpType"
	RBracketArray titanerr.Label = "RBracketArray"
	RParType      titanerr.Label = "RParType"
	ArrowFunType  titanerr.Label = "ArrowFunType"
	ExpExpr       titanerr.Label = "ExpExpr"
	RParExpr      titanerr.Label = "RParExpr"
	RBracketIndex titanerr.Label = "RBracketIndex"
	NameDot       titanerr.Label = "NameDot"
	ColonDecl     titanerr.Label = "ColonDecl"
	CommaAssign   titanerr.Label = "CommaAssign"
	AssignAssign  titanerr.Label = "AssignAssign"
	NameParam     titanerr.Label = "NameParam"
	ColonParam    titanerr.Label = "ColonParam"
	RBraceInit    titanerr.Label = "RBraceInit"
)

// ParseSource lexes and parses a single Titan source file.
func ParseSource(filename string, source []byte) (*ast.Program, error) {
	toks, err := lexer.Lex(filename, source)
	if err != nil {
		return nil, err
	}
	p := New(toks)
	return p.ParseProgram()
}

type Parser struct {
	toks []token.Token
	pos  int
}

func New(toks []token.Token) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		toks = append(toks, token.Token{Kind: token.EOF})
	}
	return &Parser{toks: toks}
}

func (p *Parser) next() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.next()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) match(k token.Kind, label titanerr.Label) (token.Token, error) {
	t := p.next()
	if t.Kind != k {
		return token.Token{}, titanerr.NewLabeled(t.Pos, label, "expected %s, but got %s", k, t.Kind)
	}
	return p.advance(), nil
}

func (p *Parser) check(k token.Kind) bool {
	return p.next().Kind == k
}

// ParseProgram parses a full compilation unit (§3, §6.3: top-level forms
// may appear in any order).
func (p *Parser) ParseProgram() (*ast.Program, error) {
	var items []ast.TopLevel
	for !p.check(token.EOF) {
		item, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		items = append(items, item...)
	}
	return &ast.Program{Items: items}, nil
}

// parseTopLevel returns a slice because `record Name ... end` yields two
// top-level items: the record itself and its implicit `new` constructor
// (§6.3).
func (p *Parser) parseTopLevel() ([]ast.TopLevel, error) {
	switch p.next().Kind {
	case token.LOCAL:
		return p.parseTopLevelLocal()
	case token.FUNCTION:
		f, err := p.parseTopLevelFunc()
		if err != nil {
			return nil, err
		}
		return []ast.TopLevel{f}, nil
	case token.RECORD:
		return p.parseRecord()
	}
	return nil, titanerr.New(p.next().Pos, "expected a top-level declaration, but got %s", p.next().Kind)
}

func (p *Parser) parseTopLevelLocal() ([]ast.TopLevel, error) {
	kw := p.advance() // local
	if p.check(token.FUNCTION) {
		p.advance()
		f, err := p.parseFuncTail(kw.Pos)
		if err != nil {
			return nil, err
		}
		return []ast.TopLevel{f}, nil
	}
	name, err := p.match(token.NAME, NameLocal)
	if err != nil {
		return nil, err
	}
	var declType ast.TypeSyntax
	if p.check(token.COLON) {
		p.advance()
		declType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.match(token.ASSIGN, AssignLocal); err != nil {
		return nil, err
	}
	if p.check(token.IMPORT) {
		p.advance()
		mod, err := p.match(token.STRINGLIT, StringImport)
		if err != nil {
			return nil, err
		}
		return []ast.TopLevel{&ast.Import{Pos_: kw.Pos, Alias: name.StrValue, Module: mod.StrValue}}, nil
	}
	if p.check(token.FOREIGN) {
		p.advance()
		if _, err := p.match(token.IMPORT, ExpImport); err != nil {
			return nil, err
		}
		header, err := p.match(token.STRINGLIT, StringImport)
		if err != nil {
			return nil, err
		}
		return []ast.TopLevel{&ast.ForeignImport{Pos_: kw.Pos, Alias: name.StrValue, Header: header.StrValue}}, nil
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return []ast.TopLevel{&ast.TopLevelVar{Pos_: kw.Pos, VarName: name.StrValue, DeclaredType: declType, Value: val}}, nil
}

func (p *Parser) parseTopLevelFunc() (ast.TopLevel, error) {
	kw := p.advance()
	return p.parseFuncTail(kw.Pos)
}

func (p *Parser) parseFuncTail(pos titanerr.Pos) (ast.TopLevel, error) {
	name, err := p.match(token.NAME, NameFunction)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	var rets []ast.TypeSyntax
	if p.check(token.COLON) {
		p.advance()
		rets, err = p.parseTypeList()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlockUntil(token.END)
	if err != nil {
		return nil, err
	}
	if _, err := p.match(token.END, EndFunction); err != nil {
		return nil, err
	}
	return &ast.TopLevelFunc{Pos_: pos, FuncName: name.StrValue, Params: params, Rets: rets, Body: body}, nil
}

func (p *Parser) parseParamList() ([]ast.Param, error) {
	if _, err := p.match(token.LPAREN, LParPList); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.check(token.RPAREN) {
		name, err := p.match(token.NAME, NameParam)
		if err != nil {
			return nil, err
		}
		if _, err := p.match(token.COLON, ColonParam); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Pos_: name.Pos, Name: name.StrValue, Type: typ})
		if p.check(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.match(token.RPAREN, RParPList); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseRecord() ([]ast.TopLevel, error) {
	kw := p.advance()
	name, err := p.match(token.NAME, NameRecord)
	if err != nil {
		return nil, err
	}
	var fields []ast.Field
	for !p.check(token.END) {
		fname, err := p.match(token.NAME, NameParam)
		if err != nil {
			return nil, err
		}
		if _, err := p.match(token.COLON, ColonParam); err != nil {
			return nil, err
		}
		ftype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.Field{Pos_: fname.Pos, Name: fname.StrValue, Type: ftype})
	}
	if _, err := p.match(token.END, EndRecord); err != nil {
		return nil, err
	}
	rec := &ast.TopLevelRecord{Pos_: kw.Pos, RecName: name.StrValue, Fields: fields}
	ctor := &ast.TopLevelFunc{
		Pos_:      kw.Pos,
		FuncName:  name.StrValue + ".new",
		Params:    fields2params(fields),
		Rets:      []ast.TypeSyntax{&ast.TypeName{Pos_: kw.Pos, Name: name.StrValue}},
		Body:      &ast.Block{Pos_: kw.Pos},
		Synthetic: true,
	}
	return []ast.TopLevel{rec, ctor}, nil
}

func fields2params(fields []ast.Field) []ast.Param {
	params := make([]ast.Param, len(fields))
	for i, f := range fields {
		params[i] = ast.Param{Pos_: f.Pos_, Name: f.Name, Type: f.Type}
	}
	return params
}
