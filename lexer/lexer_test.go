package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"titan/lexer"
	"titan/token"
)

type lexTest struct {
	source   string
	expected []token.Kind
}

var lexTests = []lexTest{
	{"", []token.Kind{token.EOF}},
	{"  \t", []token.Kind{token.EOF}},
	{"-- comment\n", []token.Kind{token.EOF}},
	{"--[[ long\ncomment ]]", []token.Kind{token.EOF}},
	{"local x = 1", []token.Kind{token.LOCAL, token.NAME, token.ASSIGN, token.NUMBER_INT, token.EOF}},
	{"1.5", []token.Kind{token.NUMBER_FLOAT, token.EOF}},
	{"0x1A", []token.Kind{token.NUMBER_INT, token.EOF}},
	{"0x1p4", []token.Kind{token.NUMBER_FLOAT, token.EOF}},
	{"a..b..c", []token.Kind{token.NAME, token.CONCAT, token.NAME, token.CONCAT, token.NAME, token.EOF}},
	{"a...b", []token.Kind{token.NAME, token.ELLIPSIS, token.NAME, token.EOF}},
	{"a<=b", []token.Kind{token.NAME, token.LE, token.NAME, token.EOF}},
	{"a<b", []token.Kind{token.NAME, token.LT, token.NAME, token.EOF}},
	{"a~=b", []token.Kind{token.NAME, token.NE, token.NAME, token.EOF}},
	{"a->b", []token.Kind{token.NAME, token.ARROW, token.NAME, token.EOF}},
	{"a-b", []token.Kind{token.NAME, token.MINUS, token.NAME, token.EOF}},
	{"a//b", []token.Kind{token.NAME, token.DSLASH, token.NAME, token.EOF}},
	{"a/b", []token.Kind{token.NAME, token.SLASH, token.NAME, token.EOF}},
	{`"hi"`, []token.Kind{token.STRINGLIT, token.EOF}},
	{"[[hi]]", []token.Kind{token.STRINGLIT, token.EOF}},
	{"[==[hi]==]", []token.Kind{token.STRINGLIT, token.EOF}},
	{"record Point x: integer y: integer end", []token.Kind{
		token.RECORD, token.NAME, token.NAME, token.COLON, token.NAME,
		token.NAME, token.COLON, token.NAME, token.END, token.EOF,
	}},
}

func TestLex(t *testing.T) {
	for _, tt := range lexTests {
		t.Logf("lexing %q", tt.source)
		toks, err := lexer.Lex("<test>", []byte(tt.source))
		assert.NoError(t, err)
		var kinds []token.Kind
		for _, tok := range toks {
			kinds = append(kinds, tok.Kind)
		}
		assert.Equal(t, tt.expected, kinds)
	}
}

func TestLexNumericValues(t *testing.T) {
	toks, err := lexer.Lex("<test>", []byte("10 3.5 0xFF"))
	assert.NoError(t, err)
	assert.Equal(t, int64(10), toks[0].IntValue)
	assert.Equal(t, 3.5, toks[1].FloatValue)
	assert.Equal(t, int64(255), toks[2].IntValue)
}

func TestLexStringEscapes(t *testing.T) {
	toks, err := lexer.Lex("<test>", []byte(`"a\tb\65\x41\u{48}"`))
	assert.NoError(t, err)
	assert.Equal(t, "a\tbAAH", toks[0].StrValue)
}

func TestLexMalformedNumber(t *testing.T) {
	_, err := lexer.Lex("<test>", []byte("1.2.3"))
	assert.Error(t, err)
	terr, ok := err.(interface{ Error() string })
	assert.True(t, ok)
	_ = terr
}

func TestLexDecimalEscapeOverflow(t *testing.T) {
	_, err := lexer.Lex("<test>", []byte(`"\255"`))
	assert.NoError(t, err)
	_, err = lexer.Lex("<test>", []byte(`"\256"`))
	assert.Error(t, err)
}

func TestLexUnclosedString(t *testing.T) {
	_, err := lexer.Lex("<test>", []byte(`"abc`))
	assert.Error(t, err)
}

func TestLexUnclosedLongString(t *testing.T) {
	_, err := lexer.Lex("<test>", []byte(`[[abc`))
	assert.Error(t, err)
}
