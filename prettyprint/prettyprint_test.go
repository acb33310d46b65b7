package prettyprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titan/checker"
	"titan/parser"
	"titan/prettyprint"
	"titan/types"
)

// assertRoundTrips checks parse(source) |> print |> parse |> print is
// idempotent on the second print: since printing never removes or adds AST
// structure (redundant parens don't create nodes, and Synthetic nodes are
// skipped consistently both times), a stable fixed point after one
// print/reparse cycle is exactly the invariant that parsing the printed
// text yields the same AST, modulo source position.
func assertRoundTrips(t *testing.T, source string) string {
	t.Helper()
	prog1, err := parser.ParseSource("t.titan", []byte(source))
	require.NoError(t, err)
	out1 := prettyprint.Program(prog1)

	prog2, err := parser.ParseSource("t.titan", []byte(out1))
	require.NoError(t, err, "printed source failed to reparse:\n%s", out1)
	out2 := prettyprint.Program(prog2)

	assert.Equal(t, out1, out2, "printing is not a fixed point after one reparse")
	return out1
}

func TestRoundTripFunctionWithArithmetic(t *testing.T) {
	assertRoundTrips(t, `
function add(a: integer, b: integer): integer
	return a + b * 2
end
`)
}

func TestRoundTripRecordSkipsSyntheticConstructor(t *testing.T) {
	out := assertRoundTrips(t, `
record Point
	x: integer
	y: integer
end
`)
	assert.NotContains(t, out, "Point.new")
}

func TestRoundTripImportAndForeignImport(t *testing.T) {
	assertRoundTrips(t, `
local m = import "some.module"
local c = foreign import "stdio.h"
`)
}

func TestRoundTripControlFlowAndCasts(t *testing.T) {
	assertRoundTrips(t, `
function classify(n: integer): string
	local total: float = 0.0
	for i = 1, n, 2 do
		if i % 2 == 0 then
			total = total + (i as float)
		elseif i > 10 then
			total = total - 1.0
		else
			total = total + 1.0
		end
	end
	while total > 100.0 do
		total = total - 10.0
	end
	repeat
		total = total - 1.0
	until total <= 0.0
	return "done"
end
`)
}

func TestRoundTripLocalDeclAndAssignMultiple(t *testing.T) {
	assertRoundTrips(t, `
function f(): integer
	local a, b: integer = 1, 2
	a, b = b, a
	return a + b
end
`)
}

func TestRoundTripNestedBinaryPrecedence(t *testing.T) {
	assertRoundTrips(t, `
function f(a: integer, b: integer, c: integer): integer
	return (a + b) * c - a / (b - c)
end
`)
}

func TestPrintTypesAnnotatesResolvedTypes(t *testing.T) {
	prog, err := parser.ParseSource("t.titan", []byte(`
function f(): integer
	local total: integer = 1 + 2
	return total
end
`))
	require.NoError(t, err)
	c := checker.New("t", types.NewRegistry(), nil)
	_, diags := c.Check(prog)
	require.Empty(t, diags)

	out := prettyprint.Types(prog)
	assert.Contains(t, out, "function f()")
	assert.Contains(t, out, "--[[integer]]")
}

func TestCReindentNormalizesBraces(t *testing.T) {
	in := "int f() {\nif (x) {\nreturn 1;\n}\nreturn 0;\n}\n"
	out := prettyprint.C(in)
	assert.Equal(t, "int f() {\n    if (x) {\n        return 1;\n    }\n    return 0;\n}\n", out)
}

func TestCReindentIgnoresBracesInStringsAndComments(t *testing.T) {
	in := `int f() {
	char *s = "not a { brace }";
	// a comment with a { brace
	return 0;
}
`
	out := prettyprint.C(in)
	assert.Equal(t, "int f() {\n    char *s = \"not a { brace }\";\n    // a comment with a { brace\n    return 0;\n}\n", out)
}
