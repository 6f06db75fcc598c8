package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/panyam/blang/decl"
	gfn "github.com/panyam/goutils/fn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, src string) *decl.Program {
	t.Helper()
	program, errs, err := ParseSource("test.bl", src)
	require.NoError(t, err)
	require.Empty(t, errs)
	return program
}

func declStrings(p *decl.Program) []string {
	return gfn.Map(p.Declarations, func(s decl.Stmt) string { return s.String() })
}

func TestParseDeclarations(t *testing.T) {
	program := parseOK(t, `
let a = 1;
let b;
func add(x, y) { return x + y; }
class Point { func norm() { return 0; } }
print(add(a, 2));
`)
	want := []string{
		"let a = 1;",
		"let b;",
		"func add(x, y) { ... }",
		"class Point { 1 methods }",
		"print(add(a, 2));",
	}
	if diff := cmp.Diff(want, declStrings(program)); diff != "" {
		t.Errorf("declarations mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "test.bl", program.Path)

	fn, ok := program.Declarations[2].(*decl.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, fn.ParamNames())
	require.Len(t, fn.Body, 1)
	_, ok = fn.Body[0].(*decl.ReturnStmt)
	assert.True(t, ok)
}

func TestParsePrecedenceAndAssociativity(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3));"},
		{"1 - 2 - 3;", "((1 - 2) - 3);"},
		{"8 / 4 / 2;", "((8 / 4) / 2);"},
		{"(1 + 2) * 3;", "((1 + 2) * 3);"},
		{"((1 + 2));", "(1 + 2);"},
		{"(a = 1);", "(a = 1);"},
		{"(x);", "(x);"},
		{"a = b = 3;", "(a = (b = 3));"},
		{"f(1)(2);", "f(1)(2);"},
		{`"a" + 'b';`, `("a" + "b");`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			program := parseOK(t, tt.src)
			require.Len(t, program.Declarations, 1)
			assert.Equal(t, tt.want, program.Declarations[0].String())
		})
	}
}

func TestParseIfElseChain(t *testing.T) {
	program := parseOK(t, `if a { print(1); } else if b { print(2); } else { print(3); }`)
	require.Len(t, program.Declarations, 1)
	outer, ok := program.Declarations[0].(*decl.IfStmt)
	require.True(t, ok)
	inner, ok := outer.Else.(*decl.IfStmt)
	require.True(t, ok)
	_, ok = inner.Else.(*decl.BlockStmt)
	assert.True(t, ok)
}

func TestParseCaseExpression(t *testing.T) {
	program := parseOK(t, `let s = case n { 1 -> "one", 2 -> "two", _ -> "many" };`)
	let := program.Declarations[0].(*decl.LetDecl)
	ce, ok := let.Initializer.(*decl.CaseExpr)
	require.True(t, ok)
	require.Len(t, ce.Arms, 3)
	wild, ok := ce.Arms[2].Pattern.(*decl.VariableExpr)
	require.True(t, ok)
	assert.True(t, wild.IsWildcard())
	assert.Equal(t, 1.0, ce.Arms[0].Pattern.(*decl.LiteralExpr).Value)
}

func TestParseNodePositions(t *testing.T) {
	program := parseOK(t, "let a = 1;\nfunc f() {\n  return a;\n}\n")
	fn := program.Declarations[1].(*decl.FuncDecl)
	assert.Equal(t, decl.Location{Line: 2, Col: 1}, fn.Pos())
	assert.Equal(t, decl.Location{Line: 4, Col: 2}, fn.End())
	ret := fn.Body[0].(*decl.ReturnStmt)
	assert.Equal(t, 3, ret.Pos().Line)
	assert.Equal(t, 3, ret.Pos().Col)
}

// After an error the parser skips to the next statement and keeps going.
func TestParseResynchronizes(t *testing.T) {
	program, errs, err := ParseSource("resync.bl", "let = 5; let a = 1; let b = 2; print(a);")
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "expected variable name")
	assert.Equal(t, []string{"let a = 1;", "let b = 2;", "print(a);"}, declStrings(program))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"missing semicolon", "let a = 1", "expected ';' after variable declaration"},
		{"bad assignment target", "1 = 2;", "invalid assignment target"},
		{"missing paren", "print(1;", "expected ')' after arguments"},
		{"missing expression", "let a = ;", "expected expression"},
		{"empty case", "case x { };", "at least one arm"},
		{"bad pattern", "case x { y -> 1 };", "expected literal or '_' pattern"},
		{"unclosed block", "func f() { return 1;", "expected '}' after block"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs, err := ParseSource("bad.bl", tt.src)
			require.NoError(t, err)
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0].Message, tt.msg)
		})
	}
}

func TestParseInvalidTargetQuotesLine(t *testing.T) {
	_, errs, err := ParseSource("bad.bl", "let a = 1;\n(a) = 2;\n")
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "(a) = 2;")
	assert.Equal(t, 2, errs[0].Token.Pos().Line)
}

func TestParseLexerErrorAborts(t *testing.T) {
	program, errs, err := ParseSource("bad.bl", "let a = #;")
	require.Error(t, err)
	assert.Nil(t, program)
	assert.Nil(t, errs)
}

func TestParseTooManyArguments(t *testing.T) {
	src := "f("
	for i := 0; i <= MaxArgs; i++ {
		if i > 0 {
			src += ", "
		}
		src += "1"
	}
	src += ");"
	_, errs, err := ParseSource("many.bl", src)
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "can't have more than 255 arguments")
}

func TestDumpProgram(t *testing.T) {
	program := parseOK(t, "func f(x) { if x { return 1; } }")
	want := "func f(x) {\n  if x {\n    return 1;\n  }\n}\n"
	if diff := cmp.Diff(want, decl.Dump(program)); diff != "" {
		t.Errorf("dump mismatch (-want +got):\n%s", diff)
	}
}
