package front

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/t8lang/t8/compiler/ast"
)

func TestParseVarDecl(t *testing.T) {
	p, err := Parse(context.Background(), []byte("VAR a = 5;"))
	require.NoError(t, err)

	exp := &ast.Program{
		Stmts: []ast.Stmt{
			ast.VarDecl{
				Pos:  ast.Pos{Line: 1, Col: 1},
				Name: "a",
				Init: ast.Lit{Pos: ast.Pos{Line: 1, Col: 9}, Value: 5},
			},
		},
	}

	require.Equal(t, exp, p)
}

func TestParseAssignSum(t *testing.T) {
	p, err := Parse(context.Background(), []byte("r = a + b - 1;"))
	require.NoError(t, err)
	require.Len(t, p.Stmts, 1)

	a, ok := p.Stmts[0].(ast.Assign)
	require.True(t, ok)
	require.Equal(t, "r", a.Name)

	// left associative: (a + b) - 1
	sub, ok := a.Value.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.OpSub, sub.Op)
	require.Equal(t, ast.Lit{Pos: ast.Pos{Line: 1, Col: 13}, Value: 1}, sub.Right)

	add, ok := sub.Left.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.OpAdd, add.Op)
	require.Equal(t, ast.Ref{Pos: ast.Pos{Line: 1, Col: 5}, Name: "a"}, add.Left)
	require.Equal(t, ast.Ref{Pos: ast.Pos{Line: 1, Col: 9}, Name: "b"}, add.Right)
}

func TestParseIfElse(t *testing.T) {
	src := `IF a > b {
	r = a;
} ELSE {
	r = b;
}`

	p, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.Len(t, p.Stmts, 1)

	x, ok := p.Stmts[0].(ast.If)
	require.True(t, ok)

	cond, ok := x.Cond.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.OpGT, cond.Op)

	require.Len(t, x.Then.Stmts, 1)
	require.NotNil(t, x.Else)
	require.Len(t, x.Else.Stmts, 1)
}

func TestParseIfNoElse(t *testing.T) {
	p, err := Parse(context.Background(), []byte("IF a == b { a = 0; }"))
	require.NoError(t, err)

	x, ok := p.Stmts[0].(ast.If)
	require.True(t, ok)
	require.Nil(t, x.Else)

	cond, ok := x.Cond.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.OpEQ, cond.Op)
}

func TestParseIfNested(t *testing.T) {
	p, err := Parse(context.Background(), []byte("IF a > b { IF a > c { r = 1; } }"))
	require.NoError(t, err)

	x := p.Stmts[0].(ast.If)
	require.Len(t, x.Then.Stmts, 1)

	_, ok := x.Then.Stmts[0].(ast.If)
	require.True(t, ok)
}

func TestParseConditionWithoutComparison(t *testing.T) {
	p, err := Parse(context.Background(), []byte("IF a { r = 1; }"))
	require.NoError(t, err)

	x := p.Stmts[0].(ast.If)
	require.Equal(t, ast.Ref{Pos: ast.Pos{Line: 1, Col: 4}, Name: "a"}, x.Cond)
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		src   string
		found string
	}{
		{"missing semicolon", "VAR a = 5", "EOF"},
		{"missing init", "VAR a;", ";"},
		{"missing assign op", "VAR a 5;", "5"},
		{"stray else", "ELSE { a = 1; }", "ELSE"},
		{"unclosed block", "IF a > b { a = 1;", "EOF"},
		{"missing brace", "IF a > b a = 1;", "a"},
		{"bad term", "a = +;", "+"},
		{"keyword as name", "VAR IF = 1;", "IF"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(context.Background(), []byte(tc.src))
			require.Error(t, err)

			var pe ParseError
			require.ErrorAs(t, err, &pe)
			require.Equal(t, tc.found, pe.Found)
			require.NotEmpty(t, pe.Expected)
		})
	}
}

func TestParseHaltsAtFirstError(t *testing.T) {
	_, err := Parse(context.Background(), []byte("VAR a 1;\nVAR b = ;"))
	require.Error(t, err)

	var pe ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, 1, pe.Pos.Line)
}
