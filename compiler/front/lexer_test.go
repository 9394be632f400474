package front

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/t8lang/t8/compiler/ast"
)

func TestTokenizeDecl(t *testing.T) {
	toks, err := Tokenize([]byte("VAR a = 5;"))
	require.NoError(t, err)

	exp := []Token{
		{Kind: Keyword, Lex: "VAR", Pos: ast.Pos{Line: 1, Col: 1}},
		{Kind: Ident, Lex: "a", Pos: ast.Pos{Line: 1, Col: 5}},
		{Kind: Op, Lex: "=", Pos: ast.Pos{Line: 1, Col: 7}},
		{Kind: Int, Lex: "5", Pos: ast.Pos{Line: 1, Col: 9}},
		{Kind: Punct, Lex: ";", Pos: ast.Pos{Line: 1, Col: 10}},
		{Kind: EOF, Pos: ast.Pos{Line: 1, Col: 11}},
	}

	require.Equal(t, exp, toks)
}

func TestTokenizeOperators(t *testing.T) {
	toks, err := Tokenize([]byte("== = > < + - ( )"))
	require.NoError(t, err)

	var lex []string
	var kinds []Kind

	for _, tok := range toks {
		lex = append(lex, tok.Lex)
		kinds = append(kinds, tok.Kind)
	}

	require.Equal(t, []string{"==", "=", ">", "<", "+", "-", "(", ")", ""}, lex)
	require.Equal(t, []Kind{Op, Op, Op, Op, Op, Op, Punct, Punct, EOF}, kinds)
}

func TestTokenizeKeywordsAndIdents(t *testing.T) {
	toks, err := Tokenize([]byte("IF ELSE VAR iffy Var x1"))
	require.NoError(t, err)

	var kinds []Kind

	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}

	// keywords are case sensitive, Var is an identifier
	require.Equal(t, []Kind{Keyword, Keyword, Keyword, Ident, Ident, Ident, EOF}, kinds)
}

func TestTokenizeCommentsAndSpace(t *testing.T) {
	src := `VAR a = 1; // trailing comment
// full line comment
	a = 2;`

	toks, err := Tokenize([]byte(src))
	require.NoError(t, err)

	var lex []string

	for _, tok := range toks {
		if tok.Kind == EOF {
			break
		}

		lex = append(lex, tok.Lex)
	}

	require.Equal(t, []string{"VAR", "a", "=", "1", ";", "a", "=", "2", ";"}, lex)
}

func TestTokenizePositions(t *testing.T) {
	toks, err := Tokenize([]byte("VAR a = 1;\nIF a > 0 {\n}"))
	require.NoError(t, err)

	require.Equal(t, ast.Pos{Line: 2, Col: 1}, toks[5].Pos) // IF
	require.Equal(t, ast.Pos{Line: 3, Col: 1}, toks[10].Pos) // }
}

func TestLexError(t *testing.T) {
	_, err := Tokenize([]byte("VAR a = 5;\na = $;"))
	require.Error(t, err)

	var le LexError
	require.ErrorAs(t, err, &le)
	require.Equal(t, byte('$'), le.Char)
	require.Equal(t, ast.Pos{Line: 2, Col: 5}, le.Pos)
}

func TestLexRestartable(t *testing.T) {
	src := []byte("VAR a = 5; IF a > 3 { a = a - 1; } // done")

	first, err := Tokenize(src)
	require.NoError(t, err)

	second, err := Tokenize(src)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestLexerEOFSticky(t *testing.T) {
	l := NewLexer([]byte("a"))

	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, Ident, tok.Kind)

	for i := 0; i < 3; i++ {
		tok, err = l.Next()
		require.NoError(t, err)
		require.Equal(t, EOF, tok.Kind)
	}
}
