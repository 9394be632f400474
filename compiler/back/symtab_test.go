package back

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/t8lang/t8/compiler/ast"
)

func TestSymTabOrdinalAddresses(t *testing.T) {
	st := NewSymTab(0, 256)

	for i, name := range []string{"a", "b", "result"} {
		a, err := st.Declare(name, ast.Pos{Line: 1, Col: 1})
		require.NoError(t, err)
		require.Equal(t, i*wordSize, a)
	}

	a, err := st.Resolve("b", ast.Pos{Line: 2, Col: 1})
	require.NoError(t, err)
	require.Equal(t, 1, a)
	require.Equal(t, 3, st.Len())
}

func TestSymTabBase(t *testing.T) {
	st := NewSymTab(0x10, 256)

	a, err := st.Declare("a", ast.Pos{})
	require.NoError(t, err)
	require.Equal(t, 0x10, a)

	a, err = st.Declare("b", ast.Pos{})
	require.NoError(t, err)
	require.Equal(t, 0x11, a)
}

func TestSymTabDuplicate(t *testing.T) {
	st := NewSymTab(0, 256)

	_, err := st.Declare("a", ast.Pos{Line: 1, Col: 5})
	require.NoError(t, err)

	_, err = st.Declare("a", ast.Pos{Line: 2, Col: 5})
	require.Error(t, err)

	var de DuplicateDeclarationError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "a", de.Name)
	require.Equal(t, ast.Pos{Line: 2, Col: 5}, de.Pos)
}

func TestSymTabUndeclared(t *testing.T) {
	st := NewSymTab(0, 256)

	_, err := st.Resolve("x", ast.Pos{Line: 3, Col: 9})
	require.Error(t, err)

	var ue UndeclaredVariableError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, "x", ue.Name)
	require.Equal(t, ast.Pos{Line: 3, Col: 9}, ue.Pos)
}

func TestSymTabOutOfMemory(t *testing.T) {
	st := NewSymTab(0, 2)

	_, err := st.Declare("a", ast.Pos{})
	require.NoError(t, err)
	_, err = st.Declare("b", ast.Pos{})
	require.NoError(t, err)

	_, err = st.Declare("c", ast.Pos{})
	require.Error(t, err)

	var oe OutOfMemoryError
	require.ErrorAs(t, err, &oe)
	require.Equal(t, "c", oe.Name)
	require.Equal(t, 2, oe.Size)
}
