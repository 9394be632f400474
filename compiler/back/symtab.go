package back

import (
	"fmt"

	"github.com/t8lang/t8/compiler/ast"
)

type (
	// SymTab maps declared names to fixed memory addresses. Addresses are
	// assigned in declaration order, one word apart, and never reused.
	SymTab struct {
		base int
		size int

		addr map[string]int
		next int
	}

	UndeclaredVariableError struct {
		Name string
		Pos  ast.Pos
	}

	DuplicateDeclarationError struct {
		Name string
		Pos  ast.Pos
	}

	OutOfMemoryError struct {
		Name string
		Size int
	}
)

// wordSize is the storage unit per variable, one byte on this machine.
const wordSize = 1

func NewSymTab(base, size int) *SymTab {
	return &SymTab{
		base: base,
		size: size,
		addr: map[string]int{},
	}
}

func (t *SymTab) Declare(name string, pos ast.Pos) (int, error) {
	if _, ok := t.addr[name]; ok {
		return 0, DuplicateDeclarationError{Name: name, Pos: pos}
	}

	a := t.base + t.next*wordSize
	if a >= t.size {
		return 0, OutOfMemoryError{Name: name, Size: t.size}
	}

	t.addr[name] = a
	t.next++

	return a, nil
}

func (t *SymTab) Resolve(name string, pos ast.Pos) (int, error) {
	a, ok := t.addr[name]
	if !ok {
		return 0, UndeclaredVariableError{Name: name, Pos: pos}
	}

	return a, nil
}

func (t *SymTab) Len() int {
	return t.next
}

func (e UndeclaredVariableError) Error() string {
	return fmt.Sprintf("undeclared variable: %v at %d:%d", e.Name, e.Pos.Line, e.Pos.Col)
}

func (e DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("duplicate declaration: %v at %d:%d", e.Name, e.Pos.Line, e.Pos.Col)
}

func (e OutOfMemoryError) Error() string {
	return fmt.Sprintf("out of memory: %v does not fit in %d addresses", e.Name, e.Size)
}
