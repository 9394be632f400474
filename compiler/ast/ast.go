package ast

// Nodes form a closed sum: Stmt and Expr are sealed interfaces and the code
// generator matches every variant, so adding or removing a construct is a
// compile-time-checked change.

type (
	Pos struct {
		Line int
		Col  int
	}

	Node interface {
		Position() Pos
	}

	Stmt interface {
		Node
		stmt()
	}

	Expr interface {
		Node
		expr()
	}

	Op string

	Program struct {
		Stmts []Stmt
	}

	Block struct {
		Pos Pos

		Stmts []Stmt
	}

	VarDecl struct {
		Pos Pos

		Name string
		Init Expr
	}

	Assign struct {
		Pos Pos

		Name  string
		Value Expr
	}

	If struct {
		Pos Pos

		Cond Expr
		Then *Block
		Else *Block // nil when absent
	}

	Binary struct {
		Pos Pos

		Op    Op
		Left  Expr
		Right Expr
	}

	Lit struct {
		Pos Pos

		Value int
	}

	Ref struct {
		Pos Pos

		Name string
	}
)

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpGT  Op = ">"
	OpLT  Op = "<"
	OpEQ  Op = "=="
)

func (x VarDecl) Position() Pos { return x.Pos }
func (x Assign) Position() Pos  { return x.Pos }
func (x If) Position() Pos      { return x.Pos }
func (x Binary) Position() Pos  { return x.Pos }
func (x Lit) Position() Pos     { return x.Pos }
func (x Ref) Position() Pos     { return x.Pos }
func (x *Block) Position() Pos  { return x.Pos }

func (VarDecl) stmt() {}
func (Assign) stmt()  {}
func (If) stmt()      {}

func (Binary) expr() {}
func (Lit) expr()    {}
func (Ref) expr()    {}

func (op Op) Relational() bool {
	return op == OpGT || op == OpLT || op == OpEQ
}
