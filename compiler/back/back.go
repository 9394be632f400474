package back

import (
	"context"
	"fmt"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/t8lang/t8/compiler/asm"
	"github.com/t8lang/t8/compiler/ast"
)

type (
	Config struct {
		MemorySize int
		VarBase    int
		Registers  []string
	}

	Compiler struct{}

	// state is owned by one compilation. The label counter and symbol
	// table are never shared across compilations, so compiling different
	// programs in parallel is safe.
	state struct {
		cfg *Config
		tr  tlog.Span

		syms  *SymTab
		label int

		code []asm.Instr
	}

	UnsupportedOperatorError struct {
		Op ast.Op
	}

	UnsupportedConstructError struct {
		Construct string
	}

	ConfigError struct {
		Reason string
	}
)

// Expression results accumulate in A, right operands go to B.
const (
	regA asm.Reg = iota
	regB
)

func New() *Compiler { return &Compiler{} }

func DefaultConfig() *Config {
	return &Config{
		MemorySize: 256,
		VarBase:    0,
		Registers:  []string{"A", "B", "C", "D"},
	}
}

func (cfg *Config) Validate() error {
	switch {
	case cfg.MemorySize <= 0:
		return ConfigError{Reason: "memory size must be positive"}
	case cfg.VarBase < 0 || cfg.VarBase >= cfg.MemorySize:
		return ConfigError{Reason: "variable base outside memory"}
	case len(cfg.Registers) < 2:
		return ConfigError{Reason: "two registers needed for binary expressions"}
	}

	return nil
}

// CompileProgram walks the tree depth first and emits the instruction
// sequence, LABEL pseudo-instructions included. Labels are still symbolic,
// asm.Resolve turns them into addresses.
func (c *Compiler) CompileProgram(ctx context.Context, cfg *Config, p *ast.Program) (_ []asm.Instr, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "back: compile program", "stmts", len(p.Stmts))
	defer tr.Finish("err", &err)

	if cfg == nil {
		cfg = DefaultConfig()
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	s := &state{
		cfg:  cfg,
		tr:   tr,
		syms: NewSymTab(cfg.VarBase, cfg.MemorySize),
	}

	for _, x := range p.Stmts {
		err = s.compileStmt(ctx, x)
		if err != nil {
			return nil, err
		}
	}

	if tr.If("dump_code") {
		for i, in := range s.code {
			tr.Printw("code", "i", i, "op", in.Op, "ops", in.Ops)
		}
	}

	tr.Printw("generated", "instructions", len(s.code), "vars", s.syms.Len(), "labels", s.label)

	return s.code, nil
}

func (s *state) compileStmt(ctx context.Context, x ast.Stmt) error {
	switch x := x.(type) {
	case ast.VarDecl:
		return s.compileVarDecl(ctx, x)
	case ast.Assign:
		return s.compileAssign(ctx, x)
	case ast.If:
		return s.compileIf(ctx, x)
	}

	return UnsupportedConstructError{Construct: fmt.Sprintf("%T", x)}
}

// compileVarDecl compiles the initializer before declaring the name, so the
// initializer can not see the variable it initializes.
func (s *state) compileVarDecl(ctx context.Context, x ast.VarDecl) error {
	err := s.compileExpr(ctx, x.Init, regA)
	if err != nil {
		return err
	}

	a, err := s.syms.Declare(x.Name, x.Pos)
	if err != nil {
		return err
	}

	s.emit(asm.STORE, regA, asm.Mem(a))

	return nil
}

func (s *state) compileAssign(ctx context.Context, x ast.Assign) error {
	err := s.compileExpr(ctx, x.Value, regA)
	if err != nil {
		return err
	}

	a, err := s.syms.Resolve(x.Name, x.Pos)
	if err != nil {
		return err
	}

	s.emit(asm.STORE, regA, asm.Mem(a))

	return nil
}

// compileIf allocates two fresh labels per statement, else target and end
// target, even when there is no else block. The conditional branch is taken
// when the condition is false, jumping over the then block.
func (s *state) compileIf(ctx context.Context, x ast.If) error {
	elseL := s.newLabel("else")
	endL := s.newLabel("end")

	err := s.compileCond(ctx, x.Cond, elseL)
	if err != nil {
		return err
	}

	for _, st := range x.Then.Stmts {
		err = s.compileStmt(ctx, st)
		if err != nil {
			return err
		}
	}

	s.emit(asm.JMP, endL)
	s.emit(asm.LABEL, elseL)

	if x.Else != nil {
		for _, st := range x.Else.Stmts {
			err = s.compileStmt(ctx, st)
			if err != nil {
				return err
			}
		}
	}

	s.emit(asm.LABEL, endL)

	return nil
}

// compileCond lowers a relational condition to CMP plus branches to otherwise
// taken when the condition does not hold. CMP keeps the saturating difference
// of its operands in the flags byte, so strict order tests are a single
// branch and equality needs both operand orders.
func (s *state) compileCond(ctx context.Context, x ast.Expr, otherwise asm.LabelRef) error {
	cond, ok := x.(ast.Binary)
	if !ok {
		return UnsupportedConstructError{Construct: fmt.Sprintf("%T as if condition", x)}
	}

	if !cond.Op.Relational() {
		if cond.Op == ast.OpAdd || cond.Op == ast.OpSub {
			return UnsupportedConstructError{Construct: fmt.Sprintf("arithmetic %v as if condition", cond.Op)}
		}

		return UnsupportedOperatorError{Op: cond.Op}
	}

	err := s.compileExpr(ctx, cond.Left, regA)
	if err != nil {
		return err
	}

	err = s.compileExpr(ctx, cond.Right, regB)
	if err != nil {
		return err
	}

	switch cond.Op {
	case ast.OpGT:
		s.emit(asm.CMP, regA, regB)
		s.emit(asm.JZ, otherwise)
	case ast.OpLT:
		s.emit(asm.CMP, regB, regA)
		s.emit(asm.JZ, otherwise)
	case ast.OpEQ:
		s.emit(asm.CMP, regA, regB)
		s.emit(asm.JNZ, otherwise)
		s.emit(asm.CMP, regB, regA)
		s.emit(asm.JNZ, otherwise)
	}

	return nil
}

func (s *state) compileExpr(ctx context.Context, x ast.Expr, dst asm.Reg) error {
	switch x := x.(type) {
	case ast.Lit:
		// literals wrap around at the machine width
		s.emit(asm.LOAD, dst, asm.Imm(x.Value&0xff))

		return nil
	case ast.Ref:
		a, err := s.syms.Resolve(x.Name, x.Pos)
		if err != nil {
			return err
		}

		s.emit(asm.LOAD, dst, asm.Mem(a))

		return nil
	case ast.Binary:
		return s.compileBinary(ctx, x, dst)
	}

	return UnsupportedConstructError{Construct: fmt.Sprintf("%T", x)}
}

func (s *state) compileBinary(ctx context.Context, x ast.Binary, dst asm.Reg) error {
	if x.Op.Relational() {
		return UnsupportedConstructError{Construct: fmt.Sprintf("comparison %v outside if condition", x.Op)}
	}

	if x.Op != ast.OpAdd && x.Op != ast.OpSub {
		return UnsupportedOperatorError{Op: x.Op}
	}

	// The machine has no temporaries: left evaluates into A, right must be
	// a leaf evaluated into B. The grammar guarantees that, a hand-built
	// tree may not.
	if dst != regA {
		return UnsupportedConstructError{Construct: "nested expression in right operand"}
	}

	err := s.compileExpr(ctx, x.Left, regA)
	if err != nil {
		return err
	}

	err = s.compileExpr(ctx, x.Right, regB)
	if err != nil {
		return err
	}

	op := asm.ADD
	if x.Op == ast.OpSub {
		op = asm.SUB
	}

	s.emit(op, regA, regB)

	return nil
}

func (s *state) newLabel(kind string) asm.LabelRef {
	l := asm.LabelRef(fmt.Sprintf("%s_%d", kind, s.label))
	s.label++

	return l
}

func (s *state) emit(op asm.Opcode, ops ...asm.Operand) {
	s.tr.V("emit").Printw("emit", "op", op, "ops", ops, "from", loc.Caller(1))

	s.code = append(s.code, asm.Instr{Op: op, Ops: ops})
}

func (e UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator: %v", e.Op)
}

func (e UnsupportedConstructError) Error() string {
	return fmt.Sprintf("unsupported construct: %v", e.Construct)
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("bad config: %v", e.Reason)
}
