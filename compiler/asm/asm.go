// Package asm models the target machine: an 8-bit accumulator CPU with four
// general registers, 256 bytes of memory and absolute-address jumps.
//
// CMP X, Y stores the saturating difference X - Y (zero when X <= Y, the
// excess when X > Y) into the flags byte. JZ jumps when flags is zero, JNZ
// when it is not. ADD and SUB wrap around at the machine width.
package asm

import (
	"fmt"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
)

type (
	Opcode int

	Reg int

	// Operand is a closed sum over the four operand classes.
	Operand interface {
		operand()
	}

	Imm uint8

	Mem int

	LabelRef string

	// Instr is one target instruction or a LABEL pseudo-instruction.
	// The generator appends them to its output buffer and never mutates
	// the sequence after resolution.
	Instr struct {
		Op  Opcode
		Ops []Operand
	}
)

const (
	LOAD Opcode = iota
	STORE
	ADD
	SUB
	CMP
	JMP
	JNZ
	JZ
	LABEL
)

var opnames = []string{"LOAD", "STORE", "ADD", "SUB", "CMP", "JMP", "JNZ", "JZ", "LABEL"}

func (Reg) operand()      {}
func (Imm) operand()      {}
func (Mem) operand()      {}
func (LabelRef) operand() {}

func (op Opcode) String() string {
	if op < 0 || int(op) >= len(opnames) {
		return fmt.Sprintf("Opcode(%d)", int(op))
	}

	return opnames[op]
}

func (op Opcode) Jump() bool {
	return op == JMP || op == JNZ || op == JZ
}

// AppendProgram renders the instruction sequence one instruction per line.
// regs maps register numbers to their letter names.
func AppendProgram(b []byte, prog []Instr, regs []string) (_ []byte, err error) {
	for i, in := range prog {
		b, err = AppendInstr(b, in, regs)
		if err != nil {
			return nil, errors.Wrap(err, "instruction %d", i)
		}

		b = append(b, '\n')
	}

	return b, nil
}

// AppendInstr renders one instruction record in the form
// OPCODE OPERAND[, OPERAND]. Immediates get a # prefix, memory operands are
// hex addresses, registers their letter name, labels their symbolic name.
// A LABEL pseudo-instruction renders as "name:".
func AppendInstr(b []byte, in Instr, regs []string) (_ []byte, err error) {
	if in.Op == LABEL {
		if len(in.Ops) != 1 {
			return nil, errors.New("label with %d operands", len(in.Ops))
		}

		l, ok := in.Ops[0].(LabelRef)
		if !ok {
			return nil, errors.New("label operand: %T", in.Ops[0])
		}

		return hfmt.Appendf(b, "%s:", string(l)), nil
	}

	b = append(b, in.Op.String()...)

	for i, op := range in.Ops {
		if i == 0 {
			b = append(b, ' ')
		} else {
			b = append(b, ", "...)
		}

		b, err = appendOperand(b, op, regs)
		if err != nil {
			return nil, errors.Wrap(err, "operand %d", i)
		}
	}

	return b, nil
}

func appendOperand(b []byte, op Operand, regs []string) ([]byte, error) {
	switch op := op.(type) {
	case Reg:
		if op < 0 || int(op) >= len(regs) {
			return nil, errors.New("register %d out of set of %d", int(op), len(regs))
		}

		return append(b, regs[op]...), nil
	case Imm:
		return hfmt.Appendf(b, "#%d", int(op)), nil
	case Mem:
		return hfmt.Appendf(b, "0x%02x", int(op)), nil
	case LabelRef:
		return append(b, string(op)...), nil
	}

	return nil, errors.New("unsupported operand: %T", op)
}
