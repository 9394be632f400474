// Package emu executes a resolved instruction sequence on a model of the
// target machine. It exists so generated code can be checked against the
// documented machine semantics, wrap-around arithmetic and branch polarity
// included.
package emu

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/t8lang/t8/compiler/asm"
)

type (
	// Machine holds the full architectural state: general registers, the
	// flags byte written by CMP and data memory. The program counter is an
	// instruction index, jumps are absolute.
	Machine struct {
		Regs  []uint8
		Flags uint8
		Mem   []uint8

		PC int
	}
)

// stepLimit bounds a run. The language has no loops, so any program touching
// the limit is miscompiled.
const stepLimit = 1 << 16

func New(regs, mem int) *Machine {
	return &Machine{
		Regs: make([]uint8, regs),
		Mem:  make([]uint8, mem),
	}
}

// Run executes the program from the current PC until it falls past the last
// instruction. The program must be resolved: no LABEL pseudo-instructions, no
// symbolic jump targets.
func (m *Machine) Run(ctx context.Context, prog []asm.Instr) (err error) {
	tr := tlog.SpanFromContext(ctx)

	for steps := 0; m.PC < len(prog); steps++ {
		if steps >= stepLimit {
			return errors.New("no halt after %d steps", steps)
		}

		err = m.Step(prog[m.PC])
		if err != nil {
			return errors.Wrap(err, "at %d", m.PC)
		}
	}

	tr.V("machine").Printw("halted", "pc", m.PC, "regs", m.Regs, "flags", m.Flags)

	return nil
}

func (m *Machine) Step(in asm.Instr) error {
	switch in.Op {
	case asm.LOAD:
		r, err := m.reg(in, 0)
		if err != nil {
			return err
		}

		switch src := in.Ops[1].(type) {
		case asm.Imm:
			m.Regs[r] = uint8(src)
		case asm.Mem:
			v, err := m.load(src)
			if err != nil {
				return err
			}

			m.Regs[r] = v
		default:
			return errors.New("load source: %T", in.Ops[1])
		}
	case asm.STORE:
		r, err := m.reg(in, 0)
		if err != nil {
			return err
		}

		a, ok := in.Ops[1].(asm.Mem)
		if !ok {
			return errors.New("store target: %T", in.Ops[1])
		}

		if int(a) < 0 || int(a) >= len(m.Mem) {
			return errors.New("address 0x%02x outside memory of %d", int(a), len(m.Mem))
		}

		m.Mem[a] = m.Regs[r]
	case asm.ADD, asm.SUB:
		x, err := m.reg(in, 0)
		if err != nil {
			return err
		}

		y, err := m.reg(in, 1)
		if err != nil {
			return err
		}

		// native width wrap-around
		if in.Op == asm.ADD {
			m.Regs[x] += m.Regs[y]
		} else {
			m.Regs[x] -= m.Regs[y]
		}
	case asm.CMP:
		x, err := m.reg(in, 0)
		if err != nil {
			return err
		}

		y, err := m.reg(in, 1)
		if err != nil {
			return err
		}

		// saturating difference: zero when x <= y
		if m.Regs[x] > m.Regs[y] {
			m.Flags = m.Regs[x] - m.Regs[y]
		} else {
			m.Flags = 0
		}
	case asm.JMP, asm.JZ, asm.JNZ:
		a, ok := in.Ops[0].(asm.Mem)
		if !ok {
			return errors.New("jump target: %T", in.Ops[0])
		}

		taken := in.Op == asm.JMP ||
			in.Op == asm.JZ && m.Flags == 0 ||
			in.Op == asm.JNZ && m.Flags != 0

		if taken {
			m.PC = int(a)

			return nil
		}
	case asm.LABEL:
		return errors.New("unresolved program: LABEL at %d", m.PC)
	default:
		return errors.New("opcode: %v", in.Op)
	}

	m.PC++

	return nil
}

func (m *Machine) reg(in asm.Instr, i int) (asm.Reg, error) {
	if i >= len(in.Ops) {
		return 0, errors.New("%v with %d operands", in.Op, len(in.Ops))
	}

	r, ok := in.Ops[i].(asm.Reg)
	if !ok {
		return 0, errors.New("register expected, got %T", in.Ops[i])
	}

	if int(r) < 0 || int(r) >= len(m.Regs) {
		return 0, errors.New("register %d out of set of %d", int(r), len(m.Regs))
	}

	return r, nil
}

func (m *Machine) load(a asm.Mem) (uint8, error) {
	if int(a) < 0 || int(a) >= len(m.Mem) {
		return 0, errors.New("address 0x%02x outside memory of %d", int(a), len(m.Mem))
	}

	return m.Mem[a], nil
}
