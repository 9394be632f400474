package asm

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	UnresolvedLabelError struct {
		Label string
	}

	DuplicateLabelError struct {
		Label string
	}
)

// Resolve assigns every LABEL its concrete address, the index of the next
// real instruction in the label-free stream, and rewrites every LabelRef jump
// operand to that address. LABEL pseudo-instructions are dropped from the
// output. An end label may resolve to one past the last instruction.
func Resolve(ctx context.Context, prog []Instr) (_ []Instr, err error) {
	tr := tlog.SpanFromContext(ctx)

	labels := map[string]Mem{}
	addr := 0

	for _, in := range prog {
		if in.Op != LABEL {
			addr++
			continue
		}

		l, ok := in.Ops[0].(LabelRef)
		if !ok {
			return nil, errors.New("label operand: %T", in.Ops[0])
		}

		if _, ok := labels[string(l)]; ok {
			return nil, DuplicateLabelError{Label: string(l)}
		}

		labels[string(l)] = Mem(addr)
	}

	res := make([]Instr, 0, addr)

	for _, in := range prog {
		if in.Op == LABEL {
			continue
		}

		if !in.Op.Jump() {
			res = append(res, in)
			continue
		}

		ops := make([]Operand, len(in.Ops))

		for i, op := range in.Ops {
			l, ok := op.(LabelRef)
			if !ok {
				ops[i] = op
				continue
			}

			a, ok := labels[string(l)]
			if !ok {
				return nil, UnresolvedLabelError{Label: string(l)}
			}

			ops[i] = a
		}

		res = append(res, Instr{Op: in.Op, Ops: ops})
	}

	tr.Printw("labels resolved", "labels", len(labels), "instructions", len(res))

	return res, nil
}

func (e UnresolvedLabelError) Error() string {
	return fmt.Sprintf("unresolved label: %v", e.Label)
}

func (e DuplicateLabelError) Error() string {
	return fmt.Sprintf("duplicate label: %v", e.Label)
}
