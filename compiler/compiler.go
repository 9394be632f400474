// Package compiler wires the pipeline: text -> tokens -> AST -> instruction
// sequence -> resolved assembly text. Every stage fails fast on the first
// error, there is no partial output.
package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/t8lang/t8/compiler/asm"
	"github.com/t8lang/t8/compiler/back"
	"github.com/t8lang/t8/compiler/front"
)

func CompileFile(ctx context.Context, name string) (obj []byte, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text)
}

func Compile(ctx context.Context, name string, text []byte) (obj []byte, err error) {
	return CompileConfig(ctx, name, text, back.DefaultConfig())
}

func CompileConfig(ctx context.Context, name string, text []byte, cfg *back.Config) (obj []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "name", name, "size", len(text))
	defer tr.Finish("err", &err)

	if cfg == nil {
		cfg = back.DefaultConfig()
	}

	prog, err := Generate(ctx, name, text, cfg)
	if err != nil {
		return nil, err
	}

	obj, err = asm.AppendProgram(nil, prog, cfg.Registers)
	if err != nil {
		return nil, errors.Wrap(err, "render")
	}

	return obj, nil
}

// Generate runs the pipeline up to the resolved instruction sequence, each
// record still independently renderable by asm.AppendInstr.
func Generate(ctx context.Context, name string, text []byte, cfg *back.Config) (prog []asm.Instr, err error) {
	if cfg == nil {
		cfg = back.DefaultConfig()
	}

	x, err := front.Parse(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	prog, err = back.New().CompileProgram(ctx, cfg, x)
	if err != nil {
		return nil, errors.Wrap(err, "generate code")
	}

	prog, err = asm.Resolve(ctx, prog)
	if err != nil {
		return nil, errors.Wrap(err, "resolve labels")
	}

	return prog, nil
}
