package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/t8lang/t8/compiler"
	"github.com/t8lang/t8/compiler/back"
	"github.com/t8lang/t8/compiler/emu"
	"github.com/t8lang/t8/compiler/front"
)

func main() {
	parseCmd := &cli.Command{
		Name:   "parse",
		Action: parseAct,
		Args:   cli.Args{},
	}

	compileCmd := &cli.Command{
		Name:   "compile",
		Action: compileAct,
		Args:   cli.Args{},
	}

	runCmd := &cli.Command{
		Name:   "run",
		Action: runAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "t8",
		Description: "t8 compiles a small imperative language to 8-bit accumulator machine assembly",
		Commands: []*cli.Command{
			parseCmd,
			compileCmd,
			runCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		x, err := front.Parse(ctx, text)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		fmt.Printf("ast: %+v\n", x)
	}

	return nil
}

func compileAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		obj, err := compiler.CompileFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		fmt.Printf("%s", obj)
	}

	return nil
}

func runAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	cfg := back.DefaultConfig()

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		prog, err := compiler.Generate(ctx, a, text, cfg)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		m := emu.New(len(cfg.Registers), cfg.MemorySize)

		err = m.Run(ctx, prog)
		if err != nil {
			return errors.Wrap(err, "run %v", a)
		}

		for i, v := range m.Mem {
			if v == 0 {
				continue
			}

			fmt.Printf("0x%02x: %d\n", i, v)
		}
	}

	return nil
}
