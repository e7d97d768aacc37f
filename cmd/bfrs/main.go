package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/bfrs/bfrs/compiler"
	"github.com/bfrs/bfrs/compiler/optimize"
)

func main() {
	app := &cli.Command{
		Name:        "bfrs",
		Description: "bfrs compiles Brainfuck source into optimized IR",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("dump-passes", false, "validate the IR and log the arena size after each optimizer pass"),
			cli.NewFlag("no-peel", false, "disable quasi-invariant loop peeling"),
			cli.NewFlag("no-addloop", false, "disable add-loop closed-form rewriting"),
			cli.NewFlag("no-copyprop", false, "disable copy propagation"),
			cli.NewFlag("fixpoint", false, "rerun the pass pipeline until the IR stops changing"),
			cli.NewFlag("egraph", false, "record per-class rewrite history for introspection"),

			cli.HelpFlag,
			cli.FlagfileFlag,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func compileAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	opts := compiler.Options{
		Passes: optimize.Options{
			SkipPeel:     c.Bool("no-peel"),
			SkipAddLoop:  c.Bool("no-addloop"),
			SkipCopyProp: c.Bool("no-copyprop"),
			Fixpoint:     c.Bool("fixpoint"),
			DumpPasses:   c.Bool("dump-passes"),
		},
		EGraph: c.Bool("egraph"),
	}

	for _, a := range c.Args {
		text, err := compiler.CompileFile(ctx, a, opts)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		fmt.Printf("%s", text)
	}

	return nil
}
