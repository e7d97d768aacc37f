package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/bfrs/bfrs/compiler/bferrors"
	"github.com/bfrs/bfrs/compiler/build"
	"github.com/bfrs/bfrs/compiler/lex"
	"github.com/bfrs/bfrs/compiler/node"
	"github.com/bfrs/bfrs/compiler/optimize"
	"github.com/bfrs/bfrs/compiler/pretty"
)

type Options struct {
	Passes optimize.Options

	// EGraph records per-class rewrite history in the arena for
	// introspection. Off by default; it never changes what is compiled.
	EGraph bool
}

func CompileFile(ctx context.Context, name string, opts Options) (text []byte, err error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, bferrors.Wrap(bferrors.InputIO, err, "read source")
	}

	tlog.SpanFromContext(ctx).Printw("read source", "size", len(src), "name", name)

	return Compile(ctx, name, src, opts)
}

func Compile(ctx context.Context, name string, src []byte, opts Options) (text []byte, err error) {
	tr := tlog.SpanFromContext(ctx)

	toks, err := lex.Scan(src)
	if err != nil {
		return nil, errors.Wrap(err, "lex %v", name)
	}

	a := node.NewArena(opts.EGraph)
	a.Debug = opts.Passes.DumpPasses

	root, err := build.Build(a, toks)
	if err != nil {
		return nil, errors.Wrap(err, "build ir")
	}

	tr.Printw("ir built", "tokens", len(toks), "nodes", a.Len())

	root, err = optimize.Run(a, root, opts.Passes)
	if err != nil {
		return nil, errors.Wrap(err, "optimize")
	}

	tr.Printw("ir optimized", "nodes", a.Len())

	return []byte(pretty.Print(a, root)), nil
}
