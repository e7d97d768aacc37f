// Package optimize implements the three IR-to-IR rewrite passes (peeling,
// add-loop closed-form recognition, copy propagation) and the fixed
// pipeline that runs them.
package optimize

import (
	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/bfrs/bfrs/compiler/bferrors"
	"github.com/bfrs/bfrs/compiler/cfg"
	"github.com/bfrs/bfrs/compiler/node"
)

// Options toggles individual passes and the whole-IR fixpoint mode, mirroring
// the debug flags cmd/bfrs exposes (-no-peel, -no-addloop, -no-copyprop,
// -fixpoint).
type Options struct {
	SkipPeel     bool
	SkipAddLoop  bool
	SkipCopyProp bool

	// Fixpoint re-runs the full peel -> addloop -> copyprop sequence until
	// a round produces no change, instead of running it exactly once.
	Fixpoint bool

	// DumpPasses re-validates the IR after every individual pass and logs
	// the arena size, matching the CLI's -dump-passes flag.
	DumpPasses bool
}

// Run applies the pipeline to n in the fixed order peel, then
// add-loop-to-closed-form, then copy propagation, and returns the
// rewritten CFG. Each pass is handed the whole tree and the shared Arena
// and is the pipeline's sole writer for its turn. An error is only ever
// returned when DumpPasses is set and a pass produces IR that violates a
// structural invariant.
func Run(a *node.Arena, n cfg.Node, opts Options) (cfg.Node, error) {
	for {
		next, err := runOnce(a, n, opts)
		if err != nil {
			return nil, err
		}
		if !opts.Fixpoint || cfg.Equal(next, n) {
			return next, nil
		}
		n = next
	}
}

func runOnce(a *node.Arena, n cfg.Node, opts Options) (cfg.Node, error) {
	if !opts.SkipPeel {
		n = Peel(a, n)
		if err := checkpoint(a, n, opts, "peel"); err != nil {
			return nil, err
		}
	}
	if !opts.SkipAddLoop {
		n = AddLoop(a, n)
		if err := checkpoint(a, n, opts, "addloop"); err != nil {
			return nil, err
		}
	}
	if !opts.SkipCopyProp {
		n = CopyProp(a, n)
		if err := checkpoint(a, n, opts, "copyprop"); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// checkpoint re-validates n after a pass when DumpPasses is set, returning
// a diagnostic naming the pass on an invariant violation.
func checkpoint(a *node.Arena, n cfg.Node, opts Options, pass string) error {
	if !opts.DumpPasses {
		return nil
	}
	if err := cfg.Validate(a, n); err != nil {
		return bferrors.Wrap(bferrors.InternalInvariant,
			errors.Wrap(err, "pass %v", pass), "optimize: invariant violated")
	}
	tlog.Printw("pass complete", "pass", pass, "nodes", a.Len(), "from", loc.Caller(1))
	return nil
}
