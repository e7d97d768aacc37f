package optimize

import (
	"tlog.app/go/tlog"

	"github.com/bfrs/bfrs/compiler/block"
	"github.com/bfrs/bfrs/compiler/cfg"
	"github.com/bfrs/bfrs/compiler/node"
)

// AddLoop rewrites a Loop whose body decrements cell 0 by exactly one per
// iteration, and whose every other touched cell accumulates a
// loop-invariant addend, into its closed form: an If, guarded on the
// counter being nonzero at entry, containing a single pass of the same
// arithmetic scaled by the counter's entry value.
//
// Only the unit-decrement case is recognized: the counter reaches zero in
// exactly Copy(0, enter) iterations, since in 8-bit modular arithmetic a
// unit decrement always terminates within 256 steps. A loop stepping by
// any other amount may wrap or never terminate, so it is left alone.
func AddLoop(a *node.Arena, n cfg.Node) cfg.Node {
	return cfg.Transform(n, func(n cfg.Node) cfg.Node {
		lp, ok := n.(*cfg.Loop)
		if !ok {
			return n
		}
		b, ok := lp.Body.(*cfg.Block)
		if !ok {
			return n
		}
		if _, pure := b.Frozen.IsPure(); !pure {
			return n
		}
		rewritten, ok := closedForm(a, b.Frozen)
		if !ok {
			return n
		}

		tlog.V("addloop").Printw("affine loop rewritten", "block", rewritten.ID, "cells", len(rewritten.Delta))

		for offset, old := range b.Frozen.Delta {
			a.Union(old, rewritten.Delta[offset], "addloop", true)
		}

		return &cfg.If{
			Cond: a.IsZero(a.Copy(0, rewritten.ID)),
			Then: &cfg.Block{Frozen: rewritten},
		}
	})
}

// closedForm returns the rewritten block if f is eligible, or ok=false
// (and f itself, unused) if it is not; an ineligible loop body is left
// byte-for-byte unchanged.
func closedForm(a *node.Arena, f block.Frozen) (block.Frozen, bool) {
	if f.Shift != 0 {
		return f, false
	}
	counter, ok := f.Delta[0]
	if !ok {
		return f, false
	}
	n := a.Get(counter)
	if n.Kind != node.KindAdd {
		return f, false
	}
	lhs, rhs := a.Get(n.L), a.Get(n.R)
	var decrement node.ID
	switch {
	case lhs.Kind == node.KindCopy && lhs.Block == f.ID && lhs.Offset == 0 && rhs.Kind == node.KindConst:
		decrement = n.R
	case rhs.Kind == node.KindCopy && rhs.Block == f.ID && rhs.Offset == 0 && lhs.Kind == node.KindConst:
		decrement = n.L
	default:
		return f, false
	}
	if a.Get(decrement).K != 255 {
		return f, false
	}

	newDelta := make(map[node.Offset]node.ID, len(f.Delta))
	iters := a.Copy(0, f.ID) // factor is always 1 for a unit decrement
	for offset, v := range f.Delta {
		if offset == 0 {
			newDelta[0] = a.Const(0)
			continue
		}
		if a.Get(v).Kind == node.KindConst {
			// stored afresh every iteration; the If guard means at least
			// one iteration ran, so the last store is the exit value.
			newDelta[offset] = v
			continue
		}
		rest, ok := a.IsAddAssignAt(v, offset, f.ID)
		if !ok {
			return f, false
		}
		newDelta[offset] = a.Add(a.Copy(offset, f.ID), a.Mul(rest, iters))
	}

	return block.Frozen{ID: f.ID, Delta: newDelta, Effects: f.Effects, Shift: 0}, true
}
