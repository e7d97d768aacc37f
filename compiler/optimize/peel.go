package optimize

import (
	"tlog.app/go/tlog"

	"github.com/bfrs/bfrs/compiler/block"
	"github.com/bfrs/bfrs/compiler/cfg"
	"github.com/bfrs/bfrs/compiler/node"
	"github.com/bfrs/bfrs/compiler/set"
)

// Peel recursively peels a quasi-invariant first iteration off any Loop
// whose body is a single Block with no net shift, no I/O effects, and at
// least one store that reads only cells the loop leaves alone, turning:
//
//	Loop(B)  =>  If(Seq(B, Loop(B')))
//
// where B' is a fresh copy of B with every invariant store removed, so
// those offsets keep their peeled-iteration value unchanged across the
// residual loop. Removing a store can make another store's sources
// unwritten, so the recursion peels chains of quasi-invariant copies one
// round at a time; the shrinking Delta bounds the depth. A body with
// Output or Input effects is never peeled: the peeled iteration would
// duplicate the I/O.
func Peel(a *node.Arena, n cfg.Node) cfg.Node {
	switch t := n.(type) {
	case *cfg.Block:
		return t
	case cfg.Seq:
		children := make([]cfg.Node, 0, len(t.Children))
		for _, c := range t.Children {
			children = append(children, Peel(a, c))
		}
		return cfg.Flatten(cfg.Seq{Children: children})
	case *cfg.If:
		return &cfg.If{Cond: t.Cond, Then: Peel(a, t.Then)}
	case *cfg.Loop:
		if b, ok := t.Body.(*cfg.Block); ok && peelable(b.Frozen) {
			if invariant := invariantOffsets(a, b.Frozen); invariant.Size() > 0 {
				tlog.V("peel").Printw("peeling invariant stores", "block", b.Frozen.ID, "offsets", invariant)

				tail := b.Frozen.CloneFresh(a)
				removeInvariantStores(&tail, invariant)
				rewritten := &cfg.If{
					Cond: a.IsZero(a.Copy(0, b.Frozen.ID)),
					Then: cfg.Flatten(cfg.Seq{Children: []cfg.Node{
						b,
						&cfg.Loop{Body: &cfg.Block{Frozen: tail}},
					}}),
				}
				return Peel(a, rewritten)
			}
		}
		return &cfg.Loop{Body: Peel(a, t.Body)}
	default:
		return n
	}
}

func peelable(f block.Frozen) bool {
	if f.Shift != 0 {
		return false
	}
	_, pure := f.IsPure()
	return pure
}

// invariantOffsets computes, in one pass over f's entire Delta, the set of
// offsets whose stored value reads only cells the loop leaves alone; such
// a store writes the same value every iteration, so it persists unchanged
// once one iteration has run. All of them peel together in the same round,
// so the peel depth stays minimal no matter what order the stores were
// discovered in. A store reading a cell that is itself written this round
// (even an invariant one) is deferred to the next round: it must observe
// the peeled iteration's write first.
func invariantOffsets(a *node.Arena, f block.Frozen) set.Bits[node.Offset] {
	base := node.Offset(0)
	for offset := range f.Delta {
		if offset < base {
			base = offset
		}
	}

	s := set.MakeBits(base)
	for offset, v := range f.Delta {
		if readsOnlyUnwritten(a, v, f) {
			s.Set(offset)
		}
	}
	return s
}

// readsOnlyUnwritten reports whether id's value depends only on cells of f
// that f's own Delta does not write (reads of other blocks and constants
// are fine; an Input read never is, it would be consumed again every
// iteration).
func readsOnlyUnwritten(a *node.Arena, id node.ID, f block.Frozen) bool {
	n := a.Get(id)
	switch n.Kind {
	case node.KindCopy:
		if n.Block != f.ID {
			return true
		}
		_, written := f.Delta[n.Offset]
		return !written
	case node.KindInput:
		return false
	case node.KindAdd, node.KindMul:
		return readsOnlyUnwritten(a, n.L, f) && readsOnlyUnwritten(a, n.R, f)
	case node.KindIsZero, node.KindIsEven:
		return readsOnlyUnwritten(a, n.L, f)
	default: // Const, True
		return true
	}
}

// removeInvariantStores deletes every Delta entry whose offset is in
// invariant, leaving the residual loop's cell untouched there (it keeps the
// value carried over from the peeled first iteration).
func removeInvariantStores(f *block.Frozen, invariant set.Bits[node.Offset]) {
	for offset := range f.Delta {
		if invariant.IsSet(offset) {
			delete(f.Delta, offset)
		}
	}
}
