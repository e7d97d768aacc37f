package optimize

import (
	"github.com/bfrs/bfrs/compiler/block"
	"github.com/bfrs/bfrs/compiler/cfg"
	"github.com/bfrs/bfrs/compiler/node"
)

// CopyProp replaces a Block's Copy(offset, self) references; its own
// entry value at that offset; with a constant whenever the entry state is
// statically known to hold one. A non-constant predecessor value is left
// as a Copy: propagating a symbolic value wouldn't simplify anything and
// risks a Block's Delta reaching outside its own entry frame.
//
// Three sources feed the known entry state:
//
//   - the program start, where every cell is zero;
//   - a preceding sibling Block, via its frozen Delta (rebased by the
//     block's net shift);
//   - an If produced by the add-loop pass, whose counter cell is zero on
//     exit no matter which way the condition went: the taken branch stores
//     Const(0), the untaken branch means the cell already was zero.
//
// The state resets to unknown across a Loop boundary (a loop's entry
// state isn't statically known to equal any one predecessor once it has
// iterated), and propagation is iterated to a local fixpoint over each
// Seq.
func CopyProp(a *node.Arena, n cfg.Node) cfg.Node {
	out, _, _ := copyPropNode(a, n, &entryState{zero: true})
	return out
}

// entryState is what is statically known about the tape at a node's
// entry: an optional predecessor block whose Delta holds (offsets rebased
// by its Shift), and whether every cell it doesn't name is known zero -
// true only at program start, before any loop or branch has run.
type entryState struct {
	f    *block.Frozen
	zero bool
}

// lookup returns the constant the cell at offset o (in the successor's
// frame) is known to hold at entry, if any. A non-constant Delta entry
// shadows the zero page: the cell was written, just not with a constant.
func (p *entryState) lookup(a *node.Arena, o node.Offset) (node.ID, bool) {
	if p == nil {
		return 0, false
	}
	if p.f != nil {
		if v, ok := p.f.Delta[o.Add(int64(p.f.Shift))]; ok {
			if a.Get(v).Kind == node.KindConst {
				return v, true
			}
			return 0, false
		}
	}
	if p.zero {
		return a.Const(0), true
	}
	return 0, false
}

// copyPropNode rewrites n given the entry state established before it
// (pred, or nil if unknown). It returns the rewritten node, the state n
// itself establishes for whatever follows it in an enclosing Seq, and
// whether anything was substituted; the original n is returned untouched
// when nothing was, so callers can detect fixpoint by the changed flag
// alone.
func copyPropNode(a *node.Arena, n cfg.Node, pred *entryState) (cfg.Node, *entryState, bool) {
	switch t := n.(type) {
	case *cfg.Block:
		rewritten, changed := copyConstBlock(a, t.Frozen, pred)
		zero := pred != nil && pred.zero && pred.f == nil
		if !changed {
			return t, &entryState{f: &t.Frozen, zero: zero}, false
		}
		out := &cfg.Block{Frozen: rewritten}
		return out, &entryState{f: &out.Frozen, zero: zero}, true
	case cfg.Seq:
		anyChanged := false
		for {
			changed := false
			cur := pred
			children := make([]cfg.Node, len(t.Children))
			for i, c := range t.Children {
				var ch bool
				children[i], cur, ch = copyPropNode(a, c, cur)
				changed = changed || ch
			}
			t = cfg.Seq{Children: children}
			anyChanged = anyChanged || changed
			if !changed {
				break
			}
		}
		return t, nil, anyChanged
	case *cfg.If:
		// propagation feeds the successor of a structured node, never its
		// branch: the branch only runs when the guarding cell is nonzero,
		// a case the entry state says nothing useful about.
		then, _, changed := copyPropNode(a, t.Then, nil)
		out := t
		if changed {
			out = &cfg.If{Cond: t.Cond, Then: then}
		}
		return out, ifExitState(a, out), changed
	case *cfg.Loop:
		body, _, changed := copyPropNode(a, t.Body, nil)
		if !changed {
			return t, nil, false
		}
		return &cfg.Loop{Body: body}, nil, true
	default:
		return n, nil, false
	}
}

// ifExitState returns the state an If is known to establish regardless of
// whether its branch ran. Only the guarding cell qualifies: when the
// branch stores Const(0) into offset 0 and the condition is "cell 0
// nonzero", the untaken path implies the cell already held zero, so the
// cell is zero on exit either way. No other offset can be claimed; the
// untaken path leaves them at whatever they were.
func ifExitState(a *node.Arena, f *cfg.If) *entryState {
	if a.Get(f.Cond).Kind != node.KindIsZero {
		return nil
	}
	b, ok := f.Then.(*cfg.Block)
	if !ok || b.Frozen.Shift != 0 {
		return nil
	}
	v, ok := b.Frozen.Delta[0]
	if !ok {
		return nil
	}
	if n := a.Get(v); n.Kind != node.KindConst || n.K != 0 {
		return nil
	}
	return &entryState{f: &block.Frozen{Delta: map[node.Offset]node.ID{0: v}}}
}

// copyConstBlock rewrites every Delta entry and Output value in f that
// reads Copy(offset, f.ID) to the entry constant for that offset, when one
// is known, reporting whether any node actually changed.
func copyConstBlock(a *node.Arena, f block.Frozen, pred *entryState) (block.Frozen, bool) {
	changed := false

	newDelta := make(map[node.Offset]node.ID, len(f.Delta))
	for offset, v := range f.Delta {
		nv := substituteCopyConst(a, v, f.ID, pred)
		changed = changed || nv != v
		newDelta[offset] = nv
	}

	newEffects := make([]block.Effect, len(f.Effects))
	for i, e := range f.Effects {
		if e.Kind != block.EffectOutput {
			newEffects[i] = e
			continue
		}
		values := make([]node.ID, len(e.Values))
		for j, v := range e.Values {
			nv := substituteCopyConst(a, v, f.ID, pred)
			changed = changed || nv != v
			values[j] = nv
		}
		newEffects[i] = block.Effect{Kind: block.EffectOutput, Values: values}
	}

	if !changed {
		return f, false
	}
	return block.Frozen{ID: f.ID, Delta: newDelta, Effects: newEffects, Shift: f.Shift}, true
}

func substituteCopyConst(a *node.Arena, id node.ID, curr node.BlockID, pred *entryState) node.ID {
	n := a.Get(id)
	switch n.Kind {
	case node.KindCopy:
		if n.Block != curr {
			return id
		}
		if v, ok := pred.lookup(a, n.Offset); ok {
			a.Union(id, v, "copyprop", true)
			return v
		}
		return id
	case node.KindAdd:
		return a.Add(substituteCopyConst(a, n.L, curr, pred), substituteCopyConst(a, n.R, curr, pred))
	case node.KindMul:
		return a.Mul(substituteCopyConst(a, n.L, curr, pred), substituteCopyConst(a, n.R, curr, pred))
	case node.KindIsZero:
		return a.IsZero(substituteCopyConst(a, n.L, curr, pred))
	case node.KindIsEven:
		return a.IsEven(substituteCopyConst(a, n.L, curr, pred))
	default: // Const, Input, True
		return id
	}
}
