package block

import "github.com/bfrs/bfrs/compiler/node"

// CloneFresh rewrites id so that Copy(_, from) becomes Copy(_, to) (same
// offset, new block identity) and every distinct Input encountered gets a
// fresh id, reusing the same fresh id for repeated references to the same
// original input within this one clone. Used to produce an independent,
// non-aliasing copy of a block's expressions; e.g. the unrolled prefix
// iteration created by quasi-invariant peeling.
func CloneFresh(a *node.Arena, id node.ID, from, to node.BlockID, inputs map[node.ID]node.ID) node.ID {
	n := a.Get(id)
	switch n.Kind {
	case node.KindCopy:
		if n.Block != from {
			return id
		}
		return a.Copy(n.Offset, to)
	case node.KindInput:
		if v, ok := inputs[id]; ok {
			return v
		}
		v := a.FreshInput()
		inputs[id] = v
		return v
	case node.KindAdd:
		return a.Add(CloneFresh(a, n.L, from, to, inputs), CloneFresh(a, n.R, from, to, inputs))
	case node.KindMul:
		return a.Mul(CloneFresh(a, n.L, from, to, inputs), CloneFresh(a, n.R, from, to, inputs))
	case node.KindIsZero:
		return a.IsZero(CloneFresh(a, n.L, from, to, inputs))
	case node.KindIsEven:
		return a.IsEven(CloneFresh(a, n.L, from, to, inputs))
	default: // Const, True
		return id
	}
}

// CloneFresh returns an independent copy of f under a freshly allocated
// block id, with every input reference replaced by a fresh one.
func (f Frozen) CloneFresh(a *node.Arena) Frozen {
	newID := a.FreshBlockID()
	inputs := make(map[node.ID]node.ID)

	newDelta := make(map[node.Offset]node.ID, len(f.Delta))
	for o, v := range f.Delta {
		newDelta[o] = CloneFresh(a, v, f.ID, newID, inputs)
	}

	newEffects := make([]Effect, len(f.Effects))
	for i, e := range f.Effects {
		newEffects[i] = e.cloneFresh(a, f.ID, newID, inputs)
	}

	return Frozen{ID: newID, Delta: newDelta, Effects: newEffects, Shift: f.Shift}
}

func (e Effect) cloneFresh(a *node.Arena, from, to node.BlockID, inputs map[node.ID]node.ID) Effect {
	switch e.Kind {
	case EffectOutput:
		values := make([]node.ID, len(e.Values))
		for i, v := range e.Values {
			values[i] = CloneFresh(a, v, from, to, inputs)
		}
		return Effect{Kind: EffectOutput, Values: values}
	case EffectInput:
		return Effect{Kind: EffectInput, Sink: CloneFresh(a, e.Sink, from, to, inputs)}
	default: // GuardShift
		return e
	}
}
