// Package block implements the effectful region of the IR: an ordered
// sequence of Effects plus a sparse per-offset Delta of the cell's new
// value relative to the region's entry.
package block

import (
	"sort"

	"github.com/bfrs/bfrs/compiler/node"
)

// Frozen is the immutable snapshot of a Block taken at a control-flow
// boundary; its Delta, net shift, and effect list become operands of the
// enclosing structured node.
type Frozen struct {
	ID      node.BlockID
	Delta   map[node.Offset]node.ID
	Effects []Effect
	Shift   node.Offset
}

// Effect is an observable action taken while executing a Block.
type Effect struct {
	Kind EffectKind

	// Output
	Values []node.ID

	// Input
	Sink node.ID

	// GuardShift
	Offset node.Offset
}

type EffectKind uint8

const (
	_ EffectKind = iota
	EffectOutput
	EffectInput
	EffectGuardShift
)

// IsPure reports whether f has no I/O effects and, if so, whether it has
// any GuardShift effects: ok is false when there is I/O (the block cannot
// be considered for loop-to-multiply or peeling rewrites); when ok is
// true, guards reports whether any GuardShift effects must be carried into
// a rewritten form.
func (f Frozen) IsPure() (guards bool, ok bool) {
	ok = true
	for _, e := range f.Effects {
		if e.Kind != EffectGuardShift {
			return false, false
		}
		guards = true
	}
	return guards, true
}

// Equal reports whether f and g hold identical contents: same id, shift,
// Delta entries, and effect list. Node ids are compared directly; equal
// idealized nodes share an id, so id equality is value equality.
func (f Frozen) Equal(g Frozen) bool {
	if f.ID != g.ID || f.Shift != g.Shift || len(f.Delta) != len(g.Delta) || len(f.Effects) != len(g.Effects) {
		return false
	}
	for o, v := range f.Delta {
		if w, ok := g.Delta[o]; !ok || v != w {
			return false
		}
	}
	for i, e := range f.Effects {
		if !e.Equal(g.Effects[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether e and o are the same effect with the same operands.
func (e Effect) Equal(o Effect) bool {
	if e.Kind != o.Kind || e.Sink != o.Sink || e.Offset != o.Offset || len(e.Values) != len(o.Values) {
		return false
	}
	for i, v := range e.Values {
		if v != o.Values[i] {
			return false
		}
	}
	return true
}

// SortedOffsets returns the offsets present in Delta, ascending; used by
// the pretty-printer and by passes that need deterministic iteration order.
func (f Frozen) SortedOffsets() []node.Offset {
	offs := make([]node.Offset, 0, len(f.Delta))
	for o := range f.Delta {
		offs = append(offs, o)
	}
	sort.Slice(offs, func(i, j int) bool { return offs[i] < offs[j] })
	return offs
}
