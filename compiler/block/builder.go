package block

import (
	"tlog.app/go/tlog"

	"github.com/bfrs/bfrs/compiler/node"
)

// Builder accumulates a single Block's worth of `+`, `-`, `>`, `<`, `.`,
// `,` before it is frozen at a control-flow boundary. It avoids allocating
// an intermediate Add node per `+`/`-` character by keeping a pending
// addend per touched offset and only materializing the arithmetic when the
// cell's value is read or the block is frozen.
type Builder struct {
	id      node.BlockID
	shift   node.Offset
	delta   map[node.Offset]node.ID
	addends map[node.Offset]uint8
	effects []Effect

	guardedLeft, guardedRight node.Offset
}

// NewBuilder starts accumulating a fresh block with the given id.
func NewBuilder(id node.BlockID) *Builder {
	return &Builder{
		id:      id,
		delta:   make(map[node.Offset]node.ID),
		addends: make(map[node.Offset]uint8),
	}
}

// EmitAdd composes a constant addend into the cell at the builder's
// current pointer position. k=255 represents `-1`.
func (b *Builder) EmitAdd(k uint8) {
	b.addends[b.shift] += k
}

// EmitShift advances the builder's running shift by delta, and records a
// GuardShift effect the first time the shift moves outside the extent
// already known reachable.
func (b *Builder) EmitShift(delta int64, a *node.Arena) {
	b.shift = b.shift.Add(delta)
	b.EmitGuard(b.shift, a)
}

// EmitGuard asserts offset is reachable, extending the guarded extent and
// emitting a GuardShift effect only the first time offset falls outside
// it; within the block it is idempotent.
func (b *Builder) EmitGuard(offset node.Offset, a *node.Arena) {
	if offset >= b.guardedLeft && offset <= b.guardedRight {
		return
	}
	if offset < b.guardedLeft {
		b.guardedLeft = offset
	} else {
		b.guardedRight = offset
	}
	b.effects = append(b.effects, Effect{Kind: EffectGuardShift, Offset: offset})
}

// current returns the pure-node id of the cell at the builder's pointer,
// materializing a pending addend into an Add node only when read.
func (b *Builder) current(a *node.Arena) node.ID {
	base, ok := b.delta[b.shift]
	if !ok {
		base = a.Copy(b.shift, b.id)
	}
	if k := b.addends[b.shift]; k != 0 {
		return a.Add(base, a.Const(k))
	}
	return base
}

// EmitOutput pushes the current cell's value into an Output effect,
// coalescing with an immediately preceding Output.
func (b *Builder) EmitOutput(a *node.Arena) {
	v := b.current(a)
	if n := len(b.effects); n > 0 && b.effects[n-1].Kind == EffectOutput {
		b.effects[n-1].Values = append(b.effects[n-1].Values, v)
		return
	}
	b.effects = append(b.effects, Effect{Kind: EffectOutput, Values: []node.ID{v}})
}

// EmitInput reads a fresh input byte into the current cell, invalidating
// any pending Delta/addend at this offset.
func (b *Builder) EmitInput(a *node.Arena) {
	in := a.FreshInput()
	b.delta[b.shift] = in
	delete(b.addends, b.shift)
	b.effects = append(b.effects, Effect{Kind: EffectInput, Sink: in})
}

// IsEmpty reports whether nothing has been accumulated yet; used by the
// Builder in compiler/build to elide adjacent empty blocks.
func (b *Builder) IsEmpty() bool {
	return len(b.delta) == 0 && len(b.addends) == 0 && len(b.effects) == 0 &&
		b.shift == 0 && b.guardedLeft == 0 && b.guardedRight == 0
}

// Freeze materializes pending addends into Delta entries and returns the
// immutable Frozen block, ready to be wrapped by a CFG node.
func (b *Builder) Freeze(a *node.Arena) Frozen {
	for offset, k := range b.addends {
		if k == 0 {
			continue
		}
		base, ok := b.delta[offset]
		if !ok {
			base = a.Copy(offset, b.id)
		}
		b.delta[offset] = a.Add(base, a.Const(k))
	}
	if a.Debug {
		tlog.Printw("block frozen", "id", b.id, "cells", len(b.delta), "shift", b.shift, "effects", len(b.effects))
	}
	return Frozen{
		ID:      b.id,
		Delta:   b.delta,
		Effects: b.effects,
		Shift:   b.shift,
	}
}
