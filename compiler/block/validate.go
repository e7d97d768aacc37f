package block

import (
	"fmt"

	"github.com/bfrs/bfrs/compiler/node"
)

// Validate checks that every Delta entry and Output value only references
// Copy nodes rooted at this block's own id, never another block's; a
// Block's Delta must never reach into a sibling's coordinate frame. Used
// by compiler/optimize's post-pass checks.
func (f Frozen) Validate(a *node.Arena) error {
	for _, v := range f.Delta {
		if err := checkLocal(a, v, f.ID); err != nil {
			return err
		}
	}
	for _, e := range f.Effects {
		if e.Kind != EffectOutput {
			continue
		}
		for _, v := range e.Values {
			if err := checkLocal(a, v, f.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkLocal(a *node.Arena, id node.ID, owner node.BlockID) error {
	n := a.Get(id)
	switch n.Kind {
	case node.KindCopy:
		if n.Block != owner {
			return &foreignCopyError{id: id, owner: owner, foreign: n.Block}
		}
	case node.KindAdd, node.KindMul:
		if err := checkLocal(a, n.L, owner); err != nil {
			return err
		}
		return checkLocal(a, n.R, owner)
	case node.KindIsZero, node.KindIsEven:
		return checkLocal(a, n.L, owner)
	}
	return nil
}

type foreignCopyError struct {
	id      node.ID
	owner   node.BlockID
	foreign node.BlockID
}

func (e *foreignCopyError) Error() string {
	return fmt.Sprintf("block: %v references node %d, a Copy of foreign block %v", e.owner, e.id, e.foreign)
}
