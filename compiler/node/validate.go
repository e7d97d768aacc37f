package node

import "github.com/bfrs/bfrs/compiler/bferrors"

// Validate checks that every id referenced by roots is within the arena's
// allocated range, so a pass never hands a dangling or out-of-range id to
// a downstream consumer. Structural invariants over blocks (Delta
// locality, guard extents) are checked by block.Frozen.Validate and
// cfg.Validate instead; Arena has no visibility into block/cfg shapes.
func (a *Arena) Validate(roots ...ID) error {
	for _, id := range roots {
		if id <= 0 || int(id) >= len(a.nodes) {
			return bferrors.New(bferrors.InternalInvariant, "node: id %d out of range [1,%d)", id, len(a.nodes))
		}
		n := a.nodes[id]
		for _, child := range []ID{n.L, n.R} {
			if child == 0 {
				continue
			}
			if child <= 0 || int(child) >= len(a.nodes) {
				return bferrors.New(bferrors.InternalInvariant, "node: id %d references out-of-range child %d", id, child)
			}
		}
	}
	return nil
}
