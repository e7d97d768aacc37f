package node

import "tlog.app/go/tlog"

// Arena is the hash-consed store of pure nodes. Every unique, idealized
// node is stored exactly once; Copy and Input are the exception; Copy is
// the sole source of fresh symbolic tape reads, and Input the sole source
// of fresh symbolic input reads, so both are always inserted fresh rather
// than deduplicated.
type Arena struct {
	nodes []Node      // dense, 1-based: nodes[0] is a sentinel, never returned as an ID
	table map[Node]ID // hash-cons table for Const/Add/Mul/IsZero/IsEven/True

	nextBlock BlockID
	nextInput InputID

	classes map[ID]eclass // populated only when the e-graph variant is enabled
	egraph  bool

	Debug bool // when true, intern hits/misses and rewrites are tlog'd
}

// NewArena constructs an empty arena. egraph enables the e-graph
// introspection table; the tree variant (egraph=false) never populates it.
func NewArena(egraph bool) *Arena {
	a := &Arena{
		nodes: make([]Node, 1),
		table: make(map[Node]ID),
		egraph: egraph,
	}
	if egraph {
		a.classes = make(map[ID]eclass)
	}
	return a
}

// Get returns the node record for id.
func (a *Arena) Get(id ID) Node {
	return a.nodes[id]
}

// Len returns the number of nodes stored, including Copy/Input duplicates.
func (a *Arena) Len() int { return len(a.nodes) - 1 }

// insertFresh always allocates a new id, used for Copy and Input.
func (a *Arena) insertFresh(n Node) ID {
	id := ID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	if a.Debug {
		tlog.Printw("arena insert (fresh)", "id", id, "kind", n.Kind)
	}
	return id
}

// internHashed returns the existing id for an idealized node equal to n, or
// inserts and returns a new one. Used for Const/Add/Mul/IsZero/IsEven/True,
// the only kinds for which two structurally-equal values must collapse to
// one id.
func (a *Arena) internHashed(n Node) ID {
	if id, ok := a.table[n]; ok {
		if a.Debug {
			tlog.Printw("arena intern (hit)", "id", id, "kind", n.Kind)
		}
		return id
	}
	id := ID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	a.table[n] = id
	if a.Debug {
		tlog.Printw("arena intern (miss)", "id", id, "kind", n.Kind)
	}
	return id
}

// Const interns a constant byte.
func (a *Arena) Const(k uint8) ID {
	return a.internHashed(constNode(k))
}

// Copy creates a fresh reference to the value of the cell at offset at the
// entry of block. Never deduplicated.
func (a *Arena) Copy(offset Offset, block BlockID) ID {
	return a.insertFresh(copyNode(offset, block))
}

// FreshInput allocates a new, monotonically-increasing input id and
// returns an Input node reading it. Never deduplicated, never reused.
func (a *Arena) FreshInput() ID {
	id := a.nextInput
	a.nextInput++
	return a.insertFresh(inputNode(id))
}

// FreshBlockID allocates a new, unique block id.
func (a *Arena) FreshBlockID() BlockID {
	id := a.nextBlock
	a.nextBlock++
	return id
}

// True interns the trivially-true predicate.
func (a *Arena) True() ID {
	return a.internHashed(trueNode())
}
