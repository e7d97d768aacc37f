// Package cfg implements the structured control-flow graph that Blocks are
// composed into: Seq, If, and Loop.
package cfg

import (
	"github.com/bfrs/bfrs/compiler/block"
	"github.com/bfrs/bfrs/compiler/node"
)

// Node is one of *Block, Seq, *If, or *Loop. There is no separate
// interface method set beyond the marker below; passes type-switch on the
// concrete type.
type Node interface {
	isNode()
}

// Block wraps a frozen effectful region as a leaf CFG node.
type Block struct {
	Frozen block.Frozen
}

// Seq is an ordered sequence of sibling CFG nodes. The Builder never
// produces a Seq directly containing another Seq; Append splices children
// in, keeping the tree flat.
type Seq struct {
	Children []Node
}

// If executes Then when the cell Cond tests is nonzero at entry. Cond is
// always an IsZero predicate on cell 0 of the guarded region; no pass
// builds any other kind of Cond, and the pretty-printer and bfinterp test
// cell 0 directly without reading Cond. There is no Else arm.
type If struct {
	Cond node.ID
	Then Node
}

// Loop repeats Body while the cell at offset 0, at the entry of Body's own
// first Block, is nonzero.
type Loop struct {
	Body Node
}

func (*Block) isNode() {}
func (Seq) isNode()    {}
func (*If) isNode()    {}
func (*Loop) isNode()  {}

// Append adds child to seq, splicing child's own children in directly if
// child is itself a Seq, so Seq never nests.
func (s Seq) Append(child Node) Seq {
	if inner, ok := child.(Seq); ok {
		s.Children = append(s.Children, inner.Children...)
		return s
	}
	s.Children = append(s.Children, child)
	return s
}

// Flatten collapses a length-1 Seq to its sole child and recursively
// flattens nested Seqs that may have been produced by rewrites (passes
// build new Seq values directly rather than going through Append).
func Flatten(n Node) Node {
	seq, ok := n.(Seq)
	if !ok {
		return n
	}
	var flat Seq
	for _, c := range seq.Children {
		flat = flat.Append(Flatten(c))
	}
	if len(flat.Children) == 1 {
		return flat.Children[0]
	}
	return flat
}
