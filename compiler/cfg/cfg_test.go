package cfg

import (
	"testing"

	"github.com/bfrs/bfrs/compiler/block"
	"github.com/bfrs/bfrs/compiler/node"
)

func leaf(id node.BlockID) *Block {
	return &Block{Frozen: block.Frozen{ID: id}}
}

func TestSeqAppendFlattensNestedSeq(t *testing.T) {
	var s Seq
	s = s.Append(leaf(1))
	s = s.Append(Seq{Children: []Node{leaf(2), leaf(3)}})

	if len(s.Children) != 3 {
		t.Fatalf("got %d children, want 3 (nested Seq spliced in)", len(s.Children))
	}
	for _, c := range s.Children {
		if _, ok := c.(Seq); ok {
			t.Fatal("Seq must not contain a nested Seq")
		}
	}
}

func TestFlattenCollapsesSingleton(t *testing.T) {
	only := leaf(1)
	s := Seq{Children: []Node{only}}
	if got := Flatten(s); got != Node(only) {
		t.Fatalf("Flatten(singleton Seq) = %#v, want the sole child", got)
	}
}

func TestWalkVisitsEveryNode(t *testing.T) {
	tree := Seq{Children: []Node{
		leaf(1),
		&If{Cond: 0, Then: leaf(2)},
		&Loop{Body: leaf(3)},
	}}

	var visited []Node
	Walk(tree, func(n Node) { visited = append(visited, n) })

	// tree itself, then 3 children, then If.Then and Loop.Body.
	if len(visited) != 6 {
		t.Fatalf("visited %d nodes, want 6", len(visited))
	}
}

func TestTransformRebuildsBottomUp(t *testing.T) {
	tree := Seq{Children: []Node{leaf(1), &If{Cond: 0, Then: leaf(2)}}}

	var sawLeaves int
	out := Transform(tree, func(n Node) Node {
		if _, ok := n.(*Block); ok {
			sawLeaves++
		}
		return n
	})

	if sawLeaves != 2 {
		t.Fatalf("Transform visited %d leaves, want 2", sawLeaves)
	}
	if _, ok := out.(Seq); !ok {
		t.Fatalf("Transform(Seq) = %T, want Seq", out)
	}
}
