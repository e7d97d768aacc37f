package block

import (
	"testing"

	"github.com/bfrs/bfrs/compiler/node"
)

func TestBuilderCoalescesAdds(t *testing.T) {
	a := node.NewArena(false)
	id := a.FreshBlockID()
	b := NewBuilder(id)

	b.EmitAdd(1)
	b.EmitAdd(1)
	b.EmitAdd(1)

	f := b.Freeze(a)
	v, ok := f.Delta[0]
	if !ok {
		t.Fatal("expected Delta[0] to be set")
	}
	n := a.Get(v)
	if n.Kind != node.KindAdd {
		t.Fatalf("Delta[0] = %+v, want Add", n)
	}
	rhs := a.Get(n.R)
	if rhs.Kind != node.KindConst || rhs.K != 3 {
		// operands may be canonically swapped
		lhs := a.Get(n.L)
		if lhs.Kind != node.KindConst || lhs.K != 3 {
			t.Fatalf("Delta[0] = Add(%v, %v), want +3 total", a.Get(n.L), a.Get(n.R))
		}
	}
}

func TestEmitInputInvalidatesPendingAddend(t *testing.T) {
	a := node.NewArena(false)
	id := a.FreshBlockID()
	b := NewBuilder(id)

	b.EmitAdd(5)
	b.EmitInput(a)

	f := b.Freeze(a)
	v := f.Delta[0]
	if a.Get(v).Kind != node.KindInput {
		t.Fatalf("Delta[0] after input = %+v, want Input", a.Get(v))
	}
}

func TestEmitGuardIdempotentWithinExtent(t *testing.T) {
	a := node.NewArena(false)
	id := a.FreshBlockID()
	b := NewBuilder(id)

	b.EmitShift(1, a)
	b.EmitShift(-1, a)
	b.EmitShift(1, a)

	f := b.Freeze(a)
	guards := 0
	for _, e := range f.Effects {
		if e.Kind == EffectGuardShift {
			guards++
		}
	}
	if guards != 1 {
		t.Fatalf("got %d guard effects, want exactly 1 (offset 1 guarded once)", guards)
	}
}

func TestIsEmpty(t *testing.T) {
	a := node.NewArena(false)
	id := a.FreshBlockID()
	b := NewBuilder(id)
	if !b.IsEmpty() {
		t.Fatal("fresh builder should be empty")
	}
	b.EmitAdd(1)
	if b.IsEmpty() {
		t.Fatal("builder with a pending addend should not be empty")
	}
}

func TestOutputCoalesces(t *testing.T) {
	a := node.NewArena(false)
	id := a.FreshBlockID()
	b := NewBuilder(id)

	b.EmitOutput(a)
	b.EmitAdd(1)
	b.EmitOutput(a)

	f := b.Freeze(a)
	if len(f.Effects) != 1 {
		t.Fatalf("got %d effects, want 1 coalesced Output", len(f.Effects))
	}
	if f.Effects[0].Kind != EffectOutput || len(f.Effects[0].Values) != 2 {
		t.Fatalf("expected one Output effect with 2 values, got %+v", f.Effects[0])
	}
}

func TestIsPure(t *testing.T) {
	a := node.NewArena(false)
	id := a.FreshBlockID()
	b := NewBuilder(id)
	b.EmitAdd(1)
	f := b.Freeze(a)
	if guards, ok := f.IsPure(); !ok || guards {
		t.Fatalf("IsPure() = (%v,%v), want (false,true)", guards, ok)
	}

	b2 := NewBuilder(a.FreshBlockID())
	b2.EmitOutput(a)
	f2 := b2.Freeze(a)
	if _, ok := f2.IsPure(); ok {
		t.Fatal("block with Output should not be pure")
	}
}
