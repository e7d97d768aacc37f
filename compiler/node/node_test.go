package node

import "testing"

func TestConstFolding(t *testing.T) {
	a := NewArena(false)
	x := a.Const(3)
	y := a.Const(4)
	sum := a.Add(x, y)
	if got := a.Get(sum); got.Kind != KindConst || got.K != 7 {
		t.Fatalf("Add(3,4) = %+v, want Const(7)", got)
	}
}

func TestAddWrapsModulo256(t *testing.T) {
	a := NewArena(false)
	sum := a.Add(a.Const(250), a.Const(10))
	if got := a.Get(sum); got.K != 4 {
		t.Fatalf("250+10 mod 256 = %d, want 4", got.K)
	}
}

func TestAddCommutativeCanonicalization(t *testing.T) {
	a := NewArena(false)
	b := a.FreshBlockID()
	x := a.Copy(0, b)
	y := a.Copy(1, b)

	xy := a.Add(x, y)
	yx := a.Add(y, x)
	if xy != yx {
		t.Fatalf("Add(x,y)=%d != Add(y,x)=%d, expected same id", xy, yx)
	}
}

func TestMulCommutativeCanonicalization(t *testing.T) {
	a := NewArena(false)
	b := a.FreshBlockID()
	x := a.Copy(0, b)
	y := a.Copy(1, b)

	xy := a.Mul(x, y)
	yx := a.Mul(y, x)
	if xy != yx {
		t.Fatalf("Mul(x,y)=%d != Mul(y,x)=%d, expected same id", xy, yx)
	}
}

func TestAddIdentity(t *testing.T) {
	a := NewArena(false)
	b := a.FreshBlockID()
	x := a.Copy(0, b)
	if got := a.Add(x, a.Const(0)); got != x {
		t.Fatalf("Add(x, 0) = %d, want x = %d", got, x)
	}
}

func TestMulIdentityAndAnnihilator(t *testing.T) {
	a := NewArena(false)
	b := a.FreshBlockID()
	x := a.Copy(0, b)
	if got := a.Mul(x, a.Const(1)); got != x {
		t.Fatalf("Mul(x, 1) = %d, want x = %d", got, x)
	}
	zero := a.Mul(x, a.Const(0))
	if got := a.Get(zero); got.Kind != KindConst || got.K != 0 {
		t.Fatalf("Mul(x, 0) = %+v, want Const(0)", got)
	}
}

func TestAddMulCollapsesToSingleMultiple(t *testing.T) {
	a := NewArena(false)
	b := a.FreshBlockID()
	x := a.Copy(0, b)

	lhs := a.Mul(a.Const(3), x)
	rhs := a.Mul(a.Const(4), x)
	sum := a.Add(lhs, rhs)

	got := a.Get(sum)
	if got.Kind != KindMul {
		t.Fatalf("Add(3x,4x) = %+v, want a single Mul(7, x)", got)
	}
	c, base := a.Get(got.L), got.R
	if c.Kind != KindConst || c.K != 7 || base != x {
		// operands may be swapped by canonical ordering
		c2 := a.Get(got.R)
		if c2.Kind != KindConst || c2.K != 7 || got.L != x {
			t.Fatalf("Add(3x,4x) = Mul(%v, %v), want Mul(Const(7), x)", a.Get(got.L), a.Get(got.R))
		}
	}
}

func TestCopyAndInputNeverDeduplicated(t *testing.T) {
	a := NewArena(false)
	b := a.FreshBlockID()
	c1 := a.Copy(0, b)
	c2 := a.Copy(0, b)
	if c1 == c2 {
		t.Fatalf("two Copy(0,b) calls returned the same id %d, want distinct ids", c1)
	}

	i1 := a.FreshInput()
	i2 := a.FreshInput()
	if i1 == i2 {
		t.Fatalf("two FreshInput calls returned the same id %d, want distinct ids", i1)
	}
}

func TestIsZeroFoldsOnlyForZeroConst(t *testing.T) {
	a := NewArena(false)
	truthy := a.IsZero(a.Const(0))
	if a.Get(truthy).Kind != KindTrue {
		t.Fatalf("IsZero(Const(0)) = %+v, want True", a.Get(truthy))
	}

	notFolded := a.IsZero(a.Const(5))
	if a.Get(notFolded).Kind != KindIsZero {
		t.Fatalf("IsZero(Const(5)) = %+v, want unfolded IsZero", a.Get(notFolded))
	}

	b := a.FreshBlockID()
	sym := a.Add(a.Copy(0, b), a.Const(5))
	symZero := a.IsZero(sym)
	if a.Get(symZero).Kind != KindIsZero {
		t.Fatalf("IsZero(symbolic+5) must stay unsimplified, got %+v", a.Get(symZero))
	}
}

func TestReadsFrom(t *testing.T) {
	a := NewArena(false)
	b := a.FreshBlockID()
	other := a.FreshBlockID()

	fromB := a.Copy(0, b)
	fromOther := a.Copy(0, other)
	konst := a.Const(9)

	if !a.ReadsFrom(fromB, b) {
		t.Fatal("Copy(0,b) should read from b")
	}
	if a.ReadsFrom(fromOther, b) {
		t.Fatal("Copy(0,other) should not read from b")
	}
	if a.ReadsFrom(konst, b) {
		t.Fatal("Const should never read from any block")
	}

	sum := a.Add(fromB, konst)
	if !a.ReadsFrom(sum, b) {
		t.Fatal("Add(Copy(0,b), Const) should read from b")
	}
}

func TestEClassUnionRecordsHistory(t *testing.T) {
	a := NewArena(true)
	b := a.FreshBlockID()
	x := a.Copy(0, b)
	c := a.Const(5)

	a.Union(x, c, "copyprop", true)

	if got := a.Canonical(x); got != c {
		t.Fatalf("Canonical(x) = %d, want the promoted id %d", got, c)
	}
	h := a.History(x)
	if len(h) != 1 || h[0] != "copyprop" {
		t.Fatalf("History(x) = %v, want [copyprop]", h)
	}
}

func TestEClassUnionKeepsCanonicalWithoutPromotion(t *testing.T) {
	a := NewArena(true)
	b := a.FreshBlockID()
	x := a.Copy(0, b)
	c := a.Const(5)

	a.Union(x, c, "peel", false)

	if got := a.Canonical(x); got != x {
		t.Fatalf("Canonical(x) = %d, want x = %d (no promotion requested)", got, x)
	}
}

func TestEClassDisabledInTreeVariant(t *testing.T) {
	a := NewArena(false)
	b := a.FreshBlockID()
	x := a.Copy(0, b)
	c := a.Const(5)

	a.Union(x, c, "copyprop", true)

	if got := a.Canonical(x); got != x {
		t.Fatalf("Canonical(x) = %d, want x itself in the tree variant", got)
	}
	if h := a.History(x); h != nil {
		t.Fatalf("History(x) = %v, want nil in the tree variant", h)
	}
}
