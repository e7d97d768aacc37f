package node

import "sort"

// Add interns the idealized sum of l and r: constants are
// folded, the identity Add(x, Const(0)) = x is applied, associative chains
// are flattened into a sorted multiset of (base, coefficient) terms so that
// Add(Mul(Const(k1), x), Mul(Const(k2), x)) collapses to Mul(Const(k1+k2),
// x), and two structurally-equal sums always return the same id regardless
// of the order they were built in.
func (a *Arena) Add(l, r ID) ID {
	var terms []term
	var constAcc uint8
	a.flattenAdd(l, &terms, &constAcc)
	a.flattenAdd(r, &terms, &constAcc)
	return a.buildAdd(terms, constAcc)
}

// Mul interns the idealized product of l and r: constants are
// folded, Mul(x, Const(1)) = x, and Mul(x, Const(0)) = Const(0).
func (a *Arena) Mul(l, r ID) ID {
	var atoms []ID
	constAcc := uint8(1)
	a.flattenMul(l, &atoms, &constAcc)
	a.flattenMul(r, &atoms, &constAcc)
	return a.buildMul(atoms, constAcc)
}

// IsZero interns the zero predicate. Const(0) folds to True; any other
// constant is left as IsZero(Const(k)); already a closed form that does
// not depend on tape state, just not the distinguished True node. A
// symbolic sum is left entirely unsimplified: nothing may be assumed about
// a non-constant tape value.
func (a *Arena) IsZero(x ID) ID {
	if n := a.nodes[x]; n.Kind == KindConst && n.K == 0 {
		return a.True()
	}
	return a.internHashed(isZeroNode(x))
}

// IsEven interns the even predicate; only Const(even) folds to True.
func (a *Arena) IsEven(x ID) ID {
	if n := a.nodes[x]; n.Kind == KindConst && n.K%2 == 0 {
		return a.True()
	}
	return a.internHashed(isEvenNode(x))
}

// IsKnownConstant reports whether id's value is known at compile time
// without reference to the tape, and if so what it is: for a Const this is
// its value; for True this is 1 (conventionally "nonzero"/true); otherwise
// ok is false.
func (a *Arena) IsKnownConstant(id ID) (k uint8, ok bool) {
	switch n := a.nodes[id]; n.Kind {
	case KindConst:
		return n.K, true
	case KindTrue:
		return 1, true
	default:
		return 0, false
	}
}

// term is a coefficient-base pair gathered while flattening an Add chain:
// it represents the value coeff*base.
type term struct {
	base  ID
	coeff uint8
}

func (a *Arena) flattenAdd(id ID, terms *[]term, constAcc *uint8) {
	n := a.nodes[id]
	switch n.Kind {
	case KindAdd:
		a.flattenAdd(n.L, terms, constAcc)
		a.flattenAdd(n.R, terms, constAcc)
	case KindConst:
		*constAcc += n.K
	case KindMul:
		if lk := a.nodes[n.L]; lk.Kind == KindConst {
			addTerm(terms, n.R, lk.K)
			return
		}
		if rk := a.nodes[n.R]; rk.Kind == KindConst {
			addTerm(terms, n.L, rk.K)
			return
		}
		addTerm(terms, id, 1)
	default:
		addTerm(terms, id, 1)
	}
}

func addTerm(terms *[]term, base ID, coeff uint8) {
	for i := range *terms {
		if (*terms)[i].base == base {
			(*terms)[i].coeff += coeff
			return
		}
	}
	*terms = append(*terms, term{base: base, coeff: coeff})
}

// buildAdd reconstructs the canonical node for the sum of terms plus
// constAcc, given an already-reduced multiset of terms.
func (a *Arena) buildAdd(terms []term, constAcc uint8) ID {
	pieces := make([]ID, 0, len(terms)+1)
	filtered := terms[:0:0]
	for _, t := range terms {
		if t.coeff == 0 {
			continue
		}
		filtered = append(filtered, t)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].base < filtered[j].base })
	for _, t := range filtered {
		if t.coeff == 1 {
			pieces = append(pieces, t.base)
		} else {
			pieces = append(pieces, a.internHashed(mulNode(a.orderedPair(a.Const(t.coeff), t.base))))
		}
	}
	if constAcc != 0 {
		// kept last so the printer can render a trailing Const as "- k"
		pieces = append(pieces, a.Const(constAcc))
	}
	switch len(pieces) {
	case 0:
		return a.Const(0)
	case 1:
		return pieces[0]
	default:
		acc := pieces[0]
		for _, p := range pieces[1:] {
			acc = a.internHashed(addNode(acc, p))
		}
		return acc
	}
}

func (a *Arena) flattenMul(id ID, atoms *[]ID, constAcc *uint8) {
	n := a.nodes[id]
	switch n.Kind {
	case KindMul:
		a.flattenMul(n.L, atoms, constAcc)
		a.flattenMul(n.R, atoms, constAcc)
	case KindConst:
		*constAcc *= n.K
	default:
		*atoms = append(*atoms, id)
	}
}

func (a *Arena) buildMul(atoms []ID, constAcc uint8) ID {
	if constAcc == 0 {
		return a.Const(0)
	}
	sort.Slice(atoms, func(i, j int) bool { return atoms[i] < atoms[j] })
	pieces := atoms
	if constAcc != 1 {
		pieces = append(pieces, a.Const(constAcc))
	}
	switch len(pieces) {
	case 0:
		return a.Const(1)
	case 1:
		return pieces[0]
	default:
		acc := pieces[0]
		for _, p := range pieces[1:] {
			acc = a.internHashed(mulNode(acc, p))
		}
		return acc
	}
}

// orderedPair returns l, r sorted ascending by id, so Mul(Const(c), x) and
// Mul(x, Const(c)) built this way always produce the same node.
func (a *Arena) orderedPair(l, r ID) (ID, ID) {
	if l <= r {
		return l, r
	}
	return r, l
}
