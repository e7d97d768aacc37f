// Package pretty renders the optimized IR back to a C-like textual form:
// while/if/assignment structure, p[k] cells, c<offset> temporaries.
package pretty

import (
	"github.com/nikandfor/hacked/hfmt"

	"github.com/bfrs/bfrs/compiler/block"
	"github.com/bfrs/bfrs/compiler/cfg"
	"github.com/bfrs/bfrs/compiler/node"
	"github.com/bfrs/bfrs/compiler/set"
)

const indentUnit = "    "

// Print renders n into a human-readable dump of its cell assignments,
// pointer shifts, and control structure.
func Print(a *node.Arena, n cfg.Node) string {
	p := &printer{a: a}
	p.cfg(n, 0)
	return string(p.buf)
}

type printer struct {
	a   *node.Arena
	buf []byte
}

func (p *printer) indent(depth int) {
	for i := 0; i < depth; i++ {
		p.buf = append(p.buf, indentUnit...)
	}
}

func (p *printer) cfg(n cfg.Node, depth int) {
	switch t := n.(type) {
	case *cfg.Block:
		p.block(t.Frozen, depth, false)
	case cfg.Seq:
		p.seq(t, depth)
	case *cfg.Loop:
		p.indent(depth)
		p.buf = append(p.buf, "while p[0] != 0 {\n"...)
		p.cfg(t.Body, depth+1)
		p.indent(depth)
		p.buf = append(p.buf, "}\n"...)
	case *cfg.If:
		p.indent(depth)
		p.buf = append(p.buf, "if p[0] != 0 {\n"...)
		p.cfg(t.Then, depth+1)
		p.indent(depth)
		p.buf = append(p.buf, "}\n"...)
	}
}

func (p *printer) seq(s cfg.Seq, depth int) {
	switch len(s.Children) {
	case 0:
		return
	case 1:
		p.cfg(s.Children[0], depth)
		return
	}
	// adjacent Blocks print as braced runs so their entry frames stay
	// visually separate.
	i := 0
	for i < len(s.Children) {
		b, ok := s.Children[i].(*cfg.Block)
		if !ok {
			p.cfg(s.Children[i], depth)
			i++
			continue
		}
		j := i + 1
		_, nextIsBlock := peekBlock(s.Children, j)
		if !nextIsBlock {
			p.cfg(s.Children[i], depth)
			i++
			continue
		}
		p.block(b.Frozen, depth, true)
		i++
		for {
			nb, ok := peekBlock(s.Children, i)
			if !ok {
				break
			}
			p.block(nb.Frozen, depth, true)
			i++
		}
	}
}

func peekBlock(children []cfg.Node, i int) (*cfg.Block, bool) {
	if i >= len(children) {
		return nil, false
	}
	b, ok := children[i].(*cfg.Block)
	return b, ok
}

func (p *printer) block(f block.Frozen, depth int, braced bool) {
	if braced {
		p.indent(depth)
		p.buf = append(p.buf, "{\n"...)
		depth++
	}
	for _, e := range f.Effects {
		if e.Kind == block.EffectGuardShift {
			continue // internal bookkeeping, omitted from the printed text
		}
		p.indent(depth)
		p.effect(e)
		p.buf = append(p.buf, '\n')
	}

	copies := p.collectCopies(f)
	for _, off := range copies {
		p.indent(depth)
		p.buf = append(p.buf, "let "...)
		p.copyName(off)
		p.buf = hfmt.Appendf(p.buf, " = p[%d]\n", int64(off))
	}

	for _, off := range f.SortedOffsets() {
		v := f.Delta[off]
		if n := p.a.Get(v); n.Kind == node.KindCopy && n.Block == f.ID && n.Offset == off {
			continue // identity assignment, omitted
		}
		p.indent(depth)
		p.buf = hfmt.Appendf(p.buf, "p[%d] = ", int64(off))
		p.node(v, true)
		p.buf = append(p.buf, '\n')
	}

	if f.Shift != 0 {
		p.indent(depth)
		if f.Shift < 0 {
			p.buf = hfmt.Appendf(p.buf, "p -= %d\n", -int64(f.Shift))
		} else {
			p.buf = hfmt.Appendf(p.buf, "p += %d\n", int64(f.Shift))
		}
	}
	if braced {
		depth--
		p.indent(depth)
		p.buf = append(p.buf, "}\n"...)
	}
}

// collectCopies returns, in ascending order, every offset this block reads
// via a Copy, so the caller can bind each to a local name once up front.
// Dedup and ordering come from a set.Bits based at the leftmost offset
// found.
func (p *printer) collectCopies(f block.Frozen) []node.Offset {
	var raw []node.Offset
	for _, off := range f.SortedOffsets() {
		p.visitCopies(f.Delta[off], &raw)
	}
	if len(raw) == 0 {
		return nil
	}

	base := raw[0]
	for _, o := range raw {
		if o < base {
			base = o
		}
	}

	s := set.MakeBits(base)
	s.SetAll(raw...)

	offs := make([]node.Offset, 0, s.Size())
	s.Range(func(o node.Offset) bool {
		offs = append(offs, o)
		return true
	})
	return offs
}

func (p *printer) visitCopies(id node.ID, raw *[]node.Offset) {
	n := p.a.Get(id)
	switch n.Kind {
	case node.KindCopy:
		*raw = append(*raw, n.Offset)
	case node.KindAdd, node.KindMul:
		p.visitCopies(n.L, raw)
		p.visitCopies(n.R, raw)
	case node.KindIsZero, node.KindIsEven:
		p.visitCopies(n.L, raw)
	}
}

func (p *printer) node(id node.ID, useCopies bool) {
	n := p.a.Get(id)
	switch n.Kind {
	case node.KindCopy:
		if useCopies {
			p.copyName(n.Offset)
		} else {
			p.buf = hfmt.Appendf(p.buf, "p[%d]", int64(n.Offset))
		}
	case node.KindConst:
		p.buf = hfmt.Appendf(p.buf, "%d", int8(n.K))
	case node.KindInput:
		p.buf = hfmt.Appendf(p.buf, "in%d", n.In)
	case node.KindTrue:
		p.buf = append(p.buf, "true"...)
	case node.KindAdd:
		p.node(n.L, useCopies)
		if rhs := p.a.Get(n.R); rhs.Kind == node.KindConst && int8(rhs.K) < 0 {
			p.buf = hfmt.Appendf(p.buf, " - %d", -int64(int8(rhs.K)))
			return
		}
		p.buf = append(p.buf, " + "...)
		p.groupNode(n.R, p.a.Get(n.R).Kind == node.KindAdd, useCopies)
	case node.KindMul:
		p.groupNode(n.L, p.a.Get(n.L).Kind == node.KindAdd, useCopies)
		p.buf = append(p.buf, " * "...)
		rk := p.a.Get(n.R).Kind
		p.groupNode(n.R, rk == node.KindAdd || rk == node.KindMul, useCopies)
	case node.KindIsZero:
		p.buf = append(p.buf, "is_zero("...)
		p.node(n.L, useCopies)
		p.buf = append(p.buf, ')')
	case node.KindIsEven:
		p.buf = append(p.buf, "is_even("...)
		p.node(n.L, useCopies)
		p.buf = append(p.buf, ')')
	}
}

func (p *printer) groupNode(id node.ID, grouped, useCopies bool) {
	if grouped {
		p.buf = append(p.buf, '(')
	}
	p.node(id, useCopies)
	if grouped {
		p.buf = append(p.buf, ')')
	}
}

func (p *printer) copyName(off node.Offset) {
	if off < 0 {
		p.buf = hfmt.Appendf(p.buf, "cn%d", -int64(off))
	} else {
		p.buf = hfmt.Appendf(p.buf, "c%d", int64(off))
	}
}

func (p *printer) effect(e block.Effect) {
	switch e.Kind {
	case block.EffectOutput:
		p.buf = append(p.buf, "output("...)
		p.array(e.Values)
		p.buf = append(p.buf, ')')
	case block.EffectInput:
		p.buf = append(p.buf, "let "...)
		p.node(e.Sink, false)
		p.buf = append(p.buf, " = input()"...)
	}
}

func (p *printer) array(values []node.ID) {
	allConst := true
	for _, v := range values {
		if p.a.Get(v).Kind != node.KindConst {
			allConst = false
			break
		}
	}
	if allConst {
		p.buf = append(p.buf, '"')
		for _, v := range values {
			p.escapeChar(p.a.Get(v).K)
		}
		p.buf = append(p.buf, '"')
		return
	}
	p.buf = append(p.buf, '[')
	for i, v := range values {
		if i != 0 {
			p.buf = append(p.buf, ", "...)
		}
		if n := p.a.Get(v); n.Kind == node.KindConst {
			p.buf = append(p.buf, '\'')
			p.escapeChar(n.K)
			p.buf = append(p.buf, '\'')
		} else {
			p.node(v, false)
		}
	}
	p.buf = append(p.buf, ']')
}

func (p *printer) escapeChar(b uint8) {
	switch b {
	case '\000':
		p.buf = append(p.buf, `\0`...)
	case '\n':
		p.buf = append(p.buf, `\n`...)
	case '\t':
		p.buf = append(p.buf, `\t`...)
	case '\r':
		p.buf = append(p.buf, `\r`...)
	case '\'':
		p.buf = append(p.buf, `\'`...)
	case '\\':
		p.buf = append(p.buf, `\\`...)
	default:
		if b < 0x20 || b >= 0x7f {
			p.buf = hfmt.Appendf(p.buf, `\x%02x`, b)
			return
		}
		p.buf = append(p.buf, b)
	}
}
