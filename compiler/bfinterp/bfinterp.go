// Package bfinterp provides two independent Brainfuck interpreters used
// only by this repository's own tests, to check that optimizing the IR
// never changes a program's observable output. Run executes the raw token
// stream directly; RunCFG walks the built (and possibly optimized) CFG
// directly, with no native code generation involved. Neither is imported
// by cmd/bfrs.
package bfinterp

import (
	"bytes"
	"fmt"

	"github.com/bfrs/bfrs/compiler/block"
	"github.com/bfrs/bfrs/compiler/cfg"
	"github.com/bfrs/bfrs/compiler/lex"
	"github.com/bfrs/bfrs/compiler/node"
)

const tapeHalf = 1 << 14

// Run interprets src (raw Brainfuck source, comments and all) directly
// against input, returning everything written to output. It shares no code
// with the compiler's lexer or builder beyond lex.Scan for bracket
// matching, so it is a true independent oracle for the token-stream
// semantics.
func Run(src []byte, input []byte) ([]byte, error) {
	toks, err := lex.Scan(src)
	if err != nil {
		return nil, err
	}
	tape := make([]byte, 2*tapeHalf)
	p := tapeHalf
	var out bytes.Buffer
	ip := 0

	for ip < len(toks) {
		t := toks[ip]
		switch t.Kind {
		case lex.Plus:
			tape[p]++
		case lex.Minus:
			tape[p]--
		case lex.Right:
			p++
		case lex.Left:
			p--
		case lex.Dot:
			out.WriteByte(tape[p])
		case lex.Comma:
			if len(input) > 0 {
				tape[p] = input[0]
				input = input[1:]
			} else {
				tape[p] = 0
			}
		case lex.LBracket:
			if tape[p] == 0 {
				ip = t.Match
			}
		case lex.RBracket:
			if tape[p] != 0 {
				ip = t.Match
			}
		}
		ip++
	}
	if p < 0 || p >= len(tape) {
		return nil, fmt.Errorf("bfinterp: pointer escaped tape bounds")
	}
	return out.Bytes(), nil
}

// RunCFG interprets n, the structured CFG built (and possibly optimized)
// by this compiler, directly against input. It evaluates every pure node
// id by recursive structural interpretation rather than by trusting the
// arena's own construction-time idealization, so a bug in the idealizer
// that nonetheless produces a differently-shaped but equivalent-looking
// tree would still be caught by comparing against Run's output.
func RunCFG(a *node.Arena, n cfg.Node, input []byte) ([]byte, error) {
	s := &state{
		a:     a,
		tape:  make([]byte, 2*tapeHalf),
		p:     tapeHalf,
		input: input,
	}
	if err := s.exec(n); err != nil {
		return nil, err
	}
	return s.out.Bytes(), nil
}

type state struct {
	a     *node.Arena
	tape  []byte
	p     int
	input []byte
	out   bytes.Buffer
	// inputs records the byte bound to each Input node id when its Input
	// effect runs, so every later reference to the same Input node reads
	// that byte rather than consuming stdin again.
	inputs map[node.ID]byte
}

func (s *state) exec(n cfg.Node) error {
	switch t := n.(type) {
	case *cfg.Block:
		return s.block(t.Frozen)
	case cfg.Seq:
		for _, c := range t.Children {
			if err := s.exec(c); err != nil {
				return err
			}
		}
		return nil
	case *cfg.If:
		if s.tape[s.p] != 0 {
			return s.exec(t.Then)
		}
		return nil
	case *cfg.Loop:
		for s.tape[s.p] != 0 {
			if err := s.exec(t.Body); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func (s *state) block(f block.Frozen) error {
	get := func(o node.Offset) byte {
		idx := s.p + int(o)
		if idx < 0 || idx >= len(s.tape) {
			panic(fmt.Sprintf("bfinterp: offset %d escaped tape bounds", o))
		}
		return s.tape[idx]
	}

	for _, e := range f.Effects {
		switch e.Kind {
		case block.EffectOutput:
			for _, v := range e.Values {
				s.out.WriteByte(s.eval(v, f.ID, get))
			}
		case block.EffectInput:
			var b byte
			if len(s.input) > 0 {
				b = s.input[0]
				s.input = s.input[1:]
			}
			s.bindInput(e.Sink, b)
		case block.EffectGuardShift:
			// no runtime effect; a compile-time reachability assertion.
		}
	}

	next := make(map[node.Offset]byte, len(f.Delta))
	for offset, v := range f.Delta {
		next[offset] = s.eval(v, f.ID, get)
	}
	for offset, v := range next {
		idx := s.p + int(offset)
		if idx < 0 || idx >= len(s.tape) {
			return fmt.Errorf("bfinterp: offset %d escaped tape bounds", offset)
		}
		s.tape[idx] = v
	}
	s.p += int(f.Shift)
	if s.p < 0 || s.p >= len(s.tape) {
		return fmt.Errorf("bfinterp: pointer escaped tape bounds")
	}
	return nil
}

func (s *state) bindInput(id node.ID, b byte) {
	if s.inputs == nil {
		s.inputs = make(map[node.ID]byte)
	}
	s.inputs[id] = b
}

func (s *state) eval(id node.ID, owner node.BlockID, entryGet func(node.Offset) byte) byte {
	n := s.a.Get(id)
	switch n.Kind {
	case node.KindConst:
		return n.K
	case node.KindTrue:
		return 1
	case node.KindCopy:
		return entryGet(n.Offset)
	case node.KindInput:
		return s.inputs[id]
	case node.KindAdd:
		return s.eval(n.L, owner, entryGet) + s.eval(n.R, owner, entryGet)
	case node.KindMul:
		return s.eval(n.L, owner, entryGet) * s.eval(n.R, owner, entryGet)
	case node.KindIsZero:
		if s.eval(n.L, owner, entryGet) == 0 {
			return 1
		}
		return 0
	case node.KindIsEven:
		if s.eval(n.L, owner, entryGet)%2 == 0 {
			return 1
		}
		return 0
	}
	return 0
}
