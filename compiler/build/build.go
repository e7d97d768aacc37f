// Package build turns a lexed token stream into the structured CFG. It
// recurses in token order rather than jumping via the lexer's precomputed
// Match index; bracket matching has already validated the stream.
package build

import (
	"github.com/bfrs/bfrs/compiler/bferrors"
	"github.com/bfrs/bfrs/compiler/block"
	"github.com/bfrs/bfrs/compiler/cfg"
	"github.com/bfrs/bfrs/compiler/lex"
	"github.com/bfrs/bfrs/compiler/node"
)

// Build consumes toks and constructs the CFG, allocating pure and block
// nodes in a. toks is assumed already bracket-balanced by lex.Scan; Build
// still detects structural mismatches itself as defense in depth.
func Build(a *node.Arena, toks []lex.Token) (cfg.Node, error) {
	p := &parser{a: a, toks: toks}
	n, err := p.parse(true)
	if err != nil {
		return nil, err
	}
	return n, nil
}

type parser struct {
	a    *node.Arena
	toks []lex.Token
	pos  int
}

func (p *parser) parse(root bool) (cfg.Node, error) {
	var seq cfg.Seq
	b := block.NewBuilder(p.a.FreshBlockID())
	loopClosed := root

	for p.pos < len(p.toks) {
		t := p.toks[p.pos]
		p.pos++

		switch t.Kind {
		case lex.Right:
			b.EmitShift(1, p.a)
		case lex.Left:
			b.EmitShift(-1, p.a)
		case lex.Plus:
			b.EmitAdd(1)
		case lex.Minus:
			b.EmitAdd(255)
		case lex.Dot:
			b.EmitOutput(p.a)
		case lex.Comma:
			b.EmitInput(p.a)
		case lex.LBracket:
			if !b.IsEmpty() {
				seq = seq.Append(&cfg.Block{Frozen: b.Freeze(p.a)})
			}
			body, err := p.parse(false)
			if err != nil {
				return nil, err
			}
			seq = seq.Append(&cfg.Loop{Body: body})
			b = block.NewBuilder(p.a.FreshBlockID())
		case lex.RBracket:
			if root {
				return nil, bferrors.New(bferrors.UnbalancedBrackets, "build: unopened loop at byte %d", t.Pos)
			}
			loopClosed = true
			goto done
		}
	}
done:
	if !loopClosed {
		return nil, bferrors.New(bferrors.UnbalancedBrackets, "build: unclosed loop")
	}
	if !b.IsEmpty() {
		seq = seq.Append(&cfg.Block{Frozen: b.Freeze(p.a)})
	}
	return cfg.Flatten(seq), nil
}
