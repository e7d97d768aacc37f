// Package lex tokenizes Brainfuck source and pairs every bracket up front,
// so the builder in compiler/build never has to backtrack. Only the eight
// instruction bytes are significant; everything else is a comment.
package lex

import "github.com/bfrs/bfrs/compiler/bferrors"

// Kind identifies a single Brainfuck instruction byte. Every other input
// byte is a comment and produces no token.
type Kind uint8

const (
	_ Kind = iota
	Plus
	Minus
	Left
	Right
	Dot
	Comma
	LBracket
	RBracket
)

func (k Kind) String() string {
	switch k {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Left:
		return "<"
	case Right:
		return ">"
	case Dot:
		return "."
	case Comma:
		return ","
	case LBracket:
		return "["
	case RBracket:
		return "]"
	default:
		return "?"
	}
}

// Token is one significant byte of source, together with its byte offset
// (for diagnostics) and, for bracket tokens, the index into the returned
// slice of its matching partner.
type Token struct {
	Kind  Kind
	Pos   int
	Match int // index of the paired bracket, for LBracket/RBracket only
}

// ErrUnbalanced reports a `[` with no matching `]` (Open true) or a `]`
// with no matching `[` (Open false) at byte offset Pos.
type ErrUnbalanced struct {
	Pos  int
	Open bool
}

func (e *ErrUnbalanced) Error() string {
	if e.Open {
		return "unmatched '['"
	}
	return "unmatched ']'"
}

func kindOf(b byte) (Kind, bool) {
	switch b {
	case '+':
		return Plus, true
	case '-':
		return Minus, true
	case '<':
		return Left, true
	case '>':
		return Right, true
	case '.':
		return Dot, true
	case ',':
		return Comma, true
	case '[':
		return LBracket, true
	case ']':
		return RBracket, true
	default:
		return 0, false
	}
}

// Scan tokenizes src and matches every bracket pair, returning
// bferrors.ErrUnbalancedBrackets (wrapping an *ErrUnbalanced) on the first
// mismatch found.
func Scan(src []byte) ([]Token, error) {
	var toks []Token
	for pos, b := range src {
		k, ok := kindOf(b)
		if !ok {
			continue
		}
		toks = append(toks, Token{Kind: k, Pos: pos})
	}

	var stack []int
	for i, t := range toks {
		switch t.Kind {
		case LBracket:
			stack = append(stack, i)
		case RBracket:
			if len(stack) == 0 {
				return nil, bferrors.Wrap(bferrors.UnbalancedBrackets,
					&ErrUnbalanced{Pos: t.Pos, Open: false}, "lex: unmatched ']' at byte %d", t.Pos)
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			toks[open].Match = i
			toks[i].Match = open
		}
	}
	if len(stack) > 0 {
		pos := toks[stack[len(stack)-1]].Pos
		return nil, bferrors.Wrap(bferrors.UnbalancedBrackets,
			&ErrUnbalanced{Pos: pos, Open: true}, "lex: unmatched '[' at byte %d", pos)
	}

	return toks, nil
}
