package lex

import (
	"errors"
	"testing"

	"github.com/bfrs/bfrs/compiler/bferrors"
)

func TestScanSkipsComments(t *testing.T) {
	toks, err := Scan([]byte("hello +world- \n[]"))
	if err != nil {
		t.Fatal(err)
	}
	want := []Kind{Plus, Minus, LBracket, RBracket}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestScanMatchesNestedBrackets(t *testing.T) {
	toks, err := Scan([]byte("[[-]+]"))
	if err != nil {
		t.Fatal(err)
	}
	// indices: 0=[ 1=[ 2=- 3=] 4=+ 5=]
	if toks[0].Match != 5 || toks[5].Match != 0 {
		t.Fatalf("outer pair mismatched: %+v / %+v", toks[0], toks[5])
	}
	if toks[1].Match != 3 || toks[3].Match != 1 {
		t.Fatalf("inner pair mismatched: %+v / %+v", toks[1], toks[3])
	}
}

func TestScanUnmatchedOpen(t *testing.T) {
	_, err := Scan([]byte("[+"))
	var ub *ErrUnbalanced
	if !errors.As(err, &ub) || !ub.Open {
		t.Fatalf("err = %v, want ErrUnbalanced{Open: true}", err)
	}
	if !errors.Is(err, bferrors.ErrUnbalancedBrackets) {
		t.Fatalf("err = %v, want to match bferrors.ErrUnbalancedBrackets", err)
	}
}

func TestScanUnmatchedClose(t *testing.T) {
	_, err := Scan([]byte("+]"))
	var ub *ErrUnbalanced
	if !errors.As(err, &ub) || ub.Open {
		t.Fatalf("err = %v, want ErrUnbalanced{Open: false}", err)
	}
}
