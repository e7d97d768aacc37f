package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfrs/bfrs/compiler/bferrors"
	"github.com/bfrs/bfrs/compiler/bfinterp"
	"github.com/bfrs/bfrs/compiler/build"
	"github.com/bfrs/bfrs/compiler/cfg"
	"github.com/bfrs/bfrs/compiler/lex"
	"github.com/bfrs/bfrs/compiler/node"
	"github.com/bfrs/bfrs/compiler/optimize"
	"github.com/bfrs/bfrs/compiler/pretty"
)

func optimizeSrc(t *testing.T, src string, opts optimize.Options) (*node.Arena, cfg.Node) {
	t.Helper()

	a := node.NewArena(false)
	toks, err := lex.Scan([]byte(src))
	require.NoError(t, err)

	n, err := build.Build(a, toks)
	require.NoError(t, err)

	n, err = optimize.Run(a, n, opts)
	require.NoError(t, err)

	return a, n
}

// TestOptimizePreservesSemantics runs every program twice: the raw token
// stream through the reference interpreter, and the optimized CFG through
// the independent CFG walker, and requires identical output streams.
func TestOptimizePreservesSemantics(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		input string
	}{
		{"clear", "+++[-].", ""},
		{"clear_then_reuse", "+++[-]++.", ""},
		{"add_and_clear", "+++>++<[->+<]>.", ""},
		{"scaled_add", "++++++++[->++++++++<]>+.", ""},
		{"two_cell_copy", "+++[>+>+<<-]>.>.", ""},
		{"multiply", "++>+++<[>[>+>+<<-]>[<+>-]<<-]>>>.", ""},
		{"move_right", "++>+++>++++<<[>>>[-]<[->+<]<[->+<]<-]>.>>.", ""},
		{"wraparound", "-.", ""},
		{"echo_input", ",[->+<]>.", "A"},
		{"two_inputs", ",>,<[->>+<<]>[->+<]>.", "hi"},
		{"output_inside_loop", "+++[.-]", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			want, err := bfinterp.Run([]byte(tc.src), []byte(tc.input))
			require.NoError(t, err)

			a, n := optimizeSrc(t, tc.src, optimize.Options{})
			got, err := bfinterp.RunCFG(a, n, []byte(tc.input))
			require.NoError(t, err)

			assert.Equal(t, want, got, "optimized IR output diverged from the reference interpreter")
		})
	}
}

// TestOptimizeIdempotent applies the full pipeline a second time to an
// already-optimized IR and requires a structurally equal tree.
func TestOptimizeIdempotent(t *testing.T) {
	srcs := []string{
		"[-]",
		"[->+<]",
		"[>+>+<<-]",
		"+[]",
		"+++[>++<-]>.",
		"++>+++<[>[>+>+<<-]>[<+>-]<<-]>>>.",
	}

	for _, src := range srcs {
		a, once := optimizeSrc(t, src, optimize.Options{})

		twice, err := optimize.Run(a, once, optimize.Options{})
		require.NoError(t, err)

		assert.True(t, cfg.Equal(once, twice), "second pipeline run changed the IR for %q", src)
		assert.Equal(t, pretty.Print(a, once), pretty.Print(a, twice), "dump differs across runs for %q", src)
	}
}

func TestCompileClearLoop(t *testing.T) {
	text, err := Compile(context.Background(), "clear.bf", []byte("[-]"), Options{})
	require.NoError(t, err)

	assert.Equal(t, "if p[0] != 0 {\n    p[0] = 0\n}\n", string(text))
}

func TestCompileAddAndClear(t *testing.T) {
	text, err := Compile(context.Background(), "move.bf", []byte("[->+<]"), Options{})
	require.NoError(t, err)

	out := string(text)
	assert.Contains(t, out, "if p[0] != 0 {")
	assert.Contains(t, out, "p[0] = 0")
	assert.Contains(t, out, "p[1] = c0 + c1")
	assert.NotContains(t, out, "while", "no residual loop expected")
}

// TestInfiniteLoopPreserved: `+[]` must survive every pass untouched; no
// rewrite may eliminate a loop it cannot prove finite.
func TestInfiniteLoopPreserved(t *testing.T) {
	a, n := optimizeSrc(t, "+[]", optimize.Options{})

	seq, ok := n.(cfg.Seq)
	require.True(t, ok, "got %T, want cfg.Seq", n)
	require.Len(t, seq.Children, 2)

	_, ok = seq.Children[1].(*cfg.Loop)
	assert.True(t, ok, "the empty-bodied loop must remain a Loop")

	out := pretty.Print(a, n)
	assert.Contains(t, out, "p[0] = 1")
	assert.Contains(t, out, "while p[0] != 0 {")
}

func TestCompileUnbalancedBrackets(t *testing.T) {
	for _, src := range []string{"[", "]", "[[]", "[]]"} {
		_, err := Compile(context.Background(), "bad.bf", []byte(src), Options{})
		require.Error(t, err, "src %q", src)
		assert.ErrorIs(t, err, bferrors.ErrUnbalancedBrackets, "src %q", src)
	}
}

func TestCompileFileMissing(t *testing.T) {
	_, err := CompileFile(context.Background(), "no/such/file.bf", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, bferrors.ErrInputIO)
}

func TestCompileEGraphVariantMatchesTree(t *testing.T) {
	src := []byte("+++[->++<]>.")

	plain, err := Compile(context.Background(), "p.bf", src, Options{})
	require.NoError(t, err)

	egraph, err := Compile(context.Background(), "e.bf", src, Options{EGraph: true})
	require.NoError(t, err)

	assert.Equal(t, string(plain), string(egraph), "introspection variant must not change what is compiled")
}
