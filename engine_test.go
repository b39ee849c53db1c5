package rex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

// runBacktrack and runPike run prog against input with a specific engine,
// bypassing the dispatcher, so tests can check both engines agree.
func runBacktrack(prog *Program, input []byte) []int {
	return newBacktrackVM(prog, input).run(prog.FindStart, 0)
}

func runPike(prog *Program, input []byte) []int {
	return newPikeVM(prog, input).run(prog.FindStart, 0, prog.NumSlots)
}

func TestEnginesAgreeOnCaptures(t *testing.T) {
	cases := []struct {
		pattern, input string
	}{
		{`ab(\d+)`, "xxab123yy"},
		{`[Hh]ello [Ww]orld\s*[!]?`, "hello world!"},
		{`a{3,}`, "aaaaa"},
		{`(a|b)+c`, "ababc"},
		{`\bx\b`, "a x b"},
		{`\Bx\B`, "axb"},
		{`^foo$`, "foo"},
		{`(a)(b)?`, "a"},
	}
	for _, c := range cases {
		e, err := Parse([]byte(c.pattern))
		assert.NilError(t, err)
		prog, err := compileProgram(e)
		assert.NilError(t, err)

		bt := runBacktrack(prog, []byte(c.input))
		pv := runPike(prog, []byte(c.input))

		if diff := cmp.Diff(bt, pv); diff != "" {
			t.Errorf("%s on %q: backtrackVM and pikeVM disagree:\n%s", c.pattern, c.input, diff)
		}
	}
}

func TestEligibleForBacktrackBoundary(t *testing.T) {
	prog := compileOK(t, "a")
	small := make([]byte, 4)
	assert.Equal(t, eligibleForBacktrack(prog, small), true)

	huge := make([]byte, 512*32)
	assert.Equal(t, eligibleForBacktrack(prog, huge), false)
}

func TestDispatcherMatchesOnBothSidesOfBoundary(t *testing.T) {
	prog := compileOK(t, `a\d+b`)

	small := []byte("a123b")
	assert.Equal(t, execute(prog, small, prog.FindStart) != nil, true)

	padding := make([]byte, 512*40)
	for i := range padding {
		padding[i] = 'x'
	}
	large := append(padding, []byte("a123b")...)
	assert.Equal(t, execute(prog, large, prog.FindStart) != nil, true)
}
