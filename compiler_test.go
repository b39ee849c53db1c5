package rex

import (
	"testing"

	"gotest.tools/v3/assert"
)

func compileOK(t *testing.T, source string) *Program {
	t.Helper()
	e, err := Parse([]byte(source))
	assert.NilError(t, err)
	prog, err := compileProgram(e)
	assert.NilError(t, err)
	return prog
}

func TestCompileEndsInMatch(t *testing.T) {
	prog := compileOK(t, "a")
	var sawMatch bool
	for _, inst := range prog.Insts {
		if inst.Op == opMatch {
			sawMatch = true
		}
	}
	assert.Equal(t, sawMatch, true)
}

func TestCompileWrapsInSave01(t *testing.T) {
	prog := compileOK(t, "a")
	start := prog.Insts[prog.Start]
	assert.Equal(t, start.Op, opSave)
	assert.Equal(t, start.Slot, 0)
}

func TestCompileRepeatedCaptureReusesSlot(t *testing.T) {
	// (a){3} must allocate exactly one capture slot pair, reused by every
	// unrolled copy of the body, not one pair per copy.
	prog := compileOK(t, "(a){3}")
	assert.Equal(t, prog.NumSlots, 4) // slots 0,1 (whole match) + 2,3 (group 1)

	seen := map[int]bool{}
	for _, inst := range prog.Insts {
		if inst.Op == opSave {
			seen[inst.Slot] = true
		}
	}
	assert.Equal(t, len(seen), 4)
}

func TestCompileAlternateBranchesReachMatch(t *testing.T) {
	prog := compileOK(t, "a|b|c")
	re := &Regex{source: "a|b|c", prog: prog}
	assert.Equal(t, re.Match([]byte("b")), true)
	assert.Equal(t, re.Match([]byte("c")), true)
	assert.Equal(t, re.Match([]byte("z")), false)
}

func TestCompileStarUsesExplicitJump(t *testing.T) {
	prog := compileOK(t, "a*")
	var sawJump bool
	for _, inst := range prog.Insts {
		if inst.Op == opJump {
			sawJump = true
		}
	}
	assert.Equal(t, sawJump, true)
}

func TestCompileFindStartLoopsOnAnyChar(t *testing.T) {
	prog := compileOK(t, "a")
	split := prog.Insts[prog.FindStart]
	assert.Equal(t, split.Op, opSplit)
	other := prog.Insts[split.Other]
	assert.Equal(t, other.Op, opAnyCharNotNL)
	assert.Equal(t, other.Out, prog.FindStart)
}

func TestCompileExactBraceRepeatDoesNotAllowMore(t *testing.T) {
	// a{3} must compile to exactly (3,3), not (3,∞): anchored at position
	// 0, "aaaab" would need a fourth 'a' consumed before the required 'b'.
	// (An unanchored search does match it, at "aaab" from offset 1.)
	prog := compileOK(t, "a{3}b")
	re := &Regex{source: "a{3}b", prog: prog}
	assert.Equal(t, re.Match([]byte("aaab")), true)
	assert.Equal(t, re.Match([]byte("aaaab")), false)
}

func TestCompileDegenerateBoundedRepeatDoesNotPanic(t *testing.T) {
	// {0,0} compiles to a program whose body never runs, and must not
	// leave any instruction's Out/Other pointing at -1.
	prog := compileOK(t, "a{0,0}b")
	for _, inst := range prog.Insts {
		assert.Assert(t, inst.Out >= 0)
		if inst.Op == opSplit {
			assert.Assert(t, inst.Other >= 0)
		}
	}

	re := &Regex{source: "a{0,0}b", prog: prog}
	assert.Equal(t, re.Match([]byte("b")), true)
	assert.Equal(t, re.Match([]byte("ab")), false)
}
