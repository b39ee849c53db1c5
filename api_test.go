package rex

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestCompileAndMatch(t *testing.T) {
	re, err := Compile(`\d+`)
	assert.NilError(t, err)
	assert.Equal(t, re.Match([]byte("123abc")), true)
	assert.Equal(t, re.Match([]byte("abc123")), false)
	assert.Equal(t, re.Match([]byte("abc")), false)
}

func TestMustCompilePanicsOnBadPattern(t *testing.T) {
	defer func() {
		r := recover()
		assert.Assert(t, r != nil)
	}()
	MustCompile("*")
}

func TestFindCapturesBounds(t *testing.T) {
	re, err := Compile(`ab(\d+)`)
	assert.NilError(t, err)

	caps := re.FindCaptures([]byte("xxab123yy"))
	assert.Assert(t, caps != nil)
	assert.Equal(t, caps.Len(), 2)

	whole, ok := caps.SliceAt(0)
	assert.Equal(t, ok, true)
	assert.Equal(t, string(whole), "ab123")

	group1, ok := caps.SliceAt(1)
	assert.Equal(t, ok, true)
	assert.Equal(t, string(group1), "123")
}

func TestFindCapturesNoMatchReturnsNil(t *testing.T) {
	re, err := Compile(`xyz`)
	assert.NilError(t, err)
	assert.Assert(t, re.FindCaptures([]byte("abc")) == nil)
}

func TestFindCapturesOptionalGroupDidNotParticipate(t *testing.T) {
	re, err := Compile(`(a)(b)?`)
	assert.NilError(t, err)

	caps := re.FindCaptures([]byte("a"))
	assert.Assert(t, caps != nil)
	_, ok := caps.SliceAt(2)
	assert.Equal(t, ok, false)
}

func TestWithMaxRepeatLength(t *testing.T) {
	_, err := Compile("a{5}", WithMaxRepeatLength(3))
	assert.ErrorType(t, err, func(err error) bool {
		pe, ok := err.(*ParseError)
		return ok && pe.Kind == ErrExcessiveRepeatCount
	})

	re, err := Compile("a{3}", WithMaxRepeatLength(3))
	assert.NilError(t, err)
	assert.Equal(t, re.Match([]byte("aaa")), true)
}

// TestMatchImpliesPartialMatchButNotConversely checks spec.md §8's
// invariant directly: an anchored match is also a partial match, but a
// partial match that isn't a prefix doesn't make the anchored Match true.
func TestMatchImpliesPartialMatchButNotConversely(t *testing.T) {
	re := MustCompile(`foo`)

	input := []byte("fooxx")
	assert.Equal(t, re.Match(input), true)
	assert.Equal(t, re.PartialMatch(input), true)

	input = []byte("xxfooxx")
	assert.Equal(t, re.Match(input), false)
	assert.Equal(t, re.PartialMatch(input), true)
}
