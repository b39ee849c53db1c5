package rex

import (
	"testing"

	"gotest.tools/v3/assert"
)

func parseOK(t *testing.T, source string) *Expr {
	t.Helper()
	e, err := Parse([]byte(source))
	assert.NilError(t, err)
	return e
}

func TestParseLiteralConcat(t *testing.T) {
	e := parseOK(t, "ab")
	assert.Equal(t, e.kind, exprConcat)
	assert.Equal(t, len(e.children), 2)
	assert.Equal(t, e.children[0].lit, byte('a'))
	assert.Equal(t, e.children[1].lit, byte('b'))
}

func TestParseAlternation(t *testing.T) {
	e := parseOK(t, "a|b")
	assert.Equal(t, e.kind, exprAlternate)
	assert.Equal(t, len(e.children), 2)
}

func TestParseCaptureGroup(t *testing.T) {
	e := parseOK(t, "(a)")
	assert.Equal(t, e.kind, exprCapture)
	assert.Equal(t, e.group.Capturing, true)
	assert.Equal(t, e.group.Expr.lit, byte('a'))
}

func TestParseNonCapturingGroup(t *testing.T) {
	e := parseOK(t, "(?:a)")
	assert.Equal(t, e.kind, exprCapture)
	assert.Equal(t, e.group.Capturing, false)
}

func TestParseStarPlusOptional(t *testing.T) {
	star := parseOK(t, "a*")
	assert.Equal(t, star.kind, exprRepeat)
	assert.Equal(t, star.repeatMin, 0)
	assert.Equal(t, star.repeatMaxOk, false)
	assert.Equal(t, star.greedy, true)

	lazy := parseOK(t, "a*?")
	assert.Equal(t, lazy.greedy, false)

	plus := parseOK(t, "a+")
	assert.Equal(t, plus.repeatMin, 1)
	assert.Equal(t, plus.repeatMaxOk, false)

	opt := parseOK(t, "a?")
	assert.Equal(t, opt.repeatMin, 0)
	assert.Equal(t, opt.repeatMax, 1)
	assert.Equal(t, opt.repeatMaxOk, true)
}

func TestParseBraceRepeat(t *testing.T) {
	exact := parseOK(t, "a{3}")
	assert.Equal(t, exact.repeatMin, 3)
	assert.Equal(t, exact.repeatMax, 3)
	assert.Equal(t, exact.repeatMaxOk, true)

	atLeast := parseOK(t, "a{2,}")
	assert.Equal(t, atLeast.repeatMin, 2)
	assert.Equal(t, atLeast.repeatMaxOk, false)

	bounded := parseOK(t, "a{1,3}")
	assert.Equal(t, bounded.repeatMin, 1)
	assert.Equal(t, bounded.repeatMax, 3)
}

func TestParseByteClass(t *testing.T) {
	e := parseOK(t, "[a-c]")
	assert.Equal(t, e.kind, exprByteClass)
	assert.Equal(t, e.class.Contains('a'), true)
	assert.Equal(t, e.class.Contains('c'), true)
	assert.Equal(t, e.class.Contains('d'), false)
}

func TestParseNegatedByteClass(t *testing.T) {
	e := parseOK(t, "[^a-c]")
	assert.Equal(t, e.class.Contains('a'), false)
	assert.Equal(t, e.class.Contains('z'), true)
}

func TestParseEscapeClasses(t *testing.T) {
	assert.Equal(t, parseOK(t, `\d`).class.Contains('5'), true)
	assert.Equal(t, parseOK(t, `\w`).class.Contains('_'), false)
	assert.Equal(t, parseOK(t, `\s`).class.Contains(' '), true)
}

func TestParseAnchorsAndWordBoundary(t *testing.T) {
	assert.Equal(t, parseOK(t, "^").assertion, AssertBeginLine)
	assert.Equal(t, parseOK(t, "$").assertion, AssertEndLine)
	assert.Equal(t, parseOK(t, `\b`).assertion, AssertWordBoundaryAscii)
	assert.Equal(t, parseOK(t, `\B`).assertion, AssertNotWordBoundaryAscii)
}

func TestParseErrorKinds(t *testing.T) {
	cases := []struct {
		source string
		kind   ParseErrorKind
	}{
		{"*", ErrMissingRepeatOperand},
		{"(a", ErrUnclosedParentheses},
		{"a)", ErrUnopenedParentheses},
		{"a{2,1}", ErrInvalidRepeatRange},
		{"[a-", ErrUnclosedBrackets},
		{"()", ErrEmptyCaptureGroup},
		{"a{999999999999}", ErrExcessiveRepeatCount},
		{`\`, ErrOpenEscapeCode},
	}
	for _, c := range cases {
		_, err := Parse([]byte(c.source))
		assert.ErrorType(t, err, func(err error) bool {
			pe, ok := err.(*ParseError)
			return ok && pe.Kind == c.kind
		})
	}
}

func TestParseEmptySourceIsEmptyMatch(t *testing.T) {
	e := parseOK(t, "")
	assert.Equal(t, e.kind, exprEmptyMatch)
	assert.Equal(t, e.assertion, AssertNone)
}
