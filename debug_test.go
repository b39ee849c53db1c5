package rex

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func TestRegexDumpMentionsMatch(t *testing.T) {
	re := MustCompile(`a+`)
	dump := re.Dump()
	assert.Assert(t, strings.Contains(dump, "match"))
	assert.Assert(t, strings.Contains(dump, "Program"))
}

// TestParseAndDumpRoundTrips checks the formatter's core property: parsing
// its own output reproduces an Expr tree structurally equal to the one it
// was given, the same go-cmp structural-diffing style the teacher's
// regonaut_test.go uses for its own AST assertions.
func TestParseAndDumpRoundTrips(t *testing.T) {
	patterns := []string{
		`(a){2,3}`,
		`ab(\d+)`,
		`[Hh]ello [Ww]orld\s*[!]?`,
		`^foo$`,
		`\bx\B`,
		`(?:a|b)+`,
		``,
	}
	cmpOpts := cmp.AllowUnexported(Expr{}, Group{}, GroupAttributes{}, RangeSet[byte]{})

	for _, pattern := range patterns {
		original, err := Parse([]byte(pattern))
		assert.NilError(t, err)

		dump, err := ParseAndDump(pattern)
		assert.NilError(t, err)

		reparsed, err := Parse([]byte(dump))
		assert.NilError(t, err)

		if diff := cmp.Diff(original, reparsed, cmpOpts); diff != "" {
			t.Errorf("round trip of %q through %q changed the tree:\n%s", pattern, dump, diff)
		}
	}
}

func TestParseAndDumpPropagatesParseError(t *testing.T) {
	_, err := ParseAndDump("(a")
	assert.ErrorType(t, err, func(err error) bool {
		pe, ok := err.(*ParseError)
		return ok && pe.Kind == ErrUnclosedParentheses
	})
}
