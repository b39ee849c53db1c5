package rex

// cursor walks a byte slice one byte at a time (spec.md §4.4). Both
// engines advance a cursor rather than indexing the input directly, and
// assertion evaluation reads through it too, so "where does the byte
// before/after this position come from" has exactly one answer.
type cursor struct {
	input []byte
	pos   int
}

func newCursor(input []byte, pos int) cursor {
	return cursor{input: input, pos: pos}
}

// current returns the byte at the cursor's position, or the sentinel
// (0, false) once the cursor has reached or passed the end of input.
func (c cursor) current() (byte, bool) {
	if c.pos >= len(c.input) {
		return 0, false
	}
	return c.input[c.pos], true
}

// isAtEnd reports whether the cursor sits at the zero-width position
// immediately after the last byte of input — still a valid position to
// evaluate an assertion at, just with no byte left to read.
func (c cursor) isAtEnd() bool {
	return c.pos >= len(c.input)
}

// isConsumed reports whether the cursor has been advanced one position
// past is_at_end: the sentinel position one past the end of input, which
// advance clamps to rather than running further off the end.
func (c cursor) isConsumed() bool {
	return c.pos > len(c.input)
}

// advance moves the cursor forward by one byte.
func (c cursor) advance() cursor {
	if c.isConsumed() {
		return c
	}
	return cursor{input: c.input, pos: c.pos + 1}
}

// byteBefore is the byte immediately behind the cursor, or the sentinel
// 0 if the cursor is at the start of input.
func (c cursor) byteBefore() byte {
	if c.pos <= 0 {
		return 0
	}
	return c.input[c.pos-1]
}

// byteAt is current()'s byte, or the sentinel 0 at/past the end.
func (c cursor) byteAt() byte {
	b, ok := c.current()
	if !ok {
		return 0
	}
	return b
}

// isWordByteAscii reports whether b is an ASCII word byte per spec.md §4.1:
// [0-9A-Za-z], deliberately excluding underscore.
func isWordByteAscii(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// evalAssertion decides whether the zero-width assertion a holds with the
// cursor positioned where it is.
func evalAssertion(a Assertion, c cursor) bool {
	switch a {
	case AssertNone:
		return true
	case AssertBeginText:
		return c.pos == 0
	case AssertEndText:
		return c.isAtEnd()
	case AssertBeginLine:
		// Multi-line mode isn't implemented: BeginLine is treated
		// identically to BeginText, anchored to the start of input only.
		return c.pos == 0
	case AssertEndLine:
		// Multi-line mode isn't implemented: EndLine is treated
		// identically to EndText, anchored to the end of input only.
		return c.isAtEnd()
	case AssertWordBoundaryAscii:
		return isWordByteAscii(c.byteBefore()) != isWordByteAscii(c.byteAt())
	case AssertNotWordBoundaryAscii:
		return isWordByteAscii(c.byteBefore()) == isWordByteAscii(c.byteAt())
	default:
		return false
	}
}
