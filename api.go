package rex

import "fmt"

// Regex is a compiled pattern. A *Regex is immutable after Compile returns
// and safe for concurrent use by multiple goroutines, the same way a
// compiled program in this family of engines carries no mutable state of
// its own; each call to Match/PartialMatch/FindCaptures allocates its own VM.
type Regex struct {
	source string
	prog   *Program
}

// Compile parses source and compiles it into a Regex, applying any
// supplied Options (see WithMaxRepeatLength) to the parser.
func Compile(source string, opts ...Option) (*Regex, error) {
	resolved := resolveOptions(opts)
	expr, err := (&parser{src: []byte(source), opts: resolved}).parse()
	if err != nil {
		return nil, err
	}
	prog, err := compileProgram(expr)
	if err != nil {
		return nil, err
	}
	return &Regex{source: source, prog: prog}, nil
}

// MustCompile is like Compile but panics if source fails to compile. It's
// meant for regexes known at init time to be valid, mirroring the
// convention the standard library's regexp package uses.
func MustCompile(source string, opts ...Option) *Regex {
	re, err := Compile(source, opts...)
	if err != nil {
		panic(fmt.Sprintf("rex: MustCompile(%q): %v", source, err))
	}
	return re
}

// String returns the source pattern the Regex was compiled from.
func (re *Regex) String() string {
	return re.source
}

// Match reports whether input matches re anchored at position 0 — it does
// not search for a match starting later in input. match(anchored) implies
// partial_match(unanchored), but not the reverse: a pattern that matches
// somewhere inside input can still fail Match if that occurrence isn't a
// prefix. Use PartialMatch to search anywhere in input.
func (re *Regex) Match(input []byte) bool {
	return execute(re.prog, input, re.prog.Start) != nil
}

// PartialMatch reports whether input contains a substring matching re,
// searching from any starting position.
func (re *Regex) PartialMatch(input []byte) bool {
	return execute(re.prog, input, re.prog.FindStart) != nil
}

// Captures holds the capture slots of a single match: byte offsets into
// the input the match was found in, two per group (start, end), group 0
// being the whole match. A slot pair is (-1,-1) if that group didn't
// participate in the match.
type Captures struct {
	slots []int
	input []byte
}

// FindCaptures searches input for a match of re and returns its Captures,
// or nil if there's no match anywhere in input.
func (re *Regex) FindCaptures(input []byte) *Captures {
	slots := execute(re.prog, input, re.prog.FindStart)
	if slots == nil {
		return nil
	}
	return &Captures{slots: slots, input: input}
}

// Len reports the number of capture groups, including the implicit whole
// match group 0.
func (c *Captures) Len() int {
	return len(c.slots) / 2
}

// BoundsAt returns the (start, end) byte offsets of group i, or
// (-1, -1), false if group i did not participate in the match.
func (c *Captures) BoundsAt(i int) (start, end int, ok bool) {
	if 2*i+1 >= len(c.slots) {
		return -1, -1, false
	}
	start, end = c.slots[2*i], c.slots[2*i+1]
	if start == noSlot || end == noSlot {
		return -1, -1, false
	}
	return start, end, true
}

// SliceAt returns the matched substring of group i, or nil, false if group
// i did not participate in the match.
func (c *Captures) SliceAt(i int) ([]byte, bool) {
	start, end, ok := c.BoundsAt(i)
	if !ok {
		return nil, false
	}
	return c.input[start:end], true
}

// Dump returns a disassembly of the compiled program, for debugging and
// for tests that check the shape of emitted bytecode.
func (re *Regex) Dump() string {
	return re.prog.String()
}

// ParseAndDump parses source without compiling it and renders the
// resulting Expr tree back out as regex source through the canonical
// formatter. Parsing that rendered source again reproduces an Expr tree
// structurally equal to the original (ignoring pointer identity), the
// round-trip property this function exists to support testing.
func ParseAndDump(source string) (string, error) {
	expr, err := Parse([]byte(source))
	if err != nil {
		return "", err
	}
	return formatExpr(expr), nil
}
