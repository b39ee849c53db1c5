package rex

// Assertion is a zero-width predicate evaluated against the input cursor.
type Assertion uint8

const (
	AssertNone Assertion = iota
	AssertBeginLine
	AssertEndLine
	AssertBeginText
	AssertEndText
	AssertWordBoundaryAscii
	AssertNotWordBoundaryAscii
)

func (a Assertion) String() string {
	switch a {
	case AssertNone:
		return "none"
	case AssertBeginLine:
		return "begin-line"
	case AssertEndLine:
		return "end-line"
	case AssertBeginText:
		return "begin-text"
	case AssertEndText:
		return "end-text"
	case AssertWordBoundaryAscii:
		return "word-boundary"
	case AssertNotWordBoundaryAscii:
		return "not-word-boundary"
	default:
		return "assertion(?)"
	}
}

// GroupAttributes records whether a group participates in capturing.
type GroupAttributes struct {
	Capturing bool
}

// exprKind tags the variant of an Expr node (§3).
type exprKind uint8

const (
	exprEmptyMatch exprKind = iota
	exprLiteral
	exprAnyCharNotNL
	exprByteClass
	exprCapture
	exprRepeat
	exprConcat
	exprAlternate
	exprPseudoLeftParen // parser-internal marker; never appears in a returned tree
)

// Expr is the algebraic AST node the Parser produces and the Compiler
// consumes. It's represented as a single struct with a kind tag rather
// than an interface hierarchy. Nodes are allocated individually on the
// heap by the constructors below; the parser uses no arena, and a tree is
// reclaimed by the garbage collector once nothing references it.
type Expr struct {
	kind exprKind

	assertion Assertion // exprEmptyMatch
	lit       byte      // exprLiteral
	class     *ByteRangeSet

	group Group // exprCapture

	repeatSub   *Expr // exprRepeat
	repeatMin   int
	repeatMax   int // -1 means unbounded
	repeatMaxOk bool
	greedy      bool

	children []*Expr // exprConcat, exprAlternate

	groupAttrs GroupAttributes // exprPseudoLeftParen
}

// Group is the payload of a Capture node: a subexpression plus whether it
// allocates capture slots.
type Group struct {
	Expr      *Expr
	Capturing bool
}

func newEmptyMatch(a Assertion) *Expr { return &Expr{kind: exprEmptyMatch, assertion: a} }
func newLiteral(b byte) *Expr         { return &Expr{kind: exprLiteral, lit: b} }
func newAnyCharNotNL() *Expr          { return &Expr{kind: exprAnyCharNotNL} }
func newByteClass(s *ByteRangeSet) *Expr {
	return &Expr{kind: exprByteClass, class: s}
}
func newCapture(sub *Expr, capturing bool) *Expr {
	return &Expr{kind: exprCapture, group: Group{Expr: sub, Capturing: capturing}}
}
func newPseudoLeftParen(attrs GroupAttributes) *Expr {
	return &Expr{kind: exprPseudoLeftParen, groupAttrs: attrs}
}

// newRepeat builds a Repeat node. max < 0 means unbounded (∞).
func newRepeat(sub *Expr, min, max int, greedy bool) *Expr {
	e := &Expr{kind: exprRepeat, repeatSub: sub, repeatMin: min, greedy: greedy}
	if max >= 0 {
		e.repeatMax = max
		e.repeatMaxOk = true
	}
	return e
}

// newConcat builds a Concat node, flattening the single-child case per the
// "Concat has >= 2 children" invariant (§3): a one-element concat collapses
// to its child directly.
func newConcat(children []*Expr) *Expr {
	if len(children) == 1 {
		return children[0]
	}
	return &Expr{kind: exprConcat, children: children}
}

// newAlternate builds an Alternate node. Callers must supply >= 2
// alternatives; EmptyAlternate is caught earlier, in the parser.
func newAlternate(children []*Expr) *Expr {
	return &Expr{kind: exprAlternate, children: children}
}

// isByteClassOperand reports whether e may be the operand of a repetition
// operator per spec.md §4.2: Literal, ByteClass, AnyCharNotNL, or Capture.
func isByteClassOperand(e *Expr) bool {
	switch e.kind {
	case exprLiteral, exprByteClass, exprAnyCharNotNL, exprCapture:
		return true
	default:
		return false
	}
}
