package rex

// parser turns a regex source string into an Expr tree using an explicit
// stack of in-progress fragments (§4.2): no recursive descent, so a deeply
// nested pattern cannot blow the Go call stack.
//
// The stack mixes three kinds of entries at any moment: completed
// fragments of the concatenation currently being built, a single
// in-progress Alternate accumulator per open group level, and
// PseudoLeftParen markers delimiting group boundaries. PseudoLeftParen
// never survives into a returned tree.
type parser struct {
	src   []byte
	pos   int
	opts  CompileOptions
	stack []*Expr
}

func newParser(src []byte, opts CompileOptions) *parser {
	return &parser{src: src, opts: opts}
}

func (p *parser) atEnd() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte { return p.src[p.pos] }

func (p *parser) peekIs(b byte) bool { return !p.atEnd() && p.src[p.pos] == b }

func (p *parser) peekAt(off int) (byte, bool) {
	i := p.pos + off
	if i < 0 || i >= len(p.src) {
		return 0, false
	}
	return p.src[i], true
}

func (p *parser) push(e *Expr) { p.stack = append(p.stack, e) }

func (p *parser) stackTop() (*Expr, bool) {
	if len(p.stack) == 0 {
		return nil, false
	}
	return p.stack[len(p.stack)-1], true
}

func (p *parser) pop() *Expr {
	n := len(p.stack)
	top := p.stack[n-1]
	p.stack = p.stack[:n-1]
	return top
}

func (p *parser) skipSpaces() {
	for !p.atEnd() && p.src[p.pos] == ' ' {
		p.pos++
	}
}

// parseDigits reads consecutive decimal digits, saturating on overflow the
// way the teacher's parseDecimalDigits does, so pathological repeat counts
// still land comfortably above MaxRepeatLength instead of wrapping.
func (p *parser) parseDigits() (int, bool) {
	if p.atEnd() || !isDigitByte(p.src[p.pos]) {
		return 0, false
	}
	n := 0
	for !p.atEnd() && isDigitByte(p.src[p.pos]) {
		d := int(p.src[p.pos] - '0')
		if n > (1<<62)/10 {
			n = 1 << 62
		} else {
			n = n*10 + d
		}
		p.pos++
	}
	return n, true
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigitByte(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	default:
		return int(b-'A') + 10
	}
}

func isPunctuationByte(b byte) bool {
	switch b {
	case '\\', '.', '+', '*', '?', '(', ')', '|', '[', ']', '{', '}', '^', '$', '-':
		return true
	default:
		return false
	}
}

// popConcat pops fragments off the top of the stack until it hits a
// PseudoLeftParen marker, an in-progress Alternate accumulator, or the
// bottom of the stack, then folds them (in source order) into a single
// Concat. Returns nil if there were no fragments to fold.
func (p *parser) popConcat() *Expr {
	var frags []*Expr
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		if top.kind == exprPseudoLeftParen || top.kind == exprAlternate {
			break
		}
		frags = append(frags, top)
		p.stack = p.stack[:len(p.stack)-1]
	}
	if len(frags) == 0 {
		return nil
	}
	for i, j := 0, len(frags)-1; i < j; i, j = i+1, j-1 {
		frags[i], frags[j] = frags[j], frags[i]
	}
	return newConcat(frags)
}

// Parse converts source into an Expr tree, or fails with a *ParseError.
func Parse(source []byte, opts ...Option) (*Expr, error) {
	return (&parser{src: source, opts: resolveOptions(opts)}).parse()
}

func (p *parser) parse() (*Expr, error) {
	if len(p.src) == 0 {
		return newEmptyMatch(AssertNone), nil
	}

	for !p.atEnd() {
		c := p.peek()
		switch c {
		case '(':
			if err := p.handleOpenParen(); err != nil {
				return nil, err
			}
		case ')':
			if err := p.handleCloseParen(); err != nil {
				return nil, err
			}
		case '|':
			if err := p.handleAlternation(); err != nil {
				return nil, err
			}
		case '^':
			p.pos++
			p.push(newEmptyMatch(AssertBeginLine))
		case '$':
			p.pos++
			p.push(newEmptyMatch(AssertEndLine))
		case '.':
			p.pos++
			p.push(newAnyCharNotNL())
		case '[':
			expr, err := p.parseClass()
			if err != nil {
				return nil, err
			}
			p.push(expr)
		case '*':
			opPos := p.pos
			p.pos++
			greedy := p.consumeGreedySuffix()
			if err := p.applyRepeat(0, 0, false, greedy, opPos); err != nil {
				return nil, err
			}
		case '+':
			opPos := p.pos
			p.pos++
			greedy := p.consumeGreedySuffix()
			if err := p.applyRepeat(1, 0, false, greedy, opPos); err != nil {
				return nil, err
			}
		case '?':
			opPos := p.pos
			p.pos++
			greedy := p.consumeGreedySuffix()
			if err := p.applyRepeat(0, 1, true, greedy, opPos); err != nil {
				return nil, err
			}
		case '{':
			if err := p.handleBraceRepeat(); err != nil {
				return nil, err
			}
		case '\\':
			res, err := p.parseEscape(false)
			if err != nil {
				return nil, err
			}
			p.pushEscapeResult(res)
		default:
			p.pos++
			p.push(newLiteral(c))
		}
	}

	return p.finalize()
}

func (p *parser) consumeGreedySuffix() bool {
	if p.peekIs('?') {
		p.pos++
		return false
	}
	return true
}

func (p *parser) handleOpenParen() error {
	startPos := p.pos
	p.pos++ // consume '('
	capturing := true
	if p.peekIs('?') {
		p.pos++
		if p.peekIs(':') {
			p.pos++
			capturing = false
		} else {
			return newParseError(ErrUnimplementedModifier, startPos, "")
		}
	}
	p.push(newPseudoLeftParen(GroupAttributes{Capturing: capturing}))
	return nil
}

func (p *parser) handleCloseParen() error {
	startPos := p.pos
	p.pos++ // consume ')'
	concat := p.popConcat()
	top, ok := p.stackTop()
	if !ok {
		return newParseError(ErrUnopenedParentheses, startPos, "")
	}

	if top.kind == exprAlternate {
		if concat == nil {
			return newParseError(ErrEmptyAlternate, startPos, "")
		}
		top.children = append(top.children, concat)
		p.pop() // remove the Alternate accumulator
		marker, ok2 := p.stackTop()
		if !ok2 || marker.kind != exprPseudoLeftParen {
			return newParseError(ErrUnopenedParentheses, startPos, "")
		}
		p.pop() // remove the marker
		result := newAlternate(top.children)
		p.push(newCapture(result, marker.groupAttrs.Capturing))
		return nil
	}

	if top.kind == exprPseudoLeftParen {
		p.pop() // remove the marker
		if concat == nil {
			return newParseError(ErrEmptyCaptureGroup, startPos, "")
		}
		p.push(newCapture(concat, top.groupAttrs.Capturing))
		return nil
	}

	return newParseError(ErrUnopenedParentheses, startPos, "")
}

func (p *parser) handleAlternation() error {
	startPos := p.pos
	p.pos++ // consume '|'
	concat := p.popConcat()
	top, ok := p.stackTop()
	if ok && top.kind == exprAlternate {
		if concat == nil {
			return newParseError(ErrEmptyAlternate, startPos, "")
		}
		top.children = append(top.children, concat)
		return nil
	}
	if concat == nil {
		return newParseError(ErrEmptyAlternate, startPos, "")
	}
	p.push(&Expr{kind: exprAlternate, children: []*Expr{concat}})
	return nil
}

func (p *parser) finalize() (*Expr, error) {
	concat := p.popConcat()
	top, ok := p.stackTop()
	if ok && top.kind == exprAlternate {
		if concat == nil {
			return nil, newParseError(ErrEmptyAlternate, p.pos, "")
		}
		top.children = append(top.children, concat)
		p.pop()
		if len(p.stack) > 0 {
			return nil, newParseError(ErrUnclosedParentheses, p.pos, "")
		}
		return newAlternate(top.children), nil
	}

	if len(p.stack) > 0 {
		return nil, newParseError(ErrUnclosedParentheses, p.pos, "")
	}
	if concat == nil {
		return newEmptyMatch(AssertNone), nil
	}
	return concat, nil
}

// applyRepeat pops the operand a quantifier at pos applies to, validating
// both the "byte-class operand" property and the MaxRepeatLength ceiling.
func (p *parser) applyRepeat(min, max int, maxOk, greedy bool, pos int) error {
	top, ok := p.stackTop()
	if !ok || !isByteClassOperand(top) {
		return newParseError(ErrMissingRepeatOperand, pos, "")
	}
	if maxOk && max < min {
		return newParseError(ErrInvalidRepeatRange, pos, "")
	}
	if min > p.opts.MaxRepeatLength || (maxOk && max > p.opts.MaxRepeatLength) {
		return newParseError(ErrExcessiveRepeatCount, pos, "")
	}
	operand := p.pop()
	repMax := -1
	if maxOk {
		repMax = max
	}
	p.push(newRepeat(operand, min, repMax, greedy))
	return nil
}

// handleBraceRepeat parses {m}, {m,}, or {m,n}, skipping spaces as it goes.
func (p *parser) handleBraceRepeat() error {
	startPos := p.pos
	p.pos++ // consume '{'
	p.skipSpaces()
	m, ok := p.parseDigits()
	if !ok {
		return newParseError(ErrMissingRepeatArgument, startPos, "")
	}
	p.skipSpaces()
	if p.atEnd() {
		return newParseError(ErrUnclosedRepeat, startPos, "")
	}

	var maxV int
	maxOk := false
	switch p.peek() {
	case '}':
		p.pos++
		maxV = m
		maxOk = true
	case ',':
		p.pos++
		p.skipSpaces()
		n, ok2 := p.parseDigits()
		p.skipSpaces()
		if p.atEnd() {
			return newParseError(ErrUnclosedRepeat, startPos, "")
		}
		if p.peek() != '}' {
			return newParseError(ErrUnclosedRepeat, startPos, "")
		}
		p.pos++
		if ok2 {
			maxV = n
			maxOk = true
		}
	default:
		return newParseError(ErrInvalidRepeatArgument, startPos, "")
	}

	greedy := p.consumeGreedySuffix()
	return p.applyRepeat(m, maxV, maxOk, greedy, startPos)
}

// pushEscapeResult pushes the Expr node corresponding to a top-level
// (outside-a-class) escape sequence.
func (p *parser) pushEscapeResult(res escapeResult) {
	switch res.kind {
	case escByte:
		p.push(newLiteral(res.b))
	case escClass:
		p.push(newByteClass(res.set))
	case escAssertion:
		p.push(newEmptyMatch(res.assertion))
	}
}

type escKind uint8

const (
	escByte escKind = iota
	escClass
	escAssertion
)

type escapeResult struct {
	kind      escKind
	b         byte
	set       *ByteRangeSet
	assertion Assertion
}

// parseEscape interprets the character(s) following a '\' per spec.md
// §4.2. insideClass disables the \b / \B assertion escapes, which are
// zero-width and meaningless inside a byte class.
func (p *parser) parseEscape(insideClass bool) (escapeResult, error) {
	startPos := p.pos
	p.pos++ // consume '\'
	if p.atEnd() {
		return escapeResult{}, newParseError(ErrOpenEscapeCode, startPos, "")
	}
	c := p.src[p.pos]

	switch {
	case isPunctuationByte(c):
		p.pos++
		return escapeResult{kind: escByte, b: c}, nil
	case c == 'a':
		p.pos++
		return escapeResult{kind: escByte, b: 0x07}, nil
	case c == 'f':
		p.pos++
		return escapeResult{kind: escByte, b: 0x0c}, nil
	case c == 'n':
		p.pos++
		return escapeResult{kind: escByte, b: '\n'}, nil
	case c == 'r':
		p.pos++
		return escapeResult{kind: escByte, b: '\r'}, nil
	case c == 't':
		p.pos++
		return escapeResult{kind: escByte, b: '\t'}, nil
	case c == 'v':
		p.pos++
		return escapeResult{kind: escByte, b: 0x0b}, nil
	case c == 's':
		p.pos++
		return escapeResult{kind: escClass, set: classSpace()}, nil
	case c == 'S':
		p.pos++
		return escapeResult{kind: escClass, set: classNotSpace()}, nil
	case c == 'w':
		p.pos++
		return escapeResult{kind: escClass, set: classWord()}, nil
	case c == 'W':
		p.pos++
		return escapeResult{kind: escClass, set: classNotWord()}, nil
	case c == 'd':
		p.pos++
		return escapeResult{kind: escClass, set: classDigit()}, nil
	case c == 'D':
		p.pos++
		return escapeResult{kind: escClass, set: classNotDigit()}, nil
	case c == 'b':
		if insideClass {
			return escapeResult{}, newParseError(ErrUnrecognizedEscapeCode, startPos, "")
		}
		p.pos++
		return escapeResult{kind: escAssertion, assertion: AssertWordBoundaryAscii}, nil
	case c == 'B':
		if insideClass {
			return escapeResult{}, newParseError(ErrUnrecognizedEscapeCode, startPos, "")
		}
		p.pos++
		return escapeResult{kind: escAssertion, assertion: AssertNotWordBoundaryAscii}, nil
	case c >= '0' && c <= '9':
		return p.parseOctalEscape(startPos)
	case c == 'x':
		p.pos++
		return p.parseHexEscape(startPos)
	default:
		return escapeResult{}, newParseError(ErrUnrecognizedEscapeCode, startPos, "")
	}
}

func (p *parser) parseOctalEscape(startPos int) (escapeResult, error) {
	val := 0
	digits := 0
	for digits < 3 && !p.atEnd() {
		d := p.src[p.pos]
		if d < '0' || d > '7' {
			if digits == 0 {
				return escapeResult{}, newParseError(ErrInvalidOctalDigit, startPos, "")
			}
			break
		}
		val = val*8 + int(d-'0')
		p.pos++
		digits++
	}
	return escapeResult{kind: escByte, b: byte(val & 0xFF)}, nil
}

func (p *parser) parseHexEscape(startPos int) (escapeResult, error) {
	if p.peekIs('{') {
		p.pos++
		start := p.pos
		for {
			if p.atEnd() {
				return escapeResult{}, newParseError(ErrUnclosedHexCharacterCode, startPos, "")
			}
			if p.peek() == '}' {
				break
			}
			p.pos++
		}
		digits := p.src[start:p.pos]
		p.pos++ // consume '}'
		if len(digits) == 0 {
			return escapeResult{}, newParseError(ErrInvalidHexDigit, startPos, "")
		}
		val := 0
		for _, d := range digits {
			if !isHexDigitByte(d) {
				return escapeResult{}, newParseError(ErrInvalidHexDigit, startPos, "")
			}
			val = val*16 + hexVal(d)
		}
		return escapeResult{kind: escByte, b: byte(val & 0xFF)}, nil
	}

	val := 0
	n := 0
	for n < 2 && !p.atEnd() && isHexDigitByte(p.peek()) {
		val = val*16 + hexVal(p.peek())
		p.pos++
		n++
	}
	if n == 0 {
		return escapeResult{}, newParseError(ErrInvalidHexDigit, startPos, "")
	}
	return escapeResult{kind: escByte, b: byte(val)}, nil
}

// parseClass parses a [...] character class, including the leading '['.
func (p *parser) parseClass() (*Expr, error) {
	startPos := p.pos
	p.pos++ // consume '['
	negated := false
	if p.peekIs('^') {
		negated = true
		p.pos++
	}

	set := &ByteRangeSet{}
	first := true
	for {
		if p.atEnd() {
			return nil, newParseError(ErrUnclosedBrackets, startPos, "")
		}
		c := p.peek()
		if c == ']' && !first {
			p.pos++
			break
		}
		if c == ']' && first {
			// literal ']' immediately after '[' or '[^'
			p.pos++
			first = false
			set.AddRangeValues(']', ']')
			continue
		}
		first = false

		leftByte, leftSet, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}
		if leftSet != nil {
			set.Merge(leftSet)
			continue
		}

		if p.peekIs('-') {
			if nc, ok := p.peekAt(1); ok && nc != ']' {
				p.pos++ // consume '-'
				rightByte, rightSet, err := p.parseClassAtom()
				if err != nil {
					return nil, err
				}
				if rightSet != nil {
					return nil, newParseError(ErrUnmatchedByteClass, p.pos, "class cannot be a range endpoint")
				}
				if leftByte > rightByte {
					return nil, newParseError(ErrUnmatchedByteClass, p.pos, "range out of order")
				}
				set.AddRangeValues(leftByte, rightByte)
				continue
			}
			// '-' adjacent to ']' (or at end of input): literal dash.
			p.pos++
			set.AddRangeValues(leftByte, leftByte)
			set.AddRangeValues('-', '-')
			continue
		}

		set.AddRangeValues(leftByte, leftByte)
	}

	if negated {
		NegateByte(set)
	}
	return newByteClass(set), nil
}

// parseClassAtom reads one character-class element: either a literal byte
// (first return, leftSet==nil) or a byte-class-escape template (leftSet
// set, byte ignored).
func (p *parser) parseClassAtom() (byte, *ByteRangeSet, error) {
	if p.peekIs('\\') {
		res, err := p.parseEscape(true)
		if err != nil {
			return 0, nil, err
		}
		switch res.kind {
		case escClass:
			return 0, res.set, nil
		case escByte:
			return res.b, nil, nil
		default:
			return 0, nil, newParseError(ErrUnrecognizedEscapeCode, p.pos, "")
		}
	}
	c := p.peek()
	p.pos++
	return c, nil, nil
}
