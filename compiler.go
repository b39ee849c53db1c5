package rex

import "fmt"

// edgeSlot names which outgoing edge of an instruction a hole refers to.
type edgeSlot uint8

const (
	slotOut edgeSlot = iota
	slotOther
)

type edgeRef struct {
	idx  InstPtr
	slot edgeSlot
}

type holeKind uint8

const (
	holeNone holeKind = iota
	holeOne
	holeMany
)

// hole is an unresolved outgoing edge (or set of edges) of a compiled
// fragment, per spec.md §4.3.
type hole struct {
	kind holeKind
	one  edgeRef
	many []edgeRef
}

func oneHole(idx InstPtr, s edgeSlot) hole {
	return hole{kind: holeOne, one: edgeRef{idx: idx, slot: s}}
}

// manyHoles flattens a list of holes into a single Many hole.
func manyHoles(hs ...hole) hole {
	var refs []edgeRef
	for _, h := range hs {
		switch h.kind {
		case holeOne:
			refs = append(refs, h.one)
		case holeMany:
			refs = append(refs, h.many...)
		}
	}
	return hole{kind: holeMany, many: refs}
}

// patch bundles a compiled fragment's entry point with its unresolved exit.
type patch struct {
	entry InstPtr
	hole  hole
}

type compiler struct {
	insts    []Instruction
	nextSlot int
	slotOf   map[*Expr]int
}

func newCompiler() *compiler {
	return &compiler{nextSlot: 2, slotOf: map[*Expr]int{}}
}

func (c *compiler) emit(inst Instruction) InstPtr {
	idx := len(c.insts)
	c.insts = append(c.insts, inst)
	return idx
}

// fill rewrites every edge named by h to point at target.
func (c *compiler) fill(h hole, target InstPtr) {
	switch h.kind {
	case holeNone:
		return
	case holeOne:
		c.fillEdge(h.one, target)
	case holeMany:
		for _, e := range h.many {
			c.fillEdge(e, target)
		}
	}
}

func (c *compiler) fillEdge(e edgeRef, target InstPtr) {
	if e.slot == slotOther {
		c.insts[e.idx].Other = target
	} else {
		c.insts[e.idx].Out = target
	}
}

// fillToNext patches h to the instruction about to be appended.
func (c *compiler) fillToNext(h hole) {
	c.fill(h, InstPtr(len(c.insts)))
}

// compileProgram turns an Expr tree into a Program, wrapping the whole
// expression in an implicit capture group (slots 0,1) and appending the
// unanchored search prologue, per spec.md §4.3.
func compileProgram(expr *Expr) (*Program, error) {
	c := newCompiler()

	save0 := c.emit(Instruction{Op: opSave, Slot: 0})
	bodyPatch, err := c.compileNode(expr)
	if err != nil {
		return nil, err
	}
	c.insts[save0].Out = bodyPatch.entry

	save1 := c.emit(Instruction{Op: opSave, Slot: 1})
	c.fill(bodyPatch.hole, save1)

	matchIdx := c.emit(Instruction{Op: opMatch})
	c.insts[save1].Out = matchIdx

	start := InstPtr(save0)

	fragStart := c.emit(Instruction{Op: opSplit})
	anyIdx := c.emit(Instruction{Op: opAnyCharNotNL})
	c.insts[fragStart].Out = start
	c.insts[fragStart].Other = anyIdx
	c.insts[anyIdx].Out = fragStart

	return &Program{
		Insts:     c.insts,
		Start:     start,
		FindStart: fragStart,
		NumSlots:  c.nextSlot,
	}, nil
}

func (c *compiler) compileNode(e *Expr) (patch, error) {
	switch e.kind {
	case exprLiteral:
		idx := c.emit(Instruction{Op: opChar, Char: e.lit})
		return patch{entry: idx, hole: oneHole(idx, slotOut)}, nil
	case exprAnyCharNotNL:
		idx := c.emit(Instruction{Op: opAnyCharNotNL})
		return patch{entry: idx, hole: oneHole(idx, slotOut)}, nil
	case exprByteClass:
		idx := c.emit(Instruction{Op: opByteClass, Class: e.class})
		return patch{entry: idx, hole: oneHole(idx, slotOut)}, nil
	case exprEmptyMatch:
		idx := c.emit(Instruction{Op: opEmptyMatch, Assrt: e.assertion})
		return patch{entry: idx, hole: oneHole(idx, slotOut)}, nil
	case exprCapture:
		return c.compileCapture(e)
	case exprConcat:
		return c.compileConcat(e.children)
	case exprAlternate:
		return c.compileAlternate(e.children)
	case exprRepeat:
		return c.compileRepeat(e)
	default:
		return patch{}, fmt.Errorf("rex: cannot compile expr kind %d", e.kind)
	}
}

func (c *compiler) compileCapture(e *Expr) (patch, error) {
	sub := e.group.Expr
	if !e.group.Capturing {
		return c.compileNode(sub)
	}

	idx, ok := c.slotOf[e]
	if !ok {
		idx = c.nextSlot
		c.nextSlot += 2
		c.slotOf[e] = idx
	}

	saveStart := c.emit(Instruction{Op: opSave, Slot: idx})
	bodyPatch, err := c.compileNode(sub)
	if err != nil {
		return patch{}, err
	}
	c.insts[saveStart].Out = bodyPatch.entry

	saveEnd := c.emit(Instruction{Op: opSave, Slot: idx + 1})
	c.fill(bodyPatch.hole, saveEnd)

	return patch{entry: saveStart, hole: oneHole(saveEnd, slotOut)}, nil
}

func (c *compiler) compileConcat(children []*Expr) (patch, error) {
	var entry InstPtr = -1
	var prevHole hole
	for i, child := range children {
		p, err := c.compileNode(child)
		if err != nil {
			return patch{}, err
		}
		if i == 0 {
			entry = p.entry
		} else {
			c.fill(prevHole, p.entry)
		}
		prevHole = p.hole
	}
	return patch{entry: entry, hole: prevHole}, nil
}

// compileAlternate serialises [e0..en-1] as a chain of splits: each
// non-final alternative is preceded by a Split whose primary branch is the
// alternative itself and whose secondary branch is the next split in the
// chain (known immediately, since nothing separates them in the
// instruction stream).
func (c *compiler) compileAlternate(children []*Expr) (patch, error) {
	var holes []hole
	entry := InstPtr(-1)

	for i := 0; i < len(children)-1; i++ {
		splitIdx := c.emit(Instruction{Op: opSplit})
		if entry == -1 {
			entry = splitIdx
		}
		altPatch, err := c.compileNode(children[i])
		if err != nil {
			return patch{}, err
		}
		c.insts[splitIdx].Out = altPatch.entry
		holes = append(holes, altPatch.hole)
		c.insts[splitIdx].Other = InstPtr(len(c.insts))
	}

	lastPatch, err := c.compileNode(children[len(children)-1])
	if err != nil {
		return patch{}, err
	}
	if entry == -1 {
		entry = lastPatch.entry
	}
	holes = append(holes, lastPatch.hole)

	return patch{entry: entry, hole: manyHoles(holes...)}, nil
}

func (c *compiler) compileRepeat(e *Expr) (patch, error) {
	sub := e.repeatSub
	min := e.repeatMin

	if !e.repeatMaxOk {
		switch {
		case min == 0:
			return c.compileStar(sub, e.greedy)
		case min == 1:
			return c.compilePlus(sub, e.greedy)
		default:
			return c.compileAtLeast(sub, min, e.greedy)
		}
	}

	max := e.repeatMax
	if min == 0 && max == 1 {
		return c.compileOptional(sub, e.greedy)
	}
	return c.compileBounded(sub, min, max, e.greedy)
}

// compileStar implements `*` (0, ∞): Split at entry, body loops back to
// the split via an explicit Jump. Greedy tries the body first.
func (c *compiler) compileStar(sub *Expr, greedy bool) (patch, error) {
	splitIdx := c.emit(Instruction{Op: opSplit})
	bodyPatch, err := c.compileNode(sub)
	if err != nil {
		return patch{}, err
	}
	jumpIdx := c.emit(Instruction{Op: opJump, Out: splitIdx})
	c.fill(bodyPatch.hole, jumpIdx)

	if greedy {
		c.insts[splitIdx].Out = bodyPatch.entry
		return patch{entry: splitIdx, hole: oneHole(splitIdx, slotOther)}, nil
	}
	c.insts[splitIdx].Other = bodyPatch.entry
	return patch{entry: splitIdx, hole: oneHole(splitIdx, slotOut)}, nil
}

// compilePlus implements `+` (1, ∞): body first, then a Split back to the
// body's entry.
func (c *compiler) compilePlus(sub *Expr, greedy bool) (patch, error) {
	bodyPatch, err := c.compileNode(sub)
	if err != nil {
		return patch{}, err
	}
	splitIdx := c.emit(Instruction{Op: opSplit})
	c.fill(bodyPatch.hole, splitIdx)

	if greedy {
		c.insts[splitIdx].Out = bodyPatch.entry
		return patch{entry: bodyPatch.entry, hole: oneHole(splitIdx, slotOther)}, nil
	}
	c.insts[splitIdx].Other = bodyPatch.entry
	return patch{entry: bodyPatch.entry, hole: oneHole(splitIdx, slotOut)}, nil
}

// compileOptional implements `?` (0, 1).
func (c *compiler) compileOptional(sub *Expr, greedy bool) (patch, error) {
	splitIdx := c.emit(Instruction{Op: opSplit})
	bodyPatch, err := c.compileNode(sub)
	if err != nil {
		return patch{}, err
	}

	var skipHole hole
	if greedy {
		c.insts[splitIdx].Out = bodyPatch.entry
		skipHole = oneHole(splitIdx, slotOther)
	} else {
		c.insts[splitIdx].Other = bodyPatch.entry
		skipHole = oneHole(splitIdx, slotOut)
	}
	return patch{entry: splitIdx, hole: manyHoles(skipHole, bodyPatch.hole)}, nil
}

// compileAtLeast implements {m,} with m >= 2: m mandatory copies chained,
// then a `*` of one more copy.
func (c *compiler) compileAtLeast(sub *Expr, m int, greedy bool) (patch, error) {
	entry := InstPtr(-1)
	var prevHole hole
	for i := 0; i < m; i++ {
		bp, err := c.compileNode(sub)
		if err != nil {
			return patch{}, err
		}
		if i == 0 {
			entry = bp.entry
		} else {
			c.fill(prevHole, bp.entry)
		}
		prevHole = bp.hole
	}

	starPatch, err := c.compileStar(sub, greedy)
	if err != nil {
		return patch{}, err
	}
	if entry == -1 {
		entry = starPatch.entry
	} else {
		c.fill(prevHole, starPatch.entry)
	}
	return patch{entry: entry, hole: starPatch.hole}, nil
}

// compileBounded implements {m,n} with n finite. m==0 reduces to n chained
// independent `?`s; m>=1 chains m mandatory copies followed by n-m chained
// `?`s.
func (c *compiler) compileBounded(sub *Expr, m, n int, greedy bool) (patch, error) {
	if n == 0 {
		// {0,0}: the body never runs. Emit an explicit zero-width no-op
		// fragment rather than returning an empty/unresolved patch, so the
		// entry this compiles to is always a valid, addressable instruction.
		idx := c.emit(Instruction{Op: opEmptyMatch, Assrt: AssertNone})
		return patch{entry: idx, hole: oneHole(idx, slotOut)}, nil
	}

	entry := InstPtr(-1)
	var prevHole hole

	for i := 0; i < m; i++ {
		bp, err := c.compileNode(sub)
		if err != nil {
			return patch{}, err
		}
		if i == 0 {
			entry = bp.entry
		} else {
			c.fill(prevHole, bp.entry)
		}
		prevHole = bp.hole
	}

	for i := 0; i < n-m; i++ {
		opt, err := c.compileOptional(sub, greedy)
		if err != nil {
			return patch{}, err
		}
		if entry == -1 {
			entry = opt.entry
		} else {
			c.fill(prevHole, opt.entry)
		}
		prevHole = opt.hole
	}

	return patch{entry: entry, hole: prevHole}, nil
}
