package rex

// InstPtr is an integer index into a Program's instruction vector.
// Index-based references (rather than heap pointers) keep Program a flat,
// trivially cloneable/serialisable value, per spec.md §9.
type InstPtr = int

type instOp uint8

const (
	opChar instOp = iota
	opEmptyMatch
	opByteClass
	opAnyCharNotNL
	opMatch
	opJump
	opSplit
	opSave
)

// Instruction is one op of a compiled Program. Every instruction has one
// implicit primary successor (Out) except Match (terminal); Split also
// carries a secondary successor (Other).
type Instruction struct {
	Op    instOp
	Out   InstPtr
	Other InstPtr // only meaningful for Split
	Char  byte
	Class *ByteRangeSet
	Assrt Assertion
	Slot  int // only meaningful for Save
}

// Program is the output of the Compiler: a flat instruction vector plus
// its two entry points.
type Program struct {
	Insts []Instruction
	// Start is the anchored entry point (Match requires input[0:] to match
	// from position 0).
	Start InstPtr
	// FindStart is the unanchored entry point: a Split/AnyCharNotNL loop
	// that non-deterministically advances the cursor before trying Start.
	FindStart InstPtr
	// NumSlots is the number of capture slots the compiled program's
	// highest-numbered Save instruction addresses, rounded up to a pair
	// boundary (slots 0,1 are always the whole-match group).
	NumSlots int
}

func (p *Program) String() string {
	return disassemble(p)
}
