package rex

// backtrackJob is one pending unit of work on the VM's explicit stack:
// either a thread to resume at (pc, cursor), or a deferred undo of a
// capture slot write made while exploring a branch that later failed.
type backtrackJob struct {
	isRestore bool

	pc  InstPtr
	cur cursor

	slot int
	prev int
}

// backtrackVM runs a Program by depth-first exploration of every Split
// branch, backtracking on failure. It memoizes (pc,pos) pairs already
// visited and failed, so it never revisits the same state twice; this
// bounds its running time to O(len(program) * len(input)), which is also
// why the dispatcher only hands it small (program, input) pairs.
type backtrackVM struct {
	prog  *Program
	input []byte

	slots   []int
	visited []bool // flattened (pc,pos) bitset, pc-major
}

const noSlot = -1

func newBacktrackVM(prog *Program, input []byte) *backtrackVM {
	slots := make([]int, prog.NumSlots)
	for i := range slots {
		slots[i] = noSlot
	}
	return &backtrackVM{
		prog:    prog,
		input:   input,
		slots:   slots,
		visited: make([]bool, len(prog.Insts)*(len(input)+1)),
	}
}

func (vm *backtrackVM) markVisited(pc, pos int) bool {
	idx := pc*(len(vm.input)+1) + pos
	if vm.visited[idx] {
		return false
	}
	vm.visited[idx] = true
	return true
}

// run attempts a match starting at pc=entry, cursor positioned at
// startPos. It returns the final capture slots on success, or nil if no
// match was found from that entry point.
func (vm *backtrackVM) run(entry InstPtr, startPos int) []int {
	stack := []backtrackJob{{pc: entry, cur: newCursor(vm.input, startPos)}}

	for len(stack) > 0 {
		job := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if job.isRestore {
			vm.slots[job.slot] = job.prev
			continue
		}

		pc, cur := job.pc, job.cur
		if !vm.markVisited(pc, cur.pos) {
			continue
		}

		inst := vm.prog.Insts[pc]
		switch inst.Op {
		case opMatch:
			out := make([]int, len(vm.slots))
			copy(out, vm.slots)
			return out

		case opChar:
			if b, ok := cur.current(); ok && b == inst.Char {
				stack = append(stack, backtrackJob{pc: inst.Out, cur: cur.advance()})
			}

		case opAnyCharNotNL:
			if b, ok := cur.current(); ok && b != '\n' {
				stack = append(stack, backtrackJob{pc: inst.Out, cur: cur.advance()})
			}

		case opByteClass:
			if b, ok := cur.current(); ok && inst.Class.Contains(b) {
				stack = append(stack, backtrackJob{pc: inst.Out, cur: cur.advance()})
			}

		case opEmptyMatch:
			if evalAssertion(inst.Assrt, cur) {
				stack = append(stack, backtrackJob{pc: inst.Out, cur: cur})
			}

		case opJump:
			stack = append(stack, backtrackJob{pc: inst.Out, cur: cur})

		case opSave:
			prev := vm.slots[inst.Slot]
			vm.slots[inst.Slot] = cur.pos
			// Push the undo before the continuation so it runs after that
			// continuation's subtree is fully explored (LIFO).
			stack = append(stack, backtrackJob{isRestore: true, slot: inst.Slot, prev: prev})
			stack = append(stack, backtrackJob{pc: inst.Out, cur: cur})

		case opSplit:
			// Push Other first so Out is popped (tried) first: primary
			// branch gets priority, matching Thompson-NFA greediness.
			stack = append(stack, backtrackJob{pc: inst.Other, cur: cur})
			stack = append(stack, backtrackJob{pc: inst.Out, cur: cur})
		}
	}

	return nil
}

// eligibleForBacktrack reports whether (program, input) is small enough
// for backtrackVM's O(insts*len(input)) memoization table to be cheap,
// per spec.md §5's dispatcher budget.
func eligibleForBacktrack(prog *Program, input []byte) bool {
	return (len(prog.Insts)+1)*(len(input)+1) < 512*32
}
