package rex

// execute runs prog against input starting its search from entry,
// choosing backtrackVM when the (program, input) pair is small enough for
// its memoization table to be cheap and falling back to pikeVM otherwise.
// Both engines implement the same contract: return the slots of the
// highest-priority match reachable from entry, or nil.
func execute(prog *Program, input []byte, entry InstPtr) []int {
	if eligibleForBacktrack(prog, input) {
		return newBacktrackVM(prog, input).run(entry, 0)
	}
	return newPikeVM(prog, input).run(entry, 0, prog.NumSlots)
}
