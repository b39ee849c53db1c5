package rex

// ordered is the constraint satisfied by any type a RangeSet can hold.
// This engine only ever instantiates RangeSet[byte], but the merge/negate
// arithmetic below doesn't care about width, so it's kept generic the way
// the teacher keeps its numeric helpers generic (min/max, isASCIIWordChar).
type ordered interface {
	~uint8 | ~uint16 | ~uint32 | ~int
}

// Range is an inclusive pair (Min, Max) with Min <= Max.
type Range[T ordered] struct {
	Min, Max T
}

// RangeSet is an ordered sequence of non-overlapping, non-adjacent ranges.
// After every AddRange call the invariant holds: for consecutive entries
// x, y, x.Max+1 < y.Min (saturating at the type's maximum so the gap check
// never overflows near the top of the domain).
type RangeSet[T ordered] struct {
	ranges []Range[T]
}

func satAddOne[T ordered](v T) T {
	next := v + 1
	if next < v { // overflowed
		return v
	}
	return next
}

// AddRange inserts r into the set, merging it with any range it overlaps
// or touches (gap of zero, i.e. adjacent).
func (s *RangeSet[T]) AddRange(r Range[T]) {
	i := 0
	for i < len(s.ranges) && s.ranges[i].Min < r.Min {
		i++
	}
	merged := make([]Range[T], 0, len(s.ranges)+1)
	merged = append(merged, s.ranges[:i]...)
	merged = append(merged, r)
	merged = append(merged, s.ranges[i:]...)
	s.ranges = merged
	s.coalesce()
}

// AddRangeValues is a convenience wrapper around AddRange for a literal
// (min, max) pair.
func (s *RangeSet[T]) AddRangeValues(min, max T) {
	s.AddRange(Range[T]{Min: min, Max: max})
}

// coalesce performs the single linear pass that merges any range whose Min
// is <= prev.Max+1 into its predecessor.
func (s *RangeSet[T]) coalesce() {
	if len(s.ranges) < 2 {
		return
	}
	out := s.ranges[:1]
	for _, r := range s.ranges[1:] {
		last := &out[len(out)-1]
		if r.Min <= satAddOne(last.Max) {
			if r.Max > last.Max {
				last.Max = r.Max
			}
			continue
		}
		out = append(out, r)
	}
	s.ranges = out
}

// Ranges returns the set's ranges in ascending order. The returned slice
// must not be mutated by the caller.
func (s *RangeSet[T]) Ranges() []Range[T] {
	return s.ranges
}

// Empty reports whether the set contains no ranges.
func (s *RangeSet[T]) Empty() bool {
	return len(s.ranges) == 0
}

// Contains reports whether v falls within any range of the set.
func (s *RangeSet[T]) Contains(v T) bool {
	for _, r := range s.ranges {
		if v >= r.Min && v <= r.Max {
			return true
		}
	}
	return false
}

// Merge adds every range of other into s.
func (s *RangeSet[T]) Merge(other *RangeSet[T]) {
	for _, r := range other.ranges {
		s.AddRange(r)
	}
}

// Negate replaces the set's contents with its complement within
// [minT, maxT], in place. Negate is idempotent: Negate(Negate(x)) == x.
func (s *RangeSet[T]) Negate(minT, maxT T) {
	if len(s.ranges) == 0 {
		s.ranges = []Range[T]{{Min: minT, Max: maxT}}
		return
	}
	var out []Range[T]
	if s.ranges[0].Min > minT {
		out = append(out, Range[T]{Min: minT, Max: s.ranges[0].Min - 1})
	}
	for i := 0; i+1 < len(s.ranges); i++ {
		gapLo := s.ranges[i].Max + 1
		gapHi := s.ranges[i+1].Min - 1
		if gapLo <= gapHi {
			out = append(out, Range[T]{Min: gapLo, Max: gapHi})
		}
	}
	last := s.ranges[len(s.ranges)-1]
	if last.Max < maxT {
		out = append(out, Range[T]{Min: last.Max + 1, Max: maxT})
	}
	s.ranges = out
}

// Clone returns an independent copy of s.
func (s *RangeSet[T]) Clone() *RangeSet[T] {
	c := &RangeSet[T]{ranges: make([]Range[T], len(s.ranges))}
	copy(c.ranges, s.ranges)
	return c
}

// ByteRangeSet is the byte-specialised RangeSet this engine matches against
// input bytes with; spec.md fixes T = u8.
type ByteRangeSet = RangeSet[byte]

// NegateByte negates s over the full byte domain [0x00, 0xFF].
func NegateByte(s *ByteRangeSet) {
	s.Negate(0x00, 0xFF)
}

// Byte-class templates, spec.md §4.1.

func newByteRangeSet(pairs ...[2]byte) *ByteRangeSet {
	s := &ByteRangeSet{}
	for _, p := range pairs {
		s.AddRangeValues(p[0], p[1])
	}
	return s
}

// classSpace builds \s = [\t\n\v\f\r ].
func classSpace() *ByteRangeSet {
	return newByteRangeSet([2]byte{0x09, 0x0D}, [2]byte{0x20, 0x20})
}

// classNotSpace builds \S.
func classNotSpace() *ByteRangeSet {
	s := classSpace()
	NegateByte(s)
	return s
}

// classWord builds \w = [0-9A-Za-z], per spec.md §4.1 (no underscore).
func classWord() *ByteRangeSet {
	return newByteRangeSet([2]byte{'0', '9'}, [2]byte{'A', 'Z'}, [2]byte{'a', 'z'})
}

// classNotWord builds \W.
func classNotWord() *ByteRangeSet {
	s := classWord()
	NegateByte(s)
	return s
}

// classDigit builds \d = [0-9].
func classDigit() *ByteRangeSet {
	return newByteRangeSet([2]byte{'0', '9'})
}

// classNotDigit builds \D.
func classNotDigit() *ByteRangeSet {
	s := classDigit()
	NegateByte(s)
	return s
}
