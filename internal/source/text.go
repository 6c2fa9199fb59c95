package source

import (
	"fmt"

	"fortio.org/safecast"
)

// TextSize is a byte offset (or length) into source text.
type TextSize uint32

// TextRange is a half-open byte range [Start, End) into source text.
type TextRange struct {
	Start TextSize // в байтах включительно
	End   TextSize // в байтах не включительно
}

// SizeOf converts a Go length into a TextSize, panicking on overflow.
func SizeOf(n int) TextSize {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("text size overflow: %w", err))
	}
	return TextSize(v)
}

// NewRange builds a range, swapping the bounds is a programming error.
func NewRange(start, end TextSize) TextRange {
	if end < start {
		panic(fmt.Sprintf("invalid text range: %d > %d", start, end))
	}
	return TextRange{Start: start, End: end}
}

// RangeAt builds a range of length n starting at offset.
func RangeAt(offset, n TextSize) TextRange {
	return TextRange{Start: offset, End: offset + n}
}

// EmptyAt is a zero-length range positioned at offset.
func EmptyAt(offset TextSize) TextRange {
	return TextRange{Start: offset, End: offset}
}

func (r TextRange) Len() TextSize {
	return r.End - r.Start
}

func (r TextRange) Empty() bool {
	return r.Start == r.End
}

// Contains reports whether offset lies within [Start, End).
func (r TextRange) Contains(offset TextSize) bool {
	return r.Start <= offset && offset < r.End
}

// ContainsInclusive reports whether offset lies within [Start, End].
func (r TextRange) ContainsInclusive(offset TextSize) bool {
	return r.Start <= offset && offset <= r.End
}

// ContainsRange reports whether other is fully inside r.
func (r TextRange) ContainsRange(other TextRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Intersect returns the common part of two ranges, ok is false when they are disjoint.
// Touching ranges intersect in an empty range.
func (r TextRange) Intersect(other TextRange) (TextRange, bool) {
	start := max(r.Start, other.Start)
	end := min(r.End, other.End)
	if end < start {
		return TextRange{}, false
	}
	return TextRange{Start: start, End: end}, true
}

// Overlaps reports whether the ranges share at least one byte, or an empty range
// sits inside the other one.
func (r TextRange) Overlaps(other TextRange) bool {
	if r.Empty() {
		return other.ContainsInclusive(r.Start)
	}
	if other.Empty() {
		return r.ContainsInclusive(other.Start)
	}
	return r.Start < other.End && other.Start < r.End
}

// Cover returns the smallest range containing both ranges.
func (r TextRange) Cover(other TextRange) TextRange {
	return TextRange{Start: min(r.Start, other.Start), End: max(r.End, other.End)}
}

// CoverOffset extends the range so that it includes offset.
func (r TextRange) CoverOffset(offset TextSize) TextRange {
	return r.Cover(EmptyAt(offset))
}

// Add shifts the range to the right.
func (r TextRange) Add(n TextSize) TextRange {
	return TextRange{Start: r.Start + n, End: r.End + n}
}

// Sub shifts the range to the left; shifting past zero is a programming error.
func (r TextRange) Sub(n TextSize) TextRange {
	if n > r.Start {
		panic(fmt.Sprintf("text range %s shifted left by %d", r, n))
	}
	return TextRange{Start: r.Start - n, End: r.End - n}
}

// Compare orders ranges by start, then by end.
func (r TextRange) Compare(other TextRange) int {
	switch {
	case r.Start < other.Start:
		return -1
	case r.Start > other.Start:
		return 1
	case r.End < other.End:
		return -1
	case r.End > other.End:
		return 1
	}
	return 0
}

// Slice returns the part of text covered by the range.
func (r TextRange) Slice(text string) string {
	return text[r.Start:r.End]
}

func (r TextRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}
