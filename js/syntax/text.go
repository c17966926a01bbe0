package syntax

import "fmt"

// TextSize is a byte offset into, or a byte length of, source text.
type TextSize = int

// TextRange is a half-open byte interval [Start, End) into source text.
type TextRange struct {
	Start int
	End   int
}

func NewRange(start, end int) TextRange {
	if end < start {
		panic(fmt.Sprintf("invalid text range %d..%d", start, end))
	}
	return TextRange{Start: start, End: end}
}

// EmptyRange returns the zero-length range positioned at offset.
func EmptyRange(offset int) TextRange {
	return TextRange{Start: offset, End: offset}
}

func (r TextRange) Len() int {
	return r.End - r.Start
}

func (r TextRange) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether offset lies inside r. The end offset is excluded.
func (r TextRange) Contains(offset int) bool {
	return r.Start <= offset && offset < r.End
}

// ContainsRange reports whether other lies completely inside r.
func (r TextRange) ContainsRange(other TextRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

func (r TextRange) Intersects(other TextRange) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// Cover returns the smallest range containing both r and other.
func (r TextRange) Cover(other TextRange) TextRange {
	return TextRange{Start: min(r.Start, other.Start), End: max(r.End, other.End)}
}

func (r TextRange) Slice(text string) string {
	return text[r.Start:r.End]
}

func (r TextRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}
