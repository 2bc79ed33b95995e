// Package gene provides the reference gene model: genes, isoforms and the
// per-gene intron axis that read profiles are built against.
package gene

// Interval is a genomic interval, 1-based with both ends inclusive.
type Interval struct {
	Start int
	End   int
}

// Len returns the number of positions covered by the interval.
func (i Interval) Len() int {
	return i.End - i.Start + 1
}

// Overlaps returns true if the two intervals share at least one position.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start <= other.End && other.Start <= i.End
}

// Contains returns true if other lies entirely within i.
func (i Interval) Contains(other Interval) bool {
	return i.Start <= other.Start && other.End <= i.End
}

// ContainsPos returns true if pos lies within the interval.
func (i Interval) ContainsPos(pos int) bool {
	return pos >= i.Start && pos <= i.End
}

// OverlapLen returns the length of the overlap with other, or 0 if disjoint.
func (i Interval) OverlapLen(other Interval) int {
	o := min(i.End, other.End) - max(i.Start, other.Start) + 1
	if o < 0 {
		return 0
	}
	return o
}

// EqualWithin returns true if both boundaries of the two intervals agree
// within delta positions.
func (i Interval) EqualWithin(other Interval, delta int) bool {
	return abs(i.Start-other.Start) <= delta && abs(i.End-other.End) <= delta
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
