package gene

import "sort"

// IntronAxis is the gene's canonical ordered union of intron positions
// across all isoforms. Profiles for reads and isoforms are positional
// vectors over this axis, so two profiles are only comparable when built
// against the same axis. Overlapping and nested entries are expected (the
// same locus may carry several isoforms' introns); exact duplicates are
// collapsed.
type IntronAxis struct {
	Introns []Interval
	index   map[Interval]int
}

// NewIntronAxis builds an axis from a raw interval list: sorted by
// (start, end), exact duplicates removed, ordering fixed for the life of
// the gene.
func NewIntronAxis(introns []Interval) *IntronAxis {
	sorted := make([]Interval, len(introns))
	copy(sorted, introns)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	a := &IntronAxis{index: make(map[Interval]int)}
	for _, iv := range sorted {
		if _, seen := a.index[iv]; seen {
			continue
		}
		a.index[iv] = len(a.Introns)
		a.Introns = append(a.Introns, iv)
	}
	return a
}

// BuildIntronAxis collects every intron of every isoform into one axis.
func BuildIntronAxis(isoforms []*Isoform) *IntronAxis {
	var all []Interval
	for _, iso := range isoforms {
		all = append(all, iso.Introns...)
	}
	return NewIntronAxis(all)
}

// Len returns the number of axis positions.
func (a *IntronAxis) Len() int {
	return len(a.Introns)
}

// Index returns the axis position of an exact intron interval.
func (a *IntronAxis) Index(iv Interval) (int, bool) {
	i, ok := a.index[iv]
	return i, ok
}

// ContainsSimilar reports whether the axis holds an intron matching iv
// within delta at both boundaries.
func (a *IntronAxis) ContainsSimilar(iv Interval, delta int) bool {
	// Axis introns are sorted by start; restrict the scan to starts within
	// delta of iv.Start.
	lo := sort.Search(len(a.Introns), func(i int) bool {
		return a.Introns[i].Start >= iv.Start-delta
	})
	for i := lo; i < len(a.Introns) && a.Introns[i].Start <= iv.Start+delta; i++ {
		if abs(a.Introns[i].End-iv.End) <= delta {
			return true
		}
	}
	return false
}

// HasBoundaryNear reports whether any axis intron has a start or end within
// delta of pos. Used to decide whether a shifted splice site coincides with
// a site known elsewhere in the gene.
func (a *IntronAxis) HasBoundaryNear(pos, delta int) bool {
	for _, iv := range a.Introns {
		if iv.Start > pos+delta {
			// Sorted by start and End >= Start, so no later intron can match.
			break
		}
		if abs(iv.Start-pos) <= delta || abs(iv.End-pos) <= delta {
			return true
		}
	}
	return false
}

// IsoformProfile builds the isoform's presence vector over the axis:
// 1 where the isoform carries the intron, -1 where the axis position lies
// inside the isoform region but the isoform disagrees, -2 outside the
// isoform region.
func (a *IntronAxis) IsoformProfile(iso *Isoform) []int8 {
	profile := make([]int8, len(a.Introns))
	region := iso.Region()
	for i, axisIntron := range a.Introns {
		switch {
		case hasExactIntron(iso.Introns, axisIntron):
			profile[i] = 1
		case region.Contains(axisIntron):
			profile[i] = -1
		default:
			profile[i] = -2
		}
	}
	return profile
}

func hasExactIntron(introns []Interval, iv Interval) bool {
	for _, in := range introns {
		if in == iv {
			return true
		}
	}
	return false
}
