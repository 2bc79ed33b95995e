package assign

import "github.com/isocat/isocat/internal/gene"

// Profile values over the gene intron axis.
const (
	// ProfilePresent: an input interval matches the axis position within
	// delta at both boundaries.
	ProfilePresent int8 = 1
	// ProfileContradicts: the input covers the axis position but disagrees
	// beyond tolerance.
	ProfileContradicts int8 = -1
	// ProfileNotCovered: the input's region does not reach the axis
	// position. Used as the outside value for read profiles.
	ProfileNotCovered int8 = 0
	// ProfileOutside: axis position beyond the isoform's own region. Used
	// as the outside value for isoform profiles.
	ProfileOutside int8 = -2
)

// BuildProfile maps a set of intervals onto the gene's intron axis,
// producing the presence vector that profiles are compared by. The axis may
// contain duplicate or overlapping entries; each axis position is judged
// independently. Positions the region does not fully cover get the outside
// value.
func BuildProfile(features []gene.Interval, region gene.Interval, axis *gene.IntronAxis, delta int, outside int8) []int8 {
	profile := make([]int8, axis.Len())
	for i, axisIntron := range axis.Introns {
		switch {
		case matchesWithin(features, axisIntron, delta):
			profile[i] = ProfilePresent
		case region.Contains(axisIntron):
			profile[i] = ProfileContradicts
		default:
			profile[i] = outside
		}
	}
	return profile
}

// BuildReadProfile builds a read's intron profile: axis positions beyond the
// read's span are marked not covered.
func BuildReadProfile(readIntrons []gene.Interval, readRegion gene.Interval, axis *gene.IntronAxis, delta int) []int8 {
	return BuildProfile(readIntrons, readRegion, axis, delta, ProfileNotCovered)
}

// BuildReadExonProfile maps the read's exons onto the gene's split exon
// regions. Regions are fragments of annotated exons, so presence is judged
// by overlap rather than boundary equality.
func BuildReadExonProfile(readExons []gene.Interval, readRegion gene.Interval, regions []gene.Interval) []int8 {
	profile := make([]int8, len(regions))
	for i, r := range regions {
		switch {
		case overlapsAny(readExons, r):
			profile[i] = ProfilePresent
		case readRegion.Contains(r):
			profile[i] = ProfileContradicts
		default:
			profile[i] = ProfileNotCovered
		}
	}
	return profile
}

func overlapsAny(exons []gene.Interval, r gene.Interval) bool {
	for _, e := range exons {
		if e.Overlaps(r) {
			return true
		}
		if e.Start > r.End {
			break
		}
	}
	return false
}

func matchesWithin(features []gene.Interval, iv gene.Interval, delta int) bool {
	for _, f := range features {
		if f.EqualWithin(iv, delta) {
			return true
		}
		if f.Start > iv.End+delta {
			// Features are ordered by start; nothing later can match.
			break
		}
	}
	return false
}
