package assign

import (
	"sort"

	"github.com/isocat/isocat/internal/gene"
)

// JunctionComparator classifies a read's ordered junction list against one
// isoform's junction list. It holds the gene's known intron axis to decide
// whether off-isoform structure is annotated elsewhere in the gene.
type JunctionComparator struct {
	params Params
	axis   *gene.IntronAxis
	strand int8
}

// NewJunctionComparator creates a comparator for one gene.
func NewJunctionComparator(params Params, axis *gene.IntronAxis, strand int8) *JunctionComparator {
	return &JunctionComparator{params: params, axis: axis, strand: strand}
}

// pairGroup links a run of read junction indexes to the run of isoform
// junction indexes they overlap. Both ranges are inclusive.
type pairGroup struct {
	readFirst, readLast       int
	isoformFirst, isoformLast int
}

// CompareJunctions walks both junction lists and emits one typed event per
// structural observation, in genomic order. The result is never empty: a
// clean comparison yields a single no-contradiction (or mono-exon) event.
func (c *JunctionComparator) CompareJunctions(readJunctions []gene.Interval, readRegion gene.Interval,
	isoformJunctions []gene.Interval, isoformRegion gene.Interval) []MatchEvent {

	if len(readJunctions) == 0 {
		return c.compareMonoExonic(readRegion, isoformJunctions)
	}

	var events []MatchEvent
	var groups []pairGroup
	delta := c.params.Delta

	i, j := 0, 0
	for i < len(readJunctions) && j < len(isoformJunctions) {
		rj, ij := readJunctions[i], isoformJunctions[j]
		switch {
		case rj.EqualWithin(ij, delta):
			i++
			j++
		case rj.Overlaps(ij):
			g := c.growOverlapGroup(readJunctions, isoformJunctions, i, j)
			groups = append(groups, g)
			i = g.readLast + 1
			j = g.isoformLast + 1
		case ij.End < rj.Start:
			if ev, ok := c.missedIsoformIntron(ij, j, readRegion); ok {
				events = append(events, ev)
			}
			j++
		default: // read junction entirely before the isoform junction
			events = append(events, c.extraReadIntron(readJunctions, i, j, len(isoformJunctions), isoformRegion))
			i++
		}
	}
	for ; j < len(isoformJunctions); j++ {
		if ev, ok := c.missedIsoformIntron(isoformJunctions[j], j, readRegion); ok {
			events = append(events, ev)
		}
	}
	for ; i < len(readJunctions); i++ {
		events = append(events, c.extraReadIntron(readJunctions, i, len(isoformJunctions), len(isoformJunctions), isoformRegion))
	}

	if len(groups) > 0 {
		events = append(events, c.DetectContradictionType(readRegion, readJunctions, isoformRegion, isoformJunctions, groups)...)
	}

	if len(events) == 0 {
		return []MatchEvent{noContradictionEvent()}
	}
	sortEventsGenomically(events, readJunctions, isoformJunctions)
	return events
}

// growOverlapGroup extends an initial overlapping pair into the maximal run
// of read and isoform junctions connected through the shared genomic span.
func (c *JunctionComparator) growOverlapGroup(readJunctions, isoformJunctions []gene.Interval, i, j int) pairGroup {
	g := pairGroup{readFirst: i, readLast: i, isoformFirst: j, isoformLast: j}
	span := gene.Interval{
		Start: min(readJunctions[i].Start, isoformJunctions[j].Start),
		End:   max(readJunctions[i].End, isoformJunctions[j].End),
	}
	for {
		grown := false
		if g.readLast+1 < len(readJunctions) && readJunctions[g.readLast+1].Start <= span.End {
			g.readLast++
			span.End = max(span.End, readJunctions[g.readLast].End)
			grown = true
		}
		if g.isoformLast+1 < len(isoformJunctions) && isoformJunctions[g.isoformLast+1].Start <= span.End {
			g.isoformLast++
			span.End = max(span.End, isoformJunctions[g.isoformLast].End)
			grown = true
		}
		if !grown {
			return g
		}
	}
}

// missedIsoformIntron classifies an isoform junction the read passed over
// without splicing. Introns the read does not reach are ignored.
func (c *JunctionComparator) missedIsoformIntron(intron gene.Interval, j int, readRegion gene.Interval) (MatchEvent, bool) {
	overlap := intron.OverlapLen(readRegion) - 1 // positions shared beyond a touching boundary
	switch {
	case readRegion.Contains(intron):
		return MatchEvent{Subtype: EventIntronRetention, IsoformPosition: j, ReadPosition: NoPosition}, true
	case intron.Start < readRegion.Start && readRegion.Start < intron.End &&
		overlap > c.params.MinimalIntronAbsenceOverlap:
		return MatchEvent{Subtype: EventIncompleteIntronRetentionLeft, IsoformPosition: j, ReadPosition: NoPosition}, true
	case intron.Start < readRegion.End && readRegion.End < intron.End &&
		overlap > c.params.MinimalIntronAbsenceOverlap:
		return MatchEvent{Subtype: EventIncompleteIntronRetentionRight, IsoformPosition: j, ReadPosition: NoPosition}, true
	}
	return MatchEvent{}, false
}

// extraReadIntron classifies a read junction with no isoform counterpart.
// Position relative to the isoform's junction list decides between the
// flanking subtypes and the interior known/novel split.
func (c *JunctionComparator) extraReadIntron(readJunctions []gene.Interval, i, j, nIsoform int, isoformRegion gene.Interval) MatchEvent {
	rj := readJunctions[i]
	subtype := EventExtraIntron
	switch {
	case nIsoform == 0:
		// Spliced read over a mono-exonic isoform: position against the
		// isoform region instead of its (empty) junction list.
		switch {
		case rj.End < isoformRegion.Start:
			subtype = EventExtraIntronFlankingLeft
		case rj.Start > isoformRegion.End:
			subtype = EventExtraIntronFlankingRight
		case c.axis.ContainsSimilar(rj, c.params.Delta):
			subtype = EventExtraIntronKnown
		}
	case j == 0:
		subtype = EventExtraIntronFlankingLeft
	case j >= nIsoform:
		subtype = EventExtraIntronFlankingRight
	case c.axis.ContainsSimilar(rj, c.params.Delta):
		subtype = EventExtraIntronKnown
	}
	return MatchEvent{Subtype: subtype, IsoformPosition: NoPosition, ReadPosition: i}
}

// compareMonoExonic handles a read without junctions: exact mono-exon match,
// a read inside one isoform exon (or intron), or retention of the isoform
// introns the read stretches across.
func (c *JunctionComparator) compareMonoExonic(readRegion gene.Interval, isoformJunctions []gene.Interval) []MatchEvent {
	if len(isoformJunctions) == 0 {
		return []MatchEvent{{Subtype: EventMonoExonMatch, IsoformPosition: NoPosition, ReadPosition: NoPosition}}
	}

	margin := c.params.MinimalIntronAbsenceOverlap
	var events []MatchEvent
	for j, intron := range isoformJunctions {
		overlap := intron.OverlapLen(readRegion) - 1
		switch {
		case intron.Contains(readRegion):
			// Read lies within the intron: no retention evidence.
		case intron.Start >= readRegion.Start+margin && intron.End <= readRegion.End-margin:
			events = append(events, MatchEvent{Subtype: EventUnsplicedIntronRetention, IsoformPosition: j, ReadPosition: NoPosition})
		case intron.Start < readRegion.Start && readRegion.Start < intron.End && overlap > margin:
			events = append(events, MatchEvent{Subtype: EventIncompleteIntronRetentionLeft, IsoformPosition: j, ReadPosition: NoPosition})
		case intron.Start < readRegion.End && readRegion.End < intron.End && overlap > margin:
			events = append(events, MatchEvent{Subtype: EventIncompleteIntronRetentionRight, IsoformPosition: j, ReadPosition: NoPosition})
		}
	}
	if len(events) == 0 {
		return []MatchEvent{{Subtype: EventMonoExonic, IsoformPosition: NoPosition, ReadPosition: NoPosition}}
	}
	return events
}

// sortEventsGenomically orders events by the genomic start of the junction
// they refer to, keeping the comparator's output deterministic.
func sortEventsGenomically(events []MatchEvent, readJunctions, isoformJunctions []gene.Interval) {
	key := func(e MatchEvent) int {
		if e.ReadPosition != NoPosition && e.ReadPosition < len(readJunctions) {
			return readJunctions[e.ReadPosition].Start
		}
		if e.IsoformPosition != NoPosition && e.IsoformPosition < len(isoformJunctions) {
			return isoformJunctions[e.IsoformPosition].Start
		}
		return int(^uint(0) >> 1)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return key(events[i]) < key(events[j])
	})
}
