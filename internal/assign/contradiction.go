package assign

import "github.com/isocat/isocat/internal/gene"

// DetectContradictionType classifies disagreeing junction pair groups. Each
// group links a run of read junctions to the run of isoform junctions they
// overlap; the geometry of the group decides between a positional shift, an
// alternative donor/acceptor site, exon skipping, exon gain, or a residual
// structural difference. Pure given its inputs: no comparator-wide state is
// consulted beyond the gene's known intron axis and strand.
func (c *JunctionComparator) DetectContradictionType(readRegion gene.Interval, readJunctions []gene.Interval,
	isoformRegion gene.Interval, isoformJunctions []gene.Interval, groups []pairGroup) []MatchEvent {

	events := make([]MatchEvent, 0, len(groups))
	for _, g := range groups {
		nRead := g.readLast - g.readFirst + 1
		nIsoform := g.isoformLast - g.isoformFirst + 1
		switch {
		case nRead == 1 && nIsoform == 1:
			events = append(events, c.classifySingleIntronAlternation(
				readJunctions[g.readFirst], isoformJunctions[g.isoformFirst], g.readFirst, g.isoformFirst))
		case nRead == 1:
			events = append(events, c.classifyExonSkipping(readJunctions[g.readFirst], isoformJunctions, g))
		case nIsoform == 1:
			events = append(events, c.classifyExonGain(readJunctions, isoformJunctions[g.isoformFirst], g))
		default:
			events = append(events, c.alternativeStructure(readJunctions[g.readFirst:g.readLast+1], g))
		}
	}
	return events
}

// classifySingleIntronAlternation decides between an intron shift, an
// alternative splice site, and a residual structural difference for one
// read junction against one isoform junction.
func (c *JunctionComparator) classifySingleIntronAlternation(readIntron, isoformIntron gene.Interval, readPos, isoformPos int) MatchEvent {
	delta := c.params.Delta
	leftShift := abs(readIntron.Start - isoformIntron.Start)
	rightShift := abs(readIntron.End - isoformIntron.End)
	known := c.axis.ContainsSimilar(readIntron, delta)

	subtype := EventAlternativeStructureNovel
	switch {
	case leftShift <= delta && rightShift <= delta:
		// Within tolerance on both sides: not a contradiction after all.
		return MatchEvent{Subtype: EventNone, IsoformPosition: isoformPos, ReadPosition: readPos}
	case leftShift <= delta:
		subtype = c.altSiteSubtype(false, known)
	case rightShift <= delta:
		subtype = c.altSiteSubtype(true, known)
	case leftShift <= c.params.MaxIntronShift && rightShift <= c.params.MaxIntronShift:
		subtype = EventIntronShift
	case known:
		subtype = EventAlternativeStructureKnown
	}
	return MatchEvent{Subtype: subtype, IsoformPosition: isoformPos, ReadPosition: readPos}
}

// altSiteSubtype maps the differing boundary side to a donor or acceptor
// subtype. On the forward strand the intron start is the donor site; on the
// reverse strand the sides swap.
func (c *JunctionComparator) altSiteSubtype(leftDiffers, known bool) MatchEventSubtype {
	donorSide := leftDiffers
	if c.strand == -1 {
		donorSide = !donorSide
	}
	switch {
	case donorSide && known:
		return EventAltDonorSiteKnown
	case donorSide:
		return EventAltDonorSiteNovel
	case known:
		return EventAltAcceptorSiteKnown
	}
	return EventAltAcceptorSiteNovel
}

// classifyExonSkipping handles one read junction spanning several isoform
// junctions: if the read junction reproduces the isoform's outer boundaries,
// the exons between them were skipped through a single novel (or known)
// intron. Skipped exons no longer than MaxMissedExonLen count as alignment
// artifacts rather than real skipping.
func (c *JunctionComparator) classifyExonSkipping(readIntron gene.Interval, isoformJunctions []gene.Interval, g pairGroup) MatchEvent {
	delta := c.params.Delta
	first := isoformJunctions[g.isoformFirst]
	last := isoformJunctions[g.isoformLast]
	subtype := EventAlternativeStructureNovel
	if abs(readIntron.Start-first.Start) <= delta && abs(readIntron.End-last.End) <= delta {
		switch {
		case longestSkippedExon(isoformJunctions, g) <= c.params.MaxMissedExonLen:
			subtype = EventExonMisalignment
		case c.axis.ContainsSimilar(readIntron, delta):
			subtype = EventExonSkippingKnownIntron
		default:
			subtype = EventExonSkippingNovelIntron
		}
	}
	return MatchEvent{Subtype: subtype, IsoformPosition: g.isoformFirst, ReadPosition: g.readFirst}
}

// longestSkippedExon returns the length of the longest isoform exon between
// the group's junctions.
func longestSkippedExon(junctions []gene.Interval, g pairGroup) int {
	longest := 0
	for j := g.isoformFirst; j < g.isoformLast; j++ {
		longest = max(longest, junctions[j+1].Start-junctions[j].End-1)
	}
	return longest
}

// classifyExonGain handles several read junctions splitting one isoform
// intron: the read gained an exon inside the intron.
func (c *JunctionComparator) classifyExonGain(readJunctions []gene.Interval, isoformIntron gene.Interval, g pairGroup) MatchEvent {
	delta := c.params.Delta
	first := readJunctions[g.readFirst]
	last := readJunctions[g.readLast]
	subtype := EventAlternativeStructureNovel
	if abs(first.Start-isoformIntron.Start) <= delta && abs(last.End-isoformIntron.End) <= delta {
		subtype = EventExonGainKnown
		for i := g.readFirst; i <= g.readLast; i++ {
			if !c.axis.ContainsSimilar(readJunctions[i], delta) {
				subtype = EventExonGainNovel
				break
			}
		}
	}
	return MatchEvent{Subtype: subtype, IsoformPosition: g.isoformFirst, ReadPosition: g.readFirst}
}

// alternativeStructure covers many-to-many disagreements.
func (c *JunctionComparator) alternativeStructure(readIntrons []gene.Interval, g pairGroup) MatchEvent {
	subtype := EventAlternativeStructureKnown
	for _, ri := range readIntrons {
		if !c.axis.ContainsSimilar(ri, c.params.Delta) {
			subtype = EventAlternativeStructureNovel
			break
		}
	}
	return MatchEvent{Subtype: subtype, IsoformPosition: g.isoformFirst, ReadPosition: g.readFirst}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
