package assign

// MatchEventSubtype is the closed enumeration of per-junction observations
// produced by the comparator. Each value is a terminal classification, not a
// transient state.
type MatchEventSubtype int

const (
	// EventNone records that no contradiction was found.
	EventNone MatchEventSubtype = iota
	// EventMonoExonMatch: mono-exonic read against a mono-exonic isoform.
	EventMonoExonMatch
	// EventMonoExonic: mono-exonic read lying within a single isoform exon
	// (or entirely within an isoform intron).
	EventMonoExonic
	// EventUnsplicedIntronRetention: mono-exonic read fully containing an
	// isoform intron.
	EventUnsplicedIntronRetention
	// EventIncompleteIntronRetentionLeft/Right: the read region starts or
	// ends inside an isoform intron.
	EventIncompleteIntronRetentionLeft
	EventIncompleteIntronRetentionRight
	// EventIntronRetention: a spliced read covers an isoform intron without
	// splicing it out.
	EventIntronRetention
	// EventExtraIntron: a read junction absent from the isoform and unknown
	// elsewhere in the gene.
	EventExtraIntron
	// EventExtraIntronKnown: a read junction absent from the isoform but
	// present in another isoform of the gene.
	EventExtraIntronKnown
	// EventExtraIntronFlankingLeft/Right: a read junction beyond the
	// isoform's outermost junction.
	EventExtraIntronFlankingLeft
	EventExtraIntronFlankingRight
	// EventIntronShift: both boundaries displaced by a small, comparable
	// amount.
	EventIntronShift
	// Alternative donor/acceptor sites: exactly one boundary agrees within
	// delta, the other does not. Known when the read junction exists in
	// another isoform.
	EventAltDonorSiteNovel
	EventAltDonorSiteKnown
	EventAltAcceptorSiteNovel
	EventAltAcceptorSiteKnown
	// EventExonMisalignment: a read junction spans isoform junctions whose
	// intervening exons are all short enough to be alignment artifacts.
	EventExonMisalignment
	// EventExonSkippingNovelIntron/KnownIntron: one read junction spans two
	// or more isoform junctions plus the exons between them.
	EventExonSkippingNovelIntron
	EventExonSkippingKnownIntron
	// EventExonGainNovel/Known: the read splits one isoform intron with an
	// additional exon.
	EventExonGainNovel
	EventExonGainKnown
	// EventAlternativeStructureNovel/Known: residual structural
	// disagreement not covered by the categories above.
	EventAlternativeStructureNovel
	EventAlternativeStructureKnown
	// EventAlignedPolyATail: terminal exons were trimmed as poly-A tail
	// alignment artifacts.
	EventAlignedPolyATail
)

var eventNames = map[MatchEventSubtype]string{
	EventNone:                           "none",
	EventMonoExonMatch:                  "mono_exon_match",
	EventMonoExonic:                     "mono_exonic",
	EventUnsplicedIntronRetention:       "unspliced_intron_retention",
	EventIncompleteIntronRetentionLeft:  "incomplete_intron_retention_left",
	EventIncompleteIntronRetentionRight: "incomplete_intron_retention_right",
	EventIntronRetention:                "intron_retention",
	EventExtraIntron:                    "extra_intron_novel",
	EventExtraIntronKnown:               "extra_intron_known",
	EventExtraIntronFlankingLeft:        "extra_intron_flanking_left",
	EventExtraIntronFlankingRight:       "extra_intron_flanking_right",
	EventIntronShift:                    "intron_shift",
	EventAltDonorSiteNovel:              "alt_donor_site_novel",
	EventAltDonorSiteKnown:              "alt_donor_site_known",
	EventAltAcceptorSiteNovel:           "alt_acceptor_site_novel",
	EventAltAcceptorSiteKnown:           "alt_acceptor_site_known",
	EventExonMisalignment:               "exon_misalignment",
	EventExonSkippingNovelIntron:        "exon_skipping_novel_intron",
	EventExonSkippingKnownIntron:        "exon_skipping_known_intron",
	EventExonGainNovel:                  "exon_gain_novel",
	EventExonGainKnown:                  "exon_gain_known",
	EventAlternativeStructureNovel:      "alternative_structure_novel",
	EventAlternativeStructureKnown:      "alternative_structure_known",
	EventAlignedPolyATail:               "aligned_polya_tail",
}

func (s MatchEventSubtype) String() string {
	if name, ok := eventNames[s]; ok {
		return name
	}
	return "unknown"
}

// NoPosition marks an event position that does not refer to a junction
// index (e.g. the read side of a retained isoform intron).
const NoPosition = -1

// MatchEvent is one typed observation about a single junction or region:
// the subtype plus the junction indexes it refers to on each side.
type MatchEvent struct {
	Subtype         MatchEventSubtype
	IsoformPosition int
	ReadPosition    int
}

func noContradictionEvent() MatchEvent {
	return MatchEvent{Subtype: EventNone, IsoformPosition: NoPosition, ReadPosition: NoPosition}
}

// IsMinor reports whether the subtype is tolerable for a unique assignment
// when minor-error correction is enabled.
func (s MatchEventSubtype) IsMinor() bool {
	switch s {
	case EventNone, EventMonoExonMatch, EventMonoExonic, EventAlignedPolyATail,
		EventIntronShift, EventExonMisalignment:
		return true
	}
	return false
}

// IsKnownStructure reports whether the subtype describes structure annotated
// on another isoform of the same gene, i.e. evidence for a known catalog
// entry rather than a wholly novel junction.
func (s MatchEventSubtype) IsKnownStructure() bool {
	switch s {
	case EventExtraIntronKnown, EventAltDonorSiteKnown, EventAltAcceptorSiteKnown,
		EventExonSkippingKnownIntron, EventExonGainKnown, EventAlternativeStructureKnown,
		EventIntronRetention, EventUnsplicedIntronRetention,
		EventIncompleteIntronRetentionLeft, EventIncompleteIntronRetentionRight:
		return true
	}
	return false
}

// IsContradiction reports whether the subtype contradicts the isoform
// structure (as opposed to a clean or minor observation).
func (s MatchEventSubtype) IsContradiction() bool {
	switch s {
	case EventNone, EventMonoExonMatch, EventMonoExonic, EventAlignedPolyATail:
		return false
	}
	return true
}
