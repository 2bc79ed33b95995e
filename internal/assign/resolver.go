package assign

import (
	"sort"

	"go.uber.org/zap"

	"github.com/isocat/isocat/internal/gene"
)

// AssignmentType is the terminal classification of a read.
type AssignmentType int

const (
	// AssignmentUnique: exactly one isoform, full structural match.
	AssignmentUnique AssignmentType = iota
	// AssignmentUniqueMinorDifference: one isoform, only minor events.
	AssignmentUniqueMinorDifference
	// AssignmentAmbiguous: several equally good isoforms.
	AssignmentAmbiguous
	// AssignmentNovelInCatalog: contradictions, but every contradicting
	// structure is annotated on another isoform of the gene.
	AssignmentNovelInCatalog
	// AssignmentNovelNotInCatalog: at least one wholly novel junction.
	AssignmentNovelNotInCatalog
	// AssignmentIntergenic: no overlapping gene.
	AssignmentIntergenic
	// AssignmentNoninformative: the read covers no exonic sequence of the
	// gene.
	AssignmentNoninformative
)

var assignmentTypeNames = map[AssignmentType]string{
	AssignmentUnique:                "unique",
	AssignmentUniqueMinorDifference: "unique_minor_difference",
	AssignmentAmbiguous:             "ambiguous",
	AssignmentNovelInCatalog:        "novel_in_catalog",
	AssignmentNovelNotInCatalog:     "novel_not_in_catalog",
	AssignmentIntergenic:            "intergenic",
	AssignmentNoninformative:        "noninformative",
}

func (t AssignmentType) String() string {
	if name, ok := assignmentTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// PolyAInfo carries externally detected poly-A/poly-T tail positions.
// Undetected positions are -1.
type PolyAInfo struct {
	ExternalPolyAPos int
	InternalPolyAPos int
	ExternalPolyTPos int
	InternalPolyTPos int
}

// Found reports whether any tail position was detected.
func (p *PolyAInfo) Found() bool {
	if p == nil {
		return false
	}
	return p.ExternalPolyAPos != -1 || p.InternalPolyAPos != -1 ||
		p.ExternalPolyTPos != -1 || p.InternalPolyTPos != -1
}

// AlignmentInfo is the resolver-facing view of one aligned read: exon
// structure decoded from the alignment plus metadata supplied by external
// collaborators. The resolver never re-derives the metadata.
type AlignmentInfo struct {
	Chrom   string
	Exons   []gene.Interval
	Introns []gene.Interval
	Region  gene.Interval
	Strand  int8

	ReadGroup           string
	Multimapper         bool
	PolyA               *PolyAInfo
	CageHits            []int
	ExonsTrimmed        bool
	IndelCount          int
	JunctionsWithIndels int
}

// MonoExonic returns true if the read has no junctions.
func (ai *AlignmentInfo) MonoExonic() bool {
	return len(ai.Introns) == 0
}

// ReadAssignment is the final artifact for one read. After being handed to
// the caller it is only enriched additively (indel stats, gene profiles).
type ReadAssignment struct {
	ReadID   string
	ChrID    string
	GeneID   string
	Type     AssignmentType
	Isoforms []string
	Events   []MatchEvent
	Exons    []gene.Interval
	Strand   int8

	ReadGroup   string
	Multimapper bool
	PolyAFound  bool
	PolyA       *PolyAInfo
	CageFound   bool

	// Optional late-stage enrichment.
	IntronGeneProfile   []int8
	ExonGeneProfile     []int8
	IndelCount          int
	JunctionsWithIndels int
	IntronsMatch        bool
}

// AddEvent appends a match event (additive enrichment, e.g. the poly-A
// trimming marker added by the alignment processor).
func (a *ReadAssignment) AddEvent(e MatchEvent) {
	a.Events = append(a.Events, e)
}

// NewIntergenicAssignment builds the terminal record for a read with no
// overlapping gene.
func NewIntergenicAssignment(readID string) *ReadAssignment {
	return &ReadAssignment{ReadID: readID, Type: AssignmentIntergenic}
}

// Resolver orchestrates profile matching and junction comparison for one
// gene and applies the ambiguity-resolution policy. Resolvers share the
// read-only gene model and are safe for concurrent use.
type Resolver struct {
	gene       *gene.Gene
	params     Params
	comparator *JunctionComparator
	logger     *zap.Logger
}

// NewResolver creates a resolver over one gene.
func NewResolver(g *gene.Gene, params Params) *Resolver {
	return &Resolver{
		gene:       g,
		params:     params,
		comparator: NewJunctionComparator(params, g.Axis(), g.Strand),
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for diagnostic messages.
func (r *Resolver) SetLogger(l *zap.Logger) {
	r.logger = l
}

// candidate is one minimal-distance isoform with its comparison outcome.
type candidate struct {
	isoform *gene.Isoform
	events  []MatchEvent
	rank    int
}

// Candidate ranks, most to least restrictive.
const (
	rankFullMatch = iota
	rankMinor
	rankKnown
	rankNovel
)

// AssignToIsoform produces the final assignment for one read against the
// resolver's gene. The caller guarantees the read has at least one exon.
func (r *Resolver) AssignToIsoform(readID string, ai *AlignmentInfo) *ReadAssignment {
	assignment := &ReadAssignment{
		ReadID:      readID,
		ChrID:       r.gene.Chrom,
		GeneID:      r.gene.ID,
		Exons:       ai.Exons,
		Strand:      ai.Strand,
		ReadGroup:   ai.ReadGroup,
		Multimapper: ai.Multimapper,
		PolyA:       ai.PolyA,
		PolyAFound:  ai.PolyA.Found(),
		CageFound:   len(ai.CageHits) > 0,
	}

	if !r.coversExonicSequence(ai) {
		assignment.Type = AssignmentNoninformative
		assignment.Events = []MatchEvent{noContradictionEvent()}
		return assignment
	}

	diffs := r.rankIsoforms(readID, ai)
	if len(diffs) == 0 {
		assignment.Type = AssignmentNoninformative
		assignment.Events = []MatchEvent{noContradictionEvent()}
		return assignment
	}

	minDistance := diffs[0].Distance
	var candidates []candidate
	for _, d := range diffs {
		if d.Distance > minDistance {
			break
		}
		iso := r.gene.Isoform(d.IsoformID)
		events := r.comparator.CompareJunctions(ai.Introns, ai.Region, iso.Introns, iso.Region())
		candidates = append(candidates, candidate{
			isoform: iso,
			events:  events,
			rank:    r.eventRank(events),
		})
	}

	// Keep only the most restrictive candidates.
	best := candidates[0].rank
	for _, c := range candidates[1:] {
		if c.rank < best {
			best = c.rank
		}
	}
	kept := candidates[:0]
	for _, c := range candidates {
		if c.rank == best {
			kept = append(kept, c)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].isoform.ID < kept[j].isoform.ID })

	chosen := r.resolveAmbiguity(kept, ai)
	for _, c := range chosen {
		assignment.Isoforms = append(assignment.Isoforms, c.isoform.ID)
	}
	assignment.Events = chosen[0].events

	switch {
	case len(chosen) > 1:
		assignment.Type = AssignmentAmbiguous
	case best == rankFullMatch:
		assignment.Type = AssignmentUnique
	case best == rankMinor:
		assignment.Type = AssignmentUniqueMinorDifference
	case best == rankKnown:
		assignment.Type = AssignmentNovelInCatalog
	default:
		assignment.Type = AssignmentNovelNotInCatalog
	}
	return assignment
}

// rankIsoforms builds the read profile and ranks all isoforms by distance.
// A gene without introns (single-exon isoforms only) has an empty axis, for
// which every isoform trivially scores zero; that degenerate case is decided
// here so the matcher can keep rejecting empty profiles.
func (r *Resolver) rankIsoforms(readID string, ai *AlignmentInfo) []IsoformDiff {
	axis := r.gene.Axis()
	if axis.Len() == 0 {
		diffs := make([]IsoformDiff, 0, len(r.gene.Isoforms))
		for _, iso := range r.gene.Isoforms {
			diffs = append(diffs, IsoformDiff{IsoformID: iso.ID})
		}
		sort.Slice(diffs, func(i, j int) bool { return diffs[i].IsoformID < diffs[j].IsoformID })
		return diffs
	}

	readProfile := BuildReadProfile(ai.Introns, ai.Region, axis, r.params.Delta)
	diffs, err := MatchProfile(readProfile, r.gene.IntronProfiles(), nil)
	if err != nil {
		// Contract violation between builder and matcher; abort this read.
		r.logger.Warn("profile matching failed",
			zap.String("read", readID),
			zap.String("gene", r.gene.ID),
			zap.Error(err))
		return nil
	}
	return diffs
}

// eventRank folds an event list into the candidate rank used for
// tie-breaking and final classification.
func (r *Resolver) eventRank(events []MatchEvent) int {
	rank := rankFullMatch
	for _, e := range events {
		var er int
		switch {
		case !e.Subtype.IsContradiction():
			er = rankFullMatch
		case e.Subtype.IsMinor():
			er = rankMinor
			if !r.params.CorrectMinorErrors {
				er = rankKnown
			}
		case e.Subtype.IsKnownStructure():
			er = rankKnown
		default:
			er = rankNovel
		}
		if er > rank {
			rank = er
		}
	}
	return rank
}

// resolveAmbiguity applies the configured policy to equally ranked
// candidates. The returned slice is never empty and stays sorted by id.
func (r *Resolver) resolveAmbiguity(candidates []candidate, ai *AlignmentInfo) []candidate {
	if len(candidates) == 1 {
		return candidates
	}
	switch r.params.ResolveAmbiguous {
	case AmbiguityMonoexonOnly:
		if ai.MonoExonic() {
			return candidates[:1]
		}
	case AmbiguityAll:
		return candidates[:1]
	}
	return candidates
}

// coversExonicSequence reports whether the read overlaps at least one exon
// of any isoform.
func (r *Resolver) coversExonicSequence(ai *AlignmentInfo) bool {
	for _, iso := range r.gene.Isoforms {
		for _, exon := range iso.Exons {
			if exon.Overlaps(ai.Region) {
				return true
			}
		}
	}
	return false
}
