// Package assign implements the read-to-isoform assignment engine: profile
// construction over a gene's intron axis, distance ranking against candidate
// isoforms, and the junction-by-junction event classifier.
package assign

import "fmt"

// AmbiguityPolicy selects how ties between equally scoring isoforms are
// reported.
type AmbiguityPolicy int

const (
	// AmbiguityNone leaves all tied candidates listed as ambiguous.
	AmbiguityNone AmbiguityPolicy = iota
	// AmbiguityMonoexonOnly resolves ties for mono-exonic reads only;
	// spliced reads with ties stay ambiguous.
	AmbiguityMonoexonOnly
	// AmbiguityAll always collapses ties, keeping the lowest isoform id.
	AmbiguityAll
)

func (p AmbiguityPolicy) String() string {
	switch p {
	case AmbiguityNone:
		return "none"
	case AmbiguityMonoexonOnly:
		return "monoexon_only"
	case AmbiguityAll:
		return "all"
	}
	return "unknown"
}

// ParseAmbiguityPolicy converts a config string to a policy value.
func ParseAmbiguityPolicy(s string) (AmbiguityPolicy, error) {
	switch s {
	case "none":
		return AmbiguityNone, nil
	case "monoexon_only":
		return AmbiguityMonoexonOnly, nil
	case "all":
		return AmbiguityAll, nil
	}
	return AmbiguityNone, fmt.Errorf("unknown ambiguity policy %q", s)
}

// Params holds the tolerances and policies of the assignment engine.
type Params struct {
	// Delta is the coordinate tolerance for treating two junction
	// boundaries as equal.
	Delta int
	// MinimalIntronAbsenceOverlap is the minimum overlap between a
	// mono-exonic read and an isoform intron before the read counts as
	// retaining part of that intron.
	MinimalIntronAbsenceOverlap int
	// MaxIntronShift bounds the boundary displacement still classified as
	// an intron shift rather than a structural difference.
	MaxIntronShift int
	// MaxMissedExonLen bounds the exon length a read may skip while the
	// junction pair is still considered for exon-skipping classification.
	MaxMissedExonLen int
	// MaxFakeTerminalExonLen bounds terminal exons treated as alignment
	// artifacts next to a poly-A tail.
	MaxFakeTerminalExonLen int

	// PolyAWindow and PolyAFraction control tail detection in soft-clipped
	// sequence.
	PolyAWindow   int
	PolyAFraction float64
	// CageShift widens the CAGE peak lookup around the read 5' end.
	CageShift int

	// Workers is the number of concurrent assignment workers per input
	// file; 0 means one per CPU.
	Workers int

	// ResolveAmbiguous selects the tie-break policy.
	ResolveAmbiguous AmbiguityPolicy
	// CorrectMinorErrors lets small events (intron shifts, known splice
	// site alternatives) keep an assignment unique.
	CorrectMinorErrors bool

	// NoSecondary drops secondary alignments before assignment.
	NoSecondary bool
	// CountExons attaches the read's exon/intron gene profiles to the
	// assignment.
	CountExons bool
	// IndelStats attaches indel counts near splice junctions.
	IndelStats bool
	// IndelNearSpliceSiteDist is the maximum match length between an indel
	// and an intron for the junction to count as indel-adjacent.
	IndelNearSpliceSiteDist int
}

// DefaultParams returns the engine defaults.
func DefaultParams() Params {
	return Params{
		Delta:                       2,
		MinimalIntronAbsenceOverlap: 5,
		MaxIntronShift:              10,
		MaxMissedExonLen:            10,
		MaxFakeTerminalExonLen:      10,
		PolyAWindow:                 16,
		PolyAFraction:               0.75,
		CageShift:                   10,
		ResolveAmbiguous:            AmbiguityMonoexonOnly,
		CorrectMinorErrors:          true,
		IndelNearSpliceSiteDist:     10,
	}
}
