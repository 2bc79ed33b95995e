package rnabam

import (
	"github.com/biogo/hts/sam"

	"github.com/isocat/isocat/internal/assign"
	"github.com/isocat/isocat/internal/gene"
)

// PolyAFinder detects poly-A (and poly-T on the reverse strand) tails in the
// soft-clipped ends of an alignment.
type PolyAFinder struct {
	window   int
	fraction float64
}

// NewPolyAFinder creates a finder requiring at least fraction adenines over
// a window of clipped bases.
func NewPolyAFinder(window int, fraction float64) *PolyAFinder {
	return &PolyAFinder{window: window, fraction: fraction}
}

// FindTails inspects the record's soft clips. A trailing clip dominated by
// A marks an external poly-A at the alignment end; a leading clip dominated
// by T marks an external poly-T at the alignment start. Positions are
// 1-based; undetected tails stay -1.
func (f *PolyAFinder) FindTails(rec *sam.Record, aln *Alignment) *assign.PolyAInfo {
	info := &assign.PolyAInfo{
		ExternalPolyAPos: -1,
		InternalPolyAPos: -1,
		ExternalPolyTPos: -1,
		InternalPolyTPos: -1,
	}
	if len(rec.Cigar) == 0 {
		return info
	}
	seq := rec.Seq.Expand()
	if len(seq) == 0 {
		return info
	}

	if last := rec.Cigar[len(rec.Cigar)-1]; last.Type() == sam.CigarSoftClipped {
		clip := seq[len(seq)-last.Len():]
		if f.dominated(clip, 'A') {
			info.ExternalPolyAPos = aln.Region().End
		}
	}
	if first := rec.Cigar[0]; first.Type() == sam.CigarSoftClipped {
		clip := seq[:first.Len()]
		if f.dominatedTail(clip, 'T') {
			info.ExternalPolyTPos = aln.Region().Start
		}
	}
	return info
}

// dominated checks the first window bases of the clip.
func (f *PolyAFinder) dominated(clip []byte, base byte) bool {
	n := min(f.window, len(clip))
	if n == 0 {
		return false
	}
	count := 0
	for _, b := range clip[:n] {
		if b == base {
			count++
		}
	}
	return float64(count)/float64(n) >= f.fraction
}

// dominatedTail checks the last window bases of the clip (the bases
// adjacent to the alignment start).
func (f *PolyAFinder) dominatedTail(clip []byte, base byte) bool {
	n := min(f.window, len(clip))
	if n == 0 {
		return false
	}
	count := 0
	for _, b := range clip[len(clip)-n:] {
		if b == base {
			count++
		}
	}
	return float64(count)/float64(n) >= f.fraction
}

// PolyAFixer removes short fake terminal exons caused by tail bases aligning
// past the real transcript end.
type PolyAFixer struct {
	maxFakeTerminalExonLen int
}

// NewPolyAFixer creates a fixer dropping terminal exons up to the given
// length when a tail was detected on that side.
func NewPolyAFixer(maxFakeTerminalExonLen int) *PolyAFixer {
	return &PolyAFixer{maxFakeTerminalExonLen: maxFakeTerminalExonLen}
}

// CorrectExons trims fake terminal exons adjacent to a detected tail and
// reports whether anything was removed. At least one exon always survives.
func (x *PolyAFixer) CorrectExons(exons []gene.Interval, polyA *assign.PolyAInfo) ([]gene.Interval, bool) {
	if x.maxFakeTerminalExonLen <= 0 || polyA == nil || len(exons) < 2 {
		return exons, false
	}
	trimmed := false
	if polyA.ExternalPolyAPos != -1 {
		for len(exons) > 1 && exons[len(exons)-1].Len() <= x.maxFakeTerminalExonLen {
			exons = exons[:len(exons)-1]
			trimmed = true
		}
	}
	if polyA.ExternalPolyTPos != -1 {
		for len(exons) > 1 && exons[0].Len() <= x.maxFakeTerminalExonLen {
			exons = exons[1:]
			trimmed = true
		}
	}
	return exons, trimmed
}
