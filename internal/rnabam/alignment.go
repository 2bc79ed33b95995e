// Package rnabam turns aligned long reads from BAM files into assignment
// requests: it decodes exon structure from CIGAR strings, detects poly-A
// tails and CAGE support, and feeds reads to per-gene resolvers.
package rnabam

import (
	"errors"
	"fmt"

	"github.com/biogo/hts/sam"

	"github.com/isocat/isocat/internal/gene"
)

// ErrNoExons signals an alignment whose CIGAR consumes no reference bases,
// so no exon structure can be derived from it.
var ErrNoExons = errors.New("alignment has no aligned blocks")

// Alignment is the decoded genomic structure of one read: 1-based closed
// exon blocks split on reference skips, with deletions merged into their
// surrounding block.
type Alignment struct {
	ReadID  string
	Chrom   string
	Strand  int8
	Exons   []gene.Interval
	Introns []gene.Interval
}

// Region returns the full reference span of the alignment.
func (a *Alignment) Region() gene.Interval {
	return gene.Interval{Start: a.Exons[0].Start, End: a.Exons[len(a.Exons)-1].End}
}

// DecodeAlignment extracts exon blocks from a mapped record. Reference
// skips (N) split blocks; deletions (D) extend the current block; insertions
// and clips do not advance the reference.
func DecodeAlignment(rec *sam.Record) (*Alignment, error) {
	if rec.Flags&sam.Unmapped != 0 || rec.Ref == nil {
		return nil, fmt.Errorf("read %s: unmapped: %w", rec.Name, ErrNoExons)
	}

	var exons []gene.Interval
	blockStart := rec.Pos + 1 // SAM positions are 0-based
	cur := blockStart
	for _, co := range rec.Cigar {
		con := co.Type().Consumes()
		lr := co.Len() * con.Reference
		if co.Type() == sam.CigarSkipped {
			if cur > blockStart {
				exons = append(exons, gene.Interval{Start: blockStart, End: cur - 1})
			}
			cur += lr
			blockStart = cur
			continue
		}
		cur += lr
	}
	if cur > blockStart {
		exons = append(exons, gene.Interval{Start: blockStart, End: cur - 1})
	}
	if len(exons) == 0 {
		return nil, fmt.Errorf("read %s: %w", rec.Name, ErrNoExons)
	}

	strand := int8(1)
	if rec.Flags&sam.Reverse != 0 {
		strand = -1
	}
	return &Alignment{
		ReadID:  rec.Name,
		Chrom:   rec.Ref.Name(),
		Strand:  strand,
		Exons:   exons,
		Introns: gene.IntronsFromExons(exons),
	}, nil
}
