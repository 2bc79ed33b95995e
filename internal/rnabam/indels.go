package rnabam

import "github.com/biogo/hts/sam"

// CountIndelStats counts insertion and deletion operations in the alignment
// and how many splice junctions have an indel nearby in the CIGAR: either
// directly adjacent, or separated from the junction by a match run of at
// most nearDist bases. Nearby indels are a common sign of misplaced splice
// sites.
func CountIndelStats(rec *sam.Record, nearDist int) (indelCount, junctionsWithIndels int) {
	isIndel := func(t sam.CigarOpType) bool {
		return t == sam.CigarInsertion || t == sam.CigarDeletion
	}
	isShortMatch := func(co sam.CigarOp) bool {
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			return co.Len() <= nearDist
		}
		return false
	}

	var intronPositions []int
	for i, co := range rec.Cigar {
		switch {
		case isIndel(co.Type()):
			indelCount++
		case co.Type() == sam.CigarSkipped:
			intronPositions = append(intronPositions, i)
		}
	}

	n := len(rec.Cigar)
	for _, i := range intronPositions {
		if (i > 0 && isIndel(rec.Cigar[i-1].Type())) ||
			(i < n-1 && isIndel(rec.Cigar[i+1].Type())) {
			junctionsWithIndels++
		}
		if (i > 1 && isIndel(rec.Cigar[i-2].Type()) && isShortMatch(rec.Cigar[i-1])) ||
			(i < n-2 && isIndel(rec.Cigar[i+2].Type()) && isShortMatch(rec.Cigar[i+1])) {
			junctionsWithIndels++
		}
	}
	return indelCount, junctionsWithIndels
}
