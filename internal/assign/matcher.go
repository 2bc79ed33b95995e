package assign

import (
	"errors"
	"fmt"
	"sort"
)

// ErrProfileLengthMismatch signals a contract violation between the profile
// builder and the matcher: profiles over different axes (or an empty read
// profile) are not comparable.
var ErrProfileLengthMismatch = errors.New("profile length mismatch")

// IsoformDiff scores one isoform against a read profile. Distance 0 means an
// exact structural match.
type IsoformDiff struct {
	IsoformID string
	Distance  int
}

// MatchProfile ranks candidate isoforms by disagreement with the read
// profile. A non-nil hint restricts candidates to that set; the best match
// within the hint is returned even when a better isoform exists outside it.
// The result is ordered by ascending distance, ties broken by isoform id.
func MatchProfile(readProfile []int8, isoformProfiles map[string][]int8, hint map[string]bool) ([]IsoformDiff, error) {
	if len(readProfile) == 0 {
		return nil, fmt.Errorf("empty read profile: %w", ErrProfileLengthMismatch)
	}

	diffs := make([]IsoformDiff, 0, len(isoformProfiles))
	for id, isoformProfile := range isoformProfiles {
		if hint != nil && !hint[id] {
			continue
		}
		if len(isoformProfile) != len(readProfile) {
			return nil, fmt.Errorf("isoform %s: profile length %d != read profile length %d: %w",
				id, len(isoformProfile), len(readProfile), ErrProfileLengthMismatch)
		}
		diffs = append(diffs, IsoformDiff{IsoformID: id, Distance: diffProfiles(readProfile, isoformProfile)})
	}

	sort.Slice(diffs, func(i, j int) bool {
		if diffs[i].Distance != diffs[j].Distance {
			return diffs[i].Distance < diffs[j].Distance
		}
		return diffs[i].IsoformID < diffs[j].IsoformID
	})
	return diffs, nil
}

// diffProfiles counts axis positions where the read is informative
// (non-zero) and the isoform disagrees.
func diffProfiles(readProfile, isoformProfile []int8) int {
	count := 0
	for i, r := range readProfile {
		if r == ProfileNotCovered {
			continue
		}
		if isoformProfile[i] != r {
			count++
		}
	}
	return count
}

// FindMatchingIsoforms returns the ids at distance 0 from MatchProfile,
// sorted ascending by id.
func FindMatchingIsoforms(readProfile []int8, isoformProfiles map[string][]int8, hint map[string]bool) ([]string, error) {
	diffs, err := MatchProfile(readProfile, isoformProfiles, hint)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, d := range diffs {
		if d.Distance > 0 {
			break
		}
		ids = append(ids, d.IsoformID)
	}
	sort.Strings(ids)
	return ids, nil
}
