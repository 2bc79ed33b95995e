package gene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIntronAxis_SortsAndDeduplicates(t *testing.T) {
	axis := NewIntronAxis([]Interval{
		{Start: 200, End: 210},
		{Start: 80, End: 110},
		{Start: 50, End: 60},
		{Start: 80, End: 100},
		{Start: 80, End: 100}, // shared by two isoforms
	})

	assert.Equal(t, []Interval{
		{Start: 50, End: 60},
		{Start: 80, End: 100},
		{Start: 80, End: 110},
		{Start: 200, End: 210},
	}, axis.Introns)
	assert.Equal(t, 4, axis.Len())

	i, ok := axis.Index(Interval{Start: 80, End: 110})
	require.True(t, ok)
	assert.Equal(t, 2, i)

	_, ok = axis.Index(Interval{Start: 80, End: 120})
	assert.False(t, ok)
}

func TestIntronAxis_ContainsSimilar(t *testing.T) {
	axis := NewIntronAxis([]Interval{
		{Start: 50, End: 60},
		{Start: 80, End: 100},
		{Start: 80, End: 110},
		{Start: 200, End: 210},
	})

	assert.True(t, axis.ContainsSimilar(Interval{Start: 50, End: 60}, 0))
	assert.True(t, axis.ContainsSimilar(Interval{Start: 78, End: 112}, 3))
	assert.False(t, axis.ContainsSimilar(Interval{Start: 78, End: 112}, 1))
	assert.False(t, axis.ContainsSimilar(Interval{Start: 60, End: 100}, 2))
}

func TestIntronAxis_HasBoundaryNear(t *testing.T) {
	axis := NewIntronAxis([]Interval{
		{Start: 50, End: 60},
		{Start: 200, End: 210},
	})

	assert.True(t, axis.HasBoundaryNear(50, 0))
	assert.True(t, axis.HasBoundaryNear(62, 2))
	assert.True(t, axis.HasBoundaryNear(198, 2))
	assert.False(t, axis.HasBoundaryNear(130, 5))
}

func TestIsoformProfile(t *testing.T) {
	iso1 := NewIsoform("iso1", "chr1", 1, []Interval{
		{Start: 1, End: 100}, {Start: 201, End: 300}, {Start: 401, End: 500},
	})
	iso2 := NewIsoform("iso2", "chr1", 1, []Interval{
		{Start: 250, End: 400}, {Start: 501, End: 600},
	})
	axis := BuildIntronAxis([]*Isoform{iso1, iso2})

	// Axis: (101,200) (301,400) (401,500)
	require.Equal(t, []Interval{
		{Start: 101, End: 200},
		{Start: 301, End: 400},
		{Start: 401, End: 500},
	}, axis.Introns)

	// iso1 carries the first two introns; the third lies inside its region
	// but is not spliced.
	assert.Equal(t, []int8{1, 1, -1}, axis.IsoformProfile(iso1))

	// iso2 starts after the first axis intron.
	assert.Equal(t, []int8{-2, -1, 1}, axis.IsoformProfile(iso2))
}
