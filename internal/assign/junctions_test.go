package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isocat/isocat/internal/gene"
)

// testAxis covers the known introns of the fixture gene, including two
// entries sharing a start.
func testAxis() *gene.IntronAxis {
	return gene.NewIntronAxis([]gene.Interval{
		{Start: 50, End: 60},
		{Start: 80, End: 100},
		{Start: 80, End: 110},
		{Start: 200, End: 210},
	})
}

func newTestComparator(delta int) *JunctionComparator {
	params := DefaultParams()
	params.Delta = delta
	return NewJunctionComparator(params, testAxis(), 1)
}

func iv(start, end int) gene.Interval {
	return gene.Interval{Start: start, End: end}
}

func subtypes(events []MatchEvent) []MatchEventSubtype {
	out := make([]MatchEventSubtype, len(events))
	for i, e := range events {
		out[i] = e.Subtype
	}
	return out
}

func TestCompareJunctions_MonoExonMatch(t *testing.T) {
	c := newTestComparator(1)
	events := c.CompareJunctions(nil, iv(20, 200), nil, iv(20, 290))
	require.Len(t, events, 1)
	assert.Equal(t, EventMonoExonMatch, events[0].Subtype)
}

func TestCompareJunctions_UnsplicedIntronRetention(t *testing.T) {
	c := newTestComparator(1)
	events := c.CompareJunctions(nil, iv(20, 200), []gene.Interval{iv(150, 170)}, iv(20, 290))
	require.Len(t, events, 1)
	assert.Equal(t, EventUnsplicedIntronRetention, events[0].Subtype)
}

func TestCompareJunctions_IncompleteIntronRetentionRight(t *testing.T) {
	c := newTestComparator(1)
	events := c.CompareJunctions(nil, iv(20, 100), []gene.Interval{iv(50, 170)}, iv(20, 290))
	require.Len(t, events, 1)
	assert.Equal(t, EventIncompleteIntronRetentionRight, events[0].Subtype)
}

func TestCompareJunctions_IncompleteIntronRetentionLeft(t *testing.T) {
	c := newTestComparator(1)
	events := c.CompareJunctions(nil, iv(150, 320), []gene.Interval{iv(50, 170)}, iv(20, 290))
	require.Len(t, events, 1)
	assert.Equal(t, EventIncompleteIntronRetentionLeft, events[0].Subtype)
}

func TestCompareJunctions_MonoExonic(t *testing.T) {
	tests := []struct {
		name       string
		readRegion gene.Interval
	}{
		{"read inside the intron", iv(100, 150)},
		{"overlap below the retention threshold", iv(20, 55)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestComparator(1)
			events := c.CompareJunctions(nil, tc.readRegion, []gene.Interval{iv(50, 170)}, iv(20, 290))
			require.Len(t, events, 1)
			assert.Equal(t, EventMonoExonic, events[0].Subtype)
		})
	}
}

func TestCompareJunctions_NoContradiction(t *testing.T) {
	tests := []struct {
		name             string
		readJunctions    []gene.Interval
		readRegion       gene.Interval
		isoformJunctions []gene.Interval
		isoformRegion    gene.Interval
		delta            int
	}{
		{
			name:             "boundaries shifted within delta",
			readJunctions:    []gene.Interval{iv(1, 10), iv(15, 20)},
			readRegion:       iv(0, 30),
			isoformJunctions: []gene.Interval{iv(2, 10), iv(15, 19)},
			isoformRegion:    iv(0, 40),
			delta:            3,
		},
		{
			name:             "exact match",
			readJunctions:    []gene.Interval{iv(1, 10), iv(15, 20)},
			readRegion:       iv(0, 30),
			isoformJunctions: []gene.Interval{iv(1, 10), iv(15, 20)},
			isoformRegion:    iv(0, 50),
			delta:            0,
		},
		{
			name:             "single boundary off by one",
			readJunctions:    []gene.Interval{iv(1, 10), iv(15, 20)},
			readRegion:       iv(0, 30),
			isoformJunctions: []gene.Interval{iv(1, 10), iv(15, 21)},
			isoformRegion:    iv(0, 30),
			delta:            1,
		},
		{
			name:             "unreached leading isoform intron ignored",
			readJunctions:    []gene.Interval{iv(15, 20), iv(25, 35)},
			readRegion:       iv(10, 40),
			isoformJunctions: []gene.Interval{iv(1, 10), iv(15, 21), iv(25, 34)},
			isoformRegion:    iv(0, 40),
			delta:            2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestComparator(tc.delta)
			events := c.CompareJunctions(tc.readJunctions, tc.readRegion, tc.isoformJunctions, tc.isoformRegion)
			require.Len(t, events, 1)
			assert.Equal(t, EventNone, events[0].Subtype)
		})
	}
}

func TestCompareJunctions_ExtraIntronFlankingRight(t *testing.T) {
	tests := []struct {
		name             string
		readJunctions    []gene.Interval
		readRegion       gene.Interval
		isoformJunctions []gene.Interval
		isoformRegion    gene.Interval
		delta            int
		expectedLen      int
	}{
		{
			name:             "one junction past the isoform end",
			readJunctions:    []gene.Interval{iv(1, 100), iv(150, 200)},
			readRegion:       iv(0, 300),
			isoformJunctions: []gene.Interval{iv(2, 101)},
			isoformRegion:    iv(0, 120),
			delta:            1,
			expectedLen:      1,
		},
		{
			name:             "two junctions past the isoform end",
			readJunctions:    []gene.Interval{iv(1, 100), iv(150, 200), iv(250, 360), iv(380, 390)},
			readRegion:       iv(0, 400),
			isoformJunctions: []gene.Interval{iv(3, 100), iv(150, 201)},
			isoformRegion:    iv(0, 249),
			delta:            3,
			expectedLen:      2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestComparator(tc.delta)
			events := c.CompareJunctions(tc.readJunctions, tc.readRegion, tc.isoformJunctions, tc.isoformRegion)
			require.Len(t, events, tc.expectedLen)
			assert.Equal(t, EventExtraIntronFlankingRight, events[0].Subtype)
		})
	}
}

func TestCompareJunctions_ExtraIntronFlankingLeft(t *testing.T) {
	tests := []struct {
		name             string
		readJunctions    []gene.Interval
		readRegion       gene.Interval
		isoformJunctions []gene.Interval
		isoformRegion    gene.Interval
		delta            int
		expectedLen      int
	}{
		{
			name:             "one junction before the isoform start",
			readJunctions:    []gene.Interval{iv(1, 100), iv(150, 200)},
			readRegion:       iv(0, 300),
			isoformJunctions: []gene.Interval{iv(150, 201)},
			isoformRegion:    iv(110, 220),
			delta:            1,
			expectedLen:      1,
		},
		{
			name:             "two junctions before the isoform start",
			readJunctions:    []gene.Interval{iv(1, 100), iv(150, 200), iv(250, 360)},
			readRegion:       iv(0, 400),
			isoformJunctions: []gene.Interval{iv(251, 361)},
			isoformRegion:    iv(201, 405),
			delta:            3,
			expectedLen:      2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestComparator(tc.delta)
			events := c.CompareJunctions(tc.readJunctions, tc.readRegion, tc.isoformJunctions, tc.isoformRegion)
			require.Len(t, events, tc.expectedLen)
			assert.Equal(t, EventExtraIntronFlankingLeft, events[0].Subtype)
		})
	}
}

func TestCompareJunctions_ExtraIntronNovel(t *testing.T) {
	c := newTestComparator(1)
	events := c.CompareJunctions(
		[]gene.Interval{iv(20, 50), iv(60, 100), iv(150, 200)}, iv(0, 300),
		[]gene.Interval{iv(20, 51), iv(150, 201)}, iv(0, 290))
	require.Len(t, events, 1)
	assert.Equal(t, EventExtraIntron, events[0].Subtype)
	assert.Equal(t, 1, events[0].ReadPosition)
}

func TestCompareJunctions_ExtraIntronKnown(t *testing.T) {
	tests := []struct {
		name          string
		readJunctions []gene.Interval
		delta         int
	}{
		{
			name:          "exact known intron",
			readJunctions: []gene.Interval{iv(20, 40), iv(50, 60), iv(150, 200)},
			delta:         1,
		},
		{
			name:          "known intron within delta",
			readJunctions: []gene.Interval{iv(20, 40), iv(78, 112), iv(150, 200)},
			delta:         3,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestComparator(tc.delta)
			events := c.CompareJunctions(tc.readJunctions, iv(0, 300),
				[]gene.Interval{iv(20, 41), iv(150, 201)}, iv(0, 290))
			require.Len(t, events, 1)
			assert.Equal(t, EventExtraIntronKnown, events[0].Subtype)
		})
	}
}

func TestCompareJunctions_IntronRetention(t *testing.T) {
	c := newTestComparator(3)
	events := c.CompareJunctions(
		[]gene.Interval{iv(10, 50), iv(150, 200)}, iv(0, 300),
		[]gene.Interval{iv(10, 51), iv(80, 100), iv(150, 200), iv(225, 240)}, iv(0, 310))
	require.Len(t, events, 2)
	assert.Equal(t, []MatchEventSubtype{EventIntronRetention, EventIntronRetention}, subtypes(events))
}

func TestCompareJunctions_ExonSkippingNovelIntron(t *testing.T) {
	c := newTestComparator(3)
	events := c.CompareJunctions(
		[]gene.Interval{iv(10, 50)}, iv(0, 100),
		[]gene.Interval{iv(10, 25), iv(40, 49)}, iv(0, 99))
	require.Len(t, events, 1)
	assert.Equal(t, EventExonSkippingNovelIntron, events[0].Subtype)
}

func TestCompareJunctions_ExonGainNovel(t *testing.T) {
	c := newTestComparator(1)
	events := c.CompareJunctions(
		[]gene.Interval{iv(1, 10), iv(15, 50)}, iv(15, 50),
		[]gene.Interval{iv(1, 49)}, iv(1, 49))
	require.Len(t, events, 1)
	assert.Equal(t, EventExonGainNovel, events[0].Subtype)
}
