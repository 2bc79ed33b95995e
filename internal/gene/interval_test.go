package gene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterval(t *testing.T) {
	a := Interval{Start: 10, End: 20}

	assert.Equal(t, 11, a.Len())
	assert.True(t, a.Overlaps(Interval{Start: 20, End: 30}))
	assert.False(t, a.Overlaps(Interval{Start: 21, End: 30}))
	assert.True(t, a.Contains(Interval{Start: 10, End: 20}))
	assert.False(t, a.Contains(Interval{Start: 10, End: 21}))
	assert.True(t, a.ContainsPos(10))
	assert.False(t, a.ContainsPos(21))
}

func TestInterval_OverlapLen(t *testing.T) {
	a := Interval{Start: 10, End: 20}

	assert.Equal(t, 11, a.OverlapLen(Interval{Start: 5, End: 25}))
	assert.Equal(t, 1, a.OverlapLen(Interval{Start: 20, End: 30}))
	assert.Equal(t, 0, a.OverlapLen(Interval{Start: 21, End: 30}))
	assert.Equal(t, 6, a.OverlapLen(Interval{Start: 15, End: 40}))
}

func TestInterval_EqualWithin(t *testing.T) {
	a := Interval{Start: 10, End: 20}

	assert.True(t, a.EqualWithin(Interval{Start: 10, End: 20}, 0))
	assert.True(t, a.EqualWithin(Interval{Start: 8, End: 22}, 2))
	assert.False(t, a.EqualWithin(Interval{Start: 8, End: 22}, 1))
	assert.False(t, a.EqualWithin(Interval{Start: 10, End: 25}, 2))
}
