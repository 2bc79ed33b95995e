package assign

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isocat/isocat/internal/gene"
)

func TestParallelAssign_OrderedResults(t *testing.T) {
	r := NewResolver(testGene(), DefaultParams())

	const n = 100
	items := make(chan WorkItem, n)
	for i := range n {
		exons := []gene.Interval{
			{Start: 10, End: 100}, {Start: 201, End: 300}, {Start: 401, End: 490},
		}
		if i%2 == 1 {
			// Odd reads follow iso2.
			exons = []gene.Interval{{Start: 10, End: 100}, {Start: 201, End: 490}}
		}
		items <- WorkItem{Seq: i, ReadID: fmt.Sprintf("read%d", i), Info: readInfo(exons)}
	}
	close(items)

	results := r.ParallelAssign(items, 4)

	var collected []WorkResult
	err := OrderedCollect(results, func(res WorkResult) error {
		collected = append(collected, res)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, collected, n)

	for i, res := range collected {
		assert.Equal(t, i, res.Seq)
		assert.Equal(t, fmt.Sprintf("read%d", i), res.ReadID)
		require.NotNil(t, res.Assignment)
		assert.Equal(t, AssignmentUnique, res.Assignment.Type)
		want := "iso1"
		if i%2 == 1 {
			want = "iso2"
		}
		assert.Equal(t, []string{want}, res.Assignment.Isoforms)
	}
}

func TestParallelAssign_DefaultWorkerCount(t *testing.T) {
	r := NewResolver(testGene(), DefaultParams())

	items := make(chan WorkItem, 1)
	items <- WorkItem{Seq: 0, ReadID: "read0", Info: readInfo([]gene.Interval{
		{Start: 10, End: 100}, {Start: 201, End: 490},
	})}
	close(items)

	var got *ReadAssignment
	err := OrderedCollect(r.ParallelAssign(items, 0), func(res WorkResult) error {
		got = res.Assignment
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"iso2"}, got.Isoforms)
}

func TestOrderedCollect_StopsOnError(t *testing.T) {
	r := NewResolver(testGene(), DefaultParams())

	const n = 20
	items := make(chan WorkItem, n)
	for i := range n {
		items <- WorkItem{Seq: i, ReadID: fmt.Sprintf("read%d", i), Info: readInfo([]gene.Interval{
			{Start: 10, End: 100}, {Start: 201, End: 490},
		})}
	}
	close(items)

	wantErr := errors.New("sink full")
	seen := 0
	err := OrderedCollect(r.ParallelAssign(items, 3), func(res WorkResult) error {
		seen++
		if seen == 5 {
			return wantErr
		}
		return nil
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 5, seen)
}
