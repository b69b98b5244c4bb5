package region

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankAndSelect_ExtremePairing(t *testing.T) {
	r := &Region{CarryingCapacity: 5}
	r.Entries = []OrganismEntry{
		{ID: 1, Score: 1.0},
		{ID: 2, Score: 2.0},
		{ID: 3, Score: 3.0},
		{ID: 4, Score: 4.0},
		{ID: 5, Score: 5.0},
	}

	res := r.RankAndSelect(NewKey([]int{0}))
	require.Len(t, res.Survivors, 5)
	require.Empty(t, res.CullIDs)
	require.Len(t, res.Pairs, 2)

	assert.Equal(t, Pair{Parent1ID: 1, Parent2ID: 5}, res.Pairs[0])
	assert.Equal(t, Pair{Parent1ID: 2, Parent2ID: 4}, res.Pairs[1])
}

func TestRankAndSelect_CullsBeyondCapacity(t *testing.T) {
	r := &Region{CarryingCapacity: 2}
	r.Entries = []OrganismEntry{
		{ID: 10, Score: 3.0},
		{ID: 11, Score: 1.0},
		{ID: 12, Score: 2.0},
	}

	res := r.RankAndSelect(NewKey([]int{0}))
	require.Len(t, res.Survivors, 2)
	assert.Equal(t, uint64(11), res.Survivors[0].ID)
	assert.Equal(t, uint64(12), res.Survivors[1].ID)
	assert.Equal(t, []uint64{10}, res.CullIDs)
}

func TestRankAndSelect_SortIsNonDecreasingTuple(t *testing.T) {
	r := &Region{CarryingCapacity: 4}
	r.Entries = []OrganismEntry{
		{ID: 1, Score: 1.0, Age: 5},
		{ID: 2, Score: 1.0, Age: 2},
		{ID: 3, Score: 1.0, Age: 2},
		{ID: 4, Score: 0.5, Age: 9},
	}
	res := r.RankAndSelect(NewKey([]int{0}))
	for i := 1; i < len(res.Survivors); i++ {
		prev, cur := res.Survivors[i-1], res.Survivors[i]
		lexLE := prev.Score < cur.Score ||
			(prev.Score == cur.Score && prev.Age < cur.Age) ||
			(prev.Score == cur.Score && prev.Age == cur.Age && prev.ID <= cur.ID)
		assert.True(t, lexLE, "entries out of order at %d", i)
	}
}

func TestComputeCapacities_SumsToTotal(t *testing.T) {
	rs := New()
	rs.Add(NewKey([]int{0}), OrganismEntry{ID: 1, Score: 1.0})
	rs.Add(NewKey([]int{1}), OrganismEntry{ID: 2, Score: 2.0})
	rs.Finalize()

	rs.ComputeCapacities(5, CapacityEpsilon)

	sum := 0
	for _, r := range rs {
		sum += r.CarryingCapacity
	}
	assert.Equal(t, 5, sum)
}

func TestComputeCapacities_RoundingExample(t *testing.T) {
	// Equal min scores give equal weights, so totalCapacity=5 splits into
	// raw capacities of 2.5 each: floors are 2 and 2 with a remainder of 1
	// and a tied fractional part, broken by ascending RegionKey in favor
	// of keyA.
	rs := New()
	keyA := NewKey([]int{0})
	keyB := NewKey([]int{1})
	rs[keyA] = &Region{MinScore: 1.0}
	rs[keyB] = &Region{MinScore: 1.0}

	rs.ComputeCapacities(5, CapacityEpsilon)
	assert.Equal(t, 3, rs[keyA].CarryingCapacity)
	assert.Equal(t, 2, rs[keyB].CarryingCapacity)
}

func TestSelectAll_DeterministicMergeOrder(t *testing.T) {
	rs := New()
	for i := 0; i < 20; i++ {
		key := NewKey([]int{i})
		rs[key] = &Region{CarryingCapacity: 1, Entries: []OrganismEntry{{ID: uint64(i), Score: float64(i)}}}
	}
	results, err := rs.SelectAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 20)
	for i := 1; i < len(results); i++ {
		assert.True(t, results[i-1].Key.Less(results[i].Key))
	}
}

func TestRegionKey_Equality(t *testing.T) {
	a := NewKey([]int{1, 2, 3})
	b := NewKey([]int{1, 2, 3})
	c := NewKey([]int{1, 2, 4})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, a.Less(c))
}
