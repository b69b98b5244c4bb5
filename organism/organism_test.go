package organism

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cainem/hill-descent-sub001/dimension"
	"github.com/cainem/hill-descent-sub001/phenotype"
)

func sphereFitness(params []float64, _ int) float64 {
	sum := 0.0
	for _, v := range params {
		sum += v * v
	}
	return sum
}

func newDims(t *testing.T) *dimension.Dimensions {
	t.Helper()
	dims, err := dimension.New([]dimension.Dimension{{Lo: -1, Hi: 1, Q: 0.5}, {Lo: -1, Hi: 1, Q: 0.5}})
	require.NoError(t, err)
	return dims
}

func TestProcessEpoch_SuccessScoresAndAges(t *testing.T) {
	dims := newDims(t)
	o := New(1, phenotype.NewVector([]float64{0.2, 0.3}, 0), dims)

	resp := o.ProcessEpoch(ProcessEpochRequest{
		TrainingDataIndex: 0,
		Fitness:           sphereFitness,
		FloorScore:        math.Inf(-1),
		MaxAge:            10,
	})

	require.False(t, resp.IsOutOfBounds())
	assert.InDelta(t, 0.13, resp.Score, 1e-9)
	assert.Equal(t, 1, resp.NewAge)
	assert.False(t, resp.ShouldRemove)
	assert.Equal(t, 1, o.Age)
}

func TestProcessEpoch_OutOfBoundsDoesNotMutateScoreOrAge(t *testing.T) {
	dims := newDims(t)
	o := New(1, phenotype.NewVector([]float64{5, 0}, 0), dims)

	resp := o.ProcessEpoch(ProcessEpochRequest{
		Fitness:    sphereFitness,
		FloorScore: math.Inf(-1),
		MaxAge:     10,
	})

	require.True(t, resp.IsOutOfBounds())
	require.Len(t, resp.OutOfBounds, 1)
	assert.Equal(t, 0, resp.OutOfBounds[0].DimIndex)
	assert.Nil(t, o.Score)
	assert.Equal(t, 0, o.Age)
}

func TestProcessEpoch_AgedOutMarksShouldRemove(t *testing.T) {
	dims := newDims(t)
	o := New(1, phenotype.NewVector([]float64{0, 0}, 0), dims)
	o.Age = 5

	resp := o.ProcessEpoch(ProcessEpochRequest{
		Fitness:    sphereFitness,
		FloorScore: math.Inf(-1),
		MaxAge:     5,
	})

	assert.True(t, resp.ShouldRemove)
	assert.True(t, o.IsDead)
}

func TestProcessEpoch_FatalOnNonFiniteScore(t *testing.T) {
	dims := newDims(t)
	o := New(1, phenotype.NewVector([]float64{0, 0}, 0), dims)

	resp := o.ProcessEpoch(ProcessEpochRequest{
		Fitness:    func([]float64, int) float64 { return math.NaN() },
		FloorScore: math.Inf(-1),
		MaxAge:     10,
	})

	require.Error(t, resp.FatalErr)
	assert.True(t, o.IsDead)
}

func TestProcessEpoch_FatalBelowFloor(t *testing.T) {
	dims := newDims(t)
	o := New(1, phenotype.NewVector([]float64{0, 0}, 0), dims)

	resp := o.ProcessEpoch(ProcessEpochRequest{
		Fitness:    func([]float64, int) float64 { return -5 },
		FloorScore: 0,
		MaxAge:     10,
	})

	require.Error(t, resp.FatalErr)
}

func TestProcessEpoch_AdoptsNewerDimensionsOnly(t *testing.T) {
	dims := newDims(t)
	o := New(1, phenotype.NewVector([]float64{0, 0}, 0), dims)

	older := &dimension.Dimensions{Dims: dims.Dims, Version: 0}
	o.ProcessEpoch(ProcessEpochRequest{
		Dimensions: older,
		NewVersion: 0,
		Fitness:    sphereFitness,
		FloorScore: math.Inf(-1),
		MaxAge:     10,
	})
	assert.Equal(t, uint64(0), o.DimensionVersion())

	newer := dims.Expand([]dimension.Report{{DimIndex: 0, Value: 5}})
	o.ProcessEpoch(ProcessEpochRequest{
		Dimensions: newer,
		NewVersion: newer.Version,
		Fitness:    sphereFitness,
		FloorScore: math.Inf(-1),
		MaxAge:     10,
	})
	assert.Equal(t, newer.Version, o.DimensionVersion())
}

func TestReproduce_ReturnsParentLineage(t *testing.T) {
	dims := newDims(t)
	o := New(1, phenotype.NewVector([]float64{0, 0}, 0.1), dims)
	partner := phenotype.NewVector([]float64{1, 1}, 0.1)

	resp := o.Reproduce(ReproduceRequest{PartnerID: 2, PartnerPhenotype: partner, Seed: 42})
	assert.Equal(t, uint64(1), resp.Parent1ID)
	assert.Equal(t, uint64(2), resp.Parent2ID)
	assert.NotNil(t, resp.OffspringA)
	assert.NotNil(t, resp.OffspringB)
}
