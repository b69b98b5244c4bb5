package dimension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ValidatesBounds(t *testing.T) {
	_, err := New([]Dimension{{Lo: 1, Hi: 0, Q: 0.1}})
	assert.Error(t, err)

	_, err = New([]Dimension{{Lo: 0, Hi: 1, Q: 0}})
	assert.Error(t, err)

	ds, err := New([]Dimension{{Lo: -1, Hi: 1, Q: 0.5}})
	require.NoError(t, err)
	assert.EqualValues(t, 0, ds.Version)
}

func TestCellOf_RoundTrip(t *testing.T) {
	ds, err := New([]Dimension{{Lo: -1, Hi: 1, Q: 0.5}})
	require.NoError(t, err)

	cellCount := ds.Dims[0].CellCount()
	for k := 0; k < cellCount; k++ {
		v := ds.Dims[0].Lo + float64(k)*ds.Dims[0].Q + ds.Dims[0].Q/2
		assert.Equal(t, k, ds.CellOf(0, v), "cell for k=%d", k)
	}
}

func TestCellOf_ClampsToRange(t *testing.T) {
	ds, err := New([]Dimension{{Lo: 0, Hi: 1, Q: 0.5}})
	require.NoError(t, err)

	assert.Equal(t, 0, ds.CellOf(0, -5))
	assert.Equal(t, ds.Dims[0].CellCount()-1, ds.CellOf(0, 50))
}

func TestCheckAll_ReportsOutOfBounds(t *testing.T) {
	ds, err := New([]Dimension{{Lo: 0, Hi: 1, Q: 0.25}, {Lo: 0, Hi: 1, Q: 0.25}})
	require.NoError(t, err)

	reports := ds.CheckAll([]float64{0.5, 1.5})
	require.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].DimIndex)
	assert.Equal(t, 1.5, reports[0].Value)
}

func TestExpand_BumpsVersionAndClearsOutOfBounds(t *testing.T) {
	ds, err := New([]Dimension{{Lo: 0, Hi: 1, Q: 0.5}})
	require.NoError(t, err)

	reports := ds.CheckAll([]float64{1.5})
	require.Len(t, reports, 1)

	expanded := ds.Expand(reports)
	assert.EqualValues(t, 1, expanded.Version)
	assert.GreaterOrEqual(t, expanded.Dims[0].Hi, 1.5)
	assert.Equal(t, ds.Dims[0].Q, expanded.Dims[0].Q)

	assert.Empty(t, expanded.CheckAll([]float64{1.5}))
}

func TestExpand_GrowsDownward(t *testing.T) {
	ds, err := New([]Dimension{{Lo: 0, Hi: 1, Q: 0.5}})
	require.NoError(t, err)

	reports := []Report{{DimIndex: 0, Value: -0.7}}
	expanded := ds.Expand(reports)
	assert.LessOrEqual(t, expanded.Dims[0].Lo, -0.7)
}

func TestRefine_HalvesQAndBumpsVersion(t *testing.T) {
	ds, err := New([]Dimension{{Lo: 0, Hi: 1, Q: 0.5}})
	require.NoError(t, err)

	refined, err := ds.Refine(0.01)
	require.NoError(t, err)
	assert.Equal(t, 0.25, refined.Dims[0].Q)
	assert.EqualValues(t, 1, refined.Version)
}

func TestRefine_AtLimit(t *testing.T) {
	ds, err := New([]Dimension{{Lo: 0, Hi: 1, Q: 0.01}})
	require.NoError(t, err)

	_, err = ds.Refine(0.01)
	assert.ErrorIs(t, err, ErrAtResolutionLimit)
}
