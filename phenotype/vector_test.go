package phenotype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_ParametersIsACopy(t *testing.T) {
	v := NewVector([]float64{1, 2, 3}, 0.1)
	p := v.Parameters()
	p[0] = 99
	assert.Equal(t, 1.0, v.Parameters()[0])
}

func TestVector_ReproduceIsDeterministicForSeed(t *testing.T) {
	a := NewVector([]float64{0, 0, 0}, 0.5)
	b := NewVector([]float64{10, 10, 10}, 0.5)

	a1, b1 := a.Reproduce(b, 42)
	a2, b2 := a.Reproduce(b, 42)

	require.Equal(t, a1.Parameters(), a2.Parameters())
	require.Equal(t, b1.Parameters(), b2.Parameters())
}

func TestVector_ReproduceDiffersAcrossSeeds(t *testing.T) {
	a := NewVector([]float64{0, 0, 0}, 0.5)
	b := NewVector([]float64{10, 10, 10}, 0.5)

	a1, _ := a.Reproduce(b, 1)
	a2, _ := a.Reproduce(b, 2)

	assert.NotEqual(t, a1.Parameters(), a2.Parameters())
}

func TestVector_ReproduceTruncatesToShorterParent(t *testing.T) {
	a := NewVector([]float64{0, 0, 0}, 0)
	b := NewVector([]float64{10, 10}, 0)

	childA, childB := a.Reproduce(b, 7)
	assert.Len(t, childA.Parameters(), 2)
	assert.Len(t, childB.Parameters(), 2)
}
