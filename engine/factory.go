package engine

import (
	"math/rand"

	"github.com/cainem/hill-descent-sub001/dimension"
	"github.com/cainem/hill-descent-sub001/phenotype"
	"github.com/cainem/hill-descent-sub001/seed"
)

// PhenotypeFactory creates the phenotype for a newly created root organism
// (id in [0, InitialPopulation)). It must be a pure function of id and the
// world seed so that two engines built from identical Options produce
// identical initial populations.
type PhenotypeFactory func(id uint64, worldSeed uint64, dims *dimension.Dimensions) phenotype.Phenotype

// DefaultVectorFactory returns a PhenotypeFactory that seeds a
// phenotype.Vector with parameters drawn uniformly from each dimension's
// bounds, using a private *rand.Rand seeded deterministically from the
// world seed and organism id via seed.DeriveEpoch.
func DefaultVectorFactory(mutationPower float64) PhenotypeFactory {
	return func(id uint64, worldSeed uint64, dims *dimension.Dimensions) phenotype.Phenotype {
		r := rand.New(rand.NewSource(int64(seed.DeriveEpoch(worldSeed, 0, id))))
		params := make([]float64, dims.Len())
		for i, d := range dims.Dims {
			params[i] = d.Lo + r.Float64()*(d.Hi-d.Lo)
		}
		return phenotype.NewVector(params, mutationPower)
	}
}
