package phenotype

import "math/rand"

// Vector is a reference Phenotype: a flat real-valued parameter vector that
// reproduces via uniform crossover followed by Gaussian perturbation of the
// child's genes, seeded solely from the caller-supplied seed. It never reads
// or writes any ambient/global RNG state, so two Vectors reproduced with the
// same seed always yield bit-identical children.
type Vector struct {
	values []float64
	// mutationPower scales the Gaussian perturbation applied after crossover.
	mutationPower float64
}

// NewVector copies values into a new immutable Vector phenotype.
func NewVector(values []float64, mutationPower float64) *Vector {
	cp := make([]float64, len(values))
	copy(cp, values)
	return &Vector{values: cp, mutationPower: mutationPower}
}

// Parameters returns a copy of this phenotype's gene vector.
func (v *Vector) Parameters() []float64 {
	cp := make([]float64, len(v.values))
	copy(cp, v.values)
	return cp
}

// Reproduce performs gene-wise uniform crossover between v and partner, then
// applies an independent Gaussian perturbation to each child's genes. Both
// children are built from a single private *rand.Rand seeded from seed, so
// the operator is pure with respect to any state outside its arguments.
func (v *Vector) Reproduce(partner Phenotype, seed uint64) (Phenotype, Phenotype) {
	other, ok := partner.(*Vector)
	if !ok {
		otherValues := partner.Parameters()
		other = &Vector{values: otherValues, mutationPower: v.mutationPower}
	}

	n := len(v.values)
	if len(other.values) < n {
		n = len(other.values)
	}

	r := rand.New(rand.NewSource(int64(seed)))

	childA := make([]float64, n)
	childB := make([]float64, n)
	for i := 0; i < n; i++ {
		if r.Float64() < 0.5 {
			childA[i] = v.values[i]
			childB[i] = other.values[i]
		} else {
			childA[i] = other.values[i]
			childB[i] = v.values[i]
		}
		childA[i] += r.NormFloat64() * v.mutationPower
		childB[i] += r.NormFloat64() * v.mutationPower
	}

	return &Vector{values: childA, mutationPower: v.mutationPower},
		&Vector{values: childB, mutationPower: v.mutationPower}
}
