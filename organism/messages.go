package organism

import (
	"github.com/cainem/hill-descent-sub001/dimension"
	"github.com/cainem/hill-descent-sub001/phenotype"
	"github.com/cainem/hill-descent-sub001/region"
)

// FitnessFunc evaluates a parameter vector against one training data index.
// It must be pure and deterministic: returning a non-finite value or a
// value below floor is treated as a caller bug and aborts the run.
type FitnessFunc func(parameters []float64, trainingDataIndex int) float64

// ProcessEpochRequest asks an organism to evaluate itself for one epoch.
// Dimensions may be nil; when set, the organism adopts it only if NewVersion
// is newer than the version it has cached.
type ProcessEpochRequest struct {
	Dimensions        *dimension.Dimensions
	NewVersion        uint64
	ChangedDims       []int
	TrainingDataIndex int
	Fitness           FitnessFunc
	FloorScore        float64
	MaxAge            int
	Reply             chan ProcessEpochResponse
}

// ProcessEpochResponse is what an organism reports back after ProcessEpoch.
// Exactly one of (OutOfBounds, Ok-fields, FatalErr) is populated: an
// OutOfBounds report has OutOfBounds non-empty, a fatal response has
// FatalErr set, and an Ok response has neither.
type ProcessEpochResponse struct {
	ID              uint64
	OutOfBounds     []dimension.Report
	RegionKey       region.RegionKey
	Score           float64
	NewAge          int
	ShouldRemove    bool
	FatalErr        error
}

// IsOutOfBounds reports whether this response is an OutOfBounds report
// rather than a successful evaluation.
func (r ProcessEpochResponse) IsOutOfBounds() bool {
	return len(r.OutOfBounds) > 0
}

// GetPhenotypeRequest asks an organism for its current phenotype reference.
type GetPhenotypeRequest struct {
	Reply chan phenotype.Phenotype
}

// ReproduceRequest asks an organism to mate with partnerPhenotype using the
// given pre-derived, order-sensitive seed.
type ReproduceRequest struct {
	PartnerID        uint64
	PartnerPhenotype phenotype.Phenotype
	Seed             uint64
	Reply            chan ReproduceResponse
}

// ReproduceResponse carries the two offspring phenotypes and the parent ids
// that produced them.
type ReproduceResponse struct {
	OffspringA, OffspringB phenotype.Phenotype
	Parent1ID, Parent2ID   uint64
}

// UpdateDimensionsRequest replaces an organism's cached Dimensions reference
// without triggering any recomputation.
type UpdateDimensionsRequest struct {
	Dimensions *dimension.Dimensions
	Version    uint64
	Done       chan struct{}
}
