// Package organism implements per-candidate state and the four-message
// contract organisms respond to. An Organism's methods are never called
// concurrently with one another: the worker pool guarantees that all
// messages addressed to a given id are invoked serially, in arrival order,
// by the single worker that id is pinned to. Organism itself holds no
// synchronization primitives — ownership, not locking, keeps it safe.
package organism

import (
	"math"

	"github.com/cainem/hill-descent-sub001/dimension"
	"github.com/cainem/hill-descent-sub001/phenotype"
	"github.com/cainem/hill-descent-sub001/region"
)

// FatalError signals that the fitness function returned a value the engine
// cannot accept (non-finite, or below the configured floor). It is
// unrecoverable: the coordinator halts the run.
type FatalError struct {
	OrganismID uint64
	Score      float64
}

func (e *FatalError) Error() string {
	return "organism: fatal fitness value from organism"
}

// Organism is per-candidate state: identity, lineage, genetic material, and
// the cached bookkeeping needed to answer ProcessEpoch without redundant work.
type Organism struct {
	ID        uint64
	Parent1ID uint64 // 0 means "no parent" (use HasParents to disambiguate root organisms)
	Parent2ID uint64
	HasParents bool

	Phenotype phenotype.Phenotype

	dims            *dimension.Dimensions
	dimVersion      uint64
	regionKey       region.RegionKey
	regionKeyValid  bool

	Score    *float64
	Age      int
	IsDead   bool
}

// New creates a root organism (no parents) pinned to whatever worker the
// caller's affinity function selects.
func New(id uint64, p phenotype.Phenotype, dims *dimension.Dimensions) *Organism {
	return &Organism{
		ID:        id,
		Phenotype: p,
		dims:      dims,
		dimVersion: dims.Version,
	}
}

// NewChild creates an offspring organism with the given parent lineage.
func NewChild(id uint64, parent1, parent2 uint64, p phenotype.Phenotype, dims *dimension.Dimensions) *Organism {
	o := New(id, p, dims)
	o.Parent1ID = parent1
	o.Parent2ID = parent2
	o.HasParents = true
	return o
}

// DimensionVersion returns the version of Dimensions this organism has cached.
func (o *Organism) DimensionVersion() uint64 {
	return o.dimVersion
}

// ProcessEpoch implements the ProcessEpoch message described in spec.md §4.2.
func (o *Organism) ProcessEpoch(req ProcessEpochRequest) ProcessEpochResponse {
	if req.Dimensions != nil && req.NewVersion > o.dimVersion {
		o.dims = req.Dimensions
		o.dimVersion = req.NewVersion
		// Any dimension change conservatively invalidates the cached region key.
		o.regionKeyValid = false
	}

	params := o.Phenotype.Parameters()
	if reports := o.dims.CheckAll(params); len(reports) > 0 {
		return ProcessEpochResponse{ID: o.ID, OutOfBounds: reports}
	}

	key := o.computeRegionKey(params)
	score := req.Fitness(params, req.TrainingDataIndex)
	if math.IsNaN(score) || math.IsInf(score, 0) || score < req.FloorScore {
		o.IsDead = true
		return ProcessEpochResponse{
			ID:       o.ID,
			FatalErr: &FatalError{OrganismID: o.ID, Score: score},
		}
	}

	o.Score = &score
	o.Age++
	o.IsDead = o.Age > req.MaxAge

	return ProcessEpochResponse{
		ID:           o.ID,
		RegionKey:    key,
		Score:        score,
		NewAge:       o.Age,
		ShouldRemove: o.IsDead,
	}
}

// GetPhenotype implements the GetPhenotype message. It is a pure read.
func (o *Organism) GetPhenotype() phenotype.Phenotype {
	return o.Phenotype
}

// Reproduce implements the Reproduce message: it invokes the external
// reproduction operator seeded solely by req.Seed, never consulting any
// worker-local random state.
func (o *Organism) Reproduce(req ReproduceRequest) ReproduceResponse {
	a, b := o.Phenotype.Reproduce(req.PartnerPhenotype, req.Seed)
	return ReproduceResponse{
		OffspringA: a,
		OffspringB: b,
		Parent1ID:  o.ID,
		Parent2ID:  req.PartnerID,
	}
}

// UpdateDimensions implements the UpdateDimensions message: replace the
// cached reference and version without recomputing the region key.
func (o *Organism) UpdateDimensions(dims *dimension.Dimensions, version uint64) {
	o.dims = dims
	o.dimVersion = version
	o.regionKeyValid = false
}

func (o *Organism) computeRegionKey(params []float64) region.RegionKey {
	cells := make([]int, len(params))
	for i, v := range params {
		cells[i] = o.dims.CellOf(i, v)
	}
	key := region.NewKey(cells)
	o.regionKey = key
	o.regionKeyValid = true
	return key
}
