package engine

import (
	"github.com/pkg/errors"

	"github.com/cainem/hill-descent-sub001/dimension"
)

// Options is the engine's enumerated configuration, per spec.md §6. It is
// loadable from YAML or a plain `key value` file in the teacher's manner
// (see options_readers.go) or constructed directly in Go for tests.
type Options struct {
	// WorldSeed is the sole entropy source for every derived seed in a run.
	WorldSeed uint64 `yaml:"world_seed"`
	// WorkerCount determines the pinning modulus for the worker pool.
	WorkerCount int `yaml:"worker_count"`
	// MaxAge is the number of training runs an organism may survive before
	// aged-out removal.
	MaxAge int `yaml:"max_age"`
	// InitialPopulation is the organism count at engine init; ids 0..N-1.
	InitialPopulation int `yaml:"initial_population"`
	// TotalCapacity is the global carrying capacity target.
	TotalCapacity int `yaml:"total_capacity"`
	// MinQ is the minimum allowed dimension quantization; the halt threshold.
	MinQ float64 `yaml:"min_q"`
	// FloorScore is the minimum acceptable fitness value; anything below it
	// (or non-finite) is a fatal caller bug.
	FloorScore float64 `yaml:"floor_score"`
	// CapacityEpsilon is the small positive constant used in inverse-fitness
	// region-capacity weighting. Defaults to region.CapacityEpsilon if zero.
	CapacityEpsilon float64 `yaml:"capacity_epsilon"`
	// MutationPower scales perturbation in the default phenotype.Vector
	// reproduction operator.
	MutationPower float64 `yaml:"mutation_power"`
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// Bounds describes the initial parameter space. Must have at least one axis.
	Bounds []dimension.Dimension `yaml:"bounds"`
}

// Validate checks an Options for internal consistency, matching the
// style of the teacher's Options.Validate.
func (o *Options) Validate() error {
	if o.WorkerCount <= 0 {
		return errors.Errorf("worker_count must be positive, got %d", o.WorkerCount)
	}
	if o.InitialPopulation <= 0 {
		return errors.Errorf("initial_population must be positive, got %d", o.InitialPopulation)
	}
	if o.TotalCapacity <= 0 {
		return errors.Errorf("total_capacity must be positive, got %d", o.TotalCapacity)
	}
	if o.MinQ <= 0 {
		return errors.Errorf("min_q must be positive, got %v", o.MinQ)
	}
	if o.MaxAge < 0 {
		return errors.Errorf("max_age must not be negative, got %d", o.MaxAge)
	}
	if len(o.Bounds) == 0 {
		return errors.New("bounds must have at least one dimension")
	}
	if o.CapacityEpsilon < 0 {
		return errors.Errorf("capacity_epsilon must not be negative, got %v", o.CapacityEpsilon)
	}
	return nil
}
