// Package engine drives the epoch state machine: it owns the worker pool,
// the current Dimensions, and the organism roster, and walks every organism
// through Evaluating, optional Expanding, RegionBuild, CapacityCompute,
// RankAndSelect, Cull, Reproduce, AgeCull and Halt once per TrainingRun call.
package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/cainem/hill-descent-sub001/dimension"
	"github.com/cainem/hill-descent-sub001/organism"
	"github.com/cainem/hill-descent-sub001/phenotype"
	"github.com/cainem/hill-descent-sub001/region"
	"github.com/cainem/hill-descent-sub001/seed"
	"github.com/cainem/hill-descent-sub001/workerpool"
)

// maxExpandAttempts bounds the Evaluating/Expanding loop. Expand strictly
// grows bounds on every iteration, so convergence is expected well inside
// this limit; it exists only to turn a logic bug into a returned error
// instead of a hang.
const maxExpandAttempts = 10000

// World is the coordinator: the only type in this module that is safe to
// call from a single external goroutine per instance. It is not itself
// safe for concurrent use — TrainingRun, Snapshot and the accessors below
// must not be called concurrently with one another.
type World struct {
	opts    *Options
	pool    *workerpool.Pool
	fitness organism.FitnessFunc

	dims   *dimension.Dimensions
	roster []uint64 // always ascending: ids are assigned monotonically and appended
	nextID uint64
	epoch  uint64

	bestScore      float64
	bestOrganismID uint64
	bestParams     []float64

	lastRegions   region.Regions
	lastEvaluated []organism.ProcessEpochResponse
}

// New constructs a World: InitialPopulation root organisms, each seeded by
// factory, registered into a fresh workerpool.Pool sized to WorkerCount.
func New(opts *Options, fitness organism.FitnessFunc, factory PhenotypeFactory) (*World, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid engine options")
	}
	if fitness == nil {
		return nil, errors.New("engine: fitness function must not be nil")
	}

	dims, err := dimension.New(opts.Bounds)
	if err != nil {
		return nil, errors.Wrap(err, "invalid bounds")
	}
	pool, err := workerpool.New(opts.WorkerCount)
	if err != nil {
		return nil, err
	}

	w := &World{
		opts:      opts,
		pool:      pool,
		fitness:   fitness,
		dims:      dims,
		bestScore: math.Inf(1),
	}

	for i := 0; i < opts.InitialPopulation; i++ {
		id := uint64(i)
		p := factory(id, opts.WorldSeed, dims)
		pool.Register(organism.New(id, p, dims))
		w.roster = append(w.roster, id)
	}
	w.nextID = uint64(opts.InitialPopulation)

	InfoLog(Fields{Epoch: 0}, fmt.Sprintf("world created, population=%d workers=%d", opts.InitialPopulation, opts.WorkerCount))
	return w, nil
}

// Close releases the underlying worker pool. The World must not be used
// afterward.
func (w *World) Close() {
	w.pool.Close()
}

// Dimensions returns the current parameter space. The returned value must
// be treated as read-only by callers.
func (w *World) Dimensions() *dimension.Dimensions {
	return w.dims
}

// Population returns the current roster size.
func (w *World) Population() int {
	return len(w.roster)
}

// BestScore returns the lowest score observed across every TrainingRun call
// so far, or +Inf if none has yet completed.
func (w *World) BestScore() float64 {
	return w.bestScore
}

// BestParams returns a copy of the parameter vector that produced BestScore.
func (w *World) BestParams() []float64 {
	cp := make([]float64, len(w.bestParams))
	copy(cp, w.bestParams)
	return cp
}

// TrainingRun advances the engine through one epoch: Evaluating (with
// Expanding retried until every organism reports in-bounds or a fatal
// error aborts the run), RegionBuild, CapacityCompute, RankAndSelect, Cull,
// Reproduce, AgeCull and Halt, in that order, per spec.md §4.3. It returns
// true iff this epoch drove the dimension quantization interval to its
// resolution limit.
func (w *World) TrainingRun(trainingDataIndex int) (bool, error) {
	epsilon := w.opts.CapacityEpsilon
	if epsilon <= 0 {
		epsilon = region.CapacityEpsilon
	}

	w.epoch++

	evaluated, err := w.evaluateWithExpansion(trainingDataIndex)
	if err != nil {
		return false, err
	}

	regions := region.New()
	for _, resp := range evaluated {
		regions.Add(resp.RegionKey, region.OrganismEntry{ID: resp.ID, Age: resp.NewAge, Score: resp.Score})
	}
	regions.Finalize()
	w.updateBest(evaluated)
	regions.ComputeCapacities(w.opts.TotalCapacity, epsilon)

	results, err := regions.SelectAll(context.Background())
	if err != nil {
		return false, errors.Wrap(err, "region selection failed")
	}

	cullSet := make(map[uint64]bool)
	var pairs []region.Pair
	for _, res := range results {
		for _, id := range res.CullIDs {
			cullSet[id] = true
		}
		pairs = append(pairs, res.Pairs...)
	}
	w.cull(cullSet)

	for _, pr := range pairs {
		w.reproducePair(pr)
	}

	w.ageCull(evaluated, cullSet)

	w.lastRegions = regions
	w.lastEvaluated = evaluated

	refined, err := w.dims.Refine(w.opts.MinQ)
	if err != nil {
		if errors.Is(err, dimension.ErrAtResolutionLimit) {
			InfoLog(Fields{Epoch: w.epoch}, "reached resolution limit")
			return true, nil
		}
		return false, err
	}
	w.dims = refined
	DebugLog(Fields{Epoch: w.epoch}, fmt.Sprintf("epoch complete, population=%d dim_version=%d", len(w.roster), w.dims.Version))
	return false, nil
}

// evaluateWithExpansion runs Evaluating, re-broadcasting to any organism
// that reports out-of-bounds after each bound Expand, until every organism
// in the snapshot roster has an in-bounds response.
func (w *World) evaluateWithExpansion(trainingDataIndex int) ([]organism.ProcessEpochResponse, error) {
	ids := append([]uint64(nil), w.roster...)
	final := make(map[uint64]organism.ProcessEpochResponse, len(ids))
	pending := ids

	for attempt := 0; len(pending) > 0; attempt++ {
		if attempt > maxExpandAttempts {
			return nil, errors.New("engine: bound expansion failed to converge")
		}

		responses := w.broadcastProcessEpoch(pending, trainingDataIndex)

		var outOfBounds []dimension.Report
		var nextPending []uint64
		for _, resp := range responses {
			if resp.FatalErr != nil {
				return nil, errors.Wrap(resp.FatalErr, "organism reported a fatal fitness value")
			}
			if resp.IsOutOfBounds() {
				outOfBounds = append(outOfBounds, resp.OutOfBounds...)
				nextPending = append(nextPending, resp.ID)
				continue
			}
			final[resp.ID] = resp
		}
		if len(outOfBounds) == 0 {
			break
		}
		w.dims = w.dims.Expand(outOfBounds)
		DebugLog(Fields{Epoch: w.epoch}, fmt.Sprintf("expanded bounds to version %d for %d organism(s)", w.dims.Version, len(nextPending)))
		pending = nextPending
	}

	evaluated := make([]organism.ProcessEpochResponse, 0, len(ids))
	for _, id := range ids {
		evaluated = append(evaluated, final[id])
	}
	return evaluated, nil
}

func (w *World) broadcastProcessEpoch(ids []uint64, trainingDataIndex int) []organism.ProcessEpochResponse {
	replies := make([]chan organism.ProcessEpochResponse, len(ids))
	req := organism.ProcessEpochRequest{
		Dimensions:        w.dims,
		NewVersion:        w.dims.Version,
		TrainingDataIndex: trainingDataIndex,
		Fitness:           w.fitness,
		FloorScore:        w.opts.FloorScore,
		MaxAge:            w.opts.MaxAge,
	}
	for i, id := range ids {
		ch := make(chan organism.ProcessEpochResponse, 1)
		replies[i] = ch
		w.pool.Dispatch(id, func(o *organism.Organism) { ch <- o.ProcessEpoch(req) })
	}
	out := make([]organism.ProcessEpochResponse, len(ids))
	for i, ch := range replies {
		out[i] = <-ch
	}
	return out
}

func (w *World) cull(cullSet map[uint64]bool) {
	if len(cullSet) == 0 {
		return
	}
	newRoster := make([]uint64, 0, len(w.roster))
	for _, id := range w.roster {
		if cullSet[id] {
			w.pool.Remove(id)
			continue
		}
		newRoster = append(newRoster, id)
	}
	w.roster = newRoster
}

func (w *World) reproducePair(pr region.Pair) {
	partner := w.fetchPhenotype(pr.Parent2ID)
	s := seed.Derive(w.opts.WorldSeed, pr.Parent1ID, pr.Parent2ID)

	reply := make(chan organism.ReproduceResponse, 1)
	w.pool.Dispatch(pr.Parent1ID, func(o *organism.Organism) {
		reply <- o.Reproduce(organism.ReproduceRequest{PartnerID: pr.Parent2ID, PartnerPhenotype: partner, Seed: s})
	})
	resp := <-reply

	id1, id2 := w.nextID, w.nextID+1
	w.nextID += 2
	w.pool.Register(organism.NewChild(id1, resp.Parent1ID, resp.Parent2ID, resp.OffspringA, w.dims))
	w.pool.Register(organism.NewChild(id2, resp.Parent1ID, resp.Parent2ID, resp.OffspringB, w.dims))
	w.roster = append(w.roster, id1, id2)
}

func (w *World) ageCull(evaluated []organism.ProcessEpochResponse, alreadyCulled map[uint64]bool) {
	agedOut := make(map[uint64]bool)
	for _, resp := range evaluated {
		if resp.ShouldRemove && !alreadyCulled[resp.ID] {
			agedOut[resp.ID] = true
		}
	}
	if len(agedOut) == 0 {
		return
	}
	newRoster := make([]uint64, 0, len(w.roster))
	for _, id := range w.roster {
		if agedOut[id] {
			w.pool.Remove(id)
			continue
		}
		newRoster = append(newRoster, id)
	}
	w.roster = newRoster
}

func (w *World) updateBest(evaluated []organism.ProcessEpochResponse) {
	for _, resp := range evaluated {
		if resp.Score < w.bestScore {
			w.bestScore = resp.Score
			w.bestOrganismID = resp.ID
			w.bestParams = w.fetchPhenotype(resp.ID).Parameters()
			InfoLog(Fields{Epoch: w.epoch}.Organism(resp.ID), fmt.Sprintf("new best score %v", resp.Score))
		}
	}
}

func (w *World) fetchPhenotype(id uint64) phenotype.Phenotype {
	reply := make(chan phenotype.Phenotype, 1)
	w.pool.Dispatch(id, func(o *organism.Organism) { reply <- o.GetPhenotype() })
	return <-reply
}

// State is a point-in-time read-only summary, returned by Snapshot.
type State struct {
	Epoch            uint64
	Population       int
	DimensionVersion uint64
	RegionCount      int
	BestScore        float64
	ScoreMean        float64
	ScoreStdDev      float64
}

// Snapshot summarizes the outcome of the most recently completed
// TrainingRun. Calling it before the first TrainingRun returns a zero-value
// score distribution.
func (w *World) Snapshot() State {
	scores := make([]float64, len(w.lastEvaluated))
	for i, resp := range w.lastEvaluated {
		scores[i] = resp.Score
	}
	var mean, std float64
	if len(scores) > 0 {
		mean, std = stat.MeanStdDev(scores, nil)
	}
	return State{
		Epoch:            w.epoch,
		Population:       len(w.roster),
		DimensionVersion: w.dims.Version,
		RegionCount:      len(w.lastRegions),
		BestScore:        w.bestScore,
		ScoreMean:        mean,
		ScoreStdDev:      std,
	}
}
