package region

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// CapacityEpsilon is the small positive constant added to the denominator of
// inverse-fitness weighting so a region containing the global best score
// never divides by zero.
const CapacityEpsilon = 1e-9

// Regions maps a RegionKey to the Region built for it this epoch. It is
// rebuilt from scratch every epoch.
type Regions map[RegionKey]*Region

// New returns an empty Regions map.
func New() Regions {
	return make(Regions)
}

// Add appends entry to the region named by key, creating the region on
// first use. Callers must add entries in the coordinator's deterministic
// send order (ascending organism id) to guarantee deterministic in-region
// ordering, per spec.md §4.3 RegionBuild.
func (rs Regions) Add(key RegionKey, entry OrganismEntry) {
	r, ok := rs[key]
	if !ok {
		r = &Region{}
		rs[key] = r
	}
	r.Entries = append(r.Entries, entry)
}

// Finalize computes each region's MinScore. Call once after all Add calls
// and before ComputeCapacities.
func (rs Regions) Finalize() {
	for _, r := range rs {
		r.computeMinScore()
	}
}

// SortedKeys returns every key in this map in the deterministic
// lexicographic order the rest of the engine relies on.
func (rs Regions) SortedKeys() []RegionKey {
	keys := make([]RegionKey, 0, len(rs))
	for k := range rs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// TotalEntries sums the entry count across every region, used to assert the
// "Σ |region.entries| == |roster|" invariant.
func (rs Regions) TotalEntries() int {
	total := 0
	for _, r := range rs {
		total += len(r.Entries)
	}
	return total
}

// ComputeCapacities implements spec.md §4.3 CapacityCompute: inverse-fitness
// weighting of region min-scores, scaled to totalCapacity and floored, with
// the flooring remainder distributed to the regions with the largest
// fractional part, ties broken by ascending RegionKey.
func (rs Regions) ComputeCapacities(totalCapacity int, epsilon float64) {
	keys := rs.SortedKeys()
	if len(keys) == 0 {
		return
	}

	globalMin := math.Inf(1)
	for _, k := range keys {
		if rs[k].MinScore < globalMin {
			globalMin = rs[k].MinScore
		}
	}

	weights := make([]float64, len(keys))
	sumW := 0.0
	for i, k := range keys {
		w := 1.0 / (rs[k].MinScore - globalMin + epsilon)
		weights[i] = w
		sumW += w
	}

	raw := make([]float64, len(keys))
	floors := make([]int, len(keys))
	flooredSum := 0
	for i := range keys {
		raw[i] = weights[i] / sumW * float64(totalCapacity)
		floors[i] = int(math.Floor(raw[i]))
		flooredSum += floors[i]
	}

	remainder := totalCapacity - flooredSum
	if remainder > 0 {
		type fracIdx struct {
			idx  int
			frac float64
		}
		fracs := make([]fracIdx, len(keys))
		for i := range keys {
			fracs[i] = fracIdx{idx: i, frac: raw[i] - float64(floors[i])}
		}
		// SliceStable with keys already in ascending RegionKey order means
		// equal-fraction ties keep ascending-key order, as spec.md §9 requires.
		sort.SliceStable(fracs, func(a, b int) bool {
			return fracs[a].frac > fracs[b].frac
		})
		for i := 0; i < remainder; i++ {
			floors[fracs[i].idx]++
		}
	}

	for i, k := range keys {
		rs[k].CarryingCapacity = floors[i]
	}
}

// Pair is one reproduction pairing produced by extreme pairing within a region.
type Pair struct {
	Parent1ID, Parent2ID uint64
}

// SelectionResult is the outcome of ranking and selecting within one region.
type SelectionResult struct {
	Key       RegionKey
	Survivors []OrganismEntry
	CullIDs   []uint64
	Pairs     []Pair
}

// RankAndSelect implements spec.md §4.3 RankAndSelect for a single region:
// sort entries ascending by (score, age, id), keep the first CarryingCapacity
// as survivors, cull the rest, and pair survivors by extreme pairing
// (best-with-worst, inward, median unpaired on an odd count).
func (r *Region) RankAndSelect(key RegionKey) SelectionResult {
	sorted := make([]OrganismEntry, len(r.Entries))
	copy(sorted, r.Entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score < sorted[j].Score
		}
		if sorted[i].Age != sorted[j].Age {
			return sorted[i].Age < sorted[j].Age
		}
		return sorted[i].ID < sorted[j].ID
	})

	cap := r.CarryingCapacity
	if cap > len(sorted) {
		cap = len(sorted)
	}
	if cap < 0 {
		cap = 0
	}
	survivors := sorted[:cap]
	culled := sorted[cap:]

	cullIDs := make([]uint64, len(culled))
	for i, e := range culled {
		cullIDs[i] = e.ID
	}

	return SelectionResult{
		Key:       key,
		Survivors: survivors,
		CullIDs:   cullIDs,
		Pairs:     extremePairing(survivors),
	}
}

func extremePairing(survivors []OrganismEntry) []Pair {
	n := len(survivors)
	pairs := make([]Pair, 0, n/2)
	i, j := 0, n-1
	for i < j {
		pairs = append(pairs, Pair{Parent1ID: survivors[i].ID, Parent2ID: survivors[j].ID})
		i++
		j--
	}
	return pairs
}

// SelectAll runs RankAndSelect for every region in parallel, one goroutine
// per region via errgroup.Group, and returns results in ascending RegionKey
// order — each goroutine writes only its own index of a pre-sized slice laid
// out in that order, so determinism never depends on goroutine completion order.
func (rs Regions) SelectAll(ctx context.Context) ([]SelectionResult, error) {
	keys := rs.SortedKeys()
	results := make([]SelectionResult, len(keys))

	g, _ := errgroup.WithContext(ctx)
	for i, k := range keys {
		i, k := i, k
		g.Go(func() error {
			results[i] = rs[k].RankAndSelect(k)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
