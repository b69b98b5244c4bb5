// Package region implements the transient spatial index that partitions a
// population into cells of the quantized parameter grid, and the per-region
// capacity, ranking, culling, and pairing logic that drives selection.
package region

import (
	"fmt"
	"strconv"
	"strings"
)

// RegionKey is a tuple of per-dimension cell indices, packed into a single
// comparable string so it can be used as a map key directly (a struct
// holding a slice field is not comparable in Go, and so cannot key a map).
// Two keys are equal iff every cell index matches; keys are totally ordered
// lexicographically by cell index, which is the deterministic traversal
// order the rest of the engine relies on.
type RegionKey struct {
	cells string // packed representation for cheap map-keying and comparison
}

// NewKey builds a RegionKey from per-dimension cell indices.
func NewKey(cells []int) RegionKey {
	var b strings.Builder
	for _, c := range cells {
		fmt.Fprintf(&b, "%d|", c)
	}
	return RegionKey{cells: b.String()}
}

// cellSlice decodes the packed representation back into per-dimension cell
// indices, for callers (just Less, below) that need to compare them
// numerically rather than as opaque bytes.
func (k RegionKey) cellSlice() []int {
	if k.cells == "" {
		return nil
	}
	parts := strings.Split(strings.TrimSuffix(k.cells, "|"), "|")
	cells := make([]int, len(parts))
	for i, p := range parts {
		cells[i], _ = strconv.Atoi(p)
	}
	return cells
}

// Less reports whether k sorts before other in lexicographic cell order.
// Cell indices are compared numerically, not as substrings, so e.g. cell 2
// sorts before cell 10.
func (k RegionKey) Less(other RegionKey) bool {
	a, b := k.cellSlice(), other.cellSlice()
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// Equal reports whether k and other name the same cell tuple.
func (k RegionKey) Equal(other RegionKey) bool {
	return k.cells == other.cells
}

// String renders the key for logging/debugging.
func (k RegionKey) String() string {
	return "[" + k.cells + "]"
}

// OrganismEntry is a lightweight transient record populated once per epoch.
type OrganismEntry struct {
	ID    uint64
	Age   int
	Score float64
}

// Region holds every organism entry that mapped to one RegionKey this epoch,
// plus the derived min score and assigned carrying capacity.
type Region struct {
	Entries          []OrganismEntry
	MinScore         float64
	CarryingCapacity int
}

// computeMinScore scans Entries for the lowest (best) score.
func (r *Region) computeMinScore() {
	if len(r.Entries) == 0 {
		return
	}
	min := r.Entries[0].Score
	for _, e := range r.Entries[1:] {
		if e.Score < min {
			min = e.Score
		}
	}
	r.MinScore = min
}
