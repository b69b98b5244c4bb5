// Package dimension describes the bounded, quantized parameter space that
// organisms are evaluated against. A Dimensions value is immutable between
// version bumps: bound expansion and interval refinement both return a new
// value rather than mutating the receiver, so that organisms may safely
// cache a reference to it.
package dimension

import (
	"math"

	"github.com/pkg/errors"
)

// Dimension is a single parameter axis: an inclusive numeric range [Lo, Hi]
// quantized into cells of width Q.
type Dimension struct {
	Lo, Hi float64
	Q      float64
}

// CellCount returns the number of discrete quantization cells in this dimension.
func (d Dimension) CellCount() int {
	return int(math.Ceil((d.Hi - d.Lo) / d.Q))
}

// Contains reports whether value falls within [Lo, Hi] inclusive.
func (d Dimension) Contains(value float64) bool {
	return value >= d.Lo && value <= d.Hi
}

func (d Dimension) validate() error {
	if d.Lo > d.Hi {
		return errors.Errorf("dimension lo (%v) must not exceed hi (%v)", d.Lo, d.Hi)
	}
	if d.Q <= 0 {
		return errors.Errorf("dimension quantization interval must be positive, got %v", d.Q)
	}
	return nil
}

// Report describes a single out-of-bounds observation: the index of the
// dimension that rejected the value, and the offending value.
type Report struct {
	DimIndex int
	Value    float64
}

// Dimensions is an ordered sequence of Dimension plus a monotonically
// increasing Version. Treat values of this type as immutable: Expand and
// Refine both return a new Dimensions with Version = old Version + 1.
type Dimensions struct {
	Dims    []Dimension
	Version uint64
}

// ErrAtResolutionLimit is returned by Refine when any dimension's
// quantization interval would fall below minQ; the coordinator treats this
// as the run's halt signal.
var ErrAtResolutionLimit = errors.New("dimensions are at resolution limit")

// New constructs a Dimensions at version 0 from the given axes.
func New(dims []Dimension) (*Dimensions, error) {
	if len(dims) == 0 {
		return nil, errors.New("dimensions must have at least one axis")
	}
	cp := make([]Dimension, len(dims))
	copy(cp, dims)
	for i, d := range cp {
		if err := d.validate(); err != nil {
			return nil, errors.Wrapf(err, "dimension %d invalid", i)
		}
	}
	return &Dimensions{Dims: cp, Version: 0}, nil
}

// Len returns the number of axes.
func (ds *Dimensions) Len() int {
	return len(ds.Dims)
}

// CellOf floors value into its quantized cell index for dimension dimIndex,
// clamped to [0, cellCount-1].
func (ds *Dimensions) CellOf(dimIndex int, value float64) int {
	d := ds.Dims[dimIndex]
	cell := int(math.Floor((value - d.Lo) / d.Q))
	if cell < 0 {
		return 0
	}
	if max := d.CellCount() - 1; cell > max {
		return max
	}
	return cell
}

// Contains reports whether value is within bounds for dimension dimIndex.
func (ds *Dimensions) Contains(dimIndex int, value float64) bool {
	return ds.Dims[dimIndex].Contains(value)
}

// CheckAll validates every parameter against its dimension, returning one
// Report per out-of-bounds value. A nil/empty result means all parameters
// are in bounds.
func (ds *Dimensions) CheckAll(params []float64) []Report {
	var reports []Report
	for i, v := range params {
		if !ds.Contains(i, v) {
			reports = append(reports, Report{DimIndex: i, Value: v})
		}
	}
	return reports
}

// Expand grows the lo/hi bound of every dimension named in reports to the
// smallest quantized boundary that strictly contains every reported value,
// preserving Q, and returns a new Dimensions with Version bumped by one.
func (ds *Dimensions) Expand(reports []Report) *Dimensions {
	next := make([]Dimension, len(ds.Dims))
	copy(next, ds.Dims)

	for _, r := range reports {
		d := next[r.DimIndex]
		if r.Value < d.Lo {
			steps := math.Ceil((d.Lo - r.Value) / d.Q)
			d.Lo -= steps * d.Q
		}
		if r.Value > d.Hi {
			steps := math.Ceil((r.Value - d.Hi) / d.Q)
			d.Hi += steps * d.Q
		}
		next[r.DimIndex] = d
	}

	return &Dimensions{Dims: next, Version: ds.Version + 1}
}

// Refine halves every dimension's quantization interval and returns a new
// Dimensions with Version bumped by one. If any resulting Q would fall
// below minQ, Refine leaves ds untouched and returns ErrAtResolutionLimit.
func (ds *Dimensions) Refine(minQ float64) (*Dimensions, error) {
	for _, d := range ds.Dims {
		if d.Q/2 < minQ {
			return nil, ErrAtResolutionLimit
		}
	}
	next := make([]Dimension, len(ds.Dims))
	for i, d := range ds.Dims {
		d.Q = d.Q / 2
		next[i] = d
	}
	return &Dimensions{Dims: next, Version: ds.Version + 1}, nil
}
