// Package export provides one-way snapshot export of engine results for
// external analysis tooling. It is deliberately not a checkpoint format:
// nothing here can be read back into a running engine.World.
package export

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
)

// WriteBestParamsNPY writes params as a 1-D float64 NumPy array, suitable
// for loading with numpy.load from outside the engine.
func WriteBestParamsNPY(w io.Writer, params []float64) error {
	if len(params) == 0 {
		return errors.New("export: no parameters to write")
	}
	if err := npyio.Write(w, params); err != nil {
		return errors.Wrap(err, "failed to write npy payload")
	}
	return nil
}
