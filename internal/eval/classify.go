package eval

import (
	"github.com/fidgetcore/fidgetcore/internal/grid"
	"github.com/fidgetcore/fidgetcore/internal/interval"
)

// Classify turns a tile's root interval into its Status (spec §4.4
// step 4): upper bound < 0 is Filled, lower bound > 0 is Empty,
// anything else is Ambiguous and proceeds to specialization.
func Classify(root interval.I) grid.Status {
	switch {
	case root.Hi < 0:
		return grid.Filled
	case root.Lo > 0:
		return grid.Empty
	default:
		return grid.Ambiguous
	}
}
