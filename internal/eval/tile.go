package eval

import (
	"github.com/fidgetcore/fidgetcore/internal/grid"
	"github.com/fidgetcore/fidgetcore/internal/interval"
	"github.com/fidgetcore/fidgetcore/internal/subtape"
)

// TileResult is what C6 produces for one tile: its classification and,
// only when Ambiguous, the freshly specialized subtape handle plus
// whether that subtape turned out terminal (spec §4.4 steps 4-6).
type TileResult struct {
	Status   grid.Status
	Subtape  subtape.Handle
	Terminal bool
}

// EvaluateTile runs the complete per-tile C6 procedure over parent
// (the root tape's Program at stage 0, or the inherited parent
// subtape's Program at later stages): interval evaluation over the
// tile's bound X/Y/Z intervals, classification, and - only when
// Ambiguous - backward specialization into a fresh subtape chunk chain.
//
// Callers must not invoke EvaluateTile when the parent Program is
// already terminal (spec §4.4 step 6: "if the parent tape was already
// terminal, reuse it verbatim instead of re-specializing") - the
// hierarchy driver checks this before calling in, since a terminal
// parent has no MIN/MAX left to prune and nothing here would change.
func EvaluateTile(pool *subtape.Pool, parent Program, bx, by, bz interval.I) (TileResult, error) {
	ir := EvaluateInterval(parent, bx, by, bz)
	status := Classify(ir.Root)
	if status != grid.Ambiguous {
		return TileResult{Status: status}, nil
	}
	leaf, terminal, err := Specialize(pool, parent, ir.Choices)
	if err != nil {
		return TileResult{Status: grid.Ambiguous}, err
	}
	return TileResult{Status: grid.Ambiguous, Subtape: leaf, Terminal: terminal}, nil
}
