package render

import (
	"errors"
	"sync"

	"github.com/fidgetcore/fidgetcore/internal/eval"
	"github.com/fidgetcore/fidgetcore/internal/grid"
	"github.com/fidgetcore/fidgetcore/internal/rlog"
	"github.com/fidgetcore/fidgetcore/internal/subtape"
	"github.com/fidgetcore/fidgetcore/internal/viewport"
)

// runHierarchy is the C7 hierarchy driver (spec §4.5): ping-pong tile
// queues, one stage at a time, compacting Ambiguous survivors and
// subdividing them into the next stage's children, with 3D occlusion
// culling against the depth image between stages.
func (r *Renderer) runHierarchy(v viewport.View) error {
	stages := r.cfg.stagesFor(r.dim)
	r.masks = make([]*grid.FilledMask, len(stages))
	for i, ts := range stages {
		r.masks[i] = grid.NewFilledMask(r.imageSize/ts, r.dim)
	}

	queue := grid.EnumerateStage0(r.imageSize, stages[0], r.dim)

	for stageIdx, tileSize := range stages {
		survivors := make([]grid.Tile, len(queue))
		keep := make([]bool, len(queue))
		var mu sync.Mutex
		var firstErr error

		r.dispatcher.Dispatch(len(queue), func(i int) {
			t := queue[i]
			x, y, z := t.Corner(tileSize)

			if r.dim == 3 && r.tileOccluded(x, y, z, tileSize) {
				return // Masked: correctness-equivalent to Empty (spec §4.8)
			}

			bx, by, bz := r.tileWorldBounds(v, x, y, z, tileSize)
			parent := r.programFor(t)

			var status grid.Status
			child := t

			if t.Terminal {
				// Spec §4.4 step 6: a terminal parent has no MIN/MAX
				// left to prune; classify without re-specializing.
				ir := eval.EvaluateInterval(parent, bx, by, bz)
				status = eval.Classify(ir.Root)
			} else {
				res, err := eval.EvaluateTile(r.pool, parent, bx, by, bz)
				if err != nil {
					if errors.Is(err, subtape.ErrPoolExhausted) {
						// Spec §4.9/§7 ESubtapePoolExhausted: abandon
						// specialization for this tile only, leaving it
						// pointing at its existing (parent) subtape so
						// it still renders, just without further
						// pruning at this stage.
						rlog.WarnOnce("subtape-pool-exhausted", "render: subtape pool exhausted, falling back to parent tape for some tiles")
						survivors[i] = t
						keep[i] = true
						return
					}
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
				status = res.Status
				child.Subtape = res.Subtape
				child.Terminal = res.Terminal
			}

			switch status {
			case grid.Filled:
				r.markFilled(stageIdx, t, x, y, z, tileSize)
			case grid.Ambiguous:
				survivors[i] = child
				keep[i] = true
			}
		})
		if firstErr != nil {
			return firstErr
		}

		compacted := make([]grid.Tile, 0, len(survivors))
		for i, ok := range keep {
			if ok {
				compacted = append(compacted, survivors[i])
			}
		}

		if stageIdx == len(stages)-1 {
			return r.evaluatePixels(v, compacted, tileSize)
		}

		nextTileSize := stages[stageIdx+1]
		next := make([]grid.Tile, 0, len(compacted)*4)
		for _, t := range compacted {
			next = append(next, grid.Subdivide(t, tileSize, nextTileSize, r.dim)...)
		}
		queue = next
	}
	return nil
}

// tileOccluded reports whether every pixel in the tile's (x,y)
// footprint already has a recorded depth at or above the tile's own
// top Z (spec §4.5 step 3: "before per-tile evaluation at stage k,
// test the tile against the cumulative depth mask; skip tiles fully
// beneath the current height"). 2D callers never reach this (the
// caller already gates on r.dim == 3).
func (r *Renderer) tileOccluded(x, y, z, tileSize int) bool {
	topZ := uint32(z + tileSize)
	for yy := y; yy < y+tileSize; yy++ {
		for xx := x; xx < x+tileSize; xx++ {
			if r.depth.At(xx, yy) < topZ {
				return false
			}
		}
	}
	return true
}

// markFilled records a Filled tile's level-local bit (spec §4.5 step
// 5's per-level filled mask, exposed to callers via FilledMask for
// scenario/property tests) and, for 3D, writes a
// conservative depth lower bound across the tile's pixel footprint so
// later, finer stages' occlusion queries benefit from it immediately
// (spec §4.5 step 3: "propagate filled tiles' top-Z into the next
// level's mask").
func (r *Renderer) markFilled(stageIdx int, t grid.Tile, x, y, z, tileSize int) {
	if r.dim == 2 {
		r.masks[stageIdx].Set2D(t.X, t.Y)
		for yy := y; yy < y+tileSize; yy++ {
			for xx := x; xx < x+tileSize; xx++ {
				r.depth.Max(xx, yy, 1)
			}
		}
		return
	}
	r.masks[stageIdx].Set3D(t.X, t.Y, t.Z)
	topZ := uint32(z + tileSize)
	for yy := y; yy < y+tileSize; yy++ {
		for xx := x; xx < x+tileSize; xx++ {
			r.depth.Max(xx, yy, topZ)
		}
	}
}

// FilledMask exposes the per-level filled-tile bitset built during the
// most recent Run, for diagnostics and the end-to-end scenario tests
// in spec §8 that assert on stage-0 Filled-tile counts.
func (r *Renderer) FilledMask(level int) *grid.FilledMask {
	if level < 0 || level >= len(r.masks) {
		return nil
	}
	return r.masks[level]
}

// programFor resolves a tile's inherited (or freshly specialized)
// subtape handle to a flattened, directly walkable eval.Program,
// caching the flatten per handle so a whole terminal subtree sharing
// one handle across many descendant tiles only pays FromSubtape's
// walk-and-copy cost once (SPEC_FULL "Terminal-tape cache": avoiding
// the redundant re-specialization/re-flattening flagged in C9's
// inherited-subtape design, spec §4.7).
func (r *Renderer) programFor(t grid.Tile) eval.Program {
	if t.Subtape == subtape.NoHandle {
		return r.root
	}
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	if p, ok := r.flattenCache[t.Subtape]; ok {
		return p
	}
	p := eval.FromSubtape(r.pool, t.Subtape, r.root)
	r.flattenCache[t.Subtape] = p
	if t.Terminal {
		r.terminalCache[terminalCacheKey(t.Level, t.X, t.Y, t.Z)] = t.Subtape
	}
	return p
}
