package render

import (
	"math"

	"github.com/fidgetcore/fidgetcore/internal/eval"
	"github.com/fidgetcore/fidgetcore/internal/grid"
	"github.com/fidgetcore/fidgetcore/internal/viewport"
)

// evaluatePixels is C8/C9 (spec §4.6): the finest hierarchy stage hands
// its surviving Ambiguous tiles here instead of subdividing further.
// Every individual pixel (2D) or voxel (3D) inside each tile is point-
// evaluated against that tile's specialized Program; a point that
// lands inside the surface (f <= 0) wins the column's depth via
// atomic-max, and the winning write immediately computes that voxel's
// outward normal (3D only) so the two images never disagree about
// which voxel is "the surface" for a given column.
func (r *Renderer) evaluatePixels(v viewport.View, tiles []grid.Tile, tileSize int) error {
	r.dispatcher.Dispatch(len(tiles), func(i int) {
		t := tiles[i]
		prog := r.programFor(t)
		x0, y0, z0 := t.Corner(tileSize)

		if r.dim == 2 {
			for yy := y0; yy < y0+tileSize; yy++ {
				for xx := x0; xx < x0+tileSize; xx++ {
					wx, wy, wz := r.pixelWorldPoint(v, xx, yy, 0)
					if eval.EvaluateFloat(prog, wx, wy, wz) <= 0 {
						r.depth.Max(xx, yy, 1)
					}
				}
			}
			return
		}

		for zz := z0; zz < z0+tileSize; zz++ {
			for yy := y0; yy < y0+tileSize; yy++ {
				for xx := x0; xx < x0+tileSize; xx++ {
					wx, wy, wz := r.pixelWorldPoint(v, xx, yy, zz)
					if eval.EvaluateFloat(prog, wx, wy, wz) > 0 {
						continue
					}
					if r.depth.MaxUpdate(xx, yy, uint32(zz+1)) {
						r.writeNormal(prog, wx, wy, wz, xx, yy)
					}
				}
			}
		}
	})
	return nil
}

// writeNormal runs C9 at one surface voxel and packs its normalized
// gradient into the normal image (spec §4.7: "normalize; pack via
// PackNormal"). A degenerate (all-zero) gradient - which only a
// malformed or perfectly flat expression produces - leaves the
// straight-up normal (0,0,1) rather than dividing by zero.
func (r *Renderer) writeNormal(prog eval.Program, wx, wy, wz float64, x, y int) {
	d := eval.EvaluateDeriv(prog, wx, wy, wz)
	nx, ny, nz := d.DX, d.DY, d.DZ
	length := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if length == 0 {
		r.normals.Set(x, y, grid.PackNormal(0, 0, 1))
		return
	}
	r.normals.Set(x, y, grid.PackNormal(nx/length, ny/length, nz/length))
}
