package render

import (
	"github.com/fidgetcore/fidgetcore/internal/interval"
	"github.com/fidgetcore/fidgetcore/internal/viewport"
)

// centeredPixel converts an image-space pixel index to the
// center-at-origin coordinate viewport.View expects (spec §4.4 step 1:
// "mapping its integer corner coordinates through scale/center").
func centeredPixel(p, imageSize int) float64 {
	return float64(p) - float64(imageSize)/2
}

// tileWorldBounds maps a tile's integer pixel/voxel footprint to a
// world-space interval per axis, honoring the view's scale/center or
// full projective matrix (spec §4.4 step 1).
func (r *Renderer) tileWorldBounds(v viewport.View, x, y, z, tileSize int) (bx, by, bz interval.I) {
	loX := centeredPixel(x, r.imageSize)
	hiX := centeredPixel(x+tileSize, r.imageSize)
	loY := centeredPixel(y, r.imageSize)
	hiY := centeredPixel(y+tileSize, r.imageSize)
	var loZ, hiZ float64
	if r.dim == 3 {
		loZ = centeredPixel(z, r.imageSize)
		hiZ = centeredPixel(z+tileSize, r.imageSize)
	}
	// 2D always maps pixel-space Z=0 through the view (spec §9 open
	// question: "the VAR_Z value in 2D renders is bound to
	// v.center[2]"), which is exactly what View.ToWorld does for pz=0
	// with no matrix; this keeps every 2D tile's Z bound identical
	// across the image regardless of (x,y), so the render is Z-
	// independent.
	return v.ToWorldInterval(loX, hiX, loY, hiY, loZ, hiZ)
}

// pixelWorldPoint maps one pixel/voxel's center to a world-space point
// (spec §4.6 step 1: "Compute the world-space point (center-of-voxel)").
func (r *Renderer) pixelWorldPoint(v viewport.View, x, y, z int) (wx, wy, wz float64) {
	px := centeredPixel(x, r.imageSize) + 0.5
	py := centeredPixel(y, r.imageSize) + 0.5
	pz := 0.0
	if r.dim == 3 {
		pz = centeredPixel(z, r.imageSize) + 0.5
	}
	return v.ToWorld(px, py, pz)
}
