// Package viewport maps integer tile/pixel coordinates to world-space
// intervals and points, the contract spec §3 "View" and §4.4 step 1
// describe. Grounded on the camera/scene mapping in the gogpu-gg scene
// renderer retrieved alongside this spec (view scale/center plus an
// optional full projection matrix), adapted from a triangle-scene
// camera stack to this engine's per-tile corner mapping.
package viewport

import "github.com/fidgetcore/fidgetcore/internal/interval"

// Mat4 is a column-major 4x4 transform.
type Mat4 [16]float64

// Identity4 returns the identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// View is the scale/center/matrix contract from spec §6: "view
// provides scale (float), center (float[3]) and optionally a 4x4
// matrix".
type View struct {
	Scale    float64
	Center   [3]float64
	Matrix   Mat4
	HasMatrix bool
}

// NewView builds a scale/center-only view (no projective matrix).
func NewView(scale float64, center [3]float64) View {
	return View{Scale: scale, Center: center, Matrix: Identity4()}
}

// ToWorld maps one image-space point (in pixel units, image centered
// at the origin) to a world-space point, honoring the full 4x4
// transform and its projective divide when present (spec §4.4 step 1:
// "projective divide by w is applied element-wise in that case").
func (v View) ToWorld(px, py, pz float64) (x, y, z float64) {
	if !v.HasMatrix {
		return v.Center[0] + px*v.Scale, v.Center[1] + py*v.Scale, v.Center[2] + pz*v.Scale
	}
	m := v.Matrix
	wx := m[0]*px + m[4]*py + m[8]*pz + m[12]
	wy := m[1]*px + m[5]*py + m[9]*pz + m[13]
	wz := m[2]*px + m[6]*py + m[10]*pz + m[14]
	ww := m[3]*px + m[7]*py + m[11]*pz + m[15]
	if ww == 0 {
		ww = 1
	}
	return wx / ww, wy / ww, wz / ww
}

// ToWorldInterval maps a tile's integer corner-to-corner pixel-space
// interval to a world-space interval per axis (spec §4.4 step 1). When
// a projection matrix is present, each of the 8 (or 4, in 2D) corners
// of the pixel-space box is transformed and the result is the bounding
// interval of the transformed corners - matrices can rotate axes, so
// the image-space box's corners, not just its two extreme points,
// must be swept.
func (v View) ToWorldInterval(loX, hiX, loY, hiY, loZ, hiZ float64) (ix, iy, iz interval.I) {
	if !v.HasMatrix {
		x0, y0, z0 := v.ToWorld(loX, loY, loZ)
		x1, y1, z1 := v.ToWorld(hiX, hiY, hiZ)
		return orderedInterval(x0, x1), orderedInterval(y0, y1), orderedInterval(z0, z1)
	}
	corners := [][3]float64{
		{loX, loY, loZ}, {hiX, loY, loZ}, {loX, hiY, loZ}, {hiX, hiY, loZ},
		{loX, loY, hiZ}, {hiX, loY, hiZ}, {loX, hiY, hiZ}, {hiX, hiY, hiZ},
	}
	ix = interval.I{Lo: +inf, Hi: -inf}
	iy, iz = ix, ix
	for _, c := range corners {
		x, y, z := v.ToWorld(c[0], c[1], c[2])
		ix = widen(ix, x)
		iy = widen(iy, y)
		iz = widen(iz, z)
	}
	return ix, iy, iz
}

const inf = 1e308

func widen(a interval.I, v float64) interval.I {
	if v < a.Lo {
		a.Lo = v
	}
	if v > a.Hi {
		a.Hi = v
	}
	return a
}

func orderedInterval(a, b float64) interval.I {
	if a <= b {
		return interval.I{Lo: a, Hi: b}
	}
	return interval.I{Lo: b, Hi: a}
}
