package grid

import "sync/atomic"

// DepthImage is the per-pixel highest-Z-known-inside-the-shape image
// (spec §3 "Image", glossary "Depth image"). Writes use atomic-max
// semantics so concurrent workers never need to coordinate beyond the
// single compare-and-swap loop below (spec §5: "Ordering guarantees ...
// atomic-max guarantees the final depth equals the maximum over all
// contributors").
type DepthImage struct {
	size int
	px   []uint32
}

// NewDepthImage allocates a size x size depth image, zeroed (0 means
// "no coverage").
func NewDepthImage(size int) *DepthImage {
	return &DepthImage{size: size, px: make([]uint32, size*size)}
}

func (d *DepthImage) Size() int { return d.size }

// At returns the current depth value at (x, y). Reads are single atomic
// loads with no further ordering against concurrent writers: the spec
// explicitly allows this to be pessimistic by one stage during
// concurrent occlusion queries (benign race, never unsound).
func (d *DepthImage) At(x, y int) uint32 {
	return atomic.LoadUint32(&d.px[y*d.size+x])
}

// Max atomically updates the pixel at (x, y) to the larger of its
// current value and v, using a CAS retry loop (spec §4.6 step 4:
// "updates the depth image via atomic-max").
func (d *DepthImage) Max(x, y int, v uint32) {
	addr := &d.px[y*d.size+x]
	for {
		old := atomic.LoadUint32(addr)
		if v <= old {
			return
		}
		if atomic.CompareAndSwapUint32(addr, old, v) {
			return
		}
	}
}

// MaxUpdate is Max, reporting whether this call's CAS raised the stored
// value to v. A later call with a larger value can still overtake it,
// so true does not mean v is the pixel's final value.
func (d *DepthImage) MaxUpdate(x, y int, v uint32) bool {
	addr := &d.px[y*d.size+x]
	for {
		old := atomic.LoadUint32(addr)
		if v <= old {
			return false
		}
		if atomic.CompareAndSwapUint32(addr, old, v) {
			return true
		}
	}
}

// Reset zeroes the image; called at the start of each Render call
// (spec §3 ownership: "each render call resets the pool, the per-level
// tile arrays, and images").
func (d *DepthImage) Reset() {
	for i := range d.px {
		d.px[i] = 0
	}
}

// Raw exposes the underlying pixel slice for bulk copy-out (spec §6
// "Readback").
func (d *DepthImage) Raw() []uint32 { return d.px }

// NormalImage stores one packed RGB-encoded normal per pixel (spec §3:
// "Normals image is parallel, encoding (dz,dy,dx,0xFF) packed into 32
// bits").
type NormalImage struct {
	size int
	px   []uint32
}

func NewNormalImage(size int) *NormalImage {
	return &NormalImage{size: size, px: make([]uint32, size*size)}
}

func (n *NormalImage) Size() int { return n.size }

func (n *NormalImage) Set(x, y int, packed uint32) {
	n.px[y*n.size+x] = packed
}

func (n *NormalImage) At(x, y int) uint32 { return n.px[y*n.size+x] }

func (n *NormalImage) Reset() {
	for i := range n.px {
		n.px[i] = 0
	}
}

func (n *NormalImage) Raw() []uint32 { return n.px }

// PackNormal encodes a unit normal (nx, ny, nz in [-1, 1]) into the
// (dz, dy, dx, 0xFF) byte layout spec §3 describes.
func PackNormal(nx, ny, nz float64) uint32 {
	enc := func(v float64) uint32 {
		c := (v*0.5 + 0.5) * 255
		if c < 0 {
			c = 0
		}
		if c > 255 {
			c = 255
		}
		return uint32(c)
	}
	dz := enc(nz)
	dy := enc(ny)
	dx := enc(nx)
	return dz | dy<<8 | dx<<16 | 0xFF<<24
}

// FilledMask is a bitset of filled tiles at one hierarchy level, in 2D
// or 3D (spec §4.5 step 5). The renderer sets a bit for every Filled
// tile and exposes the masks for inspection; output pixels are written
// to the depth image directly, not composited from these masks.
type FilledMask struct {
	n    int // tiles per axis at this level
	bits []uint64
}

func NewFilledMask(tilesPerAxis, dim int) *FilledMask {
	total := tilesPerAxis * tilesPerAxis
	if dim == 3 {
		total *= tilesPerAxis
	}
	return &FilledMask{n: tilesPerAxis, bits: make([]uint64, (total+63)/64)}
}

func (m *FilledMask) index2D(x, y int) int { return y*m.n + x }
func (m *FilledMask) index3D(x, y, z int) int { return (z*m.n+y)*m.n + x }

func (m *FilledMask) setBit(i int) {
	word, bit := i/64, uint(i%64)
	for {
		old := atomic.LoadUint64(&m.bits[word])
		nw := old | (1 << bit)
		if nw == old {
			return
		}
		if atomic.CompareAndSwapUint64(&m.bits[word], old, nw) {
			return
		}
	}
}

func (m *FilledMask) testBit(i int) bool {
	word, bit := i/64, uint(i%64)
	return atomic.LoadUint64(&m.bits[word])&(1<<bit) != 0
}

func (m *FilledMask) Set2D(x, y int)     { m.setBit(m.index2D(x, y)) }
func (m *FilledMask) Test2D(x, y int) bool { return m.testBit(m.index2D(x, y)) }

func (m *FilledMask) Set3D(x, y, z int)     { m.setBit(m.index3D(x, y, z)) }
func (m *FilledMask) Test3D(x, y, z int) bool { return m.testBit(m.index3D(x, y, z)) }
