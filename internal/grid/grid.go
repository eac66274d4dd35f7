// Package grid implements the hierarchical tile/voxel coordinate math
// and the per-pixel depth/normal images used for occlusion (C5, spec
// §3 "Tile", "Image", §4.5). Coordinate handling is grounded on the
// view/transform math in the gogpu-gg scene renderer retrieved
// alongside this spec, adapted here from a scene-graph's camera stack
// to this engine's tile-grid corner mapping.
package grid

import "github.com/fidgetcore/fidgetcore/internal/subtape"

// Status is a tile's place in the state machine described in spec §4.8.
type Status uint8

const (
	Unevaluated Status = iota
	Ambiguous
	Filled
	Empty
	Masked
)

// Stage describes one level of the hierarchical subdivision by its tile
// side length in pixels/voxels.
type Stage struct {
	TileSize int // side length in pixels/voxels at this stage
}

// Stages3D and Stages2D are the default stage side-lengths from spec
// §6 ("Defaults: S_stages = {64, 16, 4} for 3D, {64, 8} for 2D").
var (
	Stages3D = []int{64, 16, 4}
	Stages2D = []int{64, 8}
)

// Tile is a spatial cell at one subdivision level (spec §3 "Tile"): its
// packed linear position, the subtape chain specializing the tree to
// this tile, and bookkeeping used by the hierarchy driver's queue
// compaction.
type Tile struct {
	X, Y, Z int // integer corner position in units of this stage's tile size
	Level   int // stage index, 0 = coarsest

	Subtape  subtape.Handle // leaf-most chunk of this tile's specialization chain (where Walk starts)
	Terminal bool           // subtape contains no MIN/MAX (spec §3, §4.8)

	Next int // compacted index in the following stage's array; -1 = inactive
}

// Corner returns the tile's integer pixel/voxel corner coordinates
// within the full image, given this stage's tile size.
func (t Tile) Corner(tileSize int) (x, y, z int) {
	return t.X * tileSize, t.Y * tileSize, t.Z * tileSize
}

// EnumerateStage0 returns every tile at the coarsest stage for an image
// of the given size and dimension (2 or 3), per spec §4.5 step 1:
// "(image_size/S_0)^D tiles".
func EnumerateStage0(imageSize, tileSize, dim int) []Tile {
	n := imageSize / tileSize
	var tiles []Tile
	if dim == 2 {
		tiles = make([]Tile, 0, n*n)
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				tiles = append(tiles, Tile{X: x, Y: y, Z: 0, Level: 0})
			}
		}
		return tiles
	}
	tiles = make([]Tile, 0, n*n*n)
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				tiles = append(tiles, Tile{X: x, Y: y, Z: z, Level: 0})
			}
		}
	}
	return tiles
}

// Subdivide materializes a tile's children at the next stage: spec
// §4.5 step 2, "subtilesPerTile = (S_{k-1}/S_k)^D", each inheriting the
// parent's subtape handle and terminal flag until re-specialized.
func Subdivide(parent Tile, parentTileSize, childTileSize, dim int) []Tile {
	ratio := parentTileSize / childTileSize
	children := make([]Tile, 0, ratio*ratio)
	baseX, baseY, baseZ := parent.X*ratio, parent.Y*ratio, parent.Z*ratio
	if dim == 2 {
		for dy := 0; dy < ratio; dy++ {
			for dx := 0; dx < ratio; dx++ {
				children = append(children, Tile{
					X: baseX + dx, Y: baseY + dy, Z: 0,
					Level:    parent.Level + 1,
					Subtape:  parent.Subtape,
					Terminal: parent.Terminal,
				})
			}
		}
		return children
	}
	for dz := 0; dz < ratio; dz++ {
		for dy := 0; dy < ratio; dy++ {
			for dx := 0; dx < ratio; dx++ {
				children = append(children, Tile{
					X: baseX + dx, Y: baseY + dy, Z: baseZ + dz,
					Level:    parent.Level + 1,
					Subtape:  parent.Subtape,
					Terminal: parent.Terminal,
				})
			}
		}
	}
	return children
}
