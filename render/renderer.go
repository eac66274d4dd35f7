package render

import (
	"fmt"
	"sync"

	"github.com/fidgetcore/fidgetcore/backend/gpu"
	"github.com/fidgetcore/fidgetcore/backend/software"
	"github.com/fidgetcore/fidgetcore/internal/eval"
	"github.com/fidgetcore/fidgetcore/internal/grid"
	"github.com/fidgetcore/fidgetcore/internal/rlog"
	"github.com/fidgetcore/fidgetcore/internal/subtape"
	"github.com/fidgetcore/fidgetcore/internal/tape"
	"github.com/fidgetcore/fidgetcore/internal/viewport"
)

// Renderer is the spec §6 public surface: build/Run/HeightAt/CopyTo,
// owning the Tape, subtape Pool and output images for its lifetime
// (spec §3 ownership, §9 "Global mutable state ... owned by the
// renderer and reset at run entry"). Grounded on MachineBus
// (machine_bus.go): one long-lived struct wiring subsystems together,
// constructed once and driven by repeated calls rather than rebuilt
// per frame.
type Renderer struct {
	cfg       Config
	dim       int
	imageSize int

	compiler *tape.Compiler
	tape     *tape.Tape
	root     eval.Program

	pool    *subtape.Pool
	depth   *grid.DepthImage
	normals *grid.NormalImage

	dispatcher Dispatcher
	gpuDevice  *gpu.Device // non-nil only when backend/gpu.New succeeded

	mu      sync.Mutex // serializes Run/RunBatch calls against one Renderer
	cacheMu sync.Mutex // guards terminalCache/flattenCache during concurrent Dispatch

	terminalCache map[uint64]subtape.Handle
	flattenCache  map[subtape.Handle]eval.Program

	masks []*grid.FilledMask // per-stage filled-tile bitsets from the most recent run
}

// Build compiles nodes into a Tape and constructs a Renderer ready to
// Run views against it (spec §6 "Construction": "build(expression_tree,
// image_size_px, dimension) -> Renderer"). Construction tries
// backend/gpu first, falling back to backend/software on
// gpu.ErrDeviceError, mirroring voodoo_vulkan.go's "Vulkan init
// failed, using software backend" fallback.
func Build(nodes []tape.Node, root tape.Node, imageSizePx, dim int, cfg Config) (*Renderer, error) {
	if dim != 2 && dim != 3 {
		return nil, fmt.Errorf("render: build: dimension must be 2 or 3, got %d", dim)
	}
	c := tape.NewCompiler()
	tp, err := c.Compile(nodes, root)
	if err != nil {
		return nil, buildError(err)
	}

	r := &Renderer{
		cfg:           cfg,
		dim:           dim,
		imageSize:     imageSizePx,
		compiler:      c,
		tape:          tp,
		root:          eval.FromTape(tp),
		pool:          subtape.NewPool(cfg.PoolCapacity),
		depth:         grid.NewDepthImage(imageSizePx),
		terminalCache: make(map[uint64]subtape.Handle),
		flattenCache:  make(map[subtape.Handle]eval.Program),
	}
	if dim == 3 {
		r.normals = grid.NewNormalImage(imageSizePx)
	}

	if dev, gerr := gpu.New(); gerr == nil {
		r.gpuDevice = dev
		r.dispatcher = dev
	} else {
		rlog.Infof("render: gpu backend unavailable (%v), using software backend", gerr)
		r.dispatcher = software.New(cfg.Streams)
	}
	return r, nil
}

// Stats reports the compiler diagnostics from construction (SPEC_FULL
// "Opcode constant-folding diagnostics").
func (r *Renderer) Stats() tape.Stats { return r.compiler.Stats() }

// Close releases the GPU device, if one was acquired at construction.
func (r *Renderer) Close() {
	if r.gpuDevice != nil {
		r.gpuDevice.Close()
	}
}

// Run renders one view, writing the internal depth (and normal, 3D)
// images (spec §6 "Render": "Idempotent"). Calling Run twice with the
// same view reproduces bit-identical images (spec §8 P6).
func (r *Renderer) Run(v viewport.View) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run(v)
}

// RunBatch renders each view in views in turn against the one compiled
// Tape and shared subtape pool (SPEC_FULL "Multiple simultaneous views
// / batch render"), grounded on CoprocessorManager's "submit many
// tickets against one resource" shape (coprocessor_manager.go). Depth
// images are only valid for the most recently rendered view -
// CopyTo/HeightAt must be called between RunBatch entries if each
// view's output is needed.
func (r *Renderer) RunBatch(views []viewport.View, onDone func(v viewport.View, err error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range views {
		err := r.run(v)
		if onDone != nil {
			onDone(v, err)
		}
		if err != nil {
			return
		}
	}
}

// run is Run's implementation, called with r.mu held.
func (r *Renderer) run(v viewport.View) error {
	r.pool.Reset()
	r.depth.Reset()
	if r.normals != nil {
		r.normals.Reset()
	}
	for k := range r.terminalCache {
		delete(r.terminalCache, k)
	}
	for k := range r.flattenCache {
		delete(r.flattenCache, k)
	}
	return r.runHierarchy(v)
}

// HeightAt returns the depth image's value at (x, y) (spec §6
// "Readback": "heightAt(x,y) -> uint32").
func (r *Renderer) HeightAt(x, y int) uint32 {
	return r.depth.At(x, y)
}

// SurfaceMode selects which readback image CopyTo copies from (spec §6
// "Readback": "surface_mode in {depth, normal}").
type SurfaceMode int

const (
	SurfaceDepth SurfaceMode = iota
	SurfaceNormal
)

// CopyTo bulk-copies the selected readback image into dst, which must
// have length targetSize*targetSize, nearest-neighbor resampling to
// targetSize if it differs from the renderer's own image size. In
// append mode, zero source pixels leave the destination unchanged
// (spec §6 "Readback": "Append mode preserves destination pixels where
// the renderer has no coverage").
func (r *Renderer) CopyTo(dst []uint32, targetSize int, appendMode bool, mode SurfaceMode) error {
	if len(dst) != targetSize*targetSize {
		return fmt.Errorf("render: CopyTo: dst has len %d, want %d", len(dst), targetSize*targetSize)
	}
	var src []uint32
	var srcSize int
	switch mode {
	case SurfaceDepth:
		src, srcSize = r.depth.Raw(), r.depth.Size()
	case SurfaceNormal:
		if r.normals == nil {
			return fmt.Errorf("render: CopyTo: normal surface unavailable for a 2D renderer")
		}
		src, srcSize = r.normals.Raw(), r.normals.Size()
	default:
		return fmt.Errorf("render: CopyTo: unknown surface mode %d", mode)
	}

	for dy := 0; dy < targetSize; dy++ {
		sy := dy * srcSize / targetSize
		for dx := 0; dx < targetSize; dx++ {
			sx := dx * srcSize / targetSize
			v := src[sy*srcSize+sx]
			if appendMode && v == 0 {
				continue
			}
			dst[dy*targetSize+dx] = v
		}
	}
	return nil
}
