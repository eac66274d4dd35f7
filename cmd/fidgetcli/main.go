// fidgetcli compiles one or more f-rep surfaces and renders them to
// PNG: a scripting front end plus the batch/flag-handling shape of
// cmd/ie32to64 (ie32to64/main.go), adapted from an assembly-conversion
// CLI to a render-to-file one.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/fidgetcore/fidgetcore/internal/dagload"
	"github.com/fidgetcore/fidgetcore/internal/viewport"
	"github.com/fidgetcore/fidgetcore/render"
)

func main() {
	size := flag.Int("size", 512, "output image side length in pixels")
	dim := flag.Int("dim", 3, "2 for a 2D slice, 3 for a full voxel render")
	surface := flag.String("surface", "depth", "readback surface: depth or normal")
	outDir := flag.String("outdir", ".", "directory to write PNGs into")
	scale := flag.Float64("scale", 2.0, "view scale: world units per pixel")
	cx := flag.Float64("cx", 0, "view center X")
	cy := flag.Float64("cy", 0, "view center Y")
	cz := flag.Float64("cz", 0, "view center Z")
	streams := flag.Int("streams", 4, "software backend worker-stream count")
	pool := flag.Int("pool", 65536, "subtape pool chunk capacity")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fidgetcli [options] script.lua [script2.lua ...]\n\nRenders each Lua surface script to outdir/<script>.png.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if *surface != "depth" && *surface != "normal" {
		fmt.Fprintf(os.Stderr, "error: -surface must be depth or normal\n")
		os.Exit(1)
	}
	if *dim == 2 && *surface == "normal" {
		fmt.Fprintf(os.Stderr, "error: -surface normal is unavailable for -dim 2\n")
		os.Exit(1)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		// Piped output: skip the progress line fmt.Fprintf below would
		// otherwise interleave with redirected bytes.
	} else {
		fmt.Fprintf(os.Stderr, "rendering %d script(s) at %dx%d (dim=%d)\n", flag.NArg(), *size, *size, *dim)
	}

	cfg := render.DefaultConfig()
	cfg.Streams = *streams
	cfg.PoolCapacity = *pool
	v := viewport.NewView(*scale, [3]float64{*cx, *cy, *cz})

	var g errgroup.Group
	for _, path := range flag.Args() {
		path := path
		g.Go(func() error {
			return renderOne(path, *size, *dim, *outDir, *surface, cfg, v)
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func renderOne(scriptPath string, size, dim int, outDir, surface string, cfg render.Config, v viewport.View) error {
	src, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("%s: %w", scriptPath, err)
	}
	nodes, root, err := dagload.LoadLuaProgram(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", scriptPath, err)
	}

	r, err := render.Build(nodes, root, size, dim, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", scriptPath, err)
	}
	defer r.Close()

	if err := r.Run(v); err != nil {
		return fmt.Errorf("%s: render: %w", scriptPath, err)
	}

	mode := render.SurfaceDepth
	if surface == "normal" {
		mode = render.SurfaceNormal
	}
	buf := make([]uint32, size*size)
	if err := r.CopyTo(buf, size, false, mode); err != nil {
		return fmt.Errorf("%s: copy: %w", scriptPath, err)
	}

	outPath := outputPath(outDir, scriptPath)
	img := toImage(buf, size, mode)
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("%s: %w", outPath, err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("%s: encode: %w", outPath, err)
	}
	return nil
}

func outputPath(outDir, scriptPath string) string {
	base := scriptPath
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' {
			base = base[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			base = base[:i]
			break
		}
	}
	return outDir + "/" + base + ".png"
}

// toImage decodes a readback buffer into an encodable image.Image: a
// 16-bit grayscale height map for depth, or the PackNormal byte layout
// unpacked straight into NRGBA for normal.
func toImage(buf []uint32, size int, mode render.SurfaceMode) image.Image {
	if mode == render.SurfaceDepth {
		img := image.NewGray16(image.Rect(0, 0, size, size))
		for i, v := range buf {
			if v > 0xFFFF {
				v = 0xFFFF
			}
			img.Pix[i*2] = byte(v >> 8)
			img.Pix[i*2+1] = byte(v)
		}
		return img
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i, packed := range buf {
		img.Pix[i*4+0] = byte(packed >> 16) // dx
		img.Pix[i*4+1] = byte(packed >> 8)  // dy
		img.Pix[i*4+2] = byte(packed)       // dz
		img.Pix[i*4+3] = byte(packed >> 24) // alpha
	}
	return img
}
