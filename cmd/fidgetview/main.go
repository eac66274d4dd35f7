// fidgetview is an interactive viewport: it re-renders a Lua surface
// script every frame against a scale/center view the user pans and
// zooms with the keyboard, grounded on EbitenOutput's Game-interface
// wiring (video_backend_ebiten.go) - NewImage/WritePixels/DrawImage
// driving ebiten.RunGame - adapted from a fixed framebuffer blit to a
// per-frame re-render of the depth surface.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/draw"

	"github.com/fidgetcore/fidgetcore/internal/dagload"
	"github.com/fidgetcore/fidgetcore/internal/viewport"
	"github.com/fidgetcore/fidgetcore/render"
)

// panStep and zoomStep set how fast arrow keys pan and +/- zoom the
// view per frame, in the same units as viewport.View.Scale/Center.
const (
	panStep  = 0.02
	zoomStep = 1.03
)

type app struct {
	r          *render.Renderer
	size       int
	view       viewport.View
	buf        []uint32
	windowImg  *ebiten.Image
	rgba       *image.RGBA
	windowSize int
}

func (a *app) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		a.view.Center[0] -= panStep * a.view.Scale
	case ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		a.view.Center[0] += panStep * a.view.Scale
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		a.view.Center[1] -= panStep * a.view.Scale
	case ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		a.view.Center[1] += panStep * a.view.Scale
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyEqual):
		a.view.Scale /= zoomStep
	case ebiten.IsKeyPressed(ebiten.KeyMinus):
		a.view.Scale *= zoomStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (a *app) Draw(screen *ebiten.Image) {
	if err := a.r.Run(a.view); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		return
	}
	if err := a.r.CopyTo(a.buf, a.size, false, render.SurfaceDepth); err != nil {
		fmt.Fprintf(os.Stderr, "copy: %v\n", err)
		return
	}
	for i, v := range a.buf {
		var g byte
		if v > 0 {
			g = 255 - byte((v>>8)&0xFF)
		}
		o := i * 4
		a.rgba.Pix[o], a.rgba.Pix[o+1], a.rgba.Pix[o+2], a.rgba.Pix[o+3] = g, g, g, 255
	}

	if a.windowImg == nil {
		a.windowImg = ebiten.NewImage(a.windowSize, a.windowSize)
	}
	scaled := image.NewRGBA(image.Rect(0, 0, a.windowSize, a.windowSize))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), a.rgba, a.rgba.Bounds(), draw.Over, nil)
	a.windowImg.WritePixels(scaled.Pix)
	screen.DrawImage(a.windowImg, nil)
}

func (a *app) Layout(_, _ int) (int, int) {
	return a.windowSize, a.windowSize
}

func main() {
	size := flag.Int("size", 256, "internal render resolution")
	windowSize := flag.Int("window", 768, "window side length in pixels")
	dim := flag.Int("dim", 3, "2 or 3")
	scale := flag.Float64("scale", 2.0, "initial view scale")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: fidgetview [options] script.lua\n")
		os.Exit(1)
	}

	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	nodes, root, err := dagload.LoadLuaProgram(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	r, err := render.Build(nodes, root, *size, *dim, render.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer r.Close()

	a := &app{
		r:          r,
		size:       *size,
		view:       viewport.NewView(*scale, [3]float64{0, 0, 0}),
		buf:        make([]uint32, (*size)*(*size)),
		rgba:       image.NewRGBA(image.Rect(0, 0, *size, *size)),
		windowSize: *windowSize,
	}

	ebiten.SetWindowSize(*windowSize, *windowSize)
	ebiten.SetWindowTitle("fidgetview")
	ebiten.SetWindowResizable(true)
	if err := ebiten.RunGame(a); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
