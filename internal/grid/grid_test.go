package grid

import (
	"sync"
	"testing"
)

func TestEnumerateStage0Counts(t *testing.T) {
	tiles := EnumerateStage0(64, 64, 2)
	if len(tiles) != 1 {
		t.Fatalf("expected 1 tile for a 64px image at tile size 64, got %d", len(tiles))
	}
	tiles = EnumerateStage0(256, 64, 2)
	if len(tiles) != 16 {
		t.Fatalf("expected 16 tiles for 256/64 grid, got %d", len(tiles))
	}
	tiles3 := EnumerateStage0(512, 64, 3)
	if len(tiles3) != 8*8*8 {
		t.Fatalf("expected 512 3D tiles, got %d", len(tiles3))
	}
}

func TestSubdivideProducesExpectedChildCount(t *testing.T) {
	parent := Tile{X: 1, Y: 2, Level: 0}
	children := Subdivide(parent, 64, 16, 2)
	if len(children) != 16 {
		t.Fatalf("expected (64/16)^2=16 children, got %d", len(children))
	}
	for _, c := range children {
		if c.X < parent.X*4 || c.X >= parent.X*4+4 {
			t.Fatalf("child X %d out of parent range", c.X)
		}
	}
}

func TestDepthImageAtomicMaxUnderConcurrency(t *testing.T) {
	d := NewDepthImage(4)
	var wg sync.WaitGroup
	for v := uint32(1); v <= 100; v++ {
		wg.Add(1)
		go func(v uint32) {
			defer wg.Done()
			d.Max(1, 1, v)
		}(v)
	}
	wg.Wait()
	if got := d.At(1, 1); got != 100 {
		t.Fatalf("expected max contributor 100, got %d", got)
	}
}

func TestDepthImageMaxUpdateReportsFinalWinner(t *testing.T) {
	d := NewDepthImage(4)
	var wg sync.WaitGroup
	wins := make([]bool, 100)
	for v := uint32(1); v <= 100; v++ {
		wg.Add(1)
		go func(v uint32) {
			defer wg.Done()
			wins[v-1] = d.MaxUpdate(2, 2, v)
		}(v)
	}
	wg.Wait()
	if got := d.At(2, 2); got != 100 {
		t.Fatalf("expected max contributor 100, got %d", got)
	}
	// Whichever goroutine's CAS set the final value of 100 must have
	// reported true. Goroutines whose value was later overtaken may also
	// have reported true: MaxUpdate reports whether its own CAS raised
	// the stored value at that moment.
	if !wins[99] {
		t.Fatalf("the goroutine writing the final max (100) must report true")
	}
}

func TestDepthImageResetClearsPixels(t *testing.T) {
	d := NewDepthImage(2)
	d.Max(0, 0, 5)
	d.Reset()
	if got := d.At(0, 0); got != 0 {
		t.Fatalf("expected 0 after reset, got %d", got)
	}
}

func TestFilledMaskConcurrentSet(t *testing.T) {
	m := NewFilledMask(8, 2)
	var wg sync.WaitGroup
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			wg.Add(1)
			go func(x, y int) {
				defer wg.Done()
				m.Set2D(x, y)
			}(x, y)
		}
	}
	wg.Wait()
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			if !m.Test2D(x, y) {
				t.Fatalf("expected (%d,%d) set", x, y)
			}
		}
	}
}

func TestPackNormalRoundTripsSign(t *testing.T) {
	packed := PackNormal(0, 0, 1)
	dz := packed & 0xFF
	if dz < 250 {
		t.Fatalf("expected +Z normal to encode a high dz byte, got %d", dz)
	}
	packed2 := PackNormal(0, 0, -1)
	dz2 := packed2 & 0xFF
	if dz2 > 5 {
		t.Fatalf("expected -Z normal to encode a low dz byte, got %d", dz2)
	}
}
