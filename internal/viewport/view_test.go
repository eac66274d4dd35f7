package viewport

import "testing"

func TestNewViewToWorldScalesAndCenters(t *testing.T) {
	v := NewView(2, [3]float64{10, 20, 30})
	x, y, z := v.ToWorld(1, 1, 1)
	if x != 12 || y != 22 || z != 32 {
		t.Fatalf("got (%v,%v,%v), want (12,22,32)", x, y, z)
	}
}

func TestToWorldIntervalWithoutMatrix(t *testing.T) {
	v := NewView(1, [3]float64{0, 0, 0})
	ix, iy, iz := v.ToWorldInterval(-1, 1, -2, 2, 0, 0)
	if ix.Lo != -1 || ix.Hi != 1 {
		t.Fatalf("ix = %v, want [-1,1]", ix)
	}
	if iy.Lo != -2 || iy.Hi != 2 {
		t.Fatalf("iy = %v, want [-2,2]", iy)
	}
	if iz.Lo != 0 || iz.Hi != 0 {
		t.Fatalf("iz = %v, want [0,0]", iz)
	}
}

func TestToWorldIntervalWithRotationMatrixSweepsCorners(t *testing.T) {
	v := NewView(1, [3]float64{0, 0, 0})
	// 90-degree rotation about Z: (x,y) -> (-y,x). A box with a wider X
	// extent than Y must produce a transformed interval whose Y extent
	// reflects the original X extent.
	v.HasMatrix = true
	v.Matrix = Mat4{
		0, 1, 0, 0,
		-1, 0, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	ix, iy, _ := v.ToWorldInterval(-4, 4, -1, 1, 0, 0)
	if ix.Lo != -1 || ix.Hi != 1 {
		t.Fatalf("ix = %v, want [-1,1]", ix)
	}
	if iy.Lo != -4 || iy.Hi != 4 {
		t.Fatalf("iy = %v, want [-4,4]", iy)
	}
}
