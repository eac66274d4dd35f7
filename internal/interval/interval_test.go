package interval

import (
	"math"
	"testing"
)

// sampleContainment checks spec §8 P1 ("sampling any point inside the
// inputs yields a value inside the interval result") by probing a dense
// grid of points inside a and asserting f(x) falls within the returned
// bound, with a small epsilon for floating-point slack.
func sampleContainment(t *testing.T, a I, result I, f func(float64) float64) {
	t.Helper()
	const samples = 200
	const eps = 1e-9
	for i := 0; i <= samples; i++ {
		x := a.Lo + (a.Hi-a.Lo)*float64(i)/float64(samples)
		v := f(x)
		if v < result.Lo-eps || v > result.Hi+eps {
			t.Fatalf("f(%v)=%v outside interval [%v, %v] for input [%v, %v]", x, v, result.Lo, result.Hi, a.Lo, a.Hi)
		}
	}
}

// TestSinStraddlingMaximumWidensToOne is the maintainer-reported
// counterexample: an interval symmetric about pi/2 has equal endpoint
// values even though the true supremum over the interval is sin(pi/2)=1,
// which a naive endpoint min/max would miss.
func TestSinStraddlingMaximumWidensToOne(t *testing.T) {
	a := I{math.Pi/2 - 0.1, math.Pi/2 + 0.1}
	r := Sin(a)
	if r.Hi < 1-1e-9 {
		t.Fatalf("expected Sin(%v) to widen to 1, got %+v", a, r)
	}
	sampleContainment(t, a, r, math.Sin)
}

// TestSinStraddlingMinimumWidensToNegativeOne mirrors the maximum case
// for the symmetric minimum at -pi/2 (equivalently 3*pi/2).
func TestSinStraddlingMinimumWidensToNegativeOne(t *testing.T) {
	a := I{-math.Pi/2 - 0.1, -math.Pi/2 + 0.1}
	r := Sin(a)
	if r.Lo > -1+1e-9 {
		t.Fatalf("expected Sin(%v) to widen to -1, got %+v", a, r)
	}
	sampleContainment(t, a, r, math.Sin)
}

// TestCosStraddlingMaximumWidensToOne exercises the same residue check
// for Cos's maximum at 0 (+ k*2*pi).
func TestCosStraddlingMaximumWidensToOne(t *testing.T) {
	a := I{-0.1, 0.1}
	r := Cos(a)
	if r.Hi < 1-1e-9 {
		t.Fatalf("expected Cos(%v) to widen to 1, got %+v", a, r)
	}
	sampleContainment(t, a, r, math.Cos)
}

// TestCosStraddlingMinimumWidensToNegativeOne exercises Cos's minimum at
// pi (+ k*2*pi).
func TestCosStraddlingMinimumWidensToNegativeOne(t *testing.T) {
	a := I{math.Pi - 0.1, math.Pi + 0.1}
	r := Cos(a)
	if r.Lo > -1+1e-9 {
		t.Fatalf("expected Cos(%v) to widen to -1, got %+v", a, r)
	}
	sampleContainment(t, a, r, math.Cos)
}

// TestSinCosMonotoneBranchStaysTight checks the complementary case: an
// interval entirely within one monotone branch (no extremum inside)
// should NOT widen all the way to [-1, 1], or Classify would lose all
// its pruning power on such expressions.
func TestSinCosMonotoneBranchStaysTight(t *testing.T) {
	a := I{0.1, 0.4} // entirely within (0, pi/2), both sin and cos monotone here
	sr := Sin(a)
	if sr.Lo < -0.99 || sr.Hi > 0.99 {
		t.Fatalf("expected Sin(%v) to stay tight, got %+v", a, sr)
	}
	sampleContainment(t, a, sr, math.Sin)

	cr := Cos(a)
	if cr.Lo < math.Cos(a.Hi)-1e-9 || cr.Hi > math.Cos(a.Lo)+1e-9 {
		t.Fatalf("expected Cos(%v) to stay tight, got %+v", a, cr)
	}
	sampleContainment(t, a, cr, math.Cos)
}

// TestSinCosWideIntervalCoversFullRange is the already-correct case from
// the original implementation: a span of at least a full period must
// cover every extremum, so the bound degenerates to the whole range.
func TestSinCosWideIntervalCoversFullRange(t *testing.T) {
	a := I{0, 2 * math.Pi}
	sr := Sin(a)
	if sr.Lo > -1+1e-9 || sr.Hi < 1-1e-9 {
		t.Fatalf("expected Sin(%v) = [-1, 1], got %+v", a, sr)
	}
	cr := Cos(a)
	if cr.Lo > -1+1e-9 || cr.Hi < 1-1e-9 {
		t.Fatalf("expected Cos(%v) = [-1, 1], got %+v", a, cr)
	}
}

// TestAsinAcosSampleContainment covers the monotone-inverse trig
// functions under P1 alongside Sin/Cos so the whole trig family has
// soundness coverage in one file.
func TestAsinAcosSampleContainment(t *testing.T) {
	a := I{-0.5, 0.8}
	sampleContainment(t, a, Asin(a), math.Asin)
	sampleContainment(t, a, Acos(a), math.Acos)
}

// TestMulSquareSqrtSampleContainment is a quick P1 sanity sweep over the
// non-trig unary/binary kernels, since the earlier test gap was specific
// to trig but P1 binds every kernel in this package.
func TestMulSquareSqrtSampleContainment(t *testing.T) {
	a := I{-2, 3}
	b := I{-1, 4}
	sampleContainment(t, a, Square(a), func(x float64) float64 { return x * x })
	sampleContainment(t, I{0, 9}, Sqrt(I{0, 9}), math.Sqrt)
	for i := 0; i <= 50; i++ {
		x := a.Lo + (a.Hi-a.Lo)*float64(i)/50
		for j := 0; j <= 50; j++ {
			y := b.Lo + (b.Hi-b.Lo)*float64(j)/50
			r := Mul(a, b)
			v := x * y
			if v < r.Lo-1e-9 || v > r.Hi+1e-9 {
				t.Fatalf("Mul(%v,%v): %v*%v=%v outside [%v,%v]", a, b, x, y, v, r.Lo, r.Hi)
			}
		}
	}
}
