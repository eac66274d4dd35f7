package eval_test

import (
	"math"
	"testing"

	"github.com/fidgetcore/fidgetcore/internal/dagload"
	"github.com/fidgetcore/fidgetcore/internal/eval"
	"github.com/fidgetcore/fidgetcore/internal/grid"
	"github.com/fidgetcore/fidgetcore/internal/interval"
	"github.com/fidgetcore/fidgetcore/internal/subtape"
	"github.com/fidgetcore/fidgetcore/internal/tape"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		iv   interval.I
		want grid.Status
	}{
		{interval.I{Lo: -2, Hi: -1}, grid.Filled},
		{interval.I{Lo: 1, Hi: 2}, grid.Empty},
		{interval.I{Lo: -1, Hi: 1}, grid.Ambiguous},
	}
	for _, c := range cases {
		if got := eval.Classify(c.iv); got != c.want {
			t.Fatalf("Classify(%v) = %v, want %v", c.iv, got, c.want)
		}
	}
}

func TestUnitCircleClassification(t *testing.T) {
	root := dagload.Circle(0, 0, 1)
	nodes, rootNode := dagload.Topo(root)
	c := tape.NewCompiler()
	tp, err := c.Compile(nodes, rootNode)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	p := eval.FromTape(tp)

	// Far outside the unit circle: provably Empty.
	ir := eval.EvaluateInterval(p, interval.Point(10), interval.Point(10), interval.Point(0))
	if got := eval.Classify(ir.Root); got != grid.Empty {
		t.Fatalf("far tile classified %v, want Empty", got)
	}

	// Straddling the boundary: Ambiguous.
	ir = eval.EvaluateInterval(p, interval.I{Lo: 0.5, Hi: 1.5}, interval.Point(0), interval.Point(0))
	if got := eval.Classify(ir.Root); got != grid.Ambiguous {
		t.Fatalf("boundary tile classified %v, want Ambiguous", got)
	}

	// Small tile near the origin, well inside: Filled.
	ir = eval.EvaluateInterval(p, interval.I{Lo: -0.1, Hi: 0.1}, interval.I{Lo: -0.1, Hi: 0.1}, interval.Point(0))
	if got := eval.Classify(ir.Root); got != grid.Filled {
		t.Fatalf("interior tile classified %v, want Filled", got)
	}
}

func TestConstantFoldedTapeClassifiesEmpty(t *testing.T) {
	// Scenario 4: f = (x*0)+1 classifies Empty everywhere at stage 0,
	// not through compile-time constant folding (x is a variable, so
	// the compiler's fold pass never touches this node - see
	// tape.Compiler's prepass) but through interval arithmetic
	// collapsing x*0 to the point interval [0,0] regardless of x's
	// bounds.
	root := dagload.Add(dagload.Mul(dagload.X(), dagload.Const(0)), dagload.Const(1))
	nodes, rootNode := dagload.Topo(root)
	c := tape.NewCompiler()
	tp, err := c.Compile(nodes, rootNode)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	p := eval.FromTape(tp)

	wideX := interval.I{Lo: -1e6, Hi: 1e6}
	ir := eval.EvaluateInterval(p, wideX, interval.Point(0), interval.Point(0))
	if got := eval.Classify(ir.Root); got != grid.Empty {
		t.Fatalf("constant-folded tape classified %v, want Empty", got)
	}
	if len(ir.Choices) != 0 {
		t.Fatalf("expected no MIN/MAX choices for this tape, got %d", len(ir.Choices))
	}
}

func TestSpecializeUnambiguousMinProducesTerminalSubtape(t *testing.T) {
	// A union of two circles where the tile lies entirely inside the
	// left circle and far from the right one: MIN should resolve
	// unambiguously to the left branch, producing a terminal subtape.
	left := dagload.Circle(-5, 0, 1)
	right := dagload.Circle(5, 0, 1)
	root := dagload.Union(left, right)
	nodes, rootNode := dagload.Topo(root)
	c := tape.NewCompiler()
	tp, err := c.Compile(nodes, rootNode)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	p := eval.FromTape(tp)

	// This tile straddles the left circle's own boundary (so the root
	// classification is Ambiguous and specialization actually runs),
	// but stays far enough from the right circle that MIN still picks
	// the left branch unambiguously.
	pool := subtape.NewPool(64)
	bx := interval.I{Lo: -4.3, Hi: -4.0}
	by := interval.I{Lo: -0.1, Hi: 0.1}
	bz := interval.Point(0)
	res, err := eval.EvaluateTile(pool, p, bx, by, bz)
	if err != nil {
		t.Fatalf("EvaluateTile: %v", err)
	}
	if res.Status != grid.Ambiguous {
		t.Fatalf("status = %v, want Ambiguous", res.Status)
	}
	if !res.Terminal {
		t.Fatalf("expected a terminal subtape when MIN resolves unambiguously")
	}
	if err := subtape.ChainIntegrity(pool, res.Subtape); err != nil {
		t.Fatalf("chain integrity: %v", err)
	}
}

func TestSpecializeAmbiguousMinKeepsNonTerminal(t *testing.T) {
	// A tile straddling both circles' boundaries near their midpoint
	// keeps MIN ambiguous, so the resulting subtape must not be
	// terminal.
	left := dagload.Circle(-0.5, 0, 0.6)
	right := dagload.Circle(0.5, 0, 0.6)
	root := dagload.Union(left, right)
	nodes, rootNode := dagload.Topo(root)
	c := tape.NewCompiler()
	tp, err := c.Compile(nodes, rootNode)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	p := eval.FromTape(tp)

	pool := subtape.NewPool(64)
	bx := interval.I{Lo: -0.2, Hi: 0.2}
	by := interval.I{Lo: -0.2, Hi: 0.2}
	bz := interval.Point(0)
	res, err := eval.EvaluateTile(pool, p, bx, by, bz)
	if err != nil {
		t.Fatalf("EvaluateTile: %v", err)
	}
	if res.Status != grid.Ambiguous {
		t.Fatalf("status = %v, want Ambiguous", res.Status)
	}
	if res.Terminal {
		t.Fatalf("expected a non-terminal subtape when MIN stays ambiguous")
	}
}

// TestSpecializationEquivalence is property P2: evaluating the parent
// tape and the produced subtape at the same point must agree exactly.
func TestSpecializationEquivalence(t *testing.T) {
	left := dagload.Circle(-5, 0, 1)
	right := dagload.Circle(5, 0, 1)
	root := dagload.Union(left, right)
	nodes, rootNode := dagload.Topo(root)
	c := tape.NewCompiler()
	tp, err := c.Compile(nodes, rootNode)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	p := eval.FromTape(tp)

	pool := subtape.NewPool(64)
	bx := interval.I{Lo: -4.3, Hi: -4.0}
	by := interval.I{Lo: -0.1, Hi: 0.1}
	bz := interval.Point(0)
	res, err := eval.EvaluateTile(pool, p, bx, by, bz)
	if err != nil {
		t.Fatalf("EvaluateTile: %v", err)
	}
	sub := eval.FromSubtape(pool, res.Subtape, p)

	for _, pt := range [][2]float64{{-4.2, 0}, {-4.05, 0.02}, {-4.25, -0.01}} {
		want := eval.EvaluateFloat(p, pt[0], pt[1], 0)
		got := eval.EvaluateFloat(sub, pt[0], pt[1], 0)
		if want != got {
			t.Fatalf("at (%v,%v): parent=%v subtape=%v, want bitwise equal", pt[0], pt[1], want, got)
		}
	}
}

func TestEvaluateDerivNormalPointsOutwardOnSphere(t *testing.T) {
	root := dagload.Sphere(0, 0, 0, 1)
	nodes, rootNode := dagload.Topo(root)
	c := tape.NewCompiler()
	tp, err := c.Compile(nodes, rootNode)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	p := eval.FromTape(tp)

	d := eval.EvaluateDeriv(p, 1, 0, 0)
	nx, ny, nz := d.Normal()
	if math.Abs(nx-1) > 1e-9 || math.Abs(ny) > 1e-9 || math.Abs(nz) > 1e-9 {
		t.Fatalf("normal at (1,0,0) on unit sphere = (%v,%v,%v), want (1,0,0)", nx, ny, nz)
	}
}

func TestEvaluateFloatPack2MatchesScalar(t *testing.T) {
	root := dagload.Sphere(0, 0, 0, 1)
	nodes, rootNode := dagload.Topo(root)
	c := tape.NewCompiler()
	tp, err := c.Compile(nodes, rootNode)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	p := eval.FromTape(tp)

	a, b := eval.EvaluateFloatPack2(p, 0.2, 0, 0, 0.9, 0, 0)
	wantA := eval.EvaluateFloat(p, 0.2, 0, 0)
	wantB := eval.EvaluateFloat(p, 0.9, 0, 0)
	if a != wantA || b != wantB {
		t.Fatalf("pack2 = (%v,%v), want (%v,%v)", a, b, wantA, wantB)
	}
}

func TestPoolExhaustionDuringSpecializeReturnsError(t *testing.T) {
	left := dagload.Circle(-0.5, 0, 0.6)
	right := dagload.Circle(0.5, 0, 0.6)
	root := dagload.Union(left, right)
	nodes, rootNode := dagload.Topo(root)
	c := tape.NewCompiler()
	tp, err := c.Compile(nodes, rootNode)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	p := eval.FromTape(tp)

	pool := subtape.NewPool(0)
	bx := interval.I{Lo: -0.2, Hi: 0.2}
	by := interval.I{Lo: -0.2, Hi: 0.2}
	bz := interval.Point(0)
	_, err = eval.EvaluateTile(pool, p, bx, by, bz)
	if err == nil {
		t.Fatalf("expected pool exhaustion error with a zero-capacity pool")
	}
}
