package tape

import "testing"

// testNode is a minimal Node implementation used only to exercise the
// compiler without depending on internal/dagload.
type testNode struct {
	op       SourceOpcode
	constVal float64
	lhs, rhs Node
}

func (n *testNode) SourceOp() SourceOpcode  { return n.op }
func (n *testNode) ConstValue() float64     { return n.constVal }
func (n *testNode) Operands() (Node, Node)  { return n.lhs, n.rhs }

func constNode(v float64) *testNode { return &testNode{op: SrcConst, constVal: v} }
func varNode(axis SourceOpcode) *testNode { return &testNode{op: axis} }
func unaryNode(op SourceOpcode, lhs Node) *testNode { return &testNode{op: op, lhs: lhs} }
func binaryNode(op SourceOpcode, lhs, rhs Node) *testNode { return &testNode{op: op, lhs: lhs, rhs: rhs} }

// topo returns nodes in a valid topological order ending with root.
func topo(nodes ...Node) []Node { return nodes }

func TestCompileUnitCircle(t *testing.T) {
	x := varNode(SrcVarX)
	y := varNode(SrcVarY)
	xx := unaryNode(SrcSquare, x)
	yy := unaryNode(SrcSquare, y)
	sum := binaryNode(SrcAdd, xx, yy)
	sq := unaryNode(SrcSqrt, sum)
	one := constNode(1)
	root := binaryNode(SrcSub, sq, one)

	nodes := topo(x, y, xx, yy, sum, sq, one, root)
	c := NewCompiler()
	tp, err := c.Compile(nodes, root)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if tp.AxisSlot[AxisX] == AxisUnused || tp.AxisSlot[AxisY] == AxisUnused {
		t.Fatalf("expected X and Y axes bound, got %v", tp.AxisSlot)
	}
	if tp.AxisSlot[AxisZ] != AxisUnused {
		t.Fatalf("expected Z axis unbound for a 2D expression, got %v", tp.AxisSlot[AxisZ])
	}
	if len(tp.Clauses) == 0 || tp.Clauses[len(tp.Clauses)-1].Op != OpEnd {
		t.Fatalf("expected tape to terminate with OpEnd, got %+v", tp.Clauses)
	}
	if tp.Clauses[len(tp.Clauses)-1].Out != tp.RootSlot {
		t.Fatalf("terminating clause out slot %d != RootSlot %d", tp.Clauses[len(tp.Clauses)-1].Out, tp.RootSlot)
	}
}

func TestCompileConstantFoldedTape(t *testing.T) {
	// f = (2*3) + x - a purely literal subexpression should fold to a
	// single constant and emit no MUL clause; the (x*0)+1 scenario from
	// spec §8 scenario 4 is a *runtime* interval collapse (Mul by a
	// zero-width zero interval), not a compile-time fold, and is
	// covered in the eval package instead.
	two := constNode(2)
	three := constNode(3)
	product := binaryNode(SrcMul, two, three)
	x := varNode(SrcVarX)
	root := binaryNode(SrcAdd, product, x)

	nodes := topo(two, three, product, x, root)
	c := NewCompiler()
	tp, err := c.Compile(nodes, root)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	stats := c.Stats()
	if stats.ConstantsFolded != 1 {
		t.Fatalf("expected exactly one folded constant (2*3), stats=%+v", stats)
	}
	foundSix := false
	for _, v := range tp.Constants {
		if v == 6 {
			foundSix = true
		}
	}
	if !foundSix {
		t.Fatalf("expected folded constant 6 in constant table, got %v", tp.Constants)
	}
	for _, cl := range tp.Clauses {
		if cl.Op == OpMul {
			t.Fatalf("expected no MUL clause after constant folding, got %+v", tp.Clauses)
		}
	}
}

func TestCompileDeepChainNeverAllocatesSlotZero(t *testing.T) {
	// A chain of ten SQUARE clauses over X: slot 0 is the reserved
	// sentinel, so no clause other than the terminating OpEnd may name
	// it as its output.
	x := varNode(SrcVarX)
	nodes := []Node{x}
	cur := Node(x)
	for i := 0; i < 10; i++ {
		n := unaryNode(SrcSquare, cur)
		nodes = append(nodes, n)
		cur = n
	}
	c := NewCompiler()
	tp, err := c.Compile(nodes, cur)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	for _, cl := range tp.Clauses {
		if cl.Out == 0 && cl.Op != OpEnd {
			t.Fatalf("slot 0 must never be allocated as an output slot: %+v", cl)
		}
	}
}

func TestCompileUnsupportedOpcode(t *testing.T) {
	x := varNode(SrcVarX)
	root := unaryNode(SrcTan, x)
	c := NewCompiler()
	_, err := c.Compile([]Node{x, root}, root)
	if err == nil {
		t.Fatalf("expected ErrUnsupportedOpcode for TAN")
	}
	ce, ok := err.(*CompileError)
	if !ok || ce.Kind != ErrUnsupportedOpcode {
		t.Fatalf("expected CompileError{ErrUnsupportedOpcode}, got %v", err)
	}
}

func TestCompileSlotReuse(t *testing.T) {
	// A chain where each intermediate is dead immediately after use
	// should alternate between slots 2 and 3 (slot 1 holds X) rather
	// than growing unboundedly.
	x := varNode(SrcVarX)
	var cur Node = x
	nodes := []Node{x}
	for i := 0; i < 50; i++ {
		n := unaryNode(SrcSquare, cur)
		nodes = append(nodes, n)
		cur = n
	}
	c := NewCompiler()
	tp, err := c.Compile(nodes, cur)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if tp.NumSlots > 4 {
		t.Fatalf("expected slot reuse to keep NumSlots small, got %d", tp.NumSlots)
	}
}
