package dagload

import "github.com/fidgetcore/fidgetcore/internal/tape"

// X, Y and Z are the three axis terminals (spec §3 "Axis terminal").
func X() *exprNode { return &exprNode{op: tape.SrcVarX} }
func Y() *exprNode { return &exprNode{op: tape.SrcVarY} }
func Z() *exprNode { return &exprNode{op: tape.SrcVarZ} }

// Const builds a literal constant node.
func Const(v float64) *exprNode { return &exprNode{op: tape.SrcConst, val: v} }

func binary(op tape.SourceOpcode, a, b *exprNode) *exprNode { return &exprNode{op: op, lhs: a, rhs: b} }
func unary(op tape.SourceOpcode, a *exprNode) *exprNode     { return &exprNode{op: op, lhs: a} }

func Add(a, b *exprNode) *exprNode { return binary(tape.SrcAdd, a, b) }
func Sub(a, b *exprNode) *exprNode { return binary(tape.SrcSub, a, b) }
func Mul(a, b *exprNode) *exprNode { return binary(tape.SrcMul, a, b) }
func Div(a, b *exprNode) *exprNode { return binary(tape.SrcDiv, a, b) }
func Min(a, b *exprNode) *exprNode { return binary(tape.SrcMin, a, b) }
func Max(a, b *exprNode) *exprNode { return binary(tape.SrcMax, a, b) }

func Neg(a *exprNode) *exprNode    { return unary(tape.SrcNeg, a) }
func Sqrt(a *exprNode) *exprNode   { return unary(tape.SrcSqrt, a) }
func Square(a *exprNode) *exprNode { return unary(tape.SrcSquare, a) }
func Sin(a *exprNode) *exprNode    { return unary(tape.SrcSin, a) }
func Cos(a *exprNode) *exprNode    { return unary(tape.SrcCos, a) }
func Asin(a *exprNode) *exprNode   { return unary(tape.SrcAsin, a) }
func Acos(a *exprNode) *exprNode   { return unary(tape.SrcAcos, a) }
func Atan(a *exprNode) *exprNode   { return unary(tape.SrcAtan, a) }
func Exp(a *exprNode) *exprNode    { return unary(tape.SrcExp, a) }
func Abs(a *exprNode) *exprNode    { return unary(tape.SrcAbs, a) }
func Log(a *exprNode) *exprNode    { return unary(tape.SrcLog, a) }

// Sphere builds the signed-distance expression for a sphere centered
// at (cx, cy, cz) with radius r: sqrt((x-cx)^2+(y-cy)^2+(z-cz)^2) - r.
func Sphere(cx, cy, cz, r float64) *exprNode {
	dx := Sub(X(), Const(cx))
	dy := Sub(Y(), Const(cy))
	dz := Sub(Z(), Const(cz))
	sum := Add(Add(Square(dx), Square(dy)), Square(dz))
	return Sub(Sqrt(sum), Const(r))
}

// Circle builds the 2D analogue of Sphere, ignoring Z.
func Circle(cx, cy, r float64) *exprNode {
	dx := Sub(X(), Const(cx))
	dy := Sub(Y(), Const(cy))
	sum := Add(Square(dx), Square(dy))
	return Sub(Sqrt(sum), Const(r))
}

// Box builds an axis-aligned box's signed-distance expression with
// half-extents (hx, hy, hz) centered at the origin, via the
// max-of-abs-minus-extent construction common to f-rep CSG.
func Box(hx, hy, hz float64) *exprNode {
	qx := Sub(Abs(X()), Const(hx))
	qy := Sub(Abs(Y()), Const(hy))
	qz := Sub(Abs(Z()), Const(hz))
	return Max(qx, Max(qy, qz))
}

// Union, Intersect and Difference compose two implicit surfaces via
// the standard min/max CSG identities (spec §8 scenario 2: "two-circle
// union" is Min of two Circle expressions).
func Union(a, b *exprNode) *exprNode      { return Min(a, b) }
func Intersect(a, b *exprNode) *exprNode  { return Max(a, b) }
func Difference(a, b *exprNode) *exprNode { return Max(a, Neg(b)) }

// Topo walks the DAG rooted at root and returns it in the topological
// order tape.Compiler.Compile requires (every node's operands precede
// it), deduplicating any subexpression shared by more than one parent
// so it is visited - and given a register slot - only once.
func Topo(root *exprNode) (nodes []tape.Node, rootNode tape.Node) {
	visited := make(map[*exprNode]bool)
	var out []tape.Node
	var visit func(n *exprNode)
	visit = func(n *exprNode) {
		if n == nil || visited[n] {
			return
		}
		visited[n] = true
		visit(n.lhs)
		visit(n.rhs)
		out = append(out, n)
	}
	visit(root)
	return out, root
}
