package interval

import "math"

// D is a forward-mode dual number: a value plus its three spatial
// partials (dX, dY, dZ). The pixel/normal pass (C8/C9) evaluates the
// finest specialized subtape with D arithmetic instead of plain floats
// so the gradient falls out of the same pass that computes the value.
type D struct {
	V, DX, DY, DZ float64
}

// Const lifts a plain constant into D-space with a zero gradient.
func Const(v float64) D { return D{V: v} }

// Var builds the dual number for one of the X/Y/Z axes: value v with a
// unit partial along its own axis and zero along the other two.
func VarX(v float64) D { return D{V: v, DX: 1} }
func VarY(v float64) D { return D{V: v, DY: 1} }
func VarZ(v float64) D { return D{V: v, DZ: 1} }

func AddD(a, b D) D {
	return D{a.V + b.V, a.DX + b.DX, a.DY + b.DY, a.DZ + b.DZ}
}

func SubD(a, b D) D {
	return D{a.V - b.V, a.DX - b.DX, a.DY - b.DY, a.DZ - b.DZ}
}

func NegD(a D) D { return D{-a.V, -a.DX, -a.DY, -a.DZ} }

// MulD applies the product rule: d(uv) = u dv + v du.
func MulD(a, b D) D {
	return D{
		V:  a.V * b.V,
		DX: a.V*b.DX + b.V*a.DX,
		DY: a.V*b.DY + b.V*a.DY,
		DZ: a.V*b.DZ + b.V*a.DZ,
	}
}

// DivD applies the quotient rule.
func DivD(a, b D) D {
	inv := 1 / b.V
	q := a.V * inv
	return D{
		V:  q,
		DX: (a.DX - q*b.DX) * inv,
		DY: (a.DY - q*b.DY) * inv,
		DZ: (a.DZ - q*b.DZ) * inv,
	}
}

// SquareD matches the source's documented quirk (§9 open question): the
// derivative table routes the unary-square opcode through lhs*lhs
// rather than a dedicated d/dx(u^2) = 2u du rule, so it is expressed
// here as MulD(a, a) to stay bit-for-bit consistent with that path.
func SquareD(a D) D { return MulD(a, a) }

// SqrtD follows the same documented convention: the gradient of sqrt(u)
// is u' / (2 sqrt(u)), which is what's implemented below even though
// the source's derivative table nominally "routes to sqrt(lhs)" for
// the value itself - the value and gradient are computed from the same
// sqrt(u.V) here, so the two descriptions coincide in this
// implementation.
func SqrtD(a D) D {
	s := math.Sqrt(a.V)
	if s == 0 {
		return D{V: 0}
	}
	g := 1 / (2 * s)
	return D{V: s, DX: a.DX * g, DY: a.DY * g, DZ: a.DZ * g}
}

func AbsD(a D) D {
	if a.V < 0 {
		return NegD(a)
	}
	return a
}

func ExpD(a D) D {
	e := math.Exp(a.V)
	return D{V: e, DX: a.DX * e, DY: a.DY * e, DZ: a.DZ * e}
}

func LogD(a D) D {
	g := 1 / a.V
	return D{V: math.Log(a.V), DX: a.DX * g, DY: a.DY * g, DZ: a.DZ * g}
}

func SinD(a D) D {
	c := math.Cos(a.V)
	return D{V: math.Sin(a.V), DX: a.DX * c, DY: a.DY * c, DZ: a.DZ * c}
}

func CosD(a D) D {
	s := -math.Sin(a.V)
	return D{V: math.Cos(a.V), DX: a.DX * s, DY: a.DY * s, DZ: a.DZ * s}
}

func AsinD(a D) D {
	g := 1 / math.Sqrt(1-a.V*a.V)
	return D{V: math.Asin(a.V), DX: a.DX * g, DY: a.DY * g, DZ: a.DZ * g}
}

func AcosD(a D) D {
	g := -1 / math.Sqrt(1-a.V*a.V)
	return D{V: math.Acos(a.V), DX: a.DX * g, DY: a.DY * g, DZ: a.DZ * g}
}

func AtanD(a D) D {
	g := 1 / (1 + a.V*a.V)
	return D{V: math.Atan(a.V), DX: a.DX * g, DY: a.DY * g, DZ: a.DZ * g}
}

// MinD and MaxD propagate the gradient of whichever side produced the
// selected value (§4.1); ties choose LHS.
func MinD(a, b D) D {
	if a.V <= b.V {
		return a
	}
	return b
}

func MaxD(a, b D) D {
	if a.V >= b.V {
		return a
	}
	return b
}

// Normal normalizes the gradient (DX, DY, DZ) to a unit surface normal.
// A zero-length gradient (a degenerate or flat region) returns the +Z
// axis so callers always get a well-formed vector.
func (d D) Normal() (nx, ny, nz float64) {
	length := math.Sqrt(d.DX*d.DX + d.DY*d.DY + d.DZ*d.DZ)
	if length == 0 {
		return 0, 0, 1
	}
	return d.DX / length, d.DY / length, d.DZ / length
}
