// Package interval implements the arithmetic kernels the tile evaluator
// pushes a tape through: closed-interval arithmetic for classification
// (C1, §4.1) and, in deriv.go and pack2.go, the forward-mode derivative
// and two-lane packed variants used by the pixel and normal passes.
package interval

import "math"

// I is a closed interval [Lo, Hi] with Lo <= Hi. A degenerate interval
// (Lo == Hi) represents a point value.
type I struct {
	Lo, Hi float64
}

// Choice records which operand of a MIN/MAX dominated the result, per
// §4.1: 0 means ambiguous (both sides must be kept), 1 means LHS alone
// determines the result, 2 means RHS alone does.
type Choice uint8

const (
	ChoiceBoth Choice = 0
	ChoiceLHS  Choice = 1
	ChoiceRHS  Choice = 2
)

// Point returns the degenerate interval for a single value.
func Point(v float64) I { return I{v, v} }

// Contains reports whether v lies within the interval (inclusive).
func (a I) Contains(v float64) bool { return v >= a.Lo && v <= a.Hi }

func Add(a, b I) I { return I{a.Lo + b.Lo, a.Hi + b.Hi} }

func Sub(a, b I) I { return I{a.Lo - b.Hi, a.Hi - b.Lo} }

func Neg(a I) I { return I{-a.Hi, -a.Lo} }

// Mul honours inclusion monotonicity by taking the min/max of all four
// corner products, as Mul admits sign changes in either operand.
func Mul(a, b I) I {
	p1, p2, p3, p4 := a.Lo*b.Lo, a.Lo*b.Hi, a.Hi*b.Lo, a.Hi*b.Hi
	return I{
		Lo: math.Min(math.Min(p1, p2), math.Min(p3, p4)),
		Hi: math.Max(math.Max(p1, p2), math.Max(p3, p4)),
	}
}

// Div implements §4.1: when the denominator interval straddles zero the
// true range is unbounded on at least one side, so the widest sound
// interval (-Inf, +Inf) is returned rather than a value computed from a
// division that is only valid away from the singularity.
func Div(a, b I) I {
	if b.Lo <= 0 && b.Hi >= 0 {
		return I{math.Inf(-1), math.Inf(1)}
	}
	q1, q2, q3, q4 := a.Lo/b.Lo, a.Lo/b.Hi, a.Hi/b.Lo, a.Hi/b.Hi
	return I{
		Lo: math.Min(math.Min(q1, q2), math.Min(q3, q4)),
		Hi: math.Max(math.Max(q1, q2), math.Max(q3, q4)),
	}
}

// Square returns the interval of x*x; unlike Mul(a, a) this only needs
// to consider the two endpoints plus zero since x*x is monotone on each
// side of the origin.
func Square(a I) I {
	if a.Lo >= 0 {
		return I{a.Lo * a.Lo, a.Hi * a.Hi}
	}
	if a.Hi <= 0 {
		return I{a.Hi * a.Hi, a.Lo * a.Lo}
	}
	hi := math.Max(a.Lo*a.Lo, a.Hi*a.Hi)
	return I{0, hi}
}

// Sqrt is sound only for domains that admit negative lower bounds by
// clamping to zero first; the tree builder is responsible for not
// feeding provably-negative operands into SQRT (the original program
// treats this the same way).
func Sqrt(a I) I {
	lo := a.Lo
	if lo < 0 {
		lo = 0
	}
	hi := a.Hi
	if hi < 0 {
		hi = 0
	}
	return I{math.Sqrt(lo), math.Sqrt(hi)}
}

func Abs(a I) I {
	if a.Lo >= 0 {
		return a
	}
	if a.Hi <= 0 {
		return Neg(a)
	}
	return I{0, math.Max(-a.Lo, a.Hi)}
}

// Min returns the interval result of min(a, b) plus the choice code:
// LHS is unambiguous when a's upper bound is strictly below b's lower
// bound, RHS symmetrically, otherwise both branches remain live.
func Min(a, b I) (I, Choice) {
	if a.Hi < b.Lo {
		return a, ChoiceLHS
	}
	if b.Hi < a.Lo {
		return b, ChoiceRHS
	}
	return I{math.Min(a.Lo, b.Lo), math.Min(a.Hi, b.Hi)}, ChoiceBoth
}

// Max is the dual of Min.
func Max(a, b I) (I, Choice) {
	if a.Lo > b.Hi {
		return a, ChoiceLHS
	}
	if b.Lo > a.Hi {
		return b, ChoiceRHS
	}
	return I{math.Max(a.Lo, b.Lo), math.Max(a.Hi, b.Hi)}, ChoiceBoth
}

// monotone unary helper for functions that are non-decreasing over the
// whole real line (ASIN/ATAN restricted to their domains, EXP).
func monotoneInc(a I, f func(float64) float64) I {
	return I{f(a.Lo), f(a.Hi)}
}

func Exp(a I) I { return monotoneInc(a, math.Exp) }

// Log requires a positive domain; as with Sqrt, negative lower bounds
// are clamped rather than propagated as NaN so a provably-negative
// sub-interval still yields a sound (if wide) bound.
func Log(a I) I {
	lo := a.Lo
	if lo <= 0 {
		lo = math.SmallestNonzeroFloat64
	}
	hi := a.Hi
	if hi <= 0 {
		hi = math.SmallestNonzeroFloat64
	}
	return monotoneInc(I{lo, hi}, math.Log)
}

// Atan is monotone increasing over all of R.
func Atan(a I) I { return monotoneInc(a, math.Atan) }

// Sin and Cos are not monotone in general; soundly bound them from the
// endpoint values widened to 1 or -1 whenever a maximum or minimum
// residue (k*2*math.Pi plus the function's phase) actually falls inside
// [a.Lo, a.Hi] - a flat span threshold against the raw endpoints is not
// enough, since two endpoints straddling an extremum can independently
// evaluate to the same, non-extremal value (e.g. sin at pi/2 +/- 0.1).
func Sin(a I) I { return trig(a, math.Sin, math.Pi/2, -math.Pi/2) }
func Cos(a I) I { return trig(a, math.Cos, 0, math.Pi) }

func trig(a I, f func(float64) float64, maxPhase, minPhase float64) I {
	lo, hi := f(a.Lo), f(a.Hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	if hasResidue(a, maxPhase) {
		hi = 1
	}
	if hasResidue(a, minPhase) {
		lo = -1
	}
	return I{lo, hi}
}

// hasResidue reports whether some x = phase + k*2*math.Pi, k in Z, lies
// within [a.Lo, a.Hi].
func hasResidue(a I, phase float64) bool {
	const period = 2 * math.Pi
	if a.Hi-a.Lo >= period {
		return true
	}
	k := math.Ceil((a.Lo - phase) / period)
	x := phase + k*period
	return x <= a.Hi
}

// Asin/Acos are only defined on [-1, 1]; clamp inputs into range before
// evaluating so a provably out-of-domain sub-interval still returns a
// sound, merely imprecise, bound instead of NaN.
func Asin(a I) I { return monotoneInc(clamp11(a), math.Asin) }

func Acos(a I) I {
	c := clamp11(a)
	// acos is monotone decreasing.
	return I{math.Acos(c.Hi), math.Acos(c.Lo)}
}

func clamp11(a I) I {
	lo, hi := a.Lo, a.Hi
	if lo < -1 {
		lo = -1
	}
	if hi > 1 {
		hi = 1
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return I{lo, hi}
}
