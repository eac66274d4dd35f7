package eval

import (
	"math"

	"github.com/fidgetcore/fidgetcore/internal/interval"
	"github.com/fidgetcore/fidgetcore/internal/tape"
)

// EvaluateFloat runs p's clauses forward with plain scalar float64
// arithmetic, binding the axis registers to x, y, z (C8, spec §4.6
// step 3).
func EvaluateFloat(p Program, x, y, z float64) float64 {
	regs := make([]float64, p.NumSlots)
	if p.AxisSlot[0] != 0 {
		regs[p.AxisSlot[0]] = x
	}
	if p.AxisSlot[1] != 0 {
		regs[p.AxisSlot[1]] = y
	}
	if p.AxisSlot[2] != 0 {
		regs[p.AxisSlot[2]] = z
	}

	operand := func(mode tape.OperandMode, v uint16) float64 {
		if mode == tape.ModeConst {
			return p.Constants[v]
		}
		return regs[v]
	}

	for _, cl := range p.Clauses {
		if cl.Op == tape.OpEnd {
			break
		}
		switch {
		case cl.Op == tape.OpCopyImm:
			regs[cl.Out] = p.Constants[cl.Lhs]
		case cl.Op == tape.OpCopyLHS:
			regs[cl.Out] = operand(cl.LhsMode, cl.Lhs)
		case cl.Op == tape.OpCopyRHS:
			regs[cl.Out] = operand(cl.RhsMode, cl.Rhs)
		case cl.Op.IsUnary():
			regs[cl.Out] = evalUnaryFloat(cl.Op, operand(cl.LhsMode, cl.Lhs))
		case cl.Op.IsBinary():
			regs[cl.Out] = evalBinaryFloat(cl.Op, operand(cl.LhsMode, cl.Lhs), operand(cl.RhsMode, cl.Rhs))
		}
	}
	return regs[p.RootSlot]
}

func evalUnaryFloat(op tape.Opcode, v float64) float64 {
	switch op {
	case tape.OpSquare:
		return v * v
	case tape.OpSqrt:
		return math.Sqrt(v)
	case tape.OpNeg:
		return -v
	case tape.OpSin:
		return math.Sin(v)
	case tape.OpCos:
		return math.Cos(v)
	case tape.OpAsin:
		return math.Asin(v)
	case tape.OpAcos:
		return math.Acos(v)
	case tape.OpAtan:
		return math.Atan(v)
	case tape.OpExp:
		return math.Exp(v)
	case tape.OpAbs:
		return math.Abs(v)
	case tape.OpLog:
		return math.Log(v)
	}
	return v
}

func evalBinaryFloat(op tape.Opcode, a, b float64) float64 {
	switch op {
	case tape.OpAdd:
		return a + b
	case tape.OpMul:
		return a * b
	case tape.OpMin:
		return math.Min(a, b)
	case tape.OpMax:
		return math.Max(a, b)
	case tape.OpSub:
		return a - b
	case tape.OpDiv:
		return a / b
	}
	return a
}

// EvaluateFloatPack2 is the two-lane packed analogue of EvaluateFloat,
// amortizing per-clause dispatch across two adjacent voxels in the
// pre-normal pass (spec §4.1, §4.6 step 3 "scalar or two-voxel
// packed").
func EvaluateFloatPack2(p Program, xa, ya, za, xb, yb, zb float64) (a, b float64) {
	regs := make([]interval.Pack2, p.NumSlots)
	if p.AxisSlot[0] != 0 {
		regs[p.AxisSlot[0]] = interval.Pack2{A: xa, B: xb}
	}
	if p.AxisSlot[1] != 0 {
		regs[p.AxisSlot[1]] = interval.Pack2{A: ya, B: yb}
	}
	if p.AxisSlot[2] != 0 {
		regs[p.AxisSlot[2]] = interval.Pack2{A: za, B: zb}
	}

	operand := func(mode tape.OperandMode, v uint16) interval.Pack2 {
		if mode == tape.ModeConst {
			return interval.ConstPack2(p.Constants[v])
		}
		return regs[v]
	}

	for _, cl := range p.Clauses {
		if cl.Op == tape.OpEnd {
			break
		}
		switch {
		case cl.Op == tape.OpCopyImm:
			regs[cl.Out] = interval.ConstPack2(p.Constants[cl.Lhs])
		case cl.Op == tape.OpCopyLHS:
			regs[cl.Out] = operand(cl.LhsMode, cl.Lhs)
		case cl.Op == tape.OpCopyRHS:
			regs[cl.Out] = operand(cl.RhsMode, cl.Rhs)
		case cl.Op.IsUnary():
			regs[cl.Out] = evalUnaryPack2(cl.Op, operand(cl.LhsMode, cl.Lhs))
		case cl.Op.IsBinary():
			regs[cl.Out] = evalBinaryPack2(cl.Op, operand(cl.LhsMode, cl.Lhs), operand(cl.RhsMode, cl.Rhs))
		}
	}
	r := regs[p.RootSlot]
	return r.A, r.B
}

func evalUnaryPack2(op tape.Opcode, v interval.Pack2) interval.Pack2 {
	switch op {
	case tape.OpSquare:
		return interval.SquarePack2(v)
	case tape.OpSqrt:
		return interval.SqrtPack2(v)
	case tape.OpNeg:
		return interval.NegPack2(v)
	case tape.OpSin:
		return interval.SinPack2(v)
	case tape.OpCos:
		return interval.CosPack2(v)
	case tape.OpAsin:
		return interval.AsinPack2(v)
	case tape.OpAcos:
		return interval.AcosPack2(v)
	case tape.OpAtan:
		return interval.AtanPack2(v)
	case tape.OpExp:
		return interval.ExpPack2(v)
	case tape.OpAbs:
		return interval.AbsPack2(v)
	case tape.OpLog:
		return interval.LogPack2(v)
	}
	return v
}

func evalBinaryPack2(op tape.Opcode, a, b interval.Pack2) interval.Pack2 {
	switch op {
	case tape.OpAdd:
		return interval.AddPack2(a, b)
	case tape.OpMul:
		return interval.MulPack2(a, b)
	case tape.OpMin:
		return interval.MinPack2(a, b)
	case tape.OpMax:
		return interval.MaxPack2(a, b)
	case tape.OpSub:
		return interval.SubPack2(a, b)
	case tape.OpDiv:
		return interval.DivPack2(a, b)
	}
	return a
}
