package eval

import (
	"github.com/fidgetcore/fidgetcore/internal/interval"
	"github.com/fidgetcore/fidgetcore/internal/tape"
)

// EvaluateDeriv runs p's clauses forward with forward-mode dual-number
// arithmetic, producing the value and its gradient in one pass (C9,
// spec §4.7).
func EvaluateDeriv(p Program, x, y, z float64) interval.D {
	regs := make([]interval.D, p.NumSlots)
	if p.AxisSlot[0] != 0 {
		regs[p.AxisSlot[0]] = interval.VarX(x)
	}
	if p.AxisSlot[1] != 0 {
		regs[p.AxisSlot[1]] = interval.VarY(y)
	}
	if p.AxisSlot[2] != 0 {
		regs[p.AxisSlot[2]] = interval.VarZ(z)
	}

	operand := func(mode tape.OperandMode, v uint16) interval.D {
		if mode == tape.ModeConst {
			return interval.Const(p.Constants[v])
		}
		return regs[v]
	}

	for _, cl := range p.Clauses {
		if cl.Op == tape.OpEnd {
			break
		}
		switch {
		case cl.Op == tape.OpCopyImm:
			regs[cl.Out] = interval.Const(p.Constants[cl.Lhs])
		case cl.Op == tape.OpCopyLHS:
			regs[cl.Out] = operand(cl.LhsMode, cl.Lhs)
		case cl.Op == tape.OpCopyRHS:
			regs[cl.Out] = operand(cl.RhsMode, cl.Rhs)
		case cl.Op.IsUnary():
			regs[cl.Out] = evalUnaryDeriv(cl.Op, operand(cl.LhsMode, cl.Lhs))
		case cl.Op.IsBinary():
			regs[cl.Out] = evalBinaryDeriv(cl.Op, operand(cl.LhsMode, cl.Lhs), operand(cl.RhsMode, cl.Rhs))
		}
	}
	return regs[p.RootSlot]
}

func evalUnaryDeriv(op tape.Opcode, v interval.D) interval.D {
	switch op {
	case tape.OpSquare:
		return interval.SquareD(v)
	case tape.OpSqrt:
		return interval.SqrtD(v)
	case tape.OpNeg:
		return interval.NegD(v)
	case tape.OpSin:
		return interval.SinD(v)
	case tape.OpCos:
		return interval.CosD(v)
	case tape.OpAsin:
		return interval.AsinD(v)
	case tape.OpAcos:
		return interval.AcosD(v)
	case tape.OpAtan:
		return interval.AtanD(v)
	case tape.OpExp:
		return interval.ExpD(v)
	case tape.OpAbs:
		return interval.AbsD(v)
	case tape.OpLog:
		return interval.LogD(v)
	}
	return v
}

func evalBinaryDeriv(op tape.Opcode, a, b interval.D) interval.D {
	switch op {
	case tape.OpAdd:
		return interval.AddD(a, b)
	case tape.OpMul:
		return interval.MulD(a, b)
	case tape.OpMin:
		return interval.MinD(a, b)
	case tape.OpMax:
		return interval.MaxD(a, b)
	case tape.OpSub:
		return interval.SubD(a, b)
	case tape.OpDiv:
		return interval.DivD(a, b)
	}
	return a
}
