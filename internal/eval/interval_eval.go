package eval

import (
	"github.com/fidgetcore/fidgetcore/internal/interval"
	"github.com/fidgetcore/fidgetcore/internal/tape"
)

// IntervalResult is the outcome of one forward interval pass over a
// Program: the root's resulting interval plus the dense choice-bit
// buffer recorded at every MIN/MAX clause encountered, in encounter
// order (spec §4.4 step 3, §4.1).
type IntervalResult struct {
	Root    interval.I
	Choices []interval.Choice
}

// EvaluateInterval runs p's clauses forward with interval arithmetic,
// binding the axis registers to bx, by, bz (spec §4.4 step 1 hands
// these in after mapping a tile's corners through the view). A
// Program is always built from an already-compiled Tape or a
// previously emitted subtape, both of which only ever carry supported
// opcodes, so an opcode this dispatch doesn't recognize simply falls
// through as a no-op rather than being defended against here.
func EvaluateInterval(p Program, bx, by, bz interval.I) IntervalResult {
	regs := make([]interval.I, p.NumSlots)
	if p.AxisSlot[0] != 0 {
		regs[p.AxisSlot[0]] = bx
	}
	if p.AxisSlot[1] != 0 {
		regs[p.AxisSlot[1]] = by
	}
	if p.AxisSlot[2] != 0 {
		regs[p.AxisSlot[2]] = bz
	}

	operand := func(mode tape.OperandMode, v uint16) interval.I {
		if mode == tape.ModeConst {
			return interval.Point(p.Constants[v])
		}
		return regs[v]
	}

	var choices []interval.Choice
	for _, cl := range p.Clauses {
		if cl.Op == tape.OpEnd {
			break
		}
		switch {
		case cl.Op == tape.OpCopyImm:
			regs[cl.Out] = interval.Point(p.Constants[cl.Lhs])
		case cl.Op == tape.OpCopyLHS:
			regs[cl.Out] = operand(cl.LhsMode, cl.Lhs)
		case cl.Op == tape.OpCopyRHS:
			regs[cl.Out] = operand(cl.RhsMode, cl.Rhs)
		case cl.Op.IsMinMax():
			lhs := operand(cl.LhsMode, cl.Lhs)
			rhs := operand(cl.RhsMode, cl.Rhs)
			var res interval.I
			var ch interval.Choice
			if cl.Op == tape.OpMin {
				res, ch = interval.Min(lhs, rhs)
			} else {
				res, ch = interval.Max(lhs, rhs)
			}
			choices = append(choices, ch)
			assertChoiceBudget(len(choices))
			regs[cl.Out] = res
		case cl.Op.IsUnary():
			regs[cl.Out] = evalUnaryInterval(cl.Op, operand(cl.LhsMode, cl.Lhs))
		case cl.Op.IsBinary():
			regs[cl.Out] = evalBinaryInterval(cl.Op, operand(cl.LhsMode, cl.Lhs), operand(cl.RhsMode, cl.Rhs))
		}
	}
	return IntervalResult{Root: regs[p.RootSlot], Choices: choices}
}

func evalUnaryInterval(op tape.Opcode, v interval.I) interval.I {
	switch op {
	case tape.OpSquare:
		return interval.Square(v)
	case tape.OpSqrt:
		return interval.Sqrt(v)
	case tape.OpNeg:
		return interval.Neg(v)
	case tape.OpSin:
		return interval.Sin(v)
	case tape.OpCos:
		return interval.Cos(v)
	case tape.OpAsin:
		return interval.Asin(v)
	case tape.OpAcos:
		return interval.Acos(v)
	case tape.OpAtan:
		return interval.Atan(v)
	case tape.OpExp:
		return interval.Exp(v)
	case tape.OpAbs:
		return interval.Abs(v)
	case tape.OpLog:
		return interval.Log(v)
	}
	return v
}

func evalBinaryInterval(op tape.Opcode, a, b interval.I) interval.I {
	switch op {
	case tape.OpAdd:
		return interval.Add(a, b)
	case tape.OpMul:
		return interval.Mul(a, b)
	case tape.OpSub:
		return interval.Sub(a, b)
	case tape.OpDiv:
		return interval.Div(a, b)
	}
	return a
}
