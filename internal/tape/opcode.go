// Package tape compiles an expression DAG into the linear register-
// machine clause sequence described in spec §3-§4.2 (C2, C3): a Tape
// the tile evaluators can walk clause by clause, plus the compiler that
// produces one from a topologically ordered DAG.
package tape

// Opcode enumerates the register-machine instructions a Tape can hold.
// The numeric values are the wire encoding used by Clause.Op; 0 is
// reserved as end-of-tape per spec §3.
type Opcode uint8

const (
	OpEnd Opcode = iota

	// Unary
	OpSquare
	OpSqrt
	OpNeg
	OpSin
	OpCos
	OpAsin
	OpAcos
	OpAtan
	OpExp
	OpAbs
	OpLog

	// Binary, commutative
	OpAdd
	OpMul
	OpMin
	OpMax

	// Binary, non-commutative
	OpSub
	OpDiv

	// Meta
	OpCopyImm
	OpCopyLHS
	OpCopyRHS
	OpJump
)

func (o Opcode) String() string {
	switch o {
	case OpEnd:
		return "END"
	case OpSquare:
		return "SQUARE"
	case OpSqrt:
		return "SQRT"
	case OpNeg:
		return "NEG"
	case OpSin:
		return "SIN"
	case OpCos:
		return "COS"
	case OpAsin:
		return "ASIN"
	case OpAcos:
		return "ACOS"
	case OpAtan:
		return "ATAN"
	case OpExp:
		return "EXP"
	case OpAbs:
		return "ABS"
	case OpLog:
		return "LOG"
	case OpAdd:
		return "ADD"
	case OpMul:
		return "MUL"
	case OpMin:
		return "MIN"
	case OpMax:
		return "MAX"
	case OpSub:
		return "SUB"
	case OpDiv:
		return "DIV"
	case OpCopyImm:
		return "COPY_IMM"
	case OpCopyLHS:
		return "COPY_LHS"
	case OpCopyRHS:
		return "COPY_RHS"
	case OpJump:
		return "JUMP"
	default:
		return "UNKNOWN"
	}
}

// IsUnary reports whether op reads a single LHS operand.
func (o Opcode) IsUnary() bool {
	switch o {
	case OpSquare, OpSqrt, OpNeg, OpSin, OpCos, OpAsin, OpAcos, OpAtan, OpExp, OpAbs, OpLog, OpCopyLHS, OpCopyRHS:
		return true
	}
	return false
}

// IsBinary reports whether op reads both LHS and RHS operands.
func (o Opcode) IsBinary() bool {
	switch o {
	case OpAdd, OpMul, OpMin, OpMax, OpSub, OpDiv:
		return true
	}
	return false
}

// IsMinMax reports whether op records a choice bit during
// specialization (§4.4 step 5).
func (o Opcode) IsMinMax() bool { return o == OpMin || o == OpMax }

// IsCommutative reports whether the opcode's operand order may be
// swapped freely, which the compiler uses to move a constant operand
// into the LHS of the banked clause (§4.2 step 3).
func (o Opcode) IsCommutative() bool {
	switch o {
	case OpAdd, OpMul, OpMin, OpMax:
		return true
	}
	return false
}

// SourceOpcode is the superset of opcodes an upstream expression-tree
// node may carry (spec §6). Opcodes outside the Opcode enum above are
// valid SourceOpcode values but are rejected at compile time with
// ErrUnsupportedOpcode.
type SourceOpcode int

const (
	SrcConst SourceOpcode = iota
	SrcVarX
	SrcVarY
	SrcVarZ

	SrcSquare
	SrcSqrt
	SrcNeg
	SrcSin
	SrcCos
	SrcAsin
	SrcAcos
	SrcAtan
	SrcExp
	SrcAbs
	SrcLog

	SrcAdd
	SrcMul
	SrcMin
	SrcMax
	SrcSub
	SrcDiv

	// Unsupported opcodes (spec §6): present so a front end can name
	// them, but Compile always reports ErrUnsupportedOpcode for these.
	SrcTan
	SrcRecip
	SrcAtan2
	SrcPow
	SrcNthRoot
	SrcMod
	SrcNanFill
	SrcCompare
	SrcVarFree
	SrcConstVar
	SrcOracle
)

// toOpcode maps a supported SourceOpcode to its tape Opcode. ok is
// false for terminals (handled separately by the compiler) and for
// anything in the unsupported set.
func toOpcode(s SourceOpcode) (Opcode, bool) {
	switch s {
	case SrcSquare:
		return OpSquare, true
	case SrcSqrt:
		return OpSqrt, true
	case SrcNeg:
		return OpNeg, true
	case SrcSin:
		return OpSin, true
	case SrcCos:
		return OpCos, true
	case SrcAsin:
		return OpAsin, true
	case SrcAcos:
		return OpAcos, true
	case SrcAtan:
		return OpAtan, true
	case SrcExp:
		return OpExp, true
	case SrcAbs:
		return OpAbs, true
	case SrcLog:
		return OpLog, true
	case SrcAdd:
		return OpAdd, true
	case SrcMul:
		return OpMul, true
	case SrcMin:
		return OpMin, true
	case SrcMax:
		return OpMax, true
	case SrcSub:
		return OpSub, true
	case SrcDiv:
		return OpDiv, true
	}
	return 0, false
}

// isTerminal reports whether s is one of the axis terminals, which are
// bound to registers at compile time rather than emitted as clauses
// (spec §3).
func isTerminal(s SourceOpcode) bool {
	return s == SrcVarX || s == SrcVarY || s == SrcVarZ
}

func isUnsupported(s SourceOpcode) bool {
	switch s {
	case SrcTan, SrcRecip, SrcAtan2, SrcPow, SrcNthRoot, SrcMod, SrcNanFill, SrcCompare, SrcVarFree, SrcConstVar, SrcOracle:
		return true
	}
	return false
}
