package tape

import "math"

// MaxSlots is the banked encoding's register-slot ceiling (spec §4.2
// step 5: "Fail with ETooManySlots if more than 255 slots would be
// needed (banked form: 65535)"). This package uses the banked form
// throughout (clause.go), so the larger limit applies.
const MaxSlots = 65535

// Stats reports compiler diagnostics, grounded on the teacher's
// snapshot-style debug reporting (debug_monitor.go): slots used,
// clauses emitted, and constants folded away at compile time.
type Stats struct {
	SlotsUsed      int
	ClausesEmitted int
	ConstantsFolded int
}

// Compiler turns a topologically ordered expression DAG into a Tape
// (spec §4.2, C3). One Compiler instance holds only the Stats of its
// last Compile call and is reusable across Compile calls.
type Compiler struct {
	lastStats Stats
}

// NewCompiler returns a ready-to-use Compiler.
func NewCompiler() *Compiler { return &Compiler{} }

// Stats returns diagnostics from the most recent successful Compile
// call.
func (c *Compiler) Stats() Stats { return c.lastStats }

// Compile walks nodes (already in topological order - every node's
// operands appear earlier in the slice) and produces the Tape whose
// root result is root's value.
func (c *Compiler) Compile(nodes []Node, root Node) (*Tape, error) {
	idx := make(map[Node]int, len(nodes))
	for i, n := range nodes {
		idx[n] = i
	}
	rootIdx, ok := idx[root]
	if !ok {
		rootIdx = len(nodes) - 1
	}

	// Constant-folding prepass: a node whose operands are all literal
	// constants (or themselves already folded) collapses to a single
	// float64 and never gets a register slot or emitted clause (C3's
	// "constant folding").
	folded := make([]float64, len(nodes))
	isFolded := make([]bool, len(nodes))
	foldCount := 0
	for i, n := range nodes {
		op := n.SourceOp()
		if op == SrcConst {
			folded[i] = n.ConstValue()
			isFolded[i] = true
			continue
		}
		if isTerminal(op) || isUnsupported(op) {
			continue
		}
		tapeOp, ok := toOpcode(op)
		if !ok {
			continue
		}
		lhsN, rhsN := n.Operands()
		lv, lok := foldedValue(lhsN, idx, folded, isFolded)
		if !lok {
			continue
		}
		if tapeOp.IsUnary() {
			folded[i] = evalUnaryConst(tapeOp, lv)
			isFolded[i] = true
			foldCount++
			continue
		}
		if tapeOp.IsBinary() {
			rv, rok := foldedValue(rhsN, idx, folded, isFolded)
			if !rok {
				continue
			}
			folded[i] = evalBinaryConst(tapeOp, lv, rv)
			isFolded[i] = true
			foldCount++
		}
	}

	// Liveness prepass: the last topological index at which each node
	// is read as an operand. The free list reclaims a register slot
	// once its value's last reader has been processed.
	lastUsed := make([]int, len(nodes))
	for i := range lastUsed {
		lastUsed[i] = -1
	}
	for i, n := range nodes {
		lhs, rhs := n.Operands()
		if lhs != nil {
			if li, ok := idx[lhs]; ok {
				lastUsed[li] = i
			}
		}
		if rhs != nil {
			if ri, ok := idx[rhs]; ok {
				lastUsed[ri] = i
			}
		}
	}

	slotOf := make([]uint16, len(nodes))
	var constants []float64
	constIdx := make(map[float64]uint16)
	internConst := func(v float64) uint16 {
		if ci, ok := constIdx[v]; ok {
			return ci
		}
		ci := uint16(len(constants))
		constants = append(constants, v)
		constIdx[v] = ci
		return ci
	}

	var freeSlots []uint16
	nextSlot := uint16(1)
	allocSlot := func() (uint16, error) {
		if len(freeSlots) > 0 {
			s := freeSlots[len(freeSlots)-1]
			freeSlots = freeSlots[:len(freeSlots)-1]
			return s, nil
		}
		if nextSlot == 0 || int(nextSlot) > MaxSlots {
			return 0, &CompileError{Kind: ErrTooManySlots, MaxSlots: MaxSlots}
		}
		s := nextSlot
		nextSlot++
		return s, nil
	}

	var axisSlot [3]uint16
	var axisBound [3]bool
	ensureAxis := func(axis int) (uint16, error) {
		if !axisBound[axis] {
			s, err := allocSlot()
			if err != nil {
				return 0, err
			}
			axisSlot[axis] = s
			axisBound[axis] = true
		}
		return axisSlot[axis], nil
	}

	// resolveOperand returns the operand's mode and value; folded
	// constants and literal SrcConst nodes both resolve to ModeConst.
	resolveOperand := func(i int, opn Node) (OperandMode, uint16, error) {
		if opn == nil {
			return ModeReg, 0, nil
		}
		oi, found := idx[opn]
		if found && isFolded[oi] {
			return ModeConst, internConst(folded[oi]), nil
		}
		if opn.SourceOp() == SrcConst {
			return ModeConst, internConst(opn.ConstValue()), nil
		}
		if !found {
			return ModeReg, 0, &CompileError{Kind: ErrUnsupportedOpcode, NodeIdx: i}
		}
		return ModeReg, slotOf[oi], nil
	}

	clauses := make([]Clause, 0, len(nodes))

	for i, n := range nodes {
		if isFolded[i] {
			continue
		}
		op := n.SourceOp()
		if op == SrcConst {
			continue
		}
		if isTerminal(op) {
			var axis int
			switch op {
			case SrcVarX:
				axis = AxisX
			case SrcVarY:
				axis = AxisY
			case SrcVarZ:
				axis = AxisZ
			}
			s, err := ensureAxis(axis)
			if err != nil {
				return nil, err
			}
			slotOf[i] = s
			continue
		}
		if isUnsupported(op) {
			return nil, &CompileError{Kind: ErrUnsupportedOpcode, NodeIdx: i, Opcode: op}
		}
		tapeOp, ok := toOpcode(op)
		if !ok {
			return nil, &CompileError{Kind: ErrUnsupportedOpcode, NodeIdx: i, Opcode: op}
		}

		lhsNode, rhsNode := n.Operands()
		lhsMode, lhsVal, err := resolveOperand(i, lhsNode)
		if err != nil {
			return nil, err
		}
		var rhsMode OperandMode
		var rhsVal uint16
		if tapeOp.IsBinary() {
			rhsMode, rhsVal, err = resolveOperand(i, rhsNode)
			if err != nil {
				return nil, err
			}
			// §4.2 step 3: commutative operators with one constant
			// operand canonicalize so the constant occupies the LHS
			// slot, keeping one consistent shape for the evaluators'
			// operand-mode dispatch.
			if tapeOp.IsCommutative() && lhsMode == ModeReg && rhsMode == ModeConst {
				lhsMode, rhsMode = rhsMode, lhsMode
				lhsVal, rhsVal = rhsVal, lhsVal
			}
		}

		outSlot, err := allocSlot()
		if err != nil {
			return nil, err
		}
		slotOf[i] = outSlot

		cl := Clause{Op: tapeOp, LhsMode: lhsMode, Lhs: lhsVal, Out: outSlot}
		if tapeOp.IsBinary() {
			cl.RhsMode = rhsMode
			cl.Rhs = rhsVal
		}
		clauses = append(clauses, cl)

		reclaim := func(opn Node) {
			if opn == nil {
				return
			}
			oi, found := idx[opn]
			if !found || isFolded[oi] {
				return
			}
			if isTerminal(opn.SourceOp()) || opn.SourceOp() == SrcConst {
				return
			}
			if lastUsed[oi] == i {
				freeSlots = append(freeSlots, slotOf[oi])
			}
		}
		reclaim(lhsNode)
		if tapeOp.IsBinary() {
			reclaim(rhsNode)
		}
	}

	var rootSlot uint16
	if isFolded[rootIdx] {
		s, err := allocSlot()
		if err != nil {
			return nil, err
		}
		rootSlot = s
		clauses = append(clauses, Clause{Op: OpCopyImm, LhsMode: ModeConst, Lhs: internConst(folded[rootIdx]), Out: rootSlot})
	} else {
		rootSlot = slotOf[rootIdx]
	}

	// Terminating clause: out names the root slot (spec §4.2 step 4).
	clauses = append(clauses, Clause{Op: OpEnd, Out: rootSlot})

	t := &Tape{
		Clauses:   clauses,
		Constants: constants,
		AxisSlot:  axisSlot,
		NumSlots:  nextSlot,
		RootSlot:  rootSlot,
	}
	c.lastStats = Stats{SlotsUsed: int(nextSlot) - 1, ClausesEmitted: len(clauses), ConstantsFolded: foldCount}
	return t, nil
}

func foldedValue(n Node, idx map[Node]int, folded []float64, isFolded []bool) (float64, bool) {
	if n == nil {
		return 0, false
	}
	if n.SourceOp() == SrcConst {
		return n.ConstValue(), true
	}
	if i, ok := idx[n]; ok && isFolded[i] {
		return folded[i], true
	}
	return 0, false
}

func evalUnaryConst(op Opcode, v float64) float64 {
	switch op {
	case OpSquare:
		return v * v
	case OpSqrt:
		return math.Sqrt(v)
	case OpNeg:
		return -v
	case OpSin:
		return math.Sin(v)
	case OpCos:
		return math.Cos(v)
	case OpAsin:
		return math.Asin(v)
	case OpAcos:
		return math.Acos(v)
	case OpAtan:
		return math.Atan(v)
	case OpExp:
		return math.Exp(v)
	case OpAbs:
		return math.Abs(v)
	case OpLog:
		return math.Log(v)
	default:
		return v
	}
}

func evalBinaryConst(op Opcode, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpMul:
		return a * b
	case OpMin:
		return math.Min(a, b)
	case OpMax:
		return math.Max(a, b)
	case OpSub:
		return a - b
	case OpDiv:
		return a / b
	default:
		return a
	}
}
