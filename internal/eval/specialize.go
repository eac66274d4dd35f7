package eval

import (
	"github.com/fidgetcore/fidgetcore/internal/interval"
	"github.com/fidgetcore/fidgetcore/internal/subtape"
	"github.com/fidgetcore/fidgetcore/internal/tape"
)

// chunkWriter claims subtape chunks on demand and writes clauses
// backwards from each chunk's high end, linking chunks as they fill
// (spec §4.4 step 5, §3 "Subtape chunk"). The explicit JUMP opcode the
// data model names for marking chunk transitions is not written into
// chunk Data here: this package's Chunk struct already carries the
// Next/Prev handles a transition needs, so the boundary is represented
// structurally rather than as a clause subtape.Walk would otherwise
// have to special-case.
type chunkWriter struct {
	pool   *subtape.Pool
	chunk  *subtape.Chunk
	handle subtape.Handle
	cursor int
}

func newChunkWriter(pool *subtape.Pool) *chunkWriter {
	return &chunkWriter{pool: pool, handle: subtape.NoHandle}
}

// write appends one clause, claiming a fresh chunk first if the
// current one (if any) is full. The newly claimed chunk becomes more
// leaf-ward than the one before it: its Next points at the prior
// chunk (toward the root), and the prior chunk's Prev is pointed back
// at it (toward the leaf), matching the chain direction subtape.Walk
// expects.
func (w *chunkWriter) write(cl tape.Clause) error {
	if w.chunk == nil || w.cursor == 0 {
		h, err := w.pool.Claim()
		if err != nil {
			return err
		}
		nc := w.pool.Chunk(h)
		nc.Next = w.handle
		if w.chunk != nil {
			w.chunk.Prev = h
		}
		w.chunk = nc
		w.handle = h
		w.cursor = subtape.ChunkSize
	}
	w.cursor--
	w.chunk.Data[w.cursor] = cl
	w.chunk.Start = w.cursor
	return nil
}

// leaf returns the handle of the most recently claimed (leaf-most)
// chunk, or subtape.NoHandle if nothing was ever written.
func (w *chunkWriter) leaf() subtape.Handle { return w.handle }

// Specialize implements C6's specialization pass (spec §4.4 step 5):
// walk p's clauses backwards from RootSlot, carrying an active-slot
// bit vector, keeping only clauses whose output is live, and consuming
// one recorded choice per MIN/MAX in reverse (the last choice recorded
// by EvaluateInterval is the first one consumed here). An unambiguous
// MIN/MAX is replaced by a COPY of the surviving operand and only that
// operand's slot is activated; an ambiguous one keeps the clause,
// activates both operands, and clears the terminal result. A clause
// whose output slot already equals its sole input's slot is elided
// entirely rather than emitted as a redundant copy.
//
// choices must be exactly the slice EvaluateInterval produced for the
// same Program - Specialize consumes it back-to-front and never
// re-derives it.
func Specialize(pool *subtape.Pool, p Program, choices []interval.Choice) (leaf subtape.Handle, terminal bool, err error) {
	active := make([]bool, p.NumSlots)
	active[p.RootSlot] = true
	terminal = true

	activate := func(mode tape.OperandMode, slot uint16) {
		if mode == tape.ModeReg {
			active[slot] = true
		}
	}

	chIdx := len(choices)
	nextChoice := func() interval.Choice {
		chIdx--
		return choices[chIdx]
	}

	w := newChunkWriter(pool)

	for i := len(p.Clauses) - 1; i >= 0; i-- {
		cl := p.Clauses[i]
		if cl.Op == tape.OpEnd {
			continue
		}
		// Every MIN/MAX consumes its recorded choice, live or not, so the
		// remaining choices stay aligned with the clauses that made them.
		var choice interval.Choice
		if cl.Op.IsMinMax() {
			choice = nextChoice()
		}
		if !active[cl.Out] {
			continue
		}

		switch {
		case cl.Op.IsMinMax():
			switch choice {
			case interval.ChoiceLHS:
				activate(cl.LhsMode, cl.Lhs)
				if cl.LhsMode == tape.ModeReg && cl.Out == cl.Lhs {
					continue
				}
				if err := w.write(tape.Clause{Op: tape.OpCopyLHS, LhsMode: cl.LhsMode, Lhs: cl.Lhs, Out: cl.Out}); err != nil {
					return subtape.NoHandle, false, err
				}
			case interval.ChoiceRHS:
				activate(cl.RhsMode, cl.Rhs)
				if cl.RhsMode == tape.ModeReg && cl.Out == cl.Rhs {
					continue
				}
				if err := w.write(tape.Clause{Op: tape.OpCopyRHS, RhsMode: cl.RhsMode, Rhs: cl.Rhs, Out: cl.Out}); err != nil {
					return subtape.NoHandle, false, err
				}
			default: // ChoiceBoth: still ambiguous, keep the clause as-is.
				activate(cl.LhsMode, cl.Lhs)
				activate(cl.RhsMode, cl.Rhs)
				terminal = false
				if err := w.write(cl); err != nil {
					return subtape.NoHandle, false, err
				}
			}

		case cl.Op == tape.OpCopyImm:
			if err := w.write(cl); err != nil {
				return subtape.NoHandle, false, err
			}

		case cl.Op == tape.OpCopyRHS:
			activate(cl.RhsMode, cl.Rhs)
			if cl.RhsMode == tape.ModeReg && cl.Out == cl.Rhs {
				continue
			}
			if err := w.write(cl); err != nil {
				return subtape.NoHandle, false, err
			}

		default: // unary (incl. OpCopyLHS) and non-minmax binary ops
			activate(cl.LhsMode, cl.Lhs)
			if cl.Op.IsBinary() {
				activate(cl.RhsMode, cl.Rhs)
			}
			if cl.Op.IsUnary() && cl.LhsMode == tape.ModeReg && cl.Out == cl.Lhs {
				continue
			}
			if err := w.write(cl); err != nil {
				return subtape.NoHandle, false, err
			}
		}
	}

	return w.leaf(), terminal, nil
}
