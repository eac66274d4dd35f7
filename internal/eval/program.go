// Package eval implements C6 (interval tile evaluator and backward
// specialization), C8 (pixel evaluator) and C9 (normal evaluator): the
// four arithmetic-domain passes a compiled Tape or a tile's specialized
// subtape can be walked with. Each domain (interval, float scalar,
// float Pack2, derivative) owns its own dense opcode dispatch rather
// than sharing one virtual-dispatch table, per spec §9's "avoid virtual
// polymorphism" note - mirrored here the way the teacher keeps its
// CPU opcode tables (cpu_ie32.go) and video-chip dispatch
// (video_chip.go) as separate per-subsystem switches rather than one
// shared interface hierarchy.
package eval

import (
	"github.com/fidgetcore/fidgetcore/internal/subtape"
	"github.com/fidgetcore/fidgetcore/internal/tape"
)

// Program is the flattened, directly-walkable form of either the root
// Tape or one tile's specialized subtape chain. Every evaluator in this
// package dispatches over a Program's Clauses in forward (leaf-to-root)
// order (spec §4.4 step 3, §4.6 step 3); register slot numbers are
// shared across every level of specialization, so a Program derived
// from a subtape never renumbers them.
type Program struct {
	Clauses   []tape.Clause
	Constants []float64
	AxisSlot  [3]uint16
	NumSlots  uint16
	RootSlot  uint16
}

// FromTape builds the stage-0 Program directly from a compiled Tape.
func FromTape(t *tape.Tape) Program {
	return Program{
		Clauses:   t.Clauses,
		Constants: t.Constants,
		AxisSlot:  t.AxisSlot,
		NumSlots:  t.NumSlots,
		RootSlot:  t.RootSlot,
	}
}

// FromSubtape flattens the chunk chain rooted at a tile's subtape
// handle into a Program, inheriting the constant table, axis bindings,
// slot count and root slot from the Program it was specialized out of
// (none of those change across specialization levels - only which
// clauses survive does).
func FromSubtape(pool *subtape.Pool, h subtape.Handle, parent Program) Program {
	var clauses []tape.Clause
	subtape.Walk(pool, h, func(c tape.Clause) bool {
		clauses = append(clauses, c)
		return false
	})
	return Program{
		Clauses:   clauses,
		Constants: parent.Constants,
		AxisSlot:  parent.AxisSlot,
		NumSlots:  parent.NumSlots,
		RootSlot:  parent.RootSlot,
	}
}

// Terminal reports whether p contains no MIN/MAX clause (spec §4.8,
// glossary "Terminal tape").
func (p Program) Terminal() bool { return tape.Terminal(p.Clauses) }
