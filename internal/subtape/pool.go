// Package subtape implements the shared subtape chunk allocator (C4,
// spec §4.3): a globally shared array of fixed-size chunks, claimed
// wait-free by atomic increment and bulk-reset between renders. The
// claim/reset shape is grounded on the teacher's coprocessor ticket
// counter (coprocessor_manager.go's atomic nextTicket), adapted here
// from "hand out a job ticket" to "hand out a chunk index".
package subtape

import (
	"errors"
	"sync/atomic"

	"github.com/fidgetcore/fidgetcore/internal/tape"
)

// ChunkSize is the fixed clause capacity of one subtape chunk (spec §3:
// "Fixed capacity (e.g. 64 clauses)").
const ChunkSize = 64

// Handle is an index into a Pool's chunk array. The zero Handle means
// "no subtape" (spec §3: "index 0 is reserved as 'no subtape'").
type Handle uint32

const NoHandle Handle = 0

// ErrPoolExhausted is ESubtapePoolExhausted (spec §7): the atomic claim
// counter has run past the pool's capacity. Callers must fall back to
// the parent tape handle for the current tile rather than treat this
// as fatal (spec §4.9).
var ErrPoolExhausted = errors.New("subtape: pool exhausted")

// Chunk is one fixed-capacity subtape segment, written backwards from
// the high end (spec §3): Start is the offset of the first live clause
// once writing finishes, Next links toward the root of the
// specialization chain, Prev links toward the leaf.
type Chunk struct {
	Data  [ChunkSize]tape.Clause
	Start int
	Next  Handle
	Prev  Handle
}

// Pool is a process-wide (per-renderer) shared array of N chunks with
// an atomic free index (spec §3 "Subtape pool", §4.3, §5). Chunks are
// append-only within one render and bulk-reset between renders; no
// per-chunk free operation exists mid-render.
type Pool struct {
	chunks []Chunk
	free   atomic.Uint32 // next unclaimed chunk index; starts at 1
}

// NewPool allocates a pool of capacity chunks. Index 0 is reserved as
// NoHandle and is never claimed.
func NewPool(capacity int) *Pool {
	p := &Pool{chunks: make([]Chunk, capacity)}
	p.Reset()
	return p
}

// Reset sets the free index back to 1, discarding (without zeroing -
// Claim zeroes each chunk it hands out) every chunk
// claimed during the previous render. Wait-free, but must only be
// called when no worker holds a live chunk reference (i.e. between
// renders, at the stage barrier the driver already enforces).
func (p *Pool) Reset() { p.free.Store(1) }

// Claim atomically reserves the next free chunk and returns its
// handle, zeroed. Wait-free: a single atomic add, no locks, no blocking
// (spec §4.3, §5).
func (p *Pool) Claim() (Handle, error) {
	idx := p.free.Add(1) - 1
	if int(idx) >= len(p.chunks) {
		return NoHandle, ErrPoolExhausted
	}
	p.chunks[idx] = Chunk{}
	return Handle(idx), nil
}

// Chunk returns a pointer to the chunk at h. Callers must only read or
// write chunks they (or the claimer of an adjacent link) own.
func (p *Pool) Chunk(h Handle) *Chunk {
	if h == NoHandle {
		return nil
	}
	return &p.chunks[h]
}

// InUse reports how many chunks have been claimed since the last
// Reset, for diagnostics and tests of re-render stability (spec §8 P6,
// scenario 6).
func (p *Pool) InUse() int {
	n := int(p.free.Load()) - 1
	if n < 0 {
		return 0
	}
	if n > len(p.chunks) {
		return len(p.chunks)
	}
	return n
}

// Capacity returns the total chunk count the pool was constructed
// with.
func (p *Pool) Capacity() int { return len(p.chunks) }
