package subtape

import "github.com/fidgetcore/fidgetcore/internal/tape"

// Walk calls visit for every live clause in the chain starting at the
// leaf-most chunk (handle h) and following Next links toward the root,
// in tape order (leaf chunk's live clauses first, then each
// successively closer-to-root chunk's). This is how the pixel, normal,
// and nested interval evaluators read a specialized subtape (spec
// §4.6 step 3: "following JUMP chunk links until the terminating
// clause").
func Walk(p *Pool, h Handle, visit func(tape.Clause) (stop bool)) {
	for h != NoHandle {
		c := p.Chunk(h)
		for i := c.Start; i < ChunkSize; i++ {
			if visit(c.Data[i]) {
				return
			}
		}
		h = c.Next
	}
}

// ChainIntegrity verifies spec invariant I5/property P5: walking Next
// from the leaf reaches a chunk with Next == NoHandle, and walking Prev
// from that root reaches a chunk with Prev == NoHandle, with no chunk
// revisited in either direction.
func ChainIntegrity(p *Pool, leaf Handle) error {
	seen := make(map[Handle]bool)
	h := leaf
	var root Handle = NoHandle
	for h != NoHandle {
		if seen[h] {
			return errLoop(h)
		}
		seen[h] = true
		root = h
		h = p.Chunk(h).Next
	}
	seen2 := make(map[Handle]bool)
	h = root
	for h != NoHandle {
		if seen2[h] {
			return errLoop(h)
		}
		seen2[h] = true
		h = p.Chunk(h).Prev
	}
	return nil
}

type chainError struct{ at Handle }

func (e *chainError) Error() string { return "subtape: cyclic chain detected" }
func errLoop(h Handle) error        { return &chainError{at: h} }
