package subtape

import (
	"sync"
	"testing"

	"github.com/fidgetcore/fidgetcore/internal/tape"
)

func TestClaimIsWaitFreeAndUnique(t *testing.T) {
	p := NewPool(1000)
	const workers = 64
	const perWorker = 10
	var wg sync.WaitGroup
	seen := make(chan Handle, workers*perWorker)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				h, err := p.Claim()
				if err != nil {
					t.Errorf("unexpected exhaustion: %v", err)
					return
				}
				seen <- h
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[Handle]bool)
	for h := range seen {
		if unique[h] {
			t.Fatalf("chunk %d claimed twice", h)
		}
		unique[h] = true
	}
	if len(unique) != workers*perWorker {
		t.Fatalf("expected %d unique claims, got %d", workers*perWorker, len(unique))
	}
}

func TestPoolExhaustion(t *testing.T) {
	p := NewPool(4)
	for i := 0; i < 3; i++ {
		if _, err := p.Claim(); err != nil {
			t.Fatalf("claim %d: unexpected error %v", i, err)
		}
	}
	if _, err := p.Claim(); err != ErrPoolExhausted {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}
}

func TestResetReclaimsPool(t *testing.T) {
	p := NewPool(4)
	for i := 0; i < 3; i++ {
		if _, err := p.Claim(); err != nil {
			t.Fatalf("claim: %v", err)
		}
	}
	p.Reset()
	if got := p.InUse(); got != 0 {
		t.Fatalf("expected 0 in use after reset, got %d", got)
	}
	for i := 0; i < 3; i++ {
		if _, err := p.Claim(); err != nil {
			t.Fatalf("claim after reset: %v", err)
		}
	}
}

func TestChainIntegrity(t *testing.T) {
	p := NewPool(4)
	leaf, _ := p.Claim()
	mid, _ := p.Claim()
	root, _ := p.Claim()

	p.Chunk(leaf).Next = mid
	p.Chunk(mid).Prev = leaf
	p.Chunk(mid).Next = root
	p.Chunk(root).Prev = mid
	p.Chunk(root).Next = NoHandle
	p.Chunk(leaf).Prev = NoHandle

	if err := ChainIntegrity(p, leaf); err != nil {
		t.Fatalf("expected valid chain, got %v", err)
	}
}

func TestChainIntegrityDetectsCycle(t *testing.T) {
	p := NewPool(4)
	a, _ := p.Claim()
	b, _ := p.Claim()
	p.Chunk(a).Next = b
	p.Chunk(b).Next = a // cycle

	if err := ChainIntegrity(p, a); err == nil {
		t.Fatalf("expected cycle to be detected")
	}
}

func TestWalkFollowsChunkLinksInOrder(t *testing.T) {
	p := NewPool(4)
	root, _ := p.Claim()
	leaf, _ := p.Claim()

	rootChunk := p.Chunk(root)
	rootChunk.Start = ChunkSize - 1
	rootChunk.Data[ChunkSize-1] = tape.Clause{Op: tape.OpEnd, Out: 1}

	leafChunk := p.Chunk(leaf)
	leafChunk.Start = ChunkSize - 2
	leafChunk.Data[ChunkSize-2] = tape.Clause{Op: tape.OpAdd, Out: 1}
	leafChunk.Data[ChunkSize-1] = tape.Clause{Op: tape.OpSquare, Out: 2}
	leafChunk.Next = root
	rootChunk.Prev = leaf

	var ops []tape.Opcode
	Walk(p, leaf, func(c tape.Clause) bool {
		ops = append(ops, c.Op)
		return false
	})
	want := []tape.Opcode{tape.OpAdd, tape.OpSquare, tape.OpEnd}
	if len(ops) != len(want) {
		t.Fatalf("got %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("got %v, want %v", ops, want)
		}
	}
}
