// Package software is the default, always-available backend: a
// goroutine worker pool that executes the per-stage, per-tile and
// per-pixel kernels C6/C8/C9 hand it (spec §5 "Scheduling model": "the
// driver dispatches W workers ... one per candidate tile or pixel").
//
// Grounded on video_compositor.go's blendFrame1to1, which splits a
// frame into fixed-height strips and blends each strip in its own
// goroutine behind a sync.WaitGroup rather than spawning one goroutine
// per pixel; Dispatch applies the same strip-of-indices shape to an
// arbitrary work count instead of image rows.
package software

import "sync"

// Pool dispatches Dispatch(n, work) across Streams goroutines, each
// handling a contiguous strip of the index range - the same
// fixed-stride partitioning coprocessor_manager.go uses to hand worker
// CPUs their ring-buffer slices, adapted here from ring offsets to
// plain index ranges.
type Pool struct {
	Streams int
}

// New returns a Pool with the given worker-stream count (spec §6
// default: "streams = 4"). streams <= 0 falls back to 1.
func New(streams int) *Pool {
	if streams <= 0 {
		streams = 1
	}
	return &Pool{Streams: streams}
}

// Dispatch runs work(i) for every i in [0, n), split into Streams
// contiguous strips, and returns once all strips complete.
func (p *Pool) Dispatch(n int, work func(i int)) {
	if n <= 0 {
		return
	}
	streams := p.Streams
	if streams > n {
		streams = n
	}
	if streams <= 1 {
		for i := 0; i < n; i++ {
			work(i)
		}
		return
	}

	stride := (n + streams - 1) / streams
	var wg sync.WaitGroup
	for start := 0; start < n; start += stride {
		end := start + stride
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				work(i)
			}
		}(start, end)
	}
	wg.Wait()
}
