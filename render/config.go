// Package render is the public entry point: C7's hierarchy driver plus
// the Renderer API described in spec §6 ("Construction", "Render",
// "Readback"). It wires together internal/tape, internal/subtape,
// internal/grid, internal/eval and internal/viewport the way the
// teacher's MachineBus wires together its CPU, memory and coprocessor
// subsystems (machine_bus.go) - one owning struct, long-lived, reset
// at well-defined lifecycle boundaries rather than through hidden
// globals (spec §9, "Global mutable state").
package render

import "github.com/fidgetcore/fidgetcore/internal/subtape"

// Config holds the renderer's tuning knobs (spec §6 "Configuration
// constants"). Grounded on the teacher's constants-block-plus-
// NewCPU(bus) pattern (cpu_ie32.go, coprocessor_constants.go) rather
// than a generic config-file loader.
type Config struct {
	// Stages3D/Stages2D are the tile side-lengths per stage, coarsest
	// first (spec §6 defaults: {64,16,4} for 3D, {64,8} for 2D).
	Stages3D []int
	Stages2D []int

	// PoolCapacity is the subtape pool's chunk count (spec §6 default
	// "pool ~= 65536 chunks").
	PoolCapacity int

	// Streams is the worker-stream count backend/software dispatches
	// per stage (spec §6 default "streams = 4").
	Streams int
}

// DefaultConfig returns the spec §6 defaults.
func DefaultConfig() Config {
	return Config{
		Stages3D:     []int{64, 16, 4},
		Stages2D:     []int{64, 8},
		PoolCapacity: 65536,
		Streams:      4,
	}
}

// stagesFor returns the configured stage side-lengths for dim (2 or 3).
func (c Config) stagesFor(dim int) []int {
	if dim == 2 {
		return c.Stages2D
	}
	return c.Stages3D
}

// terminalCacheKey packs a tile's level and position into one key for
// the terminal-subtape cache (SPEC_FULL.md "Terminal-tape cache").
func terminalCacheKey(level, x, y, z int) uint64 {
	return uint64(level)<<48 | uint64(uint16(x))<<32 | uint64(uint16(y))<<16 | uint64(uint16(z))
}

// noHandle is a readability alias used where a cache miss must be
// distinguished from subtape.NoHandle.
const noHandle = subtape.NoHandle
