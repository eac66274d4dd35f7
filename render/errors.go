package render

import (
	"errors"
	"fmt"
)

// ErrDeviceError is EDeviceError (spec §7): an accelerator runtime
// failure. No function in this package returns it: construction tries
// backend/gpu first and falls back to backend/software on any error
// from gpu.New, and dispatch has no error path, so a device failure
// during a render is not surfaced to the caller.
var ErrDeviceError = errors.New("render: device error")

// buildError wraps a construction-time failure (EUnsupportedOpcode or
// ETooManySlots, surfaced by internal/tape's Compiler) with the
// render-level context the caller asked for.
func buildError(err error) error {
	return fmt.Errorf("render: build: %w", err)
}
