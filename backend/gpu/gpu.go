// Package gpu is the Vulkan backend (spec §6's "massively parallel
// accelerator" path): it creates a Vulkan instance, a compute-capable
// queue and a command pool, and its Dispatch runs C6/C8/C9's per-tile
// and per-pixel kernels as Go closures on host goroutines. No command
// buffer is recorded or submitted, so no kernel runs on the device.
//
// Split into a real implementation (gpu_vulkan.go, build tag
// "vulkan") and a stub (gpu_stub.go, "!vulkan") following the
// teacher's audio_backend_alsa.go/audio_backend_headless.go pair: both
// define the same Device type and New, so callers (render.Build) never
// need a build tag of their own. Building without -tags vulkan always
// gets the stub, which reports ErrDeviceError immediately so
// render.Build falls back to backend/software - mirroring
// voodoo_vulkan_headless.go's "same type name so the rest of the
// codebase compiles unchanged" approach.
package gpu

import "errors"

// ErrDeviceError is EDeviceError (spec §7): surfaced on any accelerator
// runtime failure, at construction (the caller should fall back to
// backend/software) or mid-render (the caller aborts).
var ErrDeviceError = errors.New("gpu: device error")
