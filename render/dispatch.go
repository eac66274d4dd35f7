package render

// Dispatcher runs work(i) for every i in [0, n) and returns once all
// have completed (spec §5 "Scheduling model": "the driver dispatches W
// workers ... independent ... no worker waits on another except at the
// global stage barrier enforced by the driver between kernel
// launches"). backend/software and backend/gpu each provide one;
// Renderer treats both identically, the way the teacher's
// VideoCompositor doesn't care whether a frame came from the Vulkan or
// software Voodoo backend (voodoo_vulkan.go / voodoo_software.go).
type Dispatcher interface {
	Dispatch(n int, work func(i int))
}
