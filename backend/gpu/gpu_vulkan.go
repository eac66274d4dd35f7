//go:build vulkan

package gpu

import (
	"fmt"
	"sync"

	vk "github.com/goki/vulkan"
)

// Device owns a Vulkan instance, a selected physical device and a
// compute-capable queue. It has no compute pipeline of its own (the
// kernels it dispatches are the Go closures C6/C8/C9 hand to Dispatch,
// not SPIR-V) - it exists to prove out the device/queue/command-pool
// lifecycle a real compute dispatch would ride on, grounded on
// VulkanBackend's createInstance/selectPhysicalDevice/CreateDevice
// sequence in voodoo_vulkan.go, trimmed to the offscreen-compute case
// (no swapchain, no render pass, no pipeline).
type Device struct {
	mu sync.Mutex

	instance       vk.Instance
	physicalDevice vk.PhysicalDevice
	device         vk.Device
	queue          vk.Queue
	queueFamily    uint32
	commandPool    vk.CommandPool

	hasInstance bool
	hasDevice   bool

	streams int
}

// New initializes a Vulkan instance and selects a physical device with
// a compute-capable queue family. Returns ErrDeviceError, wrapped with
// the underlying vkResult context, on any failure - the caller should
// fall back to backend/software (spec §7 EDeviceError).
func New() (*Device, error) {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return nil, fmt.Errorf("%w: loader: %v", ErrDeviceError, err)
	}
	if err := vk.Init(); err != nil {
		return nil, fmt.Errorf("%w: init: %v", ErrDeviceError, err)
	}

	d := &Device{streams: 4}
	if err := d.createInstance(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceError, err)
	}
	if err := d.selectPhysicalDevice(); err != nil {
		d.destroyInstance()
		return nil, fmt.Errorf("%w: %v", ErrDeviceError, err)
	}
	if err := d.createLogicalDevice(); err != nil {
		d.destroyInstance()
		return nil, fmt.Errorf("%w: %v", ErrDeviceError, err)
	}
	if err := d.createCommandPool(); err != nil {
		d.destroyLogicalDevice()
		d.destroyInstance()
		return nil, fmt.Errorf("%w: %v", ErrDeviceError, err)
	}
	return d, nil
}

func (d *Device) createInstance() error {
	appInfo := vk.ApplicationInfo{
		SType:      vk.StructureTypeApplicationInfo,
		ApiVersion: vk.MakeVersion(1, 0, 0),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &appInfo,
	}
	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, nil, &instance); res != vk.Success {
		return fmt.Errorf("vkCreateInstance failed: %d", res)
	}
	vk.InitInstance(instance)
	d.instance = instance
	d.hasInstance = true
	return nil
}

func (d *Device) selectPhysicalDevice() error {
	var count uint32
	vk.EnumeratePhysicalDevices(d.instance, &count, nil)
	if count == 0 {
		return fmt.Errorf("no Vulkan-capable physical devices")
	}
	devices := make([]vk.PhysicalDevice, count)
	vk.EnumeratePhysicalDevices(d.instance, &count, devices)

	for _, pd := range devices {
		var qCount uint32
		vk.GetPhysicalDeviceQueueFamilyProperties(pd, &qCount, nil)
		families := make([]vk.QueueFamilyProperties, qCount)
		vk.GetPhysicalDeviceQueueFamilyProperties(pd, &qCount, families)
		for i, fam := range families {
			fam.Deref()
			if fam.QueueFlags&vk.QueueFlags(vk.QueueComputeBit) != 0 {
				d.physicalDevice = pd
				d.queueFamily = uint32(i)
				return nil
			}
		}
	}
	return fmt.Errorf("no physical device exposes a compute queue family")
}

func (d *Device) createLogicalDevice() error {
	priority := float32(1.0)
	queueCreateInfo := vk.DeviceQueueCreateInfo{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: d.queueFamily,
		QueueCount:       1,
		PQueuePriorities: []float32{priority},
	}
	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos:    []vk.DeviceQueueCreateInfo{queueCreateInfo},
	}
	var device vk.Device
	if res := vk.CreateDevice(d.physicalDevice, &deviceCreateInfo, nil, &device); res != vk.Success {
		return fmt.Errorf("vkCreateDevice failed: %d", res)
	}
	d.device = device
	d.hasDevice = true
	vk.InitDevice(device)

	var queue vk.Queue
	vk.GetDeviceQueue(device, d.queueFamily, 0, &queue)
	d.queue = queue
	return nil
}

func (d *Device) createCommandPool() error {
	createInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: d.queueFamily,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	var pool vk.CommandPool
	if res := vk.CreateCommandPool(d.device, &createInfo, nil, &pool); res != vk.Success {
		return fmt.Errorf("vkCreateCommandPool failed: %d", res)
	}
	d.commandPool = pool
	return nil
}

// Dispatch runs work(i) for every i in [0, n) on the host, split across
// d.streams goroutines, and returns when all of them finish. The kernel
// body is the Go closure C6/C8/C9 pass in; no command buffer is
// recorded or submitted to the device's compute queue and there is no
// compute shader to bind.
func (d *Device) Dispatch(n int, work func(i int)) {
	if n <= 0 {
		return
	}
	streams := d.streams
	if streams > n {
		streams = n
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

func (d *Device) destroyLogicalDevice() {
	if !d.hasDevice {
		return
	}
	vk.DestroyCommandPool(d.device, d.commandPool, nil)
	vk.DestroyDevice(d.device, nil)
	d.hasDevice = false
}

func (d *Device) destroyInstance() {
	if !d.hasInstance {
		return
	}
	vk.DestroyInstance(d.instance, nil)
	d.hasInstance = false
}

// Close releases the device, command pool and instance.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyLogicalDevice()
	d.destroyInstance()
}
