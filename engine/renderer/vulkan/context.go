package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-imgui/engine/core"
)

// VulkanContext holds the objects shared by every window: instance, device,
// graphics queue and the descriptor pool the GUI allocates from.
type VulkanContext struct {
	Allocator *vk.AllocationCallbacks

	Instance vk.Instance
	// Only created when Debug is set.
	debugReport vk.DebugReportCallback

	PhysicalDevice vk.PhysicalDevice
	Device         vk.Device
	QueueFamily    uint32
	Queue          vk.Queue
	PipelineCache  vk.PipelineCache
	DescriptorPool vk.DescriptorPool

	Debug bool
}

func NewVulkanContext(debug bool) *VulkanContext {
	return &VulkanContext{
		Allocator: nil,
		Debug:     debug,
	}
}

// DeviceWaitIdle blocks until the device has finished all submitted work.
func (vc *VulkanContext) DeviceWaitIdle() error {
	if vc.Device == nil {
		return nil
	}
	return CheckResult("vkDeviceWaitIdle", vk.DeviceWaitIdle(vc.Device))
}

func (vc *VulkanContext) FindMemoryIndex(typeFilter uint32, propertyFlags vk.MemoryPropertyFlags) (uint32, error) {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(vc.PhysicalDevice, &memoryProperties)
	memoryProperties.Deref()

	flags := make([]vk.MemoryPropertyFlags, memoryProperties.MemoryTypeCount)
	for i := range flags {
		memoryProperties.MemoryTypes[i].Deref()
		flags[i] = memoryProperties.MemoryTypes[i].PropertyFlags
	}

	index, ok := selectMemoryType(flags, typeFilter, propertyFlags)
	if !ok {
		err := fmt.Errorf("unable to find suitable memory type (filter %#x, flags %#x)", typeFilter, uint32(propertyFlags))
		core.LogWarn(err.Error())
		return 0, err
	}
	return index, nil
}

// selectMemoryType returns the first memory type allowed by typeFilter that has all wanted flags.
func selectMemoryType(types []vk.MemoryPropertyFlags, typeFilter uint32, want vk.MemoryPropertyFlags) (uint32, bool) {
	for i, flags := range types {
		// Check each memory type to see if its bit is set to 1.
		if typeFilter&(1<<uint(i)) != 0 && flags&want == want {
			return uint32(i), true
		}
	}
	return 0, false
}
