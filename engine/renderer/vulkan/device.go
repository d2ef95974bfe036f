package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-imgui/engine/core"
)

const portabilitySubsetExtensionName = "VK_KHR_portability_subset"

// SelectPhysicalDevice picks the first discrete GPU, falling back to the first device.
func SelectPhysicalDevice(context *VulkanContext) error {
	var count uint32
	if err := CheckResult("vkEnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(context.Instance, &count, nil)); err != nil {
		return err
	}
	if count == 0 {
		core.LogError(core.ErrNoPhysicalDevice.Error())
		return core.ErrNoPhysicalDevice
	}

	devices := make([]vk.PhysicalDevice, count)
	if err := CheckResult("vkEnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(context.Instance, &count, devices)); err != nil {
		return err
	}

	types := make([]vk.PhysicalDeviceType, len(devices))
	names := make([]string, len(devices))
	for i, device := range devices {
		var properties vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(device, &properties)
		properties.Deref()
		types[i] = properties.DeviceType
		names[i] = vk.ToString(properties.DeviceName[:])
	}

	index := selectPhysicalDeviceIndex(types)
	context.PhysicalDevice = devices[index]
	core.LogInfo("Selected device: '%s'.", names[index])
	return nil
}

// selectPhysicalDeviceIndex prefers the first discrete GPU. Some machines
// expose both integrated and dedicated GPUs.
func selectPhysicalDeviceIndex(types []vk.PhysicalDeviceType) int {
	for i, t := range types {
		if t == vk.PhysicalDeviceTypeDiscreteGpu {
			return i
		}
	}
	return 0
}

// SelectQueueFamily stores the index of the first queue family with graphics support.
func SelectQueueFamily(context *VulkanContext) error {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(context.PhysicalDevice, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(context.PhysicalDevice, &count, families)

	flags := make([]vk.QueueFlags, len(families))
	for i := range families {
		families[i].Deref()
		flags[i] = families[i].QueueFlags
	}

	index, ok := selectGraphicsQueueFamily(flags)
	if !ok {
		core.LogError(core.ErrNoGraphicsQueue.Error())
		return core.ErrNoGraphicsQueue
	}
	context.QueueFamily = index
	return nil
}

func selectGraphicsQueueFamily(flags []vk.QueueFlags) (uint32, bool) {
	for i, f := range flags {
		if f&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			return uint32(i), true
		}
	}
	return 0, false
}

// DeviceCreate creates the logical device with a single graphics queue.
func DeviceCreate(context *VulkanContext) error {
	core.LogInfo("Creating logical device...")

	deviceExtensions := []string{vk.KhrSwapchainExtensionName}

	available, err := deviceExtensionNames(context.PhysicalDevice)
	if err != nil {
		return err
	}
	if containsName(available, portabilitySubsetExtensionName) {
		core.LogInfo("Adding required extension '%s'.", portabilitySubsetExtensionName)
		deviceExtensions = append(deviceExtensions, portabilitySubsetExtensionName)
	}

	queueCreateInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: context.QueueFamily,
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		EnabledExtensionCount:   uint32(len(deviceExtensions)),
		PpEnabledExtensionNames: VulkanSafeStrings(deviceExtensions),
	}

	var device vk.Device
	if err := CheckResult("vkCreateDevice", vk.CreateDevice(context.PhysicalDevice, &deviceCreateInfo, context.Allocator, &device)); err != nil {
		return err
	}
	context.Device = device
	core.LogInfo("Logical device created.")

	var queue vk.Queue
	vk.GetDeviceQueue(context.Device, context.QueueFamily, 0, &queue)
	context.Queue = queue
	core.LogInfo("Queue obtained.")

	return nil
}

func DeviceDestroy(context *VulkanContext) {
	context.Queue = nil
	if context.Device != nil {
		core.LogInfo("Destroying logical device...")
		vk.DestroyDevice(context.Device, context.Allocator)
		context.Device = nil
	}
	context.PhysicalDevice = nil
}

func deviceExtensionNames(device vk.PhysicalDevice) ([][]byte, error) {
	var count uint32
	if err := CheckResult("vkEnumerateDeviceExtensionProperties", vk.EnumerateDeviceExtensionProperties(device, "", &count, nil)); err != nil {
		return nil, err
	}
	properties := make([]vk.ExtensionProperties, count)
	if count > 0 {
		if err := CheckResult("vkEnumerateDeviceExtensionProperties", vk.EnumerateDeviceExtensionProperties(device, "", &count, properties)); err != nil {
			return nil, err
		}
	}
	names := make([][]byte, len(properties))
	for i := range properties {
		properties[i].Deref()
		names[i] = properties[i].ExtensionName[:]
	}
	return names, nil
}

// SurfaceSupported reports whether the graphics queue family can present to surface.
func SurfaceSupported(context *VulkanContext, surface vk.Surface) (bool, error) {
	var supported vk.Bool32
	if err := CheckResult("vkGetPhysicalDeviceSurfaceSupportKHR",
		vk.GetPhysicalDeviceSurfaceSupport(context.PhysicalDevice, context.QueueFamily, surface, &supported)); err != nil {
		return false, fmt.Errorf("failed to query WSI support: %w", err)
	}
	return supported == vk.True, nil
}
