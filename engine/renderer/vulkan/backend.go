package vulkan

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-imgui/engine/core"
)

const validationLayerName = "VK_LAYER_KHRONOS_validation"

// SetupVulkan creates the instance, picks a GPU and its graphics queue, then
// creates the logical device and the shared descriptor pool.
func SetupVulkan(context *VulkanContext, applicationName string, extensions []string) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		err := fmt.Errorf("GetInstanceProcAddress is nil")
		core.LogError(err.Error())
		return err
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		core.LogError("failed to initialize vk: %s", err)
		return err
	}

	if err := createInstance(context, applicationName, extensions); err != nil {
		return err
	}
	if context.Debug {
		if err := createDebugReport(context); err != nil {
			return err
		}
	}
	if err := SelectPhysicalDevice(context); err != nil {
		return err
	}
	if err := SelectQueueFamily(context); err != nil {
		return err
	}
	if err := DeviceCreate(context); err != nil {
		return err
	}
	if err := DescriptorPoolCreate(context); err != nil {
		return err
	}
	return nil
}

// CleanupVulkan destroys what SetupVulkan created. Missing objects are skipped.
func CleanupVulkan(context *VulkanContext) {
	DescriptorPoolDestroy(context)

	if context.debugReport != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(context.Instance, context.debugReport, context.Allocator)
		context.debugReport = vk.NullDebugReportCallback
	}

	DeviceDestroy(context)

	if context.Instance != nil {
		vk.DestroyInstance(context.Instance, context.Allocator)
		context.Instance = nil
		core.LogInfo("Vulkan instance destroyed.")
	}
}

func createInstance(context *VulkanContext, applicationName string, extensions []string) error {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(applicationName),
		PEngineName:        VulkanSafeString("No Engine"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	requiredExtensions := append([]string{}, extensions...)
	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
		createInfo.Flags |= 1
	}

	var layers []string
	if context.Debug {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
		layers = []string{validationLayerName}

		available, err := instanceLayerNames()
		if err != nil {
			return err
		}
		if !containsName(available, validationLayerName) {
			core.LogWarn("Validation layer %s is not available, continuing without it.", validationLayerName)
			layers = nil
		}
	}

	for _, ext := range requiredExtensions {
		core.LogDebug("Required instance extension: %s", ext)
	}

	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)
	createInfo.EnabledLayerCount = uint32(len(layers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(layers)

	var instance vk.Instance
	if err := CheckResult("vkCreateInstance", vk.CreateInstance(&createInfo, context.Allocator, &instance)); err != nil {
		return err
	}
	context.Instance = instance

	if err := vk.InitInstance(context.Instance); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("Vulkan Instance created.")
	return nil
}

func instanceLayerNames() ([][]byte, error) {
	var count uint32
	if err := CheckResult("vkEnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, err
	}
	layers := make([]vk.LayerProperties, count)
	if err := CheckResult("vkEnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&count, layers)); err != nil {
		return nil, err
	}
	names := make([][]byte, len(layers))
	for i := range layers {
		layers[i].Deref()
		names[i] = layers[i].LayerName[:]
	}
	return names, nil
}

func createDebugReport(context *VulkanContext) error {
	core.LogDebug("Creating Vulkan debug report callback...")
	debugCreateInfo := vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
		PfnCallback: dbgCallbackFunc,
		PNext:       nil,
	}

	var dbg vk.DebugReportCallback
	if err := CheckResult("vkCreateDebugReportCallbackEXT", vk.CreateDebugReportCallback(context.Instance, &debugCreateInfo, context.Allocator, &dbg)); err != nil {
		return err
	}
	context.debugReport = dbg
	return nil
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("[vulkan] Debug report from ObjectType: %d\nMessage: %s", objectType, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("[vulkan] PERFORMANCE Debug report from ObjectType: %d\nMessage: %s", objectType, pMessage)
	default:
		core.LogWarn("[vulkan] Debug report from ObjectType: %d\nMessage: %s", objectType, pMessage)
	}
	return vk.Bool32(vk.False)
}
