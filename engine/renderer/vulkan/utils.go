package vulkan

import (
	"fmt"
	"strings"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-imgui/engine/core"
)

var resultNames = map[vk.Result]string{
	// Success codes
	vk.Success:    "VK_SUCCESS",
	vk.NotReady:   "VK_NOT_READY",
	vk.Timeout:    "VK_TIMEOUT",
	vk.EventSet:   "VK_EVENT_SET",
	vk.EventReset: "VK_EVENT_RESET",
	vk.Incomplete: "VK_INCOMPLETE",
	vk.Suboptimal: "VK_SUBOPTIMAL_KHR",

	// Error codes
	vk.ErrorOutOfHostMemory:       "VK_ERROR_OUT_OF_HOST_MEMORY",
	vk.ErrorOutOfDeviceMemory:     "VK_ERROR_OUT_OF_DEVICE_MEMORY",
	vk.ErrorInitializationFailed:  "VK_ERROR_INITIALIZATION_FAILED",
	vk.ErrorDeviceLost:            "VK_ERROR_DEVICE_LOST",
	vk.ErrorMemoryMapFailed:       "VK_ERROR_MEMORY_MAP_FAILED",
	vk.ErrorLayerNotPresent:       "VK_ERROR_LAYER_NOT_PRESENT",
	vk.ErrorExtensionNotPresent:   "VK_ERROR_EXTENSION_NOT_PRESENT",
	vk.ErrorFeatureNotPresent:     "VK_ERROR_FEATURE_NOT_PRESENT",
	vk.ErrorIncompatibleDriver:    "VK_ERROR_INCOMPATIBLE_DRIVER",
	vk.ErrorTooManyObjects:        "VK_ERROR_TOO_MANY_OBJECTS",
	vk.ErrorFormatNotSupported:    "VK_ERROR_FORMAT_NOT_SUPPORTED",
	vk.ErrorFragmentedPool:        "VK_ERROR_FRAGMENTED_POOL",
	vk.ErrorSurfaceLost:           "VK_ERROR_SURFACE_LOST_KHR",
	vk.ErrorNativeWindowInUse:     "VK_ERROR_NATIVE_WINDOW_IN_USE_KHR",
	vk.ErrorOutOfDate:             "VK_ERROR_OUT_OF_DATE_KHR",
	vk.ErrorIncompatibleDisplay:   "VK_ERROR_INCOMPATIBLE_DISPLAY_KHR",
	vk.ErrorFragmentation:         "VK_ERROR_FRAGMENTATION",
	vk.ErrorUnknown:               "VK_ERROR_UNKNOWN",
	vk.ErrorInvalidShaderNv:       "VK_ERROR_INVALID_SHADER_NV",
	vk.ErrorOutOfPoolMemory:       "VK_ERROR_OUT_OF_POOL_MEMORY",
	vk.ErrorInvalidExternalHandle: "VK_ERROR_INVALID_EXTERNAL_HANDLE",
}

// VulkanResultString returns the symbolic name of a result code.
func VulkanResultString(result vk.Result) string {
	if name, ok := resultNames[result]; ok {
		return name
	}
	return fmt.Sprintf("VkResult(%d)", int32(result))
}

// ResultError is a negative (fatal) result returned by the driver.
type ResultError struct {
	Code vk.Result
	Op   string
}

func (e *ResultError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("[vulkan] Error: VkResult = %d (%s)", int32(e.Code), VulkanResultString(e.Code))
	}
	return fmt.Sprintf("[vulkan] %s: VkResult = %d (%s)", e.Op, int32(e.Code), VulkanResultString(e.Code))
}

// CheckResult maps a result code to an error. Success is nil, positive codes
// are logged as warnings and tolerated, negative codes yield a *ResultError.
func CheckResult(op string, result vk.Result) error {
	if result == vk.Success {
		return nil
	}
	if result > 0 {
		core.LogWarn("[vulkan] %s: VkResult = %d (%s)", op, int32(result), VulkanResultString(result))
		return nil
	}
	err := &ResultError{Code: result, Op: op}
	core.LogError(err.Error())
	return err
}

// needsRebuild reports whether the swapchain no longer matches the surface.
func needsRebuild(result vk.Result) bool {
	return result == vk.ErrorOutOfDate || result == vk.Suboptimal
}

var end = "\x00"
var endChar byte = '\x00'

func VulkanSafeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != endChar {
		return s + end
	}
	return s
}

// VulkanSafeStrings returns a null-terminated copy of list.
func VulkanSafeStrings(list []string) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = VulkanSafeString(list[i])
	}
	return out
}

// containsName reports whether name is one of the fixed-size, null-padded names.
func containsName(names [][]byte, name string) bool {
	name = strings.TrimRight(name, end)
	for _, n := range names {
		if vk.ToString(n) == name {
			return true
		}
	}
	return false
}
