package vulkan

import (
	"fmt"
	stdmath "math"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-imgui/engine/core"
	"github.com/spaghettifunk/anima-imgui/engine/math"
)

type VulkanSwapchainSupportInfo struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

// DeviceQuerySwapchainSupport reads the surface capabilities, formats and present modes.
func DeviceQuerySwapchainSupport(context *VulkanContext, surface vk.Surface) (*VulkanSwapchainSupportInfo, error) {
	support := &VulkanSwapchainSupportInfo{}

	if err := CheckResult("vkGetPhysicalDeviceSurfaceCapabilitiesKHR",
		vk.GetPhysicalDeviceSurfaceCapabilities(context.PhysicalDevice, surface, &support.Capabilities)); err != nil {
		return nil, err
	}
	support.Capabilities.Deref()
	support.Capabilities.CurrentExtent.Deref()
	support.Capabilities.MinImageExtent.Deref()
	support.Capabilities.MaxImageExtent.Deref()

	var formatCount uint32
	if err := CheckResult("vkGetPhysicalDeviceSurfaceFormatsKHR",
		vk.GetPhysicalDeviceSurfaceFormats(context.PhysicalDevice, surface, &formatCount, nil)); err != nil {
		return nil, err
	}
	if formatCount > 0 {
		support.Formats = make([]vk.SurfaceFormat, formatCount)
		if err := CheckResult("vkGetPhysicalDeviceSurfaceFormatsKHR",
			vk.GetPhysicalDeviceSurfaceFormats(context.PhysicalDevice, surface, &formatCount, support.Formats)); err != nil {
			return nil, err
		}
		for i := range support.Formats {
			support.Formats[i].Deref()
		}
	}

	var modeCount uint32
	if err := CheckResult("vkGetPhysicalDeviceSurfacePresentModesKHR",
		vk.GetPhysicalDeviceSurfacePresentModes(context.PhysicalDevice, surface, &modeCount, nil)); err != nil {
		return nil, err
	}
	if modeCount > 0 {
		support.PresentModes = make([]vk.PresentMode, modeCount)
		if err := CheckResult("vkGetPhysicalDeviceSurfacePresentModesKHR",
			vk.GetPhysicalDeviceSurfacePresentModes(context.PhysicalDevice, surface, &modeCount, support.PresentModes)); err != nil {
			return nil, err
		}
	}
	return support, nil
}

// SelectSurfaceFormat picks the first requested format available in the wanted colour space.
func SelectSurfaceFormat(context *VulkanContext, surface vk.Surface, requestFormats []vk.Format, requestColorSpace vk.ColorSpace) (vk.SurfaceFormat, error) {
	support, err := DeviceQuerySwapchainSupport(context, surface)
	if err != nil {
		return vk.SurfaceFormat{}, err
	}
	if len(support.Formats) == 0 {
		err := fmt.Errorf("surface reports no formats")
		core.LogError(err.Error())
		return vk.SurfaceFormat{}, err
	}
	return selectSurfaceFormat(support.Formats, requestFormats, requestColorSpace), nil
}

// selectSurfaceFormat expects a non-empty available list. A lone UNDEFINED entry
// means the surface has no preferred format, so the first request is used as is.
func selectSurfaceFormat(available []vk.SurfaceFormat, requestFormats []vk.Format, requestColorSpace vk.ColorSpace) vk.SurfaceFormat {
	if len(available) == 1 {
		if available[0].Format == vk.FormatUndefined && len(requestFormats) > 0 {
			return vk.SurfaceFormat{Format: requestFormats[0], ColorSpace: requestColorSpace}
		}
		return available[0]
	}
	for _, request := range requestFormats {
		for _, format := range available {
			if format.Format == request && format.ColorSpace == requestColorSpace {
				return format
			}
		}
	}
	return available[0]
}

// SelectPresentMode picks the first requested mode the surface supports, FIFO otherwise.
func SelectPresentMode(context *VulkanContext, surface vk.Surface, requestModes []vk.PresentMode) (vk.PresentMode, error) {
	support, err := DeviceQuerySwapchainSupport(context, surface)
	if err != nil {
		return vk.PresentModeFifo, err
	}
	return selectPresentMode(support.PresentModes, requestModes), nil
}

func selectPresentMode(available, requestModes []vk.PresentMode) vk.PresentMode {
	for _, request := range requestModes {
		for _, mode := range available {
			if mode == request {
				return mode
			}
		}
	}
	// FIFO is always available.
	return vk.PresentModeFifo
}

// presentModeRequest lists the modes to try in order of preference.
func presentModeRequest(unlimitedFrameRate bool) []vk.PresentMode {
	if unlimitedFrameRate {
		return []vk.PresentMode{vk.PresentModeMailbox, vk.PresentModeImmediate, vk.PresentModeFifo}
	}
	return []vk.PresentMode{vk.PresentModeFifo}
}

// chooseImageCount clamps the requested count to the surface limits. A zero max means no limit.
func chooseImageCount(requested, capMin, capMax uint32) uint32 {
	if capMax == 0 {
		capMax = stdmath.MaxUint32
	}
	return math.Clamp(requested, capMin, capMax)
}

// chooseExtent uses the surface's current extent unless the surface lets the
// swapchain decide, in which case the window size is clamped to the limits.
func chooseExtent(capabilities *vk.SurfaceCapabilities, width, height uint32) vk.Extent2D {
	if capabilities.CurrentExtent.Width != stdmath.MaxUint32 {
		return vk.Extent2D{
			Width:  capabilities.CurrentExtent.Width,
			Height: capabilities.CurrentExtent.Height,
		}
	}
	return vk.Extent2D{
		Width:  math.Clamp(width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: math.Clamp(height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

// swapchainCreate replaces wd.Swapchain, destroying the previous one, and returns its images.
// On failure wd.Swapchain still holds the previous swapchain so DestroyWindow can release it.
func swapchainCreate(context *VulkanContext, wd *WindowData, width, height, minImageCount uint32) ([]vk.Image, error) {
	create := func(oldSwapchain vk.Swapchain) (vk.Swapchain, error) {
		support, err := DeviceQuerySwapchainSupport(context, wd.Surface)
		if err != nil {
			return vk.NullSwapchain, err
		}
		caps := &support.Capabilities

		imageCount := chooseImageCount(minImageCount, caps.MinImageCount, caps.MaxImageCount)
		extent := chooseExtent(caps, width, height)
		wd.Width = int(extent.Width)
		wd.Height = int(extent.Height)

		swapchainCreateInfo := vk.SwapchainCreateInfo{
			SType:            vk.StructureTypeSwapchainCreateInfo,
			Surface:          wd.Surface,
			MinImageCount:    imageCount,
			ImageFormat:      wd.SurfaceFormat.Format,
			ImageColorSpace:  wd.SurfaceFormat.ColorSpace,
			ImageExtent:      extent,
			ImageArrayLayers: 1,
			ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
			ImageSharingMode: vk.SharingModeExclusive,
			PreTransform:     vk.SurfaceTransformIdentityBit,
			CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
			PresentMode:      wd.PresentMode,
			Clipped:          vk.True,
			OldSwapchain:     oldSwapchain,
		}

		var swapchain vk.Swapchain
		if err := CheckResult("vkCreateSwapchainKHR", vk.CreateSwapchain(context.Device, &swapchainCreateInfo, context.Allocator, &swapchain)); err != nil {
			return vk.NullSwapchain, err
		}
		return swapchain, nil
	}
	destroy := func(oldSwapchain vk.Swapchain) {
		vk.DestroySwapchain(context.Device, oldSwapchain, context.Allocator)
	}
	if err := replaceHandle(&wd.Swapchain, vk.NullSwapchain, create, destroy); err != nil {
		return nil, err
	}

	var count uint32
	if err := CheckResult("vkGetSwapchainImagesKHR", vk.GetSwapchainImages(context.Device, wd.Swapchain, &count, nil)); err != nil {
		return nil, err
	}
	images := make([]vk.Image, count)
	if err := CheckResult("vkGetSwapchainImagesKHR", vk.GetSwapchainImages(context.Device, wd.Swapchain, &count, images)); err != nil {
		return nil, err
	}

	core.LogDebug("Swapchain created: %dx%d, %d images.", wd.Width, wd.Height, count)
	return images, nil
}

// replaceHandle stores the handle built by create in slot and destroys the one it
// replaces. A failed create leaves slot untouched.
func replaceHandle[H comparable](slot *H, null H, create func(old H) (H, error), destroy func(old H)) error {
	old := *slot
	created, err := create(old)
	if err != nil {
		return err
	}
	*slot = created
	if old != null {
		destroy(old)
	}
	return nil
}
