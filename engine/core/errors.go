package core

import (
	"errors"
)

var (
	ErrSwapchainRebuild     = errors.New("swapchain out of date or suboptimal, rebuild pending")
	ErrGLFWInit             = errors.New("failed to initialize glfw")
	ErrVulkanNotSupported   = errors.New("glfw: vulkan not supported")
	ErrNoPhysicalDevice     = errors.New("no devices which support Vulkan were found")
	ErrNoGraphicsQueue      = errors.New("no queue family with graphics support")
	ErrNoWSISupport         = errors.New("no WSI support on the selected physical device")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrCommandBufferState   = errors.New("command buffer in the wrong state")
)
