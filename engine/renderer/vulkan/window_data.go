package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-imgui/engine/core"
)

// VulkanFrame groups the objects used to record and submit one swapchain image.
type VulkanFrame struct {
	CommandPool    vk.CommandPool
	CommandBuffer  *VulkanCommandBuffer
	Fence          *VulkanFence
	Backbuffer     vk.Image
	BackbufferView vk.ImageView
	Framebuffer    vk.Framebuffer
}

type VulkanFrameSemaphores struct {
	ImageAcquiredSemaphore  vk.Semaphore
	RenderCompleteSemaphore vk.Semaphore
}

// WindowData is everything needed to present to one surface.
type WindowData struct {
	Width          int
	Height         int
	Swapchain      vk.Swapchain
	Surface        vk.Surface
	SurfaceFormat  vk.SurfaceFormat
	PresentMode    vk.PresentMode
	RenderPass     vk.RenderPass
	ClearEnable    bool
	ClearValue     vk.ClearValue
	FrameIndex     uint32
	ImageCount     uint32
	SemaphoreIndex uint32

	Frames          []VulkanFrame
	FrameSemaphores []VulkanFrameSemaphores
}

func NewWindowData(surface vk.Surface) *WindowData {
	return &WindowData{
		Surface:     surface,
		ClearEnable: true,
	}
}

var requestSurfaceImageFormats = []vk.Format{
	vk.FormatB8g8r8a8Unorm,
	vk.FormatR8g8b8a8Unorm,
	vk.FormatB8g8r8Unorm,
	vk.FormatR8g8b8Unorm,
}

// SetupVulkanWindow checks presentation support, picks the surface format and
// present mode, then builds the swapchain and its per-frame objects.
func SetupVulkanWindow(context *VulkanContext, wd *WindowData, width, height int, minImageCount uint32, unlimitedFrameRate bool) error {
	supported, err := SurfaceSupported(context, wd.Surface)
	if err != nil {
		return err
	}
	if !supported {
		core.LogError(core.ErrNoWSISupport.Error())
		return core.ErrNoWSISupport
	}

	format, err := SelectSurfaceFormat(context, wd.Surface, requestSurfaceImageFormats, vk.ColorSpaceSrgbNonlinear)
	if err != nil {
		return err
	}
	wd.SurfaceFormat = format

	mode, err := SelectPresentMode(context, wd.Surface, presentModeRequest(unlimitedFrameRate))
	if err != nil {
		return err
	}
	wd.PresentMode = mode
	core.LogDebug("[vulkan] Selected PresentMode = %d", mode)

	return CreateOrResizeWindow(context, wd, width, height, minImageCount)
}

// CreateOrResizeWindow (re)creates the swapchain and everything sized by it.
func CreateOrResizeWindow(context *VulkanContext, wd *WindowData, width, height int, minImageCount uint32) error {
	if minImageCount < 2 {
		return fmt.Errorf("%w: min image count %d, need at least 2", core.ErrInvalidConfiguration, minImageCount)
	}
	if err := context.DeviceWaitIdle(); err != nil {
		return err
	}

	destroyFrames(context, wd)
	destroyFrameSemaphores(context, wd)
	RenderpassDestroy(context, wd.RenderPass)
	wd.RenderPass = vk.NullRenderPass

	images, err := swapchainCreate(context, wd, uint32(width), uint32(height), minImageCount)
	if err != nil {
		return err
	}
	wd.ImageCount = uint32(len(images))
	wd.FrameIndex = 0
	wd.SemaphoreIndex = 0
	wd.Frames = make([]VulkanFrame, wd.ImageCount)
	wd.FrameSemaphores = make([]VulkanFrameSemaphores, wd.ImageCount)
	for i := range images {
		wd.Frames[i].Backbuffer = images[i]
	}

	if wd.RenderPass, err = RenderpassCreate(context, wd.SurfaceFormat.Format, wd.ClearEnable); err != nil {
		return err
	}

	for i := range wd.Frames {
		frame := &wd.Frames[i]
		if frame.BackbufferView, err = ImageViewCreate(context, frame.Backbuffer, wd.SurfaceFormat.Format); err != nil {
			return err
		}
		if frame.Framebuffer, err = FramebufferCreate(context, wd.RenderPass, uint32(wd.Width), uint32(wd.Height), []vk.ImageView{frame.BackbufferView}); err != nil {
			return err
		}
	}

	return createCommandBuffers(context, wd)
}

func createCommandBuffers(context *VulkanContext, wd *WindowData) error {
	var err error
	for i := range wd.Frames {
		frame := &wd.Frames[i]
		if frame.CommandPool, err = CommandPoolCreate(context); err != nil {
			return err
		}
		if frame.CommandBuffer, err = NewVulkanCommandBuffer(context, frame.CommandPool, true); err != nil {
			return err
		}
		if frame.Fence, err = NewFence(context, true); err != nil {
			return err
		}
	}
	for i := range wd.FrameSemaphores {
		semaphores := &wd.FrameSemaphores[i]
		if semaphores.ImageAcquiredSemaphore, err = semaphoreCreate(context); err != nil {
			return err
		}
		if semaphores.RenderCompleteSemaphore, err = semaphoreCreate(context); err != nil {
			return err
		}
	}
	return nil
}

// DestroyWindow releases the per-frame objects, render pass, swapchain and surface.
func DestroyWindow(context *VulkanContext, wd *WindowData) {
	if wd == nil {
		return
	}
	if context.Device != nil {
		// Errors here would only repeat what the render loop already reported.
		_ = context.DeviceWaitIdle()

		destroyFrames(context, wd)
		destroyFrameSemaphores(context, wd)
		RenderpassDestroy(context, wd.RenderPass)
		wd.RenderPass = vk.NullRenderPass
		if wd.Swapchain != vk.NullSwapchain {
			vk.DestroySwapchain(context.Device, wd.Swapchain, context.Allocator)
			wd.Swapchain = vk.NullSwapchain
		}
	}
	if wd.Surface != vk.NullSurface && context.Instance != nil {
		vk.DestroySurface(context.Instance, wd.Surface, nil)
		wd.Surface = vk.NullSurface
	}
}

func destroyFrames(context *VulkanContext, wd *WindowData) {
	for i := range wd.Frames {
		frame := &wd.Frames[i]
		if frame.Fence != nil {
			frame.Fence.FenceDestroy(context)
			frame.Fence = nil
		}
		if frame.CommandBuffer != nil {
			frame.CommandBuffer.Free(context, frame.CommandPool)
			frame.CommandBuffer = nil
		}
		if frame.CommandPool != vk.NullCommandPool {
			vk.DestroyCommandPool(context.Device, frame.CommandPool, context.Allocator)
			frame.CommandPool = vk.NullCommandPool
		}
		ImageViewDestroy(context, frame.BackbufferView)
		frame.BackbufferView = vk.NullImageView
		FramebufferDestroy(context, frame.Framebuffer)
		frame.Framebuffer = vk.NullFramebuffer
	}
	wd.Frames = nil
}

func destroyFrameSemaphores(context *VulkanContext, wd *WindowData) {
	for i := range wd.FrameSemaphores {
		semaphores := &wd.FrameSemaphores[i]
		semaphoreDestroy(context, semaphores.ImageAcquiredSemaphore)
		semaphoreDestroy(context, semaphores.RenderCompleteSemaphore)
		semaphores.ImageAcquiredSemaphore = vk.NullSemaphore
		semaphores.RenderCompleteSemaphore = vk.NullSemaphore
	}
	wd.FrameSemaphores = nil
}

func semaphoreCreate(context *VulkanContext) (vk.Semaphore, error) {
	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	var semaphore vk.Semaphore
	if err := CheckResult("vkCreateSemaphore", vk.CreateSemaphore(context.Device, &semaphoreCreateInfo, context.Allocator, &semaphore)); err != nil {
		return vk.NullSemaphore, err
	}
	return semaphore, nil
}

func semaphoreDestroy(context *VulkanContext, semaphore vk.Semaphore) {
	if semaphore != vk.NullSemaphore {
		vk.DestroySemaphore(context.Device, semaphore, context.Allocator)
	}
}

// SetClearColor stores an already premultiplied colour as the render pass clear value.
func (wd *WindowData) SetClearColor(color [4]float32) {
	wd.ClearValue.SetColor(color[:])
}

func (wd *WindowData) CurrentFrame() *VulkanFrame {
	return &wd.Frames[wd.FrameIndex]
}
