package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-imgui/engine/core"
)

// FrameRender acquires the next swapchain image and records and submits one
// frame into it. record is called inside the render pass. When the swapchain
// is out of date nothing is submitted and core.ErrSwapchainRebuild is returned.
func FrameRender(context *VulkanContext, wd *WindowData, record func(commandBuffer *VulkanCommandBuffer) error) error {
	semaphores := &wd.FrameSemaphores[wd.SemaphoreIndex]

	var imageIndex uint32
	result := vk.AcquireNextImage(context.Device, wd.Swapchain, vk.MaxUint64, semaphores.ImageAcquiredSemaphore, vk.NullFence, &imageIndex)
	if needsRebuild(result) {
		return core.ErrSwapchainRebuild
	}
	if err := CheckResult("vkAcquireNextImageKHR", result); err != nil {
		return err
	}
	wd.FrameIndex = imageIndex

	frame := wd.CurrentFrame()
	// wait indefinitely instead of periodically checking
	if err := frame.Fence.FenceWait(context, vk.MaxUint64); err != nil {
		return err
	}
	if err := frame.Fence.FenceReset(context); err != nil {
		return err
	}

	if err := CommandPoolReset(context, frame.CommandPool); err != nil {
		return err
	}
	frame.CommandBuffer.Reset()
	if err := frame.CommandBuffer.Begin(true, false, false); err != nil {
		return err
	}

	if err := RenderpassBegin(frame.CommandBuffer, wd.RenderPass, frame.Framebuffer, uint32(wd.Width), uint32(wd.Height), wd.ClearValue); err != nil {
		return err
	}
	if record != nil {
		if err := record(frame.CommandBuffer); err != nil {
			return err
		}
	}
	if err := RenderpassEnd(frame.CommandBuffer); err != nil {
		return err
	}

	if err := frame.CommandBuffer.End(); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{semaphores.ImageAcquiredSemaphore},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{frame.CommandBuffer.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{semaphores.RenderCompleteSemaphore},
	}
	if err := CheckResult("vkQueueSubmit", vk.QueueSubmit(context.Queue, 1, []vk.SubmitInfo{submitInfo}, frame.Fence.Handle)); err != nil {
		return err
	}
	frame.CommandBuffer.UpdateSubmitted()
	return nil
}

// FramePresent queues the current image for presentation and advances the
// semaphore ring. An out-of-date swapchain yields core.ErrSwapchainRebuild.
func FramePresent(context *VulkanContext, wd *WindowData) error {
	semaphores := &wd.FrameSemaphores[wd.SemaphoreIndex]

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{semaphores.RenderCompleteSemaphore},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{wd.Swapchain},
		PImageIndices:      []uint32{wd.FrameIndex},
	}
	result := vk.QueuePresent(context.Queue, &presentInfo)
	if needsRebuild(result) {
		return core.ErrSwapchainRebuild
	}
	if err := CheckResult("vkQueuePresentKHR", result); err != nil {
		return err
	}

	wd.SemaphoreIndex = nextSemaphoreIndex(wd.SemaphoreIndex, wd.ImageCount)
	return nil
}

// nextSemaphoreIndex advances the semaphore ring, wrapping at count.
func nextSemaphoreIndex(current, count uint32) uint32 {
	if count == 0 {
		return 0
	}
	return (current + 1) % count
}
