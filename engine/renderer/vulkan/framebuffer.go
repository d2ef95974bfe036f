package vulkan

import (
	vk "github.com/goki/vulkan"
)

func FramebufferCreate(context *VulkanContext, renderpass vk.RenderPass, width, height uint32, attachments []vk.ImageView) (vk.Framebuffer, error) {
	framebufferCreateInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderpass,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           width,
		Height:          height,
		Layers:          1,
	}

	var framebuffer vk.Framebuffer
	if err := CheckResult("vkCreateFramebuffer", vk.CreateFramebuffer(context.Device, &framebufferCreateInfo, context.Allocator, &framebuffer)); err != nil {
		return vk.NullFramebuffer, err
	}
	return framebuffer, nil
}

func FramebufferDestroy(context *VulkanContext, framebuffer vk.Framebuffer) {
	if framebuffer != vk.NullFramebuffer {
		vk.DestroyFramebuffer(context.Device, framebuffer, context.Allocator)
	}
}
