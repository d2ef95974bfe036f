package vulkan

import (
	vk "github.com/goki/vulkan"
)

// RenderpassCreate builds a single-subpass pass with one colour attachment that
// ends in the present layout.
func RenderpassCreate(context *VulkanContext, format vk.Format, clearEnable bool) (vk.RenderPass, error) {
	loadOp := vk.AttachmentLoadOpDontCare
	if clearEnable {
		loadOp = vk.AttachmentLoadOpClear
	}

	colorAttachment := vk.AttachmentDescription{
		Format:         format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         loadOp,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,  // Do not expect any particular layout before render pass starts.
		FinalLayout:    vk.ImageLayoutPresentSrc, // Transitioned to after the render pass
	}

	colorAttachmentReference := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments:    colorAttachmentReference,
	}

	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
	}

	renderPassCreateInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 1,
		PAttachments:    []vk.AttachmentDescription{colorAttachment},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}

	var renderPass vk.RenderPass
	if err := CheckResult("vkCreateRenderPass", vk.CreateRenderPass(context.Device, &renderPassCreateInfo, context.Allocator, &renderPass)); err != nil {
		return vk.NullRenderPass, err
	}
	return renderPass, nil
}

func RenderpassDestroy(context *VulkanContext, renderPass vk.RenderPass) {
	if renderPass != vk.NullRenderPass {
		vk.DestroyRenderPass(context.Device, renderPass, context.Allocator)
	}
}

// RenderpassBegin starts the pass over the full framebuffer, clearing it with clearValue.
func RenderpassBegin(commandBuffer *VulkanCommandBuffer, renderPass vk.RenderPass, framebuffer vk.Framebuffer, width, height uint32, clearValue vk.ClearValue) error {
	if err := commandBuffer.ExpectState("vkCmdBeginRenderPass", COMMAND_BUFFER_STATE_RECORDING); err != nil {
		return err
	}
	beginInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  renderPass,
		Framebuffer: framebuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: vk.Extent2D{Width: width, Height: height},
		},
		ClearValueCount: 1,
		PClearValues:    []vk.ClearValue{clearValue},
	}
	vk.CmdBeginRenderPass(commandBuffer.Handle, &beginInfo, vk.SubpassContentsInline)
	commandBuffer.State = COMMAND_BUFFER_STATE_IN_RENDER_PASS
	return nil
}

func RenderpassEnd(commandBuffer *VulkanCommandBuffer) error {
	if err := commandBuffer.ExpectState("vkCmdEndRenderPass", COMMAND_BUFFER_STATE_IN_RENDER_PASS); err != nil {
		return err
	}
	vk.CmdEndRenderPass(commandBuffer.Handle)
	commandBuffer.State = COMMAND_BUFFER_STATE_RECORDING
	return nil
}
