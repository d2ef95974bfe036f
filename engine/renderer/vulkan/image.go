package vulkan

import (
	vk "github.com/goki/vulkan"
)

type VulkanImage struct {
	Handle vk.Image
	Memory vk.DeviceMemory
	View   vk.ImageView
	Width  uint32
	Height uint32
}

// ImageCreate allocates a 2D, single-mip image backed by its own memory and creates a colour view for it.
func ImageCreate(context *VulkanContext, width, height uint32, format vk.Format, usage vk.ImageUsageFlagBits, memoryFlags vk.MemoryPropertyFlagBits) (*VulkanImage, error) {
	outImage := &VulkanImage{
		Width:  width,
		Height: height,
	}

	imageCreateInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    format,
		Extent: vk.Extent3D{
			Width:  width,
			Height: height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         vk.ImageUsageFlags(usage),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}

	var image vk.Image
	if err := CheckResult("vkCreateImage", vk.CreateImage(context.Device, &imageCreateInfo, context.Allocator, &image)); err != nil {
		return nil, err
	}
	outImage.Handle = image

	var memoryRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(context.Device, outImage.Handle, &memoryRequirements)
	memoryRequirements.Deref()

	memoryType, err := context.FindMemoryIndex(memoryRequirements.MemoryTypeBits, vk.MemoryPropertyFlags(memoryFlags))
	if err != nil {
		outImage.Destroy(context)
		return nil, err
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memoryRequirements.Size,
		MemoryTypeIndex: memoryType,
	}
	var memory vk.DeviceMemory
	if err := CheckResult("vkAllocateMemory", vk.AllocateMemory(context.Device, &allocInfo, context.Allocator, &memory)); err != nil {
		outImage.Destroy(context)
		return nil, err
	}
	outImage.Memory = memory

	if err := CheckResult("vkBindImageMemory", vk.BindImageMemory(context.Device, outImage.Handle, outImage.Memory, 0)); err != nil {
		outImage.Destroy(context)
		return nil, err
	}

	view, err := ImageViewCreate(context, outImage.Handle, format)
	if err != nil {
		outImage.Destroy(context)
		return nil, err
	}
	outImage.View = view
	return outImage, nil
}

// ImageViewCreate creates a 2D colour view over the whole image.
func ImageViewCreate(context *VulkanContext, image vk.Image, format vk.Format) (vk.ImageView, error) {
	viewCreateInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleR,
			G: vk.ComponentSwizzleG,
			B: vk.ComponentSwizzleB,
			A: vk.ComponentSwizzleA,
		},
		SubresourceRange: colorSubresourceRange(),
	}

	var view vk.ImageView
	if err := CheckResult("vkCreateImageView", vk.CreateImageView(context.Device, &viewCreateInfo, context.Allocator, &view)); err != nil {
		return vk.NullImageView, err
	}
	return view, nil
}

func ImageViewDestroy(context *VulkanContext, view vk.ImageView) {
	if view != vk.NullImageView {
		vk.DestroyImageView(context.Device, view, context.Allocator)
	}
}

// TransitionLayout records a pipeline barrier moving the image between layouts.
func (vi *VulkanImage) TransitionLayout(commandBuffer *VulkanCommandBuffer, oldLayout, newLayout vk.ImageLayout, srcAccess, dstAccess vk.AccessFlagBits, srcStage, dstStage vk.PipelineStageFlagBits) {
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       vk.AccessFlags(srcAccess),
		DstAccessMask:       vk.AccessFlags(dstAccess),
		OldLayout:           oldLayout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               vi.Handle,
		SubresourceRange:    colorSubresourceRange(),
	}
	vk.CmdPipelineBarrier(commandBuffer.Handle,
		vk.PipelineStageFlags(srcStage), vk.PipelineStageFlags(dstStage), 0,
		0, nil,
		0, nil,
		1, []vk.ImageMemoryBarrier{barrier})
}

// CopyFromBuffer records a copy of tightly packed pixels from buffer into the image.
func (vi *VulkanImage) CopyFromBuffer(commandBuffer *VulkanCommandBuffer, buffer vk.Buffer) {
	region := vk.BufferImageCopy{
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LayerCount: 1,
		},
		ImageExtent: vk.Extent3D{
			Width:  vi.Width,
			Height: vi.Height,
			Depth:  1,
		},
	}
	vk.CmdCopyBufferToImage(commandBuffer.Handle, buffer, vi.Handle, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{region})
}

func (vi *VulkanImage) Destroy(context *VulkanContext) {
	ImageViewDestroy(context, vi.View)
	vi.View = vk.NullImageView
	if vi.Handle != vk.NullImage {
		vk.DestroyImage(context.Device, vi.Handle, context.Allocator)
		vi.Handle = vk.NullImage
	}
	if vi.Memory != vk.NullDeviceMemory {
		vk.FreeMemory(context.Device, vi.Memory, context.Allocator)
		vi.Memory = vk.NullDeviceMemory
	}
}

func colorSubresourceRange() vk.ImageSubresourceRange {
	return vk.ImageSubresourceRange{
		AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
		BaseMipLevel:   0,
		LevelCount:     1,
		BaseArrayLayer: 0,
		LayerCount:     1,
	}
}

// SamplerCreate creates a linear, repeating sampler with no anisotropy.
func SamplerCreate(context *VulkanContext) (vk.Sampler, error) {
	samplerInfo := vk.SamplerCreateInfo{
		SType:         vk.StructureTypeSamplerCreateInfo,
		MagFilter:     vk.FilterLinear,
		MinFilter:     vk.FilterLinear,
		MipmapMode:    vk.SamplerMipmapModeLinear,
		AddressModeU:  vk.SamplerAddressModeRepeat,
		AddressModeV:  vk.SamplerAddressModeRepeat,
		AddressModeW:  vk.SamplerAddressModeRepeat,
		MinLod:        -1000,
		MaxLod:        1000,
		MaxAnisotropy: 1.0,
	}
	var sampler vk.Sampler
	if err := CheckResult("vkCreateSampler", vk.CreateSampler(context.Device, &samplerInfo, context.Allocator, &sampler)); err != nil {
		return vk.NullSampler, err
	}
	return sampler, nil
}

func SamplerDestroy(context *VulkanContext, sampler vk.Sampler) {
	if sampler != vk.NullSampler {
		vk.DestroySampler(context.Device, sampler, context.Allocator)
	}
}
