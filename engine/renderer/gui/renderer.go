package gui

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/inkyblackness/imgui-go/v4"
	"github.com/spaghettifunk/anima-imgui/engine/core"
	"github.com/spaghettifunk/anima-imgui/engine/renderer/vulkan"
)

const (
	vertexShaderFile   = "imgui.vert.spv"
	fragmentShaderFile = "imgui.frag.spv"

	fontTextureID = imgui.TextureID(1)
	// scale (vec2) + translate (vec2)
	pushConstantSize = 4 * 4
)

var ErrShadersNotBuilt = errors.New("gui shaders not compiled")

type InitInfo struct {
	Context       *vulkan.VulkanContext
	MinImageCount uint32
	ImageCount    uint32
	// Directory holding the compiled GUI shaders.
	ShaderDir string
}

// frameRenderBuffers are the host-visible geometry buffers of one in-flight frame.
type frameRenderBuffers struct {
	vertex *vulkan.VulkanBuffer
	index  *vulkan.VulkanBuffer
}

// VulkanRenderer records GUI draw data into a command buffer inside the window's render pass.
type VulkanRenderer struct {
	info       InitInfo
	renderPass vk.RenderPass

	vertexStage   *vulkan.VulkanShaderStage
	fragmentStage *vulkan.VulkanShaderStage

	sampler             vk.Sampler
	descriptorSetLayout vk.DescriptorSetLayout
	descriptorSet       vk.DescriptorSet
	pipeline            *vulkan.VulkanPipeline

	fontImage    *vulkan.VulkanImage
	uploadBuffer *vulkan.VulkanBuffer

	frameBuffers []frameRenderBuffers
	frameIndex   int
}

func NewVulkanRenderer(info InitInfo, renderPass vk.RenderPass) (*VulkanRenderer, error) {
	if info.Context == nil || info.Context.Device == nil {
		return nil, fmt.Errorf("gui renderer: vulkan device not initialized")
	}
	if info.MinImageCount < 2 {
		return nil, fmt.Errorf("%w: gui renderer needs at least 2 images, got %d", core.ErrInvalidConfiguration, info.MinImageCount)
	}
	if info.ImageCount < info.MinImageCount {
		info.ImageCount = info.MinImageCount
	}

	r := &VulkanRenderer{
		info:       info,
		renderPass: renderPass,
	}
	if err := r.createDeviceObjects(); err != nil {
		r.Shutdown()
		return nil, err
	}
	return r, nil
}

// shaderPaths returns the compiled GUI shaders in dir. Missing files mean the
// GLSL sources were never compiled.
func shaderPaths(dir string) (string, string, error) {
	vertexPath := filepath.Join(dir, vertexShaderFile)
	fragmentPath := filepath.Join(dir, fragmentShaderFile)
	for _, path := range []string{vertexPath, fragmentPath} {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", "", fmt.Errorf("%w: %s not found, run `mage build:shaders` or `go generate .`", ErrShadersNotBuilt, path)
			}
			return "", "", err
		}
	}
	return vertexPath, fragmentPath, nil
}

func (r *VulkanRenderer) createDeviceObjects() error {
	context := r.info.Context

	vertexPath, fragmentPath, err := shaderPaths(r.info.ShaderDir)
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	if r.vertexStage, err = vulkan.NewShaderStage(context, vertexPath, vk.ShaderStageVertexBit); err != nil {
		return err
	}
	if r.fragmentStage, err = vulkan.NewShaderStage(context, fragmentPath, vk.ShaderStageFragmentBit); err != nil {
		return err
	}

	if r.sampler, err = vulkan.SamplerCreate(context); err != nil {
		return err
	}
	if r.descriptorSetLayout, err = vulkan.CombinedImageSamplerLayoutCreate(context, vk.ShaderStageFragmentBit, r.sampler); err != nil {
		return err
	}
	if r.descriptorSet, err = vulkan.DescriptorSetAllocate(context, r.descriptorSetLayout); err != nil {
		return err
	}

	vertexSize, posOffset, uvOffset, colOffset := imgui.VertexBufferLayout()
	r.pipeline, err = vulkan.NewGraphicsPipeline(context, &vulkan.VulkanPipelineConfig{
		Renderpass: r.renderPass,
		Stride:     uint32(vertexSize),
		Attributes: []vk.VertexInputAttributeDescription{
			{Location: 0, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: uint32(posOffset)},
			{Location: 1, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: uint32(uvOffset)},
			{Location: 2, Binding: 0, Format: vk.FormatR8g8b8a8Unorm, Offset: uint32(colOffset)},
		},
		DescriptorSetLayouts: []vk.DescriptorSetLayout{r.descriptorSetLayout},
		Stages: []vk.PipelineShaderStageCreateInfo{
			r.vertexStage.ShaderStageCreateInfo,
			r.fragmentStage.ShaderStageCreateInfo,
		},
		PushConstantRanges: []vk.PushConstantRange{{
			StageFlags: vk.ShaderStageFlags(vk.ShaderStageVertexBit),
			Offset:     0,
			Size:       pushConstantSize,
		}},
	})
	return err
}

// CreateFontsTexture records the font atlas upload into commandBuffer. The
// staging buffer lives until DestroyFontUploadObjects.
func (r *VulkanRenderer) CreateFontsTexture(atlas imgui.FontAtlas, commandBuffer *vulkan.VulkanCommandBuffer) error {
	context := r.info.Context

	texture := atlas.TextureDataRGBA32()
	uploadSize := texture.Width * texture.Height * 4
	if uploadSize <= 0 {
		return fmt.Errorf("font atlas is empty")
	}

	var err error
	r.fontImage, err = vulkan.ImageCreate(context, uint32(texture.Width), uint32(texture.Height), vk.FormatR8g8b8a8Unorm,
		vk.ImageUsageSampledBit|vk.ImageUsageTransferDstBit, vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		return err
	}
	vulkan.DescriptorSetWriteImage(context, r.descriptorSet, r.sampler, r.fontImage.View)

	r.uploadBuffer, err = vulkan.BufferCreate(context, vk.DeviceSize(uploadSize), vk.BufferUsageTransferSrcBit,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		return err
	}
	if err := r.uploadBuffer.Upload(context, unsafe.Slice((*byte)(texture.Pixels), uploadSize)); err != nil {
		return err
	}

	r.fontImage.TransitionLayout(commandBuffer, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal,
		0, vk.AccessTransferWriteBit,
		vk.PipelineStageHostBit, vk.PipelineStageTransferBit)
	r.fontImage.CopyFromBuffer(commandBuffer, r.uploadBuffer.Handle)
	r.fontImage.TransitionLayout(commandBuffer, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal,
		vk.AccessTransferWriteBit, vk.AccessShaderReadBit,
		vk.PipelineStageTransferBit, vk.PipelineStageFragmentShaderBit)

	atlas.SetTextureID(fontTextureID)
	core.LogDebug("Font atlas %dx%d recorded for upload.", texture.Width, texture.Height)
	return nil
}

// DestroyFontUploadObjects frees the staging buffer once the upload has completed.
func (r *VulkanRenderer) DestroyFontUploadObjects() {
	if r.uploadBuffer != nil {
		r.uploadBuffer.Destroy(r.info.Context)
		r.uploadBuffer = nil
	}
}

// SetMinImageCount drops the per-frame buffers when the swapchain image count requirement changes.
func (r *VulkanRenderer) SetMinImageCount(minImageCount uint32) error {
	if minImageCount < 2 {
		return fmt.Errorf("%w: min image count %d", core.ErrInvalidConfiguration, minImageCount)
	}
	if r.info.MinImageCount == minImageCount {
		return nil
	}
	if err := r.info.Context.DeviceWaitIdle(); err != nil {
		return err
	}
	r.destroyFrameBuffers()
	r.info.MinImageCount = minImageCount
	return nil
}

// SetImageCount resizes the ring of per-frame buffers to match the swapchain.
func (r *VulkanRenderer) SetImageCount(imageCount uint32) error {
	if imageCount < r.info.MinImageCount {
		imageCount = r.info.MinImageCount
	}
	if r.info.ImageCount == imageCount {
		return nil
	}
	if err := r.info.Context.DeviceWaitIdle(); err != nil {
		return err
	}
	r.destroyFrameBuffers()
	r.info.ImageCount = imageCount
	return nil
}

// NewFrame exists for symmetry with the platform backend; device objects are created up front.
func (r *VulkanRenderer) NewFrame() {}

// RenderDrawData uploads the frame's geometry and records the draw commands.
// It must be called inside the render pass the renderer was created for.
func (r *VulkanRenderer) RenderDrawData(drawData imgui.DrawData, commandBuffer *vulkan.VulkanCommandBuffer, displaySize, framebufferSize [2]float32) error {
	if err := commandBuffer.ExpectState("RenderDrawData", vulkan.COMMAND_BUFFER_STATE_IN_RENDER_PASS); err != nil {
		return err
	}
	if !drawData.Valid() || framebufferSize[0] <= 0 || framebufferSize[1] <= 0 {
		return nil
	}

	lists := drawData.CommandLists()
	vertexBytes, indexBytes := 0, 0
	for _, list := range lists {
		_, vertexSize := list.VertexBuffer()
		_, indexSize := list.IndexBuffer()
		vertexBytes += vertexSize
		indexBytes += indexSize
	}
	if vertexBytes == 0 || indexBytes == 0 {
		return nil
	}

	if len(r.frameBuffers) == 0 {
		r.frameBuffers = make([]frameRenderBuffers, r.info.ImageCount)
		r.frameIndex = 0
	}
	buffers := &r.frameBuffers[r.frameIndex]
	r.frameIndex = (r.frameIndex + 1) % len(r.frameBuffers)

	if err := r.uploadGeometry(buffers, lists, vertexBytes, indexBytes); err != nil {
		return err
	}

	r.setupRenderState(commandBuffer, buffers, displaySize, framebufferSize)

	vertexStride, _, _, _ := imgui.VertexBufferLayout()
	indexStride := imgui.IndexBufferLayout()
	clipScale := framebufferScale(displaySize, framebufferSize)
	clipOffset := [2]float32{0, 0}

	var offsets drawOffsets
	for _, list := range lists {
		for _, command := range list.Commands() {
			if command.HasUserCallback() {
				command.CallUserCallback(list)
				continue
			}
			scissor, ok := clipToScissor(command.ClipRect(), clipOffset, clipScale, framebufferSize)
			if !ok {
				continue
			}
			call := offsets.call(command.ElementCount(), command.IndexOffset(), command.VertexOffset())
			vk.CmdSetScissor(commandBuffer.Handle, 0, 1, []vk.Rect2D{scissor})
			vk.CmdDrawIndexed(commandBuffer.Handle, call.indexCount, 1, call.firstIndex, call.vertexOffset, 0)
		}
		_, vertexSize := list.VertexBuffer()
		_, indexSize := list.IndexBuffer()
		offsets = offsets.advance(vertexSize/vertexStride, indexSize/indexStride)
	}
	return nil
}

func (r *VulkanRenderer) uploadGeometry(buffers *frameRenderBuffers, lists []imgui.DrawList, vertexBytes, indexBytes int) error {
	context := r.info.Context

	var err error
	if buffers.vertex, err = r.ensureBuffer(buffers.vertex, vertexBytes, vk.BufferUsageVertexBufferBit); err != nil {
		return err
	}
	if buffers.index, err = r.ensureBuffer(buffers.index, indexBytes, vk.BufferUsageIndexBufferBit); err != nil {
		return err
	}

	vertexDst, err := buffers.vertex.Map(context)
	if err != nil {
		return err
	}
	indexDst, err := buffers.index.Map(context)
	if err != nil {
		buffers.vertex.Unmap(context)
		return err
	}

	vertexOffset, indexOffset := 0, 0
	for _, list := range lists {
		vertexData, vertexSize := list.VertexBuffer()
		indexData, indexSize := list.IndexBuffer()
		vk.Memcopy(unsafe.Add(vertexDst, vertexOffset), unsafe.Slice((*byte)(vertexData), vertexSize))
		vk.Memcopy(unsafe.Add(indexDst, indexOffset), unsafe.Slice((*byte)(indexData), indexSize))
		vertexOffset += vertexSize
		indexOffset += indexSize
	}

	buffers.vertex.Unmap(context)
	buffers.index.Unmap(context)
	return nil
}

// ensureBuffer returns buffer when it can hold size bytes, otherwise a larger replacement.
func (r *VulkanRenderer) ensureBuffer(buffer *vulkan.VulkanBuffer, size int, usage vk.BufferUsageFlagBits) (*vulkan.VulkanBuffer, error) {
	if buffer != nil && buffer.Size >= vk.DeviceSize(size) {
		return buffer, nil
	}
	if buffer != nil {
		buffer.Destroy(r.info.Context)
	}
	return vulkan.BufferCreate(r.info.Context, vk.DeviceSize(size), usage,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
}

func (r *VulkanRenderer) setupRenderState(commandBuffer *vulkan.VulkanCommandBuffer, buffers *frameRenderBuffers, displaySize, framebufferSize [2]float32) {
	cb := commandBuffer.Handle

	r.pipeline.Bind(commandBuffer, vk.PipelineBindPointGraphics)
	vk.CmdBindDescriptorSets(cb, vk.PipelineBindPointGraphics, r.pipeline.PipelineLayout, 0, 1,
		[]vk.DescriptorSet{r.descriptorSet}, 0, nil)

	vk.CmdBindVertexBuffers(cb, 0, 1, []vk.Buffer{buffers.vertex.Handle}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(cb, buffers.index.Handle, 0, indexTypeFor(imgui.IndexBufferLayout()))

	viewport := vk.Viewport{
		X:        0,
		Y:        0,
		Width:    framebufferSize[0],
		Height:   framebufferSize[1],
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	vk.CmdSetViewport(cb, 0, 1, []vk.Viewport{viewport})

	transform := scaleTranslate([2]float32{0, 0}, displaySize)
	vk.CmdPushConstants(cb, r.pipeline.PipelineLayout, vk.ShaderStageFlags(vk.ShaderStageVertexBit), 0, pushConstantSize, unsafe.Pointer(&transform[0]))
}

func (r *VulkanRenderer) destroyFrameBuffers() {
	for i := range r.frameBuffers {
		if r.frameBuffers[i].vertex != nil {
			r.frameBuffers[i].vertex.Destroy(r.info.Context)
		}
		if r.frameBuffers[i].index != nil {
			r.frameBuffers[i].index.Destroy(r.info.Context)
		}
	}
	r.frameBuffers = nil
	r.frameIndex = 0
}

// Shutdown releases every device object the renderer created. Safe on a partially built renderer.
func (r *VulkanRenderer) Shutdown() {
	context := r.info.Context
	if context == nil || context.Device == nil {
		return
	}

	r.destroyFrameBuffers()
	r.DestroyFontUploadObjects()

	if r.fontImage != nil {
		r.fontImage.Destroy(context)
		r.fontImage = nil
	}
	if r.pipeline != nil {
		r.pipeline.Destroy(context)
		r.pipeline = nil
	}
	vulkan.DescriptorSetFree(context, r.descriptorSet)
	r.descriptorSet = vk.NullDescriptorSet
	if r.descriptorSetLayout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(context.Device, r.descriptorSetLayout, context.Allocator)
		r.descriptorSetLayout = vk.NullDescriptorSetLayout
	}
	vulkan.SamplerDestroy(context, r.sampler)
	r.sampler = vk.NullSampler
	if r.vertexStage != nil {
		r.vertexStage.Destroy(context)
		r.vertexStage = nil
	}
	if r.fragmentStage != nil {
		r.fragmentStage.Destroy(context)
		r.fragmentStage = nil
	}
}
