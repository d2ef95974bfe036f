package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"
)

// VulkanBuffer is a buffer with its own dedicated allocation.
type VulkanBuffer struct {
	Handle vk.Buffer
	Memory vk.DeviceMemory
	// Allocation size, which may exceed the requested size.
	Size vk.DeviceSize
}

func BufferCreate(context *VulkanContext, size vk.DeviceSize, usage vk.BufferUsageFlagBits, memoryFlags vk.MemoryPropertyFlagBits) (*VulkanBuffer, error) {
	outBuffer := &VulkanBuffer{}

	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       vk.BufferUsageFlags(usage),
		SharingMode: vk.SharingModeExclusive,
	}

	var buffer vk.Buffer
	if err := CheckResult("vkCreateBuffer", vk.CreateBuffer(context.Device, &bufferInfo, context.Allocator, &buffer)); err != nil {
		return nil, err
	}
	outBuffer.Handle = buffer

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(context.Device, outBuffer.Handle, &requirements)
	requirements.Deref()

	memoryType, err := context.FindMemoryIndex(requirements.MemoryTypeBits, vk.MemoryPropertyFlags(memoryFlags))
	if err != nil {
		outBuffer.Destroy(context)
		return nil, err
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: memoryType,
	}
	var memory vk.DeviceMemory
	if err := CheckResult("vkAllocateMemory", vk.AllocateMemory(context.Device, &allocInfo, context.Allocator, &memory)); err != nil {
		outBuffer.Destroy(context)
		return nil, err
	}
	outBuffer.Memory = memory
	outBuffer.Size = requirements.Size

	if err := CheckResult("vkBindBufferMemory", vk.BindBufferMemory(context.Device, outBuffer.Handle, outBuffer.Memory, 0)); err != nil {
		outBuffer.Destroy(context)
		return nil, err
	}
	return outBuffer, nil
}

// Map returns a host pointer to the whole allocation. Call Unmap when done.
func (vb *VulkanBuffer) Map(context *VulkanContext) (unsafe.Pointer, error) {
	var data unsafe.Pointer
	if err := CheckResult("vkMapMemory", vk.MapMemory(context.Device, vb.Memory, 0, vb.Size, 0, &data)); err != nil {
		return nil, err
	}
	return data, nil
}

func (vb *VulkanBuffer) Unmap(context *VulkanContext) {
	vk.UnmapMemory(context.Device, vb.Memory)
}

// Upload copies src to the start of a host-visible buffer.
func (vb *VulkanBuffer) Upload(context *VulkanContext, src []byte) error {
	data, err := vb.Map(context)
	if err != nil {
		return err
	}
	vk.Memcopy(data, src)
	vb.Unmap(context)
	return nil
}

func (vb *VulkanBuffer) Destroy(context *VulkanContext) {
	if vb.Handle != vk.NullBuffer {
		vk.DestroyBuffer(context.Device, vb.Handle, context.Allocator)
		vb.Handle = vk.NullBuffer
	}
	if vb.Memory != vk.NullDeviceMemory {
		vk.FreeMemory(context.Device, vb.Memory, context.Allocator)
		vb.Memory = vk.NullDeviceMemory
	}
	vb.Size = 0
}
