package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-imgui/engine/core"
)

const descriptorsPerType = 1000

// descriptorPoolSizes returns one generously sized entry per descriptor type.
func descriptorPoolSizes() []vk.DescriptorPoolSize {
	types := []vk.DescriptorType{
		vk.DescriptorTypeSampler,
		vk.DescriptorTypeCombinedImageSampler,
		vk.DescriptorTypeSampledImage,
		vk.DescriptorTypeStorageImage,
		vk.DescriptorTypeUniformTexelBuffer,
		vk.DescriptorTypeStorageTexelBuffer,
		vk.DescriptorTypeUniformBuffer,
		vk.DescriptorTypeStorageBuffer,
		vk.DescriptorTypeUniformBufferDynamic,
		vk.DescriptorTypeStorageBufferDynamic,
		vk.DescriptorTypeInputAttachment,
	}
	sizes := make([]vk.DescriptorPoolSize, len(types))
	for i, t := range types {
		sizes[i] = vk.DescriptorPoolSize{Type: t, DescriptorCount: descriptorsPerType}
	}
	return sizes
}

func DescriptorPoolCreate(context *VulkanContext) error {
	poolSizes := descriptorPoolSizes()
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		MaxSets:       descriptorsPerType * uint32(len(poolSizes)),
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
	}

	var pool vk.DescriptorPool
	if err := CheckResult("vkCreateDescriptorPool", vk.CreateDescriptorPool(context.Device, &poolInfo, context.Allocator, &pool)); err != nil {
		return err
	}
	context.DescriptorPool = pool
	core.LogDebug("Descriptor pool created.")
	return nil
}

func DescriptorPoolDestroy(context *VulkanContext) {
	if context.DescriptorPool != vk.NullDescriptorPool && context.Device != nil {
		vk.DestroyDescriptorPool(context.Device, context.DescriptorPool, context.Allocator)
	}
	context.DescriptorPool = vk.NullDescriptorPool
}

// CombinedImageSamplerLayoutCreate creates a set layout with a single sampler at binding 0.
func CombinedImageSamplerLayoutCreate(context *VulkanContext, stage vk.ShaderStageFlagBits, sampler vk.Sampler) (vk.DescriptorSetLayout, error) {
	binding := vk.DescriptorSetLayoutBinding{
		Binding:            0,
		DescriptorType:     vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount:    1,
		StageFlags:         vk.ShaderStageFlags(stage),
		PImmutableSamplers: []vk.Sampler{sampler},
	}
	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 1,
		PBindings:    []vk.DescriptorSetLayoutBinding{binding},
	}

	var layout vk.DescriptorSetLayout
	if err := CheckResult("vkCreateDescriptorSetLayout", vk.CreateDescriptorSetLayout(context.Device, &layoutInfo, context.Allocator, &layout)); err != nil {
		return vk.NullDescriptorSetLayout, err
	}
	return layout, nil
}

func DescriptorSetAllocate(context *VulkanContext, layout vk.DescriptorSetLayout) (vk.DescriptorSet, error) {
	allocInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     context.DescriptorPool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout},
	}

	var set vk.DescriptorSet
	if err := CheckResult("vkAllocateDescriptorSets", vk.AllocateDescriptorSets(context.Device, &allocInfo, &set)); err != nil {
		return vk.NullDescriptorSet, err
	}
	return set, nil
}

func DescriptorSetFree(context *VulkanContext, set vk.DescriptorSet) {
	if set == vk.NullDescriptorSet || context.DescriptorPool == vk.NullDescriptorPool {
		return
	}
	vk.FreeDescriptorSets(context.Device, context.DescriptorPool, 1, &set)
}

// DescriptorSetWriteImage points binding 0 of set at view in shader-read-only layout.
func DescriptorSetWriteImage(context *VulkanContext, set vk.DescriptorSet, sampler vk.Sampler, view vk.ImageView) {
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          set,
		DstBinding:      0,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		PImageInfo: []vk.DescriptorImageInfo{{
			Sampler:     sampler,
			ImageView:   view,
			ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
		}},
	}
	vk.UpdateDescriptorSets(context.Device, 1, []vk.WriteDescriptorSet{write}, 0, nil)
}
