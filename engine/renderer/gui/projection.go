package gui

import (
	vk "github.com/goki/vulkan"
	"github.com/inkyblackness/imgui-go/v4"
	"github.com/spaghettifunk/anima-imgui/engine/math"
)

// scaleTranslate maps display coordinates to clip space: the vertex shader
// computes pos*scale + translate. Layout is {scaleX, scaleY, translateX, translateY}.
func scaleTranslate(displayPos, displaySize [2]float32) [4]float32 {
	scaleX := 2.0 / displaySize[0]
	scaleY := 2.0 / displaySize[1]
	return [4]float32{
		scaleX,
		scaleY,
		-1.0 - displayPos[0]*scaleX,
		-1.0 - displayPos[1]*scaleY,
	}
}

// framebufferScale is the ratio between framebuffer pixels and display coordinates.
func framebufferScale(displaySize, framebufferSize [2]float32) [2]float32 {
	if displaySize[0] <= 0 || displaySize[1] <= 0 {
		return [2]float32{1, 1}
	}
	return [2]float32{framebufferSize[0] / displaySize[0], framebufferSize[1] / displaySize[1]}
}

// clipToScissor projects a clip rectangle (x1, y1, x2, y2) into framebuffer
// space and clamps it. ok is false when nothing would be visible.
func clipToScissor(clip imgui.Vec4, clipOffset, clipScale, framebufferSize [2]float32) (scissor vk.Rect2D, ok bool) {
	minX := math.Clamp((clip.X-clipOffset[0])*clipScale[0], 0, framebufferSize[0])
	minY := math.Clamp((clip.Y-clipOffset[1])*clipScale[1], 0, framebufferSize[1])
	maxX := math.Clamp((clip.Z-clipOffset[0])*clipScale[0], 0, framebufferSize[0])
	maxY := math.Clamp((clip.W-clipOffset[1])*clipScale[1], 0, framebufferSize[1])
	if maxX <= minX || maxY <= minY {
		return vk.Rect2D{}, false
	}
	return vk.Rect2D{
		Offset: vk.Offset2D{X: int32(minX), Y: int32(minY)},
		Extent: vk.Extent2D{Width: uint32(maxX - minX), Height: uint32(maxY - minY)},
	}, true
}
