package vulkan

import (
	"errors"
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-imgui/engine/core"
)

func TestExpectState(t *testing.T) {
	cb := &VulkanCommandBuffer{State: COMMAND_BUFFER_STATE_IN_RENDER_PASS}
	if err := cb.ExpectState("draw", COMMAND_BUFFER_STATE_IN_RENDER_PASS); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := cb.ExpectState("end", COMMAND_BUFFER_STATE_RECORDING)
	if !errors.Is(err, core.ErrCommandBufferState) {
		t.Fatalf("expected ErrCommandBufferState, got %v", err)
	}
}

// Every transition below is rejected before any Vulkan call is made.
func TestCommandBufferTransitionsOutOfOrder(t *testing.T) {
	tests := []struct {
		name  string
		state VulkanCommandBufferState
		call  func(cb *VulkanCommandBuffer) error
	}{
		{"end pass without begin", COMMAND_BUFFER_STATE_RECORDING, RenderpassEnd},
		{"end pass on idle buffer", COMMAND_BUFFER_STATE_READY, RenderpassEnd},
		{"begin pass twice", COMMAND_BUFFER_STATE_IN_RENDER_PASS, func(cb *VulkanCommandBuffer) error {
			return RenderpassBegin(cb, vk.NullRenderPass, vk.NullFramebuffer, 1, 1, vk.ClearValue{})
		}},
		{"begin pass before recording", COMMAND_BUFFER_STATE_READY, func(cb *VulkanCommandBuffer) error {
			return RenderpassBegin(cb, vk.NullRenderPass, vk.NullFramebuffer, 1, 1, vk.ClearValue{})
		}},
		{"end inside pass", COMMAND_BUFFER_STATE_IN_RENDER_PASS, (*VulkanCommandBuffer).End},
		{"end after submit", COMMAND_BUFFER_STATE_SUBMITTED, (*VulkanCommandBuffer).End},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := &VulkanCommandBuffer{State: tt.state}
			if err := tt.call(cb); !errors.Is(err, core.ErrCommandBufferState) {
				t.Fatalf("expected ErrCommandBufferState, got %v", err)
			}
			if cb.State != tt.state {
				t.Errorf("state changed to %s on a rejected call", cb.State)
			}
		})
	}
}

func TestCommandBufferStateString(t *testing.T) {
	if got := COMMAND_BUFFER_STATE_IN_RENDER_PASS.String(); got != "in render pass" {
		t.Errorf("String() = %q", got)
	}
	if got := VulkanCommandBufferState(42).String(); got != "state(42)" {
		t.Errorf("String() = %q", got)
	}
}
