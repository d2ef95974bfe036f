package gui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/inkyblackness/imgui-go/v4"
	"github.com/spaghettifunk/anima-imgui/engine/core"
	"github.com/spaghettifunk/anima-imgui/engine/renderer/vulkan"
)

func TestShaderPaths(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := shaderPaths(dir); !errors.Is(err, ErrShadersNotBuilt) {
		t.Fatalf("expected ErrShadersNotBuilt, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, vertexShaderFile), []byte{0}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := shaderPaths(dir); !errors.Is(err, ErrShadersNotBuilt) {
		t.Fatalf("missing fragment shader: expected ErrShadersNotBuilt, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, fragmentShaderFile), []byte{0}, 0o644); err != nil {
		t.Fatal(err)
	}
	vertexPath, fragmentPath, err := shaderPaths(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vertexPath != filepath.Join(dir, vertexShaderFile) || fragmentPath != filepath.Join(dir, fragmentShaderFile) {
		t.Errorf("paths = %s, %s", vertexPath, fragmentPath)
	}
}

func TestRenderDrawDataOutsideRenderPass(t *testing.T) {
	r := &VulkanRenderer{}
	for _, state := range []vulkan.VulkanCommandBufferState{
		vulkan.COMMAND_BUFFER_STATE_READY,
		vulkan.COMMAND_BUFFER_STATE_RECORDING,
		vulkan.COMMAND_BUFFER_STATE_RECORDING_ENDED,
	} {
		cb := &vulkan.VulkanCommandBuffer{State: state}
		err := r.RenderDrawData(imgui.DrawData(0), cb, [2]float32{64, 64}, [2]float32{64, 64})
		if !errors.Is(err, core.ErrCommandBufferState) {
			t.Errorf("state %s: expected ErrCommandBufferState, got %v", state, err)
		}
	}
}
