package vulkan

import (
	"errors"
	"strings"
	"testing"

	vk "github.com/goki/vulkan"
)

func TestCheckResult(t *testing.T) {
	if err := CheckResult("ok", vk.Success); err != nil {
		t.Errorf("Success: got %v", err)
	}
	if err := CheckResult("suboptimal", vk.Suboptimal); err != nil {
		t.Errorf("positive codes must not be fatal, got %v", err)
	}

	err := CheckResult("vkQueueSubmit", vk.ErrorDeviceLost)
	var resultErr *ResultError
	if !errors.As(err, &resultErr) {
		t.Fatalf("got %T, want *ResultError", err)
	}
	if resultErr.Code != vk.ErrorDeviceLost {
		t.Errorf("Code = %d", resultErr.Code)
	}
	if !strings.Contains(err.Error(), "VK_ERROR_DEVICE_LOST") || !strings.Contains(err.Error(), "vkQueueSubmit") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestVulkanResultString(t *testing.T) {
	tests := []struct {
		result vk.Result
		want   string
	}{
		{vk.Success, "VK_SUCCESS"},
		{vk.Suboptimal, "VK_SUBOPTIMAL_KHR"},
		{vk.ErrorOutOfDate, "VK_ERROR_OUT_OF_DATE_KHR"},
		{vk.Result(-424242), "VkResult(-424242)"},
	}
	for _, tt := range tests {
		if got := VulkanResultString(tt.result); got != tt.want {
			t.Errorf("VulkanResultString(%d) = %q, want %q", tt.result, got, tt.want)
		}
	}
}

func TestNeedsRebuild(t *testing.T) {
	if !needsRebuild(vk.ErrorOutOfDate) || !needsRebuild(vk.Suboptimal) {
		t.Error("out of date and suboptimal must trigger a rebuild")
	}
	if needsRebuild(vk.Success) || needsRebuild(vk.ErrorDeviceLost) {
		t.Error("only out of date and suboptimal trigger a rebuild")
	}
}

func TestVulkanSafeStrings(t *testing.T) {
	in := []string{"VK_KHR_surface", "VK_KHR_swapchain\x00", ""}
	out := VulkanSafeStrings(in)
	want := []string{"VK_KHR_surface\x00", "VK_KHR_swapchain\x00", "\x00"}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %q, want %q", i, out[i], want[i])
		}
	}
	if in[0] != "VK_KHR_surface" {
		t.Error("input slice was modified")
	}
}

func TestContainsName(t *testing.T) {
	var a, b [256]byte
	copy(a[:], "VK_KHR_swapchain")
	copy(b[:], "VK_KHR_portability_subset")
	names := [][]byte{a[:], b[:]}

	if !containsName(names, "VK_KHR_portability_subset\x00") {
		t.Error("expected portability subset to be found")
	}
	if containsName(names, "VK_KHR_swap") {
		t.Error("prefix must not match")
	}
}
