package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
)

func TestNextSemaphoreIndex(t *testing.T) {
	tests := []struct {
		current, count, want uint32
	}{
		{0, 3, 1},
		{1, 3, 2},
		{2, 3, 0},
		{0, 2, 1},
		{1, 2, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := nextSemaphoreIndex(tt.current, tt.count); got != tt.want {
			t.Errorf("nextSemaphoreIndex(%d, %d) = %d, want %d", tt.current, tt.count, got, tt.want)
		}
	}
}

func TestSemaphoreRingVisitsEverySlot(t *testing.T) {
	const count = 3
	seen := map[uint32]int{}
	index := uint32(0)
	for i := 0; i < count*4; i++ {
		seen[index]++
		index = nextSemaphoreIndex(index, count)
	}
	for slot := uint32(0); slot < count; slot++ {
		if seen[slot] != 4 {
			t.Errorf("slot %d visited %d times, want 4", slot, seen[slot])
		}
	}
}

func TestNewWindowDataClearsByDefault(t *testing.T) {
	wd := NewWindowData(vk.NullSurface)
	if !wd.ClearEnable {
		t.Error("ClearEnable should default to true")
	}
	if wd.Swapchain != vk.NullSwapchain || wd.ImageCount != 0 {
		t.Error("fresh window data must not own a swapchain")
	}
}
