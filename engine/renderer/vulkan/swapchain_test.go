package vulkan

import (
	"errors"
	stdmath "math"
	"testing"

	vk "github.com/goki/vulkan"
)

var requestFormats = []vk.Format{
	vk.FormatB8g8r8a8Unorm,
	vk.FormatR8g8b8a8Unorm,
	vk.FormatB8g8r8Unorm,
	vk.FormatR8g8b8Unorm,
}

func TestSelectSurfaceFormat(t *testing.T) {
	srgb := vk.ColorSpaceSrgbNonlinear
	tests := []struct {
		name      string
		available []vk.SurfaceFormat
		want      vk.Format
	}{
		{
			name:      "undefined means any",
			available: []vk.SurfaceFormat{{Format: vk.FormatUndefined, ColorSpace: srgb}},
			want:      vk.FormatB8g8r8a8Unorm,
		},
		{
			name: "request order wins over availability order",
			available: []vk.SurfaceFormat{
				{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: srgb},
				{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: srgb},
			},
			want: vk.FormatB8g8r8a8Unorm,
		},
		{
			name: "colour space must match",
			available: []vk.SurfaceFormat{
				{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: srgb},
				{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpace(1000104001)},
				{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: srgb},
			},
			want: vk.FormatR8g8b8a8Unorm,
		},
		{
			name: "fallback to first available",
			available: []vk.SurfaceFormat{
				{Format: vk.FormatA2b10g10r10UnormPack32, ColorSpace: srgb},
				{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: srgb},
			},
			want: vk.FormatA2b10g10r10UnormPack32,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectSurfaceFormat(tt.available, requestFormats, srgb)
			if got.Format != tt.want {
				t.Errorf("format = %d, want %d", got.Format, tt.want)
			}
			if got.ColorSpace != srgb {
				t.Errorf("colour space = %d, want %d", got.ColorSpace, srgb)
			}
		})
	}
}

func TestSelectPresentMode(t *testing.T) {
	tests := []struct {
		name      string
		available []vk.PresentMode
		unlimited bool
		want      vk.PresentMode
	}{
		{"vsync", []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifo, vk.PresentModeMailbox}, false, vk.PresentModeFifo},
		{"unlimited prefers mailbox", []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeImmediate, vk.PresentModeMailbox}, true, vk.PresentModeMailbox},
		{"unlimited falls to immediate", []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeImmediate}, true, vk.PresentModeImmediate},
		{"nothing matches", nil, true, vk.PresentModeFifo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selectPresentMode(tt.available, presentModeRequest(tt.unlimited)); got != tt.want {
				t.Errorf("mode = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestChooseImageCount(t *testing.T) {
	tests := []struct {
		requested, capMin, capMax, want uint32
	}{
		{2, 2, 8, 2},
		{2, 3, 8, 3},
		{5, 2, 3, 3},
		{16, 2, 0, 16},
	}
	for _, tt := range tests {
		if got := chooseImageCount(tt.requested, tt.capMin, tt.capMax); got != tt.want {
			t.Errorf("chooseImageCount(%d, %d, %d) = %d, want %d", tt.requested, tt.capMin, tt.capMax, got, tt.want)
		}
	}
}

func TestChooseExtent(t *testing.T) {
	caps := &vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: 640, Height: 480},
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
	}
	got := chooseExtent(caps, 500, 500)
	if got.Width != 640 || got.Height != 480 {
		t.Errorf("fixed extent = %dx%d, want 640x480", got.Width, got.Height)
	}

	caps.CurrentExtent = vk.Extent2D{Width: stdmath.MaxUint32, Height: stdmath.MaxUint32}
	got = chooseExtent(caps, 500, 9000)
	if got.Width != 500 || got.Height != 4096 {
		t.Errorf("free extent = %dx%d, want 500x4096", got.Width, got.Height)
	}
}

func TestReplaceHandle(t *testing.T) {
	const null = 0
	failed := errors.New("create failed")

	tests := []struct {
		name        string
		current     int
		createErr   error
		wantSlot    int
		wantDestroy []int
	}{
		{"first create", null, nil, 8, nil},
		{"replace retires the old handle", 7, nil, 8, []int{7}},
		{"failed create keeps the old handle", 7, failed, 7, nil},
		{"failed first create stays null", null, failed, null, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := tt.current
			var passedOld int
			var destroyed []int
			err := replaceHandle(&slot, null,
				func(old int) (int, error) {
					passedOld = old
					if tt.createErr != nil {
						return null, tt.createErr
					}
					return 8, nil
				},
				func(old int) { destroyed = append(destroyed, old) })

			if !errors.Is(err, tt.createErr) {
				t.Fatalf("err = %v, want %v", err, tt.createErr)
			}
			if passedOld != tt.current {
				t.Errorf("create got old = %d, want %d", passedOld, tt.current)
			}
			if slot != tt.wantSlot {
				t.Errorf("slot = %d, want %d", slot, tt.wantSlot)
			}
			if len(destroyed) != len(tt.wantDestroy) || (len(destroyed) > 0 && destroyed[0] != tt.wantDestroy[0]) {
				t.Errorf("destroyed = %v, want %v", destroyed, tt.wantDestroy)
			}
		})
	}
}
