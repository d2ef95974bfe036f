package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spaghettifunk/anima-imgui/engine/core"
)

func TestNewFallsBackToDefaultSize(t *testing.T) {
	w := New(0, -10)
	if w.config.StartWidth != defaultWidth || w.config.StartHeight != defaultHeight {
		t.Fatalf("expected %dx%d, got %dx%d", defaultWidth, defaultHeight, w.config.StartWidth, w.config.StartHeight)
	}

	w = New(800, 600)
	if w.config.StartWidth != 800 || w.config.StartHeight != 600 {
		t.Fatalf("expected 800x600, got %dx%d", w.config.StartWidth, w.config.StartHeight)
	}
}

func TestNewWindowsHaveDistinctIDs(t *testing.T) {
	if New(1, 1).ID == New(1, 1).ID {
		t.Fatal("expected distinct window ids")
	}
}

func TestRegisterOnUpdateCallbackIgnoresNil(t *testing.T) {
	w := New(1, 1)
	calls := 0
	w.RegisterOnUpdateCallback(func() { calls++ })
	w.RegisterOnUpdateCallback(nil)
	if w.onUpdate == nil {
		t.Fatal("nil callback replaced the registered one")
	}
	w.onUpdate()
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestUpdateBeforeCreateFails(t *testing.T) {
	if err := New(1, 1).Update(); err == nil {
		t.Fatal("expected an error when the window was never created")
	}
}

func TestCleanupWithoutCreate(t *testing.T) {
	w := New(1, 1)
	w.Cleanup()
	w.Cleanup()
}

func TestWatchConfigTwice(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "name = \"watched\"\n")

	w := New(1, 1)
	if err := w.WatchConfig(path); err != nil {
		t.Fatalf("WatchConfig: %v", err)
	}
	defer w.Cleanup()
	if err := w.WatchConfig(path); err == nil {
		t.Fatal("expected an error on a second WatchConfig")
	}
}

func TestCloseFromAnotherGoroutine(t *testing.T) {
	w := New(1, 1)
	if w.CloseRequested() {
		t.Fatal("new window already asked to close")
	}
	done := make(chan struct{})
	go func() {
		w.Close()
		close(done)
	}()
	<-done
	if !w.CloseRequested() {
		t.Fatal("Close before Create was lost")
	}
}

func TestRebuildSkippedWithoutFramebufferArea(t *testing.T) {
	for _, size := range [][2]int{{0, 0}, {0, 600}, {800, 0}, {-1, 600}} {
		w := New(1, 1)
		w.swapChainRebuild = true
		// no renderer or window data exist, so reaching the rebuild would panic
		if err := w.rebuildSwapchainAt(size[0], size[1]); err != nil {
			t.Fatalf("%dx%d: unexpected error: %v", size[0], size[1], err)
		}
		if !w.swapChainRebuild {
			t.Errorf("%dx%d: rebuild cleared without a rebuild", size[0], size[1])
		}
	}
}

func TestFramePresentSkippedWhileRebuildPending(t *testing.T) {
	w := New(1, 1)
	w.swapChainRebuild = true
	// window data is nil, so presenting would panic
	if err := w.framePresent(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckSwapchain(t *testing.T) {
	failure := errors.New("device lost")
	tests := []struct {
		name        string
		err         error
		wantErr     error
		wantRebuild bool
	}{
		{"success", nil, nil, false},
		{"rebuild", core.ErrSwapchainRebuild, nil, true},
		{"wrapped rebuild", fmt.Errorf("present: %w", core.ErrSwapchainRebuild), nil, true},
		{"other failure", failure, failure, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(1, 1)
			err := w.checkSwapchain(tt.err)
			if err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if w.swapChainRebuild != tt.wantRebuild {
				t.Errorf("rebuild = %v, want %v", w.swapChainRebuild, tt.wantRebuild)
			}
		})
	}
}
