package engine

import (
	"testing"
	"time"

	"github.com/spaghettifunk/anima-imgui/engine/core"
)

func TestConfigWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "clear_color = [0.0, 0.0, 0.0, 1.0]\n")

	cw, err := NewConfigWatcher(path)
	if err != nil {
		t.Fatalf("NewConfigWatcher: %v", err)
	}
	defer cw.Close()

	want := [4]float32{0.25, 0.5, 0.75, 1}
	writeConfig(t, dir, "clear_color = [0.25, 0.5, 0.75, 1.0]\n")

	timeout := time.After(5 * time.Second)
	for {
		select {
		case config := <-cw.Changes():
			if config.ClearColor == want {
				return
			}
		case <-timeout:
			t.Fatal("no config change received")
		}
	}
}

func TestConfigWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "width = 640\n")

	cw, err := NewConfigWatcher(path)
	if err != nil {
		t.Fatalf("NewConfigWatcher: %v", err)
	}
	defer cw.Close()

	writeFile(t, dir, "other.toml", "width = 1\n")

	select {
	case config := <-cw.Changes():
		t.Fatalf("unexpected change %+v", config)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestConfigWatcherCloseTwice(t *testing.T) {
	cw, err := NewConfigWatcher(writeConfig(t, t.TempDir(), ""))
	if err != nil {
		t.Fatalf("NewConfigWatcher: %v", err)
	}
	if err := cw.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := cw.Close(); err == nil {
		t.Fatal("second Close should fail")
	}
}

func TestApplyLiveSettings(t *testing.T) {
	previous := core.GetLogLevel()
	defer core.SetLogLevel(previous)

	dst := DefaultApplicationConfig()
	src := DefaultApplicationConfig()
	if ApplyLiveSettings(dst, src) {
		t.Error("identical configs reported a change")
	}

	src.ClearColor = [4]float32{1, 0, 0, 1}
	src.LogLevel = "warn"
	src.StartWidth = 1234
	if !ApplyLiveSettings(dst, src) {
		t.Fatal("change not reported")
	}
	if dst.ClearColor != src.ClearColor {
		t.Errorf("ClearColor = %v", dst.ClearColor)
	}
	if dst.StartWidth == 1234 {
		t.Error("window size must not be applied live")
	}
	if core.GetLogLevel() != core.WarnLevel {
		t.Errorf("log level = %v, want warn", core.GetLogLevel())
	}
}

func TestApplyLiveSettingsKeepsPinnedLogLevel(t *testing.T) {
	previous := core.GetLogLevel()
	defer core.SetLogLevel(previous)
	core.SetLogLevel(core.DebugLevel)

	dst := DefaultApplicationConfig()
	dst.PinLogLevel("debug")

	src := DefaultApplicationConfig()
	src.ClearColor = [4]float32{0, 0, 1, 1}
	src.LogLevel = "info"
	if !ApplyLiveSettings(dst, src) {
		t.Fatal("clear colour change not reported")
	}
	if dst.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want the pinned debug level", dst.LogLevel)
	}
	if core.GetLogLevel() != core.DebugLevel {
		t.Errorf("log level = %v, want debug", core.GetLogLevel())
	}

	src.ClearColor = dst.ClearColor
	if ApplyLiveSettings(dst, src) {
		t.Error("a log level change against a pinned level must not count as a change")
	}
}
