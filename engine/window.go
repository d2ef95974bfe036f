package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	vk "github.com/goki/vulkan"
	"github.com/inkyblackness/imgui-go/v4"
	"github.com/spaghettifunk/anima-imgui/engine/core"
	"github.com/spaghettifunk/anima-imgui/engine/platform"
	"github.com/spaghettifunk/anima-imgui/engine/renderer/gui"
	"github.com/spaghettifunk/anima-imgui/engine/renderer/vulkan"
)

const (
	defaultWidth  = 1024
	defaultHeight = 768
)

// Window owns the native window, the Vulkan objects presenting to it and the
// GUI context drawn on top of it.
type Window struct {
	ID     uuid.UUID
	config *ApplicationConfig

	platform         *platform.Platform
	context          *vulkan.VulkanContext
	wd               *vulkan.WindowData
	minImageCount    uint32
	swapChainRebuild bool

	guiContext  *imgui.Context
	guiPlatform *gui.GLFWPlatform
	guiRenderer *gui.VulkanRenderer

	onUpdate func()
	// set from any goroutine, read by the render loop
	closeRequested atomic.Bool

	watcher *ConfigWatcher
	clock   *core.Clock
	metrics *core.Metrics
}

// New returns a window of the given size using the default configuration.
// Non-positive dimensions fall back to 1024x768.
func New(width, height int) *Window {
	config := DefaultApplicationConfig()
	config.StartWidth, config.StartHeight = width, height
	return NewWithConfig(config)
}

func NewWithConfig(config *ApplicationConfig) *Window {
	if config.StartWidth <= 0 {
		config.StartWidth = defaultWidth
	}
	if config.StartHeight <= 0 {
		config.StartHeight = defaultHeight
	}
	return &Window{
		ID:            uuid.New(),
		config:        config,
		platform:      platform.New(),
		context:       vulkan.NewVulkanContext(config.Debug),
		minImageCount: config.MinImageCount,
		clock:         core.NewClock(),
		metrics:       core.NewMetrics(),
	}
}

// RegisterOnUpdateCallback sets the function that builds the GUI every frame.
// A nil callback is ignored.
func (w *Window) RegisterOnUpdateCallback(fn func()) {
	if fn == nil {
		return
	}
	w.onUpdate = fn
}

// WatchConfig reloads the live settings of the window whenever the file at path changes.
func (w *Window) WatchConfig(path string) error {
	if w.watcher != nil {
		return fmt.Errorf("window %s already watches a configuration file", w.ID)
	}
	watcher, err := NewConfigWatcher(path)
	if err != nil {
		core.LogError("failed to watch %s: %s", path, err)
		return err
	}
	w.watcher = watcher
	return nil
}

func (w *Window) Config() *ApplicationConfig {
	return w.config
}

// Create opens the window and initializes Vulkan and the GUI. On error the
// caller must still call Cleanup.
func (w *Window) Create() error {
	if err := w.platform.Startup(w.config.Name, w.config.StartWidth, w.config.StartHeight); err != nil {
		return err
	}

	if err := vulkan.SetupVulkan(w.context, w.config.Name, w.platform.RequiredInstanceExtensions()); err != nil {
		return err
	}

	rawSurface, err := w.platform.CreateSurface(w.context.Instance)
	if err != nil {
		return err
	}
	w.wd = vulkan.NewWindowData(vk.SurfaceFromPointer(rawSurface))

	width, height := w.platform.FramebufferSize()
	if err := vulkan.SetupVulkanWindow(w.context, w.wd, width, height, w.minImageCount, w.config.UnlimitedFrameRate); err != nil {
		return err
	}
	w.wd.SetClearColor(w.config.PremultipliedClearColor())

	w.guiContext = imgui.CreateContext(nil)
	io := imgui.CurrentIO()
	io.SetConfigFlags(imgui.ConfigFlagsNavEnableKeyboard | imgui.ConfigFlagsNavEnableGamepad)
	io.SetIniFilename(w.config.IniFilename)
	imgui.StyleColorsDark()

	w.guiPlatform = gui.NewGLFWPlatform(io, w.platform)
	io.SetBackendFlags(io.GetBackendFlags() | imgui.BackendFlagsRendererHasVtxOffset)
	w.guiRenderer, err = gui.NewVulkanRenderer(gui.InitInfo{
		Context:       w.context,
		MinImageCount: w.minImageCount,
		ImageCount:    w.wd.ImageCount,
		ShaderDir:     w.config.ShaderDir,
	}, w.wd.RenderPass)
	if err != nil {
		return err
	}

	gui.LoadFont(io.Fonts(), w.config.Font.Path, w.config.Font.Size)
	if err := w.uploadFonts(io.Fonts()); err != nil {
		return err
	}

	core.LogInfo("Window %s created (%dx%d, %d swapchain images).", w.ID, width, height, w.wd.ImageCount)
	return nil
}

// uploadFonts records the font atlas copy into the current frame's command
// buffer, submits it and waits for the device to finish.
func (w *Window) uploadFonts(atlas imgui.FontAtlas) error {
	frame := w.wd.CurrentFrame()
	if err := vulkan.CommandPoolReset(w.context, frame.CommandPool); err != nil {
		return err
	}
	if err := frame.CommandBuffer.Begin(true, false, false); err != nil {
		return err
	}
	if err := w.guiRenderer.CreateFontsTexture(atlas, frame.CommandBuffer); err != nil {
		return err
	}
	if err := frame.CommandBuffer.SubmitOnce(w.context); err != nil {
		return err
	}
	if err := w.context.DeviceWaitIdle(); err != nil {
		return err
	}
	w.guiRenderer.DestroyFontUploadObjects()
	return nil
}

// Update runs the render loop until the window is asked to close.
func (w *Window) Update() error {
	if w.wd == nil || w.guiRenderer == nil {
		return errors.New("window not created")
	}

	w.clock.Start()
	for !w.closeRequested.Load() && !w.platform.ShouldClose() {
		w.platform.PumpMessages()
		frameStartTime := w.platform.GetAbsoluteTime()

		w.applyConfigChanges()

		if w.swapChainRebuild {
			if err := w.rebuildSwapchain(); err != nil {
				return err
			}
		}

		w.guiRenderer.NewFrame()
		w.guiPlatform.NewFrame()
		imgui.NewFrame()

		if w.onUpdate != nil {
			w.onUpdate()
		}

		imgui.Render()
		drawData := imgui.RenderedDrawData()

		displaySize := w.guiPlatform.DisplaySize()
		minimized := displaySize[0] <= 0 || displaySize[1] <= 0
		if !minimized {
			w.wd.SetClearColor(w.config.PremultipliedClearColor())
			if err := w.frameRender(drawData, displaySize); err != nil {
				return err
			}
			if err := w.framePresent(); err != nil {
				return err
			}
		}

		w.clock.Update()
		if w.metrics.Update(w.platform.GetAbsoluteTime() - frameStartTime) {
			fps, frameTime := w.metrics.Frame()
			core.LogDebug("%.0f FPS, %.3f ms/frame, %.1fs running", fps, frameTime, w.clock.Elapsed())
		}
	}
	return nil
}

// rebuildSwapchain recreates the swapchain at the current framebuffer size.
// Nothing happens while the framebuffer has no area.
func (w *Window) rebuildSwapchain() error {
	width, height := w.platform.FramebufferSize()
	return w.rebuildSwapchainAt(width, height)
}

func (w *Window) rebuildSwapchainAt(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if err := w.guiRenderer.SetMinImageCount(w.minImageCount); err != nil {
		return err
	}
	if err := vulkan.CreateOrResizeWindow(w.context, w.wd, width, height, w.minImageCount); err != nil {
		return err
	}
	if err := w.guiRenderer.SetImageCount(w.wd.ImageCount); err != nil {
		return err
	}
	w.wd.FrameIndex = 0
	w.swapChainRebuild = false
	core.LogDebug("Swapchain rebuilt at %dx%d.", width, height)
	return nil
}

func (w *Window) frameRender(drawData imgui.DrawData, displaySize [2]float32) error {
	framebufferSize := w.guiPlatform.FramebufferSize()
	err := vulkan.FrameRender(w.context, w.wd, func(commandBuffer *vulkan.VulkanCommandBuffer) error {
		return w.guiRenderer.RenderDrawData(drawData, commandBuffer, displaySize, framebufferSize)
	})
	return w.checkSwapchain(err)
}

func (w *Window) framePresent() error {
	if w.swapChainRebuild {
		return nil
	}
	return w.checkSwapchain(vulkan.FramePresent(w.context, w.wd))
}

// checkSwapchain turns a swapchain rebuild request into the pending rebuild
// flag. Any other error is returned unchanged.
func (w *Window) checkSwapchain(err error) error {
	if errors.Is(err, core.ErrSwapchainRebuild) {
		w.swapChainRebuild = true
		return nil
	}
	return err
}

func (w *Window) applyConfigChanges() {
	if w.watcher == nil {
		return
	}
	select {
	case config := <-w.watcher.Changes():
		if ApplyLiveSettings(w.config, config) {
			core.LogInfo("Configuration reloaded.")
		}
	default:
	}
}

// Close asks the render loop to stop after the current frame. It is safe to
// call from any goroutine, before or after Create.
func (w *Window) Close() {
	w.closeRequested.Store(true)
}

func (w *Window) CloseRequested() bool {
	return w.closeRequested.Load()
}

// Cleanup releases everything Create built, in reverse order. It is safe to
// call after a failed or partial Create.
func (w *Window) Cleanup() {
	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			core.LogWarn(err.Error())
		}
		w.watcher = nil
	}

	if w.context.Device != nil {
		if err := w.context.DeviceWaitIdle(); err != nil {
			core.LogWarn("device wait idle failed during cleanup: %s", err)
		}
	}

	if w.guiRenderer != nil {
		w.guiRenderer.Shutdown()
		w.guiRenderer = nil
	}
	if w.guiPlatform != nil {
		w.guiPlatform.Shutdown()
		w.guiPlatform = nil
	}
	if w.guiContext != nil {
		w.guiContext.Destroy()
		w.guiContext = nil
	}

	if w.wd != nil {
		vulkan.DestroyWindow(w.context, w.wd)
		w.wd = nil
	}
	vulkan.CleanupVulkan(w.context)

	w.platform.Shutdown()
	core.LogInfo("Window %s destroyed.", w.ID)
}
