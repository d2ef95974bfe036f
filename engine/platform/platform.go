package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/anima-imgui/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// InputHandler receives raw window input. Events are forwarded unfiltered.
type InputHandler interface {
	OnKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey)
	OnChar(char rune)
	OnMouseButton(button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey)
	OnScroll(xoff, yoff float64)
}

type Platform struct {
	Window *glfw.Window

	input       InputHandler
	initialized bool
}

func New() *Platform {
	return &Platform{}
}

// Startup initializes GLFW and opens a window without a client API.
func (p *Platform) Startup(applicationName string, width, height int) error {
	if err := glfw.Init(); err != nil {
		core.LogError("GLFW Error: %s", err)
		return fmt.Errorf("%w: %s", core.ErrGLFWInit, err)
	}
	p.initialized = true

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Required for Vulkan.
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err := glfw.CreateWindow(width, height, applicationName, nil, nil)
	if err != nil {
		core.LogError("GLFW Error: %s", err)
		return fmt.Errorf("failed to create window: %w", err)
	}
	p.Window = window

	if !glfw.VulkanSupported() {
		core.LogError(core.ErrVulkanNotSupported.Error())
		return core.ErrVulkanNotSupported
	}

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetCharCallback(p.charCallback)
	p.Window.SetMouseButtonCallback(p.mouseButtonCallback)
	p.Window.SetScrollCallback(p.scrollCallback)

	return nil
}

// Shutdown destroys the window and terminates GLFW. Safe after a partial Startup.
func (p *Platform) Shutdown() {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	if p.initialized {
		glfw.Terminate()
		p.initialized = false
	}
}

func (p *Platform) SetInputHandler(handler InputHandler) {
	p.input = handler
}

// RequiredInstanceExtensions lists the instance extensions GLFW needs to present.
func (p *Platform) RequiredInstanceExtensions() []string {
	return p.Window.GetRequiredInstanceExtensions()
}

// CreateSurface returns the raw VkSurfaceKHR handle for the window.
func (p *Platform) CreateSurface(instance interface{}) (uintptr, error) {
	surface, err := p.Window.CreateWindowSurface(instance, nil)
	if err != nil {
		core.LogError("GLFW Error: %s", err)
		return 0, fmt.Errorf("failed to create window surface: %w", err)
	}
	return surface, nil
}

func (p *Platform) PumpMessages() {
	glfw.PollEvents()
}

func (p *Platform) ShouldClose() bool {
	return p.Window == nil || p.Window.ShouldClose()
}

func (p *Platform) FramebufferSize() (int, int) {
	return p.Window.GetFramebufferSize()
}

func (p *Platform) WindowSize() (int, int) {
	return p.Window.GetSize()
}

func (p *Platform) Focused() bool {
	return p.Window.GetAttrib(glfw.Focused) == glfw.True
}

func (p *Platform) CursorPos() (float64, float64) {
	return p.Window.GetCursorPos()
}

func (p *Platform) MouseButtonDown(button glfw.MouseButton) bool {
	return p.Window.GetMouseButton(button) == glfw.Press
}

func (p *Platform) GetAbsoluteTime() float64 {
	return glfw.GetTime()
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if p.input != nil {
		p.input.OnKey(key, action, mods)
	}
}

func (p *Platform) charCallback(w *glfw.Window, char rune) {
	if p.input != nil {
		p.input.OnChar(char)
	}
}

func (p *Platform) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if p.input != nil {
		p.input.OnMouseButton(button, action, mods)
	}
}

func (p *Platform) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	if p.input != nil {
		p.input.OnScroll(xoff, yoff)
	}
}
