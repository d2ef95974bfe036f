package gui

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"
	"github.com/spaghettifunk/anima-imgui/engine/platform"
)

const firstFrameDeltaTime = float32(1.0 / 60.0)

var glfwButtonIndexByID = map[glfw.MouseButton]int{
	glfw.MouseButton1: 0,
	glfw.MouseButton2: 1,
	glfw.MouseButton3: 2,
}

var glfwButtonIDByIndex = [...]glfw.MouseButton{
	glfw.MouseButton1,
	glfw.MouseButton2,
	glfw.MouseButton3,
}

// GLFWPlatform feeds window size, time, mouse and keyboard state from GLFW to the GUI.
type GLFWPlatform struct {
	io       imgui.IO
	platform *platform.Platform

	time             float64
	mouseJustPressed [3]bool
}

func NewGLFWPlatform(io imgui.IO, p *platform.Platform) *GLFWPlatform {
	gp := &GLFWPlatform{
		io:       io,
		platform: p,
	}
	gp.setKeyMapping()
	p.SetInputHandler(gp)
	return gp
}

func (gp *GLFWPlatform) Shutdown() {
	gp.platform.SetInputHandler(nil)
}

// DisplaySize is the window size in screen coordinates.
func (gp *GLFWPlatform) DisplaySize() [2]float32 {
	w, h := gp.platform.WindowSize()
	return [2]float32{float32(w), float32(h)}
}

func (gp *GLFWPlatform) FramebufferSize() [2]float32 {
	w, h := gp.platform.FramebufferSize()
	return [2]float32{float32(w), float32(h)}
}

func (gp *GLFWPlatform) NewFrame() {
	displaySize := gp.DisplaySize()
	gp.io.SetDisplaySize(imgui.Vec2{X: displaySize[0], Y: displaySize[1]})

	currentTime := gp.platform.GetAbsoluteTime()
	gp.io.SetDeltaTime(deltaTime(gp.time, currentTime))
	gp.time = currentTime

	if gp.platform.Focused() {
		x, y := gp.platform.CursorPos()
		gp.io.SetMousePosition(imgui.Vec2{X: float32(x), Y: float32(y)})
	} else {
		gp.io.SetMousePosition(imgui.Vec2{X: -math.MaxFloat32, Y: -math.MaxFloat32})
	}

	// A click shorter than a frame must still register.
	for i := range gp.mouseJustPressed {
		down := gp.mouseJustPressed[i] || gp.platform.MouseButtonDown(glfwButtonIDByIndex[i])
		gp.io.SetMouseButtonDown(i, down)
		gp.mouseJustPressed[i] = false
	}
}

// deltaTime returns the seconds elapsed since previous, or 1/60 on the first frame.
func deltaTime(previous, current float64) float32 {
	if previous <= 0 || current <= previous {
		return firstFrameDeltaTime
	}
	return float32(current - previous)
}

func (gp *GLFWPlatform) OnKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyUnknown {
		return
	}
	switch action {
	case glfw.Press:
		gp.io.KeyPress(int(key))
	case glfw.Release:
		gp.io.KeyRelease(int(key))
	}

	// Modifiers are not reliable across systems
	gp.io.KeyCtrl(int(glfw.KeyLeftControl), int(glfw.KeyRightControl))
	gp.io.KeyShift(int(glfw.KeyLeftShift), int(glfw.KeyRightShift))
	gp.io.KeyAlt(int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt))
	gp.io.KeySuper(int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper))
}

func (gp *GLFWPlatform) OnChar(char rune) {
	gp.io.AddInputCharacters(string(char))
}

func (gp *GLFWPlatform) OnMouseButton(button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if index, known := glfwButtonIndexByID[button]; known && action == glfw.Press {
		gp.mouseJustPressed[index] = true
	}
}

func (gp *GLFWPlatform) OnScroll(xoff, yoff float64) {
	gp.io.AddMouseWheelDelta(float32(xoff), float32(yoff))
}

func (gp *GLFWPlatform) setKeyMapping() {
	// Keyboard mapping. The GUI uses these indices to peek into its KeysDown array.
	gp.io.KeyMap(imgui.KeyTab, int(glfw.KeyTab))
	gp.io.KeyMap(imgui.KeyLeftArrow, int(glfw.KeyLeft))
	gp.io.KeyMap(imgui.KeyRightArrow, int(glfw.KeyRight))
	gp.io.KeyMap(imgui.KeyUpArrow, int(glfw.KeyUp))
	gp.io.KeyMap(imgui.KeyDownArrow, int(glfw.KeyDown))
	gp.io.KeyMap(imgui.KeyPageUp, int(glfw.KeyPageUp))
	gp.io.KeyMap(imgui.KeyPageDown, int(glfw.KeyPageDown))
	gp.io.KeyMap(imgui.KeyHome, int(glfw.KeyHome))
	gp.io.KeyMap(imgui.KeyEnd, int(glfw.KeyEnd))
	gp.io.KeyMap(imgui.KeyInsert, int(glfw.KeyInsert))
	gp.io.KeyMap(imgui.KeyDelete, int(glfw.KeyDelete))
	gp.io.KeyMap(imgui.KeyBackspace, int(glfw.KeyBackspace))
	gp.io.KeyMap(imgui.KeySpace, int(glfw.KeySpace))
	gp.io.KeyMap(imgui.KeyEnter, int(glfw.KeyEnter))
	gp.io.KeyMap(imgui.KeyEscape, int(glfw.KeyEscape))
	gp.io.KeyMap(imgui.KeyA, int(glfw.KeyA))
	gp.io.KeyMap(imgui.KeyC, int(glfw.KeyC))
	gp.io.KeyMap(imgui.KeyV, int(glfw.KeyV))
	gp.io.KeyMap(imgui.KeyX, int(glfw.KeyX))
	gp.io.KeyMap(imgui.KeyY, int(glfw.KeyY))
	gp.io.KeyMap(imgui.KeyZ, int(glfw.KeyZ))
}
