/*
Dear ImGui example running on GLFW and Vulkan: two small windows, each with a
button.
*/
package main

//go:generate glslc shaders/imgui.vert -o shaders/imgui.vert.spv
//go:generate glslc shaders/imgui.frag -o shaders/imgui.frag.spv

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/inkyblackness/imgui-go/v4"
	"github.com/spaghettifunk/anima-imgui/engine"
	"github.com/spaghettifunk/anima-imgui/engine/core"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration file")
	debug := flag.Bool("debug", false, "enable the Vulkan validation layer and debug logging")
	flag.Parse()

	config, err := engine.LoadApplicationConfig(*configPath)
	if err != nil {
		core.LogFatal(err.Error())
	}
	if *debug {
		config.Debug = true
		config.PinLogLevel("debug")
	}
	if level, err := core.ParseLogLevel(config.LogLevel); err == nil {
		core.SetLogLevel(level)
	}

	window := engine.NewWithConfig(config)
	window.RegisterOnUpdateCallback(drawButtons)
	if err := window.WatchConfig(*configPath); err != nil {
		core.LogWarn("configuration hot reload disabled: %s", err)
	}

	// the first signal stops the render loop, a second one gets the default behaviour
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	go func() {
		<-ctx.Done()
		stop()
		window.Close()
	}()

	err = window.Create()
	if err == nil {
		err = window.Update()
	}
	stop()
	window.Cleanup()
	if err != nil {
		core.LogFatal(err.Error())
	}
}

func drawButtons() {
	buttonWindow("Button 1")
	buttonWindow("Button 2")
}

func buttonWindow(title string) {
	if imgui.BeginV(title, nil, imgui.WindowFlagsNoCollapse|imgui.WindowFlagsNoResize) {
		if imgui.Button("Press me!") {
			core.LogInfo("%s pressed", title)
		}
	}
	imgui.End()
}
