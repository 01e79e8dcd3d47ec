package main

import (
	"flag"
	"math"
	"runtime"

	"github.com/gekko3d/gi2d"
	"github.com/gekko3d/gi2d/rt/core"
	"github.com/gekko3d/gi2d/rt/gpu"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	runtime.LockOSThread()
}

type demo struct {
	logger  gi2d.Logger
	window  *glfw.Window
	surface *wgpu.Surface
	adapter *wgpu.Adapter
	device  *wgpu.Device
	config  *wgpu.SurfaceConfiguration

	builder *gi2d.FrameBuilder
	buffers *gpu.GiBufferManager
	scene   *gi2d.Scene2D
	camera  *core.CameraState2D
	orbit   gi2d.LightId
}

func main() {
	configPath := flag.String("config", "", "GI config YAML (defaults when empty)")
	debug := flag.Bool("debug", false, "Log per-frame packing stats")
	flag.Parse()

	logger := gi2d.NewDefaultLogger("gi2d", *debug)

	cfg := gi2d.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = gi2d.LoadConfig(*configPath); err != nil {
			logger.Errorf("%v", err)
			return
		}
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(1280, 720, "gi2d", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	d := &demo{logger: logger, window: window}
	if err := d.init(cfg); err != nil {
		logger.Errorf("init: %v", err)
		return
	}
	defer d.buffers.Release()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		d.resize(width, height)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		d.update(glfw.GetTime())
		d.render()
	}
}

func (d *demo) init(cfg gi2d.Config) error {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	d.surface = instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(d.window))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: d.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return err
	}
	d.adapter = adapter

	d.device, err = adapter.RequestDevice(nil)
	if err != nil {
		return err
	}

	width, height := d.window.GetFramebufferSize()
	caps := d.surface.GetCapabilities(adapter)
	d.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	d.surface.Configure(adapter, d.device, d.config)

	d.builder, err = gi2d.NewFrameBuilder(cfg, d.logger)
	if err != nil {
		return err
	}
	if cfg.Debug || d.logger.DebugEnabled() {
		d.builder.Profiler = gi2d.NewProfiler()
	}
	d.buffers = gpu.NewGiBufferManager(d.device)
	d.camera = core.NewCameraState2D(width, height)
	d.scene = buildScene()
	d.orbit = d.scene.AddLight(core.NewOmniLightSource2D(mgl32.Vec2{}, 2.0, mustColor("orange"), mgl32.Vec3{1, 0.02, 0.001}))

	// screen-space lights: resolve to pixel coordinates
	d.builder.ResolveCenter = func(l core.OmniLightSource2D) mgl32.Vec2 {
		return d.camera.WorldToScreen(l.Position)
	}
	return nil
}

func buildScene() *gi2d.Scene2D {
	s := gi2d.NewScene2D()
	s.AddLight(core.NewOmniLightSource2D(mgl32.Vec2{-300, 150}, 1.0, mustColor("lightskyblue"), mgl32.Vec3{1, 0.01, 0.0005}))
	s.AddLight(core.NewOmniLightSource2D(mgl32.Vec2{320, -120}, 0.8, mustColor("tomato"), mgl32.Vec3{1, 0.01, 0.0005}))
	s.AddOccluder(core.NewBox2D(mgl32.Vec2{0, 0}, mgl32.Vec2{60, 60}))
	s.AddOccluder(core.BoxFromMinMax(mgl32.Vec2{-500, -300}, mgl32.Vec2{500, -280}))
	s.AddSkylightMask(core.NewBox2D(mgl32.Vec2{-200, -200}, mgl32.Vec2{150, 80}))
	return s
}

func mustColor(name string) mgl32.Vec4 {
	c, err := core.NamedColor(name)
	if err != nil {
		panic(err)
	}
	return c
}

func (d *demo) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	d.config.Width = uint32(width)
	d.config.Height = uint32(height)
	d.surface.Configure(d.adapter, d.device, d.config)
	d.camera.Resize(width, height)
}

func (d *demo) update(now float64) {
	l, _ := d.scene.Light(d.orbit)
	l.Position = mgl32.Vec2{float32(200 * math.Cos(now)), float32(200 * math.Sin(now))}
	d.scene.UpdateLight(d.orbit, l)

	if err := d.builder.ProbeGrid().PlaceUniform(d.camera.ScreenSize); err != nil {
		d.logger.Warnf("placing probes: %v", err)
	}
}

func (d *demo) render() {
	frame, err := d.builder.Build(d.scene, d.camera)
	if err != nil {
		d.logger.Warnf("skipping frame: %v", err)
		return
	}
	if _, err := d.buffers.Upload(&frame.FrameBuffers); err != nil {
		d.logger.Errorf("upload: %v", err)
		return
	}
	if d.builder.Profiler != nil && frame.FrameCounter%120 == 0 {
		d.logger.Debugf("\n%s", d.builder.Profiler.String())
	}

	nextTexture, err := d.surface.GetCurrentTexture()
	if err != nil {
		d.logger.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		d.logger.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		d.logger.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}
	defer encoder.Release()

	// GI passes are dispatched by the host renderer; the demo only clears to the sky baseline.
	sky := frame.PassBlock.SkylightColor.Mul(100)
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: float64(sky[0]), G: float64(sky[1]), B: float64(sky[2]), A: 1},
		}},
	})
	if err := pass.End(); err != nil {
		d.logger.Errorf("render pass End failed: %v", err)
	}
	pass.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		d.logger.Errorf("encoder Finish failed: %v", err)
		return
	}
	d.device.GetQueue().Submit(cmd)
	cmd.Release()
	d.surface.Present()
}
