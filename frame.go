package gi2d

import (
	"errors"
	"fmt"

	"github.com/gekko3d/gi2d/rt/core"
	"github.com/gekko3d/gi2d/rt/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// CenterResolver maps a light's authoring position to the space the shader
// samples lights in.
type CenterResolver func(light core.OmniLightSource2D) mgl32.Vec2

func IdentityCenter(light core.OmniLightSource2D) mgl32.Vec2 { return light.Position }

// Frame is one frame's snapshot of every GI binding.
type Frame struct {
	gpu.FrameBuffers

	FrameCounter      int32
	LightCount        uint32
	OccluderCount     uint32
	SkylightMaskCount uint32
	ProbeCount        uint32
	Dropped           int

	CameraBlock gpu.GpuCameraParams
	PassBlock   gpu.GpuLightPassParams
}

// FrameBuilder rebuilds the GI buffers every frame. The probe grid is sized
// once from Config; catalogs reuse their storage between frames.
type FrameBuilder struct {
	Logger        Logger
	Profiler      *Profiler
	ResolveCenter CenterResolver

	cfg       Config
	singular  SingularPolicy
	lights    *gpu.LightCatalog
	occluders *gpu.OccluderCatalog
	masks     *gpu.SkylightMaskCatalog
	probes    *gpu.ProbeGrid
	pass      gpu.GpuLightPassParams
	centers   []mgl32.Vec2
}

func NewFrameBuilder(cfg Config, logger Logger) (*FrameBuilder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	overflow, _ := gpu.ParseOverflowPolicy(cfg.Overflow)
	singular, _ := ParseSingularPolicy(cfg.SingularMatrix)

	probes, err := gpu.NewProbeGrid(cfg.ProbeGridWidth, cfg.ProbeGridHeight)
	if err != nil {
		return nil, err
	}
	pass, err := cfg.PassParams(probes)
	if err != nil {
		return nil, err
	}

	logger = orNop(logger)
	if cfg.Debug {
		logger.SetDebug(true)
	}
	logger.Infof("GI probe grid %dx%d (%d probes), probe size %d",
		probes.Width(), probes.Height(), probes.Capacity(), cfg.ProbeSize)

	return &FrameBuilder{
		Logger:        logger,
		ResolveCenter: IdentityCenter,
		cfg:           cfg,
		singular:      singular,
		lights:        gpu.NewLightCatalog(cfg.MaxLights, overflow),
		occluders:     gpu.NewOccluderCatalog(cfg.MaxOccluders, overflow),
		masks:         gpu.NewSkylightMaskCatalog(cfg.MaxSkylightMasks, overflow),
		probes:        probes,
		pass:          pass,
	}, nil
}

func (b *FrameBuilder) Config() Config { return b.cfg }

// ProbeGrid is exposed so the placement collaborator can refresh poses.
func (b *FrameBuilder) ProbeGrid() *gpu.ProbeGrid { return b.probes }

// PassParams allows live tuning between frames.
func (b *FrameBuilder) PassParams() *gpu.GpuLightPassParams { return &b.pass }

func (b *FrameBuilder) Build(scene *Scene2D, cam *core.CameraState2D) (*Frame, error) {
	return b.BuildLists(scene.Lights(), scene.Occluders(), scene.SkylightMasks(), cam)
}

// BuildLists packs all six bindings. The frame counter advances by one only
// when every stage succeeds.
func (b *FrameBuilder) BuildLists(lights []core.OmniLightSource2D, occluders, masks []core.Box2D, cam *core.CameraState2D) (*Frame, error) {
	log := orNop(b.Logger)
	prof := b.Profiler
	resolve := b.ResolveCenter
	if resolve == nil {
		resolve = IdentityCenter
	}

	prof.BeginScope("camera")
	camParams, err := gpu.NewGpuCameraParams(cam.ScreenSize, cam.ViewProj(), cam.SdfScale)
	if errors.Is(err, gpu.ErrSingularViewProj) && b.singular == SingularIdentity {
		log.Warnf("frame %d: view-projection is singular, using identity inverse", b.pass.FrameCounter)
		err = nil
	}
	prof.EndScope("camera")
	if err != nil {
		return nil, fmt.Errorf("camera params: %w", err)
	}

	if err := b.pass.Validate(); err != nil {
		return nil, fmt.Errorf("pass params: %w", err)
	}

	frame := &Frame{CameraBlock: camParams}

	prof.BeginScope("lights")
	b.centers = b.centers[:0]
	for _, l := range lights {
		b.centers = append(b.centers, resolve(l))
	}
	dropped, err := b.lights.Build(lights, b.centers)
	prof.EndScope("lights")
	if err != nil {
		return nil, fmt.Errorf("lights: %w", err)
	}
	if dropped > 0 {
		log.Warnf("frame %d: dropped %d lights over limit %d", b.pass.FrameCounter, dropped, b.lights.Max)
	}
	frame.Dropped += dropped

	prof.BeginScope("occluders")
	dropped, err = b.occluders.Build(occluders)
	prof.EndScope("occluders")
	if err != nil {
		return nil, fmt.Errorf("occluders: %w", err)
	}
	if dropped > 0 {
		log.Warnf("frame %d: dropped %d occluders over limit %d", b.pass.FrameCounter, dropped, b.occluders.Max)
	}
	frame.Dropped += dropped

	prof.BeginScope("skylight")
	dropped, err = b.masks.Build(masks)
	prof.EndScope("skylight")
	if err != nil {
		return nil, fmt.Errorf("skylight masks: %w", err)
	}
	if dropped > 0 {
		log.Warnf("frame %d: dropped %d skylight masks over limit %d", b.pass.FrameCounter, dropped, b.masks.Max)
	}
	frame.Dropped += dropped

	prof.BeginScope("marshal")
	frame.Lights = b.lights.Buffer().Marshal()
	frame.Occluders = b.occluders.Buffer().Marshal()
	frame.SkylightMasks = b.masks.Buffer().Marshal()
	frame.Probes = b.probes.Buffer().Marshal()
	frame.Camera = camParams.Marshal()
	frame.PassBlock = b.pass
	frame.PassParams = b.pass.Marshal()
	prof.EndScope("marshal")

	frame.FrameCounter = b.pass.FrameCounter
	frame.LightCount = b.lights.Buffer().Count()
	frame.OccluderCount = b.occluders.Buffer().Count()
	frame.SkylightMaskCount = b.masks.Buffer().Count()
	frame.ProbeCount = b.probes.Buffer().Count()
	b.pass.AdvanceFrame()

	prof.SetCount("lights", int(frame.LightCount))
	prof.SetCount("occluders", int(frame.OccluderCount))
	prof.SetCount("skylight_masks", int(frame.SkylightMaskCount))
	prof.SetCount("probes", int(frame.ProbeCount))
	log.Debugf("frame %d: %d lights, %d occluders, %d skylight masks, %d probes",
		frame.FrameCounter, frame.LightCount, frame.OccluderCount, frame.SkylightMaskCount, frame.ProbeCount)

	return frame, nil
}
