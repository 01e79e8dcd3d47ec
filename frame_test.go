package gi2d

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/gekko3d/gi2d/rt/core"
	"github.com/gekko3d/gi2d/rt/gpu"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	nopLogger
	warnings []string
}

func (r *recordingLogger) Warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func TestFrameBuilder_DefaultFrame(t *testing.T) {
	fb, err := NewFrameBuilder(DefaultConfig(), nil)
	require.NoError(t, err)

	cam := core.NewCameraState2D(1280, 720)
	frame, err := fb.Build(NewScene2D(), cam)
	require.NoError(t, err)

	assert.Equal(t, int32(0), frame.FrameCounter)
	assert.Equal(t, uint32(0), frame.LightCount)
	assert.Equal(t, uint32(0), frame.OccluderCount)
	assert.Equal(t, uint32(0), frame.SkylightMaskCount)
	assert.Equal(t, uint32(64), frame.ProbeCount)

	assert.Len(t, frame.Lights, gpu.LightSourceBufferLayout.DataOffset())
	assert.Len(t, frame.Occluders, gpu.LightOccluderBufferLayout.DataOffset())
	assert.Len(t, frame.SkylightMasks, gpu.SkylightMaskBufferLayout.DataOffset())
	assert.Len(t, frame.Probes, gpu.ProbeDataBufferLayout.SizeFor(64))
	assert.Len(t, frame.Camera, gpu.CameraParamsLayout.Size())
	assert.Len(t, frame.PassParams, gpu.LightPassParamsLayout.Size())

	pass := gpu.UnmarshalGpuLightPassParams(frame.PassParams)
	assert.Equal(t, int32(DefaultProbeSize), pass.ProbeSize)
	assert.Equal(t, int32(8), pass.ProbeAtlasCols)
	assert.Equal(t, uint32(8), pass.ReservoirSize)

	camBlock := gpu.UnmarshalGpuCameraParams(frame.Camera)
	assert.Equal(t, mgl32.Vec2{1280, 720}, camBlock.ScreenSize)
	assert.True(t, camBlock.InverseViewProj.Mul4(camBlock.ViewProj).ApproxEqualThreshold(mgl32.Ident4(), 1e-4))
}

func TestFrameBuilder_CounterAdvancesOncePerFrame(t *testing.T) {
	fb, err := NewFrameBuilder(DefaultConfig(), nil)
	require.NoError(t, err)
	cam := core.NewCameraState2D(64, 64)
	scene := NewScene2D()

	for want := int32(0); want < 3; want++ {
		frame, err := fb.Build(scene, cam)
		require.NoError(t, err)
		assert.Equal(t, want, frame.FrameCounter)
		assert.Equal(t, want, int32(binary.LittleEndian.Uint32(frame.PassParams[0:4])))
	}

	// a failed frame does not consume a counter value
	bad := lightAt(0, 0)
	bad.Intensity = -1
	scene.AddLight(bad)
	_, err = fb.Build(scene, cam)
	assert.True(t, errors.Is(err, gpu.ErrNegativeIntensity))
	assert.Equal(t, int32(3), fb.PassParams().FrameCounter)

	fb.PassParams().FrameCounter = math.MaxInt32
	frame, err := fb.BuildLists(nil, nil, nil, cam)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MaxInt32), frame.FrameCounter)
	assert.Equal(t, int32(math.MinInt32), fb.PassParams().FrameCounter)
}

func TestFrameBuilder_SceneRoundTrip(t *testing.T) {
	fb, err := NewFrameBuilder(DefaultConfig(), nil)
	require.NoError(t, err)
	fb.ResolveCenter = func(l core.OmniLightSource2D) mgl32.Vec2 {
		return l.Position.Mul(2)
	}

	scene := NewScene2D()
	scene.AddLight(core.NewOmniLightSource2D(mgl32.Vec2{1, 1.5}, 1.0, mgl32.Vec4{1, 0, 0, 0.5}, mgl32.Vec3{1, 0, 0}))
	scene.AddLight(lightAt(-3, 4))
	scene.AddOccluder(core.NewBox2D(mgl32.Vec2{0, 0}, mgl32.Vec2{2, 1}))
	scene.AddSkylightMask(core.NewBox2D(mgl32.Vec2{9, 9}, mgl32.Vec2{0, 0}))

	frame, err := fb.Build(scene, core.NewCameraState2D(800, 600))
	require.NoError(t, err)
	require.Equal(t, uint32(2), frame.LightCount)
	require.Equal(t, uint32(1), frame.OccluderCount)
	require.Equal(t, uint32(1), frame.SkylightMaskCount)

	lights := gpu.UnmarshalRuntimeBuffer(frame.Lights, gpu.LightSourceBufferLayout, gpu.UnmarshalGpuOmniLightSource)
	assert.Equal(t, mgl32.Vec2{2, 3}, lights.At(0).Center)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, lights.At(0).Color)
	assert.Equal(t, mgl32.Vec2{-6, 8}, lights.At(1).Center)

	masks := gpu.UnmarshalRuntimeBuffer(frame.SkylightMasks, gpu.SkylightMaskBufferLayout, gpu.UnmarshalGpuSkylightMaskData)
	assert.Equal(t, mgl32.Vec2{0, 0}, masks.At(0).HExtent)
}

func TestFrameBuilder_SnapshotsAreIndependent(t *testing.T) {
	fb, err := NewFrameBuilder(DefaultConfig(), nil)
	require.NoError(t, err)
	cam := core.NewCameraState2D(64, 64)

	first, err := fb.BuildLists([]core.OmniLightSource2D{lightAt(1, 1)}, nil, nil, cam)
	require.NoError(t, err)
	saved := bytes.Clone(first.Lights)

	_, err = fb.BuildLists([]core.OmniLightSource2D{lightAt(5, 5), lightAt(6, 6)}, nil, nil, cam)
	require.NoError(t, err)
	assert.Equal(t, saved, first.Lights)
}

func TestFrameBuilder_OverflowTruncateWarns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxOccluders = 2
	cfg.Overflow = "truncate"
	logger := &recordingLogger{}

	fb, err := NewFrameBuilder(cfg, logger)
	require.NoError(t, err)

	boxes := make([]core.Box2D, 5)
	frame, err := fb.BuildLists(nil, boxes, nil, core.NewCameraState2D(64, 64))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), frame.OccluderCount)
	assert.Equal(t, 3, frame.Dropped)
	require.Len(t, logger.warnings, 1)
	assert.True(t, strings.Contains(logger.warnings[0], "dropped 3 occluders"))
}

func TestFrameBuilder_OverflowRejects(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLights = 1
	fb, err := NewFrameBuilder(cfg, nil)
	require.NoError(t, err)

	_, err = fb.BuildLists([]core.OmniLightSource2D{lightAt(0, 0), lightAt(1, 1)}, nil, nil, core.NewCameraState2D(64, 64))
	assert.True(t, errors.Is(err, gpu.ErrCapacityExceeded))
}

func TestFrameBuilder_SingularCamera(t *testing.T) {
	cam := core.NewCameraState2D(64, 64)
	cam.Zoom = 0

	fb, err := NewFrameBuilder(DefaultConfig(), nil)
	require.NoError(t, err)
	_, err = fb.Build(NewScene2D(), cam)
	assert.True(t, errors.Is(err, gpu.ErrSingularViewProj))

	cfg := DefaultConfig()
	cfg.SingularMatrix = "identity"
	logger := &recordingLogger{}
	fb, err = NewFrameBuilder(cfg, logger)
	require.NoError(t, err)
	frame, err := fb.Build(NewScene2D(), cam)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Ident4(), frame.CameraBlock.InverseViewProj)
	assert.Len(t, logger.warnings, 1)
}

func TestFrameBuilder_ZeroScreen(t *testing.T) {
	fb, err := NewFrameBuilder(DefaultConfig(), nil)
	require.NoError(t, err)
	_, err = fb.Build(NewScene2D(), core.NewCameraState2D(0, 0))
	assert.True(t, errors.Is(err, gpu.ErrZeroScreenSize))
}

func TestFrameBuilder_ProbePosesFlowIntoFrame(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProbeGridWidth, cfg.ProbeGridHeight = 2, 2
	fb, err := NewFrameBuilder(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, fb.ProbeGrid().SetPose(3, mgl32.Vec2{0.75, 0.25}))
	frame, err := fb.Build(NewScene2D(), core.NewCameraState2D(64, 64))
	require.NoError(t, err)

	probes := gpu.UnmarshalRuntimeBuffer(frame.Probes, gpu.ProbeDataBufferLayout, gpu.UnmarshalGpuProbeData)
	assert.Equal(t, uint32(4), probes.Count())
	assert.Equal(t, mgl32.Vec2{0.75, 0.25}, probes.At(3).CameraPose)
}

func TestFrameBuilder_Profiler(t *testing.T) {
	fb, err := NewFrameBuilder(DefaultConfig(), nil)
	require.NoError(t, err)
	fb.Profiler = NewProfiler()

	_, err = fb.BuildLists([]core.OmniLightSource2D{lightAt(0, 0)}, nil, nil, core.NewCameraState2D(64, 64))
	require.NoError(t, err)

	assert.Equal(t, []string{"camera", "lights", "occluders", "skylight", "marshal"}, fb.Profiler.Order)
	assert.Equal(t, 1, fb.Profiler.Counts["lights"])
	assert.Equal(t, 64, fb.Profiler.Counts["probes"])
	assert.Contains(t, fb.Profiler.String(), "lights")
}

func TestNewFrameBuilder_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProbeSize = 0
	_, err := NewFrameBuilder(cfg, nil)
	assert.Error(t, err)
}
