package gpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// struct CameraParams {
//   screen_size:       vec2<f32>,   -- 0
//   screen_size_inv:   vec2<f32>,   -- 8
//   view_proj:         mat4x4<f32>, -- 16
//   inverse_view_proj: mat4x4<f32>, -- 80
//   sdf_scale:         vec2<f32>,   -- 144
//   inv_sdf_scale:     vec2<f32>,   -- 152
// } -> 160 bytes
var CameraParamsLayout = NewLayout("CameraParams",
	Field{"screen_size", KindVec2},
	Field{"screen_size_inv", KindVec2},
	Field{"view_proj", KindMat4},
	Field{"inverse_view_proj", KindMat4},
	Field{"sdf_scale", KindVec2},
	Field{"inv_sdf_scale", KindVec2},
)

type GpuCameraParams struct {
	ScreenSize      mgl32.Vec2
	ScreenSizeInv   mgl32.Vec2
	ViewProj        mgl32.Mat4
	InverseViewProj mgl32.Mat4
	SdfScale        mgl32.Vec2
	InvSdfScale     mgl32.Vec2
}

// inverseTolerance bounds |inv*viewProj - I| per element.
const inverseTolerance = 1e-3

// NewGpuCameraParams fills the camera block and its cached reciprocals.
//
// A singular viewProj returns ErrSingularViewProj together with params whose
// InverseViewProj is the identity, so a caller that opts for the identity
// fallback can use the result as is.
func NewGpuCameraParams(screenSize mgl32.Vec2, viewProj mgl32.Mat4, sdfScale mgl32.Vec2) (GpuCameraParams, error) {
	if screenSize.X() == 0 || screenSize.Y() == 0 {
		return GpuCameraParams{}, fmt.Errorf("%v: %w", screenSize, ErrZeroScreenSize)
	}
	if sdfScale.X() == 0 || sdfScale.Y() == 0 {
		return GpuCameraParams{}, fmt.Errorf("%v: %w", sdfScale, ErrZeroSdfScale)
	}
	if !finite(screenSize[0], screenSize[1], sdfScale[0], sdfScale[1]) || !finite(viewProj[:]...) {
		return GpuCameraParams{}, ErrNonFinite
	}

	p := GpuCameraParams{
		ScreenSize:    screenSize,
		ScreenSizeInv: mgl32.Vec2{1 / screenSize.X(), 1 / screenSize.Y()},
		ViewProj:      viewProj,
		SdfScale:      sdfScale,
		InvSdfScale:   mgl32.Vec2{1 / sdfScale.X(), 1 / sdfScale.Y()},
	}

	// Inv returns the zero matrix once |det| drops below its epsilon, so a
	// tiny but nonzero determinant is caught by the round-trip check.
	det := viewProj.Det()
	inv := viewProj.Inv()
	if det == 0 || !finite(det) || !finite(inv[:]...) || inv == (mgl32.Mat4{}) ||
		!inv.Mul4(viewProj).ApproxEqualThreshold(mgl32.Ident4(), inverseTolerance) {
		p.InverseViewProj = mgl32.Ident4()
		return p, ErrSingularViewProj
	}
	p.InverseViewProj = inv
	return p, nil
}

func (p GpuCameraParams) Marshal() []byte {
	buf := make([]byte, CameraParamsLayout.Size())
	p.MarshalTo(buf)
	return buf
}

func (p GpuCameraParams) MarshalTo(dst []byte) {
	lay := CameraParamsLayout
	putVec2(dst, lay.Offset("screen_size"), p.ScreenSize)
	putVec2(dst, lay.Offset("screen_size_inv"), p.ScreenSizeInv)
	putMat4(dst, lay.Offset("view_proj"), p.ViewProj)
	putMat4(dst, lay.Offset("inverse_view_proj"), p.InverseViewProj)
	putVec2(dst, lay.Offset("sdf_scale"), p.SdfScale)
	putVec2(dst, lay.Offset("inv_sdf_scale"), p.InvSdfScale)
}

func UnmarshalGpuCameraParams(src []byte) GpuCameraParams {
	lay := CameraParamsLayout
	return GpuCameraParams{
		ScreenSize:      getVec2(src, lay.Offset("screen_size")),
		ScreenSizeInv:   getVec2(src, lay.Offset("screen_size_inv")),
		ViewProj:        getMat4(src, lay.Offset("view_proj")),
		InverseViewProj: getMat4(src, lay.Offset("inverse_view_proj")),
		SdfScale:        getVec2(src, lay.Offset("sdf_scale")),
		InvSdfScale:     getVec2(src, lay.Offset("inv_sdf_scale")),
	}
}

// struct LightPassParams {
//   frame_counter:          i32,       -- 0
//   probe_size:             i32,       -- 4
//   probe_atlas_cols:       i32,       -- 8
//   probe_atlas_rows:       i32,       -- 12
//   skylight_color:         vec3<f32>, -- 16
//   reservoir_size:         u32,       -- 28
//   smooth_kernel_size_h:   u32,       -- 32
//   smooth_kernel_size_w:   u32,       -- 36
//   direct_light_contrib:   f32,       -- 40
//   indirect_light_contrib: f32,       -- 44
// } -> 48 bytes
var LightPassParamsLayout = NewLayout("LightPassParams",
	Field{"frame_counter", KindI32},
	Field{"probe_size", KindI32},
	Field{"probe_atlas_cols", KindI32},
	Field{"probe_atlas_rows", KindI32},
	Field{"skylight_color", KindVec3},
	Field{"reservoir_size", KindU32},
	Field{"smooth_kernel_size_h", KindU32},
	Field{"smooth_kernel_size_w", KindU32},
	Field{"direct_light_contrib", KindF32},
	Field{"indirect_light_contrib", KindF32},
)

// DefaultSkylightColor is a very dim blue sky baseline.
var DefaultSkylightColor = mgl32.Vec3{0.003 / 100.0, 0.0078 / 100.0, 0.058 / 100.0}

const (
	DefaultReservoirSize        = 8
	DefaultSmoothKernelSizeH    = 2
	DefaultSmoothKernelSizeW    = 1
	DefaultDirectLightContrib   = 0.2
	DefaultIndirectLightContrib = 0.8
)

type GpuLightPassParams struct {
	FrameCounter   int32
	ProbeSize      int32
	ProbeAtlasCols int32
	ProbeAtlasRows int32
	SkylightColor  mgl32.Vec3

	ReservoirSize        uint32
	SmoothKernelSizeH    uint32
	SmoothKernelSizeW    uint32
	DirectLightContrib   float32
	IndirectLightContrib float32
}

// DefaultGpuLightPassParams returns the tuning defaults. Probe size and atlas
// dimensions are left at zero and must be set before the first frame.
func DefaultGpuLightPassParams() GpuLightPassParams {
	return GpuLightPassParams{
		FrameCounter:   0,
		ProbeSize:      0,
		ProbeAtlasCols: 0,
		ProbeAtlasRows: 0,
		SkylightColor:  DefaultSkylightColor,

		ReservoirSize:        DefaultReservoirSize,
		SmoothKernelSizeH:    DefaultSmoothKernelSizeH,
		SmoothKernelSizeW:    DefaultSmoothKernelSizeW,
		DirectLightContrib:   DefaultDirectLightContrib,
		IndirectLightContrib: DefaultIndirectLightContrib,
	}
}

// AdvanceFrame bumps the frame counter; it wraps at the i32 boundary.
func (p *GpuLightPassParams) AdvanceFrame() {
	p.FrameCounter++
}

// SetProbeTopology sets probe size and atlas dimensions from the probe grid.
func (p *GpuLightPassParams) SetProbeTopology(probeSize int, grid *ProbeGrid) {
	p.ProbeSize = int32(probeSize)
	p.ProbeAtlasCols = int32(grid.Width())
	p.ProbeAtlasRows = int32(grid.Height())
}

func (p GpuLightPassParams) Validate() error {
	if p.ProbeSize <= 0 || p.ProbeAtlasCols <= 0 || p.ProbeAtlasRows <= 0 {
		return fmt.Errorf("probe_size=%d atlas=%dx%d: %w", p.ProbeSize, p.ProbeAtlasCols, p.ProbeAtlasRows, ErrPassParamsUnset)
	}
	if !finite(p.SkylightColor[0], p.SkylightColor[1], p.SkylightColor[2], p.DirectLightContrib, p.IndirectLightContrib) {
		return ErrNonFinite
	}
	return nil
}

func (p GpuLightPassParams) Marshal() []byte {
	buf := make([]byte, LightPassParamsLayout.Size())
	p.MarshalTo(buf)
	return buf
}

func (p GpuLightPassParams) MarshalTo(dst []byte) {
	lay := LightPassParamsLayout
	putI32(dst, lay.Offset("frame_counter"), p.FrameCounter)
	putI32(dst, lay.Offset("probe_size"), p.ProbeSize)
	putI32(dst, lay.Offset("probe_atlas_cols"), p.ProbeAtlasCols)
	putI32(dst, lay.Offset("probe_atlas_rows"), p.ProbeAtlasRows)
	putVec3(dst, lay.Offset("skylight_color"), p.SkylightColor)
	putU32(dst, lay.Offset("reservoir_size"), p.ReservoirSize)
	putU32(dst, lay.Offset("smooth_kernel_size_h"), p.SmoothKernelSizeH)
	putU32(dst, lay.Offset("smooth_kernel_size_w"), p.SmoothKernelSizeW)
	putF32(dst, lay.Offset("direct_light_contrib"), p.DirectLightContrib)
	putF32(dst, lay.Offset("indirect_light_contrib"), p.IndirectLightContrib)
}

func UnmarshalGpuLightPassParams(src []byte) GpuLightPassParams {
	lay := LightPassParamsLayout
	return GpuLightPassParams{
		FrameCounter:         getI32(src, lay.Offset("frame_counter")),
		ProbeSize:            getI32(src, lay.Offset("probe_size")),
		ProbeAtlasCols:       getI32(src, lay.Offset("probe_atlas_cols")),
		ProbeAtlasRows:       getI32(src, lay.Offset("probe_atlas_rows")),
		SkylightColor:        getVec3(src, lay.Offset("skylight_color")),
		ReservoirSize:        getU32(src, lay.Offset("reservoir_size")),
		SmoothKernelSizeH:    getU32(src, lay.Offset("smooth_kernel_size_h")),
		SmoothKernelSizeW:    getU32(src, lay.Offset("smooth_kernel_size_w")),
		DirectLightContrib:   getF32(src, lay.Offset("direct_light_contrib")),
		IndirectLightContrib: getF32(src, lay.Offset("indirect_light_contrib")),
	}
}
