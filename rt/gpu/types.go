package gpu

import (
	"github.com/gekko3d/gi2d/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Record is a fixed-size device struct that can write itself into a byte slice.
type Record interface {
	MarshalTo(dst []byte)
}

// struct OmniLightSource {
//   center:    vec2<f32>, -- 0
//   intensity: f32,       -- 8
//   color:     vec3<f32>, -- 16
//   falloff:   vec3<f32>, -- 32
// } -> 48 bytes
var OmniLightSourceLayout = NewLayout("OmniLightSource",
	Field{"center", KindVec2},
	Field{"intensity", KindF32},
	Field{"color", KindVec3},
	Field{"falloff", KindVec3},
)

type GpuOmniLightSource struct {
	Center    mgl32.Vec2
	Intensity float32
	Color     mgl32.Vec3
	Falloff   mgl32.Vec3
}

// NewGpuOmniLightSource packs an authoring light at an already resolved
// center. Alpha is dropped.
func NewGpuOmniLightSource(light core.OmniLightSource2D, center mgl32.Vec2) GpuOmniLightSource {
	return GpuOmniLightSource{
		Center:    center,
		Intensity: light.Intensity,
		Color:     light.Color.Vec3(),
		Falloff:   light.Falloff,
	}
}

func (l GpuOmniLightSource) MarshalTo(dst []byte) {
	lay := OmniLightSourceLayout
	clear(dst[:lay.Size()])
	putVec2(dst, lay.Offset("center"), l.Center)
	putF32(dst, lay.Offset("intensity"), l.Intensity)
	putVec3(dst, lay.Offset("color"), l.Color)
	putVec3(dst, lay.Offset("falloff"), l.Falloff)
}

func UnmarshalGpuOmniLightSource(src []byte) GpuOmniLightSource {
	lay := OmniLightSourceLayout
	return GpuOmniLightSource{
		Center:    getVec2(src, lay.Offset("center")),
		Intensity: getF32(src, lay.Offset("intensity")),
		Color:     getVec3(src, lay.Offset("color")),
		Falloff:   getVec3(src, lay.Offset("falloff")),
	}
}

// struct LightOccluder {
//   center:   vec2<f32>, -- 0
//   h_extent: vec2<f32>, -- 8
// } -> 16 bytes
var LightOccluderLayout = NewLayout("LightOccluder",
	Field{"center", KindVec2},
	Field{"h_extent", KindVec2},
)

type GpuLightOccluder2D struct {
	Center  mgl32.Vec2
	HExtent mgl32.Vec2
}

func NewGpuLightOccluder2D(center, hExtent mgl32.Vec2) GpuLightOccluder2D {
	return GpuLightOccluder2D{Center: center, HExtent: hExtent}
}

func (o GpuLightOccluder2D) MarshalTo(dst []byte) {
	putVec2(dst, LightOccluderLayout.Offset("center"), o.Center)
	putVec2(dst, LightOccluderLayout.Offset("h_extent"), o.HExtent)
}

func UnmarshalGpuLightOccluder2D(src []byte) GpuLightOccluder2D {
	return GpuLightOccluder2D{
		Center:  getVec2(src, LightOccluderLayout.Offset("center")),
		HExtent: getVec2(src, LightOccluderLayout.Offset("h_extent")),
	}
}

// Same shape as LightOccluder, separate binding.
var SkylightMaskLayout = NewLayout("SkylightMask",
	Field{"center", KindVec2},
	Field{"h_extent", KindVec2},
)

type GpuSkylightMaskData struct {
	Center  mgl32.Vec2
	HExtent mgl32.Vec2
}

func NewGpuSkylightMaskData(center, hExtent mgl32.Vec2) GpuSkylightMaskData {
	return GpuSkylightMaskData{Center: center, HExtent: hExtent}
}

func (s GpuSkylightMaskData) MarshalTo(dst []byte) {
	putVec2(dst, SkylightMaskLayout.Offset("center"), s.Center)
	putVec2(dst, SkylightMaskLayout.Offset("h_extent"), s.HExtent)
}

func UnmarshalGpuSkylightMaskData(src []byte) GpuSkylightMaskData {
	return GpuSkylightMaskData{
		Center:  getVec2(src, SkylightMaskLayout.Offset("center")),
		HExtent: getVec2(src, SkylightMaskLayout.Offset("h_extent")),
	}
}

// struct ProbeData {
//   camera_pose: vec2<f32>, -- 0
// } -> 8 bytes
var ProbeDataLayout = NewLayout("ProbeData",
	Field{"camera_pose", KindVec2},
)

type GpuProbeData struct {
	CameraPose mgl32.Vec2
}

func (p GpuProbeData) MarshalTo(dst []byte) {
	putVec2(dst, ProbeDataLayout.Offset("camera_pose"), p.CameraPose)
}

func UnmarshalGpuProbeData(src []byte) GpuProbeData {
	return GpuProbeData{CameraPose: getVec2(src, ProbeDataLayout.Offset("camera_pose"))}
}

var countHeader = NewLayout("Header", Field{"count", KindU32})

var (
	LightSourceBufferLayout   = NewRuntimeArrayLayout("LightSourceBuffer", countHeader, OmniLightSourceLayout)
	LightOccluderBufferLayout = NewRuntimeArrayLayout("LightOccluderBuffer", countHeader, LightOccluderLayout)
	SkylightMaskBufferLayout  = NewRuntimeArrayLayout("SkylightMaskBuffer", countHeader, SkylightMaskLayout)
	ProbeDataBufferLayout     = NewRuntimeArrayLayout("ProbeDataBuffer", countHeader, ProbeDataLayout)
)

type (
	GpuLightSourceBuffer   = RuntimeBuffer[GpuOmniLightSource]
	GpuLightOccluderBuffer = RuntimeBuffer[GpuLightOccluder2D]
	GpuSkylightMaskBuffer  = RuntimeBuffer[GpuSkylightMaskData]
	GpuProbeDataBuffer     = RuntimeBuffer[GpuProbeData]
)
