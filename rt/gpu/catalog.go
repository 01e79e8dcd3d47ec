package gpu

import (
	"fmt"

	"github.com/gekko3d/gi2d/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MaxLights        = 1024
	MaxOccluders     = 4096
	MaxSkylightMasks = 1024
)

type OverflowPolicy uint8

const (
	// OverflowReject fails the build with ErrCapacityExceeded.
	OverflowReject OverflowPolicy = iota
	// OverflowTruncate keeps the first Max entries and reports how many were dropped.
	OverflowTruncate
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowReject:
		return "reject"
	case OverflowTruncate:
		return "truncate"
	}
	return fmt.Sprintf("OverflowPolicy(%d)", uint8(p))
}

func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "", "reject":
		return OverflowReject, nil
	case "truncate":
		return OverflowTruncate, nil
	}
	return OverflowReject, fmt.Errorf("unknown overflow policy %q", s)
}

// clampCount returns how many of n entries fit under limit and how many are dropped.
func clampCount(what string, n, limit int, policy OverflowPolicy) (keep, dropped int, err error) {
	if n <= limit {
		return n, 0, nil
	}
	if policy == OverflowTruncate {
		return limit, n - limit, nil
	}
	return 0, 0, fmt.Errorf("%s: %d entries, max %d: %w", what, n, limit, ErrCapacityExceeded)
}

// LightCatalog packs scene lights into the light source buffer.
type LightCatalog struct {
	Max    int
	Policy OverflowPolicy

	buf     GpuLightSourceBuffer
	scratch []GpuOmniLightSource
}

func NewLightCatalog(limit int, policy OverflowPolicy) *LightCatalog {
	if limit <= 0 {
		limit = MaxLights
	}
	return &LightCatalog{
		Max:     limit,
		Policy:  policy,
		buf:     newRuntimeBuffer[GpuOmniLightSource](LightSourceBufferLayout, 16),
		scratch: make([]GpuOmniLightSource, 0, 16),
	}
}

// Build replaces the buffer contents with one record per light, in input
// order. centers[i] is the shader-space center of lights[i]. On error the
// previous contents are kept.
func (c *LightCatalog) Build(lights []core.OmniLightSource2D, centers []mgl32.Vec2) (dropped int, err error) {
	if len(lights) != len(centers) {
		return 0, fmt.Errorf("%d lights, %d centers: %w", len(lights), len(centers), ErrLengthMismatch)
	}
	keep, dropped, err := clampCount("lights", len(lights), c.Max, c.Policy)
	if err != nil {
		return 0, err
	}

	c.scratch = c.scratch[:0]
	for i := 0; i < keep; i++ {
		l := lights[i]
		if err := validateLight(l, centers[i]); err != nil {
			return 0, fmt.Errorf("light %d: %w", i, err)
		}
		c.scratch = append(c.scratch, NewGpuOmniLightSource(l, centers[i]))
	}
	c.buf.replace(c.scratch)
	return dropped, nil
}

func (c *LightCatalog) Buffer() *GpuLightSourceBuffer { return &c.buf }

func validateLight(l core.OmniLightSource2D, center mgl32.Vec2) error {
	if !finite(l.Intensity, center[0], center[1], l.Color[0], l.Color[1], l.Color[2], l.Falloff[0], l.Falloff[1], l.Falloff[2]) {
		return ErrNonFinite
	}
	if l.Intensity < 0 {
		return fmt.Errorf("%g: %w", l.Intensity, ErrNegativeIntensity)
	}
	return nil
}

// boxCatalog is shared by occluders and skylight masks. Degenerate boxes pass
// through unchanged.
type boxCatalog[T Record] struct {
	Max    int
	Policy OverflowPolicy

	what    string
	buf     RuntimeBuffer[T]
	scratch []T
	pack    func(center, hExtent mgl32.Vec2) T
}

func (c *boxCatalog[T]) build(boxes []core.Box2D) (dropped int, err error) {
	keep, dropped, err := clampCount(c.what, len(boxes), c.Max, c.Policy)
	if err != nil {
		return 0, err
	}

	c.scratch = c.scratch[:0]
	for i := 0; i < keep; i++ {
		b := boxes[i]
		if !finite(b.Center[0], b.Center[1], b.HalfExtent[0], b.HalfExtent[1]) {
			return 0, fmt.Errorf("%s %d: %w", c.what, i, ErrNonFinite)
		}
		c.scratch = append(c.scratch, c.pack(b.Center, b.HalfExtent))
	}
	c.buf.replace(c.scratch)
	return dropped, nil
}

type OccluderCatalog struct {
	boxCatalog[GpuLightOccluder2D]
}

func NewOccluderCatalog(limit int, policy OverflowPolicy) *OccluderCatalog {
	if limit <= 0 {
		limit = MaxOccluders
	}
	return &OccluderCatalog{boxCatalog[GpuLightOccluder2D]{
		Max:    limit,
		Policy: policy,
		what:   "occluders",
		buf:    newRuntimeBuffer[GpuLightOccluder2D](LightOccluderBufferLayout, 16),
		pack:   NewGpuLightOccluder2D,
	}}
}

func (c *OccluderCatalog) Build(boxes []core.Box2D) (dropped int, err error) {
	return c.build(boxes)
}

func (c *OccluderCatalog) Buffer() *GpuLightOccluderBuffer { return &c.buf }

type SkylightMaskCatalog struct {
	boxCatalog[GpuSkylightMaskData]
}

func NewSkylightMaskCatalog(limit int, policy OverflowPolicy) *SkylightMaskCatalog {
	if limit <= 0 {
		limit = MaxSkylightMasks
	}
	return &SkylightMaskCatalog{boxCatalog[GpuSkylightMaskData]{
		Max:    limit,
		Policy: policy,
		what:   "skylight masks",
		buf:    newRuntimeBuffer[GpuSkylightMaskData](SkylightMaskBufferLayout, 16),
		pack:   NewGpuSkylightMaskData,
	}}
}

func (c *SkylightMaskCatalog) Build(boxes []core.Box2D) (dropped int, err error) {
	return c.build(boxes)
}

func (c *SkylightMaskCatalog) Buffer() *GpuSkylightMaskBuffer { return &c.buf }
