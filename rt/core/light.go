package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// OmniLightSource2D is the authoring-side description of a point light.
type OmniLightSource2D struct {
	Position  mgl32.Vec2
	Intensity float32
	Color     mgl32.Vec4 // RGBA, alpha is ignored by the device
	Falloff   mgl32.Vec3
}

func NewOmniLightSource2D(position mgl32.Vec2, intensity float32, color mgl32.Vec4, falloff mgl32.Vec3) OmniLightSource2D {
	return OmniLightSource2D{
		Position:  position,
		Intensity: intensity,
		Color:     color,
		Falloff:   falloff,
	}
}

// Helper for a unit white light with constant falloff
func DefaultOmniLightSource2D() OmniLightSource2D {
	return OmniLightSource2D{
		Position:  mgl32.Vec2{0, 0},
		Intensity: 1.0,
		Color:     mgl32.Vec4{1, 1, 1, 1},
		Falloff:   mgl32.Vec3{1, 0, 0},
	}
}
