package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraState2D is an orthographic 2D camera. Position is the world point at
// the screen center and Zoom is the number of pixels per world unit.
type CameraState2D struct {
	Position   mgl32.Vec2
	Zoom       float32
	ScreenSize mgl32.Vec2
	SdfScale   mgl32.Vec2
}

func NewCameraState2D(width, height int) *CameraState2D {
	return &CameraState2D{
		Position:   mgl32.Vec2{0, 0},
		Zoom:       1.0,
		ScreenSize: mgl32.Vec2{float32(width), float32(height)},
		SdfScale:   mgl32.Vec2{1, 1},
	}
}

func (c *CameraState2D) Resize(width, height int) {
	c.ScreenSize = mgl32.Vec2{float32(width), float32(height)}
}

func (c *CameraState2D) GetViewMatrix() mgl32.Mat4 {
	return mgl32.Scale3D(c.Zoom, c.Zoom, 1).Mul4(mgl32.Translate3D(-c.Position.X(), -c.Position.Y(), 0))
}

// GetProjectionMatrix maps pixel space centered on the screen to clip space.
func (c *CameraState2D) GetProjectionMatrix() mgl32.Mat4 {
	hw := c.ScreenSize.X() * 0.5
	hh := c.ScreenSize.Y() * 0.5
	return mgl32.Ortho(-hw, hw, -hh, hh, -1, 1)
}

func (c *CameraState2D) ViewProj() mgl32.Mat4 {
	return c.GetProjectionMatrix().Mul4(c.GetViewMatrix())
}

// WorldToScreen returns the pixel position of a world point, origin top-left.
func (c *CameraState2D) WorldToScreen(p mgl32.Vec2) mgl32.Vec2 {
	clip := c.ViewProj().Mul4x1(mgl32.Vec4{p.X(), p.Y(), 0, 1})
	return mgl32.Vec2{
		(clip.X()*0.5 + 0.5) * c.ScreenSize.X(),
		(0.5 - clip.Y()*0.5) * c.ScreenSize.Y(),
	}
}
