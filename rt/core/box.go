package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Box2D is an axis-aligned box. Occluders and skylight masks share this shape.
type Box2D struct {
	Center     mgl32.Vec2
	HalfExtent mgl32.Vec2
}

func NewBox2D(center, halfExtent mgl32.Vec2) Box2D {
	return Box2D{Center: center, HalfExtent: halfExtent}
}

// BoxFromMinMax builds a box from two corners in any order.
func BoxFromMinMax(a, b mgl32.Vec2) Box2D {
	minX, maxX := a.X(), b.X()
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y(), b.Y()
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return Box2D{
		Center:     mgl32.Vec2{(minX + maxX) * 0.5, (minY + maxY) * 0.5},
		HalfExtent: mgl32.Vec2{(maxX - minX) * 0.5, (maxY - minY) * 0.5},
	}
}

// Degenerate reports whether either half-extent is zero or negative.
func (b Box2D) Degenerate() bool {
	return b.HalfExtent.X() <= 0 || b.HalfExtent.Y() <= 0
}

func (b Box2D) Min() mgl32.Vec2 {
	return b.Center.Sub(b.HalfExtent)
}

func (b Box2D) Max() mgl32.Vec2 {
	return b.Center.Add(b.HalfExtent)
}

func (b Box2D) Contains(p mgl32.Vec2) bool {
	lo, hi := b.Min(), b.Max()
	return p.X() >= lo.X() && p.X() <= hi.X() && p.Y() >= lo.Y() && p.Y() <= hi.Y()
}
