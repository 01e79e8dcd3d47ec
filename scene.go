package gi2d

import (
	"github.com/gekko3d/gi2d/rt/core"

	"github.com/google/uuid"
)

type (
	LightId        string
	OccluderId     string
	SkylightMaskId string
)

type ordered[K comparable, V any] struct {
	order []K
	items map[K]V
}

func newOrdered[K comparable, V any]() ordered[K, V] {
	return ordered[K, V]{items: make(map[K]V)}
}

func (o *ordered[K, V]) add(k K, v V) {
	if _, ok := o.items[k]; !ok {
		o.order = append(o.order, k)
	}
	o.items[k] = v
}

func (o *ordered[K, V]) remove(k K) bool {
	if _, ok := o.items[k]; !ok {
		return false
	}
	delete(o.items, k)
	for i, id := range o.order {
		if id == k {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	return true
}

// appendValues appends values in insertion order.
func (o *ordered[K, V]) appendValues(dst []V) []V {
	for _, k := range o.order {
		dst = append(dst, o.items[k])
	}
	return dst
}

// Scene2D holds the lights, occluders and skylight masks of a scene behind
// stable handles. It is not safe for concurrent use.
type Scene2D struct {
	lights    ordered[LightId, core.OmniLightSource2D]
	occluders ordered[OccluderId, core.Box2D]
	masks     ordered[SkylightMaskId, core.Box2D]
}

func NewScene2D() *Scene2D {
	return &Scene2D{
		lights:    newOrdered[LightId, core.OmniLightSource2D](),
		occluders: newOrdered[OccluderId, core.Box2D](),
		masks:     newOrdered[SkylightMaskId, core.Box2D](),
	}
}

func (s *Scene2D) AddLight(l core.OmniLightSource2D) LightId {
	id := LightId(uuid.NewString())
	s.lights.add(id, l)
	return id
}

// UpdateLight replaces a light in place; it keeps its position in the ordering.
func (s *Scene2D) UpdateLight(id LightId, l core.OmniLightSource2D) bool {
	if _, ok := s.lights.items[id]; !ok {
		return false
	}
	s.lights.items[id] = l
	return true
}

func (s *Scene2D) Light(id LightId) (core.OmniLightSource2D, bool) {
	l, ok := s.lights.items[id]
	return l, ok
}

func (s *Scene2D) RemoveLight(id LightId) bool { return s.lights.remove(id) }

func (s *Scene2D) AddOccluder(b core.Box2D) OccluderId {
	id := OccluderId(uuid.NewString())
	s.occluders.add(id, b)
	return id
}

func (s *Scene2D) UpdateOccluder(id OccluderId, b core.Box2D) bool {
	if _, ok := s.occluders.items[id]; !ok {
		return false
	}
	s.occluders.items[id] = b
	return true
}

func (s *Scene2D) RemoveOccluder(id OccluderId) bool { return s.occluders.remove(id) }

func (s *Scene2D) AddSkylightMask(b core.Box2D) SkylightMaskId {
	id := SkylightMaskId(uuid.NewString())
	s.masks.add(id, b)
	return id
}

func (s *Scene2D) UpdateSkylightMask(id SkylightMaskId, b core.Box2D) bool {
	if _, ok := s.masks.items[id]; !ok {
		return false
	}
	s.masks.items[id] = b
	return true
}

func (s *Scene2D) RemoveSkylightMask(id SkylightMaskId) bool { return s.masks.remove(id) }

func (s *Scene2D) LightCount() int        { return len(s.lights.order) }
func (s *Scene2D) OccluderCount() int     { return len(s.occluders.order) }
func (s *Scene2D) SkylightMaskCount() int { return len(s.masks.order) }

// Lights returns the lights in insertion order.
func (s *Scene2D) Lights() []core.OmniLightSource2D {
	return s.lights.appendValues(nil)
}

func (s *Scene2D) Occluders() []core.Box2D {
	return s.occluders.appendValues(nil)
}

func (s *Scene2D) SkylightMasks() []core.Box2D {
	return s.masks.appendValues(nil)
}
