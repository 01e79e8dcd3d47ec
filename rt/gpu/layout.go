package gpu

import "fmt"

// FieldKind is a WGSL host-shareable scalar, vector or matrix type.
type FieldKind int

const (
	KindF32 FieldKind = iota
	KindU32
	KindI32
	KindVec2
	KindVec3
	KindVec4
	KindMat4
)

// Align returns the WGSL alignment in bytes.
func (k FieldKind) Align() int {
	switch k {
	case KindF32, KindU32, KindI32:
		return 4
	case KindVec2:
		return 8
	case KindVec3, KindVec4, KindMat4:
		return 16
	}
	panic(fmt.Sprintf("gpu: unknown field kind %d", int(k)))
}

// Size returns the WGSL size in bytes. vec3 is 12 bytes but 16-aligned.
func (k FieldKind) Size() int {
	switch k {
	case KindF32, KindU32, KindI32:
		return 4
	case KindVec2:
		return 8
	case KindVec3:
		return 12
	case KindVec4:
		return 16
	case KindMat4:
		return 64
	}
	panic(fmt.Sprintf("gpu: unknown field kind %d", int(k)))
}

func (k FieldKind) String() string {
	switch k {
	case KindF32:
		return "f32"
	case KindU32:
		return "u32"
	case KindI32:
		return "i32"
	case KindVec2:
		return "vec2<f32>"
	case KindVec3:
		return "vec3<f32>"
	case KindVec4:
		return "vec4<f32>"
	case KindMat4:
		return "mat4x4<f32>"
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

type Field struct {
	Name string
	Kind FieldKind
}

// Layout is an explicit struct layout: fields in declaration order with the
// offsets WGSL assigns to them.
type Layout struct {
	Name    string
	Fields  []Field
	offsets []int
	end     int
	size    int
	align   int
}

func NewLayout(name string, fields ...Field) *Layout {
	l := &Layout{Name: name, Fields: fields, offsets: make([]int, len(fields)), align: 1}
	off := 0
	for i, f := range fields {
		off = roundUp(off, f.Kind.Align())
		l.offsets[i] = off
		off += f.Kind.Size()
		if f.Kind.Align() > l.align {
			l.align = f.Kind.Align()
		}
	}
	l.end = off
	l.size = roundUp(off, l.align)
	return l
}

// Offset returns the byte offset of the named field. Unknown names panic.
func (l *Layout) Offset(name string) int {
	for i, f := range l.Fields {
		if f.Name == name {
			return l.offsets[i]
		}
	}
	panic(fmt.Sprintf("gpu: layout %s has no field %q", l.Name, name))
}

func (l *Layout) Size() int  { return l.size }
func (l *Layout) Align() int { return l.align }

// End is the first byte after the last field, before struct padding.
func (l *Layout) End() int { return l.end }

// RuntimeArrayLayout describes a struct whose last member is a runtime-sized
// array: a fixed header followed by tightly strided elements.
type RuntimeArrayLayout struct {
	Name    string
	Header  *Layout
	Element *Layout
}

func NewRuntimeArrayLayout(name string, header *Layout, element *Layout) *RuntimeArrayLayout {
	return &RuntimeArrayLayout{Name: name, Header: header, Element: element}
}

// DataOffset is where element 0 begins.
func (a *RuntimeArrayLayout) DataOffset() int {
	return roundUp(a.Header.End(), a.Element.Align())
}

func (a *RuntimeArrayLayout) Stride() int {
	return roundUp(a.Element.Size(), a.Element.Align())
}

// SizeFor returns the byte size of the buffer holding n elements.
func (a *RuntimeArrayLayout) SizeFor(n int) int {
	return a.DataOffset() + n*a.Stride()
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}
