package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Helpers. All writes are little-endian at an absolute offset into buf.

func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

func putU32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:], v)
}

func putI32(buf []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(buf[off:], uint32(v))
}

func putVec2(buf []byte, off int, v mgl32.Vec2) {
	putF32(buf, off, v[0])
	putF32(buf, off+4, v[1])
}

// putVec3 writes 12 bytes; the 4-byte tail of the 16-byte slot is left to the caller.
func putVec3(buf []byte, off int, v mgl32.Vec3) {
	putF32(buf, off, v[0])
	putF32(buf, off+4, v[1])
	putF32(buf, off+8, v[2])
}

// mgl32 matrices are column-major, same as WGSL.
func putMat4(buf []byte, off int, m mgl32.Mat4) {
	for i, v := range m {
		putF32(buf, off+i*4, v)
	}
}

func getF32(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func getU32(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off:])
}

func getI32(buf []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(buf[off:]))
}

func getVec2(buf []byte, off int) mgl32.Vec2 {
	return mgl32.Vec2{getF32(buf, off), getF32(buf, off+4)}
}

func getVec3(buf []byte, off int) mgl32.Vec3 {
	return mgl32.Vec3{getF32(buf, off), getF32(buf, off+4), getF32(buf, off+8)}
}

func getMat4(buf []byte, off int) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range m {
		m[i] = getF32(buf, off+i*4)
	}
	return m
}

func finite(vs ...float32) bool {
	for _, v := range vs {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// grow returns dst resized to n zeroed bytes, reusing its backing array when possible.
func grow(dst []byte, n int) []byte {
	if cap(dst) < n {
		return make([]byte, n)
	}
	dst = dst[:n]
	clear(dst)
	return dst
}
