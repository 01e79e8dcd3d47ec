package gpu

// RuntimeBuffer pairs a device count with the records it covers. The count is
// only ever set together with the data, so the two cannot drift apart.
//
//	struct Buffer {
//	  count: u32,
//	  data:  array<T>, -- at DataOffset(), Stride() apart
//	}
type RuntimeBuffer[T Record] struct {
	count  uint32
	data   []T
	layout *RuntimeArrayLayout
}

func newRuntimeBuffer[T Record](layout *RuntimeArrayLayout, capacity int) RuntimeBuffer[T] {
	return RuntimeBuffer[T]{layout: layout, data: make([]T, 0, capacity)}
}

// Count is the number of elements the device may read.
func (b *RuntimeBuffer[T]) Count() uint32 { return b.count }

// Len is the physical length of the data sequence.
func (b *RuntimeBuffer[T]) Len() int { return len(b.data) }

func (b *RuntimeBuffer[T]) At(i int) T { return b.data[i] }

// Data returns a copy of the records.
func (b *RuntimeBuffer[T]) Data() []T {
	out := make([]T, len(b.data))
	copy(out, b.data)
	return out
}

func (b *RuntimeBuffer[T]) Layout() *RuntimeArrayLayout { return b.layout }

// ByteSize is the exact packed size: header plus Len() elements.
func (b *RuntimeBuffer[T]) ByteSize() int {
	return b.layout.SizeFor(len(b.data))
}

// replace swaps the contents in place, reusing the backing array.
func (b *RuntimeBuffer[T]) replace(items []T) {
	b.data = append(b.data[:0], items...)
	b.count = uint32(len(b.data))
}

func (b *RuntimeBuffer[T]) Marshal() []byte {
	return b.MarshalInto(nil)
}

// MarshalInto writes the header then the element array into dst, growing it
// as needed, and returns the written slice.
func (b *RuntimeBuffer[T]) MarshalInto(dst []byte) []byte {
	dst = grow(dst, b.ByteSize())
	putU32(dst, b.layout.Header.Offset("count"), b.count)

	base := b.layout.DataOffset()
	stride := b.layout.Stride()
	for i, rec := range b.data {
		off := base + i*stride
		rec.MarshalTo(dst[off : off+stride])
	}
	return dst
}

// UnmarshalRuntimeBuffer decodes count and Len elements from src. The
// element count is taken from the header, capped at the number of whole
// records src actually holds.
func UnmarshalRuntimeBuffer[T Record](src []byte, layout *RuntimeArrayLayout, decode func([]byte) T) RuntimeBuffer[T] {
	if len(src) < layout.Header.Size() {
		return newRuntimeBuffer[T](layout, 0)
	}
	count := int(getU32(src, layout.Header.Offset("count")))
	base := layout.DataOffset()
	stride := layout.Stride()
	avail := 0
	if len(src) > base {
		avail = (len(src) - base) / stride
	}
	count = min(count, avail)

	b := newRuntimeBuffer[T](layout, count)
	for i := 0; i < count; i++ {
		off := base + i*stride
		b.data = append(b.data, decode(src[off:off+stride]))
	}
	b.count = uint32(count)
	return b
}
