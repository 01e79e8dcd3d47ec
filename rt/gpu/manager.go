package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// FrameBuffers holds one frame's packed bindings. Once built it is not
// modified; the next frame gets a new value.
type FrameBuffers struct {
	Lights        []byte
	Occluders     []byte
	SkylightMasks []byte
	Probes        []byte
	Camera        []byte
	PassParams    []byte
}

// GiBufferManager owns the device buffers for the six GI bindings. Storage
// buffers grow when a catalog outgrows them and are otherwise reused.
type GiBufferManager struct {
	Device *wgpu.Device

	LightsBuf        *wgpu.Buffer
	OccludersBuf     *wgpu.Buffer
	SkylightMasksBuf *wgpu.Buffer
	ProbesBuf        *wgpu.Buffer
	CameraBuf        *wgpu.Buffer
	PassParamsBuf    *wgpu.Buffer

	// Headroom in elements added when a catalog buffer is reallocated.
	HeadroomElements int
}

func NewGiBufferManager(device *wgpu.Device) *GiBufferManager {
	return &GiBufferManager{
		Device:           device,
		HeadroomElements: 64,
	}
}

// Upload writes every binding of the frame. It reports whether any buffer was
// recreated, in which case bind groups referencing the old ones are stale.
func (m *GiBufferManager) Upload(fb *FrameBuffers) (bool, error) {
	type target struct {
		name     string
		buf      **wgpu.Buffer
		data     []byte
		usage    wgpu.BufferUsage
		minSize  int
		headroom int
	}
	targets := []target{
		{"GiLightsBuf", &m.LightsBuf, fb.Lights, wgpu.BufferUsageStorage,
			LightSourceBufferLayout.SizeFor(1), m.HeadroomElements * LightSourceBufferLayout.Stride()},
		{"GiOccludersBuf", &m.OccludersBuf, fb.Occluders, wgpu.BufferUsageStorage,
			LightOccluderBufferLayout.SizeFor(1), m.HeadroomElements * LightOccluderBufferLayout.Stride()},
		{"GiSkylightMasksBuf", &m.SkylightMasksBuf, fb.SkylightMasks, wgpu.BufferUsageStorage,
			SkylightMaskBufferLayout.SizeFor(1), m.HeadroomElements * SkylightMaskBufferLayout.Stride()},
		{"GiProbesBuf", &m.ProbesBuf, fb.Probes, wgpu.BufferUsageStorage,
			ProbeDataBufferLayout.SizeFor(1), 0},
		{"GiCameraUB", &m.CameraBuf, fb.Camera, wgpu.BufferUsageUniform,
			CameraParamsLayout.Size(), 0},
		{"GiPassParamsUB", &m.PassParamsBuf, fb.PassParams, wgpu.BufferUsageUniform,
			LightPassParamsLayout.Size(), 0},
	}

	recreated := false
	for _, t := range targets {
		r, err := m.ensureBuffer(t.name, t.buf, t.data, t.usage, t.minSize, t.headroom)
		if err != nil {
			return recreated, err
		}
		recreated = recreated || r
	}
	return recreated, nil
}

// ensureBuffer (re)creates *buf when it is missing or too small, then writes data.
// An empty catalog still needs room for one element: wgpu rejects bindings
// smaller than the shader's minimum struct size.
func (m *GiBufferManager) ensureBuffer(name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage, minSize, headroom int) (bool, error) {
	neededSize := uint64(max(len(data), minSize))
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}

	recreated := false
	current := *buf
	if current == nil || current.GetSize() < neededSize {
		if current != nil {
			current.Release()
		}
		newBuf, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            name,
			Size:             neededSize + uint64(headroom),
			Usage:            usage | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			*buf = nil
			return false, fmt.Errorf("failed to create %s: %w", name, err)
		}
		*buf = newBuf
		recreated = true
	}

	if len(data) > 0 {
		if err := m.Device.GetQueue().WriteBuffer(*buf, 0, data); err != nil {
			return recreated, fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return recreated, nil
}

// BindGroupEntries lists the six buffers starting at binding first, in the
// order lights, occluders, skylight masks, probes, camera, pass params.
func (m *GiBufferManager) BindGroupEntries(first uint32) []wgpu.BindGroupEntry {
	return []wgpu.BindGroupEntry{
		{Binding: first + 0, Buffer: m.LightsBuf, Size: wgpu.WholeSize},
		{Binding: first + 1, Buffer: m.OccludersBuf, Size: wgpu.WholeSize},
		{Binding: first + 2, Buffer: m.SkylightMasksBuf, Size: wgpu.WholeSize},
		{Binding: first + 3, Buffer: m.ProbesBuf, Size: wgpu.WholeSize},
		{Binding: first + 4, Buffer: m.CameraBuf, Size: wgpu.WholeSize},
		{Binding: first + 5, Buffer: m.PassParamsBuf, Size: wgpu.WholeSize},
	}
}

func (m *GiBufferManager) CreateBindGroup(layout *wgpu.BindGroupLayout, first uint32) (*wgpu.BindGroup, error) {
	bg, err := m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "GiBindGroup",
		Layout:  layout,
		Entries: m.BindGroupEntries(first),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GI bind group: %w", err)
	}
	return bg, nil
}

func (m *GiBufferManager) Release() {
	for _, b := range []**wgpu.Buffer{&m.LightsBuf, &m.OccludersBuf, &m.SkylightMasksBuf, &m.ProbesBuf, &m.CameraBuf, &m.PassParamsBuf} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
}
