package gpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ProbeGrid is the fixed-capacity screen probe buffer. Every slot is active:
// count always equals width*height and only the poses change between frames.
type ProbeGrid struct {
	width  int
	height int
	buf    GpuProbeDataBuffer
}

func NewProbeGrid(width, height int) (*ProbeGrid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidProbeGrid)
	}
	g := &ProbeGrid{width: width, height: height}
	g.buf = newRuntimeBuffer[GpuProbeData](ProbeDataBufferLayout, width*height)
	g.Reset()
	return g, nil
}

func (g *ProbeGrid) Width() int    { return g.width }
func (g *ProbeGrid) Height() int   { return g.height }
func (g *ProbeGrid) Capacity() int { return g.width * g.height }

// Reset puts every probe back at the origin.
func (g *ProbeGrid) Reset() {
	g.buf.data = g.buf.data[:g.Capacity()]
	clear(g.buf.data)
	g.buf.count = uint32(g.Capacity())
}

// SetPose sets probe i (row-major) to the given camera-space position.
func (g *ProbeGrid) SetPose(i int, pose mgl32.Vec2) error {
	if i < 0 || i >= g.Capacity() {
		return fmt.Errorf("probe %d of %d: %w", i, g.Capacity(), ErrProbeIndex)
	}
	g.buf.data[i].CameraPose = pose
	return nil
}

func (g *ProbeGrid) SetPoseAt(x, y int, pose mgl32.Vec2) error {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return fmt.Errorf("probe (%d,%d) in %dx%d: %w", x, y, g.width, g.height, ErrProbeIndex)
	}
	return g.SetPose(y*g.width+x, pose)
}

// SetPoses overwrites every pose. len(poses) must equal Capacity.
func (g *ProbeGrid) SetPoses(poses []mgl32.Vec2) error {
	if len(poses) != g.Capacity() {
		return fmt.Errorf("%d poses for %d probes: %w", len(poses), g.Capacity(), ErrProbeIndex)
	}
	for i, p := range poses {
		g.buf.data[i].CameraPose = p
	}
	return nil
}

// PlaceUniform puts one probe at the center of each cell of a width x height
// split of the screen.
func (g *ProbeGrid) PlaceUniform(screenSize mgl32.Vec2) error {
	if screenSize.X() <= 0 || screenSize.Y() <= 0 {
		return fmt.Errorf("%v: %w", screenSize, ErrZeroScreenSize)
	}
	cellW := screenSize.X() / float32(g.width)
	cellH := screenSize.Y() / float32(g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			pose := mgl32.Vec2{(float32(x) + 0.5) * cellW, (float32(y) + 0.5) * cellH}
			if err := g.SetPoseAt(x, y, pose); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *ProbeGrid) Pose(i int) mgl32.Vec2 { return g.buf.data[i].CameraPose }

func (g *ProbeGrid) Buffer() *GpuProbeDataBuffer { return &g.buf }
