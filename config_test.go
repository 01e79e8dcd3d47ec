package gi2d

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/gi2d/rt/gpu"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8, cfg.ProbeGridWidth)
	assert.Equal(t, 8, cfg.ProbeGridHeight)
	assert.Equal(t, uint32(8), cfg.ReservoirSize)
	assert.Equal(t, uint32(2), cfg.SmoothKernelSizeH)
	assert.Equal(t, uint32(1), cfg.SmoothKernelSizeW)
	assert.Equal(t, float32(0.2), cfg.DirectLightContrib)
	assert.Equal(t, float32(0.8), cfg.IndirectLightContrib)
	assert.Equal(t, "reject", cfg.Overflow)
	assert.Equal(t, "reject", cfg.SingularMatrix)

	sky, err := cfg.Skylight()
	require.NoError(t, err)
	assert.Equal(t, gpu.DefaultSkylightColor, sky)
}

func TestParseConfig_Overlay(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
probe_grid_width: 16
probe_grid_height: 12
reservoir_size: 16
direct_light_contrib: 0.5
overflow: truncate
singular_matrix: identity
`))
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.ProbeGridWidth)
	assert.Equal(t, 12, cfg.ProbeGridHeight)
	assert.Equal(t, uint32(16), cfg.ReservoirSize)
	assert.Equal(t, float32(0.5), cfg.DirectLightContrib)
	// untouched keys keep their defaults
	assert.Equal(t, float32(0.8), cfg.IndirectLightContrib)
	assert.Equal(t, DefaultProbeSize, cfg.ProbeSize)
	assert.Equal(t, "truncate", cfg.Overflow)
}

func TestParseConfig_NamedSkylight(t *testing.T) {
	cfg, err := ParseConfig([]byte("skylight_color_name: White\nskylight_scale: 0.01\n"))
	require.NoError(t, err)

	sky, err := cfg.Skylight()
	require.NoError(t, err)
	assert.InDelta(t, 0.01, sky.X(), 1e-6)
	assert.InDelta(t, 0.01, sky.Y(), 1e-6)
	assert.InDelta(t, 0.01, sky.Z(), 1e-6)

	cfg, err = ParseConfig([]byte("skylight_color: [0.1, 0.2, 0.3]\n"))
	require.NoError(t, err)
	sky, err = cfg.Skylight()
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{0.1, 0.2, 0.3}, sky)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig([]byte("probe_grid_width: 0\n"))
	assert.True(t, errors.Is(err, gpu.ErrInvalidProbeGrid))

	_, err = ParseConfig([]byte("overflow: wrap\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("singular_matrix: ignore\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("skylight_color_name: not-a-color\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("max_lights: -1\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("probe_grid_width: [\n"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("probe_size: 4\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.ProbeSize)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_PassParams(t *testing.T) {
	cfg := DefaultConfig()
	grid, err := gpu.NewProbeGrid(cfg.ProbeGridWidth, cfg.ProbeGridHeight)
	require.NoError(t, err)

	p, err := cfg.PassParams(grid)
	require.NoError(t, err)
	assert.Equal(t, int32(DefaultProbeSize), p.ProbeSize)
	assert.Equal(t, int32(8), p.ProbeAtlasCols)
	assert.Equal(t, int32(8), p.ProbeAtlasRows)
	assert.Equal(t, int32(0), p.FrameCounter)
	assert.Equal(t, uint32(8), p.ReservoirSize)
}
