package gi2d

import (
	"fmt"
	"os"

	"github.com/gekko3d/gi2d/rt/core"
	"github.com/gekko3d/gi2d/rt/gpu"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

const (
	DefaultProbeGridSize = 8
	DefaultProbeSize     = 8
)

type SingularPolicy uint8

const (
	// SingularReject fails the frame when the view-projection cannot be inverted.
	SingularReject SingularPolicy = iota
	// SingularIdentity uploads an identity inverse and logs a warning.
	SingularIdentity
)

func (p SingularPolicy) String() string {
	switch p {
	case SingularReject:
		return "reject"
	case SingularIdentity:
		return "identity"
	}
	return fmt.Sprintf("SingularPolicy(%d)", uint8(p))
}

func ParseSingularPolicy(s string) (SingularPolicy, error) {
	switch s {
	case "", "reject":
		return SingularReject, nil
	case "identity":
		return SingularIdentity, nil
	}
	return SingularReject, fmt.Errorf("unknown singular policy %q", s)
}

// Config is read once at startup. Probe grid dimensions cannot change
// afterwards without building a new FrameBuilder.
type Config struct {
	ProbeGridWidth  int `yaml:"probe_grid_width"`
	ProbeGridHeight int `yaml:"probe_grid_height"`
	ProbeSize       int `yaml:"probe_size"`

	SkylightColor     [3]float32 `yaml:"skylight_color"`
	SkylightColorName string     `yaml:"skylight_color_name"`
	SkylightScale     float32    `yaml:"skylight_scale"`

	ReservoirSize        uint32  `yaml:"reservoir_size"`
	SmoothKernelSizeH    uint32  `yaml:"smooth_kernel_size_h"`
	SmoothKernelSizeW    uint32  `yaml:"smooth_kernel_size_w"`
	DirectLightContrib   float32 `yaml:"direct_light_contrib"`
	IndirectLightContrib float32 `yaml:"indirect_light_contrib"`

	MaxLights        int    `yaml:"max_lights"`
	MaxOccluders     int    `yaml:"max_occluders"`
	MaxSkylightMasks int    `yaml:"max_skylight_masks"`
	Overflow         string `yaml:"overflow"`
	SingularMatrix   string `yaml:"singular_matrix"`

	Debug bool `yaml:"debug"`
}

func DefaultConfig() Config {
	pass := gpu.DefaultGpuLightPassParams()
	return Config{
		ProbeGridWidth:  DefaultProbeGridSize,
		ProbeGridHeight: DefaultProbeGridSize,
		ProbeSize:       DefaultProbeSize,

		SkylightColor: [3]float32(pass.SkylightColor),
		SkylightScale: 1,

		ReservoirSize:        pass.ReservoirSize,
		SmoothKernelSizeH:    pass.SmoothKernelSizeH,
		SmoothKernelSizeW:    pass.SmoothKernelSizeW,
		DirectLightContrib:   pass.DirectLightContrib,
		IndirectLightContrib: pass.IndirectLightContrib,

		MaxLights:        gpu.MaxLights,
		MaxOccluders:     gpu.MaxOccluders,
		MaxSkylightMasks: gpu.MaxSkylightMasks,
		Overflow:         gpu.OverflowReject.String(),
		SingularMatrix:   SingularReject.String(),
	}
}

// ParseConfig overlays a YAML document on DefaultConfig and validates it.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse gi config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read gi config: %w", err)
	}
	return ParseConfig(data)
}

func (c Config) Validate() error {
	if c.ProbeGridWidth <= 0 || c.ProbeGridHeight <= 0 {
		return fmt.Errorf("probe grid %dx%d: %w", c.ProbeGridWidth, c.ProbeGridHeight, gpu.ErrInvalidProbeGrid)
	}
	if c.ProbeSize <= 0 {
		return fmt.Errorf("probe size %d: %w", c.ProbeSize, gpu.ErrPassParamsUnset)
	}
	if c.MaxLights <= 0 || c.MaxOccluders <= 0 || c.MaxSkylightMasks <= 0 {
		return fmt.Errorf("catalog limits must be positive (lights=%d occluders=%d masks=%d)", c.MaxLights, c.MaxOccluders, c.MaxSkylightMasks)
	}
	if _, err := gpu.ParseOverflowPolicy(c.Overflow); err != nil {
		return err
	}
	if _, err := ParseSingularPolicy(c.SingularMatrix); err != nil {
		return err
	}
	if _, err := c.Skylight(); err != nil {
		return err
	}
	return nil
}

// Skylight resolves the ambient baseline. A color name, when set, wins over
// the RGB triple; either is multiplied by SkylightScale.
func (c Config) Skylight() (mgl32.Vec3, error) {
	rgb := mgl32.Vec3(c.SkylightColor)
	if c.SkylightColorName != "" {
		named, err := core.NamedColor(c.SkylightColorName)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("skylight: %w", err)
		}
		rgb = named.Vec3()
	}
	return rgb.Mul(c.SkylightScale), nil
}

// PassParams builds the pass block for a probe grid. The frame counter starts at zero.
func (c Config) PassParams(grid *gpu.ProbeGrid) (gpu.GpuLightPassParams, error) {
	sky, err := c.Skylight()
	if err != nil {
		return gpu.GpuLightPassParams{}, err
	}
	p := gpu.DefaultGpuLightPassParams()
	p.SetProbeTopology(c.ProbeSize, grid)
	p.SkylightColor = sky
	p.ReservoirSize = c.ReservoirSize
	p.SmoothKernelSizeH = c.SmoothKernelSizeH
	p.SmoothKernelSizeW = c.SmoothKernelSizeW
	p.DirectLightContrib = c.DirectLightContrib
	p.IndirectLightContrib = c.IndirectLightContrib
	return p, p.Validate()
}
