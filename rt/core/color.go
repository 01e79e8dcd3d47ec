package core

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
)

func ColorFromRGBA(r, g, b, a float32) mgl32.Vec4 {
	return mgl32.Vec4{r, g, b, a}
}

// ColorFromImage converts any image/color value to straight (non-premultiplied) RGBA in [0,1].
func ColorFromImage(c color.Color) mgl32.Vec4 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return mgl32.Vec4{
		float32(n.R) / 255.0,
		float32(n.G) / 255.0,
		float32(n.B) / 255.0,
		float32(n.A) / 255.0,
	}
}

// NamedColor looks up an SVG 1.1 color name, case-insensitive.
func NamedColor(name string) (mgl32.Vec4, error) {
	c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return mgl32.Vec4{}, fmt.Errorf("unknown color name %q", name)
	}
	return ColorFromImage(c), nil
}
