package effects

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/gpuimage"
)

// Uniform and parameter names shared by several effects.
const (
	// TexelSizeUniform is one texel in texture space, derived from the
	// output size.
	TexelSizeUniform = "texelSize"

	// LineSizeParam scales the neighborhood of 3x3 sampling effects.
	LineSizeParam = "lineSize"

	IntensityParam = "intensity"
)

const lumaWGSL = "vec3<f32>(0.2125, 0.7154, 0.0721)"

// texelSize is the SizeParams hook of neighborhood effects.
func texelSize(width, height int) []gpuimage.Param {
	if width <= 0 || height <= 0 {
		return nil
	}
	return []gpuimage.Param{{
		Name:  TexelSizeUniform,
		Value: gpuimage.Vec2{1 / float32(width), 1 / float32(height)},
	}}
}

type bounds struct{ lo, hi float32 }

// inRange builds a Validate hook rejecting numeric writes outside the given
// closed intervals. Unlisted names are accepted.
func inRange(rules map[string]bounds) func(string, gpuimage.Value) bool {
	return func(name string, v gpuimage.Value) bool {
		b, ok := rules[name]
		if !ok {
			return true
		}
		var x float32
		switch v := v.(type) {
		case gpuimage.Float:
			x = float32(v)
		case gpuimage.Int:
			x = float32(v)
		default:
			return true
		}
		return !math32.IsNaN(x) && x >= b.lo && x <= b.hi
	}
}

var inf = math32.Inf(1)

// floorMod is the GLSL mod: x - y*floor(x/y).
func floorMod(x, y float32) float32 {
	return x - y*math32.Floor(x/y)
}

// single renders an effect as its own filter.
func single(e gpuimage.Effect) gpuimage.Factory {
	return func() (gpuimage.Renderable, error) {
		return gpuimage.NewFilter(e), nil
	}
}
