package gpuimage

import (
	"image/color"
	"strconv"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Common colors.
var (
	Black       = RGBA{0, 0, 0, 1}
	White       = RGBA{1, 1, 1, 1}
	Transparent = RGBA{0, 0, 0, 0}
)

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Color converts c to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

// Vec4 returns c as a shader-side color.
func (c RGBA) Vec4() Vec4 {
	return Vec4{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

// FromColor converts a standard color.Color to RGBA (straight alpha).
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// Hex parses "RGB", "RGBA", "RRGGBB" or "RRGGBBAA", with an optional
// leading '#'. Malformed input yields opaque black.
func Hex(hex string) RGBA {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) == 3 || len(hex) == 4 {
		long := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			long = append(long, hex[i], hex[i])
		}
		hex = string(long)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return Black
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Black
	}
	return RGBA{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}
}

// to8 quantizes a [0,1] component to 8 bits, rounding to nearest.
// NaN maps to zero.
func to8(x float64) uint8 {
	if !(x > 0) {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(x*255 + 0.5)
}

// Quantize converts a shader output component to 8 bits the way an RGBA8
// render target stores it.
func Quantize(x float32) uint8 {
	return to8(float64(x))
}
