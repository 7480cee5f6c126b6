package effects

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/gogpu/gpuimage"
)

// LookupSize is the side of a color lookup image: an 8x8 grid of 64x64
// tiles, one tile per blue level, red along x and green along y.
const LookupSize = 512

// ColorLookup maps every color through a LookupSize square lookup image
// bound as the secondary input, then mixes the result with the original by
// intensity. Blue selects two neighbouring tiles and is interpolated
// between them.
func ColorLookup(intensity float32) gpuimage.Effect {
	return gpuimage.Effect{
		Name:     "ColorLookup",
		Inputs:   2,
		Uniforms: []gpuimage.UniformDecl{{Name: IntensityParam, Type: gpuimage.TypeFloat}},
		Defaults: []gpuimage.Param{{Name: IntensityParam, Value: gpuimage.Float(intensity)}},
		Validate: inRange(map[string]bounds{IntensityParam: {0, 1}}),
		Fragment: `fn tileCoord(tile: f32, rg: vec2<f32>) -> vec2<f32> {
    let row = floor(tile / 8.0);
    let cell = vec2<f32>(tile - row * 8.0, row);
    return cell * 0.125 + vec2<f32>(0.5 / 512.0) + (0.125 - 1.0 / 512.0) * rg;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let c = textureSampleLevel(inputTexture, inputSampler, in.uv, 0.0);
    let k = clamp(c.rgb, vec3<f32>(0.0), vec3<f32>(1.0));
    let blue = k.b * 63.0;
    let lo = textureSampleLevel(inputTexture2, inputSampler, tileCoord(floor(blue), k.rg), 0.0);
    let hi = textureSampleLevel(inputTexture2, inputSampler, tileCoord(ceil(blue), k.rg), 0.0);
    let mapped = vec4<f32>(mix(lo, hi, vec4<f32>(fract(blue))).rgb, c.a);
    return mix(c, mapped, vec4<f32>(params.intensity));
}
`,
		Kernel: lookupKernel,
	}
}

func lookupKernel(f *gpuimage.Fragment) gpuimage.Vec4 {
	c := f.Sample(0, f.Coord)
	r, g := gpuimage.Clamp(c[0], 0, 1), gpuimage.Clamp(c[1], 0, 1)
	blue := gpuimage.Clamp(c[2], 0, 1) * 63
	lo, hi := math32.Floor(blue), math32.Ceil(blue)
	a := f.Sample(1, tileCoord(lo, r, g))
	b := f.Sample(1, tileCoord(hi, r, g))
	mapped := a.Mix(b, blue-lo)
	mapped[3] = c[3]
	return c.Mix(mapped, f.Params.Float(IntensityParam))
}

func tileCoord(tile, r, g float32) gpuimage.Vec2 {
	row := math32.Floor(tile / 8)
	const step = 0.125 - 1.0/LookupSize
	return gpuimage.Vec2{
		(tile-row*8)*0.125 + 0.5/LookupSize + step*r,
		row*0.125 + 0.5/LookupSize + step*g,
	}
}

// IdentityLookup returns the lookup image that maps every color to itself.
func IdentityLookup() *gpuimage.Pixmap {
	data := make([]uint8, LookupSize*LookupSize*4)
	for y := 0; y < LookupSize; y++ {
		for x := 0; x < LookupSize; x++ {
			blue := (y/64)*8 + x/64
			i := (y*LookupSize + x) * 4
			data[i] = gpuimage.Quantize(float32(x%64) / 63)
			data[i+1] = gpuimage.Quantize(float32(y%64) / 63)
			data[i+2] = gpuimage.Quantize(float32(blue) / 63)
			data[i+3] = 255
		}
	}
	pm, _ := gpuimage.NewPixmapFromData(LookupSize, LookupSize, data)
	return pm
}

// NewColorLookup returns a lookup filter at full intensity. The image must
// be LookupSize square.
func NewColorLookup(lookup *gpuimage.Pixmap) (*gpuimage.Filter, error) {
	if lookup.Width() != LookupSize || lookup.Height() != LookupSize {
		return nil, fmt.Errorf("effects: lookup image is %dx%d, want %dx%d",
			lookup.Width(), lookup.Height(), LookupSize, LookupSize)
	}
	return gpuimage.NewTwoInputFilter(ColorLookup(1), lookup), nil
}
