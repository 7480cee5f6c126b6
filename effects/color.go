package effects

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/gpuimage"
)

// Parameter names of the color effects.
const (
	BrightnessParam  = "brightness"
	ContrastParam    = "contrast"
	ColorLevelsParam = "colorLevels"
	ColorMatrixParam = "colorMatrix"
	FirstColorParam  = "firstColor"
	SecondColorParam = "secondColor"
)

// ColorInvert inverts the color channels and keeps alpha.
func ColorInvert() gpuimage.Effect {
	return gpuimage.Effect{
		Name: "ColorInvert",
		Fragment: `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let c = textureSampleLevel(inputTexture, inputSampler, in.uv, 0.0);
    return vec4<f32>(vec3<f32>(1.0) - c.rgb, c.a);
}
`,
		Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
			c := f.Sample(0, f.Coord)
			return gpuimage.Vec4{1 - c[0], 1 - c[1], 1 - c[2], c[3]}
		},
	}
}

// Grayscale replaces the color by its luminance.
func Grayscale() gpuimage.Effect {
	return gpuimage.Effect{
		Name: "Grayscale",
		Fragment: `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let c = textureSampleLevel(inputTexture, inputSampler, in.uv, 0.0);
    let l = dot(c.rgb, ` + lumaWGSL + `);
    return vec4<f32>(vec3<f32>(l), c.a);
}
`,
		Kernel: grayscaleKernel,
	}
}

func grayscaleKernel(f *gpuimage.Fragment) gpuimage.Vec4 {
	c := f.Sample(0, f.Coord)
	l := c.RGB().Dot(gpuimage.Luminance)
	return gpuimage.Vec4{l, l, l, c[3]}
}

// Brightness adds a constant in [-1, 1] to every color channel. Default 0.
func Brightness() gpuimage.Effect {
	return gpuimage.Effect{
		Name:     "Brightness",
		Uniforms: []gpuimage.UniformDecl{{Name: BrightnessParam, Type: gpuimage.TypeFloat}},
		Defaults: []gpuimage.Param{{Name: BrightnessParam, Value: gpuimage.Float(0)}},
		Validate: inRange(map[string]bounds{BrightnessParam: {-1, 1}}),
		Fragment: `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let c = textureSampleLevel(inputTexture, inputSampler, in.uv, 0.0);
    return vec4<f32>(c.rgb + vec3<f32>(params.brightness), c.a);
}
`,
		Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
			c := f.Sample(0, f.Coord)
			b := f.Params.Float(BrightnessParam)
			return gpuimage.Vec4{c[0] + b, c[1] + b, c[2] + b, c[3]}
		},
	}
}

// Contrast scales colors around mid-gray. Range 0 to 4, default 1.2.
func Contrast() gpuimage.Effect {
	return gpuimage.Effect{
		Name:     "Contrast",
		Uniforms: []gpuimage.UniformDecl{{Name: ContrastParam, Type: gpuimage.TypeFloat}},
		Defaults: []gpuimage.Param{{Name: ContrastParam, Value: gpuimage.Float(1.2)}},
		Validate: inRange(map[string]bounds{ContrastParam: {0, 4}}),
		Fragment: `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let c = textureSampleLevel(inputTexture, inputSampler, in.uv, 0.0);
    return vec4<f32>((c.rgb - vec3<f32>(0.5)) * params.contrast + vec3<f32>(0.5), c.a);
}
`,
		Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
			c := f.Sample(0, f.Coord)
			k := f.Params.Float(ContrastParam)
			for i := 0; i < 3; i++ {
				c[i] = (c[i]-0.5)*k + 0.5
			}
			return c
		},
	}
}

// Posterize reduces every channel to colorLevels steps. Levels run from 1
// to 256, default 10.
func Posterize() gpuimage.Effect {
	return gpuimage.Effect{
		Name:     "Posterize",
		Uniforms: []gpuimage.UniformDecl{{Name: ColorLevelsParam, Type: gpuimage.TypeInt}},
		Defaults: []gpuimage.Param{{Name: ColorLevelsParam, Value: gpuimage.Int(10)}},
		Validate: inRange(map[string]bounds{ColorLevelsParam: {1, 256}}),
		Fragment: `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let c = textureSampleLevel(inputTexture, inputSampler, in.uv, 0.0);
    let levels = f32(params.colorLevels);
    return floor(c * levels + vec4<f32>(0.5)) / levels;
}
`,
		Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
			c := f.Sample(0, f.Coord)
			levels := float32(f.Params.Int(ColorLevelsParam))
			for i := range c {
				c[i] = math32.Floor(c[i]*levels+0.5) / levels
			}
			return c
		},
	}
}

// SepiaMatrix is the color matrix of the sepia tone, column-major.
var SepiaMatrix = gpuimage.Mat4{
	0.3588, 0.7044, 0.1368, 0,
	0.2990, 0.5870, 0.1140, 0,
	0.2392, 0.4696, 0.0912, 0,
	0, 0, 0, 1,
}

// ColorMatrix multiplies every color, as a row vector, by m and mixes the
// result with the original by intensity.
func ColorMatrix(m gpuimage.Mat4, intensity float32) gpuimage.Effect {
	return gpuimage.Effect{
		Name: "ColorMatrix",
		Uniforms: []gpuimage.UniformDecl{
			{Name: ColorMatrixParam, Type: gpuimage.TypeMat4},
			{Name: IntensityParam, Type: gpuimage.TypeFloat},
		},
		Defaults: []gpuimage.Param{
			{Name: ColorMatrixParam, Value: m},
			{Name: IntensityParam, Value: gpuimage.Float(intensity)},
		},
		Fragment: `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let c = textureSampleLevel(inputTexture, inputSampler, in.uv, 0.0);
    let m = c * params.colorMatrix;
    return params.intensity * m + (1.0 - params.intensity) * c;
}
`,
		Kernel: colorMatrixKernel,
	}
}

func colorMatrixKernel(f *gpuimage.Fragment) gpuimage.Vec4 {
	c := f.Sample(0, f.Coord)
	m := f.Params.Mat4(ColorMatrixParam)
	k := f.Params.Float(IntensityParam)
	var out gpuimage.Vec4
	for col := 0; col < 4; col++ {
		var s float32
		for row := 0; row < 4; row++ {
			s += c[row] * m[col*4+row]
		}
		out[col] = s
	}
	return out.Scale(k).Add(c.Scale(1 - k))
}

// Sepia is ColorMatrix with SepiaMatrix at full intensity.
func Sepia() gpuimage.Effect {
	e := ColorMatrix(SepiaMatrix, 1)
	e.Name = "Sepia"
	return e
}

// FalseColor maps luminance onto a gradient between two colors, dark blue
// to red by default.
func FalseColor() gpuimage.Effect {
	return gpuimage.Effect{
		Name: "FalseColor",
		Uniforms: []gpuimage.UniformDecl{
			{Name: FirstColorParam, Type: gpuimage.TypeVec3},
			{Name: SecondColorParam, Type: gpuimage.TypeVec3},
		},
		Defaults: []gpuimage.Param{
			{Name: FirstColorParam, Value: gpuimage.Vec3{0, 0, 0.5}},
			{Name: SecondColorParam, Value: gpuimage.Vec3{1, 0, 0}},
		},
		Fragment: `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let c = textureSampleLevel(inputTexture, inputSampler, in.uv, 0.0);
    let l = dot(c.rgb, ` + lumaWGSL + `);
    return vec4<f32>(mix(params.firstColor, params.secondColor, l), c.a);
}
`,
		Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
			c := f.Sample(0, f.Coord)
			l := c.RGB().Dot(gpuimage.Luminance)
			a := f.Params.Vec3(FirstColorParam)
			b := f.Params.Vec3(SecondColorParam)
			var out gpuimage.Vec4
			for i := 0; i < 3; i++ {
				out[i] = a[i] + (b[i]-a[i])*l
			}
			out[3] = c[3]
			return out
		},
	}
}
