package effects

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/gpuimage"
)

// Parameter names of the neighborhood effects.
const (
	ConvolutionParam        = "convolutionMatrix"
	ThresholdParam          = "threshold"
	QuantizationLevelsParam = "quantizationLevels"
	PixelParam              = "pixel"
	FractionalWidthParam    = "fractionalWidthOfPixel"
	AspectRatioParam        = "aspectRatio"
)

// tapWGSL reads the input one scaled texel step away from uv.
const tapWGSL = `fn tap(uv: vec2<f32>, dx: f32, dy: f32) -> vec4<f32> {
    let stride = params.texelSize * params.lineSize;
    return textureSampleLevel(inputTexture, inputSampler, uv + vec2<f32>(dx * stride.x, dy * stride.y), 0.0);
}

`

// neighborhoodUniforms are shared by every 3x3 sampling effect.
func neighborhoodUniforms(extra ...gpuimage.UniformDecl) []gpuimage.UniformDecl {
	return append([]gpuimage.UniformDecl{
		{Name: TexelSizeUniform, Type: gpuimage.TypeVec2},
		{Name: LineSizeParam, Type: gpuimage.TypeFloat},
	}, extra...)
}

// window is the 3x3 neighborhood of a fragment, row by row.
type window [9]gpuimage.Vec4

func sample3x3(f *gpuimage.Fragment) window {
	step := f.Params.Vec2(TexelSizeUniform).Scale(f.Params.Float(LineSizeParam))
	var w window
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			off := gpuimage.Vec2{float32(dx) * step[0], float32(dy) * step[1]}
			w[(dy+1)*3+dx+1] = f.Sample(0, f.Coord.Add(off))
		}
	}
	return w
}

// sobel returns the horizontal and vertical gradients of the red channel.
func (w window) sobel() (h, v float32) {
	tl, t, tr := w[0][0], w[1][0], w[2][0]
	l, r := w[3][0], w[5][0]
	bl, b, br := w[6][0], w[7][0], w[8][0]
	h = -tl - 2*t - tr + bl + 2*b + br
	v = -bl - 2*l - tl + br + 2*r + tr
	return h, v
}

const sobelWGSL = `fn sobel(uv: vec2<f32>) -> vec2<f32> {
    let tl = tap(uv, -1.0, -1.0).r;
    let t = tap(uv, 0.0, -1.0).r;
    let tr = tap(uv, 1.0, -1.0).r;
    let l = tap(uv, -1.0, 0.0).r;
    let r = tap(uv, 1.0, 0.0).r;
    let bl = tap(uv, -1.0, 1.0).r;
    let b = tap(uv, 0.0, 1.0).r;
    let br = tap(uv, 1.0, 1.0).r;
    let h = -tl - 2.0 * t - tr + bl + 2.0 * b + br;
    let v = -bl - 2.0 * l - tl + br + 2.0 * r + tr;
    return vec2<f32>(h, v);
}

`

// Convolution3x3 convolves the input with m. The matrix is laid out the
// way the neighborhood is read: m[0..2] weigh the top row, m[6..8] the
// bottom row. Alpha is taken from the center texel.
func Convolution3x3(m gpuimage.Mat3) gpuimage.Effect {
	return gpuimage.Effect{
		Name:       "Convolution3x3",
		Uniforms:   neighborhoodUniforms(gpuimage.UniformDecl{Name: ConvolutionParam, Type: gpuimage.TypeMat3}),
		Defaults:   []gpuimage.Param{{Name: LineSizeParam, Value: gpuimage.Float(1)}, {Name: ConvolutionParam, Value: m}},
		SizeParams: texelSize,
		Fragment: tapWGSL + `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let m = params.convolutionMatrix;
    let center = tap(in.uv, 0.0, 0.0);
    var sum = tap(in.uv, -1.0, -1.0).rgb * m[0][0] + tap(in.uv, 0.0, -1.0).rgb * m[0][1] + tap(in.uv, 1.0, -1.0).rgb * m[0][2];
    sum = sum + tap(in.uv, -1.0, 0.0).rgb * m[1][0] + center.rgb * m[1][1] + tap(in.uv, 1.0, 0.0).rgb * m[1][2];
    sum = sum + tap(in.uv, -1.0, 1.0).rgb * m[2][0] + tap(in.uv, 0.0, 1.0).rgb * m[2][1] + tap(in.uv, 1.0, 1.0).rgb * m[2][2];
    return vec4<f32>(sum, center.a);
}
`,
		Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
			return convolve(sample3x3(f), f.Params.Mat3(ConvolutionParam))
		},
	}
}

func convolve(w window, m gpuimage.Mat3) gpuimage.Vec4 {
	var out gpuimage.Vec4
	for i, c := range w {
		for ch := 0; ch < 3; ch++ {
			out[ch] += c[ch] * m[i]
		}
	}
	out[3] = w[4][3]
	return out
}

// EmbossMatrix returns the convolution Emboss applies at intensity k.
func EmbossMatrix(k float32) gpuimage.Mat3 {
	return gpuimage.Mat3{
		-2 * k, -k, 0,
		-k, 1, k,
		0, k, 2 * k,
	}
}

// Emboss is a directional relief convolution. Intensity runs from 0 to 4,
// default 1.
func Emboss() gpuimage.Effect {
	return gpuimage.Effect{
		Name:       "Emboss",
		Uniforms:   neighborhoodUniforms(gpuimage.UniformDecl{Name: IntensityParam, Type: gpuimage.TypeFloat}),
		Defaults:   []gpuimage.Param{{Name: LineSizeParam, Value: gpuimage.Float(1)}, {Name: IntensityParam, Value: gpuimage.Float(1)}},
		Validate:   inRange(map[string]bounds{IntensityParam: {0, 4}}),
		SizeParams: texelSize,
		Fragment: tapWGSL + `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let k = params.intensity;
    let center = tap(in.uv, 0.0, 0.0);
    var sum = tap(in.uv, -1.0, -1.0).rgb * (-2.0 * k) - tap(in.uv, 0.0, -1.0).rgb * k;
    sum = sum - tap(in.uv, -1.0, 0.0).rgb * k + center.rgb + tap(in.uv, 1.0, 0.0).rgb * k;
    sum = sum + tap(in.uv, 0.0, 1.0).rgb * k + tap(in.uv, 1.0, 1.0).rgb * (2.0 * k);
    return vec4<f32>(sum, center.a);
}
`,
		Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
			return convolve(sample3x3(f), EmbossMatrix(f.Params.Float(IntensityParam)))
		},
	}
}

// Toon draws dark outlines where the Sobel magnitude reaches threshold and
// posterizes the rest.
func Toon() gpuimage.Effect {
	return gpuimage.Effect{
		Name: "Toon",
		Uniforms: neighborhoodUniforms(
			gpuimage.UniformDecl{Name: ThresholdParam, Type: gpuimage.TypeFloat},
			gpuimage.UniformDecl{Name: QuantizationLevelsParam, Type: gpuimage.TypeFloat},
		),
		Defaults: []gpuimage.Param{
			{Name: LineSizeParam, Value: gpuimage.Float(1)},
			{Name: ThresholdParam, Value: gpuimage.Float(0.2)},
			{Name: QuantizationLevelsParam, Value: gpuimage.Float(10)},
		},
		Validate:   inRange(map[string]bounds{QuantizationLevelsParam: {1, 256}}),
		SizeParams: texelSize,
		Fragment: tapWGSL + sobelWGSL + `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let c = tap(in.uv, 0.0, 0.0);
    let mag = length(sobel(in.uv));
    let q = params.quantizationLevels;
    let posterized = floor(c.rgb * q + vec3<f32>(0.5)) / q;
    let keep = 1.0 - step(params.threshold, mag);
    return vec4<f32>(posterized * keep, c.a);
}
`,
		Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
			w := sample3x3(f)
			h, v := w.sobel()
			mag := gpuimage.Vec2{h, v}.Length()
			q := f.Params.Float(QuantizationLevelsParam)
			keep := 1 - gpuimage.Step(f.Params.Float(ThresholdParam), mag)
			c := w[4]
			for i := 0; i < 3; i++ {
				c[i] = math32.Floor(c[i]*q+0.5) / q * keep
			}
			return c
		},
	}
}

// SobelStage is the edge stage of SobelEdge. It expects a grayscale input.
func SobelStage() gpuimage.Effect {
	return gpuimage.Effect{
		Name:       "SobelEdgeDetection",
		Uniforms:   neighborhoodUniforms(),
		Defaults:   []gpuimage.Param{{Name: LineSizeParam, Value: gpuimage.Float(1)}},
		Validate:   inRange(map[string]bounds{LineSizeParam: {0, 64}}),
		SizeParams: texelSize,
		Fragment: tapWGSL + sobelWGSL + `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let mag = length(sobel(in.uv));
    return vec4<f32>(vec3<f32>(mag), 1.0);
}
`,
		Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
			h, v := sample3x3(f).sobel()
			mag := gpuimage.Vec2{h, v}.Length()
			return gpuimage.Vec4{mag, mag, mag, 1}
		},
	}
}

// SketchStage is the inverted edge stage of Sketch.
func SketchStage() gpuimage.Effect {
	e := SobelStage()
	e.Name = "SketchEdge"
	e.Fragment = tapWGSL + sobelWGSL + `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let mag = 1.0 - length(sobel(in.uv));
    return vec4<f32>(vec3<f32>(mag), 1.0);
}
`
	e.Kernel = func(f *gpuimage.Fragment) gpuimage.Vec4 {
		h, v := sample3x3(f).sobel()
		mag := 1 - gpuimage.Vec2{h, v}.Length()
		return gpuimage.Vec4{mag, mag, mag, 1}
	}
	return e
}

// NewSobelEdge returns grayscale followed by Sobel edge detection. The
// lineSize parameter reaches the edge stage.
func NewSobelEdge() *gpuimage.Pipeline {
	return gpuimage.NewPipeline("SobelEdge", gpuimage.NewFilter(Grayscale()), gpuimage.NewFilter(SobelStage()))
}

// NewSketch returns grayscale followed by the inverted edge stage.
func NewSketch() *gpuimage.Pipeline {
	return gpuimage.NewPipeline("Sketch", gpuimage.NewFilter(Grayscale()), gpuimage.NewFilter(SketchStage()))
}

// Pixelation snaps every fragment to the corner of a block of pixel texels.
// Default 1.
func Pixelation() gpuimage.Effect {
	return gpuimage.Effect{
		Name: "Pixelation",
		Uniforms: []gpuimage.UniformDecl{
			{Name: TexelSizeUniform, Type: gpuimage.TypeVec2},
			{Name: PixelParam, Type: gpuimage.TypeFloat},
		},
		Defaults:   []gpuimage.Param{{Name: PixelParam, Value: gpuimage.Float(1)}},
		Validate:   inRange(map[string]bounds{PixelParam: {1e-6, inf}}),
		SizeParams: texelSize,
		Fragment: `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let d = params.pixel * params.texelSize;
    let coord = d * floor(in.uv / d);
    return vec4<f32>(textureSampleLevel(inputTexture, inputSampler, coord, 0.0).rgb, 1.0);
}
`,
		Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
			d := f.Params.Vec2(TexelSizeUniform).Scale(f.Params.Float(PixelParam))
			coord := gpuimage.Vec2{
				d[0] * math32.Floor(f.Coord[0]/d[0]),
				d[1] * math32.Floor(f.Coord[1]/d[1]),
			}
			c := f.Sample(0, coord)
			c[3] = 1
			return c
		},
	}
}

func aspectRatio(width, height int) []gpuimage.Param {
	if width <= 0 || height <= 0 {
		return nil
	}
	return []gpuimage.Param{{Name: AspectRatioParam, Value: gpuimage.Float(float32(height) / float32(width))}}
}

// Halftone renders black dots on a grid whose pitch is a fraction of the
// width; dot size follows darkness. The pitch never drops below one pixel.
func Halftone() gpuimage.Effect {
	return gpuimage.Effect{
		Name: "Halftone",
		Uniforms: []gpuimage.UniformDecl{
			{Name: FractionalWidthParam, Type: gpuimage.TypeFloat},
			{Name: AspectRatioParam, Type: gpuimage.TypeFloat},
		},
		Defaults: []gpuimage.Param{
			{Name: FractionalWidthParam, Value: gpuimage.Float(0.01)},
			{Name: AspectRatioParam, Value: gpuimage.Float(1)},
		},
		Validate:   inRange(map[string]bounds{FractionalWidthParam: {0, 1}}),
		SizeParams: aspectRatio,
		Fragment: `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let width = max(params.fractionalWidthOfPixel, 1.0 / max(params.outputSize.x, 1.0));
    let aspect = params.aspectRatio;
    let divisor = vec2<f32>(width, width / aspect);
    let samplePos = in.uv - (in.uv - divisor * floor(in.uv / divisor)) + 0.5 * divisor;
    let uvAdj = vec2<f32>(in.uv.x, in.uv.y * aspect + 0.5 - 0.5 * aspect);
    let sampleAdj = vec2<f32>(samplePos.x, samplePos.y * aspect + 0.5 - 0.5 * aspect);
    let dist = distance(sampleAdj, uvAdj);
    let color = textureSampleLevel(inputTexture, inputSampler, samplePos, 0.0).rgb;
    let scaling = 1.0 - dot(color, ` + lumaWGSL + `);
    let v = 1.0 - step(dist, width * 0.5 * scaling);
    return vec4<f32>(vec3<f32>(v), 1.0);
}
`,
		Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
			size := f.Params.Vec2(gpuimage.OutputSizeUniform)
			width := math32.Max(f.Params.Float(FractionalWidthParam), 1/math32.Max(size[0], 1))
			aspect := f.Params.Float(AspectRatioParam)
			div := gpuimage.Vec2{width, width / aspect}
			uv := f.Coord
			pos := gpuimage.Vec2{
				uv[0] - floorMod(uv[0], div[0]) + 0.5*div[0],
				uv[1] - floorMod(uv[1], div[1]) + 0.5*div[1],
			}
			uvAdj := gpuimage.Vec2{uv[0], uv[1]*aspect + 0.5 - 0.5*aspect}
			posAdj := gpuimage.Vec2{pos[0], pos[1]*aspect + 0.5 - 0.5*aspect}
			dist := posAdj.Distance(uvAdj)
			scaling := 1 - f.Sample(0, pos).RGB().Dot(gpuimage.Luminance)
			v := 1 - gpuimage.Step(dist, width*0.5*scaling)
			return gpuimage.Vec4{v, v, v, 1}
		},
	}
}

// CGA palette entries.
var (
	cgaBlack   = gpuimage.Vec4{0, 0, 0, 1}
	cgaWhite   = gpuimage.Vec4{1, 1, 1, 1}
	cgaCyan    = gpuimage.Vec4{85.0 / 255, 1, 1, 1}
	cgaMagenta = gpuimage.Vec4{1, 85.0 / 255, 1, 1}
)

// CGA maps the image to the four color CGA palette on a 200x320 grid.
func CGA() gpuimage.Effect {
	return gpuimage.Effect{
		Name: "CGAColorspace",
		Fragment: `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let divisor = vec2<f32>(1.0 / 200.0, 1.0 / 320.0);
    let samplePos = in.uv - (in.uv - divisor * floor(in.uv / divisor));
    let color = textureSampleLevel(inputTexture, inputSampler, samplePos, 0.0);
    let black = vec4<f32>(0.0, 0.0, 0.0, 1.0);
    let white = vec4<f32>(1.0, 1.0, 1.0, 1.0);
    let cyan = vec4<f32>(85.0 / 255.0, 1.0, 1.0, 1.0);
    let magenta = vec4<f32>(1.0, 85.0 / 255.0, 1.0, 1.0);
    let dBlack = distance(color, black);
    let dWhite = distance(color, white);
    let dCyan = distance(color, cyan);
    let dMagenta = distance(color, magenta);
    let d = min(min(min(dMagenta, dCyan), dWhite), dBlack);
    if d == dBlack {
        return black;
    } else if d == dWhite {
        return white;
    } else if d == dCyan {
        return cyan;
    }
    return magenta;
}
`,
		Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
			uv := f.Coord
			pos := gpuimage.Vec2{uv[0] - floorMod(uv[0], 1.0/200), uv[1] - floorMod(uv[1], 1.0/320)}
			c := f.Sample(0, pos)
			dBlack := distance4(c, cgaBlack)
			dWhite := distance4(c, cgaWhite)
			dCyan := distance4(c, cgaCyan)
			dMagenta := distance4(c, cgaMagenta)
			d := math32.Min(math32.Min(math32.Min(dMagenta, dCyan), dWhite), dBlack)
			switch d {
			case dBlack:
				return cgaBlack
			case dWhite:
				return cgaWhite
			case dCyan:
				return cgaCyan
			}
			return cgaMagenta
		},
	}
}

func distance4(a, b gpuimage.Vec4) float32 {
	d := a.Sub(b)
	return math32.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2] + d[3]*d[3])
}
