package effects

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/gogpu/gpuimage"
)

// Parameter names of the blur effects.
const (
	BlurCenterParam = "blurCenter"
	BlurRadiusParam = "blurRadius"
)

// ZoomBlur blurs along the line towards blurCenter. blurSize scales the
// step; the catalog adjusts it between 1 and 20.
func ZoomBlur() gpuimage.Effect {
	return gpuimage.Effect{
		Name: "ZoomBlur",
		Uniforms: []gpuimage.UniformDecl{
			{Name: BlurCenterParam, Type: gpuimage.TypeVec2},
			{Name: gpuimage.BlurSizeParam, Type: gpuimage.TypeFloat},
		},
		Defaults: []gpuimage.Param{
			{Name: BlurCenterParam, Value: gpuimage.Vec2{0.5, 0.5}},
			{Name: gpuimage.BlurSizeParam, Value: gpuimage.Float(1)},
		},
		Validate: inRange(map[string]bounds{gpuimage.BlurSizeParam: {0, inf}}),
		Fragment: `fn sampleAt(uv: vec2<f32>) -> vec4<f32> {
    return textureSampleLevel(inputTexture, inputSampler, uv, 0.0);
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let offset = (params.blurCenter - in.uv) * params.blurSize / 100.0;
    var c = sampleAt(in.uv) * 0.18;
    c = c + sampleAt(in.uv + offset) * 0.15;
    c = c + sampleAt(in.uv + 2.0 * offset) * 0.12;
    c = c + sampleAt(in.uv + 3.0 * offset) * 0.09;
    c = c + sampleAt(in.uv + 4.0 * offset) * 0.05;
    c = c + sampleAt(in.uv - offset) * 0.15;
    c = c + sampleAt(in.uv - 2.0 * offset) * 0.12;
    c = c + sampleAt(in.uv - 3.0 * offset) * 0.09;
    c = c + sampleAt(in.uv - 4.0 * offset) * 0.05;
    return c;
}
`,
		Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
			center := f.Params.Vec2(BlurCenterParam)
			size := f.Params.Float(gpuimage.BlurSizeParam)
			offset := center.Sub(f.Coord).Scale(size / 100)
			c := f.Sample(0, f.Coord).Scale(0.18)
			for i, w := range zoomWeights {
				d := offset.Scale(float32(i + 1))
				c = c.Add(f.Sample(0, f.Coord.Add(d)).Scale(w))
				c = c.Add(f.Sample(0, f.Coord.Sub(d)).Scale(w))
			}
			return c
		},
	}
}

var zoomWeights = [4]float32{0.15, 0.12, 0.09, 0.05}

// positionWeights are the nine taps of GaussianBlurPosition.
var positionWeights = [9]float32{0.05, 0.09, 0.12, 0.15, 0.18, 0.15, 0.12, 0.09, 0.05}

func blurPositionPass(name string) gpuimage.Effect {
	return gpuimage.Effect{
		Name: name,
		Uniforms: []gpuimage.UniformDecl{
			{Name: gpuimage.TexelOffsetUniform, Type: gpuimage.TypeVec2},
			{Name: BlurCenterParam, Type: gpuimage.TypeVec2},
			{Name: BlurRadiusParam, Type: gpuimage.TypeFloat},
			{Name: AspectRatioParam, Type: gpuimage.TypeFloat},
		},
		Defaults: []gpuimage.Param{
			{Name: BlurCenterParam, Value: gpuimage.Vec2{0.5, 0.5}},
			{Name: BlurRadiusParam, Value: gpuimage.Float(0.5)},
			{Name: AspectRatioParam, Value: gpuimage.Float(1)},
		},
		Validate: inRange(map[string]bounds{BlurRadiusParam: {0, inf}, AspectRatioParam: {0, inf}}),
		Fragment: `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let aspect = params.aspectRatio;
    let uv = vec2<f32>(in.uv.x, in.uv.y * aspect + 0.5 - 0.5 * aspect);
    if distance(params.blurCenter, uv) >= params.blurRadius {
        return textureSampleLevel(inputTexture, inputSampler, in.uv, 0.0);
    }
    var weights = array<f32, 9>(0.05, 0.09, 0.12, 0.15, 0.18, 0.15, 0.12, 0.09, 0.05);
    var sum = vec4<f32>(0.0);
    for (var i: i32 = 0; i < 9; i = i + 1) {
        let coord = in.uv + params.texelOffset * f32(i - 4);
        sum = sum + textureSampleLevel(inputTexture, inputSampler, coord, 0.0) * weights[i];
    }
    return sum;
}
`,
		Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
			aspect := f.Params.Float(AspectRatioParam)
			uv := gpuimage.Vec2{f.Coord[0], f.Coord[1]*aspect + 0.5 - 0.5*aspect}
			if f.Params.Vec2(BlurCenterParam).Distance(uv) >= f.Params.Float(BlurRadiusParam) {
				return f.Sample(0, f.Coord)
			}
			step := f.Params.Vec2(gpuimage.TexelOffsetUniform)
			var sum gpuimage.Vec4
			for i, w := range positionWeights {
				sum = sum.Add(f.Sample(0, f.Coord.Add(step.Scale(float32(i-4)))).Scale(w))
			}
			return sum
		},
	}
}

// NewGaussianBlurPosition blurs only inside a circle of blurRadius around
// blurCenter, correcting the vertical axis by aspectRatio. Both passes take
// the same parameters; the texel ratio defaults to 1.5.
func NewGaussianBlurPosition() *gpuimage.TwoPass {
	tp := gpuimage.NewTwoPass("GaussianBlurPosition",
		gpuimage.NewFilter(blurPositionPass("GaussianBlurPositionH")),
		gpuimage.NewFilter(blurPositionPass("GaussianBlurPositionV")))
	tp.SetParameter(gpuimage.BlurSizeParam, gpuimage.Float(1.5))
	return tp
}

// NewDilation returns the two-pass dilation of the red channel over radius
// texels, 1 to 4. The result is opaque gray.
func NewDilation(radius int) (*gpuimage.TwoPass, error) {
	if radius < 1 || radius > 4 {
		return nil, fmt.Errorf("effects: dilation radius %d out of range [1, 4]", radius)
	}
	pass := func(name string) gpuimage.Renderable {
		return gpuimage.NewFilter(gpuimage.Effect{
			Name:     name,
			Uniforms: []gpuimage.UniformDecl{{Name: gpuimage.TexelOffsetUniform, Type: gpuimage.TypeVec2}},
			Fragment: fmt.Sprintf(`@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    var m: f32 = 0.0;
    for (var i: i32 = -%d; i <= %d; i = i + 1) {
        let s = textureSampleLevel(inputTexture, inputSampler, in.uv + params.texelOffset * f32(i), 0.0).r;
        m = max(m, s);
    }
    return vec4<f32>(vec3<f32>(m), 1.0);
}
`, radius, radius),
			Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
				step := f.Params.Vec2(gpuimage.TexelOffsetUniform)
				var m float32
				for i := -radius; i <= radius; i++ {
					m = math32.Max(m, f.Sample(0, f.Coord.Add(step.Scale(float32(i))))[0])
				}
				return gpuimage.Vec4{m, m, m, 1}
			},
		})
	}
	name := fmt.Sprintf("Dilation%d", radius)
	return gpuimage.NewTwoPass(name, pass(name+"H"), pass(name+"V")), nil
}
