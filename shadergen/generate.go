package shadergen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gpuimage"
)

// Uniform names used by the generated fragment stages.
const (
	SampleCountUniform = "sampleCount"
	WeightsUniform     = "weights"
)

// PassthroughFragment copies the input unchanged. It is the stage for a
// kernel of radius 0.
const PassthroughFragment = `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSampleLevel(inputTexture, inputSampler, in.uv, 0.0);
}
`

// Literal formats f as a WGSL abstract float literal.
func Literal(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// UnrolledUniforms is the parameter schema of an unrolled stage.
func UnrolledUniforms() []gpuimage.UniformDecl {
	return []gpuimage.UniformDecl{
		{Name: gpuimage.TexelOffsetUniform, Type: gpuimage.TypeVec2},
	}
}

// Unrolled returns a fragment stage sampling 2*radius+1 texels along
// params.texelOffset with the weights written out as literals. A radius
// below 1 yields PassthroughFragment.
func Unrolled(radius int, sigma float64) string {
	if radius < 1 {
		return PassthroughFragment
	}
	weights := Weights(radius, sigma)
	var b strings.Builder
	b.WriteString("@fragment\nfn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {\n")
	b.WriteString("    var sum = vec4<f32>(0.0);\n")
	for i, w := range weights {
		fmt.Fprintf(&b,
			"    sum = sum + textureSampleLevel(inputTexture, inputSampler, in.uv + params.texelOffset * %s, 0.0) * %s;\n",
			Literal(float32(i-radius)), Literal(w))
	}
	b.WriteString("    return sum;\n}\n")
	return b.String()
}

// UniformArrayUniforms is the parameter schema of a uniform-array stage
// holding up to maxSamples weights.
func UniformArrayUniforms(maxSamples int) []gpuimage.UniformDecl {
	return []gpuimage.UniformDecl{
		{Name: gpuimage.TexelOffsetUniform, Type: gpuimage.TypeVec2},
		{Name: SampleCountUniform, Type: gpuimage.TypeInt},
		{Name: WeightsUniform, Type: gpuimage.TypeFloatArray, Count: maxSamples},
	}
}

// UniformArray returns a fragment stage that loops over params.sampleCount
// weights read from params.weights, capped at maxSamples.
func UniformArray(maxSamples int) string {
	if maxSamples < 1 {
		maxSamples = 1
	}
	return fmt.Sprintf(`@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let count = clamp(params.sampleCount, 1, %d);
    let radius = (count - 1) / 2;
    var sum = vec4<f32>(0.0);
    for (var i: i32 = 0; i < count; i = i + 1) {
        let w = params.weights[i / 4][i %% 4];
        let offset = f32(i - radius);
        sum = sum + textureSampleLevel(inputTexture, inputSampler, in.uv + params.texelOffset * offset, 0.0) * w;
    }
    return sum;
}
`, maxSamples)
}

// UnrolledKernel is the CPU rendition of Unrolled for the given weights.
func UnrolledKernel(weights []float32) gpuimage.FragmentFunc {
	w := append([]float32(nil), weights...)
	radius := (len(w) - 1) / 2
	return func(f *gpuimage.Fragment) gpuimage.Vec4 {
		step := f.Params.Vec2(gpuimage.TexelOffsetUniform)
		var sum gpuimage.Vec4
		for i, wi := range w {
			uv := f.Coord.Add(step.Scale(float32(i - radius)))
			sum = sum.Add(f.Sample(0, uv).Scale(wi))
		}
		return sum
	}
}

// UniformArrayKernel returns the CPU rendition of UniformArray(maxSamples).
func UniformArrayKernel(maxSamples int) gpuimage.FragmentFunc {
	return func(f *gpuimage.Fragment) gpuimage.Vec4 {
		count := int(f.Params.Int(SampleCountUniform))
		count = min(max(count, 1), maxSamples)
		radius := (count - 1) / 2
		step := f.Params.Vec2(gpuimage.TexelOffsetUniform)
		var sum gpuimage.Vec4
		for i := 0; i < count; i++ {
			w := f.Params.FloatAt(WeightsUniform, i)
			uv := f.Coord.Add(step.Scale(float32(i - radius)))
			sum = sum.Add(f.Sample(0, uv).Scale(w))
		}
		return sum
	}
}
