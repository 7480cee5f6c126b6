package effects

import (
	"fmt"
	"strings"

	"github.com/gogpu/gpuimage"
)

// MixtureParam is the Dissolve blend factor.
const MixtureParam = "mixturePercent"

// BlendMode selects how a two-input filter combines the input (base) with
// its secondary image (overlay).
type BlendMode uint8

const (
	Screen BlendMode = iota
	HardLight
	Multiply
	Overlay
	ColorBurn
	Dissolve
)

var blendNames = [...]string{"screen", "hard-light", "multiply", "overlay", "color-burn", "dissolve"}

func (m BlendMode) String() string {
	if int(m) < len(blendNames) {
		return blendNames[m]
	}
	return fmt.Sprintf("BlendMode(%d)", uint8(m))
}

// ParseBlendMode maps a mode name such as "hard-light" to a BlendMode.
// Case, dashes and underscores are ignored.
func ParseBlendMode(name string) (BlendMode, error) {
	key := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(name))
	for i, n := range blendNames {
		if strings.ReplaceAll(n, "-", "") == key {
			return BlendMode(i), nil
		}
	}
	return 0, fmt.Errorf("effects: unknown blend mode %q", name)
}

// blendWGSL holds the blend function of each mode. base is the first
// operand, overlay the second; swapTexture exchanges them.
var blendWGSL = [...]string{
	Screen: `fn blend(base: vec4<f32>, overlay: vec4<f32>) -> vec4<f32> {
    return vec4<f32>(1.0) - (vec4<f32>(1.0) - overlay) * (vec4<f32>(1.0) - base);
}
`,
	HardLight: `fn blend(base: vec4<f32>, overlay: vec4<f32>) -> vec4<f32> {
    let rest = overlay.rgb * (1.0 - base.a) + base.rgb * (1.0 - overlay.a);
    let lo = 2.0 * overlay.rgb * base.rgb + rest;
    let hi = vec3<f32>(overlay.a * base.a) - 2.0 * (vec3<f32>(base.a) - base.rgb) * (vec3<f32>(overlay.a) - overlay.rgb) + rest;
    return vec4<f32>(select(hi, lo, 2.0 * overlay.rgb < vec3<f32>(overlay.a)), 1.0);
}
`,
	Multiply: `fn blend(base: vec4<f32>, overlay: vec4<f32>) -> vec4<f32> {
    return overlay * base + overlay * (1.0 - base.a) + base * (1.0 - overlay.a);
}
`,
	Overlay: `fn blend(base: vec4<f32>, overlay: vec4<f32>) -> vec4<f32> {
    let rest = overlay.rgb * (1.0 - base.a) + base.rgb * (1.0 - overlay.a);
    let lo = 2.0 * overlay.rgb * base.rgb + rest;
    let hi = vec3<f32>(overlay.a * base.a) - 2.0 * (vec3<f32>(base.a) - base.rgb) * (vec3<f32>(overlay.a) - overlay.rgb) + rest;
    return vec4<f32>(select(hi, lo, 2.0 * base.rgb < vec3<f32>(base.a)), 1.0);
}
`,
	ColorBurn: `fn blend(base: vec4<f32>, overlay: vec4<f32>) -> vec4<f32> {
    return vec4<f32>(1.0) - (vec4<f32>(1.0) - base) / overlay;
}
`,
	Dissolve: `fn blend(base: vec4<f32>, overlay: vec4<f32>) -> vec4<f32> {
    return mix(base, overlay, params.mixturePercent);
}
`,
}

const blendMain = `
@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let c1 = textureSampleLevel(inputTexture, inputSampler, in.uv, 0.0);
    let c2 = textureSampleLevel(inputTexture2, inputSampler, in.uv2, 0.0);
    if params.swapTexture == 1 {
        return blend(c2, c1);
    }
    return blend(c1, c2);
}
`

type blendFunc func(base, overlay gpuimage.Vec4, p *gpuimage.UniformBlock) gpuimage.Vec4

var blendKernels = [...]blendFunc{
	Screen: func(a, b gpuimage.Vec4, _ *gpuimage.UniformBlock) gpuimage.Vec4 {
		var out gpuimage.Vec4
		for i := range out {
			out[i] = 1 - (1-b[i])*(1-a[i])
		}
		return out
	},
	HardLight: func(a, b gpuimage.Vec4, _ *gpuimage.UniformBlock) gpuimage.Vec4 {
		return lightBlend(a, b, func(i int) bool { return 2*b[i] < b[3] })
	},
	Multiply: func(a, b gpuimage.Vec4, _ *gpuimage.UniformBlock) gpuimage.Vec4 {
		var out gpuimage.Vec4
		for i := range out {
			out[i] = b[i]*a[i] + b[i]*(1-a[3]) + a[i]*(1-b[3])
		}
		return out
	},
	Overlay: func(a, b gpuimage.Vec4, _ *gpuimage.UniformBlock) gpuimage.Vec4 {
		return lightBlend(a, b, func(i int) bool { return 2*a[i] < a[3] })
	},
	ColorBurn: func(a, b gpuimage.Vec4, _ *gpuimage.UniformBlock) gpuimage.Vec4 {
		var out gpuimage.Vec4
		for i := range out {
			out[i] = 1 - (1-a[i])/b[i]
		}
		return out
	},
	Dissolve: func(a, b gpuimage.Vec4, p *gpuimage.UniformBlock) gpuimage.Vec4 {
		return a.Mix(b, p.Float(MixtureParam))
	},
}

// lightBlend is the shared body of hard light and overlay; low picks the
// multiply branch per channel.
func lightBlend(a, b gpuimage.Vec4, low func(i int) bool) gpuimage.Vec4 {
	out := gpuimage.Vec4{3: 1}
	for i := 0; i < 3; i++ {
		rest := b[i]*(1-a[3]) + a[i]*(1-b[3])
		if low(i) {
			out[i] = 2*b[i]*a[i] + rest
		} else {
			out[i] = b[3]*a[3] - 2*(a[3]-a[i])*(b[3]-b[i]) + rest
		}
	}
	return out
}

// Blend returns the two-input effect of mode. Every blend declares
// swapTexture; ColorBurn defaults it to 1, the others to 0. Dissolve also
// takes mixturePercent in [0, 1], default 0.5.
func Blend(mode BlendMode) gpuimage.Effect {
	if int(mode) >= len(blendWGSL) {
		mode = Screen
	}
	swap := gpuimage.Int(0)
	if mode == ColorBurn {
		swap = 1
	}
	e := gpuimage.Effect{
		Name:     "Blend/" + mode.String(),
		Inputs:   2,
		Uniforms: []gpuimage.UniformDecl{{Name: gpuimage.SwapUniform, Type: gpuimage.TypeInt}},
		Defaults: []gpuimage.Param{{Name: gpuimage.SwapUniform, Value: swap}},
		Validate: gpuimage.ValidSwap,
		Fragment: blendWGSL[mode] + blendMain,
	}
	if mode == Dissolve {
		e.Uniforms = append(e.Uniforms, gpuimage.UniformDecl{Name: MixtureParam, Type: gpuimage.TypeFloat})
		e.Defaults = append(e.Defaults, gpuimage.Param{Name: MixtureParam, Value: gpuimage.Float(0.5)})
		mix := inRange(map[string]bounds{MixtureParam: {0, 1}})
		e.Validate = func(name string, v gpuimage.Value) bool {
			return gpuimage.ValidSwap(name, v) && mix(name, v)
		}
	}
	fn := blendKernels[mode]
	e.Kernel = func(f *gpuimage.Fragment) gpuimage.Vec4 {
		c1 := f.Sample(0, f.Coord)
		c2 := f.Sample(1, f.Coord2)
		if f.Params.Int(gpuimage.SwapUniform) == 1 {
			return fn(c2, c1, f.Params)
		}
		return fn(c1, c2, f.Params)
	}
	return e
}

// NewBlend returns a two-input filter blending its input with overlay.
func NewBlend(mode BlendMode, overlay *gpuimage.Pixmap) *gpuimage.Filter {
	return gpuimage.NewTwoInputFilter(Blend(mode), overlay)
}
