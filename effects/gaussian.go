package effects

import (
	"fmt"

	"github.com/gogpu/gpuimage"
	"github.com/gogpu/gpuimage/shadergen"
)

// SigmaParam sets the standard deviation of a GaussianBlur in pixels.
const SigmaParam = "sigma"

// Strategy selects how a GaussianBlur passes its weights to the shader.
type Strategy uint8

const (
	// Unrolled bakes the weights into generated WGSL. A sigma change builds
	// and compiles a new pair of passes.
	Unrolled Strategy = iota

	// UniformArray loops over weights held in a uniform array. A sigma
	// change only rewrites the uniforms.
	UniformArray
)

func (s Strategy) String() string {
	switch s {
	case Unrolled:
		return "unrolled"
	case UniformArray:
		return "uniform-array"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// DefaultMaxRadius bounds the kernel radius of a GaussianBlur.
const DefaultMaxRadius = 24

// defaultKernel is the kernel a blur starts with: radius 4 at sigma 2.
var defaultKernel = shadergen.Kernel{Radius: 4, Sigma: 2}

type blurOptions struct {
	strategy  Strategy
	maxRadius int
	kernel    shadergen.Kernel
}

// BlurOption configures NewGaussianBlur.
type BlurOption func(*blurOptions)

// WithStrategy selects the weight strategy. Default Unrolled.
func WithStrategy(s Strategy) BlurOption {
	return func(o *blurOptions) { o.strategy = s }
}

// WithSigma starts the blur at sigma with the radius Radius derives.
// Values below 1 are ignored.
func WithSigma(sigma float64) BlurOption {
	return func(o *blurOptions) {
		if sigma >= 1 {
			o.kernel = shadergen.NewKernel(sigma)
		}
	}
}

// WithMaxRadius caps the kernel radius. Non-positive values are ignored.
func WithMaxRadius(r int) BlurOption {
	return func(o *blurOptions) {
		if r > 0 {
			o.maxRadius = r
		}
	}
}

// GaussianBlur is a separable Gaussian blur. The blurSize parameter scales
// the texel step; sigma reshapes the kernel. Sigma writes below 1 or equal
// to the current sigma are ignored.
type GaussianBlur struct {
	*gpuimage.TwoPass

	strategy  Strategy
	maxRadius int
	kernel    shadergen.Kernel

	// staged holds regenerated unrolled passes until the render context
	// next touches the blur.
	staged []gpuimage.Renderable
}

// NewGaussianBlur returns a blur with blur size 1 and sigma 2.
func NewGaussianBlur(opts ...BlurOption) *GaussianBlur {
	o := blurOptions{strategy: Unrolled, maxRadius: DefaultMaxRadius, kernel: defaultKernel}
	for _, opt := range opts {
		opt(&o)
	}
	g := &GaussianBlur{strategy: o.strategy, maxRadius: o.maxRadius}
	g.kernel = g.clamp(o.kernel)
	h, v := g.passes()
	g.TwoPass = gpuimage.NewTwoPass("GaussianBlur", h, v)
	return g
}

// Strategy returns the weight strategy.
func (g *GaussianBlur) Strategy() Strategy { return g.strategy }

// Sigma returns the current sigma.
func (g *GaussianBlur) Sigma() float64 { return g.kernel.Sigma }

// Kernel returns the current kernel.
func (g *GaussianBlur) Kernel() shadergen.Kernel { return g.kernel }

func (g *GaussianBlur) clamp(k shadergen.Kernel) shadergen.Kernel {
	if k.Radius > g.maxRadius {
		k.Radius = g.maxRadius
	}
	return k
}

func (g *GaussianBlur) passes() (h, v gpuimage.Renderable) {
	if g.strategy == UniformArray {
		return gpuimage.NewFilter(g.arrayPass("GaussianBlurH")), gpuimage.NewFilter(g.arrayPass("GaussianBlurV"))
	}
	return gpuimage.NewFilter(g.unrolledPass("GaussianBlurH")), gpuimage.NewFilter(g.unrolledPass("GaussianBlurV"))
}

func (g *GaussianBlur) unrolledPass(name string) gpuimage.Effect {
	return gpuimage.Effect{
		Name:     name,
		Uniforms: shadergen.UnrolledUniforms(),
		Fragment: shadergen.Unrolled(g.kernel.Radius, g.kernel.Sigma),
		Kernel:   shadergen.UnrolledKernel(g.kernel.Weights()),
	}
}

func (g *GaussianBlur) arrayPass(name string) gpuimage.Effect {
	maxSamples := 2*g.maxRadius + 1
	return gpuimage.Effect{
		Name:     name,
		Uniforms: shadergen.UniformArrayUniforms(maxSamples),
		Defaults: g.weightParams(),
		Fragment: shadergen.UniformArray(maxSamples),
		Kernel:   shadergen.UniformArrayKernel(maxSamples),
	}
}

func (g *GaussianBlur) weightParams() []gpuimage.Param {
	return []gpuimage.Param{
		{Name: shadergen.SampleCountUniform, Value: gpuimage.Int(g.kernel.Samples())},
		{Name: shadergen.WeightsUniform, Value: gpuimage.Floats(g.kernel.Weights())},
	}
}

// SetParameter handles SigmaParam and forwards everything else to the
// passes.
func (g *GaussianBlur) SetParameter(name string, v gpuimage.Value) {
	if name != SigmaParam {
		g.TwoPass.SetParameter(name, v)
		return
	}
	s, ok := v.(gpuimage.Float)
	if !ok {
		return
	}
	g.setSigma(float64(s))
}

func (g *GaussianBlur) setSigma(sigma float64) {
	if sigma < 1 || sigma == g.kernel.Sigma {
		gpuimage.Logger().Debug("blur sigma ignored", "sigma", sigma, "current", g.kernel.Sigma)
		return
	}
	g.kernel = g.clamp(shadergen.NewKernel(sigma))
	gpuimage.Logger().Debug("blur sigma changed", "sigma", sigma, "radius", g.kernel.Radius, "strategy", g.strategy)
	if g.strategy == UniformArray {
		for _, p := range g.weightParams() {
			g.TwoPass.SetParameter(p.Name, p.Value)
		}
		return
	}
	h, v := g.passes()
	g.staged = []gpuimage.Renderable{h, v}
}

// Staged reports whether regenerated passes wait to be installed.
func (g *GaussianBlur) Staged() bool { return g.staged != nil }

func (g *GaussianBlur) install(dev gpuimage.Device) error {
	if g.staged == nil {
		return nil
	}
	passes := g.staged
	g.staged = nil
	if err := g.TwoPass.Replace(dev, passes); err != nil {
		return fmt.Errorf("effects: regenerate blur passes: %w", err)
	}
	return nil
}

// Init installs staged passes and initializes the blur.
func (g *GaussianBlur) Init(dev gpuimage.Device) error {
	if err := g.install(dev); err != nil {
		return err
	}
	return g.TwoPass.Init(dev)
}

// Render installs staged passes, then runs both passes.
func (g *GaussianBlur) Render(dev gpuimage.Device, input, target gpuimage.Texture, coords gpuimage.TexCoords) error {
	if err := g.install(dev); err != nil {
		return err
	}
	return g.TwoPass.Render(dev, input, target, coords)
}

// Destroy releases the passes, including staged ones.
func (g *GaussianBlur) Destroy(dev gpuimage.Device) {
	for _, r := range g.staged {
		r.Destroy(dev)
	}
	g.staged = nil
	g.TwoPass.Destroy(dev)
}
