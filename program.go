package gpuimage

import (
	"fmt"
	"strings"
)

// DefaultVertexShader passes the quad position through and forwards both
// texture coordinate sets.
const DefaultVertexShader = `struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) uv2: vec2<f32>,
};

@vertex
fn vs_main(
    @location(0) position: vec2<f32>,
    @location(1) uv: vec2<f32>,
    @location(2) uv2: vec2<f32>,
) -> VertexOutput {
    var out: VertexOutput;
    out.position = vec4<f32>(position, 0.0, 1.0);
    out.uv = uv;
    out.uv2 = uv2;
    return out;
}
`

// Binding slots shared by every program. Backends build their bind group
// layouts from these.
const (
	BindingParams   = 0
	BindingSampler  = 1
	BindingTexture  = 2
	BindingTexture2 = 3
)

// FragmentPrelude returns the declarations every fragment body is compiled
// against: the Params struct, its binding, the sampler and the input
// texture(s).
func FragmentPrelude(layout *UniformLayout, inputs int) string {
	var b strings.Builder
	b.WriteString(layout.WGSL())
	fmt.Fprintf(&b, "\n@group(0) @binding(%d) var<uniform> params: Params;\n", BindingParams)
	fmt.Fprintf(&b, "@group(0) @binding(%d) var inputSampler: sampler;\n", BindingSampler)
	fmt.Fprintf(&b, "@group(0) @binding(%d) var inputTexture: texture_2d<f32>;\n", BindingTexture)
	if inputs > 1 {
		fmt.Fprintf(&b, "@group(0) @binding(%d) var inputTexture2: texture_2d<f32>;\n", BindingTexture2)
	}
	b.WriteString("\n")
	return b.String()
}

// ShaderProgram is a compiled vertex and fragment pair with a cache of
// resolved uniform locations. It belongs to exactly one Filter.
type ShaderProgram struct {
	label          string
	vertexSource   string
	fragmentSource string
	layout         *UniformLayout
	inputs         int
	kernel         FragmentFunc

	handle    ProgramHandle
	locations map[string]UniformLocation
}

// NewShaderProgram prepares a program. Nothing is compiled until Compile.
func NewShaderProgram(label, vertex, fragmentBody string, layout *UniformLayout, inputs int, kernel FragmentFunc) *ShaderProgram {
	if vertex == "" {
		vertex = DefaultVertexShader
	}
	if inputs < 1 {
		inputs = 1
	}
	return &ShaderProgram{
		label:          label,
		vertexSource:   vertex,
		fragmentSource: FragmentPrelude(layout, inputs) + fragmentBody,
		layout:         layout,
		inputs:         inputs,
		kernel:         kernel,
		locations:      make(map[string]UniformLocation),
	}
}

// Compile compiles the program on dev. Calling it again after success is a
// no-op.
func (p *ShaderProgram) Compile(dev Device) error {
	if p.handle != nil {
		return nil
	}
	h, err := dev.CompileProgram(ProgramDesc{
		Label:          p.label,
		VertexSource:   p.vertexSource,
		FragmentSource: p.fragmentSource,
		Layout:         p.layout,
		Inputs:         p.inputs,
		Kernel:         p.kernel,
	})
	if err != nil {
		return err
	}
	p.handle = h
	return nil
}

// Compiled reports whether the program holds a live handle.
func (p *ShaderProgram) Compiled() bool { return p.handle != nil }

// Handle returns the device handle, nil before Compile.
func (p *ShaderProgram) Handle() ProgramHandle { return p.handle }

// Layout returns the uniform layout.
func (p *ShaderProgram) Layout() *UniformLayout { return p.layout }

// VertexSource returns the WGSL vertex module.
func (p *ShaderProgram) VertexSource() string { return p.vertexSource }

// FragmentSource returns the full WGSL fragment source including the prelude.
func (p *ShaderProgram) FragmentSource() string { return p.fragmentSource }

// Location resolves a uniform by name, caching the result.
func (p *ShaderProgram) Location(name string) (UniformLocation, bool) {
	if loc, ok := p.locations[name]; ok {
		return loc, true
	}
	i, ok := p.layout.index[name]
	if !ok {
		return UniformLocation{}, false
	}
	f := p.layout.fields[i]
	loc := UniformLocation{index: i, offset: f.Offset, typ: f.Type, count: f.Count, valid: true}
	p.locations[name] = loc
	return loc, true
}

// Destroy releases the device handle. Safe to call more than once.
func (p *ShaderProgram) Destroy(dev Device) {
	if p.handle == nil {
		return
	}
	dev.DestroyProgram(p.handle)
	p.handle = nil
}
