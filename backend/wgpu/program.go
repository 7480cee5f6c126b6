package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/gpuimage"
)

// program is one render pipeline with its own uniform buffer.
type program struct {
	label  string
	layout *gpuimage.UniformLayout
	inputs int

	module     *wgpu.ShaderModule
	bindLayout *wgpu.BindGroupLayout
	pipeLayout *wgpu.PipelineLayout
	pipeline   *wgpu.RenderPipeline
	params     *wgpu.Buffer
}

func (p *program) Label() string { return p.label }

func (p *program) release() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
	if p.pipeLayout != nil {
		p.pipeLayout.Release()
	}
	if p.bindLayout != nil {
		p.bindLayout.Release()
	}
	if p.module != nil {
		p.module.Release()
	}
	if p.params != nil {
		p.params.Release()
	}
	*p = program{label: p.label}
}

// quadLayout describes the interleaved position, uv and uv2 attributes of
// DefaultVertexShader.
var quadLayout = gputypes.VertexBufferLayout{
	ArrayStride: quadStride,
	StepMode:    gputypes.VertexStepModeVertex,
	Attributes: []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 2},
	},
}

// bindLayoutEntries returns the bind group layout of a program with inputs
// sampled textures.
func bindLayoutEntries(inputs int) []gputypes.BindGroupLayoutEntry {
	texture := &gputypes.TextureBindingLayout{
		SampleType:    gputypes.TextureSampleTypeFloat,
		ViewDimension: gputypes.TextureViewDimension2D,
	}
	entries := []gputypes.BindGroupLayoutEntry{
		{
			Binding:    gpuimage.BindingParams,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
		{
			Binding:    gpuimage.BindingSampler,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		},
		{
			Binding:    gpuimage.BindingTexture,
			Visibility: gputypes.ShaderStageFragment,
			Texture:    texture,
		},
	}
	if inputs > 1 {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    gpuimage.BindingTexture2,
			Visibility: gputypes.ShaderStageFragment,
			Texture:    texture,
		})
	}
	return entries
}

// CompileProgram checks both stages with naga and builds the render
// pipeline. The vertex module is compiled alone first so a failure is
// attributed to the right stage.
func (d *Device) CompileProgram(desc gpuimage.ProgramDesc) (gpuimage.ProgramHandle, error) {
	if desc.Layout == nil {
		return nil, &gpuimage.CompileError{Stage: gpuimage.StageLink, Label: desc.Label, Err: errors.New("no uniform layout")}
	}
	if _, err := naga.Compile(desc.VertexSource); err != nil {
		return nil, &gpuimage.CompileError{Stage: gpuimage.StageVertex, Label: desc.Label, Err: err}
	}
	source := desc.VertexSource + "\n" + desc.FragmentSource
	if _, err := naga.Compile(source); err != nil {
		return nil, &gpuimage.CompileError{Stage: gpuimage.StageFragment, Label: desc.Label, Err: err}
	}

	p := &program{label: desc.Label, layout: desc.Layout, inputs: max(desc.Inputs, 1)}
	if err := d.buildPipeline(p, source); err != nil {
		p.release()
		return nil, &gpuimage.CompileError{Stage: gpuimage.StageLink, Label: desc.Label, Err: err}
	}
	d.programs[p] = struct{}{}
	d.logger().Debug("wgpu: program compiled", "label", desc.Label, "inputs", p.inputs, "uniformBytes", desc.Layout.BufferSize())
	return p, nil
}

func (d *Device) buildPipeline(p *program, source string) error {
	label := d.cfg.label + "/" + p.label
	var err error
	p.module, err = d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{Label: label, WGSL: source})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	p.bindLayout, err = d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: bindLayoutEntries(p.inputs),
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	p.pipeLayout, err = d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeline, err = d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: p.pipeLayout,
		Vertex: wgpu.VertexState{
			Module:     p.module,
			EntryPoint: "vs_main",
			Buffers:    []gputypes.VertexBufferLayout{quadLayout},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleStrip,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: gputypes.DefaultMultisampleState(),
		Fragment: &wgpu.FragmentState{
			Module:     p.module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    gputypes.TextureFormatRGBA8Unorm,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.params, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + "/params",
		Size:  uint64(max(p.layout.BufferSize(), 16)),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	return nil
}

// DestroyProgram releases p. Unknown or destroyed handles are ignored.
func (d *Device) DestroyProgram(h gpuimage.ProgramHandle) {
	p, ok := h.(*program)
	if !ok {
		return
	}
	if _, live := d.programs[p]; !live {
		return
	}
	delete(d.programs, p)
	p.release()
}
