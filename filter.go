package gpuimage

import (
	"fmt"

	"github.com/google/uuid"
)

// Filter is one render pass: a shader program, its uniform values and a
// lifecycle state. Parameter writes made before Init are buffered and
// replayed in order once the program is compiled.
//
// A Filter is owned by the render context; control-side code changes it
// through commands submitted to a Renderer.
type Filter struct {
	id        uuid.UUID
	effect    Effect
	layout    *UniformLayout
	layoutErr error
	program   *ShaderProgram
	block     *UniformBlock
	pending   []Param
	values    map[string]Value
	state     FilterState

	width, height int

	secondary    *Pixmap
	secondaryTex Texture
}

// NewFilter creates an uninitialized filter for effect. The effect's
// defaults are applied as buffered parameter writes.
func NewFilter(effect Effect) *Filter {
	f := &Filter{
		id:     uuid.New(),
		effect: effect,
		values: make(map[string]Value, len(effect.Uniforms)+1),
	}
	f.layout, f.layoutErr = NewUniformLayout(effect.Uniforms)
	if f.layoutErr == nil {
		f.program = NewShaderProgram(f.label(), effect.Vertex, effect.Fragment, f.layout, effect.inputs(), effect.Kernel)
	}
	for _, p := range effect.Defaults {
		f.SetParameter(p.Name, p.Value)
	}
	return f
}

func (f *Filter) label() string {
	return fmt.Sprintf("gpuimage/%s/%s", f.effect.Name, f.id.String()[:8])
}

// Name returns the effect name.
func (f *Filter) Name() string { return f.effect.Name }

// ID returns the filter's instance ID, used in resource labels and logs.
func (f *Filter) ID() uuid.UUID { return f.id }

// Effect returns the effect the filter was built from.
func (f *Filter) Effect() Effect { return f.effect }

// State returns the lifecycle state.
func (f *Filter) State() FilterState { return f.state }

// Program returns the filter's shader program, nil if the parameter schema
// was invalid.
func (f *Filter) Program() *ShaderProgram { return f.program }

// IsMultiPass reports false: a Filter is exactly one pass.
func (f *Filter) IsMultiPass() bool { return false }

// OutputSize returns the last size passed to OnOutputSizeChanged.
func (f *Filter) OutputSize() (width, height int) { return f.width, f.height }

// Value returns the last accepted value of a parameter.
func (f *Filter) Value(name string) (Value, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Init compiles the program and replays buffered parameters. A compile
// failure is fatal: the filter moves to Destroyed and the error is returned.
func (f *Filter) Init(dev Device) error {
	switch f.state {
	case Initialized:
		return nil
	case Destroyed:
		return ErrDestroyed
	}
	if f.layoutErr != nil {
		f.state = Destroyed
		return &CompileError{Stage: StageLink, Label: f.effect.Name, Err: f.layoutErr}
	}
	if err := f.program.Compile(dev); err != nil {
		f.state = Destroyed
		return err
	}
	if f.effect.inputs() > 1 && !f.secondary.Empty() {
		tex, err := dev.UploadTexture(f.secondary, f.label()+"/secondary")
		if err != nil {
			f.program.Destroy(dev)
			f.state = Destroyed
			return fmt.Errorf("gpuimage: upload secondary for %s: %w", f.effect.Name, err)
		}
		f.secondaryTex = tex
	}

	f.block = NewUniformBlock(f.layout)
	f.state = Initialized
	for _, p := range f.pending {
		f.apply(p.Name, p.Value)
	}
	f.pending = nil
	Logger().Debug("filter initialized", "filter", f.effect.Name, "id", f.id)
	return nil
}

// SetParameter stores a parameter value. Before Init the write is buffered;
// afterwards it goes straight into the uniform block. Unknown names, type
// mismatches and values rejected by the effect are ignored.
func (f *Filter) SetParameter(name string, v Value) {
	if f.state == Destroyed || v == nil {
		return
	}
	if f.layout != nil {
		field, ok := f.layout.Field(name)
		if !ok || field.Type != v.Type() {
			Logger().Debug("parameter ignored", "filter", f.effect.Name, "name", name)
			return
		}
	}
	if f.effect.Validate != nil && name != OutputSizeUniform && !f.effect.Validate(name, v) {
		Logger().Debug("parameter out of range", "filter", f.effect.Name, "name", name)
		return
	}
	f.values[name] = v
	if f.state == Initialized {
		f.apply(name, v)
		return
	}
	f.pending = append(f.pending, Param{Name: name, Value: v})
}

// SetUniform writes through a location resolved from Program().Location.
// It is ignored unless the filter is initialized.
func (f *Filter) SetUniform(loc UniformLocation, v Value) {
	if f.state != Initialized {
		return
	}
	f.block.Set(loc, v)
}

func (f *Filter) apply(name string, v Value) {
	if loc, ok := f.program.Location(name); ok {
		f.block.Set(loc, v)
	}
}

// OnOutputSizeChanged records the output size and refreshes size-derived
// parameters.
func (f *Filter) OnOutputSizeChanged(width, height int) {
	f.width, f.height = width, height
	f.SetParameter(OutputSizeUniform, Vec2{float32(width), float32(height)})
	if f.effect.SizeParams != nil {
		for _, p := range f.effect.SizeParams(width, height) {
			f.SetParameter(p.Name, p.Value)
		}
	}
}

// Render draws one full-target quad sampling input (and the secondary
// texture for two-input effects) into target.
func (f *Filter) Render(dev Device, input, target Texture, coords TexCoords) error {
	switch f.state {
	case Uninitialized:
		return ErrNotInitialized
	case Destroyed:
		return ErrDestroyed
	}
	inputs := []Texture{input}
	if f.effect.inputs() > 1 {
		if f.secondaryTex == nil {
			return ErrNoSecondary
		}
		inputs = append(inputs, f.secondaryTex)
	}
	return dev.Draw(&DrawCall{
		Program:  f.program.Handle(),
		Inputs:   inputs,
		Uniforms: f.block.Bytes(),
		Target:   target,
		Coords:   coords,
		Coords2:  IdentityCoords,
	})
}

// Destroy releases the program and any owned texture. Idempotent.
func (f *Filter) Destroy(dev Device) {
	if f.state == Destroyed {
		return
	}
	if f.program != nil {
		f.program.Destroy(dev)
	}
	if f.secondaryTex != nil {
		dev.DestroyTexture(f.secondaryTex)
		f.secondaryTex = nil
	}
	f.pending = nil
	f.state = Destroyed
}
