package gpuimage

import (
	"errors"
	"fmt"
	"strings"
)

// fakeTexture is a texture owned by fakeDevice.
type fakeTexture struct {
	id     int
	w, h   int
	label  string
	pixels *Pixmap
}

func (t *fakeTexture) Width() int  { return t.w }
func (t *fakeTexture) Height() int { return t.h }

type fakeProgram struct {
	id    int
	label string
}

func (p *fakeProgram) Label() string { return p.label }

// fakeDevice records resource lifetimes and draws without rasterizing.
type fakeDevice struct {
	nextID   int
	textures map[*fakeTexture]bool
	programs map[*fakeProgram]bool
	draws    []*DrawCall
	clears   []RGBA

	// failCompile makes CompileProgram fail for labels containing it.
	failCompile string
	failUpload  bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		textures: make(map[*fakeTexture]bool),
		programs: make(map[*fakeProgram]bool),
	}
}

func (d *fakeDevice) CompileProgram(desc ProgramDesc) (ProgramHandle, error) {
	if d.failCompile != "" && strings.Contains(desc.Label, d.failCompile) {
		return nil, &CompileError{Stage: StageFragment, Label: desc.Label, Err: errors.New("syntax error")}
	}
	d.nextID++
	p := &fakeProgram{id: d.nextID, label: desc.Label}
	d.programs[p] = true
	return p, nil
}

func (d *fakeDevice) DestroyProgram(p ProgramHandle) {
	if fp, ok := p.(*fakeProgram); ok {
		delete(d.programs, fp)
	}
}

func (d *fakeDevice) CreateTarget(w, h int, label string) (Texture, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("target %dx%d: %w", w, h, ErrInvalidSize)
	}
	d.nextID++
	t := &fakeTexture{id: d.nextID, w: w, h: h, label: label, pixels: NewPixmap(w, h)}
	d.textures[t] = true
	return t, nil
}

func (d *fakeDevice) UploadTexture(src *Pixmap, label string) (Texture, error) {
	if d.failUpload {
		return nil, errors.New("upload failed")
	}
	d.nextID++
	t := &fakeTexture{id: d.nextID, w: src.Width(), h: src.Height(), label: label, pixels: src.Clone()}
	d.textures[t] = true
	return t, nil
}

func (d *fakeDevice) DestroyTexture(t Texture) {
	if ft, ok := t.(*fakeTexture); ok {
		delete(d.textures, ft)
	}
}

func (d *fakeDevice) Clear(t Texture, c RGBA) error {
	ft, ok := t.(*fakeTexture)
	if !ok {
		return ErrUnknownTexture
	}
	ft.pixels.Clear(c)
	d.clears = append(d.clears, c)
	return nil
}

func (d *fakeDevice) Draw(call *DrawCall) error {
	if _, ok := call.Program.(*fakeProgram); !ok || !d.programs[call.Program.(*fakeProgram)] {
		return errors.New("draw with dead program")
	}
	for _, in := range call.Inputs {
		if in == call.Target {
			return errors.New("target aliases input")
		}
	}
	c := *call
	c.Uniforms = append([]byte(nil), call.Uniforms...)
	d.draws = append(d.draws, &c)
	return nil
}

func (d *fakeDevice) ReadPixels(t Texture) (*Pixmap, error) {
	ft, ok := t.(*fakeTexture)
	if !ok || !d.textures[ft] {
		return nil, ErrUnknownTexture
	}
	return ft.pixels.Clone(), nil
}

func (d *fakeDevice) liveTextures() int { return len(d.textures) }
func (d *fakeDevice) livePrograms() int { return len(d.programs) }

func (d *fakeDevice) isLive(t Texture) bool {
	ft, ok := t.(*fakeTexture)
	return ok && d.textures[ft]
}

// testEffect is a single-pass effect with one float and one int parameter.
func testEffect(name string) Effect {
	return Effect{
		Name:     name,
		Fragment: "@fragment\nfn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {\n    return textureSampleLevel(inputTexture, inputSampler, in.uv, 0.0);\n}\n",
		Uniforms: []UniformDecl{
			{Name: "amount", Type: TypeFloat},
			{Name: "level", Type: TypeInt},
			{Name: TexelOffsetUniform, Type: TypeVec2},
		},
		Kernel: func(f *Fragment) Vec4 { return f.Sample(0, f.Coord) },
	}
}

func floatNear(a, b, tol float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}
