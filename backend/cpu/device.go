package cpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/naga"

	"github.com/gogpu/gpuimage"
	"github.com/gogpu/gpuimage/backend"
	"github.com/gogpu/gpuimage/internal/parallel"
)

func init() {
	backend.Register(backend.BackendCPU, func() (backend.Device, error) {
		return New(), nil
	})
}

type program struct {
	label  string
	layout *gpuimage.UniformLayout
	inputs int
	kernel gpuimage.FragmentFunc
}

func (p *program) Label() string { return p.label }

// Device is the CPU reference device. Like a GPU context it belongs to one
// render context; only SetLogger may be called from other goroutines.
type Device struct {
	cfg      config
	pool     *parallel.WorkerPool
	textures map[*texture]struct{}
	programs map[*program]struct{}
	closed   bool
	log      atomic.Pointer[slog.Logger]
}

// New creates a CPU device.
func New(opts ...Option) *Device {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	d := &Device{
		cfg:      cfg,
		pool:     parallel.NewWorkerPool(cfg.workers),
		textures: make(map[*texture]struct{}),
		programs: make(map[*program]struct{}),
	}
	d.log.Store(gpuimage.Logger())
	gpuimage.RegisterLoggerSink(d)
	return d
}

// Name returns "cpu".
func (d *Device) Name() string { return backend.BackendCPU }

// SetLogger replaces the device logger. It is kept in sync with
// gpuimage.SetLogger.
func (d *Device) SetLogger(l *slog.Logger) {
	if l == nil {
		l = gpuimage.Logger()
	}
	d.log.Store(l)
}

func (d *Device) logger() *slog.Logger { return d.log.Load() }

// Close releases every live resource, stops the row workers and detaches
// the device from logger updates.
func (d *Device) Close() {
	if d.closed {
		return
	}
	if n := len(d.textures) + len(d.programs); n > 0 {
		d.logger().Debug("cpu: releasing live resources on close", "textures", len(d.textures), "programs", len(d.programs))
	}
	clear(d.textures)
	clear(d.programs)
	d.pool.Close()
	d.closed = true
	gpuimage.UnregisterLoggerSink(d)
}

// LiveTextures returns the number of textures not yet destroyed.
func (d *Device) LiveTextures() int { return len(d.textures) }

// LivePrograms returns the number of programs not yet destroyed.
func (d *Device) LivePrograms() int { return len(d.programs) }

// CompileProgram validates the WGSL stages and keeps the kernel. The vertex
// module is compiled alone first so a failure is attributed to the right
// stage; the fragment stage is compiled together with it because it uses
// the vertex output struct.
func (d *Device) CompileProgram(desc gpuimage.ProgramDesc) (gpuimage.ProgramHandle, error) {
	if desc.Kernel == nil {
		return nil, &gpuimage.CompileError{Stage: gpuimage.StageLink, Label: desc.Label, Err: errors.New("no fragment kernel")}
	}
	if desc.Layout == nil {
		return nil, &gpuimage.CompileError{Stage: gpuimage.StageLink, Label: desc.Label, Err: errors.New("no uniform layout")}
	}
	if d.cfg.validate {
		if _, err := naga.Compile(desc.VertexSource); err != nil {
			return nil, &gpuimage.CompileError{Stage: gpuimage.StageVertex, Label: desc.Label, Err: err}
		}
		if _, err := naga.Compile(desc.VertexSource + "\n" + desc.FragmentSource); err != nil {
			return nil, &gpuimage.CompileError{Stage: gpuimage.StageFragment, Label: desc.Label, Err: err}
		}
	}
	p := &program{label: desc.Label, layout: desc.Layout, inputs: max(desc.Inputs, 1), kernel: desc.Kernel}
	d.programs[p] = struct{}{}
	d.logger().Debug("cpu: program compiled", "label", desc.Label, "validated", d.cfg.validate)
	return p, nil
}

// DestroyProgram releases p. Unknown or destroyed handles are ignored.
func (d *Device) DestroyProgram(p gpuimage.ProgramHandle) {
	if cp, ok := p.(*program); ok {
		delete(d.programs, cp)
	}
}

// CreateTarget allocates a transparent RGBA8 texture.
func (d *Device) CreateTarget(width, height int, label string) (gpuimage.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("cpu: target %s %dx%d: %w", label, width, height, gpuimage.ErrInvalidSize)
	}
	t := &texture{w: width, h: height, pix: make([]uint8, width*height*4), label: label}
	d.textures[t] = struct{}{}
	return t, nil
}

// UploadTexture copies src into a new texture.
func (d *Device) UploadTexture(src *gpuimage.Pixmap, label string) (gpuimage.Texture, error) {
	if src.Empty() {
		return nil, fmt.Errorf("cpu: upload %s: %w", label, gpuimage.ErrInvalidSize)
	}
	t := &texture{w: src.Width(), h: src.Height(), pix: append([]uint8(nil), src.Data()...), label: label}
	d.textures[t] = struct{}{}
	return t, nil
}

// DestroyTexture releases t. Unknown or destroyed handles are ignored.
func (d *Device) DestroyTexture(t gpuimage.Texture) {
	if ct, ok := t.(*texture); ok {
		delete(d.textures, ct)
	}
}

func (d *Device) lookup(t gpuimage.Texture) (*texture, error) {
	ct, ok := t.(*texture)
	if !ok {
		return nil, gpuimage.ErrUnknownTexture
	}
	if _, live := d.textures[ct]; !live {
		return nil, fmt.Errorf("cpu: texture %s: %w", ct.label, gpuimage.ErrUnknownTexture)
	}
	return ct, nil
}

// Clear fills t with c.
func (d *Device) Clear(t gpuimage.Texture, c gpuimage.RGBA) error {
	ct, err := d.lookup(t)
	if err != nil {
		return err
	}
	px := [4]uint8{
		gpuimage.Quantize(float32(c.R)),
		gpuimage.Quantize(float32(c.G)),
		gpuimage.Quantize(float32(c.B)),
		gpuimage.Quantize(float32(c.A)),
	}
	for i := 0; i < len(ct.pix); i += 4 {
		copy(ct.pix[i:i+4], px[:])
	}
	return nil
}

// Draw runs the program's kernel for every target pixel.
func (d *Device) Draw(call *gpuimage.DrawCall) error {
	p, ok := call.Program.(*program)
	if !ok {
		return errors.New("cpu: draw with a foreign program")
	}
	if _, live := d.programs[p]; !live {
		return fmt.Errorf("cpu: draw with destroyed program %s", p.label)
	}
	if len(call.Inputs) < p.inputs {
		return fmt.Errorf("cpu: program %s needs %d inputs, got %d", p.label, p.inputs, len(call.Inputs))
	}
	dst, err := d.lookup(call.Target)
	if err != nil {
		return err
	}
	samplers := make([]gpuimage.Sampler, len(call.Inputs))
	for i, in := range call.Inputs {
		src, err := d.lookup(in)
		if err != nil {
			return fmt.Errorf("cpu: input %d: %w", i, err)
		}
		if src == dst {
			return fmt.Errorf("cpu: program %s reads and writes %s", p.label, dst.label)
		}
		samplers[i] = sampler{t: src}
	}
	params := gpuimage.LoadUniformBlock(p.layout, call.Uniforms)

	bands := min(d.pool.Workers(), dst.h)
	rows := (dst.h + bands - 1) / bands
	work := make([]func(), 0, bands)
	for y0 := 0; y0 < dst.h; y0 += rows {
		y1 := min(y0+rows, dst.h)
		work = append(work, func() {
			d.shade(p, dst, samplers, params, call, y0, y1)
		})
	}
	d.pool.ExecuteAll(work)
	return nil
}

// shade rasterizes rows [y0, y1) sampling at pixel centers.
func (d *Device) shade(p *program, dst *texture, samplers []gpuimage.Sampler, params *gpuimage.UniformBlock, call *gpuimage.DrawCall, y0, y1 int) {
	frag := gpuimage.Fragment{Inputs: samplers, Params: params}
	w, h := float32(dst.w), float32(dst.h)
	for y := y0; y < y1; y++ {
		t := (float32(y) + 0.5) / h
		for x := 0; x < dst.w; x++ {
			s := (float32(x) + 0.5) / w
			frag.Coord = call.Coords.At(s, t)
			frag.Coord2 = call.Coords2.At(s, t)
			c := p.kernel(&frag)
			i := (y*dst.w + x) * 4
			dst.pix[i] = gpuimage.Quantize(c[0])
			dst.pix[i+1] = gpuimage.Quantize(c[1])
			dst.pix[i+2] = gpuimage.Quantize(c[2])
			dst.pix[i+3] = gpuimage.Quantize(c[3])
		}
	}
}

// ReadPixels copies t into a new pixmap.
func (d *Device) ReadPixels(t gpuimage.Texture) (*gpuimage.Pixmap, error) {
	ct, err := d.lookup(t)
	if err != nil {
		return nil, err
	}
	return gpuimage.NewPixmapFromData(ct.w, ct.h, append([]uint8(nil), ct.pix...))
}

var _ backend.Device = (*Device)(nil)
