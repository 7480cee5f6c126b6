package gpuimage

import "fmt"

// Pipeline chains passes through off-screen framebuffers. A pipeline of N
// passes owns exactly N-1 framebuffers: pass k reads the pipeline input
// (k = 0) or framebuffer k-1, and writes framebuffer k or, for the last
// pass, the externally supplied target. Passes run strictly in order.
type Pipeline struct {
	name    string
	passes  []Renderable
	fbs     []*FramebufferTarget
	width   int
	height  int
	started bool
	state   FilterState
}

// NewPipeline creates a pipeline from passes. More passes can be added with
// AddPass until the first render.
func NewPipeline(name string, passes ...Renderable) *Pipeline {
	return &Pipeline{name: name, passes: append([]Renderable(nil), passes...)}
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string { return p.name }

// State returns the lifecycle state.
func (p *Pipeline) State() FilterState { return p.state }

// IsMultiPass reports true.
func (p *Pipeline) IsMultiPass() bool { return true }

// Passes returns the current pass list.
func (p *Pipeline) Passes() []Renderable { return p.passes }

// Framebuffers returns the currently allocated intermediate targets.
func (p *Pipeline) Framebuffers() []*FramebufferTarget { return p.fbs }

// OutputSize returns the declared image size.
func (p *Pipeline) OutputSize() (width, height int) { return p.width, p.height }

// AddPass appends a pass. It fails once the pipeline has rendered.
func (p *Pipeline) AddPass(r Renderable) error {
	if p.state == Destroyed {
		return ErrDestroyed
	}
	if p.started {
		return ErrPipelineStarted
	}
	p.passes = append(p.passes, r)
	if p.width > 0 && p.height > 0 {
		r.OnOutputSizeChanged(p.width, p.height)
	}
	return nil
}

// Init initializes every pass in order. If a pass fails, every pass
// initialized in this attempt is destroyed along with the failing one and
// the pipeline becomes Destroyed.
func (p *Pipeline) Init(dev Device) error {
	switch p.state {
	case Initialized:
		return nil
	case Destroyed:
		return ErrDestroyed
	}
	if len(p.passes) == 0 {
		return ErrEmptyPipeline
	}
	if err := initPasses(dev, p.passes); err != nil {
		p.state = Destroyed
		return fmt.Errorf("gpuimage: pipeline %s: %w", p.name, err)
	}
	p.state = Initialized
	return nil
}

func initPasses(dev Device, passes []Renderable) error {
	var done []Renderable
	for i, r := range passes {
		if r.State() == Initialized {
			continue
		}
		if err := r.Init(dev); err != nil {
			r.Destroy(dev)
			for _, d := range done {
				d.Destroy(dev)
			}
			return fmt.Errorf("pass %d (%s): %w", i, r.Name(), err)
		}
		done = append(done, r)
	}
	return nil
}

// SetParameter forwards the write to every pass; passes that do not
// declare the parameter ignore it.
func (p *Pipeline) SetParameter(name string, v Value) {
	for _, r := range p.passes {
		r.SetParameter(name, v)
	}
}

// OnOutputSizeChanged declares a new image size. Framebuffers are
// reallocated on the next render.
func (p *Pipeline) OnOutputSizeChanged(width, height int) {
	p.width, p.height = width, height
	for _, r := range p.passes {
		r.OnOutputSizeChanged(width, height)
	}
}

// Render executes every pass in order.
func (p *Pipeline) Render(dev Device, input, target Texture, coords TexCoords) error {
	switch p.state {
	case Uninitialized:
		return ErrNotInitialized
	case Destroyed:
		return ErrDestroyed
	}
	if len(p.passes) == 0 {
		return ErrEmptyPipeline
	}
	p.started = true

	w, h := p.width, p.height
	if w <= 0 || h <= 0 {
		w, h = target.Width(), target.Height()
	}
	if err := p.ensureFramebuffers(dev, w, h); err != nil {
		return err
	}

	last := len(p.passes) - 1
	src := input
	for k, r := range p.passes {
		dst := target
		if k < last {
			dst = p.fbs[k].Texture()
		}
		c := IdentityCoords
		if k == 0 {
			c = coords
		}
		if err := r.Render(dev, src, dst, c); err != nil {
			return fmt.Errorf("gpuimage: pipeline %s pass %d (%s): %w", p.name, k, r.Name(), err)
		}
		src = dst
	}
	return nil
}

// ensureFramebuffers keeps exactly len(passes)-1 targets of size w x h.
// On any mismatch every old target is destroyed before new ones exist.
func (p *Pipeline) ensureFramebuffers(dev Device, w, h int) error {
	want := len(p.passes) - 1
	if len(p.fbs) == want {
		ok := true
		for _, fb := range p.fbs {
			if !fb.Matches(w, h) {
				ok = false
				break
			}
		}
		if ok {
			return nil
		}
	}
	p.destroyFramebuffers(dev)
	for i := 0; i < want; i++ {
		fb, err := NewFramebufferTarget(dev, w, h, fmt.Sprintf("gpuimage/%s/fb%d", p.name, i))
		if err != nil {
			p.destroyFramebuffers(dev)
			return fmt.Errorf("gpuimage: pipeline %s framebuffer %d: %w", p.name, i, err)
		}
		p.fbs = append(p.fbs, fb)
	}
	if want > 0 {
		Logger().Debug("framebuffers allocated", "pipeline", p.name, "count", want, "width", w, "height", h)
	}
	return nil
}

func (p *Pipeline) destroyFramebuffers(dev Device) {
	for _, fb := range p.fbs {
		fb.Destroy(dev)
	}
	p.fbs = nil
}

// Replace destroys every pass and framebuffer of the pipeline, then
// installs and initializes passes. It must run on the render context; use
// the ReplacePasses command from anywhere else. If a new pass fails to
// initialize, the passes initialized in this attempt are released and the
// pipeline is left empty.
func (p *Pipeline) Replace(dev Device, passes []Renderable) error {
	if p.state == Destroyed {
		return ErrDestroyed
	}
	for _, r := range p.passes {
		r.Destroy(dev)
	}
	p.destroyFramebuffers(dev)
	p.passes = nil
	p.started = false

	if len(passes) == 0 {
		return ErrEmptyPipeline
	}
	if p.width > 0 && p.height > 0 {
		for _, r := range passes {
			r.OnOutputSizeChanged(p.width, p.height)
		}
	}
	if p.state == Initialized {
		if err := initPasses(dev, passes); err != nil {
			return fmt.Errorf("gpuimage: pipeline %s: %w", p.name, err)
		}
	}
	p.passes = append([]Renderable(nil), passes...)
	Logger().Info("pipeline passes replaced", "pipeline", p.name, "passes", len(passes))
	return nil
}

// Destroy releases every pass and framebuffer. Idempotent.
func (p *Pipeline) Destroy(dev Device) {
	if p.state == Destroyed {
		return
	}
	for _, r := range p.passes {
		r.Destroy(dev)
	}
	p.destroyFramebuffers(dev)
	p.state = Destroyed
}
