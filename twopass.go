package gpuimage

// Uniform names shared by two-pass sampling effects.
const (
	// TexelOffsetUniform is the per-pass sampling step in texture space.
	TexelOffsetUniform = "texelOffset"

	// BlurSizeParam sets the texel offset ratio of a TwoPass.
	BlurSizeParam = "blurSize"
)

// TwoPass is a two-pass pipeline whose passes sample along one axis each.
// The first pass steps horizontally by ratio/width, the second vertically by
// ratio/height. Offsets are recomputed whenever the size or the ratio
// changes and pushed to both passes before the next render.
type TwoPass struct {
	pipe  *Pipeline
	ratio float32
}

// NewTwoPass creates a two-pass sampling filter with ratio 1.
func NewTwoPass(name string, horizontal, vertical Renderable) *TwoPass {
	return &TwoPass{pipe: NewPipeline(name, horizontal, vertical), ratio: 1}
}

// Name returns the filter name.
func (t *TwoPass) Name() string { return t.pipe.Name() }

// State returns the lifecycle state.
func (t *TwoPass) State() FilterState { return t.pipe.State() }

// IsMultiPass reports true.
func (t *TwoPass) IsMultiPass() bool { return true }

// Pipeline exposes the underlying pipeline.
func (t *TwoPass) Pipeline() *Pipeline { return t.pipe }

// Ratio returns the texel offset ratio.
func (t *TwoPass) Ratio() float32 { return t.ratio }

// TexelOffsets returns the horizontal and vertical steps for the current
// size, zero while no size is known.
func (t *TwoPass) TexelOffsets() (horizontal, vertical float32) {
	w, h := t.pipe.OutputSize()
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	return t.ratio / float32(w), t.ratio / float32(h)
}

// pushOffsets sends the current steps to both passes once a size is known.
// A zero ratio pushes zero steps, which samples the center texel only.
func (t *TwoPass) pushOffsets() {
	if w, h := t.pipe.OutputSize(); w <= 0 || h <= 0 {
		return
	}
	hs, vs := t.TexelOffsets()
	passes := t.pipe.Passes()
	if len(passes) != 2 {
		return
	}
	passes[0].SetParameter(TexelOffsetUniform, Vec2{hs, 0})
	passes[1].SetParameter(TexelOffsetUniform, Vec2{0, vs})
}

// Init initializes both passes.
func (t *TwoPass) Init(dev Device) error {
	if len(t.pipe.Passes()) != 2 {
		return ErrPassCount
	}
	if err := t.pipe.Init(dev); err != nil {
		return err
	}
	t.pushOffsets()
	return nil
}

// SetParameter handles BlurSizeParam (negative ratios are ignored) and
// forwards everything else to both passes.
func (t *TwoPass) SetParameter(name string, v Value) {
	if name == BlurSizeParam {
		r, ok := v.(Float)
		if !ok || r < 0 {
			return
		}
		t.ratio = float32(r)
		t.pushOffsets()
		return
	}
	t.pipe.SetParameter(name, v)
}

// OnOutputSizeChanged resizes the pipeline and recomputes the offsets.
func (t *TwoPass) OnOutputSizeChanged(width, height int) {
	t.pipe.OnOutputSizeChanged(width, height)
	t.pushOffsets()
}

// Render runs both passes.
func (t *TwoPass) Render(dev Device, input, target Texture, coords TexCoords) error {
	return t.pipe.Render(dev, input, target, coords)
}

// Replace installs a new pair of passes; see Pipeline.Replace.
func (t *TwoPass) Replace(dev Device, passes []Renderable) error {
	if len(passes) != 2 {
		return ErrPassCount
	}
	if err := t.pipe.Replace(dev, passes); err != nil {
		return err
	}
	t.pushOffsets()
	return nil
}

// Destroy releases both passes and the framebuffer. Idempotent.
func (t *TwoPass) Destroy(dev Device) {
	t.pipe.Destroy(dev)
}
