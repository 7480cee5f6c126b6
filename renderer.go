package gpuimage

import (
	"errors"
	"fmt"
)

// Renderer owns the render context: the device, the source image texture,
// the attached filter and the deferred command queue. Submit may be called
// from any goroutine; every other method belongs to the render context.
type Renderer struct {
	dev   Device
	queue Queue

	filter   Renderable
	image    *Pixmap
	imageTex Texture

	width, height int
	sizeDirty     bool

	rotation   Rotation
	flipH      bool
	flipV      bool
	background RGBA

	frames uint64
	closed bool
}

// NewRenderer creates a renderer drawing with dev.
func NewRenderer(dev Device, opts ...RendererOption) *Renderer {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer{
		dev:        dev,
		filter:     o.filter,
		rotation:   o.rotation,
		flipH:      o.flipH,
		flipV:      o.flipV,
		background: o.background,
		sizeDirty:  true,
	}
}

// Submit queues commands for the next frame. Safe for concurrent use.
func (r *Renderer) Submit(cmds ...Command) {
	r.queue.Submit(cmds...)
}

// Pending returns the number of queued commands.
func (r *Renderer) Pending() int { return r.queue.Len() }

// Device returns the renderer's device.
func (r *Renderer) Device() Device { return r.dev }

// Filter returns the attached filter.
func (r *Renderer) Filter() Renderable { return r.filter }

// Size returns the declared output size.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// Frames returns the number of frames the filter has been executed for.
func (r *Renderer) Frames() uint64 { return r.frames }

// Rotation returns the current orientation.
func (r *Renderer) Rotation() (rot Rotation, flipHorizontal, flipVertical bool) {
	return r.rotation, r.flipH, r.flipV
}

// Frame drains the command queue and then executes the attached filter
// once, reading the source image and writing target. A failing command
// aborts the frame before anything is drawn.
func (r *Renderer) Frame(target Texture) error {
	if r.closed {
		return ErrDestroyed
	}
	rc := &RenderContext{Device: r.dev, Renderer: r}
	if err := r.queue.Drain(rc); err != nil {
		return fmt.Errorf("gpuimage: frame aborted: %w", err)
	}
	if err := r.dev.Clear(target, r.background); err != nil {
		return err
	}
	if r.filter == nil || r.imageTex == nil {
		return nil
	}
	if r.filter.State() == Uninitialized {
		if err := r.filter.Init(r.dev); err != nil {
			return err
		}
	}
	if r.sizeDirty {
		r.filter.OnOutputSizeChanged(r.width, r.height)
		r.sizeDirty = false
	}
	if err := r.filter.Render(r.dev, r.imageTex, target, CoordsFor(r.rotation, r.flipH, r.flipV)); err != nil {
		return err
	}
	r.frames++
	return nil
}

// Snapshot renders one frame into an off-screen target of the declared
// output size and reads it back.
func (r *Renderer) Snapshot() (*Pixmap, error) {
	if r.closed {
		return nil, ErrDestroyed
	}
	rc := &RenderContext{Device: r.dev, Renderer: r}
	if err := r.queue.Drain(rc); err != nil {
		return nil, fmt.Errorf("gpuimage: frame aborted: %w", err)
	}
	if r.imageTex == nil {
		return nil, ErrNoImage
	}
	target, err := r.dev.CreateTarget(r.width, r.height, "gpuimage/snapshot")
	if err != nil {
		return nil, err
	}
	defer r.dev.DestroyTexture(target)
	if err := r.Frame(target); err != nil {
		return nil, err
	}
	return r.dev.ReadPixels(target)
}

// Close destroys the attached filter and the image texture.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	if r.filter != nil {
		r.filter.Destroy(r.dev)
	}
	r.deleteImage()
	r.closed = true
}

func (r *Renderer) resize(width, height int) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.sizeDirty = true
}

func (r *Renderer) setFilter(f Renderable) {
	if f == r.filter {
		return
	}
	if r.filter != nil {
		r.filter.Destroy(r.dev)
	}
	r.filter = f
	r.sizeDirty = true
}

func (r *Renderer) setImage(img *Pixmap) error {
	if img.Empty() {
		r.deleteImage()
		return nil
	}
	tex, err := r.dev.UploadTexture(img, "gpuimage/source")
	if err != nil {
		return err
	}
	r.deleteImage()
	r.image, r.imageTex = img, tex
	w, h := img.Width(), img.Height()
	if r.rotation.SwapsAxes() {
		w, h = h, w
	}
	r.resize(w, h)
	return nil
}

func (r *Renderer) deleteImage() {
	if r.imageTex != nil {
		r.dev.DestroyTexture(r.imageTex)
	}
	r.image, r.imageTex = nil, nil
}

func (r *Renderer) setRotation(rot Rotation, flipH, flipV bool) {
	swapped := rot.SwapsAxes() != r.rotation.SwapsAxes()
	r.rotation, r.flipH, r.flipV = rot, flipH, flipV
	if swapped && r.image != nil {
		r.resize(r.height, r.width)
	}
}

// readOptions configures ApplyAndRead.
type readOptions struct {
	renderer []RendererOption
}

// ReadOption configures ApplyAndRead.
type ReadOption func(*readOptions)

// ReadWithRotation orients the source image before filtering.
func ReadWithRotation(r Rotation, flipHorizontal, flipVertical bool) ReadOption {
	return func(o *readOptions) {
		o.renderer = append(o.renderer, WithRotation(r, flipHorizontal, flipVertical))
	}
}

// ReadWithBackground sets the clear color of the off-screen target.
func ReadWithBackground(c RGBA) ReadOption {
	return func(o *readOptions) {
		o.renderer = append(o.renderer, WithBackground(c))
	}
}

// ApplyAndRead renders src through filter once, off-screen, and returns the
// result. It uses its own renderer and target, independent of any live
// renderer. The filter is consumed: it is destroyed before ApplyAndRead
// returns, so it must not be attached elsewhere.
func ApplyAndRead(dev Device, filter Renderable, src *Pixmap, opts ...ReadOption) (*Pixmap, error) {
	if filter == nil {
		return nil, errors.New("gpuimage: nil filter")
	}
	if src.Empty() {
		return nil, ErrNoImage
	}
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}
	r := NewRenderer(dev, o.renderer...)
	defer r.Close()

	r.Submit(SetImage{Image: src}, SetFilter{Filter: filter})
	out, err := r.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("gpuimage: apply %s: %w", filter.Name(), err)
	}
	return out, nil
}
