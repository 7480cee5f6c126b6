package gpuimage

import (
	"fmt"
	"sync"
)

// RenderContext is what a command sees when it is applied. Renderer is nil
// when a queue is drained without a renderer.
type RenderContext struct {
	Device   Device
	Renderer *Renderer
}

// Command is one deferred mutation of GPU state. Commands are plain values;
// they are queued on any goroutine and applied on the render context.
type Command interface {
	Apply(rc *RenderContext) error
}

// Replacer is implemented by pipelines whose pass list can be replaced.
type Replacer interface {
	Replace(dev Device, passes []Renderable) error
}

// SetUniform writes a parameter on a filter or pipeline.
type SetUniform struct {
	Target Renderable
	Name   string
	Value  Value
}

func (c SetUniform) Apply(*RenderContext) error {
	c.Target.SetParameter(c.Name, c.Value)
	return nil
}

// ReplacePasses swaps the whole pass list of a pipeline.
type ReplacePasses struct {
	Target Replacer
	Passes []Renderable
}

func (c ReplacePasses) Apply(rc *RenderContext) error {
	return c.Target.Replace(rc.Device, c.Passes)
}

// Resize declares a new output size.
type Resize struct {
	Width, Height int
}

func (c Resize) Apply(rc *RenderContext) error {
	if rc.Renderer == nil {
		return ErrNoRenderer
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("gpuimage: resize to %dx%d: %w", c.Width, c.Height, ErrInvalidSize)
	}
	rc.Renderer.resize(c.Width, c.Height)
	return nil
}

// SetFilter attaches a filter to the renderer, destroying the previous one.
type SetFilter struct {
	Filter Renderable
}

func (c SetFilter) Apply(rc *RenderContext) error {
	if rc.Renderer == nil {
		return ErrNoRenderer
	}
	rc.Renderer.setFilter(c.Filter)
	return nil
}

// SetImage replaces the source image and resizes the output to match.
type SetImage struct {
	Image *Pixmap
}

func (c SetImage) Apply(rc *RenderContext) error {
	if rc.Renderer == nil {
		return ErrNoRenderer
	}
	return rc.Renderer.setImage(c.Image)
}

// SetRotation changes the orientation of the source image.
type SetRotation struct {
	Rotation       Rotation
	FlipHorizontal bool
	FlipVertical   bool
}

func (c SetRotation) Apply(rc *RenderContext) error {
	if rc.Renderer == nil {
		return ErrNoRenderer
	}
	rc.Renderer.setRotation(c.Rotation, c.FlipHorizontal, c.FlipVertical)
	return nil
}

// SetSecondary replaces the secondary image of a two-input filter.
type SetSecondary struct {
	Filter *Filter
	Image  *Pixmap
}

func (c SetSecondary) Apply(rc *RenderContext) error {
	return c.Filter.SetSecondary(rc.Device, c.Image)
}

// SetBackground changes the color the target is cleared to each frame.
type SetBackground struct {
	Color RGBA
}

func (c SetBackground) Apply(rc *RenderContext) error {
	if rc.Renderer == nil {
		return ErrNoRenderer
	}
	rc.Renderer.background = c.Color
	return nil
}

// Batch applies several commands as one queue entry.
type Batch []Command

func (b Batch) Apply(rc *RenderContext) error {
	for i, c := range b {
		if err := c.Apply(rc); err != nil {
			return fmt.Errorf("batch command %d: %w", i, err)
		}
	}
	return nil
}

// Queue is an unbounded FIFO of pending commands. Submit is safe from any
// goroutine; Drain runs on the render context.
type Queue struct {
	mu      sync.Mutex
	pending []Command
}

// Submit appends commands in order. A SetUniform that targets the same
// parameter as the command at the tail of the queue replaces it.
func (q *Queue) Submit(cmds ...Command) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, c := range cmds {
		if c == nil {
			continue
		}
		if su, ok := c.(SetUniform); ok && len(q.pending) > 0 {
			if prev, ok := q.pending[len(q.pending)-1].(SetUniform); ok &&
				prev.Target == su.Target && prev.Name == su.Name {
				q.pending[len(q.pending)-1] = su
				continue
			}
		}
		q.pending = append(q.pending, c)
	}
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain applies every pending command exactly once in submission order.
// Commands submitted while draining wait for the next drain. If a command
// fails, the commands after it go back to the head of the queue and the
// error is returned.
func (q *Queue) Drain(rc *RenderContext) error {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for i, c := range batch {
		if err := c.Apply(rc); err != nil {
			rest := batch[i+1:]
			q.mu.Lock()
			q.pending = append(append([]Command(nil), rest...), q.pending...)
			q.mu.Unlock()
			return fmt.Errorf("gpuimage: command %T: %w", c, err)
		}
	}
	if len(batch) > 0 {
		Logger().Debug("commands drained", "count", len(batch))
	}
	return nil
}
