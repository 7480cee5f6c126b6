package gpuimage

// RendererOption configures a Renderer during creation.
//
// Example:
//
//	r := gpuimage.NewRenderer(dev,
//		gpuimage.WithRotation(gpuimage.Rotate90, false, false),
//		gpuimage.WithBackground(gpuimage.Black),
//	)
type RendererOption func(*rendererOptions)

type rendererOptions struct {
	rotation   Rotation
	flipH      bool
	flipV      bool
	background RGBA
	filter     Renderable
}

func defaultRendererOptions() rendererOptions {
	return rendererOptions{background: Transparent}
}

// WithRotation sets the initial orientation of the source image.
func WithRotation(r Rotation, flipHorizontal, flipVertical bool) RendererOption {
	return func(o *rendererOptions) {
		o.rotation = r
		o.flipH = flipHorizontal
		o.flipV = flipVertical
	}
}

// WithBackground sets the color targets are cleared to before drawing.
func WithBackground(c RGBA) RendererOption {
	return func(o *rendererOptions) {
		o.background = c
	}
}

// WithFilter attaches an initial filter.
func WithFilter(f Renderable) RendererOption {
	return func(o *rendererOptions) {
		o.filter = f
	}
}
