package gpuimage

// FramebufferTarget is an off-screen render target sized to the image. It
// is owned by the pipeline that allocated it.
type FramebufferTarget struct {
	width, height int
	texture       Texture
}

// NewFramebufferTarget allocates a target on dev.
func NewFramebufferTarget(dev Device, width, height int, label string) (*FramebufferTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	tex, err := dev.CreateTarget(width, height, label)
	if err != nil {
		return nil, err
	}
	return &FramebufferTarget{width: width, height: height, texture: tex}, nil
}

// Width returns the target width.
func (t *FramebufferTarget) Width() int { return t.width }

// Height returns the target height.
func (t *FramebufferTarget) Height() int { return t.height }

// Texture returns the backing texture, nil once destroyed.
func (t *FramebufferTarget) Texture() Texture { return t.texture }

// Live reports whether the target still holds its texture.
func (t *FramebufferTarget) Live() bool { return t.texture != nil }

// Matches reports whether the target is live and has the given size.
func (t *FramebufferTarget) Matches(width, height int) bool {
	return t.texture != nil && t.width == width && t.height == height
}

// Destroy releases the texture. Idempotent.
func (t *FramebufferTarget) Destroy(dev Device) {
	if t.texture == nil {
		return
	}
	dev.DestroyTexture(t.texture)
	t.texture = nil
}
