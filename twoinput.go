package gpuimage

import "fmt"

// SwapUniform is the integer parameter blend effects use to exchange base
// and blend operands. Only 0 and 1 are accepted.
const SwapUniform = "swapTexture"

// NewTwoInputFilter creates a filter that samples the per-frame input at
// unit 0 and a fixed secondary image at unit 1. The secondary image is
// uploaded when the filter is initialized.
func NewTwoInputFilter(effect Effect, secondary *Pixmap) *Filter {
	effect.Inputs = 2
	f := NewFilter(effect)
	f.secondary = secondary
	return f
}

// Secondary returns the secondary image.
func (f *Filter) Secondary() *Pixmap { return f.secondary }

// SetSecondary replaces the secondary image. On an initialized filter the
// new texture is uploaded before the old one is released, so a failed
// upload leaves the previous binding in place.
func (f *Filter) SetSecondary(dev Device, img *Pixmap) error {
	if f.state == Destroyed {
		return ErrDestroyed
	}
	if f.effect.inputs() < 2 {
		return fmt.Errorf("gpuimage: %s takes a single input", f.effect.Name)
	}
	f.secondary = img
	if f.state != Initialized {
		return nil
	}
	var tex Texture
	if !img.Empty() {
		var err error
		tex, err = dev.UploadTexture(img, f.label()+"/secondary")
		if err != nil {
			return fmt.Errorf("gpuimage: upload secondary for %s: %w", f.effect.Name, err)
		}
	}
	if f.secondaryTex != nil {
		dev.DestroyTexture(f.secondaryTex)
	}
	f.secondaryTex = tex
	return nil
}

// ValidSwap accepts only 0 and 1 for SwapUniform. Blend effects use it as
// their Validate hook.
func ValidSwap(name string, v Value) bool {
	if name != SwapUniform {
		return true
	}
	i, ok := v.(Int)
	return ok && (i == 0 || i == 1)
}
