package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/gpuimage"
)

// textureUsage lets every texture be drawn into, sampled, uploaded to and
// read back.
const textureUsage = gputypes.TextureUsageRenderAttachment |
	gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageCopySrc |
	gputypes.TextureUsageCopyDst

// texture is an RGBA8Unorm texture with straight alpha and its default
// view.
type texture struct {
	w, h  int
	label string
	tex   *wgpu.Texture
	view  *wgpu.TextureView
}

func (t *texture) Width() int  { return t.w }
func (t *texture) Height() int { return t.h }

func (t *texture) extent() wgpu.Extent3D {
	return wgpu.Extent3D{Width: uint32(t.w), Height: uint32(t.h), DepthOrArrayLayers: 1}
}

func (t *texture) release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}

func (d *Device) newTexture(width, height int, label string) (*texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("wgpu: texture %s %dx%d: %w", label, width, height, gpuimage.ErrInvalidSize)
	}
	limit := int(d.device.Limits().MaxTextureDimension2D)
	if limit > 0 && (width > limit || height > limit) {
		return nil, fmt.Errorf("wgpu: texture %s %dx%d exceeds %d: %w", label, width, height, limit, gpuimage.ErrInvalidSize)
	}
	t := &texture{w: width, h: height, label: label}
	var err error
	t.tex, err = d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         d.cfg.label + "/" + label,
		Size:          t.extent(),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         textureUsage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %s: %w", label, err)
	}
	t.view, err = d.device.CreateTextureView(t.tex, nil)
	if err != nil {
		t.release()
		return nil, fmt.Errorf("wgpu: create view %s: %w", label, err)
	}
	d.textures[t] = struct{}{}
	return t, nil
}

// CreateTarget allocates an RGBA8 texture. Its contents are undefined until
// the first Clear or Draw.
func (d *Device) CreateTarget(width, height int, label string) (gpuimage.Texture, error) {
	return d.newTexture(width, height, label)
}

// UploadTexture copies src into a new texture.
func (d *Device) UploadTexture(src *gpuimage.Pixmap, label string) (gpuimage.Texture, error) {
	if src.Empty() {
		return nil, fmt.Errorf("wgpu: upload %s: %w", label, gpuimage.ErrInvalidSize)
	}
	t, err := d.newTexture(src.Width(), src.Height(), label)
	if err != nil {
		return nil, err
	}
	size := t.extent()
	err = d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: t.tex},
		src.Data(),
		&wgpu.ImageDataLayout{BytesPerRow: uint32(t.w * 4), RowsPerImage: uint32(t.h)},
		&size,
	)
	if err != nil {
		d.DestroyTexture(t)
		return nil, fmt.Errorf("wgpu: upload %s: %w", label, err)
	}
	return t, nil
}

// DestroyTexture releases t. Unknown or destroyed handles are ignored.
func (d *Device) DestroyTexture(h gpuimage.Texture) {
	t, ok := h.(*texture)
	if !ok {
		return
	}
	if _, live := d.textures[t]; !live {
		return
	}
	delete(d.textures, t)
	t.release()
}

func (d *Device) lookup(h gpuimage.Texture) (*texture, error) {
	t, ok := h.(*texture)
	if !ok {
		return nil, gpuimage.ErrUnknownTexture
	}
	if _, live := d.textures[t]; !live {
		return nil, fmt.Errorf("wgpu: texture %s: %w", t.label, gpuimage.ErrUnknownTexture)
	}
	return t, nil
}
