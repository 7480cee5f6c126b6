package wgpu

import (
	"context"
	"fmt"

	"github.com/gogpu/wgpu"

	"github.com/gogpu/gpuimage"
)

// copyRowAlignment is the required BytesPerRow alignment of texture to
// buffer copies.
const copyRowAlignment = 256

func align(n, a uint32) uint32 {
	return (n + a - 1) / a * a
}

// unpadRows drops the per-row padding of a staging buffer.
func unpadRows(src []byte, width, height int, stride uint32) []byte {
	row := width * 4
	out := make([]byte, row*height)
	for y := 0; y < height; y++ {
		off := int(stride) * y
		copy(out[y*row:(y+1)*row], src[off:off+row])
	}
	return out
}

// ReadPixels copies t into a staging buffer and waits for it to map.
func (d *Device) ReadPixels(h gpuimage.Texture) (*gpuimage.Pixmap, error) {
	t, err := d.lookup(h)
	if err != nil {
		return nil, err
	}
	stride := align(uint32(t.w*4), copyRowAlignment)
	size := uint64(stride) * uint64(t.h)
	staging, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: d.cfg.label + "/readback " + t.label,
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: readback buffer %s: %w", t.label, err)
	}
	defer staging.Release()

	err = d.submit("readback "+t.label, func(enc *wgpu.CommandEncoder) error {
		enc.CopyTextureToBuffer(t.tex, staging, []wgpu.BufferTextureCopy{{
			BufferLayout: wgpu.ImageDataLayout{BytesPerRow: stride, RowsPerImage: uint32(t.h)},
			TextureBase:  wgpu.ImageCopyTexture{Texture: t.tex},
			Size:         t.extent(),
		}})
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.readTimeout)
	defer cancel()
	if err := staging.Map(ctx, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("wgpu: map readback %s: %w", t.label, err)
	}
	defer staging.Unmap() //nolint:errcheck // release path
	rng, err := staging.MappedRange(0, size)
	if err != nil {
		return nil, fmt.Errorf("wgpu: mapped range %s: %w", t.label, err)
	}
	data := unpadRows(rng.Bytes(), t.w, t.h, stride)
	rng.Release()
	return gpuimage.NewPixmapFromData(t.w, t.h, data)
}
