package effects

import (
	"testing"

	"github.com/gogpu/gpuimage"
	"github.com/gogpu/gpuimage/backend/cpu"
)

// newDevice returns a CPU device that skips WGSL validation; shader
// sources are checked separately by TestShadersCompile.
func newDevice(t *testing.T) *cpu.Device {
	t.Helper()
	d := cpu.New(cpu.WithValidation(false))
	t.Cleanup(d.Close)
	return d
}

func solid(w, h int, c gpuimage.RGBA) *gpuimage.Pixmap {
	p := gpuimage.NewPixmap(w, h)
	p.Clear(c)
	return p
}

// bytesRGB builds an opaque pixmap from 8-bit channel values.
func bytesRGB(w, h int, fn func(x, y int) [3]uint8) *gpuimage.Pixmap {
	data := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := fn(x, y)
			i := (y*w + x) * 4
			data[i], data[i+1], data[i+2], data[i+3] = c[0], c[1], c[2], 255
		}
	}
	p, _ := gpuimage.NewPixmapFromData(w, h, data)
	return p
}

// split is black on the left half and white on the right half.
func split(w, h int) *gpuimage.Pixmap {
	return bytesRGB(w, h, func(x, _ int) [3]uint8 {
		if x < w/2 {
			return [3]uint8{}
		}
		return [3]uint8{255, 255, 255}
	})
}

func pattern(w, h int) *gpuimage.Pixmap {
	return bytesRGB(w, h, func(x, y int) [3]uint8 {
		return [3]uint8{uint8(20 + 23*x), uint8(40 + 19*y), uint8(200 - 7*(x+y))}
	})
}

func apply(t *testing.T, dev gpuimage.Device, r gpuimage.Renderable, src *gpuimage.Pixmap) *gpuimage.Pixmap {
	t.Helper()
	out, err := gpuimage.ApplyAndRead(dev, r, src)
	if err != nil {
		t.Fatalf("ApplyAndRead(%s): %v", r.Name(), err)
	}
	return out
}

// px returns the raw bytes of pixel (x, y).
func px(p *gpuimage.Pixmap, x, y int) [4]uint8 {
	i := (y*p.Width() + x) * 4
	d := p.Data()
	return [4]uint8{d[i], d[i+1], d[i+2], d[i+3]}
}

func samePixels(a, b *gpuimage.Pixmap) bool {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	da, db := a.Data(), b.Data()
	for i := range da {
		if da[i] != db[i] {
			return false
		}
	}
	return true
}

func value(t *testing.T, r gpuimage.Renderable, name string) gpuimage.Value {
	t.Helper()
	f, ok := r.(*gpuimage.Filter)
	if !ok {
		t.Fatalf("%s is %T, want *gpuimage.Filter", r.Name(), r)
	}
	v, ok := f.Value(name)
	if !ok {
		t.Fatalf("%s has no value for %q", r.Name(), name)
	}
	return v
}
