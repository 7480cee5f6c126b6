package gpuimage

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestPixmapSetGet(t *testing.T) {
	pm := NewPixmap(4, 3)
	pm.SetPixel(2, 1, RGB(1, 0.5, 0))

	i := (1*4 + 2) * 4
	data := pm.Data()
	if data[i] != 255 || data[i+1] != 128 || data[i+2] != 0 || data[i+3] != 255 {
		t.Errorf("raw data = %v, want [255 128 0 255]", data[i:i+4])
	}
	if got := pm.GetPixel(-1, 0); got != Transparent {
		t.Errorf("GetPixel(-1, 0) = %+v, want Transparent", got)
	}
}

func TestPixmapOutOfBoundsWriteIgnored(t *testing.T) {
	pm := NewPixmap(5, 5)
	pm.Clear(Black)
	orig := pm.Clone()
	for _, c := range []struct{ x, y int }{{-1, 2}, {5, 2}, {2, -1}, {2, 5}} {
		pm.SetPixel(c.x, c.y, White)
	}
	for i, v := range pm.Data() {
		if v != orig.Data()[i] {
			t.Fatalf("out-of-bounds write modified byte %d", i)
		}
	}
}

func TestPixmapImageRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(3, 4, 7, 6))
	src.Set(4, 5, color.RGBA{R: 100, G: 50, B: 25, A: 255})

	pm := FromImage(src)
	if pm.Width() != 4 || pm.Height() != 2 {
		t.Fatalf("FromImage size = %dx%d, want 4x2", pm.Width(), pm.Height())
	}
	got := pm.ToImage().NRGBAAt(1, 1)
	want := color.NRGBA{R: 100, G: 50, B: 25, A: 255}
	if got != want {
		t.Errorf("pixel (1,1) = %v, want %v", got, want)
	}
	if pm.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Errorf("Bounds() = %v", pm.Bounds())
	}
}

func TestNewPixmapFromData(t *testing.T) {
	if _, err := NewPixmapFromData(2, 2, make([]uint8, 15)); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("NewPixmapFromData(short) error = %v, want ErrInvalidSize", err)
	}
	pm, err := NewPixmapFromData(2, 2, make([]uint8, 16))
	if err != nil {
		t.Fatalf("NewPixmapFromData() error = %v", err)
	}
	if pm.Empty() {
		t.Error("Empty() = true for a 2x2 pixmap")
	}
	if !NewPixmap(0, 3).Empty() {
		t.Error("Empty() = false for a 0x3 pixmap")
	}
}
