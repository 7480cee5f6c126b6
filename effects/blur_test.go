package effects

import (
	"testing"

	"github.com/gogpu/gpuimage"
)

var gray = gpuimage.RGB(0.5, 0.5, 0.5)

func TestWeightedBlursKeepFlatImages(t *testing.T) {
	tests := []struct {
		name string
		r    func() gpuimage.Renderable
	}{
		{"zoom", func() gpuimage.Renderable { return gpuimage.NewFilter(ZoomBlur()) }},
		{"position", func() gpuimage.Renderable { return NewGaussianBlurPosition() }},
		{"dilation", func() gpuimage.Renderable { tp, _ := NewDilation(2); return tp }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := apply(t, newDevice(t), tt.r(), solid(9, 7, gray))
			for y := 0; y < 7; y++ {
				for x := 0; x < 9; x++ {
					if got := px(out, x, y); got != [4]uint8{128, 128, 128, 255} {
						t.Fatalf("pixel (%d,%d) = %v, want flat gray", x, y, got)
					}
				}
			}
		})
	}
}

func TestZoomBlurCenterIsFixed(t *testing.T) {
	f := gpuimage.NewFilter(ZoomBlur())
	f.SetParameter(gpuimage.BlurSizeParam, gpuimage.Float(-3))
	f.SetParameter(gpuimage.BlurSizeParam, gpuimage.Float(20))
	src := pattern(5, 5)
	out := apply(t, newDevice(t), f, src)
	if got, want := px(out, 2, 2), px(src, 2, 2); got != want {
		t.Errorf("center = %v, want unchanged %v", got, want)
	}
	if px(out, 0, 0) == px(src, 0, 0) {
		t.Error("corner pixel not blurred")
	}
}

func TestGaussianBlurPositionOutsideRadius(t *testing.T) {
	tp := NewGaussianBlurPosition()
	if tp.Ratio() != 1.5 {
		t.Errorf("Ratio() = %v, want 1.5", tp.Ratio())
	}
	tp.SetParameter(BlurRadiusParam, gpuimage.Float(0))
	src := pattern(8, 6)
	if out := apply(t, newDevice(t), tp, src); !samePixels(out, src) {
		t.Error("zero radius blurred the image")
	}
}

func TestDilation(t *testing.T) {
	if _, err := NewDilation(0); err == nil {
		t.Error("NewDilation(0) succeeded")
	}
	if _, err := NewDilation(5); err == nil {
		t.Error("NewDilation(5) succeeded")
	}
	tp, err := NewDilation(1)
	if err != nil {
		t.Fatal(err)
	}
	src := solid(8, 8, gpuimage.Black)
	src.SetPixel(3, 3, gpuimage.White)
	out := apply(t, newDevice(t), tp, src)
	tests := []struct {
		x, y int
		want uint8
	}{
		{3, 3, 255},
		{2, 2, 255},
		{4, 2, 255},
		{2, 4, 255},
		{1, 1, 0},
		{5, 3, 0},
		{3, 5, 0},
	}
	for _, tt := range tests {
		if got := px(out, tt.x, tt.y); got[0] != tt.want || got[3] != 255 {
			t.Errorf("pixel (%d,%d) = %v, want red %d", tt.x, tt.y, got, tt.want)
		}
	}
}
