package effects

import (
	"testing"

	"github.com/gogpu/gpuimage"
)

func TestColorEffects(t *testing.T) {
	src := bytesRGB(3, 2, func(x, y int) [3]uint8 {
		return [3]uint8{255, 51, 102}
	})
	tests := []struct {
		name   string
		effect gpuimage.Effect
		want   [4]uint8
	}{
		{"invert", ColorInvert(), [4]uint8{0, 204, 153, 255}},
		// 0.2125 + 0.7154*0.2 + 0.0721*0.4
		{"grayscale", Grayscale(), [4]uint8{98, 98, 98, 255}},
		{"sepia", Sepia(), [4]uint8{141, 118, 94, 255}},
		{"brightness 0", Brightness(), [4]uint8{255, 51, 102, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := apply(t, newDevice(t), gpuimage.NewFilter(tt.effect), src)
			for _, p := range [][2]int{{0, 0}, {2, 1}} {
				if got := px(out, p[0], p[1]); got != tt.want {
					t.Errorf("pixel %v = %v, want %v", p, got, tt.want)
				}
			}
		})
	}
}

func TestSepiaOnGray(t *testing.T) {
	out := apply(t, newDevice(t), gpuimage.NewFilter(Sepia()), solid(2, 2, gpuimage.RGB(0.5, 0.5, 0.5)))
	// rows of SepiaMatrix sum to 1.2, 1.0 and 0.8.
	want := [4]uint8{154, 128, 102, 255}
	if got := px(out, 1, 1); got != want {
		t.Errorf("sepia(gray) = %v, want %v", got, want)
	}
}

func TestColorMatrixIntensity(t *testing.T) {
	f := gpuimage.NewFilter(ColorMatrix(SepiaMatrix, 0))
	src := pattern(4, 4)
	out := apply(t, newDevice(t), f, src)
	if !samePixels(out, src) {
		t.Error("ColorMatrix at intensity 0 changed the image")
	}
}

func TestBrightnessRange(t *testing.T) {
	f := gpuimage.NewFilter(Brightness())
	f.SetParameter(BrightnessParam, gpuimage.Float(0.2))
	f.SetParameter(BrightnessParam, gpuimage.Float(1.5))
	if v, _ := f.Value(BrightnessParam); v != gpuimage.Float(0.2) {
		t.Errorf("brightness = %v, want 0.2", v)
	}
	src := bytesRGB(1, 1, func(int, int) [3]uint8 { return [3]uint8{230, 0, 102} })
	out := apply(t, newDevice(t), f, src)
	want := [4]uint8{255, 51, 153, 255}
	if got := px(out, 0, 0); got != want {
		t.Errorf("brightness +0.2 = %v, want %v", got, want)
	}
}

func TestContrast(t *testing.T) {
	f := gpuimage.NewFilter(Contrast())
	f.SetParameter(ContrastParam, gpuimage.Float(1.5))
	f.SetParameter(ContrastParam, gpuimage.Float(-1))
	src := bytesRGB(1, 1, func(int, int) [3]uint8 { return [3]uint8{255, 100, 191} })
	out := apply(t, newDevice(t), f, src)
	// 255*((k/255-0.5)*1.5+0.5) = 1.5k - 63.75
	want := [4]uint8{255, 86, 223, 255}
	if got := px(out, 0, 0); got != want {
		t.Errorf("contrast 1.5 = %v, want %v", got, want)
	}
}

func TestPosterize(t *testing.T) {
	f := gpuimage.NewFilter(Posterize())
	f.SetParameter(ColorLevelsParam, gpuimage.Int(0))
	f.SetParameter(ColorLevelsParam, gpuimage.Int(2))
	src := bytesRGB(1, 1, func(int, int) [3]uint8 { return [3]uint8{60, 70, 200} })
	out := apply(t, newDevice(t), f, src)
	want := [4]uint8{0, 128, 255, 255}
	if got := px(out, 0, 0); got != want {
		t.Errorf("posterize 2 = %v, want %v", got, want)
	}
}

func TestFalseColor(t *testing.T) {
	dev := newDevice(t)
	black := apply(t, dev, gpuimage.NewFilter(FalseColor()), solid(1, 1, gpuimage.Black))
	if got, want := px(black, 0, 0), [4]uint8{0, 0, 128, 255}; got != want {
		t.Errorf("false color(black) = %v, want %v", got, want)
	}
	white := apply(t, dev, gpuimage.NewFilter(FalseColor()), solid(1, 1, gpuimage.White))
	if got, want := px(white, 0, 0), [4]uint8{255, 0, 0, 255}; got != want {
		t.Errorf("false color(white) = %v, want %v", got, want)
	}
}
