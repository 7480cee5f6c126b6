package effects

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gogpu/gpuimage"
	"github.com/gogpu/gpuimage/curve"
)

func parseCurves(t *testing.T, src string) *curve.Set {
	t.Helper()
	s, err := curve.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("curve.Parse: %v", err)
	}
	return s
}

func TestCurveLUT(t *testing.T) {
	lut := CurveLUT(parseCurves(t, "rgb: 0,1 1,0\n"))
	if lut.Width() != 256 || lut.Height() != 1 {
		t.Fatalf("LUT = %dx%d, want 256x1", lut.Width(), lut.Height())
	}
	for _, i := range []int{0, 17, 128, 255} {
		if got := px(lut, i, 0); got != [4]uint8{255 - uint8(i), 255 - uint8(i), 255 - uint8(i), 255} {
			t.Errorf("LUT[%d] = %v, want inverted and opaque", i, got)
		}
	}
}

func TestToneCurveIdentity(t *testing.T) {
	src := pattern(8, 8)
	out := apply(t, newDevice(t), NewToneCurve(curve.Identity()), src)
	if !samePixels(out, src) {
		t.Errorf("identity curve changed %v to %v", px(src, 5, 2), px(out, 5, 2))
	}
}

func TestToneCurveInvert(t *testing.T) {
	src := pattern(8, 8)
	out := apply(t, newDevice(t), NewToneCurve(parseCurves(t, "rgb: 0,1 1,0\n")), src)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			s, o := px(src, x, y), px(out, x, y)
			want := [4]uint8{255 - s[0], 255 - s[1], 255 - s[2], 255}
			if o != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, o, want)
			}
		}
	}
}

func TestSetCurves(t *testing.T) {
	dev := newDevice(t)
	f := NewToneCurve(curve.Identity())
	r := gpuimage.NewRenderer(dev)
	defer r.Close()
	src := pattern(4, 4)
	r.Submit(gpuimage.SetImage{Image: src}, gpuimage.SetFilter{Filter: f})
	out, err := r.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if !samePixels(out, src) {
		t.Fatal("identity curve changed the image")
	}

	r.Submit(SetCurves(f, parseCurves(t, "rgb: 0,1 1,0\n")))
	out, err = r.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	s := px(src, 1, 1)
	if got, want := px(out, 1, 1), [4]uint8{255 - s[0], 255 - s[1], 255 - s[2], 255}; got != want {
		t.Errorf("after SetCurves = %v, want %v", got, want)
	}
}

func TestLoadCurves(t *testing.T) {
	res := gpuimage.DirResources{FS: fstest.MapFS{
		"curves/fade.curve": {Data: []byte("# fade\nrgb: 0,0.1 1,0.9\n")},
		"curves/bad.curve":  {Data: []byte("rgb: 1,1 0,0\n")},
	}}
	s, err := LoadCurves(res, "curves/fade")
	if err != nil {
		t.Fatalf("LoadCurves: %v", err)
	}
	if pts := s.Points(curve.RGB); len(pts) != 2 {
		t.Errorf("composite points = %v, want two", pts)
	}
	if _, err := LoadCurves(res, "curves/fade.curve"); err != nil {
		t.Errorf("LoadCurves with extension: %v", err)
	}
	if _, err := LoadCurves(res, "curves/missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing curve = %v, want fs.ErrNotExist", err)
	}
	if _, err := LoadCurves(res, "curves/bad"); !errors.Is(err, curve.ErrSyntax) {
		t.Errorf("bad curve = %v, want curve.ErrSyntax", err)
	}
}
