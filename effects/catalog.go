package effects

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpuimage"
	"github.com/gogpu/gpuimage/curve"
)

// ErrNoResources is returned by catalog factories that need an asset when
// the catalog was built without a Resources provider.
var ErrNoResources = errors.New("effects: no resources configured")

// curvePresets maps catalog names to curve resources, in catalog order.
var curvePresets = []struct{ name, resource string }{
	{"Negative", "color_negative"},
	{"CrossRGB", "cross_process"},
	{"Darker", "darker"},
	{"AddContrast", "increase_contrast"},
	{"Lighter", "lighter"},
	{"LinearContrast", "linear_contrast"},
	{"MedContrast", "medium_contrast"},
	{"XRay", "negative"},
	{"StrongContrast", "strong_contrast"},
	{"CrossProcess", "crossprocess"},
	{"PurpleGreen", "purple_green"},
	{"Aqua", "aqua"},
	{"YellowRed", "yellow_red"},
	{"PureMemory", "pure_memory"},
	{"YellowBlue", "yellow_blue"},
	{"DarkBlue", "dark_blue"},
}

// lookupPresets maps catalog names to lookup image resources, in catalog
// order. The second "Nashville" entry carries the Amaro look.
var lookupPresets = []struct{ name, resource string }{
	{"Rise", "if_rise_lookup"},
	{"Hudson", "if_hudson_lookup"},
	{"Xproll", "if_xproll_lookup"},
	{"Sierra", "if_sierra_lookup"},
	{"Lomo", "if_lomo_lookup"},
	{"Earlybird", "if_earlybird_lookup"},
	{"Sutro", "if_sutro_lookup"},
	{"Toaster", "if_toaster_lookup"},
	{"Brannan", "if_brannan_lookup"},
	{"Inkwell", "if_inkwell_lookup"},
	{"Walden", "if_walden_lookup"},
	{"Hefe", "if_hefe_lookup"},
	{"Valencia", "if_valencia_lookup"},
	{"Nashville", "if_nashville_lookup"},
	{"1977", "if_1977_lookup"},
	{"Kelvin", "if_kelvin_lookup"},
	{"Nashville", "if_amaro_lookup"},
}

// BokehCount and TextureCount are the numbers of overlay entries.
const (
	BokehCount   = 27
	TextureCount = 41
)

// textureModes is the blend of each Texture_NN entry.
var textureModes = [TextureCount]BlendMode{
	HardLight, Dissolve, Multiply, Multiply, Multiply, Multiply, Multiply, Multiply, Multiply, HardLight,
	Multiply, Multiply, Multiply, Multiply, Multiply, Multiply, HardLight, Multiply, HardLight, Overlay,
	Multiply, Overlay, HardLight, Multiply, Overlay, Overlay, Overlay, Dissolve, HardLight, Multiply,
	Multiply, Multiply, HardLight, ColorBurn, Multiply, Multiply, Multiply, Multiply, Dissolve, Multiply,
	ColorBurn,
}

// TextureMode returns the blend of entry Texture_n, n starting at 1.
func TextureMode(n int) (BlendMode, bool) {
	if n < 1 || n > TextureCount {
		return 0, false
	}
	return textureModes[n-1], true
}

func adjust(param string, lo, hi float32) *gpuimage.Adjuster {
	return &gpuimage.Adjuster{Param: param, Lo: lo, Hi: hi}
}

// Catalog appends the stock filter list to reg. Entries that need assets
// resolve them from res when instantiated and are absent when the asset is
// missing or res is nil.
func Catalog(reg *gpuimage.Registry, res gpuimage.Resources) {
	reg.Register("ZoomBlur", single(ZoomBlur()), adjust(gpuimage.BlurSizeParam, 1, 20))
	reg.Register("Halftone", single(Halftone()), adjust(FractionalWidthParam, 0, 1))

	for _, p := range lookupPresets {
		reg.Register(p.name, lookupFactory(res, p.resource), adjust(IntensityParam, 0, 1))
	}

	for _, p := range curvePresets {
		reg.Register(p.name, curveFactory(res, p.resource), nil)
	}
	reg.Register("ToneCurve", func() (gpuimage.Renderable, error) {
		s := curve.Identity()
		err := s.SetPoints(curve.Blue, []curve.Point{{X: 0, Y: 0}, {X: 0.5, Y: 0.5}, {X: 1, Y: 0.75}})
		if err != nil {
			return nil, err
		}
		return NewToneCurve(s), nil
	}, nil)

	reg.Register("Sepia", single(Sepia()), nil)
	reg.Register("Sketch", func() (gpuimage.Renderable, error) { return NewSketch(), nil }, nil)
	reg.Register("Toon", single(Toon()), adjust(ThresholdParam, 0, 1))
	reg.Register("Pixelation", single(Pixelation()), adjust(PixelParam, 0.1, 20))
	reg.Register("CGA", single(CGA()), nil)
	reg.Register("Emboss", single(Emboss()), adjust(IntensityParam, 0, 4))
	reg.Register("Posterize", single(Posterize()),
		&gpuimage.Adjuster{Param: ColorLevelsParam, Lo: 0, Hi: 255, Integer: true})
	reg.Register("Dilation", func() (gpuimage.Renderable, error) {
		tp, err := NewDilation(3)
		if err != nil {
			return nil, err
		}
		return tp, nil
	}, nil)
	reg.Register("ColorInvert", single(ColorInvert()), nil)
	reg.Register("Grayscale", single(Grayscale()), nil)
	reg.Register("FalseColor", single(FalseColor()), nil)
	reg.Register("SobelEdge", func() (gpuimage.Renderable, error) { return NewSobelEdge(), nil },
		adjust(LineSizeParam, 1, 10))

	reg.Register("GaussianBlur", func() (gpuimage.Renderable, error) { return NewGaussianBlur(), nil },
		adjust(gpuimage.BlurSizeParam, 0, 4))
	reg.Register("GaussianBlurPosition", func() (gpuimage.Renderable, error) { return NewGaussianBlurPosition(), nil },
		adjust(BlurRadiusParam, 0, 1))
	reg.Register("Brightness", single(Brightness()), adjust(BrightnessParam, -1, 1))
	reg.Register("Contrast", single(Contrast()), adjust(ContrastParam, 0, 4))

	for i := 1; i <= BokehCount; i++ {
		reg.Register(fmt.Sprintf("Bokeh_%02d", i), overlayFactory(res, Screen, fmt.Sprintf("ic_bokeh_%02d", i)), nil)
	}
	for i, mode := range textureModes {
		reg.Register(fmt.Sprintf("Texture_%02d", i+1), overlayFactory(res, mode, fmt.Sprintf("ic_texture_%02d", i+1)), nil)
	}
}

func curveFactory(res gpuimage.Resources, resource string) gpuimage.Factory {
	return func() (gpuimage.Renderable, error) {
		if res == nil {
			return nil, ErrNoResources
		}
		s, err := LoadCurves(res, resource)
		if err != nil {
			return nil, err
		}
		return NewToneCurve(s), nil
	}
}

func lookupFactory(res gpuimage.Resources, image string) gpuimage.Factory {
	return func() (gpuimage.Renderable, error) {
		if res == nil {
			return nil, ErrNoResources
		}
		img, err := res.Image(image)
		if err != nil {
			return nil, err
		}
		f, err := NewColorLookup(img)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

func overlayFactory(res gpuimage.Resources, mode BlendMode, image string) gpuimage.Factory {
	return func() (gpuimage.Renderable, error) {
		if res == nil {
			return nil, ErrNoResources
		}
		img, err := res.Image(image)
		if err != nil {
			return nil, err
		}
		return NewBlend(mode, img), nil
	}
}
