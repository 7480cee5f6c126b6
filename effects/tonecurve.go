package effects

import (
	"fmt"
	"path"

	"github.com/gogpu/gpuimage"
	"github.com/gogpu/gpuimage/curve"
)

// CurveExtension is appended to curve resource names without an extension.
const CurveExtension = ".curve"

// ToneCurve maps every color channel through a 256x1 lookup texture bound
// as the secondary input. Alpha passes through.
func ToneCurve() gpuimage.Effect {
	return gpuimage.Effect{
		Name:   "ToneCurve",
		Inputs: 2,
		Fragment: `fn lut(v: f32) -> vec4<f32> {
    let u = (clamp(v, 0.0, 1.0) * 255.0 + 0.5) / 256.0;
    return textureSampleLevel(inputTexture2, inputSampler, vec2<f32>(u, 0.5), 0.0);
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let c = textureSampleLevel(inputTexture, inputSampler, in.uv, 0.0);
    return vec4<f32>(lut(c.r).r, lut(c.g).g, lut(c.b).b, c.a);
}
`,
		Kernel: func(f *gpuimage.Fragment) gpuimage.Vec4 {
			c := f.Sample(0, f.Coord)
			for i := 0; i < 3; i++ {
				u := (gpuimage.Clamp(c[i], 0, 1)*255 + 0.5) / 256
				c[i] = f.Sample(1, gpuimage.Vec2{u, 0.5})[i]
			}
			return c
		},
	}
}

// CurveLUT renders a curve set into the lookup texture ToneCurve samples.
func CurveLUT(s *curve.Set) *gpuimage.Pixmap {
	t := s.Table()
	data := make([]uint8, 256*4)
	for i := 0; i < 256; i++ {
		data[i*4+0] = t[0][i]
		data[i*4+1] = t[1][i]
		data[i*4+2] = t[2][i]
		data[i*4+3] = 255
	}
	pm, _ := gpuimage.NewPixmapFromData(256, 1, data)
	return pm
}

// NewToneCurve returns a tone curve filter for s.
func NewToneCurve(s *curve.Set) *gpuimage.Filter {
	return gpuimage.NewTwoInputFilter(ToneCurve(), CurveLUT(s))
}

// SetCurves returns the command that swaps the curves of a tone curve
// filter.
func SetCurves(f *gpuimage.Filter, s *curve.Set) gpuimage.Command {
	return gpuimage.SetSecondary{Filter: f, Image: CurveLUT(s)}
}

// LoadCurves reads a curve set from res. Names without an extension get
// CurveExtension.
func LoadCurves(res gpuimage.Resources, name string) (*curve.Set, error) {
	if path.Ext(name) == "" {
		name += CurveExtension
	}
	f, err := res.Open(name)
	if err != nil {
		return nil, fmt.Errorf("effects: open curve %s: %w", name, err)
	}
	defer f.Close()
	s, err := curve.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("effects: parse curve %s: %w", name, err)
	}
	return s, nil
}
