package cpu

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/gpuimage"
)

// texture is an RGBA8 image with straight alpha.
type texture struct {
	w, h  int
	pix   []uint8
	label string
}

func (t *texture) Width() int  { return t.w }
func (t *texture) Height() int { return t.h }

func (t *texture) texel(x, y int) gpuimage.Vec4 {
	x = min(max(x, 0), t.w-1)
	y = min(max(y, 0), t.h-1)
	i := (y*t.w + x) * 4
	return gpuimage.Vec4{
		float32(t.pix[i]) / 255,
		float32(t.pix[i+1]) / 255,
		float32(t.pix[i+2]) / 255,
		float32(t.pix[i+3]) / 255,
	}
}

// sampler filters a texture bilinearly with clamp-to-edge addressing.
type sampler struct {
	t *texture
}

func (s sampler) Size() (int, int) { return s.t.w, s.t.h }

// Sample reads uv, where texel centers sit at (i+0.5)/size.
func (s sampler) Sample(uv gpuimage.Vec2) gpuimage.Vec4 {
	if math32.IsNaN(uv[0]) || math32.IsNaN(uv[1]) {
		return gpuimage.Vec4{}
	}
	x := uv[0]*float32(s.t.w) - 0.5
	y := uv[1]*float32(s.t.h) - 0.5
	x0 := math32.Floor(x)
	y0 := math32.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)

	top := s.t.texel(ix, iy).Mix(s.t.texel(ix+1, iy), fx)
	bot := s.t.texel(ix, iy+1).Mix(s.t.texel(ix+1, iy+1), fx)
	return top.Mix(bot, fy)
}
