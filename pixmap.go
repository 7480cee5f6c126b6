package gpuimage

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Pixmap is a rectangular RGBA8 pixel buffer with straight (non-premultiplied)
// alpha. It is the exchange format between the host and the engine: filter
// inputs, secondary textures and read-back results are all Pixmaps.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA, 4 bytes per pixel, rows top to bottom
}

// NewPixmap creates a transparent pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// NewPixmapFromData wraps existing RGBA data. It returns ErrInvalidSize when
// len(data) does not equal width*height*4.
func NewPixmapFromData(width, height int, data []uint8) (*Pixmap, error) {
	if width <= 0 || height <= 0 || len(data) != width*height*4 {
		return nil, ErrInvalidSize
	}
	return &Pixmap{width: width, height: height, data: data}, nil
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// Empty reports whether the pixmap holds no pixels.
func (p *Pixmap) Empty() bool {
	return p == nil || p.width == 0 || p.height == 0
}

// SetPixel sets the color of a single pixel. Out-of-range writes are ignored.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = to8(c.R)
	p.data[i+1] = to8(c.G)
	p.data[i+2] = to8(c.B)
	p.data[i+3] = to8(c.A)
}

// GetPixel returns the color of a single pixel, or Transparent outside the
// pixmap.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	return RGBA{
		R: float64(p.data[i+0]) / 255,
		G: float64(p.data[i+1]) / 255,
		B: float64(p.data[i+2]) / 255,
		A: float64(p.data[i+3]) / 255,
	}
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c RGBA) {
	r, g, b, a := to8(c.R), to8(c.G), to8(c.B), to8(c.A)
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	data := make([]uint8, len(p.data))
	copy(data, p.data)
	return &Pixmap{width: p.width, height: p.height, data: data}
}

// ToImage converts the pixmap to an image.NRGBA sharing no memory with p.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from any image.
func FromImage(img image.Image) *Pixmap {
	b := img.Bounds()
	pm := NewPixmap(b.Dx(), b.Dy())
	if n, ok := img.(*image.NRGBA); ok && n.Stride == b.Dx()*4 {
		copy(pm.data, n.Pix[n.PixOffset(b.Min.X, b.Min.Y):])
		return pm
	}
	dst := &image.NRGBA{Pix: pm.data, Stride: pm.width * 4, Rect: image.Rect(0, 0, pm.width, pm.height)}
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return pm
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.NRGBA{}
	}
	i := (y*p.width + x) * 4
	return color.NRGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
