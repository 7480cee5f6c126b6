package gpuimage

import "fmt"

// Rotation is a clockwise rotation of the source image in 90 degree steps.
type Rotation uint8

const (
	RotateNone Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

func (r Rotation) String() string {
	switch r {
	case RotateNone:
		return "0"
	case Rotate90:
		return "90"
	case Rotate180:
		return "180"
	case Rotate270:
		return "270"
	default:
		return fmt.Sprintf("Rotation(%d)", r)
	}
}

// ParseRotation converts degrees (0, 90, 180, 270) to a Rotation.
func ParseRotation(degrees int) (Rotation, error) {
	switch ((degrees % 360) + 360) % 360 {
	case 0:
		return RotateNone, nil
	case 90:
		return Rotate90, nil
	case 180:
		return Rotate180, nil
	case 270:
		return Rotate270, nil
	}
	return RotateNone, fmt.Errorf("gpuimage: rotation %d is not a multiple of 90", degrees)
}

// SwapsAxes reports whether the rotation exchanges width and height.
func (r Rotation) SwapsAxes() bool {
	return r == Rotate90 || r == Rotate270
}

// TexCoords holds the (u, v) texture coordinate at each corner of the
// target quad, in the order top-left, top-right, bottom-left, bottom-right.
type TexCoords [8]float32

// IdentityCoords maps the target one-to-one onto the texture.
var IdentityCoords = TexCoords{
	0, 0,
	1, 0,
	0, 1,
	1, 1,
}

// CoordsFor returns the quad coordinates for a rotation with optional flips.
// Flips apply in texture space after the rotation.
func CoordsFor(r Rotation, flipHorizontal, flipVertical bool) TexCoords {
	var c TexCoords
	switch r {
	case Rotate90:
		c = TexCoords{0, 1, 0, 0, 1, 1, 1, 0}
	case Rotate180:
		c = TexCoords{1, 1, 0, 1, 1, 0, 0, 0}
	case Rotate270:
		c = TexCoords{1, 0, 1, 1, 0, 0, 0, 1}
	default:
		c = IdentityCoords
	}
	for i := 0; i < len(c); i += 2 {
		if flipHorizontal {
			c[i] = 1 - c[i]
		}
		if flipVertical {
			c[i+1] = 1 - c[i+1]
		}
	}
	return c
}

// At interpolates the coordinate at normalized target position (s, t),
// where (0,0) is the top-left corner and (1,1) the bottom-right.
func (c TexCoords) At(s, t float32) Vec2 {
	topU := c[0] + (c[2]-c[0])*s
	topV := c[1] + (c[3]-c[1])*s
	botU := c[4] + (c[6]-c[4])*s
	botV := c[5] + (c[7]-c[5])*s
	return Vec2{topU + (botU-topU)*t, topV + (botV-topV)*t}
}
