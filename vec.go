package gpuimage

import "github.com/chewxy/math32"

// Vector helpers used by fragment kernels. They mirror the WGSL built-ins of
// the same names so a kernel reads like its shader.

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{v[0] + w[0], v[1] + w[1]}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{v[0] - w[0], v[1] - w[1]}
}

// Mul returns the component-wise product.
func (v Vec2) Mul(w Vec2) Vec2 {
	return Vec2{v[0] * w[0], v[1] * w[1]}
}

// Scale returns the vector scaled by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(w Vec2) float32 {
	return v[0]*w[0] + v[1]*w[1]
}

// Length returns the Euclidean length.
func (v Vec2) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Distance returns the distance between two points.
func (v Vec2) Distance(w Vec2) float32 {
	return v.Sub(w).Length()
}

// Add returns the component-wise sum.
func (v Vec4) Add(w Vec4) Vec4 {
	return Vec4{v[0] + w[0], v[1] + w[1], v[2] + w[2], v[3] + w[3]}
}

// Sub returns the component-wise difference.
func (v Vec4) Sub(w Vec4) Vec4 {
	return Vec4{v[0] - w[0], v[1] - w[1], v[2] - w[2], v[3] - w[3]}
}

// Mul returns the component-wise product.
func (v Vec4) Mul(w Vec4) Vec4 {
	return Vec4{v[0] * w[0], v[1] * w[1], v[2] * w[2], v[3] * w[3]}
}

// Scale returns every component scaled by s.
func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}

// RGB returns the color components.
func (v Vec4) RGB() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// WithRGB returns v with its color components replaced.
func (v Vec4) WithRGB(c Vec3) Vec4 {
	return Vec4{c[0], c[1], c[2], v[3]}
}

// Clamp01 clamps every component to [0, 1].
func (v Vec4) Clamp01() Vec4 {
	for i := range v {
		v[i] = Clamp(v[i], 0, 1)
	}
	return v
}

// Mix is the WGSL mix: a*(1-t) + b*t.
func (v Vec4) Mix(w Vec4, t float32) Vec4 {
	return v.Scale(1 - t).Add(w.Scale(t))
}

// Dot returns the dot product.
func (v Vec3) Dot(w Vec3) float32 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// Luminance weights used by grayscale-style effects.
var Luminance = Vec3{0.2125, 0.7154, 0.0721}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	return math32.Min(math32.Max(x, lo), hi)
}

// Smoothstep is the WGSL smoothstep.
func Smoothstep(edge0, edge1, x float32) float32 {
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Step is the WGSL step: 0 when x < edge, 1 otherwise.
func Step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}
