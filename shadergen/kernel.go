package shadergen

import "math"

// Epsilon is the weight below which a Gaussian sample is negligible. Radius
// stops at the last offset whose unnormalized weight reaches it.
const Epsilon = 1.0 / 256.0

// peakSigma is where the radius formula reaches its maximum. Beyond it the
// formula shrinks again, so larger sigmas reuse the peak.
var peakSigma = math.Exp(-0.5) / (Epsilon * math.Sqrt(2*math.Pi))

// Radius returns the sample radius needed for a blur of the given sigma in
// pixels: floor(sqrt(-2 sigma^2 ln(eps sqrt(2 pi sigma^2)))). It returns 0
// for non-positive sigma and never decreases as sigma grows.
func Radius(sigma float64) int {
	if !(sigma > 0) {
		return 0
	}
	sigma = math.Min(sigma, peakSigma)
	s2 := sigma * sigma
	v := -2 * s2 * math.Log(Epsilon*math.Sqrt(2*math.Pi*s2))
	if !(v > 0) {
		return 0
	}
	return int(math.Floor(math.Sqrt(v)))
}

// Weights returns the 2*radius+1 normalized Gaussian weights for offsets
// -radius..radius. The result is symmetric and sums to 1. A radius of 0
// yields [1].
func Weights(radius int, sigma float64) []float32 {
	if radius < 0 {
		radius = 0
	}
	if !(sigma > 0) {
		sigma = 1
	}
	half := make([]float64, radius+1)
	s2 := sigma * sigma
	norm := 1 / math.Sqrt(2*math.Pi*s2)
	var sum float64
	for i := range half {
		half[i] = norm * math.Exp(-float64(i*i)/(2*s2))
		if i == 0 {
			sum += half[i]
		} else {
			sum += 2 * half[i]
		}
	}
	out := make([]float32, 2*radius+1)
	for i := range out {
		o := i - radius
		if o < 0 {
			o = -o
		}
		out[i] = float32(half[o] / sum)
	}
	return out
}

// Offsets returns the sample offsets -radius..radius in texels.
func Offsets(radius int) []float32 {
	if radius < 0 {
		radius = 0
	}
	out := make([]float32, 2*radius+1)
	for i := range out {
		out[i] = float32(i - radius)
	}
	return out
}

// Kernel is a Gaussian kernel of a fixed radius and sigma.
type Kernel struct {
	Radius int
	Sigma  float64
}

// NewKernel returns the kernel whose radius Radius derives from sigma.
func NewKernel(sigma float64) Kernel {
	return Kernel{Radius: Radius(sigma), Sigma: sigma}
}

// Samples returns 2*Radius+1.
func (k Kernel) Samples() int { return 2*k.Radius + 1 }

// Weights returns the kernel weights.
func (k Kernel) Weights() []float32 { return Weights(k.Radius, k.Sigma) }

// Offsets returns the kernel offsets.
func (k Kernel) Offsets() []float32 { return Offsets(k.Radius) }
