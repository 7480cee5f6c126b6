package curve

import "math"

// Spline is a natural cubic spline through control points.
type Spline []Point

// second returns the second derivatives at each point for a natural
// spline: zero at both ends, tridiagonal solve in between.
func (s Spline) second() []float64 {
	n := len(s)
	y2 := make([]float64, n)
	if n < 3 {
		return y2
	}
	u := make([]float64, n)
	for i := 1; i < n-1; i++ {
		sig := (s[i].X - s[i-1].X) / (s[i+1].X - s[i-1].X)
		p := sig*y2[i-1] + 2
		y2[i] = (sig - 1) / p
		d := (s[i+1].Y-s[i].Y)/(s[i+1].X-s[i].X) - (s[i].Y-s[i-1].Y)/(s[i].X-s[i-1].X)
		u[i] = (6*d/(s[i+1].X-s[i-1].X) - sig*u[i-1]) / p
	}
	y2[n-1] = 0
	for k := n - 2; k >= 0; k-- {
		y2[k] = y2[k]*y2[k+1] + u[k]
	}
	return y2
}

// Eval evaluates the spline at x. Outside the control points the curve
// holds the end values. An empty spline is the identity.
func (s Spline) Eval(x float64) float64 {
	return s.eval(x, s.second())
}

func (s Spline) eval(x float64, y2 []float64) float64 {
	switch {
	case len(s) == 0:
		return x
	case len(s) == 1:
		return s[0].Y
	case x <= s[0].X:
		return s[0].Y
	case x >= s[len(s)-1].X:
		return s[len(s)-1].Y
	}
	lo, hi := 0, len(s)-1
	for hi-lo > 1 {
		m := (lo + hi) / 2
		if s[m].X > x {
			hi = m
		} else {
			lo = m
		}
	}
	h := s[hi].X - s[lo].X
	a := (s[hi].X - x) / h
	b := (x - s[lo].X) / h
	return a*s[lo].Y + b*s[hi].Y + ((a*a*a-a)*y2[lo]+(b*b*b-b)*y2[hi])*h*h/6
}

// Table samples the spline at i/255 and quantizes to 8 bits, clamping the
// overshoot a cubic can produce.
func (s Spline) Table() [256]uint8 {
	y2 := s.second()
	var t [256]uint8
	for i := range t {
		v := s.eval(float64(i)/255, y2)
		t[i] = uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255))
	}
	return t
}
