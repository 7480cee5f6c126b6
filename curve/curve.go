// Package curve reads and writes tone curves and turns them into 8-bit
// lookup tables.
//
// A tone curve file holds one line per channel. Each line names the channel
// and lists x,y control points in [0,1] with strictly increasing x:
//
//	# warm highlights
//	rgb:   0,0 0.5,0.5 1,1
//	red:   0,0 0.5,0.6 1,1
//	blue:  0,0 1,0.85
//
// Missing channels default to the identity curve. Blank lines and lines
// starting with # are ignored.
package curve

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Channel selects one of the four curves of a Set.
type Channel int

const (
	// RGB is the composite curve applied after the per-channel curves.
	RGB Channel = iota
	Red
	Green
	Blue
)

var channelNames = [...]string{"rgb", "red", "green", "blue"}

func (c Channel) String() string {
	if c < RGB || c > Blue {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return channelNames[c]
}

// ParseChannel maps a channel name to a Channel.
func ParseChannel(name string) (Channel, bool) {
	for i, n := range channelNames {
		if strings.EqualFold(name, n) {
			return Channel(i), true
		}
	}
	return 0, false
}

// Point is one control point.
type Point struct {
	X, Y float64
}

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("curve: syntax error")

// Set holds the composite curve and the three channel curves.
type Set struct {
	points [4][]Point
}

// Identity returns a set whose curves all map x to x.
func Identity() *Set {
	s := &Set{}
	for i := range s.points {
		s.points[i] = []Point{{0, 0}, {1, 1}}
	}
	return s
}

// Points returns a copy of the control points of ch.
func (s *Set) Points(ch Channel) []Point {
	return append([]Point(nil), s.points[ch]...)
}

// SetPoints replaces the control points of ch. The points must lie in
// [0,1] with strictly increasing x.
func (s *Set) SetPoints(ch Channel, pts []Point) error {
	if ch < RGB || ch > Blue {
		return fmt.Errorf("curve: invalid channel %d", int(ch))
	}
	if err := validate(pts); err != nil {
		return fmt.Errorf("curve: %s: %w", ch, err)
	}
	s.points[ch] = append([]Point(nil), pts...)
	return nil
}

func validate(pts []Point) error {
	if len(pts) == 0 {
		return errors.New("no control points")
	}
	for i, p := range pts {
		if !(p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1) {
			return fmt.Errorf("point %d (%g,%g) outside [0,1]", i, p.X, p.Y)
		}
		if i > 0 && p.X <= pts[i-1].X {
			return fmt.Errorf("point %d: x %g not increasing", i, p.X)
		}
	}
	return nil
}

// Parse reads a curve set.
func Parse(r io.Reader) (*Set, error) {
	s := Identity()
	seen := [4]bool{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		name, rest, ok := strings.Cut(text, ":")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: missing ':'", ErrSyntax, line)
		}
		ch, ok := ParseChannel(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("%w: line %d: unknown channel %q", ErrSyntax, line, strings.TrimSpace(name))
		}
		if seen[ch] {
			return nil, fmt.Errorf("%w: line %d: channel %s repeated", ErrSyntax, line, ch)
		}
		seen[ch] = true
		pts, err := parsePoints(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, line, err)
		}
		if err := validate(pts); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, line, err)
		}
		s.points[ch] = pts
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("curve: read: %w", err)
	}
	return s, nil
}

func parsePoints(s string) ([]Point, error) {
	var pts []Point
	for _, field := range strings.Fields(s) {
		xs, ys, ok := strings.Cut(field, ",")
		if !ok {
			return nil, fmt.Errorf("point %q is not x,y", field)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", field, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", field, err)
		}
		pts = append(pts, Point{X: x, Y: y})
	}
	return pts, nil
}

// WriteTo writes the set in the format Parse reads.
func (s *Set) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	for ch, pts := range s.points {
		fmt.Fprintf(&b, "%s:", Channel(ch))
		for _, p := range pts {
			fmt.Fprintf(&b, " %s,%s", strconv.FormatFloat(p.X, 'g', -1, 64), strconv.FormatFloat(p.Y, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Table returns the lookup rows for red, green, blue and alpha. Each color
// row applies its channel curve and then the composite curve; the alpha row
// is the identity.
func (s *Set) Table() [4][256]uint8 {
	composite := Spline(s.points[RGB]).Table()
	var out [4][256]uint8
	for c := 0; c < 3; c++ {
		ch := Spline(s.points[Red+Channel(c)]).Table()
		for i := range ch {
			out[c][i] = composite[ch[i]]
		}
	}
	for i := range out[3] {
		out[3][i] = uint8(i)
	}
	return out
}
