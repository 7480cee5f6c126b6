package curve

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	src := `# boost blue shadows
rgb:   0,0 0.5,0.5 1,1

Blue:  0,0.1 1,1
`
	s, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := s.Points(RGB); len(got) != 3 || got[1] != (Point{0.5, 0.5}) {
		t.Errorf("rgb points = %v", got)
	}
	if got := s.Points(Blue); len(got) != 2 || got[0] != (Point{0, 0.1}) {
		t.Errorf("blue points = %v", got)
	}
	if got := s.Points(Red); len(got) != 2 || got[1] != (Point{1, 1}) {
		t.Errorf("red points = %v, want identity", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no colon", "rgb 0,0 1,1"},
		{"unknown channel", "alpha: 0,0 1,1"},
		{"repeated channel", "red: 0,0 1,1\nred: 0,0 1,1"},
		{"bad point", "red: 0;0 1,1"},
		{"bad number", "red: 0,x 1,1"},
		{"not increasing", "red: 0,0 0.5,0.2 0.5,0.3"},
		{"out of range", "red: 0,0 1,1.5"},
		{"empty", "green:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("Parse(%q) = %v, want ErrSyntax", tt.src, err)
			}
		})
	}
}

func TestWriteToRoundTrip(t *testing.T) {
	s := Identity()
	if err := s.SetPoints(Blue, []Point{{0, 0}, {0.5, 0.5}, {1, 0.75}}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	back, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse(WriteTo): %v", err)
	}
	if back.Table() != s.Table() {
		t.Error("round-tripped table differs")
	}
}

func TestSetPointsRejectsInvalid(t *testing.T) {
	s := Identity()
	if err := s.SetPoints(Red, []Point{{0.5, 0}, {0.2, 1}}); err == nil {
		t.Error("SetPoints accepted decreasing x")
	}
	if err := s.SetPoints(Channel(7), []Point{{0, 0}}); err == nil {
		t.Error("SetPoints accepted an invalid channel")
	}
}

func TestIdentityTable(t *testing.T) {
	tab := Identity().Table()
	for c := 0; c < 4; c++ {
		for i := 0; i < 256; i++ {
			if tab[c][i] != uint8(i) {
				t.Fatalf("table[%d][%d] = %d, want %d", c, i, tab[c][i], i)
			}
		}
	}
}

func TestTableCompositeAfterChannel(t *testing.T) {
	s := Identity()
	// Invert red, then invert everything: red is back to identity while
	// green and blue are inverted.
	_ = s.SetPoints(Red, []Point{{0, 1}, {1, 0}})
	_ = s.SetPoints(RGB, []Point{{0, 1}, {1, 0}})
	tab := s.Table()
	for _, i := range []int{0, 37, 128, 255} {
		if tab[0][i] != uint8(i) {
			t.Errorf("red[%d] = %d, want %d", i, tab[0][i], i)
		}
		if tab[1][i] != uint8(255-i) {
			t.Errorf("green[%d] = %d, want %d", i, tab[1][i], 255-i)
		}
	}
}

func TestSplineInterpolates(t *testing.T) {
	sp := Spline{{0, 0}, {0.25, 0.5}, {0.75, 0.6}, {1, 1}}
	for _, p := range sp {
		if got := sp.Eval(p.X); math.Abs(got-p.Y) > 1e-12 {
			t.Errorf("Eval(%v) = %v, want %v", p.X, got, p.Y)
		}
	}
	if got := (Spline{{0.2, 0.3}, {0.8, 0.9}}).Eval(0.5); math.Abs(got-0.6) > 1e-12 {
		t.Errorf("two-point spline Eval(0.5) = %v, want 0.6", got)
	}
	if got := (Spline{{0.2, 0.3}, {0.8, 0.9}}).Eval(0.1); got != 0.3 {
		t.Errorf("Eval below range = %v, want 0.3", got)
	}
}
