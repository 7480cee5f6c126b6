package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"

	"github.com/gogpu/gpuimage/internal/config"
)

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	resources := fs.String("resources", "", "directory with curve files and overlay textures")
	_ = fs.Parse(args)

	reg := newRegistry(*resources)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tADJUSTS\tRANGE")
	for i, name := range reg.Names() {
		a, ok := reg.AdjusterAt(i)
		if !ok {
			fmt.Fprintf(w, "%d\t%s\t-\t-\n", i, name)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%g..%g\n", i, name, a.Param, a.Lo, a.Hi)
	}
	return w.Flush()
}

func runApply(l *log.Logger, args []string) error {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	var (
		in         = fs.String("in", "", "input image")
		out        = fs.String("out", "", "output image (.png, .jpg or .bmp)")
		filters    = fs.String("filter", "", "comma-separated registry names, applied in order")
		adjust     = fs.Float64("adjust", -1, "adjuster percentage 0..100 for every filter; negative keeps defaults")
		backend    = fs.String("backend", "", "device backend (cpu, wgpu); empty picks the best available")
		resources  = fs.String("resources", "", "directory with curve files and overlay textures")
		width      = fs.Int("width", 0, "pre-scale width, 0 keeps the aspect ratio")
		height     = fs.Int("height", 0, "pre-scale height, 0 keeps the aspect ratio")
		rotation   = fs.Int("rotate", 0, "clockwise rotation in degrees (0, 90, 180, 270)")
		flipH      = fs.Bool("fliph", false, "flip horizontally")
		flipV      = fs.Bool("flipv", false, "flip vertically")
		background = fs.String("background", "", "clear color as hex, default opaque black")
	)
	_ = fs.Parse(args)

	p := &config.Preset{
		Input:          *in,
		Output:         *out,
		Backend:        *backend,
		Resources:      *resources,
		Width:          *width,
		Height:         *height,
		Rotation:       *rotation,
		FlipHorizontal: *flipH,
		FlipVertical:   *flipV,
		Background:     *background,
	}
	for _, name := range strings.Split(*filters, ",") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		step := config.Step{Name: name}
		if *adjust >= 0 {
			v := float32(*adjust)
			step.Adjust = &v
		}
		p.Filters = append(p.Filters, step)
	}
	if err := p.Validate(); err != nil {
		return err
	}

	s, err := newSession(l, p)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Render()
}

func runPreset(l *log.Logger, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	watch := fs.Bool("watch", false, "re-render whenever the preset file changes")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("run: want one preset file, got %d", fs.NArg())
	}
	path := fs.Arg(0)

	p, err := config.Load(path)
	if err != nil {
		return err
	}
	s, err := newSession(l, p)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Render(); err != nil {
		return err
	}
	if !*watch {
		return nil
	}
	return s.Watch(path)
}
