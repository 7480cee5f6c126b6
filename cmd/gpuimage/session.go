package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/gpuimage"
	"github.com/gogpu/gpuimage/backend"
	"github.com/gogpu/gpuimage/effects"
	"github.com/gogpu/gpuimage/internal/config"
)

func newRegistry(dir string) *gpuimage.Registry {
	reg := gpuimage.NewRegistry()
	var res gpuimage.Resources
	if dir != "" {
		res = gpuimage.DirResources{FS: os.DirFS(dir)}
	}
	effects.Catalog(reg, res)
	return reg
}

func openDevice(name string) (backend.Device, error) {
	if name == "" {
		return backend.Default()
	}
	return backend.Open(name)
}

// session renders one preset and, in watch mode, re-renders it as the
// preset changes. The main goroutine is the render context.
type session struct {
	log    *log.Logger
	dev    backend.Device
	reg    *gpuimage.Registry
	r      *gpuimage.Renderer
	preset *config.Preset
}

func newSession(l *log.Logger, p *config.Preset) (*session, error) {
	dev, err := openDevice(p.Backend)
	if err != nil {
		return nil, err
	}
	l.Info("device ready", "backend", dev.Name())

	rot, fh, fv := p.Orientation()
	s := &session{
		log: l,
		dev: dev,
		reg: newRegistry(p.Resources),
		r: gpuimage.NewRenderer(dev,
			gpuimage.WithRotation(rot, fh, fv),
			gpuimage.WithBackground(p.BackgroundColor()),
		),
	}
	if err := s.load(p); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// load queues the commands that turn the current state into p.
func (s *session) load(p *config.Preset) error {
	old := s.preset
	if old == nil || old.Resources != p.Resources {
		s.reg = newRegistry(p.Resources)
	}
	if old == nil || old.Input != p.Input || old.Width != p.Width || old.Height != p.Height {
		src, err := loadSource(p)
		if err != nil {
			return err
		}
		s.r.Submit(gpuimage.SetImage{Image: src})
	}
	chain, err := buildChain(s.reg, p.Filters)
	if err != nil {
		return err
	}
	rot, fh, fv := p.Orientation()
	s.r.Submit(gpuimage.Batch{
		gpuimage.SetRotation{Rotation: rot, FlipHorizontal: fh, FlipVertical: fv},
		gpuimage.SetBackground{Color: p.BackgroundColor()},
		gpuimage.SetFilter{Filter: chain},
	})
	if old != nil && old.Backend != p.Backend {
		s.log.Warn("backend change needs a restart", "using", s.dev.Name(), "requested", p.Backend)
	}
	s.preset = p
	return nil
}

// Render draws one frame and writes it to the preset's output.
func (s *session) Render() error {
	start := time.Now()
	out, err := s.r.Snapshot()
	if err != nil {
		return err
	}
	if err := save(s.preset.Output, out); err != nil {
		return err
	}
	s.log.Info("wrote", "file", s.preset.Output,
		"size", fmt.Sprintf("%dx%d", out.Width(), out.Height()),
		"filter", s.r.Filter().Name(),
		"took", time.Since(start).Round(time.Millisecond))
	return nil
}

// Watch re-renders until interrupted. Editors often replace files, so the
// preset's directory is watched rather than the file itself.
func (s *session) Watch(path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	target := filepath.Clean(path)
	var debounce <-chan time.Time
	s.log.Info("watching", "preset", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Op.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			debounce = time.After(100 * time.Millisecond)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Error("watch", "err", err)
		case <-debounce:
			debounce = nil
			s.reload(path)
		}
	}
}

func (s *session) reload(path string) {
	p, err := config.Load(path)
	if err != nil {
		s.log.Error("preset rejected", "err", err)
		return
	}
	if err := s.load(p); err != nil {
		s.log.Error("preset not applied", "err", err)
		return
	}
	if err := s.Render(); err != nil {
		s.log.Error("render", "err", err)
	}
}

func (s *session) Close() {
	if s.r != nil {
		s.r.Close()
	}
	s.dev.Close()
}

// buildChain instantiates the registry entries of steps and joins them into
// one pipeline when there is more than one.
func buildChain(reg *gpuimage.Registry, steps []config.Step) (gpuimage.Renderable, error) {
	passes := make([]gpuimage.Renderable, 0, len(steps))
	names := make([]string, 0, len(steps))
	for _, step := range steps {
		i, ok := reg.Lookup(step.Name)
		if !ok {
			return nil, fmt.Errorf("unknown filter %q", step.Name)
		}
		f, ok := reg.Instantiate(i)
		if !ok {
			return nil, fmt.Errorf("filter %q is not available (missing resources?)", step.Name)
		}
		if step.Adjust != nil && !reg.Adjust(i, f, *step.Adjust) {
			gpuimage.Logger().Warn("filter has no adjuster", "filter", step.Name)
		}
		passes = append(passes, f)
		names = append(names, f.Name())
	}
	if len(passes) == 1 {
		return passes[0], nil
	}
	return gpuimage.NewPipeline(strings.Join(names, "+"), passes...), nil
}

// scaledSize fills a zero dimension from the source aspect ratio.
func scaledSize(srcW, srcH, w, h int) (int, int) {
	switch {
	case w == 0 && h == 0:
		return srcW, srcH
	case w == 0:
		w = max(1, srcW*h/srcH)
	case h == 0:
		h = max(1, srcH*w/srcW)
	}
	return w, h
}

func loadSource(p *config.Preset) (*gpuimage.Pixmap, error) {
	img, err := imgio.Open(p.Input)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", p.Input, err)
	}
	b := img.Bounds()
	w, h := scaledSize(b.Dx(), b.Dy(), p.Width, p.Height)
	var rgba *image.RGBA
	if w != b.Dx() || h != b.Dy() {
		rgba = transform.Resize(img, w, h, transform.Linear)
	} else {
		rgba = clone.AsRGBA(img)
	}
	return gpuimage.FromImage(rgba), nil
}

func save(path string, pix *gpuimage.Pixmap) error {
	var enc imgio.Encoder
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		enc = imgio.PNGEncoder()
	case ".jpg", ".jpeg":
		enc = imgio.JPEGEncoder(95)
	case ".bmp":
		enc = imgio.BMPEncoder()
	default:
		return fmt.Errorf("save %s: unsupported extension", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return imgio.Save(path, pix.ToImage(), enc)
}
