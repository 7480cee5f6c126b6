// Package config loads filter presets for the gpuimage command.
//
// A preset names an input image, an output path and an ordered chain of
// registry filters. It is written in TOML or YAML:
//
//	input = "photo.jpg"
//	output = "photo-toon.png"
//	rotation = 90
//
//	[[filters]]
//	name = "Toon"
//	adjust = 40
//
//	[[filters]]
//	name = "Texture_12"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/gpuimage"
)

// Format is a preset file syntax.
type Format uint8

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// ErrUnknownFormat is returned for preset files whose extension is not
// .toml, .yaml or .yml.
var ErrUnknownFormat = errors.New("config: unknown preset format")

// FormatOf picks the syntax from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Step is one entry of the filter chain.
type Step struct {
	// Name is a registry entry name, matched case-insensitively.
	Name string `toml:"name" yaml:"name"`
	// Adjust is the adjuster percentage, 0 to 100. Nil keeps the filter's
	// defaults.
	Adjust *float32 `toml:"adjust,omitempty" yaml:"adjust,omitempty"`
}

// Preset describes one filter run.
type Preset struct {
	Input  string `toml:"input" yaml:"input"`
	Output string `toml:"output" yaml:"output"`

	// Backend is a registered device name. Empty selects the default.
	Backend string `toml:"backend,omitempty" yaml:"backend,omitempty"`
	// Resources is the directory holding curve files and overlay textures.
	Resources string `toml:"resources,omitempty" yaml:"resources,omitempty"`

	// Width and Height pre-scale the input. Zero keeps the source size on
	// that axis, or preserves the aspect ratio when the other is set.
	Width  int `toml:"width,omitempty" yaml:"width,omitempty"`
	Height int `toml:"height,omitempty" yaml:"height,omitempty"`

	Rotation       int    `toml:"rotation,omitempty" yaml:"rotation,omitempty"`
	FlipHorizontal bool   `toml:"flip_horizontal,omitempty" yaml:"flip_horizontal,omitempty"`
	FlipVertical   bool   `toml:"flip_vertical,omitempty" yaml:"flip_vertical,omitempty"`
	Background     string `toml:"background,omitempty" yaml:"background,omitempty"`

	Filters []Step `toml:"filters" yaml:"filters"`
}

// Parse decodes a preset. Unknown keys are errors.
func Parse(data []byte, format Format) (*Preset, error) {
	var p Preset
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("config: parse toml: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	return &p, nil
}

// Load reads and validates the preset at path. Relative input, output and
// resource paths are resolved against the preset's directory.
func Load(path string) (*Preset, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	p, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.resolve(filepath.Dir(path))
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func (p *Preset) resolve(dir string) {
	abs := func(s string) string {
		if s == "" || filepath.IsAbs(s) {
			return s
		}
		return filepath.Join(dir, s)
	}
	p.Input = abs(p.Input)
	p.Output = abs(p.Output)
	p.Resources = abs(p.Resources)
}

// Validate reports the first inconsistency in p.
func (p *Preset) Validate() error {
	if p.Input == "" {
		return errors.New("config: missing input")
	}
	if p.Output == "" {
		return errors.New("config: missing output")
	}
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("config: negative size %dx%d", p.Width, p.Height)
	}
	if _, err := gpuimage.ParseRotation(p.Rotation); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if len(p.Filters) == 0 {
		return errors.New("config: empty filter chain")
	}
	for i, s := range p.Filters {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("config: filter %d has no name", i)
		}
		if s.Adjust != nil && (*s.Adjust < 0 || *s.Adjust > 100) {
			return fmt.Errorf("config: filter %d (%s) adjust %v outside 0..100", i, s.Name, *s.Adjust)
		}
	}
	return nil
}

// Orientation returns the rotation and flips to apply to the input.
func (p *Preset) Orientation() (rot gpuimage.Rotation, flipHorizontal, flipVertical bool) {
	rot, _ = gpuimage.ParseRotation(p.Rotation)
	return rot, p.FlipHorizontal, p.FlipVertical
}

// BackgroundColor returns the clear color, opaque black when unset.
func (p *Preset) BackgroundColor() gpuimage.RGBA {
	if p.Background == "" {
		return gpuimage.Black
	}
	return gpuimage.Hex(p.Background)
}
