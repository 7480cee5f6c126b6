package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gpuimage"
)

const tomlPreset = `
input = "in.png"
output = "out/result.png"
backend = "cpu"
rotation = 270
flip_vertical = true
background = "#ff0000"

[[filters]]
name = "Toon"
adjust = 40.0

[[filters]]
name = "Sepia"
`

const yamlPreset = `
input: in.png
output: out/result.png
backend: cpu
rotation: 270
flip_vertical: true
background: "#ff0000"
filters:
  - name: Toon
    adjust: 40
  - name: Sepia
`

func checkPreset(t *testing.T, p *Preset) {
	t.Helper()
	if p.Input != "in.png" || p.Output != "out/result.png" || p.Backend != "cpu" {
		t.Errorf("paths = %q %q %q", p.Input, p.Output, p.Backend)
	}
	rot, fh, fv := p.Orientation()
	if rot != gpuimage.Rotate270 || fh || !fv {
		t.Errorf("Orientation() = %v %v %v, want 270 false true", rot, fh, fv)
	}
	if got := p.BackgroundColor(); got != gpuimage.RGB(1, 0, 0) {
		t.Errorf("BackgroundColor() = %v, want red", got)
	}
	if len(p.Filters) != 2 {
		t.Fatalf("len(Filters) = %d, want 2", len(p.Filters))
	}
	if p.Filters[0].Name != "Toon" || p.Filters[0].Adjust == nil || *p.Filters[0].Adjust != 40 {
		t.Errorf("Filters[0] = %+v", p.Filters[0])
	}
	if p.Filters[1].Name != "Sepia" || p.Filters[1].Adjust != nil {
		t.Errorf("Filters[1] = %+v", p.Filters[1])
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"toml", tomlPreset, FormatTOML},
		{"yaml", yamlPreset, FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			checkPreset(t, p)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("input = \"a\"\ncolour = 1\n"), FormatTOML); err == nil {
		t.Error("toml: unknown key accepted")
	}
	if _, err := Parse([]byte("input: a\ncolour: 1\n"), FormatYAML); err == nil {
		t.Error("yaml: unknown key accepted")
	}
	if _, err := Parse(nil, Format(7)); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Parse(Format(7)) error = %v, want ErrUnknownFormat", err)
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.toml", FormatTOML, false},
		{"dir/a.YAML", FormatYAML, false},
		{"a.yml", FormatYAML, false},
		{"a.json", 0, true},
		{"a", 0, true},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatOf(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("FormatOf(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	adj := func(v float32) *float32 { return &v }
	valid := func() Preset {
		return Preset{Input: "a.png", Output: "b.png", Filters: []Step{{Name: "Sepia"}}}
	}
	tests := []struct {
		name    string
		mutate  func(p *Preset)
		wantErr bool
	}{
		{"valid", func(*Preset) {}, false},
		{"no input", func(p *Preset) { p.Input = "" }, true},
		{"no output", func(p *Preset) { p.Output = "" }, true},
		{"negative width", func(p *Preset) { p.Width = -1 }, true},
		{"bad rotation", func(p *Preset) { p.Rotation = 45 }, true},
		{"negative rotation", func(p *Preset) { p.Rotation = -90 }, false},
		{"empty chain", func(p *Preset) { p.Filters = nil }, true},
		{"blank name", func(p *Preset) { p.Filters[0].Name = "  " }, true},
		{"adjust 100", func(p *Preset) { p.Filters[0].Adjust = adj(100) }, false},
		{"adjust above range", func(p *Preset) { p.Filters[0].Adjust = adj(101) }, true},
		{"adjust below range", func(p *Preset) { p.Filters[0].Adjust = adj(-1) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preset.toml")
	data := "input = \"in.png\"\noutput = \"/abs/out.png\"\nresources = \"assets\"\n[[filters]]\nname = \"Sepia\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := filepath.Join(dir, "in.png"); p.Input != want {
		t.Errorf("Input = %q, want %q", p.Input, want)
	}
	if p.Output != "/abs/out.png" {
		t.Errorf("Output = %q, want /abs/out.png", p.Output)
	}
	if want := filepath.Join(dir, "assets"); p.Resources != want {
		t.Errorf("Resources = %q, want %q", p.Resources, want)
	}
	if got := p.BackgroundColor(); got != gpuimage.Black {
		t.Errorf("BackgroundColor() = %v, want black", got)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want ErrNotExist", err)
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("input: a.png\noutput: b.png\nfilters: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load(empty chain) succeeded")
	}
	if _, err := Load(filepath.Join(dir, "preset.ini")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load(.ini) error = %v, want ErrUnknownFormat", err)
	}
}
