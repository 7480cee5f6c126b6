package cpu

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/gpuimage"
)

func TestCompileRejectsBadWGSL(t *testing.T) {
	d := New()
	defer d.Close()
	l := mustLayout(t)
	_, err := d.CompileProgram(gpuimage.ProgramDesc{
		Label:          "broken",
		VertexSource:   gpuimage.DefaultVertexShader,
		FragmentSource: gpuimage.FragmentPrelude(l, 1) + "@fragment fn fs_main( -> {",
		Layout:         l,
		Kernel:         passthroughKernel,
	})
	var ce *gpuimage.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("CompileProgram error = %v, want *CompileError", err)
	}
	if ce.Stage != gpuimage.StageFragment {
		t.Errorf("Stage = %v, want fragment", ce.Stage)
	}
	if d.LivePrograms() != 0 {
		t.Errorf("LivePrograms() = %d, want 0", d.LivePrograms())
	}
}

func TestCompileRequiresKernel(t *testing.T) {
	d := New(WithValidation(false))
	defer d.Close()
	_, err := d.CompileProgram(gpuimage.ProgramDesc{Label: "nokernel", Layout: mustLayout(t)})
	var ce *gpuimage.CompileError
	if !errors.As(err, &ce) || ce.Stage != gpuimage.StageLink {
		t.Errorf("CompileProgram error = %v, want link-stage CompileError", err)
	}
}

func TestPassthroughDrawIsExact(t *testing.T) {
	d := New()
	defer d.Close()
	h, l := compile(t, d, passthroughFragment, passthroughKernel)

	src := gradient(7, 5)
	in, err := d.UploadTexture(src, "in")
	if err != nil {
		t.Fatal(err)
	}
	out, _ := d.CreateTarget(7, 5, "out")
	err = d.Draw(&gpuimage.DrawCall{
		Program:  h,
		Inputs:   []gpuimage.Texture{in},
		Uniforms: gpuimage.NewUniformBlock(l).Bytes(),
		Target:   out,
		Coords:   gpuimage.IdentityCoords,
		Coords2:  gpuimage.IdentityCoords,
	})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	got, err := d.ReadPixels(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Data(), src.Data()) {
		t.Error("passthrough draw changed pixels")
	}
}

func TestRotatedDraw(t *testing.T) {
	d := New(WithWorkers(3))
	defer d.Close()
	h, l := compile(t, d, passthroughFragment, passthroughKernel)

	src := gradient(4, 2)
	in, _ := d.UploadTexture(src, "in")
	out, _ := d.CreateTarget(2, 4, "out")
	err := d.Draw(&gpuimage.DrawCall{
		Program:  h,
		Inputs:   []gpuimage.Texture{in},
		Uniforms: gpuimage.NewUniformBlock(l).Bytes(),
		Target:   out,
		Coords:   gpuimage.CoordsFor(gpuimage.Rotate90, false, false),
		Coords2:  gpuimage.IdentityCoords,
	})
	if err != nil {
		t.Fatal(err)
	}
	got, _ := d.ReadPixels(out)
	// Rotating clockwise puts the source's bottom-left pixel top-left.
	if c, want := got.GetPixel(0, 0), src.GetPixel(0, 1); c != want {
		t.Errorf("out(0,0) = %v, want %v", c, want)
	}
	if c, want := got.GetPixel(1, 3), src.GetPixel(3, 0); c != want {
		t.Errorf("out(1,3) = %v, want %v", c, want)
	}
}

func TestDrawRejectsAliasing(t *testing.T) {
	d := New(WithValidation(false))
	defer d.Close()
	h, l := compile(t, d, passthroughFragment, passthroughKernel)
	tex, _ := d.CreateTarget(2, 2, "both")
	err := d.Draw(&gpuimage.DrawCall{
		Program:  h,
		Inputs:   []gpuimage.Texture{tex},
		Uniforms: gpuimage.NewUniformBlock(l).Bytes(),
		Target:   tex,
		Coords:   gpuimage.IdentityCoords,
	})
	if err == nil {
		t.Error("Draw with aliased input and target succeeded")
	}
}

func TestDestroyedResources(t *testing.T) {
	d := New(WithValidation(false))
	defer d.Close()
	h, l := compile(t, d, passthroughFragment, passthroughKernel)
	in, _ := d.CreateTarget(1, 1, "in")
	out, _ := d.CreateTarget(1, 1, "out")

	d.DestroyTexture(in)
	d.DestroyTexture(in)
	if d.LiveTextures() != 1 {
		t.Errorf("LiveTextures() = %d, want 1", d.LiveTextures())
	}
	call := &gpuimage.DrawCall{Program: h, Inputs: []gpuimage.Texture{in}, Uniforms: gpuimage.NewUniformBlock(l).Bytes(), Target: out}
	if err := d.Draw(call); !errors.Is(err, gpuimage.ErrUnknownTexture) {
		t.Errorf("Draw with destroyed input = %v, want ErrUnknownTexture", err)
	}
	if _, err := d.ReadPixels(in); !errors.Is(err, gpuimage.ErrUnknownTexture) {
		t.Errorf("ReadPixels of destroyed texture = %v, want ErrUnknownTexture", err)
	}

	d.DestroyProgram(h)
	d.DestroyProgram(h)
	if d.LivePrograms() != 0 {
		t.Errorf("LivePrograms() = %d, want 0", d.LivePrograms())
	}
}

func TestClear(t *testing.T) {
	d := New()
	defer d.Close()
	tex, _ := d.CreateTarget(3, 2, "clear")
	if err := d.Clear(tex, gpuimage.RGB(1, 0.5, 0)); err != nil {
		t.Fatal(err)
	}
	got, _ := d.ReadPixels(tex)
	want := []uint8{255, 128, 0, 255}
	for i := 0; i < len(got.Data()); i += 4 {
		if !bytes.Equal(got.Data()[i:i+4], want) {
			t.Fatalf("pixel %d = %v, want %v", i/4, got.Data()[i:i+4], want)
		}
	}
}

func TestCreateTargetInvalidSize(t *testing.T) {
	d := New()
	defer d.Close()
	if _, err := d.CreateTarget(0, 4, "bad"); !errors.Is(err, gpuimage.ErrInvalidSize) {
		t.Errorf("CreateTarget(0,4) = %v, want ErrInvalidSize", err)
	}
}

func TestSamplerBilinear(t *testing.T) {
	tex := &texture{w: 2, h: 1, pix: []uint8{0, 0, 0, 255, 255, 0, 0, 255}}
	s := sampler{t: tex}
	tests := []struct {
		u    float32
		want float32
	}{
		{0.25, 0},   // first texel center
		{0.75, 1},   // second texel center
		{0.5, 0.5},  // halfway
		{-1, 0},     // clamped
		{2, 1},      // clamped
	}
	for _, tt := range tests {
		got := s.Sample(gpuimage.Vec2{tt.u, 0.5})
		if d := got[0] - tt.want; d > 1e-6 || d < -1e-6 {
			t.Errorf("Sample(%v).r = %v, want %v", tt.u, got[0], tt.want)
		}
	}
}

func TestDrawRowBands(t *testing.T) {
	for _, workers := range []int{1, 3, 8, 64} {
		d := New(WithValidation(false), WithWorkers(workers))
		if got := d.pool.Workers(); got != workers {
			t.Errorf("pool workers = %d, want %d", got, workers)
		}
		h, l := compile(t, d, passthroughFragment, passthroughKernel)
		src := gradient(5, 7)
		in, _ := d.UploadTexture(src, "in")
		out, _ := d.CreateTarget(5, 7, "out")
		err := d.Draw(&gpuimage.DrawCall{
			Program:  h,
			Inputs:   []gpuimage.Texture{in},
			Uniforms: gpuimage.NewUniformBlock(l).Bytes(),
			Target:   out,
			Coords:   gpuimage.IdentityCoords,
			Coords2:  gpuimage.IdentityCoords,
		})
		if err != nil {
			t.Fatalf("workers %d: Draw() error = %v", workers, err)
		}
		got, _ := d.ReadPixels(out)
		if !bytes.Equal(got.Data(), src.Data()) {
			t.Errorf("workers %d: banded draw changed pixels", workers)
		}
		d.Close()
		if d.pool.IsRunning() {
			t.Errorf("workers %d: pool still running after Close", workers)
		}
	}
}
