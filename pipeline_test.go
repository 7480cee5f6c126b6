package gpuimage

import (
	"errors"
	"testing"
)

func newTestPipeline(names ...string) *Pipeline {
	passes := make([]Renderable, len(names))
	for i, n := range names {
		passes[i] = NewFilter(testEffect(n))
	}
	return NewPipeline("chain", passes...)
}

func TestPipelineFramebufferCount(t *testing.T) {
	dev := newFakeDevice()
	p := newTestPipeline("a", "b", "c")
	if err := p.Init(dev); err != nil {
		t.Fatal(err)
	}
	in, _ := dev.UploadTexture(NewPixmap(8, 8), "in")
	out, _ := dev.CreateTarget(8, 8, "out")

	p.OnOutputSizeChanged(8, 8)
	if err := p.Render(dev, in, out, IdentityCoords); err != nil {
		t.Fatal(err)
	}
	fbs := p.Framebuffers()
	if len(fbs) != 2 {
		t.Fatalf("framebuffers = %d, want 2", len(fbs))
	}
	old := []Texture{fbs[0].Texture(), fbs[1].Texture()}

	p.OnOutputSizeChanged(16, 4)
	if err := p.Render(dev, in, out, IdentityCoords); err != nil {
		t.Fatal(err)
	}
	fbs = p.Framebuffers()
	if len(fbs) != 2 {
		t.Fatalf("framebuffers after resize = %d, want 2", len(fbs))
	}
	for i, fb := range fbs {
		if !fb.Matches(16, 4) {
			t.Errorf("fb[%d] = %dx%d, want 16x4", i, fb.Width(), fb.Height())
		}
	}
	for i, tex := range old {
		if dev.isLive(tex) {
			t.Errorf("old framebuffer %d still live", i)
		}
	}
	// in, out and two framebuffers.
	if got := dev.liveTextures(); got != 4 {
		t.Errorf("live textures = %d, want 4", got)
	}
}

func TestPipelinePassChaining(t *testing.T) {
	dev := newFakeDevice()
	p := newTestPipeline("a", "b", "c")
	if err := p.Init(dev); err != nil {
		t.Fatal(err)
	}
	in, _ := dev.UploadTexture(NewPixmap(4, 4), "in")
	out, _ := dev.CreateTarget(4, 4, "out")
	rot := CoordsFor(Rotate180, false, false)
	if err := p.Render(dev, in, out, rot); err != nil {
		t.Fatal(err)
	}
	if len(dev.draws) != 3 {
		t.Fatalf("draws = %d, want 3", len(dev.draws))
	}
	fbs := p.Framebuffers()
	want := []struct {
		in, out Texture
		coords  TexCoords
	}{
		{in, fbs[0].Texture(), rot},
		{fbs[0].Texture(), fbs[1].Texture(), IdentityCoords},
		{fbs[1].Texture(), out, IdentityCoords},
	}
	for k, w := range want {
		d := dev.draws[k]
		if d.Inputs[0] != w.in || d.Target != w.out {
			t.Errorf("pass %d reads %v writes %v, want %v -> %v", k, d.Inputs[0], d.Target, w.in, w.out)
		}
		if d.Coords != w.coords {
			t.Errorf("pass %d coords = %v, want %v", k, d.Coords, w.coords)
		}
	}
}

func TestPipelineInitFailureReleases(t *testing.T) {
	dev := newFakeDevice()
	dev.failCompile = "bad"
	p := newTestPipeline("good1", "good2", "bad", "good3")
	err := p.Init(dev)
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("Init = %v, want *CompileError", err)
	}
	if p.State() != Destroyed {
		t.Errorf("State() = %v, want destroyed", p.State())
	}
	if got := dev.livePrograms(); got != 0 {
		t.Errorf("live programs = %d, want 0", got)
	}
	for i, r := range p.Passes()[:3] {
		if r.State() != Destroyed {
			t.Errorf("pass %d state = %v, want destroyed", i, r.State())
		}
	}
}

func TestPipelineAddPassAfterRender(t *testing.T) {
	dev := newFakeDevice()
	p := newTestPipeline("a")
	if err := p.AddPass(NewFilter(testEffect("b"))); err != nil {
		t.Fatalf("AddPass before render: %v", err)
	}
	if err := p.Init(dev); err != nil {
		t.Fatal(err)
	}
	in, _ := dev.UploadTexture(NewPixmap(2, 2), "in")
	out, _ := dev.CreateTarget(2, 2, "out")
	if err := p.Render(dev, in, out, IdentityCoords); err != nil {
		t.Fatal(err)
	}
	if err := p.AddPass(NewFilter(testEffect("c"))); !errors.Is(err, ErrPipelineStarted) {
		t.Errorf("AddPass after render = %v, want ErrPipelineStarted", err)
	}
}

func TestPipelineReplace(t *testing.T) {
	dev := newFakeDevice()
	p := newTestPipeline("a", "b")
	if err := p.Init(dev); err != nil {
		t.Fatal(err)
	}
	p.OnOutputSizeChanged(4, 4)
	in, _ := dev.UploadTexture(NewPixmap(4, 4), "in")
	out, _ := dev.CreateTarget(4, 4, "out")
	if err := p.Render(dev, in, out, IdentityCoords); err != nil {
		t.Fatal(err)
	}
	oldPasses := p.Passes()
	oldFB := p.Framebuffers()[0].Texture()

	next := []Renderable{NewFilter(testEffect("x")), NewFilter(testEffect("y")), NewFilter(testEffect("z"))}
	if err := p.Replace(dev, next); err != nil {
		t.Fatal(err)
	}
	for i, r := range oldPasses {
		if r.State() != Destroyed {
			t.Errorf("old pass %d state = %v, want destroyed", i, r.State())
		}
	}
	if dev.isLive(oldFB) {
		t.Error("old framebuffer still live")
	}
	for i, r := range p.Passes() {
		if r.State() != Initialized {
			t.Errorf("new pass %d state = %v, want initialized", i, r.State())
		}
	}
	if err := p.Render(dev, in, out, IdentityCoords); err != nil {
		t.Fatal(err)
	}
	if got := len(p.Framebuffers()); got != 2 {
		t.Errorf("framebuffers = %d, want 2", got)
	}
	if got := dev.livePrograms(); got != 3 {
		t.Errorf("live programs = %d, want 3", got)
	}
}

func TestPipelineDestroy(t *testing.T) {
	dev := newFakeDevice()
	p := newTestPipeline("a", "b")
	if err := p.Init(dev); err != nil {
		t.Fatal(err)
	}
	in, _ := dev.UploadTexture(NewPixmap(2, 2), "in")
	out, _ := dev.CreateTarget(2, 2, "out")
	if err := p.Render(dev, in, out, IdentityCoords); err != nil {
		t.Fatal(err)
	}
	p.Destroy(dev)
	p.Destroy(dev)
	if dev.livePrograms() != 0 || dev.liveTextures() != 2 {
		t.Errorf("after Destroy: programs %d textures %d, want 0 and 2", dev.livePrograms(), dev.liveTextures())
	}
}

func TestTwoPassOffsets(t *testing.T) {
	dev := newFakeDevice()
	h := NewFilter(testEffect("h"))
	v := NewFilter(testEffect("v"))
	tp := NewTwoPass("blur", h, v)
	tp.OnOutputSizeChanged(200, 100)
	if err := tp.Init(dev); err != nil {
		t.Fatal(err)
	}
	if got := h.block.Vec2(TexelOffsetUniform); got != (Vec2{1.0 / 200, 0}) {
		t.Errorf("horizontal offset = %v, want [0.005 0]", got)
	}
	if got := v.block.Vec2(TexelOffsetUniform); got != (Vec2{0, 1.0 / 100}) {
		t.Errorf("vertical offset = %v, want [0 0.01]", got)
	}

	tp.SetParameter(BlurSizeParam, Float(2))
	if got := h.block.Vec2(TexelOffsetUniform); !floatNear(got[0], 0.01, 1e-7) {
		t.Errorf("horizontal offset after blurSize=2 = %v", got)
	}
	tp.SetParameter(BlurSizeParam, Float(-1))
	if tp.Ratio() != 2 {
		t.Errorf("Ratio() = %v after negative write, want 2", tp.Ratio())
	}

	tp.OnOutputSizeChanged(50, 40)
	if got := v.block.Vec2(TexelOffsetUniform); !floatNear(got[1], 2.0/40, 1e-7) {
		t.Errorf("vertical offset after resize = %v, want [0 0.05]", got)
	}
}

func TestTwoPassZeroRatio(t *testing.T) {
	dev := newFakeDevice()
	h := NewFilter(testEffect("h"))
	v := NewFilter(testEffect("v"))
	tp := NewTwoPass("blur", h, v)
	if err := tp.Init(dev); err != nil {
		t.Fatal(err)
	}
	tp.OnOutputSizeChanged(16, 16)
	tp.SetParameter(BlurSizeParam, Float(2))
	tp.SetParameter(BlurSizeParam, Float(0))

	if tp.Ratio() != 0 {
		t.Errorf("Ratio() = %v, want 0", tp.Ratio())
	}
	if got := h.block.Vec2(TexelOffsetUniform); got != (Vec2{}) {
		t.Errorf("horizontal offset after blurSize=0 = %v, want [0 0]", got)
	}
	if got := v.block.Vec2(TexelOffsetUniform); got != (Vec2{}) {
		t.Errorf("vertical offset after blurSize=0 = %v, want [0 0]", got)
	}
}

func TestTwoPassRequiresTwoPasses(t *testing.T) {
	tp := NewTwoPass("bad", NewFilter(testEffect("h")), NewFilter(testEffect("v")))
	if err := tp.Replace(newFakeDevice(), []Renderable{NewFilter(testEffect("x"))}); !errors.Is(err, ErrPassCount) {
		t.Errorf("Replace with one pass = %v, want ErrPassCount", err)
	}
}
