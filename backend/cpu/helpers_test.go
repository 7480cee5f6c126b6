package cpu

import (
	"testing"

	"github.com/gogpu/gpuimage"
)

const passthroughFragment = `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSampleLevel(inputTexture, inputSampler, in.uv, 0.0);
}
`

func passthroughKernel(f *gpuimage.Fragment) gpuimage.Vec4 {
	return f.Sample(0, f.Coord)
}

func mustLayout(t *testing.T, decls ...gpuimage.UniformDecl) *gpuimage.UniformLayout {
	t.Helper()
	l, err := gpuimage.NewUniformLayout(decls)
	if err != nil {
		t.Fatalf("NewUniformLayout: %v", err)
	}
	return l
}

func compile(t *testing.T, d *Device, fragment string, kernel gpuimage.FragmentFunc) (gpuimage.ProgramHandle, *gpuimage.UniformLayout) {
	t.Helper()
	l := mustLayout(t)
	h, err := d.CompileProgram(gpuimage.ProgramDesc{
		Label:          "test",
		VertexSource:   gpuimage.DefaultVertexShader,
		FragmentSource: gpuimage.FragmentPrelude(l, 1) + fragment,
		Layout:         l,
		Inputs:         1,
		Kernel:         kernel,
	})
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}
	return h, l
}

// gradient returns a w x h pixmap whose red channel encodes x and green y.
func gradient(w, h int) *gpuimage.Pixmap {
	p := gpuimage.NewPixmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.SetPixel(x, y, gpuimage.RGBA{R: float64(x) / float64(w-1), G: float64(y) / float64(h-1), A: 1})
		}
	}
	return p
}
