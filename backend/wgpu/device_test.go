package wgpu

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/gpuimage"
)

type fakeProvider struct{}

func (fakeProvider) Device() gpucontext.Device { return "not a device" }
func (fakeProvider) Queue() gpucontext.Queue { return nil }
func (fakeProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (fakeProvider) Adapter() gpucontext.Adapter { return nil }
func (fakeProvider) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{Name: "fake"} }

func TestNewFromProviderRejectsForeignDevice(t *testing.T) {
	_, err := NewFromProvider(fakeProvider{})
	if !errors.Is(err, ErrForeignDevice) {
		t.Errorf("NewFromProvider() error = %v, want ErrForeignDevice", err)
	}
}

func TestAlign(t *testing.T) {
	tests := []struct {
		n, a, want uint32
	}{
		{0, 256, 0},
		{1, 256, 256},
		{256, 256, 256},
		{257, 256, 512},
		{4 * 100, 256, 512},
	}
	for _, tt := range tests {
		if got := align(tt.n, tt.a); got != tt.want {
			t.Errorf("align(%d, %d) = %d, want %d", tt.n, tt.a, got, tt.want)
		}
	}
}

func TestUnpadRows(t *testing.T) {
	const stride = 12
	src := make([]byte, stride*2)
	for i := 0; i < 8; i++ {
		src[i] = byte(i + 1)
		src[stride+i] = byte(i + 11)
	}
	got := unpadRows(src, 2, 2, stride)
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8, 11, 12, 13, 14, 15, 16, 17, 18}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestQuadVertices(t *testing.T) {
	coords2 := gpuimage.TexCoords{1, 0, 0, 0, 1, 1, 0, 1}
	buf := quadVertices(gpuimage.IdentityCoords, coords2)
	if len(buf) != quadBytes {
		t.Fatalf("len = %d, want %d", len(buf), quadBytes)
	}
	at := func(vertex, field int) float32 {
		off := vertex*quadStride + field*4
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	for v := 0; v < 4; v++ {
		if got, want := at(v, 0), quadCorners[v][0]; got != want {
			t.Errorf("vertex %d x = %v, want %v", v, got, want)
		}
		if got, want := at(v, 1), quadCorners[v][1]; got != want {
			t.Errorf("vertex %d y = %v, want %v", v, got, want)
		}
		if got, want := at(v, 2), gpuimage.IdentityCoords[2*v]; got != want {
			t.Errorf("vertex %d u = %v, want %v", v, got, want)
		}
		if got, want := at(v, 3), gpuimage.IdentityCoords[2*v+1]; got != want {
			t.Errorf("vertex %d v = %v, want %v", v, got, want)
		}
		if got, want := at(v, 4), coords2[2*v]; got != want {
			t.Errorf("vertex %d u2 = %v, want %v", v, got, want)
		}
		if got, want := at(v, 5), coords2[2*v+1]; got != want {
			t.Errorf("vertex %d v2 = %v, want %v", v, got, want)
		}
	}
}

func TestBindLayoutEntries(t *testing.T) {
	tests := []struct {
		inputs int
		want   int
	}{
		{1, 3},
		{2, 4},
	}
	for _, tt := range tests {
		entries := bindLayoutEntries(tt.inputs)
		if len(entries) != tt.want {
			t.Errorf("bindLayoutEntries(%d) has %d entries, want %d", tt.inputs, len(entries), tt.want)
		}
		for i, e := range entries {
			if e.Binding != uint32(i) {
				t.Errorf("entry %d binding = %d, want %d", i, e.Binding, i)
			}
		}
	}
	if quadLayout.ArrayStride != quadStride {
		t.Errorf("ArrayStride = %d, want %d", quadLayout.ArrayStride, quadStride)
	}
}

func TestGPUInfoString(t *testing.T) {
	if got := (GPUInfo{}).String(); got != "unknown GPU" {
		t.Errorf("String() = %q, want %q", got, "unknown GPU")
	}
	info := GPUInfo{Name: "Test GPU", DeviceType: gputypes.DeviceTypeDiscreteGPU, Backend: gputypes.BackendVulkan}
	if got, want := info.String(), "Test GPU (DiscreteGPU, Vulkan)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestOptions(t *testing.T) {
	cfg := defaultConfig()
	if cfg.label != "gpuimage" || cfg.readTimeout != 5*time.Second || cfg.fallback {
		t.Errorf("defaultConfig() = %+v", cfg)
	}
	for _, opt := range []Option{
		WithBackends(wgpu.BackendsVulkan),
		WithPowerPreference(wgpu.PowerPreferenceLowPower),
		WithFallbackAdapter(),
		WithLabel("filters"),
		WithLabel(""),
		WithReadTimeout(time.Second),
		WithReadTimeout(-1),
	} {
		opt(&cfg)
	}
	if cfg.backends != wgpu.BackendsVulkan {
		t.Errorf("backends = %v, want Vulkan", cfg.backends)
	}
	if cfg.power != wgpu.PowerPreferenceLowPower {
		t.Errorf("power = %v, want LowPower", cfg.power)
	}
	if !cfg.fallback {
		t.Error("fallback = false, want true")
	}
	if cfg.label != "filters" {
		t.Errorf("label = %q, want %q", cfg.label, "filters")
	}
	if cfg.readTimeout != time.Second {
		t.Errorf("readTimeout = %v, want 1s", cfg.readTimeout)
	}
}
