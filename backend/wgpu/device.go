package wgpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	// Registers the Vulkan, Metal, DX12 and GLES HAL backends.
	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/gpuimage"
	"github.com/gogpu/gpuimage/backend"
)

func init() {
	backend.Register(backend.BackendWGPU, func() (backend.Device, error) {
		return Open()
	})
}

// ErrForeignDevice is returned by NewFromProvider when the provider's
// device is not a *wgpu.Device.
var ErrForeignDevice = errors.New("wgpu: provider device is not a gogpu/wgpu device")

// GPUInfo describes the adapter a Device runs on.
type GPUInfo struct {
	// Name is the GPU name (e.g., "NVIDIA GeForce RTX 3080").
	Name string
	// Vendor is the GPU vendor.
	Vendor string
	// DeviceType is the type of GPU (discrete, integrated, etc.).
	DeviceType gputypes.DeviceType
	// Backend is the graphics API in use (Vulkan, Metal, DX12).
	Backend gputypes.Backend
	// Driver is the driver version string.
	Driver string
}

// String returns a human-readable description of the GPU.
func (g GPUInfo) String() string {
	if g.Name == "" {
		return "unknown GPU"
	}
	return fmt.Sprintf("%s (%v, %v)", g.Name, g.DeviceType, g.Backend)
}

func infoFromAdapter(a gputypes.AdapterInfo) GPUInfo {
	return GPUInfo{Name: a.Name, Vendor: a.Vendor, DeviceType: a.DeviceType, Backend: a.Backend, Driver: a.Driver}
}

// Device is the hardware device. Like any GPU context it belongs to one
// render context; only SetLogger may be called from other goroutines.
type Device struct {
	cfg  config
	info GPUInfo

	// instance and adapter are nil when the device is borrowed.
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	owned    bool

	sampler  *wgpu.Sampler
	quad     *wgpu.Buffer
	textures map[*texture]struct{}
	programs map[*program]struct{}
	closed   bool

	log atomic.Pointer[slog.Logger]
}

// Open creates a headless device with its own instance, adapter and
// logical device.
func Open(opts ...Option) (*Device, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	instance, err := wgpu.CreateInstance(&wgpu.InstanceDescriptor{Backends: cfg.backends})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:      cfg.power,
		ForceFallbackAdapter: cfg.fallback,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("wgpu: request adapter: %w", err)
	}
	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          cfg.label,
		RequiredLimits: wgpu.DefaultLimits(),
	})
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("wgpu: request device: %w", err)
	}
	d, err := newDevice(cfg, dev, infoFromAdapter(adapter.Info()), true)
	if err != nil {
		dev.Release()
		adapter.Release()
		instance.Release()
		return nil, err
	}
	d.instance, d.adapter = instance, adapter
	d.logger().Info("wgpu: device opened", "gpu", d.info.String(), "driver", d.info.Driver)
	return d, nil
}

// NewFromProvider borrows the device of a host such as a gogpu window. The
// returned Device never releases the host's device.
func NewFromProvider(p gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	dev, ok := p.Device().(*wgpu.Device)
	if !ok || dev == nil {
		return nil, ErrForeignDevice
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	ai := p.AdapterInfo()
	info := GPUInfo{Name: ai.Name}
	if a, ok := p.Adapter().(*wgpu.Adapter); ok && a != nil {
		info = infoFromAdapter(a.Info())
	}
	d, err := newDevice(cfg, dev, info, false)
	if err != nil {
		return nil, err
	}
	d.logger().Info("wgpu: sharing host device", "gpu", d.info.String())
	return d, nil
}

func newDevice(cfg config, dev *wgpu.Device, info GPUInfo, owned bool) (*Device, error) {
	d := &Device{
		cfg:      cfg,
		info:     info,
		device:   dev,
		queue:    dev.Queue(),
		owned:    owned,
		textures: make(map[*texture]struct{}),
		programs: make(map[*program]struct{}),
	}
	d.log.Store(gpuimage.Logger())

	s, err := dev.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        cfg.label + "/sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create sampler: %w", err)
	}
	d.sampler = s

	quad, err := dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: cfg.label + "/quad",
		Size:  quadBytes,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("wgpu: create quad buffer: %w", err)
	}
	d.quad = quad

	gpuimage.RegisterLoggerSink(d)
	return d, nil
}

// Name returns "wgpu".
func (d *Device) Name() string { return backend.BackendWGPU }

// Info describes the adapter.
func (d *Device) Info() GPUInfo { return d.info }

// Owned reports whether the device created, and will release, its GPU
// device.
func (d *Device) Owned() bool { return d.owned }

// SetLogger replaces the device logger. It is kept in sync with
// gpuimage.SetLogger.
func (d *Device) SetLogger(l *slog.Logger) {
	if l == nil {
		l = gpuimage.Logger()
	}
	d.log.Store(l)
}

func (d *Device) logger() *slog.Logger { return d.log.Load() }

// LiveTextures returns the number of textures not yet destroyed.
func (d *Device) LiveTextures() int { return len(d.textures) }

// LivePrograms returns the number of programs not yet destroyed.
func (d *Device) LivePrograms() int { return len(d.programs) }

// Close releases every live resource and, for an owned device, the device,
// adapter and instance.
func (d *Device) Close() {
	if d.closed {
		return
	}
	if n := len(d.textures) + len(d.programs); n > 0 {
		d.logger().Debug("wgpu: releasing live resources on close", "textures", len(d.textures), "programs", len(d.programs))
	}
	for t := range d.textures {
		t.release()
	}
	for p := range d.programs {
		p.release()
	}
	clear(d.textures)
	clear(d.programs)
	d.quad.Release()
	d.sampler.Release()
	if d.owned {
		d.device.Release()
		d.adapter.Release()
		d.instance.Release()
	}
	d.closed = true
	gpuimage.UnregisterLoggerSink(d)
}

var _ backend.Device = (*Device)(nil)
