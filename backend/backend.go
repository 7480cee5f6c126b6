package backend

import (
	"errors"

	"github.com/gogpu/gpuimage"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or cannot open a device on this machine.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Backend name constants.
const (
	// BackendCPU is the reference device that runs fragment kernels on the CPU.
	BackendCPU = "cpu"
	// BackendWGPU is the hardware device on the gogpu/wgpu HAL.
	BackendWGPU = "wgpu"
)

// Device is a gpuimage.Device that can be identified and closed.
type Device interface {
	gpuimage.Device

	// Name returns the backend identifier (e.g. "cpu", "wgpu").
	Name() string

	// Close releases every resource the device still holds.
	Close()
}
