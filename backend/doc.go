// Package backend is the registry of device implementations.
//
// Backends register themselves from init() functions, so importing a
// backend package is enough to make it selectable:
//
//	import (
//		_ "github.com/gogpu/gpuimage/backend/cpu"
//		_ "github.com/gogpu/gpuimage/backend/wgpu"
//	)
//
// # Backend Selection
//
// Use Default to open the best available device, or Open to request a
// specific backend by name:
//
//	dev, err := backend.Default()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Close()
//
// # Available Backends
//
//   - "cpu": reference device running fragment kernels on the CPU
//   - "wgpu": hardware device on the gogpu/wgpu HAL
package backend
