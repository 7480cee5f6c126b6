// Package gpuimage applies shader-defined image filters on the GPU.
//
// # Overview
//
// gpuimage is a render-pass composition engine in the spirit of GPUImage.
// A filter is one full-target textured quad drawn with a WGSL program; filters
// chain into pipelines through off-screen framebuffers, blend against a second
// texture, or sample along separable axes in two passes. Effect behavior is a
// value (shader source plus parameter schema), not a subclass.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/gpuimage"
//		"github.com/gogpu/gpuimage/backend/cpu"
//		"github.com/gogpu/gpuimage/effects"
//	)
//
//	dev := cpu.New()
//	blur := effects.NewGaussianBlur(effects.WithSigma(4))
//	out, err := gpuimage.ApplyAndRead(dev, blur, src)
//
// # Render and control contexts
//
// All GPU handles belong to the render context: the goroutine that calls
// [Renderer.Frame]. Other goroutines never touch filters directly; they submit
// typed [Command] values through [Renderer.Submit]. Before each frame the
// renderer drains its queue in FIFO order and only then executes the filter.
//
// # Devices
//
// The engine talks to the GPU through the [Device] interface. Two devices ship
// with the module:
//   - backend/wgpu: hardware rendering on the gogpu/wgpu HAL
//   - backend/cpu: a reference rasterizer that runs each program's Go kernel
//
// # Coordinate System
//
// Texture coordinates follow WebGPU conventions:
//   - Origin (0,0) at the top-left texel of the image
//   - U increases right, V increases down
package gpuimage

// Version is the current version of the library.
const Version = "0.4.0"
