// Package wgpu is the hardware device of gpuimage, built on the gogpu/wgpu
// Pure Go WebGPU implementation. It runs on Vulkan, Metal, DX12 or GLES,
// whichever the platform offers.
//
// # Opening a Device
//
// Open creates a headless device with its own instance and adapter:
//
//	dev, err := wgpu.Open()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Close()
//
// A host that already owns a GPU device, such as a gogpu window, shares it
// through NewFromProvider. The device then never releases the host's
// objects.
//
// # Programs
//
// Every gpuimage program becomes one render pipeline drawing a four-vertex
// triangle strip. Its bind group layout follows the binding slots of
// gpuimage.FragmentPrelude:
//
//	@binding(0) params         uniform buffer
//	@binding(1) inputSampler   linear, clamp-to-edge
//	@binding(2) inputTexture   primary input
//	@binding(3) inputTexture2  secondary input (two-input programs)
//
// WGSL is checked with naga before the pipeline is created, so shader
// errors surface as *gpuimage.CompileError with the failing stage.
//
// # Textures
//
// Targets and uploaded images are RGBA8Unorm textures usable as render
// attachment, sampled texture and copy source. ReadPixels copies through a
// staging buffer whose rows are padded to 256 bytes.
//
// The device is registered with the backend registry as "wgpu".
package wgpu
