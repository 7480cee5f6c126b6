// Package cpu is the reference device. It rasterizes every draw on the CPU
// by running the program's Go fragment kernel once per target pixel, with
// bilinear clamp-to-edge sampling from RGBA8 textures.
//
// Shader sources are still checked: with validation enabled (the default)
// CompileProgram compiles the WGSL with naga, so a program that works here
// also compiles on a hardware device.
//
// The device is registered with the backend registry as "cpu".
package cpu
