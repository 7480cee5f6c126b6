// Package shadergen derives Gaussian blur kernels and the WGSL fragment
// stages that apply them.
//
// Two strategies produce the same image. Unrolled bakes the weights into
// the shader source as literals, so a new sigma means a new program.
// UniformArray compiles once for a maximum sample count and reads the
// weights from a uniform float array, so a new sigma is a uniform upload.
//
// Every function here is pure and safe for concurrent use.
package shadergen
