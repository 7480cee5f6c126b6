// Package effects is the built-in filter library: single-pass color and
// sampling effects, the Gaussian blur family, two-input blends and the tone
// curve, each carrying a WGSL fragment stage and the matching Go kernel.
//
// Catalog registers the stock filter list with its adjuster ranges:
//
//	reg := gpuimage.NewRegistry()
//	effects.Catalog(reg, gpuimage.DirResources{FS: os.DirFS("assets")})
//	f, ok := reg.Instantiate(0)
package effects
