package gpuimage

// Texture is an opaque GPU texture handle owned by the device that created
// it. Every texture created through CreateTarget can be rendered to and
// sampled from.
type Texture interface {
	Width() int
	Height() int
}

// ProgramHandle is an opaque compiled shader program.
type ProgramHandle interface {
	Label() string
}

// ProgramDesc describes a program to compile.
type ProgramDesc struct {
	Label string

	// VertexSource declares VertexOutput and vs_main.
	VertexSource string

	// FragmentSource is the generated binding prelude followed by the
	// effect's fs_main.
	FragmentSource string

	Layout *UniformLayout

	// Inputs is the number of sampled textures, 1 or 2.
	Inputs int

	// Kernel is the Go rendition of the fragment stage, used by devices that
	// rasterize on the CPU. Hardware devices ignore it.
	Kernel FragmentFunc
}

// DrawCall is one full-target quad.
type DrawCall struct {
	Program ProgramHandle

	// Inputs are bound in order: unit 0 is the primary texture, unit 1 the
	// secondary texture of two-input programs.
	Inputs []Texture

	// Uniforms is the packed uniform block.
	Uniforms []byte

	Target Texture

	// Coords are the primary input coordinates at the quad corners.
	Coords TexCoords

	// Coords2 are the secondary input coordinates at the quad corners.
	Coords2 TexCoords
}

// Device is the GPU context the engine renders with. All methods must be
// called from the render context. Destroy methods are idempotent.
type Device interface {
	// CompileProgram compiles a vertex and fragment pair. Failures are
	// reported as *CompileError.
	CompileProgram(desc ProgramDesc) (ProgramHandle, error)
	DestroyProgram(p ProgramHandle)

	// CreateTarget allocates an RGBA8 texture that can be rendered to,
	// sampled and read back.
	CreateTarget(width, height int, label string) (Texture, error)

	// UploadTexture creates a texture holding a copy of src.
	UploadTexture(src *Pixmap, label string) (Texture, error)

	DestroyTexture(t Texture)

	// Clear fills t with a color.
	Clear(t Texture, c RGBA) error

	// Draw executes one pass. The target must not be one of the inputs.
	Draw(call *DrawCall) error

	// ReadPixels copies a texture back into host memory.
	ReadPixels(t Texture) (*Pixmap, error)
}

// Sampler is the kernel-side view of a bound texture: bilinear filtering
// with clamp-to-edge addressing, the sampler state every program uses.
type Sampler interface {
	Sample(uv Vec2) Vec4
	Size() (width, height int)
}

// Fragment is the input of one kernel invocation.
type Fragment struct {
	// Coord is the interpolated primary texture coordinate.
	Coord Vec2

	// Coord2 is the interpolated secondary texture coordinate.
	Coord2 Vec2

	Inputs []Sampler
	Params *UniformBlock
}

// Sample reads texture unit at uv. Unbound units read as transparent black.
func (f *Fragment) Sample(unit int, uv Vec2) Vec4 {
	if unit < 0 || unit >= len(f.Inputs) || f.Inputs[unit] == nil {
		return Vec4{}
	}
	return f.Inputs[unit].Sample(uv)
}

// FragmentFunc computes one output color. It mirrors the WGSL fs_main of the
// same program.
type FragmentFunc func(f *Fragment) Vec4
