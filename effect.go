package gpuimage

// Param is a named uniform value.
type Param struct {
	Name  string
	Value Value
}

// Effect describes what a single-pass filter draws: shader sources, the
// parameter schema and optional hooks. It is a plain value; one Effect can
// back any number of filters.
type Effect struct {
	Name string

	// Vertex is a WGSL module declaring VertexOutput and vs_main. Empty
	// selects DefaultVertexShader.
	Vertex string

	// Fragment is the WGSL body defining fs_main. It is compiled after the
	// prelude produced by FragmentPrelude.
	Fragment string

	// Inputs is 1 for ordinary filters and 2 for two-input filters.
	Inputs int

	Uniforms []UniformDecl
	Defaults []Param

	Kernel FragmentFunc

	// Validate rejects out-of-range parameter writes. Rejected writes are
	// dropped and the previous value is kept.
	Validate func(name string, v Value) bool

	// SizeParams derives parameters from the output size, for example
	// texel steps for neighborhood sampling.
	SizeParams func(width, height int) []Param
}

func (e *Effect) inputs() int {
	if e.Inputs < 1 {
		return 1
	}
	return e.Inputs
}

// Renderable is the capability set shared by filters and pipelines.
// Every method runs on the render context.
type Renderable interface {
	Name() string
	State() FilterState
	Init(dev Device) error
	Render(dev Device, input, target Texture, coords TexCoords) error
	SetParameter(name string, v Value)
	OnOutputSizeChanged(width, height int)
	IsMultiPass() bool
	Destroy(dev Device)
}

// FilterState is the lifecycle state of a filter or pipeline.
type FilterState uint8

const (
	Uninitialized FilterState = iota
	Initialized
	// Destroyed is terminal.
	Destroyed
)

func (s FilterState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
