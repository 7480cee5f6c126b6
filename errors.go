package gpuimage

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine.
var (
	// ErrDestroyed is returned when a destroyed filter or pipeline is used.
	ErrDestroyed = errors.New("gpuimage: filter destroyed")

	// ErrNotInitialized is returned when rendering a filter before Init.
	ErrNotInitialized = errors.New("gpuimage: filter not initialized")

	// ErrPipelineStarted is returned by AddPass after the first render.
	ErrPipelineStarted = errors.New("gpuimage: pipeline already rendered")

	// ErrEmptyPipeline is returned when a pipeline has no passes.
	ErrEmptyPipeline = errors.New("gpuimage: pipeline has no passes")

	// ErrPassCount is returned when a two-pass filter receives a pass list
	// that does not hold exactly two passes.
	ErrPassCount = errors.New("gpuimage: two-pass filter needs exactly 2 passes")

	// ErrNoSecondary is returned when a two-input filter renders without a
	// secondary texture.
	ErrNoSecondary = errors.New("gpuimage: secondary texture not bound")

	// ErrInvalidSize is returned for non-positive texture dimensions.
	ErrInvalidSize = errors.New("gpuimage: invalid texture size")

	// ErrUnknownTexture is returned by devices for handles they did not
	// create or that were already destroyed.
	ErrUnknownTexture = errors.New("gpuimage: unknown or destroyed texture")

	// ErrNoRenderer is returned by commands that need a renderer when they
	// are drained without one.
	ErrNoRenderer = errors.New("gpuimage: command requires a renderer")

	// ErrNoImage is returned by Snapshot when no source image is set.
	ErrNoImage = errors.New("gpuimage: no source image")
)

// ShaderStage names the program stage a compile error belongs to.
type ShaderStage uint8

const (
	// StageVertex is the vertex stage.
	StageVertex ShaderStage = iota
	// StageFragment is the fragment stage.
	StageFragment
	// StageLink covers failures that involve both stages together.
	StageLink
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageLink:
		return "link"
	default:
		return fmt.Sprintf("ShaderStage(%d)", s)
	}
}

// CompileError reports a shader program that failed to compile or link.
// It is fatal to the filter that owns the program.
type CompileError struct {
	Stage ShaderStage
	Label string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("gpuimage: compile %s (%s stage): %v", e.Label, e.Stage, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
