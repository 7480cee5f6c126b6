package wgpu

import (
	"time"

	"github.com/gogpu/wgpu"
)

// Option configures Open.
type Option func(*config)

type config struct {
	backends    wgpu.Backends
	power       wgpu.PowerPreference
	fallback    bool
	label       string
	readTimeout time.Duration
}

func defaultConfig() config {
	return config{
		backends:    wgpu.BackendsPrimary,
		power:       wgpu.PowerPreferenceHighPerformance,
		label:       "gpuimage",
		readTimeout: 5 * time.Second,
	}
}

// WithBackends restricts the graphics APIs the instance may use.
func WithBackends(b wgpu.Backends) Option {
	return func(c *config) {
		c.backends = b
	}
}

// WithPowerPreference selects between integrated and discrete adapters.
func WithPowerPreference(p wgpu.PowerPreference) Option {
	return func(c *config) {
		c.power = p
	}
}

// WithFallbackAdapter requests the software adapter.
func WithFallbackAdapter() Option {
	return func(c *config) {
		c.fallback = true
	}
}

// WithLabel sets the label prefix of every GPU object the device creates.
func WithLabel(label string) Option {
	return func(c *config) {
		if label != "" {
			c.label = label
		}
	}
}

// WithReadTimeout bounds how long ReadPixels waits for the staging buffer.
// Non-positive values are ignored.
func WithReadTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.readTimeout = d
		}
	}
}
