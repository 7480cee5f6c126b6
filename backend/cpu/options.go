package cpu

import "runtime"

// Option configures a Device.
type Option func(*config)

type config struct {
	validate bool
	workers  int
}

func defaultConfig() config {
	return config{validate: true, workers: runtime.GOMAXPROCS(0)}
}

// WithValidation turns WGSL validation with naga on or off. Kernels run
// either way.
func WithValidation(enabled bool) Option {
	return func(c *config) {
		c.validate = enabled
	}
}

// WithWorkers sets how many goroutines rasterize a draw. Values below 1
// mean one.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = max(n, 1)
	}
}
