package vectorize

import (
	"runtime"

	"sketch-tracer/internal/curve"
	"sketch-tracer/internal/shape"
	"sketch-tracer/internal/trace"
)

// Options configures a vectorization pass.
type Options struct {
	// Smoothness in [0,1] trades fidelity for fewer Bezier segments.
	Smoothness float64
	// Workers bounds how many components are processed at once. Zero or
	// less uses runtime.NumCPU.
	Workers int

	Trace trace.Options
	Shape shape.Options
}

// DefaultOptions returns the default smoothness, one worker per CPU and the
// default tracer and shape settings.
func DefaultOptions() Options {
	return Options{
		Smoothness: curve.DefaultSmoothness,
		Workers:    runtime.NumCPU(),
		Trace:      trace.DefaultOptions(),
	}
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}
