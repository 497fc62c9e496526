package config

import (
	"sketch-tracer/internal/filter"
	"sketch-tracer/internal/raster"
	"sketch-tracer/internal/vectorize"
)

// Preference keys.
const (
	KeySmoothness       = "smoothness"
	KeyWorkers          = "workers"
	KeyThreshold        = "threshold"
	KeyMinPixels        = "min_pixels"
	KeyShapeSize        = "shape_size"
	KeyDetectRectangles = "detect_rectangles"
	KeyDetectClosure    = "detect_closure"
	KeyMaxSteps         = "trace.max_steps"
	KeyBlurKernel       = "filter.blur_kernel"
	KeyTensorKernel     = "filter.tensor_kernel"
)

// Settings are the tunables of one run of the tool.
type Settings struct {
	Vectorize vectorize.Options
	Filter    filter.Options
	// Threshold is the luminance below which a pixel is ink.
	Threshold uint8
	// MinPixels drops smaller regions as noise.
	MinPixels int
	// ShapeSize is the opening size that separates filled shapes from
	// strokes; zero disables separation.
	ShapeSize int
}

// DefaultSettings returns the built-in tunables.
func DefaultSettings() Settings {
	return Settings{
		Vectorize: vectorize.DefaultOptions(),
		Filter:    filter.DefaultOptions(),
		Threshold: raster.DefaultThreshold,
		MinPixels: 8,
	}
}

// FromStore reads settings from s, falling back to DefaultSettings.
func FromStore(s *Store) Settings {
	st := DefaultSettings()
	v := &st.Vectorize
	v.Smoothness = s.Float(KeySmoothness, v.Smoothness)
	v.Workers = s.Int(KeyWorkers, v.Workers)
	v.Shape.DetectRectangles = s.Bool(KeyDetectRectangles, v.Shape.DetectRectangles)
	v.Shape.DetectClosure = s.Bool(KeyDetectClosure, v.Shape.DetectClosure)
	v.Trace.MaxSteps = s.Int(KeyMaxSteps, v.Trace.MaxSteps)

	st.Filter.BlurKernel = s.Int(KeyBlurKernel, st.Filter.BlurKernel)
	st.Filter.TensorKernel = s.Int(KeyTensorKernel, st.Filter.TensorKernel)

	if t := s.Int(KeyThreshold, int(st.Threshold)); t >= 0 && t <= 255 {
		st.Threshold = uint8(t)
	}
	st.MinPixels = s.Int(KeyMinPixels, st.MinPixels)
	st.ShapeSize = s.Int(KeyShapeSize, st.ShapeSize)
	return st
}

// Store writes the settings into s.
func (st Settings) Store(s *Store) {
	s.SetFloat(KeySmoothness, st.Vectorize.Smoothness)
	s.SetInt(KeyWorkers, st.Vectorize.Workers)
	s.SetBool(KeyDetectRectangles, st.Vectorize.Shape.DetectRectangles)
	s.SetBool(KeyDetectClosure, st.Vectorize.Shape.DetectClosure)
	s.SetInt(KeyMaxSteps, st.Vectorize.Trace.MaxSteps)
	s.SetInt(KeyBlurKernel, st.Filter.BlurKernel)
	s.SetInt(KeyTensorKernel, st.Filter.TensorKernel)
	s.SetInt(KeyThreshold, int(st.Threshold))
	s.SetInt(KeyMinPixels, st.MinPixels)
	s.SetInt(KeyShapeSize, st.ShapeSize)
}
