package raster

import "sketch-tracer/pkg/geometry"

// GeometricType tells how a region is vectorized.
type GeometricType int

const (
	// GeometricShape is a filled region; its borders are used as curves.
	GeometricShape GeometricType = iota
	// GeometricLine is a stroke; its skeleton is traced.
	GeometricLine
)

func (t GeometricType) String() string {
	switch t {
	case GeometricShape:
		return "shape"
	case GeometricLine:
		return "line"
	default:
		return "unknown"
	}
}

// RawGeometric is one connected region of the mask.
type RawGeometric struct {
	Type   GeometricType
	Points []geometry.Point2D
	// Borders holds the ordered outlines of shape regions, each closed
	// (first point == last point).
	Borders [][]geometry.Point2D
	Bounds  geometry.RectInt
}

// PixelCount returns the number of region pixels.
func (g *RawGeometric) PixelCount() int {
	return len(g.Points)
}
