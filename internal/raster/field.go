package raster

import (
	"math"

	"sketch-tracer/pkg/geometry"
)

// Field is the per-pixel direction field of a mask. Gradient points towards
// increasing edge strength and vanishes on the skeleton of a stroke; Tangent
// runs along the skeleton.
type Field struct {
	Width    int
	Height   int
	Gradient []geometry.Vector2D
	Tangent  []geometry.Vector2D
}

// NewField creates a zero field.
func NewField(width, height int) *Field {
	n := width * height
	if n < 0 {
		n = 0
	}
	return &Field{
		Width:    width,
		Height:   height,
		Gradient: make([]geometry.Vector2D, n),
		Tangent:  make([]geometry.Vector2D, n),
	}
}

// Set stores both vectors of pixel (x, y).
func (f *Field) Set(x, y int, gradient, tangent geometry.Vector2D) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	f.Gradient[y*f.Width+x] = gradient
	f.Tangent[y*f.Width+x] = tangent
}

// GradientAt samples the gradient at p.
func (f *Field) GradientAt(p geometry.Point2D) geometry.Vector2D {
	return f.sample(f.Gradient, p)
}

// TangentAt samples the tangent at p.
func (f *Field) TangentAt(p geometry.Point2D) geometry.Vector2D {
	return f.sample(f.Tangent, p)
}

// sample interpolates bilinearly between the four pixels around p. Integer
// positions read the pixel directly. Any sample touching a pixel outside the
// field, or holding NaN, yields the zero vector.
func (f *Field) sample(data []geometry.Vector2D, p geometry.Point2D) geometry.Vector2D {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || len(data) != f.Width*f.Height {
		return geometry.Vector2D{}
	}
	x0, y0 := math.Floor(p.X), math.Floor(p.Y)
	ix, iy := int(x0), int(y0)
	fx, fy := p.X-x0, p.Y-y0

	at := func(x, y int) (geometry.Vector2D, bool) {
		if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
			return geometry.Vector2D{}, false
		}
		v := data[y*f.Width+x]
		return v, v.IsValid()
	}

	if fx == 0 && fy == 0 {
		v, _ := at(ix, iy)
		if !v.IsValid() {
			return geometry.Vector2D{}
		}
		return v
	}

	v00, ok00 := at(ix, iy)
	v10, ok10 := at(ix+1, iy)
	v01, ok01 := at(ix, iy+1)
	v11, ok11 := at(ix+1, iy+1)
	if !ok00 || !ok10 || !ok01 || !ok11 {
		return geometry.Vector2D{}
	}
	return geometry.Bilinear(fx, fy, v00, v10, v01, v11)
}
