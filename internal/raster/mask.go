// Package raster holds the pixel inputs of the tracer: the classification
// mask, the direction field and the connected regions found in the mask.
package raster

import (
	"errors"

	"sketch-tracer/pkg/geometry"
)

// ErrEmptyMask is returned when a mask has no pixels or no foreground.
var ErrEmptyMask = errors.New("raster: empty mask")

// Class is the classification of one mask pixel.
type Class uint8

const (
	Background Class = iota
	ShapeFill
	ShapeBorder
	Line
	Transparent
)

func (c Class) String() string {
	switch c {
	case Background:
		return "background"
	case ShapeFill:
		return "shape_fill"
	case ShapeBorder:
		return "shape_border"
	case Line:
		return "line"
	case Transparent:
		return "transparent"
	default:
		return "unknown"
	}
}

// IsForeground reports whether the pixel belongs to a stroke or a shape.
func (c Class) IsForeground() bool {
	return c == ShapeFill || c == ShapeBorder || c == Line
}

// Mask is a width × height grid of pixel classes, row major.
type Mask struct {
	Width  int
	Height int
	Pix    []Class
}

// NewMask creates an all-background mask.
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{Width: width, Height: height, Pix: make([]Class, width*height)}
}

// InBounds reports whether (x, y) is a pixel of the mask.
func (m *Mask) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// At returns the class at (x, y). Pixels outside the mask are Background.
func (m *Mask) At(x, y int) Class {
	if !m.InBounds(x, y) {
		return Background
	}
	return m.Pix[y*m.Width+x]
}

// Set stores the class at (x, y). Writes outside the mask are ignored.
func (m *Mask) Set(x, y int, c Class) {
	if m.InBounds(x, y) {
		m.Pix[y*m.Width+x] = c
	}
}

// IsBackground samples the pixel nearest to p. Transparent pixels and
// positions outside the mask count as background.
func (m *Mask) IsBackground(p geometry.Point2D) bool {
	q := p.Round()
	return !m.At(q.X, q.Y).IsForeground()
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, c := range m.Pix {
		if c.IsForeground() {
			n++
		}
	}
	return n
}

// Bounds returns the full mask rectangle.
func (m *Mask) Bounds() geometry.RectInt {
	return geometry.RectInt{Width: m.Width, Height: m.Height}
}
