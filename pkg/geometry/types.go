// Package geometry holds the point, vector and direction math shared by the
// tracing and fitting stages. Coordinates follow image convention: y grows
// downwards.
package geometry

import (
	"math"
)

// Point2D is a position in pixel space.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance is the straight-line distance between p and other.
func (p Point2D) Distance(other Point2D) float64 {
	return math.Sqrt(p.DistanceSquared(other))
}

// DistanceSquared avoids the square root for comparisons.
func (p Point2D) DistanceSquared(other Point2D) float64 {
	d := p.Sub(other)
	return d.X*d.X + d.Y*d.Y
}

func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale multiplies both coordinates.
func (p Point2D) Scale(factor float64) Point2D {
	return Point2D{X: p.X * factor, Y: p.Y * factor}
}

func (p Point2D) Translate(v Vector2D) Point2D {
	return Point2D{X: p.X + v.X, Y: p.Y + v.Y}
}

// Midpoint returns the point halfway between p and other.
func (p Point2D) Midpoint(other Point2D) Point2D {
	return Point2D{X: (p.X + other.X) / 2, Y: (p.Y + other.Y) / 2}
}

// Equal reports whether both coordinates are identical.
func (p Point2D) Equal(other Point2D) bool {
	return p.X == other.X && p.Y == other.Y
}

// Move takes one full step along v, backwards when forward is false.
func (p Point2D) Move(v Vector2D, forward bool) Point2D {
	if !forward {
		v = v.Neg()
	}
	return p.Translate(v)
}

// MoveHalf takes half a step along v.
func (p Point2D) MoveHalf(v Vector2D, forward bool) Point2D {
	return p.Move(v.Scale(0.5), forward)
}

// Round returns the nearest integer point.
func (p Point2D) Round() PointInt {
	return PointInt{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// RotateAround rotates p around pivot by degrees. Clockwise is measured in
// image coordinates (y grows downwards).
func (p Point2D) RotateAround(pivot Point2D, degrees float64, clockwise bool) Point2D {
	if !clockwise {
		degrees = -degrees
	}
	t := Translation(pivot.X, pivot.Y).
		Compose(Rotation(degrees * math.Pi / 180)).
		Compose(Translation(-pivot.X, -pivot.Y))
	return t.Apply(p)
}

// PointInt addresses a single pixel.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ToFloat returns the pixel position as a Point2D.
func (p PointInt) ToFloat() Point2D {
	return Point2D{X: float64(p.X), Y: float64(p.Y)}
}

// RectInt is a pixel bounding box. Width and Height are pixel counts.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AffineTransform maps p to (A*x + B*y + TX, C*x + D*y + TY).
type AffineTransform struct {
	A, B, TX float64
	C, D, TY float64
}

func Translation(tx, ty float64) AffineTransform {
	return AffineTransform{A: 1, D: 1, TX: tx, TY: ty}
}

// Rotation turns around the origin. Positive angles are clockwise on screen.
func Rotation(radians float64) AffineTransform {
	sin, cos := math.Sincos(radians)
	return AffineTransform{A: cos, B: -sin, C: sin, D: cos}
}

func (t AffineTransform) Apply(p Point2D) Point2D {
	return Point2D{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// Compose returns the transform that applies other first, then t.
func (t AffineTransform) Compose(other AffineTransform) AffineTransform {
	return AffineTransform{
		A:  t.A*other.A + t.B*other.C,
		B:  t.A*other.B + t.B*other.D,
		TX: t.A*other.TX + t.B*other.TY + t.TX,
		C:  t.C*other.A + t.D*other.C,
		D:  t.C*other.B + t.D*other.D,
		TY: t.C*other.TX + t.D*other.TY + t.TY,
	}
}

// GenerateCirclePoints samples n points at equal angles on a circle,
// starting at angle zero.
func GenerateCirclePoints(centerX, centerY, radius float64, n int) []Point2D {
	out := make([]Point2D, n)
	step := 2 * math.Pi / float64(n)
	for i := range out {
		sin, cos := math.Sincos(float64(i) * step)
		out[i] = Point2D{X: centerX + radius*cos, Y: centerY + radius*sin}
	}
	return out
}

// Centroid is the mean of points, or the origin for an empty slice.
func Centroid(points []Point2D) Point2D {
	if len(points) == 0 {
		return Point2D{}
	}
	var sum Point2D
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(points)))
}
