package geometry

import "math"

// Vector2D is a free vector: a direction with a length.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// VectorBetween returns the vector pointing from a to b.
func VectorBetween(a, b Point2D) Vector2D {
	return Vector2D{X: b.X - a.X, Y: b.Y - a.Y}
}

// UnitVectorForDegrees returns the unit vector at the given angle, measured
// from the positive x axis towards positive y.
func UnitVectorForDegrees(degrees float64) Vector2D {
	rad := degrees * math.Pi / 180
	return Vector2D{X: math.Cos(rad), Y: math.Sin(rad)}
}

// Length returns the Euclidean length.
func (v Vector2D) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsZero reports whether both components are zero.
func (v Vector2D) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// IsValid reports whether neither component is NaN or infinite.
func (v Vector2D) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Normalized returns the unit vector with the same direction.
// The zero vector (and any invalid vector) normalizes to the zero vector.
func (v Vector2D) Normalized() Vector2D {
	l := v.Length()
	if l == 0 || !v.IsValid() {
		return Vector2D{}
	}
	return Vector2D{X: v.X / l, Y: v.Y / l}
}

// Neg returns the inverted vector.
func (v Vector2D) Neg() Vector2D {
	return Vector2D{X: -v.X, Y: -v.Y}
}

// Add returns v + w.
func (v Vector2D) Add(w Vector2D) Vector2D {
	return Vector2D{X: v.X + w.X, Y: v.Y + w.Y}
}

// Scale returns v multiplied by s.
func (v Vector2D) Scale(s float64) Vector2D {
	return Vector2D{X: v.X * s, Y: v.Y * s}
}

// Dot returns the inner product.
func (v Vector2D) Dot(w Vector2D) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the z component of the 3D cross product.
func (v Vector2D) Cross(w Vector2D) float64 {
	return v.X*w.Y - v.Y*w.X
}

// Normal returns v rotated by 90 degrees.
func (v Vector2D) Normal() Vector2D {
	return Vector2D{X: -v.Y, Y: v.X}
}

// Rotate returns v rotated by degrees (positive turns from +x towards +y).
func (v Vector2D) Rotate(degrees float64) Vector2D {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Vector2D{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// Degrees returns the polar angle of v in [0, 360).
func (v Vector2D) Degrees() float64 {
	d := math.Atan2(v.Y, v.X) * 180 / math.Pi
	if d < 0 {
		d += 360
	}
	return d
}

// AngleWith returns the unsigned angle between v and w in degrees, in [0, 180].
// If either vector is zero the angle is 0.
func (v Vector2D) AngleWith(w Vector2D) float64 {
	lv, lw := v.Length(), w.Length()
	if lv == 0 || lw == 0 || !v.IsValid() || !w.IsValid() {
		return 0
	}
	cos := v.Dot(w) / (lv * lw)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// Bilinear interpolates four corner values of the unit cell at the fractional
// offset (fx, fy), where v00 is the value at (0,0) and v11 at (1,1).
func Bilinear(fx, fy float64, v00, v10, v01, v11 Vector2D) Vector2D {
	top := v00.Scale(1 - fx).Add(v10.Scale(fx))
	bottom := v01.Scale(1 - fx).Add(v11.Scale(fx))
	return top.Scale(1 - fy).Add(bottom.Scale(fy))
}
