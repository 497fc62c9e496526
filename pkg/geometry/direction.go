package geometry

import "fmt"

// Compass enumerates the eight pixel-step directions.
type Compass int

const (
	North Compass = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

var compassNames = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func (c Compass) String() string {
	if c < North || c > NorthWest {
		return "?"
	}
	return compassNames[c]
}

// Offset returns the pixel offset of one step. Image coordinates: north is -y.
func (c Compass) Offset() PointInt {
	switch c {
	case North:
		return PointInt{X: 0, Y: -1}
	case NorthEast:
		return PointInt{X: 1, Y: -1}
	case East:
		return PointInt{X: 1, Y: 0}
	case SouthEast:
		return PointInt{X: 1, Y: 1}
	case South:
		return PointInt{X: 0, Y: 1}
	case SouthWest:
		return PointInt{X: -1, Y: 1}
	case West:
		return PointInt{X: -1, Y: 0}
	case NorthWest:
		return PointInt{X: -1, Y: -1}
	}
	return PointInt{}
}

// Compasses lists the eight directions clockwise starting at north.
var Compasses = [8]Compass{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

// DirectionKind tells which field of a Direction is meaningful.
type DirectionKind int

const (
	DirectionCompass DirectionKind = iota
	DirectionClockwise
	DirectionCounterClockwise
	DirectionPole
)

// Direction is either a compass step, a rotation by an angle, or a free
// vector ("pole").
type Direction struct {
	Kind    DirectionKind
	Compass Compass
	Degrees float64
	Pole    Vector2D
}

// CompassDirection wraps a compass step.
func CompassDirection(c Compass) Direction {
	return Direction{Kind: DirectionCompass, Compass: c}
}

// RotationDirection wraps a rotation angle.
func RotationDirection(degrees float64, clockwise bool) Direction {
	if clockwise {
		return Direction{Kind: DirectionClockwise, Degrees: degrees}
	}
	return Direction{Kind: DirectionCounterClockwise, Degrees: degrees}
}

// PoleDirection wraps a free vector.
func PoleDirection(v Vector2D) Direction {
	return Direction{Kind: DirectionPole, Pole: v}
}

// Vector returns the step vector of the direction: the unit offset for compass
// steps, the stored vector for poles and the zero vector for rotations.
func (d Direction) Vector() Vector2D {
	switch d.Kind {
	case DirectionCompass:
		o := d.Compass.Offset()
		return Vector2D{X: float64(o.X), Y: float64(o.Y)}
	case DirectionPole:
		return d.Pole
	}
	return Vector2D{}
}

// Apply rotates v by a rotation direction; other kinds return v unchanged.
func (d Direction) Apply(v Vector2D) Vector2D {
	switch d.Kind {
	case DirectionClockwise:
		return v.Rotate(d.Degrees)
	case DirectionCounterClockwise:
		return v.Rotate(-d.Degrees)
	}
	return v
}

func (d Direction) String() string {
	switch d.Kind {
	case DirectionCompass:
		return d.Compass.String()
	case DirectionClockwise:
		return fmt.Sprintf("cw(%.1f)", d.Degrees)
	case DirectionCounterClockwise:
		return fmt.Sprintf("ccw(%.1f)", d.Degrees)
	}
	return fmt.Sprintf("pole(%.3f,%.3f)", d.Pole.X, d.Pole.Y)
}

// Step moves p one pixel in a compass direction.
func (p PointInt) Step(c Compass) PointInt {
	o := c.Offset()
	return PointInt{X: p.X + o.X, Y: p.Y + o.Y}
}
