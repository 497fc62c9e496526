package curve

import (
	"sketch-tracer/pkg/geometry"
)

// GuessKind identifies the shape a guess describes.
type GuessKind int

const (
	GuessStraight GuessKind = iota
	GuessCircle
	GuessRectangle
	GuessRoundedRect
	GuessClosed
	GuessPolygon
)

func (k GuessKind) String() string {
	switch k {
	case GuessStraight:
		return "straight"
	case GuessCircle:
		return "circle"
	case GuessRectangle:
		return "rectangle"
	case GuessRoundedRect:
		return "rounded_rect"
	case GuessClosed:
		return "closed"
	case GuessPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Guess is a shape hypothesis derived from a curve. Guesses are values and
// never modify the curve they came from.
type Guess interface {
	Kind() GuessKind
	isGuess()
}

// Straight is a line from Start to End.
type Straight struct {
	Start geometry.Point2D `json:"start"`
	End   geometry.Point2D `json:"end"`
}

// Circle is a circle around Center.
type Circle struct {
	Center geometry.Point2D `json:"center"`
	Radius float64          `json:"radius"`
}

// Rectangle is a rectangle rotated by Rotation degrees around Center.
type Rectangle struct {
	Center   geometry.Point2D `json:"center"`
	Height   float64          `json:"height"`
	Width    float64          `json:"width"`
	Rotation float64          `json:"rotation"`
	Radius   float64          `json:"radius"`
}

// RoundedRect is a Rectangle whose corners are rounded with Radius.
type RoundedRect struct {
	Center   geometry.Point2D `json:"center"`
	Height   float64          `json:"height"`
	Width    float64          `json:"width"`
	Rotation float64          `json:"rotation"`
	Radius   float64          `json:"radius"`
}

// Closed marks a stroke that closes onto itself between two raw indices.
type Closed struct {
	StartIndex int `json:"start_index"`
	EndIndex   int `json:"end_index"`
}

// Polygon is the characteristic polyline of a curve.
type Polygon struct {
	Points []geometry.Point2D `json:"points"`
}

func (Straight) Kind() GuessKind    { return GuessStraight }
func (Circle) Kind() GuessKind      { return GuessCircle }
func (Rectangle) Kind() GuessKind   { return GuessRectangle }
func (RoundedRect) Kind() GuessKind { return GuessRoundedRect }
func (Closed) Kind() GuessKind      { return GuessClosed }
func (Polygon) Kind() GuessKind     { return GuessPolygon }

func (Straight) isGuess()    {}
func (Circle) isGuess()      {}
func (Rectangle) isGuess()   {}
func (RoundedRect) isGuess() {}
func (Closed) isGuess()      {}
func (Polygon) isGuess()     {}

// Corners returns the four corners of the rectangle, clockwise on screen
// starting top-left before rotation.
func (r Rectangle) Corners() [4]geometry.Point2D {
	return rectCorners(r.Center, r.Width, r.Height, r.Rotation)
}

// Corners returns the corners of the unrounded rectangle.
func (r RoundedRect) Corners() [4]geometry.Point2D {
	return rectCorners(r.Center, r.Width, r.Height, r.Rotation)
}

func rectCorners(c geometry.Point2D, w, h, rotation float64) [4]geometry.Point2D {
	hw, hh := w/2, h/2
	corners := [4]geometry.Point2D{
		{X: c.X - hw, Y: c.Y - hh},
		{X: c.X + hw, Y: c.Y - hh},
		{X: c.X + hw, Y: c.Y + hh},
		{X: c.X - hw, Y: c.Y + hh},
	}
	for i := range corners {
		corners[i] = corners[i].RotateAround(c, rotation, true)
	}
	return corners
}
