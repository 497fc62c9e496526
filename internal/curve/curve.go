// Package curve holds the vector output of the tracer: raw point sequences,
// their fitted Bezier anchors and the shape guesses attached to them.
package curve

import (
	"sketch-tracer/pkg/geometry"
)

// DefaultSmoothness is the smoothness a new curve is approximated with.
const DefaultSmoothness = 0.36

// AnchorPoint is a vertex of a vector path. ControlA and ControlB are the two
// control points of the cubic segment that ends at this anchor; a nil control
// point means the segment is straight on that side.
type AnchorPoint struct {
	Point    geometry.Point2D  `json:"point"`
	ControlA *geometry.Point2D `json:"control_a,omitempty"`
	ControlB *geometry.Point2D `json:"control_b,omitempty"`
}

// NewAnchor returns an anchor without control points.
func NewAnchor(p geometry.Point2D) AnchorPoint {
	return AnchorPoint{Point: p}
}

// NewCurveAnchor returns an anchor ending a cubic segment.
func NewCurveAnchor(p, controlA, controlB geometry.Point2D) AnchorPoint {
	return AnchorPoint{Point: p, ControlA: &controlA, ControlB: &controlB}
}

// IsCurved reports whether both control points are present.
func (a AnchorPoint) IsCurved() bool {
	return a.ControlA != nil && a.ControlB != nil
}

// Curve is one traced line: its raw samples, the fitted anchors and the
// shape guesses derived from it.
type Curve struct {
	Raw     []geometry.Point2D `json:"raw"`
	Anchors []AnchorPoint      `json:"anchors"`
	Guesses []Guess            `json:"-"`
	// Applied is the guess chosen to replace the fitted path, if any.
	Applied Guess `json:"-"`

	Smoothness float64 `json:"smoothness"`
	Closed     bool    `json:"closed"`
	// FarthestDistance is the largest distance between a raw point and the
	// fitted path, filled in by the approximator.
	FarthestDistance float64 `json:"farthest_distance,omitempty"`
}

// New creates a curve over raw points with the default smoothness.
func New(raw []geometry.Point2D) *Curve {
	return &Curve{Raw: raw, Smoothness: DefaultSmoothness}
}

// AppendRaw adds a raw sample.
func (c *Curve) AppendRaw(p geometry.Point2D) {
	c.Raw = append(c.Raw, p)
}

// AppendAnchor adds an anchor unless it sits on the same coordinate as the
// current last anchor. Returns false when the anchor was dropped.
func (c *Curve) AppendAnchor(a AnchorPoint) bool {
	if n := len(c.Anchors); n > 0 && c.Anchors[n-1].Point.Equal(a.Point) {
		return false
	}
	c.Anchors = append(c.Anchors, a)
	return true
}

// AppendCurve appends the anchors of other. When other starts where c ends the
// shared anchor is stored once.
func (c *Curve) AppendCurve(other *Curve) {
	for _, a := range other.Anchors {
		c.AppendAnchor(a)
	}
}

// IsRawClosed reports whether the raw samples start and end on the same point.
func (c *Curve) IsRawClosed() bool {
	return len(c.Raw) > 1 && c.Raw[0].Equal(c.Raw[len(c.Raw)-1])
}

// GuessOf returns the first guess of the given kind.
func (c *Curve) GuessOf(kind GuessKind) (Guess, bool) {
	for _, g := range c.Guesses {
		if g.Kind() == kind {
			return g, true
		}
	}
	return nil, false
}
