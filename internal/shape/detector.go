// Package shape guesses which canonical shape a traced curve was meant to be.
package shape

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"sketch-tracer/internal/curve"
	"sketch-tracer/internal/polygon"
	"sketch-tracer/pkg/geometry"
)

const (
	// StraightTolerance is the mean perpendicular deviation a straight
	// line may have.
	StraightTolerance = 20.0

	// PolygonThreshold is the Douglas–Peucker threshold of polygon guesses.
	PolygonThreshold = 2.0

	// circleEndurance scales the allowed radius deviation, n/(2π)·0.3.
	circleEndurance = 0.3

	// closureDistance is how near a stroke end must come to an earlier
	// sample to count as closing onto itself.
	closureDistance = 5.0
)

// Options switches on detectors that are not part of the default guess list.
type Options struct {
	// DetectRectangles enables rectangle and rounded-rectangle guesses.
	DetectRectangles bool
	// DetectClosure enables Closed guesses for strokes ending on themselves.
	DetectClosure bool
}

// Detector produces shape guesses for curves.
type Detector struct {
	Options Options
}

// NewDetector returns a detector with the default guess list.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns the guesses for c in a fixed order: Straight (open lines
// only), Circle, the opt-in Rectangle/RoundedRect and Closed, then Polygon.
// Detectors without a result are skipped. c is not modified.
func (d *Detector) Detect(c *curve.Curve, isClosedShape bool) []curve.Guess {
	var guesses []curve.Guess
	if len(c.Raw) == 0 {
		return guesses
	}

	if !isClosedShape {
		if g, ok := DetectStraight(c.Raw); ok {
			guesses = append(guesses, g)
		}
	}

	circle, pole, isCircle := detectCircle(c.Raw)
	if isCircle {
		guesses = append(guesses, circle)
	}

	if d.Options.DetectRectangles && pole.ok {
		if g, ok := detectRectangle(c.Raw, pole); ok {
			guesses = append(guesses, g)
		}
	}

	if d.Options.DetectClosure && !isClosedShape {
		if g, ok := DetectClosed(c.Raw); ok {
			guesses = append(guesses, g)
		}
	}

	guesses = append(guesses, DetectPolygon(c.Raw))
	return guesses
}

// DetectStraight accepts points whose mean distance to the chord between the
// first and last point is below StraightTolerance.
func DetectStraight(raw []geometry.Point2D) (curve.Straight, bool) {
	if len(raw) < 2 {
		return curve.Straight{}, false
	}
	first, last := raw[0], raw[len(raw)-1]
	if first.Equal(last) {
		return curve.Straight{}, false
	}

	var sum float64
	for _, p := range raw {
		sum += geometry.PerpendicularDistance(p, first, last)
	}
	if sum/float64(len(raw)) >= StraightTolerance {
		return curve.Straight{}, false
	}
	return curve.Straight{Start: first, End: last}, true
}

// DetectCircle accepts points lying on the circle whose diameter is the
// farthest pair of points.
func DetectCircle(raw []geometry.Point2D) (curve.Circle, bool) {
	c, _, ok := detectCircle(raw)
	return c, ok
}

// pole is the farthest pair of raw points, shared by circle and rectangle
// detection.
type pole struct {
	start, end int
	ok         bool
}

func detectCircle(raw []geometry.Point2D) (curve.Circle, pole, bool) {
	i, j, ok := geometry.FarthestPair(raw)
	if !ok || i == j {
		return curve.Circle{}, pole{}, false
	}
	pl := pole{start: i, end: j, ok: true}

	center := raw[i].Midpoint(raw[j])
	radius := raw[i].Distance(raw[j]) / 2
	endurance := float64(len(raw)) / (2 * math.Pi) * circleEndurance

	var offset float64
	var offending int
	for _, p := range raw {
		dev := math.Abs(center.Distance(p) - radius)
		if dev > endurance {
			offset += dev
			offending++
		}
	}
	if offending > 1 && offset/float64(offending) > endurance {
		return curve.Circle{}, pl, false
	}

	if c, r, ok := fitCircle(raw); ok && c.Distance(center) <= endurance && math.Abs(r-radius) <= endurance {
		center, radius = c, r
	}
	return curve.Circle{Center: center, Radius: radius}, pl, true
}

// fitCircle solves the algebraic least-squares circle
// x²+y² = 2ax + 2by + c for the center (a,b).
func fitCircle(raw []geometry.Point2D) (geometry.Point2D, float64, bool) {
	n := len(raw)
	if n < 3 {
		return geometry.Point2D{}, 0, false
	}
	// Center the data to keep the system well conditioned.
	o := geometry.Centroid(raw)
	a := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, nil)
	for k, p := range raw {
		x, y := p.X-o.X, p.Y-o.Y
		a.Set(k, 0, 2*x)
		a.Set(k, 1, 2*y)
		a.Set(k, 2, 1)
		b.SetVec(k, x*x+y*y)
	}
	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return geometry.Point2D{}, 0, false
	}
	cx, cy, c := sol.AtVec(0), sol.AtVec(1), sol.AtVec(2)
	r2 := c + cx*cx + cy*cy
	if r2 <= 0 || math.IsNaN(r2) {
		return geometry.Point2D{}, 0, false
	}
	return geometry.Point2D{X: cx + o.X, Y: cy + o.Y}, math.Sqrt(r2), true
}

// DetectPolygon always succeeds with the characteristic points of raw.
func DetectPolygon(raw []geometry.Point2D) curve.Polygon {
	return curve.Polygon{Points: polygon.Simplify(raw, PolygonThreshold)}
}

// DetectClosed finds a stroke whose end returns to one of its earlier
// samples. The first sample within closureDistance of the end, looking from
// the start, is reported. Strokes whose first and last points coincide are
// closed at index 0.
func DetectClosed(raw []geometry.Point2D) (curve.Closed, bool) {
	n := len(raw)
	if n < 4 {
		return curve.Closed{}, false
	}
	end := raw[n-1]
	limit := closureDistance * closureDistance
	for i := 0; i < n-2; i++ {
		if raw[i].DistanceSquared(end) > limit {
			continue
		}
		// The stroke must have travelled away before coming back.
		if geometry.PathLength(raw[i:]) <= 4*closureDistance {
			return curve.Closed{}, false
		}
		return curve.Closed{StartIndex: i, EndIndex: n - 1}, true
	}
	return curve.Closed{}, false
}
