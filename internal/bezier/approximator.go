// Package bezier fits cubic Bezier paths to raw traced lines.
//
// A raw line is cut at its corners (Douglas–Peucker characteristic points),
// then every piece is fitted by least squares with fixed end points. Pieces
// whose mean squared deviation stays above the threshold are split at their
// worst point and refitted until they pass or become too short to split.
// Finally the control arms around shared anchors are bent towards each other
// so that gentle joins become smooth.
package bezier

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"sketch-tracer/internal/curve"
	"sketch-tracer/internal/polygon"
	"sketch-tracer/pkg/geometry"
)

const (
	// DefaultCornerThreshold is the Douglas–Peucker threshold used to find
	// the corners a raw line is cut at before fitting.
	DefaultCornerThreshold = 5.0

	// minFitPoints is the smallest piece that gets a least-squares fit.
	minFitPoints = 5

	// Split points must leave enough samples on both sides for a refit.
	splitHeadGuard = 3
	splitTailGuard = 4

	// smoothAngle is the arm angle above which a join is considered smooth.
	smoothAngle = 140.0

	minArmLength = 1e-6
	singularTol  = 1e-9
)

// Threshold returns the mean squared deviation a fitted piece may have for
// the given smoothness (clamped to [0,1]).
func Threshold(smoothness float64) float64 {
	return 50*clamp01(smoothness) + 1
}

// Approximator fits Bezier paths with a fixed smoothness.
type Approximator struct {
	Smoothness      float64
	CornerThreshold float64
}

// New returns an Approximator using the default corner threshold.
func New(smoothness float64) *Approximator {
	return &Approximator{Smoothness: clamp01(smoothness), CornerThreshold: DefaultCornerThreshold}
}

// Approximate fits c.Raw with the given smoothness and stores the result in
// c.Anchors. It returns c.
func Approximate(c *curve.Curve, smoothness float64) *curve.Curve {
	return New(smoothness).Approximate(c)
}

// Approximate replaces c.Anchors with a fitted path for c.Raw and returns c.
func (a *Approximator) Approximate(c *curve.Curve) *curve.Curve {
	c.Anchors = nil
	c.Closed = false
	c.FarthestDistance = 0
	c.Smoothness = clamp01(a.Smoothness)

	raw := c.Raw
	switch len(raw) {
	case 0:
		return c
	case 1:
		c.AppendAnchor(curve.NewAnchor(raw[0]))
		return c
	}

	threshold := Threshold(a.Smoothness)
	corners := polygon.Indices(raw, a.CornerThreshold)
	if len(corners) < 2 {
		corners = []int{0, len(raw) - 1}
	}

	c.AppendAnchor(curve.NewAnchor(raw[0]))
	var worst float64
	for k := 0; k+1 < len(corners); k++ {
		for _, seg := range fitRange(raw, corners[k], corners[k+1], threshold) {
			worst = math.Max(worst, seg.farthest)
			if seg.straight {
				c.AppendAnchor(curve.NewAnchor(seg.end))
			} else {
				c.AppendAnchor(curve.NewCurveAnchor(seg.end, seg.v1, seg.v2))
			}
		}
	}
	c.FarthestDistance = math.Sqrt(worst)

	anchors := c.Anchors
	for k := 1; k+1 < len(anchors); k++ {
		smoothJoin(anchors[k-1].Point, anchors[k].Point, anchors[k+1].Point, anchors[k].ControlB, anchors[k+1].ControlA)
	}

	n := len(anchors)
	if n >= 3 && anchors[0].Point.Equal(anchors[n-1].Point) {
		smoothJoin(anchors[n-2].Point, anchors[0].Point, anchors[1].Point, anchors[n-1].ControlB, anchors[1].ControlA)
		anchors[n-1].Point = anchors[0].Point
		c.Closed = true
	}
	return c
}

// fitted is one accepted cubic piece.
type fitted struct {
	end      geometry.Point2D
	v1, v2   geometry.Point2D
	straight bool
	farthest float64 // squared
}

type span struct{ lo, hi int }

// fitRange fits raw[lo..hi] and returns the accepted pieces in order. The
// conceptual recursion runs on a work list so long strokes cannot exhaust the
// stack.
func fitRange(raw []geometry.Point2D, lo, hi int, threshold float64) []fitted {
	var out []fitted
	work := []span{{lo, hi}}
	for i := 0; i < len(work); {
		s := work[i]
		pts := raw[s.lo : s.hi+1]
		v0, v3 := pts[0], pts[len(pts)-1]

		if len(pts) < minFitPoints {
			v1, v2 := straightControls(v0, v3)
			_, _, far := deviation(pts, v1, v2)
			out = append(out, fitted{end: v3, straight: true, farthest: far})
			i++
			continue
		}

		v1, v2, ok := controlPoints(pts)
		if !ok {
			v1, v2 = straightControls(v0, v3)
			_, _, far := deviation(pts, v1, v2)
			out = append(out, fitted{end: v3, straight: true, farthest: far})
			i++
			continue
		}

		mean, split, far := deviation(pts, v1, v2)
		if mean < threshold || !validSplit(split, len(pts)) {
			out = append(out, fitted{end: v3, v1: v1, v2: v2, farthest: far})
			i++
			continue
		}

		// Split in place; the right half is processed right after the left.
		work[i] = span{s.lo, s.lo + split}
		work = append(work, span{})
		copy(work[i+2:], work[i+1:])
		work[i+1] = span{s.lo + split, s.hi}
	}
	return out
}

func validSplit(index, n int) bool {
	return index >= splitHeadGuard && index < n-splitTailGuard
}

// bernstein returns the cubic Bernstein basis at t.
func bernstein(t float64) (b0, b1, b2, b3 float64) {
	mt := 1 - t
	return mt * mt * mt, 3 * t * mt * mt, 3 * t * t * mt, t * t * t
}

// controlPoints solves the least-squares normal equations for the two inner
// control points with the end points fixed. Samples are parametrized
// uniformly by index. ok is false for a (near) singular system.
func controlPoints(pts []geometry.Point2D) (v1, v2 geometry.Point2D, ok bool) {
	n := len(pts)
	v0, v3 := pts[0], pts[n-1]

	var a11, a12, a22 float64
	var c1, c2 geometry.Point2D
	for i := 1; i < n-1; i++ {
		t := float64(i) / float64(n-1)
		b0, b1, b2, b3 := bernstein(t)
		a11 += b1 * b1
		a12 += b1 * b2
		a22 += b2 * b2
		r := pts[i].Sub(v0.Scale(b0)).Sub(v3.Scale(b3))
		c1 = c1.Add(r.Scale(b1))
		c2 = c2.Add(r.Scale(b2))
	}

	a := mat.NewDense(2, 2, []float64{a11, a12, a12, a22})
	if math.Abs(mat.Det(a)) <= singularTol*a11*a22 {
		return v1, v2, false
	}
	b := mat.NewDense(2, 2, []float64{c1.X, c1.Y, c2.X, c2.Y})
	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return v1, v2, false
	}

	v1 = geometry.Point2D{X: x.At(0, 0), Y: x.At(0, 1)}
	v2 = geometry.Point2D{X: x.At(1, 0), Y: x.At(1, 1)}
	if math.IsNaN(v1.X+v1.Y+v2.X+v2.Y) || math.IsInf(v1.X+v1.Y+v2.X+v2.Y, 0) {
		return v1, v2, false
	}
	return v1, v2, true
}

// straightControls places the control points on the chord so the cubic is
// the uniformly parametrized straight line.
func straightControls(v0, v3 geometry.Point2D) (geometry.Point2D, geometry.Point2D) {
	d := v3.Sub(v0)
	return v0.Add(d.Scale(1.0 / 3)), v0.Add(d.Scale(2.0 / 3))
}

// deviation returns the mean squared deviation of the interior samples from
// the cubic (v0, v1, v2, v3), the index of the worst sample and its squared
// deviation.
func deviation(pts []geometry.Point2D, v1, v2 geometry.Point2D) (mean float64, farthest int, max float64) {
	n := len(pts)
	if n < 3 {
		return 0, 0, 0
	}
	v0, v3 := pts[0], pts[n-1]
	var sum float64
	for i := 1; i < n-1; i++ {
		t := float64(i) / float64(n-1)
		b0, b1, b2, b3 := bernstein(t)
		q := v0.Scale(b0).Add(v1.Scale(b1)).Add(v2.Scale(b2)).Add(v3.Scale(b3))
		d := q.DistanceSquared(pts[i])
		sum += d
		if d > max {
			max = d
			farthest = i
		}
	}
	return sum / float64(n-2), farthest, max
}

// smoothJoin bends the incoming arm (pivot→in) and the outgoing arm
// (pivot→out) towards a straight line when they already form an angle above
// smoothAngle. Each arm takes a share of the missing angle proportional to its
// length. prev and next are the neighbouring anchors; an arm shorter than the
// straight-line control arm of its segment, a third of the chord, is left
// alone.
func smoothJoin(prev, pivot, next geometry.Point2D, in, out *geometry.Point2D) {
	if in == nil || out == nil {
		return
	}
	a := geometry.VectorBetween(pivot, *in)
	b := geometry.VectorBetween(pivot, *out)
	la, lb := a.Length(), b.Length()
	if la < minArmLength || lb < minArmLength {
		return
	}
	if la < pivot.Distance(prev)/3 || lb < pivot.Distance(next)/3 {
		return
	}

	angle := a.AngleWith(b)
	if angle <= smoothAngle || angle >= 180 {
		return
	}
	excess := 180 - angle
	shareA := excess * la / (la + lb)
	shareB := excess - shareA

	// Open the angle: turn a away from b and b away from a.
	sign := 1.0
	if a.Cross(b) < 0 {
		sign = -1
	}
	*in = pivot.Translate(a.Rotate(-sign * shareA))
	*out = pivot.Translate(b.Rotate(sign * shareB))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
