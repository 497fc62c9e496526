// Package polygon reduces raw traced point sequences to their characteristic
// points with an iterative Douglas–Peucker search.
package polygon

import "sketch-tracer/pkg/geometry"

// Approximator simplifies polylines with a fixed threshold.
type Approximator struct {
	// Points at a distance >= Threshold from the current chord become
	// characteristic points.
	Threshold float64
}

// New returns an Approximator with the given threshold.
func New(threshold float64) Approximator {
	return Approximator{Threshold: threshold}
}

// Approximate is shorthand for Simplify(points, a.Threshold).
func (a Approximator) Approximate(points []geometry.Point2D) []geometry.Point2D {
	return Simplify(points, a.Threshold)
}

// Simplify returns the characteristic points of a polyline. The result is a
// subsequence of points that always keeps the first and the last point.
// Closed input (first == last) is simplified without the duplicate closing
// point, which is appended again afterwards. Inputs of up to three points are
// returned unchanged.
func Simplify(points []geometry.Point2D, threshold float64) []geometry.Point2D {
	indices := Indices(points, threshold)
	out := make([]geometry.Point2D, 0, len(indices))
	for _, i := range indices {
		out = append(out, points[i])
	}
	return out
}

// Indices returns the positions of the points Simplify keeps, in order.
func Indices(points []geometry.Point2D, threshold float64) []int {
	n := len(points)
	if n <= 3 {
		return allIndices(n)
	}

	work := n
	closed := points[0].Equal(points[n-1])
	if closed {
		work--
		if work < 3 {
			return allIndices(n)
		}
	}

	keep := make([]bool, work)
	keep[0] = true
	keep[work-1] = true

	// stack holds the right ends of pending intervals; a is the current left end.
	a := 0
	stack := []int{work - 1}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		index, dist := farthest(points, a, b)
		if index >= 0 && dist >= threshold {
			keep[index] = true
			stack = append(stack, index)
			continue
		}
		// Interval [a, b] is done, continue with [b, next].
		a = b
		stack = stack[:len(stack)-1]
	}

	indices := make([]int, 0, work+1)
	for i, k := range keep {
		if k {
			indices = append(indices, i)
		}
	}
	if closed {
		indices = append(indices, n-1)
	}
	return indices
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// farthest returns the index strictly between a and b with the largest
// distance to the chord a–b, or -1 when the interval has no interior.
func farthest(points []geometry.Point2D, a, b int) (int, float64) {
	if b-a < 2 {
		return -1, 0
	}
	index := -1
	max := -1.0
	for i := a + 1; i < b; i++ {
		d := geometry.PerpendicularDistance(points[i], points[a], points[b])
		if d > max {
			max = d
			index = i
		}
	}
	return index, max
}
