package geometry

import (
	"cmp"
	"math"
	"slices"
)

// ConvexHull returns the hull vertices using a monotone chain. Collinear
// points on the hull edges are dropped. Inputs of fewer than three points are
// copied unchanged.
func ConvexHull(points []Point2D) []Point2D {
	pts := slices.Clone(points)
	if len(pts) < 3 {
		return pts
	}
	slices.SortFunc(pts, func(a, b Point2D) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})

	hull := make([]Point2D, 0, 2*len(pts))
	chain := func(p Point2D, floor int) {
		for len(hull) > floor && crossProduct(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	for _, p := range pts {
		chain(p, 1)
	}
	lower := len(hull)
	for k := len(pts) - 2; k >= 0; k-- {
		chain(pts[k], lower)
	}
	// The last point repeats the first.
	return hull[:len(hull)-1]
}

// IsConvex reports whether every turn of the closed polygon bends the same
// way. Straight runs are ignored; fewer than three vertices is not convex.
func IsConvex(polygon []Point2D) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}
	var left, right bool
	for i := range polygon {
		switch c := crossProduct(polygon[i], polygon[(i+1)%n], polygon[(i+2)%n]); {
		case c > 0:
			left = true
		case c < 0:
			right = true
		}
		if left && right {
			return false
		}
	}
	return true
}

// PerpendicularDistance returns the distance from p to the infinite line
// through a and b. When a and b coincide it is the distance from p to a.
func PerpendicularDistance(p, a, b Point2D) float64 {
	ab := b.Sub(a)
	den := math.Hypot(ab.X, ab.Y)
	if den == 0 {
		return p.Distance(a)
	}
	return math.Abs(crossProduct(a, b, p)) / den
}

// FarthestPair returns the indices (i < j) of the two points with the largest
// mutual distance. Candidates are taken from the convex hull, so the search is
// quadratic in the hull size only. ok is false for fewer than two points.
func FarthestPair(points []Point2D) (i, j int, ok bool) {
	if len(points) < 2 {
		return 0, 0, false
	}

	hull := ConvexHull(points)
	index := make(map[Point2D]int, len(hull))
	for _, h := range hull {
		index[h] = -1
	}
	for k, p := range points {
		if v, seen := index[p]; seen && v < 0 {
			index[p] = k
		}
	}

	best := -1.0
	for a := 0; a < len(hull); a++ {
		for b := a + 1; b < len(hull); b++ {
			d := hull[a].DistanceSquared(hull[b])
			if d > best {
				best = d
				i, j = index[hull[a]], index[hull[b]]
			}
		}
	}
	if best <= 0 {
		// All points coincide
		return 0, len(points) - 1, true
	}
	if i > j {
		i, j = j, i
	}
	return i, j, true
}

// PathLength sums the segment lengths of a polyline.
func PathLength(points []Point2D) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i].Distance(points[i-1])
	}
	return total
}

// crossProduct is the z component of OA x OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
