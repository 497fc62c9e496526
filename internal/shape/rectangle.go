package shape

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"sketch-tracer/internal/curve"
	"sketch-tracer/pkg/geometry"
)

const (
	diagonalTolerance = 0.05 // relative length difference of the diagonals
	minCornerAngle    = 80.0
	maxCornerAngle    = 100.0
	minRoundRadius    = 1.5
	edgeCore          = 0.6 // central share of an edge used for line fitting
)

// DetectRectangle looks for a (rounded) rectangle in a closed point ring.
// It is not part of the default guess list.
func DetectRectangle(raw []geometry.Point2D) (curve.Guess, bool) {
	_, pl, _ := detectCircle(raw)
	if !pl.ok {
		return nil, false
	}
	return detectRectangle(raw, pl)
}

func detectRectangle(raw []geometry.Point2D, pl pole) (curve.Guess, bool) {
	ring := raw
	if len(ring) > 1 && ring[0].Equal(ring[len(ring)-1]) {
		ring = ring[:len(ring)-1]
	}
	n := len(ring)
	if n < 8 || pl.end >= n {
		return nil, false
	}
	a, b := ring[pl.start], ring[pl.end]

	// Farthest point from the first diagonal on each side.
	right := chain(n, pl.start, pl.end)
	left := chain(n, pl.end, pl.start)
	di, okD := farthestFromLine(ring, right, a, b)
	ci, okC := farthestFromLine(ring, left, a, b)
	if !okD || !okC {
		return nil, false
	}
	c, d := ring[ci], ring[di]

	lenA := a.Distance(b)
	lenB := c.Distance(d)
	if math.Abs(lenA-lenB) >= lenA*diagonalTolerance {
		return nil, false
	}

	quad := []geometry.Point2D{a, d, b, c}
	for k := range quad {
		prev := quad[(k+3)%4]
		next := quad[(k+1)%4]
		angle := geometry.VectorBetween(quad[k], prev).AngleWith(geometry.VectorBetween(quad[k], next))
		if angle < minCornerAngle || angle > maxCornerAngle {
			return nil, false
		}
	}
	if !geometry.IsConvex(quad) {
		return nil, false
	}

	// Fit a line to the middle of each edge and intersect neighbours to get
	// the true corners; rounded corners pull the farthest points inwards.
	idx := []int{pl.start, di, pl.end, ci}
	var lines [4]fitLine
	for k := 0; k < 4; k++ {
		edge := chain(n, idx[k], idx[(k+1)%4])
		core := coreOf(edge)
		if len(core) < 2 {
			return nil, false
		}
		pts := make([]geometry.Point2D, len(core))
		for m, i := range core {
			pts[m] = ring[i]
		}
		l, ok := fitLineTLS(pts)
		if !ok {
			return nil, false
		}
		length := quad[k].Distance(quad[(k+1)%4])
		if l.meanDistance(pts) > 2+0.02*length {
			return nil, false
		}
		lines[k] = l
	}

	var corners [4]geometry.Point2D
	var rounding float64
	for k := 0; k < 4; k++ {
		p, ok := lines[(k+3)%4].intersect(lines[k])
		if !ok {
			return nil, false
		}
		corners[k] = p
		rounding += p.Distance(quad[k])
	}
	radius := rounding / 4 / (math.Sqrt2 - 1)

	width := corners[0].Distance(corners[1])
	height := corners[1].Distance(corners[2])
	rotation := geometry.VectorBetween(corners[0], corners[1]).Degrees()
	for rotation > 45 {
		rotation -= 90
		width, height = height, width
	}
	for rotation <= -45 {
		rotation += 90
		width, height = height, width
	}
	center := geometry.Centroid(corners[:])

	if radius < minRoundRadius {
		return curve.Rectangle{Center: center, Width: width, Height: height, Rotation: rotation}, true
	}
	radius = math.Min(radius, math.Min(width, height)/2)
	return curve.RoundedRect{Center: center, Width: width, Height: height, Rotation: rotation, Radius: radius}, true
}

// chain lists ring indices from..to (inclusive) walking forward with wrap.
func chain(n, from, to int) []int {
	out := []int{from}
	for i := from; i != to; {
		i = (i + 1) % n
		out = append(out, i)
	}
	return out
}

// coreOf drops the outer (1-edgeCore)/2 share at both ends of an edge.
func coreOf(edge []int) []int {
	cut := int(float64(len(edge)) * (1 - edgeCore) / 2)
	if len(edge)-2*cut < 2 {
		return edge
	}
	return edge[cut : len(edge)-cut]
}

func farthestFromLine(ring []geometry.Point2D, indices []int, a, b geometry.Point2D) (int, bool) {
	best, max := -1, 0.0
	for _, i := range indices[1 : len(indices)-1] {
		if d := geometry.PerpendicularDistance(ring[i], a, b); d > max {
			best, max = i, d
		}
	}
	return best, best >= 0
}

// fitLine is a line through Point along the unit Direction.
type fitLine struct {
	point     geometry.Point2D
	direction geometry.Vector2D
}

// fitLineTLS fits a total-least-squares line: through the centroid, along the
// principal eigenvector of the scatter matrix.
func fitLineTLS(pts []geometry.Point2D) (fitLine, bool) {
	o := geometry.Centroid(pts)
	var sxx, sxy, syy float64
	for _, p := range pts {
		dx, dy := p.X-o.X, p.Y-o.Y
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	var eig mat.EigenSym
	if !eig.Factorize(mat.NewSymDense(2, []float64{sxx, sxy, sxy, syy}), true) {
		return fitLine{}, false
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	// Eigenvalues are ascending; the last column is the principal axis.
	dir := geometry.Vector2D{X: vecs.At(0, 1), Y: vecs.At(1, 1)}.Normalized()
	if dir.IsZero() {
		return fitLine{}, false
	}
	return fitLine{point: o, direction: dir}, true
}

func (l fitLine) meanDistance(pts []geometry.Point2D) float64 {
	other := l.point.Translate(l.direction)
	var sum float64
	for _, p := range pts {
		sum += geometry.PerpendicularDistance(p, l.point, other)
	}
	return sum / float64(len(pts))
}

func (l fitLine) intersect(m fitLine) (geometry.Point2D, bool) {
	den := l.direction.Cross(m.direction)
	if math.Abs(den) < 1e-9 {
		return geometry.Point2D{}, false
	}
	t := geometry.VectorBetween(l.point, m.point).Cross(m.direction) / den
	return l.point.Translate(l.direction.Scale(t)), true
}
