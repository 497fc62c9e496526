package raster

import (
	"fmt"

	"sketch-tracer/pkg/geometry"
)

// FindGeometrics splits the foreground of m into 8-connected regions. Regions
// with fewer than minPixels pixels are dropped as noise. Regions containing
// shape pixels become shapes with a traced outer border, all others lines.
// Regions are returned in scan order of their top-left pixel.
func FindGeometrics(m *Mask, minPixels int) ([]RawGeometric, error) {
	if m == nil || m.Width == 0 || m.Height == 0 {
		return nil, ErrEmptyMask
	}

	labels := make([]int32, m.Width*m.Height)
	var result []RawGeometric
	next := int32(0)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if labels[y*m.Width+x] != 0 || !m.At(x, y).IsForeground() {
				continue
			}
			next++
			geo := flood(m, labels, geometry.PointInt{X: x, Y: y}, next)
			if geo.PixelCount() < minPixels {
				continue
			}
			if geo.Type == GeometricShape {
				label := next
				inRegion := func(p geometry.PointInt) bool {
					return m.InBounds(p.X, p.Y) && labels[p.Y*m.Width+p.X] == label
				}
				border := traceBorder(inRegion, geometry.PointInt{X: x, Y: y}, 4*geo.PixelCount()+8)
				geo.Borders = [][]geometry.Point2D{border}
			}
			result = append(result, geo)
		}
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("no region with at least %d pixels: %w", minPixels, ErrEmptyMask)
	}
	return result, nil
}

// flood collects the region around start with a breadth-first search and
// marks it with label.
func flood(m *Mask, labels []int32, start geometry.PointInt, label int32) RawGeometric {
	geo := RawGeometric{Type: GeometricLine}
	minX, minY, maxX, maxY := start.X, start.Y, start.X, start.Y

	labels[start.Y*m.Width+start.X] = label
	queue := []geometry.PointInt{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		c := m.At(cur.X, cur.Y)
		if c == ShapeFill || c == ShapeBorder {
			geo.Type = GeometricShape
		}
		geo.Points = append(geo.Points, cur.ToFloat())
		minX, maxX = min(minX, cur.X), max(maxX, cur.X)
		minY, maxY = min(minY, cur.Y), max(maxY, cur.Y)

		for _, d := range geometry.Compasses {
			n := cur.Step(d)
			if !m.InBounds(n.X, n.Y) || labels[n.Y*m.Width+n.X] != 0 || !m.At(n.X, n.Y).IsForeground() {
				continue
			}
			labels[n.Y*m.Width+n.X] = label
			queue = append(queue, n)
		}
	}

	geo.Bounds = geometry.RectInt{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
	return geo
}

// traceBorder follows the outer border of a region clockwise with Moore
// neighbour tracing. start must be the region's first pixel in scan order.
// The returned border is closed; a single pixel yields one point.
func traceBorder(inRegion func(geometry.PointInt) bool, start geometry.PointInt, limit int) []geometry.Point2D {
	// step searches clockwise around cur, starting after the backtrack
	// direction, and returns the next border pixel with its new backtrack.
	step := func(cur geometry.PointInt, back int) (geometry.PointInt, int, bool) {
		for k := 1; k <= 8; k++ {
			d := (back + k) % 8
			n := cur.Step(geometry.Compasses[d])
			if inRegion(n) {
				prev := cur.Step(geometry.Compasses[(d+7)%8])
				return n, compassIndex(prev.X-n.X, prev.Y-n.Y), true
			}
		}
		return cur, back, false
	}

	border := []geometry.Point2D{start.ToFloat()}
	cur, back, ok := step(start, int(geometry.West))
	if !ok {
		return border
	}
	second := cur
	for i := 0; i < limit; i++ {
		border = append(border, cur.ToFloat())
		n, b, _ := step(cur, back)
		if cur == start && n == second {
			break
		}
		cur, back = n, b
	}
	if !border[len(border)-1].Equal(border[0]) {
		border = append(border, border[0])
	}
	return border
}

func compassIndex(dx, dy int) int {
	for i, c := range geometry.Compasses {
		if o := c.Offset(); o.X == dx && o.Y == dy {
			return i
		}
	}
	return 0
}
