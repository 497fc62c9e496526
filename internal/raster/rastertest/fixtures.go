// Package rastertest builds synthetic masks with analytic direction fields
// for tests.
package rastertest

import (
	"math"

	"sketch-tracer/internal/raster"
	"sketch-tracer/pkg/geometry"
)

// Fixture is a mask, its direction field and the single region it contains.
type Fixture struct {
	Mask      *raster.Mask
	Field     *raster.Field
	Geometric raster.RawGeometric
}

// Segment is a straight stroke centerline.
type Segment struct {
	A, B geometry.Point2D
}

// HorizontalLine draws a one pixel wide line on row y from x0 to x1.
func HorizontalLine(width, height, x0, x1, y int) Fixture {
	m := raster.NewMask(width, height)
	for x := x0; x <= x1; x++ {
		m.Set(x, y, raster.Line)
	}
	seg := Segment{A: pt(x0, y), B: pt(x1, y)}
	return build(m, SegmentField(width, height, seg))
}

// T draws a five pixel wide bar from (20,50) to (120,50) and a stem of the
// same width hanging from (70,50) down to (70,130).
func T() Fixture {
	const width, height = 160, 160
	m := raster.NewMask(width, height)
	for y := 48; y <= 52; y++ {
		for x := 20; x <= 120; x++ {
			m.Set(x, y, raster.Line)
		}
	}
	for y := 53; y <= 130; y++ {
		for x := 68; x <= 72; x++ {
			m.Set(x, y, raster.Line)
		}
	}
	field := SegmentField(width, height,
		Segment{A: pt(20, 50), B: pt(120, 50)},
		Segment{A: pt(70, 50), B: pt(70, 130)},
	)
	return build(m, field)
}

// Plus draws two five pixel wide bars crossing at (80,80): one on row 80 and
// one on column 80, both spanning 20..140.
func Plus() Fixture {
	const width, height = 160, 160
	m := raster.NewMask(width, height)
	for a := 20; a <= 140; a++ {
		for b := 78; b <= 82; b++ {
			m.Set(a, b, raster.Line)
			m.Set(b, a, raster.Line)
		}
	}
	field := SegmentField(width, height,
		Segment{A: pt(20, 80), B: pt(140, 80)},
		Segment{A: pt(80, 20), B: pt(80, 140)},
	)
	return build(m, field)
}

// Ring draws a circle outline of the given radius whose pixels lie within
// halfWidth of the circle. The field circulates clockwise on screen.
func Ring(width, height int, center geometry.Point2D, radius, halfWidth float64) Fixture {
	m := raster.NewMask(width, height)
	f := raster.NewField(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := pt(x, y)
			v := geometry.VectorBetween(center, p)
			d := v.Length()
			if math.Abs(d-radius) <= halfWidth {
				m.Set(x, y, raster.Line)
			}
			radial := v.Normalized()
			f.Set(x, y, radial.Scale(d-radius), radial.Normal())
		}
	}
	return build(m, f)
}

// FilledRect fills the rectangle [x0,x1]×[y0,y1] with shape pixels.
func FilledRect(width, height, x0, y0, x1, y1 int) Fixture {
	m := raster.NewMask(width, height)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c := raster.ShapeFill
			if x == x0 || x == x1 || y == y0 || y == y1 {
				c = raster.ShapeBorder
			}
			m.Set(x, y, c)
		}
	}
	return build(m, raster.NewField(width, height))
}

// FilledDisc fills a disc with shape pixels.
func FilledDisc(width, height int, center geometry.Point2D, radius float64) Fixture {
	m := raster.NewMask(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if center.Distance(pt(x, y)) <= radius {
				m.Set(x, y, raster.ShapeFill)
			}
		}
	}
	return build(m, raster.NewField(width, height))
}

// SegmentField assigns every pixel the field of its nearest segment (the
// first one on ties): the tangent runs along the segment and the gradient
// points away from it with the distance as length.
func SegmentField(width, height int, segs ...Segment) *raster.Field {
	f := raster.NewField(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := pt(x, y)
			best := math.Inf(1)
			var grad, tan geometry.Vector2D
			for _, s := range segs {
				q := nearestOnSegment(p, s)
				if d := p.Distance(q); d < best {
					best = d
					grad = geometry.VectorBetween(q, p)
					tan = geometry.VectorBetween(s.A, s.B).Normalized()
				}
			}
			f.Set(x, y, grad, tan)
		}
	}
	return f
}

func nearestOnSegment(p geometry.Point2D, s Segment) geometry.Point2D {
	ab := geometry.VectorBetween(s.A, s.B)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return s.A
	}
	t := geometry.VectorBetween(s.A, p).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return s.A.Translate(ab.Scale(t))
}

// build extracts the single region of m. Fixtures always contain exactly one
// region, so a failure is a bug in the fixture.
func build(m *raster.Mask, f *raster.Field) Fixture {
	geos, err := raster.FindGeometrics(m, 1)
	if err != nil || len(geos) != 1 {
		panic("rastertest: fixture must contain exactly one region")
	}
	return Fixture{Mask: m, Field: f, Geometric: geos[0]}
}

func pt(x, y int) geometry.Point2D {
	return geometry.Point2D{X: float64(x), Y: float64(y)}
}
