package curve

import (
	"github.com/gogpu/gg"

	"sketch-tracer/pkg/geometry"
)

// Path converts the anchors into drawing commands: MoveTo the first anchor,
// CubicTo every curved anchor and LineTo the others. Closed curves end with a
// Close element.
func (c *Curve) Path() *gg.Path {
	p := gg.NewPath()
	c.AppendTo(p)
	return p
}

// AppendTo appends the curve as a new subpath of p.
func (c *Curve) AppendTo(p *gg.Path) {
	for i, a := range c.Anchors {
		switch {
		case i == 0:
			p.MoveTo(a.Point.X, a.Point.Y)
		case a.IsCurved():
			p.CubicTo(a.ControlA.X, a.ControlA.Y, a.ControlB.X, a.ControlB.Y, a.Point.X, a.Point.Y)
		default:
			p.LineTo(a.Point.X, a.Point.Y)
		}
	}
	if c.Closed && len(c.Anchors) > 0 {
		p.Close()
	}
}

// AnchorsFromPath rebuilds anchors from drawing commands. Every MoveTo starts
// a new anchor list; only the first subpath is returned. Close is implied by
// the anchors themselves and carries no coordinates.
func AnchorsFromPath(p *gg.Path) []AnchorPoint {
	var anchors []AnchorPoint
	for _, el := range p.Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			if anchors != nil {
				return anchors
			}
			anchors = []AnchorPoint{NewAnchor(fromGG(e.Point))}
		case gg.LineTo:
			anchors = append(anchors, NewAnchor(fromGG(e.Point)))
		case gg.CubicTo:
			anchors = append(anchors, NewCurveAnchor(fromGG(e.Point), fromGG(e.Control1), fromGG(e.Control2)))
		case gg.QuadTo:
			if len(anchors) == 0 {
				continue
			}
			// Degree elevation keeps the segment exact as a cubic.
			start := anchors[len(anchors)-1].Point
			ctrl := fromGG(e.Control)
			end := fromGG(e.Point)
			c1 := start.Add(ctrl.Sub(start).Scale(2.0 / 3))
			c2 := end.Add(ctrl.Sub(end).Scale(2.0 / 3))
			anchors = append(anchors, NewCurveAnchor(end, c1, c2))
		}
	}
	return anchors
}

func fromGG(p gg.Point) geometry.Point2D {
	return geometry.Point2D{X: p.X, Y: p.Y}
}
