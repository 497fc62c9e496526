// Package export writes vectorized curves as SVG documents and PNG
// previews.
package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"

	"sketch-tracer/internal/curve"
	"sketch-tracer/internal/raster"
	"sketch-tracer/internal/vectorize"
)

// DefaultStrokeWidth is the stroke width of line groups.
const DefaultStrokeWidth = 4.0

// Layer is a group of curves drawn with one style: lines are stroked,
// shapes filled with the even-odd rule.
type Layer struct {
	ID     string
	Filled bool
	Curves []*curve.Curve
}

// LayersFromResult returns one layer per region of res.
func LayersFromResult(res *vectorize.Result) []Layer {
	layers := make([]Layer, 0, len(res.Groups))
	for _, g := range res.Groups {
		layers = append(layers, Layer{
			ID:     fmt.Sprintf("%s-%d", g.Type, g.Index),
			Filled: g.Type == raster.GeometricShape,
			Curves: g.Curves,
		})
	}
	return layers
}

// SVGOptions controls the look of a written document.
type SVGOptions struct {
	Title       string
	StrokeWidth float64
	Color       string
}

// WriteSVG writes layers as an SVG document of the given size.
func WriteSVG(w io.Writer, layers []Layer, width, height int, opts SVGOptions) error {
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = DefaultStrokeWidth
	}
	if opts.Color == "" {
		opts.Color = "#000000"
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"no\"?>\n")
	fmt.Fprintf(bw, "<svg width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %d %d\" version=\"1.1\" xmlns=\"http://www.w3.org/2000/svg\">\n",
		width, height, width, height)
	if opts.Title != "" {
		fmt.Fprintf(bw, "\t<title>%s</title>\n", escape(opts.Title))
	}

	for _, l := range layers {
		if l.Filled {
			fmt.Fprintf(bw, "\t<g id=\"%s\" stroke=\"none\" fill=\"%s\" fill-rule=\"evenodd\">\n", escape(l.ID), opts.Color)
		} else {
			fmt.Fprintf(bw, "\t<g id=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%s\" stroke-linecap=\"round\" stroke-linejoin=\"round\">\n",
				escape(l.ID), opts.Color, num(opts.StrokeWidth))
		}
		if l.Filled {
			// Holes of a shape must share one path for even-odd filling.
			var d []string
			for _, c := range l.Curves {
				if s := PathData(c); s != "" {
					d = append(d, s)
				}
			}
			if len(d) > 0 {
				fmt.Fprintf(bw, "\t\t<path d=\"%s\"/>\n", strings.Join(d, " "))
			}
		} else {
			for _, c := range l.Curves {
				if s := PathData(c); s != "" {
					fmt.Fprintf(bw, "\t\t<path d=\"%s\"/>\n", s)
				}
			}
		}
		fmt.Fprintf(bw, "\t</g>\n")
	}

	fmt.Fprintf(bw, "</svg>\n")
	return bw.Flush()
}

// PathData returns the SVG path data of c. An applied Circle or Straight
// guess replaces the fitted anchors.
func PathData(c *curve.Curve) string {
	switch g := c.Applied.(type) {
	case curve.Circle:
		cx, cy, r := g.Center.X, g.Center.Y, g.Radius
		return fmt.Sprintf("M%s,%s m%s,0 a%s,%s 0 1,0 %s,0 a%s,%s 0 1,0 %s,0",
			num(cx), num(cy), num(-r), num(r), num(r), num(2*r), num(r), num(r), num(-2*r))
	case curve.Straight:
		return fmt.Sprintf("M%s,%s L%s,%s", num(g.Start.X), num(g.Start.Y), num(g.End.X), num(g.End.Y))
	}

	var sb strings.Builder
	for _, el := range c.Path().Elements() {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		switch e := el.(type) {
		case gg.MoveTo:
			fmt.Fprintf(&sb, "M%s,%s", num(e.Point.X), num(e.Point.Y))
		case gg.LineTo:
			fmt.Fprintf(&sb, "L%s,%s", num(e.Point.X), num(e.Point.Y))
		case gg.CubicTo:
			fmt.Fprintf(&sb, "C%s,%s %s,%s %s,%s",
				num(e.Control1.X), num(e.Control1.Y),
				num(e.Control2.X), num(e.Control2.Y),
				num(e.Point.X), num(e.Point.Y))
		case gg.Close:
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}

// num formats v with at most two decimals.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;")

func escape(s string) string { return xmlEscaper.Replace(s) }
