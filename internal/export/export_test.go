package export

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"sketch-tracer/internal/curve"
	"sketch-tracer/internal/raster"
	"sketch-tracer/internal/vectorize"
	"sketch-tracer/pkg/geometry"
)

func testResult() *vectorize.Result {
	p := geometry.NewPoint2D
	line := curve.New(nil)
	line.AppendAnchor(curve.NewAnchor(p(10, 10)))
	line.AppendAnchor(curve.NewCurveAnchor(p(50, 10), p(20, 0), p(40, 20)))
	line.AppendAnchor(curve.NewAnchor(p(50, 40)))

	square := curve.New(nil)
	for _, q := range []geometry.Point2D{p(60, 60), p(90, 60), p(90, 90), p(60, 90), p(60, 60)} {
		square.AppendAnchor(curve.NewAnchor(q))
	}
	square.Closed = true

	return &vectorize.Result{Groups: []vectorize.Group{
		{Index: 0, Type: raster.GeometricLine, Curves: []*curve.Curve{line}},
		{Index: 1, Type: raster.GeometricShape, Curves: []*curve.Curve{square}},
	}}
}

func TestPathData(t *testing.T) {
	res := testResult()
	tests := []struct {
		name string
		c    *curve.Curve
		want string
	}{
		{name: "open curve", c: res.Groups[0].Curves[0], want: "M10,10 C20,0 40,20 50,10 L50,40"},
		{name: "closed polygon", c: res.Groups[1].Curves[0], want: "M60,60 L90,60 L90,90 L60,90 L60,60 Z"},
		{
			name: "applied circle",
			c:    &curve.Curve{Applied: curve.Circle{Center: geometry.NewPoint2D(5, 5), Radius: 2.5}},
			want: "M5,5 m-2.5,0 a2.5,2.5 0 1,0 5,0 a2.5,2.5 0 1,0 -5,0",
		},
		{
			name: "applied straight",
			c:    &curve.Curve{Applied: curve.Straight{Start: geometry.NewPoint2D(0.123, 1), End: geometry.NewPoint2D(2, 3)}},
			want: "M0.12,1 L2,3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PathData(tt.c); got != tt.want {
				t.Errorf("PathData = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSVG(&buf, LayersFromResult(testResult()), 100, 100, SVGOptions{Title: "a<b"})
	if err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`viewBox="0 0 100 100"`,
		`<title>a&lt;b</title>`,
		`<g id="line-0" fill="none" stroke="#000000" stroke-width="4"`,
		`<g id="shape-1" stroke="none" fill="#000000" fill-rule="evenodd">`,
		`<path d="M10,10 C20,0 40,20 50,10 L50,40"/>`,
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestRenderPreview(t *testing.T) {
	img, err := RenderPreview(testResult(), 100, 100, PreviewOptions{StrokeWidth: 3})
	if err != nil {
		t.Fatalf("RenderPreview: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("bounds = %v", b)
	}
	dark := func(x, y int) bool {
		g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
		return g.Y < 160
	}
	if !dark(50, 25) {
		t.Error("stroke of the line is missing")
	}
	if !dark(75, 75) {
		t.Error("filled shape is missing")
	}
	if dark(5, 95) {
		t.Error("background is not white")
	}
}
