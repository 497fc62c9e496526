package filter

import (
	"errors"
	"math"
	"testing"

	"sketch-tracer/internal/raster"
	"sketch-tracer/pkg/geometry"
)

func TestMinorEigenvector(t *testing.T) {
	tests := []struct {
		name          string
		jxx, jxy, jyy float64
		want          geometry.Vector2D
	}{
		{name: "vertical gradient gives horizontal tangent", jxx: 0, jxy: 0, jyy: 4, want: geometry.Vector2D{X: 1}},
		{name: "horizontal gradient gives vertical tangent", jxx: 4, jxy: 0, jyy: 0, want: geometry.Vector2D{Y: 1}},
		{name: "diagonal", jxx: 1, jxy: 1, jyy: 1, want: geometry.Vector2D{X: -1, Y: 1}.Normalized()},
		{name: "isotropic", jxx: 2, jxy: 0, jyy: 2, want: geometry.Vector2D{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := minorEigenvector(tt.jxx, tt.jxy, tt.jyy)
			if tt.want.IsZero() {
				if !got.IsZero() {
					t.Errorf("got %v, want zero", got)
				}
				return
			}
			// Eigenvectors are axial.
			if d := math.Abs(got.Dot(tt.want)); math.Abs(d-1) > 1e-9 {
				t.Errorf("got %v, want ±%v", got, tt.want)
			}
		})
	}
}

func TestDirectionFieldEmpty(t *testing.T) {
	if _, err := DirectionField(raster.NewMask(10, 10), Options{}); !errors.Is(err, ErrEmptyMask) {
		t.Errorf("err = %v, want ErrEmptyMask", err)
	}
}

func TestDirectionFieldBar(t *testing.T) {
	m := raster.NewMask(80, 40)
	for y := 16; y <= 24; y++ {
		for x := 10; x <= 70; x++ {
			m.Set(x, y, raster.Line)
		}
	}
	f, err := DirectionField(m, DefaultOptions())
	if err != nil {
		t.Fatalf("DirectionField: %v", err)
	}

	center := geometry.NewPoint2D(40, 20)
	if tan := f.TangentAt(center); math.Abs(tan.Normalized().X) < 0.95 {
		t.Errorf("tangent on the centerline = %v, want horizontal", tan)
	}
	if g := f.GradientAt(center); g.Length() > 0.3 {
		t.Errorf("gradient on the centerline = %v, want about zero", g)
	}
	// Off the centerline the gradient points toward the nearer edge.
	if g := f.GradientAt(geometry.NewPoint2D(40, 22)); g.Y <= 0 {
		t.Errorf("gradient below the centerline = %v, want pointing down", g)
	}
}

func TestSeparateShapes(t *testing.T) {
	m := raster.NewMask(60, 60)
	for y := 10; y <= 40; y++ {
		for x := 10; x <= 40; x++ {
			m.Set(x, y, raster.Line)
		}
	}
	for x := 41; x <= 55; x++ {
		m.Set(x, 25, raster.Line)
	}
	if err := SeparateShapes(m, 7); err != nil {
		t.Fatalf("SeparateShapes: %v", err)
	}
	if c := m.At(25, 25); c != raster.ShapeFill {
		t.Errorf("block center = %v, want %v", c, raster.ShapeFill)
	}
	if c := m.At(50, 25); c != raster.Line {
		t.Errorf("thin stroke = %v, want %v", c, raster.Line)
	}
}
