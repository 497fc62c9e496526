package geometry

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestAngleWith(t *testing.T) {
	tests := []struct {
		name string
		v, w Vector2D
		want float64
	}{
		{"orthogonal", Vector2D{X: 1}, Vector2D{Y: 1}, 90},
		{"opposite", Vector2D{X: 1}, Vector2D{X: -3}, 180},
		{"same direction different length", Vector2D{X: 2, Y: 2}, Vector2D{X: 5, Y: 5}, 0},
		{"zero vector", Vector2D{}, Vector2D{X: 1}, 0},
		{"nan", Vector2D{X: math.NaN()}, Vector2D{X: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.AngleWith(tt.w)
			if math.Abs(got-tt.want) > 1e-4 {
				t.Errorf("AngleWith = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalized(t *testing.T) {
	tests := []struct {
		name string
		v    Vector2D
		want Vector2D
	}{
		{"three four five", Vector2D{X: 3, Y: 4}, Vector2D{X: 0.6, Y: 0.8}},
		{"zero stays zero", Vector2D{}, Vector2D{}},
		{"infinite is zero", Vector2D{X: math.Inf(1)}, Vector2D{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.v.Normalized(), approx); diff != "" {
				t.Errorf("Normalized mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRotateAndDegrees(t *testing.T) {
	v := Vector2D{X: 1}.Rotate(90)
	if diff := cmp.Diff(Vector2D{Y: 1}, v, approx); diff != "" {
		t.Errorf("Rotate(90) mismatch (-want +got):\n%s", diff)
	}
	if got := (Vector2D{Y: -1}).Degrees(); math.Abs(got-270) > 1e-9 {
		t.Errorf("Degrees = %v, want 270", got)
	}
}

func TestDirection(t *testing.T) {
	if got := CompassDirection(SouthWest).Vector(); got != (Vector2D{X: -1, Y: 1}) {
		t.Errorf("SouthWest vector = %v", got)
	}
	pole := Vector2D{X: 0.5, Y: -2}
	if got := PoleDirection(pole).Vector(); got != pole {
		t.Errorf("pole vector = %v, want %v", got, pole)
	}
	if got := RotationDirection(90, true).Vector(); !got.IsZero() {
		t.Errorf("rotation vector = %v, want zero", got)
	}

	cw := RotationDirection(90, true).Apply(Vector2D{X: 1})
	ccw := RotationDirection(90, false).Apply(Vector2D{X: 1})
	if math.Abs(cw.Y-1) > 1e-12 || math.Abs(ccw.Y+1) > 1e-12 {
		t.Errorf("Apply: cw %v ccw %v", cw, ccw)
	}
	if got := CompassDirection(East).Apply(Vector2D{X: 2}); got != (Vector2D{X: 2}) {
		t.Errorf("compass Apply changed the vector: %v", got)
	}

	p := PointInt{X: 3, Y: 3}
	for _, c := range Compasses {
		back := (c + 4) % 8
		if got := p.Step(c).Step(back); got != p {
			t.Errorf("%v then %v = %v, want %v", c, back, got, p)
		}
	}
}

func TestRotateAround(t *testing.T) {
	got := Point2D{X: 2, Y: 1}.RotateAround(Point2D{X: 1, Y: 1}, 90, true)
	want := Point2D{X: 1, Y: 2}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("RotateAround mismatch (-want +got):\n%s", diff)
	}
}

func TestPerpendicularDistance(t *testing.T) {
	a, b := Point2D{}, Point2D{X: 10}
	if got := PerpendicularDistance(Point2D{X: 3, Y: 5}, a, b); math.Abs(got-5) > 1e-12 {
		t.Errorf("distance to line = %v, want 5", got)
	}
	if got := PerpendicularDistance(Point2D{X: 3, Y: 4}, a, a); math.Abs(got-5) > 1e-12 {
		t.Errorf("distance to degenerate line = %v, want 5", got)
	}
}

func TestFarthestPair(t *testing.T) {
	tests := []struct {
		name   string
		points []Point2D
		i, j   int
		ok     bool
	}{
		{
			name:   "quadrilateral",
			points: []Point2D{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 10, Y: 0}, {X: 5, Y: 3}},
			i:      0, j: 2, ok: true,
		},
		{
			name:   "collinear",
			points: []Point2D{{X: 2}, {X: 0}, {X: 7}, {X: 4}},
			i:      1, j: 2, ok: true,
		},
		{
			name:   "single point",
			points: []Point2D{{X: 1, Y: 1}},
			ok:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, j, ok := FarthestPair(tt.points)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (i != tt.i || j != tt.j) {
				t.Errorf("FarthestPair = (%d, %d), want (%d, %d)", i, j, tt.i, tt.j)
			}
		})
	}
}

func TestIsConvex(t *testing.T) {
	square := []Point2D{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}
	dart := []Point2D{{X: 0, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 4}, {X: 1, Y: 2}}
	if !IsConvex(square) {
		t.Error("square is not convex")
	}
	if IsConvex(dart) {
		t.Error("dart is convex")
	}
	if IsConvex(square[:2]) {
		t.Error("two points are convex")
	}
}

func TestPathLength(t *testing.T) {
	pts := []Point2D{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 10}}
	if got := PathLength(pts); math.Abs(got-11) > 1e-12 {
		t.Errorf("PathLength = %v, want 11", got)
	}
}
