package polygon

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"sketch-tracer/pkg/geometry"
)

func pts(xy ...float64) []geometry.Point2D {
	out := make([]geometry.Point2D, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, geometry.Point2D{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		name      string
		points    []geometry.Point2D
		threshold float64
		want      []geometry.Point2D
	}{
		{
			name:      "empty",
			points:    nil,
			threshold: 1,
			want:      []geometry.Point2D{},
		},
		{
			name:      "two points unchanged",
			points:    pts(0, 0, 5, 5),
			threshold: 1,
			want:      pts(0, 0, 5, 5),
		},
		{
			name:      "three collinear points unchanged",
			points:    pts(0, 0, 1, 0, 2, 0),
			threshold: 1,
			want:      pts(0, 0, 1, 0, 2, 0),
		},
		{
			name:      "collinear collapses to ends",
			points:    pts(0, 0, 1, 0, 2, 0, 3, 0),
			threshold: 1,
			want:      pts(0, 0, 3, 0),
		},
		{
			name:      "corner is kept",
			points:    pts(0, 0, 1, 0, 2, 0, 3, 0, 3, 1, 3, 2, 3, 3),
			threshold: 1,
			want:      pts(0, 0, 3, 0, 3, 3),
		},
		{
			name:      "small wiggle below threshold",
			points:    pts(0, 0, 1, 0.5, 2, 0, 3, 0.5, 4, 0),
			threshold: 1,
			want:      pts(0, 0, 4, 0),
		},
		{
			name:      "closed ring keeps corners and closing point",
			points:    pts(0, 0, 2, 0, 2, 2, 0, 2, 0, 0),
			threshold: 0.5,
			want:      pts(0, 0, 2, 0, 2, 2, 0, 2, 0, 0),
		},
		{
			name:      "closed ring of two points",
			points:    pts(0, 0, 2, 0, 0, 0),
			threshold: 0.5,
			want:      pts(0, 0, 2, 0, 0, 0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Simplify(tt.points, tt.threshold)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Simplify mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSimplifyDoesNotAlias(t *testing.T) {
	in := pts(0, 0, 1, 1)
	out := Simplify(in, 1)
	out[0].X = 42
	if in[0].X != 0 {
		t.Error("Simplify returned the input slice")
	}
}

func TestIndices(t *testing.T) {
	tests := []struct {
		name      string
		points    []geometry.Point2D
		threshold float64
		want      []int
	}{
		{
			name:      "corner",
			points:    pts(0, 0, 1, 0, 2, 0, 3, 0, 3, 1, 3, 2, 3, 3),
			threshold: 1,
			want:      []int{0, 3, 6},
		},
		{
			name:      "short input",
			points:    pts(0, 0, 1, 0, 2, 0),
			threshold: 1,
			want:      []int{0, 1, 2},
		},
		{
			name:      "closed ring",
			points:    pts(0, 0, 2, 0, 2, 2, 0, 2, 0, 0),
			threshold: 0.5,
			want:      []int{0, 1, 2, 3, 4},
		},
		{
			// The stroke runs out and back, ending on a coordinate it
			// already passed at index 1.
			name:      "repeated coordinate",
			points:    pts(0, 0, 5, 0, 10, 0, 5, 0),
			threshold: 1,
			want:      []int{0, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Indices(tt.points, tt.threshold)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Indices mismatch (-want +got):\n%s", diff)
			}
			simplified := Simplify(tt.points, tt.threshold)
			if len(simplified) != len(got) {
				t.Fatalf("Simplify kept %d points, Indices %d", len(simplified), len(got))
			}
			for k, i := range got {
				if !simplified[k].Equal(tt.points[i]) {
					t.Errorf("Simplify[%d] = %v, want points[%d] = %v", k, simplified[k], i, tt.points[i])
				}
			}
		})
	}
}

func TestApproximator(t *testing.T) {
	points := pts(0, 0, 4, 3, 6, 3, 10, 0)
	if got := New(4).Approximate(points); len(got) != 2 {
		t.Errorf("threshold 4 kept %d points, want 2", len(got))
	}
	if got := New(2).Approximate(points); len(got) != 3 {
		t.Errorf("threshold 2 kept %d points, want 3", len(got))
	}
}
