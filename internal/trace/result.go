package trace

import (
	"errors"

	"sketch-tracer/pkg/geometry"
)

// ErrTraceAborted is returned when a component needs more integration steps
// than Options.MaxSteps. The partial result is returned alongside.
var ErrTraceAborted = errors.New("trace aborted")

// Reasons a raw line ended.
const (
	ReasonEnd      = "end"       // the stroke ran out
	ReasonJunction = "junction"  // reached a magnet point
	ReasonLoop     = "loop"      // closed onto the start point
	ReasonMaxSteps = "max_steps" // step budget exhausted
	ReasonCanceled = "canceled"
)

// RawLine is one traced polyline before curve fitting.
type RawLine struct {
	Points      []geometry.Point2D `json:"points"`
	StartMagnet int                `json:"start_magnet"` // -1 when the line starts at a free end
	EndMagnet   int                `json:"end_magnet"`   // -1 when the line ends at a free end
	Reason      string             `json:"reason"`
}

// IsClosed reports whether the line ends where it starts.
func (l RawLine) IsClosed() bool {
	return len(l.Points) > 2 && l.Points[0].Equal(l.Points[len(l.Points)-1])
}

// Result is the outcome of tracing one component.
type Result struct {
	Lines   []RawLine
	Magnets []Magnet
	Start   geometry.Point2D
	Steps   int
}

// Junctions returns the indices of the junction magnets.
func (r *Result) Junctions() []int {
	var out []int
	for i, m := range r.Magnets {
		if m.Kind == MagnetJunction {
			out = append(out, i)
		}
	}
	return out
}
