// Package vectorize turns the regions of a classified mask into fitted
// curves with shape guesses.
package vectorize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"sketch-tracer/internal/bezier"
	"sketch-tracer/internal/curve"
	"sketch-tracer/internal/raster"
	"sketch-tracer/internal/shape"
	"sketch-tracer/internal/trace"
	"sketch-tracer/pkg/geometry"
)

// ErrNoField is returned when line regions are given without a direction
// field to trace them with.
var ErrNoField = errors.New("vectorize: line regions need a direction field")

// Group is the outcome for one region.
type Group struct {
	Index  int
	Type   raster.GeometricType
	Curves []*curve.Curve
	// Magnets are the start and junction points of a traced line region.
	Magnets []trace.Magnet
	// Aborted is set when tracing ran out of steps; Curves then holds the
	// lines traced up to that point and Err the reason.
	Aborted bool
	Err     error
	Steps   int
}

// Result holds one Group per input region, in input order.
type Result struct {
	Groups   []Group
	Duration time.Duration
}

// Curves returns the curves of all groups in order.
func (r *Result) Curves() []*curve.Curve {
	var out []*curve.Curve
	for _, g := range r.Groups {
		out = append(out, g.Curves...)
	}
	return out
}

// Aborted returns the indices of the groups whose trace was aborted.
func (r *Result) Aborted() []int {
	var out []int
	for _, g := range r.Groups {
		if g.Aborted {
			out = append(out, g.Index)
		}
	}
	return out
}

// Vectorizer runs the trace, guess and fit pipeline over many regions.
type Vectorizer struct {
	Options Options
}

// New returns a Vectorizer with opts.
func New(opts Options) *Vectorizer {
	return &Vectorizer{Options: opts}
}

// Run processes geos in parallel. mask and field are only read and may be
// shared with other goroutines. A region whose trace aborts is marked in its
// Group and the batch continues; cancellation of ctx stops the batch and
// returns ctx's error.
func (v *Vectorizer) Run(ctx context.Context, geos []raster.RawGeometric, mask *raster.Mask, field *raster.Field) (*Result, error) {
	start := time.Now()
	for i := range geos {
		if geos[i].Type == raster.GeometricLine && (field == nil || mask == nil) {
			return nil, ErrNoField
		}
	}

	res := &Result{Groups: make([]Group, len(geos))}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.Options.workers())
	for i := range geos {
		g.Go(func() error {
			grp, err := v.process(gctx, &geos[i], mask, field)
			grp.Index = i
			res.Groups[i] = grp
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	res.Duration = time.Since(start)
	Logger().Info("vectorize: batch done",
		"regions", len(geos), "curves", len(res.Curves()),
		"aborted", len(res.Aborted()), "duration", res.Duration)
	return res, nil
}

// Outcome is what RunAsync delivers.
type Outcome struct {
	Result *Result
	Err    error
}

// RunAsync runs the batch in a goroutine and delivers its outcome on the
// returned channel, which is closed afterwards.
func (v *Vectorizer) RunAsync(ctx context.Context, geos []raster.RawGeometric, mask *raster.Mask, field *raster.Field) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		res, err := v.Run(ctx, geos, mask, field)
		ch <- Outcome{Result: res, Err: err}
	}()
	return ch
}

// process vectorizes one region.
func (v *Vectorizer) process(ctx context.Context, geo *raster.RawGeometric, mask *raster.Mask, field *raster.Field) (Group, error) {
	grp := Group{Type: geo.Type}
	if err := ctx.Err(); err != nil {
		return grp, err
	}

	switch geo.Type {
	case raster.GeometricShape:
		for _, border := range geo.Borders {
			if len(border) < 2 {
				continue
			}
			grp.Curves = append(grp.Curves, v.fit(border, true))
		}

	default:
		tr := trace.NewTracer(mask, field, v.Options.Trace)
		res, err := tr.Trace(ctx, geo)
		switch {
		case errors.Is(err, trace.ErrTraceAborted):
			grp.Aborted = true
			grp.Err = err
			Logger().Warn("vectorize: trace aborted", "bounds", geo.Bounds, "err", err)
		case err != nil:
			return grp, fmt.Errorf("trace region at %v: %w", geo.Bounds, err)
		}
		grp.Magnets = res.Magnets
		grp.Steps = res.Steps
		for _, line := range res.Lines {
			grp.Curves = append(grp.Curves, v.fit(line.Points, false))
		}
	}

	Logger().Debug("vectorize: region done",
		"type", geo.Type, "pixels", geo.PixelCount(), "curves", len(grp.Curves))
	return grp, nil
}

// fit guesses shapes for raw points and approximates them with Beziers.
func (v *Vectorizer) fit(raw []geometry.Point2D, isClosedShape bool) *curve.Curve {
	c := curve.New(raw)
	det := &shape.Detector{Options: v.Options.Shape}
	c.Guesses = det.Detect(c, isClosedShape)
	return bezier.New(v.Options.Smoothness).Approximate(c)
}
