package vectorize

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sketch-tracer/internal/curve"
	"sketch-tracer/internal/raster"
	"sketch-tracer/internal/raster/rastertest"
	"sketch-tracer/internal/trace"
	"sketch-tracer/pkg/geometry"
)

// twoLines returns a mask with a short line on row 20 and a long one on row
// 60, in that scan order.
func twoLines(t *testing.T) (*raster.Mask, *raster.Field, []raster.RawGeometric) {
	t.Helper()
	const width, height = 300, 100
	m := raster.NewMask(width, height)
	for x := 10; x <= 40; x++ {
		m.Set(x, 20, raster.Line)
	}
	for x := 10; x <= 290; x++ {
		m.Set(x, 60, raster.Line)
	}
	f := rastertest.SegmentField(width, height,
		rastertest.Segment{A: geometry.NewPoint2D(10, 20), B: geometry.NewPoint2D(40, 20)},
		rastertest.Segment{A: geometry.NewPoint2D(10, 60), B: geometry.NewPoint2D(290, 60)},
	)
	geos, err := raster.FindGeometrics(m, 1)
	if err != nil {
		t.Fatalf("FindGeometrics: %v", err)
	}
	if len(geos) != 2 {
		t.Fatalf("got %d regions, want 2", len(geos))
	}
	return m, f, geos
}

func TestRunPreservesOrder(t *testing.T) {
	m, f, geos := twoLines(t)
	geos = append(geos, geos[0], geos[1], geos[0])

	opts := DefaultOptions()
	opts.Workers = 3
	res, err := New(opts).Run(context.Background(), geos, m, f)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Groups) != len(geos) {
		t.Fatalf("got %d groups, want %d", len(res.Groups), len(geos))
	}
	for i, g := range res.Groups {
		if g.Index != i {
			t.Errorf("group %d has index %d", i, g.Index)
		}
		if len(g.Curves) != 1 {
			t.Fatalf("group %d has %d curves, want 1", i, len(g.Curves))
		}
		wantY := geos[i].Points[0].Y
		if y := g.Curves[0].Raw[0].Y; math.Abs(y-wantY) > 1 {
			t.Errorf("group %d traced row %.0f, want %.0f", i, y, wantY)
		}
	}
	if _, ok := res.Groups[0].Curves[0].GuessOf(curve.GuessStraight); !ok {
		t.Error("horizontal line has no Straight guess")
	}
}

func TestRunIsolatesAbortedTrace(t *testing.T) {
	m, f, geos := twoLines(t)

	opts := DefaultOptions()
	opts.Trace.MaxSteps = 100
	res, err := New(opts).Run(context.Background(), geos, m, f)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff([]int{1}, res.Aborted()); diff != "" {
		t.Errorf("Aborted mismatch (-want +got):\n%s", diff)
	}
	short, long := res.Groups[0], res.Groups[1]
	if short.Aborted || len(short.Curves) != 1 {
		t.Errorf("short line: aborted=%v curves=%d", short.Aborted, len(short.Curves))
	}
	if !errors.Is(long.Err, trace.ErrTraceAborted) {
		t.Errorf("long line err = %v, want ErrTraceAborted", long.Err)
	}
	if len(long.Curves) == 0 {
		t.Error("aborted trace lost its partial line")
	}
}

func TestRunRing(t *testing.T) {
	fx := rastertest.Ring(200, 200, geometry.NewPoint2D(100, 100), 40, 2)
	res, err := New(DefaultOptions()).Run(context.Background(), []raster.RawGeometric{fx.Geometric}, fx.Mask, fx.Field)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	curves := res.Curves()
	if len(curves) != 1 {
		t.Fatalf("got %d curves, want 1", len(curves))
	}
	c := curves[0]
	if !c.Closed {
		t.Error("ring curve is not closed")
	}
	if len(c.Anchors) < 4 {
		t.Errorf("got %d anchors, want at least 4", len(c.Anchors))
	}
	g, ok := c.GuessOf(curve.GuessCircle)
	if !ok {
		t.Fatal("ring has no Circle guess")
	}
	circle := g.(curve.Circle)
	if d := circle.Center.Distance(geometry.NewPoint2D(100, 100)); d > 2 {
		t.Errorf("circle center %v is %.1f px off", circle.Center, d)
	}
	if math.Abs(circle.Radius-40) > 2 {
		t.Errorf("circle radius %.1f, want 40", circle.Radius)
	}
}

func TestRunShapeWithoutField(t *testing.T) {
	fx := rastertest.FilledDisc(120, 120, geometry.NewPoint2D(60, 60), 30)
	res, err := New(DefaultOptions()).Run(context.Background(), []raster.RawGeometric{fx.Geometric}, fx.Mask, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	curves := res.Curves()
	if len(curves) != 1 {
		t.Fatalf("got %d curves, want 1", len(curves))
	}
	if _, ok := curves[0].GuessOf(curve.GuessStraight); ok {
		t.Error("shape border got a Straight guess")
	}
	if _, ok := curves[0].GuessOf(curve.GuessCircle); !ok {
		t.Error("disc border has no Circle guess")
	}
}

func TestRunNeedsField(t *testing.T) {
	m, _, geos := twoLines(t)
	if _, err := New(DefaultOptions()).Run(context.Background(), geos, m, nil); !errors.Is(err, ErrNoField) {
		t.Errorf("err = %v, want ErrNoField", err)
	}
}

func TestRunCanceled(t *testing.T) {
	m, f, geos := twoLines(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(DefaultOptions()).Run(ctx, geos, m, f); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunAsync(t *testing.T) {
	m, f, geos := twoLines(t)
	out := <-New(DefaultOptions()).RunAsync(context.Background(), geos, m, f)
	if out.Err != nil {
		t.Fatalf("RunAsync: %v", out.Err)
	}
	if len(out.Result.Groups) != 2 {
		t.Errorf("got %d groups, want 2", len(out.Result.Groups))
	}
}
