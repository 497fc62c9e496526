package trace

import (
	"context"
	"errors"
	"math"
	"testing"

	"sketch-tracer/internal/raster/rastertest"
	"sketch-tracer/pkg/geometry"
)

func traceFixture(t *testing.T, fx rastertest.Fixture, opts Options) (*Result, error) {
	t.Helper()
	tr := NewTracer(fx.Mask, fx.Field, opts)
	return tr.Trace(context.Background(), &fx.Geometric)
}

func TestTraceHorizontalLine(t *testing.T) {
	fx := rastertest.HorizontalLine(140, 100, 20, 120, 50)
	res, err := traceFixture(t, fx, DefaultOptions())
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(res.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(res.Lines))
	}
	if n := len(res.Junctions()); n != 0 {
		t.Errorf("got %d junctions, want 0", n)
	}

	pts := res.Lines[0].Points
	a, b := pts[0], pts[len(pts)-1]
	if a.X > b.X {
		a, b = b, a
	}
	if math.Abs(a.X-20) > 2 || math.Abs(b.X-120) > 2 {
		t.Errorf("line spans x %.1f..%.1f, want about 20..120", a.X, b.X)
	}
	for _, p := range pts {
		if math.Abs(p.Y-50) > 1 {
			t.Errorf("point %v strays from row 50", p)
			break
		}
	}
}

func TestTraceT(t *testing.T) {
	fx := rastertest.T()
	res, err := traceFixture(t, fx, DefaultOptions())
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}

	junctions := res.Junctions()
	if len(junctions) != 1 {
		t.Fatalf("got %d junctions, want 1", len(junctions))
	}
	j := junctions[0]
	m := res.Magnets[j]
	if d := m.Point.Distance(geometry.NewPoint2D(70, 50)); d > 5 {
		t.Errorf("junction at %v, want within 5px of (70,50)", m.Point)
	}
	if len(m.Consumed) != 3 {
		t.Errorf("junction consumed %d directions, want 3", len(m.Consumed))
	}
	if len(m.Directions) != 0 {
		t.Errorf("junction has %d untraced directions", len(m.Directions))
	}

	if len(res.Lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(res.Lines))
	}
	for i, l := range res.Lines {
		if l.StartMagnet != j && l.EndMagnet != j {
			t.Errorf("line %d (%d -> %d) does not touch the junction", i, l.StartMagnet, l.EndMagnet)
		}
	}

	// Every arm end must be reached.
	ends := []geometry.Point2D{
		geometry.NewPoint2D(20, 50),
		geometry.NewPoint2D(120, 50),
		geometry.NewPoint2D(70, 130),
	}
	for _, e := range ends {
		found := false
		for _, l := range res.Lines {
			for _, p := range []geometry.Point2D{l.Points[0], l.Points[len(l.Points)-1]} {
				if p.Distance(e) <= 3 {
					found = true
				}
			}
		}
		if !found {
			t.Errorf("no line ends near %v", e)
		}
	}
}

// lineEndsNear reports whether some line of res starts or ends within 3px
// of p.
func lineEndsNear(res *Result, p geometry.Point2D) bool {
	for _, l := range res.Lines {
		if l.Points[0].Distance(p) <= 3 || l.Points[len(l.Points)-1].Distance(p) <= 3 {
			return true
		}
	}
	return false
}

func TestTracePlus(t *testing.T) {
	fx := rastertest.Plus()
	res, err := traceFixture(t, fx, DefaultOptions())
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}

	junctions := res.Junctions()
	if len(junctions) != 1 {
		t.Fatalf("got %d junctions, want 1", len(junctions))
	}
	j := junctions[0]
	m := res.Magnets[j]
	if d := m.Point.Distance(geometry.NewPoint2D(80, 80)); d > 5 {
		t.Errorf("junction at %v, want within 5px of (80,80)", m.Point)
	}
	if len(m.Consumed) != 4 {
		t.Errorf("junction consumed %d directions, want 4", len(m.Consumed))
	}
	if len(m.Directions) != 0 {
		t.Errorf("junction has %d untraced directions", len(m.Directions))
	}

	if len(res.Lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(res.Lines))
	}
	for i, l := range res.Lines {
		if l.StartMagnet != j && l.EndMagnet != j {
			t.Errorf("line %d (%d -> %d) does not touch the junction", i, l.StartMagnet, l.EndMagnet)
		}
	}
	for _, e := range []geometry.Point2D{
		geometry.NewPoint2D(80, 20),
		geometry.NewPoint2D(80, 140),
		geometry.NewPoint2D(20, 80),
		geometry.NewPoint2D(140, 80),
	} {
		if !lineEndsNear(res, e) {
			t.Errorf("no line ends near %v", e)
		}
	}
}

func TestTraceFromMidLine(t *testing.T) {
	fx := rastertest.HorizontalLine(140, 100, 20, 120, 50)
	// Put a middle pixel first so the walk starts halfway along the stroke
	// and the second half has to be traced backwards.
	mid := geometry.NewPoint2D(70, 50)
	points := []geometry.Point2D{mid}
	for _, p := range fx.Geometric.Points {
		if !p.Equal(mid) {
			points = append(points, p)
		}
	}
	fx.Geometric.Points = points

	res, err := traceFixture(t, fx, DefaultOptions())
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if !res.Start.Equal(mid) {
		t.Errorf("start = %v, want %v", res.Start, mid)
	}
	if len(res.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(res.Lines))
	}

	pts := res.Lines[0].Points
	if len(pts) < 90 {
		t.Errorf("line has %d points, want about 100", len(pts))
	}
	first, last := pts[0], pts[len(pts)-1]
	if math.Abs(first.X-20) > 2 || math.Abs(last.X-120) > 2 {
		t.Errorf("line runs %v -> %v, want about (20,50) -> (120,50)", first, last)
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].X < pts[i-1].X {
			t.Fatalf("point %d at %v steps back from %v", i, pts[i], pts[i-1])
		}
	}
	if l := res.Lines[0]; l.StartMagnet != -1 || l.EndMagnet != -1 {
		t.Errorf("magnets = %d -> %d, want free ends", l.StartMagnet, l.EndMagnet)
	}
}

func TestTraceRingCloses(t *testing.T) {
	fx := rastertest.Ring(200, 200, geometry.NewPoint2D(100, 100), 40, 2)
	res, err := traceFixture(t, fx, DefaultOptions())
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(res.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(res.Lines))
	}
	l := res.Lines[0]
	if l.Reason != ReasonLoop {
		t.Errorf("reason = %q, want %q", l.Reason, ReasonLoop)
	}
	if !l.IsClosed() {
		t.Error("ring line is not closed")
	}
	if n := len(res.Junctions()); n != 0 {
		t.Errorf("got %d junctions, want 0", n)
	}
}

func TestTraceMaxSteps(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxSteps = 5
	res, err := traceFixture(t, rastertest.T(), opts)
	if !errors.Is(err, ErrTraceAborted) {
		t.Fatalf("err = %v, want ErrTraceAborted", err)
	}
	if res == nil {
		t.Fatal("no partial result")
	}
	if res.Steps <= opts.MaxSteps {
		t.Errorf("steps = %d, want more than %d", res.Steps, opts.MaxSteps)
	}
}

func TestTraceCanceled(t *testing.T) {
	fx := rastertest.T()
	opts := DefaultOptions()
	opts.CheckEvery = 1
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTracer(fx.Mask, fx.Field, opts).Trace(ctx, &fx.Geometric)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestTraceEmpty(t *testing.T) {
	fx := rastertest.HorizontalLine(40, 40, 5, 30, 20)
	res, err := NewTracer(fx.Mask, fx.Field, Options{}).Trace(context.Background(), nil)
	if err != nil {
		t.Fatalf("Trace(nil): %v", err)
	}
	if len(res.Lines) != 0 {
		t.Errorf("got %d lines from nothing", len(res.Lines))
	}
}

func TestAppendStraight(t *testing.T) {
	from := geometry.NewPoint2D(0, 0)
	to := geometry.NewPoint2D(4, 0)
	got := appendStraight([]geometry.Point2D{from}, from, to)
	if len(got) != 5 {
		t.Fatalf("got %d points, want 5: %v", len(got), got)
	}
	if !got[len(got)-1].Equal(to) {
		t.Errorf("last point %v, want %v", got[len(got)-1], to)
	}
}

func TestRecenter(t *testing.T) {
	p := geometry.NewPoint2D(10, 10)
	got := recenter(p, geometry.NewPoint2D(10, 4), geometry.NewPoint2D(10, 8))
	want := geometry.NewPoint2D(10, 8)
	if !got.Equal(want) {
		t.Errorf("recenter = %v, want %v", got, want)
	}
}
