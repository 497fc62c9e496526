// Package trace follows the skeleton of stroke regions through a direction
// field and splits them into raw polylines at junctions.
//
// Tracing starts at a skeleton point of the region, integrates the tangent
// field with a midpoint scheme and keeps the walker centered between the
// stroke edges. Where the edge tangents spread apart a junction is
// suspected; probe points ahead are classified by their luminance profile
// and real junctions become magnet points whose remaining branch directions
// are traced later.
package trace

import (
	"context"
	"fmt"

	"sketch-tracer/internal/raster"
	"sketch-tracer/pkg/geometry"
)

// Tracer traces regions of one mask. A Tracer is not safe for concurrent
// use; the mask and field it reads are never modified.
type Tracer struct {
	mask  *raster.Mask
	field *raster.Field
	opts  Options

	magnets *MagnetArena
	steps   int
}

// NewTracer returns a tracer over mask and field. Zero option fields take
// their defaults.
func NewTracer(mask *raster.Mask, field *raster.Field, opts Options) *Tracer {
	opts = opts.withDefaults()
	return &Tracer{mask: mask, field: field, opts: opts, magnets: NewMagnetArena(opts.MergeAngle)}
}

// seed is where the next line begins.
type seed struct {
	magnet  int
	dir     geometry.Vector2D
	first   bool // first line of the component, may close onto its start
	reverse bool // second half of the first line, traced backwards
}

// lineEnd describes how a line ended.
type lineEnd struct {
	reason   string
	magnet   int
	incoming geometry.Vector2D // consumed branch a junction was entered by
}

// Trace follows the skeleton of geo and returns its raw lines. When the step
// budget runs out the lines traced so far are returned with an error wrapping
// ErrTraceAborted; cancellation of ctx returns them with ctx's error.
func (t *Tracer) Trace(ctx context.Context, geo *raster.RawGeometric) (*Result, error) {
	t.magnets = NewMagnetArena(t.opts.MergeAngle)
	t.steps = 0

	res := &Result{}
	if geo == nil || len(geo.Points) == 0 {
		return res, nil
	}

	start := t.findStart(geo.Points)
	res.Start = start
	startDir := t.field.TangentAt(start).Normalized()
	if startDir.IsZero() {
		Logger().Debug("trace: no tangent at start point", "x", start.X, "y", start.Y)
		return res, nil
	}
	startIdx := t.magnets.Add(start, MagnetStart, []geometry.Vector2D{startDir.Neg()})

	s := seed{magnet: startIdx, dir: startDir, first: true}
	firstLine := -1
	reverseTried := false
	for {
		points, end, err := t.traceLine(ctx, s)
		line := RawLine{Points: points, StartMagnet: s.magnet, EndMagnet: end.magnet, Reason: end.reason}
		switch {
		case s.reverse:
			firstLine = mergeReverse(res, firstLine, line)
		case len(points) >= 2:
			res.Lines = append(res.Lines, line)
			if s.first {
				firstLine = len(res.Lines) - 1
			}
		}
		if err != nil {
			res.Magnets = t.magnets.Magnets()
			res.Steps = t.steps
			Logger().Warn("trace: aborted", "steps", t.steps, "lines", len(res.Lines), "err", err)
			return res, err
		}

		if end.reason == ReasonJunction {
			if dir, ok := t.magnets.Exit(end.magnet, end.incoming, t.opts.ExitAngle); ok {
				s = seed{magnet: end.magnet, dir: dir}
				continue
			}
		}

		// An end point. The first one sends the walker back to trace the
		// other half of the first line.
		if !reverseTried {
			reverseTried = true
			if k, ok := t.magnets.widest(startIdx, startDir, t.opts.ReverseAngle); ok {
				s = seed{magnet: startIdx, dir: t.magnets.Take(startIdx, k), reverse: true}
				continue
			}
		}

		next, ok := t.magnets.NextWithDirections()
		if !ok {
			break
		}
		s = seed{magnet: next, dir: t.magnets.Take(next, 0)}
	}

	res.Magnets = t.magnets.Magnets()
	res.Steps = t.steps
	Logger().Debug("trace: component done",
		"lines", len(res.Lines), "junctions", len(res.Junctions()), "steps", t.steps)
	return res, nil
}

// mergeReverse prepends the reversed second half to the first line so the
// line reads from one end to the other. It returns the first line's index.
func mergeReverse(res *Result, firstLine int, half RawLine) int {
	rev := make([]geometry.Point2D, 0, len(half.Points))
	for i := len(half.Points) - 1; i >= 0; i-- {
		rev = append(rev, half.Points[i])
	}
	if firstLine < 0 {
		if len(rev) < 2 {
			return firstLine
		}
		res.Lines = append(res.Lines, RawLine{
			Points:      rev,
			StartMagnet: half.EndMagnet,
			EndMagnet:   half.StartMagnet,
			Reason:      half.Reason,
		})
		return len(res.Lines) - 1
	}
	first := &res.Lines[firstLine]
	// Both halves begin at the start point; keep it once.
	first.Points = append(rev, first.Points[1:]...)
	first.StartMagnet = half.EndMagnet
	return firstLine
}

// traceLine walks from the seed's magnet until the stroke ends, a junction is
// reached or, for the first line, the walk closes onto its start.
func (t *Tracer) traceLine(ctx context.Context, s seed) ([]geometry.Point2D, lineEnd, error) {
	origin := t.magnets.At(s.magnet).Point
	line := []geometry.Point2D{origin}
	end := lineEnd{reason: ReasonEnd, magnet: -1}

	heading := s.dir.Normalized()
	if heading.IsZero() {
		return line, end, nil
	}

	pos := origin
	background := 0
	// stepTo records p and reports whether the walk has left the stroke:
	// two background samples in a row.
	stepTo := func(p geometry.Point2D) bool {
		line = append(line, p)
		pos = p
		if t.mask.IsBackground(p) {
			background++
		} else {
			background = 0
		}
		return background >= 2
	}
	abort := func(err error) ([]geometry.Point2D, lineEnd, error) {
		reason := ReasonCanceled
		if ctx.Err() == nil {
			reason = ReasonMaxSteps
		}
		return t.trim(line), lineEnd{reason: reason, magnet: -1}, err
	}

	// Leave the magnet point straight along the chosen direction.
	for i := 0; i < t.opts.FreeSteps; i++ {
		if err := t.tick(ctx); err != nil {
			return abort(err)
		}
		p := pos.Move(heading, true)
		if !t.mask.IsBackground(p) {
			if left, right, bounded := t.edges(p, heading); bounded {
				p = recenter(p, left, right)
			}
		}
		if stepTo(p) {
			return t.trim(line), end, nil
		}
	}

	left, right, _ := t.edges(pos, heading)
	spread := t.spread(left, right)
	leftStartZone := false

	// arrive closes the line at junction magnet j. The branch consumed is
	// the one pointing back along heading.
	arrive := func(p geometry.Point2D, j int) ([]geometry.Point2D, lineEnd, error) {
		stepTo(p)
		line = appendStraight(line, p, t.magnets.At(j).Point)
		incoming := t.magnets.Arrive(j, heading)
		return line, lineEnd{reason: ReasonJunction, magnet: j, incoming: incoming}, nil
	}

	for {
		if err := t.tick(ctx); err != nil {
			return abort(err)
		}

		p, h, ok := t.integrate(pos, heading)
		if !ok {
			// No direction on ink: isotropic centres of crossings look
			// like this.
			if !t.mask.IsBackground(pos) {
				if j, outcome := t.resolveJunction(pos, heading); outcome == junctionFound {
					line = line[:len(line)-1]
					return arrive(pos, j)
				}
			}
			return t.trim(line), end, nil
		}
		turn := heading.AngleWith(h)
		heading = h

		if t.mask.IsBackground(p) {
			if stepTo(p) {
				return t.trim(line), end, nil
			}
			continue
		}

		left, right, bounded := t.edges(p, heading)
		current := t.spread(left, right)
		spreading := current > spread && current >= t.opts.JunctionSpread
		spread = current
		// Straight through a crossing both edges sit on the crossing bar and
		// the spread stays flat. Losing an edge or turning sharply marks it.
		crossing := !bounded || turn > t.opts.TurnAngle

		if spreading || crossing {
			j, outcome := t.resolveJunction(p, heading)
			switch {
			case outcome == junctionFound:
				return arrive(p, j)
			case outcome == junctionDeadEnd && spreading:
				stepTo(p)
				return t.trim(line), end, nil
			}
		}

		if bounded {
			p = recenter(p, left, right)
		}

		if s.first {
			if p.Distance(origin) > t.opts.AttractRadius {
				leftStartZone = true
			} else if leftStartZone {
				if k, ok := t.magnets.Attracts(s.magnet, heading, t.opts.AttractAngle); ok {
					t.magnets.Take(s.magnet, k)
					stepTo(p)
					line = appendStraight(line, p, origin)
					return line, lineEnd{reason: ReasonLoop, magnet: s.magnet}, nil
				}
			}
		}

		stepTo(p)
	}
}

// tick counts one integration step and enforces the budget and ctx.
func (t *Tracer) tick(ctx context.Context) error {
	t.steps++
	if t.steps > t.opts.MaxSteps {
		return fmt.Errorf("%w: more than %d steps", ErrTraceAborted, t.opts.MaxSteps)
	}
	if t.steps%t.opts.CheckEvery == 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("trace canceled: %w", err)
		}
	}
	return nil
}

// findStart returns a skeleton point of the region: the first raw point with
// a near-zero gradient, moved to the middle between its two edges.
func (t *Tracer) findStart(points []geometry.Point2D) geometry.Point2D {
	p := points[0]
	for _, q := range points {
		if t.field.GradientAt(q).Length() < t.opts.StartGradient {
			p = q
			break
		}
	}
	left, right, bounded := t.edges(p, t.field.TangentAt(p).Normalized())
	if !bounded {
		return p
	}
	mid := left.Midpoint(right)
	if t.mask.IsBackground(mid) {
		return p
	}
	return mid
}

// integrate takes one midpoint (second order Runge–Kutta) step along the
// tangent field. The tangent's sign is chosen to continue heading. ok is
// false where the field has no direction.
func (t *Tracer) integrate(pos geometry.Point2D, heading geometry.Vector2D) (geometry.Point2D, geometry.Vector2D, bool) {
	t1 := t.field.TangentAt(pos).Normalized()
	if t1.IsZero() {
		return pos, heading, false
	}
	forward := t1.Dot(heading) >= 0
	mid := pos.MoveHalf(t1, forward)
	if !forward {
		t1 = t1.Neg()
	}

	t2 := t.field.TangentAt(mid).Normalized()
	if t2.IsZero() {
		t2 = t1
	}
	if t2.Dot(t1) < 0 {
		t2 = t2.Neg()
	}
	return pos.Move(t2, true), t2, true
}

// edges walks from p along the gradient, or across the tangent where the
// gradient vanishes, to the first background pixel on both sides. bounded is
// false when a side has no edge within EdgeSearch; that side then reports
// its farthest sample.
func (t *Tracer) edges(p geometry.Point2D, heading geometry.Vector2D) (left, right geometry.Point2D, bounded bool) {
	dir := t.field.GradientAt(p).Normalized()
	if dir.IsZero() {
		dir = t.field.TangentAt(p).Normalized().Normal()
	}
	if dir.IsZero() {
		dir = heading.Normal()
	}
	right, okRight := t.walkToEdge(p, dir)
	left, okLeft := t.walkToEdge(p, dir.Neg())
	return left, right, okLeft && okRight
}

func (t *Tracer) walkToEdge(p geometry.Point2D, dir geometry.Vector2D) (geometry.Point2D, bool) {
	q := p
	for k := 1; k <= t.opts.EdgeSearch; k++ {
		q = p.Translate(dir.Scale(float64(k)))
		if t.mask.IsBackground(q) {
			return q, true
		}
	}
	return q, false
}

// spread is the angle between the stroke directions at two edge points.
// Tangents are axial, so the result lies in [0, 90].
func (t *Tracer) spread(left, right geometry.Point2D) float64 {
	a := t.field.TangentAt(left)
	b := t.field.TangentAt(right)
	angle := a.AngleWith(b)
	return min(angle, 180-angle)
}

// recenter moves p halfway towards the middle of its edges.
func recenter(p, left, right geometry.Point2D) geometry.Point2D {
	mid := left.Midpoint(right)
	return p.Translate(geometry.VectorBetween(p, mid).Scale(0.5))
}

// appendStraight adds unit-spaced points from from (exclusive) to to
// (inclusive).
func appendStraight(line []geometry.Point2D, from, to geometry.Point2D) []geometry.Point2D {
	v := geometry.VectorBetween(from, to)
	n := int(v.Length())
	dir := v.Normalized()
	for i := 1; i < n; i++ {
		line = append(line, from.Translate(dir.Scale(float64(i))))
	}
	if len(line) == 0 || !line[len(line)-1].Equal(to) {
		line = append(line, to)
	}
	return line
}

// trim drops trailing background samples, keeping at least the first point.
func (t *Tracer) trim(line []geometry.Point2D) []geometry.Point2D {
	n := len(line)
	for n > 1 && t.mask.IsBackground(line[n-1]) {
		n--
	}
	return line[:n]
}
