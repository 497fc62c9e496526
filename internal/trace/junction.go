package trace

import (
	"sort"

	"sketch-tracer/pkg/geometry"
)

// profileBins is the angular resolution of a luminance profile.
const profileBins = 360

// smoothingKernel is the 5-tap Gaussian applied to luminance profiles.
var smoothingKernel = [5]float64{0.06795, 0.17065, 0.5, 0.17065, 0.06795}

// candidate is a probe point ahead of a suspected junction.
type candidate struct {
	point      geometry.Point2D
	directions []geometry.Vector2D
	luminance  float64 // sum of the profile at the branch minima
}

// luminanceProfile casts profileBins rays from p. Each entry is the mean
// luminance along its ray: 255 for every background sample, 0 for ink.
func (t *Tracer) luminanceProfile(p geometry.Point2D) []float64 {
	profile := make([]float64, profileBins)
	n := t.opts.RayLength
	for i := range profile {
		dir := geometry.UnitVectorForDegrees(float64(i))
		var sum float64
		for k := 1; k <= n; k++ {
			if t.mask.IsBackground(p.Translate(dir.Scale(float64(k)))) {
				sum += 255
			}
		}
		profile[i] = sum / float64(n)
	}
	return profile
}

// smoothProfile convolves a circular profile with smoothingKernel.
func smoothProfile(in []float64) []float64 {
	n := len(in)
	out := make([]float64, n)
	for i := range in {
		var sum float64
		for k, w := range smoothingKernel {
			sum += w * in[((i+k-2)%n+n)%n]
		}
		out[i] = sum
	}
	return out
}

// profileMinima returns the bins of the local minima of a circular profile
// that lie below level. A plateau counts once, at its middle.
func profileMinima(profile []float64, level float64) []int {
	n := len(profile)
	var minima []int
	for i := 0; i < n; i++ {
		v := profile[i]
		if v >= level || profile[(i+n-1)%n] <= v {
			continue
		}
		// Walk the plateau starting at i.
		length := 1
		for length < n && profile[(i+length)%n] == v {
			length++
		}
		if length < n && profile[(i+length)%n] > v {
			minima = append(minima, (i+(length-1)/2)%n)
		}
	}
	sort.Ints(minima)
	return minima
}

// mergeMinima joins minima closer than maxGap bins, including across the
// 0/360 seam, and returns one representative (the middle one) per group.
func mergeMinima(minima []int, maxGap int, n int) []int {
	if len(minima) == 0 {
		return nil
	}
	var groups [][]int
	cur := []int{minima[0]}
	for _, m := range minima[1:] {
		if m-cur[len(cur)-1] <= maxGap {
			cur = append(cur, m)
			continue
		}
		groups = append(groups, cur)
		cur = []int{m}
	}
	groups = append(groups, cur)

	if len(groups) > 1 {
		first, last := groups[0], groups[len(groups)-1]
		if first[0]+n-last[len(last)-1] <= maxGap {
			joined := append([]int(nil), last...)
			for _, m := range first {
				joined = append(joined, m+n)
			}
			groups = append([][]int{joined}, groups[1:len(groups)-1]...)
		}
	}

	reps := make([]int, 0, len(groups))
	for _, g := range groups {
		reps = append(reps, g[len(g)/2]%n)
	}
	sort.Ints(reps)
	return reps
}

// analyze fills the branch directions of c from its luminance profile.
func (t *Tracer) analyze(c *candidate) {
	profile := smoothProfile(smoothProfile(t.luminanceProfile(c.point)))
	minima := mergeMinima(profileMinima(profile, t.opts.BranchLevel), int(t.opts.MergeAngle), profileBins)
	c.directions = c.directions[:0]
	c.luminance = 0
	for _, bin := range minima {
		c.directions = append(c.directions, geometry.UnitVectorForDegrees(float64(bin)))
		c.luminance += profile[bin]
	}
}

// probe collects junction candidates ahead of p along two paths: continued
// integration of the tangent field and straight extrapolation of heading.
func (t *Tracer) probe(p geometry.Point2D, heading geometry.Vector2D) []candidate {
	var cands []candidate
	stride, count := t.opts.ProbeStride, t.opts.ProbeCount

	pos, h := p, heading
	for i := 1; i <= stride*count; i++ {
		next, nh, ok := t.integrate(pos, h)
		if !ok {
			break
		}
		if left, right, bounded := t.edges(next, nh); bounded {
			next = recenter(next, left, right)
		}
		pos, h = next, nh
		if i%stride == 0 {
			cands = append(cands, candidate{point: pos})
		}
	}

	for i := 1; i <= count; i++ {
		cands = append(cands, candidate{point: p.Translate(heading.Scale(float64(i * stride)))})
	}
	return cands
}

// junctionOutcome is the verdict on a suspected junction.
type junctionOutcome int

const (
	junctionFound      junctionOutcome = iota
	junctionFalseAlarm                 // the probes see a plain two-way line
	junctionDeadEnd                    // fewer than two branches: the stroke ends
)

// resolveJunction decides what lies ahead of p. A junction is reported as the
// index of an existing magnet ahead within MagnetRadius of a candidate, or of
// a new magnet at the best candidate.
func (t *Tracer) resolveJunction(p geometry.Point2D, heading geometry.Vector2D) (int, junctionOutcome) {
	cands := t.probe(p, heading)
	if len(cands) == 0 {
		return -1, junctionDeadEnd
	}

	for _, c := range cands {
		i, ok := t.magnets.Nearest(c.point, t.opts.MagnetRadius)
		if !ok {
			continue
		}
		// A magnet behind the walker is where it came from.
		if geometry.VectorBetween(p, t.magnets.At(i).Point).Dot(heading) < 0 {
			continue
		}
		return i, junctionFound
	}

	best := -1
	for i := range cands {
		t.analyze(&cands[i])
		if best < 0 {
			best = i
			continue
		}
		b, c := cands[best], cands[i]
		if len(c.directions) > len(b.directions) ||
			(len(c.directions) == len(b.directions) && c.luminance < b.luminance) {
			best = i
		}
	}

	switch n := len(cands[best].directions); {
	case n < 2:
		return -1, junctionDeadEnd
	case n == 2:
		return -1, junctionFalseAlarm
	}
	c := cands[best]
	return t.magnets.Add(c.point, MagnetJunction, c.directions), junctionFound
}
