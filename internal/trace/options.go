package trace

// Options tunes the line-group tracer. Distances are in pixels, angles in
// degrees.
type Options struct {
	MaxSteps int // integration steps per component before the trace aborts

	StartGradient float64 // gradient magnitude below which a pixel lies on the skeleton
	EdgeSearch    int     // how far edges are searched on each side of the skeleton
	FreeSteps     int     // steps taken straight out of a magnet point before integrating

	JunctionSpread float64 // minimum edge-tangent spread of a suspected junction
	TurnAngle      float64 // a heading change above this in one step suggests a crossing
	ProbeCount     int     // candidates per probe path
	ProbeStride    int     // integration steps between candidates
	RayLength      int     // length of the luminance rays
	BranchLevel    float64 // luminance below which a profile minimum is a branch
	MergeAngle     float64 // branch directions closer than this are one branch
	MagnetRadius   float64 // candidates this close to a magnet point reuse it

	ExitAngle    float64 // minimum angle between incoming and exit direction
	ReverseAngle float64 // minimum angle between the start direction and its reverse

	// A first line coming back within AttractRadius of its start point, headed
	// against a free start direction by more than AttractAngle, closes a loop.
	AttractRadius float64
	AttractAngle  float64

	CheckEvery int // steps between context checks
}

// DefaultOptions returns the tuning used by the vectorizer.
func DefaultOptions() Options {
	return Options{
		MaxSteps:       20000,
		StartGradient:  1.1,
		EdgeSearch:     10,
		FreeSteps:      3,
		JunctionSpread: 35,
		TurnAngle:      60,
		ProbeCount:     5,
		ProbeStride:    3,
		RayLength:      20,
		BranchLevel:    50,
		MergeAngle:     10,
		MagnetRadius:   10,
		ExitAngle:      120,
		ReverseAngle:   140,
		AttractRadius:  10,
		AttractAngle:   160,
		CheckEvery:     256,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	setInt := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	setFloat := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	setInt(&o.MaxSteps, d.MaxSteps)
	setFloat(&o.StartGradient, d.StartGradient)
	setInt(&o.EdgeSearch, d.EdgeSearch)
	setInt(&o.FreeSteps, d.FreeSteps)
	setFloat(&o.JunctionSpread, d.JunctionSpread)
	setFloat(&o.TurnAngle, d.TurnAngle)
	setInt(&o.ProbeCount, d.ProbeCount)
	setInt(&o.ProbeStride, d.ProbeStride)
	setInt(&o.RayLength, d.RayLength)
	setFloat(&o.BranchLevel, d.BranchLevel)
	setFloat(&o.MergeAngle, d.MergeAngle)
	setFloat(&o.MagnetRadius, d.MagnetRadius)
	setFloat(&o.ExitAngle, d.ExitAngle)
	setFloat(&o.ReverseAngle, d.ReverseAngle)
	setFloat(&o.AttractRadius, d.AttractRadius)
	setFloat(&o.AttractAngle, d.AttractAngle)
	setInt(&o.CheckEvery, d.CheckEvery)
	return o
}
