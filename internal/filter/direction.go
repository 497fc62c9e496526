// Package filter estimates the direction field of a classified mask with
// OpenCV.
package filter

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"sketch-tracer/internal/raster"
	"sketch-tracer/pkg/geometry"
)

// ErrEmptyMask is returned for a mask without foreground pixels.
var ErrEmptyMask = errors.New("filter: mask has no foreground")

// Options tunes the field estimation.
type Options struct {
	// BlurKernel is the Gaussian kernel size applied to the distance map.
	// Must be odd.
	BlurKernel int
	BlurSigma  float64
	// TensorKernel is the kernel size smoothing the structure tensor.
	TensorKernel int
	TensorSigma  float64
}

// DefaultOptions returns the tuning used by the command line tool.
func DefaultOptions() Options {
	return Options{BlurKernel: 5, BlurSigma: 1.2, TensorKernel: 9, TensorSigma: 2.5}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BlurKernel <= 0 {
		o.BlurKernel = d.BlurKernel
	}
	if o.BlurKernel%2 == 0 {
		o.BlurKernel++
	}
	if o.BlurSigma <= 0 {
		o.BlurSigma = d.BlurSigma
	}
	if o.TensorKernel <= 0 {
		o.TensorKernel = d.TensorKernel
	}
	if o.TensorKernel%2 == 0 {
		o.TensorKernel++
	}
	if o.TensorSigma <= 0 {
		o.TensorSigma = d.TensorSigma
	}
	return o
}

// DirectionField computes the gradient and tangent of every pixel of m.
//
// The gradient is the negated gradient of the blurred distance map of the
// foreground: it points toward the nearest stroke edge and vanishes on the
// centerline. The tangent is the minor eigenvector of the smoothed structure
// tensor of that gradient, so it runs along the stroke.
func DirectionField(m *raster.Mask, opts Options) (*raster.Field, error) {
	if m == nil || m.Width == 0 || m.Height == 0 || m.Count() == 0 {
		return nil, ErrEmptyMask
	}
	opts = opts.withDefaults()

	fg, err := foregroundMat(m)
	if err != nil {
		return nil, err
	}
	defer fg.Close()

	dist := gocv.NewMat()
	defer dist.Close()
	labels := gocv.NewMat()
	defer labels.Close()
	gocv.DistanceTransform(fg, &dist, &labels, gocv.DistL2, gocv.DistanceMask5, gocv.DistanceLabelCComp)

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := image.Point{X: opts.BlurKernel, Y: opts.BlurKernel}
	gocv.GaussianBlur(dist, &blurred, k, opts.BlurSigma, opts.BlurSigma, gocv.BorderDefault)

	// A 3x3 Sobel sums 8 weighted differences; scale back to units per pixel.
	gx := gocv.NewMat()
	defer gx.Close()
	gy := gocv.NewMat()
	defer gy.Close()
	gocv.Sobel(blurred, &gx, gocv.MatTypeCV32F, 1, 0, 3, 0.125, 0, gocv.BorderDefault)
	gocv.Sobel(blurred, &gy, gocv.MatTypeCV32F, 0, 1, 3, 0.125, 0, gocv.BorderDefault)

	jxx, jxy, jyy := structureTensor(gx, gy, opts)
	defer jxx.Close()
	defer jxy.Close()
	defer jyy.Close()

	f := raster.NewField(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			grad := geometry.Vector2D{
				X: -float64(gx.GetFloatAt(y, x)),
				Y: -float64(gy.GetFloatAt(y, x)),
			}
			tan := minorEigenvector(
				float64(jxx.GetFloatAt(y, x)),
				float64(jxy.GetFloatAt(y, x)),
				float64(jyy.GetFloatAt(y, x)),
			)
			f.Set(x, y, grad, tan)
		}
	}
	return f, nil
}

// foregroundMat returns an 8-bit single channel image, 255 on foreground.
func foregroundMat(m *raster.Mask) (gocv.Mat, error) {
	buf := make([]byte, len(m.Pix))
	for i, c := range m.Pix {
		if c.IsForeground() {
			buf[i] = 255
		}
	}
	mat, err := gocv.NewMatFromBytes(m.Height, m.Width, gocv.MatTypeCV8UC1, buf)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("foreground mat: %w", err)
	}
	return mat, nil
}

// structureTensor returns the Gaussian-smoothed components of g gᵀ.
func structureTensor(gx, gy gocv.Mat, opts Options) (jxx, jxy, jyy gocv.Mat) {
	k := image.Point{X: opts.TensorKernel, Y: opts.TensorKernel}
	product := func(a, b gocv.Mat) gocv.Mat {
		p := gocv.NewMat()
		defer p.Close()
		gocv.Multiply(a, b, &p)
		out := gocv.NewMat()
		gocv.GaussianBlur(p, &out, k, opts.TensorSigma, opts.TensorSigma, gocv.BorderDefault)
		return out
	}
	return product(gx, gx), product(gx, gy), product(gy, gy)
}

// minorEigenvector returns the unit eigenvector of the smaller eigenvalue of
// [[jxx jxy] [jxy jyy]], or zero for an isotropic tensor.
func minorEigenvector(jxx, jxy, jyy float64) geometry.Vector2D {
	diff := jxx - jyy
	if math.Hypot(diff, 2*jxy) < 1e-9 {
		return geometry.Vector2D{}
	}
	theta := 0.5*math.Atan2(2*jxy, diff) + math.Pi/2
	return geometry.Vector2D{X: math.Cos(theta), Y: math.Sin(theta)}
}

// SeparateShapes reclassifies the filled parts of m: line pixels that
// survive a morphological opening with a size×size ellipse become ShapeFill,
// and those of them touching anything else become ShapeBorder. Strokes
// thinner than size are left alone.
func SeparateShapes(m *raster.Mask, size int) error {
	if size < 3 {
		return nil
	}
	if size%2 == 0 {
		size++
	}
	fg, err := foregroundMat(m)
	if err != nil {
		return err
	}
	defer fg.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: size, Y: size})
	defer kernel.Close()
	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(fg, &opened, gocv.MorphOpen, kernel)

	filled := make([]bool, len(m.Pix))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := y*m.Width + x
			filled[i] = m.Pix[i] == raster.Line && opened.GetUCharAt(y, x) != 0
		}
	}
	isFilled := func(x, y int) bool {
		return m.InBounds(x, y) && filled[y*m.Width+x]
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !filled[y*m.Width+x] {
				continue
			}
			class := raster.ShapeFill
			if !isFilled(x-1, y) || !isFilled(x+1, y) || !isFilled(x, y-1) || !isFilled(x, y+1) {
				class = raster.ShapeBorder
			}
			m.Set(x, y, class)
		}
	}
	return nil
}
