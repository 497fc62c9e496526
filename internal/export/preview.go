package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/gogpu/gg"

	"sketch-tracer/internal/curve"
	"sketch-tracer/internal/raster"
	"sketch-tracer/internal/trace"
	"sketch-tracer/internal/vectorize"
)

// PreviewOptions controls RenderPreview.
type PreviewOptions struct {
	StrokeWidth float64
	// Mask, when set, is drawn faded underneath the curves.
	Mask *raster.Mask
	// Magnets marks junction points with red dots.
	Magnets bool
}

// RenderPreview draws the curves of res onto a white canvas of the given
// size. With opts.Mask set the canvas takes the mask's size instead.
func RenderPreview(res *vectorize.Result, width, height int, opts PreviewOptions) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("preview size %dx%d", width, height)
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = 2
	}

	var dc *gg.Context
	if opts.Mask != nil {
		dc = gg.NewContextForImage(fadedMask(opts.Mask))
	} else {
		dc = gg.NewContext(width, height)
		dc.ClearWithColor(gg.White)
	}
	defer dc.Close()

	for _, l := range LayersFromResult(res) {
		if l.Filled {
			dc.SetRGBA(0.1, 0.3, 0.8, 0.8)
			dc.SetFillRule(gg.FillRuleEvenOdd)
			for _, c := range l.Curves {
				drawCurve(dc, c)
			}
			if err := dc.Fill(); err != nil {
				return nil, fmt.Errorf("fill %s: %w", l.ID, err)
			}
			continue
		}
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(opts.StrokeWidth)
		for _, c := range l.Curves {
			drawCurve(dc, c)
			if err := dc.Stroke(); err != nil {
				return nil, fmt.Errorf("stroke %s: %w", l.ID, err)
			}
		}
	}

	if opts.Magnets {
		dc.SetRGB(0.9, 0.1, 0.1)
		for _, g := range res.Groups {
			for _, m := range g.Magnets {
				if m.Kind != trace.MagnetJunction {
					continue
				}
				dc.DrawCircle(m.Point.X, m.Point.Y, 2*opts.StrokeWidth)
				if err := dc.Fill(); err != nil {
					return nil, fmt.Errorf("magnet: %w", err)
				}
			}
		}
	}
	return dc.Image(), nil
}

// SavePreview renders res and writes it as a PNG file.
func SavePreview(path string, res *vectorize.Result, width, height int, opts PreviewOptions) error {
	img, err := RenderPreview(res, width, height, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// drawCurve appends c to the current path of dc.
func drawCurve(dc *gg.Context, c *curve.Curve) {
	for _, el := range c.Path().Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			dc.MoveTo(e.Point.X, e.Point.Y)
		case gg.LineTo:
			dc.LineTo(e.Point.X, e.Point.Y)
		case gg.CubicTo:
			dc.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case gg.Close:
			dc.ClosePath()
		}
	}
}

// fadedMask renders foreground pixels light gray on white.
func fadedMask(m *raster.Mask) image.Image {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			v := uint8(255)
			if m.At(x, y).IsForeground() {
				v = 215
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}
