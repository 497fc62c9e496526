// Command sketchtrace vectorizes a black-on-white sketch mask and writes the
// curves as a JSON document, an SVG file and a PNG preview.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gogpu/gg"

	"sketch-tracer/internal/config"
	"sketch-tracer/internal/curve"
	"sketch-tracer/internal/export"
	"sketch-tracer/internal/filter"
	"sketch-tracer/internal/project"
	"sketch-tracer/internal/raster"
	"sketch-tracer/internal/trace"
	"sketch-tracer/internal/vectorize"
	"sketch-tracer/internal/version"
)

func main() {
	maskPath := flag.String("mask", "", "Path to mask image (PNG, JPEG, BMP or TIFF)")
	outPath := flag.String("out", "", "Write the JSON document here")
	svgPath := flag.String("svg", "", "Write an SVG file here")
	pngPath := flag.String("png", "", "Write a PNG preview here")
	prefsPath := flag.String("prefs", config.DefaultPath(), "Preferences file")
	savePrefs := flag.Bool("save-prefs", false, "Store the effective settings in the preferences file")
	smoothness := flag.Float64("smoothness", curve.DefaultSmoothness, "Curve smoothness 0..1")
	workers := flag.Int("workers", 0, "Regions processed in parallel (0 = one per CPU)")
	rects := flag.Bool("rects", false, "Detect rectangles and rounded rectangles")
	closure := flag.Bool("closure", false, "Detect strokes closing onto themselves")
	shapes := flag.Int("shapes", 0, "Treat blobs wider than this many pixels as filled shapes (0 = off)")
	minPixels := flag.Int("min-pixels", 8, "Ignore regions with fewer pixels")
	threshold := flag.Int("threshold", int(raster.DefaultThreshold), "Luminance below which a pixel is ink")
	maxSteps := flag.Int("max-steps", 0, "Tracing step budget per region (0 = default)")
	verbose := flag.Bool("v", false, "Log tracing details to stderr")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *maskPath == "" {
		fmt.Println("Usage: sketchtrace -mask <path> [-out doc.json] [-svg out.svg] [-png preview.png] [-smoothness 0.36] [-workers N] [-rects] [-v]")
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	vectorize.SetLogger(logger)
	gg.SetLogger(logger)

	prefs, err := config.LoadFrom(*prefsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ignoring preferences: %v\n", err)
	}
	settings := config.FromStore(prefs)

	// Flags given on the command line override preferences.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "smoothness":
			settings.Vectorize.Smoothness = *smoothness
		case "workers":
			settings.Vectorize.Workers = *workers
		case "rects":
			settings.Vectorize.Shape.DetectRectangles = *rects
		case "closure":
			settings.Vectorize.Shape.DetectClosure = *closure
		case "shapes":
			settings.ShapeSize = *shapes
		case "min-pixels":
			settings.MinPixels = *minPixels
		case "threshold":
			if *threshold >= 0 && *threshold <= 255 {
				settings.Threshold = uint8(*threshold)
			}
		case "max-steps":
			settings.Vectorize.Trace.MaxSteps = *maxSteps
		}
	})
	if *savePrefs {
		settings.Store(prefs)
		if err := prefs.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save preferences: %v\n", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *maskPath, settings, outputs{doc: *outPath, svg: *svgPath, png: *pngPath}); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type outputs struct {
	doc, svg, png string
}

func run(ctx context.Context, maskPath string, settings config.Settings, out outputs) error {
	mask, err := raster.LoadMaskThreshold(maskPath, settings.Threshold)
	if err != nil {
		return fmt.Errorf("failed to load mask: %w", err)
	}
	fmt.Printf("Loaded mask: %dx%d pixels, %d ink\n", mask.Width, mask.Height, mask.Count())

	if settings.ShapeSize > 0 {
		if err := filter.SeparateShapes(mask, settings.ShapeSize); err != nil {
			return fmt.Errorf("shape separation failed: %w", err)
		}
	}

	geos, err := raster.FindGeometrics(mask, settings.MinPixels)
	if err != nil {
		return fmt.Errorf("no regions: %w", err)
	}
	fmt.Printf("Found %d regions\n", len(geos))

	field, err := filter.DirectionField(mask, settings.Filter)
	if err != nil {
		return fmt.Errorf("direction field failed: %w", err)
	}

	fmt.Printf("\nVectorizing (smoothness %.2f)...\n", settings.Vectorize.Smoothness)
	res, err := vectorize.New(settings.Vectorize).Run(ctx, geos, mask, field)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("interrupted")
		}
		return fmt.Errorf("vectorization failed: %w", err)
	}

	printSummary(res)

	name := strings.TrimSuffix(filepath.Base(maskPath), filepath.Ext(maskPath))
	if out.doc != "" {
		doc, err := project.FromResult(name, mask, settings.Vectorize.Smoothness, res)
		if err != nil {
			return fmt.Errorf("failed to build document: %w", err)
		}
		doc.SetSourcePath(out.doc, maskPath)
		if err := doc.Save(out.doc); err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		fmt.Printf("Wrote %s\n", out.doc)
	}
	if out.svg != "" {
		f, err := os.Create(out.svg)
		if err != nil {
			return err
		}
		err = export.WriteSVG(f, export.LayersFromResult(res), mask.Width, mask.Height, export.SVGOptions{Title: name})
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("failed to write SVG: %w", err)
		}
		fmt.Printf("Wrote %s\n", out.svg)
	}
	if out.png != "" {
		opts := export.PreviewOptions{Mask: mask, Magnets: true}
		if err := export.SavePreview(out.png, res, mask.Width, mask.Height, opts); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
		fmt.Printf("Wrote %s\n", out.png)
	}
	return nil
}

func printSummary(res *vectorize.Result) {
	fmt.Printf("\n%-6s %-6s %7s %8s %10s %8s  %s\n",
		"Region", "Type", "Curves", "Anchors", "Junctions", "Steps", "Guesses")
	fmt.Println(strings.Repeat("-", 72))

	for _, g := range res.Groups {
		anchors := 0
		var kinds []string
		for _, c := range g.Curves {
			anchors += len(c.Anchors)
			if len(c.Guesses) > 0 {
				kinds = append(kinds, c.Guesses[0].Kind().String())
			}
		}
		junctions := 0
		for _, m := range g.Magnets {
			if m.Kind == trace.MagnetJunction {
				junctions++
			}
		}
		note := strings.Join(kinds, ",")
		if g.Aborted {
			note += " (aborted)"
		}
		fmt.Printf("%-6d %-6s %7d %8d %10d %8d  %s\n",
			g.Index, g.Type, len(g.Curves), anchors, junctions, g.Steps, note)
	}

	fmt.Printf("\nTotal: %d curves in %s", len(res.Curves()), res.Duration.Round(time.Millisecond))
	if n := len(res.Aborted()); n > 0 {
		fmt.Printf(", %d regions aborted", n)
	}
	fmt.Println()
}
