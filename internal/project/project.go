// Package project handles vectorization document files.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sketch-tracer/internal/curve"
	"sketch-tracer/internal/raster"
	"sketch-tracer/internal/vectorize"
	"sketch-tracer/internal/version"
	"sketch-tracer/pkg/geometry"
)

// CurrentVersion is the document format written by Save.
const CurrentVersion = 1

// Document is a saved vectorization: the source mask it came from and the
// curves traced from each of its regions.
type Document struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	// Generator names the program version that wrote the document.
	Generator string `json:"generator,omitempty"`

	// SourcePath is the mask image, relative to the document when possible.
	SourcePath string `json:"source,omitempty"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`

	Smoothness float64 `json:"smoothness"`
	Groups     []Group `json:"groups"`
}

// Group is the saved form of one region.
type Group struct {
	Type    string  `json:"type"`
	Curves  []Curve `json:"curves"`
	Aborted bool    `json:"aborted,omitempty"`
}

// Curve is the saved form of a curve.Curve.
type Curve struct {
	Raw              []geometry.Point2D  `json:"raw"`
	Anchors          []curve.AnchorPoint `json:"anchors"`
	Guesses          []Guess             `json:"guesses,omitempty"`
	Applied          *Guess              `json:"applied,omitempty"`
	Smoothness       float64             `json:"smoothness"`
	Closed           bool                `json:"closed"`
	FarthestDistance float64             `json:"farthest_distance,omitempty"`
}

// New creates an empty document.
func New(name string, width, height int) *Document {
	now := time.Now()
	return &Document{
		Version:    CurrentVersion,
		Name:       name,
		Created:    now,
		Modified:   now,
		Width:      width,
		Height:     height,
		Smoothness: curve.DefaultSmoothness,
	}
}

// FromResult builds a document from a vectorization result.
func FromResult(name string, mask *raster.Mask, smoothness float64, res *vectorize.Result) (*Document, error) {
	doc := New(name, mask.Width, mask.Height)
	doc.Smoothness = smoothness
	for gi, g := range res.Groups {
		grp := Group{Type: g.Type.String(), Aborted: g.Aborted}
		for ci, c := range g.Curves {
			rec, err := encodeCurve(c)
			if err != nil {
				return nil, fmt.Errorf("group %d curve %d: %w", gi, ci, err)
			}
			grp.Curves = append(grp.Curves, rec)
		}
		doc.Groups = append(doc.Groups, grp)
	}
	return doc, nil
}

// Curves decodes all curves of the document in group order.
func (d *Document) Curves() ([]*curve.Curve, error) {
	var out []*curve.Curve
	for gi, g := range d.Groups {
		for ci, rec := range g.Curves {
			c, err := rec.decode()
			if err != nil {
				return nil, fmt.Errorf("group %d curve %d: %w", gi, ci, err)
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// Load reads a document from a JSON file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Version > CurrentVersion {
		return nil, fmt.Errorf("%s: document version %d is newer than %d", path, doc.Version, CurrentVersion)
	}
	if _, err := doc.Curves(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &doc, nil
}

// Save writes the document to a JSON file.
func (d *Document) Save(path string) error {
	d.Modified = time.Now()
	d.Generator = version.String()

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetSourcePath stores the mask image path relative to the document.
func (d *Document) SetSourcePath(docPath, imagePath string) {
	rel, err := filepath.Rel(filepath.Dir(docPath), imagePath)
	if err != nil {
		d.SourcePath = imagePath
	} else {
		d.SourcePath = rel
	}
	d.Modified = time.Now()
}

// SourcePathFrom returns the absolute mask image path for a document stored
// at docPath.
func (d *Document) SourcePathFrom(docPath string) string {
	if d.SourcePath == "" {
		return ""
	}
	if filepath.IsAbs(d.SourcePath) {
		return d.SourcePath
	}
	return filepath.Join(filepath.Dir(docPath), d.SourcePath)
}

func encodeCurve(c *curve.Curve) (Curve, error) {
	rec := Curve{
		Raw:              c.Raw,
		Anchors:          c.Anchors,
		Smoothness:       c.Smoothness,
		Closed:           c.Closed,
		FarthestDistance: c.FarthestDistance,
	}
	for _, g := range c.Guesses {
		enc, err := EncodeGuess(g)
		if err != nil {
			return Curve{}, err
		}
		rec.Guesses = append(rec.Guesses, enc)
	}
	if c.Applied != nil {
		enc, err := EncodeGuess(c.Applied)
		if err != nil {
			return Curve{}, fmt.Errorf("applied: %w", err)
		}
		rec.Applied = &enc
	}
	return rec, nil
}

func (rec Curve) decode() (*curve.Curve, error) {
	c := &curve.Curve{
		Raw:              rec.Raw,
		Anchors:          rec.Anchors,
		Smoothness:       rec.Smoothness,
		Closed:           rec.Closed,
		FarthestDistance: rec.FarthestDistance,
	}
	for _, g := range rec.Guesses {
		guess, err := g.Decode()
		if err != nil {
			return nil, err
		}
		c.Guesses = append(c.Guesses, guess)
	}
	if rec.Applied != nil {
		guess, err := rec.Applied.Decode()
		if err != nil {
			return nil, err
		}
		c.Applied = guess
	}
	return c, nil
}
