package raster

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// DefaultThreshold is the luminance below which a pixel is ink.
const DefaultThreshold = 128

// LoadMask decodes an image file and classifies it with DefaultThreshold.
func LoadMask(path string) (*Mask, error) {
	return LoadMaskThreshold(path, DefaultThreshold)
}

// LoadMaskThreshold decodes an image file and classifies pixels darker than
// threshold as ink.
func LoadMaskThreshold(path string, threshold uint8) (*Mask, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mask image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mask image: %w", err)
	}

	m := FromImage(img, threshold)
	if m.Count() == 0 {
		return m, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyMask)
	}
	return m, nil
}

// FromImage classifies img: mostly transparent pixels become Transparent,
// pixels darker than threshold become Line, everything else Background.
func FromImage(img image.Image, threshold uint8) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			switch {
			case c.A < 128:
				m.Set(x-b.Min.X, y-b.Min.Y, Transparent)
			case luminance(c) < threshold:
				m.Set(x-b.Min.X, y-b.Min.Y, Line)
			}
		}
	}
	return m
}

// luminance uses the Rec. 601 weights.
func luminance(c color.NRGBA) uint8 {
	return uint8((299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B)) / 1000)
}

// Image renders the mask as grayscale: ink black, shapes dark grey,
// background white.
func (m *Mask) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			v := uint8(255)
			switch m.At(x, y) {
			case Line:
				v = 0
			case ShapeFill:
				v = 64
			case ShapeBorder:
				v = 32
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

// SupportedFormats returns the list of readable mask formats.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg", ".bmp"}
}

// IsSupportedFormat reports whether path has an extension LoadMask can decode.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
