// Package quantize maps every pixel of an image onto a fixed palette.
//
// The result is always an *image.Paletted whose palette is exactly the
// palette given, so every pixel is one of those colors and nothing else.
package quantize

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"

	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
)

// MaxPaletteSize is the largest palette an *image.Paletted can index.
const MaxPaletteSize = 256

var (
	// ErrEmptyPalette reports a quantize request with no colors.
	ErrEmptyPalette = errors.New("quantize: empty palette")
	// ErrEmptyImage reports an image with empty bounds.
	ErrEmptyImage = errors.New("quantize: empty image")
)

// Quantizer maps img onto palette.
type Quantizer interface {
	Quantize(img image.Image, palette []imaging.RGBColor) (*image.Paletted, error)
}

// FloydSteinberg quantizes with Floyd-Steinberg error diffusion.
type FloydSteinberg struct{}

// Quantize implements Quantizer.
func (FloydSteinberg) Quantize(img image.Image, palette []imaging.RGBColor) (*image.Paletted, error) {
	return quantize(img, palette, draw.FloydSteinberg)
}

// Nearest maps each pixel to its nearest palette color without dithering.
type Nearest struct{}

// Quantize implements Quantizer.
func (Nearest) Quantize(img image.Image, palette []imaging.RGBColor) (*image.Paletted, error) {
	return quantize(img, palette, draw.Src)
}

// ByName returns the quantizer for a dither setting: "floyd-steinberg" (or
// empty) and "none".
func ByName(name string) (Quantizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "floyd-steinberg", "floydsteinberg", "fs":
		return FloydSteinberg{}, nil
	case "none", "nearest":
		return Nearest{}, nil
	default:
		return nil, fmt.Errorf("unknown dither mode %q (use floyd-steinberg or none)", name)
	}
}

func quantize(img image.Image, palette []imaging.RGBColor, drawer draw.Drawer) (*image.Paletted, error) {
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}
	if len(palette) > MaxPaletteSize {
		return nil, fmt.Errorf("quantize: palette of %d colors exceeds %d", len(palette), MaxPaletteSize)
	}
	sr := img.Bounds()
	if sr.Empty() {
		return nil, ErrEmptyImage
	}

	pal := make(color.Palette, len(palette))
	for i, c := range palette {
		pal[i] = c.RGBA()
	}

	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
	dst := image.NewPaletted(dr, pal)
	drawer.Draw(dst, dr, img, sr.Min)
	return dst, nil
}
