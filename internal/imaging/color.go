package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
)

// RGBColor represents an RGB color with 8-bit components.
//
// RGBColor is comparable and is used as a map key for histograms and
// catalog indexes. Alpha is not modelled; patterns are always opaque.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// FromColor converts any color.Color to 8-bit RGB, dropping alpha.
//
// 16-bit components are scaled down by right-shifting 8 bits, the same
// conversion image.Image.At results go through everywhere in this package.
func FromColor(c color.Color) RGBColor {
	r, g, b, _ := c.RGBA()
	return RGBColor{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// RGBA returns the opaque color.RGBA form.
func (c RGBColor) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex formats the color as "#RRGGBB" with uppercase digits.
func (c RGBColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ChannelSum returns R+G+B (0-765).
func (c RGBColor) ChannelSum() int {
	return int(c.R) + int(c.G) + int(c.B)
}

// HSL returns the color in HSL space.
func (c RGBColor) HSL() HSLColor {
	return rgbToHSL(c.R, c.G, c.B)
}

// String implements fmt.Stringer as "[R, G, B]".
func (c RGBColor) String() string {
	return fmt.Sprintf("[%d, %d, %d]", c.R, c.G, c.B)
}

// ParseHex parses a strict "#RRGGBB" color.
//
// Unlike the lenient preview grid color parser this accepts exactly seven characters:
// a leading '#' followed by six hexadecimal digits (either case).
//
// # Errors
//
//   - missing '#' prefix
//   - length other than 7
//   - any non-hexadecimal digit
func ParseHex(s string) (RGBColor, error) {
	if len(s) == 0 || s[0] != '#' {
		return RGBColor{}, fmt.Errorf("missing '#' prefix in %q", s)
	}
	if len(s) != 7 {
		return RGBColor{}, fmt.Errorf("expected 7 characters, got %d in %q", len(s), s)
	}
	for _, ch := range s[1:] {
		if !isHexDigit(ch) {
			return RGBColor{}, fmt.Errorf("invalid hex digit %q in %q", ch, s)
		}
	}
	val, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return RGBColor{}, fmt.Errorf("failed to parse %q: %w", s, err)
	}
	return RGBColor{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val)}, nil
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// ColorResult contains a sampled color in several representations.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y).
//   - error: Non-nil if coordinates are outside the image bounds.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := FromColor(img.At(x, y))
	return &ColorResult{
		Hex: c.Hex(),
		RGB: c,
		HSL: c.HSL(),
	}, nil
}

// rgbToHSL converts 8-bit RGB values to HSL color space.
//
// Returns HSLColor with:
//   - H: 0-360 (degrees on color wheel)
//   - S: 0-100 (percentage)
//   - L: 0-100 (percentage)
func rgbToHSL(r, g, b uint8) HSLColor {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	hi := max(rf, gf, bf)
	lo := min(rf, gf, bf)

	l := (hi + lo) / 2.0

	if hi == lo {
		return HSLColor{H: 0, S: 0, L: int(l * 100)}
	}

	var s float64
	if l < 0.5 {
		s = (hi - lo) / (hi + lo)
	} else {
		s = (hi - lo) / (2.0 - hi - lo)
	}

	var h float64
	switch hi {
	case rf:
		h = (gf - bf) / (hi - lo)
		if gf < bf {
			h += 6
		}
	case gf:
		h = 2.0 + (bf-rf)/(hi-lo)
	case bf:
		h = 4.0 + (rf-gf)/(hi-lo)
	}
	h *= 60

	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}
