package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	"github.com/disintegration/imaging"
)

// PreviewOptions controls how a quantized image is blown up for inspection.
type PreviewOptions struct {
	// Scale is the number of output pixels per cell on each axis. Values
	// below 1 are treated as 1.
	Scale int

	// GridEvery draws a grid line every N cells. Zero disables the grid.
	GridEvery int

	// GridColor is a "#RRGGBB" or "#RRGGBBAA" color for the grid lines.
	// Defaults to semi-transparent red when empty or invalid.
	GridColor string
}

// PreviewResult contains a rendered preview encoded as base64 PNG.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderPreview upscales a cell image with nearest-neighbour sampling so each
// cell becomes a crisp Scale×Scale block, then overlays an optional cell grid.
func RenderPreview(img image.Image, opts PreviewOptions) *image.NRGBA {
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}
	bounds := img.Bounds()
	out := imaging.Resize(img, bounds.Dx()*scale, bounds.Dy()*scale, imaging.NearestNeighbor)
	if opts.GridEvery <= 0 {
		return out
	}

	gridColor, err := parseHexColor(opts.GridColor)
	if err != nil {
		gridColor = color.NRGBA{R: 255, A: 128}
	}
	line := image.NewUniform(gridColor)

	step := opts.GridEvery * scale
	ob := out.Bounds()
	for x := step; x < ob.Dx(); x += step {
		draw.Draw(out, image.Rect(x, 0, x+1, ob.Dy()), line, image.Point{}, draw.Over)
	}
	for y := step; y < ob.Dy(); y += step {
		draw.Draw(out, image.Rect(0, y, ob.Dx(), y+1), line, image.Point{}, draw.Over)
	}
	return out
}

// SavePreview renders a preview and writes it to path. The format is chosen
// from the file extension (png, jpg, gif, bmp, tiff).
func SavePreview(img image.Image, path string, opts PreviewOptions) error {
	if err := imaging.Save(RenderPreview(img, opts), path); err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}
	return nil
}

// EncodePreview renders a preview and returns it as base64 PNG.
func EncodePreview(img image.Image, opts PreviewOptions) (*PreviewResult, error) {
	preview := RenderPreview(img, opts)

	var buf bytes.Buffer
	if err := png.Encode(&buf, preview); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &PreviewResult{
		Width:       preview.Bounds().Dx(),
		Height:      preview.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
