package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// ResizeToWidth scales img to the given width, deriving the height from the
// source aspect ratio. Lanczos resampling is used so thin features survive
// the heavy downscale from photo resolution to cell resolution.
//
// The height is never allowed to collapse to zero; a very wide image still
// produces at least one row.
func ResizeToWidth(img image.Image, width int) (*image.NRGBA, error) {
	if width <= 0 {
		return nil, fmt.Errorf("invalid target width %d", width)
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("cannot resize empty image %dx%d", bounds.Dx(), bounds.Dy())
	}

	height := int(float64(bounds.Dy())*float64(width)/float64(bounds.Dx()) + 0.5)
	if height < 1 {
		height = 1
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}

// Clone copies img into a fresh NRGBA buffer anchored at (0,0).
func Clone(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// Smooth applies a Gaussian blur with the given radius. A radius of zero or
// less returns the image unchanged.
//
// Smoothing before palette reduction removes sensor noise and JPEG ringing
// that would otherwise claim palette slots of their own.
func Smooth(img image.Image, radius float64) image.Image {
	if radius <= 0 {
		return img
	}
	return blur.Gaussian(img, radius)
}
