package pipeline

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/thread-pattern-mcp/internal/geometry"
	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
	"github.com/ironsheep/thread-pattern-mcp/internal/render"
)

// FitResult is a sheet turned to match an image and the image resampled to
// one pixel per cell.
type FitResult struct {
	Sheet   geometry.Sheet
	Rotated bool
	Image   *image.NRGBA
	Cols    int
	Rows    int
}

// FitOptions parameterises Fit.
type FitOptions struct {
	// LegendLines is the number of legend lines to keep room for.
	LegendLines int
	Placement   render.LegendPlacement
	// KeepSize skips resampling; only the sheet orientation is adapted.
	KeepSize bool
}

// Fit turns sheet so that its printable area has the same vertical/not
// vertical classification as img, then resizes img to
// round(printable width / pitch) columns with a proportional height.
//
// When that grid does not fit strictly inside the printable area left over
// by the legend band, the width is reduced one column at a time until it
// does.
func Fit(sheet geometry.Sheet, cell geometry.CellShape, img image.Image, opts FitOptions) (*FitResult, error) {
	if err := sheet.Validate(); err != nil {
		return nil, err
	}
	pitch := cell.Pitch()
	if cell.Size <= 0 || pitch <= 0 {
		return nil, fmt.Errorf("%w: cell size %v mm, spacing %v mm", ErrInvalidOptions, cell.Size, cell.Spacing)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidOptions)
	}

	res := &FitResult{Sheet: sheet}
	imageVertical := b.Dy() > b.Dx()
	if imageVertical != sheet.PrintableArea().Size.IsVertical() {
		res.Sheet = sheet.Rotated()
		res.Rotated = true
		Logger().Info("sheet rotated to match image",
			"image", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
			"orientation", res.Sheet.Size.Orientation().String())
	}

	if opts.KeepSize {
		res.Image = imaging.Clone(img)
		res.Cols, res.Rows = b.Dx(), b.Dy()
		return res, nil
	}

	printable := res.Sheet.PrintableArea()
	workspace, _, err := render.SplitPrintable(printable, opts.LegendLines, opts.Placement)
	if err != nil {
		return nil, err
	}

	target := int(math.Round(float64(printable.Size.W / pitch)))
	cols := target
	for ; cols >= 1; cols-- {
		if geometry.Fits(workspace.Size, cols, heightFor(b, cols), pitch) {
			break
		}
	}
	if cols < 1 {
		return nil, fmt.Errorf("%w: no grid of %v mm cells fits %vx%v mm",
			geometry.ErrDoesNotFit, pitch, workspace.Size.W, workspace.Size.H)
	}

	resized, err := imaging.ResizeToWidth(img, cols)
	if err != nil {
		return nil, fmt.Errorf("failed to resize image: %w", err)
	}
	res.Image = resized
	res.Cols, res.Rows = resized.Bounds().Dx(), resized.Bounds().Dy()

	Logger().Debug("working size",
		"target_cols", target, "cols", res.Cols, "rows", res.Rows, "pitch_mm", float64(pitch))
	return res, nil
}

// heightFor mirrors the proportional height of imaging.ResizeToWidth.
func heightFor(b image.Rectangle, width int) int {
	h := int(float64(b.Dy())*float64(width)/float64(b.Dx()) + 0.5)
	if h < 1 {
		h = 1
	}
	return h
}
