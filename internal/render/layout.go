package render

import (
	"fmt"
	"strings"

	"github.com/ironsheep/thread-pattern-mcp/internal/geometry"
)

// Legend band metrics.
const (
	LegendLineHeight  geometry.Millimeters = 6
	LegendLineMargin  geometry.Millimeters = 1.5
	LegendSwatchWidth geometry.Millimeters = 18
	LegendSwatchGap   geometry.Millimeters = 2
	LegendTextSize    geometry.Millimeters = 3
	// LegendColumnWidth is the minimum width of one legend column: a swatch
	// and a label of about 38 characters.
	LegendColumnWidth geometry.Millimeters = 90
)

// symbol glyph height relative to the cell size
const symbolScale = 0.8

// LegendPlacement puts the legend band below or above the pattern.
type LegendPlacement int

const (
	LegendBelow LegendPlacement = iota
	LegendAbove
)

func (p LegendPlacement) String() string {
	if p == LegendAbove {
		return "above"
	}
	return "below"
}

// ParseLegendPlacement accepts "below" (or empty) and "above".
func ParseLegendPlacement(s string) (LegendPlacement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "below":
		return LegendBelow, nil
	case "above":
		return LegendAbove, nil
	default:
		return 0, fmt.Errorf("unknown legend placement %q (use below or above)", s)
	}
}

// LegendStyle selects the text printed next to each swatch.
type LegendStyle int

const (
	// CatalogLabels prints "S  code name × count".
	CatalogLabels LegendStyle = iota
	// RGBLabels prints "[R, G, B] × count, symbol: S".
	RGBLabels
)

func (s LegendStyle) String() string {
	if s == RGBLabels {
		return "rgb"
	}
	return "catalog"
}

// ParseLegendStyle accepts "catalog" (or empty) and "rgb".
func ParseLegendStyle(s string) (LegendStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "catalog":
		return CatalogLabels, nil
	case "rgb":
		return RGBLabels, nil
	default:
		return 0, fmt.Errorf("unknown legend text %q (use catalog or rgb)", s)
	}
}

// LegendColumns is the number of legend columns a band of the given width
// holds; at least one.
func LegendColumns(width geometry.Millimeters) int {
	cols := int(width / LegendColumnWidth)
	if cols < 1 {
		cols = 1
	}
	return cols
}

// LegendRows is the number of lines per column needed for n records.
func LegendRows(n int, width geometry.Millimeters) int {
	if n <= 0 {
		return 0
	}
	cols := LegendColumns(width)
	return (n + cols - 1) / cols
}

// LegendBandHeight is the height of a band of the given width holding n
// records.
func LegendBandHeight(n int, width geometry.Millimeters) geometry.Millimeters {
	return geometry.Millimeters(LegendRows(n, width)) * LegendLineHeight
}

// SplitPrintable divides the printable area into the pattern workspace and
// a full-width legend band for n records laid out in columns.
func SplitPrintable(printable geometry.Rect[geometry.Millimeters], n int, placement LegendPlacement) (workspace, band geometry.Rect[geometry.Millimeters], err error) {
	h := LegendBandHeight(n, printable.Size.W)
	if h >= printable.Size.H {
		return workspace, band, fmt.Errorf("%w: legend of %d lines needs %v mm, printable height is %v mm",
			geometry.ErrDoesNotFit, n, h, printable.Size.H)
	}

	band = geometry.Rect[geometry.Millimeters]{
		Pos:  printable.Pos,
		Size: geometry.Size[geometry.Millimeters]{W: printable.Size.W, H: h},
	}
	workspace = geometry.Rect[geometry.Millimeters]{
		Pos:  geometry.Pos[geometry.Millimeters]{X: printable.Left(), Y: printable.Bottom() + h},
		Size: geometry.Size[geometry.Millimeters]{W: printable.Size.W, H: printable.Size.H - h},
	}
	if placement == LegendAbove {
		workspace.Pos.Y = printable.Bottom()
		band.Pos.Y = printable.Top() - h
	}
	return workspace, band, nil
}

// Layout is the placement of a cols×rows pattern on a sheet.
type Layout struct {
	Sheet     geometry.Sheet
	Printable geometry.Rect[geometry.Millimeters]
	Workspace geometry.Rect[geometry.Millimeters]
	Legend    geometry.Rect[geometry.Millimeters]
	Occupied  geometry.Rect[geometry.Millimeters]
	Cell      geometry.CellShape
	Cols      int
	Rows      int

	// LegendColumns and LegendRows arrange the legend lines in the band,
	// column by column.
	LegendColumns int
	LegendRows    int
}

// ComputeLayout places a cols×rows grid of cell centered in the workspace
// left over by a legend of legendLines lines. It fails with
// geometry.ErrDoesNotFit when the grid does not fit strictly inside.
func ComputeLayout(sheet geometry.Sheet, cell geometry.CellShape, cols, rows, legendLines int, placement LegendPlacement) (*Layout, error) {
	if err := sheet.Validate(); err != nil {
		return nil, err
	}
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("%w: empty %dx%d grid", geometry.ErrDoesNotFit, cols, rows)
	}
	pitch := cell.Pitch()
	if pitch <= 0 || cell.Size <= 0 {
		return nil, fmt.Errorf("invalid cell size %v mm, spacing %v mm", cell.Size, cell.Spacing)
	}

	printable := sheet.PrintableArea()
	workspace, band, err := SplitPrintable(printable, legendLines, placement)
	if err != nil {
		return nil, err
	}
	if !geometry.Fits(workspace.Size, cols, rows, pitch) {
		return nil, fmt.Errorf("%w: %dx%d cells at %v mm need %vx%v mm, workspace is %vx%v mm",
			geometry.ErrDoesNotFit, cols, rows, pitch,
			geometry.Millimeters(cols)*pitch, geometry.Millimeters(rows)*pitch,
			workspace.Size.W, workspace.Size.H)
	}
	occupied, err := workspace.Center(geometry.GridSize(cols, rows, pitch))
	if err != nil {
		return nil, err
	}

	return &Layout{
		Sheet:     sheet,
		Printable: printable,
		Workspace: workspace,
		Legend:    band,
		Occupied:  occupied,
		Cell:      cell,
		Cols:      cols,
		Rows:      rows,

		LegendColumns: LegendColumns(band.Size.W),
		LegendRows:    LegendRows(legendLines, band.Size.W),
	}, nil
}

// CellRect is the pitch-sized square of image cell (col, row). Row 0 is the
// top of the pattern while paper y grows upward, so rows are flipped.
func (l *Layout) CellRect(col, row int) geometry.Rect[geometry.Millimeters] {
	pitch := l.Cell.Pitch()
	return geometry.Rect[geometry.Millimeters]{
		Pos: geometry.Pos[geometry.Millimeters]{
			X: l.Occupied.Left() + geometry.Millimeters(col)*pitch,
			Y: l.Occupied.Bottom() + geometry.Millimeters(l.Rows-row-1)*pitch,
		},
		Size: geometry.SquareSize(pitch),
	}
}

// LegendLine is the rectangle of legend line i. Lines fill the first column
// from the top of the band, then the next one.
func (l *Layout) LegendLine(i int) geometry.Rect[geometry.Millimeters] {
	rows := l.LegendRows
	if rows < 1 {
		rows = 1
	}
	cols := l.LegendColumns
	if cols < 1 {
		cols = 1
	}
	width := l.Legend.Size.W / geometry.Millimeters(cols)
	col, row := i/rows, i%rows
	return geometry.Rect[geometry.Millimeters]{
		Pos: geometry.Pos[geometry.Millimeters]{
			X: l.Legend.Left() + geometry.Millimeters(col)*width,
			Y: l.Legend.Top() - geometry.Millimeters(row+1)*LegendLineHeight,
		},
		Size: geometry.Size[geometry.Millimeters]{W: width, H: LegendLineHeight},
	}
}
