package render

import (
	"fmt"
	"image"
	"io"

	"github.com/ironsheep/thread-pattern-mcp/internal/geometry"
	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
	"github.com/ironsheep/thread-pattern-mcp/internal/legend"
)

// Stroke widths.
const (
	CellLineWidth  geometry.Points = 0.25
	GuideLineWidth geometry.Points = 0.75
)

var (
	outlineColor   = imaging.RGBColor{R: 64, G: 64, B: 64}
	printableGuide = imaging.RGBColor{R: 255}
	occupiedGuide  = imaging.RGBColor{G: 255}
	legendGuide    = imaging.RGBColor{R: 127, G: 127, B: 127}
)

// Options controls page composition.
type Options struct {
	Cell      geometry.CellShape
	Placement LegendPlacement
	Style     LegendStyle
	Guides    bool
}

// Page summarises a rendered page.
type Page struct {
	Layout      *Layout
	Cells       int
	LegendLines int
}

// Renderer composes a pattern page on a Surface.
type Renderer struct {
	surface Surface
	opts    Options
}

// NewRenderer returns a Renderer drawing on s.
func NewRenderer(s Surface, opts Options) *Renderer {
	return &Renderer{surface: s, opts: opts}
}

// Render lays img out on sheet, draws one keyed cell per pixel and the
// legend, then finishes the page into w.
//
// Layout problems are reported before the page is begun. Every pixel color
// must have a legend record. On any error the page is left unfinished and
// nothing is written to w.
func (r *Renderer) Render(w io.Writer, sheet geometry.Sheet, img image.Image, lg *legend.Legend) (*Page, error) {
	b := img.Bounds()
	layout, err := ComputeLayout(sheet, r.opts.Cell, b.Dx(), b.Dy(), lg.Len(), r.opts.Placement)
	if err != nil {
		return nil, err
	}

	if err := r.surface.BeginPage(geometry.SizeToPoints(sheet.Size)); err != nil {
		return nil, surfaceErr("begin page", err)
	}

	if r.opts.Guides {
		if err := r.drawGuides(layout); err != nil {
			return nil, err
		}
	}

	page := &Page{Layout: layout}
	for row := 0; row < layout.Rows; row++ {
		for col := 0; col < layout.Cols; col++ {
			c := imaging.FromColor(img.At(b.Min.X+col, b.Min.Y+row))
			rec, ok := lg.Lookup(c)
			if !ok {
				return nil, fmt.Errorf("%w: pixel (%d,%d) %s has no legend entry",
					legend.ErrColorMissing, col, row, c.Hex())
			}
			if err := r.drawCell(layout.CellRect(col, row), c, rec.Symbol); err != nil {
				return nil, err
			}
			page.Cells++
		}
	}

	for i, rec := range lg.Records {
		if err := r.drawLegendLine(layout.LegendLine(i), rec); err != nil {
			return nil, err
		}
		page.LegendLines++
	}

	if err := r.surface.Finish(w); err != nil {
		return nil, surfaceErr("finish page", err)
	}
	return page, nil
}

type guide struct {
	rect  geometry.Rect[geometry.Millimeters]
	color imaging.RGBColor
}

func (r *Renderer) drawGuides(l *Layout) error {
	guides := []guide{{l.Printable, printableGuide}, {l.Occupied, occupiedGuide}}
	if l.Legend.Size.H > 0 {
		guides = append(guides, guide{l.Legend, legendGuide})
	}
	for _, g := range guides {
		if err := r.surface.StrokeRect(geometry.RectToPoints(g.rect), g.color, GuideLineWidth); err != nil {
			return surfaceErr("guide", err)
		}
	}
	return nil
}

func (r *Renderer) drawCell(cell geometry.Rect[geometry.Millimeters], c imaging.RGBColor, symbol string) error {
	if err := r.surface.FillRect(geometry.RectToPoints(cell), c); err != nil {
		return surfaceErr("cell background", err)
	}

	size := r.opts.Cell.Size
	mid := cell.Midpoint()
	center := geometry.PosToPoints(mid)
	switch r.opts.Cell.Kind {
	case geometry.SquareCell:
		outline, err := cell.Center(geometry.SquareSize(size))
		if err != nil {
			return err
		}
		if err := r.surface.StrokeRect(geometry.RectToPoints(outline), outlineColor, CellLineWidth); err != nil {
			return surfaceErr("cell outline", err)
		}
	default:
		if err := r.surface.StrokeCircle(center, (size / 2).Points(), outlineColor, CellLineWidth); err != nil {
			return surfaceErr("cell outline", err)
		}
	}

	glyph := (size * symbolScale).Points()
	if err := r.surface.DrawText(symbol, center, glyph, InkFor(c), AlignCenter); err != nil {
		return surfaceErr("cell symbol", err)
	}
	return nil
}

func (r *Renderer) drawLegendLine(line geometry.Rect[geometry.Millimeters], rec legend.Record) error {
	swatch := geometry.Rect[geometry.Millimeters]{
		Pos: geometry.Pos[geometry.Millimeters]{X: line.Left(), Y: line.Bottom() + LegendLineMargin},
		Size: geometry.Size[geometry.Millimeters]{
			W: LegendSwatchWidth,
			H: LegendLineHeight - 2*LegendLineMargin,
		},
	}
	if err := r.surface.FillRect(geometry.RectToPoints(swatch), rec.Thread.Color); err != nil {
		return surfaceErr("legend swatch", err)
	}
	if err := r.surface.DrawText(rec.Symbol, geometry.PosToPoints(swatch.Midpoint()), LegendTextSize.Points(), InkFor(rec.Thread.Color), AlignCenter); err != nil {
		return surfaceErr("legend symbol", err)
	}

	label := rec.CatalogText()
	if r.opts.Style == RGBLabels {
		label = rec.RGBText()
	}
	at := geometry.Pos[geometry.Millimeters]{
		X: swatch.Right() + LegendSwatchGap,
		Y: line.Midpoint().Y,
	}
	if err := r.surface.DrawText(label, geometry.PosToPoints(at), LegendTextSize.Points(), Black, AlignLeft); err != nil {
		return surfaceErr("legend text", err)
	}
	return nil
}
