package render

import (
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gomonobold"

	"github.com/ironsheep/thread-pattern-mcp/internal/geometry"
	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
)

// DefaultDPI is the raster resolution used when none is configured.
const DefaultDPI = 300

// RasterSurface draws a page onto a gg canvas at a fixed resolution and
// finishes it as a PNG image.
type RasterSurface struct {
	dpi    float64
	font   *text.FontSource
	faces  map[geometry.Points]text.Face
	ctx    *gg.Context
	height float64
}

// NewRasterSurface returns a surface rendering at dpi dots per inch.
func NewRasterSurface(dpi float64) (*RasterSurface, error) {
	if dpi <= 0 || math.IsNaN(dpi) || math.IsInf(dpi, 0) {
		return nil, fmt.Errorf("invalid resolution %v dpi", dpi)
	}
	src, err := text.NewFontSource(gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load symbol font: %w", err)
	}
	return &RasterSurface{
		dpi:   dpi,
		font:  src,
		faces: make(map[geometry.Points]text.Face),
	}, nil
}

// DPI returns the raster resolution.
func (s *RasterSurface) DPI() float64 { return s.dpi }

// BeginPage allocates a white canvas covering size.
func (s *RasterSurface) BeginPage(size geometry.Size[geometry.Points]) error {
	if s.ctx != nil {
		return fmt.Errorf("page already in progress")
	}
	w := int(math.Ceil(size.W.Pixels(s.dpi)))
	h := int(math.Ceil(size.H.Pixels(s.dpi)))
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid page size %vx%v pt", size.W, size.H)
	}
	s.ctx = gg.NewContext(w, h)
	s.ctx.ClearWithColor(gg.White)
	s.height = float64(h)
	return nil
}

func (s *RasterSurface) px(p geometry.Points) float64 { return p.Pixels(s.dpi) }

// y converts a page coordinate (y up) to a canvas row (y down).
func (s *RasterSurface) y(p geometry.Points) float64 { return s.height - s.px(p) }

func (s *RasterSurface) rect(r geometry.Rect[geometry.Points]) {
	s.ctx.DrawRectangle(s.px(r.Left()), s.y(r.Top()), s.px(r.Size.W), s.px(r.Size.H))
}

// FillRect implements Surface.
func (s *RasterSurface) FillRect(r geometry.Rect[geometry.Points], c imaging.RGBColor) error {
	if s.ctx == nil {
		return ErrNoPage
	}
	s.rect(r)
	s.ctx.SetColor(c.RGBA())
	return s.ctx.Fill()
}

// StrokeRect implements Surface.
func (s *RasterSurface) StrokeRect(r geometry.Rect[geometry.Points], c imaging.RGBColor, width geometry.Points) error {
	if s.ctx == nil {
		return ErrNoPage
	}
	s.rect(r)
	s.ctx.SetColor(c.RGBA())
	s.ctx.SetLineWidth(s.px(width))
	return s.ctx.Stroke()
}

// FillCircle implements Surface.
func (s *RasterSurface) FillCircle(center geometry.Pos[geometry.Points], radius geometry.Points, c imaging.RGBColor) error {
	if s.ctx == nil {
		return ErrNoPage
	}
	s.ctx.DrawCircle(s.px(center.X), s.y(center.Y), s.px(radius))
	s.ctx.SetColor(c.RGBA())
	return s.ctx.Fill()
}

// StrokeCircle implements Surface.
func (s *RasterSurface) StrokeCircle(center geometry.Pos[geometry.Points], radius geometry.Points, c imaging.RGBColor, width geometry.Points) error {
	if s.ctx == nil {
		return ErrNoPage
	}
	s.ctx.DrawCircle(s.px(center.X), s.y(center.Y), s.px(radius))
	s.ctx.SetColor(c.RGBA())
	s.ctx.SetLineWidth(s.px(width))
	return s.ctx.Stroke()
}

// DrawText implements Surface. Faces are cached per size.
func (s *RasterSurface) DrawText(str string, at geometry.Pos[geometry.Points], size geometry.Points, c imaging.RGBColor, align Align) error {
	if s.ctx == nil {
		return ErrNoPage
	}
	face, ok := s.faces[size]
	if !ok {
		face = s.font.Face(s.px(size))
		s.faces[size] = face
	}
	s.ctx.SetFont(face)
	s.ctx.SetColor(c.RGBA())

	ax := 0.5
	if align == AlignLeft {
		ax = 0
	}
	s.ctx.DrawStringAnchored(str, s.px(at.X), s.y(at.Y), ax, 0.5)
	return nil
}

// Finish encodes the page as PNG and releases the canvas.
func (s *RasterSurface) Finish(w io.Writer) error {
	if s.ctx == nil {
		return ErrNoPage
	}
	ctx := s.ctx
	s.ctx = nil
	defer ctx.Close()

	if err := ctx.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode page: %w", err)
	}
	return nil
}
