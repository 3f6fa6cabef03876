package render

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ironsheep/thread-pattern-mcp/internal/geometry"
	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
)

// baseline offset below a text anchor, as a fraction of the font size, that
// centers Courier capitals and digits vertically.
const pdfBaselineShift = 0.35

// PDFSurface draws a page as vector PDF using the built-in Courier Bold
// font. Units are points, so page coordinates pass through unchanged apart
// from the y flip.
type PDFSurface struct {
	// Created is stamped into the document; zero means the Unix epoch, which
	// keeps output reproducible.
	Created time.Time

	// uncompressed leaves content streams readable.
	uncompressed bool

	pdf       *fpdf.Fpdf
	height    float64
	translate func(string) string
}

// NewPDFSurface returns an empty PDF surface.
func NewPDFSurface() *PDFSurface {
	return &PDFSurface{}
}

// BeginPage starts a document with a single page of size.
func (s *PDFSurface) BeginPage(size geometry.Size[geometry.Points]) error {
	if s.pdf != nil {
		return fmt.Errorf("page already in progress")
	}
	if size.W <= 0 || size.H <= 0 {
		return fmt.Errorf("invalid page size %vx%v pt", size.W, size.H)
	}
	w, h := float64(size.W), float64(size.H)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("thread-pattern-mcp", true)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(!s.uncompressed)
	created := s.Created
	if created.IsZero() {
		created = time.Unix(0, 0).UTC()
	}
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.AddPage()
	pdf.SetFont("Courier", "B", 10)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to start PDF page: %w", err)
	}

	s.pdf = pdf
	s.height = h
	s.translate = pdf.UnicodeTranslatorFromDescriptor("")
	return nil
}

func (s *PDFSurface) y(p geometry.Points) float64 { return s.height - float64(p) }

func (s *PDFSurface) rect(r geometry.Rect[geometry.Points], style string) error {
	s.pdf.Rect(float64(r.Left()), s.y(r.Top()), float64(r.Size.W), float64(r.Size.H), style)
	return s.pdf.Error()
}

// FillRect implements Surface.
func (s *PDFSurface) FillRect(r geometry.Rect[geometry.Points], c imaging.RGBColor) error {
	if s.pdf == nil {
		return ErrNoPage
	}
	s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	return s.rect(r, "F")
}

// StrokeRect implements Surface.
func (s *PDFSurface) StrokeRect(r geometry.Rect[geometry.Points], c imaging.RGBColor, width geometry.Points) error {
	if s.pdf == nil {
		return ErrNoPage
	}
	s.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	s.pdf.SetLineWidth(float64(width))
	return s.rect(r, "D")
}

// FillCircle implements Surface.
func (s *PDFSurface) FillCircle(center geometry.Pos[geometry.Points], radius geometry.Points, c imaging.RGBColor) error {
	if s.pdf == nil {
		return ErrNoPage
	}
	s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	s.pdf.Circle(float64(center.X), s.y(center.Y), float64(radius), "F")
	return s.pdf.Error()
}

// StrokeCircle implements Surface.
func (s *PDFSurface) StrokeCircle(center geometry.Pos[geometry.Points], radius geometry.Points, c imaging.RGBColor, width geometry.Points) error {
	if s.pdf == nil {
		return ErrNoPage
	}
	s.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	s.pdf.SetLineWidth(float64(width))
	s.pdf.Circle(float64(center.X), s.y(center.Y), float64(radius), "D")
	return s.pdf.Error()
}

// DrawText implements Surface. Text outside Windows-1252 is replaced by the
// font's fallback glyph.
func (s *PDFSurface) DrawText(str string, at geometry.Pos[geometry.Points], size geometry.Points, c imaging.RGBColor, align Align) error {
	if s.pdf == nil {
		return ErrNoPage
	}
	txt := s.translate(str)
	s.pdf.SetFontSize(float64(size))
	s.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))

	x := float64(at.X)
	if align == AlignCenter {
		x -= s.pdf.GetStringWidth(txt) / 2
	}
	s.pdf.Text(x, s.y(at.Y)+pdfBaselineShift*float64(size), txt)
	return s.pdf.Error()
}

// Finish writes the document and releases it.
func (s *PDFSurface) Finish(w io.Writer) error {
	if s.pdf == nil {
		return ErrNoPage
	}
	pdf := s.pdf
	s.pdf = nil

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
