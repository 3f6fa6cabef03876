package pipeline

import (
	"fmt"
	"image"
	"io"

	"github.com/ironsheep/thread-pattern-mcp/internal/catalog"
	"github.com/ironsheep/thread-pattern-mcp/internal/geometry"
	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
	"github.com/ironsheep/thread-pattern-mcp/internal/legend"
	"github.com/ironsheep/thread-pattern-mcp/internal/palette"
	"github.com/ironsheep/thread-pattern-mcp/internal/quantize"
	"github.com/ironsheep/thread-pattern-mcp/internal/render"
)

// DefaultMaxColors is the palette budget used when none is configured.
const DefaultMaxColors = 12

// Options configures a run.
type Options struct {
	Sheet     geometry.Sheet
	Cell      geometry.CellShape
	MaxColors int
	Alphabet  legend.Alphabet

	// Quantizer defaults to Floyd-Steinberg. Matcher defaults to a
	// MedoidMatcher verifying its selections with Quantizer.
	Matcher   palette.Matcher
	Quantizer quantize.Quantizer

	SmoothRadius  float64
	KeepImageSize bool

	Placement render.LegendPlacement
	Style     render.LegendStyle
	Guides    bool
}

// DefaultOptions returns A4 with round cells, 12 colors and the built-in
// alphabet.
func DefaultOptions() Options {
	return Options{
		Sheet:     geometry.A4(),
		Cell:      geometry.CommonRound(),
		MaxColors: DefaultMaxColors,
		Alphabet:  legend.DefaultAlphabet(),
	}
}

// Result carries every intermediate product of a run.
type Result struct {
	Fit       *FitResult
	Reduction *palette.Reduction
	Quantized *image.Paletted
	Counts    imaging.ColorCounts
	Legend    *legend.Legend
	// Page is nil until the pattern has been rendered.
	Page *render.Page
}

// Pipeline runs pattern compilation against one catalog.
type Pipeline struct {
	catalog *catalog.Catalog
	opts    Options
	reducer *palette.Reducer
}

// New validates opts and returns a Pipeline. A color budget larger than the
// symbol alphabet is clamped to it.
func New(cat *catalog.Catalog, opts Options) (*Pipeline, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, catalog.ErrEmptyCatalog)
	}
	if opts.Alphabet == nil {
		opts.Alphabet = legend.DefaultAlphabet()
	}
	if err := opts.Alphabet.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxColors < 1 {
		return nil, fmt.Errorf("%w: max colors %d, must be at least 1", ErrInvalidOptions, opts.MaxColors)
	}
	if opts.MaxColors > len(opts.Alphabet) {
		Logger().Warn("max colors clamped to alphabet size",
			"requested", opts.MaxColors, "max", len(opts.Alphabet))
		opts.MaxColors = len(opts.Alphabet)
	}
	if err := opts.Sheet.Validate(); err != nil {
		return nil, err
	}
	if opts.Cell.Size <= 0 || opts.Cell.Spacing < 0 {
		return nil, fmt.Errorf("%w: cell size %v mm, spacing %v mm", ErrInvalidOptions, opts.Cell.Size, opts.Cell.Spacing)
	}
	if opts.Quantizer == nil {
		opts.Quantizer = quantize.FloydSteinberg{}
	}

	matcher := opts.Matcher
	if matcher == nil {
		matcher = palette.NewMedoidMatcher(opts.Quantizer)
	}

	return &Pipeline{
		catalog: cat,
		opts:    opts,
		reducer: palette.NewReducer(matcher),
	}, nil
}

// Catalog returns the catalog threads are chosen from.
func (p *Pipeline) Catalog() *catalog.Catalog { return p.catalog }

// Options returns the effective options after defaults and clamping.
func (p *Pipeline) Options() Options { return p.opts }

// Prepare runs every stage up to and including the legend.
//
// The first pass keeps room for a legend of MaxColors lines. When fewer
// threads survive, the image is fitted again with room for only those
// lines, and the second pass is kept if it yields a wider grid whose legend
// still fits the smaller band.
func (p *Pipeline) Prepare(img image.Image) (*Result, error) {
	res, err := p.prepare(img, p.opts.MaxColors)
	if err != nil {
		return nil, err
	}
	lines := res.Legend.Len()
	if p.opts.KeepImageSize || lines >= p.opts.MaxColors {
		return res, nil
	}

	refit, err := p.prepare(img, lines)
	switch {
	case err != nil:
		Logger().Debug("refit for smaller legend failed, keeping first fit", "error", err)
		return res, nil
	case refit.Fit.Cols <= res.Fit.Cols || refit.Legend.Len() > lines:
		return res, nil
	}
	Logger().Info("grid refitted for smaller legend",
		"legend_lines", lines, "cols", refit.Fit.Cols, "rows", refit.Fit.Rows)
	return refit, nil
}

// prepare is one pass of Prepare keeping room for legendLines lines.
func (p *Pipeline) prepare(img image.Image, legendLines int) (*Result, error) {
	fit, err := Fit(p.opts.Sheet, p.opts.Cell, img, FitOptions{
		LegendLines: legendLines,
		Placement:   p.opts.Placement,
		KeepSize:    p.opts.KeepImageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	res := &Result{Fit: fit}

	working := image.Image(fit.Image)
	if p.opts.SmoothRadius > 0 {
		working = imaging.Smooth(working, p.opts.SmoothRadius)
	}

	res.Reduction, err = p.reducer.Reduce(p.catalog, working, p.opts.MaxColors)
	if err != nil {
		return nil, fmt.Errorf("reduce: %w", err)
	}
	subset := res.Reduction.Subset
	if res.Reduction.Fallback {
		Logger().Warn("color budget not achievable, using fallback",
			"requested", res.Reduction.Requested, "possible", res.Reduction.Possible)
	}

	res.Quantized, err = p.opts.Quantizer.Quantize(working, subset.Colors())
	if err != nil {
		return nil, fmt.Errorf("quantize: %w", err)
	}

	res.Counts = imaging.CountColors(res.Quantized)
	if len(res.Counts) != subset.Len() {
		return nil, fmt.Errorf("%w: quantized image uses %d colors, palette has %d",
			ErrConsistency, len(res.Counts), subset.Len())
	}

	res.Legend, err = legend.Build(subset, res.Counts, p.opts.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("legend: %w", err)
	}
	Logger().Info("legend built",
		"threads", res.Legend.Len(), "cells", res.Legend.Total(),
		"cols", fit.Cols, "rows", fit.Rows)
	return res, nil
}

// Run compiles img and renders the page on surface, finishing it into w.
func (p *Pipeline) Run(img image.Image, surface render.Surface, w io.Writer) (*Result, error) {
	res, err := p.Prepare(img)
	if err != nil {
		return nil, err
	}
	if err := p.Render(res, surface, w); err != nil {
		return nil, err
	}
	return res, nil
}

// Render draws a prepared result on surface.
func (p *Pipeline) Render(res *Result, surface render.Surface, w io.Writer) error {
	r := render.NewRenderer(surface, render.Options{
		Cell:      p.opts.Cell,
		Placement: p.opts.Placement,
		Style:     p.opts.Style,
		Guides:    p.opts.Guides,
	})
	page, err := r.Render(w, res.Fit.Sheet, res.Quantized, res.Legend)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	res.Page = page
	Logger().Info("page finished",
		"cells", page.Cells, "legend_lines", page.LegendLines,
		"sheet", res.Fit.Sheet.Size.Orientation().String())
	return nil
}
