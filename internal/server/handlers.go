package server

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ironsheep/thread-pattern-mcp/internal/catalog"
	"github.com/ironsheep/thread-pattern-mcp/internal/config"
	"github.com/ironsheep/thread-pattern-mcp/internal/geometry"
	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
	"github.com/ironsheep/thread-pattern-mcp/internal/palette"
	"github.com/ironsheep/thread-pattern-mcp/internal/pipeline"
	"github.com/ironsheep/thread-pattern-mcp/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "pattern_generate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "kind", pipeline.Classify(err).String(), "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	switch name {
	// Image information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	// Thread catalog
	case "catalog_info":
		return s.handleCatalogInfo(args)
	case "catalog_find_color":
		return s.handleCatalogFindColor(args)

	// Pattern compilation
	case "pattern_fit":
		return s.handlePatternFit(args)
	case "palette_reduce":
		return s.handlePaletteReduce(args)
	case "pattern_generate":
		return s.handlePatternGenerate(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// threadMatch is a catalog thread found for a color.
type threadMatch struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Hex   string `json:"hex"`
	Exact bool   `json:"exact"`
}

func (s *Server) matchThread(c imaging.RGBColor) threadMatch {
	t, exact := palette.NearestThread(s.catalog, c)
	return threadMatch{Code: t.Code, Name: t.Name, Hex: t.Hex(), Exact: exact}
}

type sampleColorResult struct {
	*imaging.ColorResult
	Thread threadMatch `json:"thread"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	c, err := imaging.SampleColor(img, a.X, a.Y)
	if err != nil {
		return nil, err
	}
	return &sampleColorResult{ColorResult: c, Thread: s.matchThread(c.RGB)}, nil
}

// === Catalog Handlers ===

type catalogInfoArgs struct {
	Limit *int `json:"limit"`
}

type catalogInfoResult struct {
	Source  string           `json:"source"`
	Count   int              `json:"count"`
	Threads []catalog.Record `json:"threads"`
}

func (s *Server) handleCatalogInfo(args json.RawMessage) (interface{}, error) {
	var a catalogInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	limit := 20
	if a.Limit != nil {
		limit = *a.Limit
	}
	records := s.catalog.Records()
	if limit < 0 {
		return nil, fmt.Errorf("invalid limit %d", limit)
	}
	if limit < len(records) {
		records = records[:limit]
	}
	return &catalogInfoResult{
		Source:  s.catalog.Source(),
		Count:   s.catalog.Len(),
		Threads: records,
	}, nil
}

type catalogFindColorArgs struct {
	Hex string `json:"hex"`
}

type catalogFindColorResult struct {
	Query  string      `json:"query"`
	RGB    string      `json:"rgb"`
	Thread threadMatch `json:"thread"`
}

func (s *Server) handleCatalogFindColor(args json.RawMessage) (interface{}, error) {
	var a catalogFindColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := imaging.ParseHex(a.Hex)
	if err != nil {
		return nil, err
	}
	return &catalogFindColorResult{Query: c.Hex(), RGB: c.String(), Thread: s.matchThread(c)}, nil
}

// === Pattern Handlers ===

// patternArgs overrides the server configuration for one call. Absent
// fields keep the configured value.
type patternArgs struct {
	Path            string   `json:"path"`
	Sheet           *string  `json:"sheet"`
	CellShape       *string  `json:"cell_shape"`
	CellSizeMM      *float64 `json:"cell_size_mm"`
	CellSpacingMM   *float64 `json:"cell_spacing_mm"`
	MaxColors       *int     `json:"max_colors"`
	Dither          *string  `json:"dither"`
	SmoothRadius    *float64 `json:"smooth_radius"`
	KeepImageSize   *bool    `json:"keep_image_size"`
	LegendPlacement *string  `json:"legend_placement"`
	LegendText      *string  `json:"legend_text"`
	DrawGuides      *bool    `json:"draw_guides"`
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (a patternArgs) apply(base config.Config) (config.Config, error) {
	cfg := base
	set(&cfg.Sheet, a.Sheet)
	set(&cfg.CellShape, a.CellShape)
	set(&cfg.CellSizeMM, a.CellSizeMM)
	set(&cfg.CellSpacingMM, a.CellSpacingMM)
	set(&cfg.MaxColors, a.MaxColors)
	set(&cfg.Dither, a.Dither)
	set(&cfg.SmoothRadius, a.SmoothRadius)
	set(&cfg.KeepImageSize, a.KeepImageSize)
	set(&cfg.LegendPlacement, a.LegendPlacement)
	set(&cfg.LegendText, a.LegendText)
	set(&cfg.DrawGuides, a.DrawGuides)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// pipelineFor decodes pattern arguments into a pipeline built from the
// effective configuration.
func (s *Server) pipelineFor(args json.RawMessage, a *patternArgs) (*pipeline.Pipeline, config.Config, error) {
	if err := json.Unmarshal(args, a); err != nil {
		return nil, config.Config{}, err
	}
	if a.Path == "" {
		return nil, config.Config{}, fmt.Errorf("path is required")
	}
	cfg, err := a.apply(s.cfg)
	if err != nil {
		return nil, config.Config{}, err
	}
	opts, err := cfg.PipelineOptions()
	if err != nil {
		return nil, config.Config{}, err
	}
	p, err := pipeline.New(s.catalog, opts)
	if err != nil {
		return nil, config.Config{}, err
	}
	return p, cfg, nil
}

type sheetInfo struct {
	WidthMM      float64 `json:"width_mm"`
	HeightMM     float64 `json:"height_mm"`
	Orientation  string  `json:"orientation"`
	Rotated      bool    `json:"rotated"`
	PrintableWMM float64 `json:"printable_width_mm"`
	PrintableHMM float64 `json:"printable_height_mm"`
}

func describeSheet(sheet geometry.Sheet, rotated bool) sheetInfo {
	area := sheet.PrintableArea()
	return sheetInfo{
		WidthMM:      float64(sheet.Size.W),
		HeightMM:     float64(sheet.Size.H),
		Orientation:  sheet.Size.Orientation().String(),
		Rotated:      rotated,
		PrintableWMM: float64(area.Size.W),
		PrintableHMM: float64(area.Size.H),
	}
}

type patternFitResult struct {
	Sheet   sheetInfo `json:"sheet"`
	Cols    int       `json:"cols"`
	Rows    int       `json:"rows"`
	Cells   int       `json:"cells"`
	PitchMM float64   `json:"pitch_mm"`
	Shape   string    `json:"cell_shape"`
}

func (s *Server) handlePatternFit(args json.RawMessage) (interface{}, error) {
	var a patternArgs
	p, _, err := s.pipelineFor(args, &a)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	opts := p.Options()
	fit, err := pipeline.Fit(opts.Sheet, opts.Cell, img, pipeline.FitOptions{
		LegendLines: opts.MaxColors,
		Placement:   opts.Placement,
		KeepSize:    opts.KeepImageSize,
	})
	if err != nil {
		return nil, err
	}
	return &patternFitResult{
		Sheet:   describeSheet(fit.Sheet, fit.Rotated),
		Cols:    fit.Cols,
		Rows:    fit.Rows,
		Cells:   fit.Cols * fit.Rows,
		PitchMM: float64(opts.Cell.Pitch()),
		Shape:   opts.Cell.Kind.String(),
	}, nil
}

type legendLine struct {
	Symbol string `json:"symbol"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Hex    string `json:"hex"`
	Count  int    `json:"count"`
}

type paletteResult struct {
	Requested int          `json:"requested"`
	Fallback  bool         `json:"fallback"`
	Possible  int          `json:"possible,omitempty"`
	Threads   []legendLine `json:"threads"`
	Cols      int          `json:"cols"`
	Rows      int          `json:"rows"`
}

func describePalette(res *pipeline.Result) paletteResult {
	lines := make([]legendLine, len(res.Legend.Records))
	for i, r := range res.Legend.Records {
		lines[i] = legendLine{
			Symbol: r.Symbol,
			Code:   r.Thread.Code,
			Name:   r.Thread.Name,
			Hex:    r.Thread.Hex(),
			Count:  r.Count,
		}
	}
	return paletteResult{
		Requested: res.Reduction.Requested,
		Fallback:  res.Reduction.Fallback,
		Possible:  res.Reduction.Possible,
		Threads:   lines,
		Cols:      res.Fit.Cols,
		Rows:      res.Fit.Rows,
	}
}

func (s *Server) handlePaletteReduce(args json.RawMessage) (interface{}, error) {
	var a patternArgs
	p, _, err := s.pipelineFor(args, &a)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res, err := p.Prepare(img)
	if err != nil {
		return nil, err
	}
	out := describePalette(res)
	return &out, nil
}

type patternGenerateArgs struct {
	OutputPath   string `json:"output_path"`
	PreviewPath  string `json:"preview_path"`
	PreviewScale int    `json:"preview_scale"`
}

type patternGenerateResult struct {
	Sheet       sheetInfo     `json:"sheet"`
	Palette     paletteResult `json:"palette"`
	Cells       int           `json:"cells"`
	LegendLines int           `json:"legend_lines"`
	OutputPath  string        `json:"output_path"`
	Format      string        `json:"format"`
	PreviewPath string        `json:"preview_path,omitempty"`
	DPI         float64       `json:"dpi,omitempty"`
}

func (s *Server) handlePatternGenerate(args json.RawMessage) (interface{}, error) {
	var a patternArgs
	p, cfg, err := s.pipelineFor(args, &a)
	if err != nil {
		return nil, err
	}
	var g patternGenerateArgs
	if err := json.Unmarshal(args, &g); err != nil {
		return nil, err
	}
	if g.OutputPath == "" {
		return nil, fmt.Errorf("output_path is required")
	}
	if g.PreviewScale == 0 {
		g.PreviewScale = 8
	}

	format, err := render.FormatFor(g.OutputPath)
	if err != nil {
		return nil, err
	}
	surface, err := render.SurfaceFor(g.OutputPath, cfg.DPI)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res, err := p.Prepare(img)
	if err != nil {
		return nil, err
	}
	if err := render.WritePage(g.OutputPath, func(w io.Writer) error { return p.Render(res, surface, w) }); err != nil {
		return nil, err
	}

	if g.PreviewPath != "" {
		if err := imaging.SavePreview(res.Quantized, g.PreviewPath, imaging.PreviewOptions{
			Scale:     g.PreviewScale,
			GridEvery: 10,
		}); err != nil {
			return nil, err
		}
	}

	s.logger.Info("pattern generated", "output", g.OutputPath, "format", format,
		"cells", res.Page.Cells, "threads", res.Legend.Len())
	result := &patternGenerateResult{
		Sheet:       describeSheet(res.Fit.Sheet, res.Fit.Rotated),
		Palette:     describePalette(res),
		Cells:       res.Page.Cells,
		LegendLines: res.Page.LegendLines,
		OutputPath:  g.OutputPath,
		Format:      format,
		PreviewPath: g.PreviewPath,
	}
	if format == render.FormatPNG {
		result.DPI = cfg.DPI
	}
	return result, nil
}
