// Package config holds the run configuration of the pattern compiler.
//
// A configuration is read from YAML, overlaid with environment variables
// and converted into pipeline options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/thread-pattern-mcp/internal/catalog"
	"github.com/ironsheep/thread-pattern-mcp/internal/geometry"
	"github.com/ironsheep/thread-pattern-mcp/internal/legend"
	"github.com/ironsheep/thread-pattern-mcp/internal/pipeline"
	"github.com/ironsheep/thread-pattern-mcp/internal/quantize"
	"github.com/ironsheep/thread-pattern-mcp/internal/render"
)

// Environment variables read by ApplyEnv.
const (
	EnvCatalog   = "PATTERN_MCP_CATALOG"
	EnvDPI       = "PATTERN_MCP_DPI"
	EnvMaxColors = "PATTERN_MCP_MAX_COLORS"
	// EnvConfig names the configuration file the binary loads.
	EnvConfig = "PATTERN_MCP_CONFIG"
)

// SheetCustom selects the explicit sheet_width_mm/sheet_height_mm size.
const SheetCustom = "custom"

// ErrInvalid reports a configuration value out of range.
var ErrInvalid = errors.New("config: invalid value")

// Config is the YAML run configuration.
type Config struct {
	CatalogPath string `yaml:"catalog_path"`

	Sheet              string  `yaml:"sheet"`
	SheetWidthMM       float64 `yaml:"sheet_width_mm"`
	SheetHeightMM      float64 `yaml:"sheet_height_mm"`
	MarginVerticalMM   float64 `yaml:"margin_vertical_mm"`
	MarginHorizontalMM float64 `yaml:"margin_horizontal_mm"`

	CellShape     string  `yaml:"cell_shape"`
	CellSizeMM    float64 `yaml:"cell_size_mm"`
	CellSpacingMM float64 `yaml:"cell_spacing_mm"`

	MaxColors     int      `yaml:"max_colors"`
	Dither        string   `yaml:"dither"`
	SmoothRadius  float64  `yaml:"smooth_radius"`
	Symbols       []string `yaml:"symbols"`
	KeepImageSize bool     `yaml:"keep_image_size"`

	LegendPlacement string  `yaml:"legend_placement"`
	LegendText      string  `yaml:"legend_text"`
	DrawGuides      bool    `yaml:"draw_guides"`
	DPI             float64 `yaml:"dpi"`
}

// Default returns the built-in configuration: embedded catalog, A4, round
// cells, 12 colors, Floyd-Steinberg dithering, 300 dpi.
func Default() Config {
	return Config{
		Sheet:           "a4",
		CellShape:       "round",
		MaxColors:       pipeline.DefaultMaxColors,
		Dither:          "floyd-steinberg",
		LegendPlacement: "below",
		LegendText:      "catalog",
		DPI:             render.DefaultDPI,
	}
}

// Parse decodes a YAML payload over the defaults and validates the result.
// Unknown keys are rejected. An empty payload yields Default().
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Config{}, fmt.Errorf("config: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays the PATTERN_MCP_* variables found through lookup, which
// is normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvCatalog); ok {
		c.CatalogPath = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvDPI); ok && strings.TrimSpace(v) != "" {
		dpi, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvDPI, v, err)
		}
		c.DPI = dpi
	}
	if v, ok := lookup(EnvMaxColors); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvMaxColors, v, err)
		}
		c.MaxColors = n
	}
	return c.Validate()
}

// Validate checks every field that can be checked without I/O.
func (c Config) Validate() error {
	if _, err := c.SheetValue(); err != nil {
		return err
	}
	if _, err := c.CellValue(); err != nil {
		return err
	}
	if c.MaxColors < 1 {
		return fmt.Errorf("%w: max_colors %d, must be at least 1", ErrInvalid, c.MaxColors)
	}
	if _, err := quantize.ByName(c.Dither); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.SmoothRadius < 0 {
		return fmt.Errorf("%w: smooth_radius %v is negative", ErrInvalid, c.SmoothRadius)
	}
	if _, err := render.ParseLegendPlacement(c.LegendPlacement); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := render.ParseLegendStyle(c.LegendText); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("%w: dpi %v must be positive", ErrInvalid, c.DPI)
	}
	if len(c.Symbols) > 0 {
		if _, err := legend.ParseAlphabet(c.Symbols); err != nil {
			return err
		}
	}
	return nil
}

// SheetValue resolves the configured sheet. Non-zero margins override those
// of a standard sheet.
func (c Config) SheetValue() (geometry.Sheet, error) {
	var sheet geometry.Sheet
	if strings.EqualFold(strings.TrimSpace(c.Sheet), SheetCustom) {
		sheet = geometry.Sheet{
			Size: geometry.Size[geometry.Millimeters]{
				W: geometry.Millimeters(c.SheetWidthMM),
				H: geometry.Millimeters(c.SheetHeightMM),
			},
		}
	} else {
		s, err := geometry.SheetByName(c.Sheet)
		if err != nil {
			return geometry.Sheet{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		sheet = s
	}
	if c.MarginVerticalMM != 0 {
		sheet.Margins.Vertical = geometry.Millimeters(c.MarginVerticalMM)
	}
	if c.MarginHorizontalMM != 0 {
		sheet.Margins.Horizontal = geometry.Millimeters(c.MarginHorizontalMM)
	}
	if err := sheet.Validate(); err != nil {
		return geometry.Sheet{}, err
	}
	return sheet, nil
}

// CellValue resolves the configured cell shape; a zero size selects the
// common size for the shape.
func (c Config) CellValue() (geometry.CellShape, error) {
	kind, err := geometry.ParseCellKind(c.CellShape)
	if err != nil {
		return geometry.CellShape{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cell := geometry.DefaultCell(kind)
	if c.CellSizeMM < 0 || c.CellSpacingMM < 0 {
		return geometry.CellShape{}, fmt.Errorf("%w: cell size %v mm, spacing %v mm", ErrInvalid, c.CellSizeMM, c.CellSpacingMM)
	}
	if c.CellSizeMM > 0 {
		cell.Size = geometry.Millimeters(c.CellSizeMM)
	}
	cell.Spacing = geometry.Millimeters(c.CellSpacingMM)
	return cell, nil
}

// PipelineOptions converts the configuration into run options.
func (c Config) PipelineOptions() (pipeline.Options, error) {
	if err := c.Validate(); err != nil {
		return pipeline.Options{}, err
	}
	sheet, _ := c.SheetValue()
	cell, _ := c.CellValue()
	q, _ := quantize.ByName(c.Dither)
	placement, _ := render.ParseLegendPlacement(c.LegendPlacement)
	style, _ := render.ParseLegendStyle(c.LegendText)

	alphabet := legend.DefaultAlphabet()
	if len(c.Symbols) > 0 {
		alphabet, _ = legend.ParseAlphabet(c.Symbols)
	}

	return pipeline.Options{
		Sheet:         sheet,
		Cell:          cell,
		MaxColors:     c.MaxColors,
		Alphabet:      alphabet,
		Quantizer:     q,
		SmoothRadius:  c.SmoothRadius,
		KeepImageSize: c.KeepImageSize,
		Placement:     placement,
		Style:         style,
		Guides:        c.DrawGuides,
	}, nil
}

// OpenCatalog loads catalog_path, or the embedded catalog when it is empty.
func (c Config) OpenCatalog() (*catalog.Catalog, error) {
	return catalog.LoadOrDefault(c.CatalogPath)
}
