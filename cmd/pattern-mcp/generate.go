package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ironsheep/thread-pattern-mcp/internal/config"
	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
	"github.com/ironsheep/thread-pattern-mcp/internal/pipeline"
	"github.com/ironsheep/thread-pattern-mcp/internal/render"
)

var errUsage = errors.New("usage")

// generateFlags are the command line arguments of the generate command.
type generateFlags struct {
	in         string
	out        string
	preview    string
	configPath string
	colors     int
	sheet      string
	cell       string
	guides     bool
	plain      bool
}

func parseGenerateFlags(args []string, stderr io.Writer) (generateFlags, error) {
	var f generateFlags
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.in, "in", "", "source image (png, jpeg, gif)")
	fs.StringVar(&f.out, "out", "", "pattern page to write (.pdf or .png)")
	fs.StringVar(&f.preview, "preview", "", "optional preview of the quantized image")
	fs.StringVar(&f.configPath, "config", os.Getenv(config.EnvConfig), "YAML configuration file")
	fs.IntVar(&f.colors, "colors", 0, "thread budget (overrides configuration)")
	fs.StringVar(&f.sheet, "sheet", "", "sheet: a4 or a3 (overrides configuration)")
	fs.StringVar(&f.cell, "cell", "", "cell shape: round or square (overrides configuration)")
	fs.BoolVar(&f.guides, "guides", false, "draw template guides")
	fs.BoolVar(&f.plain, "plain", false, "print the legend without styling")
	if err := fs.Parse(args); err != nil {
		return f, fmt.Errorf("%w: %v", errUsage, err)
	}
	if f.in == "" || f.out == "" {
		fs.Usage()
		return f, fmt.Errorf("%w: -in and -out are required", errUsage)
	}
	if _, err := render.FormatFor(f.out); err != nil {
		return f, fmt.Errorf("%w: %v", errUsage, err)
	}
	return f, nil
}

// apply overlays the flags that were set on cfg.
func (f generateFlags) apply(cfg config.Config) (config.Config, error) {
	if f.colors != 0 {
		cfg.MaxColors = f.colors
	}
	if f.sheet != "" {
		cfg.Sheet = f.sheet
	}
	if f.cell != "" {
		cfg.CellShape = f.cell
		cfg.CellSizeMM = 0
	}
	if f.guides {
		cfg.DrawGuides = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runGenerate(args []string, stdout io.Writer, logger *slog.Logger) error {
	f, err := parseGenerateFlags(args, os.Stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(f.configPath, os.LookupEnv)
	if err != nil {
		return err
	}
	if cfg, err = f.apply(cfg); err != nil {
		return err
	}
	res, err := generate(cfg, f, logger)
	if err != nil {
		return err
	}
	return writeReport(stdout, res, f.out, !f.plain)
}

// generate compiles f.in into the page at f.out.
func generate(cfg config.Config, f generateFlags, logger *slog.Logger) (*pipeline.Result, error) {
	cat, err := cfg.OpenCatalog()
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded", "source", cat.Source(), "threads", cat.Len())

	opts, err := cfg.PipelineOptions()
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(cat, opts)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(f.in)
	if err != nil {
		return nil, err
	}
	res, err := p.Prepare(img)
	if err != nil {
		return nil, err
	}

	surface, err := render.SurfaceFor(f.out, cfg.DPI)
	if err != nil {
		return nil, err
	}
	if err := render.WritePage(f.out, func(w io.Writer) error { return p.Render(res, surface, w) }); err != nil {
		return nil, err
	}

	if f.preview != "" {
		if err := imaging.SavePreview(res.Quantized, f.preview, imaging.PreviewOptions{
			Scale:     8,
			GridEvery: 10,
		}); err != nil {
			return nil, err
		}
	}
	return res, nil
}
