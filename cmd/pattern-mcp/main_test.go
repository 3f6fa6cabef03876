package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/thread-pattern-mcp/internal/config"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func writeHalfImage(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("", env(map[string]string{config.EnvMaxColors: "5"}))
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.MaxColors != 5 {
		t.Errorf("MaxColors: got %d, want 5", cfg.MaxColors)
	}

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("sheet: a3\ndpi: 72\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig(path, env(nil))
	if err != nil {
		t.Fatalf("loadConfig(%s) failed: %v", path, err)
	}
	if cfg.Sheet != "a3" || cfg.DPI != 72 {
		t.Errorf("file values not applied: %+v", cfg)
	}

	if _, err := loadConfig("", env(map[string]string{config.EnvDPI: "fast"})); err == nil {
		t.Error("expected error for bad DPI")
	}
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), env(nil)); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestParseGenerateFlags(t *testing.T) {
	f, err := parseGenerateFlags([]string{"-in", "a.png", "-out", "b.png", "-colors", "6", "-cell", "square"}, io.Discard)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if f.in != "a.png" || f.out != "b.png" || f.colors != 6 || f.cell != "square" {
		t.Errorf("unexpected flags: %+v", f)
	}

	for _, args := range [][]string{
		{},
		{"-in", "a.png"},
		{"-bogus"},
		{"-in", "a.png", "-out", "b.svg"},
	} {
		if _, err := parseGenerateFlags(args, io.Discard); err == nil {
			t.Errorf("expected usage error for %v", args)
		} else if exitCode(err) != 2 {
			t.Errorf("exit code for %v: got %d, want 2", args, exitCode(err))
		}
	}
}

func TestGenerateFlagsApply(t *testing.T) {
	base := config.Default()
	base.CellSizeMM = 3

	cfg, err := generateFlags{colors: 4, sheet: "a3", cell: "square", guides: true}.apply(base)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if cfg.MaxColors != 4 || cfg.Sheet != "a3" || cfg.CellShape != "square" || !cfg.DrawGuides {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.CellSizeMM != 0 {
		t.Errorf("changing the shape should reset the cell size, got %v", cfg.CellSizeMM)
	}

	if _, err := (generateFlags{sheet: "letter"}).apply(base); err == nil {
		t.Error("expected error for unknown sheet")
	}
}

func TestGenerate(t *testing.T) {
	in := writeHalfImage(t, 20, 20)
	out := filepath.Join(t.TempDir(), "page.png")
	preview := filepath.Join(t.TempDir(), "preview.png")

	cfg := config.Default()
	cfg.DPI = 36
	cfg.KeepImageSize = true
	cfg.Dither = "none"
	cfg.MaxColors = 4

	res, err := generate(cfg, generateFlags{in: in, out: out, preview: preview}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if res.Legend.Len() != 2 || res.Legend.Total() != 400 {
		t.Errorf("legend: %d threads, %d cells", res.Legend.Len(), res.Legend.Total())
	}
	if !res.Reduction.Fallback || res.Reduction.Possible != 2 {
		t.Errorf("expected fallback to 2 threads, got %+v", res.Reduction)
	}
	for _, p := range []string{out, preview} {
		if st, err := os.Stat(p); err != nil || st.Size() == 0 {
			t.Errorf("%s not written: %v", p, err)
		}
	}

	var buf bytes.Buffer
	if err := writeReport(&buf, res, out, false); err != nil {
		t.Fatalf("writeReport failed: %v", err)
	}
	report := buf.String()
	if !strings.Contains(report, "20×20 cells") {
		t.Errorf("report missing grid: %q", report)
	}
	if !strings.Contains(report, "asked for 4 threads, image allows 2") {
		t.Errorf("report missing fallback note: %q", report)
	}
	if !strings.Contains(report, "310 Black × 200") {
		t.Errorf("report missing black thread: %q", report)
	}

	buf.Reset()
	if err := writeReport(&buf, res, out, true); err != nil {
		t.Fatalf("styled writeReport failed: %v", err)
	}
	if !strings.Contains(buf.String(), "310 Black") {
		t.Errorf("styled report missing thread: %q", buf.String())
	}
}

func TestGenerate_MissingInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "page.png")
	cfg := config.Default()
	_, err := generate(cfg, generateFlags{in: "/nonexistent/in.png", out: out}, slog.New(slog.DiscardHandler))
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no page should be written for a missing input")
	}
}

func TestGenerate_PDF(t *testing.T) {
	in := writeHalfImage(t, 20, 20)
	out := filepath.Join(t.TempDir(), "page.pdf")

	cfg := config.Default()
	cfg.KeepImageSize = true
	cfg.MaxColors = 2

	if _, err := generate(cfg, generateFlags{in: in, out: out}, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("page not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("page is not a PDF")
	}
}

func TestGenerate_LayoutFailureLeavesNoPage(t *testing.T) {
	// 200 cells at 2.8 mm do not fit an A4 sheet.
	in := writeHalfImage(t, 200, 200)
	out := filepath.Join(t.TempDir(), "page.png")

	cfg := config.Default()
	cfg.DPI = 36
	cfg.KeepImageSize = true

	_, err := generate(cfg, generateFlags{in: in, out: out}, slog.New(slog.DiscardHandler))
	if err == nil {
		t.Fatal("expected layout error")
	}
	if code := exitCode(err); code != 6 {
		t.Errorf("exit code: got %d, want 6", code)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no partial page should be left behind")
	}
}
