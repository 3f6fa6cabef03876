package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImageFile writes a w×h PNG filled by fill to a temp directory.
func createTestImageFile(t *testing.T, w, h int, fill func(x, y int) color.Color) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill(x, y))
		}
	}
	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return path
}

func solid(c color.Color) func(x, y int) color.Color {
	return func(int, int) color.Color { return c }
}

// callTool runs a tools/call request and decodes the text content into out.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) *MCPError {
	t.Helper()
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("marshal args: %v", err)
	}
	params, _ := json.Marshal(ToolCallParams{Name: name, Arguments: raw})
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	if resp == nil {
		t.Fatal("tools/call returned nil")
	}
	if resp.Error != nil {
		return resp.Error
	}
	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}
	if out != nil {
		if err := json.Unmarshal([]byte(content[0]["text"].(string)), out); err != nil {
			t.Fatalf("decode result: %v", err)
		}
	}
	return nil
}

func mustCall(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) {
	t.Helper()
	if e := callTool(t, s, name, args, out); e != nil {
		t.Fatalf("%s failed: %s: %v", name, e.Message, e.Data)
	}
}

func TestHandleImageLoad(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 40, 20, func(x, y int) color.Color {
		if x < 20 {
			return color.Black
		}
		return color.White
	})

	var info struct {
		Width          int    `json:"width"`
		Height         int    `json:"height"`
		Format         string `json:"format"`
		Orientation    string `json:"orientation"`
		DistinctColors int    `json:"distinct_colors"`
	}
	mustCall(t, s, "image_load", map[string]interface{}{"path": path}, &info)

	if info.Width != 40 || info.Height != 20 {
		t.Errorf("size: got %dx%d, want 40x20", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
	if info.Orientation != "landscape" {
		t.Errorf("orientation: got %s, want landscape", info.Orientation)
	}
	if info.DistinctColors != 2 {
		t.Errorf("distinct colors: got %d, want 2", info.DistinctColors)
	}
}

func TestHandleImageLoad_Missing(t *testing.T) {
	s := newTestServer(t)
	e := callTool(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"}, nil)
	if e == nil {
		t.Fatal("expected error for missing file")
	}
	if e.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", e.Code)
	}
}

func TestHandleImageDimensions(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 12, 30, solid(color.White))

	var dims struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	mustCall(t, s, "image_dimensions", map[string]interface{}{"path": path}, &dims)
	if dims.Width != 12 || dims.Height != 30 {
		t.Errorf("got %dx%d, want 12x30", dims.Width, dims.Height)
	}
}

func TestHandleImageSampleColor(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 10, 10, solid(color.Black))

	var res struct {
		Hex    string      `json:"hex"`
		Thread threadMatch `json:"thread"`
	}
	mustCall(t, s, "image_sample_color", map[string]interface{}{"path": path, "x": 3, "y": 4}, &res)

	if res.Hex != "#000000" {
		t.Errorf("hex: got %s, want #000000", res.Hex)
	}
	if res.Thread.Code != "310" || !res.Thread.Exact {
		t.Errorf("thread: got %+v, want exact 310", res.Thread)
	}

	if e := callTool(t, s, "image_sample_color", map[string]interface{}{"path": path, "x": 10, "y": 0}, nil); e == nil {
		t.Error("expected error for out-of-bounds sample")
	}
}

func TestHandleCatalogInfo(t *testing.T) {
	s := newTestServer(t)

	var res catalogInfoResult
	mustCall(t, s, "catalog_info", map[string]interface{}{}, &res)
	if res.Count != s.catalog.Len() {
		t.Errorf("count: got %d, want %d", res.Count, s.catalog.Len())
	}
	if len(res.Threads) != 20 {
		t.Errorf("default limit: got %d threads, want 20", len(res.Threads))
	}

	mustCall(t, s, "catalog_info", map[string]interface{}{"limit": 3}, &res)
	if len(res.Threads) != 3 {
		t.Errorf("limit 3: got %d threads", len(res.Threads))
	}
	for i, r := range res.Threads {
		if want := s.catalog.At(i).Record(); r != want {
			t.Errorf("thread %d: got %+v, want %+v", i, r, want)
		}
	}

	if e := callTool(t, s, "catalog_info", map[string]interface{}{"limit": -1}, nil); e == nil {
		t.Error("expected error for negative limit")
	}
}

func TestHandleCatalogFindColor(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name      string
		hex       string
		wantCode  string
		wantExact bool
	}{
		{"exact black", "#000000", "310", true},
		{"near black", "#010101", "310", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res catalogFindColorResult
			mustCall(t, s, "catalog_find_color", map[string]interface{}{"hex": tt.hex}, &res)
			if res.Thread.Code != tt.wantCode {
				t.Errorf("code: got %s, want %s", res.Thread.Code, tt.wantCode)
			}
			if res.Thread.Exact != tt.wantExact {
				t.Errorf("exact: got %v, want %v", res.Thread.Exact, tt.wantExact)
			}
		})
	}

	for _, bad := range []string{"000000", "#12345", "#GG0000"} {
		if e := callTool(t, s, "catalog_find_color", map[string]interface{}{"hex": bad}, nil); e == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestHandlePatternFit(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 100, 50, solid(color.White))

	var res patternFitResult
	mustCall(t, s, "pattern_fit", map[string]interface{}{"path": path, "sheet": "a4"}, &res)

	if !res.Sheet.Rotated || res.Sheet.Orientation != "landscape" {
		t.Errorf("wide image should rotate the sheet to landscape, got %+v", res.Sheet)
	}
	if res.Cols <= 0 || res.Rows <= 0 || res.Cells != res.Cols*res.Rows {
		t.Errorf("bad grid: %+v", res)
	}
	if res.Cols < res.Rows {
		t.Errorf("grid should follow the image aspect: %dx%d", res.Cols, res.Rows)
	}
	if res.Shape != "round" {
		t.Errorf("shape: got %s, want round", res.Shape)
	}

	mustCall(t, s, "pattern_fit", map[string]interface{}{"path": path, "keep_image_size": true}, &res)
	if res.Cols != 100 || res.Rows != 50 {
		t.Errorf("keep_image_size: got %dx%d, want 100x50", res.Cols, res.Rows)
	}
}

func TestHandlePatternFit_InvalidOverrides(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 10, 10, solid(color.White))

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"no path", map[string]interface{}{}},
		{"bad sheet", map[string]interface{}{"path": path, "sheet": "letter"}},
		{"bad shape", map[string]interface{}{"path": path, "cell_shape": "hex"}},
		{"zero colors", map[string]interface{}{"path": path, "max_colors": 0}},
		{"bad dither", map[string]interface{}{"path": path, "dither": "ordered"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if e := callTool(t, s, "pattern_fit", tt.args, nil); e == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHandlePaletteReduce_Fallback(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 20, 20, solid(color.Black))

	var res paletteResult
	mustCall(t, s, "palette_reduce", map[string]interface{}{
		"path":            path,
		"max_colors":      2,
		"keep_image_size": true,
	}, &res)

	if !res.Fallback || res.Possible != 1 {
		t.Errorf("expected fallback to 1 color, got %+v", res)
	}
	if res.Requested != 2 {
		t.Errorf("requested: got %d, want 2", res.Requested)
	}
	if len(res.Threads) != 1 {
		t.Fatalf("threads: got %d, want 1", len(res.Threads))
	}
	line := res.Threads[0]
	if line.Code != "310" || line.Symbol != "1" || line.Count != 400 {
		t.Errorf("legend line: got %+v", line)
	}
	if res.Cols != 20 || res.Rows != 20 {
		t.Errorf("grid: got %dx%d, want 20x20", res.Cols, res.Rows)
	}
}

func TestHandlePatternGenerate(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 20, 20, func(x, y int) color.Color {
		if x < 10 {
			return color.Black
		}
		return color.White
	})
	dir := t.TempDir()
	out := filepath.Join(dir, "pattern.png")
	preview := filepath.Join(dir, "preview.png")

	var res patternGenerateResult
	mustCall(t, s, "pattern_generate", map[string]interface{}{
		"path":            path,
		"output_path":     out,
		"preview_path":    preview,
		"preview_scale":   2,
		"keep_image_size": true,
		"max_colors":      4,
		"dither":          "none",
	}, &res)

	if res.Cells != 400 {
		t.Errorf("cells: got %d, want 400", res.Cells)
	}
	if res.LegendLines != len(res.Palette.Threads) || res.LegendLines != 2 {
		t.Errorf("legend lines: got %d, threads %d, want 2", res.LegendLines, len(res.Palette.Threads))
	}
	total := 0
	for _, line := range res.Palette.Threads {
		total += line.Count
	}
	if total != 400 {
		t.Errorf("legend counts sum: got %d, want 400", total)
	}
	if res.DPI != s.cfg.DPI {
		t.Errorf("dpi: got %v, want %v", res.DPI, s.cfg.DPI)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer f.Close()
	page, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if page.Bounds().Dx() == 0 || page.Bounds().Dy() == 0 {
		t.Error("empty page")
	}

	pf, err := os.Open(preview)
	if err != nil {
		t.Fatalf("preview not written: %v", err)
	}
	defer pf.Close()
	pimg, err := png.Decode(pf)
	if err != nil {
		t.Fatalf("preview is not a PNG: %v", err)
	}
	if pimg.Bounds().Dx() != 40 || pimg.Bounds().Dy() != 40 {
		t.Errorf("preview size: got %v, want 40x40", pimg.Bounds().Size())
	}
}

func TestHandlePatternGenerate_Errors(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 10, 10, solid(color.Black))
	dir := t.TempDir()

	if e := callTool(t, s, "pattern_generate", map[string]interface{}{"path": path}, nil); e == nil {
		t.Error("expected error without output_path")
	}

	out := filepath.Join(dir, "pattern.png")
	if e := callTool(t, s, "pattern_generate", map[string]interface{}{
		"path":        path,
		"output_path": out,
		"max_colors":  0,
	}, nil); e == nil {
		t.Error("expected error for max_colors 0")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output should be written when options are invalid")
	}

	missingDir := filepath.Join(dir, "missing", "pattern.png")
	if e := callTool(t, s, "pattern_generate", map[string]interface{}{
		"path":        path,
		"output_path": missingDir,
	}, nil); e == nil {
		t.Error("expected error for unwritable output path")
	}
}

func TestHandlePatternGenerate_PDF(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 20, 20, func(x, y int) color.Color {
		if x < 10 {
			return color.Black
		}
		return color.White
	})
	out := filepath.Join(t.TempDir(), "pattern.PDF")

	var res patternGenerateResult
	mustCall(t, s, "pattern_generate", map[string]interface{}{
		"path":            path,
		"output_path":     out,
		"keep_image_size": true,
		"max_colors":      2,
	}, &res)

	if res.Format != "pdf" {
		t.Errorf("format: got %q, want pdf", res.Format)
	}
	if res.DPI != 0 {
		t.Errorf("dpi: got %v, want none for vector output", res.DPI)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", data[:min(len(data), 16)])
	}
}

func TestHandlePatternGenerate_UnsupportedFormat(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, 10, 10, solid(color.Black))
	out := filepath.Join(t.TempDir(), "pattern.svg")

	if e := callTool(t, s, "pattern_generate", map[string]interface{}{
		"path":        path,
		"output_path": out,
	}, nil); e == nil {
		t.Error("expected error for .svg output")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output should be written for an unsupported format")
	}
}

func TestExecuteTool_Unknown(t *testing.T) {
	s := newTestServer(t)
	e := callTool(t, s, "image_crop", map[string]interface{}{}, nil)
	if e == nil {
		t.Fatal("expected error for unknown tool")
	}
	if e.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", e.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	if resp == nil || resp.Error == nil {
		t.Fatal("expected error")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}
