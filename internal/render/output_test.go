package render

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/thread-pattern-mcp/internal/geometry"
	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
)

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"page.pdf", FormatPDF, false},
		{"out/Page.PDF", FormatPDF, false},
		{"page.png", FormatPNG, false},
		{"page.svg", "", true},
		{"page", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSurfaceFor(t *testing.T) {
	s, err := SurfaceFor("a.pdf", 0)
	require.NoError(t, err)
	assert.IsType(t, &PDFSurface{}, s)

	s, err = SurfaceFor("a.png", 72)
	require.NoError(t, err)
	assert.IsType(t, &RasterSurface{}, s)

	_, err = SurfaceFor("a.png", 0)
	assert.Error(t, err, "raster output needs a resolution")

	_, err = SurfaceFor("a.tiff", 72)
	assert.Error(t, err)
}

func TestRender_PDFPage(t *testing.T) {
	img, lg := uniformPattern(t, 3, 2, black)
	s := &PDFSurface{uncompressed: true}

	var buf bytes.Buffer
	page, err := NewRenderer(s, Options{Cell: geometry.CommonRound()}).Render(&buf, geometry.A4(), img, lg)
	require.NoError(t, err)
	assert.Equal(t, 6, page.Cells)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "%PDF-"), "missing PDF header")
	assert.Contains(t, out, "%%EOF")
	// A4 in points.
	assert.Contains(t, out, "595.28 841.89")
	assert.Contains(t, out, "(1  310 Black \xd7 6)", "legend text in Windows-1252")
}

func TestPDFSurface_Reproducible(t *testing.T) {
	img, lg := uniformPattern(t, 4, 4, white)
	render := func() []byte {
		var buf bytes.Buffer
		_, err := NewRenderer(NewPDFSurface(), Options{Cell: geometry.CommonSquare()}).Render(&buf, geometry.A4(), img, lg)
		require.NoError(t, err)
		return buf.Bytes()
	}
	assert.Equal(t, render(), render())
}

func TestPDFSurface_Lifecycle(t *testing.T) {
	s := NewPDFSurface()
	assert.ErrorIs(t, s.FillRect(geometry.Rect[geometry.Points]{}, black), ErrNoPage)
	assert.ErrorIs(t, s.DrawText("A", geometry.Pos[geometry.Points]{}, 8, black, AlignLeft), ErrNoPage)
	assert.ErrorIs(t, s.Finish(io.Discard), ErrNoPage)

	assert.Error(t, s.BeginPage(geometry.Size[geometry.Points]{W: 0, H: 10}))

	require.NoError(t, s.BeginPage(geometry.Size[geometry.Points]{W: 100, H: 50}))
	assert.Error(t, s.BeginPage(geometry.Size[geometry.Points]{W: 100, H: 50}))
	require.NoError(t, s.FillCircle(geometry.Pos[geometry.Points]{X: 10, Y: 10}, 5, imaging.RGBColor{R: 255}))
	require.NoError(t, s.StrokeRect(geometry.Rect[geometry.Points]{Size: geometry.Size[geometry.Points]{W: 20, H: 20}}, black, 1))
	require.NoError(t, s.Finish(io.Discard))
	assert.ErrorIs(t, s.Finish(io.Discard), ErrNoPage, "a finished page cannot be finished again")
}

func TestWritePage_RemovesOnDrawFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.png")
	err := WritePage(path, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return os.ErrInvalid
	})
	assert.ErrorIs(t, err, os.ErrInvalid)
	assert.NoFileExists(t, path)
}

func TestWritePage_RemovesOnCloseFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.png")
	err := WritePage(path, func(w io.Writer) error {
		io.WriteString(w, "partial")
		// Closing here makes the final close fail.
		return w.(*os.File).Close()
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to close")
	assert.NoFileExists(t, path)
}

func TestWritePage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.png")
	require.NoError(t, WritePage(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "page")
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "page", string(data))

	assert.Error(t, WritePage(filepath.Join(t.TempDir(), "missing", "page.png"), func(io.Writer) error { return nil }))
}
