package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Page output formats, chosen by file extension.
const (
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// FormatFor returns the page format for path: "pdf" for .pdf and "png" for
// .png, case-insensitively.
func FormatFor(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return FormatPNG, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported page format %q for %s (use .pdf or .png)", ext, path)
	}
}

// SurfaceFor returns the surface writing path's format. dpi only applies to
// raster output.
func SurfaceFor(path string, dpi float64) (Surface, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	if format == FormatPDF {
		return NewPDFSurface(), nil
	}
	return NewRasterSurface(dpi)
}

// WritePage creates path, lets draw fill it and removes the file again when
// drawing or closing fails, so no partial page is left behind.
func WritePage(path string, draw func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := draw(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
