package imaging

import (
	"image/color"
	"testing"
)

func TestResizeToWidth_PreservesAspect(t *testing.T) {
	tests := []struct {
		name          string
		w, h, targetW int
		wantH         int
	}{
		{"landscape", 400, 200, 70, 35},
		{"portrait", 200, 300, 71, 107},
		{"square", 50, 50, 20, 20},
		{"upscale", 10, 5, 40, 20},
		{"very wide", 1000, 1, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ResizeToWidth(createInMemoryImage(tt.w, tt.h, color.RGBA{10, 20, 30, 255}), tt.targetW)
			if err != nil {
				t.Fatalf("ResizeToWidth failed: %v", err)
			}
			b := out.Bounds()
			if b.Dx() != tt.targetW || b.Dy() != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.targetW, tt.wantH)
			}
		})
	}
}

func TestResizeToWidth_UniformStaysUniform(t *testing.T) {
	out, err := ResizeToWidth(createInMemoryImage(64, 48, color.RGBA{120, 60, 200, 255}), 16)
	if err != nil {
		t.Fatalf("ResizeToWidth failed: %v", err)
	}
	counts := CountColors(out)
	if len(counts) != 1 {
		t.Errorf("uniform image resampled into %d colors", len(counts))
	}
}

func TestResizeToWidth_Invalid(t *testing.T) {
	if _, err := ResizeToWidth(createInMemoryImage(10, 10, color.Black), 0); err == nil {
		t.Error("zero width should fail")
	}
	if _, err := ResizeToWidth(createInMemoryImage(0, 0, color.Black), 10); err == nil {
		t.Error("empty image should fail")
	}
}

func TestSmooth(t *testing.T) {
	img := createPatternImage(20, 20)
	if Smooth(img, 0) != img {
		t.Error("radius 0 must return the input unchanged")
	}

	blurred := Smooth(img, 2)
	if blurred.Bounds() != img.Bounds() {
		t.Errorf("bounds changed: %v -> %v", img.Bounds(), blurred.Bounds())
	}
	if len(CountColors(blurred)) <= 4 {
		t.Error("blur should introduce intermediate colors at quadrant borders")
	}
}

func TestClone(t *testing.T) {
	src := createPatternImage(8, 6)
	dst := Clone(src)
	if dst.Bounds().Dx() != 8 || dst.Bounds().Dy() != 6 {
		t.Fatalf("unexpected bounds %v", dst.Bounds())
	}
	if FromColor(dst.At(7, 5)) != (RGBColor{255, 255, 255}) {
		t.Error("clone lost pixel data")
	}
}
