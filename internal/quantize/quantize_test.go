package quantize

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / (w - 1))
			img.Set(x, y, color.RGBA{v, v, uint8(y * 10), 255})
		}
	}
	return img
}

var blackWhiteRed = []imaging.RGBColor{{}, {R: 255, G: 255, B: 255}, {R: 200, G: 30, B: 40}}

func TestQuantize_ExactMembership(t *testing.T) {
	for _, q := range []Quantizer{FloydSteinberg{}, Nearest{}} {
		out, err := q.Quantize(gradient(40, 12), blackWhiteRed)
		require.NoError(t, err)

		allowed := map[imaging.RGBColor]bool{}
		for _, c := range blackWhiteRed {
			allowed[c] = true
		}
		counts := imaging.CountColors(out)
		assert.Equal(t, 40*12, counts.Total())
		for c := range counts {
			assert.True(t, allowed[c], "%T produced %v outside the palette", q, c)
		}
	}
}

func TestQuantize_UniformImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}

	out, err := FloydSteinberg{}.Quantize(img, blackWhiteRed)
	require.NoError(t, err)
	counts := imaging.CountColors(out)
	assert.Equal(t, imaging.ColorCounts{{R: 255, G: 255, B: 255}: 400}, counts)
}

func TestQuantize_OffsetBounds(t *testing.T) {
	src := gradient(30, 10).SubImage(image.Rect(10, 2, 20, 8))

	out, err := Nearest{}.Quantize(src, blackWhiteRed)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 6), out.Bounds())
}

func TestQuantize_NearestPicksClosest(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{20, 10, 10, 255})
	img.Set(1, 0, color.RGBA{210, 40, 30, 255})

	out, err := Nearest{}.Quantize(img, blackWhiteRed)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), out.ColorIndexAt(0, 0))
	assert.Equal(t, uint8(2), out.ColorIndexAt(1, 0))
}

func TestQuantize_Errors(t *testing.T) {
	_, err := Nearest{}.Quantize(gradient(4, 4), nil)
	assert.ErrorIs(t, err, ErrEmptyPalette)

	_, err = FloydSteinberg{}.Quantize(image.NewRGBA(image.Rect(0, 0, 0, 3)), blackWhiteRed)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = Nearest{}.Quantize(gradient(4, 4), make([]imaging.RGBColor, MaxPaletteSize+1))
	assert.Error(t, err)
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want Quantizer
	}{
		{"", FloydSteinberg{}},
		{"floyd-steinberg", FloydSteinberg{}},
		{"Floyd-Steinberg", FloydSteinberg{}},
		{"none", Nearest{}},
	}
	for _, tt := range tests {
		got, err := ByName(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ByName("ordered")
	assert.Error(t, err)
}
