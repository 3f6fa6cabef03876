package imaging

import (
	"image"
	"sort"
)

// ColorCounts maps each exact 8-bit color to the number of pixels carrying it.
type ColorCounts map[RGBColor]int

// CountColors builds the exact color histogram of an image.
//
// No quantization is applied: two pixels share a bucket only when all three
// 8-bit components are equal. For *image.Paletted sources the counts are
// accumulated per palette index first, which keeps the result exact for
// dithered images regardless of how the palette entries were specified.
func CountColors(img image.Image) ColorCounts {
	bounds := img.Bounds()
	counts := make(ColorCounts)

	if p, ok := img.(*image.Paletted); ok {
		perIndex := make([]int, len(p.Palette))
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				perIndex[p.ColorIndexAt(x, y)]++
			}
		}
		for i, n := range perIndex {
			if n > 0 {
				counts[FromColor(p.Palette[i])] += n
			}
		}
		return counts
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			counts[FromColor(img.At(x, y))]++
		}
	}
	return counts
}

// Total returns the number of pixels counted.
func (c ColorCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// ColorFrequency is one histogram bucket.
type ColorFrequency struct {
	Color RGBColor `json:"rgb"`
	Count int      `json:"count"`
}

// Sorted returns the buckets ordered by descending count, ties broken by hex
// value so the order is deterministic.
func (c ColorCounts) Sorted() []ColorFrequency {
	out := make([]ColorFrequency, 0, len(c))
	for col, n := range c {
		out = append(out, ColorFrequency{Color: col, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Color.Hex() < out[j].Color.Hex()
	})
	return out
}
