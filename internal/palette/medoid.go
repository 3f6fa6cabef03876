package palette

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/thread-pattern-mcp/internal/catalog"
	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
	"github.com/ironsheep/thread-pattern-mcp/internal/quantize"
)

// DefaultSwapPasses bounds the refinement passes of MedoidMatcher.
const DefaultSwapPasses = 3

// ColorSpace is the space distances are measured in while choosing threads.
type ColorSpace int

const (
	// SpaceRGB is the space the quantizers map pixels in.
	SpaceRGB ColorSpace = iota
	// SpaceLab is CIE L*a*b*.
	SpaceLab
)

// Assigner maps every pixel of img onto palette. quantize.Quantizer
// satisfies it.
type Assigner interface {
	Quantize(img image.Image, palette []imaging.RGBColor) (*image.Paletted, error)
}

// MedoidMatcher is a Matcher choosing threads by weighted k-medoids.
//
// Every distinct image color is first snapped to its nearest palette color
// in Space; the set of colors hit that way is the candidate palette. Among
// the candidates a greedy forward selection followed by at most SwapPasses
// rounds of single swaps minimises the pixel-weighted distance.
//
// A selection is only returned when Assign gives every chosen color at
// least one pixel. Otherwise the budget shrinks to the number of colors
// that were used and the selection is repeated, and the request fails with
// an *InfeasibleError naming the largest budget that passed. Ties are
// broken by palette order, so asking again for exactly that budget yields
// the same selection.
type MedoidMatcher struct {
	Space      ColorSpace
	SwapPasses int
	// Assign checks a selection the way the image will be quantized with
	// it. Nil means quantize.Nearest.
	Assign Assigner
}

// NewMedoidMatcher returns an RGB MedoidMatcher verifying selections with
// assign.
func NewMedoidMatcher(assign Assigner) *MedoidMatcher {
	return &MedoidMatcher{Space: SpaceRGB, SwapPasses: DefaultSwapPasses, Assign: assign}
}

// ClosestSubset implements Matcher. The result is ordered by palette index.
func (m *MedoidMatcher) ClosestSubset(palette []imaging.RGBColor, k int, img image.Image) ([]imaging.RGBColor, error) {
	if k < 1 {
		return nil, ErrInvalidCount
	}
	if len(palette) == 0 || img.Bounds().Empty() {
		return nil, ErrEmptyInput
	}

	buckets := imaging.CountColors(img).Sorted()
	toSpace := m.coords()
	palettePts := make([][]float64, len(palette))
	for i, c := range palette {
		palettePts[i] = toSpace(c)
	}

	// Snap every image color to its nearest palette entry.
	colorPts := make([][]float64, len(buckets))
	weights := make([]float64, len(buckets))
	hit := make(map[int]bool)
	for i, b := range buckets {
		colorPts[i] = toSpace(b.Color)
		weights[i] = float64(b.Count)
		hit[nearestIndex(palettePts, colorPts[i])] = true
	}

	candidates := make([]int, 0, len(hit))
	for idx := range hit {
		candidates = append(candidates, idx)
	}
	sort.Ints(candidates)

	dist := make([][]float64, len(candidates))
	for j, idx := range candidates {
		col := make([]float64, len(buckets))
		for i := range buckets {
			col[i] = floats.Distance(colorPts[i], palettePts[idx], 2)
		}
		dist[j] = col
	}

	n := min(k, len(candidates))
	for {
		selected := candidates
		if n < len(candidates) {
			picks := m.selectMedoids(dist, weights, n)
			selected = make([]int, len(picks))
			for i, j := range picks {
				selected[i] = candidates[j]
			}
			sort.Ints(selected)
		}

		out := make([]imaging.RGBColor, len(selected))
		for i, idx := range selected {
			out[i] = palette[idx]
		}
		used, err := m.usedColors(img, out)
		if err != nil {
			return nil, err
		}
		if used == n {
			if n < k {
				return nil, &InfeasibleError{Requested: k, Possible: n}
			}
			return out, nil
		}
		// A single color always receives every pixel, so this terminates.
		n = min(n-1, used)
	}
}

// usedColors is the number of members of subset that receive at least one
// pixel when img is assigned to it.
func (m *MedoidMatcher) usedColors(img image.Image, subset []imaging.RGBColor) (int, error) {
	assign := m.Assign
	if assign == nil {
		assign = quantize.Nearest{}
	}
	q, err := assign.Quantize(img, subset)
	if err != nil {
		return 0, fmt.Errorf("palette: assigning selection: %w", err)
	}
	counts := imaging.CountColors(q)
	used := 0
	for _, c := range subset {
		if counts[c] > 0 {
			used++
		}
	}
	return used, nil
}

func (m *MedoidMatcher) coords() func(imaging.RGBColor) []float64 {
	if m.Space == SpaceLab {
		return toLab
	}
	return toRGB
}

// Nearest returns the index of the palette color perceptually closest to c.
func Nearest(palette []imaging.RGBColor, c imaging.RGBColor) int {
	labs := make([][]float64, len(palette))
	for i, p := range palette {
		labs[i] = toLab(p)
	}
	return nearestIndex(labs, toLab(c))
}

// selectMedoids picks k columns of dist minimising the weighted sum of
// per-row minima. dist[j][i] is the distance of image color i to candidate j.
func (m *MedoidMatcher) selectMedoids(dist [][]float64, weights []float64, k int) []int {
	rows := len(weights)
	best := make([]float64, rows)
	for i := range best {
		best[i] = math.Inf(1)
	}
	scratch := make([]float64, rows)
	chosen := make([]bool, len(dist))
	picks := make([]int, 0, k)

	for len(picks) < k {
		bestJ, bestCost := -1, math.Inf(1)
		for j := range dist {
			if chosen[j] {
				continue
			}
			if c := weightedCost(weights, best, dist[j], scratch); bestJ < 0 || c < bestCost {
				bestJ, bestCost = j, c
			}
		}
		chosen[bestJ] = true
		picks = append(picks, bestJ)
		for i := range best {
			best[i] = math.Min(best[i], dist[bestJ][i])
		}
	}

	passes := m.SwapPasses
	if passes < 0 {
		passes = 0
	}
	current := selectionCost(dist, weights, picks, scratch)
	for pass := 0; pass < passes; pass++ {
		improved := false
		for slot := range picks {
			for j := range dist {
				if chosen[j] {
					continue
				}
				old := picks[slot]
				picks[slot] = j
				if c := selectionCost(dist, weights, picks, scratch); c < current {
					current = c
					chosen[old], chosen[j] = false, true
					improved = true
				} else {
					picks[slot] = old
				}
			}
		}
		if !improved {
			break
		}
	}
	return picks
}

// weightedCost is sum_i w[i] * min(best[i], col[i]).
func weightedCost(w, best, col, scratch []float64) float64 {
	for i := range scratch {
		scratch[i] = math.Min(best[i], col[i])
	}
	return floats.Dot(w, scratch)
}

func selectionCost(dist [][]float64, w []float64, picks []int, scratch []float64) float64 {
	for i := range scratch {
		scratch[i] = math.Inf(1)
	}
	for _, j := range picks {
		for i := range scratch {
			scratch[i] = math.Min(scratch[i], dist[j][i])
		}
	}
	return floats.Dot(w, scratch)
}

// nearestIndex keeps the first of equally distant entries, like
// color.Palette.Index.
func nearestIndex(palette [][]float64, pt []float64) int {
	bestIdx, bestDist := 0, math.Inf(1)
	for i, p := range palette {
		if d := floats.Distance(p, pt, 2); d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	return bestIdx
}

func toRGB(c imaging.RGBColor) []float64 {
	return []float64{float64(c.R), float64(c.G), float64(c.B)}
}

func toLab(c imaging.RGBColor) []float64 {
	l, a, b := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Lab()
	return []float64{l, a, b}
}

// NearestThread returns the thread of cat matching c exactly, or else the
// perceptually closest one. exact reports which case applied.
func NearestThread(cat *catalog.Catalog, c imaging.RGBColor) (t catalog.ThreadColor, exact bool) {
	if t, ok := cat.FindByColor(c); ok {
		return t, true
	}
	return cat.At(Nearest(cat.Colors(), c)), false
}
