package palette

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/thread-pattern-mcp/internal/catalog"
)

var (
	// ErrFallbackFailed wraps the failure of the single retry after an
	// infeasible request.
	ErrFallbackFailed = errors.New("palette: fallback retry failed")

	// ErrNonMonotonic reports an InfeasibleError whose Possible is not a
	// usable retry budget (zero, or not below the request).
	ErrNonMonotonic = errors.New("palette: matcher reported a non-monotonic achievable count")

	// ErrColorNotInCatalog reports a matcher color with no catalog thread.
	ErrColorNotInCatalog = errors.New("palette: color not found in catalog")

	// ErrContractViolation reports a matcher result breaking its contract
	// (too many or duplicate colors).
	ErrContractViolation = errors.New("palette: matcher contract violation")
)

// Reduction is the outcome of a palette reduction.
type Reduction struct {
	// Subset holds the chosen threads in the order the matcher returned them.
	Subset *catalog.Catalog

	// Requested is the color budget asked for.
	Requested int

	// Fallback is set when the first request was infeasible and the retry
	// with Possible colors produced Subset.
	Fallback bool

	// Possible is the achievable count reported by the matcher; zero unless
	// Fallback is set.
	Possible int
}

// Reducer selects the threads of a catalog that best reproduce an image.
type Reducer struct {
	Matcher Matcher
}

// NewReducer returns a Reducer backed by m, or by a default MedoidMatcher
// when m is nil.
func NewReducer(m Matcher) *Reducer {
	if m == nil {
		m = NewMedoidMatcher(nil)
	}
	return &Reducer{Matcher: m}
}

// Reduce returns at most maxColors threads of cat. When the image supports
// fewer colors the matcher is asked once more with the achievable count and
// the result has exactly that many threads.
func (r *Reducer) Reduce(cat *catalog.Catalog, img image.Image, maxColors int) (*Reduction, error) {
	if maxColors < 1 {
		return nil, ErrInvalidCount
	}
	palette := cat.Colors()
	result := &Reduction{Requested: maxColors}

	colors, err := r.Matcher.ClosestSubset(palette, maxColors, img)
	if inf, ok := AsInfeasible(err); ok {
		if inf.Possible < 1 || inf.Possible >= maxColors {
			return nil, fmt.Errorf("%w: requested %d, possible %d", ErrNonMonotonic, maxColors, inf.Possible)
		}
		result.Fallback = true
		result.Possible = inf.Possible

		colors, err = r.Matcher.ClosestSubset(palette, inf.Possible, img)
		if err != nil {
			return nil, fmt.Errorf("%w (retry with %d colors): %w", ErrFallbackFailed, inf.Possible, err)
		}
		if len(colors) != inf.Possible {
			return nil, fmt.Errorf("%w: retry with %d colors returned %d", ErrContractViolation, inf.Possible, len(colors))
		}
	} else if err != nil {
		return nil, err
	}

	if len(colors) == 0 || len(colors) > maxColors {
		return nil, fmt.Errorf("%w: %d colors returned for a budget of %d", ErrContractViolation, len(colors), maxColors)
	}

	threads := make([]catalog.ThreadColor, 0, len(colors))
	for _, c := range colors {
		t, ok := cat.FindByColor(c)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrColorNotInCatalog, c.Hex())
		}
		threads = append(threads, t)
	}

	subset, err := catalog.FromThreads(threads)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContractViolation, err)
	}
	result.Subset = subset
	return result, nil
}
