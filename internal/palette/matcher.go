package palette

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
)

var (
	// ErrInvalidCount reports a color budget below one.
	ErrInvalidCount = errors.New("palette: color count must be at least 1")

	// ErrEmptyInput reports an empty palette or image.
	ErrEmptyInput = errors.New("palette: empty palette or image")
)

// Matcher selects the subset of palette that best approximates img.
//
// Implementations must be deterministic for identical inputs and must return
// colors that are members of palette. When fewer than k colors are
// achievable they return *InfeasibleError with Possible < k, and a request
// for exactly Possible colors must then succeed.
type Matcher interface {
	ClosestSubset(palette []imaging.RGBColor, k int, img image.Image) ([]imaging.RGBColor, error)
}

// InfeasibleError reports a color budget the image cannot fill.
type InfeasibleError struct {
	Requested int
	Possible  int
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("palette: requested %d colors, only %d possible", e.Requested, e.Possible)
}

// AsInfeasible extracts an *InfeasibleError from err.
func AsInfeasible(err error) (*InfeasibleError, bool) {
	var inf *InfeasibleError
	if errors.As(err, &inf) {
		return inf, true
	}
	return nil, false
}
