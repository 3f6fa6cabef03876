package pipeline

import (
	"errors"
	"io/fs"

	"github.com/ironsheep/thread-pattern-mcp/internal/catalog"
	"github.com/ironsheep/thread-pattern-mcp/internal/geometry"
	"github.com/ironsheep/thread-pattern-mcp/internal/legend"
	"github.com/ironsheep/thread-pattern-mcp/internal/palette"
	"github.com/ironsheep/thread-pattern-mcp/internal/render"
)

var (
	// ErrConsistency reports two stages disagreeing on the palette.
	ErrConsistency = errors.New("pipeline: palette consistency violation")

	// ErrInvalidOptions reports unusable run options.
	ErrInvalidOptions = errors.New("pipeline: invalid options")
)

// ErrorKind is the failure class of a pipeline error.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindUnknown
	KindConfig
	KindDataCorruption
	KindInfeasibleRequest
	KindConsistency
	KindGeometry
	KindIO
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConfig:
		return "config"
	case KindDataCorruption:
		return "data-corruption"
	case KindInfeasibleRequest:
		return "infeasible-request"
	case KindConsistency:
		return "consistency-violation"
	case KindGeometry:
		return "geometry-infeasible"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Classify maps err onto its failure class.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var surfaceErr *render.SurfaceError
	var pathErr *fs.PathError

	switch {
	case errors.Is(err, catalog.ErrDataCorrupted):
		return KindDataCorruption
	case errors.Is(err, ErrConsistency),
		errors.Is(err, palette.ErrColorNotInCatalog),
		errors.Is(err, palette.ErrContractViolation),
		errors.Is(err, legend.ErrColorMissing),
		errors.Is(err, legend.ErrAlphabetTooSmall):
		return KindConsistency
	case errors.Is(err, palette.ErrFallbackFailed),
		errors.Is(err, palette.ErrNonMonotonic):
		return KindInfeasibleRequest
	case errors.Is(err, geometry.ErrDoesNotFit):
		return KindGeometry
	case errors.Is(err, geometry.ErrDegenerateSheet),
		errors.Is(err, ErrInvalidOptions),
		errors.Is(err, legend.ErrInvalidAlphabet),
		errors.Is(err, palette.ErrInvalidCount):
		return KindConfig
	case errors.As(err, &surfaceErr), errors.As(err, &pathErr):
		return KindIO
	}
	if _, ok := palette.AsInfeasible(err); ok {
		return KindInfeasibleRequest
	}
	return KindUnknown
}
