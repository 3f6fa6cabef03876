package geometry

import "fmt"

// CellKind selects how a pattern cell is outlined.
type CellKind int

const (
	RoundCell CellKind = iota
	SquareCell
)

func (k CellKind) String() string {
	if k == SquareCell {
		return "square"
	}
	return "round"
}

// ParseCellKind resolves "round" or "square".
func ParseCellKind(s string) (CellKind, error) {
	switch s {
	case "round", "":
		return RoundCell, nil
	case "square":
		return SquareCell, nil
	default:
		return RoundCell, fmt.Errorf("geometry: unknown cell shape %q", s)
	}
}

// CellShape is one unit of the pattern grid. Size is the diameter of a round
// cell or the side of a square one; Spacing is the gap between neighbours.
type CellShape struct {
	Kind    CellKind    `json:"kind"`
	Size    Millimeters `json:"size"`
	Spacing Millimeters `json:"spacing,omitempty"`
}

// CommonRound is the usual 2.8 mm round drill.
func CommonRound() CellShape {
	return CellShape{Kind: RoundCell, Size: 2.8}
}

// CommonSquare is the usual 2.5 mm square drill.
func CommonSquare() CellShape {
	return CellShape{Kind: SquareCell, Size: 2.5}
}

// DefaultCell returns the common cell for a kind.
func DefaultCell(kind CellKind) CellShape {
	if kind == SquareCell {
		return CommonSquare()
	}
	return CommonRound()
}

// Pitch is the centre-to-centre distance between neighbouring cells.
func (c CellShape) Pitch() Millimeters {
	return c.Size + c.Spacing
}
