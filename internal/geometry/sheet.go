package geometry

import (
	"errors"
	"fmt"
)

// ErrDegenerateSheet is returned for a sheet whose printable area is empty.
var ErrDegenerateSheet = errors.New("geometry: degenerate sheet")

// Margins are mirrored print margins. Vertical applies to the top and bottom
// edges, Horizontal to the left and right edges.
type Margins struct {
	Vertical   Millimeters `json:"vertical" yaml:"vertical"`
	Horizontal Millimeters `json:"horizontal" yaml:"horizontal"`
}

// Swapped exchanges the vertical and horizontal margins.
func (m Margins) Swapped() Margins {
	return Margins{Vertical: m.Horizontal, Horizontal: m.Vertical}
}

// Sheet is a physical paper sheet with symmetric print margins.
type Sheet struct {
	Size    Size[Millimeters] `json:"size"`
	Margins Margins           `json:"margins"`
}

// A4 returns a portrait A4 sheet with 6 mm margins.
func A4() Sheet {
	return Sheet{
		Size:    Size[Millimeters]{W: 210, H: 297},
		Margins: Margins{Vertical: 6, Horizontal: 6},
	}
}

// A3 returns a portrait A3 sheet with 8 mm margins.
func A3() Sheet {
	return Sheet{
		Size:    Size[Millimeters]{W: 297, H: 420},
		Margins: Margins{Vertical: 8, Horizontal: 8},
	}
}

// SheetByName resolves a standard sheet name ("a4", "a3").
func SheetByName(name string) (Sheet, error) {
	switch name {
	case "a4", "A4", "":
		return A4(), nil
	case "a3", "A3":
		return A3(), nil
	default:
		return Sheet{}, fmt.Errorf("geometry: unknown sheet %q", name)
	}
}

// Rotated returns the sheet turned by 90 degrees. Size and margins are
// swapped together.
func (s Sheet) Rotated() Sheet {
	return Sheet{
		Size:    s.Size.Swapped(),
		Margins: s.Margins.Swapped(),
	}
}

// PrintableArea returns the sheet shrunk by its margins on every side.
func (s Sheet) PrintableArea() Rect[Millimeters] {
	return Rect[Millimeters]{
		Pos: Pos[Millimeters]{X: s.Margins.Horizontal, Y: s.Margins.Vertical},
		Size: Size[Millimeters]{
			W: s.Size.W - 2*s.Margins.Horizontal,
			H: s.Size.H - 2*s.Margins.Vertical,
		},
	}
}

// Validate rejects sheets with no printable area or negative margins.
func (s Sheet) Validate() error {
	if s.Margins.Vertical < 0 || s.Margins.Horizontal < 0 {
		return fmt.Errorf("%w: negative margins %+v", ErrDegenerateSheet, s.Margins)
	}
	area := s.PrintableArea()
	if area.Size.W <= 0 || area.Size.H <= 0 {
		return fmt.Errorf("%w: printable area %vx%v mm", ErrDegenerateSheet, area.Size.W, area.Size.H)
	}
	return nil
}
