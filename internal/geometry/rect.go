package geometry

import (
	"errors"
	"fmt"
)

// ErrDoesNotFit is returned when a size cannot be placed inside a container.
var ErrDoesNotFit = errors.New("geometry: content does not fit")

// Pos is a point in a given unit.
type Pos[T Unit] struct {
	X T `json:"x"`
	Y T `json:"y"`
}

// Size is a width/height pair in a given unit.
type Size[T Unit] struct {
	W T `json:"w"`
	H T `json:"h"`
}

// Orientation classifies a size by its aspect ratio.
type Orientation int

const (
	SquareOrientation Orientation = iota
	Landscape
	Portrait
)

func (o Orientation) String() string {
	switch o {
	case Landscape:
		return "landscape"
	case Portrait:
		return "portrait"
	default:
		return "square"
	}
}

// SquareSize returns a size with equal sides.
func SquareSize[T Unit](side T) Size[T] {
	return Size[T]{W: side, H: side}
}

// AspectRatio returns W/H.
func (s Size[T]) AspectRatio() float64 {
	return float64(s.W) / float64(s.H)
}

// IsHorizontal reports whether the size is strictly wider than tall.
func (s Size[T]) IsHorizontal() bool {
	return s.AspectRatio() > 1.0
}

// IsVertical reports whether the size is strictly taller than wide.
func (s Size[T]) IsVertical() bool {
	return s.AspectRatio() < 1.0
}

// Orientation classifies the size; equal sides are neither landscape nor portrait.
func (s Size[T]) Orientation() Orientation {
	switch {
	case s.IsHorizontal():
		return Landscape
	case s.IsVertical():
		return Portrait
	default:
		return SquareOrientation
	}
}

// Swapped returns the size with W and H exchanged.
func (s Size[T]) Swapped() Size[T] {
	return Size[T]{W: s.H, H: s.W}
}

// Rect is an axis-aligned rectangle anchored at its bottom-left corner.
type Rect[T Unit] struct {
	Pos  Pos[T]  `json:"pos"`
	Size Size[T] `json:"size"`
}

func (r Rect[T]) Left() T   { return r.Pos.X }
func (r Rect[T]) Bottom() T { return r.Pos.Y }
func (r Rect[T]) Right() T  { return r.Pos.X + r.Size.W }
func (r Rect[T]) Top() T    { return r.Pos.Y + r.Size.H }

// Midpoint returns the centre of the rectangle.
func (r Rect[T]) Midpoint() Pos[T] {
	return Pos[T]{X: r.Pos.X + r.Size.W/2, Y: r.Pos.Y + r.Size.H/2}
}

// Contains reports whether inner lies entirely within r (edges inclusive).
func (r Rect[T]) Contains(inner Rect[T]) bool {
	return inner.Left() >= r.Left() && inner.Right() <= r.Right() &&
		inner.Bottom() >= r.Bottom() && inner.Top() <= r.Top()
}

// Center returns a rectangle of the given size centred within r.
//
// The offset on each axis is half the size difference. Callers are expected
// to check Fits first; a size larger than r on either axis yields ErrDoesNotFit.
func (r Rect[T]) Center(inner Size[T]) (Rect[T], error) {
	if inner.W > r.Size.W || inner.H > r.Size.H {
		return Rect[T]{}, fmt.Errorf("%w: %vx%v inside %vx%v",
			ErrDoesNotFit, inner.W, inner.H, r.Size.W, r.Size.H)
	}
	return Rect[T]{
		Pos: Pos[T]{
			X: r.Pos.X + (r.Size.W-inner.W)/2,
			Y: r.Pos.Y + (r.Size.H-inner.H)/2,
		},
		Size: inner,
	}, nil
}

// Fits reports whether a cols×rows grid at the given pitch fits strictly
// inside container on both axes.
func Fits[T Unit](container Size[T], cols, rows int, pitch T) bool {
	return T(cols)*pitch < container.W && T(rows)*pitch < container.H
}

// GridSize returns the physical size of a cols×rows grid at the given pitch.
func GridSize[T Unit](cols, rows int, pitch T) Size[T] {
	return Size[T]{W: T(cols) * pitch, H: T(rows) * pitch}
}
