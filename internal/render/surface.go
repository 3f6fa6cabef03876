package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/ironsheep/thread-pattern-mcp/internal/geometry"
	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
)

// ErrNoPage reports a draw call outside BeginPage/Finish.
var ErrNoPage = errors.New("render: no page in progress")

// Align selects how DrawText positions a string relative to its anchor.
type Align int

const (
	// AlignCenter centers the text on the anchor both ways.
	AlignCenter Align = iota
	// AlignLeft starts the text at the anchor, vertically centered.
	AlignLeft
)

func (a Align) String() string {
	if a == AlignLeft {
		return "left"
	}
	return "center"
}

// Surface is a single-page drawing target in points, y up.
//
// The page lifecycle is BeginPage, any number of draw calls, then Finish.
// Any call may fail; a failed page must not be finished.
type Surface interface {
	BeginPage(size geometry.Size[geometry.Points]) error
	FillRect(r geometry.Rect[geometry.Points], c imaging.RGBColor) error
	StrokeRect(r geometry.Rect[geometry.Points], c imaging.RGBColor, width geometry.Points) error
	FillCircle(center geometry.Pos[geometry.Points], radius geometry.Points, c imaging.RGBColor) error
	StrokeCircle(center geometry.Pos[geometry.Points], radius geometry.Points, c imaging.RGBColor, width geometry.Points) error
	DrawText(s string, at geometry.Pos[geometry.Points], size geometry.Points, c imaging.RGBColor, align Align) error
	Finish(w io.Writer) error
}

// SurfaceError wraps a failure reported by a Surface.
type SurfaceError struct {
	Op  string
	Err error
}

func (e *SurfaceError) Error() string {
	return fmt.Sprintf("render: %s: %v", e.Op, e.Err)
}

func (e *SurfaceError) Unwrap() error { return e.Err }

func surfaceErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &SurfaceError{Op: op, Err: err}
}

// contrast threshold on R+G+B; above it the background is light.
const inkThreshold = 300

var (
	Black = imaging.RGBColor{}
	White = imaging.RGBColor{R: 255, G: 255, B: 255}
)

// InkFor returns the symbol color readable on background c: black when the
// channel sum exceeds 300, white otherwise.
func InkFor(c imaging.RGBColor) imaging.RGBColor {
	if c.ChannelSum() > inkThreshold {
		return Black
	}
	return White
}
