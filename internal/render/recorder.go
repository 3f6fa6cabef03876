package render

import (
	"io"

	"github.com/ironsheep/thread-pattern-mcp/internal/geometry"
	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
)

// OpKind identifies a recorded draw call.
type OpKind int

const (
	OpFillRect OpKind = iota
	OpStrokeRect
	OpFillCircle
	OpStrokeCircle
	OpText
)

func (k OpKind) String() string {
	switch k {
	case OpFillRect:
		return "fill-rect"
	case OpStrokeRect:
		return "stroke-rect"
	case OpFillCircle:
		return "fill-circle"
	case OpStrokeCircle:
		return "stroke-circle"
	case OpText:
		return "text"
	default:
		return "unknown"
	}
}

// Op is one recorded draw call. Only the fields relevant to Kind are set.
type Op struct {
	Kind   OpKind
	Rect   geometry.Rect[geometry.Points]
	Center geometry.Pos[geometry.Points]
	Radius geometry.Points
	Width  geometry.Points
	Color  imaging.RGBColor
	Text   string
	Size   geometry.Points
	Align  Align
}

// Recorder is a Surface that keeps every call in memory.
//
// Fail, when set, is consulted before each draw call is recorded; a non-nil
// return is reported as that call's error.
type Recorder struct {
	Page     geometry.Size[geometry.Points]
	Ops      []Op
	Begun    bool
	Finished bool

	Fail func(op Op) error
}

// BeginPage implements Surface.
func (r *Recorder) BeginPage(size geometry.Size[geometry.Points]) error {
	r.Page = size
	r.Begun = true
	return nil
}

func (r *Recorder) record(op Op) error {
	if !r.Begun || r.Finished {
		return ErrNoPage
	}
	if r.Fail != nil {
		if err := r.Fail(op); err != nil {
			return err
		}
	}
	r.Ops = append(r.Ops, op)
	return nil
}

// FillRect implements Surface.
func (r *Recorder) FillRect(rect geometry.Rect[geometry.Points], c imaging.RGBColor) error {
	return r.record(Op{Kind: OpFillRect, Rect: rect, Color: c})
}

// StrokeRect implements Surface.
func (r *Recorder) StrokeRect(rect geometry.Rect[geometry.Points], c imaging.RGBColor, width geometry.Points) error {
	return r.record(Op{Kind: OpStrokeRect, Rect: rect, Color: c, Width: width})
}

// FillCircle implements Surface.
func (r *Recorder) FillCircle(center geometry.Pos[geometry.Points], radius geometry.Points, c imaging.RGBColor) error {
	return r.record(Op{Kind: OpFillCircle, Center: center, Radius: radius, Color: c})
}

// StrokeCircle implements Surface.
func (r *Recorder) StrokeCircle(center geometry.Pos[geometry.Points], radius geometry.Points, c imaging.RGBColor, width geometry.Points) error {
	return r.record(Op{Kind: OpStrokeCircle, Center: center, Radius: radius, Color: c, Width: width})
}

// DrawText implements Surface.
func (r *Recorder) DrawText(s string, at geometry.Pos[geometry.Points], size geometry.Points, c imaging.RGBColor, align Align) error {
	return r.record(Op{Kind: OpText, Center: at, Text: s, Size: size, Color: c, Align: align})
}

// Finish implements Surface. Nothing is written to w.
func (r *Recorder) Finish(io.Writer) error {
	if !r.Begun || r.Finished {
		return ErrNoPage
	}
	r.Finished = true
	return nil
}

// Count returns the number of recorded calls of kind k.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// Filter returns the recorded calls of kind k in order.
func (r *Recorder) Filter(k OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == k {
			out = append(out, op)
		}
	}
	return out
}
