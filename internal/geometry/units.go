package geometry

// Unit is the set of length types geometry values can be expressed in.
type Unit interface {
	~float64
}

// Millimeters is a physical length on paper.
type Millimeters float64

// Points is a length in output-device units (1/72 inch).
type Points float64

const (
	pointsPerInch      = 72.0
	millimetersPerInch = 25.4
)

// Points converts a paper length to device units.
//
//	1.0 mm -> 2.8346 pt
//	3.0 pt -> 1.0583 mm
func (m Millimeters) Points() Points {
	return Points(float64(m) * pointsPerInch / millimetersPerInch)
}

// Millimeters converts a device length back to paper units.
func (p Points) Millimeters() Millimeters {
	return Millimeters(float64(p) * millimetersPerInch / pointsPerInch)
}

// Pixels converts a device length to raster pixels at the given resolution.
func (p Points) Pixels(dpi float64) float64 {
	return float64(p) * dpi / pointsPerInch
}

// PosToPoints converts a paper position to device units.
func PosToPoints(p Pos[Millimeters]) Pos[Points] {
	return Pos[Points]{X: p.X.Points(), Y: p.Y.Points()}
}

// SizeToPoints converts a paper size to device units.
func SizeToPoints(s Size[Millimeters]) Size[Points] {
	return Size[Points]{W: s.W.Points(), H: s.H.Points()}
}

// RectToPoints converts a paper rectangle to device units.
func RectToPoints(r Rect[Millimeters]) Rect[Points] {
	return Rect[Points]{Pos: PosToPoints(r.Pos), Size: SizeToPoints(r.Size)}
}

// RectToMillimeters converts a device rectangle back to paper units.
func RectToMillimeters(r Rect[Points]) Rect[Millimeters] {
	return Rect[Millimeters]{
		Pos:  Pos[Millimeters]{X: r.Pos.X.Millimeters(), Y: r.Pos.Y.Millimeters()},
		Size: Size[Millimeters]{W: r.Size.W.Millimeters(), H: r.Size.H.Millimeters()},
	}
}
