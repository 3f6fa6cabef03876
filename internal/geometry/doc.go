// Package geometry models the physical sheet a pattern is printed on.
//
// All paper-space values are lengths in millimetres with the origin at the
// bottom-left corner of the sheet: X grows to the right and Y grows upward.
// The drawing boundary works in points (1/72 inch). Positions, sizes and
// rectangles are generic over the unit so a rectangle can never mix the two;
// the only way across is the explicit conversion helpers in units.go.
//
// # Orientation
//
// A Sheet is a value. Rotated returns a new sheet with width/height and the
// vertical/horizontal margins swapped together, so a portrait sheet can never
// end up with landscape margins.
package geometry
