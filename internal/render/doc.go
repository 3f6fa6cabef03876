// Package render lays a quantized pattern out on a sheet and draws it.
//
// Drawing goes through Surface, which works in points with the origin at
// the bottom-left corner of the page and y growing upward. PDFSurface writes
// a vector page, RasterSurface draws onto a gg canvas and finishes the page
// as PNG, and Recorder keeps the calls in memory for inspection. SurfaceFor
// picks the file surface from an output path.
//
// Layout is computed in millimeters and converted to points only when a
// call is issued, so a rectangle never mixes the two units.
package render
