// Package imaging holds the raster side of pattern compilation: decoding and
// caching source photos, exact color histograms, strict hex color parsing,
// resampling to cell resolution, and preview rendering of quantized images.
//
// # Coordinate System
//
// Pixel coordinates follow the image package convention: (0,0) is the
// top-left pixel, X increases rightward and Y increases downward. Paper-space
// coordinates (Y upward) live in package geometry; the flip between the two
// happens only in the renderer.
//
// # Color Representation
//
// RGBColor is the 8-bit, alpha-free color used throughout the pipeline. It is
// comparable, so it doubles as a histogram and catalog index key. 16-bit
// sources are reduced by dropping the low byte.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless
// and never modify their input images.
package imaging
