// Package pipeline compiles an image into a thread pattern page.
//
// A run goes through Fit, optional smoothing, palette reduction,
// quantization, the palette/legend consistency check, legend building and
// rendering. Stages hand their results forward and never modify what an
// earlier stage produced.
//
// The package logs through a slog.Logger installed with SetLogger and is
// silent by default.
package pipeline
