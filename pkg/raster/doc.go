// Package raster provides the pixel sink consumed by the layout engine and
// an in-memory bitmap implementation of it.
//
// # Overview
//
// The engine itself never draws geometry; it walks the canvas tree, clips
// each subtree to its solved rectangle with [Sink.SetPermittedRegion], and
// paints canvas backgrounds with [Sink.SetPixel]. Everything else (shape
// rasterization) is done by collaborators that receive the same sink.
//
// [Bitmap] is the standard sink: a z-buffered RGBA surface with a
// bottom-left origin, encodable to PNG via [Bitmap.EncodePNG].
//
// # Coordinate Orientation
//
// Sinks use mathematical orientation: y grows upward, (0,0) is the
// bottom-left pixel. [Bitmap.Image] flips rows so encoded output has the
// usual top-left origin.
package raster
