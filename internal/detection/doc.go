// Package detection turns a roughly rectified board photograph into 1-D line
// candidates for grid inference.
//
// # Pipeline
//
//  1. Edge map: Gaussian blur, grayscale, Sobel magnitude and a fixed
//     threshold (bild).
//  2. Hough voting restricted to a few degrees around 0 and 90 degrees. The
//     normal form is taken relative to the image centre so that a line's
//     rho is close to its offset from the centre.
//  3. Peak picking: cells above a fraction of the image extent that are local
//     maxima in a small (angle, rho) window.
//  4. Clustering: both edges of a drawn line, and neighbouring peaks, are
//     merged into one candidate at the vote-weighted mean position.
//
// # Coordinate System
//
// Positions use the standard image convention: x increases rightward, y
// increases downward, and both are in the pixel space of the input image
// (including a non-zero Bounds().Min).
//
// # Limitations
//
// The detector expects the board to be roughly axis-aligned already; pass
// four corners through geometry.Warp first for photographs taken at an
// angle. Lines tilted by more than the configured maximum are not seen.
package detection
