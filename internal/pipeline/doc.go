// Package pipeline wires the stages of a board read together.
//
// Read takes a photograph (optionally pre-warped from four corners), finds
// axis line candidates, and hands them to Run, which infers the grid,
// rectifies the board and classifies every intersection. Stage summaries go
// to the zap logger at Debug and, when a diagnostics.Sink is supplied, as
// images and statistics:
//
//	rectified       image  the canonical board every feature is sampled from
//	overlay         image  fitted lines and per-intersection calls
//	grid            stats  size, spacing, fit score per axis
//	calibration     stats  empty model
//	classification  stats  counts, rejections, refinements
package pipeline
