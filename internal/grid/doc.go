// Package grid infers the board size and line positions from 1-D line
// candidates.
//
// The line clusterer reports, per axis, a sorted list of weighted positions
// where grid lines were seen. Real photographs add spurious candidates
// (board edges, shadows, stone rims) and lose others (lines merged or hidden
// under stones). Infer recovers a regular progression of 9, 13 or 19 lines on
// each axis and succeeds only when both axes agree on the size.
//
// # Algorithm
//
//  1. Spacing: histogram mode of consecutive gaps (EstimateSpacing).
//  2. Fitting: every candidate is tried as the origin of origin + k*s; each
//     ideal point snaps to the nearest candidate within a fraction of s.
//  3. Scoring: mean snap error over s, minus a bonus for every candidate on
//     the axis that lies on the fitted lattice.
//  4. Selection: larger sizes win unless a smaller one is clearly better.
//
// Inference is deterministic; the same candidates always give the same Grid.
package grid
