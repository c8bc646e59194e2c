// Package geometry holds the projective plumbing of the board reader:
// four-point homographies (gonum), perspective warping and the Board
// assembled from an inferred grid.
//
// Two frames are involved. The photograph is optionally pre-warped from four
// user corners into a roughly square frame in which lines are detected;
// Assemble then pins the fitted grid to a canonical lattice and produces the
// rectified image every intersection is sampled from.
package geometry
