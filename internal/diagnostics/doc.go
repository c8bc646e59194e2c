// Package diagnostics provides sinks for the intermediate products of a
// board read: the rectified image, the annotated overlay and per-stage
// summary statistics.
//
// A Sink is optional everywhere it is accepted; Nop is the default.
package diagnostics
