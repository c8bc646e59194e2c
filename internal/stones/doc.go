// Package stones decides the occupant of every intersection of a rectified
// board.
//
// Classification runs in four steps:
//
//  1. Extract: per intersection, an inner disc is compared with the median
//     of eight background discs in CIE L*a*b* (DeltaL, chroma, and the
//     fractions of clearly dark and bright pixels).
//  2. Calibrate: the empty model (median and MAD spread of DeltaL, chroma
//     threshold) is fitted per photograph, refitted on the likely-empty
//     subset so stones do not bias it.
//  3. Decide: Black, White and Empty are scored, the best wins, and the
//     margin over the runner-up against an edge-dependent requirement
//     gives the confidence. Reject then demotes doubtful stones to Empty
//     and records why.
//  4. Refine: borderline calls re-sample a small grid of offsets and adopt
//     a clearly better one. Refinement never lowers the effective margin.
//
// Per-intersection work is independent and runs on a bounded errgroup pool;
// the outcome does not depend on the worker count.
package stones
