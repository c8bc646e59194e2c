package stones

// EdgeLevelOf classifies (row, col) on a size x size board. The outermost
// line is OnEdge; the next band lines are NearEdge.
func EdgeLevelOf(row, col, size, band int) EdgeLevel {
	d := min(row, col, size-1-row, size-1-col)
	switch {
	case d <= 0:
		return OnEdge
	case d <= band:
		return NearEdge
	default:
		return Interior
	}
}

// Contexts derives the spatial context of every intersection from its
// position and the valid DeltaL of its 8-neighbours. features is row-major.
func Contexts(features []Feature, size, band int) []SpatialContext {
	out := make([]SpatialContext, len(features))
	neigh := make([]float64, 0, 8)

	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			neigh = neigh[:0]
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					nr, nc := r+dr, c+dc
					if (dr == 0 && dc == 0) || nr < 0 || nc < 0 || nr >= size || nc >= size {
						continue
					}
					if f := features[nr*size+nc]; f.Valid {
						neigh = append(neigh, f.DeltaL)
					}
				}
			}

			out[r*size+c] = SpatialContext{
				Row:            r,
				Col:            c,
				Size:           size,
				Edge:           EdgeLevelOf(r, c, size, band),
				NeighborMedian: median(neigh),
				HasNeighbors:   len(neigh) > 0,
			}
		}
	}
	return out
}
