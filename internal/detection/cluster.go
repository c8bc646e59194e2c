package detection

import (
	"sort"

	"github.com/ironsheep/goban-reader/internal/grid"
)

// ClusterAxis merges lines of one axis into weighted 1-D candidates.
//
// Lines are sorted by Position and chained while each is within
// mergeDistance of the previous one. A cluster becomes one candidate at the
// vote-weighted mean position with weight equal to the total votes. The
// result is sorted by position.
func ClusterAxis(lines []Line, mergeDistance float64) []grid.Candidate {
	if len(lines) == 0 {
		return nil
	}

	sorted := append([]Line(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	var out []grid.Candidate
	var sum, votes float64
	last := sorted[0].Position

	flush := func() {
		if votes > 0 {
			out = append(out, grid.Candidate{Position: sum / votes, Weight: votes})
		}
		sum, votes = 0, 0
	}

	for _, l := range sorted {
		if l.Position-last > mergeDistance {
			flush()
		}
		w := float64(l.Votes)
		if w <= 0 {
			w = 1
		}
		sum += l.Position * w
		votes += w
		last = l.Position
	}
	flush()

	return out
}
