package pipeline

import (
	"github.com/ironsheep/goban-reader/internal/grid"
	"github.com/ironsheep/goban-reader/internal/stones"
)

func gridStats(g *grid.Grid) map[string]float64 {
	return map[string]float64{
		"size":                  float64(g.Size),
		"vertical_spacing":      g.Vertical.Spacing,
		"horizontal_spacing":    g.Horizontal.Spacing,
		"vertical_score":        g.Vertical.Score,
		"horizontal_score":      g.Horizontal.Score,
		"vertical_coverage":     float64(g.Vertical.Coverage),
		"horizontal_coverage":   float64(g.Horizontal.Coverage),
		"vertical_mean_error":   g.Vertical.MeanError,
		"horizontal_mean_error": g.Horizontal.MeanError,
	}
}

func calibrationStats(m *stones.Model) map[string]float64 {
	refit := 0.0
	if m.Refit {
		refit = 1
	}
	return map[string]float64{
		"median_empty":     m.MedianEmpty,
		"sigma_empty":      m.SigmaEmpty,
		"chroma_threshold": m.ChromaThreshold,
		"valid_features":   float64(m.ValidFeatures),
		"empty_subset":     float64(m.EmptySubset),
		"refit":            refit,
	}
}

func classificationStats(c *stones.Classification) map[string]float64 {
	counts := c.Counts()
	var rejected, refined, invalid int
	var confidence float64
	for _, d := range c.Decisions {
		switch {
		case d.Reason == stones.ReasonInvalidFeature:
			invalid++
		case d.Rejected():
			rejected++
		}
		if d.Refined {
			refined++
		}
		confidence += d.Confidence
	}

	out := map[string]float64{
		"black":    float64(counts[stones.Black]),
		"white":    float64(counts[stones.White]),
		"empty":    float64(counts[stones.Empty]),
		"rejected": float64(rejected),
		"invalid":  float64(invalid),
		"refined":  float64(refined),
	}
	if n := len(c.Decisions); n > 0 {
		out["mean_confidence"] = confidence / float64(n)
	}
	return out
}
