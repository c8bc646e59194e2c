package stones

import (
	"math"

	"github.com/ironsheep/goban-reader/internal/config"
	"github.com/ironsheep/goban-reader/internal/imaging"
)

// compass holds the unit offsets of the eight background samples.
var compass = func() [8][2]float64 {
	var dirs [8][2]float64
	for k := range dirs {
		a := float64(k) * math.Pi / 4
		dirs[k] = [2]float64{math.Cos(a), math.Sin(a)}
	}
	return dirs
}()

// Extract measures the intersection at (x, y) of the rectified image.
//
// The inner disc covers the point itself. Eight background discs sit at the
// compass directions further out, each averaged, and are combined by median
// so that one or two landing on a neighbouring stone do not move the
// estimate. The feature is invalid when fewer than
// cfg.MinBackgroundSamples background discs, or no inner pixel, are usable.
func Extract(img *imaging.LabImage, x, y, spacing float64, cfg config.FeatureConfig) Feature {
	innerR := math.Max(cfg.InnerRadius*spacing, cfg.MinRadiusPx)
	bgR := math.Max(cfg.BackgroundRadius*spacing, cfg.MinRadiusPx)
	dist := cfg.BackgroundDistance * spacing

	bg := make([]float64, 0, len(compass))
	for _, d := range compass {
		s := img.Disc(x+d[0]*dist, y+d[1]*dist, bgR)
		if s.N > 0 {
			bg = append(bg, s.MeanL)
		}
	}
	if len(bg) < cfg.MinBackgroundSamples {
		return Feature{BackgroundSamples: len(bg)}
	}

	inner := img.Disc(x, y, innerR)
	if inner.N == 0 {
		return Feature{BackgroundSamples: len(bg)}
	}

	bgL := median(bg)
	var dark, bright int
	img.EachInDisc(x, y, innerR, func(l, _, _ float64) {
		switch {
		case l < bgL-cfg.SupportDelta:
			dark++
		case l > bgL+cfg.SupportDelta:
			bright++
		}
	})

	da := inner.MeanA - cfg.NeutralA
	db := inner.MeanB - cfg.NeutralB
	n := float64(inner.N)
	return Feature{
		DeltaL:            inner.MeanL - bgL,
		ChromaSq:          da*da + db*db,
		DarkFrac:          float64(dark) / n,
		BrightFrac:        float64(bright) / n,
		Valid:             true,
		BackgroundSamples: len(bg),
	}
}
