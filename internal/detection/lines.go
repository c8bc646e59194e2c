package detection

import (
	"image"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"

	"github.com/ironsheep/goban-reader/internal/config"
	"github.com/ironsheep/goban-reader/internal/failure"
	"github.com/ironsheep/goban-reader/internal/grid"
)

// Axis identifies a line family.
type Axis int

const (
	// Vertical lines have a roughly constant x; their Position is an x.
	Vertical Axis = iota
	// Horizontal lines have a roughly constant y; their Position is a y.
	Horizontal
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Line is one Hough peak.
type Line struct {
	Axis        Axis    `json:"axis"`
	Rho         float64 `json:"rho"`          // distance from the image centre
	TiltDegrees float64 `json:"tilt_degrees"` // deviation from the axis
	Votes       int     `json:"votes"`
	Position    float64 `json:"position"` // crossing with the centre row/column
}

// LinesResult holds the raw peaks and the clustered candidates per axis.
type LinesResult struct {
	Lines      []Line           `json:"lines"`
	Vertical   []grid.Candidate `json:"vertical"`
	Horizontal []grid.Candidate `json:"horizontal"`
}

// DetectAxisLines finds the near-vertical and near-horizontal lines of a
// roughly rectified board photograph and clusters them into 1-D candidates.
//
// Only angles within cfg.MaxTiltDegrees of the two axes are voted on, so the
// accumulator stays small and diagonal texture (wood grain, stone rims seen
// at an angle) cannot form lines.
func DetectAxisLines(img image.Image, cfg config.DetectionConfig) (*LinesResult, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, failure.New(failure.StageDetection, failure.KindInvalidInput, "empty image")
	}

	edges := EdgeMap(img, cfg)
	lines := houghAxisLines(edges, cfg)

	var vertical, horizontal []Line
	for _, l := range lines {
		if l.Axis == Vertical {
			vertical = append(vertical, l)
		} else {
			horizontal = append(horizontal, l)
		}
	}

	return &LinesResult{
		Lines:      lines,
		Vertical:   ClusterAxis(vertical, cfg.MergeDistance),
		Horizontal: ClusterAxis(horizontal, cfg.MergeDistance),
	}, nil
}

// EdgeMap blurs, converts to grayscale, runs Sobel and thresholds the
// magnitude. Edge pixels are white (255).
func EdgeMap(img image.Image, cfg config.DetectionConfig) *image.Gray {
	src := img
	if cfg.BlurRadius > 0 {
		src = blur.Gaussian(img, cfg.BlurRadius)
	}
	return segment.Threshold(effect.Sobel(effect.Grayscale(src)), cfg.EdgeThreshold)
}

type family struct {
	axis   Axis
	cos    []float64
	sin    []float64
	tilts  []float64
	acc    [][]int // [angle][rho]
	extent int     // length of a full line in pixels
}

func houghAxisLines(edges *image.Gray, cfg config.DetectionConfig) []Line {
	b := edges.Bounds()
	width, height := b.Dx(), b.Dy()
	cx, cy := float64(width)/2, float64(height)/2

	rhoMax := int(math.Ceil(math.Hypot(float64(width), float64(height))/2)) + 1
	numRho := 2*rhoMax + 1

	steps := 0
	if cfg.AngleStepDegrees > 0 {
		steps = int(math.Floor(cfg.MaxTiltDegrees/cfg.AngleStepDegrees + 1e-9))
	}

	families := [2]*family{
		{axis: Vertical, extent: height},
		{axis: Horizontal, extent: width},
	}
	for _, f := range families {
		base := 0.0
		if f.axis == Horizontal {
			base = 90
		}
		for i := -steps; i <= steps; i++ {
			tilt := float64(i) * cfg.AngleStepDegrees
			theta := (base + tilt) * math.Pi / 180
			f.tilts = append(f.tilts, tilt)
			f.cos = append(f.cos, math.Cos(theta))
			f.sin = append(f.sin, math.Sin(theta))
			f.acc = append(f.acc, make([]int, numRho))
		}
	}

	// Vote in Hough space
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges.GrayAt(b.Min.X+x, b.Min.Y+y).Y == 0 {
				continue
			}
			dx, dy := float64(x)-cx, float64(y)-cy
			for _, f := range families {
				for t := range f.tilts {
					rho := dx*f.cos[t] + dy*f.sin[t]
					f.acc[t][int(math.Round(rho))+rhoMax]++
				}
			}
		}
	}

	var lines []Line
	for _, f := range families {
		threshold := int(math.Ceil(cfg.MinLineFraction * float64(f.extent)))
		if threshold < 1 {
			threshold = 1
		}
		peaks := findPeaks(f.acc, threshold, cfg.PeakRadius)

		sort.SliceStable(peaks, func(i, j int) bool {
			return peaks[i].votes > peaks[j].votes
		})
		if cfg.MaxLines > 0 && len(peaks) > cfg.MaxLines {
			peaks = peaks[:cfg.MaxLines]
		}

		for _, p := range peaks {
			rho := float64(p.rho - rhoMax)
			l := Line{
				Axis:        f.axis,
				Rho:         rho,
				TiltDegrees: f.tilts[p.angle],
				Votes:       p.votes,
			}
			// Crossing with the centre column (horizontal lines) or the
			// centre row (vertical lines).
			if f.axis == Vertical {
				l.Position = float64(b.Min.X) + cx + rho/f.cos[p.angle]
			} else {
				l.Position = float64(b.Min.Y) + cy + rho/f.sin[p.angle]
			}
			lines = append(lines, l)
		}
	}
	return lines
}

type peak struct {
	angle int
	rho   int
	votes int
}

// findPeaks keeps accumulator cells at or above threshold that are local
// maxima within one angle step and radius rho bins. On plateaus only the
// first cell in (angle, rho) order survives.
func findPeaks(acc [][]int, threshold, radius int) []peak {
	var peaks []peak
	for a := range acc {
		for r, v := range acc[a] {
			if v < threshold {
				continue
			}
			if isLocalMax(acc, a, r, v, radius) {
				peaks = append(peaks, peak{angle: a, rho: r, votes: v})
			}
		}
	}
	return peaks
}

func isLocalMax(acc [][]int, a, r, v, radius int) bool {
	for da := -1; da <= 1; da++ {
		na := a + da
		if na < 0 || na >= len(acc) {
			continue
		}
		for dr := -radius; dr <= radius; dr++ {
			nr := r + dr
			if (da == 0 && dr == 0) || nr < 0 || nr >= len(acc[na]) {
				continue
			}
			n := acc[na][nr]
			if n > v {
				return false
			}
			// earlier cell of an equal plateau wins
			if n == v && (na < a || (na == a && nr < r)) {
				return false
			}
		}
	}
	return true
}
