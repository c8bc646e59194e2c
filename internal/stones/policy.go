package stones

import (
	"math"

	"github.com/ironsheep/goban-reader/internal/config"
)

// Reject runs the reject-to-Empty checks against a scored call and returns
// the first one that fails, or ReasonNone. Empty calls are never rejected.
//
// The checks, in order:
//   - weak signal: |z| below the minimum, stricter off the interior
//   - low confidence: Black on large boards needs a confidence floor
//   - weak support: too few uniformly dark (bright) pixels, or no clear
//     advantage over the opposite direction
//   - white edge artifact: a chromatic, patchily bright White near the edge
//   - neighbor contrast: a near-edge call that does not stand out from its
//     own neighbourhood, unless |z| alone is overwhelming
func Reject(d Decision, f Feature, sc SpatialContext, m *Model, p config.PolicyConfig) Reason {
	if d.State == Empty {
		return ReasonNone
	}
	z := m.Z(f)
	absZ := math.Abs(z)
	edge := sc.Edge != Interior

	minZ := p.MinAbsZ
	if edge {
		minZ = p.MinAbsZEdge
	}
	if absZ < minZ {
		return ReasonWeakSignal
	}

	if d.State == Black && sc.Size >= p.LargeBoardSize && d.Confidence < p.MinBlackConfidenceLarge {
		return ReasonLowConfidence
	}

	switch d.State {
	case Black:
		if f.DarkFrac < p.MinDarkSupport || f.DarkFrac-f.BrightFrac < p.MinSupportAdvantage {
			return ReasonWeakSupport
		}
	case White:
		if f.BrightFrac < p.MinBrightSupport || f.BrightFrac-f.DarkFrac < p.MinSupportAdvantage {
			return ReasonWeakSupport
		}
	}

	if d.State == White && edge &&
		f.ChromaSq > p.WhiteArtifactChroma*m.ChromaThreshold && f.BrightFrac < p.WhiteArtifactMinBright {
		return ReasonWhiteEdgeArtifact
	}

	if edge && absZ < p.EdgeStrongZ && sc.HasNeighbors {
		contrast := (f.DeltaL - sc.NeighborMedian) / m.SigmaEmpty
		if d.State == Black {
			contrast = -contrast
		}
		if contrast < p.EdgeNeighborZ {
			return ReasonNeighborContrast
		}
	}

	return ReasonNone
}

// Resolve applies Reject to a scored call. A rejected call becomes Empty
// with confidence 1 - the scored confidence; scores and margins are kept.
func Resolve(d Decision, f Feature, sc SpatialContext, m *Model, p config.PolicyConfig) Decision {
	r := Reject(d, f, sc, m, p)
	if r == ReasonNone {
		return d
	}
	d.Proposed = d.State
	d.State = Empty
	d.Confidence = 1 - d.Confidence
	d.Reason = r
	return d
}
