package grid

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Candidate is one weighted 1-D line position along an axis, in pixels of
// the roughly warped photograph.
type Candidate struct {
	Position float64 `json:"position"`
	Weight   float64 `json:"weight"`
}

// Positions returns the candidate positions in order.
func Positions(cands []Candidate) []float64 {
	out := make([]float64, len(cands))
	for i, c := range cands {
		out[i] = c.Position
	}
	return out
}

// SortCandidates returns a copy of cands ordered by position. Equal
// positions keep their input order.
func SortCandidates(cands []Candidate) []Candidate {
	out := append([]Candidate(nil), cands...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

// EstimateSpacing returns the dominant gap between consecutive candidates.
//
// Gaps are binned with the given width and the modal bin wins; ties go to
// the smaller gap. The estimate is the median of the gaps in the modal bin
// and its two neighbours, which keeps a few merged (2s) or spurious (s/2)
// gaps from dragging it the way a mean or minimum would. Returns 0 when
// fewer than two candidates are given.
func EstimateSpacing(cands []Candidate, binWidth float64) float64 {
	if len(cands) < 2 || binWidth <= 0 {
		return 0
	}

	gaps := make([]float64, 0, len(cands)-1)
	for i := 1; i < len(cands); i++ {
		gaps = append(gaps, cands[i].Position-cands[i-1].Position)
	}

	counts := make(map[int]int)
	for _, g := range gaps {
		counts[int(math.Floor(g/binWidth))]++
	}

	bins := make([]int, 0, len(counts))
	for b := range counts {
		bins = append(bins, b)
	}
	sort.Ints(bins)

	mode, best := bins[0], -1
	for _, b := range bins {
		if counts[b] > best {
			mode, best = b, counts[b]
		}
	}

	near := make([]float64, 0, len(gaps))
	for _, g := range gaps {
		b := int(math.Floor(g / binWidth))
		if b >= mode-1 && b <= mode+1 {
			near = append(near, g)
		}
	}
	return median(near)
}

// median of xs; xs is not modified.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	if len(sorted)%2 == 1 {
		return sorted[len(sorted)/2]
	}
	return stat.Mean(sorted[len(sorted)/2-1:len(sorted)/2+1], nil)
}

// nearest returns the index of the candidate closest to p, preferring the
// heavier one on an exact tie. cands must be sorted and non-empty.
func nearest(cands []Candidate, p float64) int {
	i := sort.Search(len(cands), func(i int) bool {
		return cands[i].Position >= p
	})
	switch {
	case i == 0:
		return 0
	case i == len(cands):
		return len(cands) - 1
	}

	lo, hi := cands[i-1], cands[i]
	dLo, dHi := p-lo.Position, hi.Position-p
	switch {
	case dLo < dHi:
		return i - 1
	case dHi < dLo:
		return i
	case hi.Weight > lo.Weight:
		return i
	default:
		return i - 1
	}
}
