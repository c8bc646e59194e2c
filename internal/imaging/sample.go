package imaging

import "math"

// DiscStats summarises the usable pixels of a disc.
type DiscStats struct {
	N     int     `json:"n"`
	MeanL float64 `json:"mean_l"`
	MeanA float64 `json:"mean_a"`
	MeanB float64 `json:"mean_b"`
}

// EachInDisc calls fn for every usable pixel whose integer coordinates lie
// within radius r of (cx, cy). Pixels outside the image or transparent in
// the source are skipped, never padded or mirrored.
func (m *LabImage) EachInDisc(cx, cy, r float64, fn func(l, a, b float64)) {
	if r < 0 {
		return
	}
	r2 := r * r
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))

	for y := y0; y <= y1; y++ {
		dy := float64(y) - cy
		for x := x0; x <= x1; x++ {
			dx := float64(x) - cx
			if dx*dx+dy*dy > r2 {
				continue
			}
			if l, a, b, ok := m.At(x, y); ok {
				fn(l, a, b)
			}
		}
	}
}

// Disc returns the mean L*a*b* over the usable pixels of a disc. N is 0
// when no pixel is usable.
func (m *LabImage) Disc(cx, cy, r float64) DiscStats {
	var s DiscStats
	m.EachInDisc(cx, cy, r, func(l, a, b float64) {
		s.N++
		s.MeanL += l
		s.MeanA += a
		s.MeanB += b
	})
	if s.N > 0 {
		n := float64(s.N)
		s.MeanL /= n
		s.MeanA /= n
		s.MeanB /= n
	}
	return s
}
