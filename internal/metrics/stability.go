package metrics

import (
	"math"

	"github.com/san-kum/edmd/internal/sim"
)

// MinGap tracks the smallest surface-to-surface distance between any two
// disks. A negative value means penetration.
type MinGap struct {
	name    string
	min     float64
	samples int
}

func NewMinGap() *MinGap {
	return &MinGap{name: "min_gap", min: math.Inf(1)}
}

func (g *MinGap) Name() string { return g.name }

func (g *MinGap) Observe(s *sim.State) {
	g.samples++
	bs := s.Bodies
	for i := range bs {
		for j := i + 1; j < len(bs); j++ {
			if gap := bs[i].Gap(bs[j]); gap < g.min {
				g.min = gap
			}
		}
	}
}

func (g *MinGap) Value() float64 {
	if g.samples == 0 || math.IsInf(g.min, 1) {
		return 0
	}
	return g.min
}

func (g *MinGap) Reset() {
	g.min = math.Inf(1)
	g.samples = 0
}

// Stability is the fraction of observed states in which no pair overlaps
// by more than tolerance.
type Stability struct {
	name       string
	tolerance  float64
	violations int
	samples    int
}

func NewStability(tolerance float64) *Stability {
	return &Stability{
		name:      "stability",
		tolerance: tolerance,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(st *sim.State) {
	s.samples++
	bs := st.Bodies
	for i := range bs {
		for j := i + 1; j < len(bs); j++ {
			if bs[i].Overlaps(bs[j], s.tolerance) {
				s.violations++
				return
			}
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
