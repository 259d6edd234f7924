package metrics

import "github.com/san-kum/edmd/internal/sim"

// CollisionRate is the number of steps per unit of simulated time.
type CollisionRate struct {
	name    string
	first   float64
	last    float64
	samples int
}

func NewCollisionRate() *CollisionRate {
	return &CollisionRate{name: "collision_rate"}
}

func (c *CollisionRate) Name() string { return c.name }

func (c *CollisionRate) Observe(s *sim.State) {
	if c.samples == 0 {
		c.first = s.Time
	}
	c.last = s.Time
	c.samples++
}

func (c *CollisionRate) Value() float64 {
	if c.samples < 2 || c.last <= c.first {
		return 0
	}
	return float64(c.samples-1) / (c.last - c.first)
}

func (c *CollisionRate) Reset() {
	c.first = 0
	c.last = 0
	c.samples = 0
}

// Standard returns the metrics attached to every CLI run.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewMinGap(),
		NewStability(1e-9),
		NewCollisionRate(),
	}
}
