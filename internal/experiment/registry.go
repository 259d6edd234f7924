package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/edmd/internal/body"
	"github.com/san-kum/edmd/internal/boundary"
	"github.com/san-kum/edmd/internal/config"
	"github.com/san-kum/edmd/internal/geom"
	"github.com/san-kum/edmd/internal/metrics"
	"github.com/san-kum/edmd/internal/setup"
	"github.com/san-kum/edmd/internal/sim"
)

// Scenario builds the initial bodies for a configuration.
type Scenario func(cfg *config.Config, bx boundary.Box, rng *rand.Rand) ([]body.Body, error)

type Registry struct {
	scenarios map[string]Scenario
}

func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]Scenario)}

	r.scenarios["random"] = func(cfg *config.Config, bx boundary.Box, rng *rand.Rand) ([]body.Body, error) {
		p := setup.Params{
			Box:    bx,
			Count:  cfg.Particles.Count,
			Radius: cfg.Particles.Radius,
			Mass:   cfg.Particles.Mass,
			Speed:  cfg.Particles.Speed,
		}
		if cfg.Obstacle.Enabled {
			p.Obstacle = &setup.Obstacle{Radius: cfg.Obstacle.Radius, Mass: cfg.Obstacle.Mass}
		}
		return setup.Random(p, rng)
	}
	// One disk touching the left wall, moving right along the midline.
	r.scenarios["single"] = func(cfg *config.Config, bx boundary.Box, _ *rand.Rand) ([]body.Body, error) {
		pt := cfg.Particles
		return []body.Body{
			body.New(1, geom.V(pt.Radius, bx.Height/2), geom.V(pt.Speed, 0), pt.Radius, pt.Mass),
		}, nil
	}
	// Two disks approaching head-on along the midline.
	r.scenarios["headon"] = func(cfg *config.Config, bx boundary.Box, _ *rand.Rand) ([]body.Body, error) {
		pt := cfg.Particles
		y := bx.Height / 2
		return []body.Body{
			body.New(1, geom.V(bx.Width/4, y), geom.V(pt.Speed, 0), pt.Radius, pt.Mass),
			body.New(2, geom.V(3*bx.Width/4, y), geom.V(-pt.Speed, 0), pt.Radius, pt.Mass),
		}, nil
	}
	// One disk hitting the central obstacle at normal incidence.
	r.scenarios["normal"] = func(cfg *config.Config, bx boundary.Box, _ *rand.Rand) ([]body.Body, error) {
		pt := cfg.Particles
		obstacle := setup.CentralObstacle(bx, setup.Obstacle{Radius: cfg.Obstacle.Radius, Mass: cfg.Obstacle.Mass})
		return []body.Body{
			obstacle,
			body.New(1, geom.V(bx.Width/4, bx.Height/2), geom.V(pt.Speed, 0), pt.Radius, pt.Mass),
		}, nil
	}

	return r
}

func (r *Registry) Register(name string, s Scenario) { r.scenarios[name] = s }

func (r *Registry) GetScenario(name string) (Scenario, error) {
	fn, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListScenarios() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Standard()
}
