package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/edmd/internal/accum"
	"github.com/san-kum/edmd/internal/config"
	"github.com/san-kum/edmd/internal/experiment"
	"github.com/san-kum/edmd/internal/sim"
)

// Point is one finished run of a grid.
type Point struct {
	Params map[string]float64
	Result *sim.Result
	// WallPressure is the total wall momentum over elapsed time and perimeter.
	WallPressure float64
	// Compressibility is P·A / E_kin; it tends to 1 for a dilute 2D gas.
	Compressibility float64
}

// Value looks a metric up by name. wall_pressure and compressibility come
// from the point itself, everything else from the run's metrics.
func (p Point) Value(metric string) (float64, bool) {
	switch metric {
	case "wall_pressure":
		return p.WallPressure, true
	case "compressibility":
		return p.Compressibility, true
	}
	if p.Result == nil {
		return 0, false
	}
	v, ok := p.Result.Metrics[metric]
	return v, ok
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := setters[name]; !ok {
			return nil, fmt.Errorf("optim: unknown parameter %q (available: %v)", name, Parameters())
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("optim: parameter %q has no values", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs base once per grid point, in row-major order over the
// parameters. A failing point aborts the search.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, reg *experiment.Registry) ([]Point, error) {
	points := make([]Point, 0, g.Size())
	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, reg, &points)
	return points, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	reg *experiment.Registry,
	points *[]Point,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		p, err := run(ctx, base, reg, current)
		if err != nil {
			return fmt.Errorf("optim: %v: %w", current, err)
		}
		*points = append(*points, p)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, reg, points); err != nil {
			return err
		}
	}
	return nil
}

func run(ctx context.Context, base *config.Config, reg *experiment.Registry, params map[string]float64) (Point, error) {
	cfg := *base
	for name, v := range params {
		setters[name](&cfg, v)
	}
	exp := experiment.New(&cfg)
	if err := exp.Setup(reg, reg.DefaultMetrics()); err != nil {
		return Point{}, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return Point{}, err
	}

	p := Point{Params: params, Result: result}
	s := exp.GetSimulator()
	box := result.Final.Box
	if result.Time > 0 {
		momentum := 0.0
		for _, w := range accum.Walls() {
			_, _, m := s.Ledger().Totals(w)
			momentum += m
		}
		p.WallPressure = momentum / (result.Time * box.Perimeter())
	}
	if e := result.Final.KineticEnergy(); e > 0 {
		p.Compressibility = p.WallPressure * box.Width * box.Height / e
	}
	return p, nil
}

// Best returns the point minimising metric.
func Best(points []Point, metric string) (Point, bool) {
	best, found := Point{}, false
	bestVal := math.Inf(1)
	for _, p := range points {
		v, ok := p.Value(metric)
		if ok && v < bestVal {
			best, bestVal, found = p, v, true
		}
	}
	return best, found
}

var setters = map[string]func(c *config.Config, v float64){
	"speed":           func(c *config.Config, v float64) { c.Particles.Speed = v },
	"particles":       func(c *config.Config, v float64) { c.Particles.Count = int(v) },
	"radius":          func(c *config.Config, v float64) { c.Particles.Radius = v },
	"mass":            func(c *config.Config, v float64) { c.Particles.Mass = v },
	"obstacle_radius": func(c *config.Config, v float64) { c.Obstacle.Radius = v },
	"obstacle_mass":   func(c *config.Config, v float64) { c.Obstacle.Mass = v },
	"box":             func(c *config.Config, v float64) { c.Box = config.BoxConfig{Width: v, Height: v} },
	"bin_dt":          func(c *config.Config, v float64) { c.Engine.BinDt = v },
	"seed":            func(c *config.Config, v float64) { c.Seed = int64(v) },
}

// Parameters lists the names a grid may vary.
func Parameters() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
