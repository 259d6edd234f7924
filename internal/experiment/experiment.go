package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/edmd/internal/boundary"
	"github.com/san-kum/edmd/internal/config"
	"github.com/san-kum/edmd/internal/sim"
)

type Experiment struct {
	cfg        *config.Config
	simulator  *sim.Simulator
	randSource *rand.Rand
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Setup builds the initial state from the configured scenario and wires a
// simulator with the given metrics.
func (e *Experiment) Setup(reg *Registry, metrics []sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	scenario, err := reg.GetScenario(e.cfg.Scenario)
	if err != nil {
		return err
	}
	bx, err := boundary.NewBox(e.cfg.Box.Width, e.cfg.Box.Height)
	if err != nil {
		return err
	}
	bodies, err := scenario(e.cfg, bx, e.randSource)
	if err != nil {
		return fmt.Errorf("scenario %s: %w", e.cfg.Scenario, err)
	}
	initial, err := sim.InitialState(bodies, bx)
	if err != nil {
		return err
	}
	engine, err := e.cfg.EngineConfig()
	if err != nil {
		return err
	}
	if _, ok := initial.Body(0); !ok {
		engine.TrackBodies = nil
	}
	e.simulator, err = sim.New(initial, engine)
	if err != nil {
		return err
	}
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx)
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Config() *config.Config { return e.cfg }
