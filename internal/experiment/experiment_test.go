package experiment

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/edmd/internal/accum"
	"github.com/san-kum/edmd/internal/boundary"
	"github.com/san-kum/edmd/internal/config"
	"github.com/san-kum/edmd/internal/geom"
	"github.com/san-kum/edmd/internal/sim"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	names := reg.ListScenarios()
	want := []string{"headon", "normal", "random", "single"}
	if len(names) != len(want) {
		t.Fatalf("scenarios = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("scenario %d = %s, want %s", i, names[i], want[i])
		}
	}
	if _, err := reg.GetScenario("lattice"); err == nil {
		t.Error("expected error for unknown scenario")
	}
}

func TestScenariosBuildValidStates(t *testing.T) {
	reg := NewRegistry()
	for _, scenario := range config.ListScenarios() {
		for _, preset := range config.ListPresets(scenario) {
			t.Run(scenario+"/"+preset, func(t *testing.T) {
				cfg := config.GetPreset(scenario, preset)
				fn, err := reg.GetScenario(cfg.Scenario)
				if err != nil {
					t.Fatal(err)
				}
				bx, _ := boundary.NewBox(cfg.Box.Width, cfg.Box.Height)
				bodies, err := fn(cfg, bx, rand.New(rand.NewSource(cfg.Seed)))
				if err != nil {
					t.Fatal(err)
				}
				if _, err := sim.InitialState(bodies, bx); err != nil {
					t.Errorf("invalid initial state: %v", err)
				}
			})
		}
	}
}

func TestExperiment_Single(t *testing.T) {
	cfg := config.GetPreset("single", "bounce")
	cfg.Run.MaxSteps = 2
	exp := New(cfg)
	if err := exp.Setup(NewRegistry(), nil); err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Time-1.96) > 1e-12 {
		t.Errorf("time after two bounces = %v, want 1.96", res.Time)
	}
	b, _ := res.Final.Body(1)
	if b.Vel != geom.V(1, 0) {
		t.Errorf("velocity = %v", b.Vel)
	}
}

func TestExperiment_HeadOn(t *testing.T) {
	cfg := config.GetPreset("headon", "swap")
	cfg.Run.MaxSteps = 1
	exp := New(cfg)
	if err := exp.Setup(NewRegistry(), nil); err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	a, _ := res.Final.Body(1)
	b, _ := res.Final.Body(2)
	if a.Vel != geom.V(-1, 0) || b.Vel != geom.V(1, 0) {
		t.Errorf("velocities = %v, %v", a.Vel, b.Vel)
	}
}

func TestExperiment_NormalMovable(t *testing.T) {
	cfg := config.GetPreset("normal", "reflect")
	cfg.Obstacle.Mass = 3
	cfg.Run.MaxSteps = 1
	exp := New(cfg)
	if err := exp.Setup(NewRegistry(), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	count, _, momentum := exp.GetSimulator().Ledger().Totals(accum.Obstacle(0))
	if count != 1 || momentum <= 0 {
		t.Errorf("obstacle totals = %d, %v", count, momentum)
	}
}

func TestExperiment_NotSetup(t *testing.T) {
	if _, err := New(config.DefaultConfig()).Run(context.Background()); err == nil {
		t.Error("expected error before Setup")
	}
}

func TestExperiment_UnknownScenario(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scenario = "lattice"
	if err := New(cfg).Setup(NewRegistry(), nil); err == nil {
		t.Error("expected error")
	}
}

func TestEnsemble(t *testing.T) {
	cfg := config.GetPreset("random", "movable")
	cfg.Particles.Count = 30
	cfg.Run = config.RunConfig{MaxSteps: 300, WallClock: 10 * time.Second}

	ens := NewEnsemble(cfg, NewRegistry(), 3, 10)
	outcomes, err := ens.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Seed != int64(10+i) {
			t.Errorf("outcome %d seed = %d", i, o.Seed)
		}
		if o.Result.TotalSteps != 300 {
			t.Errorf("outcome %d steps = %d", i, o.Result.TotalSteps)
		}
		if len(o.Track) != 301 {
			t.Errorf("outcome %d track = %d samples", i, len(o.Track))
		}
		if o.Result.Metrics["energy_drift"] > 1e-9 {
			t.Errorf("outcome %d drift = %v", i, o.Result.Metrics["energy_drift"])
		}
	}
	if outcomes[0].Result.Final.Bodies[1] == outcomes[1].Result.Final.Bodies[1] {
		t.Error("different seeds should give different runs")
	}

	msd := MSD(outcomes, 0.001)
	if len(msd) == 0 || msd[0].V != 0 {
		t.Errorf("msd = %v", msd)
	}
}
