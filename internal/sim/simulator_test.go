package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/edmd/internal/accum"
	"github.com/san-kum/edmd/internal/body"
	"github.com/san-kum/edmd/internal/boundary"
	"github.com/san-kum/edmd/internal/collision"
	"github.com/san-kum/edmd/internal/geom"
)

func disk(id int, x, y, vx, vy float64) body.Body {
	return body.New(id, geom.V(x, y), geom.V(vx, vy), 0.01, 1)
}

func unitBox(t *testing.T) boundary.Box {
	t.Helper()
	bx, err := boundary.Square(1)
	if err != nil {
		t.Fatal(err)
	}
	return bx
}

func newSim(t *testing.T, cfg Config, bodies ...body.Body) *Simulator {
	t.Helper()
	st, err := InitialState(bodies, unitBox(t))
	if err != nil {
		t.Fatalf("initial state: %v", err)
	}
	s, err := New(st, cfg)
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	return s
}

func TestInitialState_Errors(t *testing.T) {
	bx := unitBox(t)
	tests := []struct {
		name   string
		bodies []body.Body
	}{
		{"empty", nil},
		{"duplicate id", []body.Body{disk(1, 0.2, 0.2, 0, 0), disk(1, 0.6, 0.6, 0, 0)}},
		{"overlap", []body.Body{disk(1, 0.5, 0.5, 0, 0), disk(2, 0.51, 0.5, 0, 0)}},
		{"outside box", []body.Body{disk(1, 0.005, 0.5, 1, 0)}},
		{"bad radius", []body.Body{body.New(1, geom.V(0.5, 0.5), geom.V(0, 0), 0, 1)}},
		{"bad mass", []body.Body{body.New(1, geom.V(0.5, 0.5), geom.V(0, 0), 0.01, -1)}},
		{"nan velocity", []body.Body{disk(1, 0.5, 0.5, math.NaN(), 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := InitialState(tt.bodies, bx)
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("want ErrConfig, got %v", err)
			}
		})
	}
}

func TestInitialState_SortsByID(t *testing.T) {
	st, err := InitialState([]body.Body{disk(5, 0.2, 0.2, 0, 0), disk(2, 0.6, 0.6, 0, 0)}, unitBox(t))
	if err != nil {
		t.Fatal(err)
	}
	if st.Bodies[0].ID != 2 || st.Bodies[1].ID != 5 {
		t.Fatalf("bodies not sorted: %v", st.Bodies)
	}
	if _, ok := st.Body(5); !ok {
		t.Error("Body(5) not found")
	}
	if _, ok := st.Body(3); ok {
		t.Error("Body(3) should not exist")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative epsilon", func(c *Config) { c.Epsilon = -1 }},
		{"zero bin", func(c *Config) { c.BinDt = 0 }},
		{"history too small", func(c *Config) { c.History = 1 }},
		{"history too large", func(c *Config) { c.History = 4 }},
		{"negative steps", func(c *Config) { c.MaxSteps = -1 }},
		{"negative max time", func(c *Config) { c.MaxTime = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"unknown tie break", func(c *Config) { c.TieBreak = TieBreak(9) }},
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrConfig) {
				t.Errorf("want ErrConfig, got %v", err)
			}
		})
	}
}

func TestParseTieBreak(t *testing.T) {
	for name, want := range map[string]TieBreak{"": TieLowestID, "lowest-id": TieLowestID, "combined": TieCombined} {
		got, err := ParseTieBreak(name)
		if err != nil || got != want {
			t.Errorf("ParseTieBreak(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseTieBreak("random"); !errors.Is(err, ErrConfig) {
		t.Errorf("want ErrConfig, got %v", err)
	}
}

func TestNew_UnknownTrackedBody(t *testing.T) {
	st, _ := InitialState([]body.Body{disk(1, 0.5, 0.5, 1, 0)}, unitBox(t))
	cfg := DefaultConfig()
	cfg.TrackBodies = []int{7}
	if _, err := New(st, cfg); !errors.Is(err, ErrConfig) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
}

func TestStep_WallBounce(t *testing.T) {
	s := newSim(t, DefaultConfig(), disk(1, 0.01, 0.5, 1, 0))
	if s.Phase() != Idle {
		t.Fatalf("phase = %v, want idle", s.Phase())
	}

	st, err := s.Step()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(st.Dt-0.98) > 1e-12 {
		t.Errorf("first dt = %v, want 0.98", st.Dt)
	}
	if got := st.Events[0].Other.Side; got != boundary.Right {
		t.Errorf("first wall = %v, want right", got)
	}
	b, _ := st.State.Body(1)
	if b.Vel != geom.V(-1, 0) {
		t.Errorf("velocity after bounce = %v, want (-1, 0)", b.Vel)
	}

	st, err = s.Step()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(st.Dt-0.98) > 1e-12 {
		t.Errorf("second dt = %v, want 0.98", st.Dt)
	}
	if got := st.Events[0].Other.Side; got != boundary.Left {
		t.Errorf("second wall = %v, want left", got)
	}
	if s.Phase() != Running {
		t.Errorf("phase = %v, want running", s.Phase())
	}
}

func TestStep_HeadOnSwap(t *testing.T) {
	s := newSim(t, DefaultConfig(), disk(1, 0.3, 0.5, 1, 0), disk(2, 0.7, 0.5, -1, 0))
	st, err := s.Step()
	if err != nil {
		t.Fatal(err)
	}
	a, _ := st.State.Body(1)
	b, _ := st.State.Body(2)
	if a.Vel != geom.V(-1, 0) || b.Vel != geom.V(1, 0) {
		t.Errorf("velocities = %v, %v; want swapped", a.Vel, b.Vel)
	}
	if math.Abs(st.Dt-0.19) > 1e-12 {
		t.Errorf("dt = %v, want 0.19", st.Dt)
	}
	if len(st.Transfers) != 0 {
		t.Errorf("untracked bodies should not accumulate, got %v", st.Transfers)
	}
}

func TestStep_StaticNormalIncidence(t *testing.T) {
	obstacle := body.NewStatic(0, geom.V(0.5, 0.5), 0.05)
	s := newSim(t, DefaultConfig(), obstacle, disk(1, 0.3, 0.5, 1, 0))

	st, err := s.Step()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := st.State.Body(1)
	if b.Vel != geom.V(-1, 0) {
		t.Errorf("velocity = %v, want (-1, 0)", b.Vel)
	}
	if len(st.Transfers) != 1 || st.Transfers[0].Surface != accum.Obstacle(0) {
		t.Fatalf("transfers = %v", st.Transfers)
	}
	if math.Abs(st.Transfers[0].Momentum-2) > 1e-12 {
		t.Errorf("momentum = %v, want 2", st.Transfers[0].Momentum)
	}
	bins := s.CollisionStats(accum.Obstacle(0))
	if len(bins) != 2 || bins[1].Count != 1 || bins[1].Unique != 1 {
		t.Errorf("bins = %+v", bins)
	}
}

func TestStep_MovableObstacleTracked(t *testing.T) {
	heavy := body.New(0, geom.V(0.5, 0.5), geom.V(0, 0), 0.05, 3)
	cfg := DefaultConfig()
	cfg.TrackBodies = []int{0}
	s := newSim(t, cfg, heavy, disk(1, 0.3, 0.5, 1, 0))

	st, err := s.Step()
	if err != nil {
		t.Fatal(err)
	}
	h, _ := st.State.Body(0)
	if h.Vel.X <= 0 {
		t.Errorf("obstacle should be pushed right, got %v", h.Vel)
	}
	// Momentum handed to the obstacle is m*dv of the obstacle.
	want := 3 * h.Vel.X
	if len(st.Transfers) != 1 || math.Abs(st.Transfers[0].Momentum-want) > 1e-12 {
		t.Errorf("transfers = %v, want %v", st.Transfers, want)
	}
}

func TestStep_NoEvent(t *testing.T) {
	s := newSim(t, DefaultConfig(), disk(1, 0.5, 0.5, 0, 0))
	_, err := s.Step()
	if !errors.Is(err, ErrNoEvent) {
		t.Fatalf("want ErrNoEvent, got %v", err)
	}
	var se *StepError
	if !errors.As(err, &se) || se.Step != 0 {
		t.Errorf("want StepError at step 0, got %v", err)
	}
	if s.Phase() != Done {
		t.Errorf("phase = %v, want done", s.Phase())
	}
	if _, err := s.Step(); !errors.Is(err, ErrDone) {
		t.Errorf("want ErrDone, got %v", err)
	}
}

func TestRun_NoEventStopsDeterministically(t *testing.T) {
	s := newSim(t, DefaultConfig(), disk(1, 0.5, 0.5, 0, 0))
	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Reason != StopNoEvent || res.Steps != 0 {
		t.Errorf("result = %+v", res)
	}
	if _, err := s.Run(context.Background()); !errors.Is(err, ErrDone) {
		t.Errorf("want ErrDone, got %v", err)
	}
}

func TestRun_Budgets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSteps = 10
	s := newSim(t, cfg, disk(1, 0.2, 0.3, 0.7, 0.4), disk(2, 0.6, 0.6, -0.3, 0.9))

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Reason != StopMaxSteps || res.Steps != 10 || res.TotalSteps != 10 {
		t.Errorf("first run = %+v", res)
	}
	if s.Phase() != Running {
		t.Errorf("phase = %v, want running", s.Phase())
	}
	res, err = s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 10 || res.TotalSteps != 20 {
		t.Errorf("second run = %+v", res)
	}
}

func TestRun_MaxTime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTime = 2
	s := newSim(t, cfg, disk(1, 0.01, 0.5, 1, 0))
	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Reason != StopMaxTime || res.Time < 2 {
		t.Errorf("result = %+v", res)
	}
	if res.Steps != 3 {
		t.Errorf("steps = %d, want 3", res.Steps)
	}
}

func TestRun_Canceled(t *testing.T) {
	s := newSim(t, DefaultConfig(), disk(1, 0.01, 0.5, 1, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if res.Reason != StopCanceled {
		t.Errorf("reason = %v", res.Reason)
	}
}

func TestHistory_Bounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.History = 2
	s := newSim(t, cfg, disk(1, 0.01, 0.5, 1, 0.3))
	for i := 0; i < 5; i++ {
		if _, err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}
	h := s.History()
	if len(h) != 2 {
		t.Fatalf("history len = %d, want 2", len(h))
	}
	if h[1] != s.Current() || s.Previous(0) != s.Current() || s.Previous(1) != h[0] {
		t.Error("history order wrong")
	}
	if s.Previous(2) != nil {
		t.Error("Previous(2) should be dropped")
	}
	if !(h[0].Time < h[1].Time) {
		t.Errorf("times not increasing: %v, %v", h[0].Time, h[1].Time)
	}
}

func TestStep_DoesNotMutatePreviousState(t *testing.T) {
	s := newSim(t, DefaultConfig(), disk(1, 0.01, 0.5, 1, 0))
	before := s.Current()
	snapshot := before.Clone()
	if _, err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if before.Bodies[0] != snapshot.Bodies[0] || before.Time != snapshot.Time {
		t.Error("previous state was mutated")
	}
}

func TestTieBreak(t *testing.T) {
	bodies := []body.Body{disk(1, 0.5, 0.3, 1, 0), disk(2, 0.5, 0.7, 1, 0)}

	t.Run("lowest id", func(t *testing.T) {
		s := newSim(t, DefaultConfig(), bodies...)
		st, err := s.Step()
		if err != nil {
			t.Fatal(err)
		}
		if len(st.Events) != 1 || st.Events[0].Body != 1 {
			t.Fatalf("events = %v", st.Events)
		}
		st, err = s.Step()
		if err != nil {
			t.Fatal(err)
		}
		if st.Events[0].Body != 2 || st.Dt > 1e-12 {
			t.Errorf("second step = %v dt %v", st.Events, st.Dt)
		}
	})

	t.Run("combined", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.TieBreak = TieCombined
		s := newSim(t, cfg, bodies...)
		st, err := s.Step()
		if err != nil {
			t.Fatal(err)
		}
		if len(st.Events) != 2 || st.Events[0].Body != 1 || st.Events[1].Body != 2 {
			t.Fatalf("events = %v", st.Events)
		}
		for _, b := range st.State.Bodies {
			if b.Vel.X != -1 {
				t.Errorf("body %d not reflected: %v", b.ID, b.Vel)
			}
		}
		bins := s.CollisionStats(accum.Wall(boundary.Right))
		if bins[len(bins)-1].Count != 2 {
			t.Errorf("right wall bins = %+v", bins)
		}
	})
}

func TestPressure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BinDt = 1
	s := newSim(t, cfg, disk(1, 0.01, 0.5, 1, 0))
	if _, err := s.Step(); err != nil {
		t.Fatal(err)
	}
	p, err := s.Pressure(accum.Wall(boundary.Right))
	if err != nil {
		t.Fatal(err)
	}
	// 2*m*v / (dt * L)
	if len(p) != 1 || math.Abs(p[0].Pressure-2) > 1e-12 {
		t.Errorf("pressure = %+v", p)
	}
	if _, err := s.Pressure(accum.Obstacle(9)); err == nil {
		t.Error("untracked surface should fail")
	}
}

type countMetric struct{ n int }

func (m *countMetric) Name() string     { return "count" }
func (m *countMetric) Observe(s *State) { m.n++ }
func (m *countMetric) Value() float64   { return float64(m.n) }
func (m *countMetric) Reset()           { m.n = 0 }

func TestMetricsAndObservers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSteps = 4
	s := newSim(t, cfg, disk(1, 0.01, 0.5, 1, 0))
	m := &countMetric{}
	s.AddMetric(m)
	var seen []int
	s.AddObserver(ObserverFunc(func(st *Step) { seen = append(seen, st.Index) }))

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Metrics["count"]; got != 5 {
		t.Errorf("metric observations = %v, want 5", got)
	}
	if len(seen) != 4 || seen[0] != 1 || seen[3] != 4 {
		t.Errorf("observer saw %v", seen)
	}
	if res.EnergyDrift != 0 {
		t.Errorf("energy drift = %v", res.EnergyDrift)
	}
}

func TestParallelFor(t *testing.T) {
	tests := []struct {
		n, minChunk, workers int
	}{
		{0, 4, 4},
		{3, 4, 4},
		{100, 4, 1},
		{100, 4, 4},
		{101, 10, 8},
		{7, 1, 16},
	}
	for _, tt := range tests {
		hits := make([]int, tt.n)
		ParallelFor(tt.n, tt.minChunk, tt.workers, func(start, end int) {
			for i := start; i < end; i++ {
				hits[i]++
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Errorf("n=%d workers=%d: index %d visited %d times", tt.n, tt.workers, i, h)
			}
		}
	}
}

func TestStep_ContactPastBinLimit(t *testing.T) {
	tests := []struct {
		name string
		vx   float64
	}{
		{"tiny velocity", 1e-300},
		{"long gap", 1e-5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSim(t, DefaultConfig(), disk(1, 0.5, 0.5, tt.vx, 0))

			_, err := s.Step()
			if !errors.Is(err, accum.ErrBinRange) {
				t.Fatalf("want ErrBinRange, got %v", err)
			}
			var se *StepError
			if !errors.As(err, &se) {
				t.Fatalf("want *StepError, got %T", err)
			}
			if s.Phase() != Done {
				t.Errorf("phase = %v, want done", s.Phase())
			}
			if s.Steps() != 0 || s.Current().Time != 0 {
				t.Errorf("state committed: steps=%d t=%v", s.Steps(), s.Current().Time)
			}
			for _, w := range accum.Walls() {
				if bins := s.CollisionStats(w); len(bins) != 1 {
					t.Errorf("%s has %d bins, want 1", w, len(bins))
				}
			}
		})
	}
}

func TestStep_LongGapWithinBinLimit(t *testing.T) {
	s := newSim(t, DefaultConfig(), disk(1, 0.5, 0.5, 1e-3, 0))

	st, err := s.Step()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(st.State.Time-490) > 1e-9 {
		t.Fatalf("contact at %v, want 490", st.State.Time)
	}
	right := s.CollisionStats(accum.Wall(boundary.Right))
	if n := len(right); n < 4900 || n > 4901 {
		t.Fatalf("right wall has %d bins", n)
	}
	if last := right[len(right)-1]; last.Count != 1 {
		t.Errorf("last bin = %+v, want the contact", last)
	}
	for _, w := range accum.Walls() {
		if n := len(s.CollisionStats(w)); n != len(right) {
			t.Errorf("%s has %d bins, want %d", w, n, len(right))
		}
	}
}

func TestRun_BinLimitStopsWithError(t *testing.T) {
	s := newSim(t, DefaultConfig(), disk(1, 0.5, 0.5, 1e-300, 0))
	res, err := s.Run(context.Background())
	if !errors.Is(err, accum.ErrBinRange) {
		t.Fatalf("want ErrBinRange, got %v", err)
	}
	if res.Reason != StopError {
		t.Errorf("reason = %v, want error", res.Reason)
	}
}

func TestExecute_FailedEventRecordsNothing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TieBreak = TieCombined
	s := newSim(t, cfg, disk(1, 0.5, 0.5, 1, 0))
	s.start()

	events := []collision.Event{
		{Tc: 0.49, Body: 1, Other: collision.WallObstacle(boundary.Right)},
		{Tc: 0.49, Body: 99, Other: collision.WallObstacle(boundary.Left)},
	}
	if _, err := s.execute(events); err == nil {
		t.Fatal("expected error for unknown body")
	}
	if count, _, _ := s.Ledger().Totals(accum.Wall(boundary.Right)); count != 0 {
		t.Errorf("right wall recorded %d contacts from a failed step", count)
	}
	if len(s.CollisionStats(accum.Wall(boundary.Right))) != 1 {
		t.Error("failed step extended the ledger")
	}
	if s.Current().Time != 0 || s.Steps() != 0 {
		t.Error("failed step committed state")
	}
	if s.Phase() != Done {
		t.Errorf("phase = %v, want done", s.Phase())
	}
}
