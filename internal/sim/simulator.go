package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/edmd/internal/accum"
	"github.com/san-kum/edmd/internal/body"
	"github.com/san-kum/edmd/internal/collision"
)

type Simulator struct {
	cfg       Config
	phase     Phase
	initial   *State
	current   *State
	steps     int
	fence     *collision.Fence
	ledger    *accum.Ledger
	history   *history
	tracked   map[int]bool
	metrics   []Metric
	observers []Observer
}

// New prepares a simulator in the Idle phase. Walls and static bodies are
// always accumulated; movable bodies only when listed in TrackBodies.
func New(initial *State, cfg Config) (*Simulator, error) {
	if initial == nil {
		return nil, configErr("nil initial state")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ledger, err := accum.NewLedger(cfg.BinDt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	for _, s := range accum.Walls() {
		ledger.Track(s)
	}

	tracked := make(map[int]bool)
	for _, b := range initial.Bodies {
		if b.Static {
			tracked[b.ID] = true
		}
	}
	for _, id := range cfg.TrackBodies {
		if _, ok := initial.Body(id); !ok {
			return nil, configErr("tracked body %d does not exist", id)
		}
		tracked[id] = true
	}
	for _, b := range initial.Bodies {
		if tracked[b.ID] {
			ledger.Track(accum.Obstacle(b.ID))
		}
	}

	s := &Simulator{
		cfg:       cfg,
		phase:     Idle,
		initial:   initial,
		current:   initial,
		fence:     collision.NewFence(cfg.Epsilon),
		ledger:    ledger,
		history:   newHistory(cfg.History),
		tracked:   tracked,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	s.history.Push(initial)
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Phase() Phase          { return s.phase }
func (s *Simulator) Current() *State       { return s.current }
func (s *Simulator) Steps() int            { return s.steps }
func (s *Simulator) Config() Config        { return s.cfg }
func (s *Simulator) History() []*State     { return s.history.States() }
func (s *Simulator) Ledger() *accum.Ledger { return s.ledger }

// Previous returns the state k steps before the current one, or nil when
// it is no longer retained.
func (s *Simulator) Previous(k int) *State { return s.history.Back(k) }

// Stop moves the simulator to Done.
func (s *Simulator) Stop() { s.phase = Done }

func (s *Simulator) start() {
	for _, m := range s.metrics {
		m.Reset()
		m.Observe(s.current)
	}
	s.phase = Running
}

// Step executes one atomic event: find the next contact, advance every
// body to it, resolve, accumulate at the new time and publish the new
// state.
func (s *Simulator) Step() (*Step, error) {
	switch s.phase {
	case Done:
		return nil, ErrDone
	case Idle:
		s.start()
	}

	cur := s.current
	events := NextEvents(cur, s.fence, s.cfg)
	if len(events) == 0 {
		s.phase = Done
		return nil, &StepError{Step: s.steps, Time: cur.Time, Wrapped: ErrNoEvent}
	}

	return s.execute(events)
}

// execute advances to the earliest of events and resolves all of them. The
// ledger and the current state change only once every event has resolved.
func (s *Simulator) execute(events []collision.Event) (*Step, error) {
	cur := s.current
	dt := events[0].Tc
	for _, e := range events[1:] {
		dt = math.Min(dt, e.Tc)
	}
	now := cur.Time + dt

	bodies := make([]body.Body, len(cur.Bodies))
	for i, b := range cur.Bodies {
		bodies[i] = b.Advance(dt)
	}
	next := &State{Time: now, Bodies: bodies, Box: cur.Box}

	transfers := make([]Transfer, 0, len(events))
	for _, e := range events {
		ts, err := s.resolve(next, e)
		if err != nil {
			s.phase = Done
			return nil, &StepError{Step: s.steps, Time: now, Wrapped: err}
		}
		transfers = append(transfers, ts...)
	}
	if !next.IsValid() {
		s.phase = Done
		return nil, &StepError{Step: s.steps, Time: now, Wrapped: ErrInvalidState}
	}

	if err := s.ledger.Advance(now); err != nil {
		s.phase = Done
		return nil, &StepError{Step: s.steps, Time: now, Wrapped: err}
	}
	for _, t := range transfers {
		if err := s.ledger.Record(t.Surface, now, t.Momentum, t.Body); err != nil {
			s.phase = Done
			return nil, &StepError{Step: s.steps, Time: now, Wrapped: err}
		}
	}

	s.fence.Reset(events)
	s.history.Push(next)
	s.current = next
	s.steps++

	st := &Step{
		Index:     s.steps,
		Dt:        dt,
		Events:    events,
		Transfers: transfers,
		State:     next,
	}
	for _, m := range s.metrics {
		m.Observe(next)
	}
	for _, obs := range s.observers {
		obs.OnStep(st)
	}
	return st, nil
}

// resolve applies e to next in place and returns the momentum handed to
// accumulated surfaces.
func (s *Simulator) resolve(next *State, e collision.Event) ([]Transfer, error) {
	ai := next.index(e.Body)
	if ai < 0 {
		return nil, fmt.Errorf("sim: event for unknown body %d", e.Body)
	}
	a := next.Bodies[ai]

	var partner body.Body
	bi := -1
	if e.Other.IsBody() {
		bi = next.index(e.Other.ID)
		if bi < 0 {
			return nil, fmt.Errorf("sim: event for unknown body %d", e.Other.ID)
		}
		partner = next.Bodies[bi]
	}

	out, err := collision.Resolve(a, e.Other, partner, next.Box)
	if err != nil {
		return nil, err
	}
	next.Bodies[ai] = out.A
	if bi >= 0 {
		next.Bodies[bi] = out.B
	}
	if out.Transferred <= 0 {
		return nil, nil
	}

	var ts []Transfer
	if e.Other.Kind == collision.KindWall {
		ts = append(ts, Transfer{Surface: accum.Wall(e.Other.Side), Body: a.ID, Momentum: out.Transferred})
	} else {
		if s.tracked[partner.ID] {
			ts = append(ts, Transfer{Surface: accum.Obstacle(partner.ID), Body: a.ID, Momentum: out.Transferred})
		}
		if s.tracked[a.ID] {
			ts = append(ts, Transfer{Surface: accum.Obstacle(a.ID), Body: partner.ID, Momentum: out.Transferred})
		}
	}
	return ts, nil
}

// Run steps until a budget runs out, ctx is canceled or no event remains.
// Exhausting a budget leaves the simulator Running so it can be resumed.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if s.phase == Done {
		return nil, ErrDone
	}
	if s.phase == Idle {
		s.start()
	}

	begin := time.Now()
	startSteps := s.steps
	result := &Result{Metrics: make(map[string]float64)}

	finish := func(reason StopReason) *Result {
		result.Reason = reason
		result.Steps = s.steps - startSteps
		result.TotalSteps = s.steps
		result.Time = s.current.Time
		result.Final = s.current
		result.Elapsed = time.Since(begin)
		if e0 := s.initial.KineticEnergy(); e0 != 0 {
			result.EnergyDrift = math.Abs(s.current.KineticEnergy()-e0) / math.Abs(e0)
		}
		for _, m := range s.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
		return result
	}

	for {
		select {
		case <-ctx.Done():
			return finish(StopCanceled), ctx.Err()
		default:
		}

		if s.cfg.MaxSteps > 0 && s.steps-startSteps >= s.cfg.MaxSteps {
			return finish(StopMaxSteps), nil
		}
		if s.cfg.MaxWallClock > 0 && time.Since(begin) >= s.cfg.MaxWallClock {
			return finish(StopWallClock), nil
		}
		if s.cfg.MaxTime > 0 && s.current.Time >= s.cfg.MaxTime {
			return finish(StopMaxTime), nil
		}

		if _, err := s.Step(); err != nil {
			if errors.Is(err, ErrNoEvent) {
				return finish(StopNoEvent), nil
			}
			return finish(StopError), err
		}
	}
}

// CollisionStats returns the bins of a surface, or nil when it is not
// accumulated.
func (s *Simulator) CollisionStats(surface accum.Surface) []accum.Bin {
	bins, _ := s.ledger.Stats(surface)
	return bins
}

// Pressure converts the bins of a surface into a pressure series using the
// wall length or the obstacle circumference.
func (s *Simulator) Pressure(surface accum.Surface) ([]accum.Sample, error) {
	bins, ok := s.ledger.Stats(surface)
	if !ok {
		return nil, fmt.Errorf("sim: surface %s is not accumulated", surface)
	}
	perimeter, err := s.Perimeter(surface)
	if err != nil {
		return nil, err
	}
	return accum.Pressure(bins, s.cfg.BinDt, perimeter), nil
}

// Perimeter is the contact length of a surface.
func (s *Simulator) Perimeter(surface accum.Surface) (float64, error) {
	return Perimeter(s.current, surface)
}

func Perimeter(st *State, surface accum.Surface) (float64, error) {
	if surface.Kind == accum.SurfaceWall {
		return st.Box.Length(surface.Side), nil
	}
	b, ok := st.Body(surface.ID)
	if !ok {
		return 0, fmt.Errorf("sim: unknown body %d", surface.ID)
	}
	return 2 * math.Pi * b.Radius, nil
}
