package sim

import (
	"fmt"
	"sort"
	"time"

	"github.com/san-kum/edmd/internal/accum"
	"github.com/san-kum/edmd/internal/body"
	"github.com/san-kum/edmd/internal/boundary"
	"github.com/san-kum/edmd/internal/collision"
	"github.com/san-kum/edmd/internal/geom"
)

// State is an immutable snapshot of the system. Bodies are sorted by id.
type State struct {
	Time   float64
	Bodies []body.Body
	Box    boundary.Box
}

// InitialState validates a configuration and returns the snapshot at t=0.
func InitialState(bodies []body.Body, box boundary.Box) (*State, error) {
	if _, err := boundary.NewBox(box.Width, box.Height); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if len(bodies) == 0 {
		return nil, configErr("no bodies")
	}
	bs := make([]body.Body, len(bodies))
	copy(bs, bodies)
	sort.SliceStable(bs, func(i, j int) bool { return bs[i].ID < bs[j].ID })

	for i, b := range bs {
		if i > 0 && bs[i-1].ID == b.ID {
			return nil, configErr("duplicate body id %d", b.ID)
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		if err := box.Fits(b); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
	}
	for i := range bs {
		for j := i + 1; j < len(bs); j++ {
			if bs[i].Overlaps(bs[j], collision.DefaultEpsilon) {
				return nil, configErr("bodies %d and %d overlap", bs[i].ID, bs[j].ID)
			}
		}
	}
	return &State{Time: 0, Bodies: bs, Box: box}, nil
}

// Body looks a body up by id.
func (s *State) Body(id int) (body.Body, bool) {
	i := s.index(id)
	if i < 0 {
		return body.Body{}, false
	}
	return s.Bodies[i], true
}

func (s *State) index(id int) int {
	i := sort.Search(len(s.Bodies), func(i int) bool { return s.Bodies[i].ID >= id })
	if i < len(s.Bodies) && s.Bodies[i].ID == id {
		return i
	}
	return -1
}

func (s *State) KineticEnergy() float64 {
	e := 0.0
	for _, b := range s.Bodies {
		e += b.KineticEnergy()
	}
	return e
}

func (s *State) Momentum() geom.Vec {
	var p geom.Vec
	for _, b := range s.Bodies {
		p = p.Add(b.Momentum())
	}
	return p
}

// Movable counts the non-static bodies.
func (s *State) Movable() int {
	n := 0
	for _, b := range s.Bodies {
		if !b.Static {
			n++
		}
	}
	return n
}

func (s *State) Clone() *State {
	c := *s
	c.Bodies = make([]body.Body, len(s.Bodies))
	copy(c.Bodies, s.Bodies)
	return &c
}

// IsValid reports whether every position and velocity is finite.
func (s *State) IsValid() bool {
	for _, b := range s.Bodies {
		if !b.Pos.IsFinite() || !b.Vel.IsFinite() {
			return false
		}
	}
	return true
}

// Transfer is momentum handed to one accumulated surface by a contact.
type Transfer struct {
	Surface  accum.Surface
	Body     int
	Momentum float64
}

// Step describes one executed event-loop step.
type Step struct {
	Index     int
	Dt        float64
	Events    []collision.Event
	Transfers []Transfer
	State     *State
}

type Metric interface {
	Name() string
	Observe(s *State)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(st *Step)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(st *Step)

func (f ObserverFunc) OnStep(st *Step) { f(st) }

type Phase int

const (
	Idle Phase = iota
	Running
	Done
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Done:
		return "done"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

type StopReason int

const (
	StopMaxSteps StopReason = iota
	StopWallClock
	StopMaxTime
	StopNoEvent
	StopCanceled
	StopError
)

func (r StopReason) String() string {
	switch r {
	case StopMaxSteps:
		return "max_steps"
	case StopWallClock:
		return "wall_clock"
	case StopMaxTime:
		return "max_time"
	case StopNoEvent:
		return "no_event"
	case StopCanceled:
		return "canceled"
	case StopError:
		return "error"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

type Result struct {
	Steps       int
	TotalSteps  int
	Time        float64
	Final       *State
	Reason      StopReason
	Elapsed     time.Duration
	EnergyDrift float64
	Metrics     map[string]float64
}
