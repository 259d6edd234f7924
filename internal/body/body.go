// Package body defines the hard disks advanced by the event loop.
//
// A [Body] is a value: advancing or resolving a collision returns a new
// Body and never mutates the receiver. Two bodies are the same body when
// their IDs match, regardless of state.
package body

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/edmd/internal/geom"
)

var ErrInvalid = errors.New("body: invalid body")

type Body struct {
	ID     int
	Pos    geom.Vec
	Vel    geom.Vec
	Radius float64
	Mass   float64
	Static bool
}

func New(id int, pos, vel geom.Vec, radius, mass float64) Body {
	return Body{ID: id, Pos: pos, Vel: vel, Radius: radius, Mass: mass}
}

// NewStatic creates an immovable obstacle: zero velocity and infinite mass.
func NewStatic(id int, pos geom.Vec, radius float64) Body {
	return Body{ID: id, Pos: pos, Radius: radius, Mass: math.Inf(1), Static: true}
}

// Advance moves the body ballistically by dt.
func (b Body) Advance(dt float64) Body {
	if b.Static {
		return b
	}
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	return b
}

// WithVel returns a copy carrying a new velocity. Static bodies keep theirs.
func (b Body) WithVel(v geom.Vec) Body {
	if b.Static {
		return b
	}
	b.Vel = v
	return b
}

func (b Body) InvMass() float64 {
	if b.Static {
		return 0
	}
	return 1 / b.Mass
}

func (b Body) KineticEnergy() float64 {
	if b.Static {
		return 0
	}
	return 0.5 * b.Mass * b.Vel.Norm2()
}

func (b Body) Momentum() geom.Vec {
	if b.Static {
		return geom.Vec{}
	}
	return b.Vel.Scale(b.Mass)
}

func (b Body) Speed() float64 { return b.Vel.Norm() }

// Same reports identity, not equality of state.
func (b Body) Same(o Body) bool { return b.ID == o.ID }

// Gap is the free distance between the two surfaces; negative on overlap.
func (b Body) Gap(o Body) float64 {
	return o.Pos.Sub(b.Pos).Norm() - (b.Radius + o.Radius)
}

// Overlaps reports penetration deeper than tol.
func (b Body) Overlaps(o Body, tol float64) bool {
	return b.Gap(o) < -tol
}

func (b Body) Validate() error {
	if !(b.Radius > 0) || math.IsInf(b.Radius, 0) {
		return fmt.Errorf("%w: id %d radius %v must be positive", ErrInvalid, b.ID, b.Radius)
	}
	if !b.Pos.IsFinite() {
		return fmt.Errorf("%w: id %d position %v", ErrInvalid, b.ID, b.Pos)
	}
	if b.Static {
		if b.Vel != (geom.Vec{}) {
			return fmt.Errorf("%w: static id %d must not move", ErrInvalid, b.ID)
		}
		return nil
	}
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return fmt.Errorf("%w: id %d mass %v must be positive and finite", ErrInvalid, b.ID, b.Mass)
	}
	if !b.Vel.IsFinite() {
		return fmt.Errorf("%w: id %d velocity %v", ErrInvalid, b.ID, b.Vel)
	}
	return nil
}

func (b Body) String() string {
	if b.Static {
		return fmt.Sprintf("Static{id=%d, x=%.6f, y=%.6f, r=%.4f}", b.ID, b.Pos.X, b.Pos.Y, b.Radius)
	}
	return fmt.Sprintf("Body{id=%d, x=%.6f, y=%.6f, vx=%.6f, vy=%.6f, r=%.4f, m=%.4f}",
		b.ID, b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y, b.Radius, b.Mass)
}
