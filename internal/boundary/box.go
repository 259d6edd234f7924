// Package boundary models the rectangular enclosure [0,W]x[0,H] as four
// half-plane walls.
package boundary

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/edmd/internal/body"
	"github.com/san-kum/edmd/internal/geom"
)

var ErrDoesNotFit = errors.New("boundary: body does not fit in the box")

// Side identifies a wall. The declaration order is the tie-break order
// for walls reached at the same instant.
type Side int

const (
	Bottom Side = iota
	Right
	Top
	Left
)

var Sides = [4]Side{Bottom, Right, Top, Left}

func (s Side) String() string {
	switch s {
	case Bottom:
		return "bottom"
	case Right:
		return "right"
	case Top:
		return "top"
	case Left:
		return "left"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// ParseSide is the inverse of Side.String.
func ParseSide(name string) (Side, error) {
	for _, s := range Sides {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("boundary: unknown side %q", name)
}

// Approaching reports whether velocity v points into the wall.
func (s Side) Approaching(v geom.Vec) bool {
	switch s {
	case Bottom:
		return v.Y < 0
	case Top:
		return v.Y > 0
	case Left:
		return v.X < 0
	case Right:
		return v.X > 0
	}
	return false
}

// Vertical reports whether the wall is x=0 or x=W.
func (s Side) Vertical() bool { return s == Left || s == Right }

type Box struct {
	Width  float64
	Height float64
}

func NewBox(width, height float64) (Box, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return Box{}, fmt.Errorf("boundary: box dimensions must be positive and finite, got %vx%v", width, height)
	}
	return Box{Width: width, Height: height}, nil
}

func Square(l float64) (Box, error) { return NewBox(l, l) }

// TimeToContact is the time until b touches the given wall, or +Inf when
// the body is not moving toward it. A body already past the contact line
// while moving outward reports 0.
func (bx Box) TimeToContact(b body.Body, s Side) float64 {
	if b.Static {
		return math.Inf(1)
	}
	var tc float64
	switch s {
	case Bottom:
		if b.Vel.Y >= 0 {
			return math.Inf(1)
		}
		tc = (b.Radius - b.Pos.Y) / b.Vel.Y
	case Top:
		if b.Vel.Y <= 0 {
			return math.Inf(1)
		}
		tc = (bx.Height - b.Radius - b.Pos.Y) / b.Vel.Y
	case Left:
		if b.Vel.X >= 0 {
			return math.Inf(1)
		}
		tc = (b.Radius - b.Pos.X) / b.Vel.X
	case Right:
		if b.Vel.X <= 0 {
			return math.Inf(1)
		}
		tc = (bx.Width - b.Radius - b.Pos.X) / b.Vel.X
	default:
		return math.Inf(1)
	}
	if tc < 0 {
		return 0
	}
	return tc
}

// Contact returns the first wall b reaches and when. Equal times resolve
// to the earlier Side in declaration order.
func (bx Box) Contact(b body.Body) (Side, float64) {
	best, side := math.Inf(1), Bottom
	for _, s := range Sides {
		if tc := bx.TimeToContact(b, s); tc < best {
			best, side = tc, s
		}
	}
	return side, best
}

// Momentum transferred to the wall by an elastic contact of b.
func (bx Box) Momentum(b body.Body, s Side) float64 {
	if s.Vertical() {
		return 2 * b.Mass * math.Abs(b.Vel.X)
	}
	return 2 * b.Mass * math.Abs(b.Vel.Y)
}

// Reflect negates the velocity component perpendicular to the wall.
func Reflect(v geom.Vec, s Side) geom.Vec {
	if s.Vertical() {
		return geom.Vec{X: -v.X, Y: v.Y}
	}
	return geom.Vec{X: v.X, Y: -v.Y}
}

// Length is the contact perimeter of a wall used for pressure.
func (bx Box) Length(s Side) float64 {
	if s.Vertical() {
		return bx.Height
	}
	return bx.Width
}

func (bx Box) Perimeter() float64 { return 2 * (bx.Width + bx.Height) }

// Fits reports a configuration error when b cannot lie inside the box.
func (bx Box) Fits(b body.Body) error {
	if 2*b.Radius > bx.Width || 2*b.Radius > bx.Height {
		return fmt.Errorf("%w: id %d diameter %v exceeds %vx%v", ErrDoesNotFit, b.ID, 2*b.Radius, bx.Width, bx.Height)
	}
	if b.Pos.X < b.Radius || b.Pos.X > bx.Width-b.Radius ||
		b.Pos.Y < b.Radius || b.Pos.Y > bx.Height-b.Radius {
		return fmt.Errorf("%w: id %d at (%v, %v) radius %v", ErrDoesNotFit, b.ID, b.Pos.X, b.Pos.Y, b.Radius)
	}
	return nil
}
