package collision

import (
	"fmt"
	"math"

	"github.com/san-kum/edmd/internal/body"
	"github.com/san-kum/edmd/internal/boundary"
)

// Outcome is the result of resolving one contact. B is the partner disk
// after the collision (unchanged for walls and static obstacles).
// Transferred is the momentum magnitude handed to the partner surface.
type Outcome struct {
	A           body.Body
	B           body.Body
	Transferred float64
}

// ResolveBodies applies the two-body elastic impulse. The impulse is only
// applied while the pair is approaching.
func ResolveBodies(a, b body.Body) (body.Body, body.Body, float64) {
	dr := b.Pos.Sub(a.Pos)
	dv := b.Vel.Sub(a.Vel)
	dvdr := dv.Dot(dr)
	if dvdr >= 0 {
		return a, b, 0
	}
	sigma := dr.Norm()
	if sigma == 0 {
		return a, b, 0
	}
	j := 2 * a.Mass * b.Mass * dvdr / (sigma * (a.Mass + b.Mass))
	jx := j * dr.X / sigma
	jy := j * dr.Y / sigma

	a.Vel.X += jx / a.Mass
	a.Vel.Y += jy / a.Mass
	b.Vel.X -= jx / b.Mass
	b.Vel.Y -= jy / b.Mass
	return a, b, math.Abs(j)
}

// ResolveStatic reflects a's velocity about the line of centres with s:
// v' = v - 2(v.n)n. The tangential component is preserved.
func ResolveStatic(a, s body.Body) (body.Body, float64) {
	dr := s.Pos.Sub(a.Pos)
	dist := dr.Norm()
	if dist == 0 {
		return a, 0
	}
	n := dr.Scale(1 / dist)
	vn := a.Vel.Dot(n)
	if vn <= 0 {
		return a, 0
	}
	a.Vel = a.Vel.Sub(n.Scale(2 * vn))
	return a, 2 * a.Mass * vn
}

// ResolveWall negates the component of a's velocity normal to the wall.
func ResolveWall(a body.Body, bx boundary.Box, s boundary.Side) (body.Body, float64) {
	if !s.Approaching(a.Vel) {
		return a, 0
	}
	transferred := bx.Momentum(a, s)
	a.Vel = boundary.Reflect(a.Vel, s)
	return a, transferred
}

// Resolve applies the elastic law for the obstacle kind. partner is the
// other disk for KindBody and KindStatic and is ignored for walls.
func Resolve(a body.Body, o Obstacle, partner body.Body, bx boundary.Box) (Outcome, error) {
	if a.Static {
		return Outcome{}, fmt.Errorf("collision: static body %d cannot be the moving body", a.ID)
	}
	switch o.Kind {
	case KindBody:
		if partner.ID != o.ID {
			return Outcome{}, fmt.Errorf("collision: partner %d does not match obstacle %s", partner.ID, o)
		}
		if partner.Static {
			na, p := ResolveStatic(a, partner)
			return Outcome{A: na, B: partner, Transferred: p}, nil
		}
		na, nb, p := ResolveBodies(a, partner)
		return Outcome{A: na, B: nb, Transferred: p}, nil
	case KindStatic:
		if partner.ID != o.ID {
			return Outcome{}, fmt.Errorf("collision: partner %d does not match obstacle %s", partner.ID, o)
		}
		na, p := ResolveStatic(a, partner)
		return Outcome{A: na, B: partner, Transferred: p}, nil
	case KindWall:
		na, p := ResolveWall(a, bx, o.Side)
		return Outcome{A: na, Transferred: p}, nil
	}
	return Outcome{}, fmt.Errorf("collision: unknown obstacle kind %s", o.Kind)
}
