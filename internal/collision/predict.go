package collision

import (
	"math"

	"github.com/san-kum/edmd/internal/body"
	"github.com/san-kum/edmd/internal/boundary"
	"github.com/san-kum/edmd/internal/geom"
)

// TimeToBody is the time until the surfaces of two movable disks touch,
// or +Inf when they are not approaching or their paths miss.
func TimeToBody(a, b body.Body) float64 {
	dr := a.Pos.Sub(b.Pos)
	dv := a.Vel.Sub(b.Vel)
	return contactTime(dr, dv, a.Radius+b.Radius)
}

// TimeToStatic is TimeToBody against an immovable disk. The obstacle's
// velocity is taken as zero and its mass never enters.
func TimeToStatic(a, s body.Body) float64 {
	dr := a.Pos.Sub(s.Pos)
	return contactTime(dr, a.Vel, a.Radius+s.Radius)
}

// contactTime solves |dr + dv*t| = sigma for the earliest root.
func contactTime(dr, dv geom.Vec, sigma float64) float64 {
	b := dv.Dot(dr)
	if b >= 0 {
		return math.Inf(1)
	}
	a := dv.Norm2()
	if a == 0 {
		return math.Inf(1)
	}
	c := dr.Norm2() - sigma*sigma
	d := b*b - a*c
	if d < 0 {
		return math.Inf(1)
	}
	tc := -(b + math.Sqrt(d)) / a
	// negative only when the disks already overlap (c < 0) while approaching
	if tc < 0 {
		return 0
	}
	return tc
}

// TimeTo dispatches on the obstacle kind. other is the partner disk for
// KindBody and KindStatic and is ignored for walls.
func TimeTo(a body.Body, o Obstacle, other body.Body, bx boundary.Box) float64 {
	if a.Static {
		return math.Inf(1)
	}
	switch o.Kind {
	case KindBody:
		if other.Static {
			return TimeToStatic(a, other)
		}
		return TimeToBody(a, other)
	case KindStatic:
		return TimeToStatic(a, other)
	case KindWall:
		return bx.TimeToContact(a, o.Side)
	}
	return math.Inf(1)
}

// ObstacleFor classifies a partner disk.
func ObstacleFor(other body.Body) Obstacle {
	if other.Static {
		return StaticObstacle(other.ID)
	}
	return BodyObstacle(other.ID)
}
